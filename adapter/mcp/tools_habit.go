package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/jplande/HabitTracker/internal/habits/application/commands"
	"github.com/jplande/HabitTracker/internal/habits/application/queries"
)

type habitCreateInput struct {
	Title       string   `json:"title" jsonschema:"required"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Frequency   string   `json:"frequency,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Target      *float64 `json:"target,omitempty"`
}

type habitUpdateInput struct {
	HabitID     string   `json:"habit_id" jsonschema:"required"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Frequency   *string  `json:"frequency,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	Target      *float64 `json:"target,omitempty"`
	ClearTarget bool     `json:"clear_target,omitempty"`
}

type habitListInput struct {
	IncludeInactive bool   `json:"include_inactive,omitempty"`
	Category        string `json:"category,omitempty"`
}

type habitIDInput struct {
	HabitID string `json:"habit_id" jsonschema:"required"`
}

func registerHabitTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("habit.create").
		Description("Create a new habit. Categories: SPORT, SANTE, EDUCATION, TRAVAIL, LIFESTYLE, SOCIAL, CREATIVITE, FINANCE, AUTRE. Frequencies: DAILY, WEEKLY, MONTHLY").
		Handler(func(ctx context.Context, input habitCreateInput) (*commands.CreateHabitResult, error) {
			if app == nil || app.CreateHabitHandler == nil {
				return nil, errors.New("habit creation requires database connection")
			}
			if input.Title == "" {
				return nil, errors.New("title is required")
			}
			if input.Category == "" {
				input.Category = "AUTRE"
			}
			if input.Frequency == "" {
				input.Frequency = "DAILY"
			}
			if input.Unit == "" {
				input.Unit = "fois"
			}

			return app.CreateHabitHandler.Handle(ctx, commands.CreateHabitCommand{
				UserID:      app.CurrentUserID,
				Title:       input.Title,
				Description: input.Description,
				Category:    input.Category,
				Frequency:   input.Frequency,
				Unit:        input.Unit,
				Target:      input.Target,
			})
		})

	srv.Tool("habit.update").
		Description("Update the fields of a habit; omitted fields are left unchanged").
		Handler(func(ctx context.Context, input habitUpdateInput) (map[string]any, error) {
			if app == nil || app.UpdateHabitHandler == nil {
				return nil, errors.New("habit update requires database connection")
			}
			habitID, err := parseUUID(input.HabitID)
			if err != nil {
				return nil, err
			}

			if err := app.UpdateHabitHandler.Handle(ctx, commands.UpdateHabitCommand{
				UserID:      app.CurrentUserID,
				HabitID:     habitID,
				Title:       input.Title,
				Description: input.Description,
				Category:    input.Category,
				Frequency:   input.Frequency,
				Unit:        input.Unit,
				Target:      input.Target,
				ClearTarget: input.ClearTarget,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"habit_id": habitID, "updated": true}, nil
		})

	srv.Tool("habit.list").
		Description("List habits, active ones only unless include_inactive is set").
		Handler(func(ctx context.Context, input habitListInput) ([]queries.HabitDTO, error) {
			if app == nil || app.ListHabitsHandler == nil {
				return nil, errors.New("habit listing requires database connection")
			}
			return app.ListHabitsHandler.Handle(ctx, queries.ListHabitsQuery{
				UserID:          app.CurrentUserID,
				IncludeInactive: input.IncludeInactive,
				Category:        input.Category,
			})
		})

	srv.Tool("habit.get").
		Description("Get a habit by ID").
		Handler(func(ctx context.Context, input habitIDInput) (*queries.HabitDTO, error) {
			if app == nil || app.GetHabitHandler == nil {
				return nil, errors.New("habit lookup requires database connection")
			}
			habitID, err := parseUUID(input.HabitID)
			if err != nil {
				return nil, err
			}
			return app.GetHabitHandler.Handle(ctx, queries.GetHabitQuery{
				UserID:  app.CurrentUserID,
				HabitID: habitID,
			})
		})

	srv.Tool("habit.deactivate").
		Description("Deactivate a habit; its history is kept").
		Handler(func(ctx context.Context, input habitIDInput) (map[string]any, error) {
			if app == nil || app.SetHabitActiveHandler == nil {
				return nil, errors.New("habit deactivation requires database connection")
			}
			habitID, err := parseUUID(input.HabitID)
			if err != nil {
				return nil, err
			}

			if err := app.SetHabitActiveHandler.Deactivate(ctx, commands.DeactivateHabitCommand{
				UserID:  app.CurrentUserID,
				HabitID: habitID,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"habit_id": habitID, "active": false}, nil
		})

	srv.Tool("habit.activate").
		Description("Reactivate a habit").
		Handler(func(ctx context.Context, input habitIDInput) (map[string]any, error) {
			if app == nil || app.SetHabitActiveHandler == nil {
				return nil, errors.New("habit activation requires database connection")
			}
			habitID, err := parseUUID(input.HabitID)
			if err != nil {
				return nil, err
			}

			if err := app.SetHabitActiveHandler.Activate(ctx, commands.ActivateHabitCommand{
				UserID:  app.CurrentUserID,
				HabitID: habitID,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"habit_id": habitID, "active": true}, nil
		})

	return nil
}
