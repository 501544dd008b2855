package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/jplande/HabitTracker/internal/identity/application/commands"
	"github.com/jplande/HabitTracker/internal/identity/application/queries"
)

type userRegisterInput struct {
	Email string `json:"email" jsonschema:"required"`
	Name  string `json:"name" jsonschema:"required"`
}

func registerUserTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("user.me").
		Description("Get the current user").
		Handler(func(ctx context.Context, input struct{}) (*queries.UserDTO, error) {
			if app == nil || app.GetUserHandler == nil {
				return nil, errors.New("user lookup requires database connection")
			}
			return app.GetUserHandler.Handle(ctx, queries.GetUserQuery{UserID: app.CurrentUserID})
		})

	srv.Tool("user.register").
		Description("Register a new user with a unique email").
		Handler(func(ctx context.Context, input userRegisterInput) (*commands.RegisterUserResult, error) {
			if app == nil || app.RegisterUserHandler == nil {
				return nil, errors.New("user registration requires database connection")
			}
			return app.RegisterUserHandler.Handle(ctx, commands.RegisterUserCommand{
				Email: input.Email,
				Name:  input.Name,
			})
		})

	return nil
}
