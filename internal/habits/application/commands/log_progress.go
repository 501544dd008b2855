package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/habits/domain"
	sharedApplication "github.com/jplande/HabitTracker/internal/shared/application"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/database"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/outbox"
)

// LogProgressCommand records a value for a habit on a day. A zero Day means
// today.
type LogProgressCommand struct {
	UserID  uuid.UUID
	HabitID uuid.UUID
	Day     sharedDomain.Day
	Value   float64
	Note    string
}

// LogProgressResult contains the result of logging progress.
type LogProgressResult struct {
	EntryID uuid.UUID        `json:"entry_id"`
	Day     sharedDomain.Day `json:"day"`
}

// LogProgressHandler handles the LogProgressCommand.
type LogProgressHandler struct {
	habitRepo    domain.HabitRepository
	progressRepo domain.ProgressRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
	cache        CacheInvalidator
	today        func() sharedDomain.Day
}

// NewLogProgressHandler creates a new LogProgressHandler.
func NewLogProgressHandler(
	habitRepo domain.HabitRepository,
	progressRepo domain.ProgressRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cache CacheInvalidator,
) *LogProgressHandler {
	return &LogProgressHandler{
		habitRepo:    habitRepo,
		progressRepo: progressRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
		cache:        orNoop(cache),
		today:        sharedDomain.Today,
	}
}

// WithClock overrides how the handler determines today.
func (h *LogProgressHandler) WithClock(today func() sharedDomain.Day) *LogProgressHandler {
	h.today = today
	return h
}

// Handle executes the LogProgressCommand. A second entry for the same habit
// and day is a conflict.
func (h *LogProgressHandler) Handle(ctx context.Context, cmd LogProgressCommand) (*LogProgressResult, error) {
	today := h.today()
	day := cmd.Day
	if day.IsZero() {
		day = today
	}

	var result *LogProgressResult
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		habit, err := loadOwnedHabit(txCtx, h.habitRepo, cmd.UserID, cmd.HabitID)
		if err != nil {
			return err
		}

		exists, err := h.progressRepo.ExistsFor(txCtx, cmd.UserID, cmd.HabitID, day)
		if err != nil {
			return fmt.Errorf("%w: check progress: %v", sharedDomain.ErrTransient, err)
		}
		if exists {
			return domain.ErrProgressExists
		}

		entry, err := domain.NewProgressEntry(habit, day, cmd.Value, cmd.Note, today)
		if err != nil {
			return err
		}

		if err := h.progressRepo.Save(txCtx, entry); err != nil {
			if database.IsUniqueViolation(err) {
				return domain.ErrProgressExists
			}
			return fmt.Errorf("%w: save progress: %v", sharedDomain.ErrTransient, err)
		}
		if err := saveEvents(ctx, txCtx, h.outboxRepo, cmd.UserID, entry.DomainEvents()); err != nil {
			return err
		}

		result = &LogProgressResult{EntryID: entry.ID(), Day: day}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.cache.InvalidateHabit(ctx, cmd.HabitID.String())
	h.cache.InvalidateUser(ctx, cmd.UserID.String())
	return result, nil
}
