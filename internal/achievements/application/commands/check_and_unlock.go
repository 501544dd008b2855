package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/achievements/domain"
	habitsDomain "github.com/jplande/HabitTracker/internal/habits/domain"
	identityDomain "github.com/jplande/HabitTracker/internal/identity/domain"
	sharedApplication "github.com/jplande/HabitTracker/internal/shared/application"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/outbox"
	"github.com/jplande/HabitTracker/pkg/observability"
	"golang.org/x/sync/errgroup"
)

// UserFinder loads users.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identityDomain.User, error)
}

// CacheInvalidator evicts a user's cached analytics.
type CacheInvalidator interface {
	InvalidateUser(ctx context.Context, userID string)
}

// CheckAndUnlockCommand evaluates the achievement catalog for a user. HabitID
// names the habit being checked, if any. A non-empty Type restricts
// evaluation to rules of that type.
type CheckAndUnlockCommand struct {
	UserID  uuid.UUID
	HabitID *uuid.UUID
	Type    string
}

// UnlockedAchievement describes a newly stored achievement.
type UnlockedAchievement struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	HabitID     *uuid.UUID `json:"habit_id,omitempty"`
	UnlockedAt  time.Time  `json:"unlocked_at"`
}

// CheckAndUnlockResult lists what the check unlocked.
type CheckAndUnlockResult struct {
	NewlyUnlockedCount int                   `json:"newly_unlocked_count"`
	NewlyUnlocked      []UnlockedAchievement `json:"newly_unlocked"`
}

// CheckAndUnlockHandler handles CheckAndUnlockCommand.
type CheckAndUnlockHandler struct {
	users        UserFinder
	habitRepo    habitsDomain.HabitRepository
	progressRepo habitsDomain.ProgressRepository
	repo         domain.Repository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
	cache        CacheInvalidator
	rules        []domain.Rule
	now          func() time.Time
	logger       *slog.Logger
	metrics      observability.Metrics
}

// Option configures a CheckAndUnlockHandler.
type Option func(*CheckAndUnlockHandler)

// WithNow overrides the clock used for unlock times and streaks.
func WithNow(now func() time.Time) Option {
	return func(h *CheckAndUnlockHandler) { h.now = now }
}

// WithLogger sets the handler's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *CheckAndUnlockHandler) { h.logger = logger }
}

// WithMetrics sets the handler's metrics sink.
func WithMetrics(metrics observability.Metrics) Option {
	return func(h *CheckAndUnlockHandler) { h.metrics = metrics }
}

// WithRules replaces the default catalog.
func WithRules(rules []domain.Rule) Option {
	return func(h *CheckAndUnlockHandler) { h.rules = rules }
}

// NewCheckAndUnlockHandler creates a new CheckAndUnlockHandler. cache may be nil.
func NewCheckAndUnlockHandler(
	users UserFinder,
	habitRepo habitsDomain.HabitRepository,
	progressRepo habitsDomain.ProgressRepository,
	repo domain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cache CacheInvalidator,
	opts ...Option,
) *CheckAndUnlockHandler {
	h := &CheckAndUnlockHandler{
		users:        users,
		habitRepo:    habitRepo,
		progressRepo: progressRepo,
		repo:         repo,
		outboxRepo:   outboxRepo,
		uow:          uow,
		cache:        cache,
		rules:        domain.Catalog(),
		now:          time.Now,
		logger:       slog.Default(),
		metrics:      observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle executes the command. It is idempotent: rules already unlocked are
// skipped, and a concurrent check that stores the same identity first wins
// without error.
func (h *CheckAndUnlockHandler) Handle(ctx context.Context, cmd CheckAndUnlockCommand) (*CheckAndUnlockResult, error) {
	var only domain.Type
	if cmd.Type != "" {
		t, err := domain.ParseType(cmd.Type)
		if err != nil {
			return nil, err
		}
		only = t
	}

	user, err := h.users.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, transient("load user", err)
	}
	if user == nil {
		return nil, identityDomain.ErrUserNotFound
	}
	if cmd.HabitID != nil {
		habit, err := h.habitRepo.FindByID(ctx, *cmd.HabitID)
		if err != nil {
			return nil, transient("load habit", err)
		}
		if habit == nil || !habit.BelongsTo(cmd.UserID) {
			return nil, habitsDomain.ErrHabitNotFound
		}
	}

	now := h.now()
	state, err := h.loadState(ctx, cmd.UserID, sharedDomain.NewDay(now))
	if err != nil {
		return nil, err
	}

	var pending []*domain.Achievement
	for _, rule := range domain.Evaluate(h.rules, state, only) {
		exists, err := h.repo.ExistsByIdentity(ctx, domain.Identity{UserID: cmd.UserID, Name: rule.Name, Type: rule.Type})
		if err != nil {
			return nil, transient("check achievement", err)
		}
		if !exists {
			pending = append(pending, domain.Unlock(cmd.UserID, cmd.HabitID, rule, now))
		}
	}

	result := &CheckAndUnlockResult{NewlyUnlocked: []UnlockedAchievement{}}
	if len(pending) == 0 {
		return result, nil
	}

	var inserted []*domain.Achievement
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		saved, err := h.repo.SaveAll(txCtx, pending)
		if err != nil {
			return transient("save achievements", err)
		}
		inserted = saved

		var events []sharedDomain.DomainEvent
		for _, a := range saved {
			events = append(events, a.DomainEvents()...)
		}
		if len(events) == 0 {
			return nil
		}
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, cmd.UserID))
		msgs, err := outbox.NewMessages(events)
		if err != nil {
			return err
		}
		if err := h.outboxRepo.SaveBatch(txCtx, msgs); err != nil {
			return transient("save outbox", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, a := range inserted {
		a.ClearDomainEvents()
		result.NewlyUnlocked = append(result.NewlyUnlocked, toUnlocked(a))
		h.metrics.Counter(observability.MetricAchievementsUnlocked, 1, observability.T("type", string(a.Type())))
	}
	result.NewlyUnlockedCount = len(inserted)

	if len(inserted) > 0 {
		if h.cache != nil {
			h.cache.InvalidateUser(ctx, cmd.UserID.String())
		}
		h.logger.InfoContext(ctx, "achievements unlocked",
			observability.UserIDKey, cmd.UserID.String(),
			"count", len(inserted),
		)
	}
	return result, nil
}

func (h *CheckAndUnlockHandler) loadState(ctx context.Context, userID uuid.UUID, today sharedDomain.Day) (domain.AggregateState, error) {
	var (
		habits  []*habitsDomain.Habit
		entries []*habitsDomain.ProgressEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		habits, err = h.habitRepo.FindByUser(gctx, userID, false)
		if err != nil {
			return transient("load habits", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		entries, err = h.progressRepo.FindByUser(gctx, userID)
		if err != nil {
			return transient("load progress", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.AggregateState{}, err
	}
	return BuildState(habits, entries, today), nil
}

func toUnlocked(a *domain.Achievement) UnlockedAchievement {
	return UnlockedAchievement{
		ID:          a.ID(),
		Name:        a.Name(),
		Description: a.Description(),
		Icon:        a.Icon(),
		Type:        string(a.Type()),
		Category:    a.Type().Category(),
		HabitID:     a.HabitID(),
		UnlockedAt:  a.UnlockedAt(),
	}
}

func transient(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", sharedDomain.ErrTransient, op, err)
}
