package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	achievementCommands "github.com/jplande/HabitTracker/internal/achievements/application/commands"
	achievementQueries "github.com/jplande/HabitTracker/internal/achievements/application/queries"
	achievementsDomain "github.com/jplande/HabitTracker/internal/achievements/domain"
	habitCommands "github.com/jplande/HabitTracker/internal/habits/application/commands"
	habitQueries "github.com/jplande/HabitTracker/internal/habits/application/queries"
	habitsDomain "github.com/jplande/HabitTracker/internal/habits/domain"
	identityCommands "github.com/jplande/HabitTracker/internal/identity/application/commands"
	identityQueries "github.com/jplande/HabitTracker/internal/identity/application/queries"
	identityDomain "github.com/jplande/HabitTracker/internal/identity/domain"
	insightsQueries "github.com/jplande/HabitTracker/internal/insights/application/queries"
	sharedApplication "github.com/jplande/HabitTracker/internal/shared/application"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/cache"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/database"
	_ "github.com/jplande/HabitTracker/internal/shared/infrastructure/database/postgres"
	_ "github.com/jplande/HabitTracker/internal/shared/infrastructure/database/sqlite"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/eventbus"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/migrations"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/outbox"
	"github.com/jplande/HabitTracker/pkg/config"
	"github.com/jplande/HabitTracker/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Health  *observability.HealthRegistry

	// Infrastructure
	DBConn         database.Connection
	Redis          *cache.RedisBackend
	Cache          *cache.Coordinator
	EventPublisher eventbus.Publisher
	UnitOfWork     sharedApplication.UnitOfWork

	// Repositories
	UserRepo        identityDomain.UserRepository
	HabitRepo       habitsDomain.HabitRepository
	ProgressRepo    habitsDomain.ProgressRepository
	AchievementRepo achievementsDomain.Repository
	OutboxRepo      outbox.Repository

	// Identity
	RegisterUserHandler *identityCommands.RegisterUserHandler
	GetUserHandler      *identityQueries.GetUserHandler

	// Habit and progress commands
	CreateHabitHandler    *habitCommands.CreateHabitHandler
	UpdateHabitHandler    *habitCommands.UpdateHabitHandler
	SetHabitActiveHandler *habitCommands.SetHabitActiveHandler
	LogProgressHandler    *habitCommands.LogProgressHandler
	UpdateProgressHandler *habitCommands.UpdateProgressHandler
	DeleteProgressHandler *habitCommands.DeleteProgressHandler

	// Habit and progress queries
	GetHabitHandler     *habitQueries.GetHabitHandler
	ListHabitsHandler   *habitQueries.ListHabitsHandler
	ListProgressHandler *habitQueries.ListProgressHandler

	// Insights
	HabitStatisticsHandler *insightsQueries.GetHabitStatisticsHandler
	UserStatisticsHandler  *insightsQueries.GetUserStatisticsHandler
	CompareHabitsHandler   *insightsQueries.CompareHabitsHandler
	MonthlyTrendsHandler   *insightsQueries.GetMonthlyTrendsHandler
	ChartDataHandler       *insightsQueries.GetChartDataHandler

	// Achievements
	CheckAndUnlockHandler     *achievementCommands.CheckAndUnlockHandler
	ListAchievementsHandler   *achievementQueries.ListAchievementsHandler
	AchievementSummaryHandler *achievementQueries.GetAchievementSummaryHandler

	// Outbox relay, only built with WithEventRelay
	OutboxProcessor *outbox.Processor
}

type containerOptions struct {
	metrics observability.Metrics
	relay   bool
}

// Option configures NewContainer.
type Option func(*containerOptions)

// WithMetrics sets the metrics sink shared by the cache, handlers and relay.
func WithMetrics(metrics observability.Metrics) Option {
	return func(o *containerOptions) { o.metrics = metrics }
}

// WithEventRelay connects the RabbitMQ publisher and builds the outbox
// processor. Without it events stay in the outbox for the worker.
func WithEventRelay() Option {
	return func(o *containerOptions) { o.relay = true }
}

// NewContainer creates a fully wired container. The store is SQLite unless
// cfg.DatabaseURL names a PostgreSQL server.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	o := containerOptions{metrics: observability.NoopMetrics{}}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: o.metrics,
		Health:  observability.NewHealthRegistry(),
	}

	conn, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c.DBConn = conn
	c.Health.Register("database", observability.PingChecker("database", observability.HealthStatusUnhealthy, conn.Ping))

	st, err := newStores(conn)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create repositories: %w", err)
	}
	c.UserRepo, c.HabitRepo, c.ProgressRepo = st.users, st.habits, st.progress
	c.AchievementRepo, c.OutboxRepo, c.UnitOfWork = st.achievements, st.outbox, st.uow

	c.initCache(ctx)

	if o.relay {
		if err := c.initEventRelay(); err != nil {
			c.Close()
			return nil, err
		}
	} else {
		c.EventPublisher = eventbus.NewNoopPublisher(logger)
	}

	c.initHandlers()

	if err := c.ensureLocalUserExists(ctx); err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

func openDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (database.Connection, error) {
	if cfg.UsesSQLite() {
		path := cfg.SQLitePath
		if path == "" {
			path = database.SQLitePathFromURL(cfg.DatabaseURL)
		}
		conn, err := database.NewConnection(ctx, database.Config{
			Driver:     database.DriverSQLite,
			SQLitePath: path,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
		}
		db := conn.(interface{ DB() *sql.DB }).DB()
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to run SQLite migrations: %w", err)
		}
		logger.Debug("SQLite database ready", "path", path)
		return conn, nil
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:   database.DriverPostgres,
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	pool := conn.(interface{ Pool() *pgxpool.Pool }).Pool()
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run PostgreSQL migrations: %w", err)
	}
	logger.Info("connected to database", "driver", conn.Driver())
	return conn, nil
}

// initCache prefers Redis behind a circuit breaker and falls back to the
// in-process backend when Redis is not configured or not reachable.
func (c *Container) initCache(ctx context.Context) {
	ttls := cache.TTLs{
		User:  c.Config.CacheUserTTL,
		Habit: c.Config.CacheHabitTTL,
		Chart: c.Config.CacheChartTTL,
	}
	if ttls.User <= 0 || ttls.Habit <= 0 || ttls.Chart <= 0 {
		ttls = cache.DefaultTTLs()
	}

	var backend cache.Backend = cache.NewMemoryBackend()
	if c.Config.RedisURL != "" {
		redisBackend, err := cache.NewRedisBackend(ctx, c.Config.RedisURL)
		if err != nil {
			c.Logger.Warn("redis unavailable, using in-memory cache", "error", err)
		} else {
			c.Redis = redisBackend
			backend = cache.NewBreakerBackend(redisBackend, cache.BreakerConfig{
				FailureThreshold: uint32(max(c.Config.CacheBreakerThreshold, 0)),
				Timeout:          c.Config.CacheBreakerTimeout,
			}, c.Logger)
			c.Health.Register("redis", observability.PingChecker("redis", observability.HealthStatusDegraded, redisBackend.Ping))
			c.Logger.Info("connected to Redis")
		}
	}

	c.Cache = cache.NewCoordinator(backend, ttls, c.Logger).WithMetrics(c.Metrics)
}

func (c *Container) initEventRelay() error {
	if c.Config.RabbitMQURL == "" {
		c.Logger.Warn("RABBITMQ_URL not set, outbox events will be dropped")
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
	} else {
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Config.RabbitMQExchange, c.Logger)
		switch {
		case err == nil:
			c.EventPublisher = publisher
			c.Health.Register("rabbitmq", observability.PingChecker("rabbitmq", observability.HealthStatusUnhealthy, publisher.Ping))
			c.Logger.Info("connected to RabbitMQ", "exchange", c.Config.RabbitMQExchange)
		case c.Config.IsDevelopment():
			c.Logger.Warn("RabbitMQ unavailable, using noop publisher", "error", err)
			c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		default:
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
	}

	processorConfig := outbox.DefaultProcessorConfig()
	if c.Config.OutboxPollInterval > 0 {
		processorConfig.PollInterval = c.Config.OutboxPollInterval
	}
	if c.Config.OutboxBatchSize > 0 {
		processorConfig.BatchSize = c.Config.OutboxBatchSize
	}
	if c.Config.OutboxMaxRetries > 0 {
		processorConfig.MaxRetries = c.Config.OutboxMaxRetries
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorConfig, c.Logger).WithMetrics(c.Metrics)
	return nil
}

func (c *Container) initHandlers() {
	uow := c.UnitOfWork

	c.RegisterUserHandler = identityCommands.NewRegisterUserHandler(c.UserRepo, c.OutboxRepo, uow)
	c.GetUserHandler = identityQueries.NewGetUserHandler(c.UserRepo)

	c.CreateHabitHandler = habitCommands.NewCreateHabitHandler(c.HabitRepo, c.OutboxRepo, uow, c.Cache)
	c.UpdateHabitHandler = habitCommands.NewUpdateHabitHandler(c.HabitRepo, c.OutboxRepo, uow, c.Cache)
	c.SetHabitActiveHandler = habitCommands.NewSetHabitActiveHandler(c.HabitRepo, c.OutboxRepo, uow, c.Cache)
	c.LogProgressHandler = habitCommands.NewLogProgressHandler(c.HabitRepo, c.ProgressRepo, c.OutboxRepo, uow, c.Cache)
	c.UpdateProgressHandler = habitCommands.NewUpdateProgressHandler(c.ProgressRepo, c.OutboxRepo, uow, c.Cache)
	c.DeleteProgressHandler = habitCommands.NewDeleteProgressHandler(c.ProgressRepo, c.OutboxRepo, uow, c.Cache)

	c.GetHabitHandler = habitQueries.NewGetHabitHandler(c.HabitRepo)
	c.ListHabitsHandler = habitQueries.NewListHabitsHandler(c.HabitRepo)
	c.ListProgressHandler = habitQueries.NewListProgressHandler(c.HabitRepo, c.ProgressRepo)

	insightOpts := []insightsQueries.Option{
		insightsQueries.WithLogger(c.Logger),
		insightsQueries.WithMetrics(c.Metrics),
	}
	c.HabitStatisticsHandler = insightsQueries.NewGetHabitStatisticsHandler(c.HabitRepo, c.ProgressRepo, c.Cache, insightOpts...)
	c.UserStatisticsHandler = insightsQueries.NewGetUserStatisticsHandler(c.UserRepo, c.HabitRepo, c.ProgressRepo, c.AchievementRepo, c.Cache, insightOpts...)
	c.CompareHabitsHandler = insightsQueries.NewCompareHabitsHandler(c.UserRepo, c.HabitRepo, c.ProgressRepo, c.Cache, insightOpts...)
	c.MonthlyTrendsHandler = insightsQueries.NewGetMonthlyTrendsHandler(c.UserRepo, c.ProgressRepo, c.Cache, insightOpts...)
	c.ChartDataHandler = insightsQueries.NewGetChartDataHandler(c.HabitRepo, c.ProgressRepo, c.Cache, insightOpts...)

	c.CheckAndUnlockHandler = achievementCommands.NewCheckAndUnlockHandler(
		c.UserRepo, c.HabitRepo, c.ProgressRepo, c.AchievementRepo, c.OutboxRepo, uow, c.Cache,
		achievementCommands.WithLogger(c.Logger),
		achievementCommands.WithMetrics(c.Metrics),
	)
	c.ListAchievementsHandler = achievementQueries.NewListAchievementsHandler(c.AchievementRepo)
	c.AchievementSummaryHandler = achievementQueries.NewGetAchievementSummaryHandler(c.UserRepo, c.AchievementRepo, c.ProgressRepo)
}

// CurrentUserID returns the configured default user.
func (c *Container) CurrentUserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Config.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid user ID %q", sharedDomain.ErrInvalidArgument, c.Config.UserID)
	}
	return id, nil
}

// ensureLocalUserExists seeds the configured default user so the CLI works
// against a fresh database.
func (c *Container) ensureLocalUserExists(ctx context.Context) error {
	id, err := c.CurrentUserID()
	if err != nil {
		return err
	}

	existing, err := c.UserRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check local user: %w", err)
	}
	if existing != nil {
		return nil
	}

	email, _ := identityDomain.NewEmail("local@habittracker.local")
	name, _ := identityDomain.NewName("Local User")
	if err := c.UserRepo.Save(ctx, identityDomain.NewUserWithID(id, email, name)); err != nil {
		if database.IsUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to create local user: %w", err)
	}
	c.Logger.Debug("created local user", "user_id", id)
	return nil
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Error("failed to close event publisher", "error", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Error("failed to close Redis client", "error", err)
		}
	}
	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Error("failed to close database", "error", err)
		}
	}
}
