package app

import (
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	achievementsDomain "github.com/jplande/HabitTracker/internal/achievements/domain"
	achievementsPersistence "github.com/jplande/HabitTracker/internal/achievements/infrastructure/persistence"
	habitsDomain "github.com/jplande/HabitTracker/internal/habits/domain"
	habitsPersistence "github.com/jplande/HabitTracker/internal/habits/infrastructure/persistence"
	identityDomain "github.com/jplande/HabitTracker/internal/identity/domain"
	identityPersistence "github.com/jplande/HabitTracker/internal/identity/infrastructure/persistence"
	sharedApplication "github.com/jplande/HabitTracker/internal/shared/application"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/database"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/jplande/HabitTracker/internal/shared/infrastructure/persistence"
)

// stores is every repository plus the unit of work, bound to one connection.
type stores struct {
	users        identityDomain.UserRepository
	habits       habitsDomain.HabitRepository
	progress     habitsDomain.ProgressRepository
	achievements achievementsDomain.Repository
	outbox       outbox.Repository
	uow          sharedApplication.UnitOfWork
}

// newStores picks the repository implementations matching conn's driver.
// The connection must expose its native handle: Pool() for PostgreSQL and
// DB() for SQLite.
func newStores(conn database.Connection) (*stores, error) {
	switch driver := conn.Driver(); driver {
	case database.DriverPostgres:
		handle, ok := conn.(interface{ Pool() *pgxpool.Pool })
		if !ok {
			return nil, fmt.Errorf("%s connection does not expose Pool()", driver)
		}
		pool := handle.Pool()
		return &stores{
			users:        identityPersistence.NewPostgresUserRepository(pool),
			habits:       habitsPersistence.NewPostgresHabitRepository(pool),
			progress:     habitsPersistence.NewPostgresProgressRepository(pool),
			achievements: achievementsPersistence.NewPostgresAchievementRepository(pool),
			outbox:       outbox.NewPostgresRepository(pool),
			uow:          sharedPersistence.NewPostgresUnitOfWork(pool),
		}, nil

	case database.DriverSQLite:
		handle, ok := conn.(interface{ DB() *sql.DB })
		if !ok {
			return nil, fmt.Errorf("%s connection does not expose DB()", driver)
		}
		db := handle.DB()
		return &stores{
			users:        identityPersistence.NewSQLiteUserRepository(db),
			habits:       habitsPersistence.NewSQLiteHabitRepository(db),
			progress:     habitsPersistence.NewSQLiteProgressRepository(db),
			achievements: achievementsPersistence.NewSQLiteAchievementRepository(db),
			outbox:       outbox.NewSQLiteRepository(db),
			uow:          sharedPersistence.NewSQLiteUnitOfWork(db),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
}
