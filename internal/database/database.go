package database

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/username/alarm-api/internal/alarm"
	"github.com/username/alarm-api/internal/config"
	"github.com/username/alarm-api/internal/sensor"
	"github.com/username/alarm-api/internal/user"
	"github.com/username/alarm-api/internal/visualization"
	"github.com/username/alarm-api/migrations"
)

// Models lists every table the API owns, parents first.
func Models() []any {
	return []any{
		&user.User{},
		&sensor.Sensor{},
		&alarm.Alarm{},
		&visualization.Visualization{},
	}
}

// Open connects with GORM. Driver errors are translated so callers can match
// gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.URL)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.URL)
		// sqlite gets its schema from the models; relations are kept by the services
		gcfg.DisableForeignKeyConstraintWhenMigrating = true
		gcfg.IgnoreRelationshipsWhenMigrating = true
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}
	return db, nil
}

// Migrate brings the schema up to date. Postgres runs the versioned SQL files;
// sqlite, used for development and tests, is auto-migrated from the models.
func Migrate(db *gorm.DB, cfg config.DatabaseConfig, log *zap.Logger) error {
	if cfg.Driver != config.DriverPostgres {
		if err := db.AutoMigrate(Models()...); err != nil {
			return fmt.Errorf("auto-migrating: %w", err)
		}
		log.Info("schema auto-migrated", zap.String("driver", cfg.Driver))
		return nil
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.URL)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no new migrations, schema is up to date")
			return nil
		}
		return fmt.Errorf("running migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Info("migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
