package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/username/alarm-api/internal/config"
	"github.com/username/alarm-api/internal/database"
	"github.com/username/alarm-api/internal/logging"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "alarm-api",
	Short: "Sensor alarm API",
	Long: `REST API for sensors, the alarms they raise and the images attached to those alarms.

Run "alarm-api serve" to start the HTTP server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd, sensorsCmd)
}

// env is what every subcommand starts from.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Info("database connected", zap.String("driver", cfg.Database.Driver))

	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			e.log.Warn("closing database", zap.Error(err))
		}
	}
	_ = e.log.Sync()
}

func (e *env) migrate() error {
	if err := database.Migrate(e.db, e.cfg.Database, e.log); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}
	return nil
}
