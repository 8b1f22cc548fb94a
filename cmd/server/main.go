package main

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"scaffold-backend/internal/config"
	"scaffold-backend/internal/database"
	"scaffold-backend/internal/db"
	"scaffold-backend/internal/logging"
	"scaffold-backend/internal/timeutil"
	"scaffold-backend/migrations"
)

func main() {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Scaffold rental back office",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newMigrateCommand())

	if err := root.Execute(); err != nil {
		logrus.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

// bootstrap loads configuration and applies the process-wide settings
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if err := timeutil.SetLocation(cfg.Business.Timezone); err != nil {
		logging.For("main").WithError(err).Warn("Unknown business timezone, using fallback")
	}
	return cfg, nil
}

// openDatabase connects and brings the schema up to date
func openDatabase(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := database.NewMigrator(pool, migrations.FS).RunMigrations(migrateCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
