package main

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"scaffold-backend/internal/auth"
	"scaffold-backend/internal/config"
	"scaffold-backend/internal/logging"
	"scaffold-backend/internal/repositories"
	"scaffold-backend/internal/services"
)

func newMigrateCommand() *cobra.Command {
	var adminEmail, adminPassword string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations and optionally bootstrap an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (adminEmail == "") != (adminPassword == "") {
				return errors.New("--admin-email and --admin-password must be given together")
			}
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			return runMigrate(cmd.Context(), cfg, adminEmail, adminPassword)
		},
	}
	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "email of the admin account to create or reset")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "password of the admin account")
	return cmd
}

func runMigrate(ctx context.Context, cfg *config.Config, adminEmail, adminPassword string) error {
	log := logging.For("migrate")

	pool, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("Migrations applied")

	if adminEmail == "" {
		return nil
	}
	users := services.NewUserService(repositories.NewUserRepository(pool), auth.NewJWTManager(cfg))
	admin, err := users.EnsureAdmin(ctx, adminEmail, adminPassword)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"user_id": admin.ID, "email": admin.Email}).Info("Admin account ready")
	return nil
}
