// Command create-admin provisions the admin login out-of-band. The API has
// no endpoint for creating admins.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"orgsite/m/domain"
	"orgsite/m/internal/auth"
	"orgsite/m/internal/config"
	"orgsite/m/internal/database"
	"orgsite/m/internal/migrations"
	"orgsite/m/internal/repository"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:          "create-admin",
		Short:        "Create an admin user for the site backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			if username == "" || password == "" {
				return errors.New("username and password are required (use --password or ADMIN_PASSWORD)")
			}

			cfg := config.Load()
			db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := migrations.Run(db); err != nil {
				return err
			}

			admin, err := createAdmin(cmd.Context(), repository.NewAdmins(db), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin user %q created (id %d).\n", admin.Username, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "admin", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password (defaults to $ADMIN_PASSWORD)")
	return cmd
}

type adminCreator interface {
	Create(ctx context.Context, username, passwordHash string) (domain.AdminUser, error)
}

func createAdmin(ctx context.Context, admins adminCreator, username, password string) (domain.AdminUser, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.AdminUser{}, err
	}
	admin, err := admins.Create(ctx, username, hash)
	if errors.Is(err, repository.ErrConflict) {
		return domain.AdminUser{}, fmt.Errorf("admin %q already exists", username)
	}
	if err != nil {
		return domain.AdminUser{}, err
	}
	return admin, nil
}
