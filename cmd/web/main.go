// @title           Shebeka API
// @version         1.0
// @description     API доски вакансий: вакансии, отклики, уведомления и профили.
// @contact.name    Shebeka
// @contact.email   support@shebeka.com
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     Формат: "Bearer {token}"

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"shebeka_backend/database"
	"shebeka_backend/internal/app"
	"shebeka_backend/internal/config"
	"shebeka_backend/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "shebeka",
		Short:         "Shebeka job board backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadConfig()
			if err != nil {
				return err
			}
			cfg = loaded
			logger.Init(cfg.Server.Env)
			logger.Info("Logger initialized", "env", cfg.Server.Env)
			return nil
		},
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and background workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Serve(cmd.Context(), cfg)
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.AutoMigrate(cmd.Context(), db); err != nil {
				return err
			}
			logger.Info("Migrations applied")
			return nil
		},
	}

	seedAdmin := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the first ADMIN user from config",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.AutoMigrate(cmd.Context(), db); err != nil {
				return err
			}
			return app.SeedFirstAdmin(cmd.Context(), db, cfg)
		},
	}

	root.AddCommand(serve, migrate, seedAdmin)
	// без подкоманды работает как serve
	root.RunE = serve.RunE
	return root
}
