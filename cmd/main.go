package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go-clinic-booking/cmd/bootstrap"
	"go-clinic-booking/config"
	"go-clinic-booking/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-booking",
		Short: "Clinic booking API with UHID allocation and daily ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(resyncCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	app, err := bootstrap.New()
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	app.Run()
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				return m.Up()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				steps = n
			}
			return withMigrator(func(m *database.Migrator) error {
				return m.Down(steps)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Printf("version=%d dirty=%v\n", version, dirty)
				return nil
			})
		},
	})

	return cmd
}

func withMigrator(fn func(*database.Migrator) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return bootstrap.Migrate(cfg, fn)
}

func resyncCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "resync-summaries",
		Short: "Copy recent daily summaries from Postgres into Redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Connect()
			if err != nil {
				return err
			}
			defer app.Close()

			if days == 0 {
				days = app.Config.Ledger.ResyncWindowDays
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			synced, err := app.ResyncSummaries(ctx, days)
			if err != nil {
				return fmt.Errorf("resync failed after %d rows: %w", synced, err)
			}
			fmt.Printf("mirrored %d daily summaries\n", synced)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "days to resync, counting today (defaults to LEDGER_RESYNC_WINDOW_DAYS)")

	return cmd
}
