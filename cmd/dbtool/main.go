package main

import (
	"context"
	"database/sql"
	"log"
	"mission-route-service/internal/adapters/repositories"
	"mission-route-service/internal/config"
	"mission-route-service/internal/platform/db"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dbtool",
		Short:         "Manage the mission-route-service database",
		SilenceUsage:  true,
	}

	root.AddCommand(newMigrateCmd(), newSeedCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect schema migrations",
	}

	steps := []struct {
		use   string
		short string
		run   func(context.Context, *sql.DB) error
	}{
		{"up", "Apply every pending migration", repositories.MigrateUp},
		{"down", "Roll back the most recent migration", repositories.MigrateDown},
		{"status", "Print the state of every migration", repositories.MigrateStatus},
	}

	for _, s := range steps {
		migrate.AddCommand(&cobra.Command{
			Use:   s.use,
			Short: s.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), func(conn *sql.DB, _ *config.Config) error {
					log.Printf("Running migrate %s...", s.use)
					if err := s.run(cmd.Context(), conn); err != nil {
						return err
					}
					log.Printf("migrate %s complete.", s.use)
					return nil
				})
			},
		})
	}

	return migrate
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load unit locations and rate settings from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(conn *sql.DB, cfg *config.Config) error {
				path := file
				if path == "" {
					path = cfg.SeedPath
				}

				log.Printf("Seeding database from %s...", path)
				if err := repositories.SeedFromJSON(cmd.Context(), db.Wrap(conn), path); err != nil {
					return err
				}
				log.Println("Seeding complete.")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "seed file (defaults to SEED_PATH)")
	return cmd
}

func withDB(ctx context.Context, fn func(*sql.DB, *config.Config) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(conn, cfg)
}
