package main

import (
	"fmt"

	"painlog/cmd/migration/seed"
	"painlog/config"
	"painlog/internal/database"
	"painlog/internal/logger"

	"github.com/spf13/cobra"
)

var migrateMax int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations(cmd, database.MigrateUp)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations (one by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("max") {
			migrateMax = 1
		}
		return runMigrations(cmd, database.MigrateDown)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations not yet applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db database.DB, _ config.Config) error {
			pending, err := db.PendingMigrations()
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, id := range pending {
				fmt.Fprintf(cmd.OutOrStdout(), "pending  %s\n", id)
			}
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo data for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db database.DB, config config.Config) error {
			if _, err := db.Migrate(database.MigrateUp, 0); err != nil {
				return err
			}
			return seed.Seed(db.SQL, config, logger.New("seed"))
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{migrateUpCmd, migrateDownCmd} {
		cmd.Flags().IntVar(&migrateMax, "max", 0, "maximum number of migrations to apply, 0 for all")
	}
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

func withDatabase(fn func(db database.DB, config config.Config) error) error {
	config, err := config.InitConfig()
	if err != nil {
		return err
	}
	logger.SetupDefault(config.LogLevel, config.LogFormat)

	db, err := database.New(config)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db, config)
}

func runMigrations(cmd *cobra.Command, direction database.MigrationDirection) error {
	return withDatabase(func(db database.DB, _ config.Config) error {
		applied, err := db.Migrate(direction, migrateMax)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
		return nil
	})
}
