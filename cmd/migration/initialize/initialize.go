package initialize

import (
	"painlog/config"
	"painlog/internal/database"
	"painlog/internal/logger"
)

// InitializeTables brings the schema up to date. It runs before the server
// starts and from the migrate up command.
func InitializeTables(db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing schema", "driver", config.DatabaseDriver)

	pending, err := db.PendingMigrations()
	if err != nil {
		return log.Err("failed to list pending migrations", err)
	}

	if len(pending) == 0 {
		log.Info("Schema is up to date")
		return nil
	}

	applied, err := db.Migrate(database.MigrateUp, 0)
	if err != nil {
		return log.Err("failed to apply migrations", err, "pending", pending)
	}

	log.Info("Table initialization complete", "applied", applied, "migrations", pending)
	return nil
}
