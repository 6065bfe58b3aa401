package database

import (
	"embed"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations
var migrationsFS embed.FS

type MigrationDirection = migrate.MigrationDirection

const (
	MigrateUp   = migrate.Up
	MigrateDown = migrate.Down
)

func migrationSource(driver string) *migrate.EmbedFileSystemMigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       "migrations/" + driver,
	}
}

func dialect(driver string) string {
	if driver == "postgres" {
		return "postgres"
	}
	return "sqlite3"
}

// Migrate applies up to max migrations in direction; max 0 means all.
func (s *DB) Migrate(direction MigrationDirection, max int) (int, error) {
	log := s.log.Function("Migrate")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return 0, log.Err("failed to get database from GORM", err)
	}

	applied, err := migrate.ExecMax(sqlDB, dialect(s.Driver), migrationSource(s.Driver), direction, max)
	if err != nil {
		return applied, log.Err("failed to run migrations", err, "driver", s.Driver, "applied", applied)
	}

	log.Info("Migrations applied", "driver", s.Driver, "direction", direction, "count", applied)
	return applied, nil
}

// PendingMigrations lists migration ids not yet applied upward.
func (s *DB) PendingMigrations() ([]string, error) {
	log := s.log.Function("PendingMigrations")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return nil, log.Err("failed to get database from GORM", err)
	}

	planned, _, err := migrate.PlanMigration(sqlDB, dialect(s.Driver), migrationSource(s.Driver), migrate.Up, 0)
	if err != nil {
		return nil, log.Err("failed to plan migrations", err, "driver", s.Driver)
	}

	ids := make([]string, 0, len(planned))
	for _, m := range planned {
		ids = append(ids, m.Id)
	}
	return ids, nil
}
