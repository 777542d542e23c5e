package main

import (
	"flag"
	"log/slog"
	"os"

	"funded/internal/app/bootstrap"
	"funded/internal/platform/config"
	"funded/internal/platform/db"
)

// Schema migration entrypoint. Reads POSTGRES_DSN the same way the API does.
//
//	migrate -action up
//	migrate -action down -steps 1
//	migrate -action version
func main() {
	action := flag.String("action", string(db.MigrateUp), "up, down or version")
	steps := flag.Int("steps", 0, "steps to roll back with -action down; 0 rolls back everything")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "event", "migrate_config_failed", "error", err.Error())
		os.Exit(1)
	}
	if err := bootstrap.RunMigration(cfg, db.MigrationAction(*action), *steps, logger); err != nil {
		logger.Error("migration failed", "event", "migrate_failed", "action", *action, "error", err.Error())
		os.Exit(1)
	}
}
