package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/teamseason/backend/internal/infrastructure/config"
	"github.com/teamseason/backend/internal/infrastructure/logger"
	"github.com/teamseason/backend/internal/infrastructure/persistence"
)

// Applies the schema to the configured database and exits. The server
// migrates on startup too; this command exists for deploy pipelines
// that run migrations before rolling the new binary.
func main() {
	var dryRun bool
	flag.BoolVar(&dryRun, "dry-run", false, "connect and report, but do not migrate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if dryRun {
		log.Info("Dry run: database reachable, skipping migration",
			zap.String("driver", cfg.Database.Driver))
		return
	}

	if err := db.Migrate(); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	log.Info("Migration complete", zap.String("driver", cfg.Database.Driver))
}
