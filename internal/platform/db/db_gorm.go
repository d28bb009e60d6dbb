package db

import (
	"fmt"
	"log"
	"time"

	gpostgres "gorm.io/driver/postgres"
	gsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_dashboard/internal/config"
	"stock_dashboard/internal/feature/snapshots/adapters"
)

// OpenDB opens the snapshot store. SQLite is the default for local use;
// Postgres is selected via config for deployments. Postgres startup is
// retried because the database container may come up after the app.
func OpenDB(cfg config.DB) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case "postgres":
		deadline := time.Now().Add(60 * time.Second)
		for {
			db, err = gorm.Open(gpostgres.Open(cfg.DSN), &gorm.Config{})
			if err == nil {
				break
			}
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("DB connect failed after 60s: %w", err)
			}
			log.Printf("DB connect failed, retrying...: %v", err)
			time.Sleep(3 * time.Second)
		}
	case "sqlite", "":
		db, err = gorm.Open(gsqlite.Open(cfg.DSN), &gorm.Config{})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
	}

	// マイグレーション
	if err := db.AutoMigrate(&adapters.SnapshotModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return db, nil
}
