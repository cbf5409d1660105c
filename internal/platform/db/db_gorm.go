package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	notesentity "stocknotes/internal/feature/notes/domain/entity"
	symbolsentity "stocknotes/internal/feature/symbols/domain/entity"
	targetsentity "stocknotes/internal/feature/targets/domain/entity"
	templatesentity "stocknotes/internal/feature/templates/domain/entity"
	"stocknotes/internal/platform/config"
)

const (
	connectDeadline = 60 * time.Second
	retryInterval   = 3 * time.Second
)

// Open はドライバ設定に従ってデータベース接続を開きます。
// postgresは起動順の揺れに備えてリトライします。sqliteは即時に開きます。
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{})
	case "postgres":
		return openWithRetry(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

func openWithRetry(dsn string) (*gorm.DB, error) {
	deadline := time.Now().Add(connectDeadline)
	for {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("database connect failed after %s: %w", connectDeadline, err)
		}
		slog.Warn("database connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// Migrate は全エンティティのスキーマを適用します。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&symbolsentity.Symbol{},
		&notesentity.Tag{},
		&notesentity.Note{},
		&targetsentity.PriceTarget{},
		&templatesentity.TemplateData{},
	)
}
