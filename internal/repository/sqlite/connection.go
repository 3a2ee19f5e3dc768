package sqlite

import (
	"context"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/util/dbutil"

	"github.com/dtroode/senderkeys/internal/repository/sqlite/upgrades"
)

const dialect = "sqlite3"

// Open opens the database file at path and brings its schema up to date.
func Open(ctx context.Context, path string) (*dbutil.Database, error) {
	uri := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on", path)
	db, err := dbutil.NewWithDialect(uri, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.UpgradeTable = upgrades.Table
	if err := db.Upgrade(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to upgrade sqlite database: %w", err)
	}

	return db, nil
}
