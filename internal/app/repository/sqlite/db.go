package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	apperrors "opencaption/internal/app/errors"
	"opencaption/internal/app/repository"
)

// SQLiteDB is the SQLite implementation of repository.Store.
type SQLiteDB struct {
	*repository.CommonDB
}

var _ repository.Store = (*SQLiteDB)(nil)

// DSN builds the connection string. Foreign keys must be enabled per
// connection for cascade deletes to work.
func DSN(dbPath string) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", "5000")
	params.Set("_txlock", "immediate")
	params.Set("_journal_mode", "WAL")
	return fmt.Sprintf("file:%s?%s", dbPath, params.Encode())
}

// NewSQLiteDB opens (creating if needed) the database at dbPath and applies
// the schema.
func NewSQLiteDB(ctx context.Context, dbPath string) (*SQLiteDB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, apperrors.Persistence(err, "create database directory")
	}
	db, err := sql.Open("sqlite3", DSN(dbPath))
	if err != nil {
		return nil, apperrors.Persistence(err, "open sqlite database")
	}
	common := repository.NewCommonDB(db, "sqlite3")
	if err := common.Migrate(ctx, repository.SQLiteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteDB{CommonDB: common}, nil
}
