package pg

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	apperrors "opencaption/internal/app/errors"
	"opencaption/internal/app/repository"
)

// PostgresDB is the PostgreSQL implementation of repository.Store.
type PostgresDB struct {
	*repository.CommonDB
}

var _ repository.Store = (*PostgresDB)(nil)

// NewPostgresDB opens a connection pool for dsn. It does not contact the
// server; call Migrate before first use.
func NewPostgresDB(dsn string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, apperrors.Persistence(err, "open postgres database")
	}
	return &PostgresDB{CommonDB: repository.NewCommonDB(db, "postgres")}, nil
}

// NewPostgresDBWithDB wraps an existing handle, e.g. one from sqlmock.
func NewPostgresDBWithDB(db *sql.DB) *PostgresDB {
	return &PostgresDB{CommonDB: repository.NewCommonDB(db, "postgres")}
}

// Open connects, pings and migrates.
func Open(ctx context.Context, dsn string) (*PostgresDB, error) {
	p, err := NewPostgresDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := p.DB().PingContext(ctx); err != nil {
		p.Close()
		return nil, apperrors.Persistence(err, "ping postgres")
	}
	if err := p.Migrate(ctx, repository.PostgresSchema); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}
