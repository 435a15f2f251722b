package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"opencaption/internal/app/repository/sqlite"
)

// SetupTestStore opens a fresh SQLite store in a temp directory and closes
// it when the test ends.
func SetupTestStore(t *testing.T) *sqlite.SQLiteDB {
	t.Helper()
	db, err := sqlite.NewSQLiteDB(context.Background(), filepath.Join(t.TempDir(), "opencaption.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
