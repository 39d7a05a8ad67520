package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesFileAndDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bot.db")

	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
	assert.FileExists(t, path)
}

func TestMigrateIsRepeatable(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	defer db.Close()

	schema := `CREATE TABLE IF NOT EXISTS things (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL)`
	require.NoError(t, Migrate(ctx, db, schema))
	require.NoError(t, Migrate(ctx, db, schema))

	_, err = db.Exec(`INSERT INTO things (name) VALUES ('a')`)
	require.NoError(t, err)
}

func TestMigrateReportsBadSchema(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, Migrate(ctx, db, "CREATE NONSENSE"))
}
