package db

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/codebreaker/assets"
)

func TestOpenAndMigrate(t *testing.T) {
	t.Parallel()
	conn, err := Open(filepath.Join(t.TempDir(), "nested", "app.db"))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(conn, assets.Migrations()))
	// Second run is a no-op.
	require.NoError(t, Migrate(conn, assets.Migrations()))

	var applied int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&applied))
	assert.Equal(t, 2, applied)

	for _, table := range []string{"users", "games", "daily_results"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestMigrateFailureRollsBack(t *testing.T) {
	t.Parallel()
	conn, err := Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer conn.Close()

	bad := fstest.MapFS{
		"001_ok.sql":  {Data: []byte(`CREATE TABLE t (id INTEGER);`)},
		"002_bad.sql": {Data: []byte(`CREATE TABLE broken (;`)},
	}
	require.Error(t, Migrate(conn, bad))

	var applied int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}
