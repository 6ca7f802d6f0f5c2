package source

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	noop := func(context.Context, string) (*sql.DB, error) { return nil, nil }

	require.NoError(t, r.Register("memory", noop))
	assert.Error(t, r.Register("memory", noop))
	assert.Error(t, r.Register("", noop))
	assert.Error(t, r.Register("other", nil))
	assert.Equal(t, []string{"memory"}, r.ListBackends())
}

func TestRegistry_Open(t *testing.T) {
	r := NewRegistry()
	var gotTarget string
	require.NoError(t, r.Register("fake", func(_ context.Context, target string) (*sql.DB, error) {
		gotTarget = target
		return nil, errors.New("unreachable")
	}))

	_, err := r.Open(context.Background(), "fake", "profile.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open fake backend")
	assert.Equal(t, "profile.yaml", gotTarget)

	_, err = r.Open(context.Background(), "postgres", "")
	assert.ErrorContains(t, err, `backend "postgres" is not registered`)
}

func TestNewDefaultRegistry(t *testing.T) {
	r, err := NewDefaultRegistry("flows")
	require.NoError(t, err)
	assert.Equal(t, []string{BackendDatabricks, BackendDuckDB, BackendSnowflake}, r.ListBackends())

	db, err := r.Open(context.Background(), BackendDuckDB, filepath.Join(t.TempDir(), "atlas.duckdb"))
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM flows").Scan(&count))
	assert.Zero(t, count)
}
