package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVRepo_GetSet(t *testing.T) {
	ctx := context.Background()
	db, err := NewDB(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	repo := NewKVRepo(db)

	_, ok, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "k", "first"))
	require.NoError(t, repo.Set(ctx, "k", "second"))

	v, ok, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestNewDB_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "geodrop.db")

	db, err := NewDB(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewKVRepo(db).Set(ctx, "jetstreamin-ar-content", `[]`))
	require.NoError(t, db.Close())

	// Reopening runs migrations again; they must be idempotent
	db, err = NewDB(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	v, ok, err := NewKVRepo(db).Get(ctx, "jetstreamin-ar-content")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)
}
