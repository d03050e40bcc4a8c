package metadata_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fileshare/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fileshare/internal/client/session"
)

func newRepo(t *testing.T) *metadata.SQLiteMetadataRepository {
	t.Helper()
	db, err := session.OpenDatabase(context.Background(), filepath.Join(t.TempDir(), "meta.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return metadata.NewSQLiteMetadataRepository(db)
}

func TestGetMissingKey(t *testing.T) {
	repo := newRepo(t)
	v, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSetGetOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(t, repo.Set(ctx, "k", []byte("v1")))
	v, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), v)

	require.NoError(t, repo.Set(ctx, "k", []byte("v2")))
	v, err = repo.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), v)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(t, repo.Set(ctx, "a", []byte("1")))
	require.NoError(t, repo.Set(ctx, "b", []byte("2")))

	require.NoError(t, repo.Clear(ctx))
	for _, key := range []string{"a", "b"} {
		v, err := repo.Get(ctx, key)
		require.NoError(t, err)
		require.Nil(t, v)
	}

	// clearing an empty store is not an error
	require.NoError(t, repo.Clear(ctx))
}

func TestUpdate(t *testing.T) {
	t.Run("commits all writes together", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		err := repo.Update(ctx, func(r metadata.Repository) error {
			if err := r.Set(ctx, "a", []byte("1")); err != nil {
				return err
			}
			return r.Set(ctx, "b", []byte("2"))
		})
		require.NoError(t, err)

		v, err := repo.Get(ctx, "a")
		require.NoError(t, err)
		require.Equal(t, []byte("1"), v)
		v, err = repo.Get(ctx, "b")
		require.NoError(t, err)
		require.Equal(t, []byte("2"), v)
	})

	t.Run("rolls back every write on error", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		err := repo.Update(ctx, func(r metadata.Repository) error {
			if err := r.Set(ctx, "a", []byte("1")); err != nil {
				return err
			}
			return errors.New("second write refused")
		})
		require.Error(t, err)

		v, err := repo.Get(ctx, "a")
		require.NoError(t, err)
		require.Nil(t, v)
	})

	t.Run("nested update runs on the same transaction", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		err := repo.Update(ctx, func(r metadata.Repository) error {
			return r.Update(ctx, func(inner metadata.Repository) error {
				return inner.Set(ctx, "a", []byte("1"))
			})
		})
		require.NoError(t, err)

		v, err := repo.Get(ctx, "a")
		require.NoError(t, err)
		require.Equal(t, []byte("1"), v)
	})
}
