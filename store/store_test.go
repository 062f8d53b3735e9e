package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshkgarber/incontext/store"
)

func TestOpen_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.db")

	s, err := store.Open(path)
	require.NoError(t, err, "Open should create missing parent directories")
	require.NoError(t, s.Close())

	// Reopening finds the schema already at the current version.
	s, err = store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	models, err := s.ListAgentModels(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, models, "catalog seed should survive reopen")
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := store.Open("  ")
	require.Error(t, err)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	user, err := s.CreateUser(ctx, "test", "hash", false)
	require.NoError(t, err)

	list, err := s.CreateList(ctx, user.ID, "doomed", "")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.DeleteListRow(ctx, list.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The delete inside the failed transaction must not stick.
	_, err = s.GetList(ctx, list.ID)
	require.NoError(t, err, "rolled-back deletion should leave the row")
}
