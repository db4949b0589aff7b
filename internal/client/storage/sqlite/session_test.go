package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fishlog/internal/client/storage"
)

func setupTestDB(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestNew_RunsMigrations(t *testing.T) {
	s := setupTestDB(t)

	var name string
	err := s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'session_entries'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "session_entries", name)
}

func TestStorage_SaveGetDeleteEntries(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)

	got, err := s.GetEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, &storage.Entries{}, got)

	token, err := s.GetToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	entries := &storage.Entries{Token: "t1", RefreshToken: "r1", User: `{"id":7}`}
	require.NoError(t, s.SaveEntries(ctx, entries))

	got, err = s.GetEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	// Перезапись заменяет значения целиком
	replaced := &storage.Entries{Token: "t2", User: `{"id":8}`}
	require.NoError(t, s.SaveEntries(ctx, replaced))

	got, err = s.GetEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, replaced, got)

	token, err = s.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t2", token)

	require.NoError(t, s.DeleteEntries(ctx))
	require.NoError(t, s.DeleteEntries(ctx))

	got, err = s.GetEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, &storage.Entries{}, got)
}

func TestStorage_SaveEntries_Nil(t *testing.T) {
	s := setupTestDB(t)
	assert.Error(t, s.SaveEntries(context.Background(), nil))
}

func TestStorage_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	s, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SaveEntries(ctx, &storage.Entries{Token: "t1", User: "{}"}))
	require.NoError(t, s.Close())

	s, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	token, err := s.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", token)
}
