package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fishlog/internal/client/storage"
)

func TestStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	entries := &storage.Entries{Token: "t1", RefreshToken: "r1", User: "{}"}
	require.NoError(t, s.SaveEntries(ctx, entries))
	assert.True(t, s.Has(storage.KeyRefreshToken))

	got, err := s.GetEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	require.NoError(t, s.SaveEntries(ctx, &storage.Entries{Token: "t2"}))
	assert.False(t, s.Has(storage.KeyRefreshToken))
	assert.False(t, s.Has(storage.KeyUser))

	token, err := s.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t2", token)

	require.NoError(t, s.DeleteEntries(ctx))
	require.NoError(t, s.DeleteEntries(ctx))
	assert.False(t, s.Has(storage.KeyToken))

	require.NoError(t, s.Close())
	_, err = s.GetToken(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestStorage_Seed(t *testing.T) {
	s := New()
	s.Seed(map[string]string{storage.KeyToken: "t", storage.KeyUser: "not json"})

	got, err := s.GetEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "not json", got.User)
}
