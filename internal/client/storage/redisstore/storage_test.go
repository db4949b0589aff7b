package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fishlog/internal/client/storage"
)

func newTestStorage(t *testing.T, prefix string) (*miniredis.Miniredis, *Storage) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s := NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), prefix)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return mr, s
}

func TestNew_PingsServer(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s, err := New(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestNew_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	s, err := New(context.Background(), Options{Addr: addr})
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestStorage_SaveGetDeleteEntries(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestStorage(t, "")

	got, err := s.GetEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, &storage.Entries{}, got)

	entries := &storage.Entries{Token: "t1", RefreshToken: "r1", User: `{"id":7}`}
	require.NoError(t, s.SaveEntries(ctx, entries))

	// Ключи лежат под префиксом по умолчанию
	value, err := mr.Get(DefaultPrefix + ":token")
	require.NoError(t, err)
	assert.Equal(t, "t1", value)

	got, err = s.GetEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	token, err := s.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", token)

	require.NoError(t, s.DeleteEntries(ctx))
	require.NoError(t, s.DeleteEntries(ctx))

	assert.False(t, mr.Exists(DefaultPrefix+":token"))
	assert.False(t, mr.Exists(DefaultPrefix+":refreshToken"))
	assert.False(t, mr.Exists(DefaultPrefix+":user"))

	token, err = s.GetToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStorage_SaveEntries_EmptyValueRemovesKey(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestStorage(t, "test")

	require.NoError(t, s.SaveEntries(ctx, &storage.Entries{Token: "t1", RefreshToken: "r1", User: "{}"}))
	require.NoError(t, s.SaveEntries(ctx, &storage.Entries{Token: "t2", User: "{}"}))

	assert.False(t, mr.Exists("test:refreshToken"))

	got, err := s.GetEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, &storage.Entries{Token: "t2", User: "{}"}, got)
}

func TestStorage_ServerDown(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestStorage(t, "")
	mr.Close()

	_, err := s.GetEntries(ctx)
	assert.Error(t, err)

	_, err = s.GetToken(ctx)
	assert.Error(t, err)

	assert.Error(t, s.SaveEntries(ctx, &storage.Entries{Token: "t"}))
	assert.Error(t, s.DeleteEntries(ctx))
}
