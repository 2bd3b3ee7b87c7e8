package session

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/justinabrahms/checkers/internal/checkers"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, codec Codec) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, codec, "test:game:", time.Hour), mr
}

func selectedSnapshot(t *testing.T) checkers.Snapshot {
	t.Helper()
	g := checkers.NewGame()
	require.True(t, g.SelectPiece(5, 2))
	return g.Snapshot()
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory/json": func(t *testing.T) Store { return NewMemoryStore(JSONCodec{}) },
		"memory/cbor": func(t *testing.T) Store { return NewMemoryStore(CBORCodec{}) },
		"redis/json": func(t *testing.T) Store {
			s, _ := newRedisStore(t, JSONCodec{})
			return s
		},
		"redis/cbor": func(t *testing.T) Store {
			s, _ := newRedisStore(t, CBORCodec{})
			return s
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			snap := selectedSnapshot(t)
			require.NoError(t, store.Put(ctx, "abc", snap))

			got, err := store.Get(ctx, "abc")
			require.NoError(t, err)
			assert.Equal(t, snap, got)

			require.NoError(t, store.Delete(ctx, "abc"))
			_, err = store.Get(ctx, "abc")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRedisStoreTTL(t *testing.T) {
	store, mr := newRedisStore(t, JSONCodec{})
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "abc", checkers.CreateNewGame()))
	assert.True(t, mr.Exists("test:game:abc"))
	assert.Equal(t, time.Hour, mr.TTL("test:game:abc"))

	mr.FastForward(2 * time.Hour)
	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreGetRefreshesTTL(t *testing.T) {
	store, mr := newRedisStore(t, JSONCodec{})
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "abc", checkers.CreateNewGame()))
	mr.FastForward(45 * time.Minute)

	_, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL("test:game:abc"))

	mr.FastForward(45 * time.Minute)
	_, err = store.Get(ctx, "abc")
	assert.NoError(t, err, "a session that is only read stays alive")
}

func TestRedisStoreCorruptValue(t *testing.T) {
	store, mr := newRedisStore(t, JSONCodec{})
	require.NoError(t, mr.Set("test:game:bad", `{"board":[]}`))

	_, err := store.Get(context.Background(), "bad")
	assert.ErrorIs(t, err, checkers.ErrInvalidSnapshot)
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	snap := checkers.CreateNewGame()
	require.NoError(t, store.Put(ctx, "abc", snap))
	snap.Board[5][0].King = true

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, got.Board[5][0].King)
	assert.Equal(t, 1, store.Len())
}

func TestCodecByName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		wantErr  bool
	}{
		{"", "json", false},
		{"json", "json", false},
		{"cbor", "cbor", false},
		{"yaml", "", true},
	}
	for _, tc := range tests {
		codec, err := CodecByName(tc.name)
		if tc.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.expected, codec.Name())
	}
}
