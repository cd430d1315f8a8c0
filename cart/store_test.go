package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	data, err := store.Load(ctx, "cart:abc")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, store.Save(ctx, "cart:abc", []byte(`[]`)))
	require.NoError(t, store.Save(ctx, "cart:abc", []byte(`[{"quantity":1}]`)))

	data, err = store.Load(ctx, "cart:abc")
	require.NoError(t, err)
	assert.Equal(t, `[{"quantity":1}]`, string(data))
}

func TestRedisSnapshotStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := &RedisSnapshotStore{Client: client, Prefix: "freshcart:"}

	m, _ := newTestManager(store)
	m.AddToCart(avocado)

	raw, err := mr.Get("freshcart:cart")
	require.NoError(t, err)
	assert.Contains(t, raw, `"quantity":1`)

	restored, _ := newTestManager(store)
	restored.Restore(context.Background())
	assert.Equal(t, 1, restored.Count())

	data, err := store.Load(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSessions(t *testing.T) {
	store := NewMemoryStore()
	rec := &recorder{}
	sessions := NewSessions(store, func(string) Notifier { return rec }, zap.NewNop())
	ctx := context.Background()

	a := sessions.Get(ctx, "alice")
	assert.Same(t, a, sessions.Get(ctx, "alice"))
	assert.NotSame(t, a, sessions.Get(ctx, "bob"))
	assert.Same(t, sessions.Get(ctx, ""), sessions.Get(ctx, "default"))

	a.AddToCart(avocado)
	data, _ := store.Load(ctx, "cart:alice")
	assert.NotEmpty(t, data)

	// a fresh registry rehydrates from the store
	again := NewSessions(store, func(string) Notifier { return rec }, zap.NewNop())
	assert.Equal(t, 1, again.Get(ctx, "alice").Count())
	assert.Equal(t, 0, again.Get(ctx, "bob").Count())
}

func TestKeyFor(t *testing.T) {
	assert.Equal(t, "cart", KeyFor("default"))
	assert.Equal(t, "cart", KeyFor(""))
	assert.Equal(t, "cart:s1", KeyFor("s1"))
}
