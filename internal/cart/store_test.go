package cart

import (
	"context"
	"testing"

	"fleur_back_end/internal/catalog"
	"fleur_back_end/internal/models"
	"fleur_back_end/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	store := NewRedisStore(client)

	cart, err := store.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Empty(t, cart)

	require.NoError(t, store.Save(ctx, "v1", models.Cart{"p1": {Quantity: 2, Image: "http://cdn/rose.jpg"}}))
	assert.True(t, mr.Exists("cart:v1"))
	assert.Equal(t, TTL, mr.TTL("cart:v1"))

	cart, err = store.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, models.Cart{"p1": {Quantity: 2, Image: "http://cdn/rose.jpg"}}, cart)

	other, err := store.Load(ctx, "v2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, store.Save(ctx, "v1", models.Cart{}))
	assert.False(t, mr.Exists("cart:v1"))

	require.NoError(t, store.Save(ctx, "v1", models.Cart{"p1": {Quantity: 1}}))
	require.NoError(t, store.Clear(ctx, "v1"))
	assert.False(t, mr.Exists("cart:v1"))
}

func TestRedisStoreExpires(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	store := NewRedisStore(client)

	require.NoError(t, store.Save(ctx, "v1", models.Cart{"p1": {Quantity: 1}}))
	mr.FastForward(TTL + 1)

	cart, err := store.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestRedisStoreCorruptPayload(t *testing.T) {
	mr, client := newRedis(t)
	require.NoError(t, mr.Set("cart:v1", "{pas du json"))

	_, err := NewRedisStore(client).Load(context.Background(), "v1")
	assert.Error(t, err)
}

func TestServiceOverRedis(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	repo := catalog.NewRepository(testutil.NewDB(t))
	svc := NewService(NewRedisStore(client), repo)

	p, err := repo.Create(ctx, catalog.ProductInput{Name: "Pivoines", Price: dec("800")})
	require.NoError(t, err)

	_, err = svc.Add(ctx, "v1", p.ID.String(), 2)
	require.NoError(t, err)
	cart, err := svc.Add(ctx, "v1", p.ID.String(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, cart[p.ID.String()].Quantity)

	require.NoError(t, svc.Clear(ctx, "v1"))
	cart, err = NewRedisStore(client).Load(ctx, "v1")
	require.NoError(t, err)
	assert.Empty(t, cart)
}
