package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantis/storefront/internal/domain"
	inErrors "github.com/verdantis/storefront/internal/errors"
)

func newTestStore(t *testing.T) (*RedisCartStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCartStore(client, time.Hour), server
}

func TestRedisCartStoreLoad(t *testing.T) {
	t.Run("given absent cart should return ErrCartNotFound", func(t *testing.T) {
		store, _ := newTestStore(t)

		_, err := store.Load(context.Background(), uuid.New())

		assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
	})

	t.Run("given saved cart should round trip full state", func(t *testing.T) {
		store, _ := newTestStore(t)
		sessionID := uuid.New()

		cart := domain.New()
		cart.AddItem(domain.Product{
			ID:      uuid.New(),
			Name:    "Moringa Capsules",
			Price:   decimal.NewFromInt(999),
			InStock: true,
		}, nil, 2)
		cart.ApplyCoupon(domain.DefaultCatalog(), "WELCOME10")
		cart.Open()

		require.NoError(t, store.Save(context.Background(), sessionID, cart))
		loaded, err := store.Load(context.Background(), sessionID)

		require.NoError(t, err)
		assert.Len(t, loaded.Items, 1)
		assert.Equal(t, "Moringa Capsules", loaded.Items[0].Product.Name)
		assert.Equal(t, int32(2), loaded.Items[0].Quantity)
		require.NotNil(t, loaded.Coupon)
		assert.Equal(t, "WELCOME10", loaded.Coupon.Code)
		assert.True(t, loaded.IsOpen)
		assert.True(t, loaded.TotalPrice().Equal(decimal.NewFromInt(1998)))
	})

	t.Run("given corrupted payload should return error", func(t *testing.T) {
		store, server := newTestStore(t)
		sessionID := uuid.New()
		require.NoError(t, server.Set("storefront:cart:"+sessionID.String(), "not json"))

		_, err := store.Load(context.Background(), sessionID)

		assert.Error(t, err)
	})

	t.Run("given payload without items should return empty slice", func(t *testing.T) {
		store, server := newTestStore(t)
		sessionID := uuid.New()
		require.NoError(t, server.Set("storefront:cart:"+sessionID.String(), "{}"))

		loaded, err := store.Load(context.Background(), sessionID)

		require.NoError(t, err)
		assert.NotNil(t, loaded.Items)
		assert.Empty(t, loaded.Items)
	})
}

func TestRedisCartStoreSave(t *testing.T) {
	t.Run("given save should set ttl", func(t *testing.T) {
		store, server := newTestStore(t)
		sessionID := uuid.New()

		require.NoError(t, store.Save(context.Background(), sessionID, domain.New()))

		ttl := server.TTL("storefront:cart:" + sessionID.String())
		assert.Equal(t, time.Hour, ttl)
	})

	t.Run("given second save should overwrite", func(t *testing.T) {
		store, _ := newTestStore(t)
		sessionID := uuid.New()

		first := domain.New()
		first.AddItem(domain.Product{
			ID:    uuid.New(),
			Name:  "Moringa Capsules",
			Price: decimal.NewFromInt(999),
		}, nil, 1)
		require.NoError(t, store.Save(context.Background(), sessionID, first))

		second := domain.New()
		require.NoError(t, store.Save(context.Background(), sessionID, second))

		loaded, err := store.Load(context.Background(), sessionID)
		require.NoError(t, err)
		assert.Empty(t, loaded.Items)
	})
}

func TestRedisCartStoreDelete(t *testing.T) {
	t.Run("given saved cart should delete it", func(t *testing.T) {
		store, _ := newTestStore(t)
		sessionID := uuid.New()
		require.NoError(t, store.Save(context.Background(), sessionID, domain.New()))

		require.NoError(t, store.Delete(context.Background(), sessionID))

		_, err := store.Load(context.Background(), sessionID)
		assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
	})

	t.Run("given absent cart should be a no-op", func(t *testing.T) {
		store, _ := newTestStore(t)

		assert.NoError(t, store.Delete(context.Background(), uuid.New()))
	})
}
