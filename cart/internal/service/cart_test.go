package service

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

	"github.com/verdantis/storefront/cart/pkg/request"
	"github.com/verdantis/storefront/internal/domain"
	"github.com/verdantis/storefront/internal/repository"
)

func newTestService(t *testing.T) CartService {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := repository.NewRedisCartStore(client, time.Hour)
	shipping := domain.ShippingConfig{
		FreeThreshold: decimal.NewFromInt(999),
		Fee:           decimal.NewFromInt(49),
	}
	return NewCartService(store, domain.DefaultCatalog(), shipping)
}

func addItemRequest(name string, price int64, quantity int32) request.AddItem {
	return request.AddItem{
		Product: request.Product{
			ID:      uuid.New(),
			Name:    name,
			Price:   decimal.NewFromInt(price),
			InStock: true,
		},
		Quantity: quantity,
	}
}

func TestGetCart(t *testing.T) {
	t.Run("given new session should return empty cart", func(t *testing.T) {
		svc := newTestService(t)

		cart, err := svc.GetCart(context.Background(), uuid.New())

		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.Equal(t, int32(0), cart.TotalItems)
		assert.True(t, cart.Subtotal.IsZero())
		assert.True(t, cart.ShippingFee.IsZero())
	})
}

func TestServiceAddItem(t *testing.T) {
	t.Run("given item should persist across loads", func(t *testing.T) {
		svc := newTestService(t)
		sessionID := uuid.New()

		_, err := svc.AddItem(context.Background(), sessionID, addItemRequest("Moringa Capsules", 499, 2))
		require.NoError(t, err)

		cart, err := svc.GetCart(context.Background(), sessionID)
		require.NoError(t, err)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, int32(2), cart.TotalItems)
		assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(998)))
	})

	t.Run("given zero quantity should default to one", func(t *testing.T) {
		svc := newTestService(t)
		sessionID := uuid.New()

		cart, err := svc.AddItem(context.Background(), sessionID, addItemRequest("Moringa Capsules", 499, 0))

		require.NoError(t, err)
		assert.Equal(t, int32(1), cart.TotalItems)
	})

	t.Run("given subtotal below threshold should report shipping fee and remainder", func(t *testing.T) {
		svc := newTestService(t)
		sessionID := uuid.New()

		cart, err := svc.AddItem(context.Background(), sessionID, addItemRequest("Moringa Capsules", 499, 1))

		require.NoError(t, err)
		assert.True(t, cart.ShippingFee.Equal(decimal.NewFromInt(49)))
		assert.True(t, cart.FreeShippingRemaining.Equal(decimal.NewFromInt(500)))
	})

	t.Run("given subtotal at threshold should ship free", func(t *testing.T) {
		svc := newTestService(t)
		sessionID := uuid.New()

		cart, err := svc.AddItem(context.Background(), sessionID, addItemRequest("Moringa Capsules", 999, 1))

		require.NoError(t, err)
		assert.True(t, cart.ShippingFee.IsZero())
		assert.True(t, cart.FreeShippingRemaining.IsZero())
	})
}

func TestServiceUpdateQuantity(t *testing.T) {
	t.Run("given zero quantity should remove item", func(t *testing.T) {
		svc := newTestService(t)
		sessionID := uuid.New()
		req := addItemRequest("Moringa Capsules", 499, 2)
		_, err := svc.AddItem(context.Background(), sessionID, req)
		require.NoError(t, err)

		cart, err := svc.UpdateQuantity(
			context.Background(),
			sessionID,
			req.Product.ID,
			req.Product.ID,
			0,
		)

		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})
}

func TestServiceApplyCoupon(t *testing.T) {
	t.Run("given valid coupon should apply and persist", func(t *testing.T) {
		svc := newTestService(t)
		sessionID := uuid.New()
		_, err := svc.AddItem(context.Background(), sessionID, addItemRequest("Moringa Capsules", 999, 3))
		require.NoError(t, err)

		cart, applied, err := svc.ApplyCoupon(context.Background(), sessionID, "HEALTH15")

		require.NoError(t, err)
		assert.True(t, applied)
		assert.True(t, cart.Discount.Equal(decimal.NewFromInt(450)))
		assert.True(t, cart.FinalPrice.Equal(decimal.NewFromInt(2547)))

		reloaded, err := svc.GetCart(context.Background(), sessionID)
		require.NoError(t, err)
		require.NotNil(t, reloaded.Coupon)
		assert.Equal(t, "HEALTH15", reloaded.Coupon.Code)
	})

	t.Run("given unknown coupon should reject without error", func(t *testing.T) {
		svc := newTestService(t)
		sessionID := uuid.New()

		cart, applied, err := svc.ApplyCoupon(context.Background(), sessionID, "NOPE")

		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, "Invalid coupon code", cart.CouponError)
		assert.Nil(t, cart.Coupon)
	})

	t.Run("given rejection should persist coupon error", func(t *testing.T) {
		svc := newTestService(t)
		sessionID := uuid.New()

		_, _, err := svc.ApplyCoupon(context.Background(), sessionID, "NOPE")
		require.NoError(t, err)

		cart, err := svc.GetCart(context.Background(), sessionID)
		require.NoError(t, err)
		assert.Equal(t, "Invalid coupon code", cart.CouponError)
	})
}

func TestServiceClearCart(t *testing.T) {
	svc := newTestService(t)
	sessionID := uuid.New()
	_, err := svc.AddItem(context.Background(), sessionID, addItemRequest("Moringa Capsules", 999, 2))
	require.NoError(t, err)
	_, _, err = svc.ApplyCoupon(context.Background(), sessionID, "WELCOME10")
	require.NoError(t, err)

	cart, err := svc.ClearCart(context.Background(), sessionID)

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Nil(t, cart.Coupon)
	assert.True(t, cart.Subtotal.IsZero())
}

func TestServiceVisibility(t *testing.T) {
	t.Run("given actions should transition and persist", func(t *testing.T) {
		svc := newTestService(t)
		sessionID := uuid.New()

		cart, err := svc.Visibility(context.Background(), sessionID, "open")
		require.NoError(t, err)
		assert.True(t, cart.IsOpen)

		cart, err = svc.Visibility(context.Background(), sessionID, "toggle")
		require.NoError(t, err)
		assert.False(t, cart.IsOpen)

		cart, err = svc.Visibility(context.Background(), sessionID, "close")
		require.NoError(t, err)
		assert.False(t, cart.IsOpen)
	})

	t.Run("given unknown action should error", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.Visibility(context.Background(), uuid.New(), "hide")

		assert.Error(t, err)
	})
}
