package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verdantis/storefront/cart/internal/otel"
	"github.com/verdantis/storefront/cart/pkg/request"
	"github.com/verdantis/storefront/cart/pkg/response"
	"github.com/verdantis/storefront/internal/domain"
	inErrors "github.com/verdantis/storefront/internal/errors"
	"github.com/verdantis/storefront/internal/log"
	"github.com/verdantis/storefront/internal/repository"
)

// CartService wraps the cart engine with a load-mutate-save cycle against the
// cart store. Every mutating operation writes the full state through before
// returning, so a reload always sees the latest cart.
type CartService struct {
	store    repository.CartStore
	catalog  domain.Catalog
	shipping domain.ShippingConfig
}

func NewCartService(
	store repository.CartStore,
	catalog domain.Catalog,
	shipping domain.ShippingConfig,
) CartService {
	return CartService{store: store, catalog: catalog, shipping: shipping}
}

func (svc CartService) load(c context.Context, sessionID uuid.UUID) (*domain.Cart, error) {
	cart, err := svc.store.Load(c, sessionID)
	if err != nil {
		if errors.Is(err, inErrors.ErrCartNotFound) {
			return domain.New(), nil
		}
		return nil, fmt.Errorf("failed loading cart with error=%w", err)
	}
	return cart, nil
}

func (svc CartService) GetCart(c context.Context, sessionID uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService GetCart")
	defer span.End()

	cart, err := svc.load(c, sessionID)
	if err != nil {
		return response.Cart{}, err
	}
	return response.FromCart(cart, svc.shipping), nil
}

func (svc CartService) AddItem(
	c context.Context,
	sessionID uuid.UUID,
	param request.AddItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Str(log.KeySessionID, sessionID.String()).
		Str(log.KeyProductID, param.Product.ID.String()).
		Int32(log.KeyQuantity, param.Quantity).
		Logger()

	cart, err := svc.load(c, sessionID)
	if err != nil {
		return response.Cart{}, err
	}

	quantity := param.Quantity
	if quantity == 0 {
		quantity = 1
	}
	cart.AddItem(param.Product.Domain(), param.Variant.Domain(), quantity)

	if err := svc.store.Save(c, sessionID, cart); err != nil {
		return response.Cart{}, err
	}
	logger.Info().Msg("added item to cart")
	return response.FromCart(cart, svc.shipping), nil
}

func (svc CartService) UpdateQuantity(
	c context.Context,
	sessionID uuid.UUID,
	productID uuid.UUID,
	variantID uuid.UUID,
	quantity int32,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateQuantity").
		Str(log.KeySessionID, sessionID.String()).
		Str(log.KeyProductID, productID.String()).
		Str(log.KeyVariantID, variantID.String()).
		Int32(log.KeyQuantity, quantity).
		Logger()

	cart, err := svc.load(c, sessionID)
	if err != nil {
		return response.Cart{}, err
	}

	cart.UpdateQuantity(productID, variantID, quantity)

	if err := svc.store.Save(c, sessionID, cart); err != nil {
		return response.Cart{}, err
	}
	logger.Info().Msg("updated cart item quantity")
	return response.FromCart(cart, svc.shipping), nil
}

func (svc CartService) RemoveItem(
	c context.Context,
	sessionID uuid.UUID,
	productID uuid.UUID,
	variantID uuid.UUID,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Str(log.KeySessionID, sessionID.String()).
		Str(log.KeyProductID, productID.String()).
		Str(log.KeyVariantID, variantID.String()).
		Logger()

	cart, err := svc.load(c, sessionID)
	if err != nil {
		return response.Cart{}, err
	}

	cart.RemoveItem(productID, variantID)

	if err := svc.store.Save(c, sessionID, cart); err != nil {
		return response.Cart{}, err
	}
	logger.Info().Msg("removed item from cart")
	return response.FromCart(cart, svc.shipping), nil
}

func (svc CartService) ClearCart(c context.Context, sessionID uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ClearCart").
		Str(log.KeySessionID, sessionID.String()).
		Logger()

	cart, err := svc.load(c, sessionID)
	if err != nil {
		return response.Cart{}, err
	}

	cart.Clear()

	if err := svc.store.Save(c, sessionID, cart); err != nil {
		return response.Cart{}, err
	}
	logger.Info().Msg("cleared cart")
	return response.FromCart(cart, svc.shipping), nil
}

// ApplyCoupon reports rejection through the response's CouponError field and
// the boolean, never through the error return, which is reserved for storage
// failures.
func (svc CartService) ApplyCoupon(
	c context.Context,
	sessionID uuid.UUID,
	code string,
) (response.Cart, bool, error) {
	c, span := otel.Tracer.Start(c, "CartService ApplyCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ApplyCoupon").
		Str(log.KeySessionID, sessionID.String()).
		Str(log.KeyCouponCode, code).
		Logger()

	cart, err := svc.load(c, sessionID)
	if err != nil {
		return response.Cart{}, false, err
	}

	applied := cart.ApplyCoupon(svc.catalog, code)

	if err := svc.store.Save(c, sessionID, cart); err != nil {
		return response.Cart{}, false, err
	}
	if applied {
		logger.Info().Msg("applied coupon")
	} else {
		logger.Info().Str("couponError", cart.CouponError).Msg("rejected coupon")
	}
	return response.FromCart(cart, svc.shipping), applied, nil
}

func (svc CartService) RemoveCoupon(c context.Context, sessionID uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveCoupon")
	defer span.End()

	cart, err := svc.load(c, sessionID)
	if err != nil {
		return response.Cart{}, err
	}

	cart.RemoveCoupon()

	if err := svc.store.Save(c, sessionID, cart); err != nil {
		return response.Cart{}, err
	}
	return response.FromCart(cart, svc.shipping), nil
}

// Visibility applies one of the open, close, or toggle transitions to the
// cart drawer flag.
func (svc CartService) Visibility(
	c context.Context,
	sessionID uuid.UUID,
	action string,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService Visibility")
	defer span.End()

	cart, err := svc.load(c, sessionID)
	if err != nil {
		return response.Cart{}, err
	}

	switch action {
	case "open":
		cart.Open()
	case "close":
		cart.Close()
	case "toggle":
		cart.Toggle()
	default:
		return response.Cart{}, fmt.Errorf("unknown cart visibility action %q", action)
	}

	if err := svc.store.Save(c, sessionID, cart); err != nil {
		return response.Cart{}, err
	}
	return response.FromCart(cart, svc.shipping), nil
}
