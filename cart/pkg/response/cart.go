package response

import (
	"github.com/shopspring/decimal"

	"github.com/verdantis/storefront/internal/domain"
)

// Cart is the storefront view of the cart: the raw state plus every derived
// computation the UI renders reactively.
type Cart struct {
	Items                 []domain.LineItem     `json:"items"`
	Coupon                *domain.AppliedCoupon `json:"coupon"`
	CouponError           string                `json:"coupon_error,omitempty"`
	IsOpen                bool                  `json:"is_open"`
	TotalItems            int32                 `json:"total_items"`
	Subtotal              decimal.Decimal       `json:"subtotal"`
	Discount              decimal.Decimal       `json:"discount"`
	FinalPrice            decimal.Decimal       `json:"final_price"`
	ShippingFee           decimal.Decimal       `json:"shipping_fee"`
	FreeShippingRemaining decimal.Decimal       `json:"free_shipping_remaining"`
}

func FromCart(cart *domain.Cart, shipping domain.ShippingConfig) Cart {
	subtotal := cart.TotalPrice()
	return Cart{
		Items:                 cart.Items,
		Coupon:                cart.Coupon,
		CouponError:           cart.CouponError,
		IsOpen:                cart.IsOpen,
		TotalItems:            cart.TotalItems(),
		Subtotal:              subtotal,
		Discount:              cart.DiscountAmount(),
		FinalPrice:            cart.FinalPrice(),
		ShippingFee:           shipping.FeeFor(subtotal),
		FreeShippingRemaining: shipping.AmountToFree(subtotal),
	}
}
