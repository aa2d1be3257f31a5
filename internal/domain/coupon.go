package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountKind discriminates how a coupon's value is interpreted.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFlat       DiscountKind = "flat"
)

// Coupon is a static discount rule: a percentage or flat amount, optionally
// gated by a minimum order subtotal.
type Coupon struct {
	Code        string           `json:"code"`
	Kind        DiscountKind     `json:"kind"`
	Value       decimal.Decimal  `json:"value"`
	MinOrder    *decimal.Decimal `json:"min_order,omitempty"`
	Description string           `json:"description"`
}

// ErrUnknownCoupon is returned for codes absent from the catalog. Its text is
// the message the storefront renders verbatim.
var ErrUnknownCoupon = errors.New("Invalid coupon code")

// MinimumOrderError reports a coupon whose minimum order threshold the
// current subtotal does not meet.
type MinimumOrderError struct {
	Code     string
	Minimum  decimal.Decimal
	Subtotal decimal.Decimal
}

func (e *MinimumOrderError) Error() string {
	return fmt.Sprintf("This coupon requires a minimum order of %s", e.Minimum.String())
}

// Catalog maps normalized (uppercase) coupon codes to their definitions.
type Catalog map[string]Coupon

// NormalizeCode uppercases and trims a user-supplied coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate looks up the code case-insensitively and checks its minimum order
// threshold against the given subtotal. It returns the matched definition or
// a typed rejection: ErrUnknownCoupon or *MinimumOrderError.
func (cat Catalog) Validate(code string, subtotal decimal.Decimal) (Coupon, error) {
	normalized := NormalizeCode(code)
	coupon, ok := cat[normalized]
	if !ok {
		return Coupon{}, ErrUnknownCoupon
	}
	if coupon.MinOrder != nil && subtotal.LessThan(*coupon.MinOrder) {
		return Coupon{}, &MinimumOrderError{
			Code:     normalized,
			Minimum:  *coupon.MinOrder,
			Subtotal: subtotal,
		}
	}
	return coupon, nil
}

// DefaultCatalog is the coupon set compiled into the storefront.
func DefaultCatalog() Catalog {
	moringaMin := decimal.NewFromInt(500)
	return Catalog{
		"WELCOME10": {
			Code:        "WELCOME10",
			Kind:        DiscountPercentage,
			Value:       decimal.NewFromInt(10),
			Description: "10% off your first order",
		},
		"MORINGA20": {
			Code:        "MORINGA20",
			Kind:        DiscountPercentage,
			Value:       decimal.NewFromInt(20),
			MinOrder:    &moringaMin,
			Description: "20% off orders of 500 or more",
		},
		"FLAT100": {
			Code:        "FLAT100",
			Kind:        DiscountFlat,
			Value:       decimal.NewFromInt(100),
			Description: "100 off any order",
		},
		"HEALTH15": {
			Code:        "HEALTH15",
			Kind:        DiscountPercentage,
			Value:       decimal.NewFromInt(15),
			Description: "15% off sitewide",
		},
	}
}
