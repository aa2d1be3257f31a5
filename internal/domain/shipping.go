package domain

import (
	"github.com/shopspring/decimal"
)

// ShippingConfig carries the free-shipping threshold and the flat fee charged
// below it. The values are fetched by the application layer and passed in as
// plain values; no I/O happens here.
type ShippingConfig struct {
	FreeThreshold decimal.Decimal `json:"free_threshold"`
	Fee           decimal.Decimal `json:"fee"`
}

// FeeFor returns the shipping fee for the given subtotal: zero at or above
// the free-shipping threshold, the flat fee below it. An empty cart ships for
// nothing because there is nothing to ship.
func (s ShippingConfig) FeeFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() || subtotal.GreaterThanOrEqual(s.FreeThreshold) {
		return decimal.Zero
	}
	return s.Fee
}

// AmountToFree returns how much more the subtotal needs before shipping is
// free, zero once the threshold is reached.
func (s ShippingConfig) AmountToFree(subtotal decimal.Decimal) decimal.Decimal {
	remaining := s.FreeThreshold.Sub(subtotal)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
