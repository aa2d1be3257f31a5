package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFeeFor(t *testing.T) {
	shipping := ShippingConfig{
		FreeThreshold: decimal.NewFromInt(999),
		Fee:           decimal.NewFromInt(49),
	}

	tests := []struct {
		name     string
		subtotal int64
		expected int64
	}{
		{name: "given empty cart should ship free", subtotal: 0, expected: 0},
		{name: "given subtotal below threshold should charge fee", subtotal: 998, expected: 49},
		{name: "given subtotal at threshold should ship free", subtotal: 999, expected: 0},
		{name: "given subtotal above threshold should ship free", subtotal: 2500, expected: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fee := shipping.FeeFor(decimal.NewFromInt(test.subtotal))
			assert.True(t, fee.Equal(decimal.NewFromInt(test.expected)))
		})
	}
}

func TestAmountToFree(t *testing.T) {
	shipping := ShippingConfig{
		FreeThreshold: decimal.NewFromInt(999),
		Fee:           decimal.NewFromInt(49),
	}

	tests := []struct {
		name     string
		subtotal int64
		expected int64
	}{
		{name: "given empty cart should need full threshold", subtotal: 0, expected: 999},
		{name: "given partial subtotal should need remainder", subtotal: 500, expected: 499},
		{name: "given subtotal at threshold should need nothing", subtotal: 999, expected: 0},
		{name: "given subtotal above threshold should need nothing", subtotal: 1500, expected: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			remaining := shipping.AmountToFree(decimal.NewFromInt(test.subtotal))
			assert.True(t, remaining.Equal(decimal.NewFromInt(test.expected)))
		})
	}
}
