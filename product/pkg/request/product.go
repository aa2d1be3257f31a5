package request

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	Name          string           `validate:"required"       json:"name"`
	Price         decimal.Decimal  `validate:"required"       json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Images        []string         `json:"images"`
	Category      string           `json:"category"`
	Quantity      int32            `validate:"gte=0"          json:"quantity"`
	Variants      []Variant        `validate:"omitempty,dive" json:"variants"`
}

type Variant struct {
	Name          string           `validate:"required" json:"name"`
	Price         decimal.Decimal  `validate:"required" json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Quantity      int32            `validate:"gte=0"    json:"quantity"`
}

type UpdateProduct struct {
	Name          string           `validate:"required" json:"name"`
	Price         decimal.Decimal  `validate:"required" json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Images        []string         `json:"images"`
	Category      string           `json:"category"`
	Quantity      int32            `validate:"gte=0"    json:"quantity"`
}
