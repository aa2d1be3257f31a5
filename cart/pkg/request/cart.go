package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verdantis/storefront/internal/domain"
)

type Product struct {
	ID            uuid.UUID        `validate:"required" json:"id"`
	Name          string           `validate:"required" json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Images        []string         `json:"images,omitempty"`
	Category      string           `json:"category,omitempty"`
	InStock       bool             `json:"in_stock"`
}

type Variant struct {
	ID            uuid.UUID        `validate:"required" json:"id"`
	Name          string           `validate:"required" json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	InStock       bool             `json:"in_stock"`
}

// AddItem carries the catalog snapshot the storefront already holds for the
// product being added. A zero quantity defaults to one.
type AddItem struct {
	Product  Product  `validate:"required" json:"product"`
	Variant  *Variant `json:"variant,omitempty"`
	Quantity int32    `json:"quantity"`
}

type UpdateQuantity struct {
	Quantity int32 `json:"quantity"`
}

type ApplyCoupon struct {
	Code string `validate:"required" json:"code"`
}

func (p Product) Domain() domain.Product {
	return domain.Product{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Images:        p.Images,
		Category:      p.Category,
		InStock:       p.InStock,
	}
}

func (v *Variant) Domain() *domain.Variant {
	if v == nil {
		return nil
	}
	return &domain.Variant{
		ID:            v.ID,
		Name:          v.Name,
		Price:         v.Price,
		OriginalPrice: v.OriginalPrice,
		InStock:       v.InStock,
	}
}
