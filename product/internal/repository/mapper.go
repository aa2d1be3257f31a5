package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/verdantis/storefront/product/pkg/response"
)

func numericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		Int:              d.Coefficient(),
		NaN:              false,
		Valid:            true,
	}
}

func numericFromDecimalPtr(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{}
	}
	return numericFromDecimal(*d)
}

func (p Product) Response(variants []Variant) response.Product {
	res := response.Product{
		ID:        p.ID,
		Name:      p.Name,
		Price:     decimal.NewFromBigInt(p.Price.Int, p.Price.Exp),
		Images:    p.Images,
		Category:  p.Category,
		Quantity:  p.Quantity,
		InStock:   p.InStock,
		Variants:  make([]response.Variant, 0, len(variants)),
		CreatedAt: p.CreatedAt.Time,
		UpdatedAt: p.UpdatedAt.Time,
	}
	if p.OriginalPrice.Valid {
		original := decimal.NewFromBigInt(p.OriginalPrice.Int, p.OriginalPrice.Exp)
		res.OriginalPrice = &original
	}
	for _, v := range variants {
		res.Variants = append(res.Variants, v.Response())
	}
	return res
}

func (v Variant) Response() response.Variant {
	res := response.Variant{
		ID:        v.ID,
		ProductID: v.ProductID,
		Name:      v.Name,
		Price:     decimal.NewFromBigInt(v.Price.Int, v.Price.Exp),
		Quantity:  v.Quantity,
		InStock:   v.InStock,
	}
	if v.OriginalPrice.Valid {
		original := decimal.NewFromBigInt(v.OriginalPrice.Int, v.OriginalPrice.Exp)
		res.OriginalPrice = &original
	}
	return res
}
