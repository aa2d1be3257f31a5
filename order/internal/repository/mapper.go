package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/verdantis/storefront/order/pkg/response"
)

func NumericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		Int:              d.Coefficient(),
		NaN:              false,
		Valid:            true,
	}
}

func (o Order) Response(items []OrderItem) response.Order {
	res := response.Order{
		ID:          o.ID,
		Status:      o.Status,
		Items:       make([]response.OrderItem, 0, len(items)),
		Subtotal:    decimal.NewFromBigInt(o.Subtotal.Int, o.Subtotal.Exp),
		Discount:    decimal.NewFromBigInt(o.Discount.Int, o.Discount.Exp),
		ShippingFee: decimal.NewFromBigInt(o.ShippingFee.Int, o.ShippingFee.Exp),
		Total:       decimal.NewFromBigInt(o.Total.Int, o.Total.Exp),
		CreatedAt:   o.CreatedAt.Time,
		UpdatedAt:   o.UpdatedAt.Time,
	}
	if o.CouponCode.Valid {
		res.CouponCode = o.CouponCode.String
	}
	for _, item := range items {
		res.Items = append(res.Items, item.Response())
	}
	return res
}

func (i OrderItem) Response() response.OrderItem {
	return response.OrderItem{
		ID:        i.ID,
		OrderID:   i.OrderID,
		ProductID: i.ProductID,
		VariantID: i.VariantID,
		Name:      i.Name,
		UnitPrice: decimal.NewFromBigInt(i.UnitPrice.Int, i.UnitPrice.Exp),
		Quantity:  i.Quantity,
	}
}
