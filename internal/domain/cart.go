package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a read-only catalog snapshot embedded into a line item at the
// moment it is added, so later catalog changes never retroactively reprice
// items already in the cart.
type Product struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Images        []string         `json:"images,omitempty"`
	Category      string           `json:"category,omitempty"`
	InStock       bool             `json:"in_stock"`
}

// Variant is a purchasable variation of a product, e.g. a pack size. A
// product without variants acts as its own single variant for identity
// purposes.
type Variant struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	InStock       bool             `json:"in_stock"`
}

// LineItem is one cart row: a product/variant snapshot plus a quantity.
type LineItem struct {
	Product  Product  `json:"product"`
	Variant  *Variant `json:"variant,omitempty"`
	Quantity int32    `json:"quantity"`
}

// VariantKey returns the identity a line item is addressed by: the variant id
// when a variant is present, otherwise the product id.
func (li LineItem) VariantKey() uuid.UUID {
	if li.Variant != nil {
		return li.Variant.ID
	}
	return li.Product.ID
}

// UnitPrice returns the effective unit price: the variant's price when a
// variant is present, otherwise the product's price. The decimal zero value
// covers missing prices, so pricing never fails.
func (li LineItem) UnitPrice() decimal.Decimal {
	if li.Variant != nil {
		return li.Variant.Price
	}
	return li.Product.Price
}

// AppliedCoupon is the at-most-one coupon currently applied to a cart.
type AppliedCoupon struct {
	Code        string          `json:"code"`
	Value       decimal.Decimal `json:"value"`
	Kind        DiscountKind    `json:"kind"`
	Description string          `json:"description"`
}

// Cart is the aggregate root of the client-local shopping cart. Items keep
// insertion order, which is the display order. Every operation is total:
// invalid input degrades by policy instead of failing, so the cart is always
// in a renderable state.
type Cart struct {
	Items       []LineItem     `json:"items"`
	Coupon      *AppliedCoupon `json:"coupon"`
	CouponError string         `json:"coupon_error,omitempty"`
	IsOpen      bool           `json:"is_open"`
}

func New() *Cart {
	return &Cart{Items: []LineItem{}}
}

func (c *Cart) findItem(productID, variantID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID && c.Items[i].VariantKey() == variantID {
			return i
		}
	}
	return -1
}

// AddItem merges the given quantity into the line item identified by
// (product, variant), appending a new item at the end when none exists.
// Quantity is taken as supplied; availability is the caller's concern. An
// increment that drives the quantity to zero or below removes the item, the
// same degradation UpdateQuantity applies.
func (c *Cart) AddItem(product Product, variant *Variant, quantity int32) {
	item := LineItem{Product: product, Variant: variant, Quantity: quantity}
	i := c.findItem(product.ID, item.VariantKey())
	if i < 0 {
		if quantity > 0 {
			c.Items = append(c.Items, item)
		}
		return
	}
	c.Items[i].Quantity += quantity
	if c.Items[i].Quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// RemoveItem deletes the matching line item. Absent items are a no-op.
func (c *Cart) RemoveItem(productID, variantID uuid.UUID) {
	i := c.findItem(productID, variantID)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// UpdateQuantity sets the matching line item's quantity to the given value.
// A quantity of zero or below removes the item. Absent items are a no-op.
func (c *Cart) UpdateQuantity(productID, variantID uuid.UUID, quantity int32) {
	if quantity <= 0 {
		c.RemoveItem(productID, variantID)
		return
	}
	i := c.findItem(productID, variantID)
	if i < 0 {
		return
	}
	c.Items[i].Quantity = quantity
}

// Clear empties the line items and drops the coupon state. The visibility
// flag is untouched.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
	c.Coupon = nil
	c.CouponError = ""
}

// TotalItems is the sum of quantities across all line items.
func (c *Cart) TotalItems() int32 {
	var total int32
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the subtotal: effective unit price times quantity, summed.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.UnitPrice().Mul(decimal.NewFromInt32(item.Quantity)))
	}
	return total
}

// DiscountAmount is zero without a coupon. Percentage coupons discount
// round(subtotal * value / 100); flat coupons discount min(value, subtotal)
// so the discount never exceeds the subtotal. Percentage values above 100 are
// not clamped, matching the catalog convention that none exist.
func (c *Cart) DiscountAmount() decimal.Decimal {
	if c.Coupon == nil {
		return decimal.Zero
	}
	subtotal := c.TotalPrice()
	switch c.Coupon.Kind {
	case DiscountPercentage:
		return subtotal.Mul(c.Coupon.Value).Div(decimal.NewFromInt(100)).Round(0)
	case DiscountFlat:
		return decimal.Min(c.Coupon.Value, subtotal)
	}
	return decimal.Zero
}

// FinalPrice is the subtotal minus the discount.
func (c *Cart) FinalPrice() decimal.Decimal {
	return c.TotalPrice().Sub(c.DiscountAmount())
}

// ApplyCoupon validates the code against the catalog at the current subtotal
// and applies it on success, replacing any previously applied coupon
// unconditionally. Rejections are reported through CouponError and the false
// return; the previously applied coupon is left untouched.
func (c *Cart) ApplyCoupon(catalog Catalog, code string) bool {
	coupon, err := catalog.Validate(code, c.TotalPrice())
	if err != nil {
		c.CouponError = err.Error()
		return false
	}
	c.Coupon = &AppliedCoupon{
		Code:        coupon.Code,
		Value:       coupon.Value,
		Kind:        coupon.Kind,
		Description: coupon.Description,
	}
	c.CouponError = ""
	return true
}

// RemoveCoupon clears the applied coupon and any coupon error, leaving the
// line items untouched.
func (c *Cart) RemoveCoupon() {
	c.Coupon = nil
	c.CouponError = ""
}

func (c *Cart) Open()   { c.IsOpen = true }
func (c *Cart) Close()  { c.IsOpen = false }
func (c *Cart) Toggle() { c.IsOpen = !c.IsOpen }
