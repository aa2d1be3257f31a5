package request

import "github.com/google/uuid"

type UpdateStatus struct {
	Status string `validate:"required" json:"status"`
}

// StockDecrement is the message published on the stock decrement channel
// after a successful checkout. The listener applies each item against the
// product catalog.
type StockDecrement struct {
	OrderID uuid.UUID            `json:"order_id"`
	Items   []StockDecrementItem `json:"items"`
}

type StockDecrementItem struct {
	ProductID uuid.UUID `json:"product_id"`
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int32     `json:"quantity"`
}
