package domain

import "fmt"

// Status is the lifecycle state of an order. Orders move through the
// progression states in sequence; cancellation is terminal from any of them.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// progression lists the non-cancelled states in delivery order.
var progression = []Status{
	StatusPending,
	StatusConfirmed,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusShipped, StatusOutForDelivery,
		StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s Status) rank() int {
	for i, status := range progression {
		if status == s {
			return i
		}
	}
	return -1
}
