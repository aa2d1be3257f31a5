package domain

// TimelineStep is one entry of the order tracking display. Completed steps
// are those the order has passed through, Current marks the active one.
type TimelineStep struct {
	Status    Status `json:"status"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

var labels = map[Status]string{
	StatusPending:        "Order Placed",
	StatusConfirmed:      "Confirmed",
	StatusShipped:        "Shipped",
	StatusOutForDelivery: "Out for Delivery",
	StatusDelivered:      "Delivered",
	StatusCancelled:      "Cancelled",
}

// Timeline renders the tracking steps for an order in the given status. A
// cancelled order shows only the placement step followed by the cancellation,
// since the delivery progression no longer applies.
func Timeline(status Status) []TimelineStep {
	if status == StatusCancelled {
		return []TimelineStep{
			{
				Status:    StatusPending,
				Label:     labels[StatusPending],
				Completed: true,
			},
			{
				Status:  StatusCancelled,
				Label:   labels[StatusCancelled],
				Current: true,
			},
		}
	}

	rank := status.rank()
	steps := make([]TimelineStep, 0, len(progression))
	for i, s := range progression {
		steps = append(steps, TimelineStep{
			Status:    s,
			Label:     labels[s],
			Completed: i < rank,
			Current:   i == rank,
		})
	}
	return steps
}
