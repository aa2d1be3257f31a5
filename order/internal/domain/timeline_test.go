package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	t.Run("given known statuses should parse", func(t *testing.T) {
		for _, s := range []string{
			"pending", "confirmed", "shipped", "out_for_delivery", "delivered", "cancelled",
		} {
			status, err := ParseStatus(s)
			require.NoError(t, err)
			assert.Equal(t, Status(s), status)
		}
	})

	t.Run("given unknown status should error", func(t *testing.T) {
		_, err := ParseStatus("returned")
		assert.Error(t, err)
	})
}

func TestTimeline(t *testing.T) {
	t.Run("given pending should mark first step current", func(t *testing.T) {
		steps := Timeline(StatusPending)

		require.Len(t, steps, 5)
		assert.Equal(t, "Order Placed", steps[0].Label)
		assert.True(t, steps[0].Current)
		assert.False(t, steps[0].Completed)
		for _, step := range steps[1:] {
			assert.False(t, step.Current)
			assert.False(t, step.Completed)
		}
	})

	t.Run("given shipped should complete earlier steps", func(t *testing.T) {
		steps := Timeline(StatusShipped)

		require.Len(t, steps, 5)
		assert.True(t, steps[0].Completed)
		assert.True(t, steps[1].Completed)
		assert.True(t, steps[2].Current)
		assert.False(t, steps[2].Completed)
		assert.False(t, steps[3].Completed)
		assert.False(t, steps[4].Completed)
	})

	t.Run("given delivered should mark last step current", func(t *testing.T) {
		steps := Timeline(StatusDelivered)

		require.Len(t, steps, 5)
		for _, step := range steps[:4] {
			assert.True(t, step.Completed)
		}
		assert.True(t, steps[4].Current)
	})

	t.Run("given cancelled should collapse to placement and cancellation", func(t *testing.T) {
		steps := Timeline(StatusCancelled)

		require.Len(t, steps, 2)
		assert.Equal(t, StatusPending, steps[0].Status)
		assert.True(t, steps[0].Completed)
		assert.Equal(t, StatusCancelled, steps[1].Status)
		assert.True(t, steps[1].Current)
	})

	t.Run("given any progression status should keep display order", func(t *testing.T) {
		steps := Timeline(StatusConfirmed)

		labels := make([]string, 0, len(steps))
		for _, step := range steps {
			labels = append(labels, step.Label)
		}
		assert.Equal(
			t,
			[]string{"Order Placed", "Confirmed", "Shipped", "Out for Delivery", "Delivered"},
			labels,
		)
	})
}
