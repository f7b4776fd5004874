package order

import (
	"testing"

	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleLines() []Line {
	return []Line{
		{SkuID: uuid.New(), Size: "M", Quantity: 2, Price: dec("50.00"), Bonuses: dec("1.00")},
		{SkuID: uuid.New(), Size: "L", Quantity: 1, Price: dec("30.00")},
	}
}

func sampleOrder(t *testing.T) *Order {
	t.Helper()
	o, err := New(nil, sampleLines(), Shipping{Price: dec("10.00"), Location: "minsk"}, Contact{Name: "Ann", Surname: "Lee"}, Payment{})
	require.NoError(t, err)
	return o
}

func TestNew(t *testing.T) {
	t.Run("creates active assembling order with secret", func(t *testing.T) {
		o := sampleOrder(t)
		assert.Equal(t, StatusActive, o.Status)
		assert.Equal(t, ShippingAssembling, o.ShippingStatus)
		assert.Len(t, o.Secret, shared.TokenBytes*2)
		assert.Nil(t, o.OwnerID)

		for _, line := range o.Lines {
			assert.Equal(t, o.ID, line.OrderID)
		}
	})

	t.Run("rejects empty order", func(t *testing.T) {
		_, err := New(nil, nil, Shipping{}, Contact{}, Payment{})
		assert.ErrorIs(t, err, shared.ErrFieldRequired)
	})

	t.Run("rejects non-positive line quantity", func(t *testing.T) {
		lines := []Line{{SkuID: uuid.New(), Size: "M", Quantity: 0, Price: dec("50.00")}}
		_, err := New(nil, lines, Shipping{}, Contact{}, Payment{})
		assert.ErrorIs(t, err, shared.ErrInvalidValue)
	})
}

func TestOrderTotal(t *testing.T) {
	o := sampleOrder(t)
	// 2*50 + 1*30 + 10 shipping
	assert.True(t, o.Total().Equal(dec("140.00")))
}

func TestStatusTransitions(t *testing.T) {
	t.Run("active may leave to any terminal state", func(t *testing.T) {
		for _, target := range []Status{StatusCancelled, StatusRejected, StatusResolved} {
			assert.True(t, StatusActive.CanTransitionTo(target), "active -> %s", target)
		}
	})

	t.Run("terminal states are final", func(t *testing.T) {
		for _, from := range []Status{StatusCancelled, StatusRejected, StatusResolved} {
			for _, target := range []Status{StatusActive, StatusCancelled, StatusRejected, StatusResolved} {
				assert.False(t, from.CanTransitionTo(target), "%s -> %s", from, target)
			}
		}
	})

	t.Run("nothing re-enters active", func(t *testing.T) {
		assert.False(t, StatusActive.CanTransitionTo(StatusActive))
	})
}

func TestOrderCancel(t *testing.T) {
	t.Run("cancels an active order", func(t *testing.T) {
		o := sampleOrder(t)
		require.NoError(t, o.Cancel())
		assert.Equal(t, StatusCancelled, o.Status)
		require.NotNil(t, o.CancelledAt)
	})

	t.Run("second cancel fails", func(t *testing.T) {
		o := sampleOrder(t)
		require.NoError(t, o.Cancel())
		assert.ErrorIs(t, o.Cancel(), shared.ErrOrderAlreadyCancelled)
	})

	t.Run("resolved order cannot be cancelled", func(t *testing.T) {
		o := sampleOrder(t)
		require.NoError(t, o.TransitionTo(StatusResolved))
		assert.ErrorIs(t, o.Cancel(), shared.ErrOrderAlreadyCancelled)
	})
}

func TestOrderTransitionTo(t *testing.T) {
	t.Run("idempotent re-application fails", func(t *testing.T) {
		o := sampleOrder(t)
		require.NoError(t, o.TransitionTo(StatusRejected))
		assert.ErrorIs(t, o.TransitionTo(StatusRejected), shared.ErrOrderAlreadyInStatus)
	})

	t.Run("terminal states never move", func(t *testing.T) {
		o := sampleOrder(t)
		require.NoError(t, o.TransitionTo(StatusRejected))
		assert.Error(t, o.TransitionTo(StatusResolved))
	})
}

func TestOrderAdvanceShipping(t *testing.T) {
	t.Run("advances strictly forward", func(t *testing.T) {
		o := sampleOrder(t)
		require.NoError(t, o.AdvanceShipping(ShippingShipping))
		require.NoError(t, o.AdvanceShipping(ShippingCollected))
		assert.Equal(t, ShippingCollected, o.ShippingStatus)
	})

	t.Run("skipping a step fails", func(t *testing.T) {
		o := sampleOrder(t)
		assert.ErrorIs(t, o.AdvanceShipping(ShippingCollected), shared.ErrOrderAlreadyInStatus)
	})

	t.Run("never moves backwards", func(t *testing.T) {
		o := sampleOrder(t)
		require.NoError(t, o.AdvanceShipping(ShippingShipping))
		assert.Error(t, o.AdvanceShipping(ShippingAssembling))
		assert.Error(t, o.AdvanceShipping(ShippingShipping))
	})
}
