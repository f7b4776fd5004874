package cart

import (
	"testing"

	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c := New()
	assert.Len(t, c.Token, shared.TokenBytes*2)
	assert.Empty(t, c.Lines)

	other := New()
	assert.NotEqual(t, c.Token, other.Token)
}

func TestCartSetLine(t *testing.T) {
	skuID := uuid.New()

	t.Run("adds a new line", func(t *testing.T) {
		c := New()
		require.NoError(t, c.SetLine(skuID, "M", 2))

		line := c.Line(skuID, "M")
		require.NotNil(t, line)
		assert.Equal(t, 2, line.Quantity)
		assert.Equal(t, c.ID, line.CartID)
	})

	t.Run("re-add overwrites quantity instead of accumulating", func(t *testing.T) {
		c := New()
		require.NoError(t, c.SetLine(skuID, "M", 2))
		require.NoError(t, c.SetLine(skuID, "M", 5))

		require.Len(t, c.Lines, 1)
		assert.Equal(t, 5, c.Lines[0].Quantity)
	})

	t.Run("same sku in different sizes are separate lines", func(t *testing.T) {
		c := New()
		require.NoError(t, c.SetLine(skuID, "M", 1))
		require.NoError(t, c.SetLine(skuID, "L", 1))
		assert.Len(t, c.Lines, 2)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		c := New()
		assert.ErrorIs(t, c.SetLine(skuID, "M", 0), shared.ErrInvalidValue)
		assert.ErrorIs(t, c.SetLine(skuID, "M", -3), shared.ErrInvalidValue)
	})
}

func TestCartMergeFrom(t *testing.T) {
	skuID := uuid.New()

	t.Run("source quantity wins on collision", func(t *testing.T) {
		target := New()
		require.NoError(t, target.SetLine(skuID, "M", 1))
		source := New()
		require.NoError(t, source.SetLine(skuID, "M", 4))

		changed := target.MergeFrom(source)

		require.Len(t, changed, 1)
		assert.Equal(t, 4, target.Line(skuID, "M").Quantity)
		assert.Equal(t, target.ID, changed[0].CartID)
	})

	t.Run("disjoint lines are appended", func(t *testing.T) {
		target := New()
		require.NoError(t, target.SetLine(skuID, "M", 1))
		source := New()
		require.NoError(t, source.SetLine(skuID, "L", 2))

		changed := target.MergeFrom(source)

		require.Len(t, changed, 1)
		assert.Len(t, target.Lines, 2)
	})

	t.Run("identical lines report no change", func(t *testing.T) {
		target := New()
		require.NoError(t, target.SetLine(skuID, "M", 2))
		source := New()
		require.NoError(t, source.SetLine(skuID, "M", 2))

		assert.Empty(t, target.MergeFrom(source))
	})
}

func TestCartRemoveLine(t *testing.T) {
	skuID := uuid.New()

	t.Run("removes an existing line", func(t *testing.T) {
		c := New()
		require.NoError(t, c.SetLine(skuID, "M", 2))
		require.NoError(t, c.RemoveLine(skuID, "M"))
		assert.Empty(t, c.Lines)
	})

	t.Run("missing line reports cart item error", func(t *testing.T) {
		c := New()
		require.NoError(t, c.SetLine(skuID, "M", 2))

		assert.ErrorIs(t, c.RemoveLine(skuID, "L"), shared.ErrCartItemNotExists)
		assert.ErrorIs(t, c.RemoveLine(uuid.New(), "M"), shared.ErrCartItemNotExists)
		assert.Len(t, c.Lines, 1)
	})
}
