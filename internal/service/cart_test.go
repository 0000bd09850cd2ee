package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartTotals(t *testing.T) {
	cart := NewCart()

	_, err := cart.Add(1, 2, 10, 1000) // 2 x 10.00
	require.NoError(t, err)
	_, err = cart.Add(2, 1, 5, 500) // 1 x 5.00
	require.NoError(t, err)

	totals := cart.Totals(0)
	assert.Equal(t, int64(2500), totals.SubtotalCents)
	assert.Equal(t, int64(0), totals.DiscountCents)
	assert.Equal(t, int64(2500), totals.TotalCents)
}

func TestCartDiscount(t *testing.T) {
	cart := NewCart()

	_, err := cart.Add(1, 1, 10, 10000) // subtotal 100.00
	require.NoError(t, err)

	totals := cart.Totals(10)
	assert.Equal(t, int64(10000), totals.SubtotalCents)
	assert.Equal(t, int64(1000), totals.DiscountCents)
	assert.Equal(t, int64(9000), totals.TotalCents)
}

func TestCartDiscountClampsTotalAtZero(t *testing.T) {
	cart := NewCart()

	_, err := cart.Add(1, 1, 10, 10000)
	require.NoError(t, err)

	totals := cart.Totals(150)
	assert.Equal(t, int64(0), totals.TotalCents, "total must never go negative")
}

func TestCartClampsQuantityToAvailable(t *testing.T) {
	cart := NewCart()

	line, err := cart.Add(1, 50, 7, 1000)
	require.NoError(t, err)
	assert.Equal(t, 7, line.Quantity)
}

func TestCartAddOverwritesQuantity(t *testing.T) {
	cart := NewCart()

	_, err := cart.Add(1, 3, 10, 1000)
	require.NoError(t, err)
	line, err := cart.Add(1, 5, 10, 1000)
	require.NoError(t, err)

	assert.Equal(t, 5, line.Quantity, "re-adding replaces, not sums")
	assert.Len(t, cart.Lines(), 1)
}

func TestCartRejectsOutOfStock(t *testing.T) {
	cart := NewCart()

	_, err := cart.Add(1, 1, 0, 1000)
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = cart.Add(1, 0, 10, 1000)
	assert.ErrorIs(t, err, ErrZeroQty)
}

func TestCartRemove(t *testing.T) {
	cart := NewCart()

	_, err := cart.Add(1, 1, 10, 1000)
	require.NoError(t, err)
	_, err = cart.Add(2, 1, 10, 2000)
	require.NoError(t, err)

	require.NoError(t, cart.Remove(1))
	assert.Len(t, cart.Lines(), 1)
	assert.Equal(t, int64(2), cart.Lines()[0].VariantID)

	assert.ErrorIs(t, cart.Remove(1), ErrVariantGone)
}

func TestCartLinesKeepInsertionOrder(t *testing.T) {
	cart := NewCart()

	for _, id := range []int64{5, 3, 9} {
		_, err := cart.Add(id, 1, 10, 100)
		require.NoError(t, err)
	}

	lines := cart.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, int64(5), lines[0].VariantID)
	assert.Equal(t, int64(3), lines[1].VariantID)
	assert.Equal(t, int64(9), lines[2].VariantID)
}

func TestCommitSaleRejectsEmptyCart(t *testing.T) {
	ss := &SaleService{}

	_, err := ss.CommitSale(context.Background(), 1, &CommitSaleRequest{LocationID: 1})
	assert.ErrorIs(t, err, ErrEmptyCart)
}
