package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotal(t *testing.T) {
	// 3 seats at 129.99 with no discount.
	total, err := Total(12999, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(38997), total)

	// Same order with a 20% discount capped at 50.00: the raw discount
	// would be 77.994, so the cap applies and the total is 339.97.
	discount := Discount(38997, 20, 5000)
	assert.Equal(t, int64(5000), discount)

	total, err = Total(12999, 3, discount)
	require.NoError(t, err)
	assert.Equal(t, int64(33997), total)
}

func TestTotalValidation(t *testing.T) {
	_, err := Total(10000, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidSeatCount)

	_, err = Total(-1, 2, 0)
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = Total(10000, 2, -1)
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	_, err = Total(10000, 2, 20001)
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	// A discount equal to the subtotal is allowed.
	total, err := Total(10000, 2, 20000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestDiscountRounding(t *testing.T) {
	// 77.994 rounds half up to 77.99 before the cap is considered.
	assert.Equal(t, int64(7799), Discount(38997, 20, 100000))

	// Exactly half a cent rounds up: 1.125 -> 1.13.
	assert.Equal(t, int64(113), Discount(225, 50, 100000))

	assert.Equal(t, int64(0), Discount(0, 20, 5000))
	assert.Equal(t, int64(0), Discount(10000, 0, 5000))
}

func TestDiscountCap(t *testing.T) {
	// 50% of 200.00 is 100.00, capped at 25.00.
	assert.Equal(t, int64(2500), Discount(20000, 50, 2500))
}
