package utils_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finvault/ebank/internal/apperrors"
	"github.com/finvault/ebank/internal/utils"
)

func TestToMinorUnits(t *testing.T) {
	t.Run("converts whole amounts", func(t *testing.T) {
		minor, err := utils.ToMinorUnits(decimal.NewFromInt(150))
		require.NoError(t, err)
		assert.Equal(t, int64(15000), minor)
	})

	t.Run("converts fractional amounts", func(t *testing.T) {
		minor, err := utils.ToMinorUnits(decimal.RequireFromString("0.01"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), minor)
	})

	t.Run("rejects zero", func(t *testing.T) {
		_, err := utils.ToMinorUnits(decimal.Zero)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})

	t.Run("rejects negative", func(t *testing.T) {
		_, err := utils.ToMinorUnits(decimal.RequireFromString("-10.50"))
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})

	t.Run("rejects sub-minor-unit precision", func(t *testing.T) {
		_, err := utils.ToMinorUnits(decimal.RequireFromString("1.005"))
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})

	t.Run("rejects overflow", func(t *testing.T) {
		huge := decimal.New(1, 30)
		_, err := utils.ToMinorUnits(huge)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})
}

func TestFromMinorUnits(t *testing.T) {
	assert.True(t, decimal.RequireFromString("150.00").Equal(utils.FromMinorUnits(15000)))
	assert.True(t, decimal.RequireFromString("0.01").Equal(utils.FromMinorUnits(1)))
	assert.True(t, decimal.Zero.Equal(utils.FromMinorUnits(0)))
}

func TestMinorUnitRoundTrip(t *testing.T) {
	for _, s := range []string{"0.01", "1", "99.99", "12345.67"} {
		amount := decimal.RequireFromString(s)
		minor, err := utils.ToMinorUnits(amount)
		require.NoError(t, err)
		assert.True(t, amount.Equal(utils.FromMinorUnits(minor)), "round trip of %s", s)
	}
}
