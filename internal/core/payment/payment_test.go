package payment

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"used-market/internal/core/config"
)

func TestToMinorUnits(t *testing.T) {
	cases := map[float64]int64{
		10:     1000,
		19.99:  1999,
		1234.5: 123450,
	}
	for price, want := range cases {
		got, err := ToMinorUnits(price)
		require.NoError(t, err)
		assert.Equal(t, want, got, "price %v", price)
	}

	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := ToMinorUnits(bad)
		assert.Error(t, err, "price %v", bad)
	}
}

func TestNew_Providers(t *testing.T) {
	g, err := New(config.Payment{Provider: "none"})
	require.NoError(t, err)
	_, err = g.CreateIntent(context.Background(), 100, "usd")
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = New(config.Payment{Provider: "stripe"})
	assert.Error(t, err)

	g, err = New(config.Payment{Provider: "stripe", StripeKey: "sk_test_123"})
	require.NoError(t, err)
	assert.IsType(t, &Stripe{}, g)

	_, err = New(config.Payment{Provider: "paypal"})
	assert.Error(t, err)
}
