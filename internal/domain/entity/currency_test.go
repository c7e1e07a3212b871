package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCurrency(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"", "hkd"},
		{"  ", "hkd"},
		{"HKD", "hkd"},
		{"usd", "usd"},
		{" Usd ", "usd"},
		{"eur", "eur"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeCurrency(tc.input))
		})
	}
}

func TestMinimumFor(t *testing.T) {
	t.Run("Supported currencies", func(t *testing.T) {
		min, ok := MinimumFor("hkd")
		assert.True(t, ok)
		assert.Equal(t, int64(1000), min)

		min, ok = MinimumFor("usd")
		assert.True(t, ok)
		assert.Equal(t, int64(200), min)
	})

	t.Run("Unsupported currency", func(t *testing.T) {
		_, ok := MinimumFor("eur")
		assert.False(t, ok)
		assert.False(t, IsSupportedCurrency("eur"))
	})
}

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		name     string
		currency string
		amount   int64
		expected string
	}{
		{"HKD minimum", "hkd", 1000, "HK$10.00"},
		{"USD minimum", "usd", 200, "US$2.00"},
		{"Sub-dollar", "usd", 50, "US$0.50"},
		{"Odd cents", "hkd", 1234, "HK$12.34"},
		{"Unknown currency falls back to code", "eur", 500, "EUR 5.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatAmount(tc.currency, tc.amount))
		})
	}
}
