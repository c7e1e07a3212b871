package entity

import (
	"fmt"
	"strings"
)

// DefaultCurrency is assumed when a donation request omits the currency
const DefaultCurrency = "hkd"

// minimums holds the minimum donation per supported currency, in minor units.
// The table is fixed; adding a currency means adding a row here.
var minimums = map[string]int64{
	"hkd": 1000, // HK$10.00
	"usd": 200,  // US$2.00
}

// currencySymbols maps supported currency codes to display symbols
var currencySymbols = map[string]string{
	"hkd": "HK$",
	"usd": "US$",
}

// NormalizeCurrency lowercases the code and applies the default for empty input
func NormalizeCurrency(currency string) string {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		return DefaultCurrency
	}
	return currency
}

// IsSupportedCurrency reports whether the currency has a minimum-amount entry
func IsSupportedCurrency(currency string) bool {
	_, ok := minimums[currency]
	return ok
}

// MinimumFor returns the minimum donation for a currency in minor units.
// The boolean is false for unsupported currencies.
func MinimumFor(currency string) (int64, bool) {
	min, ok := minimums[currency]
	return min, ok
}

// FormatAmount renders an amount of minor units as a human-readable string,
// e.g. FormatAmount("hkd", 1000) == "HK$10.00"
func FormatAmount(currency string, minorUnits int64) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = strings.ToUpper(currency) + " "
	}
	return fmt.Sprintf("%s%d.%02d", symbol, minorUnits/100, minorUnits%100)
}
