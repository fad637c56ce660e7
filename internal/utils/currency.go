package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Currency describes how one currency renders amounts. The engine keeps
// budgets as plain float64 in the user's base currency; rendering
// happens only at the presentation edge.
type Currency struct {
	Code          string // ISO 4217 code (e.g., "USD")
	Symbol        string // Display symbol (e.g., "$")
	SymbolFirst   bool   // True if symbol comes before amount
	DecimalPlaces int    // Usually 2, but 0 for JPY, KRW, etc.
	ThousandsSep  string // Thousands separator
	DecimalSep    string // Decimal separator
}

// Currencies covers the locales the CLI renders budgets in.
var Currencies = map[string]Currency{
	"USD": {Code: "USD", Symbol: "$", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ",", DecimalSep: "."},
	"EUR": {Code: "EUR", Symbol: "€", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ".", DecimalSep: ","},
	"GBP": {Code: "GBP", Symbol: "£", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ",", DecimalSep: "."},
	"JPY": {Code: "JPY", Symbol: "¥", SymbolFirst: true, DecimalPlaces: 0, ThousandsSep: ",", DecimalSep: "."},
	"CAD": {Code: "CAD", Symbol: "$", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ",", DecimalSep: "."},
	"AUD": {Code: "AUD", Symbol: "$", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ",", DecimalSep: "."},
	"CHF": {Code: "CHF", Symbol: "CHF", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: "'", DecimalSep: "."},
	"SEK": {Code: "SEK", Symbol: "kr", SymbolFirst: false, DecimalPlaces: 2, ThousandsSep: " ", DecimalSep: ","},
	"PLN": {Code: "PLN", Symbol: "zł", SymbolFirst: false, DecimalPlaces: 2, ThousandsSep: " ", DecimalSep: ","},
	"INR": {Code: "INR", Symbol: "₹", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ",", DecimalSep: "."},
	"BRL": {Code: "BRL", Symbol: "R$", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ".", DecimalSep: ","},
	"KRW": {Code: "KRW", Symbol: "₩", SymbolFirst: true, DecimalPlaces: 0, ThousandsSep: ",", DecimalSep: "."},
	"MXN": {Code: "MXN", Symbol: "$", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ",", DecimalSep: "."},
	"TRY": {Code: "TRY", Symbol: "₺", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ".", DecimalSep: ","},
}

// DefaultCurrency is used when a currency code is not found.
var DefaultCurrency = Currency{Code: "USD", Symbol: "$", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ",", DecimalSep: "."}

// GetCurrency returns the currency configuration for a code, or the
// default if not found.
func GetCurrency(code string) Currency {
	if c, ok := Currencies[code]; ok {
		return c
	}
	return DefaultCurrency
}

// FormatAmount renders amount in the currency's conventions, rounding
// half away from zero to the currency's decimal places.
func FormatAmount(code string, amount float64) string {
	c := GetCurrency(code)

	negative := amount < 0
	if negative {
		amount = -amount
	}

	scale := int64(1)
	for i := 0; i < c.DecimalPlaces; i++ {
		scale *= 10
	}
	units := int64(math.Round(amount * float64(scale)))
	whole := units / scale
	frac := units % scale

	result := formatWithSeparator(whole, c.ThousandsSep)
	if c.DecimalPlaces > 0 {
		result += c.DecimalSep + fmt.Sprintf("%0*d", c.DecimalPlaces, frac)
	}

	if c.SymbolFirst {
		result = c.Symbol + result
	} else {
		result = result + " " + c.Symbol
	}
	if negative {
		result = "-" + result
	}
	return result
}

// FormatSigned renders a budget delta with an explicit sign, the way
// redistribution moves are shown.
func FormatSigned(code string, amount float64) string {
	if amount >= 0 {
		return "+" + FormatAmount(code, amount)
	}
	return FormatAmount(code, amount)
}

// formatWithSeparator adds thousands separators to a number
func formatWithSeparator(n int64, sep string) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 || sep == "" {
		return str
	}

	var result strings.Builder
	startOffset := len(str) % 3
	if startOffset == 0 {
		startOffset = 3
	}

	result.WriteString(str[:startOffset])
	for i := startOffset; i < len(str); i += 3 {
		result.WriteString(sep)
		result.WriteString(str[i : i+3])
	}

	return result.String()
}
