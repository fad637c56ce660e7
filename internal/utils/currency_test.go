package utils

import "testing"

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		code   string
		amount float64
		want   string
	}{
		{"USD", 1234.56, "$1,234.56"},
		{"USD", 0, "$0.00"},
		{"USD", -99.5, "-$99.50"},
		{"USD", 1000000, "$1,000,000.00"},
		{"USD", 10.006, "$10.01"}, // rounds to the nearest cent
		{"EUR", 1234.56, "€1.234,56"},
		{"JPY", 1500, "¥1,500"},
		{"SEK", 1234.5, "1 234,50 kr"},
		{"PLN", 9876.5, "9 876,50 zł"},
		{"CHF", 1234.56, "CHF1'234.56"},
		{"XXX", 10, "$10.00"}, // unknown code falls back to USD
	}

	for _, tt := range tests {
		got := FormatAmount(tt.code, tt.amount)
		if got != tt.want {
			t.Errorf("FormatAmount(%q, %v) = %q, want %q", tt.code, tt.amount, got, tt.want)
		}
	}
}

func TestFormatSigned(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{12.5, "+$12.50"},
		{-8.4, "-$8.40"},
		{0, "+$0.00"},
	}

	for _, tt := range tests {
		got := FormatSigned("USD", tt.amount)
		if got != tt.want {
			t.Errorf("FormatSigned(USD, %v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestGetCurrencyFallback(t *testing.T) {
	if c := GetCurrency("ZZZ"); c.Code != "USD" {
		t.Errorf("GetCurrency(ZZZ).Code = %q, want USD fallback", c.Code)
	}
	if c := GetCurrency("EUR"); c.Code != "EUR" {
		t.Errorf("GetCurrency(EUR).Code = %q, want EUR", c.Code)
	}
}
