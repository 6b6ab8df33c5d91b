package utils

import "testing"

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		amount   float64
		currency string
		want     string
	}{
		{120, "USD", "$120.00"},
		{120.5, "USD", "$120.50"},
		{99.999, "USD", "$100.00"},
		{80, "EUR", "€80.00"},
		{1500, "JPY", "¥1500"},
		{25000, "IDR", "Rp25000"},
		{42, "XXX", "$42.00"}, // unknown code falls back to USD
	}

	for _, c := range cases {
		if got := FormatCurrency(c.amount, c.currency); got != c.want {
			t.Errorf("FormatCurrency(%v, %s) = %s, want %s", c.amount, c.currency, got, c.want)
		}
	}
}
