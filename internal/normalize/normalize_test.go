package normalize_test

import (
	"testing"

	"github.com/farm2bag/voicecart/internal/normalize"
)

func TestUnit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"kg", "kg"},
		{"Kgs", "kg"},
		{"KILOGRAMS", "kg"},
		{"kilo", "kg"},
		{"g", "gram"},
		{"gms", "gram"},
		{"pcs", "piece"},
		{"pieces", "piece"},
		{"liters", "litre"},
		{"l", "litre"},
		{"ml", "ml"},
		{"rs", "rupees"},
		{"INR", "rupees"},
		{"dozens", "dozen"},
		{"pkt", "packet"},
		{"bunches", "bunch"},
		{" kg ", "kg"},
		{"sack", "sack"},  // unknown passes through
		{" sack ", "sack"}, // unknown is still trimmed
		{"", ""},
	}
	for _, tc := range tests {
		if got := normalize.Unit(tc.in); got != tc.want {
			t.Errorf("Unit(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUnit_Idempotent(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"kgs", "grams", "pieces", "liters", "rs", "dozens", "pkt", "bunches", "sack", ""} {
		once := normalize.Unit(in)
		twice := normalize.Unit(once)
		if once != twice {
			t.Errorf("Unit not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestQuantity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in            string
		want          float64
		wantDefaulted bool
	}{
		{"5", 5, false},
		{"2.5", 2.5, false},
		{" 3 ", 3, false},
		{"0", 0, false},
		{"", 1, true},
		{"   ", 1, true},
		{"five", 1, true},
		{"-2", 1, true},
		{"1e", 1, true},
	}
	for _, tc := range tests {
		got, defaulted := normalize.Quantity(tc.in)
		if got != tc.want || defaulted != tc.wantDefaulted {
			t.Errorf("Quantity(%q) = (%v, %v), want (%v, %v)",
				tc.in, got, defaulted, tc.want, tc.wantDefaulted)
		}
	}
}
