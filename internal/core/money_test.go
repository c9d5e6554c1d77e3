package core

import "testing"

func TestParseDecimalToPaise(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"-1", -100, true},
		{"-0.50", -50, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1a.2", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToPaise(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Errorf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Errorf("%q expected error, got %d", tc.in, got)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		paise int64
		want  string
	}{
		{0, "₹0.00"},
		{1, "₹0.01"},
		{100000, "₹1000.00"},
		{123456, "₹1234.56"},
		{-50, "-₹0.50"},
	}
	for _, tc := range cases {
		if got := (Money{Paise: tc.paise}).String(); got != tc.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tc.paise, got, tc.want)
		}
	}
}

func TestMoneyRupees(t *testing.T) {
	if got := (Money{Paise: 123456}).Rupees(); got != 1234.56 {
		t.Errorf("Rupees() = %v, want 1234.56", got)
	}
}
