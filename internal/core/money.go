// Package core implements the budget aggregation, calculation, and
// recommendation logic. Everything in this package is a pure function of its
// inputs; all I/O lives behind the store ports.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToPaise converts a decimal rupee string to paise with half-up
// rounding on the third decimal place. It accepts both dot (12.34) and comma
// (12,34) separators and a leading minus sign; sign policy is left to the
// caller's validation.
//
// Examples:
//
//	ParseDecimalToPaise("12.34")  -> 1234, nil
//	ParseDecimalToPaise("12,34")  -> 1234, nil
//	ParseDecimalToPaise("12.345") -> 1234, nil (rounds down)
//	ParseDecimalToPaise("12.346") -> 1235, nil (rounds up)
//	ParseDecimalToPaise("-5")     -> -500, nil
func ParseDecimalToPaise(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Guard the *100 below against overflow.
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// First two fractional digits, half-up rounding on the third.
	var fracPaise int64
	if len(fracPart) > 0 {
		fracPaise = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracPaise += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracPaise++
			}
		}
	}
	paise := iv*100 + fracPaise
	if negative {
		paise = -paise
	}
	return paise, nil
}

// Rupees returns the rupee value as a float64 for display purposes.
// Use paise for calculations to avoid floating-point precision issues.
func (m Money) Rupees() float64 {
	return float64(m.Paise) / 100.0
}

// String renders the amount as rupees with the currency symbol, e.g. ₹1234.50.
func (m Money) String() string {
	sign := ""
	p := m.Paise
	if p < 0 {
		sign = "-"
		p = -p
	}
	return fmt.Sprintf("%s₹%d.%02d", sign, p/100, p%100)
}
