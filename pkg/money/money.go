// Package money parses and formats monetary values.
//
// Invariants:
//   - Amounts are always integers in minor units (cents). No floating point.
//   - A single implicit currency with two decimal places.
//   - Parse accepts only "digits[.d[d]]"; signs, exponents and extra decimals are rejected.
package money

import (
	"regexp"
	"strconv"
	"strings"
)

// Amount is a monetary value in minor units.
type Amount = int64

// Scale is the number of minor units in one major unit.
const Scale = 100

var decimalPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// Parse converts a decimal string such as "12.3" into minor units (1230).
// Surrounding whitespace is ignored. The result must be strictly positive.
func Parse(raw string) (Amount, error) {
	s := strings.TrimSpace(raw)
	if !decimalPattern.MatchString(s) {
		return 0, ErrInvalidAmount
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	major, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if major > (maxAmount / Scale) {
		return 0, ErrAmountOverflow
	}

	var minor int64
	if fracPart != "" {
		// "5" means fifty cents, not five
		fracPart = (fracPart + "0")[:2]
		minor, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
	}

	total := major*Scale + minor
	if total < major*Scale {
		return 0, ErrAmountOverflow
	}
	if total <= 0 {
		return 0, ErrInvalidAmount
	}
	return total, nil
}

// MustParse is like Parse but panics on invalid input. Intended for tests and constants.
func MustParse(raw string) Amount {
	a, err := Parse(raw)
	if err != nil {
		panic("money.MustParse(" + strconv.Quote(raw) + "): " + err.Error())
	}
	return a
}

// Format renders minor units as a decimal string with exactly two fraction digits.
// Negative values carry the sign before the integer part ("-0.05").
func Format(a Amount) string {
	sign := ""
	abs := uint64(a)
	if a < 0 {
		sign = "-"
		abs = uint64(-(a + 1)) + 1
	}
	major := abs / Scale
	minor := abs % Scale

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(strconv.FormatUint(major, 10))
	b.WriteByte('.')
	if minor < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatUint(minor, 10))
	return b.String()
}

const maxAmount = int64(^uint64(0) >> 1)
