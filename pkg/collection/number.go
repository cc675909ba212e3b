package collection

import (
	"strconv"
	"strings"
)

// DefaultVariant is appended to set numbers typed without one.
const DefaultVariant = "1"

// NormalizeNumber trims raw and appends the default variant when missing, so
// "7140" becomes "7140-1".
func NormalizeNumber(raw string) string {
	number := strings.TrimSpace(raw)
	if number == "" {
		return ""
	}
	if !strings.Contains(number, "-") {
		number += "-" + DefaultVariant
	}
	return number
}

// ParseNumber splits "7140-1" into its base and variant digits.
func ParseNumber(number string) (base, variant int, ok bool) {
	head, tail, found := strings.Cut(number, "-")
	if !found {
		tail = DefaultVariant
	}
	base, err := strconv.Atoi(head)
	if err != nil {
		return 0, 0, false
	}
	variant, err = strconv.Atoi(tail)
	if err != nil {
		return 0, 0, false
	}
	return base, variant, true
}

// CompareNumbers orders set numbers by their numeric value, so "9-1" sorts
// before "10-1". Numbers that do not parse sort after those that do and
// compare as strings among themselves.
func CompareNumbers(a, b string) int {
	ab, av, aok := ParseNumber(a)
	bb, bv, bok := ParseNumber(b)
	switch {
	case aok && bok:
		if ab != bb {
			return cmpInt(ab, bb)
		}
		if av != bv {
			return cmpInt(av, bv)
		}
		return strings.Compare(a, b)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
