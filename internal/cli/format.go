package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatDollar formats an amount as dollars with thousands separators, e.g. "-$1,250.00".
func FormatDollar(amount float64) string {
	cents := int64(math.Round(math.Abs(amount) * 100))
	result := fmt.Sprintf("$%s.%02d", humanize.Comma(cents/100), cents%100)
	if amount < 0 && cents != 0 {
		result = "-" + result
	}
	return result
}

// FormatPnL formats a payoff with an explicit sign for gains.
func FormatPnL(value float64) string {
	formatted := FormatDollar(value)
	if value > 0 && formatted != "$0.00" {
		return "+" + formatted
	}
	return formatted
}

// FormatAxis formats an axis tick with thousands separators and no decimals.
func FormatAxis(value float64) string {
	rounded := int64(math.Round(value))
	return humanize.Comma(rounded)
}

// FormatPrice formats a grid price.
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

// PadRight pads a string to the right.
func PadRight(s string, length int) string {
	if visibleLen(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-visibleLen(s))
}

// PadLeft pads a string to the left.
func PadLeft(s string, length int) string {
	if visibleLen(s) >= length {
		return s
	}
	return strings.Repeat(" ", length-visibleLen(s)) + s
}

// Center centers a string.
func Center(s string, length int) string {
	if visibleLen(s) >= length {
		return s
	}
	padding := length - visibleLen(s)
	left := padding / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", padding-left)
}
