package utils

import (
	"math"
	"strconv"
	"strings"
)

// FormatEUR formats a euro amount as a string like "1 245,99 €".
// Uses a space as thousands separator and a comma for decimals (French style).
func FormatEUR(amount float64) string {
	cents := int64(math.Round(amount * 100))
	neg := cents < 0
	if neg {
		cents = -cents
	}

	s := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	// Pre-allocate: digits + separators + decimals + symbol
	b.Grow(len(s) + len(s)/3 + 8)
	if neg {
		b.WriteString("-")
	}

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte(' ')
		b.WriteString(s[i : i+3])
	}

	frac := strconv.FormatInt(cents%100, 10)
	if len(frac) == 1 {
		frac = "0" + frac
	}
	b.WriteByte(',')
	b.WriteString(frac)
	b.WriteString(" €")

	return b.String()
}
