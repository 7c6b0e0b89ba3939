package booking

import (
	"fmt"
	"strings"
)

// ParsePriceCents parses a decimal price string ("45", "45.5", "45.00") into
// cents. Malformed or empty input parses to zero, matching how the booking
// page treats missing prices. Fractions beyond cents are truncated.
func ParsePriceCents(price string) int64 {
	price = strings.TrimSpace(price)
	if price == "" {
		return 0
	}
	negative := false
	if strings.HasPrefix(price, "-") {
		negative = true
		price = price[1:]
	}

	whole, frac, _ := strings.Cut(price, ".")
	if whole == "" && frac == "" {
		return 0
	}

	var cents int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0
		}
		cents = cents*10 + int64(r-'0')
	}
	cents *= 100

	if len(frac) > 2 {
		frac = frac[:2]
	}
	mult := int64(10)
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0
		}
		cents += int64(r-'0') * mult
		mult /= 10
	}

	if negative {
		return -cents
	}
	return cents
}

// FormatCents renders cents as a decimal price string ("6000" -> "60.00").
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
