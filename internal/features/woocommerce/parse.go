package woocommerce

import (
	"regexp"
	"strconv"
	"strings"

	"woocrm/internal/features/order"
)

// Installment suffixes seen in storefront line-item names: "in 3 rate",
// "- 3 rate", "(3 rate)", "€ 99 x 3 mois", and trailing amounts. Applied in
// order against the original name.
var stripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*in\s*\d+\s*rate?\s*`),
	regexp.MustCompile(`(?i)\s*-\s*\d+\s*rate?\s*`),
	regexp.MustCompile(`(?i)\s*\(\d+\s*rate?\)\s*`),
	regexp.MustCompile(`(?i)\s*€\s*\d+[,.]?\d*\s*x\s*\d+\s*mois?\s*`),
	regexp.MustCompile(`(?i)\s*-\s*€\s*[\d,]+\.?\d*\s*`),
	regexp.MustCompile(`(?i)\s*€\s*[\d,]+\.?\d*\s*`),
}

var (
	ratePattern    = regexp.MustCompile(`(?i)(\d+)\s*rate?`)
	monthlyPattern = regexp.MustCompile(`(?i)€\s*([\d,]+\.?\d*)\s*x\s*(\d+)\s*mois?`)
)

// BaseProductName strips installment and price suffixes from a line-item
// name, leaving the catalog product name for matching.
func BaseProductName(name string) string {
	base := name
	for _, pattern := range stripPatterns {
		base = pattern.ReplaceAllString(base, "")
	}
	return strings.Join(strings.Fields(base), " ")
}

// ExtractRateInfo pulls installment metadata out of the original line-item
// name, before stripping discards it. Returns nil when the name carries none.
func ExtractRateInfo(name string) *order.RateInfo {
	if m := ratePattern.FindStringSubmatch(name); m != nil {
		numRates, _ := strconv.Atoi(m[1])
		return &order.RateInfo{
			Type:     "rate",
			NumRates: numRates,
		}
	}

	if m := monthlyPattern.FindStringSubmatch(name); m != nil {
		amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil {
			return nil
		}
		numMonths, _ := strconv.Atoi(m[2])
		return &order.RateInfo{
			Type:          "monthly",
			MonthlyAmount: amount,
			NumMonths:     numMonths,
		}
	}

	return nil
}
