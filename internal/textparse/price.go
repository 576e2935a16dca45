package textparse

import (
	"regexp"
	"strconv"
	"strings"

	"gamehound/dealscraper/logger"
)

// Price shapes, tried in order. The bare-decimal pattern must come last because
// it would otherwise greedily match inside the currency forms.
var (
	suffixPricePattern = regexp.MustCompile(`(\d+(?:[.,]\d+)*)\s*(?:zł|PLN|EUR|USD|GBP|€|£)`)
	prefixPricePattern = regexp.MustCompile(`(?:\$|€|£|USD|EUR|PLN)\s*(\d+(?:[.,]\d+)*)`)
	barePricePattern   = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

	scorePattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// ExtractPrice pulls a numeric price out of free-form, locale-varying text such as
// "53,99 zł", "$19.99" or "24.99". Returns ok=false when no numeric token parses;
// sentinel inputs ("N/A", "Unknown") fail naturally since they carry no digits.
func ExtractPrice(text string) (float64, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, false
	}

	for _, pattern := range []*regexp.Regexp{suffixPricePattern, prefixPricePattern} {
		if m := pattern.FindStringSubmatch(trimmed); m != nil {
			if value, err := parseDecimal(m[1]); err == nil {
				return value, true
			}
		}
	}

	if m := barePricePattern.FindString(trimmed); m != "" {
		if value, err := parseDecimal(m); err == nil {
			return value, true
		}
	}

	logger.Warn("could not extract price from %q", text)
	return 0, false
}

// ExtractScore pulls a numeric rating out of free text and normalizes it onto a
// 0-100 scale: values up to 10 are assumed to be on a 0-10 scale and multiplied
// by 10. The result is clamped to [0, 100].
func ExtractScore(text string) (float64, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, false
	}

	m := scorePattern.FindString(trimmed)
	if m == "" {
		logger.Warn("could not extract score from %q", text)
		return 0, false
	}

	value, err := parseDecimal(m)
	if err != nil {
		logger.Warn("could not parse score token %q", m)
		return 0, false
	}

	if value <= 10 {
		value *= 10
	}
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return value, true
}

// parseDecimal normalizes a matched numeral to Go float syntax. A comma without a
// dot is the decimal separator (European convention); a comma alongside a dot is a
// thousands separator and is stripped. This is a rule, not locale detection:
// "1,234" resolves to 1.234 by convention.
func parseDecimal(token string) (float64, error) {
	hasComma := strings.Contains(token, ",")
	hasDot := strings.Contains(token, ".")

	switch {
	case hasComma && hasDot:
		token = strings.ReplaceAll(token, ",", "")
	case hasComma:
		// The last comma is the decimal separator; any earlier ones group thousands.
		idx := strings.LastIndex(token, ",")
		token = strings.ReplaceAll(token[:idx], ",", "") + "." + token[idx+1:]
	}

	return strconv.ParseFloat(token, 64)
}
