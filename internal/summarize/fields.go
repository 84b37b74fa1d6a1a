package summarize

import (
	"regexp"
	"strings"

	"github.com/agrostack/agridocs/internal/core/domain"
)

var (
	cropPattern = regexp.MustCompile(
		`(?i)\b(maize|corn|millet|sorghum|rice|paddy|cassava|wheat|barley|soybean|cotton|coffee|tea|sugarcane)\b`)
	areaPattern = regexp.MustCompile(
		`(?i)\b(\d+(?:[.,]\d+)?)\s*(ha|hectares?|acres?|mu)\b`)
	datePattern = regexp.MustCompile(
		`\b(\d{4}[-/]\d{1,2}[-/]\d{1,2}|\d{1,2}[-/]\d{1,2}[-/]\d{4})\b`)
	fertilizerPattern = regexp.MustCompile(
		`(?i)\b(npk[\s-]?\d+[-:]\d+[-:]\d+|urea|dap|compost|manure)\b`)
	irrigationPattern = regexp.MustCompile(
		`(?i)\b(drip|sprinkler|flood|furrow|pivot)\s+irrigation\b`)
	yieldPattern = regexp.MustCompile(
		`(?i)\b(\d+(?:[.,]\d+)?)\s*(t/ha|tons?\s+per\s+hectare|kg/ha|bags?)\b`)
)

// ExtractFields scans the text with fixed patterns; first match wins per
// field.
func ExtractFields(text string) domain.AgronomyFields {
	fields := domain.AgronomyFields{}
	if m := cropPattern.FindString(text); m != "" {
		fields.Crop = strings.ToLower(m)
	}
	if m := areaPattern.FindString(text); m != "" {
		fields.Area = m
	}
	if m := datePattern.FindString(text); m != "" {
		fields.Date = m
	}
	if m := fertilizerPattern.FindString(text); m != "" {
		fields.Fertilizer = strings.ToLower(m)
	}
	if m := irrigationPattern.FindString(text); m != "" {
		fields.Irrigation = strings.ToLower(m)
	}
	if m := yieldPattern.FindString(text); m != "" {
		fields.Yield = m
	}
	return fields
}
