package eligibility

import (
	_ "embed"
)

//go:embed data/china_context.md
var chinaContext string

//go:embed data/india_context.md
var indiaContext string

// SpecialContext returns the country-specific degree equivalency guidance
// for an ISO 3166-1 alpha-3 code, or "" when no guidance exists. The text
// is advisory prompt material; the authoritative thresholds live in the
// China and India evaluators.
func SpecialContext(iso3 string) string {
	switch iso3 {
	case "CHN":
		return chinaContext
	case "IND":
		return indiaContext
	}
	return ""
}
