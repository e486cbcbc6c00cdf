// Package eligibility implements the deterministic country-specific admission
// evaluators for China and India. Each evaluator is a pure function over
// reference data loaded once at construction: institution alias tables,
// category sets, and numeric threshold tables. No network access, no
// randomness — verdicts are fully reproducible from credential input.
package eligibility

// Band is a target UK degree classification.
type Band string

// Supported UK classification bands.
const (
	BandFirst       Band = "first"
	BandUpperSecond Band = "2:1"
	BandLowerSecond Band = "2:2"
)

// ParseBand maps a UK class name to its band. Accepts both the wire form
// (FIRST, UPPER_SECOND, LOWER_SECOND) and the band literal.
func ParseBand(s string) (Band, bool) {
	switch s {
	case "FIRST", "first":
		return BandFirst, true
	case "UPPER_SECOND", "2:1":
		return BandUpperSecond, true
	case "LOWER_SECOND", "2:2":
		return BandLowerSecond, true
	}
	return "", false
}

// Verdict reasons.
const (
	ReasonNotChina           = "not_china"
	ReasonNot4YearBachelor   = "not_4_year_bachelor"
	ReasonNotMOERecognized   = "not_moe_recognized"
	ReasonRedirectHongKong   = "redirect_to_hong_kong_rules"
	ReasonNoThresholdFound   = "no_threshold_found"
	ReasonMeetsThreshold     = "meets_threshold"
	ReasonBelowThreshold     = "below_threshold"
	ReasonNotIndia           = "not_india"
	ReasonDegreeYearsNot3To5 = "degree_years_not_3to5"
	ReasonBodyNotRecognised  = "awarding_body_not_recognised"
)

// Verdict is the outcome of a country eligibility evaluation.
//
// Eligible is nil when the credential must be evaluated under a different
// jurisdiction's rules (the China star-redirect case); callers branch on that
// explicitly rather than receiving an error. Confidence reflects
// institution-name-match certainty, not eligibility certainty.
type Verdict struct {
	Eligible             *bool    `json:"eligible"`
	Reason               string   `json:"reason"`
	ThresholdUsed        *float64 `json:"threshold_used,omitempty"`
	Category             string   `json:"category,omitempty"`
	InstitutionCanonical string   `json:"institution_canonical,omitempty"`
	InstitutionRaw       string   `json:"institution_raw,omitempty"`
	Confidence           float64  `json:"confidence"`
	Note                 string   `json:"note,omitempty"`
}

const admissionNote = "Meeting minimum requirements does not guarantee admission"

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

func rejected(reason string) Verdict {
	return Verdict{
		Eligible:   boolPtr(false),
		Reason:     reason,
		Confidence: 1.0,
	}
}
