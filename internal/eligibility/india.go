package eligibility

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
)

//go:embed data/india_institutions.json
var indiaInstitutionsData []byte

// India institution categories.
const (
	CategoryOne = "category1"
	CategoryTwo = "category2"
)

// indiaThresholds is the official threshold reference table, keyed by
// category, target band, and grading-scale denominator ("percent" for
// percentage marks). Reproduced verbatim from the published requirements;
// do not re-derive.
var indiaThresholds = map[string]map[Band]map[string]float64{
	CategoryOne: {
		BandFirst:       {"10": 8.0, "8": 6.5, "7": 6.0, "6": 4.5, "4": 3.3, "percent": 65},
		BandUpperSecond: {"10": 7.5, "8": 6.0, "7": 5.5, "6": 4.0, "4": 3.0, "percent": 60},
		BandLowerSecond: {"10": 6.5, "8": 5.5, "7": 5.0, "6": 3.5, "4": 2.7, "percent": 55},
	},
	CategoryTwo: {
		BandFirst:       {"10": 8.5, "8": 7.0, "7": 6.5, "6": 5.0, "4": 3.6, "percent": 70},
		BandUpperSecond: {"10": 8.0, "8": 6.5, "7": 6.0, "6": 4.5, "4": 3.3, "percent": 65},
		BandLowerSecond: {"10": 7.0, "8": 6.0, "7": 5.5, "6": 4.0, "4": 3.0, "percent": 60},
	},
}

type indiaInstitutions struct {
	Category1Sets map[string][]string `json:"category1_sets"`
	Aliases       map[string]string   `json:"aliases"`
}

// IndiaCredential is the transient input to the India evaluator.
// ScaleDenominator is nil when Mark is already a percentage.
type IndiaCredential struct {
	Country                string
	DegreeYears            int
	AwardingBodyRecognised bool
	Institution            string
	Mark                   float64
	ScaleDenominator       *int
	TargetBand             Band
}

// India evaluates credentials against the India-specific admission rules.
// Stateless after construction; safe for concurrent use.
type India struct {
	category1 map[string]string
	names     []string
	aliases   map[string]string
}

// NewIndia loads the embedded institution classification data. A load
// failure is a configuration error and should be fatal at startup.
func NewIndia() (*India, error) {
	var data indiaInstitutions
	if err := json.Unmarshal(indiaInstitutionsData, &data); err != nil {
		return nil, fmt.Errorf("load india institutions: %w", err)
	}

	e := &India{
		category1: make(map[string]string),
		aliases:   make(map[string]string, len(data.Aliases)),
	}

	for _, institutions := range data.Category1Sets {
		for _, name := range institutions {
			key := normalizeName(name)
			if _, exists := e.category1[key]; exists {
				continue
			}
			e.category1[key] = name
			e.names = append(e.names, key)
		}
	}

	for alias, canonical := range data.Aliases {
		e.aliases[normalizeName(alias)] = canonical
	}

	return e, nil
}

// Evaluate applies the India admission rules to a credential.
func (e *India) Evaluate(c IndiaCredential) Verdict {
	switch normalizeName(c.Country) {
	case "india", "in", "भारत":
	default:
		return rejected(ReasonNotIndia)
	}

	if c.DegreeYears < 3 || c.DegreeYears > 5 {
		return rejected(ReasonDegreeYearsNot3To5)
	}

	if !c.AwardingBodyRecognised {
		return rejected(ReasonBodyNotRecognised)
	}

	canonical, nameConfidence := e.resolve(c.Institution)
	category := e.classify(canonical)

	meets, threshold := e.meetsThreshold(c.Mark, c.ScaleDenominator, c.TargetBand, category)

	reason := ReasonBelowThreshold
	if meets {
		reason = ReasonMeetsThreshold
	}

	var confidence float64
	switch {
	case category == CategoryOne && nameConfidence > 0.8:
		confidence = nameConfidence
	case category == CategoryOne:
		confidence = nameConfidence * 0.9
	default:
		// Category 2 is the default bucket; the floor keeps an unresolved
		// name from dragging overall confidence below a usable level.
		confidence = max(0.6, nameConfidence)
	}

	return Verdict{
		Eligible:             boolPtr(meets),
		Reason:               reason,
		ThresholdUsed:        floatPtr(threshold),
		Category:             category,
		InstitutionCanonical: canonical,
		InstitutionRaw:       c.Institution,
		Confidence:           confidence,
		Note:                 admissionNote,
	}
}

// resolve normalizes a raw institution name: alias match (0.95), exact
// Category 1 match (0.9), fuzzy match (similarity scaled by the fuzzy
// penalty), or unresolved (raw name, 0.3).
func (e *India) resolve(raw string) (string, float64) {
	if raw == "" {
		return raw, 0
	}

	name := normalizeName(raw)

	if canonical, ok := e.aliases[name]; ok {
		return canonical, 0.95
	}

	if canonical, ok := e.category1[name]; ok {
		return canonical, 0.9
	}

	match, score := bestFuzzyMatch(name, e.names)
	if match != "" {
		return e.category1[match], score * fuzzyPenalty
	}

	return raw, 0.3
}

// classify buckets an institution into Category 1 or Category 2.
func (e *India) classify(canonical string) string {
	if _, ok := e.category1[normalizeName(canonical)]; ok {
		return CategoryOne
	}
	return CategoryTwo
}

// meetsThreshold compares a mark against the reference table. An exact scale
// entry wins; otherwise the mark converts to a percentage and compares
// against the percentage band.
func (e *India) meetsThreshold(mark float64, denom *int, band Band, category string) (bool, float64) {
	thresholds := indiaThresholds[category][band]

	if denom != nil {
		if threshold, ok := thresholds[strconv.Itoa(*denom)]; ok {
			return mark >= threshold, threshold
		}
	}

	percent := mark
	if denom != nil {
		percent = mark / float64(*denom) * 100.0
	}

	threshold := thresholds["percent"]
	return percent >= threshold, threshold
}
