package eligibility

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/china_universities.json
var chinaUniversitiesData []byte

//go:embed data/china_rules.yaml
var chinaRulesData []byte

// Institution flags carried by the China reference list.
const (
	flagDoubleStar   = "double_star"
	flagStarRedirect = "star_redirect"
)

// Threshold categories for China credentials.
const (
	CategoryUCLListDefault  = "in_ucl_list_default"
	CategoryDoubleStarCS    = "in_ucl_list_double_star_cs"
	CategoryDoubleStarNonCS = "in_ucl_list_double_star_non_cs"
	CategoryOutsideUCLList  = "outside_ucl_list"
	CategoryStarRedirect    = "star_redirect"
)

// Hard-coded substring fallbacks for Computer-Science/Technology majors,
// applied after the configured exact-match list.
var csTechKeywords = []string{
	"computer science",
	"计算机科学",
	"software engineering",
	"软件工程",
}

// ChinaUniversity is one entry in the approved-institution reference list.
type ChinaUniversity struct {
	Canonical string   `json:"canonical"`
	Aliases   []string `json:"aliases,omitempty"`
	Flag      string   `json:"flag,omitempty"`
}

type chinaThresholds struct {
	UCLListDefault map[string]float64 `yaml:"in_ucl_list_default"`
	DoubleStar     struct {
		CSTech    map[string]float64 `yaml:"cs_tech"`
		NonCSTech map[string]float64 `yaml:"non_cs_tech"`
	} `yaml:"in_ucl_list_double_star"`
	OutsideUCLList map[string]float64 `yaml:"outside_ucl_list"`
}

type chinaRules struct {
	CSTechMajors []string        `yaml:"cs_tech_majors"`
	Thresholds   chinaThresholds `yaml:"thresholds"`
}

// ChinaCredential is the transient input to the China evaluator.
type ChinaCredential struct {
	Country       string
	DegreeYears   int
	MOERecognized bool
	Institution   string
	Major         string
	Mark          float64
	TargetBand    Band
}

// China evaluates credentials against the China-specific admission rules.
// Stateless after construction; safe for concurrent use.
type China struct {
	rules       chinaRules
	csMajors    map[string]struct{}
	lookup      map[string]*ChinaUniversity
	lookupNames []string
}

// NewChina loads the embedded reference data and builds the institution
// lookup table. A load failure is a configuration error and should be fatal
// at startup.
func NewChina() (*China, error) {
	var universities []ChinaUniversity
	if err := json.Unmarshal(chinaUniversitiesData, &universities); err != nil {
		return nil, fmt.Errorf("load china universities: %w", err)
	}

	var rules chinaRules
	if err := yaml.Unmarshal(chinaRulesData, &rules); err != nil {
		return nil, fmt.Errorf("load china rules: %w", err)
	}

	e := &China{
		rules:    rules,
		csMajors: make(map[string]struct{}, len(rules.CSTechMajors)),
		lookup:   make(map[string]*ChinaUniversity),
	}

	for _, major := range rules.CSTechMajors {
		e.csMajors[normalizeName(major)] = struct{}{}
	}

	for i := range universities {
		uni := &universities[i]
		key := normalizeName(uni.Canonical)
		e.lookup[key] = uni
		e.lookupNames = append(e.lookupNames, key)

		for _, alias := range uni.Aliases {
			aliasKey := normalizeName(alias)
			if _, exists := e.lookup[aliasKey]; exists {
				continue
			}
			e.lookup[aliasKey] = uni
			e.lookupNames = append(e.lookupNames, aliasKey)
		}
	}

	return e, nil
}

// Evaluate applies the China admission rules to a credential.
func (e *China) Evaluate(c ChinaCredential) Verdict {
	switch normalizeName(c.Country) {
	case "china", "cn", "中国":
	default:
		return rejected(ReasonNotChina)
	}

	if c.DegreeYears != 4 {
		return rejected(ReasonNot4YearBachelor)
	}

	if !c.MOERecognized {
		return rejected(ReasonNotMOERecognized)
	}

	uni, confidence := e.resolve(c.Institution)

	var (
		category  string
		canonical string
	)

	if uni == nil {
		// Not on the approved list: fall back to general MoE requirements.
		category = CategoryOutsideUCLList
		canonical = c.Institution
		confidence = 0.5
	} else {
		if uni.Flag == flagStarRedirect {
			return Verdict{
				Eligible:             nil,
				Reason:               ReasonRedirectHongKong,
				Category:             CategoryStarRedirect,
				InstitutionCanonical: uni.Canonical,
				InstitutionRaw:       c.Institution,
				Confidence:           1.0,
			}
		}

		category = e.category(uni, c.Major)
		canonical = uni.Canonical
	}

	threshold, ok := e.threshold(category, c.TargetBand)
	if !ok {
		return Verdict{
			Eligible:       boolPtr(false),
			Reason:         ReasonNoThresholdFound,
			Category:       category,
			InstitutionRaw: c.Institution,
			Confidence:     0.3,
		}
	}

	meets := c.Mark >= threshold
	reason := ReasonBelowThreshold
	if meets {
		reason = ReasonMeetsThreshold
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

// resolve matches a raw institution name against the approved list. Exact
// case-insensitive matches carry 0.9 confidence; fuzzy matches carry the raw
// similarity scaled by the fuzzy penalty. Returns (nil, 0) when unresolved.
func (e *China) resolve(raw string) (*ChinaUniversity, float64) {
	if raw == "" {
		return nil, 0
	}

	name := normalizeName(raw)
	if uni, ok := e.lookup[name]; ok {
		return uni, 0.9
	}

	match, score := bestFuzzyMatch(name, e.lookupNames)
	if match == "" {
		return nil, 0
	}

	return e.lookup[match], score * fuzzyPenalty
}

func (e *China) category(uni *ChinaUniversity, major string) string {
	if uni.Flag != flagDoubleStar {
		return CategoryUCLListDefault
	}
	if e.isCSTechMajor(major) {
		return CategoryDoubleStarCS
	}
	return CategoryDoubleStarNonCS
}

func (e *China) isCSTechMajor(major string) bool {
	if major == "" {
		return false
	}

	name := normalizeName(major)
	if _, ok := e.csMajors[name]; ok {
		return true
	}

	for _, keyword := range csTechKeywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}

	return false
}

func (e *China) threshold(category string, band Band) (float64, bool) {
	var table map[string]float64

	switch category {
	case CategoryUCLListDefault:
		table = e.rules.Thresholds.UCLListDefault
	case CategoryDoubleStarCS:
		table = e.rules.Thresholds.DoubleStar.CSTech
	case CategoryDoubleStarNonCS:
		table = e.rules.Thresholds.DoubleStar.NonCSTech
	case CategoryOutsideUCLList:
		table = e.rules.Thresholds.OutsideUCLList
	default:
		return 0, false
	}

	threshold, ok := table[string(band)]
	return threshold, ok
}
