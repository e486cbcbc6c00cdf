package evaluators

import (
	"context"
	"encoding/json"

	"github.com/JaimeStill/cohort/internal/judge"
)

// detectSampleLimit caps the document text sample sent to the country
// detector.
const detectSampleLimit = 20000

const detectInstructions = "You are given applicant materials. Determine the degree-awarding country for the highest completed degree. " +
	"Return strict JSON: {country_name: string|null, country_code_iso3: string|null}. " +
	"Do not include prose or backticks."

// CountryDetection is the response contract for degree country detection.
type CountryDetection struct {
	CountryName     *string `json:"country_name"`
	CountryCodeISO3 *string `json:"country_code_iso3"`
}

// DetectDegreeCountry asks the model which country awarded the applicant's
// highest degree, from a small text sample. Failures degrade to an empty
// detection since the result only selects optional special context.
func (e *Evaluators) DetectDegreeCountry(ctx context.Context, textSample string) CountryDetection {
	if len(textSample) > detectSampleLimit {
		textSample = textSample[:detectSampleLimit]
	}

	payload, err := json.Marshal(map[string]string{"text": textSample})
	if err != nil {
		return CountryDetection{}
	}

	req := judge.Request{
		Instructions: detectInstructions,
		Content:      string(payload),
	}

	parsed, _, err := invokeContract[CountryDetection](ctx, e.invoker, req, nil)
	if err != nil {
		e.logger.Warn("degree country detection failed", "error", err)
		return CountryDetection{}
	}

	return parsed
}
