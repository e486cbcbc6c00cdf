package eligibility_test

import (
	"testing"

	"github.com/JaimeStill/cohort/internal/eligibility"
)

func newChina(t *testing.T) *eligibility.China {
	t.Helper()

	e, err := eligibility.NewChina()
	if err != nil {
		t.Fatalf("NewChina() error: %v", err)
	}
	return e
}

func TestChinaEvaluate(t *testing.T) {
	e := newChina(t)

	tests := []struct {
		name         string
		credential   eligibility.ChinaCredential
		wantEligible *bool
		wantReason   string
		wantCategory string
	}{
		{
			name: "double star cs above threshold",
			credential: eligibility.ChinaCredential{
				Country:       "China",
				DegreeYears:   4,
				MOERecognized: true,
				Institution:   "Tsinghua University",
				Major:         "Computer Science",
				Mark:          86,
				TargetBand:    eligibility.BandUpperSecond,
			},
			wantEligible: boolPtr(true),
			wantReason:   eligibility.ReasonMeetsThreshold,
			wantCategory: eligibility.CategoryDoubleStarCS,
		},
		{
			name: "double star non cs holds higher bar",
			credential: eligibility.ChinaCredential{
				Country:       "China",
				DegreeYears:   4,
				MOERecognized: true,
				Institution:   "Tsinghua University",
				Major:         "History",
				Mark:          86,
				TargetBand:    eligibility.BandUpperSecond,
			},
			wantEligible: boolPtr(false),
			wantReason:   eligibility.ReasonBelowThreshold,
			wantCategory: eligibility.CategoryDoubleStarNonCS,
		},
		{
			name: "below threshold",
			credential: eligibility.ChinaCredential{
				Country:       "China",
				DegreeYears:   4,
				MOERecognized: true,
				Institution:   "Tsinghua University",
				Major:         "Computer Science",
				Mark:          84,
				TargetBand:    eligibility.BandUpperSecond,
			},
			wantEligible: boolPtr(false),
			wantReason:   eligibility.ReasonBelowThreshold,
			wantCategory: eligibility.CategoryDoubleStarCS,
		},
		{
			name: "wrong country",
			credential: eligibility.ChinaCredential{
				Country:       "Singapore",
				DegreeYears:   4,
				MOERecognized: true,
				Institution:   "Tsinghua University",
				Mark:          95,
				TargetBand:    eligibility.BandUpperSecond,
			},
			wantEligible: boolPtr(false),
			wantReason:   eligibility.ReasonNotChina,
		},
		{
			name: "three year diploma",
			credential: eligibility.ChinaCredential{
				Country:       "China",
				DegreeYears:   3,
				MOERecognized: true,
				Institution:   "Tsinghua University",
				Mark:          95,
				TargetBand:    eligibility.BandUpperSecond,
			},
			wantEligible: boolPtr(false),
			wantReason:   eligibility.ReasonNot4YearBachelor,
		},
		{
			name: "not moe recognized",
			credential: eligibility.ChinaCredential{
				Country:       "China",
				DegreeYears:   4,
				MOERecognized: false,
				Institution:   "Tsinghua University",
				Mark:          95,
				TargetBand:    eligibility.BandUpperSecond,
			},
			wantEligible: boolPtr(false),
			wantReason:   eligibility.ReasonNotMOERecognized,
		},
		{
			name: "outside list uses highest band",
			credential: eligibility.ChinaCredential{
				Country:       "China",
				DegreeYears:   4,
				MOERecognized: true,
				Institution:   "Unknown Provincial College",
				Mark:          89,
				TargetBand:    eligibility.BandUpperSecond,
			},
			wantEligible: boolPtr(false),
			wantReason:   eligibility.ReasonBelowThreshold,
			wantCategory: eligibility.CategoryOutsideUCLList,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Evaluate(tt.credential)

			if !eligibleEqual(got.Eligible, tt.wantEligible) {
				t.Errorf("Eligible = %v, want %v", fmtBool(got.Eligible), fmtBool(tt.wantEligible))
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if tt.wantCategory != "" && got.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCategory)
			}
		})
	}
}

func TestChinaEvaluateStarRedirect(t *testing.T) {
	e := newChina(t)

	got := e.Evaluate(eligibility.ChinaCredential{
		Country:       "China",
		DegreeYears:   4,
		MOERecognized: true,
		Institution:   "United International College",
		Mark:          95,
		TargetBand:    eligibility.BandUpperSecond,
	})

	if got.Eligible != nil {
		t.Errorf("Eligible = %v, want nil for redirect", *got.Eligible)
	}
	if got.Reason != eligibility.ReasonRedirectHongKong {
		t.Errorf("Reason = %q, want %q", got.Reason, eligibility.ReasonRedirectHongKong)
	}
	if got.Category != eligibility.CategoryStarRedirect {
		t.Errorf("Category = %q, want %q", got.Category, eligibility.CategoryStarRedirect)
	}
	if got.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", got.Confidence)
	}
}

func TestChinaEvaluateDeterministic(t *testing.T) {
	e := newChina(t)

	credential := eligibility.ChinaCredential{
		Country:       "China",
		DegreeYears:   4,
		MOERecognized: true,
		Institution:   "Tsing Hua Univ",
		Major:         "Software Engineering",
		Mark:          88,
		TargetBand:    eligibility.BandFirst,
	}

	first := e.Evaluate(credential)
	for i := 0; i < 5; i++ {
		again := e.Evaluate(credential)
		if again.InstitutionCanonical != first.InstitutionCanonical ||
			again.Confidence != first.Confidence ||
			again.Reason != first.Reason {
			t.Fatalf("evaluation %d diverged: %+v vs %+v", i, again, first)
		}
	}
}

func boolPtr(b bool) *bool { return &b }

func eligibleEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtBool(b *bool) any {
	if b == nil {
		return "<nil>"
	}
	return *b
}
