package evaluators

import (
	"context"
	"testing"
)

func TestScoreIELTSLevel2(t *testing.T) {
	tests := []struct {
		overall float64
		want    int
	}{
		{8.5, 10},
		{8.0, 10},
		{7.5, 7},
		{7.0, 5},
		{6.5, 0},
		{0, 0},
	}

	for _, tt := range tests {
		if got := scoreIELTSLevel2(tt.overall); got != tt.want {
			t.Errorf("scoreIELTSLevel2(%v) = %d, want %d", tt.overall, got, tt.want)
		}
	}
}

func TestMeetsThresholdsTool(t *testing.T) {
	tool := meetsThresholdsTool{}

	tests := []struct {
		name string
		args map[string]any
		want bool
	}{
		{
			name: "all components pass",
			args: map[string]any{
				"overall": 7.5, "min_overall": 7.0,
				"reading": 7.0, "min_reading": 6.5,
			},
			want: true,
		},
		{
			name: "one component fails",
			args: map[string]any{
				"overall": 7.5, "min_overall": 7.0,
				"writing": 6.0, "min_writing": 6.5,
			},
			want: false,
		},
		{
			name: "missing observed value is not applicable",
			args: map[string]any{
				"min_speaking": 6.5,
			},
			want: true,
		},
		{
			name: "explicit sentinel skips component",
			args: map[string]any{
				"overall": -1.0, "min_overall": 7.0,
				"reading": 7.0, "min_reading": 6.5,
			},
			want: true,
		},
		{
			name: "no requirements",
			args: map[string]any{"overall": 5.0},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tool.Call(context.Background(), tt.args)
			if err != nil {
				t.Fatalf("Call() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Call() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPercentThresholdTool(t *testing.T) {
	tool := percentThresholdTool{}

	tests := []struct {
		name string
		args map[string]any
		want bool
	}{
		{"meets", map[string]any{"observed_percent": 86.0, "min_required_percent": 85.0}, true},
		{"exact", map[string]any{"observed_percent": 85.0, "min_required_percent": 85.0}, true},
		{"below", map[string]any{"observed_percent": 84.0, "min_required_percent": 85.0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tool.Call(context.Background(), tt.args)
			if err != nil {
				t.Fatalf("Call() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Call() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountrySupportTool(t *testing.T) {
	tool := countrySupportTool{}

	tests := []struct {
		name          string
		country       string
		wantSupported bool
		wantFunction  string
	}{
		{"china", "China", true, "evaluate_china_applicant"},
		{"china iso3", "CHN", true, "evaluate_china_applicant"},
		{"india", "india", true, "evaluate_india_applicant"},
		{"india native", "भारत", true, "evaluate_india_applicant"},
		{"unsupported", "Brazil", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tool.Call(context.Background(), map[string]any{"country": tt.country})
			if err != nil {
				t.Fatalf("Call() error: %v", err)
			}

			fields, ok := got.(map[string]any)
			if !ok {
				t.Fatalf("Call() = %T, want map", got)
			}
			if fields["supported"] != tt.wantSupported {
				t.Errorf("supported = %v, want %v", fields["supported"], tt.wantSupported)
			}
			if tt.wantFunction != "" && fields["function_to_use"] != tt.wantFunction {
				t.Errorf("function_to_use = %v, want %q", fields["function_to_use"], tt.wantFunction)
			}
		})
	}
}

func TestEligibilityToolBandValidation(t *testing.T) {
	china := &chinaEligibilityTool{}

	if _, err := china.Call(context.Background(), map[string]any{
		"institution_name": "Tsinghua University",
		"target_uk_class":  "THIRD",
	}); err == nil {
		t.Error("evaluate_china_applicant should reject an unknown target class")
	}

	india := &indiaEligibilityTool{}

	if _, err := india.Call(context.Background(), map[string]any{
		"institution_name": "IIT Bombay",
		"mark_scale":       "weird",
		"target_uk_class":  "2:1",
	}); err == nil {
		t.Error("evaluate_india_applicant should reject an unparseable mark scale")
	}
}
