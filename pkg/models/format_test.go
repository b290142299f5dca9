package models

import (
	"encoding/json"
	"strings"
	"testing"

	toon "github.com/toon-format/toon-go"
)

func formatSamples() []struct {
	name string
	data any
} {
	return []struct {
		name string
		data any
	}{
		{
			name: "Criterion",
			data: Criterion{Name: "Response Time", Index: 0, Polarity: Cost},
		},
		{
			name: "Ranking",
			data: Ranking{
				Method: MethodFuzzyTOPSIS,
				Scores: []Score{{ID: "a", Score: 0.71, Rank: 1}, {ID: "b", Score: 0.12, Rank: 2}},
			},
		},
		{
			name: "Warning",
			data: Warning{Stage: "normalize", Kind: WarnConstantColumn, Criterion: "Latency", Row: -1, Message: "max equals min"},
		},
		{
			name: "Warnings",
			data: []Warning{{Stage: "vikor", Kind: WarnFlatAxis, Row: -1, Message: "S range is zero"}},
		},
	}
}

// TestAllTypesSerializeToJSON ensures all custom string types work with JSON encoding.
func TestAllTypesSerializeToJSON(t *testing.T) {
	for _, tt := range formatSamples() {
		t.Run(tt.name+"_json", func(t *testing.T) {
			data, err := json.Marshal(tt.data)
			if err != nil {
				t.Errorf("JSON marshal failed: %v", err)
				return
			}
			if len(data) == 0 {
				t.Error("JSON output should not be empty")
			}
		})
	}
}

// TestAllTypesSerializeToTOON ensures all custom string types work with TOON encoding.
func TestAllTypesSerializeToTOON(t *testing.T) {
	for _, tt := range formatSamples() {
		t.Run(tt.name+"_toon", func(t *testing.T) {
			data, err := toon.Marshal(tt.data)
			if err != nil {
				t.Errorf("TOON marshal failed: %v", err)
				return
			}
			if len(data) == 0 {
				t.Error("TOON output should not be empty")
			}
		})
	}
}

func TestMethodJSONUsesWireName(t *testing.T) {
	data, err := json.Marshal(Ranking{Method: MethodFuzzyTOPSIS})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"method":"fuzzy_topsis"`) {
		t.Errorf("Ranking JSON = %s", data)
	}

	var decoded Criterion
	if err := json.Unmarshal([]byte(`{"name":"Latency","index":2,"polarity":"cost"}`), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Polarity != Cost || decoded.Index != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
}

// TestCustomStringTypesImplementStringer ensures all custom string types implement fmt.Stringer
// which is required for toon serialization.
func TestCustomStringTypesImplementStringer(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{ String() string }
		expect string
	}{
		{"Polarity_benefit", Benefit, "benefit"},
		{"Polarity_cost", Cost, "cost"},
		{"Method_waspas", MethodWASPAS, "waspas"},
		{"Method_vikor", MethodVIKOR, "vikor"},
		{"Method_fuzzy_topsis", MethodFuzzyTOPSIS, "fuzzy_topsis"},
		{"WarningKind_zero_value", WarnZeroValue, "zero_value"},
		{"WarningKind_zero_max", WarnZeroMax, "zero_max"},
		{"WarningKind_constant_column", WarnConstantColumn, "constant_column"},
		{"WarningKind_zero_column_sum", WarnZeroColumnSum, "zero_column_sum"},
		{"WarningKind_uniform_weights", WarnUniformWeights, "uniform_weights"},
		{"WarningKind_flat_axis", WarnFlatAxis, "flat_axis"},
		{"WarningKind_no_distance", WarnNoDistance, "no_distance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.value.String()
			if result != tt.expect {
				t.Errorf("String() = %q, want %q", result, tt.expect)
			}
		})
	}
}
