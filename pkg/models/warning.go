package models

import "fmt"

// WarningKind classifies a degenerate numeric condition that was absorbed
// with a fallback value.
type WarningKind string

const (
	WarnZeroValue      WarningKind = "zero_value"      // cost cell equal to 0
	WarnZeroMax        WarningKind = "zero_max"        // benefit column max equal to 0
	WarnConstantColumn WarningKind = "constant_column" // max == min
	WarnZeroColumnSum  WarningKind = "zero_column_sum" // entropy p column undefined
	WarnUniformWeights WarningKind = "uniform_weights" // entropy fell back to 1/k
	WarnFlatAxis       WarningKind = "flat_axis"       // VIKOR S or R range is zero
	WarnNoDistance     WarningKind = "no_distance"     // TOPSIS both distances 0
)

// Warning is a non-fatal observation recorded by a pipeline stage.
// Row is -1 when the condition applies to a whole column or the matrix.
type Warning struct {
	Stage     string      `json:"stage" toon:"stage"`
	Kind      WarningKind `json:"kind" toon:"kind"`
	Criterion string      `json:"criterion,omitempty" toon:"criterion"`
	Row       int         `json:"row" toon:"row"`
	Message   string      `json:"message" toon:"message"`
}

func (w Warning) String() string {
	if w.Row >= 0 {
		return fmt.Sprintf("%s: %s (row %d): %s", w.Stage, w.Criterion, w.Row, w.Message)
	}
	if w.Criterion != "" {
		return fmt.Sprintf("%s: %s: %s", w.Stage, w.Criterion, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
