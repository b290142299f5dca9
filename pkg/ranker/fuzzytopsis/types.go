package fuzzytopsis

import (
	"math"

	"github.com/panbanda/qosrank/pkg/models"
)

// Band is the linguistic level a crisp value falls in.
type Band string

const (
	Low    Band = "low"
	Medium Band = "medium"
	High   Band = "high"
)

// Triple returns the one-hot membership degrees (low, medium, high).
func (b Band) Triple() [3]float64 {
	switch b {
	case Low:
		return [3]float64{1, 0, 0}
	case High:
		return [3]float64{0, 0, 1}
	default:
		return [3]float64{0, 1, 0}
	}
}

// Mirror swaps Low and High. Used for cost criteria, where a low raw value
// is the preferred level.
func (b Band) Mirror() Band {
	switch b {
	case Low:
		return High
	case High:
		return Low
	default:
		return b
	}
}

// Criterion names a fuzzified criterion and its crisp thresholds.
// Values below Low are Low, values above High are High and values in
// [Low, High] are Medium.
type Criterion struct {
	Name string  `json:"name" toon:"name"`
	Low  float64 `json:"low" toon:"low"`
	High float64 `json:"high" toon:"high"`
}

// Validate checks that the thresholds are finite and Low < High.
func (c Criterion) Validate() error {
	if c.Name == "" {
		return models.NewConfigurationError("fuzzy.criteria", "criterion name is empty")
	}
	if math.IsNaN(c.Low) || math.IsNaN(c.High) || math.IsInf(c.Low, 0) || math.IsInf(c.High, 0) {
		return models.NewConfigurationError("fuzzy.criteria", "%s: thresholds must be finite", c.Name)
	}
	if c.Low >= c.High {
		return models.NewConfigurationError("fuzzy.criteria", "%s: low (%g) must be less than high (%g)", c.Name, c.Low, c.High)
	}
	return nil
}

// Fuzzify returns the band for value.
func (c Criterion) Fuzzify(value float64) Band {
	switch {
	case value < c.Low:
		return Low
	case value > c.High:
		return High
	default:
		return Medium
	}
}

// Alternative holds the per-alternative fuzzy TOPSIS measures.
type Alternative struct {
	ID                string  `json:"id" toon:"id"`
	Bands             []Band  `json:"bands" toon:"bands"`
	DistanceIdeal     float64 `json:"distance_ideal" toon:"distance_ideal"`
	DistanceAntiIdeal float64 `json:"distance_anti_ideal" toon:"distance_anti_ideal"`
	Closeness         float64 `json:"closeness" toon:"closeness"`
	Rank              int     `json:"rank" toon:"rank"`
}

// Analysis is the full fuzzy TOPSIS outcome.
type Analysis struct {
	Criteria     []Criterion      `json:"criteria" toon:"criteria"`
	Alternatives []Alternative    `json:"alternatives" toon:"alternatives"`
	Warnings     []models.Warning `json:"warnings,omitempty" toon:"warnings"`
	Ranking      models.Ranking   `json:"-" toon:"-"`
}
