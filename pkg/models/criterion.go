package models

import (
	"fmt"
	"strings"
)

// Polarity states whether higher or lower raw values are preferred.
type Polarity string

const (
	Benefit Polarity = "benefit" // higher is better
	Cost    Polarity = "cost"    // lower is better
)

// ParsePolarity converts a string to a Polarity. It accepts the source
// dataset's "max"/"min" spelling as aliases.
func ParsePolarity(s string) (Polarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "benefit", "max":
		return Benefit, nil
	case "cost", "min":
		return Cost, nil
	default:
		return "", fmt.Errorf("unknown polarity %q (want benefit or cost)", s)
	}
}

// Polarities holds one polarity per criterion, indexed like the
// DecisionMatrix criteria.
type Polarities []Polarity

// Of returns the polarity of criterion j.
func (p Polarities) Of(j int) Polarity {
	return p[j]
}

// IsCost reports whether criterion j is a cost criterion.
func (p Polarities) IsCost(j int) bool {
	return p[j] == Cost
}

// Criterion describes one column of the decision matrix.
type Criterion struct {
	Name     string   `json:"name" toon:"name"`
	Index    int      `json:"index" toon:"index"`
	Polarity Polarity `json:"polarity" toon:"polarity"`
}

// Describe pairs the matrix criteria with their polarities.
func (p Polarities) Describe(m *DecisionMatrix) []Criterion {
	out := make([]Criterion, m.Cols())
	for j, name := range m.criteria {
		out[j] = Criterion{Name: name, Index: j, Polarity: p[j]}
	}
	return out
}
