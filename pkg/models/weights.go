package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// WeightTolerance is the allowed deviation of a weight vector's sum from 1.
const WeightTolerance = 1e-9

// WeightVector holds one non-negative weight per criterion, summing to 1.
// It is derived once per run and shared read-only by every ranker.
type WeightVector struct {
	criteria []string
	values   []float64
}

// NewWeightVector pairs criteria with weights. It does not renormalize.
func NewWeightVector(criteria []string, values []float64) (WeightVector, error) {
	if len(criteria) != len(values) {
		return WeightVector{}, fmt.Errorf("weight vector: %d criteria but %d weights", len(criteria), len(values))
	}
	for j, w := range values {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return WeightVector{}, fmt.Errorf("weight vector: invalid weight %v for %q", w, criteria[j])
		}
	}
	return WeightVector{
		criteria: append([]string(nil), criteria...),
		values:   append([]float64(nil), values...),
	}, nil
}

// UniformWeights returns 1/k for each of the k criteria.
func UniformWeights(criteria []string) WeightVector {
	values := make([]float64, len(criteria))
	for j := range values {
		values[j] = 1 / float64(len(criteria))
	}
	return WeightVector{criteria: append([]string(nil), criteria...), values: values}
}

// Len returns the number of criteria.
func (w WeightVector) Len() int { return len(w.values) }

// At returns the weight of criterion j.
func (w WeightVector) At(j int) float64 { return w.values[j] }

// Values returns a copy of the weights in criterion order.
func (w WeightVector) Values() []float64 { return append([]float64(nil), w.values...) }

// Criteria returns a copy of the criterion names.
func (w WeightVector) Criteria() []string { return append([]string(nil), w.criteria...) }

// Get returns the weight of the named criterion.
func (w WeightVector) Get(name string) (float64, bool) {
	for j, c := range w.criteria {
		if c == name {
			return w.values[j], true
		}
	}
	return 0, false
}

// Sum returns the total weight.
func (w WeightVector) Sum() float64 {
	var s float64
	for _, v := range w.values {
		s += v
	}
	return s
}

// Normalized reports whether the weights sum to 1 within WeightTolerance.
func (w WeightVector) Normalized() bool {
	return math.Abs(w.Sum()-1) <= WeightTolerance
}

// Map returns the weights keyed by criterion name.
func (w WeightVector) Map() map[string]float64 {
	out := make(map[string]float64, len(w.values))
	for j, c := range w.criteria {
		out[c] = w.values[j]
	}
	return out
}

// MarshalJSON encodes the vector as a criterion -> weight object.
func (w WeightVector) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Map())
}
