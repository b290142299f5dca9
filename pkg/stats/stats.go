// Package stats provides statistical helpers for ranking reports.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Percentile calculates the p-th percentile of a sorted slice.
// The slice must already be sorted in ascending order.
// Returns 0 if the slice is empty.
func Percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Summary describes a score distribution.
type Summary struct {
	Count  int     `json:"count" toon:"count"`
	Min    float64 `json:"min" toon:"min"`
	Max    float64 `json:"max" toon:"max"`
	Mean   float64 `json:"mean" toon:"mean"`
	StdDev float64 `json:"std_dev" toon:"std_dev"`
	P50    float64 `json:"p50" toon:"p50"`
	P90    float64 `json:"p90" toon:"p90"`
}

// Summarize computes a Summary of values. values is not modified.
// Returns the zero Summary for an empty slice.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = 0
	}
	return Summary{
		Count:  len(sorted),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Mean:   mean,
		StdDev: std,
		P50:    Percentile(sorted, 50),
		P90:    Percentile(sorted, 90),
	}
}

// RankCorrelation returns Spearman's rho for two rank vectors. Ranks may
// be dense or tied; both vectors are first converted to fractional ranks,
// where tied entries share the mean of the positions they span. ok is
// false when the vectors differ in length, have fewer than two entries or
// either is constant.
func RankCorrelation(a, b []int) (rho float64, ok bool) {
	if len(a) != len(b) || len(a) < 2 {
		return 0, false
	}
	x := make([]float64, len(a))
	y := make([]float64, len(b))
	for i := range a {
		x[i], y[i] = float64(a[i]), float64(b[i])
	}
	if floats.Max(x) == floats.Min(x) || floats.Max(y) == floats.Min(y) {
		return 0, false
	}
	return stat.Correlation(FractionalRanks(x), FractionalRanks(y), nil), true
}

// FractionalRanks ranks values ascending from 1. Equal values receive the
// average of the ranks they would occupy, so [10 20 20 30] ranks as
// [1 2.5 2.5 4].
func FractionalRanks(values []float64) []float64 {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(p, q int) bool {
		return values[order[p]] < values[order[q]]
	})

	ranks := make([]float64, len(values))
	for start := 0; start < len(order); {
		end := start + 1
		for end < len(order) && values[order[end]] == values[order[start]] {
			end++
		}
		// positions start..end-1 are 1-based ranks start+1..end
		avg := float64(start+1+end) / 2
		for _, idx := range order[start:end] {
			ranks[idx] = avg
		}
		start = end
	}
	return ranks
}
