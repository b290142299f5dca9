// Package fuzzytopsis ranks alternatives by the closeness of their fuzzified
// criterion values to a fully-High ideal.
//
// Each configured criterion maps a raw value to a one-hot triple
// (low, medium, high). With several criteria the triples are concatenated.
// The ideal repeats (0,0,1) and the anti-ideal repeats (1,0,0).
//
//	d+_i = ||x_i - ideal||
//	d-_i = ||x_i - anti||
//	C_i  = d-_i / (d+_i + d-_i)    (0.5 when both are 0)
//
// Alternatives are ranked by descending closeness.
package fuzzytopsis

import (
	"context"
	"fmt"

	"github.com/panbanda/qosrank/internal/parallel"
	"github.com/panbanda/qosrank/pkg/criteria"
	"github.com/panbanda/qosrank/pkg/models"
	"github.com/panbanda/qosrank/pkg/ranker"
	"gonum.org/v1/gonum/floats"
)

// Stage is the name recorded on warnings produced by this package.
const Stage = "fuzzy_topsis"

// Ranker scores alternatives with fuzzy TOPSIS.
type Ranker struct {
	criteria []Criterion
	workers  int
}

// Option configures the Ranker.
type Option func(*Ranker)

// WithWorkers bounds the number of rows scored concurrently.
func WithWorkers(n int) Option {
	return func(r *Ranker) {
		r.workers = n
	}
}

// New creates a ranker over the given criteria. Thresholds have no default:
// at least one criterion is required and each must pass Validate.
func New(crits []Criterion, opts ...Option) (*Ranker, error) {
	if len(crits) == 0 {
		return nil, models.NewConfigurationError("fuzzy.criteria", "at least one criterion with low/high thresholds is required")
	}
	seen := make(map[string]bool, len(crits))
	for _, c := range crits {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		key := criteria.Canonical(c.Name)
		if seen[key] {
			return nil, models.NewConfigurationError("fuzzy.criteria", "criterion %q listed twice", c.Name)
		}
		seen[key] = true
	}

	r := &Ranker{criteria: append([]Criterion(nil), crits...)}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Method implements ranker.Ranker.
func (r *Ranker) Method() models.Method { return models.MethodFuzzyTOPSIS }

// Criteria returns the configured criteria.
func (r *Ranker) Criteria() []Criterion { return append([]Criterion(nil), r.criteria...) }

// Rank implements ranker.Ranker.
func (r *Ranker) Rank(ctx context.Context, in ranker.Input) (*ranker.Result, error) {
	a, err := r.Analyze(ctx, in)
	if err != nil {
		return nil, err
	}
	return &ranker.Result{Ranking: a.Ranking, Warnings: a.Warnings}, nil
}

// Analyze fuzzifies the configured criteria of the raw matrix and computes
// closeness coefficients. Weights and the normalized matrix are not used.
// When Input.Polarities is set, cost criteria have their bands mirrored.
func (r *Ranker) Analyze(ctx context.Context, in ranker.Input) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.CheckMatrix(); err != nil {
		return nil, err
	}
	m := in.Matrix
	if in.Polarities != nil && len(in.Polarities) != m.Cols() {
		return nil, models.NewDataShapeError(-1, "", "got %d polarities for %d criteria", len(in.Polarities), m.Cols())
	}

	cols, err := r.resolve(m)
	if err != nil {
		return nil, err
	}

	k := len(cols)
	ideal := make([]float64, 3*k)
	anti := make([]float64, 3*k)
	for c := 0; c < k; c++ {
		ideal[3*c+2] = 1
		anti[3*c] = 1
	}

	alts := parallel.Map(m.Rows(), r.workers, func(i int) Alternative {
		bands := make([]Band, k)
		x := make([]float64, 0, 3*k)
		for c, j := range cols {
			b := r.criteria[c].Fuzzify(m.At(i, j))
			if in.Polarities != nil && in.Polarities.IsCost(j) {
				b = b.Mirror()
			}
			bands[c] = b
			t := b.Triple()
			x = append(x, t[:]...)
		}

		dPlus := floats.Distance(x, ideal, 2)
		dMinus := floats.Distance(x, anti, 2)
		return Alternative{
			ID:                m.ID(i),
			Bands:             bands,
			DistanceIdeal:     dPlus,
			DistanceAntiIdeal: dMinus,
			Closeness:         closeness(dPlus, dMinus),
		}
	})

	a := &Analysis{Criteria: r.Criteria(), Alternatives: alts}
	scores := make([]float64, len(alts))
	for i, alt := range alts {
		scores[i] = alt.Closeness
		if alt.DistanceIdeal+alt.DistanceAntiIdeal == 0 {
			a.Warnings = append(a.Warnings, models.Warning{
				Stage:   Stage,
				Kind:    models.WarnNoDistance,
				Row:     i,
				Message: fmt.Sprintf("%s: both distances are 0, closeness set to 0.5", alt.ID),
			})
		}
	}

	a.Ranking = ranker.NewRanking(models.MethodFuzzyTOPSIS, m.IDs(), scores, ranker.Descending)
	for i := range a.Alternatives {
		a.Alternatives[i].Rank = a.Ranking.Scores[i].Rank
	}
	return a, nil
}

// resolve maps each configured criterion to a matrix column. An exact name
// wins over a canonical match.
func (r *Ranker) resolve(m *models.DecisionMatrix) ([]int, error) {
	cols := make([]int, len(r.criteria))
	for c, crit := range r.criteria {
		j, ok := m.Index(crit.Name)
		if !ok {
			j, ok = canonicalIndex(m, crit.Name)
		}
		if !ok {
			return nil, models.NewConfigurationError("fuzzy.criteria", "unknown criterion %q", crit.Name)
		}
		cols[c] = j
	}
	return cols, nil
}

func canonicalIndex(m *models.DecisionMatrix, name string) (int, bool) {
	want := criteria.Canonical(name)
	for j := 0; j < m.Cols(); j++ {
		if criteria.Canonical(m.Criterion(j)) == want {
			return j, true
		}
	}
	return 0, false
}

func closeness(dPlus, dMinus float64) float64 {
	if dPlus+dMinus == 0 {
		return 0.5
	}
	return dMinus / (dPlus + dMinus)
}
