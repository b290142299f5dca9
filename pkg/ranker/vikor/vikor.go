// Package vikor implements VIKOR compromise ranking over the raw decision
// matrix.
package vikor

import (
	"context"
	"fmt"
	"math"

	"github.com/panbanda/qosrank/internal/parallel"
	"github.com/panbanda/qosrank/pkg/models"
	"github.com/panbanda/qosrank/pkg/ranker"
	"gonum.org/v1/gonum/floats"
)

// Stage is the name recorded on warnings produced by this package.
const Stage = "vikor"

// Ranker scores alternatives with VIKOR.
type Ranker struct {
	v       float64
	workers int
}

// Option configures the Ranker.
type Option func(*Ranker)

// WithV sets the weight of the group-utility term, in [0,1].
func WithV(v float64) Option {
	return func(r *Ranker) {
		r.v = v
	}
}

// WithWorkers bounds the number of rows and columns processed concurrently.
func WithWorkers(n int) Option {
	return func(r *Ranker) {
		r.workers = n
	}
}

// New creates a VIKOR ranker. It fails when v is outside [0,1].
func New(opts ...Option) (*Ranker, error) {
	r := &Ranker{v: DefaultV}
	for _, opt := range opts {
		opt(r)
	}
	if math.IsNaN(r.v) || r.v < 0 || r.v > 1 {
		return nil, models.NewConfigurationError("ranking.v", "must be in [0,1], got %g", r.v)
	}
	return r, nil
}

// Method implements ranker.Ranker.
func (r *Ranker) Method() models.Method { return models.MethodVIKOR }

// V returns the configured trade-off parameter.
func (r *Ranker) V() float64 { return r.v }

// Rank implements ranker.Ranker.
func (r *Ranker) Rank(ctx context.Context, in ranker.Input) (*ranker.Result, error) {
	a, err := r.Analyze(ctx, in)
	if err != nil {
		return nil, err
	}
	return &ranker.Result{Ranking: a.Ranking, Warnings: a.Warnings}, nil
}

type bounds struct {
	ideal, anti float64
}

// Analyze computes S, R and Q for every alternative. Ideal and anti-ideal
// points come from the raw values, so Input.Normalized is not used.
//
//	d_ij = |f_ij - f*_j| / |f-_j - f*_j|      (0 when f-_j == f*_j)
//	S_i  = sum_j w_j * d_ij
//	R_i  = max_j w_j * d_ij
//	Q_i  = v * (S_i - S-) / (S+ - S-) + (1 - v) * (R_i - R-) / (R+ - R-)
//
// A Q term whose range is zero contributes 0.
func (r *Ranker) Analyze(ctx context.Context, in ranker.Input) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.CheckWeights(); err != nil {
		return nil, err
	}

	m := in.Matrix
	rows, cols := m.Rows(), m.Cols()
	w := in.Weights.Values()

	b := parallel.Map(cols, r.workers, func(j int) bounds {
		col := m.Column(j)
		hi, lo := floats.Max(col), floats.Min(col)
		if in.Polarities.IsCost(j) {
			return bounds{ideal: lo, anti: hi}
		}
		return bounds{ideal: hi, anti: lo}
	})

	a := &Analysis{
		V:         r.v,
		Ideal:     make([]float64, cols),
		AntiIdeal: make([]float64, cols),
	}
	for j, bj := range b {
		a.Ideal[j], a.AntiIdeal[j] = bj.ideal, bj.anti
		if bj.ideal == bj.anti {
			a.Warnings = append(a.Warnings, models.Warning{
				Stage:     Stage,
				Kind:      models.WarnConstantColumn,
				Criterion: m.Criterion(j),
				Row:       -1,
				Message:   "ideal equals anti-ideal, criterion contributes 0",
			})
		}
	}

	a.Alternatives = parallel.Map(rows, r.workers, func(i int) Alternative {
		var s, reg float64
		for j := 0; j < cols; j++ {
			den := math.Abs(b[j].anti - b[j].ideal)
			if den == 0 {
				continue
			}
			term := w[j] * math.Abs(m.At(i, j)-b[j].ideal) / den
			s += term
			reg = math.Max(reg, term)
		}
		return Alternative{ID: m.ID(i), S: s, R: reg}
	})

	s := make([]float64, rows)
	reg := make([]float64, rows)
	for i, alt := range a.Alternatives {
		s[i], reg[i] = alt.S, alt.R
	}
	sMin, sMax := floats.Min(s), floats.Max(s)
	rMin, rMax := floats.Min(reg), floats.Max(reg)
	if sMax == sMin {
		a.Warnings = append(a.Warnings, flatAxis("S", sMin))
	}
	if rMax == rMin {
		a.Warnings = append(a.Warnings, flatAxis("R", rMin))
	}

	q := make([]float64, rows)
	for i := range a.Alternatives {
		var qs, qr float64
		if sMax != sMin {
			qs = (s[i] - sMin) / (sMax - sMin)
		}
		if rMax != rMin {
			qr = (reg[i] - rMin) / (rMax - rMin)
		}
		q[i] = r.v*qs + (1-r.v)*qr
		a.Alternatives[i].Q = q[i]
	}

	a.Ranking = ranker.NewRanking(models.MethodVIKOR, m.IDs(), q, ranker.Ascending)
	for i := range a.Alternatives {
		a.Alternatives[i].Rank = a.Ranking.Scores[i].Rank
	}
	return a, nil
}

func flatAxis(axis string, value float64) models.Warning {
	return models.Warning{
		Stage:   Stage,
		Kind:    models.WarnFlatAxis,
		Row:     -1,
		Message: fmt.Sprintf("%s is %g for every alternative, its Q term is 0", axis, value),
	}
}
