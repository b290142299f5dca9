// Package waspas implements Weighted Aggregated Sum Product Assessment.
//
//	wsm_i   = sum_j w_j * x_ij
//	wpm_i   = prod_j x_ij ^ w_j
//	score_i = lambda * wsm_i + (1 - lambda) * wpm_i
//
// x is the normalized matrix. A zero cell with a positive weight makes
// wpm_i zero; this is the intended product semantics, not a fault.
// Alternatives are ranked by descending score.
package waspas

import (
	"context"
	"math"

	"github.com/panbanda/qosrank/internal/parallel"
	"github.com/panbanda/qosrank/pkg/models"
	"github.com/panbanda/qosrank/pkg/ranker"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Ranker scores alternatives with WASPAS.
type Ranker struct {
	lambda  float64
	workers int
}

// Option configures the Ranker.
type Option func(*Ranker)

// WithLambda sets the WSM share of the blended score, in [0,1].
func WithLambda(lambda float64) Option {
	return func(r *Ranker) {
		r.lambda = lambda
	}
}

// WithWorkers bounds the number of rows scored concurrently.
func WithWorkers(n int) Option {
	return func(r *Ranker) {
		r.workers = n
	}
}

// New creates a WASPAS ranker. It fails when lambda is outside [0,1].
func New(opts ...Option) (*Ranker, error) {
	r := &Ranker{lambda: DefaultLambda}
	for _, opt := range opts {
		opt(r)
	}
	if math.IsNaN(r.lambda) || r.lambda < 0 || r.lambda > 1 {
		return nil, models.NewConfigurationError("ranking.lambda", "must be in [0,1], got %g", r.lambda)
	}
	return r, nil
}

// Method implements ranker.Ranker.
func (r *Ranker) Method() models.Method { return models.MethodWASPAS }

// Lambda returns the configured blend factor.
func (r *Ranker) Lambda() float64 { return r.lambda }

// Rank implements ranker.Ranker.
func (r *Ranker) Rank(ctx context.Context, in ranker.Input) (*ranker.Result, error) {
	a, err := r.Analyze(ctx, in)
	if err != nil {
		return nil, err
	}
	return &ranker.Result{Ranking: a.Ranking}, nil
}

// Analyze computes WSM, WPM and the blended score for every alternative.
func (r *Ranker) Analyze(ctx context.Context, in ranker.Input) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.CheckNormalized(); err != nil {
		return nil, err
	}

	w := in.Weights.Values()
	rows := in.Matrix.Rows()

	alts := parallel.Map(rows, r.workers, func(i int) Alternative {
		x := mat.Row(nil, i, in.Normalized)
		wsm := floats.Dot(w, x)
		wpm := product(x, w)
		return Alternative{
			ID:    in.Matrix.ID(i),
			WSM:   wsm,
			WPM:   wpm,
			Score: r.lambda*wsm + (1-r.lambda)*wpm,
		}
	})

	scores := make([]float64, rows)
	for i, a := range alts {
		scores[i] = a.Score
	}
	ranking := ranker.NewRanking(models.MethodWASPAS, in.Matrix.IDs(), scores, ranker.Descending)
	for i := range alts {
		alts[i].Rank = ranking.Scores[i].Rank
	}

	return &Analysis{Lambda: r.lambda, Alternatives: alts, Ranking: ranking}, nil
}

func product(x, w []float64) float64 {
	p := 1.0
	for j, v := range x {
		if w[j] == 0 {
			continue
		}
		if v <= 0 {
			return 0
		}
		p *= math.Pow(v, w[j])
	}
	return p
}
