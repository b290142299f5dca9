// Package weights derives objective criterion weights with Shannon entropy.
package weights

import (
	"fmt"
	"math"

	"github.com/panbanda/qosrank/internal/parallel"
	"github.com/panbanda/qosrank/pkg/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Stage is the name recorded on warnings produced by this package.
const Stage = "weights"

// Epsilon keeps ln(p) finite for small p.
const Epsilon = 1e-10

// Result is the weighting outcome with its intermediate terms.
type Result struct {
	Weights         models.WeightVector `json:"weights"`
	Entropy         []float64           `json:"entropy"`
	Diversification []float64           `json:"diversification"`
	Warnings        []models.Warning    `json:"warnings,omitempty"`
}

// EntropyWeighter computes weights from a normalized matrix.
type EntropyWeighter struct {
	workers int
	epsilon float64
}

// Option configures the EntropyWeighter.
type Option func(*EntropyWeighter)

// WithWorkers bounds the number of columns processed concurrently.
func WithWorkers(n int) Option {
	return func(w *EntropyWeighter) {
		w.workers = n
	}
}

// WithEpsilon overrides Epsilon.
func WithEpsilon(eps float64) Option {
	return func(w *EntropyWeighter) {
		w.epsilon = eps
	}
}

// New creates an EntropyWeighter.
func New(opts ...Option) *EntropyWeighter {
	w := &EntropyWeighter{epsilon: Epsilon}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type columnEntropy struct {
	entropy float64
	zeroSum bool
}

// Weigh returns one weight per column of normalized, labelled with criteria.
//
//	p[i,j] = x[i,j] / sum_i x[i,j]   (0 when the column sum is 0)
//	e_j    = -(1/ln n) * sum_i p[i,j] * ln(p[i,j] + eps)
//	d_j    = 1 - e_j
//	w_j    = d_j / sum_k d_k
//
// A single alternative (ln 1 = 0) or sum_k d_k == 0 yields uniform weights.
func (w *EntropyWeighter) Weigh(criteria []string, normalized mat.Matrix) (*Result, error) {
	if normalized == nil {
		return nil, models.NewConfigurationError("matrix", "normalized matrix is nil")
	}
	n, k := normalized.Dims()
	if n == 0 || k == 0 {
		return nil, models.NewConfigurationError("matrix", "decision matrix is empty")
	}
	if len(criteria) != k {
		return nil, models.NewDataShapeError(-1, "", "got %d criterion names for %d columns", len(criteria), k)
	}

	if n == 1 {
		return uniform(criteria, make([]float64, k), make([]float64, k), nil,
			"single alternative, entropy undefined"), nil
	}

	lnN := math.Log(float64(n))
	cols := parallel.Map(k, w.workers, func(j int) columnEntropy {
		return w.entropy(mat.Col(nil, j, normalized), lnN)
	})

	entropy := make([]float64, k)
	div := make([]float64, k)
	var warnings []models.Warning
	for j, c := range cols {
		entropy[j] = c.entropy
		// Rounding can push e_j a hair above 1.
		div[j] = math.Max(0, 1-c.entropy)
		if c.zeroSum {
			warnings = append(warnings, models.Warning{
				Stage:     Stage,
				Kind:      models.WarnZeroColumnSum,
				Criterion: criteria[j],
				Row:       -1,
				Message:   "column sum is 0, probabilities set to 0",
			})
		}
	}

	total := floats.Sum(div)
	if total <= 0 {
		return uniform(criteria, entropy, div, warnings,
			"all criteria carry identical information"), nil
	}

	values := make([]float64, k)
	floats.ScaleTo(values, 1/total, div)

	vec, err := models.NewWeightVector(criteria, values)
	if err != nil {
		return nil, fmt.Errorf("building weight vector: %w", err)
	}
	return &Result{Weights: vec, Entropy: entropy, Diversification: div, Warnings: warnings}, nil
}

func (w *EntropyWeighter) entropy(col []float64, lnN float64) columnEntropy {
	sum := floats.Sum(col)
	if sum == 0 {
		return columnEntropy{entropy: 0, zeroSum: true}
	}

	var h float64
	for _, x := range col {
		p := x / sum
		// p == 0 contributes nothing; p < 0 only arises from negative raw
		// data and is treated the same way.
		if p <= 0 {
			continue
		}
		h += p * math.Log(p+w.epsilon)
	}
	return columnEntropy{entropy: -h / lnN}
}

func uniform(criteria []string, entropy, div []float64, warnings []models.Warning, reason string) *Result {
	warnings = append(warnings, models.Warning{
		Stage:   Stage,
		Kind:    models.WarnUniformWeights,
		Row:     -1,
		Message: fmt.Sprintf("%s, using uniform weights 1/%d", reason, len(criteria)),
	})
	return &Result{
		Weights:         models.UniformWeights(criteria),
		Entropy:         entropy,
		Diversification: div,
		Warnings:        warnings,
	}
}
