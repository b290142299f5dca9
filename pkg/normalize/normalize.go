// Package normalize scales a decision matrix into [0,1] according to each
// criterion's polarity.
package normalize

import (
	"fmt"

	"github.com/panbanda/qosrank/internal/parallel"
	"github.com/panbanda/qosrank/pkg/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Stage is the name recorded on warnings produced by this package.
const Stage = "normalize"

// =============================================================================
// LINEAR MAX/MIN NORMALIZATION
// =============================================================================
//
// benefit: v / max(column)
// cost:    min(column) / v
//
// Fallbacks (recorded as warnings, never errors):
// - constant column (max == min): every cell is 1.0, whatever the polarity
// - benefit column with max == 0: every cell is 0
// - cost cell with v == 0: that cell is 0
// =============================================================================

// Result holds the normalized matrix and any fallbacks applied.
type Result struct {
	Values   *mat.Dense
	Warnings []models.Warning
}

// Normalizer produces polarity-aware normalized matrices.
type Normalizer struct {
	workers int
}

// Option configures the Normalizer.
type Option func(*Normalizer)

// WithWorkers bounds the number of columns processed concurrently.
// 0 uses NumCPU, 1 runs sequentially.
func WithWorkers(n int) Option {
	return func(nz *Normalizer) {
		nz.workers = n
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	nz := &Normalizer{}
	for _, opt := range opts {
		opt(nz)
	}
	return nz
}

type column struct {
	values   []float64
	warnings []models.Warning
}

// Normalize returns a new matrix with the same shape as m. The input matrix
// is not modified.
func (nz *Normalizer) Normalize(m *models.DecisionMatrix, polarities models.Polarities) (*Result, error) {
	if m == nil || m.Rows() == 0 || m.Cols() == 0 {
		return nil, models.NewConfigurationError("matrix", "decision matrix is empty")
	}
	if len(polarities) != m.Cols() {
		return nil, models.NewConfigurationError("criteria.polarity",
			"got %d polarities for %d criteria", len(polarities), m.Cols())
	}

	cols := parallel.Map(m.Cols(), nz.workers, func(j int) column {
		values, warnings := Column(m.Criterion(j), m.Column(j), polarities.Of(j))
		return column{values: values, warnings: warnings}
	})

	out := mat.NewDense(m.Rows(), m.Cols(), nil)
	var warnings []models.Warning
	for j, c := range cols {
		out.SetCol(j, c.values)
		warnings = append(warnings, c.warnings...)
	}

	return &Result{Values: out, Warnings: warnings}, nil
}

// Column normalizes a single criterion column. name is only used to label
// warnings. Values are expected to be non-negative, as NewDecisionMatrix
// guarantees.
func Column(name string, values []float64, polarity models.Polarity) ([]float64, []models.Warning) {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out, nil
	}

	maxV := floats.Max(values)
	minV := floats.Min(values)

	if maxV == minV {
		for i := range out {
			out[i] = 1.0
		}
		return out, []models.Warning{{
			Stage:     Stage,
			Kind:      models.WarnConstantColumn,
			Criterion: name,
			Row:       -1,
			Message:   fmt.Sprintf("constant column (%g), all values set to 1", maxV),
		}}
	}

	var warnings []models.Warning
	switch polarity {
	case models.Cost:
		for i, v := range values {
			if v == 0 {
				warnings = append(warnings, models.Warning{
					Stage:     Stage,
					Kind:      models.WarnZeroValue,
					Criterion: name,
					Row:       i,
					Message:   "cost value is 0, normalized value set to 0",
				})
				continue
			}
			out[i] = minV / v
		}
	default:
		if maxV == 0 {
			return out, []models.Warning{{
				Stage:     Stage,
				Kind:      models.WarnZeroMax,
				Criterion: name,
				Row:       -1,
				Message:   "column maximum is 0, all values set to 0",
			}}
		}
		for i, v := range values {
			out[i] = v / maxV
		}
	}
	return out, warnings
}
