// Package ranker defines the capability shared by the ranking methods.
package ranker

import (
	"context"

	"github.com/panbanda/qosrank/pkg/models"
	"gonum.org/v1/gonum/mat"
)

// Input is the read-only data every ranker receives. Rankers must not
// modify any of it.
type Input struct {
	// Matrix is the raw decision matrix.
	Matrix *models.DecisionMatrix
	// Normalized is the polarity-aware normalized matrix, same shape as Matrix.
	Normalized mat.Matrix
	Weights    models.WeightVector
	Polarities models.Polarities
}

// Result is one method's ranking plus the fallbacks it applied.
type Result struct {
	Ranking  models.Ranking
	Warnings []models.Warning
}

// Ranker scores and ranks every alternative of an Input.
type Ranker interface {
	// Method identifies the ranking method.
	Method() models.Method

	// Rank returns one Score per alternative in input row order.
	Rank(ctx context.Context, in Input) (*Result, error)
}

// CheckMatrix verifies that the raw matrix is present and non-empty.
func (in Input) CheckMatrix() error {
	if in.Matrix == nil || in.Matrix.Rows() == 0 || in.Matrix.Cols() == 0 {
		return models.NewConfigurationError("matrix", "decision matrix is empty")
	}
	return nil
}

// CheckWeights verifies the raw matrix, the weights and the polarities
// agree on the criterion count.
func (in Input) CheckWeights() error {
	if err := in.CheckMatrix(); err != nil {
		return err
	}
	k := in.Matrix.Cols()
	if in.Weights.Len() != k {
		return models.NewDataShapeError(-1, "", "got %d weights for %d criteria", in.Weights.Len(), k)
	}
	if len(in.Polarities) != k {
		return models.NewDataShapeError(-1, "", "got %d polarities for %d criteria", len(in.Polarities), k)
	}
	return nil
}

// CheckNormalized verifies CheckWeights and that Normalized matches the
// raw matrix shape.
func (in Input) CheckNormalized() error {
	if err := in.CheckWeights(); err != nil {
		return err
	}
	if in.Normalized == nil {
		return models.NewDataShapeError(-1, "", "normalized matrix is missing")
	}
	r, c := in.Normalized.Dims()
	if r != in.Matrix.Rows() || c != in.Matrix.Cols() {
		return models.NewDataShapeError(-1, "", "normalized matrix is %dx%d, want %dx%d",
			r, c, in.Matrix.Rows(), in.Matrix.Cols())
	}
	return nil
}
