package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFitted = errors.New("model is not fitted")
	// ErrFeatureCount is returned when X does not have the fitted width.
	ErrFeatureCount = errors.New("feature count mismatch")
	// ErrEmpty is returned when fitting on no rows.
	ErrEmpty = errors.New("no training rows")
	// ErrLabels is returned for labels that are not usable class values.
	ErrLabels = errors.New("invalid labels")
	// ErrNegativeFeature is returned by count-based models on negative input.
	ErrNegativeFeature = errors.New("negative feature value")
)

// Model is a generic supervised learning interface.
type Model interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) ([]float64, error)
}

// Classifier exposes probabilities.
type Classifier interface {
	Model
	PredictProba(X [][]float64) ([]float64, error) // p(y=1) for binary classifiers
}

// Transformer is for preprocessing steps (fit on train, transform both).
type Transformer interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) ([][]float64, error)
}

func checkTrain(X [][]float64, y []float64) (int, error) {
	if len(X) == 0 {
		return 0, ErrEmpty
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("%w: %d rows, %d labels", ErrLabels, len(X), len(y))
	}
	return checkWidth(X, len(X[0]))
}

func checkWidth(X [][]float64, width int) (int, error) {
	for i, row := range X {
		if len(row) != width {
			return 0, fmt.Errorf("%w: row %d has %d features, want %d", ErrFeatureCount, i, len(row), width)
		}
	}
	return width, nil
}
