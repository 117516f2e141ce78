package stats

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFitted is returned by Transform before Fit.
	ErrNotFitted = errors.New("scaler is not fitted")
	// ErrWidth is returned when a matrix does not have the fitted width.
	ErrWidth = errors.New("column count differs from fit")
)

// StandardScaler centers each column to zero mean and scales it to unit
// variance. Constant columns are only centered.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

func (s *StandardScaler) Fit(X [][]float64) error {
	cols := columns(X)
	s.Mean = make([]float64, len(cols))
	s.Std = make([]float64, len(cols))
	for j, col := range cols {
		s.Mean[j] = Mean(col)
		s.Std[j] = Std(col)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	return nil
}

func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.Mean == nil {
		return nil, ErrNotFitted
	}
	return mapColumns(X, len(s.Mean), func(j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Std[j]
	})
}

func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// MinMaxScaler maps each column onto [0, 1] using the range seen at Fit.
// Values outside that range are clipped, so the output is always
// non-negative. Constant columns map to 0.
type MinMaxScaler struct {
	Min []float64
	Max []float64
}

func NewMinMaxScaler() *MinMaxScaler { return &MinMaxScaler{} }

func (s *MinMaxScaler) Fit(X [][]float64) error {
	cols := columns(X)
	s.Min = make([]float64, len(cols))
	s.Max = make([]float64, len(cols))
	for j, col := range cols {
		s.Min[j], s.Max[j] = MinMax(col)
	}
	return nil
}

func (s *MinMaxScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.Min == nil {
		return nil, ErrNotFitted
	}
	return mapColumns(X, len(s.Min), func(j int, v float64) float64 {
		span := s.Max[j] - s.Min[j]
		if span == 0 {
			return 0
		}
		return min(max((v-s.Min[j])/span, 0), 1)
	})
}

func (s *MinMaxScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

func columns(X [][]float64) [][]float64 {
	if len(X) == 0 {
		return nil
	}
	cols := make([][]float64, len(X[0]))
	for j := range cols {
		col := make([]float64, len(X))
		for i := range X {
			col[i] = X[i][j]
		}
		cols[j] = col
	}
	return cols
}

func mapColumns(X [][]float64, width int, f func(j int, v float64) float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d columns, fitted on %d", ErrWidth, i, len(row), width)
		}
		r := make([]float64, width)
		for j, v := range row {
			r[j] = f(j, v)
		}
		out[i] = r
	}
	return out, nil
}
