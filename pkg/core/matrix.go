package core

import (
	"errors"
	"fmt"
)

// ErrDimension is returned when matrix shapes do not line up.
var ErrDimension = errors.New("dimension mismatch")

// Matrix is a dense row-major float64 matrix. It is the shape a feature
// matrix takes once every column has been made numeric.
type Matrix struct {
	R, C int
	Data []float64
}

// NewMatrix allocates a zero matrix.
func NewMatrix(r, c int) *Matrix {
	return &Matrix{R: r, C: c, Data: make([]float64, r*c)}
}

// FromSlice creates a Matrix from a nested slice (copies data). Ragged input
// is rejected.
func FromSlice(a [][]float64) (*Matrix, error) {
	r := len(a)
	if r == 0 {
		return &Matrix{}, nil
	}

	c := len(a[0])
	m := NewMatrix(r, c)
	k := 0
	for i := 0; i < r; i++ {
		if len(a[i]) != c {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimension, i, len(a[i]), c)
		}
		for j := 0; j < c; j++ {
			m.Data[k] = a[i][j]
			k++
		}
	}
	return m, nil
}

// At returns element (i, j)
func (m *Matrix) At(i, j int) float64 { return m.Data[i*m.C+j] }

// Rows returns a nested copy of the matrix, one slice per row.
func (m *Matrix) Rows() [][]float64 {
	out := make([][]float64, m.R)
	for i := 0; i < m.R; i++ {
		row := make([]float64, m.C)
		copy(row, m.Data[i*m.C:(i+1)*m.C])
		out[i] = row
	}
	return out
}

// Col returns a copy of column j.
func (m *Matrix) Col(j int) []float64 {
	out := make([]float64, m.R)
	for i := 0; i < m.R; i++ {
		out[i] = m.Data[i*m.C+j]
	}
	return out
}

// FromColumns builds an r x len(cols) matrix from column slices, each of length r.
func FromColumns(r int, cols ...[]float64) (*Matrix, error) {
	m := NewMatrix(r, len(cols))
	for j, col := range cols {
		if len(col) != r {
			return nil, fmt.Errorf("%w: column %d has %d rows, want %d", ErrDimension, j, len(col), r)
		}
		for i, v := range col {
			m.Data[i*m.C+j] = v
		}
	}
	return m, nil
}
