package transform

import (
	"fmt"

	"automoderator/pkg/frame"
)

// ColumnDifference subtracts the first column (the baseline) from every
// other column. The output has one column fewer than the input, named after
// the non-baseline columns. Two timestamp columns subtract to float seconds.
//
// Fewer than two columns is a declaration mistake and fails with
// ErrConfiguration.
type ColumnDifference struct {
	Stateless
}

func NewColumnDifference() *ColumnDifference { return &ColumnDifference{} }

func (*ColumnDifference) Transform(f *frame.Frame) (*frame.Frame, error) {
	if f.NumCols() < 2 {
		return nil, fmt.Errorf("%w: column difference needs at least two columns, got %d", ErrConfiguration, f.NumCols())
	}
	timeMode := f.Col(0).Kind == frame.KindTime
	base, err := diffOperand(f.Col(0), timeMode)
	if err != nil {
		return nil, err
	}

	cols := make([]frame.Column, 0, f.NumCols()-1)
	for j := 1; j < f.NumCols(); j++ {
		c := f.Col(j)
		v, err := diffOperand(c, timeMode)
		if err != nil {
			return nil, err
		}
		for i := range v {
			v[i] -= base[i]
		}
		cols = append(cols, frame.Floats(c.Name, v))
	}
	return f.Derive(cols...)
}

// diffOperand reads c as floats: epoch seconds in time mode, numbers
// otherwise. Time and numeric columns never mix.
func diffOperand(c frame.Column, timeMode bool) ([]float64, error) {
	if timeMode {
		if c.Kind != frame.KindTime {
			return nil, fmt.Errorf("%w: cannot subtract timestamp baseline from %s column %q", frame.ErrTypeInput, c.Kind, c.Name)
		}
		out := make([]float64, len(c.Times))
		for i, t := range c.Times {
			out[i] = epochSeconds(t)
		}
		return out, nil
	}
	v, err := c.Numeric()
	if err != nil {
		return nil, fmt.Errorf("column difference: %w", err)
	}
	return v, nil
}
