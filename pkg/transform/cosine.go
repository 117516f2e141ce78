package transform

import (
	"fmt"
	"math"

	"automoderator/pkg/frame"
)

// DefaultPeriod makes Cosine a plain cos(x).
const DefaultPeriod = 2 * math.Pi

// Cosine maps numbers onto a periodic signal in [-1, 1]:
// cos(x * 2π / period). Chained after DatetimeToValue("hours") with a period
// of 24 it makes 23:00 and 00:00 neighbours.
type Cosine struct {
	Stateless
	period float64
}

// NewCosine fails with ErrConfiguration unless period is positive and
// finite.
func NewCosine(period float64) (*Cosine, error) {
	if !(period > 0) || math.IsInf(period, 0) {
		return nil, fmt.Errorf("%w: cosine period must be positive and finite (not %v)", ErrConfiguration, period)
	}
	return &Cosine{period: period}, nil
}

func (c *Cosine) Period() float64 { return c.period }

func (c *Cosine) Transform(f *frame.Frame) (*frame.Frame, error) {
	scale := 2 * math.Pi / c.period
	cols := make([]frame.Column, f.NumCols())
	for j := range cols {
		in := f.Col(j)
		v, err := in.Numeric()
		if err != nil {
			return nil, fmt.Errorf("cosine: %w", err)
		}
		for i, x := range v {
			v[i] = math.Cos(x * scale)
		}
		cols[j] = frame.Floats(in.Name, v)
	}
	return f.Derive(cols...)
}
