package transform

import (
	"fmt"
	"time"

	"automoderator/pkg/frame"
)

// DatetimeToValue extracts one calendar component (second, minute, hour,
// day of month, month or year) from every timestamp cell.
type DatetimeToValue struct {
	Stateless
	unit TimeUnit
}

// NewDatetimeToValue resolves unit (see ParseUnit) and fails with
// ErrConfiguration on an unknown name.
func NewDatetimeToValue(unit string) (*DatetimeToValue, error) {
	u, err := ParseUnit(unit)
	if err != nil {
		return nil, err
	}
	return &DatetimeToValue{unit: u}, nil
}

func (d *DatetimeToValue) Unit() TimeUnit { return d.unit }

func (d *DatetimeToValue) Transform(f *frame.Frame) (*frame.Frame, error) {
	return mapTimes(f, "DatetimeToValue", func(t time.Time) float64 {
		return extract(d.unit, t)
	})
}

// extract measures t against its enclosing coarser period: the instant
// truncated to the unit, minus the instant truncated to the next coarser
// unit, counted in the unit. Day and month count from 1, year is absolute.
// Instants are read in UTC.
func extract(u TimeUnit, t time.Time) float64 {
	t = t.UTC()
	switch u {
	case Second:
		return float64(t.Truncate(time.Second).Sub(t.Truncate(time.Minute)) / time.Second)
	case Minute:
		return float64(t.Truncate(time.Minute).Sub(t.Truncate(time.Hour)) / time.Minute)
	case Hour:
		return float64(t.Truncate(time.Hour).Sub(startOfDay(t)) / time.Hour)
	case Day:
		return float64(startOfDay(t).Sub(startOfMonth(t))/(24*time.Hour)) + 1
	case Month:
		return float64(int(t.Month())-int(time.January)) + 1
	case Year:
		return float64(t.Year())
	}
	return 0
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DatetimeToTimestamp converts timestamps to float seconds since
// 1970-01-01T00:00:00Z, keeping sub-second precision.
type DatetimeToTimestamp struct {
	Stateless
}

func NewDatetimeToTimestamp() *DatetimeToTimestamp { return &DatetimeToTimestamp{} }

func (*DatetimeToTimestamp) Transform(f *frame.Frame) (*frame.Frame, error) {
	return mapTimes(f, "DatetimeToTimestamp", epochSeconds)
}

func epochSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// mapTimes applies fn to every cell of an all-timestamp frame.
func mapTimes(f *frame.Frame, who string, fn func(time.Time) float64) (*frame.Frame, error) {
	cols := make([]frame.Column, f.NumCols())
	for j := range cols {
		c := f.Col(j)
		if c.Kind != frame.KindTime {
			return nil, fmt.Errorf("%w: %s requires timestamp columns, %q is %s", frame.ErrTypeInput, who, c.Name, c.Kind)
		}
		out := make([]float64, len(c.Times))
		for i, t := range c.Times {
			out[i] = fn(t)
		}
		cols[j] = frame.Floats(c.Name, out)
	}
	return f.Derive(cols...)
}
