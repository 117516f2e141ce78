package frame

import (
	"fmt"
	"time"
)

// Kind is the semantic type shared by every value of a column.
type Kind int

const (
	KindFloat Kind = iota
	KindTime
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindTime:
		return "time"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column is a named, homogeneous sequence of values. Only the slice matching
// Kind is populated.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Times   []time.Time
	Bools   []bool
	Strings []string
}

// Floats returns a float column. The slice is not copied.
func Floats(name string, v []float64) Column {
	return Column{Name: name, Kind: KindFloat, Floats: v}
}

// Times returns a timestamp column. The slice is not copied.
func Times(name string, v []time.Time) Column {
	return Column{Name: name, Kind: KindTime, Times: v}
}

// Bools returns a boolean column. The slice is not copied.
func Bools(name string, v []bool) Column {
	return Column{Name: name, Kind: KindBool, Bools: v}
}

// Strings returns a text/categorical column. The slice is not copied.
func Strings(name string, v []string) Column {
	return Column{Name: name, Kind: KindString, Strings: v}
}

// Len returns the number of rows in the column.
func (c Column) Len() int {
	switch c.Kind {
	case KindFloat:
		return len(c.Floats)
	case KindTime:
		return len(c.Times)
	case KindBool:
		return len(c.Bools)
	case KindString:
		return len(c.Strings)
	}
	return 0
}

// IsNumeric reports whether the column can be read as float64 values.
func (c Column) IsNumeric() bool {
	return c.Kind == KindFloat || c.Kind == KindBool
}

// Numeric returns a fresh float64 copy of the column. Booleans map to 0/1.
func (c Column) Numeric() ([]float64, error) {
	switch c.Kind {
	case KindFloat:
		out := make([]float64, len(c.Floats))
		copy(out, c.Floats)
		return out, nil
	case KindBool:
		out := make([]float64, len(c.Bools))
		for i, b := range c.Bools {
			if b {
				out[i] = 1
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: column %q is %s, want numeric", ErrTypeInput, c.Name, c.Kind)
}

// Renamed returns c with a new name; data is shared.
func (c Column) Renamed(name string) Column {
	c.Name = name
	return c
}

// Value returns the cell at row i boxed in an interface.
func (c Column) Value(i int) any {
	switch c.Kind {
	case KindFloat:
		return c.Floats[i]
	case KindTime:
		return c.Times[i]
	case KindBool:
		return c.Bools[i]
	case KindString:
		return c.Strings[i]
	}
	return nil
}

func (c Column) take(idx []int) Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	switch c.Kind {
	case KindFloat:
		out.Floats = takeSlice(c.Floats, idx)
	case KindTime:
		out.Times = takeSlice(c.Times, idx)
	case KindBool:
		out.Bools = takeSlice(c.Bools, idx)
	case KindString:
		out.Strings = takeSlice(c.Strings, idx)
	}
	return out
}

func takeSlice[T any](v []T, idx []int) []T {
	out := make([]T, len(idx))
	for k, i := range idx {
		out[k] = v[i]
	}
	return out
}
