package frame

import (
	"fmt"
	"time"

	"automoderator/pkg/core"
)

// FromArray converts a raw row-major array into a positional frame.
// Supported shapes are [][]float64, [][]time.Time, [][]bool, [][]string,
// [][]any (kinds inferred per column) and *core.Matrix.
func FromArray(x any) (*Frame, error) {
	switch v := x.(type) {
	case [][]float64:
		return fromRows(v, Floats)
	case [][]time.Time:
		return fromRows(v, Times)
	case [][]bool:
		return fromRows(v, Bools)
	case [][]string:
		return fromRows(v, Strings)
	case [][]any:
		return fromMixedRows(v)
	case *core.Matrix:
		cols := make([]Column, v.C)
		for j := range cols {
			cols[j] = Floats("", v.Col(j))
		}
		return build(v.R, false, cols)
	}
	return nil, fmt.Errorf("%w: %T is not a raw array", ErrTypeInput, x)
}

func width[T any](rows [][]T) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	w := len(rows[0])
	for i, r := range rows {
		if len(r) != w {
			return 0, fmt.Errorf("%w: row %d has %d values, want %d", ErrShapeMismatch, i, len(r), w)
		}
	}
	return w, nil
}

func fromRows[T any](rows [][]T, mk func(string, []T) Column) (*Frame, error) {
	w, err := width(rows)
	if err != nil {
		return nil, err
	}
	cols := make([]Column, w)
	for j := range cols {
		v := make([]T, len(rows))
		for i, r := range rows {
			v[i] = r[j]
		}
		cols[j] = mk("", v)
	}
	return build(len(rows), false, cols)
}

func fromMixedRows(rows [][]any) (*Frame, error) {
	w, err := width(rows)
	if err != nil {
		return nil, err
	}
	cols := make([]Column, w)
	for j := range cols {
		c, err := mixedColumn(rows, j)
		if err != nil {
			return nil, err
		}
		cols[j] = c
	}
	return build(len(rows), false, cols)
}

func mixedColumn(rows [][]any, j int) (Column, error) {
	var c Column
	for i, r := range rows {
		v := r[j]
		if v == nil {
			return Column{}, fmt.Errorf("%w: row %d column %d", ErrNullValue, i, j)
		}
		k, err := kindOf(v)
		if err != nil {
			return Column{}, fmt.Errorf("row %d column %d: %w", i, j, err)
		}
		if i == 0 {
			c.Kind = k
		} else if k != c.Kind {
			return Column{}, fmt.Errorf("%w: column %d mixes %s and %s", ErrTypeInput, j, c.Kind, k)
		}
		switch k {
		case KindFloat:
			c.Floats = append(c.Floats, toFloat(v))
		case KindTime:
			c.Times = append(c.Times, v.(time.Time))
		case KindBool:
			c.Bools = append(c.Bools, v.(bool))
		case KindString:
			c.Strings = append(c.Strings, v.(string))
		}
	}
	return c, nil
}

func kindOf(v any) (Kind, error) {
	switch v.(type) {
	case float64, float32, int, int64, int32:
		return KindFloat, nil
	case time.Time:
		return KindTime, nil
	case bool:
		return KindBool, nil
	case string:
		return KindString, nil
	}
	return 0, fmt.Errorf("%w: cell of type %T", ErrTypeInput, v)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	}
	return 0
}

// Float64s returns the frame as a row-major numeric array.
func (f *Frame) Float64s() ([][]float64, error) {
	m, err := f.Matrix()
	if err != nil {
		return nil, err
	}
	return m.Rows(), nil
}

// ToArray converts f back into the most specific raw array shape that can
// hold it: [][]float64 for numeric frames, a typed array when every column
// shares one non-numeric kind, and [][]any otherwise.
func ToArray(f *Frame) any {
	if numeric(f) {
		rows, _ := f.Float64s()
		return rows
	}
	if k, ok := sharedKind(f); ok {
		switch k {
		case KindTime:
			return toRows(f, func(c Column) []time.Time { return c.Times })
		case KindString:
			return toRows(f, func(c Column) []string { return c.Strings })
		}
	}
	out := make([][]any, f.rows)
	for i := range out {
		row := make([]any, len(f.cols))
		for j, c := range f.cols {
			row[j] = c.Value(i)
		}
		out[i] = row
	}
	return out
}

func numeric(f *Frame) bool {
	for _, c := range f.cols {
		if !c.IsNumeric() {
			return false
		}
	}
	return true
}

func sharedKind(f *Frame) (Kind, bool) {
	if len(f.cols) == 0 {
		return 0, false
	}
	k := f.cols[0].Kind
	for _, c := range f.cols[1:] {
		if c.Kind != k {
			return 0, false
		}
	}
	return k, true
}

func toRows[T any](f *Frame, get func(Column) []T) [][]T {
	out := make([][]T, f.rows)
	for i := range out {
		row := make([]T, len(f.cols))
		for j, c := range f.cols {
			row[j] = get(c)[i]
		}
		out[i] = row
	}
	return out
}
