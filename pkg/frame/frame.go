// Package frame holds the canonical columnar dataset every transformer works
// on, and the adapters that convert the two external representations
// (Arrow records and raw positional arrays) into it and back.
package frame

import (
	"fmt"
	"strconv"

	"automoderator/pkg/core"
)

// Frame is an ordered collection of equally long columns. Row i of every
// column belongs to the same record. Frames are treated as immutable:
// operations return new frames and never write into their inputs.
//
// A labeled frame carries meaningful column names. A positional frame came
// from a raw array; its columns are named "0", "1", ... and any frame derived
// from it is renumbered the same way.
type Frame struct {
	cols    []Column
	rows    int
	labeled bool
}

// New builds a labeled frame. All columns must have the same length.
func New(cols ...Column) (*Frame, error) {
	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
	}
	return build(rows, true, cols)
}

// NewPositional builds a positional frame; column names are replaced by
// their index.
func NewPositional(cols ...Column) (*Frame, error) {
	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
	}
	return build(rows, false, cols)
}

func build(rows int, labeled bool, cols []Column) (*Frame, error) {
	out := make([]Column, len(cols))
	for i, c := range cols {
		if c.Len() != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrShapeMismatch, c.Name, c.Len(), rows)
		}
		if !labeled {
			c.Name = strconv.Itoa(i)
		}
		out[i] = c
	}
	return &Frame{cols: out, rows: rows, labeled: labeled}, nil
}

// Derive builds a frame of the same row count and labeling as f from new
// columns. Transformers use it to produce their output.
func (f *Frame) Derive(cols ...Column) (*Frame, error) {
	return build(f.rows, f.labeled, cols)
}

func (f *Frame) NumRows() int { return f.rows }

func (f *Frame) NumCols() int { return len(f.cols) }

// Labeled reports whether column names came from a labeled source.
func (f *Frame) Labeled() bool { return f.labeled }

// Col returns column i. The returned column shares storage with f and must
// not be written to.
func (f *Frame) Col(i int) Column { return f.cols[i] }

// Columns returns the columns in order. The slice is a copy; column data is
// shared.
func (f *Frame) Columns() []Column {
	return append([]Column(nil), f.cols...)
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of the first column called name.
func (f *Frame) Index(name string) (int, error) {
	for i, c := range f.cols {
		if c.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// Lookup returns the first column called name.
func (f *Frame) Lookup(name string) (Column, error) {
	i, err := f.Index(name)
	if err != nil {
		return Column{}, err
	}
	return f.cols[i], nil
}

// Select returns a frame holding the named columns in the requested order.
// Selection keeps the frame's labeling, so selecting from a positional frame
// renumbers the result.
func (f *Frame) Select(names ...string) (*Frame, error) {
	cols := make([]Column, len(names))
	for k, name := range names {
		c, err := f.Lookup(name)
		if err != nil {
			return nil, err
		}
		cols[k] = c
	}
	return build(f.rows, f.labeled, cols)
}

// Drop returns f without the named columns. Missing names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		skip[n] = struct{}{}
	}
	cols := make([]Column, 0, len(f.cols))
	for _, c := range f.cols {
		if _, ok := skip[c.Name]; !ok {
			cols = append(cols, c)
		}
	}
	return &Frame{cols: cols, rows: f.rows, labeled: f.labeled}
}

// Take returns the rows at idx, in idx order.
func (f *Frame) Take(idx []int) *Frame {
	cols := make([]Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.take(idx)
	}
	return &Frame{cols: cols, rows: len(idx), labeled: f.labeled}
}

// Filter keeps the rows for which keep returns true.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	idx := make([]int, 0, f.rows)
	for i := 0; i < f.rows; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return f.Take(idx)
}

// HStack concatenates frames column-wise, preserving argument order. Every
// frame must have the same number of rows. The result is labeled only if all
// inputs are.
func HStack(frames ...*Frame) (*Frame, error) {
	if len(frames) == 0 {
		return &Frame{labeled: true}, nil
	}
	rows, labeled := frames[0].rows, true
	var cols []Column
	for k, fr := range frames {
		if fr.rows != rows {
			return nil, fmt.Errorf("%w: block %d has %d rows, want %d", ErrShapeMismatch, k, fr.rows, rows)
		}
		labeled = labeled && fr.labeled
		cols = append(cols, fr.cols...)
	}
	return build(rows, labeled, cols)
}

// Matrix converts a numeric frame into a dense matrix. Time and string
// columns are rejected.
func (f *Frame) Matrix() (*core.Matrix, error) {
	vals := make([][]float64, len(f.cols))
	for j, c := range f.cols {
		v, err := c.Numeric()
		if err != nil {
			return nil, err
		}
		vals[j] = v
	}
	return core.FromColumns(f.rows, vals...)
}
