package frame

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"automoderator/pkg/core"
)

// Representation identifies the physical shape a dataset arrived in.
type Representation int

const (
	// Canonical is a *Frame passed through unchanged.
	Canonical Representation = iota
	// Table is a labeled Arrow record.
	Table
	// Array is a raw positional array ([][]T).
	Array
	// Dense is a *core.Matrix.
	Dense
)

func (r Representation) String() string {
	switch r {
	case Canonical:
		return "frame"
	case Table:
		return "table"
	case Array:
		return "array"
	case Dense:
		return "matrix"
	}
	return fmt.Sprintf("representation(%d)", int(r))
}

// From converts any supported external value into a Frame and reports which
// representation it was. Anything else fails with ErrTypeInput.
func From(x any) (*Frame, Representation, error) {
	switch v := x.(type) {
	case *Frame:
		if v == nil {
			return nil, Canonical, fmt.Errorf("%w: nil frame", ErrTypeInput)
		}
		return v, Canonical, nil
	case arrow.Record:
		f, err := FromRecord(v)
		return f, Table, err
	case *core.Matrix:
		f, err := FromArray(v)
		return f, Dense, err
	}
	f, err := FromArray(x)
	if err != nil {
		return nil, Array, err
	}
	return f, Array, nil
}

// Export converts f into representation rep. Table results are allocated
// from mem (memory.DefaultAllocator when nil) and must be released by the
// caller.
func Export(f *Frame, rep Representation, mem memory.Allocator) (any, error) {
	switch rep {
	case Canonical:
		return f, nil
	case Table:
		if mem == nil {
			mem = memory.DefaultAllocator
		}
		return ToRecord(f, mem)
	case Array:
		return ToArray(f), nil
	case Dense:
		return f.Matrix()
	}
	return nil, fmt.Errorf("%w: representation %s", ErrTypeInput, rep)
}
