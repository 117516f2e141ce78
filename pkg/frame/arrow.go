package frame

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// FromRecord copies an Arrow record into a labeled frame. Integer and float
// columns become KindFloat, timestamps and dates become UTC instants. Any
// null cell fails with ErrNullValue.
func FromRecord(rec arrow.Record) (*Frame, error) {
	rows := int(rec.NumRows())
	cols := make([]Column, int(rec.NumCols()))
	for i := range cols {
		name := rec.ColumnName(i)
		c, err := columnFromArrow(name, rec.Column(i), rows)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return build(rows, true, cols)
}

func columnFromArrow(name string, arr arrow.Array, rows int) (Column, error) {
	if arr.NullN() > 0 {
		return Column{}, fmt.Errorf("%w: column %q has %d nulls", ErrNullValue, name, arr.NullN())
	}
	switch a := arr.(type) {
	case *array.Float64:
		return Floats(name, append([]float64(nil), a.Float64Values()...)), nil
	case *array.Float32:
		return Floats(name, convertNumbers(a.Float32Values())), nil
	case *array.Int64:
		return Floats(name, convertNumbers(a.Int64Values())), nil
	case *array.Int32:
		return Floats(name, convertNumbers(a.Int32Values())), nil
	case *array.Int16:
		return Floats(name, convertNumbers(a.Int16Values())), nil
	case *array.Int8:
		return Floats(name, convertNumbers(a.Int8Values())), nil
	case *array.Boolean:
		v := make([]bool, rows)
		for i := range v {
			v[i] = a.Value(i)
		}
		return Bools(name, v), nil
	case *array.String:
		v := make([]string, rows)
		for i := range v {
			v[i] = a.Value(i)
		}
		return Strings(name, v), nil
	case *array.LargeString:
		v := make([]string, rows)
		for i := range v {
			v[i] = a.Value(i)
		}
		return Strings(name, v), nil
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		v := make([]time.Time, rows)
		for i := range v {
			v[i] = a.Value(i).ToTime(unit).UTC()
		}
		return Times(name, v), nil
	case *array.Date32:
		v := make([]time.Time, rows)
		for i := range v {
			v[i] = a.Value(i).ToTime().UTC()
		}
		return Times(name, v), nil
	case *array.Date64:
		v := make([]time.Time, rows)
		for i := range v {
			v[i] = a.Value(i).ToTime().UTC()
		}
		return Times(name, v), nil
	}
	return Column{}, fmt.Errorf("%w: column %q has arrow type %s", ErrTypeInput, name, arr.DataType())
}

type number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

func convertNumbers[T number](v []T) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// ToRecord converts f into an Arrow record allocated from mem. Times are
// written as nanosecond UTC timestamps. The caller owns the record and must
// Release it.
func ToRecord(f *Frame, mem memory.Allocator) (arrow.Record, error) {
	fields := make([]arrow.Field, len(f.cols))
	arrs := make([]arrow.Array, len(f.cols))
	defer func() {
		for _, a := range arrs {
			if a != nil {
				a.Release()
			}
		}
	}()

	for i, c := range f.cols {
		switch c.Kind {
		case KindFloat:
			b := array.NewFloat64Builder(mem)
			b.AppendValues(c.Floats, nil)
			arrs[i] = b.NewArray()
			b.Release()
			fields[i] = arrow.Field{Name: c.Name, Type: arrow.PrimitiveTypes.Float64}
		case KindBool:
			b := array.NewBooleanBuilder(mem)
			b.AppendValues(c.Bools, nil)
			arrs[i] = b.NewArray()
			b.Release()
			fields[i] = arrow.Field{Name: c.Name, Type: arrow.FixedWidthTypes.Boolean}
		case KindString:
			b := array.NewStringBuilder(mem)
			b.AppendValues(c.Strings, nil)
			arrs[i] = b.NewArray()
			b.Release()
			fields[i] = arrow.Field{Name: c.Name, Type: arrow.BinaryTypes.String}
		case KindTime:
			tsType := arrow.FixedWidthTypes.Timestamp_ns.(*arrow.TimestampType)
			b := array.NewTimestampBuilder(mem, tsType)
			for _, t := range c.Times {
				b.Append(arrow.Timestamp(t.UnixNano()))
			}
			arrs[i] = b.NewArray()
			b.Release()
			fields[i] = arrow.Field{Name: c.Name, Type: tsType}
		default:
			return nil, fmt.Errorf("%w: column %q has kind %s", ErrTypeInput, c.Name, c.Kind)
		}
	}

	schema := arrow.NewSchema(fields, nil)
	return array.NewRecord(schema, arrs, int64(f.rows)), nil
}
