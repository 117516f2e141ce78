package frame

import (
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"automoderator/pkg/core"
)

var (
	t0 = time.Date(2016, 7, 16, 0, 0, 0, 0, time.UTC)
	t1 = time.Date(1986, 1, 15, 12, 30, 0, 0, time.UTC)
)

func mixedFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := New(
		Floats("score", []float64{1.5, -2}),
		Times("datetime", []time.Time{t0, t1}),
		Bools("contains_link", []bool{true, false}),
		Strings("content_body", []string{"hello", "world"}),
	)
	require.NoError(t, err)
	return f
}

func TestFrameSelection(t *testing.T) {
	f := mixedFrame(t)
	require.Equal(t, 2, f.NumRows())
	require.True(t, f.Labeled())

	sel, err := f.Select("content_body", "score")
	require.NoError(t, err)
	require.Equal(t, []string{"content_body", "score"}, sel.Names())

	_, err = f.Select("missing")
	require.ErrorIs(t, err, ErrColumnNotFound)

	require.Equal(t, []string{"score", "content_body"}, f.Drop("datetime", "contains_link", "nope").Names())

	taken := f.Take([]int{1, 1, 0})
	require.Equal(t, []float64{-2, -2, 1.5}, taken.Col(0).Floats)
	require.Equal(t, []float64{1.5, -2}, f.Col(0).Floats)

	kept := f.Filter(func(i int) bool { return f.Col(2).Bools[i] })
	require.Equal(t, []string{"hello"}, kept.Col(3).Strings)
}

func TestFrameShape(t *testing.T) {
	_, err := New(Floats("a", []float64{1}), Floats("b", []float64{1, 2}))
	require.ErrorIs(t, err, ErrShapeMismatch)

	p, err := NewPositional(Floats("a", []float64{1}), Floats("b", []float64{2}))
	require.NoError(t, err)
	require.Equal(t, []string{"0", "1"}, p.Names())

	l, err := New(Floats("x", []float64{3}))
	require.NoError(t, err)
	both, err := HStack(l, p)
	require.NoError(t, err)
	require.False(t, both.Labeled())
	require.Equal(t, []string{"0", "1", "2"}, both.Names())

	labeled, err := HStack(l, l)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "x"}, labeled.Names())

	_, err = HStack(l, mixedFrame(t))
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestFrameMatrix(t *testing.T) {
	f := mixedFrame(t)
	num, err := f.Select("score", "contains_link")
	require.NoError(t, err)
	m, err := num.Matrix()
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1.5, 1}, {-2, 0}}, m.Rows())

	_, err = f.Matrix()
	require.ErrorIs(t, err, ErrTypeInput)
}

func TestRecordRoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	f := mixedFrame(t)
	rec, err := ToRecord(f, mem)
	require.NoError(t, err)
	defer rec.Release()
	require.Equal(t, int64(2), rec.NumRows())
	require.Equal(t, "datetime", rec.ColumnName(1))

	back, err := FromRecord(rec)
	require.NoError(t, err)
	require.Equal(t, f, back)
}

func TestFromRecordTypes(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	ib := array.NewInt64Builder(mem)
	defer ib.Release()
	ib.AppendValues([]int64{3, 4}, nil)
	ints := ib.NewArray()
	defer ints.Release()

	db := array.NewDate32Builder(mem)
	defer db.Release()
	db.AppendValues([]arrow.Date32{arrow.Date32FromTime(t0), arrow.Date32FromTime(t0.AddDate(0, 0, 1))}, nil)
	dates := db.NewArray()
	defer dates.Release()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "n", Type: arrow.PrimitiveTypes.Int64},
		{Name: "d", Type: arrow.FixedWidthTypes.Date32},
	}, nil)
	rec := array.NewRecord(schema, []arrow.Array{ints, dates}, 2)
	defer rec.Release()

	f, err := FromRecord(rec)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 4}, f.Col(0).Floats)
	require.Equal(t, []time.Time{t0, t0.AddDate(0, 0, 1)}, f.Col(1).Times)
}

func TestFromRecordNulls(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	b := array.NewFloat64Builder(mem)
	defer b.Release()
	b.Append(1)
	b.AppendNull()
	arr := b.NewArray()
	defer arr.Release()

	schema := arrow.NewSchema([]arrow.Field{{Name: "x", Type: arrow.PrimitiveTypes.Float64, Nullable: true}}, nil)
	rec := array.NewRecord(schema, []arrow.Array{arr}, 2)
	defer rec.Release()

	_, err := FromRecord(rec)
	require.ErrorIs(t, err, ErrNullValue)
}

func TestFromArray(t *testing.T) {
	f, err := FromArray([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	require.False(t, f.Labeled())
	require.Equal(t, []string{"0", "1"}, f.Names())
	require.Equal(t, []float64{2, 4}, f.Col(1).Floats)

	f, err = FromArray([][]any{{t0, "a", true, 1}, {t1, "b", false, 2.5}})
	require.NoError(t, err)
	require.Equal(t, []Kind{KindTime, KindString, KindBool, KindFloat},
		[]Kind{f.Col(0).Kind, f.Col(1).Kind, f.Col(2).Kind, f.Col(3).Kind})
	require.Equal(t, []float64{1, 2.5}, f.Col(3).Floats)

	_, err = FromArray([][]any{{1}, {"x"}})
	require.ErrorIs(t, err, ErrTypeInput)
	_, err = FromArray([][]any{{nil}})
	require.ErrorIs(t, err, ErrNullValue)
	_, err = FromArray([][]string{{"a"}, {"b", "c"}})
	require.ErrorIs(t, err, ErrShapeMismatch)
	_, err = FromArray(map[string]int{})
	require.ErrorIs(t, err, ErrTypeInput)
}

func TestToArray(t *testing.T) {
	times, err := New(Times("a", []time.Time{t0}), Times("b", []time.Time{t1}))
	require.NoError(t, err)
	require.Equal(t, [][]time.Time{{t0, t1}}, ToArray(times))

	require.Equal(t, [][]any{{1.5, t0, true, "hello"}, {-2.0, t1, false, "world"}}, ToArray(mixedFrame(t)))

	bools, err := New(Bools("a", []bool{true}))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1}}, ToArray(bools))
}

func TestFromAndExport(t *testing.T) {
	m, err := core.FromSlice([][]float64{{1, 2}})
	require.NoError(t, err)

	for _, tc := range []struct {
		in  any
		rep Representation
	}{
		{in: mixedFrame(t), rep: Canonical},
		{in: [][]float64{{1, 2}}, rep: Array},
		{in: m, rep: Dense},
	} {
		f, rep, err := From(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.rep, rep, rep.String())

		out, err := Export(f, rep, nil)
		require.NoError(t, err)
		require.Equal(t, tc.in, out)
	}

	_, _, err = From("text")
	require.ErrorIs(t, err, ErrTypeInput)
}
