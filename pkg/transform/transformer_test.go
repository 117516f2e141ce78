package transform

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"automoderator/pkg/frame"
)

// requireTableAndArray fits tr on in presented as an Arrow record and as a
// raw array, and checks both results against want (row-major).
func requireTableAndArray(t *testing.T, tr Transformer, in *frame.Frame, want [][]float64, delta float64) {
	t.Helper()

	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	rec, err := frame.ToRecord(in, mem)
	require.NoError(t, err)
	defer rec.Release()

	out, err := FitApply(tr, rec)
	require.NoError(t, err)
	outRec, ok := out.(arrow.Record)
	require.True(t, ok, "table input must produce a table, got %T", out)
	defer outRec.Release()

	fromTable, err := frame.FromRecord(outRec)
	require.NoError(t, err)
	tableRows, err := fromTable.Float64s()
	require.NoError(t, err)
	requireRowsInDelta(t, want, tableRows, delta)

	out, err = FitApply(tr, frame.ToArray(in))
	require.NoError(t, err)
	arrayRows, ok := out.([][]float64)
	require.True(t, ok, "array input must produce [][]float64, got %T", out)
	requireRowsInDelta(t, want, arrayRows, delta)
}

func requireRowsInDelta(t *testing.T, want, got [][]float64, delta float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDeltaSlice(t, want[i], got[i], delta, "row %d", i)
	}
}

func column(v ...float64) [][]float64 {
	out := make([][]float64, len(v))
	for i, x := range v {
		out[i] = []float64{x}
	}
	return out
}

func sampleTimes(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New(frame.Times("dts", []time.Time{
		time.Date(1970, 1, 1, 1, 0, 0, 0, time.UTC),
		time.Date(1986, 1, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2016, 7, 15, 23, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, err)
	return f
}

func TestColumnDifference(t *testing.T) {
	in, err := frame.New(
		frame.Floats("a", []float64{1, 2, 3}),
		frame.Floats("b", []float64{4, 5, 6}),
	)
	require.NoError(t, err)

	requireTableAndArray(t, NewColumnDifference(), in, column(3, 3, 3), 0)

	out, err := NewColumnDifference().Transform(in)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, out.Names())
}

func TestColumnDifferenceTimestamps(t *testing.T) {
	joined := time.Date(2016, 7, 1, 0, 0, 0, 0, time.UTC)
	in, err := frame.New(
		frame.Times("date_joined", []time.Time{joined, joined}),
		frame.Times("datetime", []time.Time{joined.Add(90 * time.Minute), joined.Add(48 * time.Hour)}),
	)
	require.NoError(t, err)

	requireTableAndArray(t, NewColumnDifference(), in, column(5400, 172800), 0)
}

func TestColumnDifferenceErrors(t *testing.T) {
	one, err := frame.New(frame.Floats("a", []float64{1}))
	require.NoError(t, err)
	_, err = NewColumnDifference().Transform(one)
	require.ErrorIs(t, err, ErrConfiguration)

	mixed, err := frame.New(
		frame.Times("t", []time.Time{time.Unix(0, 0)}),
		frame.Floats("x", []float64{1}),
	)
	require.NoError(t, err)
	_, err = NewColumnDifference().Transform(mixed)
	require.ErrorIs(t, err, frame.ErrTypeInput)

	text, err := frame.New(
		frame.Floats("x", []float64{1}),
		frame.Strings("s", []string{"a"}),
	)
	require.NoError(t, err)
	_, err = NewColumnDifference().Transform(text)
	require.ErrorIs(t, err, frame.ErrTypeInput)
}

func TestCosine(t *testing.T) {
	c, err := NewCosine(24)
	require.NoError(t, err)

	in, err := frame.New(frame.Floats("times", []float64{0, 4, 6, 8, 12, 16, 18, 20, 24}))
	require.NoError(t, err)

	requireTableAndArray(t, c, in, column(1, 0.5, 0, -0.5, -1, -0.5, 0, 0.5, 1), 1e-9)
}

func TestCosineDefaultPeriod(t *testing.T) {
	c, err := NewCosine(DefaultPeriod)
	require.NoError(t, err)
	in, err := frame.New(frame.Floats("x", []float64{0, math.Pi}))
	require.NoError(t, err)

	out, err := c.Transform(in)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1, -1}, out.Col(0).Floats, 1e-12)
}

func TestCosineInvalidPeriod(t *testing.T) {
	for _, p := range []float64{0, -24, math.NaN(), math.Inf(1)} {
		_, err := NewCosine(p)
		require.ErrorIs(t, err, ErrConfiguration, "period %v", p)
	}
}

func TestCosineDoesNotMutateInput(t *testing.T) {
	c, err := NewCosine(24)
	require.NoError(t, err)
	src := []float64{0, 6, 12}
	in, err := frame.New(frame.Floats("h", src))
	require.NoError(t, err)

	_, err = c.Transform(in)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 6, 12}, src)
}

func TestDatetimeToValue(t *testing.T) {
	in := sampleTimes(t)

	tests := []struct {
		unit string
		want []float64
	}{
		{"seconds", []float64{0, 0, 0}},
		{"minute", []float64{0, 0, 0}},
		{"", []float64{1, 15, 15}},
		{"h", []float64{1, 12, 23}},
		{"M", []float64{1, 1, 7}},
		{"years", []float64{1970, 1986, 2016}},
	}
	for _, tt := range tests {
		t.Run("unit="+tt.unit, func(t *testing.T) {
			tr, err := NewDatetimeToValue(tt.unit)
			require.NoError(t, err)
			requireTableAndArray(t, tr, in, column(tt.want...), 0)
		})
	}
}

func TestDatetimeToValueSubUnits(t *testing.T) {
	in, err := frame.New(frame.Times("ts", []time.Time{
		time.Date(2020, 2, 29, 13, 45, 30, 999_000_000, time.UTC),
		time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC),
	}))
	require.NoError(t, err)

	for unit, want := range map[string][]float64{
		"s": {30, 59},
		"m": {45, 59},
		"h": {13, 23},
		"d": {29, 31},
		"M": {2, 12},
		"y": {2020, 1969},
	} {
		tr, err := NewDatetimeToValue(unit)
		require.NoError(t, err)
		out, err := tr.Transform(in)
		require.NoError(t, err)
		require.Equal(t, want, out.Col(0).Floats, "unit %s", unit)
	}
}

func TestDatetimeToValueReadsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in, err := frame.New(frame.Times("ts", []time.Time{time.Date(2020, 1, 1, 3, 0, 0, 0, loc)}))
	require.NoError(t, err)

	tr, err := NewDatetimeToValue("hours")
	require.NoError(t, err)
	out, err := tr.Transform(in)
	require.NoError(t, err)
	require.Equal(t, []float64{22}, out.Col(0).Floats)
}

func TestDatetimeToValueUnknownUnit(t *testing.T) {
	tr, err := NewDatetimeToValue("fortnight")
	require.ErrorIs(t, err, ErrConfiguration)
	require.Nil(t, tr)
}

func TestParseUnitSynonyms(t *testing.T) {
	for name, want := range map[string]TimeUnit{
		"s": Second, "second": Second, "seconds": Second,
		"m": Minute, "minute": Minute, "minutes": Minute,
		"h": Hour, "hour": Hour, "hours": Hour,
		"d": Day, "day": Day, "days": Day,
		"M": Month, "month": Month, "months": Month,
		"y": Year, "year": Year, "years": Year,
		"": Day,
	} {
		got, err := ParseUnit(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}

	_, err := ParseUnit("Hours")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestDatetimeToValueRejectsNumbers(t *testing.T) {
	tr, err := NewDatetimeToValue("hours")
	require.NoError(t, err)
	in, err := frame.New(frame.Floats("x", []float64{1}))
	require.NoError(t, err)

	_, err = tr.Transform(in)
	require.ErrorIs(t, err, frame.ErrTypeInput)
}

func TestDatetimeToTimestamp(t *testing.T) {
	requireTableAndArray(t, NewDatetimeToTimestamp(), sampleTimes(t), column(3600, 506174400, 1468623600), 0)
}

func TestDatetimeToTimestampSubSecond(t *testing.T) {
	in, err := frame.New(frame.Times("ts", []time.Time{time.Unix(10, 250_000_000)}))
	require.NoError(t, err)

	out, err := NewDatetimeToTimestamp().Transform(in)
	require.NoError(t, err)
	require.InDelta(t, 10.25, out.Col(0).Floats[0], 1e-9)
}

func TestApplyRejectsUnsupportedInput(t *testing.T) {
	for _, x := range []any{map[string][]float64{"a": {1}}, []float64{1, 2}, "text", nil} {
		_, err := Apply(NewDatetimeToTimestamp(), x)
		require.ErrorIs(t, err, frame.ErrTypeInput, "%T", x)
	}
}

func TestRowCountPreserved(t *testing.T) {
	times := sampleTimes(t)
	hours, err := NewDatetimeToValue("hours")
	require.NoError(t, err)
	cos, err := NewCosine(24)
	require.NoError(t, err)
	chain, err := NewChain(hours, cos)
	require.NoError(t, err)
	pair, err := frame.New(times.Col(0), times.Col(0).Renamed("dts2"))
	require.NoError(t, err)

	cases := map[string]struct {
		tr Transformer
		in *frame.Frame
	}{
		"value":      {hours, times},
		"timestamp":  {NewDatetimeToTimestamp(), times},
		"chain":      {chain, times},
		"difference": {NewColumnDifference(), pair},
	}
	for name, c := range cases {
		out, err := FitTransform(c.tr, c.in)
		require.NoError(t, err, name)
		require.Equal(t, c.in.NumRows(), out.NumRows(), name)
	}
}

func TestChainHourOfDay(t *testing.T) {
	hours, err := NewDatetimeToValue("hours")
	require.NoError(t, err)
	cos, err := NewCosine(24)
	require.NoError(t, err)
	chain, err := NewChain(hours, cos)
	require.NoError(t, err)

	in, err := frame.New(frame.Times("datetime", []time.Time{
		time.Date(2016, 7, 15, 23, 0, 0, 0, time.UTC),
		time.Date(2016, 7, 16, 0, 0, 0, 0, time.UTC),
		time.Date(2016, 7, 16, 12, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, err)

	out, err := FitTransform(chain, in)
	require.NoError(t, err)
	v := out.Col(0).Floats
	require.InDelta(t, v[0], v[1], 0.05)
	require.InDelta(t, -1, v[2], 1e-9)
}

func TestNewChainValidation(t *testing.T) {
	_, err := NewChain()
	require.ErrorIs(t, err, ErrConfiguration)
	_, err = NewChain(NewDatetimeToTimestamp(), nil)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestChainWrapsStepErrors(t *testing.T) {
	chain, err := NewChain(NewColumnDifference())
	require.NoError(t, err)
	in, err := frame.New(frame.Floats("a", []float64{1}))
	require.NoError(t, err)

	_, err = chain.Transform(in)
	require.True(t, errors.Is(err, ErrConfiguration))
	require.Contains(t, err.Error(), "step 0")
}
