package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/araddon/dateparse"

	"automoderator/pkg/dataprep"
	"automoderator/pkg/frame"
)

var (
	// ErrUnknownSelector is returned for label or content-type selectors that
	// name nothing known.
	ErrUnknownSelector = errors.New("unknown selector")
	// ErrParse is returned when a cell cannot be read as its column's kind.
	ErrParse = errors.New("parse error")
)

// LoadOptions select and filter the rows and labels returned by Load.
type LoadOptions struct {
	// Labels are flag column names or 0-based indices into FlagColumns.
	// Empty selects every flag column present.
	Labels []string
	// ContentTypes keeps only rows whose content_type is listed, by name or
	// index into ContentTypes. Empty keeps every row.
	ContentTypes []string
	// BooleanLabels turns label values into flagged (> 0) / not flagged.
	BooleanLabels bool
	// UnflaggedOnly drops rows that carry flags, unless one of them is a
	// selected label. The negative class is then content nobody flagged.
	UnflaggedOnly bool
	// Schema defaults to DefaultSchema.
	Schema *Schema
}

// Load reads the CSV export at path. See Read.
func Load(path string, opts LoadOptions) (features, labels *frame.Frame, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()
	features, labels, err = Read(bufio.NewReader(file), opts)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return features, labels, nil
}

// Read parses a CSV export with a header row. It returns the feature columns
// (every column except the flags) and the selected label columns, row
// aligned.
func Read(r io.Reader, opts LoadOptions) (features, labels *frame.Frame, err error) {
	schema := DefaultSchema()
	if opts.Schema != nil {
		schema = *opts.Schema
	}
	table, err := readTable(r, schema)
	if err != nil {
		return nil, nil, err
	}

	if len(opts.ContentTypes) > 0 {
		table, err = filterContentTypes(table, opts.ContentTypes)
		if err != nil {
			return nil, nil, err
		}
	}

	var present []string
	for _, n := range table.Names() {
		if isFlag(n) {
			present = append(present, n)
		}
	}
	selected := present
	if len(opts.Labels) > 0 {
		selected, err = resolve(FlagColumns, opts.Labels, "label")
		if err != nil {
			return nil, nil, err
		}
	}

	labels, err = table.Select(selected...)
	if err != nil {
		return nil, nil, err
	}
	if opts.UnflaggedOnly {
		all, err := table.Select(present...)
		if err != nil {
			return nil, nil, err
		}
		keep := make([]bool, table.NumRows())
		for i := range keep {
			keep[i] = !anyFlag(all, i) || anyFlag(labels, i)
		}
		table = table.Filter(func(i int) bool { return keep[i] })
		labels = labels.Filter(func(i int) bool { return keep[i] })
	}

	if opts.BooleanLabels {
		cols := labels.Columns()
		for j, c := range cols {
			v := make([]bool, len(c.Floats))
			for i, x := range c.Floats {
				v[i] = x > 0
			}
			cols[j] = frame.Bools(c.Name, v)
		}
		if labels, err = labels.Derive(cols...); err != nil {
			return nil, nil, err
		}
	}
	return table.Drop(present...), labels, nil
}

// anyFlag reports whether any flag in row is set. Ternary flags use -1, and
// any non-zero value counts.
func anyFlag(f *frame.Frame, row int) bool {
	for j := 0; j < f.NumCols(); j++ {
		if f.Col(j).Floats[row] != 0 {
			return true
		}
	}
	return false
}

func filterContentTypes(table *frame.Frame, selectors []string) (*frame.Frame, error) {
	wanted, err := resolve(ContentTypes, selectors, "content type")
	if err != nil {
		return nil, err
	}
	col, err := table.Lookup("content_type")
	if err != nil {
		return nil, err
	}
	keep := make(map[string]struct{}, len(wanted))
	for _, w := range wanted {
		keep[w] = struct{}{}
	}
	return table.Filter(func(i int) bool {
		_, ok := keep[col.Strings[i]]
		return ok
	}), nil
}

// resolve maps selectors, each a member of known or an index into it.
func resolve(known, selectors []string, what string) ([]string, error) {
	out := make([]string, 0, len(selectors))
	for _, s := range selectors {
		if i, err := strconv.Atoi(s); err == nil {
			if i < 0 || i >= len(known) {
				return nil, fmt.Errorf("%w: %s index %d out of range", ErrUnknownSelector, what, i)
			}
			out = append(out, known[i])
			continue
		}
		found := false
		for _, k := range known {
			if k == s {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s %q", ErrUnknownSelector, what, s)
		}
		out = append(out, s)
	}
	return out, nil
}

func readTable(r io.Reader, schema Schema) (*frame.Frame, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrParse, err)
	}
	names := append([]string(nil), header...)
	cells := make([][]string, len(names))
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		for j, s := range rec {
			cells[j] = append(cells[j], s)
		}
	}

	cols := make([]frame.Column, len(names))
	for j, name := range names {
		kind, known := schema.Kinds[name]
		if !known {
			kind = inferKind(cells[j])
		}
		c, err := parseColumn(name, kind, cells[j])
		if err != nil {
			return nil, err
		}
		cols[j] = c
	}
	return frame.New(cols...)
}

func inferKind(cells []string) frame.Kind {
	for _, s := range cells {
		if _, err := dataprep.ParseNumber(s); err != nil {
			return frame.KindString
		}
	}
	return frame.KindFloat
}

func parseColumn(name string, kind frame.Kind, cells []string) (frame.Column, error) {
	cellErr := func(i int, err error) error {
		// row numbers count the header as line 1
		return fmt.Errorf("%w: row %d column %q: %v", ErrParse, i+2, name, err)
	}
	switch kind {
	case frame.KindTime:
		v := make([]time.Time, len(cells))
		for i, s := range cells {
			t, err := dateparse.ParseIn(s, time.UTC)
			if err != nil {
				return frame.Column{}, cellErr(i, err)
			}
			v[i] = t.UTC()
		}
		return frame.Times(name, v), nil
	case frame.KindBool:
		v := make([]bool, len(cells))
		for i, s := range cells {
			b, err := dataprep.ParseBool(s)
			if err != nil {
				return frame.Column{}, cellErr(i, err)
			}
			v[i] = b
		}
		return frame.Bools(name, v), nil
	case frame.KindFloat:
		parse := dataprep.ParseNumber
		if isFlag(name) {
			parse = dataprep.ParseFlag
		}
		v := make([]float64, len(cells))
		for i, s := range cells {
			f, err := parse(s)
			if err != nil {
				return frame.Column{}, cellErr(i, err)
			}
			v[i] = f
		}
		return frame.Floats(name, v), nil
	}
	return frame.Strings(name, append([]string(nil), cells...)), nil
}
