package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"automoderator/pkg/frame"
	"automoderator/pkg/transform"
)

// ErrNotFitted is returned by Transform before a successful Fit.
var ErrNotFitted = transform.ErrNotFitted

// Assembler routes column subsets of a dataset through their entries and
// concatenates the outputs, in declaration order, into one feature frame. It
// satisfies transform.Transformer. An Assembler must not be fitted and used
// from several goroutines at once.
type Assembler struct {
	entries []Entry
	steps   []transform.Transformer

	workers int
	logger  *zap.Logger
	metrics *Metrics

	fitted bool
	names  []string
}

type Option func(*Assembler)

// WithWorkers runs up to n entries concurrently. Output order is unaffected.
func WithWorkers(n int) Option {
	return func(a *Assembler) { a.workers = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(a *Assembler) { a.metrics = m }
}

// NewAssembler validates entries. Invalid entries fail with
// transform.ErrConfiguration.
func NewAssembler(entries []Entry, opts ...Option) (*Assembler, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no mapping entries", transform.ErrConfiguration)
	}
	a := &Assembler{
		entries: append([]Entry(nil), entries...),
		steps:   make([]transform.Transformer, len(entries)),
		workers: 1,
		logger:  zap.NewNop(),
	}
	for i, e := range a.entries {
		t, err := e.transformer()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		a.steps[i] = t
	}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// Fit fits every entry on its column selection. Fitting again discards the
// previous fit.
func (a *Assembler) Fit(f *frame.Frame) error {
	_, err := a.FitTransform(f)
	return err
}

// FitTransform fits every entry and returns the assembled training features.
func (a *Assembler) FitTransform(f *frame.Frame) (*frame.Frame, error) {
	a.fitted = false
	out, err := a.run(f, true)
	if err != nil {
		return nil, err
	}
	a.fitted = true
	a.names = out.Names()
	return out, nil
}

// Transform assembles features for f using the fitted entries.
func (a *Assembler) Transform(f *frame.Frame) (*frame.Frame, error) {
	if !a.fitted {
		return nil, fmt.Errorf("%w: assembler", ErrNotFitted)
	}
	return a.run(f, false)
}

// FeatureNames returns the assembled column names seen at the last fit.
func (a *Assembler) FeatureNames() ([]string, error) {
	if !a.fitted {
		return nil, fmt.Errorf("%w: assembler", ErrNotFitted)
	}
	return append([]string(nil), a.names...), nil
}

func (a *Assembler) run(f *frame.Frame, fit bool) (*frame.Frame, error) {
	op := "transform"
	if fit {
		op = "fit"
	}
	start := time.Now()
	blocks := make([]*frame.Frame, len(a.entries))

	g := new(errgroup.Group)
	if a.workers > 0 {
		g.SetLimit(a.workers)
	}
	for i := range a.entries {
		g.Go(func() error {
			out, err := a.runEntry(i, f, fit, op)
			if err != nil {
				return err
			}
			blocks[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out, err := frame.HStack(blocks...)
	if err != nil {
		return nil, err
	}
	if a.metrics != nil {
		a.metrics.RowsProcessed.WithLabelValues(op).Add(float64(f.NumRows()))
	}
	a.logger.Debug("assembled features",
		zap.String("op", op),
		zap.Int("rows", out.NumRows()),
		zap.Int("features", out.NumCols()),
		zap.Duration("took", time.Since(start)),
	)
	return out, nil
}

func (a *Assembler) runEntry(i int, f *frame.Frame, fit bool, op string) (out *frame.Frame, err error) {
	e := a.entries[i]
	label := e.label()
	start := time.Now()
	defer func() {
		if a.metrics != nil {
			a.metrics.EntryDuration.WithLabelValues(label, op).Observe(time.Since(start).Seconds())
			if err != nil {
				a.metrics.EntryErrors.WithLabelValues(label, op).Inc()
			}
		}
		if err != nil {
			a.logger.Warn("mapping entry failed", zap.Int("entry", i), zap.String("name", label), zap.String("op", op), zap.Error(err))
		}
	}()

	sel, err := f.Select(e.Columns...)
	if err != nil {
		return nil, fmt.Errorf("entry %d (%s): %w", i, label, err)
	}
	t := a.steps[i]
	if t == nil {
		return sel, nil
	}

	if fit {
		out, err = transform.FitTransform(t, sel)
	} else {
		out, err = t.Transform(sel)
	}
	if err != nil {
		return nil, fmt.Errorf("entry %d (%s): %w", i, label, err)
	}
	if out.NumRows() != f.NumRows() {
		return nil, fmt.Errorf("%w: entry %d (%s) returned %d rows for %d", frame.ErrShapeMismatch, i, label, out.NumRows(), f.NumRows())
	}
	if !out.Labeled() {
		return out, nil
	}
	cols := out.Columns()
	for k, c := range cols {
		cols[k] = c.Renamed(label + "/" + c.Name)
	}
	return out.Derive(cols...)
}
