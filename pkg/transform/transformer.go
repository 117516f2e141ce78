// Package transform implements the column transformers that turn raw
// content records into numeric features.
//
// Every transformer works on the canonical *frame.Frame. Apply and FitApply
// are the boundary adapters for callers holding an Arrow record or a raw
// array: they convert the input, run the transformer, and convert the result
// back into the caller's representation.
package transform

import (
	"fmt"

	"automoderator/pkg/frame"
)

// Transformer is the fit/transform contract shared by every feature step.
// Transform never writes into its input and returns a frame with the same
// number of rows.
type Transformer interface {
	Fit(f *frame.Frame) error
	Transform(f *frame.Frame) (*frame.Frame, error)
}

// Stateless provides the no-op Fit used by transformers whose behaviour is
// fully decided at construction. Embed it to satisfy Transformer.
type Stateless struct{}

// Fit does nothing.
func (Stateless) Fit(*frame.Frame) error { return nil }

type fitTransformer interface {
	FitTransform(f *frame.Frame) (*frame.Frame, error)
}

// FitTransform fits t on f and transforms f with it.
func FitTransform(t Transformer, f *frame.Frame) (*frame.Frame, error) {
	if ft, ok := t.(fitTransformer); ok {
		return ft.FitTransform(f)
	}
	if err := t.Fit(f); err != nil {
		return nil, err
	}
	return t.Transform(f)
}

// Chain applies transformers left to right, each one receiving the output of
// the previous one.
type Chain []Transformer

// NewChain validates and returns a chain. A chain needs at least one
// non-nil step.
func NewChain(steps ...Transformer) (Chain, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: empty chain", ErrConfiguration)
	}
	for i, s := range steps {
		if s == nil {
			return nil, fmt.Errorf("%w: chain step %d is nil", ErrConfiguration, i)
		}
	}
	return Chain(append([]Transformer(nil), steps...)), nil
}

// Fit fits every step on the transformed output of the steps before it.
func (c Chain) Fit(f *frame.Frame) error {
	_, err := c.run(f, true)
	return err
}

func (c Chain) Transform(f *frame.Frame) (*frame.Frame, error) {
	return c.run(f, false)
}

func (c Chain) FitTransform(f *frame.Frame) (*frame.Frame, error) {
	return c.run(f, true)
}

func (c Chain) run(f *frame.Frame, fit bool) (*frame.Frame, error) {
	cur := f
	for i, step := range c {
		var (
			out *frame.Frame
			err error
		)
		if fit {
			out, err = FitTransform(step, cur)
		} else {
			out, err = step.Transform(cur)
		}
		if err != nil {
			return nil, fmt.Errorf("step %d (%T): %w", i, step, err)
		}
		if out.NumRows() != cur.NumRows() {
			return nil, fmt.Errorf("%w: step %d (%T) returned %d rows from %d", frame.ErrShapeMismatch, i, step, out.NumRows(), cur.NumRows())
		}
		cur = out
	}
	return cur, nil
}

// Apply transforms x, which may be a *frame.Frame, an arrow.Record, a raw
// array or a *core.Matrix, and returns the result in the same
// representation. Arrow results must be released by the caller.
func Apply(t Transformer, x any) (any, error) {
	f, rep, err := frame.From(x)
	if err != nil {
		return nil, err
	}
	out, err := t.Transform(f)
	if err != nil {
		return nil, err
	}
	return frame.Export(out, rep, nil)
}

// FitApply is Apply preceded by a fit on the same input.
func FitApply(t Transformer, x any) (any, error) {
	f, rep, err := frame.From(x)
	if err != nil {
		return nil, err
	}
	out, err := FitTransform(t, f)
	if err != nil {
		return nil, err
	}
	return frame.Export(out, rep, nil)
}
