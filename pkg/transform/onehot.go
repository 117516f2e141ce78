package transform

import (
	"fmt"
	"strconv"

	"automoderator/pkg/dataprep"
	"automoderator/pkg/frame"
)

// OneHotEncoder expands each categorical (string or bool) column into one
// 0/1 column per category seen at Fit, named "<column>=<category>".
type OneHotEncoder struct {
	ignoreUnknown bool
	categories    []*dataprep.Vocabulary
}

// NewOneHotEncoder returns an encoder. With ignoreUnknown an unseen category
// encodes as all zeros; otherwise it fails with ErrUnknownCategory.
func NewOneHotEncoder(ignoreUnknown bool) *OneHotEncoder {
	return &OneHotEncoder{ignoreUnknown: ignoreUnknown}
}

// Categories returns the fitted categories of input column j.
func (e *OneHotEncoder) Categories(j int) []string {
	if j < 0 || j >= len(e.categories) {
		return nil
	}
	return e.categories[j].Terms()
}

func (e *OneHotEncoder) Fit(f *frame.Frame) error {
	cats := make([]*dataprep.Vocabulary, f.NumCols())
	for j := range cats {
		v, err := categoryValues(f.Col(j))
		if err != nil {
			return err
		}
		cats[j] = dataprep.NewVocabulary(v)
	}
	e.categories = cats
	return nil
}

func (e *OneHotEncoder) Transform(f *frame.Frame) (*frame.Frame, error) {
	if e.categories == nil {
		return nil, fmt.Errorf("OneHotEncoder: %w", ErrNotFitted)
	}
	if f.NumCols() != len(e.categories) {
		return nil, fmt.Errorf("%w: OneHotEncoder fitted on %d columns, got %d", frame.ErrShapeMismatch, len(e.categories), f.NumCols())
	}

	var cols []frame.Column
	for j, vocab := range e.categories {
		c := f.Col(j)
		values, err := categoryValues(c)
		if err != nil {
			return nil, err
		}
		block := make([][]float64, vocab.Len())
		for k := range block {
			block[k] = make([]float64, len(values))
		}
		for i, v := range values {
			k, ok := vocab.Index(v)
			if !ok {
				if e.ignoreUnknown {
					continue
				}
				return nil, fmt.Errorf("%w: %q in column %q", ErrUnknownCategory, v, c.Name)
			}
			block[k][i] = 1
		}
		for k, cat := range vocab.Terms() {
			cols = append(cols, frame.Floats(c.Name+"="+cat, block[k]))
		}
	}
	return f.Derive(cols...)
}

func categoryValues(c frame.Column) ([]string, error) {
	switch c.Kind {
	case frame.KindString:
		return c.Strings, nil
	case frame.KindBool:
		out := make([]string, len(c.Bools))
		for i, b := range c.Bools {
			out[i] = strconv.FormatBool(b)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: OneHotEncoder requires string or bool columns, %q is %s", frame.ErrTypeInput, c.Name, c.Kind)
}
