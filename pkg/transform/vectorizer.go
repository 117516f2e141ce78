package transform

import (
	"fmt"
	"sort"

	"automoderator/pkg/dataprep"
	"automoderator/pkg/frame"
)

type vectorizerOptions struct {
	ngramMin    int
	ngramMax    int
	minDF       int
	maxDF       float64
	maxFeatures int
	binary      bool
	lowercase   bool
}

// VectorizerOption configures a CountVectorizer.
type VectorizerOption func(*vectorizerOptions)

// WithNGramRange counts every n-gram with lo <= n <= hi.
func WithNGramRange(lo, hi int) VectorizerOption {
	return func(o *vectorizerOptions) { o.ngramMin, o.ngramMax = lo, hi }
}

// WithMinDF drops terms found in fewer than n documents.
func WithMinDF(n int) VectorizerOption {
	return func(o *vectorizerOptions) { o.minDF = n }
}

// WithMaxDF drops terms found in more than ratio of the documents.
func WithMaxDF(ratio float64) VectorizerOption {
	return func(o *vectorizerOptions) { o.maxDF = ratio }
}

// WithMaxFeatures keeps the n most frequent terms.
func WithMaxFeatures(n int) VectorizerOption {
	return func(o *vectorizerOptions) { o.maxFeatures = n }
}

// WithBinary records presence (0/1) instead of counts.
func WithBinary(b bool) VectorizerOption {
	return func(o *vectorizerOptions) { o.binary = b }
}

// WithLowercase toggles case folding before tokenization.
func WithLowercase(b bool) VectorizerOption {
	return func(o *vectorizerOptions) { o.lowercase = b }
}

// CountVectorizer turns one text column into bag-of-words counts over a
// vocabulary learned at Fit. Output columns are sorted by term and named
// "<column>:<term>".
type CountVectorizer struct {
	opts  vectorizerOptions
	vocab *dataprep.Vocabulary
}

func NewCountVectorizer(opts ...VectorizerOption) (*CountVectorizer, error) {
	o := vectorizerOptions{ngramMin: 1, ngramMax: 1, minDF: 1, maxDF: 1, lowercase: true}
	for _, opt := range opts {
		opt(&o)
	}
	switch {
	case o.ngramMin < 1 || o.ngramMax < o.ngramMin:
		return nil, fmt.Errorf("%w: invalid n-gram range (%d, %d)", ErrConfiguration, o.ngramMin, o.ngramMax)
	case o.minDF < 1:
		return nil, fmt.Errorf("%w: min document frequency must be >= 1 (not %d)", ErrConfiguration, o.minDF)
	case !(o.maxDF > 0 && o.maxDF <= 1):
		return nil, fmt.Errorf("%w: max document frequency must be in (0, 1] (not %v)", ErrConfiguration, o.maxDF)
	case o.maxFeatures < 0:
		return nil, fmt.Errorf("%w: max features must be >= 0 (not %d)", ErrConfiguration, o.maxFeatures)
	}
	return &CountVectorizer{opts: o}, nil
}

// Vocabulary returns the fitted terms in column order, or nil before Fit.
func (v *CountVectorizer) Vocabulary() []string {
	if v.vocab == nil {
		return nil
	}
	return v.vocab.Terms()
}

// Fit learns the vocabulary, replacing any previous one.
func (v *CountVectorizer) Fit(f *frame.Frame) error {
	col, err := textColumn(f)
	if err != nil {
		return err
	}
	docs := v.analyze(col.Strings)
	df, tf := dataprep.DocumentFrequencies(docs)

	maxDocs := v.opts.maxDF * float64(len(docs))
	terms := make([]string, 0, len(df))
	for t, n := range df {
		if n >= v.opts.minDF && float64(n) <= maxDocs {
			terms = append(terms, t)
		}
	}
	if v.opts.maxFeatures > 0 && len(terms) > v.opts.maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if tf[terms[i]] != tf[terms[j]] {
				return tf[terms[i]] > tf[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.opts.maxFeatures]
	}
	if len(terms) == 0 {
		return fmt.Errorf("%w: empty vocabulary for column %q; documents contain no terms after pruning", ErrConfiguration, col.Name)
	}

	v.vocab = dataprep.NewVocabulary(terms)
	return nil
}

func (v *CountVectorizer) Transform(f *frame.Frame) (*frame.Frame, error) {
	if v.vocab == nil {
		return nil, fmt.Errorf("CountVectorizer: %w", ErrNotFitted)
	}
	col, err := textColumn(f)
	if err != nil {
		return nil, err
	}

	counts := make([][]float64, v.vocab.Len())
	for k := range counts {
		counts[k] = make([]float64, len(col.Strings))
	}
	for i, doc := range v.analyze(col.Strings) {
		for _, t := range doc {
			k, ok := v.vocab.Index(t)
			if !ok {
				continue
			}
			if v.opts.binary {
				counts[k][i] = 1
			} else {
				counts[k][i]++
			}
		}
	}

	cols := make([]frame.Column, len(counts))
	for k, term := range v.vocab.Terms() {
		cols[k] = frame.Floats(col.Name+":"+term, counts[k])
	}
	return f.Derive(cols...)
}

func (v *CountVectorizer) analyze(texts []string) [][]string {
	docs := make([][]string, len(texts))
	for i, s := range texts {
		docs[i] = dataprep.NGrams(dataprep.Tokenize(s, v.opts.lowercase), v.opts.ngramMin, v.opts.ngramMax)
	}
	return docs
}

func textColumn(f *frame.Frame) (frame.Column, error) {
	if f.NumCols() != 1 {
		return frame.Column{}, fmt.Errorf("%w: CountVectorizer takes exactly one text column, got %d", frame.ErrTypeInput, f.NumCols())
	}
	c := f.Col(0)
	if c.Kind != frame.KindString {
		return frame.Column{}, fmt.Errorf("%w: CountVectorizer requires a text column, %q is %s", frame.ErrTypeInput, c.Name, c.Kind)
	}
	return c, nil
}
