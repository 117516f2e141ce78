package transform

import (
	"fmt"
	"sort"
	"strings"
)

// StepSpec declares one transformer in configuration. Only the fields
// relevant to Type are read.
type StepSpec struct {
	Type string `koanf:"type"`

	// datetime_value
	Unit string `koanf:"unit"`

	// cosine; zero means DefaultPeriod
	Period float64 `koanf:"period"`

	// count_vectorizer
	NGramMin    int     `koanf:"ngram_min"`
	NGramMax    int     `koanf:"ngram_max"`
	MinDF       int     `koanf:"min_df"`
	MaxDF       float64 `koanf:"max_df"`
	MaxFeatures int     `koanf:"max_features"`
	Binary      bool    `koanf:"binary"`
	KeepCase    bool    `koanf:"keep_case"`

	// one_hot
	IgnoreUnknown bool `koanf:"ignore_unknown"`
}

type builder func(StepSpec) (Transformer, error)

var builders = map[string]builder{
	"timestamp": func(StepSpec) (Transformer, error) {
		return NewDatetimeToTimestamp(), nil
	},
	"datetime_value": func(s StepSpec) (Transformer, error) {
		return NewDatetimeToValue(s.Unit)
	},
	"cosine": func(s StepSpec) (Transformer, error) {
		if s.Period == 0 {
			s.Period = DefaultPeriod
		}
		return NewCosine(s.Period)
	},
	"difference": func(StepSpec) (Transformer, error) {
		return NewColumnDifference(), nil
	},
	"count_vectorizer": func(s StepSpec) (Transformer, error) {
		opts := []VectorizerOption{WithBinary(s.Binary), WithLowercase(!s.KeepCase)}
		if s.NGramMin != 0 || s.NGramMax != 0 {
			lo, hi := s.NGramMin, s.NGramMax
			if lo == 0 {
				lo = 1
			}
			if hi == 0 {
				hi = lo
			}
			opts = append(opts, WithNGramRange(lo, hi))
		}
		if s.MinDF != 0 {
			opts = append(opts, WithMinDF(s.MinDF))
		}
		if s.MaxDF != 0 {
			opts = append(opts, WithMaxDF(s.MaxDF))
		}
		if s.MaxFeatures != 0 {
			opts = append(opts, WithMaxFeatures(s.MaxFeatures))
		}
		return NewCountVectorizer(opts...)
	},
	"one_hot": func(s StepSpec) (Transformer, error) {
		return NewOneHotEncoder(s.IgnoreUnknown), nil
	},
}

// StepTypes lists the names Build accepts.
func StepTypes() []string {
	out := make([]string, 0, len(builders))
	for k := range builders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build constructs a fresh transformer from a declaration. Unknown types and
// invalid settings fail with ErrConfiguration.
func Build(spec StepSpec) (Transformer, error) {
	b, ok := builders[spec.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown step type %q (want one of %s)", ErrConfiguration, spec.Type, strings.Join(StepTypes(), ", "))
	}
	return b(spec)
}

// BuildChain builds every step of specs into a single transformer: the step
// itself when there is one, a Chain otherwise.
func BuildChain(specs []StepSpec) (Transformer, error) {
	steps := make([]Transformer, len(specs))
	for i, s := range specs {
		t, err := Build(s)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		steps[i] = t
	}
	if len(steps) == 1 {
		return steps[0], nil
	}
	return NewChain(steps...)
}
