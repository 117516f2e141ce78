package pipeline

import (
	"fmt"
	"strings"

	"automoderator/pkg/transform"
)

// EntryKind tells how an Entry treats its columns.
type EntryKind int

const (
	// KindPassthrough copies the selected columns unchanged.
	KindPassthrough EntryKind = iota
	// KindSingle applies one transformer.
	KindSingle
	// KindChain applies transformers in sequence.
	KindChain
)

func (k EntryKind) String() string {
	switch k {
	case KindPassthrough:
		return "passthrough"
	case KindSingle:
		return "single"
	case KindChain:
		return "chain"
	}
	return fmt.Sprintf("entry(%d)", int(k))
}

// Entry routes a list of input columns to what should happen to them. Build
// entries with Passthrough, Map or MapChain.
type Entry struct {
	Kind    EntryKind
	Columns []string
	// Name prefixes the output column names of transformed entries. It
	// defaults to the columns joined with "+".
	Name  string
	Steps []transform.Transformer
}

// Passthrough copies columns into the feature matrix as they are.
func Passthrough(columns ...string) Entry {
	return Entry{Kind: KindPassthrough, Columns: columns}
}

// Map sends columns through t.
func Map(columns []string, t transform.Transformer) Entry {
	return Entry{Kind: KindSingle, Columns: columns, Steps: []transform.Transformer{t}}
}

// MapChain sends columns through steps, left to right.
func MapChain(columns []string, steps ...transform.Transformer) Entry {
	return Entry{Kind: KindChain, Columns: columns, Steps: steps}
}

// Named returns e with an explicit output name prefix.
func (e Entry) Named(name string) Entry {
	e.Name = name
	return e
}

func (e Entry) label() string {
	if e.Name != "" {
		return e.Name
	}
	return strings.Join(e.Columns, "+")
}

// transformer validates e and returns the transformer it applies, nil for
// passthrough.
func (e Entry) transformer() (transform.Transformer, error) {
	if len(e.Columns) == 0 {
		return nil, fmt.Errorf("%w: entry selects no columns", transform.ErrConfiguration)
	}
	switch e.Kind {
	case KindPassthrough:
		if len(e.Steps) != 0 {
			return nil, fmt.Errorf("%w: passthrough entry %q has steps", transform.ErrConfiguration, e.label())
		}
		return nil, nil
	case KindSingle:
		if len(e.Steps) != 1 || e.Steps[0] == nil {
			return nil, fmt.Errorf("%w: entry %q needs exactly one transformer", transform.ErrConfiguration, e.label())
		}
		return e.Steps[0], nil
	case KindChain:
		c, err := transform.NewChain(e.Steps...)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.label(), err)
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: entry kind %s", transform.ErrConfiguration, e.Kind)
}

// EntrySpec declares an entry in configuration. No steps means passthrough.
type EntrySpec struct {
	Name    string               `koanf:"name"`
	Columns []string             `koanf:"columns"`
	Steps   []transform.StepSpec `koanf:"steps"`
}

// BuildEntries turns declarations into entries with freshly constructed
// transformers. Call it once per assembler; entries must not be shared
// between assemblers that are fitted independently.
func BuildEntries(specs []EntrySpec) ([]Entry, error) {
	out := make([]Entry, len(specs))
	for i, s := range specs {
		if len(s.Steps) == 0 {
			out[i] = Passthrough(s.Columns...)
			out[i].Name = s.Name
			continue
		}
		t, err := transform.BuildChain(s.Steps)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if c, ok := t.(transform.Chain); ok {
			out[i] = MapChain(s.Columns, c...)
		} else {
			out[i] = Map(s.Columns, t)
		}
		out[i].Name = s.Name
	}
	return out, nil
}
