package dataprep

import "sort"

// Vocabulary is a sorted set of strings with a stable integer index per
// entry. It backs both the bag-of-words term index and one-hot category
// lists.
type Vocabulary struct {
	terms []string
	index map[string]int
}

// NewVocabulary deduplicates and sorts terms.
func NewVocabulary(terms []string) *Vocabulary {
	unique := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		unique[t] = struct{}{}
	}
	sorted := make([]string, 0, len(unique))
	for t := range unique {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)

	index := make(map[string]int, len(sorted))
	for i, t := range sorted {
		index[t] = i
	}
	return &Vocabulary{terms: sorted, index: index}
}

// Index returns the position of term.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Terms returns a copy of the sorted entries.
func (v *Vocabulary) Terms() []string {
	return append([]string(nil), v.terms...)
}

func (v *Vocabulary) Len() int { return len(v.terms) }

// DocumentFrequencies counts, for every term, how many documents contain it
// and how often it occurs overall.
func DocumentFrequencies(docs [][]string) (df, tf map[string]int) {
	df = map[string]int{}
	tf = map[string]int{}
	for _, doc := range docs {
		seen := map[string]struct{}{}
		for _, t := range doc {
			tf[t]++
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				df[t]++
			}
		}
	}
	return df, tf
}
