package model

import (
	"fmt"
	"math"
	"slices"
)

// MultinomialNB is a naive Bayes classifier for count features such as
// bag-of-words vectors. Alpha is the additive smoothing parameter.
type MultinomialNB struct {
	Alpha float64

	Classes     []float64
	classPrior  []float64   // log p(c)
	featureProb [][]float64 // log p(x_j | c)
}

func NewMultinomialNB(alpha float64) *MultinomialNB {
	return &MultinomialNB{Alpha: alpha}
}

func (m *MultinomialNB) Fit(X [][]float64, y []float64) error {
	d, err := checkTrain(X, y)
	if err != nil {
		return err
	}
	if m.Alpha < 0 || math.IsNaN(m.Alpha) {
		return fmt.Errorf("%w: smoothing %v", ErrLabels, m.Alpha)
	}
	if err := checkNonNegative(X); err != nil {
		return err
	}

	classes := slices.Clone(y)
	slices.Sort(classes)
	classes = slices.Compact(classes)
	index := make(map[float64]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	counts := make([][]float64, len(classes))
	for c := range counts {
		counts[c] = make([]float64, d)
	}
	rows := make([]float64, len(classes))
	for i, row := range X {
		c := index[y[i]]
		rows[c]++
		for j, v := range row {
			counts[c][j] += v
		}
	}

	m.Classes = classes
	m.classPrior = make([]float64, len(classes))
	m.featureProb = make([][]float64, len(classes))
	for c := range classes {
		m.classPrior[c] = math.Log(rows[c] / float64(len(X)))
		total := 0.0
		for _, v := range counts[c] {
			total += v
		}
		denom := math.Log(total + m.Alpha*float64(d))
		lp := make([]float64, d)
		for j, v := range counts[c] {
			lp[j] = math.Log(v+m.Alpha) - denom
		}
		m.featureProb[c] = lp
	}
	return nil
}

// jointLog returns log p(c) + log p(x|c) per class for each row.
func (m *MultinomialNB) jointLog(X [][]float64) ([][]float64, error) {
	if m.Classes == nil {
		return nil, ErrNotFitted
	}
	if _, err := checkWidth(X, len(m.featureProb[0])); err != nil {
		return nil, err
	}
	if err := checkNonNegative(X); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		jl := make([]float64, len(m.Classes))
		for c := range m.Classes {
			s := m.classPrior[c]
			for j, v := range row {
				if v != 0 {
					s += v * m.featureProb[c][j]
				}
			}
			jl[c] = s
		}
		out[i] = jl
	}
	return out, nil
}

// Predict returns the most probable class label per row.
func (m *MultinomialNB) Predict(X [][]float64) ([]float64, error) {
	jl, err := m.jointLog(X)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(jl))
	for i, row := range jl {
		out[i] = m.Classes[argmax(row)]
	}
	return out, nil
}

// PredictProba returns the posterior of the largest class label, which is
// p(y=1) when trained on 0/1 labels.
func (m *MultinomialNB) PredictProba(X [][]float64) ([]float64, error) {
	jl, err := m.jointLog(X)
	if err != nil {
		return nil, err
	}
	last := len(m.Classes) - 1
	out := make([]float64, len(jl))
	for i, row := range jl {
		out[i] = math.Exp(row[last] - logSumExp(row))
	}
	return out, nil
}

func checkNonNegative(X [][]float64) error {
	for i, row := range X {
		for j, v := range row {
			if v < 0 {
				return fmt.Errorf("%w: %v at row %d column %d", ErrNegativeFeature, v, i, j)
			}
		}
	}
	return nil
}

func logSumExp(v []float64) float64 {
	hi := slices.Max(v)
	s := 0.0
	for _, x := range v {
		s += math.Exp(x - hi)
	}
	return hi + math.Log(s)
}

func argmax(v []float64) int {
	best := 0
	for i, x := range v {
		if x > v[best] {
			best = i
		}
	}
	return best
}
