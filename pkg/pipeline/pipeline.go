package pipeline

import (
	"fmt"

	"automoderator/pkg/frame"
	"automoderator/pkg/model"
)

// Pipeline chains feature assembly, matrix preprocessing steps and a
// classifier.
type Pipeline struct {
	assembler *Assembler
	steps     []model.Transformer
	clf       model.Classifier
}

func New(assembler *Assembler, clf model.Classifier, steps ...model.Transformer) *Pipeline {
	return &Pipeline{assembler: assembler, steps: steps, clf: clf}
}

func (p *Pipeline) Assembler() *Assembler { return p.assembler }

// Fit fits the assembler, every step and the classifier on X and y.
func (p *Pipeline) Fit(X *frame.Frame, y []float64) error {
	if X.NumRows() != len(y) {
		return fmt.Errorf("%w: %d rows, %d labels", frame.ErrShapeMismatch, X.NumRows(), len(y))
	}
	features, err := p.assembler.FitTransform(X)
	if err != nil {
		return err
	}
	rows, err := features.Float64s()
	if err != nil {
		return fmt.Errorf("feature matrix: %w", err)
	}
	for i, step := range p.steps {
		if err := step.Fit(rows); err != nil {
			return fmt.Errorf("step %d (%T): %w", i, step, err)
		}
		if rows, err = step.Transform(rows); err != nil {
			return fmt.Errorf("step %d (%T): %w", i, step, err)
		}
	}
	return p.clf.Fit(rows, y)
}

func (p *Pipeline) features(X *frame.Frame) ([][]float64, error) {
	features, err := p.assembler.Transform(X)
	if err != nil {
		return nil, err
	}
	rows, err := features.Float64s()
	if err != nil {
		return nil, fmt.Errorf("feature matrix: %w", err)
	}
	for i, step := range p.steps {
		if rows, err = step.Transform(rows); err != nil {
			return nil, fmt.Errorf("step %d (%T): %w", i, step, err)
		}
	}
	return rows, nil
}

func (p *Pipeline) Predict(X *frame.Frame) ([]float64, error) {
	rows, err := p.features(X)
	if err != nil {
		return nil, err
	}
	return p.clf.Predict(rows)
}

func (p *Pipeline) PredictProba(X *frame.Frame) ([]float64, error) {
	rows, err := p.features(X)
	if err != nil {
		return nil, err
	}
	return p.clf.PredictProba(rows)
}
