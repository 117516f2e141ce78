package model

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"automoderator/pkg/data"
	"automoderator/pkg/optim"
)

// LogisticRegression (binary) with sigmoid, trained by mini-batch SGD.
type LogisticRegression struct {
	W         []float64 // weights
	b         float64   // bias
	Lr        float64
	L2        float64
	Epochs    int
	BatchSize int
	Seed      int64
	Threshold float64
}

// NewLogisticRegression stores the hyperparameters; weights are sized on Fit.
func NewLogisticRegression(lr float64, epochs int, batchSize int) *LogisticRegression {
	return &LogisticRegression{
		Lr:        lr,
		Epochs:    epochs,
		BatchSize: batchSize,
		Threshold: 0.5,
	}
}

func (m *LogisticRegression) Bias() float64 { return m.b }

// Fit trains on X and 0/1 labels y. Every epoch shuffles the rows with a
// generator derived from Seed and streams them through data.Batcher, so two
// fits with the same seed produce the same weights.
func (m *LogisticRegression) Fit(X [][]float64, y []float64) error {
	nFeatures, err := checkTrain(X, y)
	if err != nil {
		return err
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("%w: label %v at row %d is not 0 or 1", ErrLabels, v, i)
		}
	}
	batchSize := m.BatchSize
	if batchSize <= 0 {
		batchSize = len(X)
	}

	rng := rand.New(rand.NewSource(m.Seed))
	// small random values break symmetry
	m.W = make([]float64, nFeatures)
	for i := range m.W {
		m.W[i] = rng.NormFloat64() * 0.01
	}
	m.b = 0
	opt := optim.NewSGD(m.Lr, m.L2)

	for ep := 0; ep < m.Epochs; ep++ {
		samples := make(chan data.Sample, batchSize)
		batches := make(chan data.Batch)
		data.Samples(X, y, rng.Perm(len(X)), samples)
		data.Batcher(samples, batchSize, batches)

		for batch := range batches {
			p := m.proba(batch.X)
			_, dy := BCE(batch.Y, p)

			gW := make([]float64, len(m.W))
			gb := 0.0
			for i, row := range batch.X {
				d := dy[i]
				for j, xij := range row {
					gW[j] += d * xij
				}
				gb += d
			}
			opt.Step(m.W, gW)
			m.b -= m.Lr * gb
		}
	}
	return nil
}

// PredictProba returns p(y=1) for each row of X.
func (m *LogisticRegression) PredictProba(X [][]float64) ([]float64, error) {
	if m.W == nil {
		return nil, ErrNotFitted
	}
	if _, err := checkWidth(X, len(m.W)); err != nil {
		return nil, err
	}
	return m.proba(X), nil
}

// proba scores rows in parallel, one contiguous block per worker.
func (m *LogisticRegression) proba(X [][]float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	out := make([]float64, len(X))
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, len(X))
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				sum := m.b
				for j, v := range X[i] {
					sum += m.W[j] * v
				}
				out[i] = Sigmoid(sum)
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

// Predict returns 0/1 labels using Threshold.
func (m *LogisticRegression) Predict(X [][]float64) ([]float64, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return BinaryPredFromProba(proba, m.Threshold), nil
}
