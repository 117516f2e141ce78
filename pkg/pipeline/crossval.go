package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"automoderator/pkg/frame"
	"automoderator/pkg/loader"
	"automoderator/pkg/model"
	"automoderator/pkg/stats"
)

// Factory builds an unfitted pipeline. CrossValidate calls it once per fold,
// so it must return new transformers and a new classifier every time.
type Factory func() (*Pipeline, error)

// CVConfig controls fold generation and execution.
type CVConfig struct {
	Folds int
	// Stratified keeps class proportions in every fold.
	Stratified bool
	Shuffle    bool
	Seed       int64
	// Workers is the number of folds evaluated at once; 0 or 1 is serial.
	Workers int

	Logger  *zap.Logger
	Metrics *Metrics
}

// DefaultCVConfig is 3 stratified folds in row order.
func DefaultCVConfig() CVConfig {
	return CVConfig{Folds: 3, Stratified: true}
}

// FoldResult scores one validation fold.
type FoldResult struct {
	Fold      int
	Train     int
	Test      int
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	Took      time.Duration
}

// CVResult holds every fold in fold order.
type CVResult struct {
	RunID string
	Folds []FoldResult
}

// Accuracies returns the per-fold accuracy scores.
func (r CVResult) Accuracies() []float64 {
	out := make([]float64, len(r.Folds))
	for i, f := range r.Folds {
		out[i] = f.Accuracy
	}
	return out
}

// Summary summarises fold accuracy.
func (r CVResult) Summary() stats.Summary {
	return stats.Summarize(r.Accuracies())
}

// CrossValidate scores pipelines from factory on k folds of X and y.
func CrossValidate(ctx context.Context, factory Factory, X *frame.Frame, y []float64, cfg CVConfig) (CVResult, error) {
	if X.NumRows() != len(y) {
		return CVResult{}, fmt.Errorf("%w: %d rows, %d labels", frame.ErrShapeMismatch, X.NumRows(), len(y))
	}
	if cfg.Folds == 0 {
		cfg.Folds = DefaultCVConfig().Folds
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	var (
		folds []loader.Fold
		err   error
	)
	if cfg.Stratified {
		folds, err = loader.StratifiedKFoldSplit(y, cfg.Folds, cfg.Shuffle, cfg.Seed)
	} else {
		folds, err = loader.KFoldSplit(len(y), cfg.Folds, cfg.Shuffle, cfg.Seed)
	}
	if err != nil {
		return CVResult{}, err
	}
	logger.Info("cross-validation started", zap.Int("rows", len(y)), zap.Int("folds", len(folds)))

	results := make([]FoldResult, len(folds))
	g, ctx := errgroup.WithContext(ctx)
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)
	for i, fold := range folds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := runFold(factory, X, y, fold)
			if err != nil {
				return fmt.Errorf("fold %d: %w", i, err)
			}
			r.Fold = i
			results[i] = r
			logger.Info("fold scored",
				zap.Int("fold", i),
				zap.Int("train", r.Train),
				zap.Int("test", r.Test),
				zap.Float64("accuracy", r.Accuracy),
				zap.Float64("f1", r.F1),
				zap.Duration("took", r.Took),
			)
			if cfg.Metrics != nil {
				fl := strconv.Itoa(i)
				cfg.Metrics.FoldScore.WithLabelValues(fl, "accuracy").Set(r.Accuracy)
				cfg.Metrics.FoldScore.WithLabelValues(fl, "f1").Set(r.F1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("cross-validation failed", zap.Error(err))
		return CVResult{}, err
	}
	return CVResult{RunID: runID, Folds: results}, nil
}

// Holdout scores one pipeline trained on a seeded random share of the rows
// and validated on the remaining testRatio of them. The result has a single
// fold.
func Holdout(factory Factory, X *frame.Frame, y []float64, testRatio float64, seed int64, logger *zap.Logger) (CVResult, error) {
	if X.NumRows() != len(y) {
		return CVResult{}, fmt.Errorf("%w: %d rows, %d labels", frame.ErrShapeMismatch, X.NumRows(), len(y))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	train, test, err := loader.TrainTestSplit(len(y), testRatio, seed)
	if err != nil {
		return CVResult{}, err
	}
	r, err := runFold(factory, X, y, loader.Fold{Train: train, Test: test})
	if err != nil {
		return CVResult{}, fmt.Errorf("holdout: %w", err)
	}
	runID := uuid.NewString()
	logger.Info("holdout scored",
		zap.String("run_id", runID),
		zap.Int("train", r.Train),
		zap.Int("test", r.Test),
		zap.Float64("accuracy", r.Accuracy),
	)
	return CVResult{RunID: runID, Folds: []FoldResult{r}}, nil
}

func runFold(factory Factory, X *frame.Frame, y []float64, fold loader.Fold) (FoldResult, error) {
	start := time.Now()
	p, err := factory()
	if err != nil {
		return FoldResult{}, err
	}
	if err := p.Fit(X.Take(fold.Train), pick(y, fold.Train)); err != nil {
		return FoldResult{}, err
	}
	pred, err := p.Predict(X.Take(fold.Test))
	if err != nil {
		return FoldResult{}, err
	}
	truth := pick(y, fold.Test)
	prec, rec, f1 := model.PrecisionRecallF1(truth, pred)
	return FoldResult{
		Train:     len(fold.Train),
		Test:      len(fold.Test),
		Accuracy:  model.Accuracy(truth, pred),
		Precision: prec,
		Recall:    rec,
		F1:        f1,
		Took:      time.Since(start),
	}, nil
}

func pick(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = y[i]
	}
	return out
}
