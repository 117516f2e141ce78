package pipeline

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"automoderator/pkg/frame"
	"automoderator/pkg/loader"
	"automoderator/pkg/model"
	"automoderator/pkg/stats"
	"automoderator/pkg/transform"
)

func spamCorpus(t *testing.T) (*frame.Frame, []float64) {
	t.Helper()
	var (
		bodies []string
		links  []bool
		y      []float64
	)
	for i := 0; i < 6; i++ {
		bodies = append(bodies, "free prize click now", "hello friend see you at lunch")
		links = append(links, true, false)
		y = append(y, 1, 0)
	}
	f, err := frame.New(frame.Strings("content_body", bodies), frame.Bools("contains_link", links))
	require.NoError(t, err)
	return f, y
}

func spamFactory(built *atomic.Int32) Factory {
	return func() (*Pipeline, error) {
		built.Add(1)
		vec, err := transform.NewCountVectorizer()
		if err != nil {
			return nil, err
		}
		a, err := NewAssembler([]Entry{
			Map([]string{"content_body"}, vec),
			Passthrough("contains_link"),
		})
		if err != nil {
			return nil, err
		}
		return New(a, model.NewMultinomialNB(1), stats.NewMinMaxScaler()), nil
	}
}

func TestPipeline(t *testing.T) {
	X, y := spamCorpus(t)
	var built atomic.Int32
	p, err := spamFactory(&built)()
	require.NoError(t, err)

	_, err = p.Predict(X)
	require.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, p.Fit(X, y))
	pred, err := p.Predict(X)
	require.NoError(t, err)
	require.Equal(t, y, pred)

	proba, err := p.PredictProba(X.Take([]int{0, 1}))
	require.NoError(t, err)
	require.Greater(t, proba[0], 0.5)
	require.Less(t, proba[1], 0.5)

	require.ErrorIs(t, p.Fit(X, y[:3]), frame.ErrShapeMismatch)
}

func TestCrossValidate(t *testing.T) {
	X, y := spamCorpus(t)
	var built atomic.Int32

	res, err := CrossValidate(context.Background(), spamFactory(&built), X, y, DefaultCVConfig())
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)
	require.Len(t, res.Folds, 3)
	require.EqualValues(t, 3, built.Load())

	for i, f := range res.Folds {
		require.Equal(t, i, f.Fold)
		require.Equal(t, 8, f.Train)
		require.Equal(t, 4, f.Test)
		require.Equal(t, 1.0, f.Accuracy)
		require.Equal(t, 1.0, f.F1)
	}
	require.Equal(t, 1.0, res.Summary().Mean)
}

func TestCrossValidateParallelMatchesSerial(t *testing.T) {
	X, y := spamCorpus(t)
	var built atomic.Int32

	cfg := DefaultCVConfig()
	cfg.Shuffle, cfg.Seed = true, 11
	serial, err := CrossValidate(context.Background(), spamFactory(&built), X, y, cfg)
	require.NoError(t, err)

	cfg.Workers = 3
	parallel, err := CrossValidate(context.Background(), spamFactory(&built), X, y, cfg)
	require.NoError(t, err)
	require.Equal(t, serial.Accuracies(), parallel.Accuracies())
}

func TestCrossValidateErrors(t *testing.T) {
	X, y := spamCorpus(t)
	var built atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CrossValidate(ctx, spamFactory(&built), X, y, DefaultCVConfig())
	require.ErrorIs(t, err, context.Canceled)

	_, err = CrossValidate(context.Background(), spamFactory(&built), X, y[:2], DefaultCVConfig())
	require.ErrorIs(t, err, frame.ErrShapeMismatch)

	// naive Bayes rejects the negative values of an unscaled cosine feature
	failing := func() (*Pipeline, error) {
		c, err := transform.NewCosine(2)
		if err != nil {
			return nil, err
		}
		a, err := NewAssembler([]Entry{Map([]string{"contains_link"}, c)})
		if err != nil {
			return nil, err
		}
		return New(a, model.NewMultinomialNB(1)), nil
	}
	_, err = CrossValidate(context.Background(), failing, X, y, DefaultCVConfig())
	require.ErrorIs(t, err, model.ErrNegativeFeature)
}

func TestHoldout(t *testing.T) {
	X, y := spamCorpus(t)
	var built atomic.Int32

	res, err := Holdout(spamFactory(&built), X, y, 0.25, 3, nil)
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)
	require.Len(t, res.Folds, 1)
	require.Equal(t, 9, res.Folds[0].Train)
	require.Equal(t, 3, res.Folds[0].Test)
	require.Equal(t, 1.0, res.Folds[0].Accuracy)
	require.EqualValues(t, 1, built.Load())

	_, err = Holdout(spamFactory(&built), X, y, 1.5, 3, nil)
	require.ErrorIs(t, err, loader.ErrSplit)
}
