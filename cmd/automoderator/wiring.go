package main

import (
	"fmt"

	"go.uber.org/zap"

	"automoderator/internal/config"
	"automoderator/pkg/data"
	"automoderator/pkg/frame"
	"automoderator/pkg/model"
	"automoderator/pkg/pipeline"
	"automoderator/pkg/stats"
)

func loadOptions(c config.DataConfig) data.LoadOptions {
	return data.LoadOptions{
		Labels:        c.Labels,
		ContentTypes:  c.ContentTypes,
		BooleanLabels: c.BooleanLabels,
		UnflaggedOnly: c.UnflaggedOnly,
	}
}

// target is the first selected label column, as 0/1 when labels are boolean.
func target(labels *frame.Frame) ([]float64, error) {
	if labels.NumCols() == 0 {
		return nil, fmt.Errorf("no label columns selected")
	}
	return labels.Col(0).Numeric()
}

func newAssembler(cfg *config.Config, logger *zap.Logger, metrics *pipeline.Metrics) (*pipeline.Assembler, error) {
	entries, err := pipeline.BuildEntries(cfg.Features)
	if err != nil {
		return nil, err
	}
	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if metrics != nil {
		opts = append(opts, pipeline.WithMetrics(metrics))
	}
	return pipeline.NewAssembler(entries, opts...)
}

func newClassifier(c config.ModelConfig) model.Classifier {
	if c.Type == "logistic" {
		lr := model.NewLogisticRegression(c.LearningRate, c.Epochs, c.BatchSize)
		lr.L2 = c.L2
		lr.Seed = c.Seed
		return lr
	}
	return model.NewMultinomialNB(c.Alpha)
}

func newScalers(c config.ModelConfig) []model.Transformer {
	switch c.Scaler {
	case "minmax":
		return []model.Transformer{stats.NewMinMaxScaler()}
	case "standard":
		return []model.Transformer{stats.NewStandardScaler()}
	}
	return nil
}

// newFactory builds a fresh pipeline per call, so folds share no fit state.
func newFactory(cfg *config.Config, logger *zap.Logger, metrics *pipeline.Metrics) pipeline.Factory {
	return func() (*pipeline.Pipeline, error) {
		a, err := newAssembler(cfg, logger, metrics)
		if err != nil {
			return nil, err
		}
		return pipeline.New(a, newClassifier(cfg.Model), newScalers(cfg.Model)...), nil
	}
}
