package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"automoderator/pkg/data"
	"automoderator/pkg/pipeline"
)

type cvOptions struct {
	dataPath     string
	labels       []string
	contentTypes []string
	folds        int
	workers      int
	holdout      float64
	plotPath     string
	metricsPath  string
}

func newCVCmd(global *globalOptions) *cobra.Command {
	opts := &cvOptions{}
	cmd := &cobra.Command{
		Use:   "cv",
		Short: "Cross-validate the flag classifier",
		Long: `Load content records, assemble features and report per-fold
accuracy, precision, recall and F1 of the configured classifier.

Examples:
  # Score flag_2 on posts with the defaults
  automoderator cv --data posts.csv

  # One 80/20 split
  automoderator cv --data posts.csv --holdout 0.2

  # Five folds, all content types, fold chart and metrics file
  automoderator cv --data posts.csv --content-types Message,Comment,Post \
    --folds 5 --plot folds.png --metrics-file cv.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCV(cmd, global, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.dataPath, "data", "", "CSV export to load (overrides data.path)")
	f.StringSliceVar(&opts.labels, "labels", nil, "label columns by name or index (overrides data.labels)")
	f.StringSliceVar(&opts.contentTypes, "content-types", nil, "content types to keep (overrides data.content_types)")
	f.IntVar(&opts.folds, "folds", 0, "number of folds (overrides cv.folds)")
	f.IntVar(&opts.workers, "workers", 0, "folds evaluated concurrently (overrides cv.workers)")
	f.Float64Var(&opts.holdout, "holdout", 0, "score a single random split with this test ratio instead of k folds")
	f.StringVar(&opts.plotPath, "plot", "", "write a PNG chart of fold scores")
	f.StringVar(&opts.metricsPath, "metrics-file", "", "write Prometheus metrics in text format")
	return cmd
}

func runCV(cmd *cobra.Command, global *globalOptions, opts *cvOptions) error {
	cfg, logger, err := global.setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if opts.dataPath != "" {
		cfg.Data.Path = opts.dataPath
	}
	if cmd.Flags().Changed("labels") {
		cfg.Data.Labels = opts.labels
	}
	if cmd.Flags().Changed("content-types") {
		cfg.Data.ContentTypes = opts.contentTypes
	}
	if opts.folds != 0 {
		cfg.CV.Folds = opts.folds
	}
	if opts.workers != 0 {
		cfg.CV.Workers = opts.workers
	}

	X, labels, err := data.Load(cfg.Data.Path, loadOptions(cfg.Data))
	if err != nil {
		return err
	}
	y, err := target(labels)
	if err != nil {
		return err
	}
	logger.Info("data loaded",
		zap.String("path", cfg.Data.Path),
		zap.Int("rows", X.NumRows()),
		zap.String("label", labels.Col(0).Name),
	)

	reg := prometheus.NewRegistry()
	metrics := pipeline.NewMetrics(reg)
	factory := newFactory(cfg, logger, metrics)
	var res pipeline.CVResult
	if opts.holdout > 0 {
		res, err = pipeline.Holdout(factory, X, y, opts.holdout, cfg.CV.Seed, logger)
	} else {
		res, err = pipeline.CrossValidate(cmd.Context(), factory, X, y, pipeline.CVConfig{
			Folds:      cfg.CV.Folds,
			Stratified: cfg.CV.Stratified,
			Shuffle:    cfg.CV.Shuffle,
			Seed:       cfg.CV.Seed,
			Workers:    cfg.CV.Workers,
			Logger:     logger,
			Metrics:    metrics,
		})
	}
	if err != nil {
		return err
	}

	printScores(cmd.OutOrStdout(), res)

	if opts.plotPath != "" {
		if err := plotScores(res, opts.plotPath); err != nil {
			return err
		}
		logger.Info("saved fold chart", zap.String("path", opts.plotPath))
	}
	if opts.metricsPath != "" {
		if err := prometheus.WriteToTextfile(opts.metricsPath, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func printScores(w io.Writer, res pipeline.CVResult) {
	fmt.Fprintf(w, "run %s\n", res.RunID)
	fmt.Fprintf(w, "%-5s %6s %6s %9s %10s %7s %7s\n", "fold", "train", "test", "accuracy", "precision", "recall", "f1")
	for _, f := range res.Folds {
		fmt.Fprintf(w, "%-5d %6d %6d %9.4f %10.4f %7.4f %7.4f\n", f.Fold, f.Train, f.Test, f.Accuracy, f.Precision, f.Recall, f.F1)
	}
	s := res.Summary()
	fmt.Fprintf(w, "accuracy mean %.4f std %.4f min %.4f max %.4f\n", s.Mean, s.Std, s.Min, s.Max)
}

// plotScores saves a bar chart of per-fold accuracy.
func plotScores(res pipeline.CVResult, filename string) error {
	p := plot.New()
	p.Title.Text = "Cross-validation accuracy"
	p.X.Label.Text = "fold"
	p.Y.Label.Text = "accuracy"
	p.Y.Min, p.Y.Max = 0, 1

	bars, err := plotter.NewBarChart(plotter.Values(res.Accuracies()), vg.Points(20))
	if err != nil {
		return fmt.Errorf("fold chart: %w", err)
	}
	p.Add(bars)

	names := make([]string, len(res.Folds))
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	p.NominalX(names...)

	if err := p.Save(4*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("save fold chart: %w", err)
	}
	return nil
}
