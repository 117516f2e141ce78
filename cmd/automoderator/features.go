package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"automoderator/pkg/data"
)

type featuresOptions struct {
	dataPath string
	outPath  string
	preview  int
}

func newFeaturesCmd(global *globalOptions) *cobra.Command {
	opts := &featuresOptions{}
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Fit the feature mapping and export the feature matrix",
		Long: `Fit the configured column mapping on a CSV export and write the
assembled feature matrix as CSV, one header column per feature.

Examples:
  automoderator features --data posts.csv --out features.csv
  automoderator features --data posts.csv --preview 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFeatures(cmd, global, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.dataPath, "data", "", "CSV export to load (overrides data.path)")
	f.StringVar(&opts.outPath, "out", "", "write the feature matrix here instead of stdout")
	f.IntVar(&opts.preview, "preview", 0, "only print the first N rows")
	return cmd
}

func runFeatures(cmd *cobra.Command, global *globalOptions, opts *featuresOptions) error {
	cfg, logger, err := global.setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if opts.dataPath != "" {
		cfg.Data.Path = opts.dataPath
	}

	X, _, err := data.Load(cfg.Data.Path, loadOptions(cfg.Data))
	if err != nil {
		return err
	}
	a, err := newAssembler(cfg, logger, nil)
	if err != nil {
		return err
	}
	out, err := a.FitTransform(X)
	if err != nil {
		return err
	}
	rows, err := out.Float64s()
	if err != nil {
		return err
	}
	if opts.preview > 0 && opts.preview < len(rows) {
		rows = rows[:opts.preview]
	}

	if opts.outPath == "" {
		if err := writeMatrix(cmd.OutOrStdout(), out.Names(), rows); err != nil {
			return err
		}
	} else if err := writeFile(opts.outPath, func(w io.Writer) error {
		return writeMatrix(w, out.Names(), rows)
	}); err != nil {
		return err
	}
	logger.Info("features written", zap.Int("rows", len(rows)), zap.Int("features", out.NumCols()))
	return nil
}

// writeFile creates path, hands it to write and reports the first error from
// either write or Close.
func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func writeMatrix(w io.Writer, header []string, rows [][]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(header))
	for i, row := range rows {
		for j, v := range row {
			rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
