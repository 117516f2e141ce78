package main

import (
	"io"

	"github.com/spf13/cobra"

	"automoderator/pkg/data"
)

func newFakeDataCmd() *cobra.Command {
	var (
		rows    int
		seed    int64
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "fakedata",
		Short: "Generate a synthetic content export",
		Long: `Write a reproducible CSV of fake content records in the export
layout, with flags correlated to links, posting hour and spam words.

Example:
  automoderator fakedata --rows 500 --seed 1 --out posts.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outPath == "" {
				return data.Generate(cmd.OutOrStdout(), rows, seed)
			}
			return writeFile(outPath, func(w io.Writer) error {
				return data.Generate(w, rows, seed)
			})
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 500, "number of records")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}
