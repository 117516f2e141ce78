// Package main implements the automoderator CLI: cross-validating the flag
// classifier, exporting feature matrices and generating demo data.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"automoderator/internal/config"
	"automoderator/internal/logging"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "automoderator",
		Short: "Predict which content moderators will flag",
		Long: `automoderator turns exported content records into time, text and
boolean features and trains a classifier that predicts moderation flags.

Settings come from built-in defaults, an optional YAML file (--config) and
AUTOMOD_ environment variables, e.g. AUTOMOD_CV_FOLDS=5.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (console, json)")

	root.AddCommand(newCVCmd(opts))
	root.AddCommand(newFeaturesCmd(opts))
	root.AddCommand(newFakeDataCmd())
	return root
}

// setup loads configuration and builds the logger. Flags override both.
func (o *globalOptions) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
