// Package config loads automoderator settings from built-in defaults, an
// optional YAML file and AUTOMOD_ environment variables, in increasing order
// of precedence.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"automoderator/internal/logging"
	"automoderator/pkg/pipeline"
)

// EnvPrefix marks environment overrides: AUTOMOD_CV_FOLDS sets cv.folds.
const EnvPrefix = "AUTOMOD_"

//go:embed defaults.yaml
var defaultYAML []byte

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Data     DataConfig           `koanf:"data"`
	Features []pipeline.EntrySpec `koanf:"features"`
	Model    ModelConfig          `koanf:"model"`
	CV       CVConfig             `koanf:"cv"`
	Log      logging.Config       `koanf:"log"`
}

// DataConfig selects the input file, labels and rows.
type DataConfig struct {
	Path          string   `koanf:"path"`
	Labels        []string `koanf:"labels"`
	ContentTypes  []string `koanf:"content_types"`
	BooleanLabels bool     `koanf:"boolean_labels"`
	UnflaggedOnly bool     `koanf:"unflagged_only"`
}

// ModelConfig picks the classifier and the matrix scaler in front of it.
type ModelConfig struct {
	Type         string  `koanf:"type"`
	Scaler       string  `koanf:"scaler"`
	Alpha        float64 `koanf:"alpha"`
	LearningRate float64 `koanf:"learning_rate"`
	Epochs       int     `koanf:"epochs"`
	BatchSize    int     `koanf:"batch_size"`
	L2           float64 `koanf:"l2"`
	Seed         int64   `koanf:"seed"`
}

type CVConfig struct {
	Folds      int   `koanf:"folds"`
	Stratified bool  `koanf:"stratified"`
	Shuffle    bool  `koanf:"shuffle"`
	Seed       int64 `koanf:"seed"`
	Workers    int   `koanf:"workers"`
}

// Model types and scalers accepted by Validate.
var (
	ModelTypes = []string{"naive_bayes", "logistic"}
	Scalers    = []string{"none", "minmax", "standard"}
)

// Load reads the configuration. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// AUTOMOD_SECTION_FIELD_NAME -> section.field_name
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks settings that can be judged without data. Step settings
// are checked when the entries are built.
func (c *Config) Validate() error {
	if len(c.Features) == 0 {
		return fmt.Errorf("%w: no feature mapping entries", ErrInvalid)
	}
	for i, e := range c.Features {
		if len(e.Columns) == 0 {
			return fmt.Errorf("%w: features[%d] selects no columns", ErrInvalid, i)
		}
	}
	if !oneOf(c.Model.Type, ModelTypes) {
		return fmt.Errorf("%w: model.type %q, want one of %s", ErrInvalid, c.Model.Type, strings.Join(ModelTypes, ", "))
	}
	if !oneOf(c.Model.Scaler, Scalers) {
		return fmt.Errorf("%w: model.scaler %q, want one of %s", ErrInvalid, c.Model.Scaler, strings.Join(Scalers, ", "))
	}
	if c.Model.Type == "naive_bayes" && c.Model.Scaler == "standard" {
		return fmt.Errorf("%w: naive_bayes needs non-negative features; use the minmax scaler", ErrInvalid)
	}
	if c.CV.Folds < 2 {
		return fmt.Errorf("%w: cv.folds must be at least 2, got %d", ErrInvalid, c.CV.Folds)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
