package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"automoderator/pkg/pipeline"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, []string{"flag_2"}, cfg.Data.Labels)
	require.Equal(t, []string{"Post"}, cfg.Data.ContentTypes)
	require.True(t, cfg.Data.BooleanLabels)
	require.Equal(t, "naive_bayes", cfg.Model.Type)
	require.Equal(t, 3, cfg.CV.Folds)
	require.True(t, cfg.CV.Stratified)
	require.Equal(t, "info", cfg.Log.Level)

	require.Len(t, cfg.Features, 6)
	hour := cfg.Features[2]
	require.Equal(t, "hour", hour.Name)
	require.Equal(t, []string{"datetime"}, hour.Columns)
	require.Equal(t, "datetime_value", hour.Steps[0].Type)
	require.Equal(t, "hours", hour.Steps[0].Unit)
	require.Equal(t, 24.0, hour.Steps[1].Period)
	require.Equal(t, "one_hot", cfg.Features[4].Steps[0].Type)
	require.True(t, cfg.Features[4].Steps[0].IgnoreUnknown)
	require.Empty(t, cfg.Features[5].Steps)

	entries, err := pipeline.BuildEntries(cfg.Features)
	require.NoError(t, err)
	require.Equal(t, pipeline.KindPassthrough, entries[5].Kind)
	require.Len(t, entries[5].Columns, 6)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "automod.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
features:
  - columns: [content_body]
    steps:
      - type: count_vectorizer
        ngram_max: 2
        min_df: 2
model:
  type: logistic
  scaler: standard
cv:
  folds: 5
`), 0o600))

	t.Setenv("AUTOMOD_CV_FOLDS", "4")
	t.Setenv("AUTOMOD_MODEL_LEARNING_RATE", "0.5")
	t.Setenv("AUTOMOD_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Features, 1)
	require.Equal(t, 2, cfg.Features[0].Steps[0].NGramMax)
	require.Equal(t, 2, cfg.Features[0].Steps[0].MinDF)
	require.Equal(t, "logistic", cfg.Model.Type)
	require.Equal(t, 0.5, cfg.Model.LearningRate)
	require.Equal(t, 20, cfg.Model.Epochs)
	require.Equal(t, 4, cfg.CV.Folds)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoadInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"folds":      "cv:\n  folds: 1\n",
		"model":      "model:\n  type: forest\n",
		"scaler":     "model:\n  scaler: robust\n",
		"nb scaling": "model:\n  type: naive_bayes\n  scaler: standard\n",
		"log":        "log:\n  level: loud\n",
		"columns":    "features:\n  - steps: [{type: timestamp}]\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := Load(path)
			require.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
