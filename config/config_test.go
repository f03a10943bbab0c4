package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/purepremium/core/frame"
	"github.com/YuminosukeSato/purepremium/pkg/errors"
	"github.com/YuminosukeSato/purepremium/split"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, []string{"IDpol"}, cfg.Split.IDColumns)
	assert.Equal(t, 0.8, cfg.Split.TrainingFraction)
	assert.Equal(t, 0.05, cfg.Winsorizer.LowerQuantile)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeYAML(t, `
schema_version: v1
split:
  id_columns: [IDpol, VehBrand]
  training_fraction: 0.75
  algorithm: blake3
winsorizer:
  lower_quantile: 0
  upper_quantile: 0.99
  columns: [ClaimAmount]
log:
  level: debug
  format: zerolog
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"IDpol", "VehBrand"}, cfg.Split.IDColumns)
	assert.Equal(t, 0.75, cfg.Split.TrainingFraction)
	assert.Equal(t, "blake3", cfg.Split.Algorithm)
	assert.Equal(t, split.DefaultColumn, cfg.Split.Column, "unset keys keep defaults")
	assert.Equal(t, 0.0, cfg.Winsorizer.LowerQuantile, "explicit zero is kept")
	assert.Equal(t, 0.99, cfg.Winsorizer.UpperQuantile)
	assert.Equal(t, []string{"ClaimAmount"}, cfg.Winsorizer.Columns)
	assert.Equal(t, "zerolog", cfg.Log.Format)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, `
split:
  training_fraction: 0.75
`)
	t.Setenv("PUREPREMIUM__SPLIT__TRAINING_FRACTION", "0.6")
	t.Setenv("PUREPREMIUM__SPLIT__COLUMN", "partition")
	t.Setenv("PUREPREMIUM__LOG__LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.6, cfg.Split.TrainingFraction)
	assert.Equal(t, "partition", cfg.Split.Column)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		param string
	}{
		{"fraction above one", "split:\n  training_fraction: 1.5\n", "split.training_fraction"},
		{"bad algorithm", "split:\n  algorithm: md5\n", "algorithm"},
		{"inverted quantiles", "winsorizer:\n  lower_quantile: 0.9\n  upper_quantile: 0.1\n", "lower_quantile"},
		{"bad log level", "log:\n  level: loud\n", "level"},
		{"bad log format", "log:\n  format: xml\n", "log.format"},
		{"schema version", "schema_version: v2\n", "schema_version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeYAML(t, tt.body))

			var cfgErr *errors.InvalidConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.param, cfgErr.Param)
		})
	}
}

func TestLoadRejectsSchemaVersionFromEnv(t *testing.T) {
	t.Setenv("PUREPREMIUM__SCHEMA_VERSION", "v9")

	_, err := Load("")
	var cfgErr *errors.InvalidConfigError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "schema_version", cfgErr.Param)
	assert.Equal(t, "v9", cfgErr.Value)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg := Default()
	cfg.Split.IDColumns = nil
	var cfgErr *errors.InvalidConfigError
	require.True(t, errors.As(cfg.Validate(), &cfgErr))
	assert.Equal(t, "split.id_columns", cfgErr.Param)

	cfg = Default()
	cfg.Split.Column = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.SchemaVersion = ""
	require.True(t, errors.As(cfg.Validate(), &cfgErr))
	assert.Equal(t, "schema_version", cfgErr.Param)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeYAML(t, "split: [unclosed"))
	assert.Error(t, err)
}

func TestConfigBuildsComponents(t *testing.T) {
	cfg := Default()
	cfg.Split.Column = "part"
	cfg.Split.TrainingFraction = 1
	cfg.Winsorizer.UpperQuantile = 0.5

	s, err := cfg.NewSplitter()
	require.NoError(t, err)
	assert.Equal(t, "part", s.Column())

	f := frame.New()
	require.NoError(t, f.AddNumeric("IDpol", []float64{1, 2, 3}))
	require.NoError(t, s.Split(f))
	train, _, err := split.Indices(f, "part")
	require.NoError(t, err)
	assert.Len(t, train, 3)

	w := cfg.NewWinsorizer()
	assert.Equal(t, 0.5, w.UpperQuantile)
}

func TestConfigLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Log.Format = "zerolog"
	cfg.Log.Level = "debug"

	l, err := cfg.NewLogger(&buf)
	require.NoError(t, err)
	l.Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), `"message":"hello"`)
}
