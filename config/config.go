// Package config loads experiment settings from YAML and the environment.
//
// Values are layered: built-in defaults, then the YAML file (if any), then
// environment variables prefixed PUREPREMIUM__ where "__" separates nested
// keys, for example PUREPREMIUM__SPLIT__TRAINING_FRACTION=0.7.
package config

import (
	"io"
	"io/fs"
	"math"
	"strings"

	"github.com/YuminosukeSato/purepremium/pkg/errors"
	"github.com/YuminosukeSato/purepremium/pkg/log"
	"github.com/YuminosukeSato/purepremium/preprocessing"
	"github.com/YuminosukeSato/purepremium/split"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "PUREPREMIUM__"

// SchemaVersion is the only accepted value of schema_version.
const SchemaVersion = "v1"

// Config is the full experiment configuration.
type Config struct {
	SchemaVersion string           `koanf:"schema_version"`
	Split         SplitConfig      `koanf:"split"`
	Winsorizer    WinsorizerConfig `koanf:"winsorizer"`
	Log           LogConfig        `koanf:"log"`
}

// SplitConfig configures the deterministic train/test split.
type SplitConfig struct {
	IDColumns        []string `koanf:"id_columns"`
	TrainingFraction float64  `koanf:"training_fraction"`
	Column           string   `koanf:"column"`
	Algorithm        string   `koanf:"algorithm"` // sha256|blake3
	ModuloBucketing  bool     `koanf:"modulo_bucketing"`
}

// WinsorizerConfig configures quantile clipping.
type WinsorizerConfig struct {
	LowerQuantile float64  `koanf:"lower_quantile"`
	UpperQuantile float64  `koanf:"upper_quantile"`
	Columns       []string `koanf:"columns"` // empty means every numeric column
}

// LogConfig selects the logging backend.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json|zerolog
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SchemaVersion: SchemaVersion,
		Split: SplitConfig{
			IDColumns:        []string{"IDpol"},
			TrainingFraction: split.DefaultTrainingFraction,
			Column:           split.DefaultColumn,
			Algorithm:        split.SHA256.String(),
		},
		Winsorizer: WinsorizerConfig{
			LowerQuantile: preprocessing.DefaultLowerQuantile,
			UpperQuantile: preprocessing.DefaultUpperQuantile,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load merges the YAML file at path (skipped when empty or missing) and
// the environment over Default, then validates the result.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrapf(err, "config: load %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, "__", envKey), nil); err != nil {
		return Config{}, errors.Wrap(err, "config: load environment")
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "config: decode")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps PUREPREMIUM__SPLIT__TRAINING_FRACTION to split__training_fraction.
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.SchemaVersion != SchemaVersion {
		return errors.NewInvalidConfigError("config", "schema_version", "unsupported version (want v1)", c.SchemaVersion)
	}
	if len(c.Split.IDColumns) == 0 {
		return errors.NewInvalidConfigError("config", "split.id_columns", "at least one identifier column is required", c.Split.IDColumns)
	}
	f := c.Split.TrainingFraction
	if math.IsNaN(f) || f < 0 || f > 1 {
		return errors.NewInvalidConfigError("config", "split.training_fraction", "must be in [0, 1]", f)
	}
	if c.Split.Column == "" {
		return errors.NewInvalidConfigError("config", "split.column", "must not be empty", c.Split.Column)
	}
	if _, err := split.ParseAlgorithm(c.Split.Algorithm); err != nil {
		return err
	}
	if err := preprocessing.NewWinsorizer(c.Winsorizer.LowerQuantile, c.Winsorizer.UpperQuantile).Validate(); err != nil {
		return err
	}
	if _, err := log.ToLogLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "zerolog":
	default:
		return errors.NewInvalidConfigError("config", "log.format", "must be json or zerolog", c.Log.Format)
	}
	return nil
}

// NewSplitter builds a Splitter from the split section.
func (c Config) NewSplitter(opts ...split.Option) (*split.Splitter, error) {
	alg, err := split.ParseAlgorithm(c.Split.Algorithm)
	if err != nil {
		return nil, err
	}
	base := []split.Option{
		split.WithTrainingFraction(c.Split.TrainingFraction),
		split.WithColumn(c.Split.Column),
		split.WithAlgorithm(alg),
	}
	if c.Split.ModuloBucketing {
		base = append(base, split.WithModuloBucketing())
	}
	return split.New(c.Split.IDColumns, append(base, opts...)...), nil
}

// NewWinsorizer builds a Winsorizer from the winsorizer section.
func (c Config) NewWinsorizer(opts ...preprocessing.Option) *preprocessing.Winsorizer {
	return preprocessing.NewWinsorizer(c.Winsorizer.LowerQuantile, c.Winsorizer.UpperQuantile, opts...)
}

// NewLogger builds a logger writing to w. The json format also installs the
// logger as the process default.
func (c Config) NewLogger(w io.Writer) (log.Logger, error) {
	switch c.Log.Format {
	case "zerolog":
		level, err := log.ToLogLevel(c.Log.Level)
		if err != nil {
			return nil, err
		}
		return log.NewZerologLogger(w, log.Level(level)), nil
	default:
		if err := log.SetupLogger(c.Log.Level, w); err != nil {
			return nil, err
		}
		return log.GetLogger(), nil
	}
}
