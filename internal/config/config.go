// Package config loads the application configuration. Sources are layered:
// built-in defaults, then an optional YAML file, then DQ_* environment
// overrides, then struct validation.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"dataquality/domain/issue"
	"dataquality/domain/profile"
	"dataquality/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Engine  EngineConfig  `yaml:"engine" envconfig:"ENGINE"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
	Store   StoreConfig   `yaml:"store" envconfig:"STORE"`
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// EngineConfig holds the analysis thresholds consumed by the profiler and
// the issue detector.
type EngineConfig struct {
	CardinalityThreshold float64 `yaml:"cardinality_threshold" envconfig:"CARDINALITY_THRESHOLD" validate:"gt=0,lt=1"`
	MaxCategories        int     `yaml:"max_categories" envconfig:"MAX_CATEGORIES" validate:"gt=0"`
	TopValues            int     `yaml:"top_values" envconfig:"TOP_VALUES" validate:"gt=0"`
	MixedTypeDominance   float64 `yaml:"mixed_type_dominance" envconfig:"MIXED_TYPE_DOMINANCE" validate:"gt=0,lte=1"`
	OutlierIQRMultiplier float64 `yaml:"outlier_iqr_multiplier" envconfig:"OUTLIER_IQR_MULTIPLIER" validate:"gt=0"`
	MissingWarning       float64 `yaml:"missing_warning_threshold" envconfig:"MISSING_WARNING_THRESHOLD" validate:"gte=0,lte=100"`
	MissingCritical      float64 `yaml:"missing_critical_threshold" envconfig:"MISSING_CRITICAL_THRESHOLD" validate:"gte=0,lte=100,gtefield=MissingWarning"`
	HighCardinality      float64 `yaml:"high_cardinality_threshold" envconfig:"HIGH_CARDINALITY_THRESHOLD" validate:"gt=0,lte=1"`
	SampleSeed           int64   `yaml:"sample_seed" envconfig:"SAMPLE_SEED"`
	Workers              int     `yaml:"workers" envconfig:"WORKERS" validate:"gt=0"`

	// Severities overrides the default kind -> severity table per entry.
	Severities map[string]string `yaml:"severities" envconfig:"SEVERITIES"`
}

// ReportConfig holds report rendering defaults for the CLI
type ReportConfig struct {
	Format    string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json html none"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
}

// StoreConfig holds the history store settings
type StoreConfig struct {
	Driver string `yaml:"driver" envconfig:"DRIVER" validate:"oneof=sqlite postgres"`
	DSN    string `yaml:"dsn" envconfig:"DSN" validate:"required"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string        `yaml:"addr" envconfig:"ADDR" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			CardinalityThreshold: 0.05,
			MaxCategories:        50,
			TopValues:            10,
			MixedTypeDominance:   0.80,
			OutlierIQRMultiplier: 1.5,
			MissingWarning:       5.0,
			MissingCritical:      50.0,
			HighCardinality:      0.50,
			SampleSeed:           42,
			Workers:              4,
		},
		Report: ReportConfig{
			Format:    "text",
			OutputDir: ".",
		},
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    "dataquality.db",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration: defaults, overlaid by the YAML file at
// path (skipped when path is empty), overlaid by DQ_* environment
// variables, then validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(errors.WithCode(errors.CodeConfigInvalid, err), "failed to read config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(errors.WithCode(errors.CodeConfigInvalid, err), "failed to parse config file %s", path)
		}
	}

	if err := envconfig.Process("DQ", cfg); err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "failed to apply environment overrides")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "invalid configuration")
	}
	for kind, severity := range c.Engine.Severities {
		switch issue.Severity(severity) {
		case issue.SeverityCritical, issue.SeverityWarning, issue.SeverityInfo:
		default:
			return errors.ConfigInvalid(fmt.Sprintf("invalid severity override %q for issue kind %q", severity, kind))
		}
	}
	return nil
}

// WriteDefault writes the default configuration as YAML to path, used by
// the init-config command.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return errors.Wrap(err, "failed to marshal default configuration")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}
	return nil
}

// ProfileConfig maps the engine section onto the profiler's configuration.
func (e EngineConfig) ProfileConfig() profile.Config {
	return profile.Config{
		CardinalityThreshold: e.CardinalityThreshold,
		MaxCategories:        e.MaxCategories,
		TopValues:            e.TopValues,
		MixedTypeDominance:   e.MixedTypeDominance,
		OutlierIQRMultiplier: e.OutlierIQRMultiplier,
	}
}

// Thresholds maps the engine section onto the detector's thresholds.
func (e EngineConfig) Thresholds() issue.Thresholds {
	t := issue.Thresholds{
		MissingWarning:  e.MissingWarning,
		MissingCritical: e.MissingCritical,
		HighCardinality: e.HighCardinality,
	}
	if len(e.Severities) > 0 {
		t.Severities = make(map[issue.Kind]issue.Severity, len(e.Severities))
		for kind, severity := range e.Severities {
			t.Severities[issue.Kind(kind)] = issue.Severity(severity)
		}
	}
	return t
}
