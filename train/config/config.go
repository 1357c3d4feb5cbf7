// Package config loads training run configuration from YAML and installs it
// into a context for the train packages to pick up.
//
//	batch:
//	  max_size: 64
//	  respect_update_boundary: true
//	log:
//	  level: debug
//	  format: console
//	  every: 10
//	name: linear-regression
package config

import (
	"context"
	"io"
	"os"

	"github.com/lguimbarda/min-train/train/core"
	"github.com/lguimbarda/min-train/train/observe"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

// Log formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config is a training run configuration.
type Config struct {
	Name  string `yaml:"name"`
	Batch Batch  `yaml:"batch"`
	Log   Log    `yaml:"log"`
}

// Batch configures batch sizing.
type Batch struct {
	// MaxSize caps every batch below the learner's stripe capacity. 0 means no cap.
	MaxSize               int  `yaml:"max_size"`
	RespectUpdateBoundary bool `yaml:"respect_update_boundary"`
}

// Log configures progress logging.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// Every logs one batch out of Every. 0 disables per-batch entries.
	Every int `yaml:"every"`
}

// Default returns the configuration used when no document is supplied.
func Default() Config {
	return Config{
		Log: Log{Level: "info", Format: FormatJSON, Every: 1},
	}
}

// Load decodes a YAML document from r on top of Default and validates it.
// Unknown keys are rejected.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	buf, err := io.ReadAll(r)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	if err := yaml.UnmarshalStrict(buf, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile loads the configuration stored at path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "open config")
	}
	defer f.Close()
	cfg, err := Load(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "%s", path)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Batch.MaxSize < 0 {
		return errors.Errorf("batch.max_size must not be negative, got %d", c.Batch.MaxSize)
	}
	if c.Log.Every < 0 {
		return errors.Errorf("log.every must not be negative, got %d", c.Log.Every)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", FormatJSON, FormatConsole:
	default:
		return errors.Errorf("log.format must be %q or %q, got %q", FormatJSON, FormatConsole, c.Log.Format)
	}
	return nil
}

func (c Config) level() (zapcore.Level, error) {
	var lvl zapcore.Level
	if c.Log.Level == "" {
		return zapcore.InfoLevel, nil
	}
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return lvl, errors.Wrapf(err, "log.level")
	}
	return lvl, nil
}

// BatchConfig converts the batch section into a core.BatchConfig.
func (c Config) BatchConfig() *core.BatchConfig {
	return core.NewBatchConfig(
		core.WithMaxBatchSize(c.Batch.MaxSize),
		core.WithRespectUpdateBoundary(c.Batch.RespectUpdateBoundary),
	)
}

// Context returns ctx carrying the batch configuration.
func (c Config) Context(ctx context.Context) context.Context {
	return core.WithConfig(ctx, c.BatchConfig())
}

// Logger builds a zap logger from the log section.
func (c Config) Logger() (*zap.Logger, error) {
	lvl, err := c.level()
	if err != nil {
		return nil, err
	}
	var zc zap.Config
	if c.Log.Format == FormatConsole {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}

// LoggerOptions returns the observe.WithLogger options for the log section.
func (c Config) LoggerOptions() []observe.LoggerOption {
	opts := []observe.LoggerOption{observe.Every(c.Log.Every)}
	if c.Name != "" {
		opts = append(opts, observe.Named(c.Name))
	}
	return opts
}

// Install returns ctx carrying the batch configuration and progress logging
// hooks for runs over examples of type E.
func Install[E any](ctx context.Context, c Config, logger *zap.Logger) context.Context {
	ctx = c.Context(ctx)
	return observe.WithLogger[E](ctx, logger, c.LoggerOptions()...)
}
