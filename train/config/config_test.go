package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lguimbarda/min-train/train/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const sample = `
name: demo
batch:
  max_size: 3
  respect_update_boundary: true
log:
  level: debug
  format: console
  every: 5
`

func TestLoad(t *testing.T) {
	cfg, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Name)
	assert.Equal(t, Batch{MaxSize: 3, RespectUpdateBoundary: true}, cfg.Batch)
	assert.Equal(t, Log{Level: "debug", Format: FormatConsole, Every: 5}, cfg.Log)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(strings.NewReader("batch:\n  max_size: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Batch.MaxSize)
	assert.Equal(t, Default().Log, cfg.Log)

	cfg, err = Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "unknown key", doc: "batch:\n  size: 3\n", wantErr: "decode config"},
		{name: "negative max size", doc: "batch:\n  max_size: -1\n", wantErr: "batch.max_size"},
		{name: "negative every", doc: "log:\n  every: -2\n", wantErr: "log.every"},
		{name: "bad level", doc: "log:\n  level: loud\n", wantErr: "log.level"},
		{name: "bad format", doc: "log:\n  format: xml\n", wantErr: "log.format"},
		{name: "not yaml", doc: "batch: [", wantErr: "decode config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestContext(t *testing.T) {
	cfg, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	got, ok := core.GetConfig[*core.BatchConfig](cfg.Context(context.Background()))
	require.True(t, ok)
	assert.Equal(t, 3, got.MaxBatchSize)
	assert.True(t, got.RespectUpdateBoundary)
}

func TestLogger(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatConsole} {
		cfg := Default()
		cfg.Log.Format = format
		cfg.Log.Level = "warn"
		logger, err := cfg.Logger()
		require.NoError(t, err, format)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	}
}

type capacity int

func (c capacity) MaxStripes() int { return int(c) }

func TestInstall(t *testing.T) {
	cfg, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	obs, logs := observer.New(zapcore.DebugLevel)
	ctx := Install[int](context.Background(), cfg, zap.New(obs))

	var sizes []int
	s := core.NewFunctionSampler(func() (int, error) { return 1, nil })
	err = core.MapBatches(ctx, func(b []int) error {
		sizes = append(sizes, len(b))
		if len(sizes) == 6 {
			return context.Canceled
		}
		return nil
	}, s, capacity(10))
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []int{3, 3, 3, 3, 3, 3}, sizes, "max_size caps the learner's capacity")
	assert.Equal(t, 2, logs.FilterMessage("batch").Len(), "every fifth batch is logged")
	assert.Equal(t, "demo", logs.FilterMessage("training failed").All()[0].ContextMap()["run"])
}
