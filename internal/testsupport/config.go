// Package testsupport provides builders for test configs and synthesized
// dataset fixtures (manifests and WAV files).
package testsupport

import (
	"path/filepath"
	"testing"

	"speechscope/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LockDir = filepath.Join(base, "lock")
	cfg.Spectrogram.WindowSize = 64
	cfg.Spectrogram.HopLength = 16
	cfg.Waveform.Points = 32

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithManifest sets the default manifest path on the test config.
func WithManifest(path string) ConfigOption {
	return func(c *config.Config) {
		c.Paths.Manifest = path
	}
}

// WithHistogramBins overrides the histogram bin count on the test config.
func WithHistogramBins(bins int) ConfigOption {
	return func(c *config.Config) {
		c.Stats.HistogramBins = bins
	}
}
