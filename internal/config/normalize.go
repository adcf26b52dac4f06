package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStats()
	c.normalizeWaveform()
	c.normalizeSpectrogram()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockDir) == "" {
		c.Paths.LockDir = defaultLockDir
	}
	if c.Paths.LockDir, err = expandPath(c.Paths.LockDir); err != nil {
		return fmt.Errorf("paths.lock_dir: %w", err)
	}
	c.Paths.Manifest = strings.TrimSpace(c.Paths.Manifest)
	if c.Paths.Manifest == "" {
		if value, ok := os.LookupEnv("SPEECHSCOPE_MANIFEST"); ok {
			c.Paths.Manifest = strings.TrimSpace(value)
		}
	}
	if c.Paths.Manifest != "" {
		if c.Paths.Manifest, err = expandPath(c.Paths.Manifest); err != nil {
			return fmt.Errorf("paths.manifest: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeStats() {
	if c.Stats.HistogramBins <= 0 {
		c.Stats.HistogramBins = defaultHistogramBins
	}
	if c.Stats.TopWords <= 0 {
		c.Stats.TopWords = defaultTopWords
	}
}

func (c *Config) normalizeWaveform() {
	if c.Waveform.Points <= 0 {
		c.Waveform.Points = defaultWaveformPts
	}
}

func (c *Config) normalizeSpectrogram() {
	if c.Spectrogram.WindowSize <= 0 {
		c.Spectrogram.WindowSize = defaultWindowSize
	}
	if c.Spectrogram.HopLength <= 0 {
		c.Spectrogram.HopLength = defaultHopLength
	}
	c.Spectrogram.WindowFn = strings.ToLower(strings.TrimSpace(c.Spectrogram.WindowFn))
	if c.Spectrogram.WindowFn == "" {
		c.Spectrogram.WindowFn = defaultWindowFn
	}
	c.Spectrogram.Scale = strings.ToLower(strings.TrimSpace(c.Spectrogram.Scale))
	if c.Spectrogram.Scale == "" {
		c.Spectrogram.Scale = defaultScale
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
