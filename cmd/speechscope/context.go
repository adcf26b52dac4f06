package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"speechscope/internal/audio"
	"speechscope/internal/config"
	"speechscope/internal/dataset"
	"speechscope/internal/logging"
	"speechscope/internal/manifest"
)

type commandContext struct {
	configFlag   *string
	manifestFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, manifestFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		manifestFlag: manifestFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// manifestPath resolves the manifest to load: the --manifest flag wins over
// the configured default.
func (c *commandContext) manifestPath() (string, error) {
	if c.manifestFlag != nil {
		if path := strings.TrimSpace(*c.manifestFlag); path != "" {
			return path, nil
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	if cfg.Paths.Manifest != "" {
		return cfg.Paths.Manifest, nil
	}
	return "", errors.New("no manifest given: pass --manifest or set paths.manifest in the config")
}

// loadDataset loads the manifest and builds the index with lazy WAV duration
// probing. Skipped lines surface as a warning, not a failure.
func (c *commandContext) loadDataset() (*dataset.Index, *manifest.Result, error) {
	path, err := c.manifestPath()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	result, err := manifest.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger = logger.With(logging.String(logging.FieldComponent, "manifest"))
	if result.Skipped > 0 {
		logger.Warn("skipped invalid manifest lines",
			logging.String(logging.FieldManifest, path),
			logging.Int("skipped", result.Skipped),
			logging.Int("records", len(result.Records)))
	} else {
		logger.Debug("manifest loaded",
			logging.String(logging.FieldManifest, path),
			logging.Int("records", len(result.Records)))
	}

	index := dataset.New(result.Records, audio.WAVDecoder{})
	return index, result, nil
}

func (c *commandContext) spectrogramParams() (audio.SpectrogramParams, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return audio.SpectrogramParams{}, err
	}
	return audio.SpectrogramParams{
		WindowSize: cfg.Spectrogram.WindowSize,
		HopLength:  cfg.Spectrogram.HopLength,
		WindowFn:   audio.WindowFn(cfg.Spectrogram.WindowFn),
		Scale:      audio.MagnitudeScale(cfg.Spectrogram.Scale),
	}, nil
}

func (c *commandContext) describeLoad(result *manifest.Result) string {
	return fmt.Sprintf("%d records (%d skipped)", len(result.Records), result.Skipped)
}
