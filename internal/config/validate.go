package config

import (
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStats(); err != nil {
		return err
	}
	if err := c.validateWaveform(); err != nil {
		return err
	}
	if err := c.validateSpectrogram(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStats() error {
	if c.Stats.HistogramBins > 10000 {
		return fmt.Errorf("stats.histogram_bins %d exceeds the supported maximum of 10000", c.Stats.HistogramBins)
	}
	return nil
}

func (c *Config) validateWaveform() error {
	if c.Waveform.Points > 1<<20 {
		return fmt.Errorf("waveform.points %d exceeds the supported maximum of %d", c.Waveform.Points, 1<<20)
	}
	return nil
}

func (c *Config) validateSpectrogram() error {
	switch c.Spectrogram.WindowFn {
	case "hann", "hamming", "rect":
	default:
		return fmt.Errorf("spectrogram.window_fn: unsupported value %q (expected hann, hamming, or rect)", c.Spectrogram.WindowFn)
	}
	switch c.Spectrogram.Scale {
	case "linear", "log":
	default:
		return fmt.Errorf("spectrogram.scale: unsupported value %q (expected linear or log)", c.Spectrogram.Scale)
	}
	if c.Spectrogram.HopLength > c.Spectrogram.WindowSize {
		return fmt.Errorf("spectrogram.hop_length %d exceeds window_size %d", c.Spectrogram.HopLength, c.Spectrogram.WindowSize)
	}
	return nil
}
