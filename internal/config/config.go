package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and default input configuration.
type Paths struct {
	LogDir   string `toml:"log_dir"`
	LockDir  string `toml:"lock_dir"`
	Manifest string `toml:"manifest"`
}

// Stats contains configuration for corpus statistics aggregation.
type Stats struct {
	// HistogramBins is the number of equal-width duration buckets.
	HistogramBins int `toml:"histogram_bins"`
	// TopWords limits how many vocabulary entries listings display.
	TopWords int `toml:"top_words"`
	// CaseFold applies Unicode case folding to vocabulary tokens.
	CaseFold bool `toml:"case_fold"`
	// StripPunctuation trims punctuation from token edges before counting.
	StripPunctuation bool `toml:"strip_punctuation"`
}

// Waveform contains configuration for waveform downsampling.
type Waveform struct {
	// Points is the number of min/max buckets a rendered waveform carries.
	Points int `toml:"points"`
}

// Spectrogram contains configuration for spectrogram computation.
type Spectrogram struct {
	WindowSize int    `toml:"window_size"` // frame length in samples
	HopLength  int    `toml:"hop_length"`  // step between frames in samples
	WindowFn   string `toml:"window_fn"`   // hann, hamming, or rect
	Scale      string `toml:"scale"`       // linear or log magnitude
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for speechscope.
//
// Configuration sections by subsystem:
//   - Paths: log/lock directories and the default manifest location
//   - Stats: histogram binning and vocabulary tokenization options
//   - Waveform: waveform downsampling resolution
//   - Spectrogram: STFT window, hop, taper, and magnitude scale
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Stats       Stats       `toml:"stats"`
	Waveform    Waveform    `toml:"waveform"`
	Spectrogram Spectrogram `toml:"spectrogram"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/speechscope/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second and third
// return values report the resolved path and whether a file existed there; a
// missing file at the default location is not an error and yields defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, resolvedPath, true, fmt.Errorf("read config %s: %w", resolvedPath, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, resolvedPath, true, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, resolvedPath, exists, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolvedPath, exists, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed != "" {
		expanded, err := expandPath(trimmed)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config %s: %w", expanded, err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(defaultPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultPath, false, nil
		}
		return "", false, fmt.Errorf("stat config %s: %w", defaultPath, err)
	}
	return defaultPath, true, nil
}

// EnsureDirectories creates the log and lock directories if they are missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.LockDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the embedded sample configuration to path. It refuses to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file %s already exists", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config %s: %w", expanded, err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", trimmed, err)
	}
	return abs, nil
}
