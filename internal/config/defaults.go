package config

const (
	defaultLogDir        = "~/.local/share/speechscope/logs"
	defaultLockDir       = "~/.local/share/speechscope"
	defaultHistogramBins = 50
	defaultTopWords      = 40
	defaultWaveformPts   = 1024
	defaultWindowSize    = 512
	defaultHopLength     = 160
	defaultWindowFn      = "hann"
	defaultScale         = "log"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:  defaultLogDir,
			LockDir: defaultLockDir,
		},
		Stats: Stats{
			HistogramBins: defaultHistogramBins,
			TopWords:      defaultTopWords,
		},
		Waveform: Waveform{
			Points: defaultWaveformPts,
		},
		Spectrogram: Spectrogram{
			WindowSize: defaultWindowSize,
			HopLength:  defaultHopLength,
			WindowFn:   defaultWindowFn,
			Scale:      defaultScale,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
