package audio

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Log-scale magnitudes are clipped to this many dB below the frame peak
// before normalization so renderings stay visually comparable.
const logDynamicRangeDB = 80.0

// magFloor keeps log10 away from zero magnitudes.
const magFloor = 1e-12

// MagnitudeScale selects linear or logarithmic spectrogram magnitudes.
type MagnitudeScale string

const (
	ScaleLinear MagnitudeScale = "linear"
	ScaleLog    MagnitudeScale = "log"
)

// SpectrogramParams fixes the STFT configuration. The same parameters always
// produce the same matrix for the same audio.
type SpectrogramParams struct {
	// WindowSize is the frame length in samples.
	WindowSize int
	// HopLength is the step between frame starts in samples.
	HopLength int
	// WindowFn is the tapering function.
	WindowFn WindowFn
	// Scale selects linear or log magnitude.
	Scale MagnitudeScale
}

func (p SpectrogramParams) validate() error {
	if p.WindowSize <= 0 {
		return fmt.Errorf("window size %d must be positive", p.WindowSize)
	}
	if p.HopLength <= 0 {
		return fmt.Errorf("hop length %d must be positive", p.HopLength)
	}
	switch p.WindowFn {
	case WindowHann, WindowHamming, WindowRect, "":
	default:
		return fmt.Errorf("unknown window function %q", p.WindowFn)
	}
	switch p.Scale {
	case ScaleLinear, ScaleLog, "":
	default:
		return fmt.Errorf("unknown magnitude scale %q", p.Scale)
	}
	return nil
}

// WaveformPoint is one bucket of the decimated waveform: the amplitude
// envelope over the bucket's span.
type WaveformPoint struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Features holds the per-utterance signal artifacts. They are computed on
// demand for one inspection and discarded; nothing here is shared state.
type Features struct {
	// Waveform is the decimated amplitude envelope.
	Waveform []WaveformPoint `json:"waveform"`
	// Spectrogram is the time-frequency magnitude matrix, frames along the
	// first axis and frequency bins (0..WindowSize/2) along the second,
	// values normalized into [0, 1].
	Spectrogram [][]float64 `json:"spectrogram"`
	// SampleRate is the decoded sample rate in Hz.
	SampleRate int `json:"sample_rate"`
	// NumSamples is the decoded mono sample count.
	NumSamples int `json:"num_samples"`
	// DurationSeconds is the decoded audio length.
	DurationSeconds float64 `json:"duration_seconds"`
}

// Extractor computes Features through a Decoder capability. Extractions are
// independent and stateless; any number may run in parallel.
type Extractor struct {
	decoder Decoder
}

// NewExtractor wraps a decoder. A nil decoder defaults to WAV decoding.
func NewExtractor(decoder Decoder) *Extractor {
	if decoder == nil {
		decoder = WAVDecoder{}
	}
	return &Extractor{decoder: decoder}
}

// Extract decodes the referenced audio and computes waveform and spectrogram
// artifacts. Decode failures surface as *DecodeError; zero-length audio
// yields empty-but-valid features.
func (e *Extractor) Extract(path string, waveformPoints int, params SpectrogramParams) (Features, error) {
	if err := params.validate(); err != nil {
		return Features{}, fmt.Errorf("spectrogram params: %w", err)
	}
	clip, err := e.decoder.Decode(path)
	if err != nil {
		return Features{}, err
	}
	features := Features{
		SampleRate:      clip.SampleRate,
		NumSamples:      len(clip.Samples),
		DurationSeconds: clip.Duration(),
	}
	if len(clip.Samples) == 0 {
		return features, nil
	}
	features.Waveform = downsampleWaveform(clip.Samples, waveformPoints)
	features.Spectrogram = spectrogram(clip.Samples, params)
	return features, nil
}

// downsampleWaveform reduces samples to at most points min/max buckets.
// Bucket boundaries depend only on the sample count and the target, so the
// rendered shape is reproducible.
func downsampleWaveform(samples []float64, points int) []WaveformPoint {
	if points <= 0 || points > len(samples) {
		points = len(samples)
	}
	out := make([]WaveformPoint, points)
	for i := 0; i < points; i++ {
		start := i * len(samples) / points
		end := (i + 1) * len(samples) / points
		if end <= start {
			end = start + 1
		}
		lo, hi := samples[start], samples[start]
		for _, v := range samples[start+1 : end] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		out[i] = WaveformPoint{Min: lo, Max: hi}
	}
	return out
}

// spectrogram computes the STFT magnitude matrix. Audio shorter than one
// window yields zero frames.
func spectrogram(samples []float64, params SpectrogramParams) [][]float64 {
	n := params.WindowSize
	hop := params.HopLength
	if len(samples) < n {
		return nil
	}

	win := params.WindowFn.window(n)
	fft := fourier.NewFFT(n)
	frames := 1 + (len(samples)-n)/hop
	bins := n/2 + 1

	matrix := make([][]float64, frames)
	buf := make([]float64, n)
	peak := 0.0
	for f := 0; f < frames; f++ {
		start := f * hop
		for k := 0; k < n; k++ {
			buf[k] = samples[start+k] * win[k]
		}
		coeffs := fft.Coefficients(nil, buf)
		row := make([]float64, bins)
		for b := 0; b < bins; b++ {
			mag := math.Hypot(real(coeffs[b]), imag(coeffs[b]))
			row[b] = mag
			if mag > peak {
				peak = mag
			}
		}
		matrix[f] = row
	}

	// Silent audio: leave the all-zero matrix instead of dividing by zero.
	if peak == 0 {
		return matrix
	}

	if params.Scale == ScaleLog {
		// Clip to the top logDynamicRangeDB below the peak, then map onto
		// [0, 1].
		peakDB := 20 * math.Log10(peak+magFloor)
		floorDB := peakDB - logDynamicRangeDB
		for _, row := range matrix {
			for b, mag := range row {
				db := 20 * math.Log10(mag+magFloor)
				if db < floorDB {
					db = floorDB
				}
				row[b] = (db - floorDB) / logDynamicRangeDB
			}
		}
		return matrix
	}

	for _, row := range matrix {
		for b := range row {
			row[b] /= peak
		}
	}
	return matrix
}
