package audio_test

import (
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"speechscope/internal/audio"
	"speechscope/internal/testsupport"
)

const testRate = 8000

func extractor() *audio.Extractor {
	return audio.NewExtractor(nil)
}

func defaultParams() audio.SpectrogramParams {
	return audio.SpectrogramParams{
		WindowSize: 64,
		HopLength:  16,
		WindowFn:   audio.WindowHann,
		Scale:      audio.ScaleLog,
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	testsupport.WriteWAV(t, path, testRate, 0.25, 440)

	clip, err := audio.WAVDecoder{}.Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if clip.SampleRate != testRate {
		t.Errorf("sample rate = %d, want %d", clip.SampleRate, testRate)
	}
	if want := testRate / 4; len(clip.Samples) != want {
		t.Errorf("samples = %d, want %d", len(clip.Samples), want)
	}
	for i, v := range clip.Samples {
		if v < -1 || v > 1 {
			t.Fatalf("sample %d = %v outside [-1, 1]", i, v)
		}
	}
	if math.Abs(clip.Duration()-0.25) > 1e-9 {
		t.Errorf("duration = %v, want 0.25", clip.Duration())
	}
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := audio.WAVDecoder{}.Decode(filepath.Join(t.TempDir(), "absent.wav"))
	var decodeErr *audio.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("want *DecodeError, got %v", err)
	}
}

func TestProbeMatchesDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	testsupport.WriteWAV(t, path, testRate, 1.5, 200)

	seconds, err := audio.WAVDecoder{}.Probe(path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if math.Abs(seconds-1.5) > 1e-6 {
		t.Errorf("probed duration = %v, want 1.5", seconds)
	}
}

func TestExtractShapes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	testsupport.WriteWAV(t, path, testRate, 0.5, 440)

	features, err := extractor().Extract(path, 100, defaultParams())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(features.Waveform) != 100 {
		t.Errorf("waveform points = %d, want 100", len(features.Waveform))
	}
	numSamples := testRate / 2
	wantFrames := 1 + (numSamples-64)/16
	if len(features.Spectrogram) != wantFrames {
		t.Errorf("frames = %d, want %d", len(features.Spectrogram), wantFrames)
	}
	if bins := len(features.Spectrogram[0]); bins != 33 {
		t.Errorf("bins = %d, want 33", bins)
	}
	for f, row := range features.Spectrogram {
		for b, v := range row {
			if math.IsNaN(v) || v < 0 || v > 1 {
				t.Fatalf("spectrogram[%d][%d] = %v outside [0, 1]", f, b, v)
			}
		}
	}
	for i, p := range features.Waveform {
		if p.Min > p.Max {
			t.Fatalf("waveform point %d has min %v > max %v", i, p.Min, p.Max)
		}
	}
}

func TestExtractDeterministic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	testsupport.WriteWAV(t, path, testRate, 0.3, 330)

	first, err := extractor().Extract(path, 64, defaultParams())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	second, err := extractor().Extract(path, 64, defaultParams())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated extraction differs")
	}
}

func TestExtractTonePeaksAtExpectedBin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	// 1000 Hz at 8 kHz with a 64-sample window: bin = 1000/(8000/64) = 8.
	testsupport.WriteWAV(t, path, testRate, 0.5, 1000)

	params := defaultParams()
	params.Scale = audio.ScaleLinear
	features, err := extractor().Extract(path, 64, params)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	mid := features.Spectrogram[len(features.Spectrogram)/2]
	peakBin := 0
	for b, v := range mid {
		if v > mid[peakBin] {
			peakBin = b
		}
	}
	if peakBin != 8 {
		t.Errorf("peak bin = %d, want 8", peakBin)
	}
}

func TestExtractZeroLengthAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	testsupport.WriteSilentWAV(t, path, testRate, 0)

	features, err := extractor().Extract(path, 100, defaultParams())
	if err != nil {
		t.Fatalf("Extract on zero-length audio: %v", err)
	}
	if len(features.Waveform) != 0 {
		t.Errorf("waveform = %d points, want 0", len(features.Waveform))
	}
	if len(features.Spectrogram) != 0 {
		t.Errorf("spectrogram = %d frames, want 0", len(features.Spectrogram))
	}
	if features.NumSamples != 0 || features.DurationSeconds != 0 {
		t.Errorf("features = %+v, want zero counts", features)
	}
}

func TestExtractSilentAudioHasNoNaNs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silence.wav")
	testsupport.WriteSilentWAV(t, path, testRate, 400)

	features, err := extractor().Extract(path, 50, defaultParams())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for _, row := range features.Spectrogram {
		for _, v := range row {
			if math.IsNaN(v) || v != 0 {
				t.Fatalf("silent spectrogram value = %v, want 0", v)
			}
		}
	}
}

func TestExtractShortAudioFewerPointsThanRequested(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.wav")
	testsupport.WriteSilentWAV(t, path, testRate, 10)

	features, err := extractor().Extract(path, 100, defaultParams())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	// Fewer samples than requested points: one point per sample.
	if len(features.Waveform) != 10 {
		t.Errorf("waveform points = %d, want 10", len(features.Waveform))
	}
	// Shorter than one window: zero spectrogram frames.
	if len(features.Spectrogram) != 0 {
		t.Errorf("spectrogram frames = %d, want 0", len(features.Spectrogram))
	}
}

func TestExtractRejectsBadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	testsupport.WriteWAV(t, path, testRate, 0.1, 440)

	params := defaultParams()
	params.HopLength = 0
	if _, err := extractor().Extract(path, 10, params); err == nil {
		t.Fatal("Extract with zero hop should fail")
	}
}
