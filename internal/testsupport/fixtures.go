package testsupport

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/youpy/go-wav"
)

// WriteManifest writes the given JSON lines to a manifest file under dir and
// returns its path.
func WriteManifest(t testing.TB, dir string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, "manifest.json")
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest %s: %v", path, err)
	}
	return path
}

// WriteWAV writes a mono 16-bit PCM file containing a sine tone and returns
// the sample values it carries.
func WriteWAV(t testing.TB, path string, sampleRate int, seconds float64, freqHz float64) []float64 {
	t.Helper()

	numSamples := int(float64(sampleRate) * seconds)
	values := make([]float64, numSamples)
	samples := make([]wav.Sample, numSamples)
	for i := range samples {
		v := 0.5 * math.Sin(2*math.Pi*freqHz*float64(i)/float64(sampleRate))
		values[i] = v
		samples[i].Values[0] = int(v * 32767)
	}
	writeSamples(t, path, sampleRate, samples)
	return values
}

// WriteSilentWAV writes a mono 16-bit PCM file of all-zero samples. A zero
// sample count produces a valid file with an empty data chunk.
func WriteSilentWAV(t testing.TB, path string, sampleRate int, numSamples int) {
	t.Helper()
	writeSamples(t, path, sampleRate, make([]wav.Sample, numSamples))
}

func writeSamples(t testing.TB, path string, sampleRate int, samples []wav.Sample) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer file.Close()

	writer := wav.NewWriter(file, uint32(len(samples)), 1, uint32(sampleRate), 16)
	if len(samples) > 0 {
		if err := writer.WriteSamples(samples); err != nil {
			t.Fatalf("write samples to %s: %v", path, err)
		}
	}
}
