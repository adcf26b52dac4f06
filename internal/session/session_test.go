package session

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"speechscope/internal/audio"
	"speechscope/internal/dataset"
	"speechscope/internal/manifest"
	"speechscope/internal/testsupport"
)

func testIndex(t *testing.T) *dataset.Index {
	t.Helper()
	records := []manifest.Record{
		{ID: 0, AudioPath: "a.wav", Text: "one two", Duration: manifest.Seconds(2.0)},
		{ID: 1, AudioPath: "b.wav", Text: "three", Duration: manifest.Seconds(1.0)},
		{ID: 2, AudioPath: "c.wav", Text: "four five six", Duration: manifest.Seconds(3.0)},
	}
	return dataset.New(records, nil)
}

func TestSessionLockExclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	idx := testIndex(t)

	first := New(cfg, nil, idx, nil)
	if err := first.Acquire(); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	defer first.Release()

	second := New(cfg, nil, idx, nil)
	if err := second.Acquire(); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("second Acquire: want ErrSessionActive, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := second.Acquire(); err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	second.Release()
}

func TestSessionIDsAreUnique(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	idx := testIndex(t)
	a := New(cfg, nil, idx, nil)
	b := New(cfg, nil, idx, nil)
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("session ids not unique: %q vs %q", a.ID(), b.ID())
	}
}

func TestStatisticsRecomputedOnViewChange(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistogramBins(1))
	s := New(cfg, nil, testIndex(t), nil)

	all := s.Statistics()
	if all.Utterances != 3 {
		t.Fatalf("utterances = %d, want 3", all.Utterances)
	}

	s.Filter(dataset.Predicate{TextContains: "three"})
	filtered := s.Statistics()
	if filtered.Utterances != 1 {
		t.Fatalf("filtered utterances = %d, want 1", filtered.Utterances)
	}
	if reflect.DeepEqual(all.Vocabulary, filtered.Vocabulary) {
		t.Error("statistics did not change with the view")
	}

	s.Reset()
	reset := s.Statistics()
	if !reflect.DeepEqual(reset, all) {
		t.Error("reset view statistics differ from the initial computation")
	}
}

func TestStatisticsCachedForStableView(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistogramBins(2))
	s := New(cfg, nil, testIndex(t), nil)

	first := s.Statistics()
	second := s.Statistics()
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated Statistics on unchanged view differ")
	}
}

func TestSortAffectsGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := New(cfg, nil, testIndex(t), nil)

	s.Sort(dataset.SortByDuration, dataset.Ascending)
	rec, err := s.Get(0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.ID != 1 {
		t.Errorf("shortest utterance ID = %d, want 1", rec.ID)
	}

	_, err = s.Get(99)
	if !errors.Is(err, dataset.ErrOutOfRange) {
		t.Errorf("Get(99): want ErrOutOfRange, got %v", err)
	}
}

func TestInspectDecodesAudio(t *testing.T) {
	dir := t.TempDir()
	wavPath := filepath.Join(dir, "tone.wav")
	testsupport.WriteWAV(t, wavPath, 8000, 0.2, 440)

	records := []manifest.Record{
		{ID: 0, AudioPath: wavPath, Text: "tone", Duration: manifest.Seconds(0.2)},
		{ID: 1, AudioPath: filepath.Join(dir, "missing.wav"), Text: "gone"},
	}
	cfg := testsupport.NewConfig(t)
	s := New(cfg, nil, dataset.New(records, nil), nil)

	rec, features, err := s.Inspect(0)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if rec.ID != 0 {
		t.Errorf("record ID = %d, want 0", rec.ID)
	}
	if len(features.Waveform) == 0 || len(features.Spectrogram) == 0 {
		t.Errorf("features empty: %d waveform points, %d frames",
			len(features.Waveform), len(features.Spectrogram))
	}

	// A missing audio file fails that inspection only; the session and its
	// other records stay usable.
	_, _, err = s.Inspect(1)
	var decodeErr *audio.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Inspect(1): want *DecodeError, got %v", err)
	}
	if _, _, err := s.Inspect(0); err != nil {
		t.Errorf("Inspect(0) after failure: %v", err)
	}
}
