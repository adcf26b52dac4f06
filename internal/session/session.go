package session

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"speechscope/internal/audio"
	"speechscope/internal/config"
	"speechscope/internal/dataset"
	"speechscope/internal/logging"
	"speechscope/internal/manifest"
	"speechscope/internal/stats"
)

// ErrSessionActive indicates another process already holds the session lock.
var ErrSessionActive = errors.New("another speechscope session is active")

// Session drives one interactive analysis run over a loaded dataset.
type Session struct {
	id        string
	logger    *slog.Logger
	index     *dataset.Index
	extractor *audio.Extractor

	statsOpts      stats.Options
	waveformPoints int
	specParams     audio.SpectrogramParams

	lock *flock.Flock

	mu    sync.Mutex
	view  dataset.View
	stats *stats.CorpusStatistics // nil after a view change
}

// New builds a session over the index using the supplied config. The logger
// is tagged with a fresh session id.
func New(cfg *config.Config, logger *slog.Logger, index *dataset.Index, extractor *audio.Extractor) *Session {
	if logger == nil {
		logger = logging.NewNop()
	}
	id := uuid.NewString()
	s := &Session{
		id:     id,
		logger: logger.With(logging.String(logging.FieldSessionID, id)),
		index:  index,
		statsOpts: stats.Options{
			HistogramBins:    cfg.Stats.HistogramBins,
			CaseFold:         cfg.Stats.CaseFold,
			StripPunctuation: cfg.Stats.StripPunctuation,
		},
		waveformPoints: cfg.Waveform.Points,
		specParams: audio.SpectrogramParams{
			WindowSize: cfg.Spectrogram.WindowSize,
			HopLength:  cfg.Spectrogram.HopLength,
			WindowFn:   audio.WindowFn(cfg.Spectrogram.WindowFn),
			Scale:      audio.MagnitudeScale(cfg.Spectrogram.Scale),
		},
		lock: flock.New(filepath.Join(cfg.Paths.LockDir, "session.lock")),
		view: index.All(),
	}
	if extractor == nil {
		extractor = audio.NewExtractor(nil)
	}
	s.extractor = extractor
	return s
}

// ID returns the session's correlation identifier.
func (s *Session) ID() string { return s.id }

// Acquire takes the session lock. It fails with ErrSessionActive when some
// other process holds it.
func (s *Session) Acquire() error {
	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire session lock: %w", err)
	}
	if !locked {
		return ErrSessionActive
	}
	s.logger.Debug("session lock acquired", logging.String("path", s.lock.Path()))
	return nil
}

// Release drops the session lock.
func (s *Session) Release() error {
	return s.lock.Unlock()
}

// View returns the session's current view.
func (s *Session) View() dataset.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Index returns the immutable dataset index backing the session.
func (s *Session) Index() *dataset.Index { return s.index }

// Sort reorders the current view.
func (s *Session) Sort(key dataset.SortKey, order dataset.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.index.Sort(s.view, key, order)
	s.stats = nil
	s.logger.Debug("view sorted", logging.String("key", string(key)), logging.Int("len", s.view.Len()))
}

// Filter narrows the current view.
func (s *Session) Filter(p dataset.Predicate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.index.Filter(s.view, p)
	s.stats = nil
	s.logger.Debug("view filtered", logging.Int("len", s.view.Len()))
}

// Reset restores the unfiltered manifest-order view.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.index.All()
	s.stats = nil
}

// Statistics returns corpus statistics for the current view, recomputing
// after any view change.
func (s *Session) Statistics() stats.CorpusStatistics {
	s.mu.Lock()
	view := s.view
	cached := s.stats
	s.mu.Unlock()
	if cached != nil {
		return *cached
	}

	computed := stats.Compute(s.index.Source(view), s.statsOpts)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Only cache when the view is still the one we computed over.
	if sameView(s.view, view) {
		s.stats = &computed
	}
	return computed
}

// Get returns the record at offset within the current view.
func (s *Session) Get(offset int) (manifest.Record, error) {
	return s.index.Get(s.View(), offset)
}

// Inspect returns the record at offset plus its signal features. Decode
// failures are scoped to the inspected utterance.
func (s *Session) Inspect(offset int) (manifest.Record, audio.Features, error) {
	record, err := s.Get(offset)
	if err != nil {
		return manifest.Record{}, audio.Features{}, err
	}
	logger := s.logger.With(logging.Int(logging.FieldUtteranceID, record.ID))
	features, err := s.extractor.Extract(record.AudioPath, s.waveformPoints, s.specParams)
	if err != nil {
		logger.Warn("feature extraction failed", logging.Error(err))
		return record, audio.Features{}, err
	}
	logger.Debug("features extracted",
		logging.Int("waveform_points", len(features.Waveform)),
		logging.Int("frames", len(features.Spectrogram)))
	return record, features, nil
}

func sameView(a, b dataset.View) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if a.Position(i) != b.Position(i) {
			return false
		}
	}
	return true
}
