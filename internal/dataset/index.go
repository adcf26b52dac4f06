package dataset

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"speechscope/internal/manifest"
)

// ErrOutOfRange signals a view offset past the end of the view. It is a
// "no such item" condition, not a fatal failure.
var ErrOutOfRange = errors.New("offset out of range")

// DurationProber resolves the duration of an audio resource without a full
// decode.
type DurationProber interface {
	Probe(path string) (seconds float64, err error)
}

// Index owns the loaded utterance collection plus derived per-record columns.
type Index struct {
	records []manifest.Record
	chars   []int // transcript length in runes
	words   []int // whitespace-delimited token count

	prober    DurationProber
	durations []durationCell
}

// Memoized lazy duration resolution. The once guards the probe so concurrent
// readers trigger it at most one time per record.
type durationCell struct {
	once    sync.Once
	seconds float64
	ok      bool
}

// New builds an Index over records. The prober resolves durations for records
// whose manifest entry omitted one; it may be nil, in which case those
// durations stay unresolved.
func New(records []manifest.Record, prober DurationProber) *Index {
	idx := &Index{
		records:   append([]manifest.Record(nil), records...),
		chars:     make([]int, len(records)),
		words:     make([]int, len(records)),
		prober:    prober,
		durations: make([]durationCell, len(records)),
	}
	for i, rec := range idx.records {
		idx.chars[i] = utf8.RuneCountInString(rec.Text)
		idx.words[i] = len(strings.Fields(rec.Text))
	}
	return idx
}

// Len returns the number of records in the backing collection.
func (x *Index) Len() int { return len(x.records) }

// Record returns the record at backing position i.
func (x *Index) Record(i int) manifest.Record { return x.records[i] }

// Chars returns the transcript rune count at backing position i.
func (x *Index) Chars(i int) int { return x.chars[i] }

// Words returns the transcript token count at backing position i.
func (x *Index) Words(i int) int { return x.words[i] }

// Duration returns the resolved duration at backing position i. Manifest
// durations are authoritative; otherwise the prober runs once and the result
// is memoized. The second return value is false when no duration could be
// resolved.
func (x *Index) Duration(i int) (float64, bool) {
	rec := &x.records[i]
	if rec.Duration.Known() {
		return rec.Duration.Value(), true
	}
	cell := &x.durations[i]
	cell.once.Do(func() {
		if x.prober == nil {
			return
		}
		seconds, err := x.prober.Probe(rec.AudioPath)
		if err != nil || seconds < 0 {
			return
		}
		cell.seconds = seconds
		cell.ok = true
	})
	return cell.seconds, cell.ok
}

// All returns a view covering every record in manifest order.
func (x *Index) All() View {
	positions := make([]int, len(x.records))
	for i := range positions {
		positions[i] = i
	}
	return View{positions: positions}
}

// Get returns the record at offset within the view. Offsets past the view
// length fail with ErrOutOfRange.
func (x *Index) Get(v View, offset int) (manifest.Record, error) {
	if offset < 0 || offset >= v.Len() {
		return manifest.Record{}, fmt.Errorf("get %d of %d: %w", offset, v.Len(), ErrOutOfRange)
	}
	return x.records[v.positions[offset]], nil
}

// View is an ordered subsequence of backing positions. Views are immutable;
// Sort and Filter return new views.
type View struct {
	positions []int
}

// Len returns the number of records the view selects.
func (v View) Len() int { return len(v.positions) }

// Position returns the backing position of the view entry at offset.
func (v View) Position(offset int) int { return v.positions[offset] }

// Positions returns a copy of the selected backing positions in view order.
func (v View) Positions() []int {
	return append([]int(nil), v.positions...)
}

// ViewSource adapts an Index/View pair to the read-only shape statistics
// aggregation consumes.
type ViewSource struct {
	idx  *Index
	view View
}

// Source returns a statistics source over the view.
func (x *Index) Source(v View) *ViewSource {
	return &ViewSource{idx: x, view: v}
}

// Len returns the number of utterances in the view.
func (s *ViewSource) Len() int { return s.view.Len() }

// Transcript returns the transcript of the view entry at offset i.
func (s *ViewSource) Transcript(i int) string {
	return s.idx.records[s.view.positions[i]].Text
}

// Duration returns the resolved duration of the view entry at offset i.
func (s *ViewSource) Duration(i int) (float64, bool) {
	return s.idx.Duration(s.view.positions[i])
}
