package dataset

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sync"
	"testing"

	"speechscope/internal/manifest"
)

type fakeProber struct {
	mu        sync.Mutex
	calls     map[string]int
	durations map[string]float64
}

func newFakeProber(durations map[string]float64) *fakeProber {
	return &fakeProber{calls: make(map[string]int), durations: durations}
}

func (p *fakeProber) Probe(path string) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[path]++
	if d, ok := p.durations[path]; ok {
		return d, nil
	}
	return 0, errors.New("unreadable audio")
}

func testRecords() []manifest.Record {
	recs := make([]manifest.Record, 0, 4)
	for i, r := range []struct {
		text     string
		duration float64
		known    bool
	}{
		{"the quick brown fox", 2.0, true},
		{"hello", 1.0, true},
		{"hello again", 2.0, true},
		{"", 0, false},
	} {
		rec := manifest.Record{ID: i, AudioPath: fmt.Sprintf("clip%d.wav", i), Text: r.text}
		if r.known {
			rec.Duration = manifest.Seconds(r.duration)
		}
		recs = append(recs, rec)
	}
	return recs
}

func TestDerivedColumns(t *testing.T) {
	idx := New(testRecords(), nil)
	if got := idx.Chars(0); got != 19 {
		t.Errorf("Chars(0) = %d, want 19", got)
	}
	if got := idx.Words(0); got != 4 {
		t.Errorf("Words(0) = %d, want 4", got)
	}
	if got := idx.Words(3); got != 0 {
		t.Errorf("Words(3) = %d, want 0", got)
	}
}

func TestSortStableAndDeterministic(t *testing.T) {
	idx := New(testRecords(), nil)
	v := idx.All()

	once := idx.Sort(v, SortByDuration, Ascending)
	twice := idx.Sort(once, SortByDuration, Ascending)
	if !reflect.DeepEqual(once.Positions(), twice.Positions()) {
		t.Errorf("repeated sort changed order: %v vs %v", once.Positions(), twice.Positions())
	}

	// Records 0 and 2 tie on duration 2.0; manifest order breaks the tie
	// even after the view was ordered differently first.
	shuffled := idx.Sort(v, SortByChars, Descending)
	byDuration := idx.Sort(shuffled, SortByDuration, Ascending)
	want := []int{3, 1, 0, 2} // unresolved first, then 1.0, then the 2.0 tie in manifest order
	if !reflect.DeepEqual(byDuration.Positions(), want) {
		t.Errorf("duration sort = %v, want %v", byDuration.Positions(), want)
	}
}

func TestSortReverseWithoutTies(t *testing.T) {
	idx := New(testRecords(), nil)
	v := idx.All()

	asc := idx.Sort(v, SortByChars, Ascending)
	desc := idx.Sort(v, SortByChars, Descending)

	ascPos := asc.Positions()
	descPos := desc.Positions()
	for i := range ascPos {
		if ascPos[i] != descPos[len(descPos)-1-i] {
			t.Fatalf("descending is not the reverse of ascending: %v vs %v", ascPos, descPos)
		}
	}
}

func TestFilterIdempotent(t *testing.T) {
	idx := New(testRecords(), nil)
	pred := Predicate{TextContains: "hello"}

	once := idx.Filter(idx.All(), pred)
	twice := idx.Filter(once, pred)
	if !reflect.DeepEqual(once.Positions(), twice.Positions()) {
		t.Errorf("filter is not idempotent: %v vs %v", once.Positions(), twice.Positions())
	}
	if once.Len() != 2 {
		t.Errorf("filter kept %d records, want 2", once.Len())
	}
}

func TestFilterConjunction(t *testing.T) {
	idx := New(testRecords(), nil)
	minDur := 1.5
	v := idx.Filter(idx.All(), Predicate{
		MinDuration: &minDur,
		TextPattern: regexp.MustCompile(`^hello`),
	})
	if want := []int{2}; !reflect.DeepEqual(v.Positions(), want) {
		t.Errorf("positions = %v, want %v", v.Positions(), want)
	}
}

func TestFilterEmptyResultIsValid(t *testing.T) {
	idx := New(testRecords(), nil)
	v := idx.Filter(idx.All(), Predicate{TextContains: "zebra"})
	if v.Len() != 0 {
		t.Fatalf("view length = %d, want 0", v.Len())
	}
	if _, err := idx.Get(v, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Get on empty view: want ErrOutOfRange, got %v", err)
	}
}

func TestFilterMetadataEquality(t *testing.T) {
	recs := testRecords()
	rec, err := manifest.ParseRecord([]byte(`{"audio_filepath":"m.wav","text":"tagged","speaker":"spk1"}`))
	if err != nil {
		t.Fatalf("build record: %v", err)
	}
	rec.ID = len(recs)
	recs = append(recs, rec)
	idx := New(recs, nil)

	v := idx.Filter(idx.All(), Predicate{Metadata: map[string]string{"speaker": "spk1"}})
	if v.Len() != 1 {
		t.Fatalf("metadata filter kept %d, want 1", v.Len())
	}
	got, err := idx.Get(v, 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Text != "tagged" {
		t.Errorf("got record %q, want tagged", got.Text)
	}
}

func TestGetBounds(t *testing.T) {
	idx := New(testRecords(), nil)
	v := idx.All()
	if _, err := idx.Get(v, -1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("negative offset: want ErrOutOfRange, got %v", err)
	}
	if _, err := idx.Get(v, v.Len()); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("offset == len: want ErrOutOfRange, got %v", err)
	}
	rec, err := idx.Get(v, 1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	if rec.ID != 1 {
		t.Errorf("Get(1).ID = %d, want 1", rec.ID)
	}
}

func TestLazyDurationMemoized(t *testing.T) {
	prober := newFakeProber(map[string]float64{"clip3.wav": 4.5})
	idx := New(testRecords(), prober)

	for i := 0; i < 3; i++ {
		seconds, ok := idx.Duration(3)
		if !ok || seconds != 4.5 {
			t.Fatalf("Duration(3) = %v %v, want 4.5 true", seconds, ok)
		}
	}
	if prober.calls["clip3.wav"] != 1 {
		t.Errorf("prober called %d times, want 1", prober.calls["clip3.wav"])
	}

	// Manifest durations never hit the prober.
	if _, ok := idx.Duration(0); !ok {
		t.Fatal("Duration(0) should resolve from the manifest")
	}
	if prober.calls["clip0.wav"] != 0 {
		t.Errorf("prober should not run for manifest durations")
	}
}

func TestProbeFailureStaysUnresolved(t *testing.T) {
	prober := newFakeProber(nil) // every probe errors
	idx := New(testRecords(), prober)
	if _, ok := idx.Duration(3); ok {
		t.Error("Duration(3) should stay unresolved after probe failure")
	}
	// Memoized: the failed probe does not rerun.
	idx.Duration(3)
	if prober.calls["clip3.wav"] != 1 {
		t.Errorf("prober called %d times, want 1", prober.calls["clip3.wav"])
	}
}

func TestViewSource(t *testing.T) {
	idx := New(testRecords(), nil)
	v := idx.Sort(idx.All(), SortByChars, Descending)
	src := idx.Source(v)
	if src.Len() != 4 {
		t.Fatalf("source len = %d, want 4", src.Len())
	}
	if src.Transcript(0) != "the quick brown fox" {
		t.Errorf("Transcript(0) = %q", src.Transcript(0))
	}
	if d, ok := src.Duration(0); !ok || d != 2.0 {
		t.Errorf("Duration(0) = %v %v, want 2.0 true", d, ok)
	}
}
