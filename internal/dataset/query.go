package dataset

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// SortKey names a raw or derived per-record field usable for ordering.
type SortKey string

const (
	SortByID       SortKey = "id"
	SortByDuration SortKey = "duration"
	SortByChars    SortKey = "chars"
	SortByWords    SortKey = "words"
	SortByAudio    SortKey = "audio"
)

// ParseSortKey maps a user-facing name onto a SortKey.
func ParseSortKey(name string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "id", "":
		return SortByID, nil
	case "duration":
		return SortByDuration, nil
	case "chars", "text":
		return SortByChars, nil
	case "words":
		return SortByWords, nil
	case "audio", "path":
		return SortByAudio, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (expected id, duration, chars, words, or audio)", name)
	}
}

// Order is a sort direction.
type Order int

const (
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// ParseOrder maps a user-facing name onto an Order.
func ParseOrder(name string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "asc", "ascending", "":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("unknown sort order %q (expected asc or desc)", name)
	}
}

// Sort returns a new view ordered by key. The sort is deterministic: entries
// that compare equal keep their original manifest order regardless of the
// view's current ordering or the requested direction.
func (x *Index) Sort(v View, key SortKey, order Order) View {
	positions := v.Positions()
	cmp := x.comparator(key)
	sort.SliceStable(positions, func(a, b int) bool {
		c := cmp(positions[a], positions[b])
		if order == Descending {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return positions[a] < positions[b]
	})
	return View{positions: positions}
}

// comparator returns a three-way comparison over backing positions for key.
// Records without a resolvable duration order before every resolved one so
// they stay visible at a deterministic edge of the listing.
func (x *Index) comparator(key SortKey) func(i, j int) int {
	switch key {
	case SortByDuration:
		return func(i, j int) int {
			di, iok := x.Duration(i)
			dj, jok := x.Duration(j)
			switch {
			case !iok && !jok:
				return 0
			case !iok:
				return -1
			case !jok:
				return 1
			case di < dj:
				return -1
			case di > dj:
				return 1
			default:
				return 0
			}
		}
	case SortByChars:
		return func(i, j int) int { return intCompare(x.chars[i], x.chars[j]) }
	case SortByWords:
		return func(i, j int) int { return intCompare(x.words[i], x.words[j]) }
	case SortByAudio:
		return func(i, j int) int {
			return strings.Compare(x.records[i].AudioPath, x.records[j].AudioPath)
		}
	default: // SortByID
		return func(i, j int) int { return intCompare(x.records[i].ID, x.records[j].ID) }
	}
}

func intCompare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Predicate is a conjunction of field-level constraints. Zero-valued fields
// impose no constraint.
type Predicate struct {
	// MinDuration/MaxDuration bound the resolved duration in seconds.
	// Records whose duration cannot be resolved fail any duration bound.
	MinDuration *float64
	MaxDuration *float64
	// TextContains requires the transcript to contain a substring.
	TextContains string
	// TextPattern requires the transcript to match a regular expression.
	TextPattern *regexp.Regexp
	// Metadata requires rendered metadata values to equal the given strings.
	Metadata map[string]string
}

// IsEmpty reports whether the predicate imposes no constraints.
func (p Predicate) IsEmpty() bool {
	return p.MinDuration == nil && p.MaxDuration == nil &&
		p.TextContains == "" && p.TextPattern == nil && len(p.Metadata) == 0
}

// Filter returns a new view keeping the entries that satisfy every constraint.
// An empty result is a valid view, not an error.
func (x *Index) Filter(v View, p Predicate) View {
	if p.IsEmpty() {
		return View{positions: v.Positions()}
	}
	kept := make([]int, 0, v.Len())
	for _, pos := range v.positions {
		if x.matches(pos, p) {
			kept = append(kept, pos)
		}
	}
	return View{positions: kept}
}

func (x *Index) matches(pos int, p Predicate) bool {
	rec := x.records[pos]
	if p.MinDuration != nil || p.MaxDuration != nil {
		seconds, ok := x.Duration(pos)
		if !ok {
			return false
		}
		if p.MinDuration != nil && seconds < *p.MinDuration {
			return false
		}
		if p.MaxDuration != nil && seconds > *p.MaxDuration {
			return false
		}
	}
	if p.TextContains != "" && !strings.Contains(rec.Text, p.TextContains) {
		return false
	}
	if p.TextPattern != nil && !p.TextPattern.MatchString(rec.Text) {
		return false
	}
	for key, want := range p.Metadata {
		got, ok := rec.Metadata.String(key)
		if !ok || got != want {
			return false
		}
	}
	return true
}
