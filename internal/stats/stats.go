package stats

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Source is the read-only view shape aggregation consumes.
type Source interface {
	// Len returns the number of utterances in the view.
	Len() int
	// Transcript returns the transcript of the utterance at offset i.
	Transcript(i int) string
	// Duration returns the utterance duration in seconds; false when the
	// duration could not be resolved.
	Duration(i int) (float64, bool)
}

// Options controls aggregation behavior.
type Options struct {
	// HistogramBins is the number of equal-width duration buckets. Values
	// below 1 collapse to a single bucket.
	HistogramBins int
	// CaseFold applies Unicode case folding to vocabulary tokens.
	CaseFold bool
	// StripPunctuation trims punctuation from token edges before counting.
	StripPunctuation bool
}

// CharCount is one alphabet entry: a character and its occurrence count.
type CharCount struct {
	Char  string `json:"char"`
	Count int    `json:"count"`
}

// WordCount is one vocabulary entry: a token and its occurrence count.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Bucket is one duration histogram bucket over [Lo, Hi].
type Bucket struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// CorpusStatistics is the aggregation result for one view. It is a value
// object: rebuilt from the view on every change, never mutated in place.
type CorpusStatistics struct {
	// Utterances is the number of utterances in the view.
	Utterances int `json:"utterances"`
	// Alphabet lists distinct transcript characters with occurrence counts,
	// ordered by count descending, ties by first appearance.
	Alphabet []CharCount `json:"alphabet"`
	// Vocabulary lists distinct whitespace-delimited tokens with occurrence
	// counts, ordered by count descending, ties by first appearance.
	Vocabulary []WordCount `json:"vocabulary"`
	// DurationHistogram buckets resolved durations into equal-width bins
	// spanning [min, max] of the view.
	DurationHistogram []Bucket `json:"duration_histogram"`
	// TotalSeconds is the sum of resolved durations.
	TotalSeconds float64 `json:"total_seconds"`
	// UnresolvedDurations counts view entries whose duration could not be
	// resolved and were left out of the histogram and total.
	UnresolvedDurations int `json:"unresolved_durations"`
}

// TopWords returns the first n vocabulary entries. Ranking ties are already
// broken by first-appearance order.
func (s CorpusStatistics) TopWords(n int) []WordCount {
	if n <= 0 || n >= len(s.Vocabulary) {
		n = len(s.Vocabulary)
	}
	return append([]WordCount(nil), s.Vocabulary[:n]...)
}

// Compute aggregates statistics over the view. It never fails: empty views
// and all-empty transcripts yield empty alphabet/vocabulary and a single
// degenerate histogram bucket.
func Compute(src Source, opts Options) CorpusStatistics {
	result := CorpusStatistics{Utterances: src.Len()}

	charCounts := make(map[string]int)
	charOrder := make(map[string]int)
	wordCounts := make(map[string]int)
	wordOrder := make(map[string]int)

	tokenizer := newTokenizer(opts.CaseFold, opts.StripPunctuation)

	durations := make([]float64, 0, src.Len())
	for i := 0; i < src.Len(); i++ {
		text := src.Transcript(i)
		for _, r := range text {
			c := string(r)
			if _, seen := charCounts[c]; !seen {
				charOrder[c] = len(charOrder)
			}
			charCounts[c]++
		}
		for _, token := range tokenizer.tokens(text) {
			if _, seen := wordCounts[token]; !seen {
				wordOrder[token] = len(wordOrder)
			}
			wordCounts[token]++
		}
		if seconds, ok := src.Duration(i); ok {
			durations = append(durations, seconds)
			result.TotalSeconds += seconds
		} else {
			result.UnresolvedDurations++
		}
	}

	result.Alphabet = sortedChars(charCounts, charOrder)
	result.Vocabulary = sortedWords(wordCounts, wordOrder)
	result.DurationHistogram = histogram(durations, opts.HistogramBins)
	return result
}

// sortedChars orders alphabet entries by count descending, breaking ties by
// first appearance so output is deterministic regardless of map iteration.
func sortedChars(counts map[string]int, order map[string]int) []CharCount {
	out := make([]CharCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CharCount{Char: c, Count: n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return order[out[a].Char] < order[out[b].Char]
	})
	return out
}

func sortedWords(counts map[string]int, order map[string]int) []WordCount {
	out := make([]WordCount, 0, len(counts))
	for w, n := range counts {
		out = append(out, WordCount{Word: w, Count: n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return order[out[a].Word] < order[out[b].Word]
	})
	return out
}

// histogram buckets values into bins equal-width intervals spanning
// [min, max]. An empty input or a zero-width span yields a single degenerate
// bucket holding everything.
func histogram(values []float64, bins int) []Bucket {
	if len(values) == 0 {
		return []Bucket{{Lo: 0, Hi: 0, Count: 0}}
	}
	lo := floats.Min(values)
	hi := floats.Max(values)
	if bins < 1 || lo == hi {
		return []Bucket{{Lo: lo, Hi: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	buckets := make([]Bucket, bins)
	for i := range buckets {
		buckets[i].Lo = lo + float64(i)*width
		buckets[i].Hi = lo + float64(i+1)*width
	}
	buckets[bins-1].Hi = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins { // v == hi lands in the last bucket
			idx = bins - 1
		}
		buckets[idx].Count++
	}
	return buckets
}
