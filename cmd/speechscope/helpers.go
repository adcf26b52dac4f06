package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"speechscope/internal/dataset"
)

// viewFlags carries the sort and filter flags shared by listing-style
// commands.
type viewFlags struct {
	sortKey     string
	sortOrder   string
	minDuration float64
	maxDuration float64
	contains    string
	pattern     string
	meta        []string
}

func addViewFlags(cmd *cobra.Command, f *viewFlags) {
	cmd.Flags().StringVar(&f.sortKey, "sort", "id", "Sort key: id, duration, chars, words, or audio")
	cmd.Flags().StringVar(&f.sortOrder, "order", "asc", "Sort order: asc or desc")
	cmd.Flags().Float64Var(&f.minDuration, "min-duration", 0, "Keep utterances at least this many seconds long")
	cmd.Flags().Float64Var(&f.maxDuration, "max-duration", 0, "Keep utterances at most this many seconds long")
	cmd.Flags().StringVar(&f.contains, "contains", "", "Keep utterances whose transcript contains this substring")
	cmd.Flags().StringVar(&f.pattern, "match", "", "Keep utterances whose transcript matches this regular expression")
	cmd.Flags().StringArrayVar(&f.meta, "meta", nil, "Keep utterances whose metadata field equals a value (key=value, repeatable)")
}

// apply builds the requested view: filter first, then sort.
func (f *viewFlags) apply(cmd *cobra.Command, index *dataset.Index) (dataset.View, error) {
	predicate, err := f.predicate(cmd)
	if err != nil {
		return dataset.View{}, err
	}
	key, err := dataset.ParseSortKey(f.sortKey)
	if err != nil {
		return dataset.View{}, err
	}
	order, err := dataset.ParseOrder(f.sortOrder)
	if err != nil {
		return dataset.View{}, err
	}
	view := index.Filter(index.All(), predicate)
	return index.Sort(view, key, order), nil
}

func (f *viewFlags) predicate(cmd *cobra.Command) (dataset.Predicate, error) {
	var p dataset.Predicate
	if cmd.Flags().Changed("min-duration") {
		v := f.minDuration
		p.MinDuration = &v
	}
	if cmd.Flags().Changed("max-duration") {
		v := f.maxDuration
		p.MaxDuration = &v
	}
	p.TextContains = f.contains
	if f.pattern != "" {
		re, err := regexp.Compile(f.pattern)
		if err != nil {
			return p, fmt.Errorf("--match: %w", err)
		}
		p.TextPattern = re
	}
	if len(f.meta) > 0 {
		p.Metadata = make(map[string]string, len(f.meta))
		for _, pair := range f.meta {
			key, value, ok := strings.Cut(pair, "=")
			if !ok || strings.TrimSpace(key) == "" {
				return p, fmt.Errorf("--meta %q: expected key=value", pair)
			}
			p.Metadata[strings.TrimSpace(key)] = value
		}
	}
	return p, nil
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.2fs", seconds)
}

func formatDurationCell(seconds float64, ok bool) string {
	if !ok {
		return "?"
	}
	return formatSeconds(seconds)
}

// truncateText shortens a transcript for table display.
func truncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}

// histogramBar renders a proportional bar for histogram rows.
func histogramBar(count, maxCount, width int) string {
	if maxCount <= 0 || count <= 0 {
		return ""
	}
	n := count * width / maxCount
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}
