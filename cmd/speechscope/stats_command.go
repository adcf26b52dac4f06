package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"speechscope/internal/stats"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var flags viewFlags
	var jsonOutput bool
	var bins int
	var topWords int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute corpus statistics over the (optionally filtered) dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			index, result, err := ctx.loadDataset()
			if err != nil {
				return err
			}
			view, err := flags.apply(cmd, index)
			if err != nil {
				return err
			}

			opts := stats.Options{
				HistogramBins:    cfg.Stats.HistogramBins,
				CaseFold:         cfg.Stats.CaseFold,
				StripPunctuation: cfg.Stats.StripPunctuation,
			}
			if cmd.Flags().Changed("bins") {
				opts.HistogramBins = bins
			}
			limit := cfg.Stats.TopWords
			if cmd.Flags().Changed("top") {
				limit = topWords
			}

			computed := stats.Compute(index.Source(view), opts)
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), computed)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loaded %s, view holds %d utterances\n\n", ctx.describeLoad(result), view.Len())
			renderSummary(cmd, computed)
			renderAlphabet(cmd, computed, limit)
			renderVocabulary(cmd, computed, limit)
			renderHistogram(cmd, computed)
			return nil
		},
	}

	addViewFlags(cmd, &flags)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit statistics as JSON")
	cmd.Flags().IntVar(&bins, "bins", 0, "Histogram bin count (overrides config)")
	cmd.Flags().IntVar(&topWords, "top", 0, "How many alphabet/vocabulary rows to display (overrides config)")
	return cmd
}

func renderSummary(cmd *cobra.Command, s stats.CorpusStatistics) {
	rows := [][]string{
		{"Utterances", strconv.Itoa(s.Utterances)},
		{"Total duration", formatSeconds(s.TotalSeconds)},
		{"Alphabet size", strconv.Itoa(len(s.Alphabet))},
		{"Vocabulary size", strconv.Itoa(len(s.Vocabulary))},
	}
	if s.UnresolvedDurations > 0 {
		rows = append(rows, []string{"Unresolved durations", strconv.Itoa(s.UnresolvedDurations)})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Metric", "Value"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
}

func renderAlphabet(cmd *cobra.Command, s stats.CorpusStatistics, limit int) {
	if len(s.Alphabet) == 0 {
		return
	}
	entries := s.Alphabet
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{strconv.Quote(e.Char), strconv.Itoa(e.Count)})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Char", "Count"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
}

func renderVocabulary(cmd *cobra.Command, s stats.CorpusStatistics, limit int) {
	if len(s.Vocabulary) == 0 {
		return
	}
	rows := make([][]string, 0, limit)
	for _, e := range s.TopWords(limit) {
		rows = append(rows, []string{e.Word, strconv.Itoa(e.Count)})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Word", "Count"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
}

func renderHistogram(cmd *cobra.Command, s stats.CorpusStatistics) {
	maxCount := 0
	for _, b := range s.DurationHistogram {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	rows := make([][]string, 0, len(s.DurationHistogram))
	for _, b := range s.DurationHistogram {
		rows = append(rows, []string{
			fmt.Sprintf("%.2f - %.2f", b.Lo, b.Hi),
			strconv.Itoa(b.Count),
			histogramBar(b.Count, maxCount, 40),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Duration (s)", "Count", ""},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	))
}
