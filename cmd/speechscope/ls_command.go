package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"speechscope/internal/dataset"
	"speechscope/internal/manifest"
)

func newLsCommand(ctx *commandContext) *cobra.Command {
	var flags viewFlags
	var jsonOutput bool
	var limit int

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List utterances in the (optionally sorted and filtered) dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			index, result, err := ctx.loadDataset()
			if err != nil {
				return err
			}
			view, err := flags.apply(cmd, index)
			if err != nil {
				return err
			}

			shown := view.Len()
			if limit > 0 && limit < shown {
				shown = limit
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), listEntries(index, view, shown))
			}

			rows := make([][]string, 0, shown)
			for offset := 0; offset < shown; offset++ {
				pos := view.Position(offset)
				rec := index.Record(pos)
				seconds, ok := index.Duration(pos)
				rows = append(rows, []string{
					strconv.Itoa(offset),
					strconv.Itoa(rec.ID),
					formatDurationCell(seconds, ok),
					strconv.Itoa(index.Chars(pos)),
					strconv.Itoa(index.Words(pos)),
					truncateText(rec.Text, 60),
					rec.AudioPath,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "ID", "Duration", "Chars", "Words", "Text", "Audio"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft},
			))
			if shown < view.Len() {
				fmt.Fprintf(out, "Showing %d of %d utterances (%s)\n", shown, view.Len(), ctx.describeLoad(result))
			} else {
				fmt.Fprintf(out, "%d utterances (%s)\n", view.Len(), ctx.describeLoad(result))
			}
			return nil
		},
	}

	addViewFlags(cmd, &flags)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the listing as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many utterances (0 = all)")
	return cmd
}

// listEntry is the JSON shape of one listed utterance.
type listEntry struct {
	Offset    int               `json:"offset"`
	ID        int               `json:"id"`
	AudioPath string            `json:"audio_filepath"`
	Duration  *float64          `json:"duration,omitempty"`
	Chars     int               `json:"chars"`
	Words     int               `json:"words"`
	Text      string            `json:"text"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func listEntries(index *dataset.Index, view dataset.View, shown int) []listEntry {
	entries := make([]listEntry, 0, shown)
	for offset := 0; offset < shown; offset++ {
		pos := view.Position(offset)
		rec := index.Record(pos)
		entry := listEntry{
			Offset:    offset,
			ID:        rec.ID,
			AudioPath: rec.AudioPath,
			Chars:     index.Chars(pos),
			Words:     index.Words(pos),
			Text:      rec.Text,
			Metadata:  metadataMap(rec.Metadata),
		}
		if seconds, ok := index.Duration(pos); ok {
			entry.Duration = &seconds
		}
		entries = append(entries, entry)
	}
	return entries
}

func metadataMap(md manifest.Metadata) map[string]string {
	if md.Len() == 0 {
		return nil
	}
	out := make(map[string]string, md.Len())
	for _, key := range md.Keys() {
		if value, ok := md.String(key); ok {
			out[key] = value
		}
	}
	return out
}
