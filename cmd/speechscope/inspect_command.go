package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"speechscope/internal/audio"
	"speechscope/internal/dataset"
	"speechscope/internal/manifest"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var flags viewFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect <offset>",
		Short: "Decode one utterance and show its waveform and spectrogram features",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			offset, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("offset %q is not a number", args[0])
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			index, _, err := ctx.loadDataset()
			if err != nil {
				return err
			}
			view, err := flags.apply(cmd, index)
			if err != nil {
				return err
			}

			record, err := index.Get(view, offset)
			if err != nil {
				if errors.Is(err, dataset.ErrOutOfRange) {
					return fmt.Errorf("offset %d out of range: the view holds %d utterances", offset, view.Len())
				}
				return err
			}

			params, err := ctx.spectrogramParams()
			if err != nil {
				return err
			}
			extractor := audio.NewExtractor(nil)
			features, err := extractor.Extract(record.AudioPath, cfg.Waveform.Points, params)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), inspectPayload{
					Record:   toListEntry(index, view, offset, record),
					Features: features,
				})
			}
			renderInspection(cmd, index, view, offset, record, features)
			return nil
		},
	}

	addViewFlags(cmd, &flags)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the record and features as JSON")
	return cmd
}

type inspectPayload struct {
	Record   listEntry      `json:"record"`
	Features audio.Features `json:"features"`
}

func toListEntry(index *dataset.Index, view dataset.View, offset int, rec manifest.Record) listEntry {
	pos := view.Position(offset)
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
	return entry
}

func renderInspection(cmd *cobra.Command, index *dataset.Index, view dataset.View, offset int, rec manifest.Record, features audio.Features) {
	pos := view.Position(offset)
	rows := [][]string{
		{"ID", strconv.Itoa(rec.ID)},
		{"Audio", rec.AudioPath},
		{"Text", rec.Text},
		{"Chars", strconv.Itoa(index.Chars(pos))},
		{"Words", strconv.Itoa(index.Words(pos))},
	}
	if seconds, ok := index.Duration(pos); ok {
		rows = append(rows, []string{"Duration", formatSeconds(seconds)})
	}
	for _, key := range rec.Metadata.Keys() {
		if value, ok := rec.Metadata.String(key); ok {
			rows = append(rows, []string{key, value})
		}
	}

	lo, hi := waveformExtrema(features.Waveform)
	rows = append(rows,
		[]string{"Sample rate", fmt.Sprintf("%d Hz", features.SampleRate)},
		[]string{"Samples", strconv.Itoa(features.NumSamples)},
		[]string{"Decoded duration", formatSeconds(features.DurationSeconds)},
		[]string{"Waveform points", strconv.Itoa(len(features.Waveform))},
		[]string{"Amplitude range", fmt.Sprintf("%.4f .. %.4f", lo, hi)},
		[]string{"Spectrogram", describeSpectrogram(features.Spectrogram)},
	)

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Field", "Value"},
		rows,
		[]columnAlignment{alignLeft, alignLeft},
	))
}

func waveformExtrema(points []audio.WaveformPoint) (float64, float64) {
	if len(points) == 0 {
		return 0, 0
	}
	lo, hi := points[0].Min, points[0].Max
	for _, p := range points[1:] {
		if p.Min < lo {
			lo = p.Min
		}
		if p.Max > hi {
			hi = p.Max
		}
	}
	return lo, hi
}

func describeSpectrogram(matrix [][]float64) string {
	if len(matrix) == 0 {
		return "empty"
	}
	return fmt.Sprintf("%d frames x %d bins", len(matrix), len(matrix[0]))
}
