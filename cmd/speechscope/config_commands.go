package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"speechscope/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the speechscope configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newConfigInitCommand(ctx))
	cmd.AddCommand(newConfigShowCommand(ctx))
	return cmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a commented sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if ctx.configFlag != nil {
				path = *ctx.configFlag
			}
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}
			if err := config.WriteSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", path)
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if ctx.configFlag != nil {
				path = *ctx.configFlag
			}
			cfg, resolvedPath, exists, err := config.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "Configuration file: %s\n\n", resolvedPath)
			} else {
				fmt.Fprintf(out, "No configuration file at %s, showing defaults\n\n", resolvedPath)
			}

			rows := [][]string{
				{"paths.log_dir", cfg.Paths.LogDir},
				{"paths.lock_dir", cfg.Paths.LockDir},
				{"paths.manifest", cfg.Paths.Manifest},
				{"stats.histogram_bins", strconv.Itoa(cfg.Stats.HistogramBins)},
				{"stats.top_words", strconv.Itoa(cfg.Stats.TopWords)},
				{"stats.case_fold", strconv.FormatBool(cfg.Stats.CaseFold)},
				{"stats.strip_punctuation", strconv.FormatBool(cfg.Stats.StripPunctuation)},
				{"waveform.points", strconv.Itoa(cfg.Waveform.Points)},
				{"spectrogram.window_size", strconv.Itoa(cfg.Spectrogram.WindowSize)},
				{"spectrogram.hop_length", strconv.Itoa(cfg.Spectrogram.HopLength)},
				{"spectrogram.window_fn", cfg.Spectrogram.WindowFn},
				{"spectrogram.scale", cfg.Spectrogram.Scale},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Setting", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}
