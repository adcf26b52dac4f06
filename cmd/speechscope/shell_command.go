package main

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"speechscope/internal/dataset"
	"speechscope/internal/session"
)

func newShellCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Explore the dataset interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			index, result, err := ctx.loadDataset()
			if err != nil {
				return err
			}

			sess := session.New(cfg, logger, index, nil)
			if err := sess.Acquire(); err != nil {
				return err
			}
			defer sess.Release()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "speechscope session %s\n", sess.ID())
			fmt.Fprintf(out, "Loaded %s. Type 'help' for commands.\n", ctx.describeLoad(result))

			sh := &shell{session: sess, out: out}
			return sh.run(cmd.InOrStdin())
		},
	}
}

// shell dispatches REPL lines against a session.
type shell struct {
	session *session.Session
	out     io.Writer
}

func (sh *shell) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := sh.dispatch(fields[0], fields[1:]); err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
	}
}

func (sh *shell) dispatch(command string, args []string) error {
	switch command {
	case "help":
		sh.printHelp()
		return nil
	case "ls":
		return sh.list(args)
	case "sort":
		return sh.sort(args)
	case "filter":
		return sh.filter(args)
	case "reset":
		sh.session.Reset()
		fmt.Fprintf(sh.out, "view reset: %d utterances\n", sh.session.View().Len())
		return nil
	case "stats":
		return sh.stats()
	case "inspect":
		return sh.inspect(args)
	default:
		return fmt.Errorf("unknown command %q (try 'help')", command)
	}
}

func (sh *shell) printHelp() {
	fmt.Fprint(sh.out, `Commands:
  ls [n]                      list the first n utterances of the view (default 20)
  sort <key> [asc|desc]       sort by id, duration, chars, words, or audio
  filter <constraint>...      narrow the view; constraints are
                                text=<substring>  re=<regexp>
                                min=<seconds>     max=<seconds>
                                meta.<key>=<value>
  reset                       restore the full manifest-order view
  stats                       corpus statistics over the current view
  inspect <n>                 decode utterance n and show its features
  help                        this listing
  quit                        leave the shell
`)
}

func (sh *shell) list(args []string) error {
	limit := 20
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("ls: %q is not a count", args[0])
		}
		limit = n
	}
	view := sh.session.View()
	index := sh.session.Index()
	shown := view.Len()
	if limit > 0 && limit < shown {
		shown = limit
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
			truncateText(rec.Text, 60),
		})
	}
	fmt.Fprintln(sh.out, renderTable(
		[]string{"#", "ID", "Duration", "Text"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
	))
	if shown < view.Len() {
		fmt.Fprintf(sh.out, "showing %d of %d utterances\n", shown, view.Len())
	}
	return nil
}

func (sh *shell) sort(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("sort: missing key (id, duration, chars, words, or audio)")
	}
	key, err := dataset.ParseSortKey(args[0])
	if err != nil {
		return err
	}
	order := dataset.Ascending
	if len(args) > 1 {
		order, err = dataset.ParseOrder(args[1])
		if err != nil {
			return err
		}
	}
	sh.session.Sort(key, order)
	fmt.Fprintf(sh.out, "sorted by %s %s\n", key, order)
	return nil
}

func (sh *shell) filter(args []string) error {
	predicate, err := parseFilterArgs(args)
	if err != nil {
		return err
	}
	before := sh.session.View().Len()
	sh.session.Filter(predicate)
	after := sh.session.View().Len()
	fmt.Fprintf(sh.out, "filtered: %d of %d utterances remain\n", after, before)
	return nil
}

func (sh *shell) stats() error {
	s := sh.session.Statistics()
	rows := [][]string{
		{"Utterances", strconv.Itoa(s.Utterances)},
		{"Total duration", formatSeconds(s.TotalSeconds)},
		{"Alphabet size", strconv.Itoa(len(s.Alphabet))},
		{"Vocabulary size", strconv.Itoa(len(s.Vocabulary))},
	}
	if s.UnresolvedDurations > 0 {
		rows = append(rows, []string{"Unresolved durations", strconv.Itoa(s.UnresolvedDurations)})
	}
	fmt.Fprintln(sh.out, renderTable(
		[]string{"Metric", "Value"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
	maxCount := 0
	for _, b := range s.DurationHistogram {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	for _, b := range s.DurationHistogram {
		fmt.Fprintf(sh.out, "%8.2f - %-8.2f %6d %s\n", b.Lo, b.Hi, b.Count, histogramBar(b.Count, maxCount, 40))
	}
	return nil
}

func (sh *shell) inspect(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("inspect: missing offset")
	}
	offset, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("inspect: %q is not an offset", args[0])
	}
	record, features, err := sh.session.Inspect(offset)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "id=%d audio=%s\n", record.ID, record.AudioPath)
	fmt.Fprintf(sh.out, "text: %s\n", record.Text)
	for _, key := range record.Metadata.Keys() {
		if value, ok := record.Metadata.String(key); ok {
			fmt.Fprintf(sh.out, "%s: %s\n", key, value)
		}
	}
	lo, hi := waveformExtrema(features.Waveform)
	fmt.Fprintf(sh.out, "%d samples at %d Hz (%s), waveform %d points in [%.4f, %.4f], spectrogram %s\n",
		features.NumSamples, features.SampleRate, formatSeconds(features.DurationSeconds),
		len(features.Waveform), lo, hi, describeSpectrogram(features.Spectrogram))
	return nil
}

// parseFilterArgs turns shell constraint tokens into a predicate. Every
// token must be key=value; meta.<key>= matches a metadata field.
func parseFilterArgs(args []string) (dataset.Predicate, error) {
	var p dataset.Predicate
	if len(args) == 0 {
		return p, fmt.Errorf("filter: missing constraints (try 'help')")
	}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return p, fmt.Errorf("filter: %q is not key=value", arg)
		}
		switch {
		case key == "text":
			p.TextContains = value
		case key == "re":
			re, err := regexp.Compile(value)
			if err != nil {
				return p, fmt.Errorf("filter: %w", err)
			}
			p.TextPattern = re
		case key == "min":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return p, fmt.Errorf("filter: min=%q is not a number", value)
			}
			p.MinDuration = &v
		case key == "max":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return p, fmt.Errorf("filter: max=%q is not a number", value)
			}
			p.MaxDuration = &v
		case strings.HasPrefix(key, "meta."):
			field := strings.TrimPrefix(key, "meta.")
			if field == "" {
				return p, fmt.Errorf("filter: %q is missing a metadata key", arg)
			}
			if p.Metadata == nil {
				p.Metadata = make(map[string]string)
			}
			p.Metadata[field] = value
		default:
			return p, fmt.Errorf("filter: unknown constraint %q", key)
		}
	}
	return p, nil
}
