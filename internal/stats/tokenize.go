package stats

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// tokenizer splits transcripts into vocabulary tokens. Splitting is always on
// whitespace; folding and punctuation stripping are optional because the
// right choice is corpus-dependent.
type tokenizer struct {
	fold  *cases.Caser
	strip bool
}

func newTokenizer(caseFold, stripPunctuation bool) *tokenizer {
	t := &tokenizer{strip: stripPunctuation}
	if caseFold {
		caser := cases.Fold()
		t.fold = &caser
	}
	return t
}

func (t *tokenizer) tokens(text string) []string {
	raw := strings.Fields(text)
	out := make([]string, 0, len(raw))
	for _, token := range raw {
		if t.strip {
			// Edges only: inner apostrophes and hyphens survive.
			token = strings.TrimFunc(token, unicode.IsPunct)
			if token == "" {
				continue
			}
		}
		if t.fold != nil {
			token = t.fold.String(token)
		}
		out = append(out, token)
	}
	return out
}
