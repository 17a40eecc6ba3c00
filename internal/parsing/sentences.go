package parsing

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/sentences"
)

// Segmenter splits text into sentences in order.
type Segmenter interface {
	Split(text, language string) []string
}

// UnicodeSegmenter splits on Unicode (UAX #29) sentence boundaries. The rules
// are language independent, so the language argument is ignored.
type UnicodeSegmenter struct{}

// Split returns the non-blank sentences of text with surrounding whitespace
// trimmed.
func (UnicodeSegmenter) Split(text, _ string) []string {
	var out []string
	iter := sentences.FromString(text)
	for iter.Next() {
		sentence := strings.TrimSpace(iter.Value())
		if sentence == "" {
			continue
		}
		out = append(out, sentence)
	}
	return out
}
