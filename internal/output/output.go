// Package output serializes the results of a run.
package output

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"bioc-extractor/internal/parsing"
)

const (
	ModeJSON = "json"
	ModeText = "text"
)

// TextOptions control the flat text layout.
type TextOptions struct {
	PrefixFilename bool
	PrefixSection  bool
}

// WriteChunk writes the chunk as indented JSON.
func WriteChunk(w io.Writer, chunk *parsing.OutputChunk) error {
	return writeJSON(w, chunk)
}

// WriteAbbreviations writes the table as an indented JSON object.
func WriteAbbreviations(w io.Writer, table parsing.AbbreviationTable) error {
	return writeJSON(w, table)
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteText writes one line per paragraph, articles ordered by key.
func WriteText(w io.Writer, chunk *parsing.OutputChunk, opts TextOptions) error {
	keys := make([]string, 0, len(chunk.Articles))
	for key := range chunk.Articles {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	bw := bufio.NewWriter(w)
	for _, key := range keys {
		article := chunk.Articles[key]
		for _, paragraph := range article.Paragraphs {
			if opts.PrefixFilename {
				bw.WriteString(article.File)
				bw.WriteByte('\t')
			}
			if opts.PrefixSection {
				bw.WriteString(paragraph.ParType)
				bw.WriteByte('\t')
			}
			bw.WriteString(oneLine(paragraph.Text))
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// WriteAbbreviationsText writes short<TAB>long lines sorted by short form.
func WriteAbbreviationsText(w io.Writer, table parsing.AbbreviationTable) error {
	shorts := make([]string, 0, len(table))
	for short := range table {
		shorts = append(shorts, short)
	}
	sort.Strings(shorts)

	bw := bufio.NewWriter(w)
	for _, short := range shorts {
		fmt.Fprintf(bw, "%s\t%s\n", oneLine(short), oneLine(table[short]))
	}
	return bw.Flush()
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// oneLine keeps a value on a single tab-free line.
func oneLine(text string) string {
	return lineBreaks.Replace(text)
}
