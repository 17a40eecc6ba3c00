package parsing

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format names an input document format.
type Format string

const (
	FormatAuto     Format = "auto"
	FormatBioC     Format = "bioc"
	FormatBodyText Format = "bodytext"
	FormatJATS     Format = "jats"
	FormatTEI      Format = "tei"
)

// ErrUnknownFormat is returned when a format name or file cannot be mapped to
// a front end.
var ErrUnknownFormat = errors.New("unknown input format")

// sniffLen is how much of a file DetectFormat looks at.
const sniffLen = 4096

// ParseFormat maps a user-supplied name to a Format. The empty string is auto.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatBioC, "json":
		return FormatBioC, nil
	case FormatBodyText, "body_text", "cord19":
		return FormatBodyText, nil
	case FormatJATS, "nxml":
		return FormatJATS, nil
	case FormatTEI, "grobid":
		return FormatTEI, nil
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownFormat)
}

// DetectFormat picks a front end from the file extension and the first bytes
// of the content.
func DetectFormat(path string, head []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".nxml", ".tei":
		if bytes.Contains(head, []byte("<TEI")) || bytes.Contains(head, []byte("<teiCorpus")) {
			return FormatTEI, nil
		}
		return FormatJATS, nil
	case ".json", ".jsonl":
		if bytes.Contains(head, []byte(`"documents"`)) {
			return FormatBioC, nil
		}
		if bytes.Contains(head, []byte(`"body_text"`)) || bytes.Contains(head, []byte(`"paper_id"`)) {
			return FormatBodyText, nil
		}
		// a collection whose documents key sits past the sniffed prefix
		return FormatBioC, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// Extract reads one file in the given format. FormatAuto sniffs the content.
func (e *Extractor) Extract(file string, format Format, r io.Reader) ([]*OutputArticle, error) {
	if format == FormatAuto || format == "" {
		buffered := bufio.NewReaderSize(r, sniffLen)
		head, err := buffered.Peek(sniffLen)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		if format, err = DetectFormat(file, head); err != nil {
			return nil, err
		}
		r = buffered
	}

	switch format {
	case FormatBioC:
		return e.ExtractBioC(file, r)
	case FormatBodyText:
		return e.ExtractBodyText(file, r)
	case FormatJATS:
		return e.ExtractJATS(file, r)
	case FormatTEI:
		return e.ExtractTEI(file, r)
	}
	return nil, fmt.Errorf("%s: %q: %w", file, format, ErrUnknownFormat)
}
