package parsing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		head string
		want Format
	}{
		{"a.json", `{"source": "PMC", "documents": [`, FormatBioC},
		{"a.JSON", `{"source": "PMC"`, FormatBioC},
		{"a.jsonl", `{"paper_id": "x", "body_text": []}`, FormatBodyText},
		{"a.nxml", `<?xml version="1.0"?><article>`, FormatJATS},
		{"a.xml", `<article>`, FormatJATS},
		{"a.tei.xml", `<?xml version="1.0"?><TEI xmlns="http://www.tei-c.org/ns/1.0">`, FormatTEI},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path, []byte(tt.head))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DetectFormat("a.pdf", nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"":          FormatAuto,
		"auto":      FormatAuto,
		"BioC":      FormatBioC,
		"body_text": FormatBodyText,
		"nxml":      FormatJATS,
		"grobid":    FormatTEI,
	} {
		got, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExtractAutoDetects(t *testing.T) {
	e := NewExtractor(Options{}, nil)

	articles, err := e.Extract("PMC6543210.nxml", FormatAuto, strings.NewReader(jatsArticle))
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "6543210", articles[0].PMID)

	articles, err = e.Extract("pmc.json", FormatAuto, strings.NewReader(biocCollectionJSON))
	require.NoError(t, err)
	assert.Len(t, articles, 2)

	articles, err = e.Extract("paper.xml", FormatTEI, strings.NewReader(teiDocument))
	require.NoError(t, err)
	assert.Equal(t, "2017", articles[0].Year)

	_, err = e.Extract("notes.txt", FormatAuto, strings.NewReader("hello"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
