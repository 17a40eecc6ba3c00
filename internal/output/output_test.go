package output

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bioc-extractor/internal/dispatcher"
	"bioc-extractor/internal/parsing"
)

func sampleChunk() *parsing.OutputChunk {
	chunk := parsing.NewOutputChunk()

	b := parsing.NewOutputArticle("b.json")
	b.PMID = "2"
	b.Paragraphs = []parsing.OutputParagraph{{ParType: "INTRO", Text: "Second\narticle."}}
	chunk.Articles[b.Key()] = b

	a := parsing.NewOutputArticle("a.json")
	a.PMID = "1"
	a.Title = "First"
	a.Paragraphs = []parsing.OutputParagraph{
		{ParType: "ABSTRACT", Text: "Tumours <grow>."},
		{ParType: "RESULTS", Text: "They did."},
	}
	a.Abbreviations["TG"] = "tumour growth"
	chunk.Articles[a.Key()] = a
	return chunk
}

func TestWriteChunk(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChunk(&buf, sampleChunk()))
	assert.Contains(t, buf.String(), "Tumours <grow>.")

	var decoded struct {
		Articles map[string]struct {
			Paragraphs []struct {
				ParType string `json:"par_type"`
				Text    string `json:"text"`
			} `json:"paragraphs"`
			Abbreviations map[string]string `json:"abbreviations"`
			Year          string            `json:"year"`
			PMID          string            `json:"pmid"`
			Title         string            `json:"title"`
		} `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Articles, 2)
	first := decoded.Articles["1"]
	assert.Equal(t, "First", first.Title)
	assert.Equal(t, parsing.Unknown, first.Year)
	assert.Equal(t, "ABSTRACT", first.Paragraphs[0].ParType)
	assert.Equal(t, "tumour growth", first.Abbreviations["TG"])
}

func TestWriteText(t *testing.T) {
	tests := []struct {
		name string
		opts TextOptions
		want string
	}{
		{"plain", TextOptions{}, "Tumours <grow>.\nThey did.\nSecond article.\n"},
		{"filename", TextOptions{PrefixFilename: true}, "a.json\tTumours <grow>.\na.json\tThey did.\nb.json\tSecond article.\n"},
		{"both", TextOptions{PrefixFilename: true, PrefixSection: true}, "a.json\tABSTRACT\tTumours <grow>.\na.json\tRESULTS\tThey did.\nb.json\tINTRO\tSecond article.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteText(&buf, sampleChunk(), tt.opts))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteAbbreviations(t *testing.T) {
	table := parsing.AbbreviationTable{"MS": "multiple sclerosis | mass spectrometry", "AD": "Alzheimer's disease"}

	var text bytes.Buffer
	require.NoError(t, WriteAbbreviationsText(&text, table))
	assert.Equal(t, "AD\tAlzheimer's disease\nMS\tmultiple sclerosis | mass spectrometry\n", text.String())

	var js bytes.Buffer
	require.NoError(t, WriteAbbreviations(&js, table))
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, map[string]string(table), decoded)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteErrors(t *testing.T) {
	assert.Error(t, WriteChunk(failingWriter{}, sampleChunk()))
	assert.Error(t, WriteText(failingWriter{}, sampleChunk(), TextOptions{}))
}

func TestWriteReport(t *testing.T) {
	report := &dispatcher.Report{
		Results: []dispatcher.FileResult{
			{File: "a.json", Status: dispatcher.StatusOK, Articles: 3, Duration: 2 * time.Millisecond},
			{File: "b.json", Status: dispatcher.StatusFailed, Error: "bioc: missing \"documents\": no documents"},
		},
		Succeeded: 1,
		Failed:    1,
		Elapsed:   5 * time.Millisecond,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, report))
	assert.Equal(t, "ok      a.json (3 articles, 2ms)\n"+
		"FAILED  b.json: bioc: missing \"documents\": no documents\n"+
		"2 processed, 1 succeeded, 1 failed in 5ms\n", buf.String())
}
