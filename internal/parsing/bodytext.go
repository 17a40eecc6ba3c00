package parsing

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-json"
)

// bodyTextPaper is one paper of the older CORD-19 style corpus.
type bodyTextPaper struct {
	PaperID  string `json:"paper_id"`
	Metadata struct {
		Title string `json:"title"`
	} `json:"metadata"`
	Abstract   []bodyTextEntry  `json:"abstract"`
	BodyText   *[]bodyTextEntry `json:"body_text"`
	BackMatter []bodyTextEntry  `json:"back_matter"`
}

type bodyTextEntry struct {
	Section   string     `json:"section"`
	Text      string     `json:"text"`
	CiteSpans []citeSpan `json:"cite_spans"`
}

// citeSpan offsets count Unicode code points, end exclusive.
type citeSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
	RefID string `json:"ref_id"`
}

// DecodeBodyText decodes one or more body_text papers, either a single JSON
// object or one object per line.
func DecodeBodyText(r io.Reader) ([]Document, error) {
	decoder := json.NewDecoder(bufio.NewReader(r))

	var documents []Document
	for {
		var paper bodyTextPaper
		err := decoder.Decode(&paper)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("body_text: paper %d: %w", len(documents), err)
		}
		if paper.BodyText == nil {
			return nil, fmt.Errorf("body_text: paper %d (%q): missing \"body_text\"", len(documents), paper.PaperID)
		}
		documents = append(documents, paper.document())
	}
	if len(documents) == 0 {
		return nil, fmt.Errorf("body_text: %w", ErrNoDocuments)
	}
	return documents, nil
}

// document converts a paper into passages: a front passage carrying the
// title and paper_id, then abstract, body and back matter in order.
func (p *bodyTextPaper) document() Document {
	doc := Document{ID: p.PaperID}
	offset := 0
	add := func(sectionType, parType, text string) *Passage {
		doc.Passages = append(doc.Passages, Passage{
			Offset: offset,
			Infons: map[string]string{KeySectionType: sectionType, KeyType: parType},
			Text:   text,
		})
		offset += len([]rune(text)) + 1
		return &doc.Passages[len(doc.Passages)-1]
	}

	if p.Metadata.Title != "" || p.PaperID != "" {
		front := add(SectionTitle, TypeFront, p.Metadata.Title)
		if p.PaperID != "" {
			front.Infons[KeyPMID] = p.PaperID
		}
	}
	for _, entry := range p.Abstract {
		add(SectionAbstract, TypeAbstract, entry.cleanText())
	}
	for _, entry := range *p.BodyText {
		add(ClassifyHeading(entry.Section), TypeParagraph, entry.cleanText())
	}
	for _, entry := range p.BackMatter {
		add(ClassifyHeading(entry.Section), TypeParagraph, entry.cleanText())
	}
	return doc
}

// cleanText removes the citation markers covered by cite spans. Spans that
// overlap or fall outside the text are ignored.
func (e bodyTextEntry) cleanText() string {
	if len(e.CiteSpans) == 0 {
		return e.Text
	}
	spans := make([]citeSpan, len(e.CiteSpans))
	copy(spans, e.CiteSpans)
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	runes := []rune(e.Text)
	out := make([]rune, 0, len(runes))
	pos := 0
	for _, span := range spans {
		if span.Start < pos || span.End > len(runes) || span.Start >= span.End {
			continue
		}
		out = append(out, runes[pos:span.Start]...)
		pos = span.End
	}
	out = append(out, runes[pos:]...)
	return string(out)
}

// ExtractBodyText reads body_text papers and returns one article per paper.
func (e *Extractor) ExtractBodyText(file string, r io.Reader) ([]*OutputArticle, error) {
	documents, err := DecodeBodyText(r)
	if err != nil {
		return nil, err
	}
	articles := make([]*OutputArticle, 0, len(documents))
	for i := range documents {
		articles = append(articles, e.ExtractDocument(file, &documents[i]))
	}
	return articles, nil
}
