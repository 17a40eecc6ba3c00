package parsing

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// ErrNoDocuments is returned for an input that decodes but holds no documents.
var ErrNoDocuments = errors.New("no documents")

// BioC collection as exported by PMC. Infon values may be null.
type biocCollection struct {
	Source    string             `json:"source"`
	Date      string             `json:"date"`
	Infons    map[string]*string `json:"infons"`
	Documents []biocDocument     `json:"documents"`
}

type biocDocument struct {
	ID       string             `json:"id"`
	Infons   map[string]*string `json:"infons"`
	Passages []biocPassage      `json:"passages"`
}

type biocPassage struct {
	Offset int                `json:"offset"`
	Infons map[string]*string `json:"infons"`
	Text   *string            `json:"text"`
}

// DecodeBioC decodes a BioC JSON collection into documents.
func DecodeBioC(data []byte) ([]Document, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("bioc: input is not valid UTF-8")
	}

	var collection biocCollection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("bioc: %w", err)
	}
	if collection.Documents == nil {
		return nil, fmt.Errorf("bioc: missing \"documents\": %w", ErrNoDocuments)
	}

	documents := make([]Document, 0, len(collection.Documents))
	for i, doc := range collection.Documents {
		if doc.Passages == nil {
			return nil, fmt.Errorf("bioc: document %d (%q): missing \"passages\"", i, doc.ID)
		}
		passages := make([]Passage, 0, len(doc.Passages))
		for j, passage := range doc.Passages {
			if passage.Text == nil {
				return nil, fmt.Errorf("bioc: document %q passage %d: missing \"text\"", doc.ID, j)
			}
			passages = append(passages, Passage{
				Offset: passage.Offset,
				Infons: flattenInfons(passage.Infons),
				Text:   *passage.Text,
			})
		}
		documents = append(documents, Document{
			ID:       doc.ID,
			Infons:   flattenInfons(doc.Infons),
			Passages: passages,
		})
	}
	return documents, nil
}

// flattenInfons drops null values; a null infon counts as absent.
func flattenInfons(infons map[string]*string) map[string]string {
	flat := make(map[string]string, len(infons))
	for key, value := range infons {
		if value == nil {
			continue
		}
		flat[key] = *value
	}
	return flat
}

// ExtractBioC reads a BioC collection and returns one article per document.
func (e *Extractor) ExtractBioC(file string, r io.Reader) ([]*OutputArticle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	documents, err := DecodeBioC(data)
	if err != nil {
		return nil, err
	}

	articles := make([]*OutputArticle, 0, len(documents))
	for i := range documents {
		articles = append(articles, e.ExtractDocument(file, &documents[i]))
	}
	return articles, nil
}
