package parsing

import "strings"

// Unknown is the value of article metadata that could not be recovered.
const Unknown = "UNK"

// Infon keys the extractor reads.
const (
	KeySectionType = "section_type"
	KeyType        = "type"
	KeyYear        = "year"
	KeyPMC         = "article-id_pmc"
	KeyPMID        = "article-id_pmid"
	KeyDOI         = "article-id_doi"
)

// Structural passage types.
const (
	TypeFront     = "front"
	TypeParagraph = "paragraph"
	TypeAbstract  = "abstract"
	TypeTitle     = "title"
)

// Passage is the smallest classified unit of a document.
type Passage struct {
	Offset int
	Infons map[string]string
	Text   string
}

// Infon returns the value of key, if present.
func (p Passage) Infon(key string) (string, bool) {
	value, ok := p.Infons[key]
	return value, ok
}

// SectionType returns the passage's section_type infon.
func (p Passage) SectionType() (string, bool) {
	return p.Infon(KeySectionType)
}

// Type returns the structural type of the passage, or "" if it has none.
func (p Passage) Type() string {
	return p.Infons[KeyType]
}

// Document is an ordered sequence of passages.
type Document struct {
	ID       string
	Infons   map[string]string
	Passages []Passage
}

// OutputParagraph is one retained passage, or one sentence of it.
type OutputParagraph struct {
	ParType string `json:"par_type"`
	Text    string `json:"text"`
}

// OutputArticle is the extraction result for one document.
type OutputArticle struct {
	Paragraphs    []OutputParagraph `json:"paragraphs"`
	Abbreviations map[string]string `json:"abbreviations"`
	Year          string            `json:"year"`
	PMID          string            `json:"pmid"`
	Title         string            `json:"title"`

	// File is the input the article was read from.
	File string `json:"file,omitempty"`
	// DocumentID is the document identifier declared by the input, if any.
	DocumentID string `json:"-"`
}

// NewOutputArticle returns an empty article with unknown metadata.
func NewOutputArticle(file string) *OutputArticle {
	return &OutputArticle{
		Paragraphs:    []OutputParagraph{},
		Abbreviations: map[string]string{},
		Year:          Unknown,
		PMID:          Unknown,
		Title:         Unknown,
		File:          file,
	}
}

// Key is the identifier the article is stored under in a chunk: the recovered
// external identifier, else the declared document id, else the file name.
func (a *OutputArticle) Key() string {
	if a.PMID != "" && a.PMID != Unknown {
		return a.PMID
	}
	if a.DocumentID != "" {
		return a.DocumentID
	}
	return a.File
}

// OutputChunk maps article keys to articles.
type OutputChunk struct {
	Articles map[string]*OutputArticle `json:"articles"`
}

// NewOutputChunk returns an empty chunk.
func NewOutputChunk() *OutputChunk {
	return &OutputChunk{Articles: map[string]*OutputArticle{}}
}

// AbbreviationEntry pairs a short form with its definition.
type AbbreviationEntry struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

// LongFormSeparator joins definitions merged under one short form.
const LongFormSeparator = " | "

// AbbreviationTable is the merged glossary across documents, one joined
// definition per short form.
type AbbreviationTable map[string]string

// Glossary accumulates the definitions seen for each short form. Definitions
// are kept apart until Table joins them, so a definition that contains
// LongFormSeparator never hides another one.
type Glossary struct {
	longForms map[string][]string
}

// NewGlossary returns an empty Glossary.
func NewGlossary() *Glossary {
	return &Glossary{longForms: map[string][]string{}}
}

// Merge appends long to the definitions of short. A definition already
// recorded for short is not added twice.
func (g *Glossary) Merge(short, long string) {
	for _, existing := range g.longForms[short] {
		if existing == long {
			return
		}
	}
	g.longForms[short] = append(g.longForms[short], long)
}

// MergeAll merges every entry of abbreviations.
func (g *Glossary) MergeAll(abbreviations map[string]string) {
	for short, long := range abbreviations {
		g.Merge(short, long)
	}
}

// LongForms returns the definitions recorded for short in merge order.
func (g *Glossary) LongForms(short string) []string {
	return g.longForms[short]
}

// Len is the number of short forms.
func (g *Glossary) Len() int { return len(g.longForms) }

// Table joins each short form's definitions with LongFormSeparator.
func (g *Glossary) Table() AbbreviationTable {
	table := make(AbbreviationTable, len(g.longForms))
	for short, longForms := range g.longForms {
		table[short] = strings.Join(longForms, LongFormSeparator)
	}
	return table
}
