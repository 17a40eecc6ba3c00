package parsing

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Options configure an Extractor. They are fixed for the whole run.
type Options struct {
	// Allowed restricts output to these section types. Empty means the
	// default exclusion policy.
	Allowed AllowList
	// Sentences emits one paragraph per sentence instead of per passage.
	Sentences bool
	// Language is handed to the segmenter.
	Language string
	// Segmenter is used when Sentences is set. Defaults to UnicodeSegmenter.
	Segmenter Segmenter
}

// Extractor turns documents into OutputArticles.
type Extractor struct {
	opts Options
	log  logrus.FieldLogger
}

// NewExtractor returns an Extractor. A nil log discards messages.
func NewExtractor(opts Options, log logrus.FieldLogger) *Extractor {
	if opts.Segmenter == nil {
		opts.Segmenter = UnicodeSegmenter{}
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Extractor{opts: opts, log: log}
}

// ExtractDocument runs one materialized document through a builder.
func (e *Extractor) ExtractDocument(file string, doc *Document) *OutputArticle {
	builder := e.NewArticle(file)
	builder.SetDocumentID(doc.ID)
	for _, passage := range doc.Passages {
		builder.Add(passage)
	}
	return builder.Finish()
}

// NewArticle starts an article for passages that arrive one at a time, as
// they do from the streaming XML front ends.
func (e *Extractor) NewArticle(file string) *ArticleBuilder {
	return &ArticleBuilder{
		opts:    e.opts,
		log:     e.log.WithField("file", file),
		article: NewOutputArticle(file),
	}
}

// ArticleBuilder accumulates one OutputArticle over a single ordered pass
// through a document's passages.
type ArticleBuilder struct {
	opts     Options
	log      logrus.FieldLogger
	article  *OutputArticle
	pairing  PairingMachine
	sawFront bool
	warnings int
}

// Add processes the next passage in document order.
func (b *ArticleBuilder) Add(passage Passage) {
	sectionType, ok := passage.SectionType()
	if !ok {
		b.warnings++
		b.log.WithField("offset", passage.Offset).Warn("passage has no section_type")
		return
	}
	parType := passage.Type()

	if parType == TypeFront && passage.Offset == 0 && !b.sawFront {
		b.sawFront = true
		b.readFront(passage)
	}

	if sectionType == SectionAbbr {
		if parType == TypeParagraph {
			if entry, ok := b.pairing.Feed(passage.Text); ok {
				b.article.Abbreviations[entry.Short] = entry.Long
			}
		}
		return
	}

	if !Retain(sectionType, b.opts.Allowed) {
		return
	}

	if parType != TypeParagraph && parType != TypeAbstract {
		return
	}

	if !b.opts.Sentences {
		b.article.Paragraphs = append(b.article.Paragraphs, OutputParagraph{
			ParType: sectionType,
			Text:    passage.Text,
		})
		return
	}
	for _, sentence := range b.opts.Segmenter.Split(passage.Text, b.opts.Language) {
		b.article.Paragraphs = append(b.article.Paragraphs, OutputParagraph{
			ParType: sectionType,
			Text:    sentence,
		})
	}
}

func (b *ArticleBuilder) readFront(passage Passage) {
	if year, ok := passage.Infon(KeyYear); ok {
		b.article.Year = year
	}
	if id, ok := passage.Infon(KeyPMC); ok {
		b.article.PMID = id
	} else if id, ok := passage.Infon(KeyPMID); ok {
		b.article.PMID = id
	} else if id, ok := passage.Infon(KeyDOI); ok {
		b.article.PMID = id
	}
	if passage.Text != "" {
		b.article.Title = passage.Text
	}
}

// SetDocumentID records the identifier the input declares for the document.
func (b *ArticleBuilder) SetDocumentID(id string) {
	b.article.DocumentID = id
}

// Warnings is the number of data-quality warnings raised so far.
func (b *ArticleBuilder) Warnings() int { return b.warnings }

// Finish discards any unpaired short form and returns the article.
func (b *ArticleBuilder) Finish() *OutputArticle {
	if orphan, ok := b.pairing.Reset(); ok {
		b.log.WithField("short_form", orphan).Debug("abbreviation without definition discarded")
	}
	return b.article
}
