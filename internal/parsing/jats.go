package parsing

import (
	"fmt"
	"io"

	"bioc-extractor/internal/xmlscope"
)

// JATSExclusions are inline elements whose text is dropped from paragraphs.
var JATSExclusions = []string{"xref"}

// jatsRegions map container elements to the section type of their content.
var jatsRegions = map[string]string{
	"fig":                    SectionFig,
	"table-wrap":             SectionTable,
	"supplementary-material": SectionSuppl,
	"ack":                    SectionAckFund,
	"app":                    SectionAppendix,
	"app-group":              SectionAppendix,
	"glossary":               SectionAbbr,
	"def-list":               SectionAbbr,
}

// jatsFootnotes map fn-type values to section types.
var jatsFootnotes = map[string]string{
	"conflict":             SectionCompInt,
	"coi-statement":        SectionCompInt,
	"con":                  SectionAuthCont,
	"financial-disclosure": SectionAckFund,
	"supported-by":         SectionAckFund,
}

// ExtractJATS streams a JATS (PMC nxml) article into one OutputArticle.
func (e *Extractor) ExtractJATS(file string, r io.Reader) ([]*OutputArticle, error) {
	reader := xmlscope.NewReader(xmlscope.FromXML(r))
	builder := e.NewArticle(file)

	walker := &jatsWalker{streamWalker: newStreamWalker(reader, builder)}
	if err := walker.run(); err != nil {
		return nil, fmt.Errorf("jats: %w", err)
	}
	builder.log.WithField("events", reader.Events()).Debug("JATS stream read")
	return []*OutputArticle{builder.Finish()}, nil
}

type jatsWalker struct {
	*streamWalker
}

func (w *jatsWalker) run() error {
	if _, err := w.reader.Seek("article"); err != nil {
		return fmt.Errorf("no <article> element: %w", err)
	}
	for {
		ev, err := w.reader.Next()
		if err != nil {
			return err
		}
		switch ev.Kind {
		case xmlscope.EOF:
			w.emitFront()
			return nil
		case xmlscope.StartElement:
			if err := w.start(ev); err != nil {
				return err
			}
		case xmlscope.EndElement:
			w.end(ev)
		}
	}
}

func (w *jatsWalker) start(ev xmlscope.Event) error {
	switch ev.Name {
	case "article-id":
		text, err := w.collect(ev.Name)
		if err != nil {
			return err
		}
		if !w.inside("article-meta") {
			return nil
		}
		switch ev.Attr["pub-id-type"] {
		case "pmc", "pmcid":
			w.setFront(KeyPMC, text)
		case "pmid":
			w.setFront(KeyPMID, text)
		case "doi":
			w.setFront(KeyDOI, text)
		}
		return nil

	case "article-meta":
		w.push(ev.Name, "")
		return nil

	case "article-title":
		text, err := w.collect(ev.Name, JATSExclusions...)
		if err != nil {
			return err
		}
		if w.inside("article-meta") && w.title == "" {
			w.title = normalizeSpace(text)
		}
		return nil

	case "pub-date":
		w.push(ev.Name, "")
		return nil

	case "year":
		text, err := w.collect(ev.Name)
		if err != nil {
			return err
		}
		if w.inside("pub-date") {
			w.setFront(KeyYear, text)
		}
		return nil

	case "abstract", "trans-abstract":
		w.push(ev.Name, SectionAbstract)
		return nil

	case "body", "back":
		w.emitFront()
		w.push(ev.Name, w.childSection(SectionBody))
		return nil

	case "sec":
		section := w.childSection(SectionBody)
		typed := false
		if secType := ev.Attr["sec-type"]; secType != "" && section != SectionAbstract {
			if classified := ClassifyHeading(secType); classified != SectionBody {
				section, typed = classified, true
			}
		}
		w.push(ev.Name, section)
		// a recognised sec-type outranks the title
		w.top().titled = typed
		return nil

	case "title":
		text, err := w.collect(ev.Name, JATSExclusions...)
		if err != nil {
			return err
		}
		if f := w.top(); f != nil && f.name == "sec" {
			w.retitle(text)
		}
		return nil

	case "fn":
		section := w.childSection(SectionBody)
		if mapped, ok := jatsFootnotes[ev.Attr["fn-type"]]; ok {
			section = mapped
		}
		w.push(ev.Name, section)
		return nil

	case "ref-list":
		w.push(ev.Name, SectionRef)
		return nil

	case "ref":
		if w.section() != SectionRef {
			return nil
		}
		text, err := w.collectFields(ev.Name)
		if err != nil {
			return err
		}
		w.emit(SectionRef, TypeParagraph, text)
		return nil

	case "kwd-group", "contrib-group", "aff", "author-notes", "history", "permissions":
		return w.reader.Skip(ev.Name)

	case "term":
		if w.section() != SectionAbbr {
			return nil
		}
		text, err := w.collect(ev.Name, JATSExclusions...)
		if err != nil {
			return err
		}
		w.emit(SectionAbbr, TypeParagraph, text)
		return nil

	case "def":
		if w.section() != SectionAbbr {
			return nil
		}
		text, err := w.collect(ev.Name, JATSExclusions...)
		if err != nil {
			return err
		}
		w.emit(SectionAbbr, TypeParagraph, text)
		return nil

	case "p":
		section := w.section()
		if section == "" {
			return w.reader.Skip(ev.Name)
		}
		text, err := w.collect(ev.Name, JATSExclusions...)
		if err != nil {
			return err
		}
		parType := TypeParagraph
		if section == SectionAbstract {
			parType = TypeAbstract
		}
		w.emit(section, parType, text)
		return nil
	}

	if section, ok := jatsRegions[ev.Name]; ok {
		w.push(ev.Name, section)
	}
	return nil
}

func (w *jatsWalker) end(ev xmlscope.Event) {
	if ev.Name == "article-meta" {
		w.emitFront()
	}
	w.pop(ev.Name)
}
