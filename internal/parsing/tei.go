package parsing

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"bioc-extractor/internal/xmlscope"
)

// TEIExclusions are inline elements whose text is dropped from paragraphs.
var TEIExclusions = []string{"ref"}

// teiDivTypes map the type attribute of back-matter divs to section types.
var teiDivTypes = map[string]string{
	"acknowledgement":  SectionAckFund,
	"acknowledgements": SectionAckFund,
	"funding":          SectionAckFund,
	"annex":            SectionAppendix,
	"availability":     SectionSuppl,
	"conflict":         SectionCompInt,
	"contribution":     SectionAuthCont,
	"references":       SectionRef,
}

var yearPattern = regexp.MustCompile(`\b(1[89]|20)\d\d\b`)

// ExtractTEI streams a TEI document, as produced by GROBID, into one
// OutputArticle.
func (e *Extractor) ExtractTEI(file string, r io.Reader) ([]*OutputArticle, error) {
	reader := xmlscope.NewReader(xmlscope.FromXML(r))
	builder := e.NewArticle(file)

	walker := &teiWalker{streamWalker: newStreamWalker(reader, builder)}
	if err := walker.run(); err != nil {
		return nil, fmt.Errorf("tei: %w", err)
	}
	builder.log.WithField("events", reader.Events()).Debug("TEI stream read")
	return []*OutputArticle{builder.Finish()}, nil
}

type teiWalker struct {
	*streamWalker
}

// run enters the first TEI element, which for a teiCorpus is its first
// document.
func (w *teiWalker) run() error {
	if _, err := w.reader.Seek("TEI"); err != nil {
		return fmt.Errorf("no <TEI> element: %w", err)
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
			if ev.Name == "teiHeader" {
				w.emitFront()
			}
			w.pop(ev.Name)
		}
	}
}

func (w *teiWalker) start(ev xmlscope.Event) error {
	switch ev.Name {
	case "teiHeader", "titleStmt", "analytic", "publicationStmt":
		w.push(ev.Name, "")
		return nil

	case "title":
		text, err := w.collect(ev.Name)
		if err != nil {
			return err
		}
		if w.title == "" && (w.inside("titleStmt") || (w.inside("analytic") && ev.Attr["level"] == "a")) {
			w.title = normalizeSpace(text)
		}
		return nil

	case "idno":
		text, err := w.collect(ev.Name)
		if err != nil {
			return err
		}
		if !w.inside("teiHeader") {
			return nil
		}
		switch strings.ToUpper(ev.Attr["type"]) {
		case "DOI":
			w.setFront(KeyDOI, text)
		case "PMID":
			w.setFront(KeyPMID, text)
		case "PMCID":
			w.setFront(KeyPMC, text)
		}
		return nil

	case "date":
		if !w.inside("teiHeader") {
			return nil
		}
		if when := ev.Attr["when"]; len(when) >= 4 {
			w.setFront(KeyYear, when[:4])
			return w.reader.Skip(ev.Name)
		}
		text, err := w.collect(ev.Name)
		if err != nil {
			return err
		}
		w.setFront(KeyYear, yearPattern.FindString(text))
		return nil

	case "abstract":
		w.push(ev.Name, SectionAbstract)
		return nil

	case "body", "back":
		w.emitFront()
		w.push(ev.Name, SectionBody)
		return nil

	case "div":
		section := w.childSection(SectionBody)
		mapped, typed := teiDivTypes[strings.ToLower(ev.Attr["type"])]
		if typed && section != SectionAbstract {
			section = mapped
		}
		w.push(ev.Name, section)
		w.top().titled = typed
		return nil

	case "head":
		text, err := w.collect(ev.Name, TEIExclusions...)
		if err != nil {
			return err
		}
		if f := w.top(); f != nil && f.name == "div" {
			w.retitle(text)
		}
		return nil

	case "figure":
		section := SectionFig
		if ev.Attr["type"] == "table" {
			section = SectionTable
		}
		w.push(ev.Name, section)
		return nil

	case "listBibl":
		if w.inside("teiHeader") {
			return w.reader.Skip(ev.Name)
		}
		w.push(ev.Name, SectionRef)
		return nil

	case "biblStruct":
		if w.section() != SectionRef {
			return nil
		}
		text, err := w.collectFields(ev.Name)
		if err != nil {
			return err
		}
		w.emit(SectionRef, TypeParagraph, text)
		return nil

	case "encodingDesc", "facsimile":
		return w.reader.Skip(ev.Name)

	case "p":
		section := w.section()
		if section == "" {
			return w.reader.Skip(ev.Name)
		}
		text, err := w.collect(ev.Name, TEIExclusions...)
		if err != nil {
			return err
		}
		parType := TypeParagraph
		if section == SectionAbstract {
			parType = TypeAbstract
		}
		w.emit(section, parType, text)
	}
	return nil
}
