package parsing

import (
	"fmt"
	"strings"

	"bioc-extractor/internal/xmlscope"
)

// frame is an element the XML front ends track for section context.
type frame struct {
	name    string
	section string
	titled  bool
}

// streamWalker turns a tag stream into passages for an ArticleBuilder. It
// keeps a stack of structural elements only; text is pulled per unit with
// CollectUntilClose.
type streamWalker struct {
	reader  *xmlscope.Reader
	builder *ArticleBuilder
	frames  []frame
	offset  int

	front     map[string]string
	title     string
	frontDone bool
}

func newStreamWalker(reader *xmlscope.Reader, builder *ArticleBuilder) *streamWalker {
	return &streamWalker{
		reader:  reader,
		builder: builder,
		front:   map[string]string{},
		offset:  1,
	}
}

func (w *streamWalker) push(name, section string) {
	w.frames = append(w.frames, frame{name: name, section: section})
}

// pop drops the innermost frame if it belongs to the element being closed.
func (w *streamWalker) pop(name string) {
	if n := len(w.frames); n > 0 && w.frames[n-1].name == name {
		w.frames = w.frames[:n-1]
	}
}

func (w *streamWalker) top() *frame {
	if len(w.frames) == 0 {
		return nil
	}
	return &w.frames[len(w.frames)-1]
}

// section is the section type of the innermost tracked element, or "" when
// the cursor is outside any content region.
func (w *streamWalker) section() string {
	if f := w.top(); f != nil {
		return f.section
	}
	return ""
}

func (w *streamWalker) inside(name string) bool {
	for i := len(w.frames) - 1; i >= 0; i-- {
		if w.frames[i].name == name {
			return true
		}
	}
	return false
}

// childSection is the section a new nested element starts in.
func (w *streamWalker) childSection(fallback string) string {
	if section := w.section(); section != "" {
		return section
	}
	return fallback
}

// retitle applies a heading to the innermost frame. Abstract frames keep
// their type, as do frames whose heading is unrecognised.
func (w *streamWalker) retitle(heading string) {
	f := w.top()
	if f == nil || f.titled {
		return
	}
	f.titled = true
	if f.section == SectionAbstract {
		return
	}
	if sectionType := ClassifyHeading(heading); sectionType != SectionBody {
		f.section = sectionType
	}
}

// emit hands one passage to the builder.
func (w *streamWalker) emit(sectionType, parType, text string) {
	text = normalizeSpace(text)
	if text == "" {
		return
	}
	w.builder.Add(Passage{
		Offset: w.offset,
		Infons: map[string]string{KeySectionType: sectionType, KeyType: parType},
		Text:   text,
	})
	w.offset += len([]rune(text)) + 1
}

// emitFront sends the front-matter passage once, at offset zero.
func (w *streamWalker) emitFront() {
	if w.frontDone {
		return
	}
	w.frontDone = true
	if w.title == "" && len(w.front) == 0 {
		return
	}
	infons := map[string]string{KeySectionType: SectionTitle, KeyType: TypeFront}
	for key, value := range w.front {
		infons[key] = value
	}
	w.builder.Add(Passage{Offset: 0, Infons: infons, Text: w.title})
}

func (w *streamWalker) setFront(key, value string) {
	value = normalizeSpace(value)
	if value == "" {
		return
	}
	if _, ok := w.front[key]; !ok {
		w.front[key] = value
	}
}

// collect pulls the text of the element whose start tag was just read.
func (w *streamWalker) collect(tag string, exclusions ...string) (string, error) {
	return w.reader.CollectUntilClose(tag, exclusions...)
}

// collectFields pulls the text of a structured element such as a citation,
// separating the text of its child elements with spaces.
func (w *streamWalker) collectFields(tag string) (string, error) {
	scope := xmlscope.NewScope(tag)
	var fields []string
	for {
		ev, err := w.reader.Next()
		if err != nil {
			return "", err
		}
		done := scope.Step(ev)
		if ev.Kind == xmlscope.EOF {
			return "", fmt.Errorf("collect %q: %w", tag, xmlscope.ErrUnexpectedEOF)
		}
		if ev.Kind == xmlscope.CharData {
			fields = append(fields, ev.Data)
		}
		if done {
			return normalizeSpace(strings.Join(fields, " ")), nil
		}
	}
}

// normalizeSpace collapses the layout whitespace of pretty-printed XML.
func normalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
