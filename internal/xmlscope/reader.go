// Package xmlscope reads scoped regions out of a tag event stream without
// building a document tree.
//
// Usage:
//
//	r := xmlscope.NewReader(xmlscope.FromXML(f))
//	if _, err := r.Seek("sec"); err != nil { ... }
//	text, err := r.CollectUntilClose("sec", "xref")
package xmlscope

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTagNotFound is returned by Seek when the stream ends first.
	ErrTagNotFound = errors.New("tag not found")
	// ErrUnexpectedEOF is returned when a region is still open at end of stream.
	ErrUnexpectedEOF = errors.New("unexpected end of stream")
)

// Scope accumulates the character data of one open element. It is advanced
// one event at a time with Step and knows nothing about where events come from.
type Scope struct {
	tag        string
	exclusions map[string]struct{}
	open       []string // elements opened inside the region, innermost last
	excluded   int      // how many of the open elements are exclusions
	text       strings.Builder
	done       bool
	underflow  bool
}

// NewScope starts a region for an element whose start tag was already consumed.
func NewScope(tag string, exclusions ...string) *Scope {
	s := &Scope{tag: tag}
	if len(exclusions) > 0 {
		s.exclusions = make(map[string]struct{}, len(exclusions))
		for _, name := range exclusions {
			s.exclusions[name] = struct{}{}
		}
	}
	return s
}

// Step feeds one event into the scope and reports whether the region is closed.
// Character data nested under an excluded element is dropped. An end tag at
// depth zero closes the region; if it does not name the region's tag the scope
// records an underflow and stops anyway.
func (s *Scope) Step(ev Event) bool {
	if s.done {
		return true
	}

	switch ev.Kind {
	case StartElement:
		s.open = append(s.open, ev.Name)
		if s.isExcluded(ev.Name) {
			s.excluded++
		}
	case EndElement:
		if len(s.open) == 0 {
			s.done = true
			s.underflow = ev.Name != s.tag
			return true
		}
		name := s.open[len(s.open)-1]
		s.open = s.open[:len(s.open)-1]
		if s.isExcluded(name) {
			s.excluded--
		}
	case CharData:
		if s.excluded == 0 {
			s.text.WriteString(ev.Data)
		}
	case EOF:
		s.done = true
	}
	return s.done
}

func (s *Scope) isExcluded(name string) bool {
	_, ok := s.exclusions[name]
	return ok
}

// Depth is the number of elements currently open inside the region.
func (s *Scope) Depth() int { return len(s.open) }

// Excluding reports whether character data is currently being dropped.
func (s *Scope) Excluding() bool { return s.excluded > 0 }

// Done reports whether the region has been closed or the stream has ended.
func (s *Scope) Done() bool { return s.done }

// Underflow reports whether the region was closed by a mismatched end tag.
func (s *Scope) Underflow() bool { return s.underflow }

// Text returns the character data collected so far.
func (s *Scope) Text() string { return s.text.String() }

// Reader is a forward-only cursor over an EventSource.
type Reader struct {
	src    EventSource
	depth  int
	events int64
}

// NewReader wraps src.
func NewReader(src EventSource) *Reader {
	return &Reader{src: src}
}

// Next returns the next event and tracks document depth.
func (r *Reader) Next() (Event, error) {
	ev, err := r.src.Next()
	if err != nil {
		return Event{}, err
	}
	r.events++
	switch ev.Kind {
	case StartElement:
		r.depth++
	case EndElement:
		if r.depth > 0 {
			r.depth--
		}
	}
	return ev, nil
}

// Depth is the number of open elements at the cursor.
func (r *Reader) Depth() int { return r.depth }

// Events is the number of events consumed so far.
func (r *Reader) Events() int64 { return r.events }

// Seek discards events until a start tag named tag and returns it. The cursor
// is left immediately after that start tag.
func (r *Reader) Seek(tag string) (Event, error) {
	for {
		ev, err := r.Next()
		if err != nil {
			return Event{}, err
		}
		switch ev.Kind {
		case EOF:
			return Event{}, fmt.Errorf("seek %q: %w", tag, ErrTagNotFound)
		case StartElement:
			if ev.Name == tag {
				return ev, nil
			}
		}
	}
}

// CollectUntilClose concatenates the character data of the element tag, whose
// start tag must already have been consumed, skipping text under any of the
// exclusions. The matching end tag is consumed.
func (r *Reader) CollectUntilClose(tag string, exclusions ...string) (string, error) {
	scope := NewScope(tag, exclusions...)
	for {
		ev, err := r.Next()
		if err != nil {
			return scope.Text(), err
		}
		if scope.Step(ev) {
			if ev.Kind == EOF {
				return scope.Text(), fmt.Errorf("collect %q: %w", tag, ErrUnexpectedEOF)
			}
			return scope.Text(), nil
		}
	}
}

// Skip consumes the rest of the element tag without keeping its text.
func (r *Reader) Skip(tag string) error {
	scope := NewScope(tag)
	for {
		ev, err := r.Next()
		if err != nil {
			return err
		}
		if scope.Step(ev) {
			if ev.Kind == EOF {
				return fmt.Errorf("skip %q: %w", tag, ErrUnexpectedEOF)
			}
			return nil
		}
	}
}
