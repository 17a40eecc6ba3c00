package xmlscope

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Kind identifies the type of a tag stream event.
type Kind int

const (
	StartElement Kind = iota
	EndElement
	CharData
	EOF
)

func (k Kind) String() string {
	switch k {
	case StartElement:
		return "start"
	case EndElement:
		return "end"
	case CharData:
		return "chardata"
	case EOF:
		return "eof"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one step of a forward-only tag stream.
type Event struct {
	Kind Kind
	Name string            // local element name for start and end events
	Attr map[string]string // local attribute names, start events only
	Data string            // character data
}

// Start builds a start-tag event.
func Start(name string, attrs ...string) Event {
	ev := Event{Kind: StartElement, Name: name}
	if len(attrs) > 0 {
		ev.Attr = make(map[string]string, len(attrs)/2)
		for i := 0; i+1 < len(attrs); i += 2 {
			ev.Attr[attrs[i]] = attrs[i+1]
		}
	}
	return ev
}

// End builds an end-tag event.
func End(name string) Event { return Event{Kind: EndElement, Name: name} }

// Text builds a character-data event.
func Text(data string) Event { return Event{Kind: CharData, Data: data} }

// EventSource yields events until it returns an EOF event.
type EventSource interface {
	Next() (Event, error)
}

// sliceSource replays a fixed event sequence.
type sliceSource struct {
	events []Event
	pos    int
}

// FromEvents returns an EventSource over a synthetic sequence. An EOF event is
// produced once the sequence is exhausted.
func FromEvents(events ...Event) EventSource {
	return &sliceSource{events: events}
}

func (s *sliceSource) Next() (Event, error) {
	if s.pos >= len(s.events) {
		return Event{Kind: EOF}, nil
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// xmlSource adapts encoding/xml tokens to events. Comments, processing
// instructions and directives are dropped.
type xmlSource struct {
	decoder *xml.Decoder
}

// FromXML returns an EventSource reading XML from r. The decoder is lenient
// about unknown HTML entities, which show up in PMC and Grobid output.
func FromXML(r io.Reader) EventSource {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity
	return &xmlSource{decoder: decoder}
}

func (s *xmlSource) Next() (Event, error) {
	for {
		tok, err := s.decoder.Token()
		if errors.Is(err, io.EOF) {
			return Event{Kind: EOF}, nil
		}
		if err != nil {
			return Event{}, fmt.Errorf("read xml token: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			ev := Event{Kind: StartElement, Name: t.Name.Local}
			if len(t.Attr) > 0 {
				ev.Attr = make(map[string]string, len(t.Attr))
				for _, attr := range t.Attr {
					ev.Attr[attr.Name.Local] = attr.Value
				}
			}
			return ev, nil
		case xml.EndElement:
			return Event{Kind: EndElement, Name: t.Name.Local}, nil
		case xml.CharData:
			return Event{Kind: CharData, Data: string(t)}, nil
		}
	}
}
