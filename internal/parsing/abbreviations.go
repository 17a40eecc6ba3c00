package parsing

// MaxShortFormLen bounds the byte length of a short form: a candidate must be
// strictly shorter than this.
const MaxShortFormLen = 10

// pairingState is either emptyState or pendingShortForm.
type pairingState interface {
	isPairingState()
}

type emptyState struct{}

type pendingShortForm struct {
	short string
}

func (emptyState) isPairingState()       {}
func (pendingShortForm) isPairingState() {}

// PairingMachine recovers abbreviation pairs from the alternating
// short form / long form paragraphs of an abbreviations section.
// The zero value is ready to use.
type PairingMachine struct {
	state pairingState
}

// Feed consumes the text of one ABBR paragraph. It returns an entry when text
// completes a pair.
func (m *PairingMachine) Feed(text string) (AbbreviationEntry, bool) {
	switch state := m.current().(type) {
	case pendingShortForm:
		m.state = emptyState{}
		return AbbreviationEntry{Short: state.short, Long: text}, true
	default:
		if len(text) < MaxShortFormLen {
			m.state = pendingShortForm{short: text}
		}
		// Too long for a short form: stay empty and drop it.
		return AbbreviationEntry{}, false
	}
}

// Pending returns the short form waiting for its definition, if any.
func (m *PairingMachine) Pending() (string, bool) {
	state, ok := m.current().(pendingShortForm)
	return state.short, ok
}

// Reset returns the machine to the empty state, discarding an orphaned short
// form, which is returned.
func (m *PairingMachine) Reset() (string, bool) {
	orphan, ok := m.Pending()
	m.state = emptyState{}
	return orphan, ok
}

func (m *PairingMachine) current() pairingState {
	if m.state == nil {
		return emptyState{}
	}
	return m.state
}
