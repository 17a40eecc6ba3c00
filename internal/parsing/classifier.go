package parsing

import "strings"

// Section types used by PMC BioC exports.
const (
	SectionTitle      = "TITLE"
	SectionAbstract   = "ABSTRACT"
	SectionIntro      = "INTRO"
	SectionMethods    = "METHODS"
	SectionResults    = "RESULTS"
	SectionDiscuss    = "DISCUSS"
	SectionConcl      = "CONCL"
	SectionCase       = "CASE"
	SectionAbbr       = "ABBR"
	SectionKeyword    = "KEYWORD"
	SectionRef        = "REF"
	SectionFig        = "FIG"
	SectionTable      = "TABLE"
	SectionAppendix   = "APPENDIX"
	SectionCompInt    = "COMP_INT"
	SectionAuthCont   = "AUTH_CONT"
	SectionAckFund    = "ACK_FUND"
	SectionSuppl      = "SUPPL"
	SectionReviewInfo = "REVIEW_INFO"
	SectionBody       = "BODY"
)

// DefaultExclusions are dropped when no allow list is given. METHODS is kept.
var DefaultExclusions = map[string]struct{}{
	SectionRef:        {},
	SectionFig:        {},
	SectionTable:      {},
	SectionAppendix:   {},
	SectionCompInt:    {},
	SectionCase:       {},
	SectionAuthCont:   {},
	SectionAckFund:    {},
	SectionSuppl:      {},
	SectionReviewInfo: {},
}

// AllowList is a set of section types to retain. An empty list means the
// default exclusion policy applies.
type AllowList map[string]struct{}

// NewAllowList builds an allow list. Entries are trimmed and upper-cased to
// match the section type vocabulary; blank entries are ignored.
func NewAllowList(sectionTypes ...string) AllowList {
	allowed := AllowList{}
	for _, sectionType := range sectionTypes {
		sectionType = strings.ToUpper(strings.TrimSpace(sectionType))
		if sectionType == "" {
			continue
		}
		allowed[sectionType] = struct{}{}
	}
	return allowed
}

// Contains reports whether sectionType is in the list.
func (a AllowList) Contains(sectionType string) bool {
	_, ok := a[sectionType]
	return ok
}

// Retain decides whether a passage with the given section type is kept.
// ABBR passages are always kept since they feed the abbreviation pairing.
func Retain(sectionType string, allowed AllowList) bool {
	if len(allowed) == 0 {
		_, excluded := DefaultExclusions[sectionType]
		return !excluded
	}
	if sectionType == SectionAbbr {
		return true
	}
	return allowed.Contains(sectionType)
}
