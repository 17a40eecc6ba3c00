package parsing

import "strings"

// headingRules map heading substrings to section types. Order matters: the
// first rule with a matching keyword wins.
var headingRules = []struct {
	sectionType string
	keywords    []string
}{
	{SectionAbbr, []string{"abbreviation", "acronym", "glossary"}},
	{SectionAuthCont, []string{"author contribution", "authors' contribution", "author's contribution", "contributorship"}},
	{SectionCompInt, []string{"competing interest", "conflict of interest", "conflicts of interest", "declaration of interest", "disclosure"}},
	{SectionAckFund, []string{"acknowledg", "funding", "financial support", "grant"}},
	{SectionReviewInfo, []string{"peer review", "reviewer", "review history"}},
	{SectionSuppl, []string{"supplementary", "supplemental", "supporting information", "additional file", "data availability", "availability of data"}},
	{SectionRef, []string{"references", "bibliography", "literature cited"}},
	{SectionAppendix, []string{"appendix", "appendices", "annex"}},
	{SectionAbstract, []string{"abstract", "summary"}},
	{SectionKeyword, []string{"keyword"}},
	{SectionCase, []string{"case report", "case presentation", "case description", "cases"}},
	{SectionIntro, []string{"intro", "background"}},
	{SectionMethods, []string{"method", "materials and", "experimental procedure", "study design", "patients and"}},
	{SectionResults, []string{"result", "finding"}},
	{SectionDiscuss, []string{"discussion"}},
	{SectionConcl, []string{"conclusion", "concluding"}},
}

var headingSeparators = strings.NewReplacer("-", " ", "_", " ", "|", " ")

// ClassifyHeading maps a free-text section heading (or a JATS sec-type value)
// to a section type. Unrecognised headings classify as BODY.
func ClassifyHeading(heading string) string {
	normalized := strings.ToLower(headingSeparators.Replace(heading))
	normalized = strings.Join(strings.Fields(normalized), " ")
	if normalized == "" {
		return SectionBody
	}
	for _, rule := range headingRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return rule.sectionType
			}
		}
	}
	return SectionBody
}
