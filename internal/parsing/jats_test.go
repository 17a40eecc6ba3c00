package parsing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bioc-extractor/internal/xmlscope"
)

const jatsArticle = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE article PUBLIC "-//NLM//DTD JATS (Z39.96) Journal Archiving and Interchange DTD v1.2 20190208//EN" "JATS-archivearticle1.dtd">
<article xmlns:xlink="http://www.w3.org/1999/xlink" article-type="research-article">
  <front>
    <journal-meta><journal-id>J Tumour</journal-id></journal-meta>
    <article-meta>
      <article-id pub-id-type="pmid">31000001</article-id>
      <article-id pub-id-type="pmc">6543210</article-id>
      <title-group>
        <article-title>Tumour growth in <italic>mice</italic></article-title>
      </title-group>
      <contrib-group><contrib><name><surname>Smith</surname></name></contrib></contrib-group>
      <pub-date pub-type="epub"><day>4</day><month>7</month><year>2019</year></pub-date>
      <abstract>
        <p>We measured
          tumour growth.</p>
      </abstract>
    </article-meta>
  </front>
  <body>
    <sec sec-type="intro">
      <title>Introduction</title>
      <p>Tumours grow <xref ref-type="bibr" rid="B1">[1]</xref>quickly.</p>
    </sec>
    <sec>
      <title>Materials and Methods</title>
      <p>Mice were housed.</p>
      <fig id="F1"><label>Figure 1</label><caption><p>Figure caption.</p></caption></fig>
      <sec>
        <title>Statistics</title>
        <p>We used R.</p>
      </sec>
    </sec>
    <sec>
      <title>Overview</title>
      <p>Plain body.</p>
    </sec>
  </body>
  <back>
    <ack><title>Acknowledgements</title><p>We thank the lab.</p></ack>
    <glossary>
      <title>Abbreviations</title>
      <def-list>
        <def-item><term>TG</term><def><p>tumour growth</p></def></def-item>
        <def-item><term>R</term><def><p>a language for statistics</p></def></def-item>
      </def-list>
    </glossary>
    <ref-list>
      <ref id="B1"><element-citation><article-title>Other work</article-title></element-citation></ref>
    </ref-list>
  </back>
</article>`

func TestExtractJATS(t *testing.T) {
	e := NewExtractor(Options{}, nil)

	articles, err := e.ExtractJATS("PMC6543210.nxml", strings.NewReader(jatsArticle))
	require.NoError(t, err)
	require.Len(t, articles, 1)

	article := articles[0]
	assert.Equal(t, "Tumour growth in mice", article.Title)
	assert.Equal(t, "2019", article.Year)
	assert.Equal(t, "6543210", article.PMID)
	assert.Equal(t, []OutputParagraph{
		{ParType: SectionAbstract, Text: "We measured tumour growth."},
		{ParType: SectionIntro, Text: "Tumours grow quickly."},
		{ParType: SectionMethods, Text: "Mice were housed."},
		{ParType: SectionMethods, Text: "We used R."},
		{ParType: SectionBody, Text: "Plain body."},
	}, article.Paragraphs)
	assert.Equal(t, map[string]string{
		"TG": "tumour growth",
		"R":  "a language for statistics",
	}, article.Abbreviations)
}

func TestExtractJATSAllowList(t *testing.T) {
	e := NewExtractor(Options{Allowed: NewAllowList("FIG", "ACK_FUND")}, nil)

	articles, err := e.ExtractJATS("a.nxml", strings.NewReader(jatsArticle))
	require.NoError(t, err)

	assert.Equal(t, []OutputParagraph{
		{ParType: SectionFig, Text: "Figure caption."},
		{ParType: SectionAckFund, Text: "We thank the lab."},
	}, articles[0].Paragraphs)
}

func TestExtractJATSErrors(t *testing.T) {
	e := NewExtractor(Options{}, nil)

	_, err := e.ExtractJATS("a.nxml", strings.NewReader(`<html><body/></html>`))
	assert.ErrorIs(t, err, xmlscope.ErrTagNotFound)

	_, err = e.ExtractJATS("a.nxml", strings.NewReader(`<article><body><sec><p>cut off`))
	assert.Error(t, err)
}

func TestExtractJATSReferences(t *testing.T) {
	e := NewExtractor(Options{Allowed: NewAllowList("REF")}, nil)

	articles, err := e.ExtractJATS("a.nxml", strings.NewReader(jatsArticle))
	require.NoError(t, err)

	assert.Equal(t, []OutputParagraph{
		{ParType: SectionRef, Text: "Other work"},
	}, articles[0].Paragraphs)
}

func TestExtractJATSReferenceFields(t *testing.T) {
	doc := `<article><back><ref-list><title>References</title>
<ref id="B1"><label>1</label><element-citation><person-group><name><surname>Smith</surname><given-names>J</given-names></name></person-group><article-title>Tumour growth</article-title><year>2001</year></element-citation></ref>
</ref-list></back></article>`
	e := NewExtractor(Options{Allowed: NewAllowList("REF")}, nil)

	articles, err := e.ExtractJATS("a.nxml", strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []OutputParagraph{
		{ParType: SectionRef, Text: "1 Smith J Tumour growth 2001"},
	}, articles[0].Paragraphs)

	articles, err = NewExtractor(Options{}, nil).ExtractJATS("a.nxml", strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, articles[0].Paragraphs)
}
