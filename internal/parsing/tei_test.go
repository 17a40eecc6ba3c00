package parsing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bioc-extractor/internal/xmlscope"
)

const teiDocument = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xml:space="preserve" xmlns="http://www.tei-c.org/ns/1.0">
  <teiHeader xml:lang="en">
    <fileDesc>
      <titleStmt>
        <title level="a" type="main">Zebrafish larvae and tebuconazole</title>
      </titleStmt>
      <publicationStmt>
        <publisher>Elsevier BV</publisher>
        <availability status="unknown"><p>Copyright Elsevier</p></availability>
        <date type="published" when="2017-08-01">1 August 2017</date>
      </publicationStmt>
      <sourceDesc>
        <biblStruct>
          <analytic>
            <title level="a" type="main">Zebrafish larvae and tebuconazole</title>
            <idno type="DOI">10.1016/j.chemosphere.2017.04.029</idno>
          </analytic>
        </biblStruct>
      </sourceDesc>
    </fileDesc>
    <profileDesc>
      <abstract>
        <div><p>Tebuconazole alters behaviour.</p></div>
      </abstract>
    </profileDesc>
  </teiHeader>
  <text xml:lang="en">
    <body>
      <div><head n="1.">Introduction</head><p>Fungicides are common <ref type="bibr" target="#b0">(Smith, 2010)</ref>.</p></div>
      <div><head n="2.">Methods</head><p>Larvae were exposed.</p>
        <figure xml:id="fig_0"><head>Figure 1</head><figDesc>Exposure setup.</figDesc></figure>
      </div>
      <div><head>CT</head><p>computed tomography</p></div>
    </body>
    <back>
      <div type="acknowledgement"><div><head>Acknowledgements</head><p>Funded by a grant.</p></div></div>
      <div type="annex"><div><head>Abbreviations</head><p>TEB</p><p>tebuconazole</p></div></div>
      <div type="references"><listBibl><biblStruct><analytic><title>Old</title><idno type="DOI">10.1/old</idno></analytic></biblStruct></listBibl></div>
    </back>
  </text>
</TEI>`

func TestExtractTEI(t *testing.T) {
	e := NewExtractor(Options{}, nil)

	articles, err := e.ExtractTEI("paper.tei.xml", strings.NewReader(teiDocument))
	require.NoError(t, err)
	require.Len(t, articles, 1)

	article := articles[0]
	assert.Equal(t, "Zebrafish larvae and tebuconazole", article.Title)
	assert.Equal(t, "2017", article.Year)
	assert.Equal(t, "10.1016/j.chemosphere.2017.04.029", article.PMID)
	assert.Equal(t, []OutputParagraph{
		{ParType: SectionAbstract, Text: "Tebuconazole alters behaviour."},
		{ParType: SectionIntro, Text: "Fungicides are common ."},
		{ParType: SectionMethods, Text: "Larvae were exposed."},
		{ParType: SectionBody, Text: "computed tomography"},
	}, article.Paragraphs)
	assert.Equal(t, map[string]string{"TEB": "tebuconazole"}, article.Abbreviations)
}

func TestExtractTEIAbbreviations(t *testing.T) {
	doc := `<TEI><text><back><div><head>List of abbreviations</head><p>TEB</p><p>tebuconazole</p><p>DMSO</p></div></back></text></TEI>`
	e := NewExtractor(Options{}, nil)

	articles, err := e.ExtractTEI("a.tei.xml", strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"TEB": "tebuconazole"}, articles[0].Abbreviations)
	assert.Equal(t, Unknown, articles[0].Title)
}

func TestExtractTEIWithoutRoot(t *testing.T) {
	e := NewExtractor(Options{}, nil)
	_, err := e.ExtractTEI("a.xml", strings.NewReader(`<article/>`))
	assert.ErrorIs(t, err, xmlscope.ErrTagNotFound)
}

func TestExtractTEIReferences(t *testing.T) {
	e := NewExtractor(Options{Allowed: NewAllowList("REF")}, nil)

	articles, err := e.ExtractTEI("paper.tei.xml", strings.NewReader(teiDocument))
	require.NoError(t, err)

	article := articles[0]
	assert.Equal(t, []OutputParagraph{
		{ParType: SectionRef, Text: "Old 10.1/old"},
	}, article.Paragraphs)
	assert.Equal(t, "10.1016/j.chemosphere.2017.04.029", article.PMID)
}

func TestExtractTEICorpus(t *testing.T) {
	doc := `<teiCorpus><TEI><text><body><div><head>Results</head><p>It worked.</p></div></body></text></TEI></teiCorpus>`
	e := NewExtractor(Options{}, nil)

	articles, err := e.ExtractTEI("corpus.xml", strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []OutputParagraph{{ParType: SectionResults, Text: "It worked."}}, articles[0].Paragraphs)
}
