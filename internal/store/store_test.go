package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bioc-extractor/internal/helpers"
	"bioc-extractor/internal/parsing"
)

// openTestStore connects to the database named by BIOEXTRACT_TEST_DSN, for
// example "sail:password@tcp(localhost:3306)/bioc_test".
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("BIOEXTRACT_TEST_DSN")
	if dsn == "" {
		t.Skip("BIOEXTRACT_TEST_DSN not set")
	}
	s, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestStore_SaveArticle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	key := "test-" + helpers.GenerateRandomString(8)
	article := parsing.NewOutputArticle("a.json")
	article.PMID = key
	article.Title = "Tumour growth"
	article.Paragraphs = []parsing.OutputParagraph{
		{ParType: parsing.SectionIntro, Text: "First."},
		{ParType: parsing.SectionResults, Text: "Second."},
	}

	id, err := s.SaveArticle(ctx, article)
	require.NoError(t, err)

	stored, err := s.FindArticleByKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, id, stored.ID)
	assert.Equal(t, "Tumour growth", stored.Title)
	assert.Len(t, stored.Slug, SlugLength)

	// saving again replaces the paragraphs of the same row
	article.Paragraphs = article.Paragraphs[:1]
	again, err := s.SaveArticle(ctx, article)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	paragraphs, err := s.FindParagraphs(ctx, id)
	require.NoError(t, err)
	require.Len(t, paragraphs, 1)
	assert.Equal(t, "First.", paragraphs[0].Text)
}

func TestStore_SaveAbbreviations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	short := "T" + helpers.GenerateRandomString(6)
	require.NoError(t, s.SaveAbbreviations(ctx, parsing.AbbreviationTable{short: "first"}))
	require.NoError(t, s.SaveAbbreviations(ctx, parsing.AbbreviationTable{short: "first | second"}))

	stored, err := s.FindAbbreviation(ctx, short)
	require.NoError(t, err)
	assert.Equal(t, "first | second", stored.LongForm)
}
