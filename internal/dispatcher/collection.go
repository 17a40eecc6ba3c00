package dispatcher

import (
	"sync"
	"sync/atomic"

	"bioc-extractor/internal/parsing"
)

// Collection is the shared result of a run: the article chunk and the merged
// abbreviation table. Each has its own lock, held for one merge at a time.
type Collection struct {
	chunkMu sync.Mutex
	chunk   *parsing.OutputChunk

	abbreviationsMu sync.Mutex
	abbreviations   *parsing.Glossary
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{
		chunk:         parsing.NewOutputChunk(),
		abbreviations: parsing.NewGlossary(),
	}
}

// Insert stores article under its key. An existing article with the same key
// is replaced.
func (c *Collection) Insert(article *parsing.OutputArticle) (replaced bool) {
	key := article.Key()
	c.chunkMu.Lock()
	defer c.chunkMu.Unlock()
	_, replaced = c.chunk.Articles[key]
	c.chunk.Articles[key] = article
	return replaced
}

// MergeAbbreviations merges one article's abbreviations into the table.
func (c *Collection) MergeAbbreviations(abbreviations map[string]string) {
	c.abbreviationsMu.Lock()
	defer c.abbreviationsMu.Unlock()
	c.abbreviations.MergeAll(abbreviations)
}

// Chunk returns the article chunk. It must not be called while a run is
// still merging.
func (c *Collection) Chunk() *parsing.OutputChunk {
	c.chunkMu.Lock()
	defer c.chunkMu.Unlock()
	return c.chunk
}

// Abbreviations returns the merged table, with the same caveat as Chunk.
func (c *Collection) Abbreviations() parsing.AbbreviationTable {
	c.abbreviationsMu.Lock()
	defer c.abbreviationsMu.Unlock()
	return c.abbreviations.Table()
}

// Progress counts files as workers finish them. It is safe to read while a
// run is in flight.
type Progress struct {
	total     atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// ProgressSnapshot is a point-in-time copy of Progress.
type ProgressSnapshot struct {
	Total     int64 `json:"total"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// Snapshot reads the counters.
func (p *Progress) Snapshot() ProgressSnapshot {
	return ProgressSnapshot{
		Total:     p.total.Load(),
		Processed: p.processed.Load(),
		Failed:    p.failed.Load(),
	}
}
