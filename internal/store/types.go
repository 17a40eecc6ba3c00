package store

// Article is a row of the articles table.
type Article struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	Key       string `json:"article_key"`
	PMID      string `json:"pmid"`
	Year      string `json:"year"`
	Title     string `json:"title"`
	File      string `json:"file"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Paragraph is a row of the paragraphs table.
type Paragraph struct {
	ID        int64  `json:"id"`
	ArticleID int64  `json:"article_id"`
	Order     int64  `json:"order"`
	ParType   string `json:"par_type"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Abbreviation is a row of the abbreviations table.
type Abbreviation struct {
	ShortForm string `json:"short_form"`
	LongForm  string `json:"long_form"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
