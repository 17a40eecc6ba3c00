package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uniplaces/carbon"

	"bioc-extractor/internal/helpers"
	"bioc-extractor/internal/parsing"
)

// SlugLength is the length of the random slug given to new articles.
const SlugLength = 14

var schema = []string{
	"CREATE TABLE IF NOT EXISTS articles (" +
		"id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY, " +
		"slug VARCHAR(32) NOT NULL UNIQUE, " +
		"article_key VARCHAR(255) NOT NULL UNIQUE, " +
		"pmid VARCHAR(255) NOT NULL, " +
		"year VARCHAR(16) NOT NULL, " +
		"title TEXT NOT NULL, " +
		"file TEXT NOT NULL, " +
		"created_at DATETIME NOT NULL, " +
		"updated_at DATETIME NOT NULL" +
		") CHARACTER SET utf8mb4",
	"CREATE TABLE IF NOT EXISTS paragraphs (" +
		"id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY, " +
		"article_id BIGINT UNSIGNED NOT NULL, " +
		"`order` INT NOT NULL, " +
		"par_type VARCHAR(32) NOT NULL, " +
		"text MEDIUMTEXT NOT NULL, " +
		"created_at DATETIME NOT NULL, " +
		"updated_at DATETIME NOT NULL, " +
		"INDEX (article_id, `order`)" +
		") CHARACTER SET utf8mb4",
	"CREATE TABLE IF NOT EXISTS abbreviations (" +
		"short_form VARCHAR(64) NOT NULL PRIMARY KEY, " +
		"long_form TEXT NOT NULL, " +
		"created_at DATETIME NOT NULL, " +
		"updated_at DATETIME NOT NULL" +
		") CHARACTER SET utf8mb4",
}

// Store persists extraction results in MySQL.
type Store struct {
	db *sql.DB
}

// New creates a new Store instance
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to dsn and checks the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return New(db), nil
}

// Close closes the database.
func (store *Store) Close() error {
	return store.db.Close()
}

// Migrate creates the tables if they do not exist.
func (store *Store) Migrate(ctx context.Context) error {
	for _, statement := range schema {
		if _, err := store.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SaveArticle upserts the article under its key and replaces its paragraphs,
// in one transaction.
func (store *Store) SaveArticle(ctx context.Context, article *parsing.OutputArticle) (int64, error) {
	key := article.Key()
	if key == "" {
		return 0, errors.New("article has no key")
	}
	now := carbon.Now().DateTimeString()

	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// LAST_INSERT_ID(id) makes the existing row's id available on update.
	result, err := tx.ExecContext(ctx,
		"INSERT INTO articles (slug, article_key, pmid, year, title, file, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?) "+
			"ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id), pmid = VALUES(pmid), year = VALUES(year), title = VALUES(title), file = VALUES(file), updated_at = VALUES(updated_at)",
		helpers.GenerateRandomString(SlugLength), key, article.PMID, article.Year, article.Title, article.File, now, now)
	if err != nil {
		return 0, fmt.Errorf("save article %s: %w", key, err)
	}
	articleID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save article %s: %w", key, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM paragraphs WHERE article_id = ?", articleID); err != nil {
		return 0, fmt.Errorf("clear paragraphs of %s: %w", key, err)
	}
	for order, paragraph := range article.Paragraphs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO paragraphs (article_id, `order`, par_type, text, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			articleID, order, paragraph.ParType, paragraph.Text, now, now)
		if err != nil {
			return 0, fmt.Errorf("save paragraph %d of %s: %w", order, key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit article %s: %w", key, err)
	}
	return articleID, nil
}

// SaveChunk saves every article of the chunk. A failing article does not stop
// the others; all failures are returned together.
func (store *Store) SaveChunk(ctx context.Context, chunk *parsing.OutputChunk) (int, error) {
	keys := make([]string, 0, len(chunk.Articles))
	for key := range chunk.Articles {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	saved := 0
	var errs []error
	for _, key := range keys {
		if _, err := store.SaveArticle(ctx, chunk.Articles[key]); err != nil {
			errs = append(errs, err)
			continue
		}
		saved++
	}
	return saved, errors.Join(errs...)
}

// SaveAbbreviations upserts the merged table in one transaction.
func (store *Store) SaveAbbreviations(ctx context.Context, table parsing.AbbreviationTable) error {
	now := carbon.Now().DateTimeString()

	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for short, long := range table {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO abbreviations (short_form, long_form, created_at, updated_at) VALUES (?, ?, ?, ?) "+
				"ON DUPLICATE KEY UPDATE long_form = VALUES(long_form), updated_at = VALUES(updated_at)",
			short, long, now, now)
		if err != nil {
			return fmt.Errorf("save abbreviation %q: %w", short, err)
		}
	}
	return tx.Commit()
}

// FindArticleByKey returns the article stored under key.
func (store *Store) FindArticleByKey(ctx context.Context, key string) (Article, error) {
	var article Article
	err := store.db.QueryRowContext(ctx,
		"SELECT id, slug, article_key, pmid, year, title, file, created_at, updated_at FROM articles WHERE article_key = ?", key).
		Scan(&article.ID, &article.Slug, &article.Key, &article.PMID, &article.Year, &article.Title, &article.File, &article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		return Article{}, err
	}
	return article, nil
}

// FindParagraphs returns an article's paragraphs in order.
func (store *Store) FindParagraphs(ctx context.Context, articleID int64) ([]Paragraph, error) {
	rows, err := store.db.QueryContext(ctx,
		"SELECT id, article_id, `order`, par_type, text, created_at, updated_at FROM paragraphs WHERE article_id = ? ORDER BY `order`", articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paragraphs []Paragraph
	for rows.Next() {
		var paragraph Paragraph
		err = rows.Scan(&paragraph.ID, &paragraph.ArticleID, &paragraph.Order, &paragraph.ParType, &paragraph.Text, &paragraph.CreatedAt, &paragraph.UpdatedAt)
		if err != nil {
			return nil, err
		}
		paragraphs = append(paragraphs, paragraph)
	}
	return paragraphs, rows.Err()
}

// FindAbbreviation returns the stored definition of a short form.
func (store *Store) FindAbbreviation(ctx context.Context, short string) (Abbreviation, error) {
	var abbreviation Abbreviation
	err := store.db.QueryRowContext(ctx,
		"SELECT short_form, long_form, created_at, updated_at FROM abbreviations WHERE short_form = ?", short).
		Scan(&abbreviation.ShortForm, &abbreviation.LongForm, &abbreviation.CreatedAt, &abbreviation.UpdatedAt)
	if err != nil {
		return Abbreviation{}, err
	}
	return abbreviation, nil
}
