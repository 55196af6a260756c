// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalogue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/scicover/pkg/types"
)

// DefaultMaxResults caps search results when a query sets no limit.
const DefaultMaxResults = 20

// DB is a SQLite mirror of the record store with an FTS5 index over
// titles, abstracts and summaries.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the catalogue database at path.
func OpenDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	d := &DB{db: db}
	if err := d.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return d, nil
}

// Close releases the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			journal TEXT NOT NULL,
			volume TEXT,
			issue TEXT,
			date TEXT,
			title_en TEXT,
			title_zh TEXT,
			article_title TEXT,
			authors TEXT,
			abstract TEXT,
			summary_en TEXT,
			summary_zh TEXT,
			doi TEXT,
			url TEXT,
			summary_mode TEXT,
			created_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_journal ON records(journal)`,
		`CREATE INDEX IF NOT EXISTS idx_records_date ON records(date)`,
	}
	for _, stmt := range statements {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := d.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='records_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	const cols = `title_en, title_zh, article_title, authors, abstract, summary_en, summary_zh`
	ftsStatements := []string{
		`CREATE VIRTUAL TABLE records_fts USING fts5(` + cols + `, content=records, content_rowid=rowid)`,
		`CREATE TRIGGER records_ai AFTER INSERT ON records BEGIN
			INSERT INTO records_fts(rowid, ` + cols + `)
			VALUES (new.rowid, new.title_en, new.title_zh, new.article_title, new.authors, new.abstract, new.summary_en, new.summary_zh);
		END`,
		`CREATE TRIGGER records_ad AFTER DELETE ON records BEGIN
			INSERT INTO records_fts(records_fts, rowid, ` + cols + `)
			VALUES ('delete', old.rowid, old.title_en, old.title_zh, old.article_title, old.authors, old.abstract, old.summary_en, old.summary_zh);
		END`,
		`CREATE TRIGGER records_au AFTER UPDATE ON records BEGIN
			INSERT INTO records_fts(records_fts, rowid, ` + cols + `)
			VALUES ('delete', old.rowid, old.title_en, old.title_zh, old.article_title, old.authors, old.abstract, old.summary_en, old.summary_zh);
			INSERT INTO records_fts(rowid, ` + cols + `)
			VALUES (new.rowid, new.title_en, new.title_zh, new.article_title, new.authors, new.abstract, new.summary_en, new.summary_zh);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// SyncSummary holds counts from a Sync run.
type SyncSummary struct {
	Indexed int
	Updated int
	Skipped int
	Removed int
}

// Sync makes the database mirror recs. Records whose created_at is
// unchanged are skipped; rows for records no longer present are removed.
// One line per change is written to w.
func (d *DB) Sync(ctx context.Context, recs []*types.Record, w io.Writer) (SyncSummary, error) {
	var summary SyncSummary

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	seen := make(map[string]bool, len(recs))
	for _, r := range recs {
		seen[r.ID] = true
		createdAt := r.CreatedAt.UTC().Format(time.RFC3339Nano)

		var stored string
		err := tx.QueryRowContext(ctx, `SELECT created_at FROM records WHERE id = ?`, r.ID).Scan(&stored)
		switch {
		case err == nil && stored == createdAt:
			summary.Skipped++
			continue
		case err != nil && err != sql.ErrNoRows:
			return summary, fmt.Errorf("looking up %s: %w", r.ID, err)
		}
		isUpdate := err == nil

		if err := upsertRecord(ctx, tx, r, createdAt); err != nil {
			return summary, err
		}
		if isUpdate {
			fmt.Fprintf(w, "updated %s\n", r.ID)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s\n", r.ID)
			summary.Indexed++
		}
	}

	rows, err := tx.QueryContext(ctx, `SELECT id FROM records`)
	if err != nil {
		return summary, fmt.Errorf("listing indexed records: %w", err)
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return summary, fmt.Errorf("scanning row: %w", err)
		}
		if !seen[id] {
			stale = append(stale, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return summary, err
	}
	for _, id := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
			return summary, fmt.Errorf("removing %s: %w", id, err)
		}
		fmt.Fprintf(w, "removed %s\n", id)
		summary.Removed++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing: %w", err)
	}
	return summary, nil
}

func upsertRecord(ctx context.Context, tx *sql.Tx, r *types.Record, createdAt string) error {
	authorsJSON, _ := json.Marshal(r.Article.Authors)
	var titleEN, titleZH, summaryEN, summaryZH string
	if r.AISummary != nil {
		titleEN, titleZH = r.AISummary.Title.EN, r.AISummary.Title.ZH
		summaryEN, summaryZH = r.AISummary.Summary.EN, r.AISummary.Summary.ZH
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO records (id, journal, volume, issue, date, title_en, title_zh, article_title,
			authors, abstract, summary_en, summary_zh, doi, url, summary_mode, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			journal=excluded.journal, volume=excluded.volume, issue=excluded.issue,
			date=excluded.date, title_en=excluded.title_en, title_zh=excluded.title_zh,
			article_title=excluded.article_title, authors=excluded.authors,
			abstract=excluded.abstract, summary_en=excluded.summary_en,
			summary_zh=excluded.summary_zh, doi=excluded.doi, url=excluded.url,
			summary_mode=excluded.summary_mode, created_at=excluded.created_at`,
		r.ID, r.Journal, r.Volume, r.Issue, r.Date, titleEN, titleZH, r.Article.Title,
		string(authorsJSON), r.Article.Abstract, summaryEN, summaryZH,
		r.Article.DOI, r.Article.URL, string(r.SummaryMode), createdAt,
	)
	if err != nil {
		return fmt.Errorf("upserting %s: %w", r.ID, err)
	}
	return nil
}

// QueryOptions holds parameters for catalogue searches.
type QueryOptions struct {
	// Query is an FTS5 match expression. Empty lists records by date.
	Query string

	// Journal filters by journal name (exact match).
	Journal string

	// MaxResults limits result count. Zero uses DefaultMaxResults.
	MaxResults int
}

// SearchResult is one matching record.
type SearchResult struct {
	ID           string              `json:"id" yaml:"id"`
	Journal      string              `json:"journal" yaml:"journal"`
	Date         string              `json:"date" yaml:"date"`
	Title        types.BilingualText `json:"title" yaml:"title"`
	ArticleTitle string              `json:"article_title" yaml:"article_title"`
	Authors      []string            `json:"authors" yaml:"authors"`
	DOI          string              `json:"doi,omitempty" yaml:"doi,omitempty"`
	Snippet      string              `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}

// Search runs a full-text query with optional filters. Matches are ranked
// by relevance; unfiltered listings are newest first.
func (d *DB) Search(ctx context.Context, opts QueryOptions) ([]SearchResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)
	if useFTS {
		qb.WriteString(
			`SELECT r.id, r.journal, r.date, r.title_en, r.title_zh, r.article_title, r.authors, r.doi,
				snippet(records_fts, -1, '[', ']', '…', 12)
			FROM records_fts
			JOIN records r ON r.rowid = records_fts.rowid
			WHERE records_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT r.id, r.journal, r.date, r.title_en, r.title_zh, r.article_title, r.authors, r.doi, ''
			FROM records r
			WHERE 1=1`)
	}
	if opts.Journal != "" {
		qb.WriteString(` AND r.journal = ?`)
		args = append(args, opts.Journal)
	}
	if useFTS {
		qb.WriteString(` ORDER BY records_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY r.date DESC, r.id`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := d.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalogue: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			sr                   SearchResult
			titleEN, titleZH     sql.NullString
			articleTitle, doi    sql.NullString
			authorsJSON, snippet sql.NullString
		)
		if err := rows.Scan(&sr.ID, &sr.Journal, &sr.Date, &titleEN, &titleZH,
			&articleTitle, &authorsJSON, &doi, &snippet); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		sr.Title = types.BilingualText{ZH: titleZH.String, EN: titleEN.String}
		sr.ArticleTitle = articleTitle.String
		sr.DOI = doi.String
		sr.Snippet = snippet.String
		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &sr.Authors)
		}
		results = append(results, sr)
	}
	return results, rows.Err()
}
