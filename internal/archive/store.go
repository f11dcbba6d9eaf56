// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists weekly digests in a SQLite database and
// fetched article batches as YAML files.
// Implements: prd006-archive (R1-R5);
//
//	docs/ARCHITECTURE § Archive.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nephro-digest/pkg/types"
)

const dbFile = "digests.db"

// ErrNotFound reports that no stored digest or batch matched the lookup.
var ErrNotFound = errors.New("archive: not found")

// Store manages the digest archive SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the archive database at dataDir/digests.db
// and creates the schema if it does not exist (R1.1, R1.2).
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// All timestamps are stored as UTC RFC3339 strings so that SQLite string
// comparison stays chronological.
func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS digests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			window_start TEXT NOT NULL,
			window_end TEXT NOT NULL,
			created_at TEXT NOT NULL,
			total_articles INTEGER NOT NULL,
			high_impact_count INTEGER NOT NULL,
			skipped_records INTEGER NOT NULL,
			summary_yaml TEXT NOT NULL,
			suggestions_yaml TEXT NOT NULL,
			UNIQUE(window_start, window_end)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_digests_window_end ON digests(window_end)`,
		`CREATE TABLE IF NOT EXISTS articles (
			digest_id INTEGER NOT NULL REFERENCES digests(id) ON DELETE CASCADE,
			pmid TEXT NOT NULL,
			title TEXT,
			journal TEXT,
			pub_year INTEGER,
			pub_month INTEGER,
			pub_day INTEGER,
			article_type TEXT,
			category TEXT,
			authors TEXT,
			tags TEXT,
			high_impact INTEGER NOT NULL DEFAULT 0,
			doi TEXT,
			url TEXT,
			PRIMARY KEY (digest_id, pmid)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_pmid ON articles(pmid)`,
		`CREATE TABLE IF NOT EXISTS keyword_counts (
			digest_id INTEGER NOT NULL REFERENCES digests(id) ON DELETE CASCADE,
			group_name TEXT NOT NULL,
			keyword TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (digest_id, group_name, keyword)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveDigest stores one digest with its article roster, replacing any
// digest previously saved for the same window (R2.1-R2.3). Articles
// without a PMID are not stored; they are already reflected in the
// skipped-records count. Returns the digest row ID.
func (s *Store) SaveDigest(ctx context.Context, d types.Digest, articles []types.Article, createdAt time.Time) (int64, error) {
	summaryYAML, err := yaml.Marshal(d.Summary)
	if err != nil {
		return 0, fmt.Errorf("encoding summary: %w", err)
	}
	suggestionsYAML, err := yaml.Marshal(d.Suggestions)
	if err != nil {
		return 0, fmt.Errorf("encoding suggestions: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ws := d.Summary.Window.Start.UTC().Format(time.RFC3339)
	we := d.Summary.Window.End.UTC().Format(time.RFC3339)

	// Re-running a window replaces its digest; the cascade clears the
	// old article and keyword rows (R2.1).
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM digests WHERE window_start = ? AND window_end = ?`, ws, we); err != nil {
		return 0, fmt.Errorf("clearing previous digest: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO digests (window_start, window_end, created_at,
			total_articles, high_impact_count, skipped_records,
			summary_yaml, suggestions_yaml)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ws, we, createdAt.UTC().Format(time.RFC3339),
		d.Summary.TotalArticles, d.Summary.HighImpactCount, d.Summary.SkippedRecords,
		string(summaryYAML), string(suggestionsYAML),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting digest: %w", err)
	}
	digestID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading digest id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO articles (digest_id, pmid, title, journal,
			pub_year, pub_month, pub_day, article_type, category,
			authors, tags, high_impact, doi, url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing article insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range articles {
		if !a.Identified() {
			continue
		}
		authorsJSON, _ := json.Marshal(a.Authors)
		tagsJSON, _ := json.Marshal(a.Tags)
		_, err := stmt.ExecContext(ctx,
			digestID, a.PMID, a.Title, a.Journal,
			a.PubDate.Year, a.PubDate.Month, a.PubDate.Day,
			string(a.Type), string(a.Category),
			string(authorsJSON), string(tagsJSON), a.HighImpact, a.DOI, a.URL,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting article %s: %w", a.PMID, err)
		}
	}

	kwStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO keyword_counts (digest_id, group_name, keyword, count)
		 VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing keyword insert: %w", err)
	}
	defer kwStmt.Close()

	for group, counts := range d.Summary.Stats.KeywordGroups {
		for _, kc := range counts {
			if _, err := kwStmt.ExecContext(ctx, digestID, group, kc.Keyword, kc.Count); err != nil {
				return 0, fmt.Errorf("inserting keyword count %s/%s: %w", group, kc.Keyword, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing digest: %w", err)
	}
	return digestID, nil
}

// DigestRecord is a stored digest with its archive metadata.
type DigestRecord struct {
	ID        int64
	CreatedAt time.Time
	types.Digest
}

// LatestDigest returns the most recent digest by window end, breaking
// ties by creation time (R3.1). Returns ErrNotFound on an empty archive.
func (s *Store) LatestDigest(ctx context.Context) (*DigestRecord, error) {
	return s.queryDigest(ctx,
		`ORDER BY window_end DESC, created_at DESC LIMIT 1`)
}

// DigestByWindow returns the digest stored for exactly window w (R3.2).
func (s *Store) DigestByWindow(ctx context.Context, w types.Window) (*DigestRecord, error) {
	return s.queryDigest(ctx,
		`WHERE window_start = ? AND window_end = ? LIMIT 1`,
		w.Start.UTC().Format(time.RFC3339), w.End.UTC().Format(time.RFC3339))
}

func (s *Store) queryDigest(ctx context.Context, clause string, args ...any) (*DigestRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, summary_yaml, suggestions_yaml FROM digests `+clause, args...)

	var (
		rec             DigestRecord
		createdAt       string
		summaryYAML     string
		suggestionsYAML string
	)
	if err := row.Scan(&rec.ID, &createdAt, &summaryYAML, &suggestionsYAML); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning digest: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.CreatedAt = t
	}
	if err := yaml.Unmarshal([]byte(summaryYAML), &rec.Summary); err != nil {
		return nil, fmt.Errorf("decoding summary: %w", err)
	}
	if err := yaml.Unmarshal([]byte(suggestionsYAML), &rec.Suggestions); err != nil {
		return nil, fmt.Errorf("decoding suggestions: %w", err)
	}
	return &rec, nil
}

// DigestInfo is one row of the archive listing.
type DigestInfo struct {
	ID            int64        `json:"id"`
	Window        types.Window `json:"window"`
	CreatedAt     time.Time    `json:"created_at"`
	TotalArticles int          `json:"total_articles"`
	HighImpact    int          `json:"high_impact"`
	Skipped       int          `json:"skipped"`
}

// ListDigests returns archive metadata for every stored digest, newest
// window first (R3.3).
func (s *Store) ListDigests(ctx context.Context) ([]DigestInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, window_start, window_end, created_at,
			total_articles, high_impact_count, skipped_records
		 FROM digests ORDER BY window_end DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing digests: %w", err)
	}
	defer rows.Close()

	var infos []DigestInfo
	for rows.Next() {
		var (
			info           DigestInfo
			ws, we, create string
		)
		if err := rows.Scan(&info.ID, &ws, &we, &create,
			&info.TotalArticles, &info.HighImpact, &info.Skipped); err != nil {
			return nil, fmt.Errorf("scanning digest row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, ws); err == nil {
			info.Window.Start = t
		}
		if t, err := time.Parse(time.RFC3339, we); err == nil {
			info.Window.End = t
		}
		if t, err := time.Parse(time.RFC3339, create); err == nil {
			info.CreatedAt = t
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// PriorStats returns the statistics of the most recent digest whose
// window ended at or before t, for growth comparisons (R4.1). Returns
// (nil, nil) when the archive holds no such digest; a first run has no
// prior and that is not an error.
func (s *Store) PriorStats(ctx context.Context, t time.Time) (*types.TrendStatistics, error) {
	var summaryYAML string
	err := s.db.QueryRowContext(ctx,
		`SELECT summary_yaml FROM digests WHERE window_end <= ?
		 ORDER BY window_end DESC, created_at DESC LIMIT 1`,
		t.UTC().Format(time.RFC3339),
	).Scan(&summaryYAML)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up prior digest: %w", err)
	}

	var summary types.WeeklySummary
	if err := yaml.Unmarshal([]byte(summaryYAML), &summary); err != nil {
		return nil, fmt.Errorf("decoding prior summary: %w", err)
	}
	return &summary.Stats, nil
}

// Articles returns the stored roster for one digest, ordered by PMID.
// Only the columns the archive keeps are populated; the full records
// live in the batch files (R3.4).
func (s *Store) Articles(ctx context.Context, digestID int64) ([]types.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pmid, title, journal, pub_year, pub_month, pub_day,
			article_type, category, authors, tags, high_impact, doi, url
		 FROM articles WHERE digest_id = ? ORDER BY pmid`, digestID)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []types.Article
	for rows.Next() {
		var (
			a           types.Article
			articleType string
			category    string
			authorsJSON sql.NullString
			tagsJSON    sql.NullString
		)
		if err := rows.Scan(&a.PMID, &a.Title, &a.Journal,
			&a.PubDate.Year, &a.PubDate.Month, &a.PubDate.Day,
			&articleType, &category, &authorsJSON, &tagsJSON,
			&a.HighImpact, &a.DOI, &a.URL); err != nil {
			return nil, fmt.Errorf("scanning article row: %w", err)
		}
		a.Type = types.ArticleType(articleType)
		a.Category = types.Category(category)
		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &a.Authors)
		}
		if tagsJSON.Valid {
			json.Unmarshal([]byte(tagsJSON.String), &a.Tags)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
