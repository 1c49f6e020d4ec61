package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/cgr-group/prospect-api/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "history: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "history: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS search_history (
	id             TEXT PRIMARY KEY,
	product        TEXT NOT NULL,
	location       TEXT NOT NULL,
	reference_urls TEXT NOT NULL DEFAULT '[]',
	results_count  INTEGER NOT NULL DEFAULT 0,
	search_query   TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_search_history_created_at ON search_history(created_at DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "history: migrate sqlite")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Insert(ctx context.Context, rec model.SearchHistoryRecord) (string, error) {
	id := uuid.New().String()
	urls, err := json.Marshal(emptyIfNil(rec.ReferenceURLs))
	if err != nil {
		return "", eris.Wrap(err, "history: marshal reference urls")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO search_history (id, product, location, reference_urls, results_count, search_query, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, rec.Product, rec.Location, string(urls), rec.ResultsCount, rec.SearchQuery, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "history: insert sqlite")
	}
	return id, nil
}

func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]model.SearchHistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product, location, reference_urls, results_count, search_query, created_at
		 FROM search_history ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "history: list recent sqlite")
	}
	defer rows.Close()

	var records []model.SearchHistoryRecord
	for rows.Next() {
		var rec model.SearchHistoryRecord
		var urls string
		if err := rows.Scan(&rec.ID, &rec.Product, &rec.Location, &urls, &rec.ResultsCount, &rec.SearchQuery, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "history: scan record")
		}
		if err := json.Unmarshal([]byte(urls), &rec.ReferenceURLs); err != nil {
			return nil, eris.Wrap(err, "history: unmarshal reference urls")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "history: iterate records")
	}
	return records, nil
}
