package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/cgr-group/prospect-api/internal/model"
)

// pool is the subset of pgxpool.Pool used by the store, so tests can
// substitute pgxmock.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "history: parse postgres config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	p, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "history: create pool")
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, eris.Wrap(err, "history: ping")
	}
	return &PostgresStore{pool: p}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS search_history (
	id             TEXT PRIMARY KEY,
	product        TEXT NOT NULL,
	location       TEXT NOT NULL,
	reference_urls JSONB NOT NULL DEFAULT '[]',
	results_count  INTEGER NOT NULL DEFAULT 0,
	search_query   TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_search_history_created_at ON search_history(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "history: migrate")
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, rec model.SearchHistoryRecord) (string, error) {
	id := uuid.New().String()
	urls, err := json.Marshal(emptyIfNil(rec.ReferenceURLs))
	if err != nil {
		return "", eris.Wrap(err, "history: marshal reference urls")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO search_history (id, product, location, reference_urls, results_count, search_query, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())`,
		id, rec.Product, rec.Location, urls, rec.ResultsCount, rec.SearchQuery,
	)
	if err != nil {
		return "", eris.Wrap(err, "history: insert")
	}
	return id, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]model.SearchHistoryRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, product, location, reference_urls, results_count, search_query, created_at
		 FROM search_history ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "history: list recent")
	}
	defer rows.Close()

	var records []model.SearchHistoryRecord
	for rows.Next() {
		var rec model.SearchHistoryRecord
		var urls []byte
		if err := rows.Scan(&rec.ID, &rec.Product, &rec.Location, &urls, &rec.ResultsCount, &rec.SearchQuery, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "history: scan record")
		}
		if err := json.Unmarshal(urls, &rec.ReferenceURLs); err != nil {
			return nil, eris.Wrap(err, "history: unmarshal reference urls")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "history: iterate records")
	}
	return records, nil
}

func emptyIfNil(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return urls
}
