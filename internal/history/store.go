// Package history persists the append-only search history. Two drivers
// are provided: Postgres for deployments and SQLite for local use.
// Records are never updated or deleted by this service.
package history

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/cgr-group/prospect-api/internal/config"
	"github.com/cgr-group/prospect-api/internal/model"
)

// Store is the persistence interface for search history.
type Store interface {
	// Insert appends a record and returns its generated id.
	Insert(ctx context.Context, rec model.SearchHistoryRecord) (string, error)

	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.SearchHistoryRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// New opens the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.HistoryConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("history: unknown driver %q", cfg.Driver)
	}
}
