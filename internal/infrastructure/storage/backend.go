package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"RecipePress/internal/config"
	"RecipePress/internal/ports"
)

// Backend registers the direct-database adapter under the "postgres" name.
type Backend struct{}

// NewBackend builds the backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Name identifies the backend inside the registry.
func (b *Backend) Name() string {
	return "postgres"
}

// Open connects to the database and verifies the connection.
func (b *Backend) Open(ctx context.Context, cfg config.Config) (ports.ContentStore, ports.TaxonomyStore, error) {
	if cfg.Store.Postgres.DSN == "" {
		return nil, nil, fmt.Errorf("postgres backend requires store.postgres.dsn")
	}

	db, err := sql.Open("postgres", cfg.Store.Postgres.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	store := NewPostgresStore(db, cfg.Store.Postgres.SiteURL)
	return store, store, nil
}
