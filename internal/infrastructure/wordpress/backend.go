package wordpress

import (
	"context"
	"fmt"
	"log/slog"

	"RecipePress/internal/config"
	"RecipePress/internal/ports"
)

// Backend registers the REST adapter under the "wordpress" name.
type Backend struct {
	logger *slog.Logger
}

// NewBackend wires the logger used by opened clients.
func NewBackend(logger *slog.Logger) *Backend {
	return &Backend{logger: logger}
}

// Name identifies the backend inside the registry.
func (b *Backend) Name() string {
	return "wordpress"
}

// Open validates the connection settings and returns the store contracts.
func (b *Backend) Open(_ context.Context, cfg config.Config) (ports.ContentStore, ports.TaxonomyStore, error) {
	if cfg.Store.WordPress.BaseURL == "" {
		return nil, nil, fmt.Errorf("wordpress backend requires store.wordpress.baseUrl")
	}
	client := NewClient(cfg.Store.WordPress, cfg.Publish.PostType, nil, b.logger)
	return client, client, nil
}
