package app

import (
	"context"
	"fmt"
	"log/slog"

	"RecipePress/internal/config"
	"RecipePress/internal/domain"
	"RecipePress/internal/infrastructure/storage"
	"RecipePress/internal/infrastructure/wordpress"
	"RecipePress/internal/logging"
	"RecipePress/internal/normalize"
	"RecipePress/internal/schema"
	"RecipePress/internal/store"
	"RecipePress/internal/usecase"
)

// Application wires configuration to the publisher and the selected store
// backend.
type Application struct {
	cfg       config.Config
	publisher *usecase.Publisher
}

// New resolves the configured store backend from the registry and builds the
// publisher.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := store.NewRegistry()
	registry.Register(wordpress.NewBackend(baseLogger.With("component", "store.wordpress")))
	registry.Register(storage.NewBackend())

	backend, err := registry.Resolve(cfg.Store.Backend)
	if err != nil {
		return nil, err
	}
	content, tax, err := backend.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}

	publisher := usecase.New(cfg, usecase.PublisherDeps{
		Content:  content,
		Taxonomy: tax,
		Logger:   baseLogger.With("component", "publisher"),
	})
	return &Application{cfg: cfg, publisher: publisher}, nil
}

// NewDetached builds an application that can compile but not publish; used by
// dry-run rendering where no store connection should be made.
func NewDetached(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	publisher := usecase.New(cfg, usecase.PublisherDeps{
		Logger: baseLogger.With("component", "publisher"),
	})
	return &Application{cfg: cfg, publisher: publisher}
}

// Publish runs one publish invocation for the payload.
func (a *Application) Publish(ctx context.Context, payload normalize.Payload) domain.PublishResult {
	return a.publisher.Publish(ctx, payload)
}

// Compile produces the structured-data artifacts without contacting the store.
func (a *Application) Compile(payload normalize.Payload) (*domain.Recipe, schema.Output, error) {
	return a.publisher.Compile(payload, domain.Rating{})
}
