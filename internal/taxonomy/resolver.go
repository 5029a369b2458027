// Package taxonomy resolves configured taxonomy assignments for a published
// content record. Each taxonomy resolves independently: a failure in one never
// aborts the others.
package taxonomy

import (
	"context"
	"fmt"
	"log/slog"

	"RecipePress/internal/domain"
	"RecipePress/internal/ports"
)

// Config describes one taxonomy's configured behavior.
type Config struct {
	Taxonomy string
	Mode     domain.TaxonomyMode
	TermID   int64 // fixed mode only
}

// Resolver assigns taxonomy terms through the store contract.
type Resolver struct {
	store  ports.TaxonomyStore
	logger *slog.Logger
}

// New wires the taxonomy store.
func New(store ports.TaxonomyStore, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve applies one taxonomy configuration to the given post. Skip mode and
// auto mode without usable candidates return a nil assignment, meaning no
// outcome is recorded.
func (r *Resolver) Resolve(ctx context.Context, cfg Config, postID int64, candidates []string) *domain.TaxonomyAssignment {
	switch cfg.Mode {
	case domain.TaxonomySkip:
		return nil
	case domain.TaxonomyFixed:
		return r.resolveFixed(ctx, cfg, postID)
	case domain.TaxonomyAuto:
		return r.resolveAuto(ctx, cfg, postID, candidates)
	default:
		return &domain.TaxonomyAssignment{
			Taxonomy: cfg.Taxonomy,
			Mode:     cfg.Mode,
			Detail:   fmt.Sprintf("unknown taxonomy mode %q", cfg.Mode),
		}
	}
}

func (r *Resolver) resolveFixed(ctx context.Context, cfg Config, postID int64) *domain.TaxonomyAssignment {
	out := &domain.TaxonomyAssignment{Taxonomy: cfg.Taxonomy, Mode: cfg.Mode}

	exists, err := r.store.TermExists(ctx, cfg.Taxonomy, cfg.TermID)
	if err != nil {
		out.Detail = fmt.Sprintf("check term %d: %v", cfg.TermID, err)
		return out
	}
	if !exists {
		out.Detail = fmt.Sprintf("term %d does not exist in taxonomy %s", cfg.TermID, cfg.Taxonomy)
		return out
	}

	if err := r.store.AssignTerms(ctx, postID, cfg.Taxonomy, []int64{cfg.TermID}); err != nil {
		out.Detail = fmt.Sprintf("assign term %d: %v", cfg.TermID, err)
		return out
	}

	out.TermIDs = []int64{cfg.TermID}
	out.Success = true
	return out
}

func (r *Resolver) resolveAuto(ctx context.Context, cfg Config, postID int64, candidates []string) *domain.TaxonomyAssignment {
	names := dedupe(candidates)
	if len(names) == 0 {
		return nil
	}

	out := &domain.TaxonomyAssignment{Taxonomy: cfg.Taxonomy, Mode: cfg.Mode}

	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := r.lookupOrCreate(ctx, cfg.Taxonomy, name)
		if err != nil {
			out.Detail = fmt.Sprintf("term %q: %v", name, err)
			return out
		}
		ids = append(ids, id)
	}

	if err := r.store.AssignTerms(ctx, postID, cfg.Taxonomy, ids); err != nil {
		out.Detail = fmt.Sprintf("assign terms: %v", err)
		return out
	}

	out.TermIDs = ids
	out.Success = true
	r.debug("assigned taxonomy terms", "taxonomy", cfg.Taxonomy, "terms", len(ids))
	return out
}

func (r *Resolver) lookupOrCreate(ctx context.Context, taxonomy, name string) (int64, error) {
	id, found, err := r.store.FindTerm(ctx, taxonomy, name)
	if err != nil {
		return 0, fmt.Errorf("find: %w", err)
	}
	if found {
		return id, nil
	}
	id, err = r.store.CreateTerm(ctx, taxonomy, name)
	if err != nil {
		return 0, fmt.Errorf("create: %w", err)
	}
	return id, nil
}

func dedupe(names []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func (r *Resolver) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
