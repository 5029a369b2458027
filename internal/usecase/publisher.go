// Package usecase implements the publish orchestration: validate
// configuration, normalize and compile the recipe, create the content record,
// and resolve taxonomy assignments. The call walks Validating → Compiling →
// CreatingRecord → AssigningTaxonomies → Done; fatal failures abort with a
// structured result and undo any partially created record.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"RecipePress/internal/config"
	"RecipePress/internal/domain"
	"RecipePress/internal/normalize"
	"RecipePress/internal/ports"
	"RecipePress/internal/sanitize"
	"RecipePress/internal/schema"
	"RecipePress/internal/taxonomy"
)

// PublisherDeps wires the driven adapters into the orchestrator.
type PublisherDeps struct {
	Content  ports.ContentStore
	Taxonomy ports.TaxonomyStore
	Logger   *slog.Logger
	Now      func() time.Time
}

// Publisher runs one synchronous publish invocation at a time. It holds no
// state between calls.
type Publisher struct {
	cfg        config.Config
	content    ports.ContentStore
	resolver   *taxonomy.Resolver
	normalizer *normalize.Normalizer
	logger     *slog.Logger
}

// New validates nothing eagerly; configuration problems surface as structured
// results when Publish runs.
func New(cfg config.Config, deps PublisherDeps) *Publisher {
	identity := domain.Author{
		Name:       cfg.Identity.DisplayName,
		ProfileURL: cfg.Identity.ProfileURL,
	}
	return &Publisher{
		cfg:        cfg,
		content:    deps.Content,
		resolver:   taxonomy.New(deps.Taxonomy, deps.Logger),
		normalizer: normalize.New(identity, cfg.Publish.DateSource == config.DateSourceSupplied, deps.Now),
		logger:     deps.Logger,
	}
}

// Compile runs the normalizer and structured-data compiler without touching
// the content store. Used by Publish and by dry-run rendering.
func (p *Publisher) Compile(payload normalize.Payload, rating domain.Rating) (*domain.Recipe, schema.Output, error) {
	rec, err := p.normalizer.Normalize(payload)
	if err != nil {
		return nil, schema.Output{}, err
	}
	out, err := schema.Compile(rec, rating)
	if err != nil {
		return nil, schema.Output{}, domain.WrapError(domain.ErrCompilation, err, "compile structured data")
	}
	return rec, out, nil
}

// Publish executes the full pipeline for one inbound payload and always
// returns a well-formed result; no error crosses this boundary.
func (p *Publisher) Publish(ctx context.Context, payload normalize.Payload) domain.PublishResult {
	if err := p.validate(); err != nil {
		return failure(err)
	}

	rating := p.ratingFor(ctx, payload)
	rec, out, err := p.Compile(payload, rating)
	if err != nil {
		return failure(err)
	}

	post, undo, err := p.createRecord(ctx, payload, rec, out)
	if err != nil {
		undo(ctx)
		return failure(err)
	}

	result := domain.PublishResult{
		Success: true,
		PostID:  post.ID,
		PostURL: post.URL,
		EditURL: post.EditURL,
	}
	result.TaxonomyResults = p.assignTaxonomies(ctx, post.ID, payload, rec)

	p.info("recipe published", "post_id", post.ID, "url", post.URL)
	return result
}

// validate is the Validating state: required orchestration settings must be
// present and legal before any record is touched.
func (p *Publisher) validate() error {
	if p.content == nil {
		return domain.NewError(domain.ErrConfiguration, "content store is not configured")
	}
	if p.cfg.Publish.PostType == "" {
		return domain.NewError(domain.ErrConfiguration, "publish.postType is required")
	}
	if !domain.PostStatus(p.cfg.Publish.Status).Valid() {
		return domain.NewError(domain.ErrConfiguration, "publish.status %q is not a valid status", p.cfg.Publish.Status)
	}
	switch p.cfg.Publish.DateSource {
	case config.DateSourceCurrent, config.DateSourceSupplied:
	default:
		return domain.NewError(domain.ErrConfiguration, "publish.dateSource %q is not a valid policy", p.cfg.Publish.DateSource)
	}
	if p.cfg.Identity.DisplayName == "" {
		return domain.NewError(domain.ErrConfiguration, "identity.displayName is required")
	}
	for _, tax := range p.cfg.Taxonomies {
		mode := domain.TaxonomyMode(tax.Mode)
		if !mode.Valid() {
			return domain.NewError(domain.ErrConfiguration, "taxonomy %s: unknown mode %q", tax.Taxonomy, tax.Mode)
		}
		if mode == domain.TaxonomyFixed && tax.TermID <= 0 {
			return domain.NewError(domain.ErrConfiguration, "taxonomy %s: fixed mode requires a termId", tax.Taxonomy)
		}
	}
	return nil
}

// ratingFor fetches the stored rating pair when the payload republishes over
// an existing record. Fresh posts compile against a zero rating.
func (p *Publisher) ratingFor(ctx context.Context, payload normalize.Payload) domain.Rating {
	id := existingPostID(payload)
	if id == 0 {
		return domain.Rating{}
	}
	rating, err := p.content.PostRating(ctx, id)
	if err != nil {
		p.warn("rating lookup failed, compiling without rating", "post_id", id, "error", err)
		return domain.Rating{}
	}
	return rating
}

// createRecord is the CreatingRecord state, run as a two-step saga: create
// the record with the narrative body, then attach the compiled markup. The
// returned undo deletes the record when a later step fails.
func (p *Publisher) createRecord(ctx context.Context, payload normalize.Payload, rec *domain.Recipe, out schema.Output) (ports.Post, func(context.Context), error) {
	noop := func(context.Context) {}

	raw, supplied := payloadContent(payload)
	narrative := sanitize.RichText(raw)

	title := p.normalizer.Title(payload)
	if title == "" {
		title = rec.Name
	}

	if id := existingPostID(payload); id != 0 {
		// without fresh narrative in the payload, keep what the record
		// already says and only regenerate the markup region
		if !supplied {
			current, err := p.content.PostContent(ctx, id)
			if err != nil {
				return ports.Post{}, noop, domain.WrapError(domain.ErrRecordCreation, err, "read post %d", id)
			}
			narrative = schema.Narrative(current)
		}
		post, err := p.content.UpdatePostContent(ctx, id, composeBody(narrative, out))
		if err != nil {
			return ports.Post{}, noop, domain.WrapError(domain.ErrRecordCreation, err, "update post %d", id)
		}
		return post, noop, nil
	}

	post, err := p.content.CreatePost(ctx, ports.PostInput{
		Type:    p.cfg.Publish.PostType,
		Status:  domain.PostStatus(p.cfg.Publish.Status),
		Title:   title,
		Content: narrative,
		Author:  p.cfg.Identity.DisplayName,
	})
	if err != nil {
		return ports.Post{}, noop, domain.WrapError(domain.ErrRecordCreation, err, "create post")
	}

	undo := func(ctx context.Context) {
		if delErr := p.content.DeletePost(ctx, post.ID); delErr != nil {
			p.warn("rollback delete failed, record may be orphaned", "post_id", post.ID, "error", delErr)
		}
	}

	updated, err := p.content.UpdatePostContent(ctx, post.ID, composeBody(narrative, out))
	if err != nil {
		return ports.Post{}, undo, domain.WrapError(domain.ErrRecordCreation, err, "attach markup to post %d", post.ID)
	}
	if updated.URL != "" {
		post = updated
	}
	return post, noop, nil
}

// assignTaxonomies is the AssigningTaxonomies state. Failures are collected
// into the result; the record stands as published regardless.
func (p *Publisher) assignTaxonomies(ctx context.Context, postID int64, payload normalize.Payload, rec *domain.Recipe) []domain.TaxonomyAssignment {
	var results []domain.TaxonomyAssignment
	for _, tax := range p.cfg.Taxonomies {
		cfg := taxonomy.Config{
			Taxonomy: tax.Taxonomy,
			Mode:     domain.TaxonomyMode(tax.Mode),
			TermID:   tax.TermID,
		}
		assignment := p.resolver.Resolve(ctx, cfg, postID, candidatesFor(tax.Taxonomy, payload, rec))
		if assignment == nil {
			continue
		}
		if !assignment.Success {
			p.warn("taxonomy assignment failed", "taxonomy", tax.Taxonomy, "detail", assignment.Detail)
		}
		results = append(results, *assignment)
	}
	return results
}

// candidatesFor picks auto-mode term candidates: explicit per-taxonomy hints
// from the payload first, then the natural recipe fields for the built-in
// taxonomies.
func candidatesFor(tax string, payload normalize.Payload, rec *domain.Recipe) []string {
	if hints, ok := payload["taxonomies"].(map[string]any); ok {
		if names := sanitize.StringSlice(hints[tax]); len(names) > 0 {
			return names
		}
	}
	switch tax {
	case "category":
		return rec.Categories
	case "post_tag":
		return rec.Keywords
	}
	return nil
}

func composeBody(narrative string, out schema.Output) string {
	if narrative == "" {
		return out.Markup()
	}
	return narrative + "\n\n" + out.Markup()
}

func payloadContent(payload normalize.Payload) (any, bool) {
	for _, key := range []string{"content", "post_content", "body"} {
		if v, ok := payload[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func existingPostID(payload normalize.Payload) int64 {
	v, ok := payload["postId"]
	if !ok {
		v, ok = payload["post_id"]
	}
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int64(t)
	case int:
		return int64(t)
	case int64:
		return t
	}
	return 0
}

func failure(err error) domain.PublishResult {
	var pubErr *domain.PublishError
	if !errors.As(err, &pubErr) {
		err = domain.WrapError(domain.ErrRecordCreation, err, "publish")
	}
	return domain.PublishResult{Success: false, Error: err.Error()}
}

func (p *Publisher) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Publisher) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
