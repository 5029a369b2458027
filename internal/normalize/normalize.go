// Package normalize assembles the canonical Recipe record from a raw inbound
// payload. Apart from the recipe name, every field is optional: absent or
// malformed values resolve to their zero value and never fail the call.
package normalize

import (
	"time"

	"RecipePress/internal/domain"
	"RecipePress/internal/sanitize"
)

// Normalizer builds Recipe records for a fixed publishing identity.
type Normalizer struct {
	identity        domain.Author
	useSuppliedDate bool
	now             func() time.Time
}

// New wires the publishing identity and the date-source policy. A nil clock
// defaults to time.Now.
func New(identity domain.Author, useSuppliedDate bool, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{identity: identity, useSuppliedDate: useSuppliedDate, now: now}
}

// Title extracts the sanitized post title from the payload.
func (n *Normalizer) Title(p Payload) string {
	v, _ := p.field("name", "title", "post_title")
	return sanitize.String(v)
}

// Normalize builds the canonical Recipe. It fails only when both the recipe
// name and the post title are empty after sanitization. The author always
// comes from the publishing identity; author-shaped payload data is ignored.
func (n *Normalizer) Normalize(p Payload) (*domain.Recipe, error) {
	name := sanitize.String(first(p, "recipeName", "recipe_name"))
	if name == "" {
		name = n.Title(p)
	}
	if name == "" {
		return nil, domain.ErrMissingName
	}

	rec := &domain.Recipe{
		Name:                name,
		Description:         sanitize.RichText(first(p, "description", "recipeDescription", "recipe_description")),
		Images:              n.images(p),
		PrepTime:            sanitize.String(first(p, "prepTime", "prep_time")),
		CookTime:            sanitize.String(first(p, "cookTime", "cook_time")),
		TotalTime:           sanitize.String(first(p, "totalTime", "total_time")),
		Yield:               sanitize.String(first(p, "recipeYield", "yield")),
		Categories:          sanitize.StringSlice(first(p, "recipeCategory", "recipe_category", "categories")),
		Cuisine:             sanitize.String(first(p, "recipeCuisine", "recipe_cuisine", "cuisine")),
		CookingMethod:       sanitize.String(first(p, "cookingMethod", "cooking_method")),
		Ingredients:         sanitize.StringSlice(first(p, "recipeIngredient", "recipe_ingredient", "ingredients")),
		Instructions:        sanitize.StringSlice(first(p, "recipeInstructions", "recipe_instructions", "instructions")),
		Keywords:            sanitize.StringSlice(first(p, "keywords")),
		DietaryRestrictions: sanitize.StringSlice(first(p, "suitableForDiet", "suitable_for_diet", "dietaryRestrictions", "dietary_restrictions")),
		Nutrition:           n.nutrition(p),
		Video:               n.video(p),
		Tools:               sanitize.StringSlice(first(p, "tool", "tools")),
		Supplies:            sanitize.StringSlice(first(p, "supply", "supplies")),
		EstimatedCost:       sanitize.String(first(p, "estimatedCost", "estimated_cost")),
		Author:              n.identity,
		DatePublished:       n.datePublished(p),
	}

	return rec, nil
}

func (n *Normalizer) images(p Payload) []domain.Image {
	v, ok := p.field("images", "image")
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		// a single bare URL string is accepted as a one-image sequence
		if u := sanitize.URL(v); u != "" {
			return []domain.Image{{URL: u}}
		}
		return nil
	}

	out := make([]domain.Image, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case map[string]any:
			obj := Payload(t)
			u := sanitize.URL(first(obj, "url", "src"))
			if u == "" {
				continue
			}
			out = append(out, domain.Image{
				URL:     u,
				AltText: sanitize.String(first(obj, "altText", "alt_text", "alt")),
			})
		default:
			if u := sanitize.URL(item); u != "" {
				out = append(out, domain.Image{URL: u})
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (n *Normalizer) nutrition(p Payload) map[string]string {
	obj := p.object("nutrition")
	if obj == nil {
		return nil
	}
	out := map[string]string{}
	for _, key := range domain.NutritionFields {
		if v := sanitize.String(obj[key]); v != "" {
			out[key] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (n *Normalizer) video(p Payload) *domain.Video {
	obj := p.object("video")
	if obj == nil {
		return nil
	}
	contentURL := sanitize.URL(first(obj, "contentUrl", "content_url"))
	if contentURL == "" {
		return nil
	}
	return &domain.Video{
		Name:         sanitize.String(obj["name"]),
		Description:  sanitize.String(obj["description"]),
		ContentURL:   contentURL,
		ThumbnailURL: sanitize.URL(first(obj, "thumbnailUrl", "thumbnail_url")),
		Duration:     sanitize.String(obj["duration"]),
	}
}

func (n *Normalizer) datePublished(p Payload) string {
	if n.useSuppliedDate {
		if v := sanitize.String(first(p, "datePublished", "date_published")); v != "" {
			return v
		}
	}
	return n.now().Format(time.RFC3339)
}

func first(p Payload, aliases ...string) any {
	v, _ := p.field(aliases...)
	return v
}
