package schema

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"RecipePress/internal/domain"
	"RecipePress/internal/duration"
)

// microdataImageCap bounds image emission in the inline fragment. The JSON-LD
// document carries the full sequence.
const microdataImageCap = 6

// Microdata renders the recipe as an itemscope/itemprop annotated HTML
// fragment rooted at a Schema.org Recipe scope. The same emission gates apply
// as for JSON-LD; only the image cap differs.
func Microdata(rec *domain.Recipe, rating domain.Rating) string {
	var b strings.Builder

	b.WriteString(`<div itemscope itemtype="https://schema.org/Recipe" class="recipepress-structured-data">` + "\n")

	meta(&b, "name", rec.Name)
	if rec.Description != "" {
		// description keeps its sanitized safe-HTML subset, so no re-escaping
		fmt.Fprintf(&b, `<div itemprop="description">%s</div>`+"\n", rec.Description)
	}
	for _, u := range imageURLs(rec.Images, microdataImageCap) {
		meta(&b, "image", u)
	}

	if rec.Author.Name != "" {
		b.WriteString(`<div itemprop="author" itemscope itemtype="https://schema.org/Person">` + "\n")
		meta(&b, "name", rec.Author.Name)
		if rec.Author.ProfileURL != "" {
			fmt.Fprintf(&b, `<link itemprop="url" href="%s">`+"\n", html.EscapeString(rec.Author.ProfileURL))
		}
		b.WriteString("</div>\n")
	}

	meta(&b, "datePublished", rec.DatePublished)
	timeMeta(&b, "prepTime", "Prep Time", rec.PrepTime)
	timeMeta(&b, "cookTime", "Cook Time", rec.CookTime)
	timeMeta(&b, "totalTime", "Total Time", rec.TotalTime)
	meta(&b, "recipeYield", rec.Yield)
	for _, c := range rec.Categories {
		meta(&b, "recipeCategory", c)
	}
	meta(&b, "recipeCuisine", rec.Cuisine)
	meta(&b, "cookingMethod", rec.CookingMethod)

	if len(rec.Ingredients) > 0 {
		b.WriteString("<ul>\n")
		for _, ing := range rec.Ingredients {
			fmt.Fprintf(&b, `<li itemprop="recipeIngredient">%s</li>`+"\n", html.EscapeString(ing))
		}
		b.WriteString("</ul>\n")
	}

	if len(rec.Instructions) > 0 {
		b.WriteString("<ol>\n")
		for i, step := range rec.Instructions {
			b.WriteString(`<li itemprop="recipeInstructions" itemscope itemtype="https://schema.org/HowToStep">` + "\n")
			meta(&b, "name", stepName(i+1))
			fmt.Fprintf(&b, `<span itemprop="text">%s</span>`+"\n", html.EscapeString(step))
			b.WriteString("</li>\n")
		}
		b.WriteString("</ol>\n")
	}

	meta(&b, "keywords", joinKeywords(rec.Keywords))
	for _, diet := range rec.DietaryRestrictions {
		meta(&b, "suitableForDiet", diet)
	}

	if rec.HasNutrition() {
		b.WriteString(`<div itemprop="nutrition" itemscope itemtype="https://schema.org/NutritionInformation">` + "\n")
		for _, key := range domain.NutritionFields {
			meta(&b, key, rec.Nutrition[key])
		}
		b.WriteString("</div>\n")
	}

	if rec.Video != nil && rec.Video.ContentURL != "" {
		b.WriteString(`<div itemprop="video" itemscope itemtype="https://schema.org/VideoObject">` + "\n")
		meta(&b, "name", rec.Video.Name)
		meta(&b, "description", rec.Video.Description)
		meta(&b, "contentUrl", rec.Video.ContentURL)
		meta(&b, "thumbnailUrl", rec.Video.ThumbnailURL)
		meta(&b, "duration", rec.Video.Duration)
		b.WriteString("</div>\n")
	}

	for _, tool := range rec.Tools {
		meta(&b, "tool", tool)
	}
	for _, supply := range rec.Supplies {
		meta(&b, "supply", supply)
	}
	meta(&b, "estimatedCost", rec.EstimatedCost)

	if rating.Emittable() {
		b.WriteString(`<div itemprop="aggregateRating" itemscope itemtype="https://schema.org/AggregateRating">` + "\n")
		meta(&b, "ratingValue", strconv.FormatFloat(roundRating(rating.Value), 'f', -1, 64))
		meta(&b, "reviewCount", strconv.Itoa(rating.ReviewCount))
		b.WriteString("</div>\n")
	}

	b.WriteString("</div>")
	return b.String()
}

func meta(b *strings.Builder, prop, content string) {
	if content == "" {
		return
	}
	fmt.Fprintf(b, `<meta itemprop="%s" content="%s">`+"\n", prop, html.EscapeString(content))
}

// timeMeta emits the machine-readable duration plus a visible human rendering.
func timeMeta(b *strings.Builder, prop, label, iso string) {
	if iso == "" {
		return
	}
	meta(b, prop, iso)
	if text := duration.Human(iso); text != "" {
		fmt.Fprintf(b, `<span class="recipepress-time">%s: %s</span>`+"\n", label, html.EscapeString(text))
	}
}
