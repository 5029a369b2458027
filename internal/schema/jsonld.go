// Package schema compiles canonical Recipe records into Schema.org output:
// a JSON-LD document, an inline microdata fragment, and the block-delimited
// payload embedded in the content record body. Compilation is a pure function
// of the record and the rating source.
package schema

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"RecipePress/internal/domain"
)

const (
	schemaContext = "https://schema.org/"
	recipeType    = "Recipe"
)

type jsonLDRecipe struct {
	Context            string           `json:"@context"`
	Type               string           `json:"@type"`
	Name               string           `json:"name"`
	Description        string           `json:"description,omitempty"`
	Image              []string         `json:"image,omitempty"`
	Author             *jsonLDPerson    `json:"author,omitempty"`
	DatePublished      string           `json:"datePublished,omitempty"`
	PrepTime           string           `json:"prepTime,omitempty"`
	CookTime           string           `json:"cookTime,omitempty"`
	TotalTime          string           `json:"totalTime,omitempty"`
	RecipeYield        string           `json:"recipeYield,omitempty"`
	RecipeCategory     []string         `json:"recipeCategory,omitempty"`
	RecipeCuisine      string           `json:"recipeCuisine,omitempty"`
	CookingMethod      string           `json:"cookingMethod,omitempty"`
	RecipeIngredient   []string         `json:"recipeIngredient,omitempty"`
	RecipeInstructions []jsonLDStep     `json:"recipeInstructions,omitempty"`
	Keywords           string           `json:"keywords,omitempty"`
	SuitableForDiet    []string         `json:"suitableForDiet,omitempty"`
	Nutrition          *jsonLDNutrition `json:"nutrition,omitempty"`
	Video              *jsonLDVideo     `json:"video,omitempty"`
	Tool               []string         `json:"tool,omitempty"`
	Supply             []string         `json:"supply,omitempty"`
	EstimatedCost      string           `json:"estimatedCost,omitempty"`
	AggregateRating    *jsonLDRating    `json:"aggregateRating,omitempty"`
}

type jsonLDPerson struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type jsonLDStep struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	Text string `json:"text"`
}

type jsonLDNutrition struct {
	Type                  string `json:"@type"`
	Calories              string `json:"calories,omitempty"`
	ServingSize           string `json:"servingSize,omitempty"`
	CarbohydrateContent   string `json:"carbohydrateContent,omitempty"`
	CholesterolContent    string `json:"cholesterolContent,omitempty"`
	FatContent            string `json:"fatContent,omitempty"`
	FiberContent          string `json:"fiberContent,omitempty"`
	ProteinContent        string `json:"proteinContent,omitempty"`
	SaturatedFatContent   string `json:"saturatedFatContent,omitempty"`
	SodiumContent         string `json:"sodiumContent,omitempty"`
	SugarContent          string `json:"sugarContent,omitempty"`
	TransFatContent       string `json:"transFatContent,omitempty"`
	UnsaturatedFatContent string `json:"unsaturatedFatContent,omitempty"`
}

type jsonLDVideo struct {
	Type         string `json:"@type"`
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	ContentURL   string `json:"contentUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Duration     string `json:"duration,omitempty"`
}

type jsonLDRating struct {
	Type        string  `json:"@type"`
	RatingValue float64 `json:"ratingValue"`
	ReviewCount int     `json:"reviewCount"`
}

// JSONLD serializes the recipe as a Schema.org JSON-LD document. Optional
// fields are omitted entirely when empty; key order follows the struct
// declaration, so identical inputs produce byte-identical output. Angle
// brackets are escaped to \uXXXX sequences, so the document can never close
// the script element it is embedded in.
func JSONLD(rec *domain.Recipe, rating domain.Rating) ([]byte, error) {
	doc := jsonLDRecipe{
		Context:          schemaContext,
		Type:             recipeType,
		Name:             rec.Name,
		Description:      rec.Description,
		Image:            imageURLs(rec.Images, 0),
		DatePublished:    rec.DatePublished,
		PrepTime:         rec.PrepTime,
		CookTime:         rec.CookTime,
		TotalTime:        rec.TotalTime,
		RecipeYield:      rec.Yield,
		RecipeCategory:   rec.Categories,
		RecipeCuisine:    rec.Cuisine,
		CookingMethod:    rec.CookingMethod,
		RecipeIngredient: rec.Ingredients,
		Keywords:         joinKeywords(rec.Keywords),
		SuitableForDiet:  rec.DietaryRestrictions,
		Tool:             rec.Tools,
		Supply:           rec.Supplies,
		EstimatedCost:    rec.EstimatedCost,
	}

	if rec.Author.Name != "" {
		doc.Author = &jsonLDPerson{Type: "Person", Name: rec.Author.Name, URL: rec.Author.ProfileURL}
	}

	for i, text := range rec.Instructions {
		doc.RecipeInstructions = append(doc.RecipeInstructions, jsonLDStep{
			Type: "HowToStep",
			Name: stepName(i + 1),
			Text: text,
		})
	}

	if rec.HasNutrition() {
		doc.Nutrition = &jsonLDNutrition{
			Type:                  "NutritionInformation",
			Calories:              rec.Nutrition["calories"],
			ServingSize:           rec.Nutrition["servingSize"],
			CarbohydrateContent:   rec.Nutrition["carbohydrateContent"],
			CholesterolContent:    rec.Nutrition["cholesterolContent"],
			FatContent:            rec.Nutrition["fatContent"],
			FiberContent:          rec.Nutrition["fiberContent"],
			ProteinContent:        rec.Nutrition["proteinContent"],
			SaturatedFatContent:   rec.Nutrition["saturatedFatContent"],
			SodiumContent:         rec.Nutrition["sodiumContent"],
			SugarContent:          rec.Nutrition["sugarContent"],
			TransFatContent:       rec.Nutrition["transFatContent"],
			UnsaturatedFatContent: rec.Nutrition["unsaturatedFatContent"],
		}
	}

	if rec.Video != nil && rec.Video.ContentURL != "" {
		doc.Video = &jsonLDVideo{
			Type:         "VideoObject",
			Name:         rec.Video.Name,
			Description:  rec.Video.Description,
			ContentURL:   rec.Video.ContentURL,
			ThumbnailURL: rec.Video.ThumbnailURL,
			Duration:     rec.Video.Duration,
		}
	}

	if rating.Emittable() {
		doc.AggregateRating = &jsonLDRating{
			Type:        "AggregateRating",
			RatingValue: roundRating(rating.Value),
			ReviewCount: rating.ReviewCount,
		}
	}

	return json.Marshal(doc)
}

// ScriptTag wraps a JSON-LD document in the script element the host renders
// into the page head or body.
func ScriptTag(jsonLD []byte) string {
	return `<script type="application/ld+json">` + string(jsonLD) + `</script>`
}

func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func imageURLs(images []domain.Image, limit int) []string {
	if len(images) == 0 {
		return nil
	}
	if limit > 0 && len(images) > limit {
		images = images[:limit]
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URL)
	}
	return urls
}

func joinKeywords(keywords []string) string {
	out := ""
	for i, kw := range keywords {
		if i > 0 {
			out += ", "
		}
		out += kw
	}
	return out
}

func roundRating(v float64) float64 {
	return math.Round(v*100) / 100
}

func stepName(n int) string {
	return "Step " + strconv.Itoa(n)
}
