package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"RecipePress/internal/domain"
)

const (
	blockOpen  = "<!-- wp:recipepress/recipe -->"
	blockClose = "<!-- /wp:recipepress/recipe -->"
)

// blockRecipe is the wire form of the canonical record embedded between the
// block markers. It must round-trip: parsing the payload reconstructs the
// Recipe used to render it.
type blockRecipe struct {
	Name                string            `json:"name"`
	Description         string            `json:"description,omitempty"`
	Images              []blockImage      `json:"images,omitempty"`
	PrepTime            string            `json:"prepTime,omitempty"`
	CookTime            string            `json:"cookTime,omitempty"`
	TotalTime           string            `json:"totalTime,omitempty"`
	Yield               string            `json:"yield,omitempty"`
	Categories          []string          `json:"categories,omitempty"`
	Cuisine             string            `json:"cuisine,omitempty"`
	CookingMethod       string            `json:"cookingMethod,omitempty"`
	Ingredients         []string          `json:"ingredients,omitempty"`
	Instructions        []string          `json:"instructions,omitempty"`
	Keywords            []string          `json:"keywords,omitempty"`
	DietaryRestrictions []string          `json:"dietaryRestrictions,omitempty"`
	Nutrition           map[string]string `json:"nutrition,omitempty"`
	Video               *blockVideo       `json:"video,omitempty"`
	Tools               []string          `json:"tools,omitempty"`
	Supplies            []string          `json:"supplies,omitempty"`
	EstimatedCost       string            `json:"estimatedCost,omitempty"`
	AuthorName          string            `json:"authorName,omitempty"`
	AuthorURL           string            `json:"authorUrl,omitempty"`
	DatePublished       string            `json:"datePublished,omitempty"`
}

type blockImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

type blockVideo struct {
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	ContentURL   string `json:"contentUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Duration     string `json:"duration,omitempty"`
}

// MarshalBlock renders the block-comment-delimited fragment persisted inside
// the content record body. Forward slashes stay unescaped.
func MarshalBlock(rec *domain.Recipe) (string, error) {
	payload, err := marshalUnescaped(toBlock(rec))
	if err != nil {
		return "", fmt.Errorf("marshal recipe block: %w", err)
	}
	return blockOpen + "\n" + string(payload) + "\n" + blockClose, nil
}

// ParseBlock extracts and decodes the first recipe block found in a content
// record body. The boolean is false when no block is present.
func ParseBlock(body string) (*domain.Recipe, bool, error) {
	start := strings.Index(body, blockOpen)
	if start < 0 {
		return nil, false, nil
	}
	rest := body[start+len(blockOpen):]
	end := strings.Index(rest, blockClose)
	if end < 0 {
		return nil, false, fmt.Errorf("recipe block is missing its closing marker")
	}

	var wire blockRecipe
	if err := json.Unmarshal([]byte(strings.TrimSpace(rest[:end])), &wire); err != nil {
		return nil, false, fmt.Errorf("decode recipe block: %w", err)
	}
	return fromBlock(&wire), true, nil
}

// Narrative returns the free-form content preceding the recipe block, or the
// whole body when no block is present. The block and the markup appended
// after it are the compiler's output and get regenerated on every publish.
func Narrative(body string) string {
	if i := strings.Index(body, blockOpen); i >= 0 {
		body = body[:i]
	}
	return strings.TrimSpace(body)
}

func toBlock(rec *domain.Recipe) *blockRecipe {
	wire := &blockRecipe{
		Name:                rec.Name,
		Description:         rec.Description,
		PrepTime:            rec.PrepTime,
		CookTime:            rec.CookTime,
		TotalTime:           rec.TotalTime,
		Yield:               rec.Yield,
		Categories:          rec.Categories,
		Cuisine:             rec.Cuisine,
		CookingMethod:       rec.CookingMethod,
		Ingredients:         rec.Ingredients,
		Instructions:        rec.Instructions,
		Keywords:            rec.Keywords,
		DietaryRestrictions: rec.DietaryRestrictions,
		Nutrition:           rec.Nutrition,
		Tools:               rec.Tools,
		Supplies:            rec.Supplies,
		EstimatedCost:       rec.EstimatedCost,
		AuthorName:          rec.Author.Name,
		AuthorURL:           rec.Author.ProfileURL,
		DatePublished:       rec.DatePublished,
	}
	for _, img := range rec.Images {
		wire.Images = append(wire.Images, blockImage{URL: img.URL, AltText: img.AltText})
	}
	if rec.Video != nil {
		wire.Video = &blockVideo{
			Name:         rec.Video.Name,
			Description:  rec.Video.Description,
			ContentURL:   rec.Video.ContentURL,
			ThumbnailURL: rec.Video.ThumbnailURL,
			Duration:     rec.Video.Duration,
		}
	}
	return wire
}

func fromBlock(wire *blockRecipe) *domain.Recipe {
	rec := &domain.Recipe{
		Name:                wire.Name,
		Description:         wire.Description,
		PrepTime:            wire.PrepTime,
		CookTime:            wire.CookTime,
		TotalTime:           wire.TotalTime,
		Yield:               wire.Yield,
		Categories:          wire.Categories,
		Cuisine:             wire.Cuisine,
		CookingMethod:       wire.CookingMethod,
		Ingredients:         wire.Ingredients,
		Instructions:        wire.Instructions,
		Keywords:            wire.Keywords,
		DietaryRestrictions: wire.DietaryRestrictions,
		Nutrition:           wire.Nutrition,
		Tools:               wire.Tools,
		Supplies:            wire.Supplies,
		EstimatedCost:       wire.EstimatedCost,
		Author:              domain.Author{Name: wire.AuthorName, ProfileURL: wire.AuthorURL},
		DatePublished:       wire.DatePublished,
	}
	for _, img := range wire.Images {
		rec.Images = append(rec.Images, domain.Image{URL: img.URL, AltText: img.AltText})
	}
	if wire.Video != nil {
		rec.Video = &domain.Video{
			Name:         wire.Video.Name,
			Description:  wire.Video.Description,
			ContentURL:   wire.Video.ContentURL,
			ThumbnailURL: wire.Video.ThumbnailURL,
			Duration:     wire.Video.Duration,
		}
	}
	return rec
}
