package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RecipePress/internal/domain"
)

func sampleRecipe() *domain.Recipe {
	return &domain.Recipe{
		Name:        "Pancakes",
		Description: "<p>Fluffy <strong>breakfast</strong> pancakes</p>",
		Images: []domain.Image{
			{URL: "https://example.com/1.jpg", AltText: "stack"},
			{URL: "https://example.com/2.jpg"},
		},
		PrepTime:      "PT10M",
		CookTime:      "PT20M",
		TotalTime:     "PT30M",
		Yield:         "8 pancakes",
		Categories:    []string{"Breakfast"},
		Cuisine:       "American",
		Ingredients:   []string{"1 cup flour", "2 eggs"},
		Instructions:  []string{"Mix", "Cook"},
		Keywords:      []string{"pancakes", "breakfast"},
		Nutrition:     map[string]string{"calories": "210 kcal", "proteinContent": "6 g"},
		Author:        domain.Author{Name: "Food Desk", ProfileURL: "https://example.com/author/food-desk"},
		DatePublished: "2025-03-14T09:26:53Z",
	}
}

func TestJSONLDShape(t *testing.T) {
	t.Parallel()

	raw, err := JSONLD(sampleRecipe(), domain.Rating{})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "https://schema.org/", doc["@context"])
	assert.Equal(t, "Recipe", doc["@type"])
	assert.Equal(t, "Pancakes", doc["name"])
	assert.Equal(t, []any{"https://example.com/1.jpg", "https://example.com/2.jpg"}, doc["image"])
	assert.Equal(t, []any{"1 cup flour", "2 eggs"}, doc["recipeIngredient"])
	assert.Equal(t, "pancakes, breakfast", doc["keywords"])

	steps, ok := doc["recipeInstructions"].([]any)
	require.True(t, ok)
	require.Len(t, steps, 2)
	first := steps[0].(map[string]any)
	assert.Equal(t, "HowToStep", first["@type"])
	assert.Equal(t, "Step 1", first["name"])
	assert.Equal(t, "Mix", first["text"])
	second := steps[1].(map[string]any)
	assert.Equal(t, "Step 2", second["name"])
	assert.Equal(t, "Cook", second["text"])

	author := doc["author"].(map[string]any)
	assert.Equal(t, "Person", author["@type"])
	assert.Equal(t, "Food Desk", author["name"])

	nutrition := doc["nutrition"].(map[string]any)
	assert.Equal(t, "NutritionInformation", nutrition["@type"])
	assert.Equal(t, "210 kcal", nutrition["calories"])
}

func TestJSONLDDeterminism(t *testing.T) {
	t.Parallel()

	rec := sampleRecipe()
	rating := domain.Rating{Value: 4.667, ReviewCount: 12}

	first, err := JSONLD(rec, rating)
	require.NoError(t, err)
	second, err := JSONLD(rec, rating)
	require.NoError(t, err)

	if !bytes.Equal(first, second) {
		t.Fatalf("expected byte-identical output, got drift:\n%s\n%s", first, second)
	}
}

func TestJSONLDOmitsEmptyFields(t *testing.T) {
	t.Parallel()

	rec := &domain.Recipe{Name: "Toast", Author: domain.Author{Name: "Food Desk"}}
	raw, err := JSONLD(rec, domain.Rating{})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	for _, key := range []string{"nutrition", "video", "image", "recipeIngredient", "recipeInstructions", "aggregateRating", "keywords", "description"} {
		_, present := doc[key]
		assert.False(t, present, "expected %q to be omitted entirely", key)
	}
}

func TestJSONLDRatingGate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rating domain.Rating
		want   bool
	}{
		{name: "valid rating emitted", rating: domain.Rating{Value: 4.5, ReviewCount: 3}, want: true},
		{name: "zero reviews omitted", rating: domain.Rating{Value: 4.5, ReviewCount: 0}, want: false},
		{name: "value above scale omitted", rating: domain.Rating{Value: 6, ReviewCount: 3}, want: false},
		{name: "value below scale omitted", rating: domain.Rating{Value: 0.5, ReviewCount: 3}, want: false},
		{name: "boundary 1 emitted", rating: domain.Rating{Value: 1, ReviewCount: 1}, want: true},
		{name: "boundary 5 emitted", rating: domain.Rating{Value: 5, ReviewCount: 1}, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := JSONLD(sampleRecipe(), tc.rating)
			require.NoError(t, err)

			var doc map[string]any
			require.NoError(t, json.Unmarshal(raw, &doc))
			_, present := doc["aggregateRating"]
			assert.Equal(t, tc.want, present)
		})
	}
}

func TestJSONLDRatingRounding(t *testing.T) {
	t.Parallel()

	raw, err := JSONLD(sampleRecipe(), domain.Rating{Value: 4.6667, ReviewCount: 9})
	require.NoError(t, err)

	var doc struct {
		AggregateRating struct {
			RatingValue float64 `json:"ratingValue"`
			ReviewCount int     `json:"reviewCount"`
		} `json:"aggregateRating"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 4.67, doc.AggregateRating.RatingValue)
	assert.Equal(t, 9, doc.AggregateRating.ReviewCount)
}

func TestJSONLDCannotCloseScriptElement(t *testing.T) {
	t.Parallel()

	rec := sampleRecipe()
	rec.Ingredients = []string{`1 cup flour</script><script>alert(1)</script>`}
	rec.Description = `<p>tricky</p></script>`

	raw, err := JSONLD(rec, domain.Rating{})
	require.NoError(t, err)

	tag := ScriptTag(raw)
	assert.Equal(t, 1, strings.Count(tag, "</script>"), "document must not terminate the script element early")
	assert.False(t, bytes.Contains(raw, []byte("</script>")))

	// escaping is lossless
	var doc struct {
		RecipeIngredient []string `json:"recipeIngredient"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, rec.Ingredients, doc.RecipeIngredient)
}

func TestMicrodataFragment(t *testing.T) {
	t.Parallel()

	fragment := Microdata(sampleRecipe(), domain.Rating{Value: 4.5, ReviewCount: 7})

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	require.NoError(t, err)

	root := doc.Find(`div[itemtype="https://schema.org/Recipe"]`)
	require.Equal(t, 1, root.Length())

	name, _ := root.Find(`meta[itemprop="name"]`).First().Attr("content")
	assert.Equal(t, "Pancakes", name)

	assert.Equal(t, 2, root.Find(`li[itemprop="recipeIngredient"]`).Length())

	steps := root.Find(`li[itemtype="https://schema.org/HowToStep"]`)
	require.Equal(t, 2, steps.Length())
	stepName, _ := steps.First().Find(`meta[itemprop="name"]`).Attr("content")
	assert.Equal(t, "Step 1", stepName)

	person := root.Find(`div[itemtype="https://schema.org/Person"]`)
	require.Equal(t, 1, person.Length())

	ratingScope := root.Find(`div[itemtype="https://schema.org/AggregateRating"]`)
	require.Equal(t, 1, ratingScope.Length())
	reviews, _ := ratingScope.Find(`meta[itemprop="reviewCount"]`).Attr("content")
	assert.Equal(t, "7", reviews)

	// durations render both machine and human readable
	prep, _ := root.Find(`meta[itemprop="prepTime"]`).Attr("content")
	assert.Equal(t, "PT10M", prep)
	assert.Contains(t, fragment, "Prep Time: 10 minutes")
}

func TestMicrodataImageCap(t *testing.T) {
	t.Parallel()

	rec := sampleRecipe()
	rec.Images = nil
	for i := 0; i < 9; i++ {
		rec.Images = append(rec.Images, domain.Image{URL: fmt.Sprintf("https://example.com/%d.jpg", i)})
	}

	fragment := Microdata(rec, domain.Rating{})
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	require.NoError(t, err)
	assert.Equal(t, 6, doc.Find(`meta[itemprop="image"]`).Length())

	// JSON-LD emission is uncapped
	raw, err := JSONLD(rec, domain.Rating{})
	require.NoError(t, err)
	var jd struct {
		Image []string `json:"image"`
	}
	require.NoError(t, json.Unmarshal(raw, &jd))
	assert.Len(t, jd.Image, 9)
}

func TestMicrodataEscapesValues(t *testing.T) {
	t.Parallel()

	rec := &domain.Recipe{
		Name:        `Spicy "Hot" <Wings>`,
		Ingredients: []string{`1 lb wings & sauce`},
		Author:      domain.Author{Name: "Food Desk"},
	}
	fragment := Microdata(rec, domain.Rating{})

	assert.NotContains(t, fragment, `content="Spicy "Hot"`)
	assert.Contains(t, fragment, "&amp; sauce")
}

func TestBlockRoundTrip(t *testing.T) {
	t.Parallel()

	rec := sampleRecipe()
	rec.Video = &domain.Video{Name: "clip", ContentURL: "https://example.com/v.mp4"}

	block, err := MarshalBlock(rec)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(block, "<!-- wp:recipepress/recipe -->"))
	assert.True(t, strings.HasSuffix(block, "<!-- /wp:recipepress/recipe -->"))
	assert.Contains(t, block, "https://example.com/v.mp4")
	assert.NotContains(t, block, `\/`)

	body := "<p>Intro paragraph</p>\n" + block + "\n<p>Outro</p>"
	parsed, found, err := ParseBlock(body)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rec, parsed)
}

func TestParseBlockAbsent(t *testing.T) {
	t.Parallel()

	parsed, found, err := ParseBlock("<p>No structured data here</p>")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, parsed)
}

func TestParseBlockMissingClose(t *testing.T) {
	t.Parallel()

	_, _, err := ParseBlock("<!-- wp:recipepress/recipe -->\n{}")
	require.Error(t, err)
}

func TestNarrative(t *testing.T) {
	t.Parallel()

	block, err := MarshalBlock(sampleRecipe())
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "narrative before block", body: "<p>Intro</p>\n\n" + block + "\nmarkup tail", want: "<p>Intro</p>"},
		{name: "no block keeps whole body", body: "<p>Just a story</p>", want: "<p>Just a story</p>"},
		{name: "block only", body: block, want: ""},
		{name: "empty", body: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Narrative(tc.body))
		})
	}
}

func TestCompileMarkupContainsAllArtifacts(t *testing.T) {
	t.Parallel()

	out, err := Compile(sampleRecipe(), domain.Rating{})
	require.NoError(t, err)

	markup := out.Markup()
	assert.Contains(t, markup, "<!-- wp:recipepress/recipe -->")
	assert.Contains(t, markup, `<script type="application/ld+json">`)
	assert.Contains(t, markup, `itemtype="https://schema.org/Recipe"`)
}
