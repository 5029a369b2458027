package domain

// Recipe is the canonical record built by the normalizer and consumed by the
// structured-data compiler. It is never mutated after construction.
type Recipe struct {
	Name                string
	Description         string
	Images              []Image
	PrepTime            string
	CookTime            string
	TotalTime           string
	Yield               string
	Categories          []string
	Cuisine             string
	CookingMethod       string
	Ingredients         []string
	Instructions        []string
	Keywords            []string
	DietaryRestrictions []string
	Nutrition           map[string]string
	Video               *Video
	Tools               []string
	Supplies            []string
	EstimatedCost       string
	Author              Author
	DatePublished       string
}

// Image pairs a URL with its alternative text.
type Image struct {
	URL     string
	AltText string
}

// Video describes an optional recipe video. It only materializes when
// ContentURL is non-empty.
type Video struct {
	Name         string
	Description  string
	ContentURL   string
	ThumbnailURL string
	Duration     string
}

// Author is the publishing identity. It is never sourced from inbound payload.
type Author struct {
	Name       string
	ProfileURL string
}

// Rating is the externally stored rating/review pair for a content record.
type Rating struct {
	Value       float64
	ReviewCount int
}

// Emittable reports whether the rating passes the emission gate: at least one
// review and a value within the 1..5 scale.
func (r Rating) Emittable() bool {
	return r.ReviewCount > 0 && r.Value >= 1 && r.Value <= 5
}

// NutritionFields is the canonical emission order for Schema.org
// NutritionInformation properties. Map-backed nutrition data follows this
// order wherever output must be deterministic.
var NutritionFields = []string{
	"calories",
	"servingSize",
	"carbohydrateContent",
	"cholesterolContent",
	"fatContent",
	"fiberContent",
	"proteinContent",
	"saturatedFatContent",
	"sodiumContent",
	"sugarContent",
	"transFatContent",
	"unsaturatedFatContent",
}

// HasNutrition reports whether at least one nutrition entry is non-empty.
func (r *Recipe) HasNutrition() bool {
	for _, v := range r.Nutrition {
		if v != "" {
			return true
		}
	}
	return false
}
