// Package domain provides domain models used across the application.
package domain

import (
	"strings"
	"time"
)

// Recipe represents a scraped jam recipe. A Recipe is immutable once it has
// passed validation; re-acquisition of the same source URL or title is a
// silent skip at insert, never an overwrite.
type Recipe struct {
	// Database identifier, zero until persisted
	ID int64 `json:"id" db:"id"`
	// Title of the recipe
	Title string `json:"title" db:"title"`
	// Free-text description, often from meta tags
	Description string `json:"description,omitempty" db:"description"`
	// Ordered ingredient list
	Ingredients IngredientList `json:"ingredients" db:"ingredients"`
	// Ordered instruction steps
	Instructions StringList `json:"instructions" db:"instructions"`
	// Numeric rating, 0.0 when the source exposes none
	Rating float64 `json:"rating" db:"rating"`
	// Number of reviews behind the rating
	ReviewCount int `json:"review_count" db:"review_count"`
	// Source site label, e.g. "AllRecipes"
	Source string `json:"source" db:"source"`
	// Detail-page URL, candidate natural key
	SourceURL string `json:"source_url" db:"source_url"`
	// Primary image URL
	ImageURL string `json:"image_url,omitempty" db:"image_url"`
	// Servings or yield text, e.g. "6 jars"
	Servings string `json:"servings,omitempty" db:"servings"`
	// Optional time strings
	PrepTime  string `json:"prep_time,omitempty" db:"prep_time"`
	CookTime  string `json:"cook_time,omitempty" db:"cook_time"`
	TotalTime string `json:"total_time,omitempty" db:"total_time"`
	// Record creation timestamp
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	// Acquisition timestamp
	ScrapedAt time.Time `json:"scraped_at" db:"scraped_at"`
}

// Ingredient is a single ingredient line. Item always carries the raw text;
// quantity, unit, and name are filled only when the source markup exposes
// structured fields.
type Ingredient struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
	Name     string `json:"name,omitempty"`
}

// SearchText returns the text used for keyword and fruit matching: the parsed
// name when present, the raw item text otherwise.
func (i Ingredient) SearchText() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Item
}

// IngredientsText returns the concatenated ingredient text for fruit
// extraction.
func (r *Recipe) IngredientsText() string {
	parts := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		parts = append(parts, ing.SearchText())
	}
	return strings.Join(parts, " ")
}

// HasRating reports whether the source exposed a usable rating.
func (r *Recipe) HasRating() bool {
	return r.Rating > 0
}

// FruitRelation links a recipe to a canonical fruit. Unique per
// (recipe, fruit) pair; relations are deleted together with their recipe
// when the curator prunes it.
type FruitRelation struct {
	RecipeID  int64  `json:"recipe_id" db:"recipe_id"`
	FruitID   int64  `json:"fruit_id" db:"fruit_id"`
	IsPrimary bool   `json:"is_primary" db:"is_primary"`
	Fruit     string `json:"fruit,omitempty" db:"-"`
}

// Fruit is a canonical fruit entity as persisted.
type Fruit struct {
	ID          int64  `json:"id" db:"id"`
	Identifier  string `json:"identifier" db:"identifier"`
	DisplayName string `json:"display_name" db:"display_name"`
}
