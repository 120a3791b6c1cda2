package adapters

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ldRecipe is the subset of a schema.org Recipe block the pipeline uses.
// Sites serialize these loosely, so every field is parsed defensively from
// untyped JSON.
type ldRecipe struct {
	Name         string
	Description  string
	Ingredients  []string
	Instructions []string
	Rating       float64
	ReviewCount  int
	ImageURL     string
	Yield        string
	PrepTime     string
	CookTime     string
	TotalTime    string
}

// recipeBlocks decodes every JSON-LD Recipe object in the document, in
// document order. Malformed blocks are skipped.
func recipeBlocks(doc *goquery.Document) []ldRecipe {
	var recipes []ldRecipe

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return
		}
		for _, node := range recipeNodes(raw) {
			recipes = append(recipes, parseLDRecipe(node))
		}
	})

	return recipes
}

// recipeNodes walks a decoded JSON-LD value and collects every object whose
// @type includes Recipe. Top-level arrays and @graph containers are common.
func recipeNodes(v any) []map[string]any {
	var found []map[string]any

	switch node := v.(type) {
	case []any:
		for _, item := range node {
			found = append(found, recipeNodes(item)...)
		}
	case map[string]any:
		if hasType(node, "Recipe") {
			found = append(found, node)
		}
		if graph, ok := node["@graph"]; ok {
			found = append(found, recipeNodes(graph)...)
		}
	}

	return found
}

// hasType reports whether a JSON-LD node's @type matches want. The field is
// either a string or a list of strings.
func hasType(node map[string]any, want string) bool {
	switch t := node["@type"].(type) {
	case string:
		return t == want
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func parseLDRecipe(node map[string]any) ldRecipe {
	rec := ldRecipe{
		Name:        ldString(node["name"]),
		Description: ldString(node["description"]),
		ImageURL:    ldImage(node["image"]),
		Yield:       ldYield(node["recipeYield"]),
		PrepTime:    ldString(node["prepTime"]),
		CookTime:    ldString(node["cookTime"]),
		TotalTime:   ldString(node["totalTime"]),
	}

	if list, ok := node["recipeIngredient"].([]any); ok {
		for _, item := range list {
			if s := ldString(item); s != "" {
				rec.Ingredients = append(rec.Ingredients, s)
			}
		}
	}

	rec.Instructions = ldInstructions(node["recipeInstructions"])
	rec.Rating, rec.ReviewCount = ldAggregateRating(node["aggregateRating"])

	return rec
}

// ldInstructions flattens recipeInstructions, which may be plain strings,
// HowToStep objects, or HowToSection objects containing steps.
func ldInstructions(v any) []string {
	var steps []string

	switch node := v.(type) {
	case string:
		if s := strings.TrimSpace(node); s != "" {
			steps = append(steps, s)
		}
	case []any:
		for _, item := range node {
			steps = append(steps, ldInstructions(item)...)
		}
	case map[string]any:
		if text := ldString(node["text"]); text != "" {
			steps = append(steps, text)
		}
		if items, ok := node["itemListElement"]; ok {
			steps = append(steps, ldInstructions(items)...)
		}
	}

	return steps
}

// ldAggregateRating reads ratingValue plus whichever of ratingCount and
// reviewCount is present, preferring ratingCount.
func ldAggregateRating(v any) (float64, int) {
	node, ok := v.(map[string]any)
	if !ok {
		return 0, 0
	}

	rating := ldFloat(node["ratingValue"])

	count := ldInt(node["ratingCount"])
	if count == 0 {
		count = ldInt(node["reviewCount"])
	}

	return rating, count
}

// ldImage handles the three image shapes sites use: a bare URL string, an
// ImageObject, or a list of either.
func ldImage(v any) string {
	switch node := v.(type) {
	case string:
		return node
	case map[string]any:
		return ldString(node["url"])
	case []any:
		for _, item := range node {
			if url := ldImage(item); url != "" {
				return url
			}
		}
	}
	return ""
}

// ldYield normalizes recipeYield, which may be a number, a string, or a
// list, into a display string such as "4 jars".
func ldYield(v any) string {
	switch node := v.(type) {
	case string:
		return strings.TrimSpace(node)
	case float64:
		return strconv.Itoa(int(node)) + " servings"
	case []any:
		for _, item := range node {
			if s := ldYield(item); s != "" {
				return s
			}
		}
	}
	return ""
}

func ldString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

var leadingNumberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ldFloat parses a number that sites serialize as either a JSON number or a
// string like "4.7" or "4.7 stars".
func ldFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if m := leadingNumberPattern.FindString(n); m != "" {
			f, err := strconv.ParseFloat(m, 64)
			if err == nil {
				return f
			}
		}
	}
	return 0
}

func ldInt(v any) int {
	return int(ldFloat(v))
}
