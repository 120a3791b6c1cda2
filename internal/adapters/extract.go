package adapters

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/DawsonJay/jam-hot-project/internal/domain"
	"github.com/DawsonJay/jam-hot-project/internal/taxonomy"
	"github.com/DawsonJay/jam-hot-project/internal/validator"
)

// Shared extraction helpers used by every site adapter.

func parseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page markup: %w", err)
	}
	return doc, nil
}

// firstText returns the trimmed text of the first selector that matches.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if s := strings.TrimSpace(doc.Find(sel).First().Text()); s != "" {
			return s
		}
	}
	return ""
}

// metaContent returns the first non-empty content attribute among the meta
// selectors.
func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if c := strings.TrimSpace(content); c != "" {
				return c
			}
		}
	}
	return ""
}

// cleanTitle strips the " Recipe" suffix sites append to page titles.
func cleanTitle(title string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(title), " Recipe"))
}

var servingsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)original recipe \(1x\) yields (\d+) servings`),
	regexp.MustCompile(`(?i)yields?\s+(\d+)\s+servings?`),
	regexp.MustCompile(`(?i)makes?\s+(\d+)\s+servings?`),
	regexp.MustCompile(`(?i)(\d+)\s+servings?`),
	regexp.MustCompile(`(?i)(\d+)\s+\d*\s?oz\.?\s+jars?`),
	regexp.MustCompile(`(?i)(\d+)\s+jars?`),
}

// servingsFromText scans free text for yield phrasing and normalizes it to
// "<n> servings" or "<n> jars".
func servingsFromText(text string) string {
	for _, pattern := range servingsPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if strings.Contains(pattern.String(), "jar") {
			return m[1] + " jars"
		}
		return m[1] + " servings"
	}
	return ""
}

// textIngredient wraps an unstructured ingredient line. Quantity and unit
// stay empty when the markup does not separate them.
func textIngredient(text string) domain.Ingredient {
	return domain.Ingredient{Item: text, Name: text}
}

// ingredientsFromStrings converts JSON-LD ingredient lines.
func ingredientsFromStrings(lines []string) domain.IngredientList {
	list := make(domain.IngredientList, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			list = append(list, textIngredient(line))
		}
	}
	return list
}

// absoluteURL resolves href against base when it is site-relative.
func absoluteURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

// searchQueryURL builds "<endpoint>?q=<encoded query>".
func searchQueryURL(endpoint, query string) string {
	return endpoint + "?q=" + url.QueryEscape(query)
}

// recipeFromLD seeds a Recipe from a JSON-LD block. Adapters fill gaps from
// the visual markup afterwards.
func recipeFromLD(ld ldRecipe, source, sourceURL string) *domain.Recipe {
	return &domain.Recipe{
		Title:        cleanTitle(ld.Name),
		Description:  ld.Description,
		Ingredients:  ingredientsFromStrings(ld.Ingredients),
		Instructions: domain.StringList(ld.Instructions),
		Rating:       ld.Rating,
		ReviewCount:  ld.ReviewCount,
		Source:       source,
		SourceURL:    sourceURL,
		ImageURL:     ld.ImageURL,
		Servings:     ld.Yield,
		PrepTime:     ld.PrepTime,
		CookTime:     ld.CookTime,
		TotalTime:    ld.TotalTime,
		ScrapedAt:    time.Now().UTC(),
	}
}

// finishRecipe applies the fallbacks every adapter shares and runs the jam
// validator. It is the last step of each adapter's ExtractRecipe.
func finishRecipe(rec *domain.Recipe, doc *goquery.Document) (*domain.Recipe, error) {
	if rec.Title == "" {
		rec.Title = cleanTitle(firstText(doc, "h1", "title"))
	}
	if rec.Title == "" {
		rec.Title = "Untitled Recipe"
	}
	if rec.Description == "" {
		rec.Description = metaContent(doc, `meta[name="description"]`)
	}
	if rec.ImageURL == "" {
		rec.ImageURL = metaContent(doc,
			`meta[property="og:image"]`,
			`meta[name="twitter:image"]`,
		)
	}
	if rec.Servings == "" {
		rec.Servings = servingsFromText(doc.Text())
	}

	if !validator.IsJamRecipe(rec) {
		return nil, fmt.Errorf("recipe %q: %w", rec.Title, validator.ErrNotTargetContent)
	}
	return rec, nil
}

// fruitsFromIngredients is the shared ExtractFruits implementation: run the
// taxonomy extractor over every ingredient's searchable text.
func fruitsFromIngredients(ingredients domain.IngredientList) []string {
	seen := make(map[string]struct{})
	for _, ing := range ingredients {
		for _, fruit := range taxonomy.ExtractFruits(ing.SearchText()) {
			seen[fruit] = struct{}{}
		}
	}

	fruits := make([]string, 0, len(seen))
	for fruit := range seen {
		fruits = append(fruits, fruit)
	}
	sort.Strings(fruits)
	return fruits
}
