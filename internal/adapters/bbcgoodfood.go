package adapters

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/DawsonJay/jam-hot-project/internal/domain"
)

const (
	bbcGoodFoodName      = "BBC Good Food"
	bbcGoodFoodBaseURL   = "https://www.bbcgoodfood.com"
	bbcGoodFoodSearchURL = "https://www.bbcgoodfood.com/search"
)

// BBCGoodFood scrapes bbcgoodfood.com. Search results are script-rendered,
// so listings go through the rendered fetch path. Detail pages carry full
// JSON-LD Recipe blocks.
type BBCGoodFood struct{}

func NewBBCGoodFood() *BBCGoodFood { return &BBCGoodFood{} }

func (b *BBCGoodFood) Name() string { return bbcGoodFoodName }

func (b *BBCGoodFood) FetchMode() domain.FetchMode { return domain.FetchModeRendered }

func (b *BBCGoodFood) SearchURL(query string) string {
	return searchQueryURL(bbcGoodFoodSearchURL, query)
}

// RecipeLinks keeps /recipes/ links, dropping collection and category pages
// which share the path prefix.
func (b *BBCGoodFood) RecipeLinks(listingHTML string) ([]string, error) {
	doc, err := parseDocument(listingHTML)
	if err != nil {
		return nil, err
	}

	var links []string
	seen := make(map[string]struct{})

	doc.Find(`a[href*="/recipes/"]`).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}

		lower := strings.ToLower(href)
		if strings.Contains(lower, "collection") || strings.Contains(lower, "category") {
			return
		}

		full := absoluteURL(bbcGoodFoodBaseURL, href)
		if _, dup := seen[full]; dup {
			return
		}
		seen[full] = struct{}{}
		links = append(links, full)
	})

	return links, nil
}

func (b *BBCGoodFood) ExtractRecipe(detailHTML, sourceURL string) (*domain.Recipe, error) {
	doc, err := parseDocument(detailHTML)
	if err != nil {
		return nil, err
	}

	var rec *domain.Recipe
	if blocks := recipeBlocks(doc); len(blocks) > 0 {
		rec = recipeFromLD(blocks[0], bbcGoodFoodName, sourceURL)
	} else {
		rec = recipeFromLD(ldRecipe{}, bbcGoodFoodName, sourceURL)
	}

	if rec.Title == "" {
		rec.Title = cleanTitle(firstText(doc,
			"h1.recipe-header__title",
			`h1[data-test-id="recipe-title"]`,
			"h1",
		))
	}
	if len(rec.Ingredients) == 0 {
		rec.Ingredients = b.ingredientList(doc)
	}
	if len(rec.Instructions) == 0 {
		rec.Instructions = b.methodSteps(doc)
	}
	if rec.Description == "" {
		rec.Description = firstText(doc,
			".recipe-header__description",
			`[data-test-id="recipe-description"]`,
		)
	}

	return finishRecipe(rec, doc)
}

func (b *BBCGoodFood) ExtractFruits(ingredients domain.IngredientList) []string {
	return fruitsFromIngredients(ingredients)
}

func (b *BBCGoodFood) ingredientList(doc *goquery.Document) domain.IngredientList {
	var list domain.IngredientList

	sel := strings.Join([]string{
		".ingredients-list__item",
		".recipe-ingredients__item",
		".recipe-ingredients li",
		`[data-test-id="ingredient"]`,
	}, ", ")

	doc.Find(sel).Each(func(_ int, item *goquery.Selection) {
		if text := strings.TrimSpace(item.Text()); text != "" {
			list = append(list, textIngredient(text))
		}
	})

	return list
}

func (b *BBCGoodFood) methodSteps(doc *goquery.Document) domain.StringList {
	var steps domain.StringList

	sel := strings.Join([]string{
		".recipe-method__item",
		".method-list__item",
		".recipe-method li",
		`[data-test-id="method-step"]`,
	}, ", ")

	doc.Find(sel).Each(func(_ int, item *goquery.Selection) {
		if text := strings.TrimSpace(item.Text()); text != "" {
			steps = append(steps, text)
		}
	})

	return steps
}
