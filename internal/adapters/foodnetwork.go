package adapters

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/DawsonJay/jam-hot-project/internal/domain"
)

const (
	foodNetworkName      = "Food Network"
	foodNetworkBaseURL   = "https://foodnetwork.co.uk"
	foodNetworkSearchURL = "https://foodnetwork.co.uk/search"
	foodNetworkLinkCap   = 10
)

var foodNetworkLinkSelectors = []string{
	`a[href*="/recipes/"]`,
	".recipe-card a",
	".search-result a",
	`a[data-testid*="recipe"]`,
}

// FoodNetwork scrapes the Food Network UK site, which serves static markup.
type FoodNetwork struct{}

func NewFoodNetwork() *FoodNetwork { return &FoodNetwork{} }

func (f *FoodNetwork) Name() string { return foodNetworkName }

func (f *FoodNetwork) FetchMode() domain.FetchMode { return domain.FetchModeLightweight }

func (f *FoodNetwork) SearchURL(query string) string {
	return searchQueryURL(foodNetworkSearchURL, query)
}

func (f *FoodNetwork) RecipeLinks(listingHTML string) ([]string, error) {
	doc, err := parseDocument(listingHTML)
	if err != nil {
		return nil, err
	}

	var candidates *goquery.Selection
	for _, sel := range foodNetworkLinkSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			candidates = found
			break
		}
	}
	if candidates == nil {
		return nil, nil
	}

	var links []string
	seen := make(map[string]struct{})

	candidates.EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return true
		}

		full := absoluteURL(foodNetworkBaseURL, href)
		if !strings.Contains(full, "/recipes/") {
			return true
		}
		if _, dup := seen[full]; dup {
			return true
		}

		seen[full] = struct{}{}
		links = append(links, full)
		return len(links) < foodNetworkLinkCap
	})

	return links, nil
}

func (f *FoodNetwork) ExtractRecipe(detailHTML, sourceURL string) (*domain.Recipe, error) {
	doc, err := parseDocument(detailHTML)
	if err != nil {
		return nil, err
	}

	var rec *domain.Recipe
	if blocks := recipeBlocks(doc); len(blocks) > 0 {
		rec = recipeFromLD(blocks[0], foodNetworkName, sourceURL)
	} else {
		rec = recipeFromLD(ldRecipe{}, foodNetworkName, sourceURL)
	}

	if rec.Title == "" {
		rec.Title = cleanTitle(firstText(doc, "h1.recipe-title", `h1[class*="title"]`, "h1"))
	}
	if len(rec.Ingredients) == 0 {
		doc.Find(".recipe-ingredients li, .ingredients li").Each(func(_ int, item *goquery.Selection) {
			if text := strings.TrimSpace(item.Text()); text != "" {
				rec.Ingredients = append(rec.Ingredients, textIngredient(text))
			}
		})
	}
	if len(rec.Instructions) == 0 {
		doc.Find(".recipe-method li, .method li, ol li").Each(func(_ int, item *goquery.Selection) {
			if text := strings.TrimSpace(item.Text()); len(text) > 10 {
				rec.Instructions = append(rec.Instructions, text)
			}
		})
	}

	return finishRecipe(rec, doc)
}

func (f *FoodNetwork) ExtractFruits(ingredients domain.IngredientList) []string {
	return fruitsFromIngredients(ingredients)
}
