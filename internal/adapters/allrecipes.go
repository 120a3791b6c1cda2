package adapters

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/DawsonJay/jam-hot-project/internal/domain"
)

const (
	allRecipesName      = "AllRecipes"
	allRecipesBaseURL   = "https://www.allrecipes.com"
	allRecipesSearchURL = "https://www.allrecipes.com/search"
	allRecipesLinkCap   = 10
)

var allRecipesDetailPattern = regexp.MustCompile(`/recipe/\d+/`)

// AllRecipes scrapes allrecipes.com. The site serves complete static markup
// with structured ingredient annotations, so the lightweight path suffices.
type AllRecipes struct{}

func NewAllRecipes() *AllRecipes { return &AllRecipes{} }

func (a *AllRecipes) Name() string { return allRecipesName }

func (a *AllRecipes) FetchMode() domain.FetchMode { return domain.FetchModeLightweight }

func (a *AllRecipes) SearchURL(query string) string {
	return searchQueryURL(allRecipesSearchURL, query)
}

// RecipeLinks keeps links whose href matches the /recipe/<id>/ detail
// pattern and whose visible title mentions jam, capped at 10.
func (a *AllRecipes) RecipeLinks(listingHTML string) ([]string, error) {
	doc, err := parseDocument(listingHTML)
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if !allRecipesDetailPattern.MatchString(href) {
			return true
		}

		title := strings.TrimSpace(s.Text())
		if title == "" {
			title = strings.TrimSpace(s.Parent().Find("h3, h4, span").First().Text())
		}
		if !strings.Contains(strings.ToLower(title), "jam") {
			return true
		}

		links = append(links, absoluteURL(allRecipesBaseURL, href))
		return len(links) < allRecipesLinkCap
	})

	return links, nil
}

func (a *AllRecipes) ExtractRecipe(detailHTML, sourceURL string) (*domain.Recipe, error) {
	doc, err := parseDocument(detailHTML)
	if err != nil {
		return nil, err
	}

	var rec *domain.Recipe
	if blocks := recipeBlocks(doc); len(blocks) > 0 {
		rec = recipeFromLD(blocks[0], allRecipesName, sourceURL)
	} else {
		rec = recipeFromLD(ldRecipe{}, allRecipesName, sourceURL)
	}

	if rec.Title == "" {
		rec.Title = cleanTitle(firstText(doc, "h1.article-heading", `h1[class*="heading"]`, "h1"))
	}
	if len(rec.Ingredients) == 0 {
		rec.Ingredients = a.structuredIngredients(doc)
	}
	if len(rec.Instructions) == 0 {
		rec.Instructions = a.instructionSteps(doc)
	}
	if rec.Rating == 0 {
		rec.Rating, rec.ReviewCount = a.ratingInfo(doc)
	}
	if rec.Description == "" {
		rec.Description = firstText(doc, ".mm-recipes-intro__content p")
	}

	return finishRecipe(rec, doc)
}

func (a *AllRecipes) ExtractFruits(ingredients domain.IngredientList) []string {
	return fruitsFromIngredients(ingredients)
}

// structuredIngredients reads the quantity/unit/name annotations the site
// puts on each ingredient list item, falling back to the raw item text.
func (a *AllRecipes) structuredIngredients(doc *goquery.Document) domain.IngredientList {
	var list domain.IngredientList

	doc.Find(".mm-recipes-structured-ingredients__list-item").Each(func(_ int, s *goquery.Selection) {
		quantity := strings.TrimSpace(s.Find(`[data-ingredient-quantity="true"]`).Text())
		unit := strings.TrimSpace(s.Find(`[data-ingredient-unit="true"]`).Text())
		name := strings.TrimSpace(s.Find(`[data-ingredient-name="true"]`).Text())

		if name != "" {
			item := strings.TrimSpace(strings.Join([]string{quantity, unit, name}, " "))
			list = append(list, domain.Ingredient{
				Item:     item,
				Quantity: quantity,
				Unit:     unit,
				Name:     name,
			})
			return
		}

		if text := strings.TrimSpace(s.Text()); text != "" {
			list = append(list, textIngredient(text))
		}
	})

	return list
}

func (a *AllRecipes) instructionSteps(doc *goquery.Document) domain.StringList {
	var steps domain.StringList

	selectors := []string{
		".mm-recipes-steps__content .mntl-sc-block-html",
		".mntl-sc-block-html p",
		"ol.mntl-sc-block-html li",
	}
	for _, sel := range selectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); len(text) > 10 {
				steps = append(steps, text)
			}
		})
		if len(steps) > 0 {
			return steps
		}
	}

	return steps
}

var reviewCountPattern = regexp.MustCompile(`\d+`)

func (a *AllRecipes) ratingInfo(doc *goquery.Document) (float64, int) {
	var rating float64
	if text := firstText(doc, ".mm-recipes-review-bar__rating"); text != "" {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			rating = f
		}
	}

	var reviews int
	if text := firstText(doc, ".mm-recipes-review-bar__rating-count"); text != "" {
		if m := reviewCountPattern.FindString(text); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				reviews = n
			}
		}
	}

	return rating, reviews
}
