package adapters

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/DawsonJay/jam-hot-project/internal/domain"
)

const (
	seriousEatsName      = "Serious Eats"
	seriousEatsBaseURL   = "https://www.seriouseats.com"
	seriousEatsSearchURL = "https://www.seriouseats.com/search"
	seriousEatsLinkCap   = 30
)

// Listing selectors tried in order; the first that matches anything wins.
// The site has reshuffled its search markup more than once.
var seriousEatsLinkSelectors = []string{
	"a[data-doc-id]",
	".card[data-doc-id]",
	".card-list__item a",
	`a[href*="seriouseats.com"][href*="recipe"]`,
	`a[href*="/recipes/"]`,
	".recipe-card a",
	"article a",
	"h3 a, h4 a",
}

// Link titles containing these words are site navigation, not recipes.
var seriousEatsNavigationWords = []string{
	"recipes", "dinner", "easy", "cuisines", "cooking", "dishes",
	"ingredients", "meal", "techniques", "add", "login", "see all",
	"home", "about", "contact",
}

// Titles containing these words are dishes that use jam rather than
// recipes that make it.
var usesJamWords = []string{
	"sandwich", "sandwiches", "cake", "cupcake", "muffin", "bread",
	"cookie", "pie", "tart", "toast", "pancake", "waffle", "crepe",
	"danish", "croissant", "biscuit", "scone", "cheesecake", "trifle",
	"parfait", "sundae", "milkshake", "smoothie", "cocktail", "sauce",
	"glaze", "frosting", "icing", "filling", "topping", "spread", "dip",
	"salad", "dressing", "marinade", "rub", "seasoning", "garnish",
	"with jam", "using jam", "jam filled", "jam topped", "jam glazed",
}

// Title phrasings that clearly make jam.
var makesJamPhrases = []string{
	"jam recipe", "jam making", "how to make", "perfect jam", "homemade jam",
	"jam from", "jam with", "jam and", "jam or", "jam of", "jam for",
}

var titleFruitWords = []string{
	"strawberry", "cherry", "blueberry", "peach", "apple", "rhubarb",
	"blackberry", "raspberry", "grape", "orange", "lemon", "lime",
	"apricot", "plum", "fig", "pear", "cranberry", "elderberry",
	"gooseberry", "currant", "mulberry", "boysenberry",
}

// SeriousEats scrapes seriouseats.com. Static markup with rich JSON-LD.
type SeriousEats struct{}

func NewSeriousEats() *SeriousEats { return &SeriousEats{} }

func (s *SeriousEats) Name() string { return seriousEatsName }

func (s *SeriousEats) FetchMode() domain.FetchMode { return domain.FetchModeLightweight }

func (s *SeriousEats) SearchURL(query string) string {
	return searchQueryURL(seriousEatsSearchURL, query)
}

// RecipeLinks collects links from the first matching selector group, then
// filters out navigation and jam-using (rather than jam-making) titles. The
// cap is generous because downstream validation rejects aggressively.
func (s *SeriousEats) RecipeLinks(listingHTML string) ([]string, error) {
	doc, err := parseDocument(listingHTML)
	if err != nil {
		return nil, err
	}

	var candidates *goquery.Selection
	for _, sel := range seriousEatsLinkSelectors {
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
		href = absoluteURL(seriousEatsBaseURL, href)

		title := strings.TrimSpace(link.Text())
		if title == "" {
			title = strings.TrimSpace(link.Parent().Find("h1, h2, h3, h4, h5, h6").First().Text())
		}
		if title == "" {
			title, _ = link.Attr("title")
		}

		if _, dup := seen[href]; dup || !s.isJamRecipeTitle(title) {
			return true
		}

		seen[href] = struct{}{}
		links = append(links, href)
		return len(links) < seriousEatsLinkCap
	})

	return links, nil
}

// isJamRecipeTitle accepts titles that make jam and rejects navigation and
// dishes that merely use it. Ambiguous titles need both a fruit word and
// "jam" to pass.
func (s *SeriousEats) isJamRecipeTitle(title string) bool {
	lower := strings.ToLower(title)
	if lower == "" || !strings.Contains(lower, "jam") {
		return false
	}

	for _, word := range seriousEatsNavigationWords {
		if strings.Contains(lower, word) {
			return false
		}
	}
	for _, word := range usesJamWords {
		if strings.Contains(lower, word) {
			return false
		}
	}
	for _, phrase := range makesJamPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	for _, fruit := range titleFruitWords {
		if strings.Contains(lower, fruit) {
			return true
		}
	}
	return false
}

func (s *SeriousEats) ExtractRecipe(detailHTML, sourceURL string) (*domain.Recipe, error) {
	doc, err := parseDocument(detailHTML)
	if err != nil {
		return nil, err
	}

	var rec *domain.Recipe
	if blocks := recipeBlocks(doc); len(blocks) > 0 {
		rec = recipeFromLD(blocks[0], seriousEatsName, sourceURL)
	} else {
		rec = recipeFromLD(ldRecipe{}, seriousEatsName, sourceURL)
	}

	if rec.Title == "" {
		rec.Title = cleanTitle(firstText(doc,
			"h1.recipe-title", `h1[class*="title"]`, "h1.entry-title", "h1"))
	}
	if len(rec.Ingredients) == 0 {
		rec.Ingredients = s.ingredientList(doc)
	}
	if len(rec.Instructions) == 0 {
		rec.Instructions = s.instructionSteps(doc)
	}
	if rec.Description == "" {
		rec.Description = firstText(doc, ".recipe-intro p", ".recipe-summary")
	}

	return finishRecipe(rec, doc)
}

func (s *SeriousEats) ExtractFruits(ingredients domain.IngredientList) []string {
	return fruitsFromIngredients(ingredients)
}

func (s *SeriousEats) ingredientList(doc *goquery.Document) domain.IngredientList {
	var list domain.IngredientList

	sel := strings.Join([]string{
		".structured-ingredients__list-item",
		".mntl-structured-ingredients__list-item",
		".recipe-ingredients li",
		".ingredients li",
	}, ", ")

	doc.Find(sel).Each(func(_ int, item *goquery.Selection) {
		if text := strings.TrimSpace(item.Text()); text != "" {
			list = append(list, textIngredient(text))
		}
	})

	return list
}

func (s *SeriousEats) instructionSteps(doc *goquery.Document) domain.StringList {
	var steps domain.StringList

	selectors := []string{
		".mntl-sc-block-group--OL li",
		".recipe-instructions li",
		".recipe-steps li",
		"ol li",
	}
	for _, sel := range selectors {
		doc.Find(sel).Each(func(_ int, item *goquery.Selection) {
			if text := strings.TrimSpace(item.Text()); len(text) > 10 {
				steps = append(steps, text)
			}
		})
		if len(steps) > 0 {
			return steps
		}
	}

	return steps
}
