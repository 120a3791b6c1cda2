// Package validator implements the rule-based acceptance filter that decides
// whether an extracted recipe actually produces jam. Every site adapter uses
// the same filter so acceptance semantics stay consistent across sources.
package validator

import (
	"errors"
	"regexp"
	"strings"

	"github.com/DawsonJay/jam-hot-project/internal/domain"
)

// ErrNotTargetContent is returned by adapters when an extracted recipe fails
// validation. It marks a per-item failure, never a batch failure.
var ErrNotTargetContent = errors.New("extracted content is not a jam recipe")

// jamKeywords must appear in the title or description for a recipe to be
// considered at all.
var jamKeywords = []string{"jam", "jelly", "preserve", "marmalade", "conserve"}

// makingIngredients distinguish a recipe that produces jam from a dish that
// merely mentions it.
var makingIngredients = []string{"sugar", "pectin", "lemon juice", "lime juice", "citric acid"}

// jamMakingIngredients are legitimate production ingredients that contain the
// word "jam" and must not trigger the uses-jam rejection.
var jamMakingIngredients = []string{"jam sugar", "preserving sugar", "jam setting sugar"}

// nonJamKeywords reject recipes that use jam rather than make it: baked
// goods, desserts, proteins, beverages, and meal categories.
var nonJamKeywords = []string{
	"cake", "cupcake", "muffin", "bread", "cookie", "pie", "tart",
	"sandwich", "toast", "pancake", "waffle", "crepe", "danish",
	"cheesecake", "trifle", "parfait", "sundae", "milkshake",
	"smoothie", "cocktail", "sauce", "glaze", "frosting", "icing",
	"filling", "topping", "spread", "dip", "salad", "dressing",
	"marinade", "rub", "seasoning", "garnish", "popsicle", "frozen",
	"ice cream", "sorbet", "granita", "sherbet", "bar", "bars",
	"doughnut", "doughnuts", "donut", "donuts", "crostata", "tarts",
	"pastry", "pastries", "scuffin", "roll", "egg roll", "fried",
	"baked", "oven", "flour", "baking powder", "baking soda", "yeast",
	"dough", "drink", "beverage", "mocktail", "juice",
	"sponge", "scones", "scone", "baguette", "turnovers", "turnover",
	"board", "grazing", "chicken", "thighs", "rice", "peas", "beef",
	"pork", "fish", "salmon", "tuna", "shrimp", "pasta", "noodles",
	"soup", "stew", "casserole", "slow cooker", "crockpot", "roast",
	"grilled", "bbq", "barbecue", "breakfast", "lunch", "dinner",
	"main course", "side dish", "appetizer", "starter", "entree",
	"pizza", "burger", "wrap", "quesadilla", "tacos", "enchiladas",
}

// jamWordPattern matches "jam" as a standalone word in ingredient text.
var jamWordPattern = regexp.MustCompile(`\bjam\b`)

// IsJamRecipe reports whether the recipe is a jam production recipe. Pure
// function of its input; the rules short-circuit in order:
//  1. a jam keyword in the title or description,
//  2. at least one jam-making ingredient,
//  3. no standalone "jam" ingredient outside the jam-sugar allow-list,
//  4. no non-jam keyword in the title,
//  5. a rating strictly greater than zero.
func IsJamRecipe(rec *domain.Recipe) bool {
	title := strings.ToLower(rec.Title)
	description := strings.ToLower(rec.Description)

	if !hasJamKeyword(title, description) {
		return false
	}
	if !hasMakingIngredient(rec.Ingredients) {
		return false
	}
	if usesJamAsIngredient(rec.Ingredients) {
		return false
	}
	if hasNonJamIndicator(title) {
		return false
	}
	return rec.HasRating()
}

func hasJamKeyword(title, description string) bool {
	for _, kw := range jamKeywords {
		if strings.Contains(title, kw) || strings.Contains(description, kw) {
			return true
		}
	}
	return false
}

func hasMakingIngredient(ingredients domain.IngredientList) bool {
	for _, ing := range ingredients {
		name := strings.ToLower(ing.SearchText())
		for _, making := range makingIngredients {
			if strings.Contains(name, making) {
				return true
			}
		}
	}
	return false
}

// usesJamAsIngredient detects recipes that consume finished jam (sandwiches,
// cakes) rather than producing it. Ingredients on the jam-sugar allow-list
// are exempt.
func usesJamAsIngredient(ingredients domain.IngredientList) bool {
	for _, ing := range ingredients {
		name := strings.ToLower(ing.SearchText())
		if !strings.Contains(name, "jam") {
			continue
		}
		if isJamMakingIngredient(name) {
			continue
		}
		if jamWordPattern.MatchString(name) {
			return true
		}
	}
	return false
}

func isJamMakingIngredient(name string) bool {
	for _, allowed := range jamMakingIngredients {
		if strings.Contains(name, allowed) {
			return true
		}
	}
	return false
}

func hasNonJamIndicator(title string) bool {
	for _, kw := range nonJamKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}
