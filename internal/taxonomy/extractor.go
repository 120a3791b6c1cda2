package taxonomy

import (
	"sort"
	"strings"
)

// variationIndex maps every lowercase variation to its canonical identifier.
// Built once at package init; variations are globally unique so the build
// never overwrites an existing mapping with a different identifier.
var variationIndex = buildVariationIndex()

func buildVariationIndex() map[string]string {
	index := make(map[string]string)
	for id, entry := range fruitMap {
		for _, v := range entry.Variations {
			index[strings.ToLower(v)] = id
		}
	}
	return index
}

// VariationIndex returns a copy of the variation -> identifier index.
func VariationIndex() map[string]string {
	out := make(map[string]string, len(variationIndex))
	for v, id := range variationIndex {
		out[v] = id
	}
	return out
}

// IdentifierForVariation returns the canonical identifier for a fruit
// variation, or "" when the variation is unknown.
func IdentifierForVariation(variation string) string {
	return variationIndex[strings.ToLower(variation)]
}

// ExtractFruits returns the canonical identifiers of every fruit mentioned
// in the given text. Matching is a case-insensitive substring search over
// every variation; duplicates collapse via set semantics. The result is
// sorted so callers get deterministic output.
func ExtractFruits(text string) []string {
	lower := strings.ToLower(text)
	found := make(map[string]struct{})

	for variation, id := range variationIndex {
		if strings.Contains(lower, variation) {
			found[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(found))
	for id := range found {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
