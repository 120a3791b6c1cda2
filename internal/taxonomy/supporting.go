package taxonomy

// supportingFruits are fruits conventionally added for pectin, acidity, or
// bulk rather than as the showcased ingredient. They classify as secondary
// unless the recipe title mentions them.
var supportingFruits = map[string]struct{}{
	// Citrus (pectin and acidity)
	"lemon":  {},
	"lime":   {},
	"orange": {},
	// High pectin / bulk
	"apple": {},
}

// IsSupporting reports whether a canonical fruit identifier is a supporting
// fruit.
func IsSupporting(identifier string) bool {
	_, ok := supportingFruits[identifier]
	return ok
}

// SupportingFruits returns the supporting fruit identifiers.
func SupportingFruits() []string {
	out := make([]string, 0, len(supportingFruits))
	for id := range supportingFruits {
		out = append(out, id)
	}
	return out
}

// ClassifyFruits splits extracted fruit identifiers into primary and
// secondary sets for a recipe. A fruit mentioned in the title is always
// primary; otherwise supporting fruits are secondary and everything else is
// primary.
func ClassifyFruits(title string, fruits []string) (primary, secondary []string) {
	titleFruits := make(map[string]struct{})
	for _, id := range ExtractFruits(title) {
		titleFruits[id] = struct{}{}
	}

	for _, id := range fruits {
		if _, inTitle := titleFruits[id]; inTitle {
			primary = append(primary, id)
			continue
		}
		if IsSupporting(id) {
			secondary = append(secondary, id)
			continue
		}
		primary = append(primary, id)
	}
	return primary, secondary
}
