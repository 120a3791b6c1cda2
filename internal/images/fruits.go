package images

// exoticFruits are collected into the shared unknown class so the
// classifier learns to reject fruit it was never trained to name.
var exoticFruits = []string{
	"starfruit", "persimmon", "pomegranate", "lychee", "rambutan",
	"durian", "jackfruit", "mangosteen", "longan", "custard_apple",
	"soursop", "breadfruit", "plantain", "tamarind", "guava",
	"feijoa", "cherimoya", "sapodilla", "sugar_apple", "monk_fruit",
	"horned_melon", "kiwano", "ugli_fruit", "yuzu", "kumquat",
}

// ExoticFruits returns the fruits collected for the unknown class.
func ExoticFruits() []string {
	out := make([]string, len(exoticFruits))
	copy(out, exoticFruits)
	return out
}
