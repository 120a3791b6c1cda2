// Package taxonomy provides the canonical fruit dictionary and the free-text
// fruit extractor. The dictionary maps each canonical identifier to the
// lowercase text variations sources use for it; variations are globally
// unique across all fruits.
package taxonomy

// Entry describes one canonical fruit.
type Entry struct {
	// DisplayName is the human-readable name.
	DisplayName string
	// Variations are the lowercase text forms that map to this fruit.
	Variations []string
}

// fruitMap is the canonical identifier -> entry dictionary, loaded once at
// startup and never mutated.
var fruitMap = map[string]Entry{
	// Berries
	"strawberry": {
		DisplayName: "Strawberry",
		Variations: []string{
			"strawberry", "strawberries", "fresh strawberry", "fresh strawberries",
			"frozen strawberry", "frozen strawberries", "wild strawberry", "wild strawberries",
			"strawberry puree", "strawberry pulp", "strawberry jam", "strawberry preserve",
		},
	},
	"blueberry": {
		DisplayName: "Blueberry",
		Variations: []string{
			"blueberry", "blueberries", "fresh blueberry", "fresh blueberries",
			"frozen blueberry", "frozen blueberries", "wild blueberry", "wild blueberries",
			"blueberry puree", "blueberry pulp", "highbush blueberry", "lowbush blueberry",
		},
	},
	"raspberry": {
		DisplayName: "Raspberry",
		Variations: []string{
			"raspberry", "raspberries", "fresh raspberry", "fresh raspberries",
			"frozen raspberry", "frozen raspberries", "wild raspberry", "wild raspberries",
			"raspberry puree", "raspberry pulp", "red raspberry", "black raspberry",
		},
	},
	"blackberry": {
		DisplayName: "Blackberry",
		Variations: []string{
			"blackberry", "blackberries", "fresh blackberry", "fresh blackberries",
			"frozen blackberry", "frozen blackberries", "wild blackberry", "wild blackberries",
			"blackberry puree", "blackberry pulp", "dewberry", "dewberries",
		},
	},
	"elderberry": {
		DisplayName: "Elderberry",
		Variations: []string{
			"elderberry", "elderberries", "fresh elderberry", "fresh elderberries",
			"elderberry puree", "elderberry pulp", "sambucus", "elder",
		},
	},
	"cranberry": {
		DisplayName: "Cranberry",
		Variations: []string{
			"cranberry", "cranberries", "fresh cranberry", "fresh cranberries",
			"frozen cranberry", "frozen cranberries", "cranberry puree", "cranberry pulp",
		},
	},
	"gooseberry": {
		DisplayName: "Gooseberry",
		Variations: []string{
			"gooseberry", "gooseberries", "fresh gooseberry", "fresh gooseberries",
			"gooseberry puree", "gooseberry pulp", "cape gooseberry", "cape gooseberries",
		},
	},
	"currant": {
		DisplayName: "Currant",
		Variations: []string{
			"currant", "currants", "red currant", "red currants", "black currant", "black currants",
			"white currant", "white currants", "fresh currant", "fresh currants",
			"currant puree", "currant pulp",
		},
	},

	// Stone fruits
	"peach": {
		DisplayName: "Peach",
		Variations: []string{
			"peach", "peaches", "fresh peach", "fresh peaches", "frozen peach", "frozen peaches",
			"peach puree", "peach pulp", "white peach", "white peaches", "yellow peach", "yellow peaches",
			"cling peach", "cling peaches", "freestone peach", "freestone peaches",
		},
	},
	"apricot": {
		DisplayName: "Apricot",
		Variations: []string{
			"apricot", "apricots", "fresh apricot", "fresh apricots", "dried apricot", "dried apricots",
			"apricot puree", "apricot pulp", "apricot jam", "apricot preserve",
		},
	},
	"plum": {
		DisplayName: "Plum",
		Variations: []string{
			"plum", "plums", "fresh plum", "fresh plums", "frozen plum", "frozen plums",
			"plum puree", "plum pulp", "damson plum", "damson plums", "italian plum", "italian plums",
			"santa rosa plum", "santa rosa plums",
		},
	},
	"cherry": {
		DisplayName: "Cherry",
		Variations: []string{
			"cherry", "cherries", "fresh cherry", "fresh cherries", "frozen cherry", "frozen cherries",
			"cherry puree", "cherry pulp", "sweet cherry", "sweet cherries", "sour cherry", "sour cherries",
			"bing cherry", "bing cherries", "rainier cherry", "rainier cherries",
		},
	},
	"nectarine": {
		DisplayName: "Nectarine",
		Variations: []string{
			"nectarine", "nectarines", "fresh nectarine", "fresh nectarines",
			"nectarine puree", "nectarine pulp", "white nectarine", "white nectarines",
		},
	},

	// Citrus
	"orange": {
		DisplayName: "Orange",
		Variations: []string{
			"orange", "oranges", "fresh orange", "fresh oranges", "orange juice", "orange zest",
			"orange peel", "blood orange", "blood oranges", "navel orange", "navel oranges",
			"valencia orange", "valencia oranges", "mandarin orange", "mandarin oranges",
		},
	},
	"lemon": {
		DisplayName: "Lemon",
		Variations: []string{
			"lemon", "lemons", "fresh lemon", "fresh lemons", "lemon juice", "lemon zest",
			"lemon peel", "meyer lemon", "meyer lemons", "eureka lemon", "eureka lemons",
		},
	},
	"lime": {
		DisplayName: "Lime",
		Variations: []string{
			"lime", "limes", "fresh lime", "fresh limes", "lime juice", "lime zest",
			"lime peel", "key lime", "key limes", "persian lime", "persian limes",
		},
	},
	"grapefruit": {
		DisplayName: "Grapefruit",
		Variations: []string{
			"grapefruit", "grapefruits", "fresh grapefruit", "fresh grapefruits",
			"grapefruit juice", "grapefruit zest", "pink grapefruit", "pink grapefruits",
			"red grapefruit", "red grapefruits", "white grapefruit", "white grapefruits",
		},
	},

	// Tropical
	"mango": {
		DisplayName: "Mango",
		Variations: []string{
			"mango", "mangoes", "mangos", "fresh mango", "fresh mangoes", "fresh mangos",
			"frozen mango", "frozen mangoes", "frozen mangos", "mango puree", "mango pulp",
			"ataulfo mango", "ataulfo mangoes", "honey mango", "honey mangoes",
		},
	},
	"pineapple": {
		DisplayName: "Pineapple",
		Variations: []string{
			"pineapple", "pineapples", "fresh pineapple", "fresh pineapples",
			"frozen pineapple", "frozen pineapples", "pineapple puree", "pineapple pulp",
			"pineapple juice", "canned pineapple", "canned pineapples",
		},
	},
	"passion_fruit": {
		DisplayName: "Passion Fruit",
		Variations: []string{
			"passion fruit", "passionfruit", "passion-fruit", "passion fruits", "passionfruits",
			"fresh passion fruit", "fresh passionfruit", "passion fruit puree", "passion fruit pulp",
			"passion fruit juice", "purple passion fruit", "yellow passion fruit",
		},
	},
	"dragon_fruit": {
		DisplayName: "Dragon Fruit",
		Variations: []string{
			"dragon fruit", "dragonfruit", "dragon-fruit", "pitaya", "pitahaya", "strawberry pear",
			"red dragon fruit", "white dragon fruit", "yellow dragon fruit",
			"fresh dragon fruit", "frozen dragon fruit", "dragon fruit puree", "dragon fruit pulp",
		},
	},
	"papaya": {
		DisplayName: "Papaya",
		Variations: []string{
			"papaya", "papayas", "fresh papaya", "fresh papayas", "frozen papaya", "frozen papayas",
			"papaya puree", "papaya pulp", "papaya juice", "hawaiian papaya", "hawaiian papayas",
		},
	},

	// Other traditional jam fruits
	"apple": {
		DisplayName: "Apple",
		Variations: []string{
			"apple", "apples", "fresh apple", "fresh apples", "frozen apple", "frozen apples",
			"apple puree", "apple pulp", "apple sauce", "granny smith apple", "granny smith apples",
			"honeycrisp apple", "honeycrisp apples", "gala apple", "gala apples",
			"cooking apple", "cooking apples", "eating apple", "eating apples",
		},
	},
	"pear": {
		DisplayName: "Pear",
		Variations: []string{
			"pear", "pears", "fresh pear", "fresh pears", "frozen pear", "frozen pears",
			"pear puree", "pear pulp", "pear sauce", "bartlett pear", "bartlett pears",
			"anjou pear", "anjou pears", "bosc pear", "bosc pears", "asian pear", "asian pears",
		},
	},
	"quince": {
		DisplayName: "Quince",
		Variations: []string{
			"quince", "quinces", "fresh quince", "fresh quinces", "quince puree", "quince pulp",
			"quince paste", "quince jam", "quince preserve",
		},
	},
	"fig": {
		DisplayName: "Fig",
		Variations: []string{
			"fig", "figs", "fresh fig", "fresh figs", "dried fig", "dried figs",
			"fig puree", "fig pulp", "fig jam", "fig preserve", "black fig", "black figs",
			"green fig", "green figs", "brown turkey fig", "brown turkey figs",
		},
	},
	"rhubarb": {
		DisplayName: "Rhubarb",
		Variations: []string{
			"rhubarb", "fresh rhubarb", "frozen rhubarb", "rhubarb puree", "rhubarb pulp",
			"rhubarb jam", "rhubarb preserve", "rhubarb compote", "rhubarb sauce",
		},
	},
	"grape": {
		DisplayName: "Grape",
		Variations: []string{
			"grape", "grapes", "fresh grape", "fresh grapes", "frozen grape", "frozen grapes",
			"grape puree", "grape pulp", "grape juice", "concord grape", "concord grapes",
			"red grape", "red grapes", "green grape", "green grapes", "black grape", "black grapes",
		},
	},
	"kiwi": {
		DisplayName: "Kiwi",
		Variations: []string{
			"kiwi", "kiwis", "kiwi fruit", "kiwi fruits", "fresh kiwi", "fresh kiwis",
			"frozen kiwi", "frozen kiwis", "kiwi puree", "kiwi pulp", "golden kiwi", "golden kiwis",
		},
	},
}

// Identifiers returns all canonical fruit identifiers.
func Identifiers() []string {
	ids := make([]string, 0, len(fruitMap))
	for id := range fruitMap {
		ids = append(ids, id)
	}
	return ids
}

// IsKnown reports whether identifier is a canonical fruit identifier.
func IsKnown(identifier string) bool {
	_, ok := fruitMap[identifier]
	return ok
}

// DisplayName returns the display name for a canonical identifier, or the
// identifier itself when unknown.
func DisplayName(identifier string) string {
	if entry, ok := fruitMap[identifier]; ok {
		return entry.DisplayName
	}
	return identifier
}

// Variations returns the variation list for a canonical identifier.
func Variations(identifier string) []string {
	entry, ok := fruitMap[identifier]
	if !ok {
		return nil
	}
	out := make([]string, len(entry.Variations))
	copy(out, entry.Variations)
	return out
}
