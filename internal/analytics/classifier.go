package analytics

import "strings"

// Category is the heuristic classification of an item by its name.
type Category string

const (
	CategoryMarket   Category = "market"
	CategoryMaterial Category = "material"
	CategoryUnknown  Category = "unknown"
)

// Human-readable group labels used by the category-grouped view.
const (
	LabelMarket   = "Market / Fresh"
	LabelMaterial = "Materials / Supplies"
	LabelOther    = "Other Items"
)

// Rule maps a category to the keywords that select it. Rules are evaluated
// in order, so earlier categories win when an item name matches several.
type Rule struct {
	Category Category
	Keywords []string
}

// DefaultRules returns the built-in ruleset: fresh/perishable market goods
// first, then supplies and consumables. Matching is case-insensitive
// substring containment on the item name.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category: CategoryMarket,
			Keywords: []string{
				"tomato", "onion", "garlic", "potato", "carrot", "lettuce",
				"cabbage", "cucumber", "pepper", "mushroom", "spinach",
				"herb", "basil", "cilantro", "parsley", "mint", "ginger",
				"lemon", "lime", "orange", "apple", "banana", "avocado",
				"fruit", "vegetable", "produce", "fresh", "organic",
				"beef", "pork", "chicken", "lamb", "duck", "meat",
				"fish", "salmon", "tuna", "shrimp", "squid", "seafood",
				"egg", "milk", "cream", "butter", "cheese", "yogurt", "dairy",
				"tofu", "noodle", "rice", "flour", "bread",
				"sugar", "salt", "vinegar", "sauce", "spice", "seasoning",
				"coffee", "tea", "juice", "soda", "wine", "beer", "water",
			},
		},
		{
			Category: CategoryMaterial,
			Keywords: []string{
				"bag", "box", "carton", "container", "wrap", "foil", "film",
				"napkin", "tissue", "towel", "paper", "glove", "apron",
				"detergent", "soap", "sanitizer", "cleaner", "cleaning",
				"bleach", "chemical", "degreaser", "trash", "liner",
				"disposable", "cup", "lid", "straw", "cutlery", "chopstick",
				"fork", "spoon", "knife", "plate", "bowl", "tray",
				"brush", "sponge", "mop", "broom", "filter", "battery",
				"receipt", "label", "tape", "marker",
			},
		},
	}
}

// Classifier assigns a Category to an item name using an ordered ruleset.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier from the given rules. Keywords are
// lower-cased once up front so Classify only folds the item name.
func NewClassifier(rules []Rule) *Classifier {
	folded := make([]Rule, 0, len(rules))
	for _, r := range rules {
		keywords := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			keywords = append(keywords, strings.ToLower(kw))
		}
		folded = append(folded, Rule{Category: r.Category, Keywords: keywords})
	}
	return &Classifier{rules: folded}
}

// Classify returns the category of the first rule whose keyword list
// matches the name, or CategoryUnknown when nothing matches.
func (c *Classifier) Classify(name string) Category {
	lowered := strings.ToLower(name)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lowered, kw) {
				return r.Category
			}
		}
	}
	return CategoryUnknown
}
