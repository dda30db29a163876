package model

import "strings"

// Category is the closed set of market categories tracked by the journal.
type Category string

const (
	CategoryPolitics Category = "politics"
	CategorySports   Category = "sports"
	CategoryCrypto   Category = "crypto"
	CategoryScience  Category = "science"
)

// DefaultCategory is used when no keyword rule matches a market title.
const DefaultCategory = CategoryScience

// ValidCategory contains the allowed category values.
var ValidCategory = map[Category]bool{
	CategoryPolitics: true,
	CategorySports:   true,
	CategoryCrypto:   true,
	CategoryScience:  true,
}

// categoryRule pairs a category with the title keywords that map to it.
type categoryRule struct {
	Category Category
	Keywords []string
}

// categoryRules is evaluated in order; the first rule with a matching keyword wins.
// The mapping is a best-effort heuristic, not a guarantee.
var categoryRules = []categoryRule{
	{CategoryCrypto, []string{"bitcoin", "eth", "crypto"}},
	{CategoryPolitics, []string{"election", "president", "senate", "trump"}},
	{CategorySports, []string{"nfl", "nba", "sports"}},
	{CategoryScience, []string{"space", "ai", "science"}},
}

// ClassifyTitle maps a market title to a Category by case-insensitive
// substring matching against the keyword rules. Titles that match no rule
// fall back to DefaultCategory.
func ClassifyTitle(title string) Category {
	t := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(t, kw) {
				return rule.Category
			}
		}
	}
	return DefaultCategory
}

// ParseCategory normalizes a raw category value from an import file.
// Unknown values are reported via ok=false so callers can fall back to
// title classification.
func ParseCategory(raw string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if ValidCategory[c] {
		return c, true
	}
	return DefaultCategory, false
}
