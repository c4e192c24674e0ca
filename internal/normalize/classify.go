package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Uncategorized is the label for products matching no rule.
const Uncategorized = "Pas de catégories"

type categoryRule struct {
	label    string
	keywords []string
}

// categoryRules are tested in order; the first rule with a keyword found in
// the text wins. Leeks (poireau) belong with vegetables, not with the fish
// group where older data sets filed them.
var categoryRules = foldRules([]categoryRule{
	{"Boisson", []string{"boisson", "drink", "jus", "soda", "limonade", "the", "tea", "cafe", "coffee"}},
	{"Viande", []string{"viande", "charcuterie", "meat", "jambon", "saucisse", "poulet", "boeuf", "porc",
		"chicken", "beef", "pork", "ham", "sausage", "turkey"}},
	{"Fruit et légumes", []string{"fruit", "legume", "vegetable", "salade", "salad", "compote", "poireau"}},
	{"Snacks", []string{"snack", "biscuit", "biscotte", "chips", "gateau", "gaufre", "barre", "cracker",
		"cereal", "petit dejeuner", "petit-dejeuner", "chocolat", "chocolate"}},
	{"Poisson et crustacé", []string{"poisson", "crevettes", "crustacés", "crustacea", "crustaceans",
		"crab", "shrimp", "lobster", "crayfish", "salmon", "trout"}},
})

// ClassifyCategory infers a high-level category label from the free-text
// category field and the product name.
func ClassifyCategory(rawCategories, productName string) string {
	text := fold(rawCategories + " " + productName)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.label
			}
		}
	}
	return Uncategorized
}

// fold lower-cases s and strips diacritics.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

func foldRules(rules []categoryRule) []categoryRule {
	for i := range rules {
		for j, kw := range rules[i].keywords {
			rules[i].keywords[j] = fold(kw)
		}
	}
	return rules
}
