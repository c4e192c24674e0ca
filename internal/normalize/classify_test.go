package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCategory(t *testing.T) {
	tests := []struct {
		categories string
		name       string
		want       string
	}{
		{"Charcuteries", "Jambon blanc", "Viande"},
		{"", "Compote de pommes", "Fruit et légumes"},
		{"Snacks salés", "Chips nature", "Snacks"},
		{"Produits de la mer", "Filets de poisson", "Poisson et crustacé"},
		{"Crustacés", "", "Poisson et crustacé"},
		{"", "Café moulu", "Boisson"},
		{"Épicerie", "Riz basmati", Uncategorized},
		{"", "", Uncategorized},
		{"Jus de fruit", "Jus Bio", "Boisson"},
		{"LÉGUMES", "", "Fruit et légumes"},
		{"", "Soupe aux poireaux", "Fruit et légumes"}, // leeks are vegetables, not fish
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyCategory(tt.categories, tt.name), "%q / %q", tt.categories, tt.name)
	}
}

func TestClassifyCategory_RuleOrder(t *testing.T) {
	// Beverage is tested before snacks.
	assert.Equal(t, "Boisson", ClassifyCategory("Biscuits", "Boisson cacaotée"))
	// Meat is tested before fish.
	assert.Equal(t, "Viande", ClassifyCategory("Poisson", "Saucisse"))
}

func TestClassifyCategory_LeeksAreVegetables(t *testing.T) {
	assert.Equal(t, "Fruit et légumes", ClassifyCategory("Poireaux émincés", ""))
	assert.Equal(t, "Fruit et légumes", ClassifyCategory("Surgelés", "Fondue de poireaux"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "creme brulee", fold("Crème Brûlée"))
	assert.Equal(t, "crustaces", fold("crustacés"))
}
