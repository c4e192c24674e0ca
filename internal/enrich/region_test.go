package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TobiSchelling/foodpipe/internal/models"
)

func TestClassifyRegion_Canonical(t *testing.T) {
	canonical := []string{
		"Austria", "Belgium", "Bulgaria", "Croatia", "Cyprus", "Czech Republic",
		"Denmark", "Estonia", "Finland", "France", "Germany", "Greece", "Hungary",
		"Ireland", "Italy", "Latvia", "Lithuania", "Luxembourg", "Malta",
		"Netherlands", "Poland", "Portugal", "Romania", "Slovakia", "Slovenia",
		"Spain", "Sweden", "United Kingdom",
	}
	assert.Len(t, canonical, 28)
	for _, c := range canonical {
		assert.Equal(t, models.RegionEurope, ClassifyRegion(c), c)
	}
}

func TestClassifyRegion_EveryAlias(t *testing.T) {
	for name := range europeanCountries {
		assert.Equal(t, models.RegionEurope, ClassifyRegion(name), name)
	}
	for _, alias := range []string{"UK", "Great Britain", "England", "Royaume-Uni", "Deutschland", "Allemagne", "España", "Espagne"} {
		assert.Equal(t, models.RegionEurope, ClassifyRegion(alias), alias)
	}
}

func TestClassifyRegion_Trimmed(t *testing.T) {
	assert.Equal(t, models.RegionEurope, ClassifyRegion("  France \n"))
}

func TestClassifyRegion_NonEurope(t *testing.T) {
	for _, c := range []string{
		"", "United States", "Canada", "Japan",
		"france", "FRANCE", "France, Germany", "en:france", "Fra", "Switzerland", "Norway",
	} {
		assert.Equal(t, models.RegionNonEurope, ClassifyRegion(c), c)
	}
}
