package enrich

import (
	"strings"

	"github.com/TobiSchelling/foodpipe/internal/models"
)

// europeanCountries is the fixed set of country labels classified as
// Europe: the 27 EU members plus the United Kingdom, in English, in their
// own languages and in French, plus common UK aliases. Matching is exact.
var europeanCountries = map[string]struct{}{}

func init() {
	for _, names := range [][]string{
		{"Austria", "Österreich", "Autriche"},
		{"Belgium", "België", "Belgique", "Belgien"},
		{"Bulgaria", "България", "Bulgarie"},
		{"Croatia", "Hrvatska", "Croatie"},
		{"Cyprus", "Κύπρος", "Chypre"},
		{"Czech Republic", "Czechia", "Česko", "Česká republika", "République tchèque", "Tchéquie"},
		{"Denmark", "Danmark", "Danemark"},
		{"Estonia", "Eesti", "Estonie"},
		{"Finland", "Suomi", "Finlande"},
		{"France"},
		{"Germany", "Deutschland", "Allemagne"},
		{"Greece", "Ελλάδα", "Grèce"},
		{"Hungary", "Magyarország", "Hongrie"},
		{"Ireland", "Éire", "Irlande"},
		{"Italy", "Italia", "Italie"},
		{"Latvia", "Latvija", "Lettonie"},
		{"Lithuania", "Lietuva", "Lituanie"},
		{"Luxembourg", "Lëtzebuerg", "Luxemburg"},
		{"Malta", "Malte"},
		{"Netherlands", "Nederland", "Pays-Bas", "The Netherlands", "Holland"},
		{"Poland", "Polska", "Pologne"},
		{"Portugal"},
		{"Romania", "România", "Roumanie"},
		{"Slovakia", "Slovensko", "Slovaquie"},
		{"Slovenia", "Slovenija", "Slovénie"},
		{"Spain", "España", "Espagne"},
		{"Sweden", "Sverige", "Suède"},
		{"United Kingdom", "UK", "U.K.", "Great Britain", "Britain", "England", "Scotland", "Wales", "Northern Ireland", "Royaume-Uni"},
	} {
		for _, n := range names {
			europeanCountries[n] = struct{}{}
		}
	}
}

// ClassifyRegion returns RegionEurope when the trimmed country label is in
// the fixed European set, RegionNonEurope otherwise. The lookup is
// case-sensitive and exact; "france" or "France, Germany" do not match.
func ClassifyRegion(country string) models.Region {
	if _, ok := europeanCountries[strings.TrimSpace(country)]; ok {
		return models.RegionEurope
	}
	return models.RegionNonEurope
}
