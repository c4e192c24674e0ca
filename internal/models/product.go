package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DefaultGrade is used when a catalog record carries no nutrition grade.
const DefaultGrade = "E"

// Region is the geographic classification of a product.
type Region string

const (
	RegionEurope    Region = "Europe"
	RegionNonEurope Region = "Non-Europe"
)

// Valid reports whether r is one of the two known classes.
func (r Region) Valid() bool {
	return r == RegionEurope || r == RegionNonEurope
}

// Nutriments holds the nutrient values the pipeline keeps, per 100g.
type Nutriments struct {
	Energy NullNumber `json:"energy"`
	Fat    NullNumber `json:"fat"`
	Sugars NullNumber `json:"sugars"`
	Salt   NullNumber `json:"salt"`
}

// UnmarshalJSON implements json.Unmarshaler. Only a JSON object carries
// nutrients; an empty PHP-style array or any other value decodes as absent.
func (n *Nutriments) UnmarshalJSON(raw []byte) error {
	*n = Nutriments{}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil
	}
	type plain Nutriments
	var v plain
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil //nolint: nilerr
	}
	*n = Nutriments(v)
	return nil
}

// Payload is one catalog product as returned by the search API, restricted
// to the projected fields. Every field is optional.
type Payload struct {
	ProductName     FlexString  `json:"product_name,omitempty"`
	Brands          FlexString  `json:"brands,omitempty"`
	Categories      FlexString  `json:"categories,omitempty"`
	NutriscoreGrade FlexString  `json:"nutriscore_grade,omitempty"`
	IngredientsText FlexString  `json:"ingredients_text,omitempty"`
	Nutriments      *Nutriments `json:"nutriments,omitempty"`
	Countries       FlexString  `json:"countries,omitempty"`
	Country         FlexString  `json:"country,omitempty"`
	Code            FlexString  `json:"code,omitempty"`
	ImageURL        FlexString  `json:"image_url,omitempty"`
}

// Name returns the product name, or "" when absent.
func (p Payload) Name() string { return string(p.ProductName) }

// Brand returns the trimmed brand string.
func (p Payload) Brand() string { return strings.TrimSpace(string(p.Brands)) }

// CategoryText returns the raw free-text categories.
func (p Payload) CategoryText() string { return string(p.Categories) }

// Grade returns the nutrition grade letter, DefaultGrade when absent.
func (p Payload) Grade() string {
	if p.NutriscoreGrade == "" {
		return DefaultGrade
	}
	return string(p.NutriscoreGrade)
}

// CountryName returns the country field used for region classification:
// "country" when set, otherwise the catalog's "countries" field.
func (p Payload) CountryName() string {
	if p.Country != "" {
		return string(p.Country)
	}
	return string(p.Countries)
}

// Barcode returns the trimmed product code, nil when empty.
func (p Payload) Barcode() *string { return trimmedOrNil(string(p.Code)) }

// Image returns the trimmed image URL, nil when empty.
func (p Payload) Image() *string { return trimmedOrNil(string(p.ImageURL)) }

// Nutrients returns the nutrient record, zero-valued when absent.
func (p Payload) Nutrients() Nutriments {
	if p.Nutriments == nil {
		return Nutriments{}
	}
	return *p.Nutriments
}

func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// RawProduct is a catalog payload as persisted by the collector.
type RawProduct struct {
	ID          string
	Payload     Payload
	CollectedAt *string
}

// EnrichedProduct is a raw product plus its derived attributes.
type EnrichedProduct struct {
	ID                     string
	RawProductID           string
	RawProductData         Payload
	NutriScorePersonalized float64
	RegionClass            Region
	EnrichedAt             *string
}
