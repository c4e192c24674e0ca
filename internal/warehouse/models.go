package warehouse

// Product is a fact row as written by the loader.
type Product struct {
	SourceID     string
	Name         string
	Code         *string
	ImageURL     *string
	BrandID      *int64
	CategoryID   int64
	NutriScoreID int64
	RegionID     *int64
	Calories     *float64
	Fat          *float64
	Sugar        *float64
	Salt         *float64
}

// ProductView is a fact row joined with its dimension labels.
type ProductView struct {
	ID              int64    `json:"id"`
	SourceID        string   `json:"source_id"`
	Name            string   `json:"name"`
	Code            *string  `json:"code"`
	ImageURL        *string  `json:"image_url"`
	Brand           *string  `json:"brand"`
	Category        *string  `json:"category"`
	NutriScoreScore *int     `json:"nutriscore_score"`
	Region          *string  `json:"region"`
	Calories        *float64 `json:"calories"`
	Fat             *float64 `json:"fat"`
	Sugar           *float64 `json:"sugar"`
	Salt            *float64 `json:"salt"`
	CreatedAt       *string  `json:"created_at"`
}

// ProductFilter narrows a product listing. Zero values mean "no filter".
type ProductFilter struct {
	Name       string
	NutriScore *int
	Region     string
	Category   string
	Brand      string
	Limit      int
	Offset     int
}

// LabelCount is one bucket of a grouped count.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats holds aggregate figures over the fact table.
type Stats struct {
	TotalProducts     int
	AverageNutriScore *float64
	ByRegion          []LabelCount
	ByCategory        []LabelCount
}
