package model

// Facility is a self-storage store known to the analysis: the subject or a
// competitor. Identity fields come from the lookup provider and are never
// mutated; operator-entered metadata and the display name are attached later.
type Facility struct {
	ID            int64   `json:"store_id"`
	Name          string  `json:"store_name"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Zip           string  `json:"zip"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	DistanceMiles float64 `json:"distance_miles,omitempty"`

	// Operator-entered metadata.
	YearBuilt   int    `json:"year_built,omitempty"`
	SquareFeet  int    `json:"square_feet,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Label returns the display name if the operator set one, else the provider name.
func (f Facility) Label() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}

// Ranking holds per-category operator scores in [1,5] for one facility.
type Ranking map[string]int

// AdjustmentFactors holds per-category signed percentages for one facility.
type AdjustmentFactors map[string]float64

// Ranking categories scored 1-5 by the operator.
const (
	CategoryLocation    = "Location"
	CategoryVisibility  = "Visibility"
	CategoryAccess      = "Access"
	CategoryCurbAppeal  = "Curb Appeal"
	CategoryCompetition = "Competition"
	CategorySignage     = "Signage"
	CategorySecurity    = "Security"
	CategoryTechnology  = "Technology"

	// Factor-only categories.
	CategorySize  = "Size"
	CategoryAge   = "Age"
	CategoryOther = "Other"
)

// RankCategories is the fixed set of ranking categories. All eight must be
// scored for a facility's ranking contribution to count.
var RankCategories = []string{
	CategoryLocation,
	CategoryVisibility,
	CategoryAccess,
	CategoryCurbAppeal,
	CategoryCompetition,
	CategorySignage,
	CategorySecurity,
	CategoryTechnology,
}

// FactorCategories is the fixed set of manual adjustment factor categories.
var FactorCategories = []string{
	CategoryLocation,
	CategoryVisibility,
	CategoryAccess,
	CategoryCurbAppeal,
	CategoryCompetition,
	CategorySignage,
	CategorySecurity,
	CategoryTechnology,
	CategorySize,
	CategoryAge,
	CategoryOther,
}
