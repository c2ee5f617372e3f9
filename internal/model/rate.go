package model

import "time"

// DateLayout is the wire format for collection dates.
const DateLayout = "2006-01-02"

// Record sources.
const (
	SourceCache = "cache"
	SourceAPI   = "api"
)

// RateRecord is one observed unit rate for a facility on a collection date.
// Records are immutable once retrieved; the feature code is the only field
// attached afterwards (suggested by the classifier or overridden by the
// operator).
type RateRecord struct {
	ID                string    `json:"id,omitempty"`
	FacilityID        int64     `json:"facility_id"`
	Size              string    `json:"size"`
	UnitType          string    `json:"unit_type"`
	Description       string    `json:"description,omitempty"`
	ClimateControlled bool      `json:"climate_controlled"`
	DriveUp           bool      `json:"drive_up"`
	RegularRate       float64   `json:"regular_rate"`
	OnlineRate        float64   `json:"online_rate"`
	Promo             string    `json:"promo,omitempty"`
	DateCollected     time.Time `json:"date_collected"`
	FeatureCode       string    `json:"feature_code,omitempty"`
	Source            string    `json:"source,omitempty"`
}

// DateKey returns the collection date in DateLayout form.
func (r RateRecord) DateKey() string {
	return r.DateCollected.Format(DateLayout)
}

// FacilityDate identifies one day of rate coverage for one facility.
type FacilityDate struct {
	FacilityID int64  `json:"facility_id"`
	Date       string `json:"date"` // DateLayout
}

// GapReport is the reconciliation of cached coverage against the required
// analysis window. Shortfall is always required minus cached; the cost is
// priced per distinct shortfall day, not per facility-day, matching the
// provider's per-day billing model.
type GapReport struct {
	Required      []FacilityDate `json:"required"`
	Cached        []FacilityDate `json:"cached"`
	Shortfall     []FacilityDate `json:"shortfall"`
	DistinctDays  []string       `json:"distinct_days"`
	DailyRate     float64        `json:"daily_rate"`
	EstimatedCost float64        `json:"estimated_cost"`
}

// FullDumpRow is one row of the per-record report: a rate record joined with
// its facility's display metadata.
type FullDumpRow struct {
	StoreName         string  `json:"store_name"`
	StoreID           int64   `json:"store_id"`
	Address           string  `json:"address"`
	City              string  `json:"city"`
	State             string  `json:"state"`
	Zip               string  `json:"zip"`
	DistanceMiles     float64 `json:"distance_miles"`
	Size              string  `json:"size"`
	FeatureCode       string  `json:"feature_code"`
	RegularRate       float64 `json:"regular_rate"`
	OnlineRate        float64 `json:"online_rate"`
	Promo             string  `json:"promo"`
	DateCollected     string  `json:"date_collected"`
	ClimateControlled bool    `json:"climate_controlled"`
	DriveUp           bool    `json:"drive_up"`
}

// SummaryRow is one row of the adjusted summary: averaged rates for a
// (facility, unit-size bucket) group with the facility's adjustment applied.
type SummaryRow struct {
	Store          string  `json:"store"`
	SizeBucket     string  `json:"size_bucket"`
	AvgRegularRate float64 `json:"avg_regular_rate"`
	AvgOnlineRate  float64 `json:"avg_online_rate"`
	AdjustmentPct  float64 `json:"adjustment_pct"`
	AdjustedRate   float64 `json:"adjusted_rate"`
}
