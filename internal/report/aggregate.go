// Package report builds the two output tables of a comparison run: the full
// per-record dump and the averaged, adjustment-applied summary. Both builds
// are pure functions of their inputs.
package report

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/amoloo1999/rca-app/internal/adjust"
	"github.com/amoloo1999/rca-app/internal/model"
)

// Reports holds both output tables of one run.
type Reports struct {
	FullDump []model.FullDumpRow `json:"full_dump"`
	Summary  []model.SummaryRow  `json:"summary"`
}

// BuildReports joins rate records with facility metadata and adjustment
// multipliers into the full dump and the summary table. Every record must
// reference a facility in the supplied set. Multipliers are total adjustment
// percentages keyed by facility ID; facilities without one are unadjusted.
func BuildReports(records []model.RateRecord, facilities map[int64]model.Facility, multipliers map[int64]float64) (*Reports, error) {
	for _, r := range records {
		if _, ok := facilities[r.FacilityID]; !ok {
			return nil, eris.Errorf("report: record references unknown facility %d", r.FacilityID)
		}
	}

	return &Reports{
		FullDump: buildFullDump(records, facilities),
		Summary:  buildSummary(records, facilities, multipliers),
	}, nil
}

// buildFullDump emits one row per record, ordered by facility distance, then
// facility label, collection date, and unit size.
func buildFullDump(records []model.RateRecord, facilities map[int64]model.Facility) []model.FullDumpRow {
	rows := make([]model.FullDumpRow, 0, len(records))
	for _, r := range records {
		f := facilities[r.FacilityID]
		rows = append(rows, model.FullDumpRow{
			StoreName:         f.Label(),
			StoreID:           f.ID,
			Address:           f.Address,
			City:              f.City,
			State:             f.State,
			Zip:               f.Zip,
			DistanceMiles:     f.DistanceMiles,
			Size:              r.Size,
			FeatureCode:       r.FeatureCode,
			RegularRate:       r.RegularRate,
			OnlineRate:        r.OnlineRate,
			Promo:             r.Promo,
			DateCollected:     r.DateKey(),
			ClimateControlled: r.ClimateControlled,
			DriveUp:           r.DriveUp,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.DistanceMiles != b.DistanceMiles {
			return a.DistanceMiles < b.DistanceMiles
		}
		if a.StoreName != b.StoreName {
			return a.StoreName < b.StoreName
		}
		if a.DateCollected != b.DateCollected {
			return a.DateCollected < b.DateCollected
		}
		return a.Size < b.Size
	})
	return rows
}

type bucketKey struct {
	facilityID int64
	size       string
}

type bucketAgg struct {
	regularSum   float64
	regularCount int
	onlineSum    float64
	onlineCount  int
}

// buildSummary groups records by (facility, unit size), averages the nonzero
// rates in each group, and applies the facility's adjustment. Zero and
// negative rates are excluded from the averages rather than treated as
// zero-valued data; groups with no qualifying rate at all emit no row.
func buildSummary(records []model.RateRecord, facilities map[int64]model.Facility, multipliers map[int64]float64) []model.SummaryRow {
	buckets := make(map[bucketKey]*bucketAgg)
	for _, r := range records {
		key := bucketKey{facilityID: r.FacilityID, size: r.Size}
		agg, ok := buckets[key]
		if !ok {
			agg = &bucketAgg{}
			buckets[key] = agg
		}
		if r.RegularRate > 0 {
			agg.regularSum += r.RegularRate
			agg.regularCount++
		}
		if r.OnlineRate > 0 {
			agg.onlineSum += r.OnlineRate
			agg.onlineCount++
		}
	}

	rows := make([]model.SummaryRow, 0, len(buckets))
	for key, agg := range buckets {
		if agg.regularCount == 0 && agg.onlineCount == 0 {
			continue
		}
		f := facilities[key.facilityID]
		pct := multipliers[key.facilityID]

		row := model.SummaryRow{
			Store:         f.Label(),
			SizeBucket:    key.size,
			AdjustmentPct: pct,
		}
		if agg.regularCount > 0 {
			row.AvgRegularRate = agg.regularSum / float64(agg.regularCount)
		}
		if agg.onlineCount > 0 {
			row.AvgOnlineRate = agg.onlineSum / float64(agg.onlineCount)
		}
		row.AdjustedRate = adjust.Apply(row.AvgRegularRate, pct)
		rows = append(rows, row)
	}

	// Map iteration order is random; sort for deterministic output.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Store != rows[j].Store {
			return rows[i].Store < rows[j].Store
		}
		return rows[i].SizeBucket < rows[j].SizeBucket
	})
	return rows
}

// FilterUnitType keeps only records of the given unit type. An empty type
// keeps everything.
func FilterUnitType(records []model.RateRecord, unitType string) []model.RateRecord {
	if unitType == "" {
		return records
	}
	var filtered []model.RateRecord
	for _, r := range records {
		if r.UnitType == unitType {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
