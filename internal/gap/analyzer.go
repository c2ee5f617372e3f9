// Package gap reconciles cached rate coverage against the required analysis
// window and prices the shortfall. It is purely advisory: it never mutates
// the cache and never triggers a fetch.
package gap

import (
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/amoloo1999/rca-app/internal/model"
)

// Analyzer prices coverage shortfalls at a fixed per-day rate.
type Analyzer struct {
	dailyRate float64
}

// NewAnalyzer creates an Analyzer. The daily rate must be positive.
func NewAnalyzer(dailyRate float64) (*Analyzer, error) {
	if dailyRate <= 0 {
		return nil, eris.Errorf("gap: daily rate must be positive, got %f", dailyRate)
	}
	return &Analyzer{dailyRate: dailyRate}, nil
}

// RequiredWindow expands a facility set and date range into the full set of
// (facility, date) pairs the analysis needs, one per facility per day,
// inclusive of both endpoints.
func RequiredWindow(facilityIDs []int64, from, to time.Time) ([]model.FacilityDate, error) {
	if len(facilityIDs) == 0 {
		return nil, eris.New("gap: required facility set is empty")
	}
	from = from.Truncate(24 * time.Hour)
	to = to.Truncate(24 * time.Hour)
	if to.Before(from) {
		return nil, eris.Errorf("gap: window end %s before start %s",
			to.Format(model.DateLayout), from.Format(model.DateLayout))
	}

	var required []model.FacilityDate
	for _, id := range facilityIDs {
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			required = append(required, model.FacilityDate{FacilityID: id, Date: d.Format(model.DateLayout)})
		}
	}
	return required, nil
}

// CachedSet projects retrieved rate records onto their (facility, date)
// coverage pairs, deduplicated.
func CachedSet(records []model.RateRecord) []model.FacilityDate {
	seen := make(map[model.FacilityDate]bool, len(records))
	var cached []model.FacilityDate
	for _, r := range records {
		fd := model.FacilityDate{FacilityID: r.FacilityID, Date: r.DateKey()}
		if seen[fd] {
			continue
		}
		seen[fd] = true
		cached = append(cached, fd)
	}
	return cached
}

// Analyze computes shortfall = required − cached and prices it. The cost is
// charged per distinct shortfall day: the shortfall is projected onto its date
// component and deduplicated before multiplying, because the provider bills
// per day of coverage, not per facility. Required ⊆ cached yields an empty,
// zero-cost report.
func (a *Analyzer) Analyze(required, cached []model.FacilityDate) (*model.GapReport, error) {
	if len(required) == 0 {
		return nil, eris.New("gap: required set is empty")
	}

	have := make(map[model.FacilityDate]bool, len(cached))
	for _, fd := range cached {
		have[fd] = true
	}

	var shortfall []model.FacilityDate
	days := make(map[string]bool)
	seen := make(map[model.FacilityDate]bool, len(required))
	for _, fd := range required {
		if seen[fd] {
			continue
		}
		seen[fd] = true
		if have[fd] {
			continue
		}
		shortfall = append(shortfall, fd)
		days[fd.Date] = true
	}

	distinct := make([]string, 0, len(days))
	for d := range days {
		distinct = append(distinct, d)
	}
	sort.Strings(distinct)

	sortPairs(shortfall)

	return &model.GapReport{
		Required:      required,
		Cached:        cached,
		Shortfall:     shortfall,
		DistinctDays:  distinct,
		DailyRate:     a.dailyRate,
		EstimatedCost: float64(len(distinct)) * a.dailyRate,
	}, nil
}

// MissingByFacility groups shortfall dates per facility, each list sorted.
func MissingByFacility(shortfall []model.FacilityDate) map[int64][]string {
	byFacility := make(map[int64][]string)
	for _, fd := range shortfall {
		byFacility[fd.FacilityID] = append(byFacility[fd.FacilityID], fd.Date)
	}
	for id := range byFacility {
		sort.Strings(byFacility[id])
	}
	return byFacility
}

// DateRange is an inclusive span of days.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ContiguousRanges groups sorted dates into inclusive runs of consecutive
// days, so a fetch can issue one provider request per run.
func ContiguousRanges(dates []string) ([]DateRange, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	parsed := make([]time.Time, len(dates))
	for i, d := range dates {
		t, err := time.Parse(model.DateLayout, d)
		if err != nil {
			return nil, eris.Wrapf(err, "gap: parse date %q", d)
		}
		parsed[i] = t
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].Before(parsed[j]) })

	var ranges []DateRange
	start, end := parsed[0], parsed[0]
	for _, d := range parsed[1:] {
		if d.Sub(end) == 24*time.Hour {
			end = d
			continue
		}
		ranges = append(ranges, DateRange{From: start.Format(model.DateLayout), To: end.Format(model.DateLayout)})
		start, end = d, d
	}
	ranges = append(ranges, DateRange{From: start.Format(model.DateLayout), To: end.Format(model.DateLayout)})
	return ranges, nil
}

// CoveragePct returns the covered share of a window as a percentage.
func CoveragePct(missingDays, totalDays int) float64 {
	if totalDays <= 0 {
		return 0
	}
	return float64(totalDays-missingDays) / float64(totalDays) * 100
}

func sortPairs(pairs []model.FacilityDate) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].FacilityID != pairs[j].FacilityID {
			return pairs[i].FacilityID < pairs[j].FacilityID
		}
		return pairs[i].Date < pairs[j].Date
	})
}
