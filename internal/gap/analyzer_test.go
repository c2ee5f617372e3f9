package gap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoloo1999/rca-app/internal/model"
)

func fd(id int64, date string) model.FacilityDate {
	return model.FacilityDate{FacilityID: id, Date: date}
}

func TestNewAnalyzer(t *testing.T) {
	t.Parallel()

	_, err := NewAnalyzer(0)
	assert.Error(t, err)
	_, err = NewAnalyzer(-1)
	assert.Error(t, err)

	a, err := NewAnalyzer(12.50)
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestAnalyze_PerDayBilling(t *testing.T) {
	t.Parallel()

	// Two facilities missing coverage that overlaps on one day: the cost is
	// charged per distinct day, so two shortfall pairs on two distinct days
	// cost 2 x rate, not 2 x pairs.
	a, err := NewAnalyzer(12.50)
	require.NoError(t, err)

	required := []model.FacilityDate{
		fd(1, "2024-01-01"),
		fd(2, "2024-01-01"),
		fd(1, "2024-01-02"),
	}
	cached := []model.FacilityDate{fd(1, "2024-01-01")}

	report, err := a.Analyze(required, cached)
	require.NoError(t, err)

	assert.ElementsMatch(t, []model.FacilityDate{fd(1, "2024-01-02"), fd(2, "2024-01-01")}, report.Shortfall)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, report.DistinctDays)
	assert.InDelta(t, 25.00, report.EstimatedCost, 0.001)
}

func TestAnalyze_DayDedupAcrossFacilities(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(10)
	require.NoError(t, err)

	// Five facilities all missing the same single day: one billable day.
	var required []model.FacilityDate
	for id := int64(1); id <= 5; id++ {
		required = append(required, fd(id, "2024-06-01"))
	}

	report, err := a.Analyze(required, nil)
	require.NoError(t, err)
	assert.Len(t, report.Shortfall, 5)
	assert.Equal(t, []string{"2024-06-01"}, report.DistinctDays)
	assert.InDelta(t, 10.0, report.EstimatedCost, 0.001)
}

func TestAnalyze_FullyCovered(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(12.50)
	require.NoError(t, err)

	required := []model.FacilityDate{fd(1, "2024-01-01"), fd(1, "2024-01-02")}
	cached := []model.FacilityDate{fd(1, "2024-01-01"), fd(1, "2024-01-02"), fd(2, "2024-01-01")}

	report, err := a.Analyze(required, cached)
	require.NoError(t, err)
	assert.Empty(t, report.Shortfall)
	assert.Empty(t, report.DistinctDays)
	assert.InDelta(t, 0, report.EstimatedCost, 0.001)
}

func TestAnalyze_SetProperties(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(1)
	require.NoError(t, err)

	required := []model.FacilityDate{
		fd(1, "2024-01-01"), fd(1, "2024-01-02"), fd(2, "2024-01-01"), fd(2, "2024-01-03"),
	}
	cached := []model.FacilityDate{fd(1, "2024-01-02"), fd(2, "2024-01-01"), fd(3, "2024-01-09")}

	report, err := a.Analyze(required, cached)
	require.NoError(t, err)

	reqSet := map[model.FacilityDate]bool{}
	for _, p := range required {
		reqSet[p] = true
	}
	cachedSet := map[model.FacilityDate]bool{}
	for _, p := range cached {
		cachedSet[p] = true
	}

	// Shortfall is a subset of required and disjoint from cached.
	for _, p := range report.Shortfall {
		assert.True(t, reqSet[p], "shortfall pair %v not in required", p)
		assert.False(t, cachedSet[p], "shortfall pair %v present in cache", p)
	}

	// cached ∪ shortfall covers required.
	for _, p := range required {
		covered := cachedSet[p]
		for _, s := range report.Shortfall {
			if s == p {
				covered = true
			}
		}
		assert.True(t, covered, "required pair %v not covered", p)
	}
}

func TestAnalyze_CostMonotonicInDistinctDays(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(5)
	require.NoError(t, err)

	prev := -1.0
	required := []model.FacilityDate{}
	for day := 1; day <= 6; day++ {
		required = append(required, fd(1, time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC).Format(model.DateLayout)))
		report, analyzeErr := a.Analyze(required, nil)
		require.NoError(t, analyzeErr)
		assert.Greater(t, report.EstimatedCost, prev)
		prev = report.EstimatedCost
	}
}

func TestAnalyze_EmptyRequired(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(1)
	require.NoError(t, err)
	_, err = a.Analyze(nil, []model.FacilityDate{fd(1, "2024-01-01")})
	assert.Error(t, err)
}

func TestRequiredWindow(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	required, err := RequiredWindow([]int64{1, 2}, from, to)
	require.NoError(t, err)
	assert.Len(t, required, 6) // 2 facilities x 3 days inclusive
	assert.Contains(t, required, fd(1, "2024-01-01"))
	assert.Contains(t, required, fd(2, "2024-01-03"))

	_, err = RequiredWindow(nil, from, to)
	assert.Error(t, err)

	_, err = RequiredWindow([]int64{1}, to, from)
	assert.Error(t, err)
}

func TestCachedSet(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	records := []model.RateRecord{
		{FacilityID: 1, Size: "5x5", DateCollected: day},
		{FacilityID: 1, Size: "10x10", DateCollected: day}, // same coverage pair
		{FacilityID: 2, Size: "5x5", DateCollected: day.AddDate(0, 0, 1)},
	}

	cached := CachedSet(records)
	assert.ElementsMatch(t, []model.FacilityDate{fd(1, "2024-02-10"), fd(2, "2024-02-11")}, cached)
}

func TestContiguousRanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		dates []string
		want  []DateRange
	}{
		{
			name:  "single run",
			dates: []string{"2024-01-01", "2024-01-02", "2024-01-03"},
			want:  []DateRange{{From: "2024-01-01", To: "2024-01-03"}},
		},
		{
			name:  "two runs with a hole",
			dates: []string{"2024-01-01", "2024-01-02", "2024-01-05"},
			want: []DateRange{
				{From: "2024-01-01", To: "2024-01-02"},
				{From: "2024-01-05", To: "2024-01-05"},
			},
		},
		{
			name:  "unsorted input",
			dates: []string{"2024-01-03", "2024-01-01", "2024-01-02"},
			want:  []DateRange{{From: "2024-01-01", To: "2024-01-03"}},
		},
		{
			name:  "empty",
			dates: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ContiguousRanges(tt.dates)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ContiguousRanges([]string{"not-a-date"})
	assert.Error(t, err)
}

func TestMissingByFacility(t *testing.T) {
	t.Parallel()

	shortfall := []model.FacilityDate{
		fd(2, "2024-01-02"), fd(1, "2024-01-05"), fd(2, "2024-01-01"),
	}
	got := MissingByFacility(shortfall)
	assert.Equal(t, []string{"2024-01-05"}, got[1])
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, got[2])
}

func TestCoveragePct(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 100, CoveragePct(0, 365), 0.001)
	assert.InDelta(t, 0, CoveragePct(365, 365), 0.001)
	assert.InDelta(t, 50, CoveragePct(5, 10), 0.001)
	assert.InDelta(t, 0, CoveragePct(1, 0), 0.001)
}
