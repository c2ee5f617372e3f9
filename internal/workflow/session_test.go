package workflow

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoloo1999/rca-app/internal/model"
)

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()

	s := New(5.0)
	s.Subject = &model.Facility{ID: 1, Name: "Subject", Latitude: 25.77, Longitude: -80.19}
	s.Selected = []model.Facility{*s.Subject, {ID: 2, Name: "Comp A", DistanceMiles: 1.2}}
	s.Rankings = map[int64]model.Ranking{2: {model.CategoryLocation: 4}}
	s.Factors = map[int64]model.AdjustmentFactors{2: {model.CategorySize: -2.5}}
	s.Names = map[int64]string{2: "North Store"}
	s.FeatureOverrides = map[string]string{OverrideKey("5x5", true, false): "CC"}
	s.Advance(StepFetch)

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, StepFetch, loaded.Step)
	assert.InDelta(t, 5.0, loaded.RadiusMiles, 0.001)
	require.NotNil(t, loaded.Subject)
	assert.Equal(t, int64(1), loaded.Subject.ID)
	assert.Equal(t, 4, loaded.Rankings[2][model.CategoryLocation])
	assert.InDelta(t, -2.5, loaded.Factors[2][model.CategorySize], 0.001)
	assert.Equal(t, "North Store", loaded.Names[2])
	assert.Equal(t, "CC", loaded.FeatureOverrides[OverrideKey("5x5", true, false)])
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestRequireAndAdvance(t *testing.T) {
	t.Parallel()

	s := New(5.0)
	assert.NoError(t, s.Require(StepSearch))
	assert.Error(t, s.Require(StepFetch))

	s.Advance(StepSelect)
	assert.NoError(t, s.Require(StepCompetitors))
	assert.NoError(t, s.Require(StepSelect))
	assert.Error(t, s.Require(StepMetadata))

	// Advancing backwards is a no-op.
	s.Advance(StepSearch)
	assert.Equal(t, StepSelect, s.Step)
}

func TestSelectedHelpers(t *testing.T) {
	t.Parallel()

	s := New(5.0)
	s.Selected = []model.Facility{
		{ID: 1, Name: "Subject"},
		{ID: 2, Name: "Comp A"},
	}
	s.Names = map[int64]string{2: "Renamed"}

	assert.Equal(t, []int64{1, 2}, s.SelectedIDs())

	byID := s.SelectedByID()
	assert.Equal(t, "Subject", byID[1].Label())
	assert.Equal(t, "Renamed", byID[2].Label())

	f, err := s.FindSelected(2)
	require.NoError(t, err)
	assert.Equal(t, "Comp A", f.Name)

	_, err = s.FindSelected(99)
	assert.Error(t, err)

	f.YearBuilt = 2001
	require.NoError(t, s.UpdateSelected(f))
	updated, err := s.FindSelected(2)
	require.NoError(t, err)
	assert.Equal(t, 2001, updated.YearBuilt)

	assert.Error(t, s.UpdateSelected(model.Facility{ID: 99}))
}

func TestStepString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "search", StepSearch.String())
	assert.Equal(t, "export", StepExport.String())
	assert.Equal(t, "step(42)", Step(42).String())
}
