// Package workflow holds the operator workflow's step state as an explicit,
// serializable object. Every command reads the session from disk, mutates it,
// and writes it back, so the same flow runs interactively, headless in tests,
// or in batch.
package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/amoloo1999/rca-app/internal/model"
)

// Step identifies a stage of the operator workflow. Steps are ordered; a
// command may require that the session has reached a given step.
type Step int

const (
	StepSearch Step = iota + 1
	StepCompetitors
	StepSelect
	StepMetadata
	StepRankings
	StepFactors
	StepNames
	StepFetch
	StepFeatures
	StepExport
)

var stepNames = map[Step]string{
	StepSearch:      "search",
	StepCompetitors: "competitors",
	StepSelect:      "select",
	StepMetadata:    "metadata",
	StepRankings:    "rankings",
	StepFactors:     "factors",
	StepNames:       "names",
	StepFetch:       "fetch",
	StepFeatures:    "features",
	StepExport:      "export",
}

// String returns the step's command name.
func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Session is the full state of one comparison run.
type Session struct {
	ID        string    `json:"id"`
	Step      Step      `json:"step"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RadiusMiles float64 `json:"radius_miles"`
	SearchCity  string  `json:"search_city,omitempty"`
	SearchState string  `json:"search_state,omitempty"`

	Subject     *model.Facility  `json:"subject,omitempty"`
	Candidates  []model.Facility `json:"candidates,omitempty"`
	Competitors []model.Facility `json:"competitors,omitempty"`
	Selected    []model.Facility `json:"selected,omitempty"`

	Rankings         map[int64]model.Ranking           `json:"rankings,omitempty"`
	Factors          map[int64]model.AdjustmentFactors `json:"factors,omitempty"`
	Names            map[int64]string                  `json:"names,omitempty"`
	FeatureOverrides map[string]string                 `json:"feature_overrides,omitempty"`

	WindowFrom string             `json:"window_from,omitempty"`
	WindowTo   string             `json:"window_to,omitempty"`
	Gap        *model.GapReport   `json:"gap,omitempty"`
	Records    []model.RateRecord `json:"records,omitempty"`
}

// New creates a fresh session at the search step.
func New(radiusMiles float64) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:          uuid.NewString(),
		Step:        StepSearch,
		CreatedAt:   now,
		UpdatedAt:   now,
		RadiusMiles: radiusMiles,
	}
}

// Load reads a session from a JSON file.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "workflow: read session %s", path)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, eris.Wrap(err, "workflow: parse session")
	}
	return &s, nil
}

// Save writes the session to a JSON file, bumping UpdatedAt.
func (s *Session) Save(path string) error {
	s.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return eris.Wrap(err, "workflow: marshal session")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "workflow: write session %s", path)
	}
	return nil
}

// Require fails unless the session has reached the given step.
func (s *Session) Require(step Step) error {
	if s.Step < step {
		return eris.Errorf("workflow: session is at step %q, run the %q step first", s.Step, step)
	}
	return nil
}

// Advance moves the session forward to the given step. Moving backwards is a
// no-op: re-running an earlier command must not regress completed state.
func (s *Session) Advance(step Step) {
	if step > s.Step {
		s.Step = step
	}
}

// SelectedIDs returns the IDs of the selected facilities in selection order.
func (s *Session) SelectedIDs() []int64 {
	ids := make([]int64, 0, len(s.Selected))
	for _, f := range s.Selected {
		ids = append(ids, f.ID)
	}
	return ids
}

// SelectedByID returns the selected facilities keyed by ID, with the
// operator's display names applied.
func (s *Session) SelectedByID() map[int64]model.Facility {
	byID := make(map[int64]model.Facility, len(s.Selected))
	for _, f := range s.Selected {
		if name, ok := s.Names[f.ID]; ok && name != "" {
			f.DisplayName = name
		}
		byID[f.ID] = f
	}
	return byID
}

// FindSelected returns the selected facility with the given ID.
func (s *Session) FindSelected(id int64) (model.Facility, error) {
	for _, f := range s.Selected {
		if f.ID == id {
			return f, nil
		}
	}
	return model.Facility{}, eris.Errorf("workflow: facility %d is not in the selected set", id)
}

// UpdateSelected replaces the stored copy of a selected facility.
func (s *Session) UpdateSelected(f model.Facility) error {
	for i, existing := range s.Selected {
		if existing.ID == f.ID {
			s.Selected[i] = f
			return nil
		}
	}
	return eris.Errorf("workflow: facility %d is not in the selected set", f.ID)
}

// OverrideKey builds the feature-override map key for a unit attribute combo.
func OverrideKey(size string, climateControlled, driveUp bool) string {
	return fmt.Sprintf("%s|cc=%t|du=%t", size, climateControlled, driveUp)
}
