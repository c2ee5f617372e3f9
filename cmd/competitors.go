package main

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amoloo1999/rca-app/internal/geoindex"
	"github.com/amoloo1999/rca-app/internal/model"
	"github.com/amoloo1999/rca-app/internal/workflow"
)

var competitorsCmd = &cobra.Command{
	Use:   "competitors",
	Short: "Find competitors around the subject store",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		if err := s.Require(workflow.StepCompetitors); err != nil {
			return err
		}
		if s.Subject == nil {
			return eris.New("no subject store in session, run search first")
		}

		client := newAPIClient()
		stores, err := client.FindCompetitors(cmd.Context(), s.Subject.ID, s.RadiusMiles)
		if err != nil {
			return err
		}

		candidates := make([]model.Facility, 0, len(stores))
		for _, st := range stores {
			candidates = append(candidates, st.ToFacility())
		}

		competitors, err := filterByRadius(*s.Subject, candidates, s.RadiusMiles)
		if err != nil {
			return err
		}
		s.Competitors = competitors
		s.Advance(workflow.StepSelect)

		zap.L().Info("competitor discovery complete",
			zap.Int64("subject_id", s.Subject.ID),
			zap.Float64("radius_miles", s.RadiusMiles),
			zap.Int("competitors", len(competitors)),
		)

		fmt.Printf("Subject: %s (store %d)\n\n", s.Subject.Label(), s.Subject.ID)
		for _, f := range competitors {
			fmt.Printf("%8d  %-40s %5.2f mi  %s, %s %s\n",
				f.ID, f.Name, f.DistanceMiles, f.City, f.State, f.Zip)
		}

		return s.Save(sessionPath)
	},
}

// filterByRadius keeps the candidates within the radius, sorted by distance.
// When the subject has coordinates, distances are recomputed from them;
// otherwise the provider-reported distance is trusted.
func filterByRadius(subject model.Facility, candidates []model.Facility, radiusMiles float64) ([]model.Facility, error) {
	if subject.Latitude != 0 || subject.Longitude != 0 {
		neighbors, err := geoindex.FindWithinRadius(subject, candidates, radiusMiles)
		if err != nil {
			return nil, err
		}
		competitors := make([]model.Facility, 0, len(neighbors))
		for _, n := range neighbors {
			competitors = append(competitors, n.Facility)
		}
		return competitors, nil
	}

	competitors := make([]model.Facility, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == subject.ID || c.DistanceMiles > radiusMiles {
			continue
		}
		competitors = append(competitors, c)
	}
	sort.SliceStable(competitors, func(i, j int) bool {
		return competitors[i].DistanceMiles < competitors[j].DistanceMiles
	})
	return competitors, nil
}

func init() {
	rootCmd.AddCommand(competitorsCmd)
}
