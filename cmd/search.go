package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amoloo1999/rca-app/internal/workflow"
	"github.com/amoloo1999/rca-app/pkg/stortrack"
)

var searchFlags struct {
	country     string
	state       string
	city        string
	zip         string
	storeName   string
	companyName string
	radius      float64
	pick        int
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find the subject store",
	Long:  "Searches StorTrack for stores matching the address. Lists matches; re-run with --pick to confirm the subject store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			// A corrupt session file must surface, not be silently replaced.
			if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			radius := searchFlags.radius
			if radius <= 0 {
				radius = cfg.Analysis.RadiusMiles
			}
			s = workflow.New(radius)
		}
		if searchFlags.radius > 0 {
			s.RadiusMiles = searchFlags.radius
		}

		// Picking from earlier results needs no second API call.
		if searchFlags.pick > 0 && len(s.Candidates) > 0 {
			return pickSubject(s, searchFlags.pick)
		}

		client := newAPIClient()
		stores, err := client.FindStoresByAddress(cmd.Context(), stortrack.StoreQuery{
			Country:     searchFlags.country,
			State:       searchFlags.state,
			City:        searchFlags.city,
			Zip:         searchFlags.zip,
			StoreName:   searchFlags.storeName,
			CompanyName: searchFlags.companyName,
		})
		if err != nil {
			return err
		}
		if len(stores) == 0 {
			return eris.New("no stores found, refine the search criteria")
		}

		s.Candidates = s.Candidates[:0]
		for _, st := range stores {
			s.Candidates = append(s.Candidates, st.ToFacility())
		}
		s.SearchCity = searchFlags.city
		s.SearchState = searchFlags.state

		zap.L().Info("store search complete", zap.Int("matches", len(s.Candidates)))
		for i, f := range s.Candidates {
			fmt.Printf("%3d. %s - %s, %s, %s %s\n", i+1, f.Name, f.Address, f.City, f.State, f.Zip)
		}

		if searchFlags.pick > 0 {
			return pickSubject(s, searchFlags.pick)
		}

		fmt.Println("\nRe-run with --pick N to confirm the subject store.")
		return s.Save(sessionPath)
	},
}

func pickSubject(s *workflow.Session, pick int) error {
	if pick < 1 || pick > len(s.Candidates) {
		return eris.Errorf("pick %d is out of range, %d candidates available", pick, len(s.Candidates))
	}
	subject := s.Candidates[pick-1]
	s.Subject = &subject
	s.Advance(workflow.StepCompetitors)

	zap.L().Info("subject store confirmed",
		zap.Int64("store_id", subject.ID),
		zap.String("name", subject.Name),
	)
	return s.Save(sessionPath)
}

func init() {
	searchCmd.Flags().StringVar(&searchFlags.country, "country", "United States", "country")
	searchCmd.Flags().StringVar(&searchFlags.state, "state", "", "state (required)")
	searchCmd.Flags().StringVar(&searchFlags.city, "city", "", "city (required)")
	searchCmd.Flags().StringVar(&searchFlags.zip, "zip", "", "ZIP code")
	searchCmd.Flags().StringVar(&searchFlags.storeName, "store-name", "", "store name filter")
	searchCmd.Flags().StringVar(&searchFlags.companyName, "company", "", "company name filter")
	searchCmd.Flags().Float64Var(&searchFlags.radius, "radius", 0, "competitor search radius in miles (default from config)")
	searchCmd.Flags().IntVar(&searchFlags.pick, "pick", 0, "confirm the Nth search result as the subject store")
	rootCmd.AddCommand(searchCmd)
}
