package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amoloo1999/rca-app/internal/workflow"
)

var metadataFlags struct {
	facilityID int64
	yearBuilt  int
	squareFeet int
	done       bool
}

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Record store metadata",
	Long:  "Records year built and square footage for a selected store. Run once per store, then --done to move on. Both fields are optional.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		if err := s.Require(workflow.StepMetadata); err != nil {
			return err
		}

		if metadataFlags.facilityID != 0 {
			f, err := s.FindSelected(metadataFlags.facilityID)
			if err != nil {
				return err
			}
			if metadataFlags.yearBuilt != 0 {
				f.YearBuilt = metadataFlags.yearBuilt
			}
			if metadataFlags.squareFeet != 0 {
				f.SquareFeet = metadataFlags.squareFeet
			}
			if err := s.UpdateSelected(f); err != nil {
				return err
			}
			zap.L().Info("metadata recorded",
				zap.Int64("store_id", f.ID),
				zap.Int("year_built", f.YearBuilt),
				zap.Int("square_feet", f.SquareFeet),
			)
		}

		if metadataFlags.done {
			s.Advance(workflow.StepRankings)
		}

		for _, f := range s.Selected {
			fmt.Printf("%8d  %-40s built %-5d %d sqft\n", f.ID, f.Label(), f.YearBuilt, f.SquareFeet)
		}
		return s.Save(sessionPath)
	},
}

func init() {
	metadataCmd.Flags().Int64Var(&metadataFlags.facilityID, "store", 0, "store ID")
	metadataCmd.Flags().IntVar(&metadataFlags.yearBuilt, "year-built", 0, "year the store was built")
	metadataCmd.Flags().IntVar(&metadataFlags.squareFeet, "sqft", 0, "rentable square footage")
	metadataCmd.Flags().BoolVar(&metadataFlags.done, "done", false, "finish the metadata step")
	rootCmd.AddCommand(metadataCmd)
}
