package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amoloo1999/rca-app/internal/model"
	"github.com/amoloo1999/rca-app/internal/workflow"
)

var selectIDs []int64

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Choose the stores to analyze",
	Long:  "Selects competitors by store ID for the rate comparison. The subject store is always included.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		if err := s.Require(workflow.StepSelect); err != nil {
			return err
		}
		if s.Subject == nil {
			return eris.New("no subject store in session, run search first")
		}

		byID := make(map[int64]model.Facility, len(s.Competitors))
		for _, c := range s.Competitors {
			byID[c.ID] = c
		}

		selected := []model.Facility{*s.Subject}
		for _, id := range selectIDs {
			if id == s.Subject.ID {
				continue
			}
			c, ok := byID[id]
			if !ok {
				return eris.Errorf("store %d is not in the competitor list", id)
			}
			selected = append(selected, c)
		}
		if len(selected) < 2 {
			return eris.New("select at least one competitor with --ids")
		}

		s.Selected = selected
		s.Advance(workflow.StepMetadata)

		zap.L().Info("stores selected", zap.Int("count", len(selected)))
		for _, f := range selected {
			fmt.Printf("%8d  %s\n", f.ID, f.Label())
		}
		return s.Save(sessionPath)
	},
}

func init() {
	selectCmd.Flags().Int64SliceVar(&selectIDs, "ids", nil, "competitor store IDs to include")
	rootCmd.AddCommand(selectCmd)
}
