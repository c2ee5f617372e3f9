package main

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amoloo1999/rca-app/internal/model"
	"github.com/amoloo1999/rca-app/internal/workflow"
)

var adjustFlags struct {
	facilityID int64
	factors    map[string]string
	done       bool
}

var adjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "Record manual adjustment factors",
	Long:  "Records signed percentage adjustments per factor category for one store. Omitted categories contribute nothing. Run once per store, then --done.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		if err := s.Require(workflow.StepFactors); err != nil {
			return err
		}

		if adjustFlags.facilityID != 0 {
			if _, err := s.FindSelected(adjustFlags.facilityID); err != nil {
				return err
			}

			known := make(map[string]bool, len(model.FactorCategories))
			for _, cat := range model.FactorCategories {
				known[cat] = true
			}

			factors := make(model.AdjustmentFactors, len(adjustFlags.factors))
			for cat, raw := range adjustFlags.factors {
				if !known[cat] {
					return eris.Errorf("unknown factor category %q", cat)
				}
				pct, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return eris.Wrapf(err, "factor %q", cat)
				}
				if pct > cfg.Analysis.MaxFactorPct || pct < -cfg.Analysis.MaxFactorPct {
					return eris.Errorf("factor %q is %.2f%%, bound is ±%.0f%%", cat, pct, cfg.Analysis.MaxFactorPct)
				}
				factors[cat] = pct
			}

			if s.Factors == nil {
				s.Factors = make(map[int64]model.AdjustmentFactors)
			}
			s.Factors[adjustFlags.facilityID] = factors
			zap.L().Info("adjustment factors recorded",
				zap.Int64("store_id", adjustFlags.facilityID),
				zap.Int("factors", len(factors)),
			)
		}

		if adjustFlags.done {
			s.Advance(workflow.StepNames)
		}

		for _, f := range s.Selected {
			total := 0.0
			for _, pct := range s.Factors[f.ID] {
				total += pct
			}
			fmt.Printf("%8d  %-40s %+6.2f%%\n", f.ID, f.Label(), total)
		}
		return s.Save(sessionPath)
	},
}

func init() {
	adjustCmd.Flags().Int64Var(&adjustFlags.facilityID, "store", 0, "store ID to adjust")
	adjustCmd.Flags().StringToStringVar(&adjustFlags.factors, "factors", nil,
		"category=percent pairs, e.g. --factors Size=-2.5,Age=1.0")
	adjustCmd.Flags().BoolVar(&adjustFlags.done, "done", false, "finish the adjustment step")
	rootCmd.AddCommand(adjustCmd)
}
