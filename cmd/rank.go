package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amoloo1999/rca-app/internal/adjust"
	"github.com/amoloo1999/rca-app/internal/model"
	"github.com/amoloo1999/rca-app/internal/workflow"
)

var rankFlags struct {
	facilityID int64
	scores     map[string]int
	done       bool
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a competitor against the subject store",
	Long:  "Records 1-5 rankings across the eight comparison categories for one store. 3 is on par with the subject. Run once per competitor, then --done.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		if err := s.Require(workflow.StepRankings); err != nil {
			return err
		}

		if rankFlags.facilityID != 0 {
			if _, err := s.FindSelected(rankFlags.facilityID); err != nil {
				return err
			}

			ranking := make(model.Ranking, len(model.RankCategories))
			for _, cat := range model.RankCategories {
				score, ok := rankFlags.scores[cat]
				if !ok {
					return eris.Errorf("missing ranking for %q, all %d categories are required", cat, len(model.RankCategories))
				}
				if score < adjust.MinRank || score > adjust.MaxRank {
					return eris.Errorf("ranking for %q must be between %d and %d, got %d", cat, adjust.MinRank, adjust.MaxRank, score)
				}
				ranking[cat] = score
			}
			for cat := range rankFlags.scores {
				if _, ok := ranking[cat]; !ok {
					return eris.Errorf("unknown ranking category %q", cat)
				}
			}

			if s.Rankings == nil {
				s.Rankings = make(map[int64]model.Ranking)
			}
			s.Rankings[rankFlags.facilityID] = ranking
			zap.L().Info("ranking recorded", zap.Int64("store_id", rankFlags.facilityID))
		}

		if rankFlags.done {
			s.Advance(workflow.StepFactors)
		}

		for _, f := range s.Selected {
			if f.ID == subjectID(s) {
				continue
			}
			if _, ok := s.Rankings[f.ID]; ok {
				fmt.Printf("%8d  %-40s ranked\n", f.ID, f.Label())
			} else {
				fmt.Printf("%8d  %-40s pending\n", f.ID, f.Label())
			}
		}
		return s.Save(sessionPath)
	},
}

func subjectID(s *workflow.Session) int64 {
	if s.Subject == nil {
		return 0
	}
	return s.Subject.ID
}

func init() {
	rankCmd.Flags().Int64Var(&rankFlags.facilityID, "store", 0, "store ID to rank")
	rankCmd.Flags().StringToIntVar(&rankFlags.scores, "scores", nil,
		"category=score pairs, e.g. --scores Location=4,Visibility=3")
	rankCmd.Flags().BoolVar(&rankFlags.done, "done", false, "finish the ranking step")
	rootCmd.AddCommand(rankCmd)
}
