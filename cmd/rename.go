package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amoloo1999/rca-app/internal/workflow"
)

var renameFlags struct {
	facilityID int64
	name       string
	done       bool
}

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Set report display names",
	Long:  "Overrides the name a store appears under in the reports. Stores without an override keep their provider name.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		if err := s.Require(workflow.StepNames); err != nil {
			return err
		}

		if renameFlags.facilityID != 0 && renameFlags.name != "" {
			if _, err := s.FindSelected(renameFlags.facilityID); err != nil {
				return err
			}
			if s.Names == nil {
				s.Names = make(map[int64]string)
			}
			s.Names[renameFlags.facilityID] = renameFlags.name
			zap.L().Info("display name set",
				zap.Int64("store_id", renameFlags.facilityID),
				zap.String("name", renameFlags.name),
			)
		}

		if renameFlags.done {
			s.Advance(workflow.StepFetch)
		}

		for _, f := range s.Selected {
			if name, ok := s.Names[f.ID]; ok {
				fmt.Printf("%8d  %s -> %s\n", f.ID, f.Name, name)
			} else {
				fmt.Printf("%8d  %s\n", f.ID, f.Name)
			}
		}
		return s.Save(sessionPath)
	},
}

func init() {
	renameCmd.Flags().Int64Var(&renameFlags.facilityID, "store", 0, "store ID to rename")
	renameCmd.Flags().StringVar(&renameFlags.name, "name", "", "display name for the reports")
	renameCmd.Flags().BoolVar(&renameFlags.done, "done", false, "finish the naming step")
	rootCmd.AddCommand(renameCmd)
}
