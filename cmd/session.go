package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amoloo1999/rca-app/internal/workflow"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the workflow session",
}

var sessionInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Start a fresh session",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := workflow.New(cfg.Analysis.RadiusMiles)
		if err := s.Save(sessionPath); err != nil {
			return err
		}
		zap.L().Info("session created", zap.String("id", s.ID), zap.String("path", sessionPath))
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}

		fmt.Printf("Session %s\n", s.ID)
		fmt.Printf("  Step:        %s\n", s.Step)
		fmt.Printf("  Radius:      %.1f mi\n", s.RadiusMiles)
		if s.Subject != nil {
			fmt.Printf("  Subject:     %s (store %d)\n", s.Subject.Label(), s.Subject.ID)
		}
		if len(s.Competitors) > 0 {
			fmt.Printf("  Competitors: %d\n", len(s.Competitors))
		}
		if len(s.Selected) > 0 {
			fmt.Printf("  Selected:    %d stores\n", len(s.Selected))
		}
		if s.WindowFrom != "" {
			fmt.Printf("  Window:      %s to %s\n", s.WindowFrom, s.WindowTo)
		}
		if len(s.Records) > 0 {
			fmt.Printf("  Records:     %d\n", len(s.Records))
		}
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionInitCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	rootCmd.AddCommand(sessionCmd)
}
