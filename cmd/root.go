package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amoloo1999/rca-app/internal/config"
	"github.com/amoloo1999/rca-app/internal/ratestore"
	"github.com/amoloo1999/rca-app/internal/workflow"
	"github.com/amoloo1999/rca-app/pkg/stortrack"
)

var (
	cfg         *config.Config
	sessionPath string
)

var rootCmd = &cobra.Command{
	Use:   "rca-cli",
	Short: "Self-storage rate comparison and gap analysis",
	Long:  "Finds a subject store and its competitors via StorTrack, reconciles cached rate coverage against the analysis window, purchases only the missing days, and produces adjusted comparison reports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "session.json", "path to the session file")
}

// loadSession reads the workflow session named by the --session flag.
func loadSession() (*workflow.Session, error) {
	return workflow.Load(sessionPath)
}

// newAPIClient builds the StorTrack client from configuration.
func newAPIClient() stortrack.Client {
	return stortrack.NewClient(
		cfg.StorTrack.BaseURL,
		cfg.StorTrack.Username,
		cfg.StorTrack.Password,
		stortrack.WithRateLimit(cfg.StorTrack.RequestsPerSecond),
		stortrack.WithTimeout(time.Duration(cfg.StorTrack.TimeoutSecs)*time.Second),
	)
}

// openStore opens the configured rate cache and runs migrations.
func openStore(cmd *cobra.Command) (ratestore.Store, error) {
	ctx := cmd.Context()
	s, err := ratestore.New(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
