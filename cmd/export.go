package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amoloo1999/rca-app/internal/adjust"
	"github.com/amoloo1999/rca-app/internal/report"
	"github.com/amoloo1999/rca-app/internal/workflow"
)

var exportFlags struct {
	format string
	outDir string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the comparison reports",
	Long:  "Builds the full data dump and the adjusted summary from the session's records and writes them as a CSV pair or an XLSX workbook.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		if err := s.Require(workflow.StepExport); err != nil {
			return err
		}
		if len(s.Records) == 0 {
			return eris.New("no rate records in session, run fetch first")
		}

		multipliers, err := buildMultipliers(s)
		if err != nil {
			return err
		}

		reports, err := report.BuildReports(s.Records, s.SelectedByID(), multipliers)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(exportFlags.outDir, 0o755); err != nil {
			return eris.Wrapf(err, "create output dir %s", exportFlags.outDir)
		}

		now := time.Now().UTC()
		city := s.SearchCity
		if city == "" && s.Subject != nil {
			city = s.Subject.City
		}

		switch exportFlags.format {
		case "csv":
			dataName, summaryName := report.OutputNames(city, now)
			dataPath := filepath.Join(exportFlags.outDir, dataName)
			summaryPath := filepath.Join(exportFlags.outDir, summaryName)

			if err := writeCSVFile(dataPath, func(f *os.File) error {
				return report.WriteFullDumpCSV(f, reports.FullDump)
			}); err != nil {
				return err
			}
			if err := writeCSVFile(summaryPath, func(f *os.File) error {
				return report.WriteSummaryCSV(f, reports.Summary)
			}); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\nWrote %s\n", dataPath, summaryPath)

		case "xlsx":
			dataName, _ := report.OutputNames(city, now)
			path := filepath.Join(exportFlags.outDir, dataName[:len(dataName)-len("_data.csv")]+".xlsx")
			if err := report.WriteWorkbook(path, reports); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)

		default:
			return eris.Errorf("unknown format %q, want csv or xlsx", exportFlags.format)
		}

		s.Advance(workflow.StepExport)
		zap.L().Info("export complete",
			zap.Int("data_rows", len(reports.FullDump)),
			zap.Int("summary_rows", len(reports.Summary)),
		)
		return s.Save(sessionPath)
	},
}

// buildMultipliers computes the total adjustment percentage per selected
// store from its rankings and manual factors. The subject store is the
// baseline and stays unadjusted.
func buildMultipliers(s *workflow.Session) (map[int64]float64, error) {
	engine := adjust.NewEngine(
		adjust.WithNeutralRank(cfg.Analysis.NeutralRank),
		adjust.WithRankingStepPct(cfg.Analysis.RankingStepPct),
		adjust.WithMaxFactorPct(cfg.Analysis.MaxFactorPct),
	)

	multipliers := make(map[int64]float64, len(s.Selected))
	for _, f := range s.Selected {
		if f.ID == subjectID(s) {
			multipliers[f.ID] = 0
			continue
		}
		pct, err := engine.ComputeMultiplier(s.Rankings[f.ID], s.Factors[f.ID])
		if err != nil {
			return nil, eris.Wrapf(err, "store %d", f.ID)
		}
		multipliers[f.ID] = pct
	}
	return multipliers, nil
}

func writeCSVFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "close %s", path)
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.format, "format", "csv", "output format: csv or xlsx")
	exportCmd.Flags().StringVar(&exportFlags.outDir, "out", ".", "output directory")
	rootCmd.AddCommand(exportCmd)
}
