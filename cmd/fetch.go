package main

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/amoloo1999/rca-app/internal/gap"
	"github.com/amoloo1999/rca-app/internal/model"
	"github.com/amoloo1999/rca-app/internal/ratestore"
	"github.com/amoloo1999/rca-app/internal/workflow"
)

const fetchConcurrency = 4

var fetchFlags struct {
	from    string
	to      string
	stores  []int64
	confirm bool
	skip    bool
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Reconcile cached coverage and purchase missing days",
	Long:  "Loads cached rates for the analysis window, prices the coverage shortfall at the provider's per-day rate, and with --confirm purchases only the missing days.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		if err := s.Require(workflow.StepFetch); err != nil {
			return err
		}

		from, to, err := analysisWindow()
		if err != nil {
			return err
		}

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		ctx := cmd.Context()
		ids := s.SelectedIDs()
		cachedRecords, err := store.RatesForFacilities(ctx, ids, from, to)
		if err != nil {
			return err
		}

		required, err := gap.RequiredWindow(ids, from, to)
		if err != nil {
			return err
		}
		analyzer, err := gap.NewAnalyzer(cfg.Pricing.DailyRate)
		if err != nil {
			return err
		}
		report, err := analyzer.Analyze(required, gap.CachedSet(cachedRecords))
		if err != nil {
			return err
		}

		printCoverage(s, report, from, to)

		s.WindowFrom = from.Format(model.DateLayout)
		s.WindowTo = to.Format(model.DateLayout)
		s.Gap = report
		s.Records = cachedRecords

		if len(report.Shortfall) == 0 {
			zap.L().Info("cache fully covers the window", zap.Int("records", len(cachedRecords)))
			s.Advance(workflow.StepFeatures)
			return s.Save(sessionPath)
		}

		if fetchFlags.skip {
			zap.L().Info("continuing with cached data only",
				zap.Int("cached_records", len(cachedRecords)),
				zap.Int("missing_days", len(report.DistinctDays)),
			)
			s.Advance(workflow.StepFeatures)
			return s.Save(sessionPath)
		}

		if !fetchFlags.confirm {
			fmt.Println("\nRe-run with --confirm to purchase the missing days, or --skip to continue with cached data only.")
			return s.Save(sessionPath)
		}

		fetched, err := purchaseShortfall(cmd, store, report)
		if err != nil {
			return err
		}
		s.Records = append(s.Records, fetched...)
		sortRecords(s.Records)
		s.Advance(workflow.StepFeatures)

		zap.L().Info("fetch complete",
			zap.Int("cached_records", len(cachedRecords)),
			zap.Int("purchased_records", len(fetched)),
		)
		return s.Save(sessionPath)
	},
}

// analysisWindow resolves the window from flags, defaulting to the configured
// lookback ending today.
func analysisWindow() (time.Time, time.Time, error) {
	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, -cfg.Analysis.LookbackMonths, 0)

	var err error
	if fetchFlags.to != "" {
		to, err = time.Parse(model.DateLayout, fetchFlags.to)
		if err != nil {
			return time.Time{}, time.Time{}, eris.Wrapf(err, "parse --to %q", fetchFlags.to)
		}
		from = to.AddDate(0, -cfg.Analysis.LookbackMonths, 0)
	}
	if fetchFlags.from != "" {
		from, err = time.Parse(model.DateLayout, fetchFlags.from)
		if err != nil {
			return time.Time{}, time.Time{}, eris.Wrapf(err, "parse --from %q", fetchFlags.from)
		}
	}
	return from, to, nil
}

func printCoverage(s *workflow.Session, report *model.GapReport, from, to time.Time) {
	p := message.NewPrinter(language.English)
	totalDays := int(to.Sub(from).Hours()/24) + 1
	missing := gap.MissingByFacility(report.Shortfall)
	byID := s.SelectedByID()

	fmt.Printf("Window %s to %s (%d days)\n\n", from.Format(model.DateLayout), to.Format(model.DateLayout), totalDays)
	for _, id := range s.SelectedIDs() {
		f := byID[id]
		missingDays := len(missing[id])
		fmt.Printf("%8d  %-40s %6.1f%% covered, %d days missing\n",
			id, f.Label(), gap.CoveragePct(missingDays, totalDays), missingDays)
	}

	fmt.Println()
	p.Printf("Shortfall: %d distinct days at $%.2f/day\n", len(report.DistinctDays), report.DailyRate)
	p.Printf("Estimated cost: $%.2f\n", report.EstimatedCost)
}

// purchaseShortfall buys the missing days from the provider, one request per
// contiguous run of dates per store, and caches everything retrieved.
func purchaseShortfall(cmd *cobra.Command, store ratestore.Store, report *model.GapReport) ([]model.RateRecord, error) {
	missing := gap.MissingByFacility(report.Shortfall)

	// Optional restriction to a subset of stores.
	if len(fetchFlags.stores) > 0 {
		keep := make(map[int64]bool, len(fetchFlags.stores))
		for _, id := range fetchFlags.stores {
			keep[id] = true
		}
		for id := range missing {
			if !keep[id] {
				delete(missing, id)
			}
		}
	}

	client := newAPIClient()
	ctx := cmd.Context()

	var mu sync.Mutex
	var fetched []model.RateRecord

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for id, dates := range missing {
		ranges, err := gap.ContiguousRanges(dates)
		if err != nil {
			return nil, err
		}
		for _, r := range ranges {
			id, r := id, r
			g.Go(func() error {
				rates, err := client.FetchHistoricalRates(gctx, id, r.From, r.To)
				if err != nil {
					return err
				}
				records := make([]model.RateRecord, 0, len(rates))
				for _, rd := range rates {
					rec, err := rd.ToRecord()
					if err != nil {
						return eris.Wrapf(err, "store %d", id)
					}
					records = append(records, rec)
				}
				mu.Lock()
				fetched = append(fetched, records...)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortRecords(fetched)
	if err := store.InsertRates(ctx, fetched); err != nil {
		return nil, err
	}
	return fetched, nil
}

func sortRecords(records []model.RateRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].FacilityID != records[j].FacilityID {
			return records[i].FacilityID < records[j].FacilityID
		}
		if !records[i].DateCollected.Equal(records[j].DateCollected) {
			return records[i].DateCollected.Before(records[j].DateCollected)
		}
		return records[i].Size < records[j].Size
	})
}

func init() {
	fetchCmd.Flags().StringVar(&fetchFlags.from, "from", "", "window start (YYYY-MM-DD, default lookback from --to)")
	fetchCmd.Flags().StringVar(&fetchFlags.to, "to", "", "window end (YYYY-MM-DD, default today)")
	fetchCmd.Flags().Int64SliceVar(&fetchFlags.stores, "stores", nil, "restrict the purchase to these store IDs")
	fetchCmd.Flags().BoolVar(&fetchFlags.confirm, "confirm", false, "purchase the missing days")
	fetchCmd.Flags().BoolVar(&fetchFlags.skip, "skip", false, "continue with cached data only, without purchasing")
	fetchCmd.MarkFlagsMutuallyExclusive("confirm", "skip")
	rootCmd.AddCommand(fetchCmd)
}
