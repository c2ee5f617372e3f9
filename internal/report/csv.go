package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/amoloo1999/rca-app/internal/model"
)

// fullDumpColumns defines the ordered full-dump CSV columns.
var fullDumpColumns = []string{
	"Store Name",
	"Store ID",
	"Address",
	"City",
	"State",
	"ZIP",
	"Distance (mi)",
	"Size",
	"Feature Code",
	"Regular Rate",
	"Online Rate",
	"Promo",
	"Date Collected",
	"Climate Controlled",
	"Drive Up",
}

// summaryColumns defines the ordered summary CSV columns.
var summaryColumns = []string{
	"Store",
	"Size",
	"Avg Regular Rate",
	"Avg Online Rate",
	"Adjustment %",
	"Adjusted Rate",
}

// WriteFullDumpCSV writes the full dump table as CSV.
func WriteFullDumpCSV(w io.Writer, rows []model.FullDumpRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(fullDumpColumns); err != nil {
		return eris.Wrap(err, "report: write full dump header")
	}
	for _, r := range rows {
		record := []string{
			r.StoreName,
			strconv.FormatInt(r.StoreID, 10),
			r.Address,
			r.City,
			r.State,
			r.Zip,
			fmt.Sprintf("%.2f", r.DistanceMiles),
			r.Size,
			r.FeatureCode,
			fmt.Sprintf("%.2f", r.RegularRate),
			fmt.Sprintf("%.2f", r.OnlineRate),
			r.Promo,
			r.DateCollected,
			strconv.FormatBool(r.ClimateControlled),
			strconv.FormatBool(r.DriveUp),
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "report: write full dump row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush full dump")
}

// WriteSummaryCSV writes the summary table as CSV.
func WriteSummaryCSV(w io.Writer, rows []model.SummaryRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(summaryColumns); err != nil {
		return eris.Wrap(err, "report: write summary header")
	}
	for _, r := range rows {
		record := []string{
			r.Store,
			r.SizeBucket,
			fmt.Sprintf("%.2f", r.AvgRegularRate),
			fmt.Sprintf("%.2f", r.AvgOnlineRate),
			fmt.Sprintf("%.2f", r.AdjustmentPct),
			fmt.Sprintf("%.2f", r.AdjustedRate),
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "report: write summary row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush summary")
}

// OutputNames returns the conventional data/summary file names for a run:
// RCA_<city>_<timestamp>_{data,summary}.csv.
func OutputNames(city string, now time.Time) (dataName, summaryName string) {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(city), " ", "_"))
	if slug == "" {
		slug = "unknown"
	}
	ts := now.Format("20060102_150405")
	return fmt.Sprintf("RCA_%s_%s_data.csv", slug, ts), fmt.Sprintf("RCA_%s_%s_summary.csv", slug, ts)
}
