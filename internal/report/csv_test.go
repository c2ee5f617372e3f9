package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoloo1999/rca-app/internal/model"
)

func TestWriteFullDumpCSV(t *testing.T) {
	t.Parallel()

	rows := []model.FullDumpRow{
		{
			StoreName: "Subject Storage", StoreID: 1, Address: "1 Main St", City: "Miami",
			State: "FL", Zip: "33131", DistanceMiles: 0, Size: "10x10", FeatureCode: "CC",
			RegularRate: 100, OnlineRate: 90, Promo: "First month free",
			DateCollected: "2024-01-01", ClimateControlled: true, DriveUp: false,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFullDumpCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Store Name,Store ID,Address,City,State,ZIP,Distance (mi),Size,Feature Code,Regular Rate,Online Rate,Promo,Date Collected,Climate Controlled,Drive Up", lines[0])
	assert.Equal(t, "Subject Storage,1,1 Main St,Miami,FL,33131,0.00,10x10,CC,100.00,90.00,First month free,2024-01-01,true,false", lines[1])
}

func TestWriteSummaryCSV(t *testing.T) {
	t.Parallel()

	rows := []model.SummaryRow{
		{Store: "Comp A", SizeBucket: "5x5", AvgRegularRate: 105, AvgOnlineRate: 95, AdjustmentPct: 2.5, AdjustedRate: 107.625},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Store,Size,Avg Regular Rate,Avg Online Rate,Adjustment %,Adjusted Rate", lines[0])
	assert.Equal(t, "Comp A,5x5,105.00,95.00,2.50,107.63", lines[1])
}

func TestWriteCSV_ByteIdentical(t *testing.T) {
	t.Parallel()

	records := []model.RateRecord{
		{FacilityID: 1, Size: "5x5", RegularRate: 60, OnlineRate: 55, DateCollected: day(1)},
		{FacilityID: 2, Size: "10x10", RegularRate: 120, OnlineRate: 110, DateCollected: day(2)},
	}
	reports1, err := BuildReports(records, testFacilities(), nil)
	require.NoError(t, err)
	reports2, err := BuildReports(records, testFacilities(), nil)
	require.NoError(t, err)

	var a, b bytes.Buffer
	require.NoError(t, WriteFullDumpCSV(&a, reports1.FullDump))
	require.NoError(t, WriteFullDumpCSV(&b, reports2.FullDump))
	assert.Equal(t, a.Bytes(), b.Bytes())

	a.Reset()
	b.Reset()
	require.NoError(t, WriteSummaryCSV(&a, reports1.Summary))
	require.NoError(t, WriteSummaryCSV(&b, reports2.Summary))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestOutputNames(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC)

	data, summary := OutputNames("New York", now)
	assert.Equal(t, "RCA_new_york_20240315_093045_data.csv", data)
	assert.Equal(t, "RCA_new_york_20240315_093045_summary.csv", summary)

	data, _ = OutputNames("", now)
	assert.Equal(t, "RCA_unknown_20240315_093045_data.csv", data)
}

func TestWriteWorkbook(t *testing.T) {
	t.Parallel()

	records := []model.RateRecord{
		{FacilityID: 1, Size: "5x5", RegularRate: 60, OnlineRate: 55, DateCollected: day(1), FeatureCode: "CC"},
	}
	reports, err := BuildReports(records, testFacilities(), map[int64]float64{1: 1.0})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteWorkbook(path, reports))
	assert.FileExists(t, path)
}
