package report

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// WriteWorkbook writes both tables into a single XLSX workbook with a Data
// sheet and a Summary sheet.
func WriteWorkbook(path string, reports *Reports) error {
	f := xlsx.NewFile()

	data, err := f.AddSheet("Data")
	if err != nil {
		return eris.Wrap(err, "report: add data sheet")
	}
	writeHeader(data, fullDumpColumns)
	for _, r := range reports.FullDump {
		row := data.AddRow()
		row.AddCell().Value = r.StoreName
		row.AddCell().Value = strconv.FormatInt(r.StoreID, 10)
		row.AddCell().Value = r.Address
		row.AddCell().Value = r.City
		row.AddCell().Value = r.State
		row.AddCell().Value = r.Zip
		row.AddCell().SetFloatWithFormat(r.DistanceMiles, "0.00")
		row.AddCell().Value = r.Size
		row.AddCell().Value = r.FeatureCode
		row.AddCell().SetFloatWithFormat(r.RegularRate, "0.00")
		row.AddCell().SetFloatWithFormat(r.OnlineRate, "0.00")
		row.AddCell().Value = r.Promo
		row.AddCell().Value = r.DateCollected
		row.AddCell().SetBool(r.ClimateControlled)
		row.AddCell().SetBool(r.DriveUp)
	}

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}
	writeHeader(summary, summaryColumns)
	for _, r := range reports.Summary {
		row := summary.AddRow()
		row.AddCell().Value = r.Store
		row.AddCell().Value = r.SizeBucket
		row.AddCell().SetFloatWithFormat(r.AvgRegularRate, "0.00")
		row.AddCell().SetFloatWithFormat(r.AvgOnlineRate, "0.00")
		row.AddCell().SetFloatWithFormat(r.AdjustmentPct, "0.00")
		row.AddCell().SetFloatWithFormat(r.AdjustedRate, "0.00")
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "report: save workbook")
	}
	return nil
}

func writeHeader(sheet *xlsx.Sheet, columns []string) {
	row := sheet.AddRow()
	for _, col := range columns {
		row.AddCell().Value = col
	}
}
