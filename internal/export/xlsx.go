package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/bikesafety-cli/internal/model"
)

var crashHeader = []string{
	"date", "time", "borough", "street", "cross_street", "contributing_factor",
	"lat", "lon", "cyclists_injured", "cyclists_killed",
	"total_cyclist_casualties", "distance_to_nearest_station_m",
}

// WriteCrashXLSX writes the crash table to an XLSX workbook. The nearest
// distance column is left blank when annotation has not run.
func WriteCrashXLSX(crashes []model.CrashRecord, path string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("crashes")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, name := range crashHeader {
		header.AddCell().Value = name
	}

	for _, c := range crashes {
		row := sheet.AddRow()
		row.AddCell().Value = c.Date
		row.AddCell().Value = c.Time
		row.AddCell().Value = c.Borough
		row.AddCell().Value = c.Street
		row.AddCell().Value = c.CrossStreet
		row.AddCell().Value = c.ContributingFactor
		if c.HasCoordinates {
			row.AddCell().SetFloat(c.Lat)
			row.AddCell().SetFloat(c.Lon)
		} else {
			row.AddCell()
			row.AddCell()
		}
		row.AddCell().SetInt(c.CyclistsInjured)
		row.AddCell().SetInt(c.CyclistsKilled)
		row.AddCell().SetInt(c.TotalCasualties)
		if c.HasNearest {
			row.AddCell().SetFloatWithFormat(c.NearestStationM, "0.0")
		} else {
			row.AddCell()
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
