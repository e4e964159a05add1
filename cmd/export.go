package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/bikesafety-cli/internal/export"
	"github.com/sells-group/bikesafety-cli/internal/model"
	"github.com/sells-group/bikesafety-cli/internal/proximity"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export cleaned and annotated data",
}

// exportInputs loads both datasets and annotates crashes when stations with
// valid coordinates exist. A station-free dataset still exports, unannotated.
func exportInputs() ([]model.Station, []model.CrashRecord, error) {
	stations, err := loadStations(cfg.Data.CombinedStationsFile)
	if err != nil {
		return nil, nil, err
	}
	crashes, report, err := loadCleanedCrashes(cfg.Data.CrashFile)
	if err != nil {
		return nil, nil, err
	}
	printCleaningReport(report)

	engine, err := proximity.NewEngine(stations, cfg.Proximity.Index)
	if err != nil {
		if eris.Is(err, proximity.ErrNoValidStations) {
			return stations, crashes, nil
		}
		return nil, nil, err
	}
	annotated, _ := engine.Annotate(crashes)
	return stations, annotated, nil
}

var exportGeoJSONCmd = &cobra.Command{
	Use:   "geojson",
	Short: "Write stations and crashes as GeoJSON FeatureCollections",
	RunE: func(cmd *cobra.Command, args []string) error {
		stations, crashes, err := exportInputs()
		if err != nil {
			return err
		}
		stationPath := exportOut + "_stations.geojson"
		crashPath := exportOut + "_crashes.geojson"
		if err := export.WriteGeoJSON(export.StationFeatures(stations), stationPath); err != nil {
			return err
		}
		if err := export.WriteGeoJSON(export.CrashFeatures(crashes), crashPath); err != nil {
			return err
		}
		out.Printf("Wrote %s and %s\n", stationPath, crashPath)
		return nil
	},
}

var exportXLSXCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Write the annotated crash table as an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, crashes, err := exportInputs()
		if err != nil {
			return err
		}
		path := exportOut + "_crashes.xlsx"
		if err := export.WriteCrashXLSX(crashes, path); err != nil {
			return err
		}
		out.Printf("Wrote %s\n", path)
		return nil
	},
}

var exportMapCmd = &cobra.Command{
	Use:   "map",
	Short: "Write an interactive Leaflet map of stations and crashes",
	RunE: func(cmd *cobra.Command, args []string) error {
		stations, crashes, err := exportInputs()
		if err != nil {
			return err
		}
		path := exportOut + "_map.html"
		if err := export.WriteMap(stations, crashes, path); err != nil {
			return err
		}
		out.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.PersistentFlags().StringVar(&exportOut, "out", "bikesafety", "output file prefix")
	exportCmd.AddCommand(exportGeoJSONCmd, exportXLSXCmd, exportMapCmd)
	rootCmd.AddCommand(exportCmd)
}
