package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/bikesafety-cli/internal/model"
	"github.com/sells-group/bikesafety-cli/internal/station"
	"github.com/sells-group/bikesafety-cli/internal/store"
)

var stationsAnalyzeFromStore bool

var stationsAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print network analysis for the combined station table",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			stations []model.Station
			err      error
		)
		if stationsAnalyzeFromStore {
			stations, err = loadStationSnapshot(cmd)
		} else {
			stations, err = loadStations(cfg.Data.CombinedStationsFile)
		}
		if err != nil {
			return err
		}

		a := station.Analyze(stations)

		out.Println("===== BIKE-SHARE NETWORK ANALYSIS =====")
		out.Printf("Total stations:        %d\n", a.Stations)
		out.Printf("Active stations:       %d\n", a.ActiveStations)
		out.Printf("Total bike capacity:   %d\n", a.TotalCapacity)
		out.Printf("Regular bikes:         %d\n", a.BikesAvailable-a.EBikesAvailable)
		out.Printf("E-bikes:               %d\n", a.EBikesAvailable)
		out.Printf("Total bikes available: %d\n", a.BikesAvailable)
		out.Printf("Docks available:       %d\n", a.DocksAvailable)
		if a.AvgCapacity > 0 {
			out.Printf("Average capacity:      %.1f bikes\n", a.AvgCapacity)
		}

		if a.MostBikes != nil {
			out.Printf("\nMost bikes:     %s (%.0f)\n", a.MostBikes.Name, a.MostBikes.Value)
			out.Printf("Least bikes:    %s (%.0f)\n", a.LeastBikes.Name, a.LeastBikes.Value)
			out.Printf("Most utilized:  %s (%.1f%% full)\n", a.MostUtilized.Name, a.MostUtilized.Value*100)
			out.Printf("Least utilized: %s (%.1f%% full)\n", a.LeastUtilized.Name, a.LeastUtilized.Value*100)
		}

		if len(a.Regions) > 0 {
			out.Println("\nStations by region:")
			for _, r := range a.Regions {
				out.Printf("  %s: %d\n", r.RegionID, r.Count)
			}
		}
		return nil
	},
}

// loadStationSnapshot reads the latest combined-station snapshot from the
// configured store.
func loadStationSnapshot(cmd *cobra.Command) ([]model.Station, error) {
	st, err := openStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer st.Close() //nolint:errcheck

	snap, err := st.LatestSnapshot(cmd.Context(), store.SnapshotStations)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, eris.New("no station snapshot in the store; run `stations fetch --snapshot` first")
	}

	var stations []model.Station
	if err := json.Unmarshal(snap.Payload, &stations); err != nil {
		return nil, eris.Wrapf(err, "decode snapshot %s", snap.ID)
	}
	return stations, nil
}

func init() {
	stationsAnalyzeCmd.Flags().BoolVar(&stationsAnalyzeFromStore, "from-store", false, "analyze the latest snapshot from the store instead of the local file")
	stationsCmd.AddCommand(stationsAnalyzeCmd)
}
