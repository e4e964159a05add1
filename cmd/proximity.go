package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bikesafety-cli/internal/proximity"
)

var proximitySaveRun bool

var proximityCmd = &cobra.Command{
	Use:   "proximity",
	Short: "Compute each crash's distance to the nearest station",
	Long:  "Runs the full pipeline: loads stations and crashes, cleans the crash data, annotates every crash with the great-circle distance to the nearest station, and prints band statistics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		stations, err := loadStations(cfg.Data.CombinedStationsFile)
		if err != nil {
			return err
		}
		crashes, report, err := loadCleanedCrashes(cfg.Data.CrashFile)
		if err != nil {
			return err
		}
		printCleaningReport(report)

		if len(crashes) == 0 {
			out.Println("No valid crash records after cleaning; nothing to analyze.")
			return nil
		}

		engine, err := proximity.NewEngine(stations, cfg.Proximity.Index)
		if err != nil {
			if eris.Is(err, proximity.ErrNoValidStations) {
				out.Println("No stations with valid coordinates; skipping proximity analysis.")
				return nil
			}
			return err
		}

		annotated, summary := engine.Annotate(crashes)

		out.Println("\n===== PROXIMITY ANALYSIS =====")
		out.Printf("Stations considered: %d\n", engine.Stations())
		out.Printf("Crashes analyzed:    %d\n", summary.Crashes)
		out.Printf("Mean distance to nearest station:   %.1f m\n", summary.MeanM)
		out.Printf("Median distance to nearest station: %.1f m\n", summary.MedianM)
		for _, band := range summary.Bands {
			out.Printf("Within %.0f m: %d (%.1f%%)\n", band.RadiusM, band.Count, band.Percent)
		}

		if err := writeJSON(annotated, cfg.Data.AnnotatedCrashFile); err != nil {
			return err
		}
		out.Printf("\nAnnotated crash table written to %s\n", cfg.Data.AnnotatedCrashFile)

		if proximitySaveRun {
			if err := saveRun(cmd, engine.Stations(), summary); err != nil {
				return err
			}
		}
		return nil
	},
}

func saveRun(cmd *cobra.Command, stations int, summary proximity.Summary) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	payload, err := json.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "marshal summary")
	}
	run, err := st.SaveRun(cmd.Context(), stations, summary.Crashes, payload)
	if err != nil {
		return err
	}
	zap.L().Info("proximity: run saved", zap.String("id", run.ID))
	return nil
}

func init() {
	proximityCmd.Flags().BoolVar(&proximitySaveRun, "save", false, "persist the run summary to the store")
	rootCmd.AddCommand(proximityCmd)
}
