package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/bikesafety-cli/internal/fetcher"
	"github.com/sells-group/bikesafety-cli/internal/model"
	"github.com/sells-group/bikesafety-cli/internal/normalizer"
	"github.com/sells-group/bikesafety-cli/internal/station"
	"github.com/sells-group/bikesafety-cli/internal/store"
)

var stationsFetchSnapshot bool

var stationsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the information and status feeds and write the combined station table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		f := newFetcher()

		// The two feeds are independent; the join below stays single-pass.
		var infoDoc, statusDoc any
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			infoDoc, err = fetcher.FetchDocument(gctx, f, cfg.Feeds.StationInformationURL)
			return err
		})
		g.Go(func() error {
			var err error
			statusDoc, err = fetcher.FetchDocument(gctx, f, cfg.Feeds.StationStatusURL)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		info, err := normalizer.Normalize(infoDoc)
		if err != nil {
			return eris.Wrap(err, "station information feed")
		}
		status, err := normalizer.Normalize(statusDoc)
		if err != nil {
			return eris.Wrap(err, "station status feed")
		}

		combined := station.Combine(info, status)
		if err := writeJSON(combined, cfg.Data.CombinedStationsFile); err != nil {
			return err
		}
		out.Printf("Combined %d stations into %s\n", len(combined), cfg.Data.CombinedStationsFile)

		if stationsFetchSnapshot {
			if err := snapshotStations(cmd, combined); err != nil {
				return err
			}
		}
		return nil
	},
}

func snapshotStations(cmd *cobra.Command, combined []model.Station) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	payload, err := json.Marshal(combined)
	if err != nil {
		return eris.Wrap(err, "marshal station snapshot")
	}
	snap, err := st.SaveSnapshot(cmd.Context(), store.SnapshotStations, len(combined), payload)
	if err != nil {
		return err
	}
	zap.L().Info("stations: snapshot saved", zap.String("id", snap.ID), zap.Int("stations", snap.RecordCount))
	return nil
}

func init() {
	stationsFetchCmd.Flags().BoolVar(&stationsFetchSnapshot, "snapshot", false, "also save the combined table to the store")
	stationsCmd.AddCommand(stationsFetchCmd)
}
