package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bikesafety-cli/internal/fetcher"
	"github.com/sells-group/bikesafety-cli/internal/normalizer"
	"github.com/sells-group/bikesafety-cli/internal/store"
)

var (
	crashesFetchURL      string
	crashesFetchSnapshot bool
)

var crashesFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the crash feed and save it locally",
	Long:  "Downloads the crash dataset from the configured API URL. When the fetch fails and a local crash file exists, that file is used instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := crashesFetchURL
		if url == "" {
			url = cfg.Feeds.CrashURL
		}
		if url == "" {
			return eris.New("no crash feed URL configured (set feeds.crash_url or --url)")
		}

		doc, err := fetcher.FetchDocumentWithFallback(cmd.Context(), newFetcher(), url, cfg.Data.CrashFile)
		if err != nil {
			return err
		}

		// Validate the shape before saving so a bad download is caught here.
		records, err := normalizer.Normalize(doc)
		if err != nil {
			return eris.Wrap(err, "crash feed")
		}

		if err := writeJSON(doc, cfg.Data.CrashFile); err != nil {
			return err
		}
		out.Printf("Saved %d crash records to %s\n", len(records), cfg.Data.CrashFile)

		if crashesFetchSnapshot {
			if err := snapshotCrashes(cmd, records); err != nil {
				return err
			}
		}
		return nil
	},
}

func snapshotCrashes(cmd *cobra.Command, records []normalizer.Record) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	payload, err := json.Marshal(records)
	if err != nil {
		return eris.Wrap(err, "marshal crash snapshot")
	}
	snap, err := st.SaveSnapshot(cmd.Context(), store.SnapshotCrashes, len(records), payload)
	if err != nil {
		return err
	}
	zap.L().Info("crashes: snapshot saved", zap.String("id", snap.ID), zap.Int("records", snap.RecordCount))
	return nil
}

func init() {
	crashesFetchCmd.Flags().StringVar(&crashesFetchURL, "url", "", "crash feed URL (overrides config)")
	crashesFetchCmd.Flags().BoolVar(&crashesFetchSnapshot, "snapshot", false, "also save the normalized records to the store")
	crashesCmd.AddCommand(crashesFetchCmd)
}
