package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/bikesafety-cli/internal/cleaner"
	"github.com/sells-group/bikesafety-cli/internal/fetcher"
	"github.com/sells-group/bikesafety-cli/internal/model"
	"github.com/sells-group/bikesafety-cli/internal/normalizer"
	"github.com/sells-group/bikesafety-cli/internal/station"
	"github.com/sells-group/bikesafety-cli/internal/store"
)

// out prints report lines with grouped digits (12,345 rather than 12345).
var out = message.NewPrinter(language.English)

func newFetcher() *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  cfg.Fetch.UserAgent,
		Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Fetch.MaxRetries,
	})
}

func openStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		st, err = store.NewSQLite(cfg.Store.Path)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// loadStations reads the combined station file through the schema normalizer,
// so both this tool's output format and hand-assembled files load.
func loadStations(path string) ([]model.Station, error) {
	doc, err := fetcher.ReadDocument(path)
	if err != nil {
		return nil, err
	}
	records, err := normalizer.Normalize(doc)
	if err != nil {
		return nil, eris.Wrapf(err, "stations from %s", path)
	}
	return station.FromRecords(records), nil
}

// loadCleanedCrashes reads the crash file, normalizes it, and runs the
// cleaning pipeline.
func loadCleanedCrashes(path string) ([]model.CrashRecord, cleaner.Report, error) {
	doc, err := fetcher.ReadDocument(path)
	if err != nil {
		return nil, cleaner.Report{}, err
	}
	records, err := normalizer.Normalize(doc)
	if err != nil {
		return nil, cleaner.Report{}, eris.Wrapf(err, "crashes from %s", path)
	}
	cleaned, report := cleaner.Clean(records)
	return cleaned, report, nil
}

func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal output")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	return nil
}
