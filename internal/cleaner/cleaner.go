// Package cleaner converts normalized crash records into typed,
// analysis-ready records: field aliasing, numeric coercion, validity filters.
package cleaner

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/bikesafety-cli/internal/model"
	"github.com/sells-group/bikesafety-cli/internal/normalizer"
)

// aliases maps source field names to canonical names. An alias is applied only
// when the canonical name is absent from the record; canonical values already
// present are never overwritten.
var aliases = map[string]string{
	"crash_date":                    "date",
	"crash_time":                    "time",
	"latitude":                      "lat",
	"longitude":                     "lon",
	"number_of_cyclist_injured":     "cyclists_injured",
	"number_of_cyclist_killed":      "cyclists_killed",
	"zip_code":                      "zip",
	"on_street_name":                "street",
	"cross_street_name":             "cross_street",
	"contributing_factor_vehicle_1": "contributing_factor",
}

// dateLayouts are tried in order when parsing the crash date.
var dateLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// Report captures per-stage record counts and the column inventory so schema
// drift between data-source versions can be diagnosed without failing a run.
type Report struct {
	Input             int      `json:"input"`
	AfterCasualty     int      `json:"after_casualty_filter"`
	AfterCoordinates  int      `json:"after_coordinate_filter"`
	DateParseFailures int      `json:"date_parse_failures"`
	Columns           []string `json:"columns"`
}

// Clean converts normalized records into crash records, applying the fixed
// filter order: first the cyclist-casualty filter, then the coordinate filter.
// Coercion failures mark fields missing rather than failing the batch.
func Clean(records []normalizer.Record) ([]model.CrashRecord, Report) {
	report := Report{Input: len(records)}
	report.Columns = columnInventory(records)

	afterCasualty := make([]model.CrashRecord, 0, len(records))
	for _, rec := range records {
		crash := coerce(applyAliases(rec), &report)
		if crash.TotalCasualties <= 0 {
			continue
		}
		afterCasualty = append(afterCasualty, crash)
	}
	report.AfterCasualty = len(afterCasualty)

	cleaned := afterCasualty[:0:len(afterCasualty)]
	for _, crash := range afterCasualty {
		if !crash.HasCoordinates {
			continue
		}
		cleaned = append(cleaned, crash)
	}
	report.AfterCoordinates = len(cleaned)

	zap.L().Info("cleaner: crash records cleaned",
		zap.Int("input", report.Input),
		zap.Int("with_casualties", report.AfterCasualty),
		zap.Int("with_coordinates", report.AfterCoordinates),
		zap.Int("date_parse_failures", report.DateParseFailures),
	)
	return cleaned, report
}

// applyAliases returns a copy of the record with alias keys resolved to
// canonical names. The input record is not mutated.
func applyAliases(rec normalizer.Record) normalizer.Record {
	out := make(normalizer.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	for alias, canonical := range aliases {
		if _, ok := out[canonical]; ok {
			continue
		}
		if v, ok := out[alias]; ok {
			out[canonical] = v
		}
	}
	return out
}

// coerce builds a typed crash record from a canonical-keyed record. Derived
// casualty totals are computed here, before any filtering.
func coerce(rec normalizer.Record, report *Report) model.CrashRecord {
	crash := model.CrashRecord{
		Date:               stringField(rec, "date"),
		Time:               stringField(rec, "time"),
		Borough:            stringField(rec, "borough"),
		ZIP:                stringField(rec, "zip"),
		Street:             stringField(rec, "street"),
		CrossStreet:        stringField(rec, "cross_street"),
		ContributingFactor: stringField(rec, "contributing_factor"),
	}

	lat, latOK := numericField(rec, "lat")
	lon, lonOK := numericField(rec, "lon")
	if latOK && lonOK {
		crash.Lat = lat
		crash.Lon = lon
		crash.HasCoordinates = true
	}

	// Missing casualty counts coerce to zero and fall to the filter.
	if injured, ok := numericField(rec, "cyclists_injured"); ok {
		crash.CyclistsInjured = int(injured)
	}
	if killed, ok := numericField(rec, "cyclists_killed"); ok {
		crash.CyclistsKilled = int(killed)
	}
	crash.TotalCasualties = crash.CyclistsInjured + crash.CyclistsKilled

	if crash.Date != "" {
		if ts, ok := parseDate(crash.Date); ok {
			crash.OccurredAt = ts
		} else {
			report.DateParseFailures++
		}
	}
	return crash
}

// parseDate attempts the known crash-date layouts. Failure keeps the record.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// numericField reads a field as a float64, tolerating JSON numbers, integers,
// and numeric strings. Anything else is reported missing.
func numericField(rec normalizer.Record, key string) (float64, bool) {
	v, ok := rec[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func stringField(rec normalizer.Record, key string) string {
	if s, ok := rec[key].(string); ok {
		return s
	}
	return ""
}

// columnInventory returns the sorted union of column names present after
// aliasing across all records.
func columnInventory(records []normalizer.Record) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for k := range applyAliases(rec) {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
