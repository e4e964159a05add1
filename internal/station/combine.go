// Package station joins the GBFS information and status feeds into combined
// station records and computes network-level statistics over them.
package station

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/bikesafety-cli/internal/model"
	"github.com/sells-group/bikesafety-cli/internal/normalizer"
)

// Combine inner-joins the information and status feeds on station_id. The
// information feed supplies the static attributes, the status feed the live
// counts; identifiers present in only one feed produce no output record.
// Output order follows the status feed.
func Combine(info, status []normalizer.Record) []model.Station {
	byID := make(map[string]normalizer.Record, len(info))
	for _, rec := range info {
		if id, ok := stationID(rec); ok {
			byID[id] = rec
		}
	}

	combined := make([]model.Station, 0, len(status))
	for _, st := range status {
		id, ok := stationID(st)
		if !ok {
			continue
		}
		inf, ok := byID[id]
		if !ok {
			continue
		}
		combined = append(combined, buildStation(id, inf, st))
	}

	zap.L().Info("station: feeds combined",
		zap.Int("information", len(info)),
		zap.Int("status", len(status)),
		zap.Int("combined", len(combined)),
	)
	return combined
}

// FromRecords maps already-combined records, each carrying both the static
// attributes and the live counts, into typed stations. This is the load path
// for a previously written combined file.
func FromRecords(records []normalizer.Record) []model.Station {
	stations := make([]model.Station, 0, len(records))
	for _, rec := range records {
		id, ok := stationID(rec)
		if !ok {
			continue
		}
		stations = append(stations, buildStation(id, rec, rec))
	}
	return stations
}

func buildStation(id string, info, status normalizer.Record) model.Station {
	s := model.Station{
		ID:       id,
		Name:     stringValue(info["name"]),
		RegionID: stringValue(info["region_id"]),
	}

	lat, latOK := floatValue(info["lat"])
	lon, lonOK := floatValue(info["lon"])
	if latOK && lonOK {
		s.Lat = lat
		s.Lon = lon
		s.HasCoordinates = true
	}
	// Round-tripped combined files carry the coordinate flag explicitly.
	if hc, ok := info["has_coordinates"].(bool); ok {
		s.HasCoordinates = s.HasCoordinates && hc
	}

	s.Capacity = intValue(info["capacity"])
	s.BikesAvailable = intValue(status["num_bikes_available"])
	s.EBikesAvailable = intValue(status["num_ebikes_available"])
	s.DocksAvailable = intValue(status["num_docks_available"])

	// A missing flag means the station operates normally.
	s.Installed = flagValue(status["is_installed"], true)
	s.Renting = flagValue(status["is_renting"], true)
	return s
}

func stationID(rec normalizer.Record) (string, bool) {
	switch id := rec["station_id"].(type) {
	case string:
		return id, id != ""
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	default:
		return "", false
	}
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func floatValue(v any) (float64, bool) {
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

func intValue(v any) int {
	f, ok := floatValue(v)
	if !ok || f < 0 {
		return 0
	}
	return int(f)
}

// flagValue reads a GBFS boolean, which appears as a real bool or as 0/1.
func flagValue(v any, missing bool) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case nil:
		return missing
	default:
		return missing
	}
}

// Names are occasionally absent from the information feed.
func displayName(s model.Station) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("station %s", s.ID)
}
