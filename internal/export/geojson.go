// Package export renders cleaned and annotated datasets for downstream
// consumers: GeoJSON, XLSX, and the interactive Leaflet map.
package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/bikesafety-cli/internal/model"
)

// StationFeatures builds a GeoJSON FeatureCollection from stations with valid
// coordinates.
func StationFeatures(stations []model.Station) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{}
	for _, s := range stations {
		if !s.ValidCoordinates() {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       s.ID,
			Geometry: geom.NewPointFlat(geom.XY, []float64{s.Lon, s.Lat}),
			Properties: map[string]any{
				"name":                 s.Name,
				"capacity":             s.Capacity,
				"num_bikes_available":  s.BikesAvailable,
				"num_ebikes_available": s.EBikesAvailable,
				"num_docks_available":  s.DocksAvailable,
				"active":               s.Active(),
				"utilization":          s.Utilization(),
			},
		})
	}
	return fc
}

// CrashFeatures builds a GeoJSON FeatureCollection from crash records. The
// nearest-station distance is included only when annotation has run.
func CrashFeatures(crashes []model.CrashRecord) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{}
	for i, c := range crashes {
		if !c.HasCoordinates {
			continue
		}
		props := map[string]any{
			"cyclists_injured":         c.CyclistsInjured,
			"cyclists_killed":          c.CyclistsKilled,
			"total_cyclist_casualties": c.TotalCasualties,
		}
		if c.Date != "" {
			props["date"] = c.Date
		}
		if c.Borough != "" {
			props["borough"] = c.Borough
		}
		if c.ContributingFactor != "" {
			props["contributing_factor"] = c.ContributingFactor
		}
		if c.HasNearest {
			props["distance_to_nearest_station"] = c.NearestStationM
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         fmt.Sprintf("crash-%d", i),
			Geometry:   geom.NewPointFlat(geom.XY, []float64{c.Lon, c.Lat}),
			Properties: props,
		})
	}
	return fc
}

// WriteGeoJSON marshals a FeatureCollection to the given path.
func WriteGeoJSON(fc *geojson.FeatureCollection, path string) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal geojson")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}
