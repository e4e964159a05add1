package proximity

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bikesafety-cli/internal/model"
)

// ErrNoValidStations marks the degenerate case of an empty usable station
// set. Annotation is skipped entirely; nothing is computed.
var ErrNoValidStations = eris.New("proximity: no stations with valid coordinates")

// BandRadiiM are the fixed distance-band thresholds, in meters. Bands are
// cumulative: each threshold is counted independently against the full
// nearest distance.
var BandRadiiM = []float64{100, 250, 500}

// Band is one cumulative distance band of the summary.
type Band struct {
	RadiusM float64 `json:"radius_m"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Summary aggregates the nearest-distance statistics of one annotation pass.
type Summary struct {
	Crashes int     `json:"crashes"`
	MeanM   float64 `json:"mean_m"`
	MedianM float64 `json:"median_m"`
	Bands   []Band  `json:"bands"`
}

// Index answers nearest-station queries. Implementations must agree with the
// brute-force scan on the minimum distance, up to floating-point tolerance.
type Index interface {
	// Nearest returns the distance in meters to the closest station.
	Nearest(lat, lon float64) float64
}

// Engine annotates crash records with the distance to the nearest station.
type Engine struct {
	index    Index
	stations int
}

// NewEngine builds an engine over the stations with valid coordinates.
// mode selects the index: "grid" for the cell-bucketed index, anything else
// for the brute-force scan. ErrNoValidStations is returned when no station
// survives the coordinate filter.
func NewEngine(stations []model.Station, mode string) (*Engine, error) {
	valid := make([]model.Station, 0, len(stations))
	for _, s := range stations {
		if s.ValidCoordinates() {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoValidStations
	}

	var index Index
	if mode == "grid" {
		index = newGridIndex(valid)
	} else {
		index = scanIndex(valid)
	}
	zap.L().Debug("proximity: engine ready",
		zap.Int("stations", len(valid)),
		zap.Int("excluded", len(stations)-len(valid)),
		zap.String("index", mode),
	)
	return &Engine{index: index, stations: len(valid)}, nil
}

// Stations returns the number of stations usable for spatial computation.
func (e *Engine) Stations() int { return e.stations }

// Annotate returns a new slice of crash records carrying nearest-station
// distances, together with the aggregate summary. The input slice is not
// mutated. Crashes without coordinates are carried through unannotated.
func (e *Engine) Annotate(crashes []model.CrashRecord) ([]model.CrashRecord, Summary) {
	annotated := make([]model.CrashRecord, len(crashes))
	distances := make([]float64, 0, len(crashes))

	for i, crash := range crashes {
		annotated[i] = crash
		if !crash.HasCoordinates {
			continue
		}
		d := e.index.Nearest(crash.Lat, crash.Lon)
		annotated[i].NearestStationM = d
		annotated[i].HasNearest = true
		distances = append(distances, d)
	}

	return annotated, summarize(distances)
}

// scanIndex is the deliberate O(stations) baseline: iterate every station and
// keep the minimum distance.
type scanIndex []model.Station

func (idx scanIndex) Nearest(lat, lon float64) float64 {
	best := Haversine(lat, lon, idx[0].Lat, idx[0].Lon)
	for _, s := range idx[1:] {
		if d := Haversine(lat, lon, s.Lat, s.Lon); d < best {
			best = d
		}
	}
	return best
}

func summarize(distances []float64) Summary {
	summary := Summary{Crashes: len(distances)}

	bands := make([]Band, len(BandRadiiM))
	for i, radius := range BandRadiiM {
		bands[i] = Band{RadiusM: radius}
	}
	summary.Bands = bands
	if len(distances) == 0 {
		return summary
	}

	var sum float64
	for _, d := range distances {
		sum += d
		for i, radius := range BandRadiiM {
			if d <= radius {
				bands[i].Count++
			}
		}
	}
	for i := range bands {
		bands[i].Percent = float64(bands[i].Count) / float64(len(distances)) * 100
	}
	summary.MeanM = sum / float64(len(distances))
	summary.MedianM = median(distances)
	return summary
}

// median averages the two middle values for even-sized inputs.
func median(distances []float64) float64 {
	sorted := make([]float64, len(distances))
	copy(sorted, distances)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
