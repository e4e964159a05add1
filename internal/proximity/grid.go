package proximity

import (
	"math"

	"github.com/sells-group/bikesafety-cli/internal/model"
)

// gridCellDeg is the bucket edge length in degrees, roughly 550 m of
// latitude. Small enough that city-scale queries touch a handful of cells.
const gridCellDeg = 0.005

type cellKey struct {
	row, col int
}

// gridIndex buckets stations into fixed-size lat/lon cells and answers
// nearest-station queries by scanning expanding Chebyshev rings of cells
// around the query point. It returns exactly the same minimum distance as the
// brute-force scan: the ring loop only stops once the lower bound on any
// unvisited ring exceeds the best distance found.
type gridIndex struct {
	cells          map[cellKey][]model.Station
	stations       []model.Station
	minRow, maxRow int
	minCol, maxCol int
	minLon, maxLon float64
	maxAbsLat      float64
}

// newGridIndex builds the index. Station sets spanning the antimeridian fall
// back to the brute-force scan, where the ring lower bound does not hold.
func newGridIndex(stations []model.Station) Index {
	minLon, maxLon := stations[0].Lon, stations[0].Lon
	for _, s := range stations {
		minLon = math.Min(minLon, s.Lon)
		maxLon = math.Max(maxLon, s.Lon)
	}
	if maxLon-minLon > 180 {
		return scanIndex(stations)
	}

	g := &gridIndex{
		cells:    make(map[cellKey][]model.Station),
		stations: stations,
		minLon:   minLon,
		maxLon:   maxLon,
	}
	for i, s := range stations {
		key := cellOf(s.Lat, s.Lon)
		g.cells[key] = append(g.cells[key], s)
		if i == 0 {
			g.minRow, g.maxRow = key.row, key.row
			g.minCol, g.maxCol = key.col, key.col
		} else {
			g.minRow = min(g.minRow, key.row)
			g.maxRow = max(g.maxRow, key.row)
			g.minCol = min(g.minCol, key.col)
			g.maxCol = max(g.maxCol, key.col)
		}
		g.maxAbsLat = math.Max(g.maxAbsLat, math.Abs(s.Lat))
	}
	return g
}

func cellOf(lat, lon float64) cellKey {
	return cellKey{
		row: int(math.Floor(lat / gridCellDeg)),
		col: int(math.Floor(lon / gridCellDeg)),
	}
}

func (g *gridIndex) Nearest(lat, lon float64) float64 {
	// The ring bound reads longitude cell offsets as angular separation,
	// which only holds while every station is within 180 degrees of the
	// query; past the wrap point the true separation shrinks as the cell
	// offset grows. Such queries take the plain scan.
	if math.Abs(lon-g.minLon) > 180 || math.Abs(lon-g.maxLon) > 180 {
		return scanIndex(g.stations).Nearest(lat, lon)
	}

	origin := cellOf(lat, lon)

	// Any station sits within this many rings of the origin cell.
	maxRing := max(
		abs(origin.row-g.minRow), abs(g.maxRow-origin.row),
		abs(origin.col-g.minCol), abs(g.maxCol-origin.col),
	)

	// A station in ring k differs from the query by at least (k-1) cells of
	// latitude or longitude. Latitude degrees map to a fixed arc; longitude
	// degrees shrink with cos(lat), and asin is bounded below linearly, which
	// gives a conservative meters-per-degree floor for the ring bound.
	minCos := math.Cos(math.Max(g.maxAbsLat, math.Abs(lat)) * math.Pi / 180)
	metersPerDeg := math.Pi / 180 * earthRadiusM * math.Min(1, 2*minCos/math.Pi)

	best := math.Inf(1)
	for k := 0; k <= maxRing; k++ {
		if !math.IsInf(best, 1) && metersPerDeg > 0 {
			if lowerBound := float64(k-1) * gridCellDeg * metersPerDeg; lowerBound > best {
				break
			}
		}
		for _, key := range ring(origin, k) {
			for _, s := range g.cells[key] {
				if d := Haversine(lat, lon, s.Lat, s.Lon); d < best {
					best = d
				}
			}
		}
	}
	return best
}

// ring enumerates the cells at exactly Chebyshev distance k from the origin.
func ring(origin cellKey, k int) []cellKey {
	if k == 0 {
		return []cellKey{origin}
	}
	keys := make([]cellKey, 0, 8*k)
	for col := origin.col - k; col <= origin.col+k; col++ {
		keys = append(keys,
			cellKey{origin.row - k, col},
			cellKey{origin.row + k, col},
		)
	}
	for row := origin.row - k + 1; row <= origin.row+k-1; row++ {
		keys = append(keys,
			cellKey{row, origin.col - k},
			cellKey{row, origin.col + k},
		)
	}
	return keys
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
