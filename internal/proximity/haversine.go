// Package proximity computes great-circle distances from crashes to the
// nearest bike-share station and aggregates distance-band statistics.
package proximity

import "math"

// earthRadiusM is the spherical earth radius used by the haversine formula.
const earthRadiusM = 6371000.0

// Haversine returns the great-circle distance in meters between two points
// given in WGS84 decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)

	return 2 * earthRadiusM * math.Asin(math.Sqrt(a))
}
