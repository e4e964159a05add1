// Package model defines the typed records flowing through the analysis pipeline.
package model

// Station is one bike-share station after the information and status feeds
// have been joined. Instances are immutable once the join produces them.
type Station struct {
	ID              string  `json:"station_id"`
	Name            string  `json:"name"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	HasCoordinates  bool    `json:"has_coordinates"`
	Capacity        int     `json:"capacity"`
	BikesAvailable  int     `json:"num_bikes_available"`
	EBikesAvailable int     `json:"num_ebikes_available"`
	DocksAvailable  int     `json:"num_docks_available"`
	Installed       bool    `json:"is_installed"`
	Renting         bool    `json:"is_renting"`
	RegionID        string  `json:"region_id,omitempty"`
}

// ValidCoordinates reports whether the station carries coordinates usable for
// spatial computation: present and within the WGS84 range.
func (s Station) ValidCoordinates() bool {
	return s.HasCoordinates &&
		s.Lat >= -90 && s.Lat <= 90 &&
		s.Lon >= -180 && s.Lon <= 180
}

// Active reports whether the station is installed and renting.
func (s Station) Active() bool {
	return s.Installed && s.Renting
}

// Utilization returns the bikes-available to capacity ratio, 0 when the
// station has no capacity.
func (s Station) Utilization() float64 {
	if s.Capacity <= 0 {
		return 0
	}
	return float64(s.BikesAvailable) / float64(s.Capacity)
}
