package model

import "time"

// CrashRecord is one cyclist-involved crash after cleaning. Lat/Lon are only
// meaningful when HasCoordinates is set; NearestStationM is only meaningful
// when HasNearest is set, which happens after proximity annotation.
type CrashRecord struct {
	Date               string    `json:"date,omitempty"`
	Time               string    `json:"time,omitempty"`
	OccurredAt         time.Time `json:"occurred_at,omitzero"`
	Borough            string    `json:"borough,omitempty"`
	ZIP                string    `json:"zip,omitempty"`
	Street             string    `json:"street,omitempty"`
	CrossStreet        string    `json:"cross_street,omitempty"`
	ContributingFactor string    `json:"contributing_factor,omitempty"`

	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	HasCoordinates bool    `json:"has_coordinates"`

	CyclistsInjured int `json:"cyclists_injured"`
	CyclistsKilled  int `json:"cyclists_killed"`
	TotalCasualties int `json:"total_cyclist_casualties"`

	NearestStationM float64 `json:"distance_to_nearest_station,omitempty"`
	HasNearest      bool    `json:"-"`
}

// Fatal reports whether the crash killed at least one cyclist.
func (c CrashRecord) Fatal() bool {
	return c.CyclistsKilled > 0
}
