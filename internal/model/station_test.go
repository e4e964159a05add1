package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStation_ValidCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		station Station
		want    bool
	}{
		{name: "valid", station: Station{Lat: 40.7, Lon: -74.0, HasCoordinates: true}, want: true},
		{name: "flag unset", station: Station{Lat: 40.7, Lon: -74.0}, want: false},
		{name: "lat out of range", station: Station{Lat: 91, Lon: 0, HasCoordinates: true}, want: false},
		{name: "lon out of range", station: Station{Lat: 0, Lon: -181, HasCoordinates: true}, want: false},
		{name: "boundary", station: Station{Lat: -90, Lon: 180, HasCoordinates: true}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.station.ValidCoordinates())
		})
	}
}

func TestStation_Active(t *testing.T) {
	assert.True(t, Station{Installed: true, Renting: true}.Active())
	assert.False(t, Station{Installed: true}.Active())
	assert.False(t, Station{Renting: true}.Active())
}

func TestStation_Utilization(t *testing.T) {
	assert.InDelta(t, 0.25, Station{Capacity: 20, BikesAvailable: 5}.Utilization(), 1e-9)
	assert.Zero(t, Station{BikesAvailable: 5}.Utilization())
	assert.Zero(t, Station{Capacity: -1, BikesAvailable: 5}.Utilization())
}

func TestCrashRecord_Fatal(t *testing.T) {
	assert.True(t, CrashRecord{CyclistsKilled: 1}.Fatal())
	assert.False(t, CrashRecord{CyclistsInjured: 3}.Fatal())
}
