package station

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bikesafety-cli/internal/model"
)

func TestAnalyze_Empty(t *testing.T) {
	a := Analyze(nil)
	assert.Zero(t, a.Stations)
	assert.Zero(t, a.AvgCapacity)
	assert.Nil(t, a.MostBikes)
	assert.Nil(t, a.Regions)
}

func TestAnalyze_Totals(t *testing.T) {
	stations := []model.Station{
		{ID: "a", Name: "A", Capacity: 20, BikesAvailable: 10, EBikesAvailable: 2, DocksAvailable: 10, Installed: true, Renting: true, RegionID: "71"},
		{ID: "b", Name: "B", Capacity: 40, BikesAvailable: 4, EBikesAvailable: 1, DocksAvailable: 36, Installed: true, Renting: true, RegionID: "71"},
		{ID: "c", Name: "C", Capacity: 30, BikesAvailable: 30, Installed: true, Renting: false, RegionID: "70"},
		{ID: "d", Name: "D", Capacity: 10, BikesAvailable: 1, Installed: false, Renting: false},
	}

	a := Analyze(stations)

	assert.Equal(t, 4, a.Stations)
	// Active stations and average capacity count the same installed set:
	// station c is installed but not renting and still belongs to both, while
	// station d's capacity stays out of the average entirely.
	assert.Equal(t, 3, a.ActiveStations)
	assert.Equal(t, 100, a.TotalCapacity)
	assert.Equal(t, 45, a.BikesAvailable)
	assert.Equal(t, 3, a.EBikesAvailable)
	assert.Equal(t, 46, a.DocksAvailable)
	assert.InDelta(t, 30.0, a.AvgCapacity, 1e-9)
}

func TestAnalyze_ExtremesConsiderOnlyActiveStations(t *testing.T) {
	stations := []model.Station{
		{ID: "a", Name: "A", Capacity: 20, BikesAvailable: 10, Installed: true, Renting: true},
		{ID: "b", Name: "B", Capacity: 40, BikesAvailable: 4, Installed: true, Renting: true},
		// Largest count of all, but not renting.
		{ID: "c", Name: "C", Capacity: 30, BikesAvailable: 30, Installed: true, Renting: false},
	}

	a := Analyze(stations)

	require.NotNil(t, a.MostBikes)
	assert.Equal(t, "A", a.MostBikes.Name)
	assert.InDelta(t, 10, a.MostBikes.Value, 1e-9)
	require.NotNil(t, a.LeastBikes)
	assert.Equal(t, "B", a.LeastBikes.Name)
	require.NotNil(t, a.MostUtilized)
	assert.Equal(t, "A", a.MostUtilized.Name)
	assert.InDelta(t, 0.5, a.MostUtilized.Value, 1e-9)
	require.NotNil(t, a.LeastUtilized)
	assert.Equal(t, "B", a.LeastUtilized.Name)
}

func TestAnalyze_UnnamedStationFallsBackToID(t *testing.T) {
	a := Analyze([]model.Station{
		{ID: "100", Capacity: 10, BikesAvailable: 5, Installed: true, Renting: true},
	})
	require.NotNil(t, a.MostBikes)
	assert.Equal(t, "station 100", a.MostBikes.Name)
}

func TestAnalyze_RegionsSortedByCount(t *testing.T) {
	stations := []model.Station{
		{ID: "a", RegionID: "70"},
		{ID: "b", RegionID: "71"},
		{ID: "c", RegionID: "71"},
		{ID: "d"},
	}

	a := Analyze(stations)

	require.Len(t, a.Regions, 2)
	assert.Equal(t, RegionCount{RegionID: "71", Count: 2}, a.Regions[0])
	assert.Equal(t, RegionCount{RegionID: "70", Count: 1}, a.Regions[1])
}

func TestUtilization_ZeroCapacity(t *testing.T) {
	s := model.Station{BikesAvailable: 5}
	assert.Zero(t, s.Utilization())
}
