package station

import (
	"sort"

	"github.com/sells-group/bikesafety-cli/internal/model"
)

// Extreme names a station together with the measure that made it stand out.
type Extreme struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// RegionCount is the number of stations in one region.
type RegionCount struct {
	RegionID string `json:"region_id"`
	Count    int    `json:"count"`
}

// Analysis holds the network-level statistics of a combined station set.
// ActiveStations counts installed stations; AvgCapacity averages over that
// same set.
type Analysis struct {
	Stations        int     `json:"stations"`
	ActiveStations  int     `json:"active_stations"`
	TotalCapacity   int     `json:"total_capacity"`
	BikesAvailable  int     `json:"bikes_available"`
	EBikesAvailable int     `json:"ebikes_available"`
	DocksAvailable  int     `json:"docks_available"`
	AvgCapacity     float64 `json:"avg_capacity"`

	MostBikes     *Extreme `json:"most_bikes,omitempty"`
	LeastBikes    *Extreme `json:"least_bikes,omitempty"`
	MostUtilized  *Extreme `json:"most_utilized,omitempty"`
	LeastUtilized *Extreme `json:"least_utilized,omitempty"`

	Regions []RegionCount `json:"regions,omitempty"`
}

// Analyze computes network statistics. Active stations and average capacity
// both count installed stations, so the two figures share a denominator;
// extremes consider only stations that are installed and renting.
func Analyze(stations []model.Station) Analysis {
	a := Analysis{Stations: len(stations)}

	installed := 0
	installedCapacity := 0
	regions := make(map[string]int)
	var active []model.Station
	for _, s := range stations {
		a.TotalCapacity += s.Capacity
		a.BikesAvailable += s.BikesAvailable
		a.EBikesAvailable += s.EBikesAvailable
		a.DocksAvailable += s.DocksAvailable
		if s.Installed {
			installed++
			installedCapacity += s.Capacity
		}
		if s.Active() {
			active = append(active, s)
		}
		if s.RegionID != "" {
			regions[s.RegionID]++
		}
	}
	a.ActiveStations = installed
	if installed > 0 {
		a.AvgCapacity = float64(installedCapacity) / float64(installed)
	}

	if len(active) > 0 {
		mostBikes, leastBikes := active[0], active[0]
		mostUtil, leastUtil := active[0], active[0]
		for _, s := range active[1:] {
			if s.BikesAvailable > mostBikes.BikesAvailable {
				mostBikes = s
			}
			if s.BikesAvailable < leastBikes.BikesAvailable {
				leastBikes = s
			}
			if s.Utilization() > mostUtil.Utilization() {
				mostUtil = s
			}
			if s.Utilization() < leastUtil.Utilization() {
				leastUtil = s
			}
		}
		a.MostBikes = &Extreme{Name: displayName(mostBikes), Value: float64(mostBikes.BikesAvailable)}
		a.LeastBikes = &Extreme{Name: displayName(leastBikes), Value: float64(leastBikes.BikesAvailable)}
		a.MostUtilized = &Extreme{Name: displayName(mostUtil), Value: mostUtil.Utilization()}
		a.LeastUtilized = &Extreme{Name: displayName(leastUtil), Value: leastUtil.Utilization()}
	}

	for id, count := range regions {
		a.Regions = append(a.Regions, RegionCount{RegionID: id, Count: count})
	}
	sort.Slice(a.Regions, func(i, j int) bool {
		if a.Regions[i].Count != a.Regions[j].Count {
			return a.Regions[i].Count > a.Regions[j].Count
		}
		return a.Regions[i].RegionID < a.Regions[j].RegionID
	})

	return a
}
