package export

import (
	"encoding/json"
	"html/template"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/bikesafety-cli/internal/model"
)

// mapTemplate renders a self-contained Leaflet page plotting stations and
// crashes. Severity drives crash marker color, capacity drives station size.
var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Bike Safety Analysis</title>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <link rel="stylesheet" href="https://unpkg.com/leaflet@1.7.1/dist/leaflet.css" />
    <script src="https://unpkg.com/leaflet@1.7.1/dist/leaflet.js"></script>
    <style>
        body { margin: 0; padding: 0; font-family: Arial, sans-serif; }
        #map { height: 100vh; width: 100%; }
        .info-panel {
            padding: 6px 8px;
            font: 14px/16px Arial, sans-serif;
            background: rgba(255,255,255,0.8);
            box-shadow: 0 0 15px rgba(0,0,0,0.2);
            border-radius: 5px;
        }
        .info-panel h4 { margin: 0 0 5px; color: #777; }
        .legend { line-height: 18px; color: #555; }
        .legend i {
            width: 18px;
            height: 18px;
            float: left;
            margin-right: 8px;
            opacity: 0.7;
        }
    </style>
</head>
<body>
    <div id="map"></div>
    <script>
        var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], 12);

        L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
            attribution: '&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors'
        }).addTo(map);

        var stations = {{.Stations}};
        var crashes = {{.Crashes}};

        stations.forEach(function(s) {
            L.circleMarker([s.lat, s.lon], {
                radius: Math.min(12, Math.max(4, s.capacity / 5)),
                fillColor: '#3388ff',
                color: '#3388ff',
                weight: 1,
                fillOpacity: 0.6
            }).addTo(map).bindPopup(
                '<b>' + s.name + '</b><br>' +
                'Bikes: ' + s.bikes + ' (' + s.ebikes + ' electric)<br>' +
                'Docks: ' + s.docks + '<br>' +
                'Capacity: ' + s.capacity
            );
        });

        crashes.forEach(function(c) {
            var color = c.killed > 0 ? '#ff0000' : (c.total > 1 ? '#ff6600' : '#ffcc00');
            var marker = L.circleMarker([c.lat, c.lon], {
                radius: 5 + c.total * 2,
                fillColor: color,
                color: '#000',
                weight: 1,
                fillOpacity: 0.8
            }).addTo(map);

            var popup = '<b>Cyclist Crash</b><br>' +
                'Injured: ' + c.injured + '<br>' +
                'Killed: ' + c.killed + '<br>';
            if (c.date) popup += 'Date: ' + c.date + '<br>';
            if (c.borough) popup += 'Borough: ' + c.borough + '<br>';
            if (c.factor) popup += 'Factor: ' + c.factor + '<br>';
            if (c.nearest != null) popup += 'Nearest station: ' + c.nearest.toFixed(0) + ' m';
            marker.bindPopup(popup);
        });

        var legend = L.control({position: 'bottomright'});
        legend.onAdd = function() {
            var div = L.DomUtil.create('div', 'info-panel legend');
            div.innerHTML =
                '<h4>Crash Severity</h4>' +
                '<i style="background:#ff0000"></i> Fatal crash<br>' +
                '<i style="background:#ff6600"></i> Multiple injuries<br>' +
                '<i style="background:#ffcc00"></i> Single injury<br>' +
                '<i style="background:#3388ff"></i> Bike-share station';
            return div;
        };
        legend.addTo(map);
    </script>
</body>
</html>
`))

type mapStation struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Bikes    int     `json:"bikes"`
	EBikes   int     `json:"ebikes"`
	Docks    int     `json:"docks"`
	Capacity int     `json:"capacity"`
}

type mapCrash struct {
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
	Injured int      `json:"injured"`
	Killed  int      `json:"killed"`
	Total   int      `json:"total"`
	Date    string   `json:"date,omitempty"`
	Borough string   `json:"borough,omitempty"`
	Factor  string   `json:"factor,omitempty"`
	Nearest *float64 `json:"nearest"`
}

type mapData struct {
	CenterLat float64
	CenterLon float64
	Stations  template.JS
	Crashes   template.JS
}

// WriteMap renders the interactive map to an HTML file. The view centers on
// the mean station coordinate; with no stations it falls back to the mean
// crash coordinate.
func WriteMap(stations []model.Station, crashes []model.CrashRecord, path string) error {
	// Empty slices still marshal to [] so the page scripts always see arrays.
	ms := make([]mapStation, 0, len(stations))
	for _, s := range stations {
		if !s.ValidCoordinates() {
			continue
		}
		ms = append(ms, mapStation{
			Name:     s.Name,
			Lat:      s.Lat,
			Lon:      s.Lon,
			Bikes:    s.BikesAvailable,
			EBikes:   s.EBikesAvailable,
			Docks:    s.DocksAvailable,
			Capacity: s.Capacity,
		})
	}

	mc := make([]mapCrash, 0, len(crashes))
	for _, c := range crashes {
		if !c.HasCoordinates {
			continue
		}
		crash := mapCrash{
			Lat:     c.Lat,
			Lon:     c.Lon,
			Injured: c.CyclistsInjured,
			Killed:  c.CyclistsKilled,
			Total:   c.TotalCasualties,
			Date:    c.Date,
			Borough: c.Borough,
			Factor:  c.ContributingFactor,
		}
		if c.HasNearest {
			d := c.NearestStationM
			crash.Nearest = &d
		}
		mc = append(mc, crash)
	}

	centerLat, centerLon := center(ms, mc)

	stationJSON, err := json.Marshal(ms)
	if err != nil {
		return eris.Wrap(err, "export: marshal map stations")
	}
	crashJSON, err := json.Marshal(mc)
	if err != nil {
		return eris.Wrap(err, "export: marshal map crashes")
	}

	file, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer file.Close() //nolint:errcheck

	data := mapData{
		CenterLat: centerLat,
		CenterLon: centerLon,
		Stations:  template.JS(stationJSON),
		Crashes:   template.JS(crashJSON),
	}
	if err := mapTemplate.Execute(file, data); err != nil {
		return eris.Wrap(err, "export: render map")
	}
	return nil
}

func center(stations []mapStation, crashes []mapCrash) (float64, float64) {
	if len(stations) > 0 {
		var lat, lon float64
		for _, s := range stations {
			lat += s.Lat
			lon += s.Lon
		}
		return lat / float64(len(stations)), lon / float64(len(stations))
	}
	if len(crashes) > 0 {
		var lat, lon float64
		for _, c := range crashes {
			lat += c.Lat
			lon += c.Lon
		}
		return lat / float64(len(crashes)), lon / float64(len(crashes))
	}
	return 40.75, -73.98
}
