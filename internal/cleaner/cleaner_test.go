package cleaner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/bikesafety-cli/internal/normalizer"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func validCrash() normalizer.Record {
	return normalizer.Record{
		"crash_date":                "2024-06-15T00:00:00.000",
		"crash_time":                "14:30",
		"latitude":                  "40.7128",
		"longitude":                 "-74.0060",
		"number_of_cyclist_injured": "1",
		"number_of_cyclist_killed":  "0",
		"borough":                   "BROOKLYN",
		"on_street_name":            "BEDFORD AVENUE",
	}
}

func TestClean_AliasesAndCoerces(t *testing.T) {
	cleaned, report := Clean([]normalizer.Record{validCrash()})

	require.Len(t, cleaned, 1)
	c := cleaned[0]
	assert.Equal(t, "2024-06-15T00:00:00.000", c.Date)
	assert.Equal(t, "14:30", c.Time)
	assert.Equal(t, "BROOKLYN", c.Borough)
	assert.Equal(t, "BEDFORD AVENUE", c.Street)
	assert.InDelta(t, 40.7128, c.Lat, 1e-9)
	assert.InDelta(t, -74.0060, c.Lon, 1e-9)
	assert.True(t, c.HasCoordinates)
	assert.Equal(t, 1, c.CyclistsInjured)
	assert.Equal(t, 0, c.CyclistsKilled)
	assert.Equal(t, 1, c.TotalCasualties)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), c.OccurredAt)

	assert.Equal(t, 1, report.Input)
	assert.Equal(t, 1, report.AfterCasualty)
	assert.Equal(t, 1, report.AfterCoordinates)
	assert.Zero(t, report.DateParseFailures)
}

func TestClean_AliasNeverOverwritesCanonical(t *testing.T) {
	rec := validCrash()
	rec["lat"] = 41.0
	rec["latitude"] = 99.9

	cleaned, _ := Clean([]normalizer.Record{rec})
	require.Len(t, cleaned, 1)
	assert.InDelta(t, 41.0, cleaned[0].Lat, 1e-9)
}

func TestClean_CasualtyFilter(t *testing.T) {
	tests := []struct {
		name    string
		injured any
		killed  any
		kept    bool
	}{
		{name: "injured only", injured: "2", killed: "0", kept: true},
		{name: "killed only", injured: "0", killed: "1", kept: true},
		{name: "both zero", injured: "0", killed: "0", kept: false},
		{name: "both missing", injured: nil, killed: nil, kept: false},
		{name: "unparseable counts", injured: "n/a", killed: "??", kept: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validCrash()
			delete(rec, "number_of_cyclist_injured")
			delete(rec, "number_of_cyclist_killed")
			if tt.injured != nil {
				rec["number_of_cyclist_injured"] = tt.injured
			}
			if tt.killed != nil {
				rec["number_of_cyclist_killed"] = tt.killed
			}

			cleaned, _ := Clean([]normalizer.Record{rec})
			if tt.kept {
				require.Len(t, cleaned, 1)
				assert.Positive(t, cleaned[0].TotalCasualties)
			} else {
				assert.Empty(t, cleaned)
			}
		})
	}
}

func TestClean_EveryRetainedRecordHasCasualties(t *testing.T) {
	records := []normalizer.Record{
		validCrash(),
		{"latitude": 40.7, "longitude": -74.0, "number_of_cyclist_injured": 0.0, "number_of_cyclist_killed": 0.0},
		{"latitude": 40.8, "longitude": -73.9, "number_of_cyclist_injured": 3.0, "number_of_cyclist_killed": 1.0},
	}

	cleaned, _ := Clean(records)
	for _, c := range cleaned {
		assert.Positive(t, c.CyclistsInjured+c.CyclistsKilled)
	}
	assert.Len(t, cleaned, 2)
}

func TestClean_DropsMissingCoordinates(t *testing.T) {
	tests := []struct {
		name string
		lat  any
		lon  any
	}{
		{name: "no coordinates at all", lat: nil, lon: nil},
		{name: "lat only", lat: "40.7", lon: nil},
		{name: "unparseable lon", lat: "40.7", lon: "null island"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validCrash()
			delete(rec, "latitude")
			delete(rec, "longitude")
			if tt.lat != nil {
				rec["latitude"] = tt.lat
			}
			if tt.lon != nil {
				rec["longitude"] = tt.lon
			}

			cleaned, report := Clean([]normalizer.Record{rec})
			assert.Empty(t, cleaned)
			// Casualty filter passes first, the coordinate filter drops it.
			assert.Equal(t, 1, report.AfterCasualty)
			assert.Zero(t, report.AfterCoordinates)
		})
	}
}

func TestClean_DateParseFailureKeepsRecord(t *testing.T) {
	rec := validCrash()
	rec["crash_date"] = "not a date"

	cleaned, report := Clean([]normalizer.Record{rec})
	require.Len(t, cleaned, 1)
	assert.True(t, cleaned[0].OccurredAt.IsZero())
	assert.Equal(t, 1, report.DateParseFailures)
}

func TestClean_DateLayouts(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{raw: "2024-06-15T14:30:00", want: time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)},
		{raw: "2024-06-15", want: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{raw: "06/15/2024", want: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			rec := validCrash()
			rec["crash_date"] = tt.raw
			cleaned, _ := Clean([]normalizer.Record{rec})
			require.Len(t, cleaned, 1)
			assert.Equal(t, tt.want, cleaned[0].OccurredAt)
		})
	}
}

func TestClean_NumericTypesAccepted(t *testing.T) {
	rec := normalizer.Record{
		"latitude":                  40.7,
		"longitude":                 -74.0,
		"number_of_cyclist_injured": 2.0,
		"number_of_cyclist_killed":  " 1 ",
	}

	cleaned, _ := Clean([]normalizer.Record{rec})
	require.Len(t, cleaned, 1)
	assert.Equal(t, 2, cleaned[0].CyclistsInjured)
	assert.Equal(t, 1, cleaned[0].CyclistsKilled)
	assert.Equal(t, 3, cleaned[0].TotalCasualties)
}

func TestClean_ColumnInventory(t *testing.T) {
	_, report := Clean([]normalizer.Record{validCrash()})

	assert.Contains(t, report.Columns, "lat")
	assert.Contains(t, report.Columns, "lon")
	assert.Contains(t, report.Columns, "cyclists_injured")
	assert.Contains(t, report.Columns, "date")
	// The alias source columns survive alongside the canonical names.
	assert.Contains(t, report.Columns, "latitude")
	assert.IsIncreasing(t, report.Columns)
}
