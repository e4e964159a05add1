package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://gbfs.citibikenyc.com/gbfs/en/station_information.json", cfg.Feeds.StationInformationURL)
	assert.Equal(t, "https://gbfs.citibikenyc.com/gbfs/en/station_status.json", cfg.Feeds.StationStatusURL)
	assert.Equal(t, 30, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, "citibike_combined_data.json", cfg.Data.CombinedStationsFile)
	assert.Equal(t, "scan", cfg.Proximity.Index)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "bikesafety.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	yaml := `
proximity:
  index: grid
store:
  driver: postgres
  database_url: postgres://localhost/bikesafety
fetch:
  timeout_secs: 10
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "grid", cfg.Proximity.Index)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/bikesafety", cfg.Store.DatabaseURL)
	assert.Equal(t, 10, cfg.Fetch.TimeoutSecs)
	// Unset keys keep their defaults.
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BIKESAFETY_PROXIMITY_INDEX", "grid")
	t.Setenv("BIKESAFETY_STORE_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "grid", cfg.Proximity.Index)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("config.yaml", []byte("feeds: ["), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "noisy", Format: "console"})
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "json"}))
}
