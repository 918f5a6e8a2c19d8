package config_test

import (
	"testing"

	"github.com/kvasnytska/safetrip/internal/config"
	"github.com/stretchr/testify/assert"
)

func Test_MustLoad(t *testing.T) {
	t.Setenv("SAFETRIP_ENV", "local")
	t.Setenv("SAFETRIP_PORT", "3000")
	t.Setenv("SAFETRIP_HEALTH_PORT", "3001")
	t.Setenv("SAFETRIP_GEOCODER_TYPE", "google")
	t.Setenv("SAFETRIP_GEOCODER_KEY", "testAPIKey")
	t.Setenv("SAFETRIP_SOURCE_TYPE", "simulated")
	t.Setenv("SAFETRIP_MAP_LAT", "50.45")
	t.Setenv("SAFETRIP_MAP_LNG", "30.52")
	t.Setenv("SAFETRIP_MAP_ZOOM", "12")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 3001, cfg.HealthPort)
	assert.Equal(t, "google", cfg.GeocoderType)
	assert.Equal(t, "testAPIKey", cfg.GeocoderKey)
	assert.Equal(t, "simulated", cfg.SourceType)
	assert.InEpsilon(t, 50.45, cfg.MapLatitude, 0.0001)
	assert.InEpsilon(t, 30.52, cfg.MapLongitude, 0.0001)
	assert.Equal(t, 12, cfg.MapZoom)
}

func Test_MustLoadDefaults(t *testing.T) {
	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 9090, cfg.HealthPort)
	assert.Equal(t, "nominatim", cfg.GeocoderType)
	assert.Equal(t, "device", cfg.SourceType)
	assert.Equal(t, 13, cfg.MapZoom)
}

func TestMustLoad_PortError(t *testing.T) {
	t.Setenv("SAFETRIP_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for application server from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_HealthPortError(t *testing.T) {
	t.Setenv("SAFETRIP_HEALTH_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for monitoring server from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_MapCenterError(t *testing.T) {
	t.Setenv("SAFETRIP_MAP_LAT", "error_value")

	assert.PanicsWithValue(t, "failed to parse map center latitude from configuration", func() {
		config.MustLoad()
	})
}
