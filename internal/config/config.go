package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the SafeTrip service.
// It includes the environment, server ports, the geocoder used to enrich
// SOS alerts, the location source driving the user marker, and the map
// defaults applied before the first position fix arrives.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port of the application server (UI, API, websocket).
// - HealthPort: The port of the monitoring server (healthz, metrics).
// - GeocoderType: Reverse-geocoding provider for SOS alerts (google, nominatim, off).
// - GeocoderKey: The API key for the geocoding provider (required for Google).
// - SourceType: The location source to run (simulated, device).
// - ShareBaseURL: Base URL used to build trip share links.
// - MapCenter: Fallback map center used until a position fix arrives.
// - MapZoom: Initial map zoom level.
type Config struct {
	Env          string // Env is the current environment: local, development, production.
	Port         int    // Port is the application server port.
	HealthPort   int    // HealthPort is the monitoring server port.
	GeocoderType string // GeocoderType specifies which reverse-geocoding provider to use.
	GeocoderKey  string // The API key for accessing external geocoding services.
	SourceType   string // SourceType specifies which location source to run.
	ShareBaseURL string // Base URL for trip share links embedded in notifications.
	MapLatitude  float64
	MapLongitude float64
	MapZoom      int
}

// MustLoad loads the configuration from the environment and returns a Config struct.
func MustLoad() *Config {
	_ = godotenv.Load()

	port, err := strconv.Atoi(setDefaultEnv("SAFETRIP_PORT", "8080"))
	if err != nil {
		panic("failed to parse port for application server from configuration")
	}

	healthPort, err := strconv.Atoi(setDefaultEnv("SAFETRIP_HEALTH_PORT", "9090"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	mapLat, err := strconv.ParseFloat(setDefaultEnv("SAFETRIP_MAP_LAT", "0"), 64)
	if err != nil {
		panic("failed to parse map center latitude from configuration")
	}

	mapLng, err := strconv.ParseFloat(setDefaultEnv("SAFETRIP_MAP_LNG", "0"), 64)
	if err != nil {
		panic("failed to parse map center longitude from configuration")
	}

	mapZoom, err := strconv.Atoi(setDefaultEnv("SAFETRIP_MAP_ZOOM", "13"))
	if err != nil {
		panic("failed to parse map zoom from configuration, must be an integer")
	}

	return &Config{
		Env:          setDefaultEnv("SAFETRIP_ENV", "production"),
		Port:         port,
		HealthPort:   healthPort,
		GeocoderType: setDefaultEnv("SAFETRIP_GEOCODER_TYPE", "nominatim"),
		GeocoderKey:  os.Getenv("SAFETRIP_GEOCODER_KEY"),
		SourceType:   setDefaultEnv("SAFETRIP_SOURCE_TYPE", "device"),
		ShareBaseURL: setDefaultEnv("SAFETRIP_SHARE_BASE_URL", "http://localhost:8080/trip"),
		MapLatitude:  mapLat,
		MapLongitude: mapLng,
		MapZoom:      mapZoom,
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
