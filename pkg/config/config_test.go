package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Directory.RosterRowCap != 250 {
		t.Errorf("RosterRowCap = %d, want 250", cfg.Directory.RosterRowCap)
	}
	if cfg.Directory.SeatElement != "rect" {
		t.Errorf("SeatElement = %q", cfg.Directory.SeatElement)
	}
	if cfg.FloorMaps.FetchTimeout != 15*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FloorMaps.FetchTimeout)
	}
	if !cfg.FloorMaps.Prefetch || cfg.FloorMaps.WarmInterval != 5*time.Minute {
		t.Errorf("Prefetch = %v, WarmInterval = %v", cfg.FloorMaps.Prefetch, cfg.FloorMaps.WarmInterval)
	}
	if cfg.Database.ConnectTimeout != 30*time.Second {
		t.Errorf("ConnectTimeout = %v", cfg.Database.ConnectTimeout)
	}
	if cfg.App.CorsOrigins != "*" {
		t.Errorf("CorsOrigins = %q", cfg.App.CorsOrigins)
	}
	if cfg.Directory.RosterRefreshCron != "*/15 * * * *" {
		t.Errorf("RosterRefreshCron = %q", cfg.Directory.RosterRefreshCron)
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("ROSTER_ROW_CAP", "600")
	t.Setenv("ROSTER_CACHE_TTL", "5m")
	t.Setenv("FLOOR3_MAP_URL", "https://maps.example.com/floor3.svg")
	t.Setenv("FLOOR4_MAP_URL", "https://maps.example.com/floor4.svg")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Directory.RosterRowCap != 600 {
		t.Errorf("RosterRowCap = %d", cfg.Directory.RosterRowCap)
	}
	if cfg.Directory.RosterCacheTTL != 5*time.Minute {
		t.Errorf("RosterCacheTTL = %v", cfg.Directory.RosterCacheTTL)
	}
	if cfg.FloorMaps.Floor4URL != "https://maps.example.com/floor4.svg" {
		t.Errorf("Floor4URL = %q", cfg.FloorMaps.Floor4URL)
	}
	if cfg.Redis.Enabled {
		t.Error("Redis should be disabled")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"FLOOR4_MAP_URL":          "not a url",
		"ROSTER_ROW_CAP":          "0",
		"APP_ENV":                 "moon",
		"LOG_LEVEL":               "VERBOSE",
		"FLOOR_MAP_WARM_INTERVAL": "10ms",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", "test")
			t.Setenv(key, value)
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected %s=%q to be rejected", key, value)
			}
		})
	}
}

func TestLoadLogConfig(t *testing.T) {
	t.Setenv("LOG_DIR", "/var/log/directory")
	t.Setenv("LOG_CONSOLE", "false")

	cfg := LoadLogConfig()
	if cfg.Dir != "/var/log/directory" || cfg.Console {
		t.Errorf("LoadLogConfig() = %+v", cfg)
	}
}
