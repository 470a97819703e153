package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_PATH", "REDIS_URL", "SUPERVISOR_ROOM", "REQUEST_TIMEOUT", "REAPER_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "3000" {
		t.Errorf("Expected default port 3000, got %s", cfg.Port)
	}
	if cfg.Room != "supervisor-room" {
		t.Errorf("Expected default room supervisor-room, got %s", cfg.Room)
	}
	if cfg.RequestTimeout != 10*time.Minute {
		t.Errorf("Expected default request timeout 10m, got %v", cfg.RequestTimeout)
	}
	if cfg.ReaperInterval != time.Minute {
		t.Errorf("Expected default reaper interval 60s, got %v", cfg.ReaperInterval)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SUPERVISOR_ROOM", "ops-room")
	t.Setenv("REQUEST_TIMEOUT", "30m")
	t.Setenv("REAPER_INTERVAL", "5s")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}
	if cfg.Room != "ops-room" {
		t.Errorf("Expected room ops-room, got %s", cfg.Room)
	}
	if cfg.RequestTimeout != 30*time.Minute {
		t.Errorf("Expected request timeout 30m, got %v", cfg.RequestTimeout)
	}
	if cfg.ReaperInterval != 5*time.Second {
		t.Errorf("Expected reaper interval 5s, got %v", cfg.ReaperInterval)
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")

	cfg := Load()
	if cfg.RequestTimeout != 10*time.Minute {
		t.Errorf("Expected fallback to 10m, got %v", cfg.RequestTimeout)
	}
}
