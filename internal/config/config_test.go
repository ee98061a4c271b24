package config

import (
	"strings"
	"testing"
	"time"

	"github.com/pitchside/fiveside/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load with defaults failed: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("AppEnv = %q, want %q", cfg.AppEnv, EnvDev)
	}
	if cfg.ServiceName != "fiveside-api" {
		t.Fatalf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("StorageDriver = %q", cfg.StorageDriver)
	}
	if cfg.BudgetCap != 1000 || cfg.FreeTransfersPerWeek != 1 || cfg.TransferPenalty != 4 {
		t.Fatalf("unexpected game rules: cap=%d free=%d penalty=%d", cfg.BudgetCap, cfg.FreeTransfersPerWeek, cfg.TransferPenalty)
	}
	if cfg.SeasonGameweeks != 38 {
		t.Fatalf("SeasonGameweeks = %d", cfg.SeasonGameweeks)
	}
	if cfg.CacheTTL != time.Minute {
		t.Fatalf("CacheTTL = %s", cfg.CacheTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_URL", "postgres://fiveside:secret@db:5432/league")
	t.Setenv("GAME_BUDGET_CAP", "1200")
	t.Setenv("SEASON_FIRST_LOCK", "2026-09-01T18:30:00Z")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.pitchside.dev, https://admin.pitchside.dev")
	t.Setenv("APP_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.AppEnv != EnvProd || cfg.StorageDriver != StoragePostgres {
		t.Fatalf("env/driver = %q/%q", cfg.AppEnv, cfg.StorageDriver)
	}
	if cfg.BudgetCap != 1200 {
		t.Fatalf("BudgetCap = %d", cfg.BudgetCap)
	}
	want := time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC)
	if !cfg.SeasonFirstLock.Equal(want) {
		t.Fatalf("SeasonFirstLock = %s", cfg.SeasonFirstLock)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoad_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantMsg string
	}{
		{"bad app env", "APP_ENV", "production", "invalid APP_ENV"},
		{"bad storage driver", "STORAGE_DRIVER", "sqlite", "invalid STORAGE_DRIVER"},
		{"bad cache ttl", "CACHE_TTL", "soon", "parse CACHE_TTL"},
		{"zero cache ttl", "CACHE_TTL", "0s", "CACHE_TTL must be > 0"},
		{"negative budget", "GAME_BUDGET_CAP", "-1", "GAME_BUDGET_CAP must be > 0"},
		{"bad first lock", "SEASON_FIRST_LOCK", "saturday", "parse SEASON_FIRST_LOCK"},
		{"zero workers", "SCORING_WORKERS", "0", "SCORING_WORKERS must be >= 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("expected load to fail for %s=%s", tc.key, tc.value)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}

func TestLoad_RequiredWhenEnabled(t *testing.T) {
	t.Run("uptrace needs dsn", func(t *testing.T) {
		t.Setenv("UPTRACE_ENABLED", "true")

		if _, err := Load(); err == nil || !strings.Contains(err.Error(), "UPTRACE_DSN") {
			t.Fatalf("expected UPTRACE_DSN error, got %v", err)
		}
	})

	t.Run("feed needs token", func(t *testing.T) {
		t.Setenv("FEED_ENABLED", "true")

		if _, err := Load(); err == nil || !strings.Contains(err.Error(), "FEED_TOKEN") {
			t.Fatalf("expected FEED_TOKEN error, got %v", err)
		}
	})

	t.Run("queue needs token and target", func(t *testing.T) {
		t.Setenv("QUEUE_ENABLED", "true")

		if _, err := Load(); err == nil || !strings.Contains(err.Error(), "QUEUE_TOKEN") {
			t.Fatalf("expected QUEUE_TOKEN error, got %v", err)
		}

		t.Setenv("QUEUE_TOKEN", "token")
		if _, err := Load(); err == nil || !strings.Contains(err.Error(), "QUEUE_TARGET_BASE_URL") {
			t.Fatalf("expected QUEUE_TARGET_BASE_URL error, got %v", err)
		}

		t.Setenv("QUEUE_TARGET_BASE_URL", "https://api.pitchside.dev")
		if _, err := Load(); err == nil || !strings.Contains(err.Error(), "INTERNAL_JOB_TOKEN") {
			t.Fatalf("expected INTERNAL_JOB_TOKEN error, got %v", err)
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logging.Level
	}{
		{"debug", logging.LevelDebug},
		{"INFO", logging.LevelInfo},
		{"warn", logging.LevelWarn},
		{"warning", logging.LevelWarn},
		{"error", logging.LevelError},
		{"verbose", logging.LevelInfo},
	}

	for _, tc := range tests {
		if got := parseLogLevel(tc.in); got != tc.want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
