package config

import (
	"reflect"
	"testing"
)

// TestLoadDefaults verifies the offline defaults.
func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "DB_DRIVER", "DB_DSN", "AUTH_HMAC_SECRET", "LOG_LEVEL", "LOG_FILE", "CORS_ORIGINS_OFFLINE"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.Mode != ModeOffline || cfg.HTTPAddr != ":8080" || cfg.DBDriver != "sqlite" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	want := []string{"http://localhost:3000", "http://localhost:3010", "http://localhost:3020"}
	if !reflect.DeepEqual(cfg.CORSOrigins(), want) {
		t.Fatalf("offline origins = %v", cfg.CORSOrigins())
	}
}

// TestLoadFromEnv verifies environment variables override defaults.
func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MODE", "ONLINE")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "postgres://db/answers")
	t.Setenv("CORS_ORIGINS_ONLINE", " https://a.example , ,https://b.example")
	t.Setenv("AUTH_HMAC_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := FromEnv()
	if cfg.Mode != ModeOnline || cfg.HTTPAddr != ":9090" || cfg.DBDriver != "postgres" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.DBDSN != "postgres://db/answers" || cfg.AuthHMACSecret != "s3cret" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.CORSOrigins(), want) {
		t.Fatalf("online origins = %v", cfg.CORSOrigins())
	}
}

// TestUnknownModeFallsBackOffline verifies a typo never enables online mode.
func TestUnknownModeFallsBackOffline(t *testing.T) {
	t.Setenv("MODE", "onlnie")
	if got := FromEnv().Mode; got != ModeOffline {
		t.Fatalf("mode = %q", got)
	}
}
