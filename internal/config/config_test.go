package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TMDB_API_KEY", "TMDB_ACCESS_TOKEN", "TMDB_BASE_URL", "TMDB_IMAGE_BASE_URL",
		"TMDB_TIMEOUT", "LOADING_FLOOR", "STORAGE_PATH", "REDIS_ADDR",
		"REDIS_PASSWORD", "REDIS_DB", "LOG_FILE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TMDB_API_KEY", "abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TMDB.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("BaseURL = %q", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.Timeout != 12*time.Second {
		t.Errorf("Timeout = %v, want 12s", cfg.TMDB.Timeout)
	}
	if cfg.LoadingFloor != 500*time.Millisecond {
		t.Errorf("LoadingFloor = %v, want 500ms", cfg.LoadingFloor)
	}
	if cfg.Redis.Enabled() {
		t.Error("Redis should be disabled by default")
	}
	if !strings.HasSuffix(cfg.Storage.Path, "storage.json") {
		t.Errorf("Storage.Path = %q", cfg.Storage.Path)
	}
	if cfg.Log.Level != slog.LevelInfo {
		t.Errorf("Log.Level = %v, want info", cfg.Log.Level)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TMDB_ACCESS_TOKEN", "token")
	t.Setenv("TMDB_BASE_URL", "http://localhost:8080/tmdb")
	t.Setenv("TMDB_TIMEOUT", "3s")
	t.Setenv("LOADING_FLOOR", "0s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TMDB.AccessToken != "token" || cfg.TMDB.APIKey != "" {
		t.Errorf("unexpected credentials: %+v", cfg.TMDB)
	}
	if cfg.TMDB.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.TMDB.Timeout)
	}
	if cfg.LoadingFloor != 0 {
		t.Errorf("LoadingFloor = %v, want 0", cfg.LoadingFloor)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.DB != 2 {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.Log.Level != slog.LevelDebug {
		t.Errorf("Log.Level = %v, want debug", cfg.Log.Level)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing credentials", map[string]string{}, "APIKey"},
		{"bad timeout", map[string]string{"TMDB_API_KEY": "k", "TMDB_TIMEOUT": "soon"}, "TMDB_TIMEOUT"},
		{"zero timeout", map[string]string{"TMDB_API_KEY": "k", "TMDB_TIMEOUT": "0s"}, "Timeout"},
		{"bad base url", map[string]string{"TMDB_API_KEY": "k", "TMDB_BASE_URL": "not a url"}, "BaseURL"},
		{"bad redis db", map[string]string{"TMDB_API_KEY": "k", "REDIS_DB": "x"}, "REDIS_DB"},
		{"bad redis addr", map[string]string{"TMDB_API_KEY": "k", "REDIS_ADDR": "nohost"}, "Addr"},
		{"bad log level", map[string]string{"TMDB_API_KEY": "k", "LOG_LEVEL": "loud"}, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
