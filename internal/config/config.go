package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const appName = "movie-tui"

// Config holds all configuration for the application.
type Config struct {
	TMDB    TMDBConfig
	Storage StorageConfig
	Redis   RedisConfig
	Log     LogConfig

	LoadingFloor time.Duration `validate:"gte=0"`
}

// TMDBConfig holds TMDB API configuration. One of APIKey or AccessToken
// is required.
type TMDBConfig struct {
	APIKey       string        `validate:"required_without=AccessToken"`
	AccessToken  string        `validate:"required_without=APIKey"`
	BaseURL      string        `validate:"required,url"`
	ImageBaseURL string        `validate:"required,url"`
	Timeout      time.Duration `validate:"gt=0"`
}

// StorageConfig holds the file store location.
type StorageConfig struct {
	Path string `validate:"required"`
}

// RedisConfig holds optional Redis configuration. Redis replaces the
// file store when Addr is set.
type RedisConfig struct {
	Addr     string `validate:"omitempty,hostname_port"`
	Password string
	DB       int `validate:"gte=0"`
}

// Enabled reports whether Redis should be used as the storage medium
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// LogConfig holds logging configuration.
type LogConfig struct {
	File  string `validate:"required"`
	Level slog.Level
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	timeout, err := getDuration("TMDB_TIMEOUT", 12*time.Second)
	if err != nil {
		return nil, err
	}
	floor, err := getDuration("LOADING_FLOOR", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TMDB: TMDBConfig{
			APIKey:       getEnv("TMDB_API_KEY", ""),
			AccessToken:  getEnv("TMDB_ACCESS_TOKEN", ""),
			BaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"),
			Timeout:      timeout,
		},
		Storage: StorageConfig{
			Path: getEnv("STORAGE_PATH", defaultPath(os.UserConfigDir, "storage.json")),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Log: LogConfig{
			File:  getEnv("LOG_FILE", defaultPath(os.UserCacheDir, appName+".log")),
			Level: level,
		},
		LoadingFloor: floor,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints and reports every failing field.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return level, nil
}

func defaultPath(dir func() (string, error), name string) string {
	base, err := dir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, appName, name)
}
