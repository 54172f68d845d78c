package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "theme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, "theme", "light"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, err := s.Get(ctx, "theme")
	if err != nil || v != "light" {
		t.Errorf("Get() = %q, %v; want light, nil", v, err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "storage.json")

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if _, err := s.Get(ctx, "movie-favorites"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on fresh store, got %v", err)
	}

	if err := s.Set(ctx, "movie-favorites", `[{"id":1}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A second store on the same file sees both keys.
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	v, err := reopened.Get(ctx, "movie-favorites")
	if err != nil || v != `[{"id":1}]` {
		t.Errorf("Get(movie-favorites) = %q, %v", v, err)
	}
	v, err = reopened.Get(ctx, "theme")
	if err != nil || v != "dark" {
		t.Errorf("Get(theme) = %q, %v", v, err)
	}
	if reopened.Path() != path {
		t.Errorf("Path() = %q, want %q", reopened.Path(), path)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if _, err := s.Get(ctx, "theme"); !errors.Is(err, ErrPersistence) {
		t.Fatalf("Expected ErrPersistence, got %v", err)
	}

	// Writes replace the corrupt content.
	if err := s.Set(ctx, "theme", "light"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, err := s.Get(ctx, "theme"); err != nil || v != "light" {
		t.Errorf("Get() = %q, %v; want light, nil", v, err)
	}
}

func TestRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := NewRedis(ctx, RedisConfig{Addr: "127.0.0.1:1"}); !errors.Is(err, ErrPersistence) {
		t.Fatalf("Expected ErrPersistence, got %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	s := NewRedisStore(client, "movie-tui:")
	defer s.Close()

	if _, err := s.Get(ctx, "theme"); !errors.Is(err, ErrPersistence) {
		t.Errorf("Get: expected ErrPersistence, got %v", err)
	}
	if err := s.Set(ctx, "theme", "dark"); !errors.Is(err, ErrPersistence) {
		t.Errorf("Set: expected ErrPersistence, got %v", err)
	}
}
