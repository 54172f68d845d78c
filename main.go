package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sebastiantruijens/movie-tui/internal/config"
	"github.com/sebastiantruijens/movie-tui/internal/favorites"
	"github.com/sebastiantruijens/movie-tui/internal/storage"
	"github.com/sebastiantruijens/movie-tui/internal/theme"
	"github.com/sebastiantruijens/movie-tui/internal/tmdb"
	"github.com/sebastiantruijens/movie-tui/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The TUI owns stdout, so logs go to a file
	logger, closeLog := newLogger(cfg.Log)
	defer closeLog()
	slog.SetDefault(logger)

	ctx := context.Background()
	medium, closeStore := openStorage(ctx, cfg)
	defer closeStore()

	favs := favorites.New(medium, logger)
	favs.Load(ctx)

	pref := theme.New(medium, logger, ui.ApplyTheme)
	pref.Load(ctx)

	client := tmdb.NewClient(tmdb.Options{
		BaseURL:     cfg.TMDB.BaseURL,
		APIKey:      cfg.TMDB.APIKey,
		AccessToken: cfg.TMDB.AccessToken,
		Timeout:     cfg.TMDB.Timeout,
		Logger:      logger,
	})

	model := ui.New(ui.Deps{
		Source:       client,
		Favorites:    favs,
		Theme:        pref,
		Logger:       logger,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		LoadingFloor: cfg.LoadingFloor,
	})

	slog.Info("starting", "favorites", favs.Len(), "theme", pref.Get())
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

func newLogger(cfg config.LogConfig) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{Level: cfg.Level}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err == nil {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			return slog.New(slog.NewTextHandler(f, opts)), func() { f.Close() }
		}
	}
	return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}
}

// openStorage picks Redis when configured, else the JSON file. Any
// failure degrades to memory so the app still starts.
func openStorage(ctx context.Context, cfg *config.Config) (storage.Store, func()) {
	if cfg.Redis.Enabled() {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()

		rs, err := storage.NewRedis(pingCtx, storage.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   "movie-tui:",
		})
		if err == nil {
			return rs, func() { rs.Close() }
		}
		slog.Error("Redis unavailable, falling back to file storage", "error", err)
	}

	fs, err := storage.NewFileStore(cfg.Storage.Path)
	if err != nil {
		slog.Error("file storage unavailable, favorites will not persist", "error", err)
		return storage.NewMemoryStore(), func() {}
	}
	slog.Debug("using file storage", "path", fs.Path())
	return fs, func() {}
}
