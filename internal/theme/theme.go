package theme

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sebastiantruijens/movie-tui/internal/storage"
)

// StorageKey is the persisted key of the theme preference.
const StorageKey = "theme"

// Theme is the display mode
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// Parse maps a persisted value to a Theme. Anything unrecognized is Dark.
func Parse(s string) Theme {
	if Theme(s) == Light {
		return Light
	}
	return Dark
}

// Opposite returns the other theme
func (t Theme) Opposite() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// Preference tracks the current theme, persists it and applies it.
type Preference struct {
	medium  storage.Store
	logger  *slog.Logger
	apply   func(Theme)
	current Theme
}

// New creates a preference defaulting to Dark. apply is called with the
// new theme on every Set and after Load; it may be nil.
func New(medium storage.Store, logger *slog.Logger, apply func(Theme)) *Preference {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preference{medium: medium, logger: logger, apply: apply, current: Dark}
}

// Load reads the persisted theme, falling back to Dark.
func (p *Preference) Load(ctx context.Context) Theme {
	p.current = Dark

	raw, err := p.medium.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		p.logger.Warn("failed to read theme", "error", err)
	default:
		p.current = Parse(raw)
	}

	p.notify()
	return p.current
}

// Get returns the current theme.
func (p *Preference) Get() Theme {
	return p.current
}

// Set updates, persists and applies the theme. A write failure is
// logged and does not revert the change.
func (p *Preference) Set(ctx context.Context, t Theme) {
	p.current = Parse(string(t))
	if err := p.medium.Set(ctx, StorageKey, string(p.current)); err != nil {
		p.logger.Error("failed to persist theme", "error", err)
	}
	p.notify()
}

// Toggle switches between dark and light and returns the new theme.
func (p *Preference) Toggle(ctx context.Context) Theme {
	p.Set(ctx, p.current.Opposite())
	return p.current
}

func (p *Preference) notify() {
	if p.apply != nil {
		p.apply(p.current)
	}
}
