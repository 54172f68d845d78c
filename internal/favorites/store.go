// Package favorites holds the user's watchlist. Full movie records are
// kept so an entry stays displayable after it leaves the result grid.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"

	"github.com/sebastiantruijens/movie-tui/internal/movie"
	"github.com/sebastiantruijens/movie-tui/internal/storage"
)

// StorageKey is the persisted key of the favorites collection.
const StorageKey = "movie-favorites"

// Store is the ordered favorites collection. It is owned by a single
// goroutine (the UI loop) and is not safe for concurrent mutation.
type Store struct {
	medium storage.Store
	logger *slog.Logger
	movies []movie.Movie
}

// New creates an empty store over the given medium
func New(medium storage.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{medium: medium, logger: logger}
}

// Load replaces the in-memory collection with the persisted one. An
// absent or malformed value yields an empty collection.
func (s *Store) Load(ctx context.Context) {
	s.movies = nil

	raw, err := s.medium.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("failed to read favorites", "error", err)
		return
	}

	var stored []movie.Movie
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn("discarding malformed favorites", "error", err)
		return
	}

	for _, m := range stored {
		if movie.IndexOf(s.movies, m.ID) >= 0 {
			continue
		}
		s.movies = append(s.movies, m)
	}
	s.logger.Debug("favorites loaded", "count", len(s.movies))
}

// IsFavorite reports whether a movie with the given id is saved.
func (s *Store) IsFavorite(id int) bool {
	return movie.IndexOf(s.movies, id) >= 0
}

// Toggle removes the movie if present, otherwise appends it, then
// persists the whole collection. It returns the new membership.
// Persistence failures are logged; the in-memory change stands.
func (s *Store) Toggle(ctx context.Context, m movie.Movie) bool {
	added := false
	if i := movie.IndexOf(s.movies, m.ID); i >= 0 {
		s.movies = slices.Delete(slices.Clone(s.movies), i, i+1)
	} else {
		s.movies = append(slices.Clone(s.movies), m)
		added = true
	}

	s.persist(ctx)
	return added
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []movie.Movie {
	return slices.Clone(s.movies)
}

// Len returns the number of saved movies
func (s *Store) Len() int {
	return len(s.movies)
}

func (s *Store) persist(ctx context.Context) {
	movies := s.movies
	if movies == nil {
		movies = []movie.Movie{}
	}

	data, err := json.Marshal(movies)
	if err != nil {
		s.logger.Error("failed to encode favorites", "error", err)
		return
	}
	if err := s.medium.Set(ctx, StorageKey, string(data)); err != nil {
		s.logger.Error("failed to persist favorites", "error", err, "count", len(movies))
	}
}
