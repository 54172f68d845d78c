package movie

import (
	"fmt"
	"strings"
)

// Image CDN defaults
const (
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	PlaceholderPoster   = "https://via.placeholder.com/500x750?text=No+Image"
	PlaceholderRating   = "–"

	PosterSize   = "w500"
	BackdropSize = "original"
)

// Movie represents a movie as returned by the provider.
// Optional fields are pointers so that absence is explicit.
type Movie struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	PosterPath   *string  `json:"poster_path"`
	BackdropPath *string  `json:"backdrop_path"`
	Overview     string   `json:"overview"`
	VoteAverage  *float64 `json:"vote_average"`
	ReleaseDate  *string  `json:"release_date"`
}

// Genre is a discovery filter offered in the sidebar
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Genres is the fixed discovery rail.
var Genres = []Genre{
	{ID: 28, Name: "Action"},
	{ID: 35, Name: "Comedy"},
	{ID: 18, Name: "Drama"},
	{ID: 27, Name: "Horror"},
	{ID: 10749, Name: "Romance"},
	{ID: 878, Name: "Sci-Fi"},
}

// ImageURL builds a CDN URL as <base>/<size><path>.
func ImageURL(base, size, path string) string {
	return fmt.Sprintf("%s/%s%s", strings.TrimRight(base, "/"), size, path)
}

// PosterURL returns the poster URL under the given CDN base, or the
// placeholder image when the movie has no poster.
func (m Movie) PosterURL(base string) string {
	if m.PosterPath == nil || *m.PosterPath == "" {
		return PlaceholderPoster
	}
	return ImageURL(base, PosterSize, *m.PosterPath)
}

// BackdropURL returns the backdrop URL, falling back to the poster URL.
func (m Movie) BackdropURL(base string) string {
	if m.BackdropPath == nil || *m.BackdropPath == "" {
		return m.PosterURL(base)
	}
	return ImageURL(base, BackdropSize, *m.BackdropPath)
}

// HasRating reports whether the movie carries a usable vote average.
// The provider reports unrated titles as 0.
func (m Movie) HasRating() bool {
	return m.VoteAverage != nil && *m.VoteAverage > 0
}

// RatingLabel formats the vote average with one decimal, or returns the
// placeholder token.
func (m Movie) RatingLabel() string {
	if !m.HasRating() {
		return PlaceholderRating
	}
	return fmt.Sprintf("%.1f", *m.VoteAverage)
}

// Year returns the release year or an empty string.
func (m Movie) Year() string {
	if m.ReleaseDate == nil {
		return ""
	}
	year, _, _ := strings.Cut(*m.ReleaseDate, "-")
	return strings.TrimSpace(year)
}

// IndexOf returns the position of the movie with the given id, or -1.
func IndexOf(movies []Movie, id int) int {
	for i, m := range movies {
		if m.ID == id {
			return i
		}
	}
	return -1
}
