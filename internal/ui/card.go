package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sebastiantruijens/movie-tui/internal/movie"
)

// CardProps is everything a movie tile needs to render. The card never
// touches the favorites store; toggling goes through OnToggleFavorite.
type CardProps struct {
	Movie            movie.Movie
	ImageBase        string
	Favorite         bool
	Selected         bool
	OnToggleFavorite func() bool
}

// renderCard draws one movie tile.
func renderCard(p CardProps, st Styles) string {
	inner := cardWidth - 2

	heart := st.Muted.Render("♡")
	if p.Favorite {
		heart = st.Favorite.Render("♥")
	}

	title := truncate(p.Movie.Title, inner-2)
	if title == "" {
		title = "Untitled"
	}

	meta := st.Rating.Render("★ "+p.Movie.RatingLabel()) + "  " + st.Muted.Render(p.Movie.Year())

	poster := "▣ poster"
	if p.Movie.PosterPath == nil || *p.Movie.PosterPath == "" {
		poster = "▢ no image"
	}

	lines := []string{
		st.Muted.Render(poster),
		st.Subtitle.Render(title) + " " + heart,
		meta,
		st.Muted.Render(truncate(p.Movie.Overview, inner)),
	}
	for _, part := range breakURL(p.Movie.PosterURL(p.ImageBase), inner) {
		lines = append(lines, st.Muted.Render(part))
	}

	style := st.Card
	if p.Selected {
		style = st.CardSelected
	}
	return style.Render(strings.Join(lines, "\n"))
}

// placeholderCard is the skeleton tile shown while a request is pending.
func placeholderCard(st Styles) string {
	bar := strings.Repeat("░", cardWidth-6)
	return st.CardSkeleton.Render(strings.Join([]string{
		"░░░░░░",
		bar,
		"░░░░",
		strings.Repeat("░", (cardWidth-6)/2),
		"",
	}, "\n"))
}

// renderGrid lays tiles out in rows of cols.
func renderGrid(tiles []string, cols int) string {
	if cols < 1 {
		cols = 1
	}
	var rows []string
	for start := 0; start < len(tiles); start += cols {
		end := min(start+cols, len(tiles))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// breakURL splits a URL into lines of at most width cells, preferring to
// break after a path or query separator in the back half of a line.
func breakURL(u string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	runes := []rune(u)
	for len(runes) > width {
		cut := width
		for i := width - 1; i >= width/2; i-- {
			if strings.ContainsRune("/?&=", runes[i]) {
				cut = i + 1
				break
			}
		}
		lines = append(lines, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		lines = append(lines, string(runes))
	}
	return lines
}

// truncate shortens s to width cells, adding an ellipsis when cut.
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return strings.TrimRight(string(runes), " ") + "…"
}
