package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sebastiantruijens/movie-tui/internal/movie"
	"github.com/sebastiantruijens/movie-tui/internal/theme"
	"github.com/sebastiantruijens/movie-tui/internal/tmdb"
)

const appTitle = "MovieDruuu"

// View renders the current UI
func (m Model) View() string {
	if m.selected != nil {
		return m.detailView()
	}

	sections := []string{m.headerView(), m.noticeView(), m.gridView()}
	if rail := m.railView(); rail != "" {
		sections = append(sections, rail)
	}
	sections = append(sections, m.styles.Help.Render(m.help.View(m.keys)))
	main := lipgloss.JoinVertical(lipgloss.Left, sections...)

	body := main
	if m.sidebarOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), " ", main)
	}

	return lipgloss.NewStyle().
		MaxWidth(m.width).
		MaxHeight(m.height).
		Render(body)
}

func (m Model) headerView() string {
	st := m.styles

	input := st.Input
	if m.focus == focusSearch {
		input = st.InputFocused
	}

	mode := "☾ dark"
	if st.Theme == theme.Light {
		mode = "☀ light"
	}

	right := st.Muted.Render(fmt.Sprintf("%s · ♥ %d", mode, m.favorites.Len()))
	if !m.sidebarOpen {
		right = st.Title.Render(appTitle) + "  " + right
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		input.Render(m.search.View()),
		"  ",
		right,
	)
}

func (m Model) noticeView() string {
	heading := m.styles.Subtitle.Render(m.heading())
	if m.loading {
		heading += " " + m.spinner.View()
	}
	if m.notice == "" {
		return heading
	}

	style := m.styles.Notice
	if m.noticeError {
		style = m.styles.Error
	}
	return heading + "  " + style.Render(m.notice)
}

// heading names what the grid currently shows.
func (m Model) heading() string {
	switch {
	case m.query != "":
		return fmt.Sprintf("Results for %q", m.query)
	case m.genre != nil:
		return m.genre.Name
	default:
		return "Trending"
	}
}

func (m Model) gridView() string {
	st := m.styles
	cols := m.columns()
	rows := m.visibleRows()

	if m.loading {
		tiles := make([]string, cols*min(rows, 2))
		for i := range tiles {
			tiles[i] = placeholderCard(st)
		}
		return renderGrid(tiles, cols)
	}

	if len(m.movies) == 0 {
		return st.Muted.Render("\n  No movies to show.\n")
	}

	// Keep the cursor row in view
	cursorRow := m.cursor / cols
	firstRow := max(0, cursorRow-rows+1)
	start := firstRow * cols
	end := min(len(m.movies), start+rows*cols)

	tiles := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		tiles = append(tiles, renderCard(m.gridCard(i), st))
	}
	return renderGrid(tiles, cols)
}

// visibleRows is how many card rows fit between header and rail.
func (m Model) visibleRows() int {
	chrome := 3 + 1 + 3 + 2
	return max(1, (m.height-chrome)/cardHeight)
}

func (m Model) sidebarView() string {
	st := m.styles

	items := []string{st.Title.Render(appTitle), "", st.Muted.Render("DISCOVERY")}
	entries := append([]string{"🔥 Trending"}, genreNames()...)

	for i, name := range entries {
		active := (i == 0 && m.genre == nil && m.query == "") ||
			(i > 0 && m.genre != nil && m.genre.ID == movie.Genres[i-1].ID)

		style := st.GenreItem
		switch {
		case m.focus == focusGenres && i == m.genreCursor:
			style = st.GenreSelected
		case active:
			style = st.GenreActive
		}
		items = append(items, style.Render(name))
	}

	return st.Sidebar.Height(max(1, m.height-2)).Render(strings.Join(items, "\n"))
}

func genreNames() []string {
	names := make([]string, len(movie.Genres))
	for i, g := range movie.Genres {
		names[i] = "● " + g.Name
	}
	return names
}

// railView renders the watchlist from the favorites store. It is hidden
// while a search or genre is active.
func (m Model) railView() string {
	if !m.railVisible() {
		return ""
	}
	st := m.styles
	saved := m.favorites.All()

	label := st.Subtitle.Render(fmt.Sprintf("Watchlist (%d)", len(saved)))

	parts := make([]string, 0, len(saved))
	for i, mv := range saved {
		text := "♥ " + truncate(mv.Title, 20)
		if m.focus == focusRail && i == m.railCursor {
			parts = append(parts, st.RailSel.Render(text))
		} else {
			parts = append(parts, st.RailItem.Render(text))
		}
	}
	return st.Rail.Render(label + "  " + strings.Join(parts, ""))
}

func (m Model) detailView() string {
	help := m.help
	help.ShowAll = false
	footer := m.styles.Help.Render(help.ShortHelpView(m.keys.modalHelp()))

	modal := m.styles.Modal.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.noticeLine(),
		footer,
	))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m Model) noticeLine() string {
	if m.notice == "" {
		return ""
	}
	if m.noticeError {
		return m.styles.Error.Render(m.notice)
	}
	return m.styles.Notice.Render(m.notice)
}

// formatDetail renders the modal body for the selected movie.
func (m Model) formatDetail() string {
	if m.selected == nil {
		return "No movie selected"
	}
	st := m.styles
	mv := *m.selected

	var sb strings.Builder

	// Title and year
	title := mv.Title
	if year := mv.Year(); year != "" {
		title += " (" + year + ")"
	}
	sb.WriteString(st.Title.Render(title))
	sb.WriteString("\n\n")

	sb.WriteString(st.Rating.Render("★ " + mv.RatingLabel()))
	if m.favorites.IsFavorite(mv.ID) {
		sb.WriteString("   " + st.Favorite.Render("♥ In your watchlist (f to remove)"))
	} else {
		sb.WriteString("   " + st.Muted.Render("♡ Add to watchlist (f)"))
	}
	sb.WriteString("\n\n")

	// Trailer, or the backdrop while none is known
	switch {
	case m.trailerKey != "":
		sb.WriteString(st.Subtitle.Render("▶ Trailer: "))
		sb.WriteString(st.Text.Render(tmdb.YouTubeURL(m.trailerKey)))
	case m.trailerPending:
		sb.WriteString(st.Muted.Render("Looking for a trailer..."))
		sb.WriteString("\n")
		sb.WriteString(st.Muted.Render("Backdrop: " + mv.BackdropURL(m.imageBase)))
	default:
		sb.WriteString(st.Muted.Render("No trailer available"))
		sb.WriteString("\n")
		sb.WriteString(st.Muted.Render("Backdrop: " + mv.BackdropURL(m.imageBase)))
	}
	sb.WriteString("\n\n")

	sb.WriteString(st.Subtitle.Render("Overview:"))
	sb.WriteString("\n")
	overview := mv.Overview
	if strings.TrimSpace(overview) == "" {
		overview = "No overview available."
	}
	sb.WriteString(st.Text.Render(wrapText(overview, max(20, m.viewport.Width-4))))
	sb.WriteString("\n\n")

	sb.WriteString(st.Subtitle.Render("Poster:"))
	sb.WriteString("\n")
	sb.WriteString(st.Muted.Render(mv.PosterURL(m.imageBase)))

	return sb.String()
}
