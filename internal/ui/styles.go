package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sebastiantruijens/movie-tui/internal/theme"
)

const (
	cardWidth    = 30
	cardHeight   = 9
	sidebarWidth = 22
)

// palette is the set of colors the views use. Each color carries a light
// and a dark variant; lipgloss picks one from the background setting
// ApplyTheme controls.
type palette struct {
	primary   lipgloss.AdaptiveColor
	accent    lipgloss.AdaptiveColor
	text      lipgloss.AdaptiveColor
	muted     lipgloss.AdaptiveColor
	border    lipgloss.AdaptiveColor
	favorite  lipgloss.AdaptiveColor
	errorText lipgloss.AdaptiveColor
}

var colors = palette{
	primary:   lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"}, // cyan
	accent:    lipgloss.AdaptiveColor{Light: "#7E22CE", Dark: "#9333EA"}, // purple
	text:      lipgloss.AdaptiveColor{Light: "#111111", Dark: "#F5F5F1"},
	muted:     lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"},
	border:    lipgloss.AdaptiveColor{Light: "#D4D4D8", Dark: "#3F3F46"},
	favorite:  lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"},
	errorText: lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#FF5555"},
}

// Styles holds every lipgloss style the views use.
type Styles struct {
	Theme theme.Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Rating   lipgloss.Style
	Favorite lipgloss.Style
	Notice   lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardSkeleton lipgloss.Style

	Sidebar       lipgloss.Style
	GenreItem     lipgloss.Style
	GenreActive   lipgloss.Style
	GenreSelected lipgloss.Style

	Rail     lipgloss.Style
	RailItem lipgloss.Style
	RailSel  lipgloss.Style

	Modal lipgloss.Style
}

// NewStyles builds the style set for a theme. The colors resolve against
// the background set by ApplyTheme.
func NewStyles(t theme.Theme) Styles {
	p := colors

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Width(cardWidth).
		Height(cardHeight - 2).
		Padding(0, 1)

	return Styles{
		Theme: t,

		Title: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.text).
			Bold(true),
		Text:     lipgloss.NewStyle().Foreground(p.text),
		Muted:    lipgloss.NewStyle().Foreground(p.muted),
		Rating:   lipgloss.NewStyle().Foreground(p.primary).Bold(true),
		Favorite: lipgloss.NewStyle().Foreground(p.favorite).Bold(true),
		Notice: lipgloss.NewStyle().
			Foreground(p.accent).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(p.errorText).
			Bold(true),
		Help: lipgloss.NewStyle().Foreground(p.muted),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(0, 1),

		Card:         card,
		CardSelected: card.BorderForeground(p.primary),
		CardSkeleton: card.BorderForeground(p.border).Foreground(p.muted),

		Sidebar: lipgloss.NewStyle().
			Width(sidebarWidth).
			Padding(1, 1).
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(p.border),
		GenreItem:   lipgloss.NewStyle().Foreground(p.muted).PaddingLeft(1),
		GenreActive: lipgloss.NewStyle().Foreground(p.primary).Bold(true).PaddingLeft(1),
		GenreSelected: lipgloss.NewStyle().
			Foreground(p.text).
			Background(p.accent).
			Bold(true).
			PaddingLeft(1),

		Rail: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(p.border),
		RailItem: lipgloss.NewStyle().Foreground(p.text).Padding(0, 1),
		RailSel: lipgloss.NewStyle().
			Foreground(p.favorite).
			Bold(true).
			Underline(true).
			Padding(0, 1),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(p.primary).
			Padding(1, 2),
	}
}

// ApplyTheme switches every palette color to its variant for the theme.
// It is the apply hook handed to theme.New.
func ApplyTheme(t theme.Theme) {
	lipgloss.SetHasDarkBackground(t == theme.Dark)
}
