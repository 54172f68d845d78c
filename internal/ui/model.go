package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sebastiantruijens/movie-tui/internal/favorites"
	"github.com/sebastiantruijens/movie-tui/internal/movie"
	"github.com/sebastiantruijens/movie-tui/internal/theme"
	"github.com/sebastiantruijens/movie-tui/internal/tmdb"
)

const noticeTTL = 3 * time.Second

// MovieSource is the provider the controller reads from.
type MovieSource interface {
	Popular(ctx context.Context) ([]movie.Movie, error)
	Search(ctx context.Context, query string) ([]movie.Movie, error)
	Discover(ctx context.Context, genreID int) ([]movie.Movie, error)
	TrailerKey(ctx context.Context, movieID int) (string, bool)
}

// Deps are the collaborators injected into the controller.
type Deps struct {
	Source       MovieSource
	Favorites    *favorites.Store
	Theme        *theme.Preference
	Logger       *slog.Logger
	ImageBaseURL string
	LoadingFloor time.Duration
	OpenURL      func(string) error
}

type focusArea int

const (
	focusGrid focusArea = iota
	focusSearch
	focusGenres
	focusRail
)

// Model is the application controller: it owns the search state, the
// detail selection and the focus, and drives all rendering.
type Model struct {
	source    MovieSource
	favorites *favorites.Store
	theme     *theme.Preference
	logger    *slog.Logger
	imageBase string
	floor     time.Duration
	openURL   func(string) error
	now       func() time.Time

	keys     keyMap
	help     help.Model
	styles   Styles
	search   textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	// search state
	query        string
	genre        *movie.Genre
	movies       []movie.Movie
	seq          int
	loading      bool
	loadingSince time.Time

	// detail selection
	selected       *movie.Movie
	trailerKey     string
	trailerPending bool
	detailSeq      int

	focus       focusArea
	cursor      int
	genreCursor int
	railCursor  int
	sidebarOpen bool

	notice      string
	noticeError bool
	noticeSeq   int

	width  int
	height int
}

// New creates a new application model
func New(d Deps) Model {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.ImageBaseURL == "" {
		d.ImageBaseURL = movie.DefaultImageBaseURL
	}
	if d.OpenURL == nil {
		d.OpenURL = OpenBrowser
	}

	// Set up text input for search
	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.CharLimit = 100
	ti.Width = 36
	ti.Prompt = "⌕ "

	// Create explicit key mappings for Option+Backspace (Alt+Backspace)
	ti.KeyMap.DeleteWordBackward = key.NewBinding(
		key.WithKeys("alt+backspace", "ctrl+w"),
	)

	// Set up spinner for loading states
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colors.primary)

	// Set up viewport for the detail modal
	vp := viewport.New(60, 16)

	now := time.Now
	return Model{
		source:       d.Source,
		favorites:    d.Favorites,
		theme:        d.Theme,
		logger:       d.Logger,
		imageBase:    d.ImageBaseURL,
		floor:        d.LoadingFloor,
		openURL:      d.OpenURL,
		now:          now,
		keys:         defaultKeyMap(),
		help:         help.New(),
		styles:       NewStyles(d.Theme.Get()),
		search:       ti,
		spinner:      sp,
		viewport:     vp,
		movies:       []movie.Movie{},
		seq:          1,
		loading:      true,
		loadingSince: now(),
		sidebarOpen:  true,
		width:        100,
		height:       32,
	}
}

// Init issues the initial popular fetch. New already reserved its
// request token.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd(m.seq, "", nil))
}

// Custom message types
type moviesMsg struct {
	seq    int
	movies []movie.Movie
	err    error
}

type loadingDoneMsg struct {
	seq int
}

type trailerMsg struct {
	seq     int
	movieID int
	key     string
	ok      bool
}

type noticeExpiredMsg struct {
	seq int
}

type browserOpenedMsg struct {
	err error
}

// Update handles messages and user input
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.selected != nil {
			return m.updateDetail(msg)
		}
		if m.focus == focusSearch {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case moviesMsg:
		return m.handleMovies(msg)

	case loadingDoneMsg:
		if msg.seq == m.seq {
			m.loading = false
		}
		return m, nil

	case trailerMsg:
		if m.selected == nil || msg.seq != m.detailSeq || m.selected.ID != msg.movieID {
			m.logger.Debug("discarding stale trailer lookup", "movie_id", msg.movieID)
			return m, nil
		}
		m.trailerPending = false
		if msg.ok {
			m.trailerKey = msg.key
		}
		m.refreshDetail()
		return m, nil

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
			m.noticeError = false
		}
		return m, nil

	case browserOpenedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to open browser", "error", msg.err)
			return m, m.setNotice(fmt.Sprintf("Could not open browser: %v", msg.err), true)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.focus = focusGrid
		m.search.Blur()
		return m, m.submitSearch(m.search.Value())
	case tea.KeyEsc:
		m.focus = focusGrid
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Focus):
		m.cycleFocus(msg.String() == "shift+tab")
		return m, nil
	case key.Matches(msg, m.keys.Sidebar):
		m.sidebarOpen = !m.sidebarOpen
		if !m.sidebarOpen && m.focus == focusGenres {
			m.focus = focusGrid
		}
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		t := m.theme.Toggle(context.Background())
		m.styles = NewStyles(t)
		return m, nil
	case key.Matches(msg, m.keys.Trending):
		m.genreCursor = 0
		return m, m.showTrending()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.focus {
	case focusGenres:
		return m.updateGenres(msg)
	case focusRail:
		return m.updateRail(msg)
	default:
		return m.updateGrid(msg)
	}
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.columns()
	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-cols)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(cols)
	case m.loading:
		// Open and favorite wait for the new results.
	case key.Matches(msg, m.keys.Open):
		if mv, ok := m.currentMovie(); ok {
			return m, m.openDetail(mv)
		}
	case key.Matches(msg, m.keys.Favorite):
		if m.cursor < len(m.movies) {
			return m, m.toggleFavorite(m.gridCard(m.cursor))
		}
	}
	return m, nil
}

func (m Model) updateGenres(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.genreCursor > 0 {
			m.genreCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.genreCursor < len(movie.Genres) {
			m.genreCursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.genreCursor == 0 {
			return m, m.showTrending()
		}
		return m, m.selectGenre(movie.Genres[m.genreCursor-1])
	}
	return m, nil
}

func (m Model) updateRail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	saved := m.favorites.All()
	if !m.railVisible() {
		m.focus = focusGrid
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Up):
		if m.railCursor > 0 {
			m.railCursor--
		}
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Down):
		if m.railCursor < len(saved)-1 {
			m.railCursor++
		}
	case key.Matches(msg, m.keys.Open):
		return m, m.openDetail(saved[m.railCursor])
	case key.Matches(msg, m.keys.Favorite):
		cmd := m.toggleFavorite(m.cardFor(saved[m.railCursor], false))
		m.clampRail()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), msg.String() == "q":
		m.closeDetail()
		return m, nil
	case key.Matches(msg, m.keys.Favorite):
		cmd := m.toggleFavorite(m.cardFor(*m.selected, false))
		m.refreshDetail()
		return m, cmd
	case key.Matches(msg, m.keys.Trailer):
		if m.trailerKey == "" {
			if m.trailerPending {
				return m, m.setNotice("Still looking for a trailer...", false)
			}
			return m, m.setNotice("No trailer available", false)
		}
		url := tmdb.YouTubeURL(m.trailerKey)
		open := m.openURL
		return m, func() tea.Msg {
			return browserOpenedMsg{err: open(url)}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// submitSearch runs a title search; blank text is the trending view.
func (m *Model) submitSearch(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" {
		return m.showTrending()
	}
	m.query = text
	m.genre = nil
	m.genreCursor = 0
	return m.startRequest()
}

func (m *Model) selectGenre(g movie.Genre) tea.Cmd {
	m.query = ""
	m.search.SetValue("")
	m.genre = &g
	return m.startRequest()
}

func (m *Model) showTrending() tea.Cmd {
	m.query = ""
	m.search.SetValue("")
	m.genre = nil
	return m.startRequest()
}

// startRequest bumps the request token and issues the fetch for the
// current search state. Only the response carrying the latest token is
// applied.
func (m *Model) startRequest() tea.Cmd {
	m.seq++
	m.loading = true
	m.loadingSince = m.now()
	m.cursor = 0
	m.clampRail()
	return m.fetchCmd(m.seq, m.query, m.genre)
}

func (m Model) fetchCmd(seq int, query string, genre *movie.Genre) tea.Cmd {
	source := m.source
	genreID := 0
	if genre != nil {
		genreID = genre.ID
	}

	return func() tea.Msg {
		ctx := context.Background()
		var (
			movies []movie.Movie
			err    error
		)
		switch {
		case query != "":
			movies, err = source.Search(ctx, query)
		case genreID != 0:
			movies, err = source.Discover(ctx, genreID)
		default:
			movies, err = source.Popular(ctx)
		}
		return moviesMsg{seq: seq, movies: movies, err: err}
	}
}

func (m Model) handleMovies(msg moviesMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.seq {
		m.logger.Debug("discarding superseded results", "seq", msg.seq, "latest", m.seq)
		return m, nil
	}

	var cmds []tea.Cmd
	if msg.err != nil {
		m.logger.Warn("movie request failed", "error", msg.err, "query", m.query)
		m.movies = []movie.Movie{}
		cmds = append(cmds, m.setNotice(describeError(msg.err), true))
	} else {
		m.movies = msg.movies
		if m.movies == nil {
			m.movies = []movie.Movie{}
		}
	}
	m.moveCursor(0)

	if remaining := m.floor - m.now().Sub(m.loadingSince); remaining > 0 {
		seq := msg.seq
		cmds = append(cmds, tea.Tick(remaining, func(time.Time) tea.Msg {
			return loadingDoneMsg{seq: seq}
		}))
	} else {
		m.loading = false
	}

	return m, tea.Batch(cmds...)
}

// openDetail selects a movie and starts the trailer lookup. The modal
// renders at once with the backdrop fallback.
func (m *Model) openDetail(mv movie.Movie) tea.Cmd {
	m.detailSeq++
	m.selected = &mv
	m.trailerKey = ""
	m.trailerPending = true
	m.resizeViewport()
	m.refreshDetail()
	m.viewport.GotoTop()

	seq, id, source := m.detailSeq, mv.ID, m.source
	return func() tea.Msg {
		k, ok := source.TrailerKey(context.Background(), id)
		return trailerMsg{seq: seq, movieID: id, key: k, ok: ok}
	}
}

func (m *Model) closeDetail() {
	m.detailSeq++
	m.selected = nil
	m.trailerKey = ""
	m.trailerPending = false
}

func (m *Model) toggleFavorite(card CardProps) tea.Cmd {
	if card.OnToggleFavorite == nil {
		return nil
	}
	if card.OnToggleFavorite() {
		return m.setNotice(fmt.Sprintf("Added %q to watchlist", card.Movie.Title), false)
	}
	m.clampRail()
	return m.setNotice(fmt.Sprintf("Removed %q from watchlist", card.Movie.Title), false)
}

func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	m.noticeError = isErr
	seq := m.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (m Model) gridCard(i int) CardProps {
	return m.cardFor(m.movies[i], m.focus == focusGrid && i == m.cursor)
}

func (m Model) cardFor(mv movie.Movie, selected bool) CardProps {
	store := m.favorites
	return CardProps{
		Movie:     mv,
		ImageBase: m.imageBase,
		Favorite:  store.IsFavorite(mv.ID),
		Selected:  selected,
		OnToggleFavorite: func() bool {
			return store.Toggle(context.Background(), mv)
		},
	}
}

func (m Model) currentMovie() (movie.Movie, bool) {
	if m.cursor < 0 || m.cursor >= len(m.movies) {
		return movie.Movie{}, false
	}
	return m.movies[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.movies) {
		if delta != 0 {
			return
		}
		next = max(0, min(next, len(m.movies)-1))
	}
	m.cursor = next
}

func (m *Model) clampRail() {
	n := m.favorites.Len()
	if m.railCursor >= n {
		m.railCursor = max(0, n-1)
	}
	if m.focus == focusRail && !m.railVisible() {
		m.focus = focusGrid
	}
}

// railVisible reports whether the watchlist rail is on screen: only in
// the trending view, and only with something saved.
func (m Model) railVisible() bool {
	return m.favorites.Len() > 0 && m.query == "" && m.genre == nil
}

func (m *Model) cycleFocus(reverse bool) {
	order := []focusArea{focusGrid}
	if m.sidebarOpen {
		order = append(order, focusGenres)
	}
	if m.railVisible() {
		order = append(order, focusRail)
	}

	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
		}
	}
	step := 1
	if reverse {
		step = len(order) - 1
	}
	m.focus = order[(idx+step)%len(order)]
	m.clampRail()
}

// columns is the number of card columns that fit the grid area.
func (m Model) columns() int {
	avail := m.width
	if m.sidebarOpen {
		avail -= sidebarWidth + 3
	}
	return max(1, avail/(cardWidth+2))
}

func (m *Model) resizeViewport() {
	m.viewport.Width = max(20, min(90, m.width-10))
	m.viewport.Height = max(6, m.height-10)
	if m.selected != nil {
		m.refreshDetail()
	}
}

func (m *Model) refreshDetail() {
	m.viewport.SetContent(m.formatDetail())
}

// describeError maps provider failures to a short user-visible notice.
func describeError(err error) string {
	switch {
	case errors.Is(err, tmdb.ErrNetwork):
		return "Network problem: could not reach the movie service"
	case errors.Is(err, tmdb.ErrProvider):
		return "The movie service rejected the request"
	case errors.Is(err, tmdb.ErrMalformed):
		return "The movie service sent an unexpected response"
	default:
		return "Something went wrong loading movies"
	}
}
