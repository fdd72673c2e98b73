package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/bubble-arcade/internal/registry"
	"github.com/vovakirdan/bubble-arcade/internal/storage"
)

const (
	maxScores       = 100 // rows loaded per game
	playerColumnMax = 24
	youMarker       = " (you)"
)

// ScoreLister reads the leaderboard of a game.
type ScoreLister interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
	PlayerBest(gameID, player string) (int, error)
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Mine     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Mine, k.NextGame, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Mine},
		{k.NextGame, k.PrevGame, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next game"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev game"),
		),
		Mine: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mine/all"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// standing is the viewing player's position on the current board.
type standing struct {
	best int
	rank int // 1-based position among loaded scores, 0 when not listed
}

// ScoreboardModel shows the leaderboard of each game from the point of view
// of one player: their best run and rank, with a filter down to their own runs.
type ScoreboardModel struct {
	games      []registry.GameInfo
	gameCursor int
	store      ScoreLister // nil when no ledger is available
	player     string
	onlyMine   bool
	scores     []storage.ScoreEntry
	you        standing
	err        error

	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard for player. store may be nil.
func NewScoreboardModel(store ScoreLister, player string, width, height int) ScoreboardModel {
	if player == "" {
		player = storage.AnonymousPlayer
	}
	m := ScoreboardModel{
		games:  registry.List(),
		store:  store,
		player: player,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *ScoreboardModel) gameID() string {
	if len(m.games) == 0 {
		return ""
	}
	return m.games[m.gameCursor].ID
}

func (m *ScoreboardModel) createTable() table.Model {
	playerWidth := min(max(m.width-4-6-10-16-8, 10), playerColumnMax)
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: playerWidth},
		{Title: "Score", Width: 10},
		{Title: "Date", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load reads the current game's board and the player's standing on it.
func (m *ScoreboardModel) load() {
	m.scores, m.you, m.err = nil, standing{}, nil
	id := m.gameID()
	if m.store == nil || id == "" {
		m.refreshRows()
		return
	}

	scores, err := m.store.TopScores(id, maxScores)
	if err != nil {
		m.err = err
		m.refreshRows()
		return
	}
	m.scores = scores

	for i, s := range scores {
		if s.Player == m.player {
			m.you = standing{best: s.Score, rank: i + 1}
			break
		}
	}
	if m.you.rank == 0 {
		// Outside the loaded rows; ask the ledger directly.
		best, err := m.store.PlayerBest(id, m.player)
		if err != nil {
			m.err = err
		}
		m.you.best = best
	}
	m.refreshRows()
}

// refreshRows rebuilds the table rows for the active filter. Ranks stay
// global so filtered rows show where each run placed.
func (m *ScoreboardModel) refreshRows() {
	rows := make([]table.Row, 0, len(m.scores))
	for i, s := range m.scores {
		mine := s.Player == m.player
		if m.onlyMine && !mine {
			continue
		}
		name := s.Player
		if mine {
			name += youMarker
		}
		rows = append(rows, table.Row{
			"#" + strconv.Itoa(i+1),
			name,
			strconv.Itoa(s.Score),
			s.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Mine):
			m.onlyMine = !m.onlyMine
			m.refreshRows()
			return m, nil

		case key.Matches(msg, m.keys.NextGame):
			m.cycleGame(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			m.cycleGame(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.refreshRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *ScoreboardModel) cycleGame(delta int) {
	if len(m.games) < 2 {
		return
	}
	m.gameCursor = (m.gameCursor + delta + len(m.games)) % len(m.games)
	m.load()
}

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardNoteStyle  = boardDimStyle.Italic(true).Padding(2, 4)
	boardFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	filterOnStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
	filterOffStyle = boardDimStyle.Padding(0, 1)
)

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "HIGH SCORES"
	if len(m.games) > 0 {
		title += " - " + m.games[m.gameCursor].Title
	}
	if len(m.games) > 1 {
		title = "< " + title + " >"
	}
	b.WriteString(centerStyled(boardTitleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerStyled(m.renderStanding(), m.width))
	b.WriteString("\n")
	b.WriteString(centerStyled(m.renderFilter(), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerStyled(boardFrameStyle.Render(m.renderTableContent()), m.width))
	b.WriteString("\n")
	b.WriteString(boardDimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m ScoreboardModel) renderStanding() string {
	switch {
	case m.store == nil || m.err != nil:
		return boardDimStyle.Render(m.player)
	case m.you.best == 0 && m.you.rank == 0:
		return fmt.Sprintf("%s  %s", boardTitleStyle.Render(m.player), boardDimStyle.Render("no runs yet"))
	case m.you.rank == 0:
		return fmt.Sprintf("%s  best %d  %s", boardTitleStyle.Render(m.player), m.you.best,
			boardDimStyle.Render(fmt.Sprintf("outside the top %d", maxScores)))
	default:
		return fmt.Sprintf("%s  best %d  rank #%d", boardTitleStyle.Render(m.player), m.you.best, m.you.rank)
	}
}

func (m ScoreboardModel) renderFilter() string {
	all, mine := filterOnStyle, filterOffStyle
	if m.onlyMine {
		all, mine = filterOffStyle, filterOnStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, all.Render("All"), " ", mine.Render("Mine"))
}

func (m ScoreboardModel) renderTableContent() string {
	switch {
	case m.store == nil || m.err != nil:
		return boardNoteStyle.Render("Scores are unavailable.")
	case len(m.scores) == 0:
		return boardNoteStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	case m.onlyMine && m.you.rank == 0:
		return boardNoteStyle.Render("None of your runs made the board yet.")
	}
	return m.table.View()
}

// Rows returns the visible table rows.
func (m ScoreboardModel) Rows() []table.Row {
	return m.table.Rows()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen for player.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store ScoreLister, player string, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewScoreboardModel(store, player, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
