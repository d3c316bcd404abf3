package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/shape-drop/internal/core"
	"github.com/vovakirdan/shape-drop/internal/session"
	"github.com/vovakirdan/shape-drop/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the summary sidebar
	sidebarWidth       = 24  // Width of the summary sidebar
	maxRows            = 100 // Max records to load
)

// ScoreSource is the read side of the stats store.
// *storage.Store implements it.
type ScoreSource interface {
	RecentLevelStats(ctx context.Context, player string, limit int) ([]session.LevelStats, error)
	TopTotals(ctx context.Context, limit int) ([]storage.PlayerBest, error)
	Summary(ctx context.Context, player string) (*storage.Summary, error)
}

// scoreboardView selects what the table lists.
type scoreboardView int

const (
	viewRecent scoreboardView = iota
	viewTop
)

func (v scoreboardView) String() string {
	if v == viewTop {
		return "Top players"
	}
	return "Recent levels"
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	SwitchView key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.SwitchView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchView},
		{k.Back, k.Quit},
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
		SwitchView: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "recent/top"),
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

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	source      ScoreSource
	player      string // Empty lists every player
	view        scoreboardView
	recent      []session.LevelStats
	top         []storage.PlayerBest
	summary     *storage.Summary
	loadErr     error
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(source ScoreSource, player string, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		source:      source,
		player:      player,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.load()
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// load fetches every view at once; the data set is small.
func (m *ScoreboardModel) load() {
	if m.source == nil {
		return
	}
	ctx := context.Background()

	var err error
	if m.recent, err = m.source.RecentLevelStats(ctx, m.player, maxRows); err != nil {
		m.loadErr = err
		return
	}
	if m.top, err = m.source.TopTotals(ctx, maxRows); err != nil {
		m.loadErr = err
		return
	}
	if m.summary, err = m.source.Summary(ctx, m.player); err != nil {
		m.loadErr = err
	}
}

// createTable creates a new table with columns for the current view.
func (m *ScoreboardModel) createTable() table.Model {
	var columns []table.Column
	switch m.view {
	case viewTop:
		columns = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Player", Width: 16},
			{Title: "Best", Width: 8},
			{Title: "Level", Width: 7},
			{Title: "Last played", Width: 14},
		}
	default:
		columns = []table.Column{
			{Title: "Level", Width: 7},
			{Title: "+Score", Width: 8},
			{Title: "Total", Width: 8},
			{Title: "Time", Width: 8},
			{Title: "Date", Width: 14},
		}
		if m.player == "" {
			columns = append(columns, table.Column{Title: "Player", Width: 12})
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(core.Max(m.height-8, 1)), // Leave room for header, help, and margins
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

// updateTableRows fills the table from the loaded records.
func (m *ScoreboardModel) updateTableRows() {
	var rows []table.Row
	switch m.view {
	case viewTop:
		rows = make([]table.Row, len(m.top))
		for i, b := range m.top {
			rows[i] = table.Row{
				fmt.Sprintf("#%d", i+1),
				displayPlayer(b.Player),
				fmt.Sprintf("%d", b.BestTotal),
				fmt.Sprintf("%d", b.BestLevel),
				b.LastPlayed.Format("Jan 02 15:04"),
			}
		}
	default:
		rows = make([]table.Row, len(m.recent))
		for i, st := range m.recent {
			row := table.Row{
				fmt.Sprintf("%d", st.Level),
				fmt.Sprintf("+%d", st.LevelScore),
				fmt.Sprintf("%d", st.TotalScore),
				fmt.Sprintf("%.1fs", st.Duration.Seconds()),
				st.Timestamp.Format("Jan 02 15:04"),
			}
			if m.player == "" {
				row = append(row, displayPlayer(st.Player))
			}
			rows[i] = row
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func displayPlayer(name string) string {
	if name == "" {
		return "(anonymous)"
	}
	return name
}

// rowCount returns the rows of the current view.
func (m ScoreboardModel) rowCount() int {
	if m.view == viewTop {
		return len(m.top)
	}
	return len(m.recent)
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

		case key.Matches(msg, m.keys.SwitchView):
			m.view = (m.view + 1) % 2
			m.table = m.createTable()
			m.updateTableRows()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "SHAPE DROP - " + strings.ToUpper(m.view.String())
	if m.player != "" {
		title += " - " + m.player
	}

	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tableRendered := tableStyle.Render(m.renderTableContent())

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSummary(), "  ", tableRendered))
	} else {
		b.WriteString(centerText(tableRendered, m.width))
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderSummary renders the aggregated stats panel.
func (m ScoreboardModel) renderSummary() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sb strings.Builder
	sb.WriteString("Summary\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	if s := m.summary; s != nil {
		fmt.Fprintf(&sb, "Levels:   %d\n", s.LevelsCleared)
		fmt.Fprintf(&sb, "Sessions: %d\n", s.Sessions)
		fmt.Fprintf(&sb, "Best:     %d\n", s.BestTotal)
		fmt.Fprintf(&sb, "Top lvl:  %d\n", s.BestLevel)
		fmt.Fprintf(&sb, "Avg time: %.1fs\n", s.AvgDuration.Seconds())
		if !s.LastPlayed.IsZero() {
			fmt.Fprintf(&sb, "Last:     %s", s.LastPlayed.Format("Jan 02"))
		}
	} else {
		sb.WriteString("No data")
	}

	return sidebarStyle.Render(sb.String())
}

// renderTableContent renders the table or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.loadErr != nil {
		return emptyStyle.Render(fmt.Sprintf("Cannot load stats:\n%v", m.loadErr))
	}
	if m.rowCount() == 0 {
		return emptyStyle.Render("No levels cleared yet.\nClear a level to get on the board!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// centerText pads text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunScoreboard runs the scoreboard screen. It reports whether the user
// asked to go back rather than quit.
func RunScoreboard(source ScoreSource, player string, width, height int) (bool, error) {
	model := NewScoreboardModel(source, player, width, height)

	p := tea.NewProgram(
		model,
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
