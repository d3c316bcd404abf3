package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/shape-drop/internal/registry"
)

// MenuModel is the Bubble Tea model for the layout picker.
type MenuModel struct {
	items          []registry.LayoutInfo
	cursor         int
	width          int
	height         int
	keys           MenuKeyMap
	help           help.Model
	theme          Theme
	quitting       bool
	selected       *registry.LayoutInfo // Set when user selects a layout
	openScoreboard bool                 // True if user pressed Tab for scores
}

// scoreboardKey opens the scoreboard from the menu.
var scoreboardKey = key.NewBinding(
	key.WithKeys("tab"),
	key.WithHelp("tab", "scores"),
)

// NewMenuModel creates a new menu model. The cursor starts on preferred
// when it is registered.
func NewMenuModel(theme Theme, preferred string, width, height int) MenuModel {
	items := registry.List()

	cursor := 0
	for i, item := range items {
		if item.Name == preferred {
			cursor = i
		}
	}

	return MenuModel{
		items:  items,
		cursor: cursor,
		width:  width,
		height: height,
		keys:   DefaultMenuKeyMap(),
		help:   help.New(),
		theme:  theme,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start playing
		}

	case key.Matches(msg, scoreboardKey):
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("  S H A P E   D R O P  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.theme.MenuDescription.Render("Drag each shape onto its twin before time runs out"), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Name
		style := m.theme.MenuItemNormal
		if i == m.cursor {
			line = "> " + item.Name
			style = m.theme.MenuItemActive
		}
		b.WriteString(centerText(style.Render(line)+"  "+m.theme.MenuDescription.Render(item.Description), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.Help.Render(m.help.ShortHelpView(append(m.keys.ShortHelp(), scoreboardKey))), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected layout, or nil if none selected.
func (m MenuModel) Selected() *registry.LayoutInfo {
	return m.selected
}

// selectedName returns the chosen layout, or the one under the cursor.
func (m MenuModel) selectedName() string {
	if m.selected != nil {
		return m.selected.Name
	}
	if len(m.items) > 0 {
		return m.items[m.cursor].Name
	}
	return ""
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested the scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Layout          string
	Width           int
	Height          int
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(theme Theme, preferred string, width, height int) (MenuResult, error) {
	model := NewMenuModel(theme, preferred, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Quit: true}, nil
	}

	result := MenuResult{Width: m.width, Height: m.height}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.Selected() != nil:
		result.Layout = m.Selected().Name
	default:
		result.Quit = true
	}
	return result, nil
}
