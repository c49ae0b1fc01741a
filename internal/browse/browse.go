// Package browse is an interactive terminal browser for a snapshot tree.
package browse

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"casview/internal/explorer"
	"casview/internal/view"
)

type fetchedMsg explorer.Update

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	sizeStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#7A5600", Dark: "#F1FA8C"})
	digestStyle = lipgloss.NewStyle().Faint(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// Model is a Bubble Tea model. Listings are fetched in commands and applied
// in Update, so the explorer state is only touched by the event loop.
type Model struct {
	ctx      context.Context
	explorer *explorer.Explorer
	glyphs   view.Glyphs
	title    string

	rows    []view.Row
	cursor  int
	offset  int
	height  int
	loading int
}

func New(ctx context.Context, e *explorer.Explorer, glyphs view.Glyphs, title string) Model {
	return Model{
		ctx:      ctx,
		explorer: e,
		glyphs:   glyphs,
		title:    title,
		rows:     e.Rows(),
		height:   20,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// title and help lines
		m.height = max(1, msg.Height-3)
		m.scroll()
		return m, nil

	case fetchedMsg:
		m.explorer.Apply(explorer.Update(msg))
		m.loading--
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = len(m.rows) - 1
		case "enter", " ", "space":
			if len(m.rows) == 0 {
				return m, nil
			}
			m.explorer.Renderer().Click(m.rows[m.cursor])
			m.refresh()
			cmd := m.fetchPending()
			return m, cmd
		}
		m.scroll()
	}
	return m, nil
}

func (m *Model) refresh() {
	m.rows = m.explorer.Rows()
	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
	m.scroll()
}

func (m *Model) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *Model) fetchPending() tea.Cmd {
	keys := m.explorer.Pending()
	if len(keys) == 0 {
		return nil
	}

	ctx, e := m.ctx, m.explorer
	cmds := make([]tea.Cmd, 0, len(keys))
	for _, key := range keys {
		m.loading++
		cmds = append(cmds, func() tea.Msg {
			return fetchedMsg(e.Fetch(ctx, key))
		})
	}
	return tea.Batch(cmds...)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	end := min(len(m.rows), m.offset+m.height)
	for i := m.offset; i < end; i++ {
		row := m.rows[i]
		line := m.glyphs.For(row.Icon) + " " + row.Node.Name
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		if row.HasSize {
			line += "  " + sizeStyle.Render(row.SizeLabel)
		}
		if row.DigestLabel != "" {
			line += "  " + digestStyle.Render(row.DigestLabel)
		}
		b.WriteString(strings.Repeat("  ", row.Depth))
		b.WriteString(line)
		b.WriteString("\n")
	}

	help := "↑/↓ move • enter toggle • q quit"
	if m.loading > 0 {
		help = fmt.Sprintf("loading %d… • %s", m.loading, help)
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

// Cursor returns the index of the selected row.
func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) Rows() []view.Row {
	return m.rows
}
