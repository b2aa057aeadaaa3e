package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	unitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	declStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// decl is one browsable item: a declaration of a decompiled unit, or the
// error that unit failed with.
type decl struct {
	err   error
	unit  string
	title string
	body  string
}

type browserState int

const (
	stateList browserState = iota
	stateView
)

type browserModel struct {
	decls    []decl
	view     viewport.Model
	selected int
	offset   int
	width    int
	height   int
	state    browserState
}

func newBrowser(units []unit) *browserModel {
	var decls []decl
	for _, u := range units {
		if u.err != nil {
			decls = append(decls, decl{unit: u.name, title: "decompilation failed", err: u.err})
			continue
		}
		for _, d := range splitDecls(u.text) {
			d.unit = u.name
			decls = append(decls, d)
		}
	}
	return &browserModel{
		decls:  decls,
		view:   viewport.New(80, 20),
		width:  80,
		height: 24,
	}
}

// splitDecls breaks rendered source into its top-level parts. Blank lines
// separate declarations and import groups inside a module or script block.
func splitDecls(text string) []decl {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) < 2 {
		return []decl{{title: strings.TrimSpace(text), body: text}}
	}
	header := strings.TrimSuffix(lines[0], " {")

	var out []decl
	var cur []string
	flush := func() {
		if len(cur) == 0 {
			return
		}
		title := strings.TrimSpace(cur[0])
		title = strings.TrimSuffix(strings.TrimSuffix(title, " {"), ";")
		out = append(out, decl{title: title, body: strings.Join(cur, "\n") + "\n"})
		cur = nil
	}
	for _, line := range lines[1 : len(lines)-1] {
		if line == "" {
			flush()
			continue
		}
		cur = append(cur, strings.TrimPrefix(line, "    "))
	}
	flush()
	if len(out) == 0 {
		return []decl{{title: header, body: text}}
	}
	return out
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.view.Width = msg.Width
		m.view.Height = max(msg.Height-4, 1)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateList && m.selected > 0 {
				m.selected--
				return m, nil
			}

		case "down", "j":
			if m.state == stateList && m.selected < len(m.decls)-1 {
				m.selected++
				return m, nil
			}

		case "enter":
			if m.state == stateList && len(m.decls) > 0 {
				m.open()
				return m, nil
			}

		case "esc":
			if m.state == stateView {
				m.state = stateList
				return m, nil
			}
		}
	}

	if m.state == stateView {
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *browserModel) open() {
	d := m.decls[m.selected]
	if d.err != nil {
		m.view.SetContent(errorStyle.Render(fmt.Sprintf("Error: %v", d.err)))
	} else {
		m.view.SetContent(d.body)
	}
	m.view.GotoTop()
	m.state = stateView
}

// listWindow keeps the selection visible in a list taller than the screen.
func (m *browserModel) listWindow() (from, to int) {
	rows := max(m.height-5, 1)
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
	return m.offset, min(m.offset+rows, len(m.decls))
}

func (m *browserModel) View() string {
	if len(m.decls) == 0 {
		return "Nothing to show.\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Move Decompiler"))
	b.WriteString("\n\n")

	switch m.state {
	case stateList:
		from, to := m.listWindow()
		for i := from; i < to; i++ {
			line := m.formatDecl(m.decls[i])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • q quit"))

	case stateView:
		d := m.decls[m.selected]
		b.WriteString(unitStyle.Render(d.unit))
		b.WriteString("\n")
		b.WriteString(m.view.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("↑/↓ scroll • esc back • q quit • %3.f%%", m.view.ScrollPercent()*100)))
	}
	return b.String()
}

func (m *browserModel) formatDecl(d decl) string {
	title := declStyle.Render(d.title)
	if d.err != nil {
		title = errorStyle.Render(d.title)
	}
	return unitStyle.Render(d.unit) + "  " + title
}

func runInteractive(units []unit) error {
	p := tea.NewProgram(newBrowser(units), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
