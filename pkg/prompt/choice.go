package prompt

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type selectModel struct {
	label   string
	options []string
	cursor  int

	done      bool
	cancelled bool
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "enter":
		if len(m.options) > 0 {
			m.done = true
		}
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	}
	return m, nil
}

func (m selectModel) View() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(m.label))
	if m.done {
		b.WriteString(" " + answerStyle.Render(m.options[m.cursor]) + "\n")
		return b.String()
	}
	b.WriteString("\n")

	if len(m.options) == 0 {
		b.WriteString(dimStyle.Render("  (no options)") + "\n")
		return b.String()
	}
	for i, opt := range m.options {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "+opt) + "\n")
		} else {
			b.WriteString("  " + opt + "\n")
		}
	}
	return b.String()
}
