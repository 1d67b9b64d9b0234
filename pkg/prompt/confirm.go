package prompt

import (
	tea "github.com/charmbracelet/bubbletea"
)

type confirmModel struct {
	label string
	def   bool

	answer    bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "y", "Y":
		m.answer = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.answer = false
		m.done = true
		return m, tea.Quit
	case "enter":
		m.answer = m.def
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	hint := "(y/N)"
	if m.def {
		hint = "(Y/n)"
	}

	out := labelStyle.Render(m.label) + " " + dimStyle.Render(hint)
	if m.done {
		answer := "no"
		if m.answer {
			answer = "yes"
		}
		out += " " + answerStyle.Render(answer)
	}
	return out + "\n"
}
