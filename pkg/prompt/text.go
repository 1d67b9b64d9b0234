package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// maxSuggestions caps how many autocomplete entries are shown at once.
const maxSuggestions = 5

type textModel struct {
	label    string
	input    textinput.Model
	complete func(string) []string

	suggestions []string
	highlight   int

	done      bool
	cancelled bool
}

func newTextModel(label string, complete func(string) []string) textModel {
	inp := textinput.New()
	inp.Prompt = ""
	inp.Focus()

	m := textModel{label: label, input: inp, complete: complete, highlight: -1}
	m.refresh()
	return m
}

func (m textModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		case "up":
			if len(m.suggestions) > 0 {
				m.highlight--
				if m.highlight < 0 {
					m.highlight = len(m.suggestions) - 1
				}
			}
			return m, nil
		case "down":
			if len(m.suggestions) > 0 {
				m.highlight = (m.highlight + 1) % len(m.suggestions)
			}
			return m, nil
		case "tab":
			if s := m.highlighted(); s != "" {
				m.input.SetValue(s)
				m.input.CursorEnd()
				m.refresh()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refresh()
	return m, cmd
}

// highlighted returns the suggestion to complete with: the selected one,
// or the only match when exactly one remains.
func (m textModel) highlighted() string {
	if m.highlight >= 0 && m.highlight < len(m.suggestions) {
		return m.suggestions[m.highlight]
	}
	if len(m.suggestions) == 1 {
		return m.suggestions[0]
	}
	return ""
}

func (m *textModel) refresh() {
	if m.complete == nil {
		return
	}
	m.suggestions = m.complete(m.input.Value())
	m.highlight = -1
}

func (m textModel) View() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(m.label))
	b.WriteString(" ")
	if m.done {
		b.WriteString(answerStyle.Render(m.input.Value()))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")

	shown := m.suggestions
	if len(shown) > maxSuggestions {
		shown = shown[:maxSuggestions]
	}
	for i, s := range shown {
		if i == m.highlight {
			b.WriteString(selectedStyle.Render("> " + s))
		} else {
			b.WriteString(dimStyle.Render("  " + s))
		}
		b.WriteString("\n")
	}
	return b.String()
}
