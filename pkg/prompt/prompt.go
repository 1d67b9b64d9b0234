// Package prompt implements the api.Prompter interface with interactive
// bubbletea widgets: free text with autocomplete, yes/no confirmation, a
// calendar date picker and a single-choice list.
package prompt

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spendnote/spendnote/pkg/api"
)

var (
	labelStyle    = lipgloss.NewStyle().Bold(true)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

// Terminal prompts the operator on the controlling terminal. It
// implements api.Prompter. The zero value is ready to use.
type Terminal struct{}

// New returns a terminal prompter.
func New() *Terminal {
	return &Terminal{}
}

// run executes one prompt program to completion and returns its final
// model.
func run(m tea.Model) (tea.Model, error) {
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	return final, nil
}

// Text reads a free-text line, showing autocomplete suggestions from
// complete as the operator types.
func (t *Terminal) Text(label string, complete func(string) []string) (string, error) {
	final, err := run(newTextModel(label, complete))
	if err != nil {
		return "", err
	}
	m := final.(textModel)
	if m.cancelled {
		return "", api.ErrCancelled
	}
	return m.input.Value(), nil
}

// Confirm reads a yes/no answer, submitting def on a bare Enter.
func (t *Terminal) Confirm(label string, def bool) (bool, error) {
	final, err := run(confirmModel{label: label, def: def})
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.cancelled {
		return false, api.ErrCancelled
	}
	return m.answer, nil
}

// Date selects a calendar date between min and max, starting on def.
func (t *Terminal) Date(label string, def, min, max time.Time) (time.Time, error) {
	final, err := run(newDateModel(label, def, min, max))
	if err != nil {
		return time.Time{}, err
	}
	m := final.(dateModel)
	if m.cancelled {
		return time.Time{}, api.ErrCancelled
	}
	return m.cursor, nil
}

// Select picks one of options, with the cursor starting at the given
// index, and returns the selected index. An empty option list is shown
// as-is and dismissed with -1.
func (t *Terminal) Select(label string, options []string, cursor int) (int, error) {
	if cursor < 0 || cursor >= len(options) {
		cursor = 0
	}
	final, err := run(selectModel{label: label, options: options, cursor: cursor})
	if err != nil {
		return 0, err
	}
	m := final.(selectModel)
	if m.cancelled {
		return 0, api.ErrCancelled
	}
	if !m.done {
		return -1, nil
	}
	return m.cursor, nil
}
