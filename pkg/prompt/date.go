package prompt

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// dateModel is a month-view calendar. Weeks start on Monday and the
// cursor is clamped to the [min, max] range.
type dateModel struct {
	label  string
	cursor time.Time
	min    time.Time
	max    time.Time

	done      bool
	cancelled bool
}

func newDateModel(label string, def, min, max time.Time) dateModel {
	return dateModel{
		label:  label,
		cursor: clampDate(truncateDate(def), truncateDate(min), truncateDate(max)),
		min:    truncateDate(min),
		max:    truncateDate(max),
	}
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func clampDate(t, min, max time.Time) time.Time {
	if t.Before(min) {
		return min
	}
	if t.After(max) {
		return max
	}
	return t
}

func (m dateModel) Init() tea.Cmd {
	return nil
}

func (m dateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "enter":
		m.done = true
		return m, tea.Quit
	case "left", "h":
		m.move(0, 0, -1)
	case "right", "l":
		m.move(0, 0, 1)
	case "up", "k":
		m.move(0, 0, -7)
	case "down", "j":
		m.move(0, 0, 7)
	case "pgup":
		m.move(0, -1, 0)
	case "pgdown":
		m.move(0, 1, 0)
	}
	return m, nil
}

func (m *dateModel) move(years, months, days int) {
	m.cursor = clampDate(m.cursor.AddDate(years, months, days), m.min, m.max)
}

// mondayWeekday maps time.Weekday to a Monday-first column index.
func mondayWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func (m dateModel) View() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(m.label))
	if m.done {
		b.WriteString(" " + answerStyle.Render(m.cursor.Format("2006-01-02")) + "\n")
		return b.String()
	}

	b.WriteString(" " + m.cursor.Format("January 2006") + "\n")
	b.WriteString(dimStyle.Render("Mo Tu We Th Fr Sa Su") + "\n")

	first := time.Date(m.cursor.Year(), m.cursor.Month(), 1, 0, 0, 0, 0, m.cursor.Location())
	col := mondayWeekday(first.Weekday())
	b.WriteString(strings.Repeat("   ", col))

	for day := first; day.Month() == m.cursor.Month(); day = day.AddDate(0, 0, 1) {
		cell := fmt.Sprintf("%2d", day.Day())
		switch {
		case day.Equal(m.cursor):
			cell = cursorStyle.Render(cell)
		case day.Before(m.min) || day.After(m.max):
			cell = dimStyle.Render(cell)
		}
		b.WriteString(cell)

		col++
		if col == 7 {
			col = 0
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("arrows move, pgup/pgdn month, enter select") + "\n")
	return b.String()
}
