package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/cwarden/fuzzydue/internal/due"
	"github.com/cwarden/fuzzydue/internal/fuzzy"
)

func (m *Model) viewPeriod() string {
	var tasks []string

	tasks = append(tasks, m.styles.Normal.Render(fmt.Sprintf("Due (%d)", len(m.within))))
	if len(m.within) == 0 {
		tasks = append(tasks, m.styles.Help.Render("  Nothing due."))
	}
	for _, task := range m.within {
		tasks = append(tasks, m.renderTask(task, m.styles.Task))
	}

	if len(m.overlapping) > 0 {
		tasks = append(tasks, "")
		tasks = append(tasks, m.styles.Normal.Render(fmt.Sprintf("Overlapping (%d)", len(m.overlapping))))
		for _, task := range m.overlapping {
			tasks = append(tasks, m.renderTask(task, m.styles.Overlap))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, tasks...)
	if m.showsMiniCalendar() {
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(m.listWidth()).Render(content),
			m.renderMiniCalendar(),
		)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render(m.period.Label()),
		m.renderSequence(),
		"",
		content,
	)

	// Keep the status bar on the last line.
	if pad := m.height - lipgloss.Height(body) - 1; pad > 0 {
		body += strings.Repeat("\n", pad)
	}
	return body + "\n" + m.renderStatusBar()
}

// miniCalendarWidth covers the 20 column grid plus border and padding.
const miniCalendarWidth = 24

func (m *Model) listWidth() int {
	if !m.showsMiniCalendar() {
		return m.width
	}
	return m.width - miniCalendarWidth - 1
}

// renderSequence shows the configured granularities with the current one
// highlighted.
func (m *Model) renderSequence() string {
	var parts []string
	for _, g := range m.config.Sequence {
		if g == m.period.Granularity() {
			parts = append(parts, m.styles.Selected.Render(" "+g.Name()+" "))
		} else {
			parts = append(parts, m.styles.Help.Render(" "+g.Name()+" "))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderTask(task due.Task, style lipgloss.Style) string {
	label := "Someday"
	if task.HasDue() {
		label = dueLabel(*task.Due, m.config.DateFormat)
	}
	prefix := fmt.Sprintf("  %-22s ", label)

	width := m.listWidth() - lipgloss.Width(prefix)
	if width < 10 {
		width = 10
	}
	name := task.Name
	if len(task.Tags) > 0 {
		tags := append([]string(nil), task.Tags...)
		sort.Strings(tags)
		name += " @" + strings.Join(tags, " @")
	}
	lines := strings.Split(wordwrap.String(name, width), "\n")
	indent := strings.Repeat(" ", lipgloss.Width(prefix))
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}

	if task.Completed {
		style = m.styles.Done
	}
	return m.styles.Help.Render(prefix) + style.Render(strings.Join(lines, "\n"))
}

// dueLabel is shorter than Label and respects the configured date format
// for day precision.
func dueLabel(t fuzzy.Time, dateFormat string) string {
	switch t.Granularity() {
	case fuzzy.Day:
		return t.Time().Format(dateFormat)
	case fuzzy.Week:
		return "wk " + t.Time().Format(dateFormat)
	}
	return t.Label()
}

func (m *Model) viewHelp() string {
	actions := []struct {
		action, description string
	}{
		{"next", "Next period"},
		{"prev", "Previous period"},
		{"coarser", "Coarser granularity"},
		{"finer", "Finer granularity"},
		{"today", "Go to the current period"},
		{"phrase", "Jump to a phrase (today, next week, last month...)"},
		{"refresh", "Reload tasks"},
		{"help", "Toggle help"},
		{"quit", "Quit"},
	}

	keys := make(map[string][]string)
	for key, action := range m.config.KeyBindings {
		keys[action] = append(keys[action], key)
	}

	help := []string{
		m.styles.Header.Render("fuzzydue Help"),
		"",
	}
	for _, a := range actions {
		bound := keys[a.action]
		sort.Strings(bound)
		help = append(help, m.styles.Help.Render(fmt.Sprintf("  %-12s - %s", strings.Join(bound, "/"), a.description)))
	}
	help = append(help, "", m.styles.Help.Render("Press any key to return..."))

	return lipgloss.JoinVertical(lipgloss.Left, help...)
}

func (m *Model) viewPhrase() string {
	var sections []string

	sections = append(sections, m.styles.Header.Render("Go to"))
	sections = append(sections, "")
	sections = append(sections, m.styles.Normal.Render("Enter a phrase (e.g., 'next week', 'last month', 'tomorrow'):"))
	sections = append(sections, m.styles.Selected.Render(m.inputBuffer+"█"))
	sections = append(sections, "")
	sections = append(sections, m.styles.Help.Render("Enter to go, Esc to cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderStatusBar() string {
	left := fmt.Sprintf(" %s | Due: %d", m.period.Granularity(), len(m.within))

	right := "? for help | q to quit"

	if m.message != "" {
		right = m.styles.Message.Render(m.message)
	}

	width := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if width < 0 {
		width = 0
	}

	middle := strings.Repeat(" ", width)

	return m.styles.Help.Render(left + middle + right)
}
