package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/cwarden/fuzzydue/internal/fuzzy"
)

// showsMiniCalendar reports whether the period is small enough to
// highlight on a month grid.
func (m *Model) showsMiniCalendar() bool {
	switch m.period.Granularity() {
	case fuzzy.Day, fuzzy.Week, fuzzy.Month:
		return true
	}
	return false
}

// renderMiniCalendar renders the month holding the period start, with the
// days inside the period highlighted.
func (m *Model) renderMiniCalendar() string {
	var lines []string

	start := m.period.Time()
	lines = append(lines, m.styles.Header.Render(start.Format("January 2006")))
	lines = append(lines, weekdayHeader(m.calendar.WeekStart))

	firstDay := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	startOffset := (int(firstDay.Weekday()) - int(m.calendar.WeekStart) + 7) % 7

	// Build calendar grid
	day := firstDay.AddDate(0, 0, -startOffset)
	today := m.now().In(start.Location())

	for week := 0; week < 6; week++ {
		var weekDays []string
		for weekday := 0; weekday < 7; weekday++ {
			dayStr := fmt.Sprintf("%2d", day.Day())

			switch {
			case m.period.Contains(day):
				dayStr = m.styles.Selected.Render(dayStr)
			case day.Month() != start.Month():
				dayStr = m.styles.Help.Render(dayStr)
			case sameDay(day, today):
				dayStr = m.styles.Today.Render(dayStr)
			default:
				dayStr = m.styles.Normal.Render(dayStr)
			}
			weekDays = append(weekDays, dayStr)

			day = day.AddDate(0, 0, 1)
		}
		lines = append(lines, strings.Join(weekDays, " "))

		// Stop once the month is shown
		if day.Month() != start.Month() {
			break
		}
	}

	return m.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func weekdayHeader(weekStart time.Weekday) string {
	names := make([]string, 7)
	for i := range names {
		names[i] = ((weekStart + time.Weekday(i)) % 7).String()[:2]
	}
	return strings.Join(names, " ")
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
