package ui

import (
	"fmt"
	"time"

	"github.com/cwarden/fuzzydue/internal/config"
	"github.com/cwarden/fuzzydue/internal/due"
	"github.com/cwarden/fuzzydue/internal/fuzzy"
	"github.com/cwarden/fuzzydue/internal/parser"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ViewMode int

const (
	ViewPeriod ViewMode = iota
	ViewHelp
	ViewPhrase
)

type Model struct {
	// Core components
	config   *config.Config
	store    *due.Store
	changes  <-chan due.FileChangeEvent
	parser   *parser.PhraseParser
	calendar fuzzy.Calendar
	now      func() time.Time

	// View state
	mode        ViewMode
	period      fuzzy.Time
	within      []due.Task
	overlapping []due.Task

	// UI state
	width   int
	height  int
	message string

	// Phrase input state
	inputBuffer string

	// Styles
	styles Styles
}

type Styles struct {
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Task     lipgloss.Style
	Overlap  lipgloss.Style
	Done     lipgloss.Style
	Help     lipgloss.Style
	Message  lipgloss.Style
	Today    lipgloss.Style
	Border   lipgloss.Style
}

type tickMsg time.Time

type tasksChangedMsg due.FileChangeEvent

type messageTimeoutMsg struct{}

// NewModel starts on the configured granularity around now. changes may
// be nil when the store is not being watched.
func NewModel(cfg *config.Config, store *due.Store, changes <-chan due.FileChangeEvent, now func() time.Time) (*Model, error) {
	if now == nil {
		now = time.Now
	}

	cal := cfg.Calendar()
	p := parser.NewPhraseParser(cal)
	p.SetNow(now())

	period, err := cal.Build(now(), cfg.StartupGranularity)
	if err != nil {
		return nil, err
	}

	m := &Model{
		config:   cfg,
		store:    store,
		changes:  changes,
		parser:   p,
		calendar: cal,
		now:      now,
		mode:     ViewPeriod,
		period:   period,
		styles:   NewStyles(cfg.Colors),
	}
	m.loadTasks()
	return m, nil
}

func NewStyles(colors map[string]string) Styles {
	color := func(name, fallback string) lipgloss.Color {
		if c, ok := colors[name]; ok && c != "" {
			return lipgloss.Color(c)
		}
		return lipgloss.Color(fallback)
	}

	return Styles{
		Normal: lipgloss.NewStyle().
			Foreground(color("normal", "252")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(color("selected", "220")).
			Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(color("header", "220")).
			Bold(true).
			Underline(true),
		Task: lipgloss.NewStyle().
			Foreground(color("task", "40")),
		Overlap: lipgloss.NewStyle().
			Foreground(color("overlap", "39")),
		Done: lipgloss.NewStyle().
			Foreground(color("done", "241")).
			Strikethrough(true),
		Help: lipgloss.NewStyle().
			Foreground(color("help", "241")),
		Message: lipgloss.NewStyle().
			Foreground(color("selected", "220")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		Today: lipgloss.NewStyle().
			Foreground(color("today", "214")).
			Bold(true),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color("help", "241")).
			Padding(0, 1),
	}
}

// Period is the period currently shown.
func (m *Model) Period() fuzzy.Time {
	return m.period
}

func (m *Model) Mode() ViewMode {
	return m.mode
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.waitForChange(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tickMsg:
		if m.config.AutoRefresh {
			m.reload()
			return m, m.tickCmd()
		}
		return m, nil

	case tasksChangedMsg:
		m.loadTasks()
		return m, tea.Batch(m.showMessage("Tasks changed: "+msg.Path), m.waitForChange())

	case messageTimeoutMsg:
		m.message = ""
		return m, nil
	}

	return m, nil
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ViewHelp:
		return m.viewHelp()
	case ViewPhrase:
		return m.viewPhrase()
	default:
		return m.viewPeriod()
	}
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ViewPhrase:
		return m.handlePhraseKeys(msg)
	case ViewHelp:
		m.mode = ViewPeriod
		return m, nil
	}

	var err error
	switch m.config.Action(msg.String()) {
	case "quit":
		return m, tea.Quit

	case "help":
		m.mode = ViewHelp
		return m, nil

	case "next":
		err = m.navigate(m.period.Next)

	case "prev":
		err = m.navigate(m.period.Prev)

	case "coarser":
		err = m.navigate(func() (fuzzy.Time, error) {
			return m.period.Coarser(m.config.Sequence)
		})

	case "finer":
		err = m.navigate(m.finer)

	case "today":
		err = m.navigate(func() (fuzzy.Time, error) {
			return m.calendar.Build(m.now(), m.period.Granularity())
		})

	case "refresh":
		m.reload()
		return m, m.showMessage(fmt.Sprintf("Refreshed - %d tasks", len(m.store.Tasks())))

	case "phrase":
		m.mode = ViewPhrase
		m.inputBuffer = ""
		return m, nil
	}

	if err != nil {
		return m, m.showMessage(err.Error())
	}
	return m, nil
}

func (m *Model) handlePhraseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ViewPeriod
		m.inputBuffer = ""
		return m, nil

	case tea.KeyEnter:
		m.mode = ViewPeriod
		m.parser.SetNow(m.now())
		input := m.inputBuffer
		m.inputBuffer = ""
		period, ok := m.parser.Parse(input)
		if !ok {
			return m, m.showMessage(fmt.Sprintf("Could not understand %q", input))
		}
		m.period = period
		m.loadTasks()
		return m, nil

	case tea.KeyBackspace:
		if len(m.inputBuffer) > 0 {
			runes := []rune(m.inputBuffer)
			m.inputBuffer = string(runes[:len(runes)-1])
		}
		return m, nil

	case tea.KeySpace:
		m.inputBuffer += " "
		return m, nil

	case tea.KeyRunes:
		m.inputBuffer += string(msg.Runes)
		return m, nil
	}

	return m, nil
}

// finer steps down the sequence. Forever has no start worth keeping, so
// leaving it lands on the period around now.
func (m *Model) finer() (fuzzy.Time, error) {
	if m.period.Granularity() != fuzzy.Forever {
		return m.period.Finer(m.config.Sequence)
	}
	g, err := m.config.Sequence.Prev(fuzzy.Forever)
	if err != nil {
		return fuzzy.Time{}, err
	}
	return m.calendar.Build(m.now(), g)
}

func (m *Model) navigate(move func() (fuzzy.Time, error)) error {
	period, err := move()
	if err != nil {
		return err
	}
	m.period = period
	m.loadTasks()
	return nil
}

func (m *Model) reload() {
	if err := m.store.Reload(); err != nil {
		m.message = err.Error()
	}
	m.loadTasks()
}

func (m *Model) loadTasks() {
	m.within = m.store.DueWithin(m.period)
	m.overlapping = m.store.Overlapping(m.period)
}

func (m *Model) tickCmd() tea.Cmd {
	if !m.config.AutoRefresh || m.config.RefreshRate <= 0 {
		return nil
	}
	return tea.Tick(m.config.RefreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		event, ok := <-changes
		if !ok {
			return nil
		}
		return tasksChangedMsg(event)
	}
}

func (m *Model) showMessage(msg string) tea.Cmd {
	m.message = msg
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return messageTimeoutMsg{}
	})
}
