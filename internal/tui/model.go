package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AvengeMedia/danktk/internal/wayland"
)

const (
	maxLines     = 2000
	headerHeight = 5
	footerHeight = 2
)

// EventSource is the dispatcher event stream, normally Manager.Events().
type EventSource interface {
	Next(ctx context.Context) (wayland.Event, bool)
}

type eventMsg struct {
	event wayland.Event
	at    time.Time
}

type streamClosedMsg struct{}

type Model struct {
	ctx    context.Context
	source EventSource
	title  string

	styles   Styles
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	lines      []string
	counts     map[string]int
	total      int
	showNoise  bool
	paused     bool
	closed     bool
	fatal      error
	pausedSeen int
}

func NewModel(ctx context.Context, source EventSource, title string) Model {
	return Model{
		ctx:    ctx,
		source: source,
		title:  title,
		styles: NewStyles(PurpleTheme()),
		counts: make(map[string]int),
	}
}

func (m Model) Init() tea.Cmd {
	return m.listenForEvents()
}

func (m Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		ev, ok := m.source.Next(m.ctx)
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg{event: ev, at: time.Now()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		height := max(msg.Height-headerHeight-footerHeight, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "p", " ":
			m.paused = !m.paused
			if !m.paused {
				m.pausedSeen = 0
				m.refresh()
			}
			return m, nil
		case "n":
			m.showNoise = !m.showNoise
			return m, nil
		case "c":
			m.lines = nil
			m.refresh()
			return m, nil
		}

	case eventMsg:
		m.record(msg)
		if fatal, ok := msg.event.(wayland.Fatal); ok {
			m.fatal = fatal.Err
		}
		return m, m.listenForEvents()

	case streamClosedMsg:
		m.closed = true
		return m, nil
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) record(msg eventMsg) {
	kind := eventKind(msg.event)
	m.counts[kind]++
	m.total++

	if !m.showNoise && isNoise(msg.event) {
		return
	}

	line := fmt.Sprintf("%s %s %s",
		m.styles.Subtle.Render(msg.at.Format("15:04:05.000")),
		m.styles.Kind.Render(kind),
		m.styles.Normal.Render(describe(msg.event)))
	if _, ok := msg.event.(wayland.Fatal); ok {
		line = m.styles.Error.Render(fmt.Sprintf("%s %s", kind, describe(msg.event)))
	}

	m.lines = append(m.lines, line)
	if len(m.lines) > maxLines {
		m.lines = m.lines[len(m.lines)-maxLines:]
	}

	if m.paused {
		m.pausedSeen++
		return
	}
	m.refresh()
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Waiting for terminal size..."
	}

	var b strings.Builder
	b.WriteString(m.renderBanner())
	b.WriteString("  ")
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) statusLine() string {
	status := fmt.Sprintf("%d events", m.total)
	switch {
	case m.fatal != nil:
		status = m.styles.Error.Render("fatal: " + m.fatal.Error())
	case m.closed:
		status += " | stream closed"
	case m.paused:
		status += fmt.Sprintf(" | paused (%d new)", m.pausedSeen)
	}
	if m.showNoise {
		status += " | noise on"
	}

	help := fmt.Sprintf("%s quit  %s pause  %s noise  %s clear",
		m.styles.Key.Render("q"), m.styles.Key.Render("p"),
		m.styles.Key.Render("n"), m.styles.Key.Render("c"))
	return m.styles.StatusBar.Render(status) + "  " + help
}
