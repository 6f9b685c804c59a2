package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvengeMedia/danktk/internal/ids"
	"github.com/AvengeMedia/danktk/internal/mailbox"
	"github.com/AvengeMedia/danktk/internal/wayland"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sized(t *testing.T, source EventSource) Model {
	t.Helper()
	m := NewModel(context.Background(), source, "monitor")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func feed(m Model, events ...wayland.Event) Model {
	for _, ev := range events {
		next, _ := m.Update(eventMsg{event: ev, at: time.Unix(0, 0)})
		m = next.(Model)
	}
	return m
}

func TestListenForEvents(t *testing.T) {
	box := mailbox.New[wayland.Event]()
	id := ids.NewSurface()
	box.Push(wayland.WindowClosed{ID: id})

	m := NewModel(context.Background(), box, "monitor")
	msg := m.Init()()
	ev, ok := msg.(eventMsg)
	require.True(t, ok)
	assert.Equal(t, wayland.WindowClosed{ID: id}, ev.event)

	box.Close()
	assert.Equal(t, streamClosedMsg{}, m.listenForEvents()())
}

func TestRecordsEventsAndSkipsNoise(t *testing.T) {
	m := sized(t, mailbox.New[wayland.Event]())
	id := ids.NewSurface()

	m = feed(m,
		wayland.AboutToWait{},
		wayland.WindowCloseRequested{ID: id},
		wayland.Pointer{ID: id, Kind: wayland.CursorMoved},
		wayland.Pointer{ID: id, Kind: wayland.MousePressed},
	)

	assert.Equal(t, 4, m.total)
	assert.Equal(t, 2, m.counts["Pointer"])
	require.Len(t, m.lines, 2)
	assert.Contains(t, m.lines[0], "WindowCloseRequested")
	assert.Contains(t, m.lines[1], "pressed")

	next, _ := m.Update(key("n"))
	m = feed(next.(Model), wayland.AboutToWait{})
	assert.Len(t, m.lines, 3)
}

func TestPauseAndClear(t *testing.T) {
	m := sized(t, mailbox.New[wayland.Event]())

	next, _ := m.Update(key("p"))
	m = feed(next.(Model), wayland.SessionLocked{}, wayland.SessionUnlocked{})
	assert.True(t, m.paused)
	assert.Equal(t, 2, m.pausedSeen)
	assert.Contains(t, m.View(), "paused (2 new)")

	next, _ = m.Update(key("p"))
	m = next.(Model)
	assert.False(t, m.paused)
	assert.Zero(t, m.pausedSeen)

	next, _ = m.Update(key("c"))
	m = next.(Model)
	assert.Empty(t, m.lines)
	assert.Equal(t, 2, m.total)
}

func TestFatalAndClosed(t *testing.T) {
	m := sized(t, mailbox.New[wayland.Event]())
	m = feed(m, wayland.Fatal{Err: errors.New("broken pipe")})
	assert.Contains(t, m.View(), "fatal: broken pipe")

	next, cmd := m.Update(streamClosedMsg{})
	assert.Nil(t, cmd)
	assert.True(t, next.(Model).closed)
}

func TestQuit(t *testing.T) {
	m := sized(t, mailbox.New[wayland.Event]())
	for _, msg := range []tea.KeyMsg{key("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(msg)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestViewBeforeSize(t *testing.T) {
	m := NewModel(context.Background(), mailbox.New[wayland.Event](), "monitor")
	assert.True(t, strings.Contains(m.View(), "Waiting"))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "format=1 bytes=5", describe(wayland.Keymap{Format: 1, Text: "hello"}))
	assert.Equal(t, "Keymap", eventKind(wayland.Keymap{}))
	assert.Empty(t, describe(wayland.AboutToWait{}))
	assert.Empty(t, describe(wayland.Fatal{}))
	assert.Contains(t, describe(wayland.Keyboard{Key: 30, Pressed: true}), "key=30 pressed")
	assert.Contains(t, describe(wayland.RepeatInfo{Rate: 25, Delay: 600}), "Rate:25")
}
