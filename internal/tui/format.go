package tui

import (
	"fmt"
	"strings"

	"github.com/AvengeMedia/danktk/internal/wayland"
)

const kindWidth = 26

// eventKind is the bare type name of an event, e.g. "WindowConfigure".
func eventKind(ev wayland.Event) string {
	name := fmt.Sprintf("%T", ev)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// isNoise reports events emitted on every loop iteration or frame.
func isNoise(ev wayland.Event) bool {
	switch e := ev.(type) {
	case wayland.AboutToWait, wayland.RedrawRequested, wayland.Frame:
		return true
	case wayland.Pointer:
		return e.Kind == wayland.CursorMoved
	}
	return false
}

func describe(ev wayland.Event) string {
	switch e := ev.(type) {
	case wayland.Keymap:
		return fmt.Sprintf("format=%d bytes=%d", e.Format, len(e.Text))
	case wayland.Pointer:
		s := fmt.Sprintf("%v %s at (%.1f, %.1f)", e.ID, e.Kind, e.Position.X, e.Position.Y)
		switch e.Kind {
		case wayland.MousePressed, wayland.MouseReleased:
			s += fmt.Sprintf(" button=%v", e.Button)
		case wayland.MouseWheel:
			s += fmt.Sprintf(" scroll=(%.2f, %.2f) lines=%t", e.ScrollX, e.ScrollY, e.Lines)
		}
		return s
	case wayland.Keyboard:
		state := "released"
		if e.Pressed {
			state = "pressed"
		}
		return fmt.Sprintf("%v key=%d %s", e.ID, e.Key, state)
	case wayland.Fatal:
		if e.Err == nil {
			return ""
		}
		return e.Err.Error()
	case wayland.AboutToWait, wayland.SessionLocked, wayland.SessionUnlocked, wayland.SessionLockFinished:
		return ""
	}
	return strings.TrimPrefix(strings.TrimSuffix(fmt.Sprintf("%+v", ev), "}"), "{")
}
