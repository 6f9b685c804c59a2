package backend

import (
	"bytes"
	"fmt"

	"github.com/AvengeMedia/danktk/internal/proto/wp_cursor_shape"
	"github.com/AvengeMedia/danktk/internal/proto/xdg_shell"
	"github.com/AvengeMedia/danktk/internal/wayland"
	"golang.org/x/sys/unix"
)

// xdg_toplevel.state and wm_capabilities values count from one; the
// coordinator keeps them as bit sets.
func toplevelState(states []xdg_shell.ToplevelState) wayland.ToplevelState {
	var out wayland.ToplevelState
	for _, s := range states {
		if s >= 1 && s <= 32 {
			out |= 1 << (s - 1)
		}
	}
	return out
}

func wmCapabilities(caps []xdg_shell.ToplevelWmCapabilities) wayland.WmCapabilities {
	var out wayland.WmCapabilities
	for _, c := range caps {
		if c >= 1 && c <= 32 {
			out |= 1 << (c - 1)
		}
	}
	return out
}

var cursorShapes = map[wayland.CursorIcon]wp_cursor_shape.WpCursorShapeDeviceV1Shape{
	wayland.CursorDefault:    wp_cursor_shape.WpCursorShapeDeviceV1ShapeDefault,
	wayland.CursorPointer:    wp_cursor_shape.WpCursorShapeDeviceV1ShapePointer,
	wayland.CursorText:       wp_cursor_shape.WpCursorShapeDeviceV1ShapeText,
	wayland.CursorGrab:       wp_cursor_shape.WpCursorShapeDeviceV1ShapeGrab,
	wayland.CursorGrabbing:   wp_cursor_shape.WpCursorShapeDeviceV1ShapeGrabbing,
	wayland.CursorMove:       wp_cursor_shape.WpCursorShapeDeviceV1ShapeMove,
	wayland.CursorCrosshair:  wp_cursor_shape.WpCursorShapeDeviceV1ShapeCrosshair,
	wayland.CursorNotAllowed: wp_cursor_shape.WpCursorShapeDeviceV1ShapeNotAllowed,
	wayland.CursorWait:       wp_cursor_shape.WpCursorShapeDeviceV1ShapeWait,
	wayland.CursorProgress:   wp_cursor_shape.WpCursorShapeDeviceV1ShapeProgress,
	wayland.CursorHelp:       wp_cursor_shape.WpCursorShapeDeviceV1ShapeHelp,
	wayland.CursorNResize:    wp_cursor_shape.WpCursorShapeDeviceV1ShapeNResize,
	wayland.CursorSResize:    wp_cursor_shape.WpCursorShapeDeviceV1ShapeSResize,
	wayland.CursorEResize:    wp_cursor_shape.WpCursorShapeDeviceV1ShapeEResize,
	wayland.CursorWResize:    wp_cursor_shape.WpCursorShapeDeviceV1ShapeWResize,
	wayland.CursorNeResize:   wp_cursor_shape.WpCursorShapeDeviceV1ShapeNeResize,
	wayland.CursorNwResize:   wp_cursor_shape.WpCursorShapeDeviceV1ShapeNwResize,
	wayland.CursorSeResize:   wp_cursor_shape.WpCursorShapeDeviceV1ShapeSeResize,
	wayland.CursorSwResize:   wp_cursor_shape.WpCursorShapeDeviceV1ShapeSwResize,
	wayland.CursorEwResize:   wp_cursor_shape.WpCursorShapeDeviceV1ShapeEwResize,
	wayland.CursorNsResize:   wp_cursor_shape.WpCursorShapeDeviceV1ShapeNsResize,
}

func cursorShape(icon wayland.CursorIcon) wp_cursor_shape.WpCursorShapeDeviceV1Shape {
	if s, ok := cursorShapes[icon]; ok {
		return s
	}
	return wp_cursor_shape.WpCursorShapeDeviceV1ShapeDefault
}

// readKeymap maps the keymap fd read-only, copies the text out and closes fd.
func readKeymap(fd int, size uint32) (string, error) {
	defer unix.Close(fd)
	if size == 0 {
		return "", fmt.Errorf("empty keymap")
	}
	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return "", fmt.Errorf("mmap keymap: %w", err)
	}
	defer unix.Munmap(data)
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return string(data), nil
}
