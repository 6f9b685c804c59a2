package wayland

import "github.com/AvengeMedia/danktk/internal/log"

func (m *Manager) handlePointerFrame(e PointerFrame) {
	s, active := m.seatByID(e.Seat)
	if s == nil {
		return
	}
	for _, pe := range e.Events {
		// only enter and leave name a surface on the wire
		if pe.Surface == 0 {
			pe.Surface = s.ptrFocus
		}
		if m.handleResizeEdge(s, pe) {
			continue
		}

		switch pe.Kind {
		case PointerEnter:
			s.ptrFocus = pe.Surface
		case PointerLeave:
			if s.ptrFocus == pe.Surface {
				s.ptrFocus = 0
			}
			s.iconKnown = false
			s.edgeOverride = false
		case PointerPress:
			s.lastPtrPress = &pointerPress{time: pe.Time, button: pe.Button, serial: pe.Serial}
		}

		if active {
			m.forwardPointer(pe)
		}
	}
}

// handleResizeEdge runs the edge hit-test for windows with a resize inset.
// It returns true when the event was consumed.
func (m *Manager) handleResizeEdge(s *seat, pe PointerEvent) bool {
	if pe.Kind == PointerLeave || pe.Kind == PointerAxis {
		return false
	}
	c, kind, ok := m.coreByObject(pe.Surface)
	var edge ResizeEdge
	if ok && kind == KindWindow {
		w := m.windows[c.id]
		edge = resizeEdgeAt(pe.Position, w.currentSize, w.resizeBorder)
		if edge != EdgeNone {
			icon := edge.Cursor()
			if !s.iconKnown || s.activeIcon != icon {
				m.setCursor(s, icon)
			}
			s.edgeOverride = true

			switch pe.Kind {
			case PointerPress:
				if pe.Button != btnLeft {
					return false
				}
				s.lastPtrPress = &pointerPress{time: pe.Time, button: pe.Button, serial: pe.Serial}
				if err := w.toplevel.Resize(s.handle, pe.Serial, edge); err != nil {
					log.Warnf("Interactive resize of %v failed: %v", w.id, err)
				}
				return true
			case PointerMotion:
				return true
			}
			return false
		}
	}

	if pe.Kind == PointerEnter || pe.Kind == PointerMotion {
		if !s.iconKnown || s.edgeOverride || s.activeIcon != s.icon {
			s.edgeOverride = false
			m.setCursor(s, s.icon)
		}
	}
	return false
}

func (m *Manager) forwardPointer(pe PointerEvent) {
	id, ok := m.surfaceID(pe.Surface)
	if !ok {
		return
	}
	ev := Pointer{ID: id, Position: pe.Position}
	switch pe.Kind {
	case PointerEnter:
		ev.Kind = CursorEntered
	case PointerLeave:
		ev.Kind = CursorLeft
	case PointerMotion:
		ev.Kind = CursorMoved
	case PointerPress:
		ev.Kind = MousePressed
		ev.Button = mouseButton(pe.Button)
	case PointerRelease:
		ev.Kind = MouseReleased
		ev.Button = mouseButton(pe.Button)
	case PointerAxis:
		ev.Kind = MouseWheel
		if pe.DiscreteHorizontal != 0 || pe.DiscreteVertical != 0 {
			ev.ScrollX = float64(pe.DiscreteHorizontal)
			ev.ScrollY = float64(pe.DiscreteVertical)
			ev.Lines = true
		} else {
			ev.ScrollX = pe.Horizontal
			ev.ScrollY = pe.Vertical
		}
	default:
		return
	}
	m.emit(ev)
}
