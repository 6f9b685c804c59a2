package wayland

import (
	"fmt"

	"github.com/AvengeMedia/danktk/internal/errdefs"
	"github.com/AvengeMedia/danktk/internal/log"
)

func (m *Manager) handleAction(a Action) {
	switch a := a.(type) {
	case Ready:
		m.ready = true
	case CreateWindow:
		m.createWindow(a)
	case CreateLayerSurface:
		m.createLayerSurface(a)
	case CreatePopup:
		m.createPopup(a)
	case CreateLockSurface:
		m.createLockSurface(a)
	case Destroy:
		m.destroy(a.ID)

	case Resize:
		m.resize(a)
	case SetMinSize:
		if w, ok := m.windowFor(a.ID, "SetMinSize"); ok {
			width, height := sizeOrZero(a.Size)
			logRequest(w.toplevel.SetMinSize(width, height), "set_min_size", w.id)
			m.scheduleCommit(&w.surfaceCore)
		}
	case SetMaxSize:
		if w, ok := m.windowFor(a.ID, "SetMaxSize"); ok {
			width, height := sizeOrZero(a.Size)
			logRequest(w.toplevel.SetMaxSize(width, height), "set_max_size", w.id)
			m.scheduleCommit(&w.surfaceCore)
		}
	case SetAnchor:
		if l, ok := m.layerFor(a.ID, "SetAnchor"); ok {
			m.setLayerAnchor(l, a.Anchor)
		}
	case SetMargin:
		if l, ok := m.layerFor(a.ID, "SetMargin"); ok {
			l.margin = a.Margin
			logRequest(l.handle.SetMargin(a.Margin), "set_margin", l.id)
			m.touchLayer(l)
		}
	case SetExclusiveZone:
		if l, ok := m.layerFor(a.ID, "SetExclusiveZone"); ok {
			l.exclusiveZone = a.Zone
			logRequest(l.handle.SetExclusiveZone(a.Zone), "set_exclusive_zone", l.id)
			m.touchLayer(l)
		}
	case SetKeyboardInteractivity:
		if l, ok := m.layerFor(a.ID, "SetKeyboardInteractivity"); ok {
			l.keyboard = a.Mode
			logRequest(l.handle.SetKeyboardInteractivity(a.Mode), "set_keyboard_interactivity", l.id)
			m.touchLayer(l)
		}
	case SetLayer:
		if l, ok := m.layerFor(a.ID, "SetLayer"); ok {
			l.layer = a.Layer
			logRequest(l.handle.SetLayer(a.Layer), "set_layer", l.id)
			m.touchLayer(l)
		}

	case SetTitle:
		if w, ok := m.windowFor(a.ID, "SetTitle"); ok {
			w.title = a.Title
			logRequest(w.toplevel.SetTitle(a.Title), "set_title", w.id)
			m.scheduleCommit(&w.surfaceCore)
		}
	case SetAppID:
		if w, ok := m.windowFor(a.ID, "SetAppID"); ok {
			logRequest(w.toplevel.SetAppID(a.AppID), "set_app_id", w.id)
			m.scheduleCommit(&w.surfaceCore)
		}

	case InteractiveMove:
		if w, ok := m.windowFor(a.ID, "InteractiveMove"); ok {
			if s, serial, ok := m.pressSerial("InteractiveMove"); ok {
				logRequest(w.toplevel.Move(s.handle, serial), "move", w.id)
			}
		}
	case InteractiveResize:
		if w, ok := m.windowFor(a.ID, "InteractiveResize"); ok {
			if s, serial, ok := m.pressSerial("InteractiveResize"); ok {
				logRequest(w.toplevel.Resize(s.handle, serial, a.Edge), "resize", w.id)
			}
		}
	case ShowWindowMenu:
		if w, ok := m.windowFor(a.ID, "ShowWindowMenu"); ok && m.allowed(w, CapWindowMenu, "ShowWindowMenu") {
			if s, serial, ok := m.pressSerial("ShowWindowMenu"); ok {
				logRequest(w.toplevel.ShowWindowMenu(s.handle, serial, a.X, a.Y), "show_window_menu", w.id)
			}
		}
	case ToggleMaximized:
		if w, ok := m.windowFor(a.ID, "ToggleMaximized"); ok && m.allowed(w, CapMaximize, "ToggleMaximized") {
			logRequest(w.toplevel.SetMaximized(!w.hasState(StateMaximized)), "set_maximized", w.id)
		}
	case ToggleFullscreen:
		if w, ok := m.windowFor(a.ID, "ToggleFullscreen"); ok && m.allowed(w, CapFullscreen, "ToggleFullscreen") {
			logRequest(w.toplevel.SetFullscreen(!w.hasState(StateFullscreen)), "set_fullscreen", w.id)
		}
	case Minimize:
		if w, ok := m.windowFor(a.ID, "Minimize"); ok && m.allowed(w, CapMinimize, "Minimize") {
			logRequest(w.toplevel.SetMinimized(), "set_minimized", w.id)
		}

	case Lock:
		m.lock()
	case Unlock:
		m.unlock()

	case RequestToken:
		m.requestToken(a)
	case Activate:
		m.activate(a)

	case SetCursor:
		m.setAppCursor(a.Icon)

	case RequestRedraw:
		if c, _, ok := m.core(a.ID); ok {
			m.requestFrame(c, true)
		}
	case PrePresentNotify:
		if c, _, ok := m.core(a.ID); ok {
			m.requestFrame(c, false)
		}
	case PresentFailed:
		m.presentFailed(a)

	case SetImeCaret:
		if c, _, ok := m.core(a.ID); ok {
			c.common.setIme(a.Position, a.Size)
		}
	case SetDndDestinations:
		m.setDndDestinations(a.ID, a.Rects)
	case Snapshot:
		if a.Reply != nil {
			select {
			case a.Reply <- m.snapshot():
			default:
			}
		}

	default:
		log.Warnf("Unhandled action %T", a)
	}
}

func (m *Manager) resize(a Resize) {
	size := Size{Width: a.Width, Height: a.Height}
	if w, ok := m.windows[a.ID]; ok {
		m.resizeWindow(w, size)
		return
	}
	if l, ok := m.layers[a.ID]; ok {
		m.resizeLayer(l, a.Width, a.Height)
		return
	}
	if p, ok := m.popups[a.ID]; ok {
		m.resizePopup(p, size)
		return
	}
	log.Debugf("Resize for %v ignored", a.ID)
}

// pressSerial returns the active seat and its latest pointer press serial.
func (m *Manager) pressSerial(action string) (*seat, uint32, bool) {
	s := m.activeSeat()
	if s == nil || s.lastPtrPress == nil {
		log.Debugf("%s dropped: no recent pointer press on the active seat", action)
		return nil, 0, false
	}
	return s, s.lastPtrPress.serial, true
}

func (m *Manager) allowed(w *window, capability WmCapabilities, action string) bool {
	if w.lastConfigure == nil || w.lastConfigure.Capabilities.allows(capability) {
		return true
	}
	log.Warnf("%s on %v dropped: %v", action, w.id, errdefs.ErrUnsupported)
	return false
}

func (w *window) hasState(s ToplevelState) bool {
	return w.lastConfigure != nil && w.lastConfigure.State.Has(s)
}

func sizeOrZero(s *Size) (int32, int32) {
	if s == nil {
		return 0, 0
	}
	return int32(s.Width), int32(s.Height)
}

func (m *Manager) handleProtocolEvent(ev ProtocolEvent) {
	switch e := ev.(type) {
	case ToplevelConfigure:
		m.handleToplevelConfigure(e)
	case ToplevelClose:
		m.handleToplevelClose(e)
	case LayerConfigureEvent:
		m.handleLayerConfigure(e)
	case LayerClosed:
		m.handleLayerClosed(e)
	case PopupConfigureEvent:
		m.handlePopupConfigure(e)
	case PopupDismissed:
		m.handlePopupDismissed(e)
	case PopupRepositionedEvent:
		m.handlePopupRepositioned(e)
	case LockSurfaceConfigureEvent:
		m.handleLockConfigure(e)
	case SessionLockedEvent:
		if m.sessionLock != nil {
			m.emit(SessionLocked{})
		}
	case SessionFinishedEvent:
		m.handleSessionFinished()

	case PreferredScale:
		m.handlePreferredScale(e)
	case SurfaceEnter:
		m.handleSurfaceEnter(e)
	case SurfaceLeave:
		m.handleSurfaceLeave(e)
	case OutputUpdated:
		m.handleOutputUpdated(e)
	case OutputGone:
		m.handleOutputGone(e)
	case FrameDone:
		m.handleFrameDone(e)

	case SeatAdded:
		m.handleSeatAdded(e)
	case SeatRemoved:
		m.handleSeatRemoved(e)
	case SeatCapabilities:
		m.handleSeatCapabilities(e)
	case PointerFrame:
		m.handlePointerFrame(e)
	case KeyboardEnter:
		m.handleKeyboardEnter(e)
	case KeyboardLeave:
		m.handleKeyboardLeave(e)
	case KeyboardKey:
		m.handleKeyboardKey(e)
	case KeyboardModifiers:
		m.handleKeyboardModifiers(e)
	case KeyboardKeymap:
		m.handleKeymap(e)
	case KeyboardRepeat:
		m.handleRepeat(e)
	case TouchDown:
		m.handleTouchDown(e)
	case TouchMotion:
		m.handleTouchMotion(e)
	case TouchUp:
		m.handleTouchUp(e)
	case TouchCancel:
		m.handleTouchCancel(e)
	case DndEnter:
		m.handleDndEnter(e)
	case DndMotion:
		m.handleDnd(e.Seat, DndMoved, e.Position)
	case DndLeave:
		m.handleDnd(e.Seat, DndLeft, Point{})
	case DndDrop:
		m.handleDnd(e.Seat, DndDropped, Point{})

	case ActivationTokenDone:
		m.handleActivationToken(e)
	case ProtocolError:
		m.fail(fmt.Errorf("wayland protocol error on object %d (code %d): %s", e.Object, e.Code, e.Message))
	case Disconnected:
		m.fail(fmt.Errorf("%w: %v", errdefs.ErrNoWaylandDisplay, e.Err))

	default:
		log.Warnf("Unhandled protocol event %T", ev)
	}
}
