package wayland

import (
	"fmt"

	"github.com/AvengeMedia/danktk/internal/errdefs"
	"github.com/AvengeMedia/danktk/internal/ids"
	"github.com/AvengeMedia/danktk/internal/log"
)

type window struct {
	surfaceCore
	toplevel ToplevelHandle

	title         string
	currentSize   Size
	requestedSize *Size
	lastConfigure *WindowConfigure
	// resizeBorder is zero when interactive edge resize is disabled.
	resizeBorder float64
	transparent  bool
}

func (m *Manager) createWindow(a CreateWindow) {
	if m.inUse(a.ID) {
		m.creationFailed(KindWindow, a.ID, fmt.Errorf("%v already in use", a.ID), a.Reply)
		return
	}
	s := a.Settings

	surface, err := m.conn.CreateSurface()
	if err != nil {
		m.creationFailed(KindWindow, a.ID, errdefs.Wrap(errdefs.ErrTypeSurfaceCreationFailed, "create wl_surface", err), a.Reply)
		return
	}
	toplevel, err := m.conn.CreateToplevel(surface)
	if err != nil {
		surface.Destroy()
		m.creationFailed(KindWindow, a.ID, errdefs.Wrap(errdefs.ErrTypeSurfaceCreationFailed, "create xdg_toplevel", err), a.Reply)
		return
	}

	size := s.Size.atLeastOne()
	w := &window{
		surfaceCore: newSurfaceCore(a.ID, surface, size),
		toplevel:    toplevel,
		title:       s.Title,
		currentSize: size,
		transparent: s.Transparent,
	}
	if s.Resizable && s.ResizeBorder > 0 {
		w.resizeBorder = s.ResizeBorder
	}
	m.windows[a.ID] = w
	m.register(&w.surfaceCore, KindWindow)

	if s.AppID != "" {
		logRequest(toplevel.SetAppID(s.AppID), "set_app_id", a.ID)
	}
	if s.Title != "" {
		logRequest(toplevel.SetTitle(s.Title), "set_title", a.ID)
	}
	if s.MinSize != nil {
		logRequest(toplevel.SetMinSize(int32(s.MinSize.Width), int32(s.MinSize.Height)), "set_min_size", a.ID)
	}
	if s.MaxSize != nil {
		logRequest(toplevel.SetMaxSize(int32(s.MaxSize.Width), int32(s.MaxSize.Height)), "set_max_size", a.ID)
	}
	if s.Decorations != DecorationUnset {
		if !m.caps.Decoration {
			log.Debugf("Decoration mode request for %v skipped: %v", a.ID, errdefs.ErrUnsupported)
		} else {
			logRequest(toplevel.SetDecorationMode(s.Decorations), "set_mode", a.ID)
		}
	}

	m.attachScaling(&w.surfaceCore)
	m.updateWindowSize(w, size)

	if s.Token != "" {
		if m.caps.Activation {
			logRequest(m.conn.Activate(surface, s.Token), "activate", a.ID)
		} else {
			log.Warnf("Activation token for %v ignored: %v", a.ID, errdefs.ErrUnsupported)
		}
	}

	m.created(KindWindow, &w.surfaceCore, ids.None, a.ID, a.Reply)
}

// updateWindowSize sets geometry, opaque region and viewport for a new
// logical size and schedules the commit.
func (m *Manager) updateWindowSize(w *window, size Size) {
	size = size.atLeastOne()
	w.currentSize = size
	logRequest(w.toplevel.SetWindowGeometry(0, 0, int32(size.Width), int32(size.Height)), "set_window_geometry", w.id)
	if !w.transparent {
		logRequest(w.surface.SetOpaqueRegion(int32(size.Width), int32(size.Height)), "set_opaque_region", w.id)
	}
	m.applySize(&w.surfaceCore, size)
}

func (m *Manager) handleToplevelConfigure(e ToplevelConfigure) {
	c, kind, ok := m.coreByObject(e.Surface)
	if !ok || kind != KindWindow {
		return
	}
	w := m.windows[c.id]

	last := w.lastConfigure
	if last == nil || last.State != e.State {
		m.emit(WindowStateChanged{ID: w.id, State: e.State})
	}
	if last == nil || last.Capabilities != e.Capabilities {
		m.emit(WindowCapabilitiesChanged{ID: w.id, Capabilities: e.Capabilities})
	}

	// Zero means the client picks; keep what we have.
	size := w.currentSize
	if e.Width > 0 {
		size.Width = uint32(e.Width)
	}
	if e.Height > 0 {
		size.Height = uint32(e.Height)
	}
	m.updateWindowSize(w, size)
	logRequest(w.toplevel.AckConfigure(e.Serial), "ack_configure", w.id)

	cfg := WindowConfigure{
		ID:             w.id,
		Size:           w.currentSize,
		Capabilities:   e.Capabilities,
		State:          e.State,
		DecorationMode: e.DecorationMode,
		Bounds:         e.Bounds,
		First:          last == nil,
	}
	w.lastConfigure = &cfg
	m.emit(cfg)
}

func (m *Manager) handleToplevelClose(e ToplevelClose) {
	c, kind, ok := m.coreByObject(e.Surface)
	if !ok || kind != KindWindow {
		return
	}
	m.emit(WindowCloseRequested{ID: c.id})
}

func (m *Manager) resizeWindow(w *window, size Size) {
	size = size.atLeastOne()
	w.requestedSize = &size
	m.updateWindowSize(w, size)

	if w.lastConfigure != nil {
		cfg := *w.lastConfigure
		cfg.Size = w.currentSize
		cfg.First = false
		w.lastConfigure = &cfg
		m.emit(cfg)
	}
}

func (m *Manager) destroyWindow(id ids.SurfaceID) {
	w, ok := m.windows[id]
	if !ok {
		return
	}
	m.destroyChildPopups(id)

	delete(m.windows, id)
	m.forget(&w.surfaceCore)
	w.destroyScaling()
	logRequest(w.toplevel.Destroy(), "xdg_toplevel.destroy", id)
	w.destroySurface()

	m.emit(WindowClosed{ID: id})
}

// windowFor looks up a window for an action, logging when the id is stale.
func (m *Manager) windowFor(id ids.SurfaceID, action string) (*window, bool) {
	w, ok := m.windows[id]
	if !ok {
		log.Debugf("%s for unknown window %v ignored", action, id)
	}
	return w, ok
}

// resizeEdgeAt classifies a surface-local position against the resize inset.
// Corners win over edges.
func resizeEdgeAt(pos Point, size Size, border float64) ResizeEdge {
	if border <= 0 {
		return EdgeNone
	}
	w, h := float64(size.Width), float64(size.Height)
	left := pos.X < border
	top := pos.Y < border
	right := pos.X > w-border
	bottom := pos.Y > h-border

	switch {
	case top && left:
		return EdgeTopLeft
	case top && right:
		return EdgeTopRight
	case bottom && left:
		return EdgeBottomLeft
	case bottom && right:
		return EdgeBottomRight
	case top:
		return EdgeTop
	case bottom:
		return EdgeBottom
	case left:
		return EdgeLeft
	case right:
		return EdgeRight
	}
	return EdgeNone
}

func logRequest(err error, request string, id ids.SurfaceID) {
	if err != nil {
		log.Warnf("%s on %v failed: %v", request, id, err)
	}
}
