package wayland

import (
	"fmt"

	"github.com/AvengeMedia/danktk/internal/errdefs"
	"github.com/AvengeMedia/danktk/internal/ids"
	"github.com/AvengeMedia/danktk/internal/log"
)

// popup keeps parent links only; children are found by scanning the table.
type popup struct {
	surfaceCore
	handle PopupHandle

	positioner    Positioner
	parent        ids.SurfaceID
	parentKind    SurfaceKind
	toplevel      ids.SurfaceID
	lastConfigure *PopupConfigure
	token         uint32
}

// popupParent resolves a parent in layer, window, popup order.
func (m *Manager) popupParent(id ids.SurfaceID) (PopupParent, SurfaceKind, ids.SurfaceID, bool) {
	if l, ok := m.layers[id]; ok {
		return PopupParent{Layer: l.handle}, KindLayer, id, true
	}
	if w, ok := m.windows[id]; ok {
		return PopupParent{Toplevel: w.toplevel}, KindWindow, id, true
	}
	if p, ok := m.popups[id]; ok {
		return PopupParent{Popup: p.handle}, KindPopup, p.toplevel, true
	}
	return PopupParent{}, 0, ids.None, false
}

func (m *Manager) createPopup(a CreatePopup) {
	if m.inUse(a.ID) {
		m.creationFailed(KindPopup, a.ID, fmt.Errorf("%v already in use", a.ID), a.Reply)
		return
	}
	parent, parentKind, toplevel, ok := m.popupParent(a.Parent)
	if !ok {
		m.creationFailed(KindPopup, a.ID, fmt.Errorf("%w: %v", errdefs.ErrParentMissing, a.Parent), a.Reply)
		return
	}
	size := a.Positioner.Size
	if size.Width == 0 || size.Height == 0 {
		m.creationFailed(KindPopup, a.ID, errdefs.ErrSizeMissing, a.Reply)
		return
	}

	surface, err := m.conn.CreateSurface()
	if err != nil {
		m.creationFailed(KindPopup, a.ID, errdefs.Wrap(errdefs.ErrTypeSurfaceCreationFailed, "create wl_surface", err), a.Reply)
		return
	}
	handle, err := m.conn.CreatePopup(surface, parent, a.Positioner)
	if err != nil {
		surface.Destroy()
		if errdefs.TypeOf(err) == errdefs.ErrTypeGeneric {
			err = errdefs.Wrap(errdefs.ErrTypePopupCreationFailed, "get_popup", err)
		}
		m.creationFailed(KindPopup, a.ID, err, a.Reply)
		return
	}

	p := &popup{
		surfaceCore: newSurfaceCore(a.ID, surface, size),
		handle:      handle,
		positioner:  a.Positioner,
		parent:      a.Parent,
		parentKind:  parentKind,
		toplevel:    toplevel,
	}
	m.popups[a.ID] = p
	m.register(&p.surfaceCore, KindPopup)

	logRequest(handle.SetWindowGeometry(0, 0, int32(size.Width), int32(size.Height)), "set_window_geometry", a.ID)
	if a.Grab {
		m.grabPopup(p)
	}

	m.attachScaling(&p.surfaceCore)
	m.scheduleCommit(&p.surfaceCore)

	m.created(KindPopup, &p.surfaceCore, a.Parent, toplevel, a.Reply)
}

// grabPopup grabs on the active seat with the latest pointer press serial,
// falling back to the latest key press.
func (m *Manager) grabPopup(p *popup) {
	s := m.activeSeat()
	if s == nil {
		log.Debugf("Popup grab for %v skipped: no seat", p.id)
		return
	}
	var serial uint32
	switch {
	case s.lastPtrPress != nil:
		serial = s.lastPtrPress.serial
	case s.lastKbdPress != nil:
		serial = s.lastKbdPress.serial
	}
	logRequest(p.handle.Grab(s.handle, serial), "grab", p.id)
}

func (m *Manager) handlePopupConfigure(e PopupConfigureEvent) {
	c, kind, ok := m.coreByObject(e.Surface)
	if !ok || kind != KindPopup {
		return
	}
	p := m.popups[c.id]

	size := Size{Width: uint32(max(e.Width, 1)), Height: uint32(max(e.Height, 1))}
	logRequest(p.handle.SetWindowGeometry(0, 0, int32(size.Width), int32(size.Height)), "set_window_geometry", p.id)
	m.applySize(&p.surfaceCore, size)
	logRequest(p.handle.AckConfigure(e.Serial), "ack_configure", p.id)

	cfg := PopupConfigure{
		ID:     p.id,
		X:      e.X,
		Y:      e.Y,
		Width:  int32(size.Width),
		Height: int32(size.Height),
		First:  p.lastConfigure == nil,
	}
	p.lastConfigure = &cfg
	m.emit(cfg)
}

func (m *Manager) handlePopupDismissed(e PopupDismissed) {
	c, kind, ok := m.coreByObject(e.Surface)
	if !ok || kind != KindPopup {
		return
	}
	m.destroyPopupTree(c.id)
}

func (m *Manager) handlePopupRepositioned(e PopupRepositionedEvent) {
	c, kind, ok := m.coreByObject(e.Surface)
	if !ok || kind != KindPopup {
		return
	}
	m.emit(PopupRepositioned{ID: c.id, Token: e.Token})
}

func (m *Manager) resizePopup(p *popup, size Size) {
	size = size.atLeastOne()
	p.token++
	p.positioner.Size = size
	logRequest(p.handle.SetWindowGeometry(0, 0, int32(size.Width), int32(size.Height)), "set_window_geometry", p.id)
	logRequest(p.handle.Reposition(p.positioner, p.token), "reposition", p.id)
	m.applySize(&p.surfaceCore, size)
}

// popupDescendants lists root followed by every popup below it, breadth first.
func (m *Manager) popupDescendants(root ids.SurfaceID) []ids.SurfaceID {
	order := []ids.SurfaceID{root}
	keys := sortedKeys(m.popups)
	for i := 0; i < len(order); i++ {
		for _, id := range keys {
			if m.popups[id].parent == order[i] {
				order = append(order, id)
			}
		}
	}
	return order
}

// destroyPopupTree destroys root and its descendants, children first, since
// xdg-shell only allows destroying the topmost popup.
func (m *Manager) destroyPopupTree(root ids.SurfaceID) {
	if _, ok := m.popups[root]; !ok {
		return
	}
	order := m.popupDescendants(root)
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		p := m.popups[id]

		delete(m.popups, id)
		m.forget(&p.surfaceCore)
		p.destroyScaling()
		logRequest(p.handle.Destroy(), "xdg_popup.destroy", id)
		p.destroySurface()

		m.emit(PopupDone{ID: id})
	}
}
