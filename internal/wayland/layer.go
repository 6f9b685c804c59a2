package wayland

import (
	"fmt"

	"github.com/AvengeMedia/danktk/internal/errdefs"
	"github.com/AvengeMedia/danktk/internal/ids"
	"github.com/AvengeMedia/danktk/internal/log"
)

type layerSurface struct {
	surfaceCore
	handle LayerHandle

	namespace     string
	layer         Layer
	anchor        Anchor
	keyboard      KeyboardInteractivity
	margin        Margin
	exclusiveZone int32
	// nil when stretched by anchors.
	width, height *uint32
	currentSize   *Size
	lastConfigure *LayerConfigure
}

// normalizeLayerSize drops a dimension stretched by both opposing anchors
// and substitutes one for zero otherwise.
func normalizeLayerSize(anchor Anchor, width, height *uint32) (*uint32, *uint32) {
	pick := func(stretched bool, v *uint32) *uint32 {
		if stretched {
			return nil
		}
		n := uint32(1)
		if v != nil && *v > 0 {
			n = *v
		}
		return &n
	}
	w := pick(anchor.Has(AnchorLeft|AnchorRight), width)
	h := pick(anchor.Has(AnchorTop|AnchorBottom), height)
	return w, h
}

func valueOr(v *uint32, fallback uint32) uint32 {
	if v == nil {
		return fallback
	}
	return *v
}

func (l *layerSurface) requestedSize() (uint32, uint32) {
	return valueOr(l.width, 0), valueOr(l.height, 0)
}

func (m *Manager) createLayerSurface(a CreateLayerSurface) {
	if !m.caps.LayerShell {
		m.creationFailed(KindLayer, a.ID, errdefs.ErrLayerShellNotSupported, a.Reply)
		return
	}
	if m.inUse(a.ID) {
		m.creationFailed(KindLayer, a.ID, fmt.Errorf("%v already in use", a.ID), a.Reply)
		return
	}
	s := a.Settings

	surface, err := m.conn.CreateSurface()
	if err != nil {
		m.creationFailed(KindLayer, a.ID, errdefs.Wrap(errdefs.ErrTypeSurfaceCreationFailed, "create wl_surface", err), a.Reply)
		return
	}
	handle, err := m.conn.CreateLayerSurface(surface, LayerShellOptions{
		Output:    s.Output,
		Layer:     s.Layer,
		Namespace: s.Namespace,
	})
	if err != nil {
		surface.Destroy()
		m.creationFailed(KindLayer, a.ID, errdefs.Wrap(errdefs.ErrTypeLayerSurfaceCreationFailed, "get_layer_surface", err), a.Reply)
		return
	}

	width, height := normalizeLayerSize(s.Anchor, s.Width, s.Height)
	l := &layerSurface{
		surfaceCore:   newSurfaceCore(a.ID, surface, Size{Width: valueOr(width, 1), Height: valueOr(height, 1)}),
		handle:        handle,
		namespace:     s.Namespace,
		layer:         s.Layer,
		anchor:        s.Anchor,
		keyboard:      s.KeyboardInteractivity,
		margin:        s.Margin,
		exclusiveZone: s.ExclusiveZone,
		width:         width,
		height:        height,
	}
	m.layers[a.ID] = l
	m.register(&l.surfaceCore, KindLayer)

	logRequest(handle.SetAnchor(l.anchor), "set_anchor", a.ID)
	logRequest(handle.SetKeyboardInteractivity(l.keyboard), "set_keyboard_interactivity", a.ID)
	logRequest(handle.SetMargin(l.margin), "set_margin", a.ID)
	w, h := l.requestedSize()
	logRequest(handle.SetSize(w, h), "set_size", a.ID)
	logRequest(handle.SetExclusiveZone(l.exclusiveZone), "set_exclusive_zone", a.ID)
	if !s.PointerInteractivity {
		logRequest(surface.ClearInputRegion(), "set_input_region", a.ID)
	}

	m.attachScaling(&l.surfaceCore)
	m.scheduleCommit(&l.surfaceCore)

	m.created(KindLayer, &l.surfaceCore, ids.None, ids.None, a.Reply)
}

func (m *Manager) handleLayerConfigure(e LayerConfigureEvent) {
	c, kind, ok := m.coreByObject(e.Surface)
	if !ok || kind != KindLayer {
		return
	}
	l := m.layers[c.id]

	size := Size{Width: e.Width, Height: e.Height}
	if size.Width == 0 {
		size.Width = valueOr(l.width, 1)
	}
	if size.Height == 0 {
		size.Height = valueOr(l.height, 1)
	}
	size = size.atLeastOne()
	l.currentSize = &size

	m.applySize(&l.surfaceCore, size)
	logRequest(l.handle.AckConfigure(e.Serial), "ack_configure", l.id)

	cfg := LayerConfigure{ID: l.id, Size: size, First: l.lastConfigure == nil}
	l.lastConfigure = &cfg
	m.emit(cfg)
}

func (m *Manager) handleLayerClosed(e LayerClosed) {
	c, kind, ok := m.coreByObject(e.Surface)
	if !ok || kind != KindLayer {
		return
	}
	m.destroyLayer(c.id)
}

// touchLayer schedules the commit for a layer mutation and, once the UI has
// seen a real configure, synthesizes one so re-layout does not wait on the
// compositor.
func (m *Manager) touchLayer(l *layerSurface) {
	m.scheduleCommit(&l.surfaceCore)
	if l.lastConfigure == nil {
		return
	}
	size := l.common.Size()
	if l.currentSize != nil {
		size = *l.currentSize
	}
	cfg := LayerConfigure{ID: l.id, Size: size, First: false}
	l.lastConfigure = &cfg
	m.emit(cfg)
}

func (m *Manager) resizeLayer(l *layerSurface, width, height uint32) {
	l.width, l.height = normalizeLayerSize(l.anchor, &width, &height)
	w, h := l.requestedSize()
	logRequest(l.handle.SetSize(w, h), "set_size", l.id)

	if l.currentSize != nil {
		size := *l.currentSize
		if l.width != nil {
			size.Width = *l.width
		}
		if l.height != nil {
			size.Height = *l.height
		}
		l.currentSize = &size
		m.applySize(&l.surfaceCore, size)
	}
	m.touchLayer(l)
}

func (m *Manager) setLayerAnchor(l *layerSurface, anchor Anchor) {
	l.anchor = anchor
	l.width, l.height = normalizeLayerSize(anchor, l.width, l.height)
	logRequest(l.handle.SetAnchor(anchor), "set_anchor", l.id)
	w, h := l.requestedSize()
	logRequest(l.handle.SetSize(w, h), "set_size", l.id)
	m.touchLayer(l)
}

func (m *Manager) destroyLayer(id ids.SurfaceID) {
	l, ok := m.layers[id]
	if !ok {
		return
	}
	m.destroyChildPopups(id)

	delete(m.layers, id)
	m.forget(&l.surfaceCore)
	l.destroyScaling()
	logRequest(l.handle.Destroy(), "zwlr_layer_surface_v1.destroy", id)
	l.destroySurface()

	m.emit(LayerDone{ID: id})
}

func (m *Manager) layerFor(id ids.SurfaceID, action string) (*layerSurface, bool) {
	l, ok := m.layers[id]
	if !ok {
		log.Debugf("%s for unknown layer surface %v ignored", action, id)
	}
	return l, ok
}
