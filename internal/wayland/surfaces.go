package wayland

import (
	"github.com/AvengeMedia/danktk/internal/ids"
	"github.com/AvengeMedia/danktk/internal/log"
)

// surfaceCore is the part every surface role shares.
type surfaceCore struct {
	id         ids.SurfaceID
	surface    SurfaceHandle
	common     *Common
	viewport   ViewportHandle
	fractional FractionalScaleHandle
	// outputs the surface entered, for legacy integer scale.
	outputs map[ObjectID]struct{}
	// bufferCommitsOnly surfaces are never committed without a buffer; their
	// pending state rides on the UI's next present.
	bufferCommitsOnly bool
}

func newSurfaceCore(id ids.SurfaceID, surface SurfaceHandle, size Size) surfaceCore {
	return surfaceCore{
		id:      id,
		surface: surface,
		common:  newCommon(size),
		outputs: make(map[ObjectID]struct{}),
	}
}

func (c *surfaceCore) object() ObjectID { return c.surface.ID() }

func (c *surfaceCore) destroyScaling() {
	if c.fractional != nil {
		if err := c.fractional.Destroy(); err != nil {
			log.Debugf("Destroying fractional scale of %v: %v", c.id, err)
		}
		c.fractional = nil
	}
	if c.viewport != nil {
		if err := c.viewport.Destroy(); err != nil {
			log.Debugf("Destroying viewport of %v: %v", c.id, err)
		}
		c.viewport = nil
	}
}

func (c *surfaceCore) destroySurface() {
	if err := c.surface.Destroy(); err != nil {
		log.Debugf("Destroying wl_surface of %v: %v", c.id, err)
	}
}

// core finds the shared part of any surface kind.
func (m *Manager) core(id ids.SurfaceID) (*surfaceCore, SurfaceKind, bool) {
	if w, ok := m.windows[id]; ok {
		return &w.surfaceCore, KindWindow, true
	}
	if l, ok := m.layers[id]; ok {
		return &l.surfaceCore, KindLayer, true
	}
	if p, ok := m.popups[id]; ok {
		return &p.surfaceCore, KindPopup, true
	}
	if l, ok := m.locks[id]; ok {
		return &l.surfaceCore, KindLock, true
	}
	return nil, 0, false
}

// coreByObject routes a wl_surface object id to its record. Events for
// surfaces already destroyed resolve to nothing.
func (m *Manager) coreByObject(object ObjectID) (*surfaceCore, SurfaceKind, bool) {
	id, _, ok := m.idmap.surface(object)
	if !ok {
		return nil, 0, false
	}
	return m.core(id)
}

func (m *Manager) inUse(id ids.SurfaceID) bool {
	_, _, ok := m.core(id)
	return ok
}

// register records a freshly created surface before any request uses it.
func (m *Manager) register(c *surfaceCore, kind SurfaceKind) {
	m.idmap.insert(c.object(), c.id, kind)
}

// forget drops every dispatcher reference to a surface that is being destroyed.
func (m *Manager) forget(c *surfaceCore) {
	object := c.object()
	m.idmap.remove(c.id)
	delete(m.pendingCommits, c.id)
	delete(m.requestedFrames, object)
	m.unregisterDnd(c)

	for _, s := range m.seats {
		if s.kbdFocus == object {
			s.kbdFocus = 0
		}
		if s.ptrFocus == object {
			s.ptrFocus = 0
			s.iconKnown = false
			s.edgeOverride = false
		}
		if s.dndFocus == object {
			s.dndFocus = 0
		}
		for finger, tp := range s.touchPoints {
			if tp.surface == object {
				delete(s.touchPoints, finger)
			}
		}
	}
}

// attachScaling binds a viewport when viewporter exists, and a fractional
// scale object only on top of a viewport.
func (m *Manager) attachScaling(c *surfaceCore) {
	if !m.caps.Viewporter {
		return
	}
	vp, err := m.conn.CreateViewport(c.surface)
	if err != nil {
		log.Warnf("Failed to create viewport for %v: %v", c.id, err)
		return
	}
	c.viewport = vp
	size := c.common.Size()
	if err := vp.SetDestination(int32(size.Width), int32(size.Height)); err != nil {
		log.Debugf("Setting viewport destination for %v: %v", c.id, err)
	}

	if !m.caps.FractionalScale {
		return
	}
	fs, err := m.conn.CreateFractionalScale(c.surface)
	if err != nil {
		log.Warnf("Failed to create fractional scale for %v: %v", c.id, err)
		return
	}
	c.fractional = fs
}

// applySize updates the logical size everywhere it is mirrored and
// schedules the commit that makes it current.
func (m *Manager) applySize(c *surfaceCore, size Size) {
	size = size.atLeastOne()
	c.common.setSize(size)
	if c.viewport != nil {
		if err := c.viewport.SetDestination(int32(size.Width), int32(size.Height)); err != nil {
			log.Debugf("Setting viewport destination for %v: %v", c.id, err)
		}
	}
	m.scheduleCommit(c)
}

func (m *Manager) destroy(id ids.SurfaceID) {
	_, kind, ok := m.core(id)
	if !ok {
		log.Debugf("Destroy for unknown %v ignored", id)
		return
	}
	switch kind {
	case KindWindow:
		m.destroyWindow(id)
	case KindLayer:
		m.destroyLayer(id)
	case KindPopup:
		m.destroyPopupTree(id)
	case KindLock:
		m.destroyLockSurface(id)
	}
}

// destroyChildPopups removes every popup tree hanging off a non-popup parent.
func (m *Manager) destroyChildPopups(parent ids.SurfaceID) {
	for _, id := range sortedKeys(m.popups) {
		p, ok := m.popups[id]
		if ok && p.parent == parent {
			m.destroyPopupTree(id)
		}
	}
}

func (m *Manager) snapshot() []SurfaceInfo {
	out := make([]SurfaceInfo, 0, m.idmap.len())
	for _, id := range sortedKeys(m.windows) {
		w := m.windows[id]
		out = append(out, m.info(&w.surfaceCore, KindWindow, ids.None, w.title, w.lastConfigure != nil))
	}
	for _, id := range sortedKeys(m.layers) {
		l := m.layers[id]
		out = append(out, m.info(&l.surfaceCore, KindLayer, ids.None, l.namespace, l.lastConfigure != nil))
	}
	for _, id := range sortedKeys(m.popups) {
		p := m.popups[id]
		out = append(out, m.info(&p.surfaceCore, KindPopup, p.parent, "", p.lastConfigure != nil))
	}
	for _, id := range sortedKeys(m.locks) {
		l := m.locks[id]
		out = append(out, m.info(&l.surfaceCore, KindLock, ids.None, "", l.configured))
	}
	return out
}

func (m *Manager) info(c *surfaceCore, kind SurfaceKind, parent ids.SurfaceID, title string, configured bool) SurfaceInfo {
	st := c.common.Snapshot()
	return SurfaceInfo{
		ID:         c.id,
		Kind:       kind.String(),
		Object:     c.object(),
		Parent:     parent,
		Title:      title,
		Size:       st.Size,
		Scale:      c.common.EffectiveScale(),
		Configured: configured,
	}
}

func reply(ch chan<- Created, c Created) {
	if ch == nil {
		return
	}
	select {
	case ch <- c:
	default:
		log.Warnf("Creation reply for %v dropped", c.ID)
	}
}

func (m *Manager) created(kind SurfaceKind, c *surfaceCore, parent, toplevel ids.SurfaceID, ch chan<- Created) {
	reply(ch, Created{ID: c.id, Object: c.object(), Common: c.common})
	m.emit(SurfaceCreated{
		Kind:     kind,
		ID:       c.id,
		Object:   c.object(),
		Parent:   parent,
		Toplevel: toplevel,
		Common:   c.common,
	})
}

func (m *Manager) creationFailed(kind SurfaceKind, id ids.SurfaceID, err error, ch chan<- Created) {
	log.Warnf("Creating %s %v failed: %v", kind, id, err)
	reply(ch, Created{ID: id, Err: err})
	m.emit(CreateFailed{Kind: kind, ID: id, Err: err})
}
