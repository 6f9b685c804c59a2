package wayland

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/AvengeMedia/danktk/internal/errdefs"
	"github.com/AvengeMedia/danktk/internal/ids"
	"github.com/AvengeMedia/danktk/internal/log"
)

func sortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func (m *Manager) scheduleCommit(c *surfaceCore) {
	if c.bufferCommitsOnly {
		return
	}
	m.pendingCommits[c.id] = c.surface
}

// flushCommits commits every surface touched during this wake-up exactly once.
func (m *Manager) flushCommits() {
	if len(m.pendingCommits) == 0 {
		return
	}
	for _, id := range sortedKeys(m.pendingCommits) {
		surface := m.pendingCommits[id]
		if err := surface.Commit(); err != nil {
			log.Warnf("Commit of %v failed: %v", id, err)
			continue
		}
		m.syncDnd(id, surface.ID())
	}
	clear(m.pendingCommits)
}

// requestFrame asks for a frame callback unless one is already outstanding.
// withCommit schedules the commit that arms it; PrePresentNotify leaves that
// to the UI's own present.
func (m *Manager) requestFrame(c *surfaceCore, withCommit bool) {
	object := c.object()
	if _, pending := m.requestedFrames[object]; pending {
		return
	}
	if err := c.surface.Frame(); err != nil {
		log.Warnf("Frame request for %v failed: %v", c.id, err)
		return
	}
	m.requestedFrames[object] = struct{}{}
	if withCommit {
		m.scheduleCommit(c)
	}
}

func (m *Manager) handleFrameDone(e FrameDone) {
	delete(m.requestedFrames, e.Surface)
	c, _, ok := m.coreByObject(e.Surface)
	if !ok {
		return
	}
	now := m.config.Now()
	m.emit(Frame{ID: c.id, Instant: now})
	m.emit(RedrawRequested{ID: c.id, Instant: now})
}

func (m *Manager) presentFailed(a PresentFailed) {
	if a.OutOfMemory {
		m.fail(errdefs.ErrOutOfMemory)
		return
	}
	c, _, ok := m.core(a.ID)
	if !ok {
		return
	}
	log.Debugf("Present on %v failed, requesting another redraw", a.ID)
	m.requestFrame(c, true)
	m.scheduleCommit(c)
}

type dndState struct {
	rects []Rect
	// sentEmpty is set once an empty list went out, so it is not repeated.
	sentEmpty bool
}

func (m *Manager) setDndDestinations(id ids.SurfaceID, rects []Rect) {
	c, _, ok := m.core(id)
	if !ok {
		return
	}
	st, ok := m.dnd[id]
	if !ok {
		st = &dndState{sentEmpty: true}
		m.dnd[id] = st
	}
	st.rects = slices.Clone(rects)
	if len(rects) > 0 {
		st.sentEmpty = false
	}
	m.scheduleCommit(c)
}

func (m *Manager) syncDnd(id ids.SurfaceID, object ObjectID) {
	if m.config.Dnd == nil {
		return
	}
	st, ok := m.dnd[id]
	if !ok {
		return
	}
	if len(st.rects) > 0 {
		m.config.Dnd.SetDestinations(id, object, st.rects)
		return
	}
	if !st.sentEmpty {
		m.config.Dnd.SetDestinations(id, object, nil)
		st.sentEmpty = true
	}
}

func (m *Manager) unregisterDnd(c *surfaceCore) {
	st, ok := m.dnd[c.id]
	if !ok {
		return
	}
	delete(m.dnd, c.id)
	if m.config.Dnd != nil && !st.sentEmpty {
		m.config.Dnd.SetDestinations(c.id, c.object(), nil)
	}
}
