package wayland

import (
	"fmt"

	"github.com/AvengeMedia/danktk/internal/errdefs"
	"github.com/AvengeMedia/danktk/internal/ids"
	"github.com/AvengeMedia/danktk/internal/log"
)

var errNotLocked = errdefs.NewCustomError(errdefs.ErrTypeUnsupported, "session is not locked")

type lockSurface struct {
	surfaceCore
	handle LockSurfaceHandle

	output     ObjectID
	configured bool
}

// lock binds a session lock; a second Lock while one exists does nothing.
func (m *Manager) lock() {
	if !m.caps.SessionLock {
		log.Warnf("Lock dropped: ext_session_lock_v1 %v", errdefs.ErrUnsupported)
		return
	}
	if m.sessionLock != nil {
		return
	}
	h, err := m.conn.LockSession()
	if err != nil {
		log.Errorf("Failed to lock session: %v", err)
		return
	}
	m.sessionLock = h
}

// unlock destroys lock surfaces, releases the lock and waits for the
// compositor to process it before acknowledging.
func (m *Manager) unlock() {
	if m.sessionLock == nil {
		log.Debug("Unlock without an active session lock ignored")
		return
	}
	for _, id := range sortedKeys(m.locks) {
		m.destroyLockSurface(id)
	}

	h := m.sessionLock
	m.sessionLock = nil
	if err := h.UnlockAndDestroy(); err != nil {
		log.Errorf("unlock_and_destroy failed: %v", err)
	}
	if err := m.conn.Roundtrip(); err != nil {
		log.Errorf("Roundtrip after unlock failed: %v", err)
	}
	m.emit(SessionUnlocked{})
}

func (m *Manager) createLockSurface(a CreateLockSurface) {
	if m.sessionLock == nil {
		log.Debugf("Lock surface %v dropped: %v", a.ID, errNotLocked)
		reply(a.Reply, Created{ID: a.ID, Err: errNotLocked})
		return
	}
	if m.inUse(a.ID) {
		m.creationFailed(KindLock, a.ID, fmt.Errorf("%v already in use", a.ID), a.Reply)
		return
	}

	surface, err := m.conn.CreateSurface()
	if err != nil {
		m.creationFailed(KindLock, a.ID, errdefs.Wrap(errdefs.ErrTypeSurfaceCreationFailed, "create wl_surface", err), a.Reply)
		return
	}
	handle, err := m.sessionLock.CreateLockSurface(surface, a.Output)
	if err != nil {
		surface.Destroy()
		m.creationFailed(KindLock, a.ID, errdefs.Wrap(errdefs.ErrTypeSurfaceCreationFailed, "get_lock_surface", err), a.Reply)
		return
	}

	l := &lockSurface{
		surfaceCore: newSurfaceCore(a.ID, surface, Size{Width: 1, Height: 1}),
		handle:      handle,
		output:      a.Output,
	}
	l.bufferCommitsOnly = true
	m.locks[a.ID] = l
	m.register(&l.surfaceCore, KindLock)
	m.attachScaling(&l.surfaceCore)

	m.created(KindLock, &l.surfaceCore, ids.None, ids.None, a.Reply)
}

func (m *Manager) handleLockConfigure(e LockSurfaceConfigureEvent) {
	c, kind, ok := m.coreByObject(e.Surface)
	if !ok || kind != KindLock {
		return
	}
	l := m.locks[c.id]

	size := Size{Width: e.Width, Height: e.Height}.atLeastOne()
	m.applySize(&l.surfaceCore, size)
	logRequest(l.handle.AckConfigure(e.Serial), "ack_configure", l.id)

	first := !l.configured
	l.configured = true
	m.emit(LockSurfaceConfigure{ID: l.id, Size: size, First: first})
}

func (m *Manager) handleSessionFinished() {
	for _, id := range sortedKeys(m.locks) {
		m.destroyLockSurface(id)
	}
	if m.sessionLock != nil {
		if err := m.sessionLock.Destroy(); err != nil {
			log.Debugf("Destroying finished session lock: %v", err)
		}
		m.sessionLock = nil
	}
	m.emit(SessionLockFinished{})
}

func (m *Manager) destroyLockSurface(id ids.SurfaceID) {
	l, ok := m.locks[id]
	if !ok {
		return
	}
	delete(m.locks, id)
	m.forget(&l.surfaceCore)
	l.destroyScaling()
	logRequest(l.handle.Destroy(), "ext_session_lock_surface_v1.destroy", id)
	l.destroySurface()

	m.emit(LockSurfaceDone{ID: id})
}
