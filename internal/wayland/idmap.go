package wayland

import "github.com/AvengeMedia/danktk/internal/ids"

type idEntry struct {
	id   ids.SurfaceID
	kind SurfaceKind
}

// idMap maps wl_surface object ids to surface ids and back.
type idMap struct {
	byObject  map[ObjectID]idEntry
	bySurface map[ids.SurfaceID]ObjectID
}

func newIDMap() *idMap {
	return &idMap{
		byObject:  make(map[ObjectID]idEntry),
		bySurface: make(map[ids.SurfaceID]ObjectID),
	}
}

func (m *idMap) insert(object ObjectID, id ids.SurfaceID, kind SurfaceKind) {
	m.byObject[object] = idEntry{id: id, kind: kind}
	m.bySurface[id] = object
}

func (m *idMap) remove(id ids.SurfaceID) {
	if object, ok := m.bySurface[id]; ok {
		delete(m.byObject, object)
		delete(m.bySurface, id)
	}
}

func (m *idMap) surface(object ObjectID) (ids.SurfaceID, SurfaceKind, bool) {
	e, ok := m.byObject[object]
	return e.id, e.kind, ok
}

func (m *idMap) len() int { return len(m.bySurface) }
