// Package ids mints the process-unique identifiers shared by the UI layer and
// the Wayland dispatcher. Widget ids live in [1, 2^32); surface (window) ids
// start at 2^32 so both kinds fit one fused id space without collisions.
package ids

import (
	"fmt"
	"math"
	"sync/atomic"
)

// SurfaceID names a renderable surface: window, layer surface, popup or lock surface.
type SurfaceID uint64

// WidgetID names a widget node in the UI tree.
type WidgetID uint64

const (
	None SurfaceID = 0

	surfaceBase = uint64(math.MaxUint32) + 1
)

var (
	nextSurface atomic.Uint64
	nextWidget  atomic.Uint64
)

// NewSurface returns a fresh surface id. Ids are strictly increasing.
func NewSurface() SurfaceID {
	return SurfaceID(surfaceBase + nextSurface.Add(1) - 1)
}

// NewWidget returns a fresh widget id, never zero. It panics once the 32-bit
// widget range is exhausted rather than spill into surface ids.
func NewWidget() WidgetID {
	n := nextWidget.Add(1)
	if n > math.MaxUint32 {
		panic("ids: widget id space exhausted")
	}
	return WidgetID(n)
}

// IsSurface reports whether a raw fused id belongs to the surface range.
func IsSurface(raw uint64) bool {
	return raw >= surfaceBase
}

func (id SurfaceID) String() string {
	if id == None {
		return "surface(none)"
	}
	return fmt.Sprintf("surface(%d)", uint64(id)-surfaceBase)
}
