package wayland

import (
	"time"

	"github.com/AvengeMedia/danktk/internal/ids"
)

// Event is delivered to the UI thread through Manager.Events.
type Event interface{ isEvent() }

type SurfaceCreated struct {
	Kind     SurfaceKind
	ID       ids.SurfaceID
	Object   ObjectID
	Parent   ids.SurfaceID
	Toplevel ids.SurfaceID
	Common   *Common
}

type CreateFailed struct {
	Kind SurfaceKind
	ID   ids.SurfaceID
	Err  error
}

type WindowConfigure struct {
	ID             ids.SurfaceID
	Size           Size
	Capabilities   WmCapabilities
	State          ToplevelState
	DecorationMode DecorationMode
	Bounds         Size
	First          bool
}

// WindowCloseRequested is the compositor asking the window to close.
type WindowCloseRequested struct{ ID ids.SurfaceID }

// WindowClosed follows the destruction of a window.
type WindowClosed struct{ ID ids.SurfaceID }

type WindowStateChanged struct {
	ID    ids.SurfaceID
	State ToplevelState
}

type WindowCapabilitiesChanged struct {
	ID           ids.SurfaceID
	Capabilities WmCapabilities
}

type LayerConfigure struct {
	ID    ids.SurfaceID
	Size  Size
	First bool
}

type LayerDone struct{ ID ids.SurfaceID }

type PopupConfigure struct {
	ID                  ids.SurfaceID
	X, Y, Width, Height int32
	First               bool
}

type PopupDone struct{ ID ids.SurfaceID }

type PopupRepositioned struct {
	ID    ids.SurfaceID
	Token uint32
}

type LockSurfaceConfigure struct {
	ID    ids.SurfaceID
	Size  Size
	First bool
}

type LockSurfaceDone struct{ ID ids.SurfaceID }

type SessionLocked struct{}

// SessionUnlocked is emitted after the unlock roundtrip completed.
type SessionUnlocked struct{}

// SessionLockFinished means the compositor refused or ended the lock.
type SessionLockFinished struct{}

type ScaleFactorChanged struct {
	ID       ids.SurfaceID
	Scale    float64
	Legacy   bool
	Viewport ViewportHandle
}

type RedrawRequested struct {
	ID      ids.SurfaceID
	Instant time.Time
}

type Frame struct {
	ID      ids.SurfaceID
	Instant time.Time
}

type PointerEventKind int

const (
	CursorEntered PointerEventKind = iota
	CursorLeft
	CursorMoved
	MousePressed
	MouseReleased
	MouseWheel
)

func (k PointerEventKind) String() string {
	switch k {
	case CursorEntered:
		return "entered"
	case CursorLeft:
		return "left"
	case CursorMoved:
		return "moved"
	case MousePressed:
		return "pressed"
	case MouseReleased:
		return "released"
	case MouseWheel:
		return "wheel"
	}
	return "unknown"
}

type Pointer struct {
	ID       ids.SurfaceID
	Kind     PointerEventKind
	Position Point
	Button   MouseButton
	// Scroll deltas for MouseWheel; Lines is set when the device reported wheel steps.
	ScrollX, ScrollY float64
	Lines            bool
}

type Keyboard struct {
	ID        ids.SurfaceID
	Key       uint32
	Pressed   bool
	Modifiers Modifiers
	Time      uint32
}

type ModifiersChanged struct {
	ID        ids.SurfaceID
	Modifiers Modifiers
}

type Focused struct {
	ID      ids.SurfaceID
	Focused bool
}

type Keymap struct {
	Format uint32
	Text   string
}

type RepeatInfo struct {
	Rate, Delay int32
}

type TouchPhase int

const (
	TouchStarted TouchPhase = iota
	TouchMoved
	TouchEnded
	TouchCancelled
)

type Touch struct {
	ID       ids.SurfaceID
	Finger   int32
	Phase    TouchPhase
	Position Point
}

type DndKind int

const (
	DndEntered DndKind = iota
	DndMoved
	DndLeft
	DndDropped
)

type DndOffer struct {
	ID        ids.SurfaceID
	Kind      DndKind
	Position  Point
	MimeTypes []string
}

// Subcompositor is emitted once at startup when subsurfaces can be embedded.
type Subcompositor struct {
	Handles interface{}
}

type OutputAdded struct {
	Output ObjectID
	Name   string
	Scale  int32
}

type OutputRemoved struct{ Output ObjectID }

type ActivationToken struct {
	Window ids.SurfaceID
	Token  string
}

// AboutToWait closes every dispatcher wake-up.
type AboutToWait struct{}

// Fatal is the last event before the dispatcher stops.
type Fatal struct{ Err error }

func (SurfaceCreated) isEvent()            {}
func (CreateFailed) isEvent()              {}
func (WindowConfigure) isEvent()           {}
func (WindowCloseRequested) isEvent()      {}
func (WindowClosed) isEvent()              {}
func (WindowStateChanged) isEvent()        {}
func (WindowCapabilitiesChanged) isEvent() {}
func (LayerConfigure) isEvent()            {}
func (LayerDone) isEvent()                 {}
func (PopupConfigure) isEvent()            {}
func (PopupDone) isEvent()                 {}
func (PopupRepositioned) isEvent()         {}
func (LockSurfaceConfigure) isEvent()      {}
func (LockSurfaceDone) isEvent()           {}
func (SessionLocked) isEvent()             {}
func (SessionUnlocked) isEvent()           {}
func (SessionLockFinished) isEvent()       {}
func (ScaleFactorChanged) isEvent()        {}
func (RedrawRequested) isEvent()           {}
func (Frame) isEvent()                     {}
func (Pointer) isEvent()                   {}
func (Keyboard) isEvent()                  {}
func (ModifiersChanged) isEvent()          {}
func (Focused) isEvent()                   {}
func (Keymap) isEvent()                    {}
func (RepeatInfo) isEvent()                {}
func (Touch) isEvent()                     {}
func (DndOffer) isEvent()                  {}
func (Subcompositor) isEvent()             {}
func (OutputAdded) isEvent()               {}
func (OutputRemoved) isEvent()             {}
func (ActivationToken) isEvent()           {}
func (AboutToWait) isEvent()               {}
func (Fatal) isEvent()                     {}
