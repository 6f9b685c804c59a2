package wayland

import (
	"github.com/AvengeMedia/danktk/internal/ids"
)

// Action is a request from the UI thread, applied by the dispatcher in
// submission order.
type Action interface{ isAction() }

// Created answers a creation action. Err is set when creation failed.
type Created struct {
	ID     ids.SurfaceID
	Object ObjectID
	Common *Common
	Err    error
}

type WindowSettings struct {
	AppID        string
	Title        string
	Size         Size
	MinSize      *Size
	MaxSize      *Size
	Resizable    bool
	ResizeBorder float64
	Decorations  DecorationMode
	Transparent  bool
	Token        string
}

type CreateWindow struct {
	ID       ids.SurfaceID
	Settings WindowSettings
	Reply    chan<- Created
}

type LayerSettings struct {
	Layer                 Layer
	Anchor                Anchor
	KeyboardInteractivity KeyboardInteractivity
	PointerInteractivity  bool
	Output                ObjectID
	Namespace             string
	Margin                Margin
	// nil means stretched by anchors.
	Width, Height *uint32
	ExclusiveZone int32
}

type CreateLayerSurface struct {
	ID       ids.SurfaceID
	Settings LayerSettings
	Reply    chan<- Created
}

type CreatePopup struct {
	ID         ids.SurfaceID
	Parent     ids.SurfaceID
	Positioner Positioner
	Grab       bool
	Reply      chan<- Created
}

type CreateLockSurface struct {
	ID     ids.SurfaceID
	Output ObjectID
	Reply  chan<- Created
}

// Destroy removes any kind of surface. Popups take their descendants with them.
type Destroy struct{ ID ids.SurfaceID }

// Resize applies to windows, popups and layer surfaces. Layer axes stretched
// by opposing anchors ignore the given dimension.
type Resize struct {
	ID            ids.SurfaceID
	Width, Height uint32
}

type SetMinSize struct {
	ID   ids.SurfaceID
	Size *Size
}

type SetMaxSize struct {
	ID   ids.SurfaceID
	Size *Size
}

type SetAnchor struct {
	ID     ids.SurfaceID
	Anchor Anchor
}

type SetMargin struct {
	ID     ids.SurfaceID
	Margin Margin
}

type SetExclusiveZone struct {
	ID   ids.SurfaceID
	Zone int32
}

type SetKeyboardInteractivity struct {
	ID   ids.SurfaceID
	Mode KeyboardInteractivity
}

type SetLayer struct {
	ID    ids.SurfaceID
	Layer Layer
}

type SetTitle struct {
	ID    ids.SurfaceID
	Title string
}

type SetAppID struct {
	ID    ids.SurfaceID
	AppID string
}

type InteractiveMove struct{ ID ids.SurfaceID }

type InteractiveResize struct {
	ID   ids.SurfaceID
	Edge ResizeEdge
}

type ShowWindowMenu struct {
	ID   ids.SurfaceID
	X, Y int32
}

type ToggleMaximized struct{ ID ids.SurfaceID }

type ToggleFullscreen struct{ ID ids.SurfaceID }

type Minimize struct{ ID ids.SurfaceID }

type Lock struct{}

type Unlock struct{}

// RequestToken asks for an activation token. With Window unset no seat or
// serial is attached. Reply receives the token, or "" when none is available.
type RequestToken struct {
	AppID  string
	Window ids.SurfaceID
	Reply  chan<- string
}

type Activate struct {
	Window ids.SurfaceID
	Token  string
}

type SetCursor struct{ Icon CursorIcon }

type RequestRedraw struct{ ID ids.SurfaceID }

// PrePresentNotify asks for a frame callback that rides on the UI's own present commit.
type PrePresentNotify struct{ ID ids.SurfaceID }

// PresentFailed reports a failed present. Out-of-memory is fatal; anything
// else re-requests a redraw.
type PresentFailed struct {
	ID          ids.SurfaceID
	OutOfMemory bool
}

// Ready lets the dispatcher start draining compositor events.
type Ready struct{}

type SetImeCaret struct {
	ID       ids.SurfaceID
	Position Point
	Size     Size
}

// SetDndDestinations replaces the drop rectangles of a surface.
type SetDndDestinations struct {
	ID    ids.SurfaceID
	Rects []Rect
}

type SurfaceInfo struct {
	ID         ids.SurfaceID `json:"id"`
	Kind       string        `json:"kind"`
	Object     ObjectID      `json:"object"`
	Parent     ids.SurfaceID `json:"parent,omitempty"`
	Title      string        `json:"title,omitempty"`
	Size       Size          `json:"size"`
	Scale      float64       `json:"scale"`
	Configured bool          `json:"configured"`
}

type Snapshot struct {
	Reply chan<- []SurfaceInfo
}

func (CreateWindow) isAction()             {}
func (CreateLayerSurface) isAction()       {}
func (CreatePopup) isAction()              {}
func (CreateLockSurface) isAction()        {}
func (Destroy) isAction()                  {}
func (Resize) isAction()                   {}
func (SetMinSize) isAction()               {}
func (SetMaxSize) isAction()               {}
func (SetAnchor) isAction()                {}
func (SetMargin) isAction()                {}
func (SetExclusiveZone) isAction()         {}
func (SetKeyboardInteractivity) isAction() {}
func (SetLayer) isAction()                 {}
func (SetTitle) isAction()                 {}
func (SetAppID) isAction()                 {}
func (InteractiveMove) isAction()          {}
func (InteractiveResize) isAction()        {}
func (ShowWindowMenu) isAction()           {}
func (ToggleMaximized) isAction()          {}
func (ToggleFullscreen) isAction()         {}
func (Minimize) isAction()                 {}
func (Lock) isAction()                     {}
func (Unlock) isAction()                   {}
func (RequestToken) isAction()             {}
func (Activate) isAction()                 {}
func (SetCursor) isAction()                {}
func (RequestRedraw) isAction()            {}
func (PrePresentNotify) isAction()         {}
func (PresentFailed) isAction()            {}
func (Ready) isAction()                    {}
func (SetImeCaret) isAction()              {}
func (SetDndDestinations) isAction()       {}
func (Snapshot) isAction()                 {}
