package wayland

// Capabilities records which optional globals the compositor offered.
type Capabilities struct {
	Subcompositor   bool `json:"subcompositor"`
	Viewporter      bool `json:"viewporter"`
	FractionalScale bool `json:"fractionalScale"`
	LayerShell      bool `json:"layerShell"`
	SessionLock     bool `json:"sessionLock"`
	Activation      bool `json:"activation"`
	Dmabuf          bool `json:"dmabuf"`
	AlphaModifier   bool `json:"alphaModifier"`
	CursorShape     bool `json:"cursorShape"`
	Decoration      bool `json:"decoration"`
	DataDevice      bool `json:"dataDevice"`
}

// EventSink receives protocol events from the backend's dispatch goroutine.
type EventSink func(ProtocolEvent)

// Dialer connects a backend and binds its globals. Events produced while
// binding, such as seats and outputs, go to sink.
type Dialer func(sink EventSink) (Conn, error)

// Conn is the compositor connection the dispatcher drives. Every method is
// called from the dispatcher goroutine only.
type Conn interface {
	Capabilities() Capabilities
	// SubsurfaceHandles returns the objects widgets need to embed subsurfaces.
	SubsurfaceHandles() interface{}

	CreateSurface() (SurfaceHandle, error)
	CreateToplevel(surface SurfaceHandle) (ToplevelHandle, error)
	CreateLayerSurface(surface SurfaceHandle, opts LayerShellOptions) (LayerHandle, error)
	CreatePopup(surface SurfaceHandle, parent PopupParent, positioner Positioner) (PopupHandle, error)
	CreateViewport(surface SurfaceHandle) (ViewportHandle, error)
	CreateFractionalScale(surface SurfaceHandle) (FractionalScaleHandle, error)

	LockSession() (SessionLockHandle, error)

	// RequestActivationToken returns the token object id; the token arrives
	// later as ActivationTokenDone with the same id.
	RequestActivationToken(req ActivationRequest) (ObjectID, error)
	Activate(surface SurfaceHandle, token string) error

	// Roundtrip blocks until the compositor has processed every request sent so far.
	Roundtrip() error
	Close() error
}

type SurfaceHandle interface {
	ID() ObjectID
	Commit() error
	// Frame requests a frame callback, reported as FrameDone.
	Frame() error
	SetBufferScale(scale int32) error
	// SetOpaqueRegion marks the whole surface opaque; zero size clears the region.
	SetOpaqueRegion(width, height int32) error
	ClearInputRegion() error
	Destroy() error
}

type ViewportHandle interface {
	SetDestination(width, height int32) error
	Destroy() error
}

type FractionalScaleHandle interface {
	Destroy() error
}

type ToplevelHandle interface {
	SetTitle(title string) error
	SetAppID(appID string) error
	SetMinSize(width, height int32) error
	SetMaxSize(width, height int32) error
	SetWindowGeometry(x, y, width, height int32) error
	SetDecorationMode(mode DecorationMode) error
	SetMaximized(maximized bool) error
	SetFullscreen(fullscreen bool) error
	SetMinimized() error
	Move(seat SeatHandle, serial uint32) error
	Resize(seat SeatHandle, serial uint32, edge ResizeEdge) error
	ShowWindowMenu(seat SeatHandle, serial uint32, x, y int32) error
	AckConfigure(serial uint32) error
	Destroy() error
}

type LayerShellOptions struct {
	Output    ObjectID
	Layer     Layer
	Namespace string
}

type LayerHandle interface {
	SetSize(width, height uint32) error
	SetAnchor(anchor Anchor) error
	SetExclusiveZone(zone int32) error
	SetMargin(margin Margin) error
	SetKeyboardInteractivity(mode KeyboardInteractivity) error
	SetLayer(layer Layer) error
	AckConfigure(serial uint32) error
	Destroy() error
}

// PopupParent carries exactly one non-nil parent role.
type PopupParent struct {
	Toplevel ToplevelHandle
	Layer    LayerHandle
	Popup    PopupHandle
}

type PopupHandle interface {
	Grab(seat SeatHandle, serial uint32) error
	Reposition(positioner Positioner, token uint32) error
	SetWindowGeometry(x, y, width, height int32) error
	AckConfigure(serial uint32) error
	Destroy() error
}

type SessionLockHandle interface {
	CreateLockSurface(surface SurfaceHandle, output ObjectID) (LockSurfaceHandle, error)
	UnlockAndDestroy() error
	Destroy() error
}

type LockSurfaceHandle interface {
	AckConfigure(serial uint32) error
	Destroy() error
}

type SeatHandle interface {
	ID() ObjectID
	Name() string
}

type PointerHandle interface {
	SetCursor(icon CursorIcon) error
}

type ActivationRequest struct {
	AppID   string
	Surface SurfaceHandle
	Seat    SeatHandle
	Serial  uint32
}

// ProtocolEvent is a compositor event already decoded by the backend.
type ProtocolEvent interface{ protocolEvent() }

type ToplevelConfigure struct {
	Surface        ObjectID
	Serial         uint32
	Width, Height  int32
	State          ToplevelState
	Capabilities   WmCapabilities
	Bounds         Size
	DecorationMode DecorationMode
}

type ToplevelClose struct{ Surface ObjectID }

type LayerConfigureEvent struct {
	Surface       ObjectID
	Serial        uint32
	Width, Height uint32
}

type LayerClosed struct{ Surface ObjectID }

type PopupConfigureEvent struct {
	Surface             ObjectID
	Serial              uint32
	X, Y, Width, Height int32
}

type PopupDismissed struct{ Surface ObjectID }

type PopupRepositionedEvent struct {
	Surface ObjectID
	Token   uint32
}

type LockSurfaceConfigureEvent struct {
	Surface       ObjectID
	Serial        uint32
	Width, Height uint32
}

type SessionLockedEvent struct{}

type SessionFinishedEvent struct{}

// PreferredScale carries the fractional scale already divided by 120.
type PreferredScale struct {
	Surface ObjectID
	Scale   float64
}

type SurfaceEnter struct {
	Surface ObjectID
	Output  ObjectID
}

type SurfaceLeave struct {
	Surface ObjectID
	Output  ObjectID
}

// OutputUpdated is sent on every wl_output.done.
type OutputUpdated struct {
	Output ObjectID
	Name   string
	Scale  int32
}

type OutputGone struct{ Output ObjectID }

type FrameDone struct {
	Surface ObjectID
	Time    uint32
}

type SeatAdded struct{ Seat SeatHandle }

type SeatRemoved struct{ Seat ObjectID }

// SeatCapabilities reports the devices the backend created for a seat; Pointer is nil without one.
type SeatCapabilities struct {
	Seat     ObjectID
	Pointer  PointerHandle
	Keyboard bool
	Touch    bool
}

type PointerKind int

const (
	PointerEnter PointerKind = iota
	PointerLeave
	PointerMotion
	PointerPress
	PointerRelease
	PointerAxis
)

type PointerEvent struct {
	Kind     PointerKind
	Surface  ObjectID
	Position Point
	Serial   uint32
	Time     uint32
	Button   uint32
	// Axis deltas; Discrete counts are in wheel steps.
	Horizontal, Vertical                 float64
	DiscreteHorizontal, DiscreteVertical int32
}

// PointerFrame groups the events of one wl_pointer.frame.
type PointerFrame struct {
	Seat   ObjectID
	Events []PointerEvent
}

type KeyboardEnter struct {
	Seat    ObjectID
	Surface ObjectID
	Serial  uint32
}

type KeyboardLeave struct {
	Seat    ObjectID
	Surface ObjectID
	Serial  uint32
}

type KeyboardKey struct {
	Seat    ObjectID
	Serial  uint32
	Time    uint32
	Key     uint32
	Pressed bool
}

type KeyboardModifiers struct {
	Seat                       ObjectID
	Depressed, Latched, Locked uint32
	Group                      uint32
}

type KeyboardKeymap struct {
	Seat   ObjectID
	Format uint32
	Text   string
}

type KeyboardRepeat struct {
	Seat        ObjectID
	Rate, Delay int32
}

type TouchDown struct {
	Seat     ObjectID
	Surface  ObjectID
	Serial   uint32
	Time     uint32
	Finger   int32
	Position Point
}

type TouchUp struct {
	Seat   ObjectID
	Serial uint32
	Time   uint32
	Finger int32
}

type TouchMotion struct {
	Seat     ObjectID
	Time     uint32
	Finger   int32
	Position Point
}

type TouchCancel struct{ Seat ObjectID }

type DndEnter struct {
	Seat      ObjectID
	Surface   ObjectID
	Position  Point
	MimeTypes []string
}

type DndMotion struct {
	Seat     ObjectID
	Position Point
}

type DndLeave struct{ Seat ObjectID }

type DndDrop struct{ Seat ObjectID }

type ActivationTokenDone struct {
	Request ObjectID
	Token   string
}

// ProtocolError is a fatal wl_display.error.
type ProtocolError struct {
	Object  ObjectID
	Code    uint32
	Message string
}

// Disconnected reports that the dispatch goroutine lost the connection.
type Disconnected struct{ Err error }

func (ToplevelConfigure) protocolEvent()         {}
func (ToplevelClose) protocolEvent()             {}
func (LayerConfigureEvent) protocolEvent()       {}
func (LayerClosed) protocolEvent()               {}
func (PopupConfigureEvent) protocolEvent()       {}
func (PopupDismissed) protocolEvent()            {}
func (PopupRepositionedEvent) protocolEvent()    {}
func (LockSurfaceConfigureEvent) protocolEvent() {}
func (SessionLockedEvent) protocolEvent()        {}
func (SessionFinishedEvent) protocolEvent()      {}
func (PreferredScale) protocolEvent()            {}
func (SurfaceEnter) protocolEvent()              {}
func (SurfaceLeave) protocolEvent()              {}
func (OutputUpdated) protocolEvent()             {}
func (OutputGone) protocolEvent()                {}
func (FrameDone) protocolEvent()                 {}
func (SeatAdded) protocolEvent()                 {}
func (SeatRemoved) protocolEvent()               {}
func (SeatCapabilities) protocolEvent()          {}
func (PointerFrame) protocolEvent()              {}
func (KeyboardEnter) protocolEvent()             {}
func (KeyboardLeave) protocolEvent()             {}
func (KeyboardKey) protocolEvent()               {}
func (KeyboardModifiers) protocolEvent()         {}
func (KeyboardKeymap) protocolEvent()            {}
func (KeyboardRepeat) protocolEvent()            {}
func (TouchDown) protocolEvent()                 {}
func (TouchUp) protocolEvent()                   {}
func (TouchMotion) protocolEvent()               {}
func (TouchCancel) protocolEvent()               {}
func (DndEnter) protocolEvent()                  {}
func (DndMotion) protocolEvent()                 {}
func (DndLeave) protocolEvent()                  {}
func (DndDrop) protocolEvent()                   {}
func (ActivationTokenDone) protocolEvent()       {}
func (ProtocolError) protocolEvent()             {}
func (Disconnected) protocolEvent()              {}
