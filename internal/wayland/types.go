package wayland

import "fmt"

// ObjectID is a Wayland protocol object id as seen on the wire.
type ObjectID uint32

type Size struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// atLeastOne collapses zero dimensions to one.
func (s Size) atLeastOne() Size {
	if s.Width == 0 {
		s.Width = 1
	}
	if s.Height == 0 {
		s.Height = 1
	}
	return s
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X      int32 `json:"x"`
	Y      int32 `json:"y"`
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
}

type SurfaceKind int

const (
	KindWindow SurfaceKind = iota
	KindLayer
	KindPopup
	KindLock
)

func (k SurfaceKind) String() string {
	switch k {
	case KindWindow:
		return "window"
	case KindLayer:
		return "layer"
	case KindPopup:
		return "popup"
	case KindLock:
		return "lock"
	}
	return "unknown"
}

type Layer uint32

const (
	LayerBackground Layer = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

// Anchor uses the zwlr_layer_surface_v1 bit values.
type Anchor uint32

const (
	AnchorTop Anchor = 1 << iota
	AnchorBottom
	AnchorLeft
	AnchorRight
)

func (a Anchor) Has(b Anchor) bool { return a&b == b }

type KeyboardInteractivity uint32

const (
	KeyboardInteractivityNone KeyboardInteractivity = iota
	KeyboardInteractivityExclusive
	KeyboardInteractivityOnDemand
)

type Margin struct {
	Top    int32 `json:"top"`
	Right  int32 `json:"right"`
	Bottom int32 `json:"bottom"`
	Left   int32 `json:"left"`
}

// ResizeEdge uses the xdg_toplevel.resize_edge values.
type ResizeEdge uint32

const (
	EdgeNone        ResizeEdge = 0
	EdgeTop         ResizeEdge = 1
	EdgeBottom      ResizeEdge = 2
	EdgeLeft        ResizeEdge = 4
	EdgeTopLeft     ResizeEdge = 5
	EdgeBottomLeft  ResizeEdge = 6
	EdgeRight       ResizeEdge = 8
	EdgeTopRight    ResizeEdge = 9
	EdgeBottomRight ResizeEdge = 10
)

func (e ResizeEdge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeTopLeft:
		return "top-left"
	case EdgeBottomLeft:
		return "bottom-left"
	case EdgeRight:
		return "right"
	case EdgeTopRight:
		return "top-right"
	case EdgeBottomRight:
		return "bottom-right"
	}
	return "none"
}

// Cursor is the arrow shown while hovering the edge.
func (e ResizeEdge) Cursor() CursorIcon {
	switch e {
	case EdgeTop:
		return CursorNResize
	case EdgeBottom:
		return CursorSResize
	case EdgeLeft:
		return CursorWResize
	case EdgeRight:
		return CursorEResize
	case EdgeTopLeft:
		return CursorNwResize
	case EdgeBottomLeft:
		return CursorSwResize
	case EdgeTopRight:
		return CursorNeResize
	case EdgeBottomRight:
		return CursorSeResize
	}
	return CursorDefault
}

// DecorationMode mirrors zxdg_toplevel_decoration_v1.mode; zero means no preference.
type DecorationMode uint32

const (
	DecorationUnset  DecorationMode = 0
	DecorationClient DecorationMode = 1
	DecorationServer DecorationMode = 2
)

type ToplevelState uint32

const (
	StateMaximized ToplevelState = 1 << iota
	StateFullscreen
	StateResizing
	StateActivated
	StateTiledLeft
	StateTiledRight
	StateTiledTop
	StateTiledBottom
	StateSuspended
)

func (s ToplevelState) Has(b ToplevelState) bool { return s&b == b }

// WmCapabilities is empty until the compositor advertises any, which means
// every action is assumed available.
type WmCapabilities uint32

const (
	CapWindowMenu WmCapabilities = 1 << iota
	CapMaximize
	CapFullscreen
	CapMinimize
)

func (c WmCapabilities) allows(b WmCapabilities) bool { return c == 0 || c&b == b }

type CursorIcon int

const (
	CursorDefault CursorIcon = iota
	CursorPointer
	CursorText
	CursorGrab
	CursorGrabbing
	CursorMove
	CursorCrosshair
	CursorNotAllowed
	CursorWait
	CursorProgress
	CursorHelp
	CursorNResize
	CursorSResize
	CursorEResize
	CursorWResize
	CursorNeResize
	CursorNwResize
	CursorSeResize
	CursorSwResize
	CursorEwResize
	CursorNsResize
)

var cursorNames = map[CursorIcon]string{
	CursorDefault:    "default",
	CursorPointer:    "pointer",
	CursorText:       "text",
	CursorGrab:       "grab",
	CursorGrabbing:   "grabbing",
	CursorMove:       "move",
	CursorCrosshair:  "crosshair",
	CursorNotAllowed: "not-allowed",
	CursorWait:       "wait",
	CursorProgress:   "progress",
	CursorHelp:       "help",
	CursorNResize:    "n-resize",
	CursorSResize:    "s-resize",
	CursorEResize:    "e-resize",
	CursorWResize:    "w-resize",
	CursorNeResize:   "ne-resize",
	CursorNwResize:   "nw-resize",
	CursorSeResize:   "se-resize",
	CursorSwResize:   "sw-resize",
	CursorEwResize:   "ew-resize",
	CursorNsResize:   "ns-resize",
}

func (c CursorIcon) String() string {
	if n, ok := cursorNames[c]; ok {
		return n
	}
	return "default"
}

// ParseCursorIcon maps a CSS cursor name to an icon.
func ParseCursorIcon(name string) (CursorIcon, bool) {
	for icon, n := range cursorNames {
		if n == name {
			return icon, true
		}
	}
	return CursorDefault, false
}

// PopupAnchor and Gravity use the xdg_positioner enum values.
type PopupAnchor uint32

const (
	PopupAnchorNone PopupAnchor = iota
	PopupAnchorTop
	PopupAnchorBottom
	PopupAnchorLeft
	PopupAnchorRight
	PopupAnchorTopLeft
	PopupAnchorBottomLeft
	PopupAnchorTopRight
	PopupAnchorBottomRight
)

type Gravity uint32

const (
	GravityNone Gravity = iota
	GravityTop
	GravityBottom
	GravityLeft
	GravityRight
	GravityTopLeft
	GravityBottomLeft
	GravityTopRight
	GravityBottomRight
)

type ConstraintAdjustment uint32

const (
	AdjustSlideX ConstraintAdjustment = 1 << iota
	AdjustSlideY
	AdjustFlipX
	AdjustFlipY
	AdjustResizeX
	AdjustResizeY
)

// Positioner describes where a popup goes relative to its parent.
type Positioner struct {
	Size                 Size                 `json:"size"`
	AnchorRect           Rect                 `json:"anchorRect"`
	Anchor               PopupAnchor          `json:"anchor"`
	Gravity              Gravity              `json:"gravity"`
	ConstraintAdjustment ConstraintAdjustment `json:"constraintAdjustment"`
	OffsetX              int32                `json:"offsetX"`
	OffsetY              int32                `json:"offsetY"`
	Reactive             bool                 `json:"reactive"`
}

type Modifiers struct {
	Shift bool `json:"shift"`
	Ctrl  bool `json:"ctrl"`
	Alt   bool `json:"alt"`
	Logo  bool `json:"logo"`
	Caps  bool `json:"caps"`
	Num   bool `json:"num"`
}

// Real modifier bits of the default xkb keymap.
const (
	modShift = 1 << 0
	modLock  = 1 << 1
	modCtrl  = 1 << 2
	modAlt   = 1 << 3
	modNum   = 1 << 4
	modLogo  = 1 << 6
)

func decodeModifiers(depressed, latched, locked uint32) Modifiers {
	active := depressed | latched | locked
	return Modifiers{
		Shift: active&modShift != 0,
		Ctrl:  active&modCtrl != 0,
		Alt:   active&modAlt != 0,
		Logo:  active&modLogo != 0,
		Caps:  locked&modLock != 0,
		Num:   locked&modNum != 0,
	}
}

type MouseButton uint32

const (
	ButtonLeft MouseButton = iota + 1
	ButtonRight
	ButtonMiddle
	ButtonBack
	ButtonForward
	ButtonOther
)

// Linux input event codes.
const (
	btnLeft    = 0x110
	btnRight   = 0x111
	btnMiddle  = 0x112
	btnSide    = 0x113
	btnExtra   = 0x114
	btnForward = 0x115
	btnBack    = 0x116
)

func mouseButton(code uint32) MouseButton {
	switch code {
	case btnLeft:
		return ButtonLeft
	case btnRight:
		return ButtonRight
	case btnMiddle:
		return ButtonMiddle
	case btnSide, btnBack:
		return ButtonBack
	case btnExtra, btnForward:
		return ButtonForward
	}
	return ButtonOther
}
