// Package xdg_shell binds the stable xdg-shell protocol: xdg_wm_base,
// xdg_positioner, xdg_surface, xdg_toplevel and xdg_popup.
package xdg_shell

import (
	"github.com/AvengeMedia/danktk/internal/proto/wire"
	client "github.com/yaslama/go-wayland/wayland/client"
)

const WmBaseInterfaceName = "xdg_wm_base"

// WmBase is the global that turns wl_surfaces into xdg surfaces.
type WmBase struct {
	client.BaseProxy
	pingHandler WmBasePingHandlerFunc
}

func NewWmBase(ctx *client.Context) *WmBase {
	xdgWmBase := &WmBase{}
	ctx.Register(xdgWmBase)
	return xdgWmBase
}

func (i *WmBase) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

func (i *WmBase) CreatePositioner() (*Positioner, error) {
	id := NewPositioner(i.Context())
	err := i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Object(id.ID()).Bytes(), nil)
	return id, err
}

func (i *WmBase) GetXdgSurface(surface *client.Surface) (*Surface, error) {
	id := NewSurface(i.Context())
	err := i.Context().WriteMsg(wire.NewRequest(i.ID(), 2).Object(id.ID()).Object(surface.ID()).Bytes(), nil)
	return id, err
}

func (i *WmBase) Pong(serial uint32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 3).Uint32(serial).Bytes(), nil)
}

type WmBasePingEvent struct {
	Serial uint32
}
type WmBasePingHandlerFunc func(WmBasePingEvent)

func (i *WmBase) SetPingHandler(f WmBasePingHandlerFunc) {
	i.pingHandler = f
}

func (i *WmBase) Dispatch(opcode uint32, fd int, data []byte) {
	switch opcode {
	case 0:
		if i.pingHandler == nil {
			return
		}
		r := wire.NewReader(data)
		i.pingHandler(WmBasePingEvent{Serial: r.Uint32()})
	}
}

type PositionerAnchor uint32

const (
	PositionerAnchorNone        PositionerAnchor = 0
	PositionerAnchorTop         PositionerAnchor = 1
	PositionerAnchorBottom      PositionerAnchor = 2
	PositionerAnchorLeft        PositionerAnchor = 3
	PositionerAnchorRight       PositionerAnchor = 4
	PositionerAnchorTopLeft     PositionerAnchor = 5
	PositionerAnchorBottomLeft  PositionerAnchor = 6
	PositionerAnchorTopRight    PositionerAnchor = 7
	PositionerAnchorBottomRight PositionerAnchor = 8
)

// PositionerGravity shares the anchor numbering.
type PositionerGravity = PositionerAnchor

type PositionerConstraintAdjustment uint32

const (
	PositionerConstraintAdjustmentNone    PositionerConstraintAdjustment = 0
	PositionerConstraintAdjustmentSlideX  PositionerConstraintAdjustment = 1
	PositionerConstraintAdjustmentSlideY  PositionerConstraintAdjustment = 2
	PositionerConstraintAdjustmentFlipX   PositionerConstraintAdjustment = 4
	PositionerConstraintAdjustmentFlipY   PositionerConstraintAdjustment = 8
	PositionerConstraintAdjustmentResizeX PositionerConstraintAdjustment = 16
	PositionerConstraintAdjustmentResizeY PositionerConstraintAdjustment = 32
)

// Positioner describes where a popup is placed relative to its parent.
type Positioner struct {
	client.BaseProxy
}

func NewPositioner(ctx *client.Context) *Positioner {
	xdgPositioner := &Positioner{}
	ctx.Register(xdgPositioner)
	return xdgPositioner
}

func (i *Positioner) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

func (i *Positioner) SetSize(width, height int32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Int32(width).Int32(height).Bytes(), nil)
}

func (i *Positioner) SetAnchorRect(x, y, width, height int32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 2).Int32(x).Int32(y).Int32(width).Int32(height).Bytes(), nil)
}

func (i *Positioner) SetAnchor(anchor PositionerAnchor) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 3).Uint32(uint32(anchor)).Bytes(), nil)
}

func (i *Positioner) SetGravity(gravity PositionerGravity) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 4).Uint32(uint32(gravity)).Bytes(), nil)
}

func (i *Positioner) SetConstraintAdjustment(adjustment PositionerConstraintAdjustment) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 5).Uint32(uint32(adjustment)).Bytes(), nil)
}

func (i *Positioner) SetOffset(x, y int32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 6).Int32(x).Int32(y).Bytes(), nil)
}

// SetReactive requires version 3.
func (i *Positioner) SetReactive() error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 7).Bytes(), nil)
}

// Surface is the xdg_surface role base for toplevels and popups.
type Surface struct {
	client.BaseProxy
	configureHandler SurfaceConfigureHandlerFunc
}

func NewSurface(ctx *client.Context) *Surface {
	xdgSurface := &Surface{}
	ctx.Register(xdgSurface)
	return xdgSurface
}

func (i *Surface) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

func (i *Surface) GetToplevel() (*Toplevel, error) {
	id := NewToplevel(i.Context())
	err := i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Object(id.ID()).Bytes(), nil)
	return id, err
}

// GetPopup creates a popup; parent may be nil when the parent is set through
// another protocol such as wlr-layer-shell.
func (i *Surface) GetPopup(parent *Surface, positioner *Positioner) (*Popup, error) {
	id := NewPopup(i.Context())
	var parentID uint32
	if parent != nil {
		parentID = parent.ID()
	}
	err := i.Context().WriteMsg(wire.NewRequest(i.ID(), 2).Object(id.ID()).Object(parentID).Object(positioner.ID()).Bytes(), nil)
	return id, err
}

func (i *Surface) SetWindowGeometry(x, y, width, height int32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 3).Int32(x).Int32(y).Int32(width).Int32(height).Bytes(), nil)
}

func (i *Surface) AckConfigure(serial uint32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 4).Uint32(serial).Bytes(), nil)
}

type SurfaceConfigureEvent struct {
	Serial uint32
}
type SurfaceConfigureHandlerFunc func(SurfaceConfigureEvent)

func (i *Surface) SetConfigureHandler(f SurfaceConfigureHandlerFunc) {
	i.configureHandler = f
}

func (i *Surface) Dispatch(opcode uint32, fd int, data []byte) {
	switch opcode {
	case 0:
		if i.configureHandler == nil {
			return
		}
		r := wire.NewReader(data)
		i.configureHandler(SurfaceConfigureEvent{Serial: r.Uint32()})
	}
}

type ToplevelResizeEdge uint32

const (
	ToplevelResizeEdgeNone        ToplevelResizeEdge = 0
	ToplevelResizeEdgeTop         ToplevelResizeEdge = 1
	ToplevelResizeEdgeBottom      ToplevelResizeEdge = 2
	ToplevelResizeEdgeLeft        ToplevelResizeEdge = 4
	ToplevelResizeEdgeTopLeft     ToplevelResizeEdge = 5
	ToplevelResizeEdgeBottomLeft  ToplevelResizeEdge = 6
	ToplevelResizeEdgeRight       ToplevelResizeEdge = 8
	ToplevelResizeEdgeTopRight    ToplevelResizeEdge = 9
	ToplevelResizeEdgeBottomRight ToplevelResizeEdge = 10
)

type ToplevelState uint32

const (
	ToplevelStateMaximized   ToplevelState = 1
	ToplevelStateFullscreen  ToplevelState = 2
	ToplevelStateResizing    ToplevelState = 3
	ToplevelStateActivated   ToplevelState = 4
	ToplevelStateTiledLeft   ToplevelState = 5
	ToplevelStateTiledRight  ToplevelState = 6
	ToplevelStateTiledTop    ToplevelState = 7
	ToplevelStateTiledBottom ToplevelState = 8
	ToplevelStateSuspended   ToplevelState = 9
)

type ToplevelWmCapabilities uint32

const (
	ToplevelWmCapabilitiesWindowMenu ToplevelWmCapabilities = 1
	ToplevelWmCapabilitiesMaximize   ToplevelWmCapabilities = 2
	ToplevelWmCapabilitiesFullscreen ToplevelWmCapabilities = 3
	ToplevelWmCapabilitiesMinimize   ToplevelWmCapabilities = 4
)

// Toplevel is a desktop window.
type Toplevel struct {
	client.BaseProxy
	configureHandler       ToplevelConfigureHandlerFunc
	closeHandler           ToplevelCloseHandlerFunc
	configureBoundsHandler ToplevelConfigureBoundsHandlerFunc
	wmCapabilitiesHandler  ToplevelWmCapabilitiesHandlerFunc
}

func NewToplevel(ctx *client.Context) *Toplevel {
	xdgToplevel := &Toplevel{}
	ctx.Register(xdgToplevel)
	return xdgToplevel
}

func (i *Toplevel) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

func (i *Toplevel) SetTitle(title string) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 2).String(title).Bytes(), nil)
}

func (i *Toplevel) SetAppID(appID string) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 3).String(appID).Bytes(), nil)
}

func (i *Toplevel) ShowWindowMenu(seat *client.Seat, serial uint32, x, y int32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 4).Object(seat.ID()).Uint32(serial).Int32(x).Int32(y).Bytes(), nil)
}

func (i *Toplevel) Move(seat *client.Seat, serial uint32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 5).Object(seat.ID()).Uint32(serial).Bytes(), nil)
}

func (i *Toplevel) Resize(seat *client.Seat, serial uint32, edges ToplevelResizeEdge) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 6).Object(seat.ID()).Uint32(serial).Uint32(uint32(edges)).Bytes(), nil)
}

func (i *Toplevel) SetMaxSize(width, height int32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 7).Int32(width).Int32(height).Bytes(), nil)
}

func (i *Toplevel) SetMinSize(width, height int32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 8).Int32(width).Int32(height).Bytes(), nil)
}

func (i *Toplevel) SetMaximized() error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 9).Bytes(), nil)
}

func (i *Toplevel) UnsetMaximized() error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 10).Bytes(), nil)
}

// SetFullscreen lets the compositor pick the output when output is nil.
func (i *Toplevel) SetFullscreen(output *client.Output) error {
	var outputID uint32
	if output != nil {
		outputID = output.ID()
	}
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 11).Object(outputID).Bytes(), nil)
}

func (i *Toplevel) UnsetFullscreen() error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 12).Bytes(), nil)
}

func (i *Toplevel) SetMinimized() error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 13).Bytes(), nil)
}

type ToplevelConfigureEvent struct {
	Width  int32
	Height int32
	States []ToplevelState
}
type ToplevelConfigureHandlerFunc func(ToplevelConfigureEvent)

func (i *Toplevel) SetConfigureHandler(f ToplevelConfigureHandlerFunc) {
	i.configureHandler = f
}

type ToplevelCloseEvent struct{}
type ToplevelCloseHandlerFunc func(ToplevelCloseEvent)

func (i *Toplevel) SetCloseHandler(f ToplevelCloseHandlerFunc) {
	i.closeHandler = f
}

type ToplevelConfigureBoundsEvent struct {
	Width  int32
	Height int32
}
type ToplevelConfigureBoundsHandlerFunc func(ToplevelConfigureBoundsEvent)

func (i *Toplevel) SetConfigureBoundsHandler(f ToplevelConfigureBoundsHandlerFunc) {
	i.configureBoundsHandler = f
}

type ToplevelWmCapabilitiesEvent struct {
	Capabilities []ToplevelWmCapabilities
}
type ToplevelWmCapabilitiesHandlerFunc func(ToplevelWmCapabilitiesEvent)

func (i *Toplevel) SetWmCapabilitiesHandler(f ToplevelWmCapabilitiesHandlerFunc) {
	i.wmCapabilitiesHandler = f
}

func (i *Toplevel) Dispatch(opcode uint32, fd int, data []byte) {
	r := wire.NewReader(data)
	switch opcode {
	case 0:
		if i.configureHandler == nil {
			return
		}
		e := ToplevelConfigureEvent{Width: r.Int32(), Height: r.Int32()}
		for _, s := range wire.Uint32s(r.Array()) {
			e.States = append(e.States, ToplevelState(s))
		}
		i.configureHandler(e)
	case 1:
		if i.closeHandler == nil {
			return
		}
		i.closeHandler(ToplevelCloseEvent{})
	case 2:
		if i.configureBoundsHandler == nil {
			return
		}
		i.configureBoundsHandler(ToplevelConfigureBoundsEvent{Width: r.Int32(), Height: r.Int32()})
	case 3:
		if i.wmCapabilitiesHandler == nil {
			return
		}
		var e ToplevelWmCapabilitiesEvent
		for _, c := range wire.Uint32s(r.Array()) {
			e.Capabilities = append(e.Capabilities, ToplevelWmCapabilities(c))
		}
		i.wmCapabilitiesHandler(e)
	}
}

// Popup is a short-lived surface positioned against a parent.
type Popup struct {
	client.BaseProxy
	configureHandler    PopupConfigureHandlerFunc
	popupDoneHandler    PopupPopupDoneHandlerFunc
	repositionedHandler PopupRepositionedHandlerFunc
}

func NewPopup(ctx *client.Context) *Popup {
	xdgPopup := &Popup{}
	ctx.Register(xdgPopup)
	return xdgPopup
}

func (i *Popup) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

func (i *Popup) Grab(seat *client.Seat, serial uint32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Object(seat.ID()).Uint32(serial).Bytes(), nil)
}

// Reposition requires version 3.
func (i *Popup) Reposition(positioner *Positioner, token uint32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 2).Object(positioner.ID()).Uint32(token).Bytes(), nil)
}

type PopupConfigureEvent struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}
type PopupConfigureHandlerFunc func(PopupConfigureEvent)

func (i *Popup) SetConfigureHandler(f PopupConfigureHandlerFunc) {
	i.configureHandler = f
}

type PopupPopupDoneEvent struct{}
type PopupPopupDoneHandlerFunc func(PopupPopupDoneEvent)

func (i *Popup) SetPopupDoneHandler(f PopupPopupDoneHandlerFunc) {
	i.popupDoneHandler = f
}

type PopupRepositionedEvent struct {
	Token uint32
}
type PopupRepositionedHandlerFunc func(PopupRepositionedEvent)

func (i *Popup) SetRepositionedHandler(f PopupRepositionedHandlerFunc) {
	i.repositionedHandler = f
}

func (i *Popup) Dispatch(opcode uint32, fd int, data []byte) {
	r := wire.NewReader(data)
	switch opcode {
	case 0:
		if i.configureHandler == nil {
			return
		}
		i.configureHandler(PopupConfigureEvent{X: r.Int32(), Y: r.Int32(), Width: r.Int32(), Height: r.Int32()})
	case 1:
		if i.popupDoneHandler == nil {
			return
		}
		i.popupDoneHandler(PopupPopupDoneEvent{})
	case 2:
		if i.repositionedHandler == nil {
			return
		}
		i.repositionedHandler(PopupRepositionedEvent{Token: r.Uint32()})
	}
}
