// Package wlr_layer_shell binds wlr-layer-shell-unstable-v1.
package wlr_layer_shell

import (
	"github.com/AvengeMedia/danktk/internal/proto/wire"
	"github.com/AvengeMedia/danktk/internal/proto/xdg_shell"
	client "github.com/yaslama/go-wayland/wayland/client"
)

const ZwlrLayerShellV1InterfaceName = "zwlr_layer_shell_v1"

type ZwlrLayerShellV1Layer uint32

const (
	ZwlrLayerShellV1LayerBackground ZwlrLayerShellV1Layer = 0
	ZwlrLayerShellV1LayerBottom     ZwlrLayerShellV1Layer = 1
	ZwlrLayerShellV1LayerTop        ZwlrLayerShellV1Layer = 2
	ZwlrLayerShellV1LayerOverlay    ZwlrLayerShellV1Layer = 3
)

type ZwlrLayerShellV1 struct {
	client.BaseProxy
}

func NewZwlrLayerShellV1(ctx *client.Context) *ZwlrLayerShellV1 {
	zwlrLayerShellV1 := &ZwlrLayerShellV1{}
	ctx.Register(zwlrLayerShellV1)
	return zwlrLayerShellV1
}

// GetLayerSurface assigns the layer_surface role. A nil output lets the
// compositor choose one.
func (i *ZwlrLayerShellV1) GetLayerSurface(surface *client.Surface, output *client.Output, layer uint32, namespace string) (*ZwlrLayerSurfaceV1, error) {
	id := NewZwlrLayerSurfaceV1(i.Context())
	var outputID uint32
	if output != nil {
		outputID = output.ID()
	}
	req := wire.NewRequest(i.ID(), 0).Object(id.ID()).Object(surface.ID()).Object(outputID).Uint32(layer).String(namespace)
	err := i.Context().WriteMsg(req.Bytes(), nil)
	return id, err
}

// Destroy requires version 3.
func (i *ZwlrLayerShellV1) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Bytes(), nil)
}

type ZwlrLayerSurfaceV1KeyboardInteractivity uint32

const (
	ZwlrLayerSurfaceV1KeyboardInteractivityNone      ZwlrLayerSurfaceV1KeyboardInteractivity = 0
	ZwlrLayerSurfaceV1KeyboardInteractivityExclusive ZwlrLayerSurfaceV1KeyboardInteractivity = 1
	ZwlrLayerSurfaceV1KeyboardInteractivityOnDemand  ZwlrLayerSurfaceV1KeyboardInteractivity = 2
)

type ZwlrLayerSurfaceV1Anchor uint32

const (
	ZwlrLayerSurfaceV1AnchorTop    ZwlrLayerSurfaceV1Anchor = 1
	ZwlrLayerSurfaceV1AnchorBottom ZwlrLayerSurfaceV1Anchor = 2
	ZwlrLayerSurfaceV1AnchorLeft   ZwlrLayerSurfaceV1Anchor = 4
	ZwlrLayerSurfaceV1AnchorRight  ZwlrLayerSurfaceV1Anchor = 8
)

type ZwlrLayerSurfaceV1 struct {
	client.BaseProxy
	configureHandler ZwlrLayerSurfaceV1ConfigureHandlerFunc
	closedHandler    ZwlrLayerSurfaceV1ClosedHandlerFunc
}

func NewZwlrLayerSurfaceV1(ctx *client.Context) *ZwlrLayerSurfaceV1 {
	zwlrLayerSurfaceV1 := &ZwlrLayerSurfaceV1{}
	ctx.Register(zwlrLayerSurfaceV1)
	return zwlrLayerSurfaceV1
}

func (i *ZwlrLayerSurfaceV1) SetSize(width, height uint32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Uint32(width).Uint32(height).Bytes(), nil)
}

func (i *ZwlrLayerSurfaceV1) SetAnchor(anchor uint32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Uint32(anchor).Bytes(), nil)
}

func (i *ZwlrLayerSurfaceV1) SetExclusiveZone(zone int32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 2).Int32(zone).Bytes(), nil)
}

func (i *ZwlrLayerSurfaceV1) SetMargin(top, right, bottom, left int32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 3).Int32(top).Int32(right).Int32(bottom).Int32(left).Bytes(), nil)
}

func (i *ZwlrLayerSurfaceV1) SetKeyboardInteractivity(keyboardInteractivity uint32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 4).Uint32(keyboardInteractivity).Bytes(), nil)
}

// GetPopup makes popup a child of this layer surface. The popup must have
// been created with a nil xdg parent.
func (i *ZwlrLayerSurfaceV1) GetPopup(popup *xdg_shell.Popup) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 5).Object(popup.ID()).Bytes(), nil)
}

func (i *ZwlrLayerSurfaceV1) AckConfigure(serial uint32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 6).Uint32(serial).Bytes(), nil)
}

func (i *ZwlrLayerSurfaceV1) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 7).Bytes(), nil)
}

// SetLayer requires version 2.
func (i *ZwlrLayerSurfaceV1) SetLayer(layer uint32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 8).Uint32(layer).Bytes(), nil)
}

type ZwlrLayerSurfaceV1ConfigureEvent struct {
	Serial uint32
	Width  uint32
	Height uint32
}
type ZwlrLayerSurfaceV1ConfigureHandlerFunc func(ZwlrLayerSurfaceV1ConfigureEvent)

func (i *ZwlrLayerSurfaceV1) SetConfigureHandler(f ZwlrLayerSurfaceV1ConfigureHandlerFunc) {
	i.configureHandler = f
}

type ZwlrLayerSurfaceV1ClosedEvent struct{}
type ZwlrLayerSurfaceV1ClosedHandlerFunc func(ZwlrLayerSurfaceV1ClosedEvent)

func (i *ZwlrLayerSurfaceV1) SetClosedHandler(f ZwlrLayerSurfaceV1ClosedHandlerFunc) {
	i.closedHandler = f
}

func (i *ZwlrLayerSurfaceV1) Dispatch(opcode uint32, fd int, data []byte) {
	switch opcode {
	case 0:
		if i.configureHandler == nil {
			return
		}
		r := wire.NewReader(data)
		i.configureHandler(ZwlrLayerSurfaceV1ConfigureEvent{Serial: r.Uint32(), Width: r.Uint32(), Height: r.Uint32()})
	case 1:
		if i.closedHandler == nil {
			return
		}
		i.closedHandler(ZwlrLayerSurfaceV1ClosedEvent{})
	}
}
