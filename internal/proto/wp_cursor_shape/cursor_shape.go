// Package wp_cursor_shape binds cursor-shape-v1.
package wp_cursor_shape

import (
	"github.com/AvengeMedia/danktk/internal/proto/wire"
	client "github.com/yaslama/go-wayland/wayland/client"
)

const WpCursorShapeManagerV1InterfaceName = "wp_cursor_shape_manager_v1"

type WpCursorShapeManagerV1 struct {
	client.BaseProxy
}

func NewWpCursorShapeManagerV1(ctx *client.Context) *WpCursorShapeManagerV1 {
	wpCursorShapeManagerV1 := &WpCursorShapeManagerV1{}
	ctx.Register(wpCursorShapeManagerV1)
	return wpCursorShapeManagerV1
}

func (i *WpCursorShapeManagerV1) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

func (i *WpCursorShapeManagerV1) GetPointer(pointer *client.Pointer) (*WpCursorShapeDeviceV1, error) {
	id := NewWpCursorShapeDeviceV1(i.Context())
	err := i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Object(id.ID()).Object(pointer.ID()).Bytes(), nil)
	return id, err
}

type WpCursorShapeDeviceV1Shape uint32

const (
	WpCursorShapeDeviceV1ShapeDefault     WpCursorShapeDeviceV1Shape = 1
	WpCursorShapeDeviceV1ShapeContextMenu WpCursorShapeDeviceV1Shape = 2
	WpCursorShapeDeviceV1ShapeHelp        WpCursorShapeDeviceV1Shape = 3
	WpCursorShapeDeviceV1ShapePointer     WpCursorShapeDeviceV1Shape = 4
	WpCursorShapeDeviceV1ShapeProgress    WpCursorShapeDeviceV1Shape = 5
	WpCursorShapeDeviceV1ShapeWait        WpCursorShapeDeviceV1Shape = 6
	WpCursorShapeDeviceV1ShapeCell        WpCursorShapeDeviceV1Shape = 7
	WpCursorShapeDeviceV1ShapeCrosshair   WpCursorShapeDeviceV1Shape = 8
	WpCursorShapeDeviceV1ShapeText        WpCursorShapeDeviceV1Shape = 9
	WpCursorShapeDeviceV1ShapeMove        WpCursorShapeDeviceV1Shape = 13
	WpCursorShapeDeviceV1ShapeNotAllowed  WpCursorShapeDeviceV1Shape = 15
	WpCursorShapeDeviceV1ShapeGrab        WpCursorShapeDeviceV1Shape = 16
	WpCursorShapeDeviceV1ShapeGrabbing    WpCursorShapeDeviceV1Shape = 17
	WpCursorShapeDeviceV1ShapeEResize     WpCursorShapeDeviceV1Shape = 18
	WpCursorShapeDeviceV1ShapeNResize     WpCursorShapeDeviceV1Shape = 19
	WpCursorShapeDeviceV1ShapeNeResize    WpCursorShapeDeviceV1Shape = 20
	WpCursorShapeDeviceV1ShapeNwResize    WpCursorShapeDeviceV1Shape = 21
	WpCursorShapeDeviceV1ShapeSResize     WpCursorShapeDeviceV1Shape = 22
	WpCursorShapeDeviceV1ShapeSeResize    WpCursorShapeDeviceV1Shape = 23
	WpCursorShapeDeviceV1ShapeSwResize    WpCursorShapeDeviceV1Shape = 24
	WpCursorShapeDeviceV1ShapeWResize     WpCursorShapeDeviceV1Shape = 25
	WpCursorShapeDeviceV1ShapeEwResize    WpCursorShapeDeviceV1Shape = 26
	WpCursorShapeDeviceV1ShapeNsResize    WpCursorShapeDeviceV1Shape = 27
)

type WpCursorShapeDeviceV1 struct {
	client.BaseProxy
}

func NewWpCursorShapeDeviceV1(ctx *client.Context) *WpCursorShapeDeviceV1 {
	wpCursorShapeDeviceV1 := &WpCursorShapeDeviceV1{}
	ctx.Register(wpCursorShapeDeviceV1)
	return wpCursorShapeDeviceV1
}

func (i *WpCursorShapeDeviceV1) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

// SetShape must carry the serial of the latest wl_pointer.enter.
func (i *WpCursorShapeDeviceV1) SetShape(serial uint32, shape WpCursorShapeDeviceV1Shape) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Uint32(serial).Uint32(uint32(shape)).Bytes(), nil)
}
