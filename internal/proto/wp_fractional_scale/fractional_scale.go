// Package wp_fractional_scale binds fractional-scale-v1.
package wp_fractional_scale

import (
	"github.com/AvengeMedia/danktk/internal/proto/wire"
	client "github.com/yaslama/go-wayland/wayland/client"
)

const WpFractionalScaleManagerV1InterfaceName = "wp_fractional_scale_manager_v1"

type WpFractionalScaleManagerV1 struct {
	client.BaseProxy
}

func NewWpFractionalScaleManagerV1(ctx *client.Context) *WpFractionalScaleManagerV1 {
	wpFractionalScaleManagerV1 := &WpFractionalScaleManagerV1{}
	ctx.Register(wpFractionalScaleManagerV1)
	return wpFractionalScaleManagerV1
}

func (i *WpFractionalScaleManagerV1) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

func (i *WpFractionalScaleManagerV1) GetFractionalScale(surface *client.Surface) (*WpFractionalScaleV1, error) {
	id := NewWpFractionalScaleV1(i.Context())
	err := i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Object(id.ID()).Object(surface.ID()).Bytes(), nil)
	return id, err
}

type WpFractionalScaleV1 struct {
	client.BaseProxy
	preferredScaleHandler WpFractionalScaleV1PreferredScaleHandlerFunc
}

func NewWpFractionalScaleV1(ctx *client.Context) *WpFractionalScaleV1 {
	wpFractionalScaleV1 := &WpFractionalScaleV1{}
	ctx.Register(wpFractionalScaleV1)
	return wpFractionalScaleV1
}

func (i *WpFractionalScaleV1) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

// WpFractionalScaleV1PreferredScaleEvent carries the scale times 120.
type WpFractionalScaleV1PreferredScaleEvent struct {
	Scale uint32
}
type WpFractionalScaleV1PreferredScaleHandlerFunc func(WpFractionalScaleV1PreferredScaleEvent)

func (i *WpFractionalScaleV1) SetPreferredScaleHandler(f WpFractionalScaleV1PreferredScaleHandlerFunc) {
	i.preferredScaleHandler = f
}

func (i *WpFractionalScaleV1) Dispatch(opcode uint32, fd int, data []byte) {
	switch opcode {
	case 0:
		if i.preferredScaleHandler == nil {
			return
		}
		r := wire.NewReader(data)
		i.preferredScaleHandler(WpFractionalScaleV1PreferredScaleEvent{Scale: r.Uint32()})
	}
}
