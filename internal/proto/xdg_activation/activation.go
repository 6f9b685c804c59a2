// Package xdg_activation binds xdg-activation-v1.
package xdg_activation

import (
	"github.com/AvengeMedia/danktk/internal/proto/wire"
	client "github.com/yaslama/go-wayland/wayland/client"
)

const XdgActivationV1InterfaceName = "xdg_activation_v1"

type XdgActivationV1 struct {
	client.BaseProxy
}

func NewXdgActivationV1(ctx *client.Context) *XdgActivationV1 {
	xdgActivationV1 := &XdgActivationV1{}
	ctx.Register(xdgActivationV1)
	return xdgActivationV1
}

func (i *XdgActivationV1) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

func (i *XdgActivationV1) GetActivationToken() (*XdgActivationTokenV1, error) {
	id := NewXdgActivationTokenV1(i.Context())
	err := i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Object(id.ID()).Bytes(), nil)
	return id, err
}

func (i *XdgActivationV1) Activate(token string, surface *client.Surface) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 2).String(token).Object(surface.ID()).Bytes(), nil)
}

// XdgActivationTokenV1 is configured with the set_* requests, then committed
// once; the compositor answers with done.
type XdgActivationTokenV1 struct {
	client.BaseProxy
	doneHandler XdgActivationTokenV1DoneHandlerFunc
}

func NewXdgActivationTokenV1(ctx *client.Context) *XdgActivationTokenV1 {
	xdgActivationTokenV1 := &XdgActivationTokenV1{}
	ctx.Register(xdgActivationTokenV1)
	return xdgActivationTokenV1
}

func (i *XdgActivationTokenV1) SetSerial(serial uint32, seat *client.Seat) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Uint32(serial).Object(seat.ID()).Bytes(), nil)
}

func (i *XdgActivationTokenV1) SetAppID(appID string) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).String(appID).Bytes(), nil)
}

func (i *XdgActivationTokenV1) SetSurface(surface *client.Surface) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 2).Object(surface.ID()).Bytes(), nil)
}

func (i *XdgActivationTokenV1) Commit() error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 3).Bytes(), nil)
}

func (i *XdgActivationTokenV1) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 4).Bytes(), nil)
}

type XdgActivationTokenV1DoneEvent struct {
	Token string
}
type XdgActivationTokenV1DoneHandlerFunc func(XdgActivationTokenV1DoneEvent)

func (i *XdgActivationTokenV1) SetDoneHandler(f XdgActivationTokenV1DoneHandlerFunc) {
	i.doneHandler = f
}

func (i *XdgActivationTokenV1) Dispatch(opcode uint32, fd int, data []byte) {
	switch opcode {
	case 0:
		if i.doneHandler == nil {
			return
		}
		r := wire.NewReader(data)
		i.doneHandler(XdgActivationTokenV1DoneEvent{Token: r.String()})
	}
}
