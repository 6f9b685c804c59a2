// Package xdg_decoration binds xdg-decoration-unstable-v1.
package xdg_decoration

import (
	"github.com/AvengeMedia/danktk/internal/proto/wire"
	"github.com/AvengeMedia/danktk/internal/proto/xdg_shell"
	client "github.com/yaslama/go-wayland/wayland/client"
)

const ZxdgDecorationManagerV1InterfaceName = "zxdg_decoration_manager_v1"

type ZxdgDecorationManagerV1 struct {
	client.BaseProxy
}

func NewZxdgDecorationManagerV1(ctx *client.Context) *ZxdgDecorationManagerV1 {
	zxdgDecorationManagerV1 := &ZxdgDecorationManagerV1{}
	ctx.Register(zxdgDecorationManagerV1)
	return zxdgDecorationManagerV1
}

func (i *ZxdgDecorationManagerV1) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

func (i *ZxdgDecorationManagerV1) GetToplevelDecoration(toplevel *xdg_shell.Toplevel) (*ZxdgToplevelDecorationV1, error) {
	id := NewZxdgToplevelDecorationV1(i.Context())
	err := i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Object(id.ID()).Object(toplevel.ID()).Bytes(), nil)
	return id, err
}

type ZxdgToplevelDecorationV1Mode uint32

const (
	ZxdgToplevelDecorationV1ModeClientSide ZxdgToplevelDecorationV1Mode = 1
	ZxdgToplevelDecorationV1ModeServerSide ZxdgToplevelDecorationV1Mode = 2
)

type ZxdgToplevelDecorationV1 struct {
	client.BaseProxy
	configureHandler ZxdgToplevelDecorationV1ConfigureHandlerFunc
}

func NewZxdgToplevelDecorationV1(ctx *client.Context) *ZxdgToplevelDecorationV1 {
	zxdgToplevelDecorationV1 := &ZxdgToplevelDecorationV1{}
	ctx.Register(zxdgToplevelDecorationV1)
	return zxdgToplevelDecorationV1
}

func (i *ZxdgToplevelDecorationV1) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

func (i *ZxdgToplevelDecorationV1) SetMode(mode ZxdgToplevelDecorationV1Mode) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Uint32(uint32(mode)).Bytes(), nil)
}

func (i *ZxdgToplevelDecorationV1) UnsetMode() error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 2).Bytes(), nil)
}

type ZxdgToplevelDecorationV1ConfigureEvent struct {
	Mode ZxdgToplevelDecorationV1Mode
}
type ZxdgToplevelDecorationV1ConfigureHandlerFunc func(ZxdgToplevelDecorationV1ConfigureEvent)

func (i *ZxdgToplevelDecorationV1) SetConfigureHandler(f ZxdgToplevelDecorationV1ConfigureHandlerFunc) {
	i.configureHandler = f
}

func (i *ZxdgToplevelDecorationV1) Dispatch(opcode uint32, fd int, data []byte) {
	switch opcode {
	case 0:
		if i.configureHandler == nil {
			return
		}
		r := wire.NewReader(data)
		i.configureHandler(ZxdgToplevelDecorationV1ConfigureEvent{Mode: ZxdgToplevelDecorationV1Mode(r.Uint32())})
	}
}
