// Package ext_session_lock binds ext-session-lock-v1.
package ext_session_lock

import (
	"github.com/AvengeMedia/danktk/internal/proto/wire"
	client "github.com/yaslama/go-wayland/wayland/client"
)

const ExtSessionLockManagerV1InterfaceName = "ext_session_lock_manager_v1"

type ExtSessionLockManagerV1 struct {
	client.BaseProxy
}

func NewExtSessionLockManagerV1(ctx *client.Context) *ExtSessionLockManagerV1 {
	extSessionLockManagerV1 := &ExtSessionLockManagerV1{}
	ctx.Register(extSessionLockManagerV1)
	return extSessionLockManagerV1
}

func (i *ExtSessionLockManagerV1) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

func (i *ExtSessionLockManagerV1) Lock() (*ExtSessionLockV1, error) {
	id := NewExtSessionLockV1(i.Context())
	err := i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Object(id.ID()).Bytes(), nil)
	return id, err
}

type ExtSessionLockV1 struct {
	client.BaseProxy
	lockedHandler   ExtSessionLockV1LockedHandlerFunc
	finishedHandler ExtSessionLockV1FinishedHandlerFunc
}

func NewExtSessionLockV1(ctx *client.Context) *ExtSessionLockV1 {
	extSessionLockV1 := &ExtSessionLockV1{}
	ctx.Register(extSessionLockV1)
	return extSessionLockV1
}

// Destroy is only valid before locked was received or after finished.
func (i *ExtSessionLockV1) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

func (i *ExtSessionLockV1) GetLockSurface(surface *client.Surface, output *client.Output) (*ExtSessionLockSurfaceV1, error) {
	id := NewExtSessionLockSurfaceV1(i.Context())
	err := i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Object(id.ID()).Object(surface.ID()).Object(output.ID()).Bytes(), nil)
	return id, err
}

func (i *ExtSessionLockV1) UnlockAndDestroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 2).Bytes(), nil)
}

type ExtSessionLockV1LockedEvent struct{}
type ExtSessionLockV1LockedHandlerFunc func(ExtSessionLockV1LockedEvent)

func (i *ExtSessionLockV1) SetLockedHandler(f ExtSessionLockV1LockedHandlerFunc) {
	i.lockedHandler = f
}

type ExtSessionLockV1FinishedEvent struct{}
type ExtSessionLockV1FinishedHandlerFunc func(ExtSessionLockV1FinishedEvent)

func (i *ExtSessionLockV1) SetFinishedHandler(f ExtSessionLockV1FinishedHandlerFunc) {
	i.finishedHandler = f
}

func (i *ExtSessionLockV1) Dispatch(opcode uint32, fd int, data []byte) {
	switch opcode {
	case 0:
		if i.lockedHandler != nil {
			i.lockedHandler(ExtSessionLockV1LockedEvent{})
		}
	case 1:
		if i.finishedHandler != nil {
			i.finishedHandler(ExtSessionLockV1FinishedEvent{})
		}
	}
}

type ExtSessionLockSurfaceV1 struct {
	client.BaseProxy
	configureHandler ExtSessionLockSurfaceV1ConfigureHandlerFunc
}

func NewExtSessionLockSurfaceV1(ctx *client.Context) *ExtSessionLockSurfaceV1 {
	extSessionLockSurfaceV1 := &ExtSessionLockSurfaceV1{}
	ctx.Register(extSessionLockSurfaceV1)
	return extSessionLockSurfaceV1
}

func (i *ExtSessionLockSurfaceV1) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

func (i *ExtSessionLockSurfaceV1) AckConfigure(serial uint32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Uint32(serial).Bytes(), nil)
}

type ExtSessionLockSurfaceV1ConfigureEvent struct {
	Serial uint32
	Width  uint32
	Height uint32
}
type ExtSessionLockSurfaceV1ConfigureHandlerFunc func(ExtSessionLockSurfaceV1ConfigureEvent)

func (i *ExtSessionLockSurfaceV1) SetConfigureHandler(f ExtSessionLockSurfaceV1ConfigureHandlerFunc) {
	i.configureHandler = f
}

func (i *ExtSessionLockSurfaceV1) Dispatch(opcode uint32, fd int, data []byte) {
	switch opcode {
	case 0:
		if i.configureHandler == nil {
			return
		}
		r := wire.NewReader(data)
		i.configureHandler(ExtSessionLockSurfaceV1ConfigureEvent{Serial: r.Uint32(), Width: r.Uint32(), Height: r.Uint32()})
	}
}
