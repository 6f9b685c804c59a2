// Package linux_dmabuf binds the zwp_linux_dmabuf_v1 global. Only its
// presence is used; buffers are created by the renderer.
package linux_dmabuf

import (
	"github.com/AvengeMedia/danktk/internal/proto/wire"
	client "github.com/yaslama/go-wayland/wayland/client"
)

const ZwpLinuxDmabufV1InterfaceName = "zwp_linux_dmabuf_v1"

type ZwpLinuxDmabufV1 struct {
	client.BaseProxy
}

func NewZwpLinuxDmabufV1(ctx *client.Context) *ZwpLinuxDmabufV1 {
	zwpLinuxDmabufV1 := &ZwpLinuxDmabufV1{}
	ctx.Register(zwpLinuxDmabufV1)
	return zwpLinuxDmabufV1
}

func (i *ZwpLinuxDmabufV1) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

// Dispatch drops the format and modifier events versions below 4 send.
func (i *ZwpLinuxDmabufV1) Dispatch(opcode uint32, fd int, data []byte) {}
