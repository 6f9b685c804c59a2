// Package wp_alpha_modifier binds alpha-modifier-v1.
package wp_alpha_modifier

import (
	"github.com/AvengeMedia/danktk/internal/proto/wire"
	client "github.com/yaslama/go-wayland/wayland/client"
)

const WpAlphaModifierV1InterfaceName = "wp_alpha_modifier_v1"

type WpAlphaModifierV1 struct {
	client.BaseProxy
}

func NewWpAlphaModifierV1(ctx *client.Context) *WpAlphaModifierV1 {
	wpAlphaModifierV1 := &WpAlphaModifierV1{}
	ctx.Register(wpAlphaModifierV1)
	return wpAlphaModifierV1
}

func (i *WpAlphaModifierV1) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}
