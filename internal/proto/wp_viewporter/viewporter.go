// Package wp_viewporter binds the stable viewporter protocol.
package wp_viewporter

import (
	"github.com/AvengeMedia/danktk/internal/proto/wire"
	client "github.com/yaslama/go-wayland/wayland/client"
)

const WpViewporterInterfaceName = "wp_viewporter"

type WpViewporter struct {
	client.BaseProxy
}

func NewWpViewporter(ctx *client.Context) *WpViewporter {
	wpViewporter := &WpViewporter{}
	ctx.Register(wpViewporter)
	return wpViewporter
}

func (i *WpViewporter) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

func (i *WpViewporter) GetViewport(surface *client.Surface) (*WpViewport, error) {
	id := NewWpViewport(i.Context())
	err := i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Object(id.ID()).Object(surface.ID()).Bytes(), nil)
	return id, err
}

// WpViewport crops and scales one surface.
type WpViewport struct {
	client.BaseProxy
}

func NewWpViewport(ctx *client.Context) *WpViewport {
	wpViewport := &WpViewport{}
	ctx.Register(wpViewport)
	return wpViewport
}

func (i *WpViewport) Destroy() error {
	defer i.Context().Unregister(i)
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 0).Bytes(), nil)
}

// SetSource takes buffer coordinates; all -1 unsets the source rectangle.
func (i *WpViewport) SetSource(x, y, width, height float64) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 1).Fixed(x).Fixed(y).Fixed(width).Fixed(height).Bytes(), nil)
}

// SetDestination takes surface-local sizes; -1,-1 unsets the destination.
func (i *WpViewport) SetDestination(width, height int32) error {
	return i.Context().WriteMsg(wire.NewRequest(i.ID(), 2).Int32(width).Int32(height).Bytes(), nil)
}
