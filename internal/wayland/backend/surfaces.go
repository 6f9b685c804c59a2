package backend

import (
	"fmt"

	"github.com/AvengeMedia/danktk/internal/errdefs"
	"github.com/AvengeMedia/danktk/internal/proto/wlr_layer_shell"
	"github.com/AvengeMedia/danktk/internal/proto/wp_fractional_scale"
	"github.com/AvengeMedia/danktk/internal/proto/xdg_decoration"
	"github.com/AvengeMedia/danktk/internal/proto/xdg_shell"
	"github.com/AvengeMedia/danktk/internal/wayland"
	wlclient "github.com/yaslama/go-wayland/wayland/client"
)

type surface struct {
	c  *Conn
	id wayland.ObjectID
	wl *wlclient.Surface
}

func (c *Conn) CreateSurface() (wayland.SurfaceHandle, error) {
	wl, err := c.compositor.CreateSurface()
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrTypeSurfaceCreationFailed, "wl_compositor.create_surface failed", err)
	}
	s := &surface{c: c, id: wayland.ObjectID(wl.ID()), wl: wl}
	wl.SetEnterHandler(func(e wlclient.SurfaceEnterEvent) {
		if e.Output != nil {
			c.sink(wayland.SurfaceEnter{Surface: s.id, Output: wayland.ObjectID(e.Output.ID())})
		}
	})
	wl.SetLeaveHandler(func(e wlclient.SurfaceLeaveEvent) {
		if e.Output != nil {
			c.sink(wayland.SurfaceLeave{Surface: s.id, Output: wayland.ObjectID(e.Output.ID())})
		}
	})
	return s, nil
}

func (s *surface) ID() wayland.ObjectID { return s.id }

func (s *surface) Commit() error { return s.wl.Commit() }

func (s *surface) Frame() error {
	cb, err := s.wl.Frame()
	if err != nil {
		return err
	}
	cb.SetDoneHandler(func(e wlclient.CallbackDoneEvent) {
		s.c.sink(wayland.FrameDone{Surface: s.id, Time: e.CallbackData})
	})
	return nil
}

func (s *surface) SetBufferScale(scale int32) error { return s.wl.SetBufferScale(scale) }

// SetOpaqueRegion with a zero size sets an empty region.
func (s *surface) SetOpaqueRegion(width, height int32) error {
	region, err := s.region(width, height)
	if err != nil {
		return err
	}
	defer region.Destroy()
	return s.wl.SetOpaqueRegion(region)
}

// ClearInputRegion makes the surface transparent to input.
func (s *surface) ClearInputRegion() error {
	region, err := s.region(0, 0)
	if err != nil {
		return err
	}
	defer region.Destroy()
	return s.wl.SetInputRegion(region)
}

func (s *surface) region(width, height int32) (*wlclient.Region, error) {
	region, err := s.c.compositor.CreateRegion()
	if err != nil {
		return nil, fmt.Errorf("wl_compositor.create_region failed: %w", err)
	}
	if width > 0 && height > 0 {
		if err := region.Add(0, 0, width, height); err != nil {
			region.Destroy()
			return nil, err
		}
	}
	return region, nil
}

func (s *surface) Destroy() error { return s.wl.Destroy() }

func wlSurface(h wayland.SurfaceHandle) (*surface, error) {
	s, ok := h.(*surface)
	if !ok || s == nil {
		return nil, fmt.Errorf("%w: foreign surface handle %T", errdefs.ErrUnsupported, h)
	}
	return s, nil
}

func (c *Conn) CreateViewport(h wayland.SurfaceHandle) (wayland.ViewportHandle, error) {
	if c.viewporter == nil {
		return nil, errdefs.ErrUnsupported
	}
	s, err := wlSurface(h)
	if err != nil {
		return nil, err
	}
	return c.viewporter.GetViewport(s.wl)
}

func (c *Conn) CreateFractionalScale(h wayland.SurfaceHandle) (wayland.FractionalScaleHandle, error) {
	if c.fractionalScale == nil {
		return nil, errdefs.ErrUnsupported
	}
	s, err := wlSurface(h)
	if err != nil {
		return nil, err
	}
	fs, err := c.fractionalScale.GetFractionalScale(s.wl)
	if err != nil {
		return nil, err
	}
	fs.SetPreferredScaleHandler(func(e wp_fractional_scale.WpFractionalScaleV1PreferredScaleEvent) {
		c.sink(wayland.PreferredScale{Surface: s.id, Scale: float64(e.Scale) / 120})
	})
	return fs, nil
}

// toplevel collects the events of one configure sequence and publishes them
// on xdg_surface.configure.
type toplevel struct {
	id         wayland.ObjectID
	xdgSurface *xdg_shell.Surface
	wl         *xdg_shell.Toplevel
	decoration *xdg_decoration.ZxdgToplevelDecorationV1

	pending wayland.ToplevelConfigure
}

func (c *Conn) CreateToplevel(h wayland.SurfaceHandle) (wayland.ToplevelHandle, error) {
	s, err := wlSurface(h)
	if err != nil {
		return nil, err
	}
	xs, err := c.wmBase.GetXdgSurface(s.wl)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrTypeSurfaceCreationFailed, "xdg_wm_base.get_xdg_surface failed", err)
	}
	wl, err := xs.GetToplevel()
	if err != nil {
		xs.Destroy()
		return nil, errdefs.Wrap(errdefs.ErrTypeSurfaceCreationFailed, "xdg_surface.get_toplevel failed", err)
	}
	t := &toplevel{id: s.id, xdgSurface: xs, wl: wl}
	t.pending.Surface = s.id

	if c.decoration != nil {
		deco, err := c.decoration.GetToplevelDecoration(wl)
		if err == nil {
			t.decoration = deco
			deco.SetConfigureHandler(func(e xdg_decoration.ZxdgToplevelDecorationV1ConfigureEvent) {
				t.pending.DecorationMode = wayland.DecorationMode(e.Mode)
			})
		}
	}

	wl.SetConfigureHandler(func(e xdg_shell.ToplevelConfigureEvent) {
		t.pending.Width, t.pending.Height = e.Width, e.Height
		t.pending.State = toplevelState(e.States)
	})
	wl.SetConfigureBoundsHandler(func(e xdg_shell.ToplevelConfigureBoundsEvent) {
		t.pending.Bounds = wayland.Size{Width: uint32(max(e.Width, 0)), Height: uint32(max(e.Height, 0))}
	})
	wl.SetWmCapabilitiesHandler(func(e xdg_shell.ToplevelWmCapabilitiesEvent) {
		t.pending.Capabilities = wmCapabilities(e.Capabilities)
	})
	wl.SetCloseHandler(func(xdg_shell.ToplevelCloseEvent) {
		c.sink(wayland.ToplevelClose{Surface: t.id})
	})
	xs.SetConfigureHandler(func(e xdg_shell.SurfaceConfigureEvent) {
		ev := t.pending
		ev.Serial = e.Serial
		c.sink(ev)
	})
	return t, nil
}

func (t *toplevel) SetTitle(title string) error { return t.wl.SetTitle(title) }

func (t *toplevel) SetAppID(appID string) error { return t.wl.SetAppID(appID) }

func (t *toplevel) SetMinSize(width, height int32) error { return t.wl.SetMinSize(width, height) }

func (t *toplevel) SetMaxSize(width, height int32) error { return t.wl.SetMaxSize(width, height) }

func (t *toplevel) SetWindowGeometry(x, y, width, height int32) error {
	return t.xdgSurface.SetWindowGeometry(x, y, width, height)
}

func (t *toplevel) SetDecorationMode(mode wayland.DecorationMode) error {
	if t.decoration == nil {
		return errdefs.ErrUnsupported
	}
	if mode == wayland.DecorationUnset {
		return t.decoration.UnsetMode()
	}
	return t.decoration.SetMode(xdg_decoration.ZxdgToplevelDecorationV1Mode(mode))
}

func (t *toplevel) SetMaximized(maximized bool) error {
	if maximized {
		return t.wl.SetMaximized()
	}
	return t.wl.UnsetMaximized()
}

func (t *toplevel) SetFullscreen(fullscreen bool) error {
	if fullscreen {
		return t.wl.SetFullscreen(nil)
	}
	return t.wl.UnsetFullscreen()
}

func (t *toplevel) SetMinimized() error { return t.wl.SetMinimized() }

func (t *toplevel) Move(h wayland.SeatHandle, serial uint32) error {
	s, err := wlSeat(h)
	if err != nil {
		return err
	}
	return t.wl.Move(s, serial)
}

func (t *toplevel) Resize(h wayland.SeatHandle, serial uint32, edge wayland.ResizeEdge) error {
	s, err := wlSeat(h)
	if err != nil {
		return err
	}
	return t.wl.Resize(s, serial, xdg_shell.ToplevelResizeEdge(edge))
}

func (t *toplevel) ShowWindowMenu(h wayland.SeatHandle, serial uint32, x, y int32) error {
	s, err := wlSeat(h)
	if err != nil {
		return err
	}
	return t.wl.ShowWindowMenu(s, serial, x, y)
}

func (t *toplevel) AckConfigure(serial uint32) error { return t.xdgSurface.AckConfigure(serial) }

// Destroy tears down the roles in reverse creation order.
func (t *toplevel) Destroy() error {
	if t.decoration != nil {
		t.decoration.Destroy()
	}
	if err := t.wl.Destroy(); err != nil {
		return err
	}
	return t.xdgSurface.Destroy()
}

type layer struct {
	id      wayland.ObjectID
	version uint32
	wl      *wlr_layer_shell.ZwlrLayerSurfaceV1
}

func (c *Conn) CreateLayerSurface(h wayland.SurfaceHandle, opts wayland.LayerShellOptions) (wayland.LayerHandle, error) {
	if c.layerShell == nil {
		return nil, errdefs.ErrLayerShellNotSupported
	}
	s, err := wlSurface(h)
	if err != nil {
		return nil, err
	}
	wl, err := c.layerShell.GetLayerSurface(s.wl, c.outputByID(opts.Output), uint32(opts.Layer), opts.Namespace)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrTypeLayerSurfaceCreationFailed, "zwlr_layer_shell_v1.get_layer_surface failed", err)
	}
	l := &layer{id: s.id, version: c.layerShellVersion, wl: wl}
	wl.SetConfigureHandler(func(e wlr_layer_shell.ZwlrLayerSurfaceV1ConfigureEvent) {
		c.sink(wayland.LayerConfigureEvent{Surface: l.id, Serial: e.Serial, Width: e.Width, Height: e.Height})
	})
	wl.SetClosedHandler(func(wlr_layer_shell.ZwlrLayerSurfaceV1ClosedEvent) {
		c.sink(wayland.LayerClosed{Surface: l.id})
	})
	return l, nil
}

func (l *layer) SetSize(width, height uint32) error { return l.wl.SetSize(width, height) }

func (l *layer) SetAnchor(anchor wayland.Anchor) error { return l.wl.SetAnchor(uint32(anchor)) }

func (l *layer) SetExclusiveZone(zone int32) error { return l.wl.SetExclusiveZone(zone) }

func (l *layer) SetMargin(m wayland.Margin) error {
	return l.wl.SetMargin(m.Top, m.Right, m.Bottom, m.Left)
}

func (l *layer) SetKeyboardInteractivity(mode wayland.KeyboardInteractivity) error {
	return l.wl.SetKeyboardInteractivity(uint32(mode))
}

func (l *layer) SetLayer(layer wayland.Layer) error {
	if l.version < 2 {
		return fmt.Errorf("%w: zwlr_layer_surface_v1.set_layer needs version 2", errdefs.ErrUnsupported)
	}
	return l.wl.SetLayer(uint32(layer))
}

func (l *layer) AckConfigure(serial uint32) error { return l.wl.AckConfigure(serial) }

func (l *layer) Destroy() error { return l.wl.Destroy() }

type popup struct {
	c          *Conn
	id         wayland.ObjectID
	xdgSurface *xdg_shell.Surface
	wl         *xdg_shell.Popup

	pending wayland.PopupConfigureEvent
}

func (c *Conn) CreatePopup(h wayland.SurfaceHandle, parent wayland.PopupParent, pos wayland.Positioner) (wayland.PopupHandle, error) {
	s, err := wlSurface(h)
	if err != nil {
		return nil, err
	}

	var xdgParent *xdg_shell.Surface
	var layerParent *layer
	switch {
	case parent.Toplevel != nil:
		t, ok := parent.Toplevel.(*toplevel)
		if !ok {
			return nil, errdefs.ErrParentMissing
		}
		xdgParent = t.xdgSurface
	case parent.Popup != nil:
		p, ok := parent.Popup.(*popup)
		if !ok {
			return nil, errdefs.ErrParentMissing
		}
		xdgParent = p.xdgSurface
	case parent.Layer != nil:
		l, ok := parent.Layer.(*layer)
		if !ok {
			return nil, errdefs.ErrParentMissing
		}
		layerParent = l
	default:
		return nil, errdefs.ErrParentMissing
	}

	positioner, err := c.positioner(pos)
	if err != nil {
		return nil, err
	}
	defer positioner.Destroy()

	xs, err := c.wmBase.GetXdgSurface(s.wl)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrTypePopupCreationFailed, "xdg_wm_base.get_xdg_surface failed", err)
	}
	wl, err := xs.GetPopup(xdgParent, positioner)
	if err != nil {
		xs.Destroy()
		return nil, errdefs.Wrap(errdefs.ErrTypePopupCreationFailed, "xdg_surface.get_popup failed", err)
	}
	if layerParent != nil {
		if err := layerParent.wl.GetPopup(wl); err != nil {
			wl.Destroy()
			xs.Destroy()
			return nil, errdefs.Wrap(errdefs.ErrTypePopupCreationFailed, "zwlr_layer_surface_v1.get_popup failed", err)
		}
	}

	p := &popup{c: c, id: s.id, xdgSurface: xs, wl: wl}
	p.pending.Surface = s.id
	wl.SetConfigureHandler(func(e xdg_shell.PopupConfigureEvent) {
		p.pending.X, p.pending.Y = e.X, e.Y
		p.pending.Width, p.pending.Height = e.Width, e.Height
	})
	wl.SetPopupDoneHandler(func(xdg_shell.PopupPopupDoneEvent) {
		c.sink(wayland.PopupDismissed{Surface: p.id})
	})
	wl.SetRepositionedHandler(func(e xdg_shell.PopupRepositionedEvent) {
		c.sink(wayland.PopupRepositionedEvent{Surface: p.id, Token: e.Token})
	})
	xs.SetConfigureHandler(func(e xdg_shell.SurfaceConfigureEvent) {
		ev := p.pending
		ev.Serial = e.Serial
		c.sink(ev)
	})
	return p, nil
}

func (c *Conn) positioner(pos wayland.Positioner) (*xdg_shell.Positioner, error) {
	p, err := c.wmBase.CreatePositioner()
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrTypePositionerCreationFailed, "xdg_wm_base.create_positioner failed", err)
	}
	rect := pos.AnchorRect
	steps := []func() error{
		func() error { return p.SetSize(int32(max(pos.Size.Width, 1)), int32(max(pos.Size.Height, 1))) },
		func() error { return p.SetAnchorRect(rect.X, rect.Y, max(rect.Width, 1), max(rect.Height, 1)) },
		func() error { return p.SetAnchor(xdg_shell.PositionerAnchor(pos.Anchor)) },
		func() error { return p.SetGravity(xdg_shell.PositionerGravity(pos.Gravity)) },
		func() error {
			return p.SetConstraintAdjustment(xdg_shell.PositionerConstraintAdjustment(pos.ConstraintAdjustment))
		},
		func() error { return p.SetOffset(pos.OffsetX, pos.OffsetY) },
	}
	if pos.Reactive && c.wmBaseVersion >= 3 {
		steps = append(steps, p.SetReactive)
	}
	for _, step := range steps {
		if err := step(); err != nil {
			p.Destroy()
			return nil, errdefs.Wrap(errdefs.ErrTypePositionerCreationFailed, "xdg_positioner setup failed", err)
		}
	}
	return p, nil
}

func (p *popup) Grab(h wayland.SeatHandle, serial uint32) error {
	s, err := wlSeat(h)
	if err != nil {
		return err
	}
	return p.wl.Grab(s, serial)
}

func (p *popup) Reposition(pos wayland.Positioner, token uint32) error {
	if p.c.wmBaseVersion < 3 {
		return fmt.Errorf("%w: xdg_popup.reposition needs version 3", errdefs.ErrUnsupported)
	}
	positioner, err := p.c.positioner(pos)
	if err != nil {
		return err
	}
	defer positioner.Destroy()
	return p.wl.Reposition(positioner, token)
}

func (p *popup) SetWindowGeometry(x, y, width, height int32) error {
	return p.xdgSurface.SetWindowGeometry(x, y, width, height)
}

func (p *popup) AckConfigure(serial uint32) error { return p.xdgSurface.AckConfigure(serial) }

func (p *popup) Destroy() error {
	if err := p.wl.Destroy(); err != nil {
		return err
	}
	return p.xdgSurface.Destroy()
}
