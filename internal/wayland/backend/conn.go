// Package backend implements wayland.Conn on top of go-wayland.
package backend

import (
	"fmt"
	"sync"

	"github.com/AvengeMedia/danktk/internal/errdefs"
	"github.com/AvengeMedia/danktk/internal/log"
	"github.com/AvengeMedia/danktk/internal/proto/ext_session_lock"
	"github.com/AvengeMedia/danktk/internal/proto/linux_dmabuf"
	"github.com/AvengeMedia/danktk/internal/proto/wire"
	"github.com/AvengeMedia/danktk/internal/proto/wlr_layer_shell"
	"github.com/AvengeMedia/danktk/internal/proto/wp_alpha_modifier"
	"github.com/AvengeMedia/danktk/internal/proto/wp_cursor_shape"
	"github.com/AvengeMedia/danktk/internal/proto/wp_fractional_scale"
	"github.com/AvengeMedia/danktk/internal/proto/wp_viewporter"
	"github.com/AvengeMedia/danktk/internal/proto/xdg_activation"
	"github.com/AvengeMedia/danktk/internal/proto/xdg_decoration"
	"github.com/AvengeMedia/danktk/internal/proto/xdg_shell"
	"github.com/AvengeMedia/danktk/internal/wayland"
	wlclient "github.com/yaslama/go-wayland/wayland/client"
)

// SubsurfaceHandles is what widgets need to create their own subsurfaces.
type SubsurfaceHandles struct {
	Compositor    *wlclient.Compositor
	Subcompositor *wlclient.Subcompositor
	Viewporter    *wp_viewporter.WpViewporter
}

type Conn struct {
	display  *wlclient.Display
	ctx      *wlclient.Context
	registry *wlclient.Registry
	sink     wayland.EventSink

	compositor    *wlclient.Compositor
	subcompositor *wlclient.Subcompositor
	shm           *wlclient.Shm
	wmBase        *xdg_shell.WmBase
	wmBaseVersion uint32

	dataDevices        *wlclient.DataDeviceManager
	dataDevicesVersion uint32

	layerShell        *wlr_layer_shell.ZwlrLayerShellV1
	layerShellVersion uint32
	viewporter        *wp_viewporter.WpViewporter
	fractionalScale   *wp_fractional_scale.WpFractionalScaleManagerV1
	sessionLock       *ext_session_lock.ExtSessionLockManagerV1
	activation        *xdg_activation.XdgActivationV1
	decoration        *xdg_decoration.ZxdgDecorationManagerV1
	cursorShape       *wp_cursor_shape.WpCursorShapeManagerV1
	dmabuf            *linux_dmabuf.ZwpLinuxDmabufV1
	alphaModifier     *wp_alpha_modifier.WpAlphaModifierV1

	mu      sync.RWMutex
	outputs map[uint32]*output
	seats   map[uint32]*seat

	stopChan   chan struct{}
	readerDone chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// Dial connects to $WAYLAND_DISPLAY, binds the globals and starts the
// event reader. It satisfies wayland.Dialer.
func Dial(sink wayland.EventSink) (wayland.Conn, error) {
	display, err := wlclient.Connect("")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errdefs.ErrNoWaylandDisplay, err)
	}

	c := &Conn{
		display:    display,
		ctx:        display.Context(),
		sink:       sink,
		outputs:    make(map[uint32]*output),
		seats:      make(map[uint32]*seat),
		stopChan:   make(chan struct{}),
		readerDone: make(chan struct{}),
	}

	display.SetErrorHandler(func(e wlclient.DisplayErrorEvent) {
		var object wayland.ObjectID
		if e.ObjectId != nil {
			object = wayland.ObjectID(e.ObjectId.ID())
		}
		c.sink(wayland.ProtocolError{Object: object, Code: e.Code, Message: e.Message})
	})

	if err := c.setupRegistry(); err != nil {
		c.ctx.Close()
		return nil, err
	}

	c.wg.Add(1)
	go c.eventDispatcher()

	return c, nil
}

func (c *Conn) setupRegistry() error {
	registry, err := c.display.GetRegistry()
	if err != nil {
		return fmt.Errorf("failed to get registry: %w", err)
	}
	c.registry = registry

	registry.SetGlobalHandler(c.handleGlobal)
	registry.SetGlobalRemoveHandler(c.handleGlobalRemove)

	// The second roundtrip collects the events of objects bound in the first.
	if err := c.display.Roundtrip(); err != nil {
		return fmt.Errorf("first roundtrip failed: %w", err)
	}
	if err := c.display.Roundtrip(); err != nil {
		return fmt.Errorf("second roundtrip failed: %w", err)
	}

	missing := make([]string, 0, 4)
	if c.compositor == nil {
		missing = append(missing, wlclient.CompositorInterfaceName)
	}
	if c.shm == nil {
		missing = append(missing, wlclient.ShmInterfaceName)
	}
	if c.wmBase == nil {
		missing = append(missing, xdg_shell.WmBaseInterfaceName)
	}
	c.mu.RLock()
	noSeat := len(c.seats) == 0
	c.mu.RUnlock()
	if noSeat {
		missing = append(missing, wlclient.SeatInterfaceName)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", errdefs.ErrMissingGlobal, missing)
	}

	log.Infof("Wayland globals bound: %+v", c.Capabilities())
	return nil
}

func (c *Conn) bind(e wlclient.RegistryGlobalEvent, maxVersion uint32, proxy wlclient.Proxy) bool {
	version := min(e.Version, maxVersion)
	if err := c.registry.Bind(e.Name, e.Interface, version, proxy); err != nil {
		log.Errorf("Failed to bind %s: %v", e.Interface, err)
		return false
	}
	log.Debugf("Bound %s v%d (name=%d)", e.Interface, version, e.Name)
	return true
}

func (c *Conn) handleGlobal(e wlclient.RegistryGlobalEvent) {
	switch e.Interface {
	case wlclient.CompositorInterfaceName:
		compositor := wlclient.NewCompositor(c.ctx)
		if c.bind(e, 6, compositor) {
			c.compositor = compositor
		}
	case wlclient.SubcompositorInterfaceName:
		subcompositor := wlclient.NewSubcompositor(c.ctx)
		if c.bind(e, 1, subcompositor) {
			c.subcompositor = subcompositor
		}
	case wlclient.ShmInterfaceName:
		shm := wlclient.NewShm(c.ctx)
		if c.bind(e, 1, shm) {
			c.shm = shm
		}
	case wlclient.DataDeviceManagerInterfaceName:
		manager := wlclient.NewDataDeviceManager(c.ctx)
		if c.bind(e, 3, manager) {
			c.dataDevices = manager
			c.dataDevicesVersion = min(e.Version, 3)
			c.mu.RLock()
			for _, s := range c.seats {
				s.attachDataDevice(c)
			}
			c.mu.RUnlock()
		}
	case xdg_shell.WmBaseInterfaceName:
		wmBase := xdg_shell.NewWmBase(c.ctx)
		if c.bind(e, 6, wmBase) {
			c.wmBase = wmBase
			c.wmBaseVersion = min(e.Version, 6)
			wmBase.SetPingHandler(func(e xdg_shell.WmBasePingEvent) {
				if err := wmBase.Pong(e.Serial); err != nil {
					log.Warnf("Failed to answer ping: %v", err)
				}
			})
		}
	case wlr_layer_shell.ZwlrLayerShellV1InterfaceName:
		layerShell := wlr_layer_shell.NewZwlrLayerShellV1(c.ctx)
		if c.bind(e, 4, layerShell) {
			c.layerShell = layerShell
			c.layerShellVersion = min(e.Version, 4)
		}
	case wp_viewporter.WpViewporterInterfaceName:
		viewporter := wp_viewporter.NewWpViewporter(c.ctx)
		if c.bind(e, 1, viewporter) {
			c.viewporter = viewporter
		}
	case wp_fractional_scale.WpFractionalScaleManagerV1InterfaceName:
		manager := wp_fractional_scale.NewWpFractionalScaleManagerV1(c.ctx)
		if c.bind(e, 1, manager) {
			c.fractionalScale = manager
		}
	case ext_session_lock.ExtSessionLockManagerV1InterfaceName:
		manager := ext_session_lock.NewExtSessionLockManagerV1(c.ctx)
		if c.bind(e, 1, manager) {
			c.sessionLock = manager
		}
	case xdg_activation.XdgActivationV1InterfaceName:
		activation := xdg_activation.NewXdgActivationV1(c.ctx)
		if c.bind(e, 1, activation) {
			c.activation = activation
		}
	case xdg_decoration.ZxdgDecorationManagerV1InterfaceName:
		manager := xdg_decoration.NewZxdgDecorationManagerV1(c.ctx)
		if c.bind(e, 1, manager) {
			c.decoration = manager
		}
	case wp_cursor_shape.WpCursorShapeManagerV1InterfaceName:
		manager := wp_cursor_shape.NewWpCursorShapeManagerV1(c.ctx)
		if c.bind(e, 1, manager) {
			c.cursorShape = manager
		}
	case linux_dmabuf.ZwpLinuxDmabufV1InterfaceName:
		dmabuf := linux_dmabuf.NewZwpLinuxDmabufV1(c.ctx)
		if c.bind(e, 4, dmabuf) {
			c.dmabuf = dmabuf
		}
	case wp_alpha_modifier.WpAlphaModifierV1InterfaceName:
		alpha := wp_alpha_modifier.NewWpAlphaModifierV1(c.ctx)
		if c.bind(e, 1, alpha) {
			c.alphaModifier = alpha
		}
	case wlclient.SeatInterfaceName:
		c.addSeat(e)
	case wlclient.OutputInterfaceName:
		c.addOutput(e)
	}
}

func (c *Conn) handleGlobalRemove(e wlclient.RegistryGlobalRemoveEvent) {
	c.mu.Lock()
	o, isOutput := c.outputs[e.Name]
	s, isSeat := c.seats[e.Name]
	delete(c.outputs, e.Name)
	delete(c.seats, e.Name)
	c.mu.Unlock()

	switch {
	case isOutput:
		log.Infof("Output %d (registry name %d) removed", o.id, e.Name)
		c.sink(wayland.OutputGone{Output: o.id})
		o.release()
	case isSeat:
		log.Infof("Seat %d (registry name %d) removed", s.id, e.Name)
		c.sink(wayland.SeatRemoved{Seat: s.id})
		s.release()
	}
}

func (c *Conn) eventDispatcher() {
	defer c.wg.Done()
	defer close(c.readerDone)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			if err := c.ctx.Dispatch(); err != nil {
				select {
				case <-c.stopChan:
					return
				default:
				}
				log.Errorf("Wayland connection error: %v", err)
				c.sink(wayland.Disconnected{Err: err})
				return
			}
		}
	}
}

func (c *Conn) Capabilities() wayland.Capabilities {
	return wayland.Capabilities{
		Subcompositor:   c.subcompositor != nil,
		Viewporter:      c.viewporter != nil,
		FractionalScale: c.fractionalScale != nil,
		LayerShell:      c.layerShell != nil,
		SessionLock:     c.sessionLock != nil,
		Activation:      c.activation != nil,
		Dmabuf:          c.dmabuf != nil,
		AlphaModifier:   c.alphaModifier != nil,
		CursorShape:     c.cursorShape != nil,
		Decoration:      c.decoration != nil,
		DataDevice:      c.dataDevices != nil,
	}
}

func (c *Conn) SubsurfaceHandles() interface{} {
	return SubsurfaceHandles{
		Compositor:    c.compositor,
		Subcompositor: c.subcompositor,
		Viewporter:    c.viewporter,
	}
}

// Roundtrip waits for a wl_display.sync callback that the reader goroutine
// dispatches. The callback is registered with its handler before the request
// is written so the done event cannot be missed.
func (c *Conn) Roundtrip() error {
	done := make(chan struct{})
	callback := wlclient.NewCallback(c.ctx)
	callback.SetDoneHandler(func(wlclient.CallbackDoneEvent) {
		close(done)
	})
	// wl_display.sync
	if err := c.ctx.WriteMsg(wire.NewRequest(c.display.ID(), 0).Object(callback.ID()).Bytes(), nil); err != nil {
		c.ctx.Unregister(callback)
		return fmt.Errorf("sync request failed: %w", err)
	}

	select {
	case <-done:
		return nil
	case <-c.readerDone:
		return fmt.Errorf("%w: connection lost during roundtrip", errdefs.ErrNoWaylandDisplay)
	}
}

// Close stops the reader goroutine and closes the socket. Surfaces must be
// destroyed by the caller first.
func (c *Conn) Close() error {
	var err error
	c.stopOnce.Do(func() {
		close(c.stopChan)

		c.mu.Lock()
		for name, s := range c.seats {
			s.release()
			delete(c.seats, name)
		}
		for name, o := range c.outputs {
			o.release()
			delete(c.outputs, name)
		}
		c.mu.Unlock()

		destroyGlobal(c.layerShell != nil && c.layerShellVersion >= 3, func() error { return c.layerShell.Destroy() })
		destroyGlobal(c.viewporter != nil, func() error { return c.viewporter.Destroy() })
		destroyGlobal(c.fractionalScale != nil, func() error { return c.fractionalScale.Destroy() })
		destroyGlobal(c.sessionLock != nil, func() error { return c.sessionLock.Destroy() })
		destroyGlobal(c.activation != nil, func() error { return c.activation.Destroy() })
		destroyGlobal(c.decoration != nil, func() error { return c.decoration.Destroy() })
		destroyGlobal(c.cursorShape != nil, func() error { return c.cursorShape.Destroy() })
		destroyGlobal(c.dmabuf != nil, func() error { return c.dmabuf.Destroy() })
		destroyGlobal(c.alphaModifier != nil, func() error { return c.alphaModifier.Destroy() })
		destroyGlobal(c.wmBase != nil, func() error { return c.wmBase.Destroy() })

		err = c.ctx.Close()
		c.wg.Wait()
	})
	return err
}

func destroyGlobal(bound bool, destroy func() error) {
	if !bound {
		return
	}
	if err := destroy(); err != nil {
		log.Debugf("Destroying global: %v", err)
	}
}
