package backend

import (
	"sync"

	"github.com/AvengeMedia/danktk/internal/log"
	"github.com/AvengeMedia/danktk/internal/wayland"
	wlclient "github.com/yaslama/go-wayland/wayland/client"
)

type output struct {
	id      wayland.ObjectID
	name    uint32
	version uint32
	wl      *wlclient.Output

	// pending is filled by the property events and published on done.
	mu      sync.Mutex
	pending wayland.OutputUpdated
}

func (c *Conn) addOutput(e wlclient.RegistryGlobalEvent) {
	wl := wlclient.NewOutput(c.ctx)
	if !c.bind(e, 4, wl) {
		return
	}
	o := &output{
		id:      wayland.ObjectID(wl.ID()),
		name:    e.Name,
		version: min(e.Version, 4),
		wl:      wl,
		pending: wayland.OutputUpdated{Output: wayland.ObjectID(wl.ID()), Scale: 1},
	}

	wl.SetScaleHandler(func(e wlclient.OutputScaleEvent) {
		o.mu.Lock()
		o.pending.Scale = e.Factor
		o.mu.Unlock()
	})
	wl.SetNameHandler(func(e wlclient.OutputNameEvent) {
		o.mu.Lock()
		o.pending.Name = e.Name
		o.mu.Unlock()
	})
	wl.SetDoneHandler(func(wlclient.OutputDoneEvent) {
		o.mu.Lock()
		update := o.pending
		o.mu.Unlock()
		c.sink(update)
	})

	c.mu.Lock()
	c.outputs[e.Name] = o
	c.mu.Unlock()
	log.Infof("Bound wl_output id=%d registry_name=%d", o.id, e.Name)
}

func (c *Conn) outputByID(id wayland.ObjectID) *wlclient.Output {
	if id == 0 {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, o := range c.outputs {
		if o.id == id {
			return o.wl
		}
	}
	return nil
}

func (o *output) release() {
	if o.version < 3 {
		return
	}
	if err := o.wl.Release(); err != nil {
		log.Debugf("Releasing output %d: %v", o.id, err)
	}
}
