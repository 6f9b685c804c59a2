package backend

import (
	"github.com/AvengeMedia/danktk/internal/log"
	"github.com/AvengeMedia/danktk/internal/wayland"
	wlclient "github.com/yaslama/go-wayland/wayland/client"
)

// dataDevice tracks drag offers for one seat. Offers announce their mime
// types before the enter event that references them.
type dataDevice struct {
	seat    *seat
	version uint32
	wl      *wlclient.DataDevice
	offers  map[uint32][]string
	active  *wlclient.DataOffer
}

func (s *seat) attachDataDevice(c *Conn) {
	if s.dnd != nil {
		return
	}
	wl, err := c.dataDevices.GetDataDevice(s.wl)
	if err != nil {
		log.Warnf("Failed to get data device for seat %d: %v", s.id, err)
		return
	}
	d := &dataDevice{seat: s, version: c.dataDevicesVersion, wl: wl, offers: make(map[uint32][]string)}
	s.dnd = d

	wl.SetDataOfferHandler(func(e wlclient.DataDeviceDataOfferEvent) {
		offer := e.Id
		if offer == nil {
			return
		}
		d.offers[offer.ID()] = nil
		offer.SetOfferHandler(func(e wlclient.DataOfferOfferEvent) {
			d.offers[offer.ID()] = append(d.offers[offer.ID()], e.MimeType)
		})
	})
	wl.SetEnterHandler(func(e wlclient.DataDeviceEnterEvent) {
		d.active = e.Id
		var mimeTypes []string
		if e.Id != nil {
			mimeTypes = d.offers[e.Id.ID()]
		}
		s.sink(wayland.DndEnter{
			Seat:      s.id,
			Surface:   surfaceID(e.Surface),
			Position:  wayland.Point{X: e.X, Y: e.Y},
			MimeTypes: mimeTypes,
		})
	})
	wl.SetMotionHandler(func(e wlclient.DataDeviceMotionEvent) {
		s.sink(wayland.DndMotion{Seat: s.id, Position: wayland.Point{X: e.X, Y: e.Y}})
	})
	wl.SetLeaveHandler(func(wlclient.DataDeviceLeaveEvent) {
		d.dropOffer()
		s.sink(wayland.DndLeave{Seat: s.id})
	})
	wl.SetDropHandler(func(wlclient.DataDeviceDropEvent) {
		s.sink(wayland.DndDrop{Seat: s.id})
		d.dropOffer()
	})
	wl.SetSelectionHandler(func(e wlclient.DataDeviceSelectionEvent) {
		// Clipboard offers are not used; forget them.
		if e.Id != nil && e.Id != d.active {
			delete(d.offers, e.Id.ID())
			e.Id.Destroy()
		}
	})
}

func (d *dataDevice) dropOffer() {
	if d.active == nil {
		return
	}
	delete(d.offers, d.active.ID())
	d.active.Destroy()
	d.active = nil
}

func (d *dataDevice) release() {
	d.dropOffer()
	if d.version >= 2 {
		d.wl.Release()
	}
}
