package backend

import (
	"fmt"
	"sync"

	"github.com/AvengeMedia/danktk/internal/errdefs"
	"github.com/AvengeMedia/danktk/internal/log"
	"github.com/AvengeMedia/danktk/internal/proto/wp_cursor_shape"
	"github.com/AvengeMedia/danktk/internal/wayland"
	wlclient "github.com/yaslama/go-wayland/wayland/client"
)

// wl_seat.capability bits.
const (
	seatPointer  = 1
	seatKeyboard = 2
	seatTouch    = 4
)

// seat is the SeatHandle handed to the dispatcher. Its devices are created
// and released on the reader goroutine.
type seat struct {
	id      wayland.ObjectID
	version uint32
	wl      *wlclient.Seat
	sink    wayland.EventSink

	mu   sync.Mutex
	name string

	pointer  *pointer
	keyboard *wlclient.Keyboard
	touch    *wlclient.Touch
	dnd      *dataDevice
}

func (c *Conn) addSeat(e wlclient.RegistryGlobalEvent) {
	wl := wlclient.NewSeat(c.ctx)
	if !c.bind(e, 7, wl) {
		return
	}
	s := &seat{
		id:      wayland.ObjectID(wl.ID()),
		version: min(e.Version, 7),
		wl:      wl,
		sink:    c.sink,
	}

	wl.SetNameHandler(func(e wlclient.SeatNameEvent) {
		s.mu.Lock()
		s.name = e.Name
		s.mu.Unlock()
	})
	wl.SetCapabilitiesHandler(func(e wlclient.SeatCapabilitiesEvent) {
		s.updateDevices(c, e.Capabilities)
	})

	c.mu.Lock()
	c.seats[e.Name] = s
	c.mu.Unlock()

	c.sink(wayland.SeatAdded{Seat: s})
	if c.dataDevices != nil {
		s.attachDataDevice(c)
	}
}

func (s *seat) ID() wayland.ObjectID { return s.id }

func (s *seat) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *seat) updateDevices(c *Conn, caps uint32) {
	update := wayland.SeatCapabilities{
		Seat:     s.id,
		Keyboard: caps&seatKeyboard != 0,
		Touch:    caps&seatTouch != 0,
	}

	switch {
	case caps&seatPointer != 0 && s.pointer == nil:
		p, err := s.wl.GetPointer()
		if err != nil {
			log.Errorf("Failed to get pointer for seat %d: %v", s.id, err)
			break
		}
		s.pointer = newPointer(c, s, p)
	case caps&seatPointer == 0 && s.pointer != nil:
		s.pointer.release(s.version)
		s.pointer = nil
	}
	if s.pointer != nil {
		update.Pointer = s.pointer
	}

	switch {
	case update.Keyboard && s.keyboard == nil:
		k, err := s.wl.GetKeyboard()
		if err != nil {
			log.Errorf("Failed to get keyboard for seat %d: %v", s.id, err)
			update.Keyboard = false
			break
		}
		s.keyboard = k
		s.setupKeyboard(k)
	case !update.Keyboard && s.keyboard != nil:
		if s.version >= 3 {
			s.keyboard.Release()
		}
		s.keyboard = nil
	}

	switch {
	case update.Touch && s.touch == nil:
		t, err := s.wl.GetTouch()
		if err != nil {
			log.Errorf("Failed to get touch for seat %d: %v", s.id, err)
			update.Touch = false
			break
		}
		s.touch = t
		s.setupTouch(t)
	case !update.Touch && s.touch != nil:
		if s.version >= 3 {
			s.touch.Release()
		}
		s.touch = nil
	}

	s.sink(update)
}

func (s *seat) release() {
	if s.pointer != nil {
		s.pointer.release(s.version)
		s.pointer = nil
	}
	if s.version >= 3 {
		if s.keyboard != nil {
			s.keyboard.Release()
		}
		if s.touch != nil {
			s.touch.Release()
		}
	}
	s.keyboard = nil
	s.touch = nil
	if s.dnd != nil {
		s.dnd.release()
		s.dnd = nil
	}
	if s.version >= 5 {
		if err := s.wl.Release(); err != nil {
			log.Debugf("Releasing seat %d: %v", s.id, err)
		}
	}
}

func wlSeat(h wayland.SeatHandle) (*wlclient.Seat, error) {
	s, ok := h.(*seat)
	if !ok || s == nil {
		return nil, fmt.Errorf("%w: foreign seat handle %T", errdefs.ErrUnsupported, h)
	}
	return s.wl, nil
}

// pointer batches wl_pointer events until frame and owns the cursor-shape
// device. SetCursor is called from the dispatcher goroutine.
type pointer struct {
	seat    *seat
	wl      *wlclient.Pointer
	batch   []wayland.PointerEvent
	framing bool

	mu          sync.Mutex
	enterSerial uint32
	shape       *wp_cursor_shape.WpCursorShapeDeviceV1
	released    bool
}

func newPointer(c *Conn, s *seat, wl *wlclient.Pointer) *pointer {
	p := &pointer{seat: s, wl: wl, framing: s.version >= 5}
	if c.cursorShape != nil {
		shape, err := c.cursorShape.GetPointer(wl)
		if err != nil {
			log.Warnf("Failed to get cursor shape device: %v", err)
		} else {
			p.shape = shape
		}
	}

	wl.SetEnterHandler(func(e wlclient.PointerEnterEvent) {
		p.mu.Lock()
		p.enterSerial = e.Serial
		p.mu.Unlock()
		p.push(wayland.PointerEvent{
			Kind:     wayland.PointerEnter,
			Surface:  surfaceID(e.Surface),
			Position: wayland.Point{X: e.SurfaceX, Y: e.SurfaceY},
			Serial:   e.Serial,
		})
	})
	wl.SetLeaveHandler(func(e wlclient.PointerLeaveEvent) {
		p.push(wayland.PointerEvent{Kind: wayland.PointerLeave, Surface: surfaceID(e.Surface), Serial: e.Serial})
	})
	wl.SetMotionHandler(func(e wlclient.PointerMotionEvent) {
		p.push(wayland.PointerEvent{
			Kind:     wayland.PointerMotion,
			Time:     e.Time,
			Position: wayland.Point{X: e.SurfaceX, Y: e.SurfaceY},
		})
	})
	wl.SetButtonHandler(func(e wlclient.PointerButtonEvent) {
		kind := wayland.PointerRelease
		if e.State == 1 {
			kind = wayland.PointerPress
		}
		p.push(wayland.PointerEvent{Kind: kind, Serial: e.Serial, Time: e.Time, Button: e.Button})
	})
	wl.SetAxisHandler(func(e wlclient.PointerAxisEvent) {
		ev := wayland.PointerEvent{Kind: wayland.PointerAxis, Time: e.Time}
		if e.Axis == 1 {
			ev.Horizontal = e.Value
		} else {
			ev.Vertical = e.Value
		}
		p.push(ev)
	})
	wl.SetAxisDiscreteHandler(func(e wlclient.PointerAxisDiscreteEvent) {
		ev := wayland.PointerEvent{Kind: wayland.PointerAxis}
		if e.Axis == 1 {
			ev.DiscreteHorizontal = e.Discrete
		} else {
			ev.DiscreteVertical = e.Discrete
		}
		p.push(ev)
	})
	wl.SetFrameHandler(func(wlclient.PointerFrameEvent) {
		p.flush()
	})
	return p
}

func (p *pointer) push(ev wayland.PointerEvent) {
	if n := len(p.batch); ev.Kind == wayland.PointerAxis && n > 0 && p.batch[n-1].Kind == wayland.PointerAxis {
		mergeAxis(&p.batch[n-1], ev)
	} else {
		p.batch = append(p.batch, ev)
	}
	if !p.framing {
		p.flush()
	}
}

// mergeAxis folds continuous and discrete deltas of one frame into one event.
func mergeAxis(into *wayland.PointerEvent, ev wayland.PointerEvent) {
	into.Horizontal += ev.Horizontal
	into.Vertical += ev.Vertical
	into.DiscreteHorizontal += ev.DiscreteHorizontal
	into.DiscreteVertical += ev.DiscreteVertical
	if ev.Time != 0 {
		into.Time = ev.Time
	}
}

func (p *pointer) flush() {
	if len(p.batch) == 0 {
		return
	}
	events := p.batch
	p.batch = nil
	p.seat.sink(wayland.PointerFrame{Seat: p.seat.id, Events: events})
}

func (p *pointer) SetCursor(icon wayland.CursorIcon) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return fmt.Errorf("pointer of seat %d released", p.seat.id)
	}
	if p.shape == nil {
		log.Debugf("Cursor %s skipped: %v", icon, errdefs.ErrUnsupported)
		return nil
	}
	return p.shape.SetShape(p.enterSerial, cursorShape(icon))
}

func (p *pointer) release(seatVersion uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released = true
	if p.shape != nil {
		p.shape.Destroy()
		p.shape = nil
	}
	if seatVersion >= 3 {
		p.wl.Release()
	}
}

func (s *seat) setupKeyboard(k *wlclient.Keyboard) {
	k.SetKeymapHandler(func(e wlclient.KeyboardKeymapEvent) {
		text, err := readKeymap(e.Fd, e.Size)
		if err != nil {
			log.Warnf("Failed to read keymap for seat %d: %v", s.id, err)
			return
		}
		s.sink(wayland.KeyboardKeymap{Seat: s.id, Format: e.Format, Text: text})
	})
	k.SetEnterHandler(func(e wlclient.KeyboardEnterEvent) {
		s.sink(wayland.KeyboardEnter{Seat: s.id, Surface: surfaceID(e.Surface), Serial: e.Serial})
	})
	k.SetLeaveHandler(func(e wlclient.KeyboardLeaveEvent) {
		s.sink(wayland.KeyboardLeave{Seat: s.id, Surface: surfaceID(e.Surface), Serial: e.Serial})
	})
	k.SetKeyHandler(func(e wlclient.KeyboardKeyEvent) {
		s.sink(wayland.KeyboardKey{Seat: s.id, Serial: e.Serial, Time: e.Time, Key: e.Key, Pressed: e.State == 1})
	})
	k.SetModifiersHandler(func(e wlclient.KeyboardModifiersEvent) {
		s.sink(wayland.KeyboardModifiers{
			Seat:      s.id,
			Depressed: e.ModsDepressed,
			Latched:   e.ModsLatched,
			Locked:    e.ModsLocked,
			Group:     e.Group,
		})
	})
	k.SetRepeatInfoHandler(func(e wlclient.KeyboardRepeatInfoEvent) {
		s.sink(wayland.KeyboardRepeat{Seat: s.id, Rate: e.Rate, Delay: e.Delay})
	})
}

func (s *seat) setupTouch(t *wlclient.Touch) {
	t.SetDownHandler(func(e wlclient.TouchDownEvent) {
		s.sink(wayland.TouchDown{
			Seat:     s.id,
			Surface:  surfaceID(e.Surface),
			Serial:   e.Serial,
			Time:     e.Time,
			Finger:   e.Id,
			Position: wayland.Point{X: e.X, Y: e.Y},
		})
	})
	t.SetUpHandler(func(e wlclient.TouchUpEvent) {
		s.sink(wayland.TouchUp{Seat: s.id, Serial: e.Serial, Time: e.Time, Finger: e.Id})
	})
	t.SetMotionHandler(func(e wlclient.TouchMotionEvent) {
		s.sink(wayland.TouchMotion{Seat: s.id, Time: e.Time, Finger: e.Id, Position: wayland.Point{X: e.X, Y: e.Y}})
	})
	t.SetCancelHandler(func(wlclient.TouchCancelEvent) {
		s.sink(wayland.TouchCancel{Seat: s.id})
	})
}

func surfaceID(s *wlclient.Surface) wayland.ObjectID {
	if s == nil {
		return 0
	}
	return wayland.ObjectID(s.ID())
}
