package wayland

import (
	"github.com/AvengeMedia/danktk/internal/ids"
	"github.com/AvengeMedia/danktk/internal/log"
)

type keyPress struct {
	key    uint32
	serial uint32
}

type pointerPress struct {
	time   uint32
	button uint32
	serial uint32
}

type touchPoint struct {
	surface  ObjectID
	position Point
}

type seat struct {
	handle      SeatHandle
	pointer     PointerHandle
	hasKeyboard bool
	hasTouch    bool

	kbdFocus ObjectID
	ptrFocus ObjectID
	dndFocus ObjectID

	lastKbdPress *keyPress
	lastPtrPress *pointerPress
	touchPoints  map[int32]touchPoint
	modifiers    Modifiers

	// icon is what the application asked for; activeIcon is what is shown.
	icon         CursorIcon
	activeIcon   CursorIcon
	iconKnown    bool
	edgeOverride bool
}

func (m *Manager) activeSeat() *seat {
	if len(m.seats) == 0 {
		return nil
	}
	return m.seats[0]
}

func (m *Manager) seatByID(id ObjectID) (*seat, bool) {
	for i, s := range m.seats {
		if s.handle.ID() == id {
			return s, i == 0
		}
	}
	return nil, false
}

func (m *Manager) handleSeatAdded(e SeatAdded) {
	if s, _ := m.seatByID(e.Seat.ID()); s != nil {
		return
	}
	icon := CursorDefault
	if active := m.activeSeat(); active != nil {
		icon = active.icon
	}
	m.seats = append(m.seats, &seat{
		handle:      e.Seat,
		touchPoints: make(map[int32]touchPoint),
		icon:        icon,
	})
	log.Debugf("Seat %q added (%d total)", e.Seat.Name(), len(m.seats))
}

func (m *Manager) handleSeatRemoved(e SeatRemoved) {
	for i, s := range m.seats {
		if s.handle.ID() != e.Seat {
			continue
		}
		m.seats = append(m.seats[:i], m.seats[i+1:]...)
		if i == 0 {
			if next := m.activeSeat(); next != nil {
				log.Infof("Seat %q is now active", next.handle.Name())
			}
		}
		return
	}
}

func (m *Manager) handleSeatCapabilities(e SeatCapabilities) {
	s, _ := m.seatByID(e.Seat)
	if s == nil {
		return
	}
	s.pointer = e.Pointer
	s.hasKeyboard = e.Keyboard
	s.hasTouch = e.Touch
	if s.pointer == nil {
		s.ptrFocus = 0
		s.iconKnown = false
		s.edgeOverride = false
	}
	if !s.hasKeyboard {
		s.kbdFocus = 0
	}
	if !s.hasTouch {
		clear(s.touchPoints)
	}
}

func (m *Manager) surfaceID(object ObjectID) (ids.SurfaceID, bool) {
	id, _, ok := m.idmap.surface(object)
	return id, ok
}

func (m *Manager) handleKeyboardEnter(e KeyboardEnter) {
	s, active := m.seatByID(e.Seat)
	if s == nil {
		return
	}
	s.kbdFocus = e.Surface
	c, _, ok := m.coreByObject(e.Surface)
	if !ok {
		return
	}
	c.common.setFocused(true)
	if active {
		m.emit(Focused{ID: c.id, Focused: true})
	}
}

func (m *Manager) handleKeyboardLeave(e KeyboardLeave) {
	s, active := m.seatByID(e.Seat)
	if s == nil {
		return
	}
	if s.kbdFocus == e.Surface {
		s.kbdFocus = 0
	}
	c, _, ok := m.coreByObject(e.Surface)
	if !ok {
		return
	}
	c.common.setFocused(false)
	if active {
		m.emit(Focused{ID: c.id, Focused: false})
	}
}

func (m *Manager) handleKeyboardKey(e KeyboardKey) {
	s, active := m.seatByID(e.Seat)
	if s == nil {
		return
	}
	if e.Pressed {
		s.lastKbdPress = &keyPress{key: e.Key, serial: e.Serial}
	}
	if !active {
		return
	}
	id, ok := m.surfaceID(s.kbdFocus)
	if !ok {
		return
	}
	m.emit(Keyboard{
		ID:        id,
		Key:       e.Key,
		Pressed:   e.Pressed,
		Modifiers: s.modifiers,
		Time:      e.Time,
	})
}

func (m *Manager) handleKeyboardModifiers(e KeyboardModifiers) {
	s, active := m.seatByID(e.Seat)
	if s == nil {
		return
	}
	s.modifiers = decodeModifiers(e.Depressed, e.Latched, e.Locked)
	if !active {
		return
	}
	if id, ok := m.surfaceID(s.kbdFocus); ok {
		m.emit(ModifiersChanged{ID: id, Modifiers: s.modifiers})
	}
}

func (m *Manager) handleKeymap(e KeyboardKeymap) {
	if _, active := m.seatByID(e.Seat); active {
		m.emit(Keymap{Format: e.Format, Text: e.Text})
	}
}

func (m *Manager) handleRepeat(e KeyboardRepeat) {
	if _, active := m.seatByID(e.Seat); active {
		m.emit(RepeatInfo{Rate: e.Rate, Delay: e.Delay})
	}
}

func (m *Manager) handleTouchDown(e TouchDown) {
	s, active := m.seatByID(e.Seat)
	if s == nil {
		return
	}
	s.touchPoints[e.Finger] = touchPoint{surface: e.Surface, position: e.Position}
	if !active {
		return
	}
	if id, ok := m.surfaceID(e.Surface); ok {
		m.emit(Touch{ID: id, Finger: e.Finger, Phase: TouchStarted, Position: e.Position})
	}
}

func (m *Manager) handleTouchMotion(e TouchMotion) {
	s, active := m.seatByID(e.Seat)
	if s == nil {
		return
	}
	tp, ok := s.touchPoints[e.Finger]
	if !ok {
		return
	}
	tp.position = e.Position
	s.touchPoints[e.Finger] = tp
	if !active {
		return
	}
	if id, ok := m.surfaceID(tp.surface); ok {
		m.emit(Touch{ID: id, Finger: e.Finger, Phase: TouchMoved, Position: e.Position})
	}
}

func (m *Manager) handleTouchUp(e TouchUp) {
	s, active := m.seatByID(e.Seat)
	if s == nil {
		return
	}
	tp, ok := s.touchPoints[e.Finger]
	if !ok {
		return
	}
	delete(s.touchPoints, e.Finger)
	if !active {
		return
	}
	if id, ok := m.surfaceID(tp.surface); ok {
		m.emit(Touch{ID: id, Finger: e.Finger, Phase: TouchEnded, Position: tp.position})
	}
}

func (m *Manager) handleTouchCancel(e TouchCancel) {
	s, active := m.seatByID(e.Seat)
	if s == nil {
		return
	}
	points := s.touchPoints
	s.touchPoints = make(map[int32]touchPoint)
	if !active {
		return
	}
	for _, finger := range sortedKeys(points) {
		tp := points[finger]
		if id, ok := m.surfaceID(tp.surface); ok {
			m.emit(Touch{ID: id, Finger: finger, Phase: TouchCancelled, Position: tp.position})
		}
	}
}

func (m *Manager) handleDndEnter(e DndEnter) {
	s, active := m.seatByID(e.Seat)
	if s == nil {
		return
	}
	s.dndFocus = e.Surface
	if !active {
		return
	}
	if id, ok := m.surfaceID(e.Surface); ok {
		m.emit(DndOffer{ID: id, Kind: DndEntered, Position: e.Position, MimeTypes: e.MimeTypes})
	}
}

func (m *Manager) handleDnd(seatID ObjectID, kind DndKind, pos Point) {
	s, active := m.seatByID(seatID)
	if s == nil {
		return
	}
	focus := s.dndFocus
	if kind == DndLeft || kind == DndDropped {
		s.dndFocus = 0
	}
	if !active {
		return
	}
	if id, ok := m.surfaceID(focus); ok {
		m.emit(DndOffer{ID: id, Kind: kind, Position: pos})
	}
}

// setCursor applies an icon through the seat's pointer.
func (m *Manager) setCursor(s *seat, icon CursorIcon) {
	if s.pointer == nil {
		return
	}
	if err := s.pointer.SetCursor(icon); err != nil {
		log.Debugf("Setting cursor %s failed: %v", icon, err)
		return
	}
	s.activeIcon = icon
	s.iconKnown = true
}

// setAppCursor records the application icon on every seat and shows it on
// the active one unless an edge-resize arrow is in effect.
func (m *Manager) setAppCursor(icon CursorIcon) {
	for i, s := range m.seats {
		s.icon = icon
		if i == 0 && !s.edgeOverride && s.ptrFocus != 0 {
			m.setCursor(s, icon)
		}
	}
}
