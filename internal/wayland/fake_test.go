package wayland

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AvengeMedia/danktk/internal/ids"
)

var testNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

// recorder is the request log shared by every fake object of a connection.
type recorder struct {
	calls  []string
	nextID ObjectID
}

func (r *recorder) record(format string, args ...interface{}) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) alloc() ObjectID {
	r.nextID++
	return r.nextID
}

func (r *recorder) reset() { r.calls = nil }

func (r *recorder) count(prefix string) int {
	n := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (r *recorder) indexOf(call string) int {
	for i, c := range r.calls {
		if c == call {
			return i
		}
	}
	return -1
}

type fakeConn struct {
	*recorder
	caps Capabilities

	surfaces  map[ObjectID]*fakeSurface
	viewports map[ObjectID]*fakeViewport
	toplevels map[ObjectID]*fakeToplevel

	failToplevel error
	failPopup    error
	closed       bool
}

func newFakeConn(caps Capabilities) *fakeConn {
	return &fakeConn{
		recorder:  &recorder{nextID: 100},
		caps:      caps,
		surfaces:  make(map[ObjectID]*fakeSurface),
		viewports: make(map[ObjectID]*fakeViewport),
		toplevels: make(map[ObjectID]*fakeToplevel),
	}
}

func fullCaps() Capabilities {
	return Capabilities{
		Subcompositor:   true,
		Viewporter:      true,
		FractionalScale: true,
		LayerShell:      true,
		SessionLock:     true,
		Activation:      true,
		CursorShape:     true,
		Decoration:      true,
		DataDevice:      true,
	}
}

func (c *fakeConn) Capabilities() Capabilities     { return c.caps }
func (c *fakeConn) SubsurfaceHandles() interface{} { return "subcompositor" }

func (c *fakeConn) CreateSurface() (SurfaceHandle, error) {
	s := &fakeSurface{r: c.recorder, id: c.alloc()}
	c.surfaces[s.id] = s
	c.record("create_surface %d", s.id)
	return s, nil
}

func (c *fakeConn) CreateToplevel(surface SurfaceHandle) (ToplevelHandle, error) {
	if c.failToplevel != nil {
		return nil, c.failToplevel
	}
	t := &fakeToplevel{r: c.recorder, surface: surface.ID()}
	c.toplevels[surface.ID()] = t
	c.record("get_toplevel %d", surface.ID())
	return t, nil
}

func (c *fakeConn) CreateLayerSurface(surface SurfaceHandle, opts LayerShellOptions) (LayerHandle, error) {
	c.record("get_layer_surface %d %s", surface.ID(), opts.Namespace)
	return &fakeLayer{r: c.recorder, surface: surface.ID()}, nil
}

func (c *fakeConn) CreatePopup(surface SurfaceHandle, parent PopupParent, positioner Positioner) (PopupHandle, error) {
	if c.failPopup != nil {
		return nil, c.failPopup
	}
	c.record("get_popup %d", surface.ID())
	return &fakePopup{r: c.recorder, surface: surface.ID()}, nil
}

func (c *fakeConn) CreateViewport(surface SurfaceHandle) (ViewportHandle, error) {
	v := &fakeViewport{r: c.recorder, surface: surface.ID()}
	c.viewports[surface.ID()] = v
	c.record("get_viewport %d", surface.ID())
	return v, nil
}

func (c *fakeConn) CreateFractionalScale(surface SurfaceHandle) (FractionalScaleHandle, error) {
	c.record("get_fractional_scale %d", surface.ID())
	return &fakeFractional{r: c.recorder, surface: surface.ID()}, nil
}

func (c *fakeConn) LockSession() (SessionLockHandle, error) {
	c.record("lock")
	return &fakeSessionLock{conn: c}, nil
}

func (c *fakeConn) RequestActivationToken(req ActivationRequest) (ObjectID, error) {
	id := c.alloc()
	var serial uint32
	seat := ObjectID(0)
	if req.Seat != nil {
		seat, serial = req.Seat.ID(), req.Serial
	}
	c.record("get_activation_token %d app=%s seat=%d serial=%d", id, req.AppID, seat, serial)
	return id, nil
}

func (c *fakeConn) Activate(surface SurfaceHandle, token string) error {
	c.record("activate %d %s", surface.ID(), token)
	return nil
}

func (c *fakeConn) Roundtrip() error {
	c.record("roundtrip")
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeSurface struct {
	r  *recorder
	id ObjectID
}

func (s *fakeSurface) ID() ObjectID { return s.id }
func (s *fakeSurface) Commit() error {
	s.r.record("commit %d", s.id)
	return nil
}
func (s *fakeSurface) Frame() error {
	s.r.record("frame %d", s.id)
	return nil
}
func (s *fakeSurface) SetBufferScale(scale int32) error {
	s.r.record("set_buffer_scale %d %d", s.id, scale)
	return nil
}
func (s *fakeSurface) SetOpaqueRegion(width, height int32) error {
	s.r.record("set_opaque_region %d %dx%d", s.id, width, height)
	return nil
}
func (s *fakeSurface) ClearInputRegion() error {
	s.r.record("set_input_region %d empty", s.id)
	return nil
}
func (s *fakeSurface) Destroy() error {
	s.r.record("surface.destroy %d", s.id)
	return nil
}

type fakeViewport struct {
	r       *recorder
	surface ObjectID
	dest    Size
}

func (v *fakeViewport) SetDestination(width, height int32) error {
	v.dest = Size{Width: uint32(width), Height: uint32(height)}
	v.r.record("set_destination %d %dx%d", v.surface, width, height)
	return nil
}
func (v *fakeViewport) Destroy() error {
	v.r.record("viewport.destroy %d", v.surface)
	return nil
}

type fakeFractional struct {
	r       *recorder
	surface ObjectID
}

func (f *fakeFractional) Destroy() error {
	f.r.record("fractional_scale.destroy %d", f.surface)
	return nil
}

type fakeToplevel struct {
	r       *recorder
	surface ObjectID
}

func (t *fakeToplevel) SetTitle(title string) error {
	t.r.record("set_title %d %s", t.surface, title)
	return nil
}
func (t *fakeToplevel) SetAppID(appID string) error {
	t.r.record("set_app_id %d %s", t.surface, appID)
	return nil
}
func (t *fakeToplevel) SetMinSize(width, height int32) error {
	t.r.record("set_min_size %d %dx%d", t.surface, width, height)
	return nil
}
func (t *fakeToplevel) SetMaxSize(width, height int32) error {
	t.r.record("set_max_size %d %dx%d", t.surface, width, height)
	return nil
}
func (t *fakeToplevel) SetWindowGeometry(x, y, width, height int32) error {
	t.r.record("set_window_geometry %d %dx%d", t.surface, width, height)
	return nil
}
func (t *fakeToplevel) SetDecorationMode(mode DecorationMode) error {
	t.r.record("set_mode %d %d", t.surface, mode)
	return nil
}
func (t *fakeToplevel) SetMaximized(maximized bool) error {
	t.r.record("set_maximized %d %t", t.surface, maximized)
	return nil
}
func (t *fakeToplevel) SetFullscreen(fullscreen bool) error {
	t.r.record("set_fullscreen %d %t", t.surface, fullscreen)
	return nil
}
func (t *fakeToplevel) SetMinimized() error {
	t.r.record("set_minimized %d", t.surface)
	return nil
}
func (t *fakeToplevel) Move(seat SeatHandle, serial uint32) error {
	t.r.record("move %d seat=%d serial=%d", t.surface, seat.ID(), serial)
	return nil
}
func (t *fakeToplevel) Resize(seat SeatHandle, serial uint32, edge ResizeEdge) error {
	t.r.record("resize %d seat=%d serial=%d edge=%s", t.surface, seat.ID(), serial, edge)
	return nil
}
func (t *fakeToplevel) ShowWindowMenu(seat SeatHandle, serial uint32, x, y int32) error {
	t.r.record("show_window_menu %d %d,%d", t.surface, x, y)
	return nil
}
func (t *fakeToplevel) AckConfigure(serial uint32) error {
	t.r.record("ack_configure %d %d", t.surface, serial)
	return nil
}
func (t *fakeToplevel) Destroy() error {
	t.r.record("toplevel.destroy %d", t.surface)
	return nil
}

type fakeLayer struct {
	r       *recorder
	surface ObjectID
}

func (l *fakeLayer) SetSize(width, height uint32) error {
	l.r.record("layer.set_size %d %dx%d", l.surface, width, height)
	return nil
}
func (l *fakeLayer) SetAnchor(anchor Anchor) error {
	l.r.record("layer.set_anchor %d %d", l.surface, anchor)
	return nil
}
func (l *fakeLayer) SetExclusiveZone(zone int32) error {
	l.r.record("layer.set_exclusive_zone %d %d", l.surface, zone)
	return nil
}
func (l *fakeLayer) SetMargin(margin Margin) error {
	l.r.record("layer.set_margin %d", l.surface)
	return nil
}
func (l *fakeLayer) SetKeyboardInteractivity(mode KeyboardInteractivity) error {
	l.r.record("layer.set_keyboard_interactivity %d %d", l.surface, mode)
	return nil
}
func (l *fakeLayer) SetLayer(layer Layer) error {
	l.r.record("layer.set_layer %d %d", l.surface, layer)
	return nil
}
func (l *fakeLayer) AckConfigure(serial uint32) error {
	l.r.record("ack_configure %d %d", l.surface, serial)
	return nil
}
func (l *fakeLayer) Destroy() error {
	l.r.record("layer.destroy %d", l.surface)
	return nil
}

type fakePopup struct {
	r       *recorder
	surface ObjectID
}

func (p *fakePopup) Grab(seat SeatHandle, serial uint32) error {
	p.r.record("grab %d seat=%d serial=%d", p.surface, seat.ID(), serial)
	return nil
}
func (p *fakePopup) Reposition(positioner Positioner, token uint32) error {
	p.r.record("reposition %d %dx%d token=%d", p.surface, positioner.Size.Width, positioner.Size.Height, token)
	return nil
}
func (p *fakePopup) SetWindowGeometry(x, y, width, height int32) error {
	p.r.record("set_window_geometry %d %dx%d", p.surface, width, height)
	return nil
}
func (p *fakePopup) AckConfigure(serial uint32) error {
	p.r.record("ack_configure %d %d", p.surface, serial)
	return nil
}
func (p *fakePopup) Destroy() error {
	p.r.record("popup.destroy %d", p.surface)
	return nil
}

type fakeSessionLock struct {
	conn *fakeConn
}

func (l *fakeSessionLock) CreateLockSurface(surface SurfaceHandle, output ObjectID) (LockSurfaceHandle, error) {
	l.conn.record("get_lock_surface %d output=%d", surface.ID(), output)
	return &fakeLockSurface{r: l.conn.recorder, surface: surface.ID()}, nil
}
func (l *fakeSessionLock) UnlockAndDestroy() error {
	l.conn.record("unlock_and_destroy")
	return nil
}
func (l *fakeSessionLock) Destroy() error {
	l.conn.record("session_lock.destroy")
	return nil
}

type fakeLockSurface struct {
	r       *recorder
	surface ObjectID
}

func (l *fakeLockSurface) AckConfigure(serial uint32) error {
	l.r.record("ack_configure %d %d", l.surface, serial)
	return nil
}
func (l *fakeLockSurface) Destroy() error {
	l.r.record("lock_surface.destroy %d", l.surface)
	return nil
}

type fakeSeat struct {
	id   ObjectID
	name string
}

func (s *fakeSeat) ID() ObjectID { return s.id }
func (s *fakeSeat) Name() string { return s.name }

type fakePointer struct {
	r    *recorder
	seat ObjectID
}

func (p *fakePointer) SetCursor(icon CursorIcon) error {
	p.r.record("set_cursor seat=%d %s", p.seat, icon)
	return nil
}

type fakeDnd struct {
	calls []string
}

func (d *fakeDnd) SetDestinations(id ids.SurfaceID, object ObjectID, rects []Rect) {
	d.calls = append(d.calls, fmt.Sprintf("%d:%d", object, len(rects)))
}

var errFake = errors.New("fake failure")

// testManager drives a Manager synchronously: no dispatcher goroutine runs,
// each run or inject call is exactly one wake-up.
type testManager struct {
	t    *testing.T
	m    *Manager
	conn *fakeConn
}

func newTestManager(t *testing.T, caps Capabilities) *testManager {
	t.Helper()
	return newTestManagerWithConfig(t, caps, Config{})
}

func newTestManagerWithConfig(t *testing.T, caps Capabilities, cfg Config) *testManager {
	t.Helper()
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return testNow }
	}
	require.NoError(t, cfg.Validate())

	m := newManager(cfg)
	conn := newFakeConn(caps)
	m.attach(conn)
	tm := &testManager{t: t, m: m, conn: conn}
	tm.run(Ready{})
	tm.events()
	conn.reset()
	return tm
}

// run queues actions and performs one wake-up.
func (tm *testManager) run(actions ...Action) {
	tm.t.Helper()
	for _, a := range actions {
		tm.m.actions <- a
	}
	tm.m.wake(nil)
}

// inject delivers protocol events and performs one wake-up.
func (tm *testManager) inject(events ...ProtocolEvent) {
	tm.t.Helper()
	for _, ev := range events {
		tm.m.deliver(ev)
	}
	tm.m.wake(nil)
}

// events drains the UI stream without the AboutToWait markers.
func (tm *testManager) events() []Event {
	var out []Event
	for _, ev := range tm.m.events.Drain() {
		if _, ok := ev.(AboutToWait); ok {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func (tm *testManager) createWindow(settings WindowSettings) (ids.SurfaceID, ObjectID) {
	tm.t.Helper()
	id := ids.NewSurface()
	reply := make(chan Created, 1)
	tm.run(CreateWindow{ID: id, Settings: settings, Reply: reply})
	c := <-reply
	require.NoError(tm.t, c.Err)
	return id, c.Object
}

func (tm *testManager) createLayer(settings LayerSettings) (ids.SurfaceID, ObjectID) {
	tm.t.Helper()
	id := ids.NewSurface()
	reply := make(chan Created, 1)
	tm.run(CreateLayerSurface{ID: id, Settings: settings, Reply: reply})
	c := <-reply
	require.NoError(tm.t, c.Err)
	return id, c.Object
}

func (tm *testManager) createPopup(parent ids.SurfaceID, size Size) (ids.SurfaceID, ObjectID) {
	tm.t.Helper()
	id := ids.NewSurface()
	reply := make(chan Created, 1)
	tm.run(CreatePopup{ID: id, Parent: parent, Positioner: Positioner{Size: size}, Reply: reply})
	c := <-reply
	require.NoError(tm.t, c.Err)
	return id, c.Object
}

// addSeat registers a seat with a pointer and a keyboard.
func (tm *testManager) addSeat(id ObjectID, name string) {
	tm.t.Helper()
	tm.inject(
		SeatAdded{Seat: &fakeSeat{id: id, name: name}},
		SeatCapabilities{Seat: id, Pointer: &fakePointer{r: tm.conn.recorder, seat: id}, Keyboard: true, Touch: true},
	)
}

func eventsOfType[T Event](events []Event) []T {
	var out []T
	for _, ev := range events {
		if e, ok := ev.(T); ok {
			out = append(out, e)
		}
	}
	return out
}

func uint32p(v uint32) *uint32 { return &v }
