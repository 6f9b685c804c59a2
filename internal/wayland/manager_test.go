package wayland

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvengeMedia/danktk/internal/errdefs"
	"github.com/AvengeMedia/danktk/internal/ids"
)

func TestEdgeResizeConsumesPointerInput(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	tm.addSeat(1, "seat0")
	id, obj := tm.createWindow(WindowSettings{Size: Size{Width: 800, Height: 600}, Resizable: true, ResizeBorder: 8})
	tm.events()
	tm.conn.reset()

	tm.inject(PointerFrame{Seat: 1, Events: []PointerEvent{
		{Kind: PointerEnter, Surface: obj, Position: Point{X: 4, Y: 4}, Serial: 10},
		{Kind: PointerMotion, Surface: obj, Position: Point{X: 5, Y: 5}},
	}})

	assert.Equal(t, 1, tm.conn.count("set_cursor seat=1 nw-resize"))
	for _, p := range eventsOfType[Pointer](tm.events()) {
		assert.NotEqual(t, CursorMoved, p.Kind)
		assert.Equal(t, id, p.ID)
	}

	tm.conn.reset()
	tm.inject(PointerFrame{Seat: 1, Events: []PointerEvent{
		{Kind: PointerPress, Surface: obj, Position: Point{X: 5, Y: 5}, Button: btnLeft, Serial: 11},
	}})

	assert.Empty(t, eventsOfType[Pointer](tm.events()))
	assert.Contains(t, tm.conn.calls, fmt.Sprintf("resize %d seat=1 serial=11 edge=top-left", obj))
}

func TestScaleChangeKeepsViewportLogical(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	id, obj := tm.createLayer(LayerSettings{
		Anchor:    AnchorTop | AnchorBottom,
		Height:    uint32p(100),
		Namespace: "panel",
	})
	tm.inject(LayerConfigureEvent{Surface: obj, Serial: 1, Width: 1920, Height: 100})
	tm.events()

	tm.inject(PreferredScale{Surface: obj, Scale: 2.0})

	assert.Equal(t, Size{Width: 1920, Height: 100}, tm.conn.viewports[obj].dest)
	changes := eventsOfType[ScaleFactorChanged](tm.events())
	require.Len(t, changes, 1)
	assert.Equal(t, id, changes[0].ID)
	assert.Equal(t, 2.0, changes[0].Scale)
	assert.False(t, changes[0].Legacy)
	assert.NotNil(t, changes[0].Viewport)

	c, _, ok := tm.m.core(id)
	require.True(t, ok)
	scale, known := c.common.Scale()
	assert.True(t, known)
	assert.Equal(t, 2.0, scale)
}

func TestDestroyPopupTreeChildrenFirst(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	a, _ := tm.createWindow(WindowSettings{Size: Size{Width: 400, Height: 300}})
	p1, obj1 := tm.createPopup(a, Size{Width: 100, Height: 50})
	p2, obj2 := tm.createPopup(p1, Size{Width: 80, Height: 40})
	tm.events()
	tm.conn.reset()

	tm.run(Destroy{ID: p1})

	var done []ids.SurfaceID
	for _, d := range eventsOfType[PopupDone](tm.events()) {
		done = append(done, d.ID)
	}
	assert.Equal(t, []ids.SurfaceID{p2, p1}, done)

	i2 := tm.conn.indexOf(fmt.Sprintf("popup.destroy %d", obj2))
	i1 := tm.conn.indexOf(fmt.Sprintf("popup.destroy %d", obj1))
	require.NotEqual(t, -1, i1)
	require.NotEqual(t, -1, i2)
	assert.Less(t, i2, i1)

	_, _, ok := tm.m.core(a)
	assert.True(t, ok, "parent window must survive")
}

func TestDestroyWindowTakesPopups(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	a, _ := tm.createWindow(WindowSettings{Size: Size{Width: 400, Height: 300}})
	p1, _ := tm.createPopup(a, Size{Width: 100, Height: 50})
	tm.events()

	tm.run(Destroy{ID: a})

	evs := tm.events()
	require.Len(t, evs, 2)
	assert.Equal(t, PopupDone{ID: p1}, evs[0])
	assert.Equal(t, WindowClosed{ID: a}, evs[1])
	assert.Zero(t, tm.m.idmap.len())
}

func TestMutationsCoalesceIntoOneCommit(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	a, obj := tm.createWindow(WindowSettings{Size: Size{Width: 800, Height: 600}})
	tm.conn.reset()

	tm.run(
		SetTitle{ID: a, Title: "x"},
		Resize{ID: a, Width: 640, Height: 480},
		SetAppID{ID: a, AppID: "id"},
	)

	assert.Equal(t, 1, tm.conn.count("commit "))
	assert.Contains(t, tm.conn.calls, fmt.Sprintf("set_title %d x", obj))
	assert.Contains(t, tm.conn.calls, fmt.Sprintf("set_window_geometry %d 640x480", obj))
	assert.Contains(t, tm.conn.calls, fmt.Sprintf("set_app_id %d id", obj))

	c, _, _ := tm.m.core(a)
	assert.Equal(t, Size{Width: 640, Height: 480}, c.common.Size())
	assert.Equal(t, "x", tm.m.windows[a].title)
}

func TestLayerMutationsCoalesce(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	l, _ := tm.createLayer(LayerSettings{Anchor: AnchorTop, Width: uint32p(200), Height: uint32p(30)})
	tm.conn.reset()

	tm.run(
		SetMargin{ID: l, Margin: Margin{Top: 4}},
		SetExclusiveZone{ID: l, Zone: 30},
		SetAnchor{ID: l, Anchor: AnchorTop | AnchorLeft | AnchorRight},
		Resize{ID: l, Width: 10, Height: 40},
		SetKeyboardInteractivity{ID: l, Mode: KeyboardInteractivityExclusive},
	)

	assert.Equal(t, 1, tm.conn.count("commit "))
}

func TestUnlockRoundtripAndLateLockSurface(t *testing.T) {
	tm := newTestManager(t, fullCaps())

	tm.run(Lock{})
	assert.Equal(t, 1, tm.conn.count("lock"))

	first := make(chan Created, 1)
	tm.run(CreateLockSurface{ID: ids.NewSurface(), Output: 7, Reply: first})
	c := <-first
	require.NoError(t, c.Err)
	tm.events()
	tm.conn.reset()

	late := make(chan Created, 1)
	tm.run(Unlock{}, CreateLockSurface{ID: ids.NewSurface(), Output: 7, Reply: late})

	assert.Equal(t, 1, tm.conn.count("roundtrip"))
	assert.Less(t, tm.conn.indexOf("unlock_and_destroy"), tm.conn.indexOf("roundtrip"))
	assert.Less(t, tm.conn.indexOf(fmt.Sprintf("lock_surface.destroy %d", c.Object)), tm.conn.indexOf("unlock_and_destroy"))
	assert.Zero(t, tm.conn.count("get_lock_surface"))
	assert.Zero(t, tm.conn.count("commit "))

	r := <-late
	assert.ErrorIs(t, r.Err, errNotLocked)

	evs := tm.events()
	assert.Contains(t, evs, Event(LockSurfaceDone{ID: c.ID}))
	assert.Contains(t, evs, Event(SessionUnlocked{}))
}

func TestInactiveSeatInputIsNotForwarded(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	tm.addSeat(1, "seat0")
	tm.addSeat(2, "seat1")
	a, obj := tm.createWindow(WindowSettings{Size: Size{Width: 300, Height: 200}})
	tm.events()

	tm.inject(
		KeyboardEnter{Seat: 2, Surface: obj, Serial: 1},
		KeyboardKey{Seat: 2, Serial: 2, Key: 30, Pressed: true},
	)
	assert.Empty(t, tm.events())

	tm.inject(SeatRemoved{Seat: 1})
	tm.inject(KeyboardKey{Seat: 2, Serial: 3, Key: 31, Pressed: true})

	keys := eventsOfType[Keyboard](tm.events())
	require.Len(t, keys, 1)
	assert.Equal(t, a, keys[0].ID)
	assert.Equal(t, uint32(31), keys[0].Key)
	assert.True(t, keys[0].Pressed)
}

func TestEventsWaitForReady(t *testing.T) {
	cfg := Config{Now: func() time.Time { return testNow }}
	require.NoError(t, cfg.Validate())
	m := newManager(cfg)
	m.attach(newFakeConn(fullCaps()))
	m.events.Drain()

	m.deliver(OutputUpdated{Output: 5, Name: "DP-1", Scale: 1})
	m.wake(nil)
	assert.Equal(t, []Event{AboutToWait{}}, m.events.Drain())

	m.actions <- Ready{}
	m.wake(nil)
	assert.Equal(t, []Event{OutputAdded{Output: 5, Name: "DP-1", Scale: 1}, AboutToWait{}}, m.events.Drain())
}

func TestSubcompositorAnnouncement(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
		want bool
	}{
		{"both globals", Capabilities{Subcompositor: true, Viewporter: true}, true},
		{"no viewporter", Capabilities{Subcompositor: true}, false},
		{"no subcompositor", Capabilities{Viewporter: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager(Config{ActionQueueSize: 1})
			m.attach(newFakeConn(tt.caps))
			evs := m.events.Drain()
			if tt.want {
				require.Len(t, evs, 1)
				assert.IsType(t, Subcompositor{}, evs[0])
			} else {
				assert.Empty(t, evs)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 128, cfg.ActionQueueSize)
	assert.NotNil(t, cfg.Now)

	bad := Config{ActionQueueSize: -1}
	assert.Error(t, bad.Validate())
}

func TestManagerLifecycle(t *testing.T) {
	conn := newFakeConn(fullCaps())
	m, err := NewManager(Config{}, func(sink EventSink) (Conn, error) {
		return conn, nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, m.Send(Ready{}))
	created, err := m.CreateWindow(ctx, ids.NewSurface(), WindowSettings{Title: "demo", Size: Size{Width: 320, Height: 240}})
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 320, Height: 240}, created.Common.Size())

	infos, err := m.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "window", infos[0].Kind)
	assert.Equal(t, "demo", infos[0].Title)

	m.Close()
	assert.True(t, conn.closed)
	assert.ErrorIs(t, m.Send(Ready{}), errdefs.ErrClosed)
	assert.NoError(t, m.Err())
}

func TestDialFailure(t *testing.T) {
	_, err := NewManager(Config{}, func(sink EventSink) (Conn, error) {
		return nil, errdefs.ErrNoWaylandDisplay
	})
	assert.ErrorIs(t, err, errdefs.ErrNoWaylandDisplay)
}

func TestDisconnectStopsDispatcher(t *testing.T) {
	var sink EventSink
	m, err := NewManager(Config{}, func(s EventSink) (Conn, error) {
		sink = s
		return newFakeConn(Capabilities{}), nil
	})
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Send(Ready{}))
	sink(Disconnected{Err: errors.New("broken pipe")})

	select {
	case <-m.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
	assert.ErrorIs(t, m.Err(), errdefs.ErrNoWaylandDisplay)

	var fatal []Fatal
	for {
		ev, ok := m.Events().TryNext()
		if !ok {
			break
		}
		if f, ok := ev.(Fatal); ok {
			fatal = append(fatal, f)
		}
	}
	require.Len(t, fatal, 1)
}

func TestProtocolErrorIsFatal(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	tm.inject(
		ProtocolError{Object: 3, Code: 1, Message: "invalid serial"},
		OutputUpdated{Output: 9, Scale: 1},
	)

	evs := tm.events()
	require.Len(t, evs, 1)
	f, ok := evs[0].(Fatal)
	require.True(t, ok)
	assert.Contains(t, f.Err.Error(), "invalid serial")
	assert.Empty(t, tm.m.outputs)
}

func TestTrySendDropsWhenFull(t *testing.T) {
	cfg := Config{ActionQueueSize: 1}
	require.NoError(t, cfg.Validate())
	m := newManager(cfg)

	assert.True(t, m.TrySend(Ready{}))
	assert.False(t, m.TrySend(Ready{}))

	m.Wake()
	m.Wake()
	assert.Len(t, m.ping, 1)
}

func waitAboutToWait(t *testing.T, m *Manager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		ev, ok := m.Events().Next(ctx)
		require.True(t, ok, "no AboutToWait before timeout")
		if _, ok := ev.(AboutToWait); ok {
			return
		}
	}
}

func TestWakeRunsADispatcherIteration(t *testing.T) {
	m, err := NewManager(Config{}, func(sink EventSink) (Conn, error) {
		return newFakeConn(fullCaps()), nil
	})
	require.NoError(t, err)

	require.True(t, m.TrySend(Ready{}))
	waitAboutToWait(t, m)

	m.Wake()
	waitAboutToWait(t, m)

	m.Close()
	assert.False(t, m.TrySend(Ready{}))
}
