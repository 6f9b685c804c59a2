package wayland

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvengeMedia/danktk/internal/errdefs"
	"github.com/AvengeMedia/danktk/internal/ids"
)

func TestResizeEdgeAt(t *testing.T) {
	size := Size{Width: 100, Height: 80}
	tests := []struct {
		name   string
		pos    Point
		border float64
		want   ResizeEdge
	}{
		{"top left", Point{X: 2, Y: 2}, 8, EdgeTopLeft},
		{"top right", Point{X: 97, Y: 3}, 8, EdgeTopRight},
		{"bottom left", Point{X: 1, Y: 79}, 8, EdgeBottomLeft},
		{"bottom right", Point{X: 99, Y: 75}, 8, EdgeBottomRight},
		{"top", Point{X: 50, Y: 4}, 8, EdgeTop},
		{"bottom", Point{X: 50, Y: 76}, 8, EdgeBottom},
		{"left", Point{X: 3, Y: 40}, 8, EdgeLeft},
		{"right", Point{X: 95, Y: 40}, 8, EdgeRight},
		{"interior", Point{X: 50, Y: 40}, 8, EdgeNone},
		{"exactly border from top left", Point{X: 8, Y: 8}, 8, EdgeNone},
		{"exactly border from bottom right", Point{X: 92, Y: 72}, 8, EdgeNone},
		{"disabled", Point{X: 0, Y: 0}, 0, EdgeNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resizeEdgeAt(tt.pos, size, tt.border))
		})
	}
}

func TestNormalizeLayerSize(t *testing.T) {
	tests := []struct {
		name          string
		anchor        Anchor
		width, height *uint32
		wantW, wantH  *uint32
	}{
		{"unanchored keeps size", AnchorTop, uint32p(300), uint32p(40), uint32p(300), uint32p(40)},
		{"horizontal stretch drops width", AnchorLeft | AnchorRight, uint32p(300), uint32p(40), nil, uint32p(40)},
		{"vertical stretch drops height", AnchorTop | AnchorBottom, nil, uint32p(100), uint32p(1), nil},
		{"full stretch", AnchorTop | AnchorBottom | AnchorLeft | AnchorRight, uint32p(5), uint32p(5), nil, nil},
		{"zero becomes one", AnchorTop, uint32p(0), nil, uint32p(1), uint32p(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := normalizeLayerSize(tt.anchor, tt.width, tt.height)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestCreateWindowRequests(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	id, obj := tm.createWindow(WindowSettings{
		AppID:       "org.example.demo",
		Title:       "Demo",
		Size:        Size{Width: 640, Height: 480},
		MinSize:     &Size{Width: 100, Height: 100},
		Decorations: DecorationServer,
		Token:       "startup-token",
	})

	calls := tm.conn.calls
	assert.Contains(t, calls, fmt.Sprintf("set_app_id %d org.example.demo", obj))
	assert.Contains(t, calls, fmt.Sprintf("set_title %d Demo", obj))
	assert.Contains(t, calls, fmt.Sprintf("set_min_size %d 100x100", obj))
	assert.Contains(t, calls, fmt.Sprintf("set_mode %d 2", obj))
	assert.Contains(t, calls, fmt.Sprintf("set_destination %d 640x480", obj))
	assert.Contains(t, calls, fmt.Sprintf("set_opaque_region %d 640x480", obj))
	assert.Contains(t, calls, fmt.Sprintf("activate %d startup-token", obj))
	assert.Equal(t, 1, tm.conn.count("get_fractional_scale"))
	assert.Equal(t, 1, tm.conn.count("commit "))

	evs := tm.events()
	require.Len(t, evs, 1)
	created, ok := evs[0].(SurfaceCreated)
	require.True(t, ok)
	assert.Equal(t, KindWindow, created.Kind)
	assert.Equal(t, id, created.ID)
	assert.Equal(t, id, created.Toplevel)
}

func TestCreateWindowWithoutOptionalGlobals(t *testing.T) {
	tm := newTestManager(t, Capabilities{})
	_, obj := tm.createWindow(WindowSettings{
		Size:        Size{Width: 200, Height: 100},
		Decorations: DecorationClient,
		Token:       "t",
		Transparent: true,
	})

	assert.Zero(t, tm.conn.count("get_viewport"))
	assert.Zero(t, tm.conn.count("get_fractional_scale"))
	assert.Zero(t, tm.conn.count("set_mode"))
	assert.Zero(t, tm.conn.count("activate"))
	assert.Zero(t, tm.conn.count("set_opaque_region"))
	assert.Contains(t, tm.conn.calls, fmt.Sprintf("commit %d", obj))
}

func TestCreationFailures(t *testing.T) {
	t.Run("duplicate id", func(t *testing.T) {
		tm := newTestManager(t, fullCaps())
		id, _ := tm.createWindow(WindowSettings{Size: Size{Width: 10, Height: 10}})
		reply := make(chan Created, 1)
		tm.run(CreateWindow{ID: id, Reply: reply})
		assert.Error(t, (<-reply).Err)
	})

	t.Run("toplevel creation", func(t *testing.T) {
		tm := newTestManager(t, fullCaps())
		tm.conn.failToplevel = errFake
		id := ids.NewSurface()
		reply := make(chan Created, 1)
		tm.run(CreateWindow{ID: id, Reply: reply})

		r := <-reply
		assert.Equal(t, errdefs.ErrTypeSurfaceCreationFailed, errdefs.TypeOf(r.Err))
		assert.ErrorIs(t, r.Err, errFake)
		assert.Equal(t, 1, tm.conn.count("surface.destroy"))

		evs := tm.events()
		require.Len(t, evs, 1)
		assert.Equal(t, id, evs[0].(CreateFailed).ID)
	})

	t.Run("layer shell missing", func(t *testing.T) {
		tm := newTestManager(t, Capabilities{})
		reply := make(chan Created, 1)
		tm.run(CreateLayerSurface{ID: ids.NewSurface(), Reply: reply})
		assert.ErrorIs(t, (<-reply).Err, errdefs.ErrLayerShellNotSupported)
		assert.Zero(t, tm.conn.count("create_surface"))
	})

	t.Run("popup parent missing", func(t *testing.T) {
		tm := newTestManager(t, fullCaps())
		reply := make(chan Created, 1)
		tm.run(CreatePopup{ID: ids.NewSurface(), Parent: ids.NewSurface(), Positioner: Positioner{Size: Size{Width: 1, Height: 1}}, Reply: reply})
		assert.ErrorIs(t, (<-reply).Err, errdefs.ErrParentMissing)
	})

	t.Run("popup size missing", func(t *testing.T) {
		tm := newTestManager(t, fullCaps())
		parent, _ := tm.createWindow(WindowSettings{Size: Size{Width: 10, Height: 10}})
		reply := make(chan Created, 1)
		tm.run(CreatePopup{ID: ids.NewSurface(), Parent: parent, Positioner: Positioner{Size: Size{Width: 10}}, Reply: reply})
		assert.ErrorIs(t, (<-reply).Err, errdefs.ErrSizeMissing)
	})

	t.Run("popup protocol failure", func(t *testing.T) {
		tm := newTestManager(t, fullCaps())
		parent, _ := tm.createWindow(WindowSettings{Size: Size{Width: 10, Height: 10}})
		tm.conn.failPopup = errFake
		reply := make(chan Created, 1)
		tm.run(CreatePopup{ID: ids.NewSurface(), Parent: parent, Positioner: Positioner{Size: Size{Width: 5, Height: 5}}, Reply: reply})
		assert.Equal(t, errdefs.ErrTypePopupCreationFailed, errdefs.TypeOf((<-reply).Err))
	})
}

func TestToplevelConfigure(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	id, obj := tm.createWindow(WindowSettings{Size: Size{Width: 800, Height: 600}})
	tm.events()
	tm.conn.reset()

	tm.inject(ToplevelConfigure{Surface: obj, Serial: 5, Width: 1024, Height: 0, State: StateActivated})

	assert.Equal(t, Size{Width: 1024, Height: 600}, tm.conn.viewports[obj].dest)
	ack := tm.conn.indexOf(fmt.Sprintf("ack_configure %d 5", obj))
	commit := tm.conn.indexOf(fmt.Sprintf("commit %d", obj))
	require.NotEqual(t, -1, ack)
	assert.Less(t, ack, commit)

	evs := tm.events()
	require.Len(t, evs, 3)
	assert.Equal(t, WindowStateChanged{ID: id, State: StateActivated}, evs[0])
	assert.Equal(t, WindowCapabilitiesChanged{ID: id}, evs[1])
	cfg := evs[2].(WindowConfigure)
	assert.True(t, cfg.First)
	assert.Equal(t, Size{Width: 1024, Height: 600}, cfg.Size)

	tm.inject(ToplevelConfigure{Surface: obj, Serial: 6, Width: 1024, Height: 700, State: StateActivated})
	evs = tm.events()
	require.Len(t, evs, 1)
	assert.False(t, evs[0].(WindowConfigure).First)

	tm.run(Resize{ID: id, Width: 500, Height: 400})
	evs = tm.events()
	require.Len(t, evs, 1)
	assert.Equal(t, Size{Width: 500, Height: 400}, evs[0].(WindowConfigure).Size)
}

func TestToplevelCloseIsARequest(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	id, obj := tm.createWindow(WindowSettings{Size: Size{Width: 10, Height: 10}})
	tm.events()

	tm.inject(ToplevelClose{Surface: obj})

	assert.Equal(t, []Event{WindowCloseRequested{ID: id}}, tm.events())
	_, _, ok := tm.m.core(id)
	assert.True(t, ok)
}

func TestStaleEventsAreIgnored(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	id, obj := tm.createWindow(WindowSettings{Size: Size{Width: 10, Height: 10}})
	tm.run(Destroy{ID: id})
	tm.events()
	tm.conn.reset()

	tm.inject(
		ToplevelConfigure{Surface: obj, Serial: 1, Width: 50, Height: 50},
		PreferredScale{Surface: obj, Scale: 2},
		FrameDone{Surface: obj},
	)

	assert.Empty(t, tm.events())
	assert.Empty(t, tm.conn.calls)
}

func TestLayerConfigure(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	id, obj := tm.createLayer(LayerSettings{
		Anchor:    AnchorTop | AnchorLeft | AnchorRight,
		Height:    uint32p(32),
		Namespace: "bar",
	})
	assert.Contains(t, tm.conn.calls, fmt.Sprintf("layer.set_size %d 0x32", obj))
	assert.Contains(t, tm.conn.calls, fmt.Sprintf("set_input_region %d empty", obj))
	tm.events()

	tm.inject(LayerConfigureEvent{Surface: obj, Serial: 3, Width: 2560, Height: 0})
	evs := tm.events()
	require.Len(t, evs, 1)
	assert.Equal(t, LayerConfigure{ID: id, Size: Size{Width: 2560, Height: 32}, First: true}, evs[0])

	tm.run(SetExclusiveZone{ID: id, Zone: 32})
	evs = tm.events()
	require.Len(t, evs, 1)
	assert.False(t, evs[0].(LayerConfigure).First)

	tm.inject(LayerClosed{Surface: obj})
	assert.Equal(t, []Event{LayerDone{ID: id}}, tm.events())
}

func TestPopupResizeRepositions(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	parent, _ := tm.createLayer(LayerSettings{Anchor: AnchorTop, Width: uint32p(100), Height: uint32p(20)})
	p, obj := tm.createPopup(parent, Size{Width: 50, Height: 50})
	tm.inject(PopupConfigureEvent{Surface: obj, Serial: 1, X: 10, Y: 20, Width: 50, Height: 50})
	evs := tm.events()
	require.NotEmpty(t, evs)
	assert.Equal(t, PopupConfigure{ID: p, X: 10, Y: 20, Width: 50, Height: 50, First: true}, evs[len(evs)-1])
	tm.conn.reset()

	tm.run(Resize{ID: p, Width: 120, Height: 60})
	tm.run(Resize{ID: p, Width: 130, Height: 60})

	assert.Contains(t, tm.conn.calls, fmt.Sprintf("reposition %d 120x60 token=1", obj))
	assert.Contains(t, tm.conn.calls, fmt.Sprintf("reposition %d 130x60 token=2", obj))
	assert.Equal(t, Size{Width: 130, Height: 60}, tm.conn.viewports[obj].dest)

	tm.inject(PopupRepositionedEvent{Surface: obj, Token: 2})
	assert.Equal(t, []Event{PopupRepositioned{ID: p, Token: 2}}, tm.events())

	tm.inject(PopupDismissed{Surface: obj})
	assert.Equal(t, []Event{PopupDone{ID: p}}, tm.events())
}

func TestPopupGrabUsesLatestPress(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	tm.addSeat(1, "seat0")
	parent, pobj := tm.createWindow(WindowSettings{Size: Size{Width: 300, Height: 300}})
	tm.inject(PointerFrame{Seat: 1, Events: []PointerEvent{
		{Kind: PointerEnter, Surface: pobj, Position: Point{X: 50, Y: 50}, Serial: 1},
		{Kind: PointerPress, Surface: pobj, Position: Point{X: 50, Y: 50}, Button: btnRight, Serial: 42},
	}})
	tm.conn.reset()

	id := ids.NewSurface()
	reply := make(chan Created, 1)
	tm.run(CreatePopup{ID: id, Parent: parent, Positioner: Positioner{Size: Size{Width: 80, Height: 120}}, Grab: true, Reply: reply})
	c := <-reply
	require.NoError(t, c.Err)

	assert.Contains(t, tm.conn.calls, fmt.Sprintf("grab %d seat=1 serial=42", c.Object))
}

func TestFractionalScaleWinsOverLegacy(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	id, obj := tm.createWindow(WindowSettings{Size: Size{Width: 100, Height: 100}})
	tm.inject(OutputUpdated{Output: 50, Name: "eDP-1", Scale: 2})
	tm.events()
	tm.conn.reset()

	tm.inject(SurfaceEnter{Surface: obj, Output: 50})
	assert.Empty(t, eventsOfType[ScaleFactorChanged](tm.events()))
	assert.Zero(t, tm.conn.count("set_buffer_scale"))
	c, _, _ := tm.m.core(id)
	_, known := c.common.Scale()
	assert.False(t, known)

	tm.inject(PreferredScale{Surface: obj, Scale: 1.5})
	tm.inject(OutputUpdated{Output: 50, Name: "eDP-1", Scale: 3})

	scale, known := c.common.Scale()
	assert.True(t, known)
	assert.Equal(t, 1.5, scale)
}

func TestLegacyScaleWithoutFractional(t *testing.T) {
	tm := newTestManager(t, Capabilities{Viewporter: true})
	id, obj := tm.createWindow(WindowSettings{Size: Size{Width: 100, Height: 100}})
	tm.inject(
		OutputUpdated{Output: 50, Name: "DP-1", Scale: 1},
		OutputUpdated{Output: 51, Name: "DP-2", Scale: 2},
	)
	tm.events()

	tm.inject(SurfaceEnter{Surface: obj, Output: 50}, SurfaceEnter{Surface: obj, Output: 51})

	assert.Contains(t, tm.conn.calls, fmt.Sprintf("set_buffer_scale %d 2", obj))
	changes := eventsOfType[ScaleFactorChanged](tm.events())
	require.Len(t, changes, 2)
	assert.Equal(t, ScaleFactorChanged{ID: id, Scale: 2, Legacy: true, Viewport: tm.conn.viewports[obj]}, changes[1])
	assert.Equal(t, Size{Width: 100, Height: 100}, tm.conn.viewports[obj].dest)

	tm.inject(SurfaceLeave{Surface: obj, Output: 51})
	changes = eventsOfType[ScaleFactorChanged](tm.events())
	require.Len(t, changes, 1)
	assert.Equal(t, 1.0, changes[0].Scale)

	tm.inject(OutputGone{Output: 50})
	assert.Contains(t, tm.events(), Event(OutputRemoved{Output: 50}))
}

func TestViewportFollowsEveryConfigure(t *testing.T) {
	tests := []struct {
		name  string
		event func(obj ObjectID) ProtocolEvent
		want  Size
	}{
		{"toplevel", func(obj ObjectID) ProtocolEvent {
			return ToplevelConfigure{Surface: obj, Serial: 1, Width: 333, Height: 222}
		}, Size{Width: 333, Height: 222}},
		{"toplevel without size", func(obj ObjectID) ProtocolEvent {
			return ToplevelConfigure{Surface: obj, Serial: 1}
		}, Size{Width: 640, Height: 480}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := newTestManager(t, fullCaps())
			_, obj := tm.createWindow(WindowSettings{Size: Size{Width: 640, Height: 480}})
			tm.conn.reset()

			tm.inject(tt.event(obj))

			assert.Equal(t, tt.want, tm.conn.viewports[obj].dest)
			assert.Equal(t, 1, tm.conn.count(fmt.Sprintf("commit %d", obj)))
		})
	}
}

func TestWindowStateActions(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	id, obj := tm.createWindow(WindowSettings{Size: Size{Width: 100, Height: 100}})
	tm.inject(ToplevelConfigure{Surface: obj, Serial: 1, State: StateMaximized, Capabilities: CapMaximize | CapMinimize})
	tm.conn.reset()

	tm.run(ToggleMaximized{ID: id}, ToggleFullscreen{ID: id}, Minimize{ID: id})

	assert.Contains(t, tm.conn.calls, fmt.Sprintf("set_maximized %d false", obj))
	assert.Contains(t, tm.conn.calls, fmt.Sprintf("set_minimized %d", obj))
	assert.Zero(t, tm.conn.count("set_fullscreen"))
}

func TestInteractiveRequestsNeedAPress(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	tm.addSeat(1, "seat0")
	id, obj := tm.createWindow(WindowSettings{Size: Size{Width: 200, Height: 200}})
	tm.conn.reset()

	tm.run(InteractiveMove{ID: id})
	assert.Zero(t, tm.conn.count("move"))

	tm.inject(PointerFrame{Seat: 1, Events: []PointerEvent{
		{Kind: PointerEnter, Surface: obj, Position: Point{X: 100, Y: 100}, Serial: 1},
		{Kind: PointerPress, Surface: obj, Position: Point{X: 100, Y: 100}, Button: btnLeft, Serial: 7},
	}})
	tm.run(InteractiveMove{ID: id}, InteractiveResize{ID: id, Edge: EdgeRight}, ShowWindowMenu{ID: id, X: 3, Y: 4})

	assert.Contains(t, tm.conn.calls, fmt.Sprintf("move %d seat=1 serial=7", obj))
	assert.Contains(t, tm.conn.calls, fmt.Sprintf("resize %d seat=1 serial=7 edge=right", obj))
	assert.Contains(t, tm.conn.calls, fmt.Sprintf("show_window_menu %d 3,4", obj))
}

func TestSnapshotListsSurfaces(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	w, _ := tm.createWindow(WindowSettings{Title: "main", Size: Size{Width: 10, Height: 10}})
	p, _ := tm.createPopup(w, Size{Width: 5, Height: 5})

	reply := make(chan []SurfaceInfo, 1)
	tm.run(Snapshot{Reply: reply})
	infos := <-reply

	require.Len(t, infos, 2)
	assert.Equal(t, w, infos[0].ID)
	assert.Equal(t, "main", infos[0].Title)
	assert.Equal(t, 1.0, infos[0].Scale)
	assert.Equal(t, p, infos[1].ID)
	assert.Equal(t, w, infos[1].Parent)
	assert.Equal(t, "popup", infos[1].Kind)
}

func TestCloseTearsDownEverything(t *testing.T) {
	tm := newTestManager(t, fullCaps())
	w, _ := tm.createWindow(WindowSettings{Size: Size{Width: 10, Height: 10}})
	tm.createPopup(w, Size{Width: 5, Height: 5})
	tm.createLayer(LayerSettings{Anchor: AnchorTop, Width: uint32p(10), Height: uint32p(10)})
	tm.run(Lock{})
	tm.conn.reset()

	tm.m.Close()

	assert.Equal(t, 1, tm.conn.count("popup.destroy"))
	assert.Equal(t, 1, tm.conn.count("toplevel.destroy"))
	assert.Equal(t, 1, tm.conn.count("layer.destroy"))
	assert.Equal(t, 1, tm.conn.count("session_lock.destroy"))
	assert.True(t, tm.conn.closed)
	assert.Zero(t, tm.m.idmap.len())
}
