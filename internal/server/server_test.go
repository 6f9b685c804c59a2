package server

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvengeMedia/danktk/internal/errdefs"
	"github.com/AvengeMedia/danktk/internal/ids"
	"github.com/AvengeMedia/danktk/internal/server/models"
	"github.com/AvengeMedia/danktk/internal/wayland"
)

type fakeCoordinator struct {
	mu       sync.Mutex
	sent     []wayland.Action
	wakes    int
	surfaces []wayland.SurfaceInfo
	err      error
}

func (f *fakeCoordinator) TrySend(a wayland.Action) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false
	}
	f.sent = append(f.sent, a)
	return true
}

func (f *fakeCoordinator) Wake() {
	f.mu.Lock()
	f.wakes++
	f.mu.Unlock()
}

func (f *fakeCoordinator) Snapshot(ctx context.Context) ([]wayland.SurfaceInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.surfaces, nil
}

func (f *fakeCoordinator) actions() []wayland.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]wayland.Action(nil), f.sent...)
}

func call(t *testing.T, s *Server, method string, params map[string]interface{}) (json.RawMessage, error) {
	t.Helper()
	client, srv := net.Pipe()
	s.track(srv, true)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.handleConnection(context.Background(), srv)
	}()
	defer client.Close()
	return roundtrip(client, models.Request{ID: 7, Method: method, Params: params})
}

func TestPingWakesDispatcher(t *testing.T) {
	coord := &fakeCoordinator{}
	res, err := call(t, New(coord), "ping", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `"pong"`, string(res))
	assert.Equal(t, 1, coord.wakes)
	assert.Empty(t, coord.actions())
}

func TestUnknownMethod(t *testing.T) {
	s := New(&fakeCoordinator{})
	_, err := call(t, s, "surfaces.explode", map[string]interface{}{"id": float64(ids.NewSurface())})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown method")

	_, err = call(t, s, "nope", nil)
	require.Error(t, err)
}

func TestInvalidJSON(t *testing.T) {
	s := New(&fakeCoordinator{})
	client, srv := net.Pipe()
	go s.handleConnection(context.Background(), srv)
	defer client.Close()

	_, err := client.Write([]byte("{not json\n"))
	require.NoError(t, err)

	var resp models.Response[any]
	require.NoError(t, json.NewDecoder(client).Decode(&resp))
	assert.Equal(t, "invalid json", resp.Error)
}

func TestSurfacesList(t *testing.T) {
	id := ids.NewSurface()
	coord := &fakeCoordinator{surfaces: []wayland.SurfaceInfo{{
		ID:    id,
		Kind:  "window",
		Title: "hello",
		Size:  wayland.Size{Width: 640, Height: 480},
		Scale: 1.5,
	}}}
	s := New(coord)

	res, err := call(t, s, "surfaces.list", nil)
	require.NoError(t, err)

	var got []wayland.SurfaceInfo
	require.NoError(t, json.Unmarshal(res, &got))
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "hello", got[0].Title)
	assert.Equal(t, uint32(640), got[0].Size.Width)
}

func TestSurfacesListEmpty(t *testing.T) {
	res, err := call(t, New(&fakeCoordinator{}), "surfaces.list", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(res))
}

func TestSurfaceActions(t *testing.T) {
	id := ids.NewSurface()
	raw := float64(id)

	tests := []struct {
		method string
		params map[string]interface{}
		want   wayland.Action
	}{
		{"surfaces.title", map[string]interface{}{"id": raw, "title": "new"}, wayland.SetTitle{ID: id, Title: "new"}},
		{"surfaces.resize", map[string]interface{}{"id": raw, "width": 300.0, "height": 200.0}, wayland.Resize{ID: id, Width: 300, Height: 200}},
		{"surfaces.destroy", map[string]interface{}{"id": raw}, wayland.Destroy{ID: id}},
		{"surfaces.redraw", map[string]interface{}{"id": raw}, wayland.RequestRedraw{ID: id}},
		{"session.lock", nil, wayland.Lock{}},
		{"session.unlock", nil, wayland.Unlock{}},
		{"cursor.set", map[string]interface{}{"icon": "ew-resize"}, wayland.SetCursor{Icon: wayland.CursorEwResize}},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			coord := &fakeCoordinator{}
			res, err := call(t, New(coord), tt.method, tt.params)
			require.NoError(t, err)

			var ok models.SuccessResult
			require.NoError(t, json.Unmarshal(res, &ok))
			assert.True(t, ok.Success)
			assert.Equal(t, []wayland.Action{tt.want}, coord.actions())
		})
	}
}

func TestBadParams(t *testing.T) {
	id := float64(ids.NewSurface())

	tests := []struct {
		name   string
		method string
		params map[string]interface{}
	}{
		{"missing id", "surfaces.destroy", nil},
		{"widget id", "surfaces.destroy", map[string]interface{}{"id": 12.0}},
		{"fractional id", "surfaces.redraw", map[string]interface{}{"id": id + 0.5}},
		{"missing title", "surfaces.title", map[string]interface{}{"id": id}},
		{"negative width", "surfaces.resize", map[string]interface{}{"id": id, "width": -1.0, "height": 10.0}},
		{"missing height", "surfaces.resize", map[string]interface{}{"id": id, "width": 10.0}},
		{"unknown cursor", "cursor.set", map[string]interface{}{"icon": "spinny"}},
		{"missing cursor", "cursor.set", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coord := &fakeCoordinator{}
			_, err := call(t, New(coord), tt.method, tt.params)
			assert.Error(t, err)
			assert.Empty(t, coord.actions())
		})
	}
}

func TestClosedCoordinator(t *testing.T) {
	coord := &fakeCoordinator{err: errdefs.ErrClosed}
	s := New(coord)

	_, err := call(t, s, "session.lock", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy or closed")

	_, err = call(t, s, "surfaces.list", nil)
	assert.Error(t, err)
}

func TestSocketPID(t *testing.T) {
	pid, ok := socketPID("danktk-1234.sock")
	assert.True(t, ok)
	assert.Equal(t, 1234, pid)

	for _, name := range []string{"danklinux-1.sock", "danktk-x.sock", "danktk-12.pid"} {
		_, ok := socketPID(name)
		assert.False(t, ok, name)
	}
}

func TestServeOverSocket(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)

	stale := filepath.Join(dir, "danktk-999999999.sock")
	require.NoError(t, os.WriteFile(stale, nil, 0o600))

	s := New(&fakeCoordinator{})
	assert.Equal(t, filepath.Join(dir, "danktk-"+strconv.Itoa(os.Getpid())+".sock"), s.Path())
	require.NoError(t, s.Start())

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, []string{s.Path()}, FindSockets())

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- s.Serve(ctx) }()

	res, err := Call(s.Path(), "ping", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `"pong"`, string(res))

	cancel()
	require.NoError(t, <-served)
	s.Close()

	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
}
