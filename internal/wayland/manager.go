package wayland

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AvengeMedia/danktk/internal/errdefs"
	"github.com/AvengeMedia/danktk/internal/ids"
	"github.com/AvengeMedia/danktk/internal/log"
	"github.com/AvengeMedia/danktk/internal/mailbox"
)

// DndDestinations receives the drop rectangles of a surface whenever they
// need to be (re-)registered. An empty slice unregisters the surface.
type DndDestinations interface {
	SetDestinations(id ids.SurfaceID, object ObjectID, rects []Rect)
}

type Config struct {
	// ActionQueueSize bounds the UI to dispatcher channel.
	ActionQueueSize int
	Dnd             DndDestinations
	Now             func() time.Time
}

func (c *Config) Validate() error {
	if c.ActionQueueSize < 0 {
		return fmt.Errorf("action queue size must not be negative: %d", c.ActionQueueSize)
	}
	if c.ActionQueueSize == 0 {
		c.ActionQueueSize = 128
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return nil
}

type Manager struct {
	config Config
	conn   Conn
	caps   Capabilities

	actions  chan Action
	ping     chan struct{}
	inbox    *mailbox.Mailbox[ProtocolEvent]
	events   *mailbox.Mailbox[Event]
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	ready bool
	fatal error

	windows map[ids.SurfaceID]*window
	layers  map[ids.SurfaceID]*layerSurface
	popups  map[ids.SurfaceID]*popup
	locks   map[ids.SurfaceID]*lockSurface
	idmap   *idMap

	seats   []*seat
	outputs map[ObjectID]*output

	sessionLock   SessionLockHandle
	pendingTokens map[ObjectID]pendingToken

	pendingCommits  map[ids.SurfaceID]SurfaceHandle
	requestedFrames map[ObjectID]struct{}
	dnd             map[ids.SurfaceID]*dndState
}

// NewManager dials the compositor and starts the dispatcher goroutine.
func NewManager(config Config, dial Dialer) (*Manager, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	m := newManager(config)
	conn, err := dial(m.deliver)
	if err != nil {
		return nil, err
	}
	m.attach(conn)

	m.wg.Add(1)
	go m.dispatcher()

	return m, nil
}

func newManager(config Config) *Manager {
	return &Manager{
		config:          config,
		actions:         make(chan Action, config.ActionQueueSize),
		ping:            make(chan struct{}, 1),
		inbox:           mailbox.New[ProtocolEvent](),
		events:          mailbox.New[Event](),
		stopChan:        make(chan struct{}),
		done:            make(chan struct{}),
		windows:         make(map[ids.SurfaceID]*window),
		layers:          make(map[ids.SurfaceID]*layerSurface),
		popups:          make(map[ids.SurfaceID]*popup),
		locks:           make(map[ids.SurfaceID]*lockSurface),
		idmap:           newIDMap(),
		outputs:         make(map[ObjectID]*output),
		pendingTokens:   make(map[ObjectID]pendingToken),
		pendingCommits:  make(map[ids.SurfaceID]SurfaceHandle),
		requestedFrames: make(map[ObjectID]struct{}),
		dnd:             make(map[ids.SurfaceID]*dndState),
	}
}

func (m *Manager) attach(conn Conn) {
	m.conn = conn
	m.caps = conn.Capabilities()

	if m.caps.Subcompositor && m.caps.Viewporter {
		m.emit(Subcompositor{Handles: conn.SubsurfaceHandles()})
	} else {
		log.Warn("Subsurfaces not supported")
	}
}

func (m *Manager) deliver(ev ProtocolEvent) {
	m.inbox.Push(ev)
}

func (m *Manager) emit(ev Event) {
	m.events.Push(ev)
}

func (m *Manager) dispatcher() {
	defer m.wg.Done()
	defer close(m.done)

	for {
		select {
		case <-m.stopChan:
			return
		case a := <-m.actions:
			m.wake(a)
		case <-m.ping:
			m.wake(nil)
		case <-m.inbox.Ready():
			m.wake(nil)
		}

		if m.fatal != nil {
			log.Errorf("Dispatcher stopping: %v", m.fatal)
			m.events.Close()
			return
		}
	}
}

// wake is one dispatcher iteration: queued actions, then compositor events,
// then the commit flush.
func (m *Manager) wake(first Action) {
	if first != nil {
		m.handleAction(first)
	}
	for drained := false; !drained && m.fatal == nil; {
		select {
		case a := <-m.actions:
			m.handleAction(a)
		default:
			drained = true
		}
	}

	if m.ready {
		for _, ev := range m.inbox.Drain() {
			if m.fatal != nil {
				break
			}
			m.handleProtocolEvent(ev)
		}
	}

	m.flushCommits()
	m.emit(AboutToWait{})
}

// Events is the unbounded dispatcher to UI stream.
func (m *Manager) Events() *mailbox.Mailbox[Event] {
	return m.events
}

func (m *Manager) Capabilities() Capabilities {
	return m.caps
}

// Send queues an action, blocking while the action channel is full.
func (m *Manager) Send(a Action) error {
	select {
	case <-m.done:
		return errdefs.ErrClosed
	default:
	}
	select {
	case m.actions <- a:
		return nil
	case <-m.done:
		return errdefs.ErrClosed
	}
}

// TrySend queues an action or drops it when the channel is full or the
// dispatcher stopped.
func (m *Manager) TrySend(a Action) bool {
	select {
	case <-m.done:
		return false
	default:
	}
	select {
	case m.actions <- a:
		return true
	default:
		log.Warnf("Action queue full, dropping %T", a)
		return false
	}
}

// Wake nudges the dispatcher without an action.
func (m *Manager) Wake() {
	select {
	case m.ping <- struct{}{}:
	default:
	}
}

func (m *Manager) create(ctx context.Context, a Action, reply chan Created) (Created, error) {
	if err := m.Send(a); err != nil {
		return Created{}, err
	}
	select {
	case c := <-reply:
		return c, c.Err
	case <-m.done:
		return Created{}, errdefs.ErrClosed
	case <-ctx.Done():
		return Created{}, ctx.Err()
	}
}

func (m *Manager) CreateWindow(ctx context.Context, id ids.SurfaceID, settings WindowSettings) (Created, error) {
	reply := make(chan Created, 1)
	return m.create(ctx, CreateWindow{ID: id, Settings: settings, Reply: reply}, reply)
}

func (m *Manager) CreateLayerSurface(ctx context.Context, id ids.SurfaceID, settings LayerSettings) (Created, error) {
	reply := make(chan Created, 1)
	return m.create(ctx, CreateLayerSurface{ID: id, Settings: settings, Reply: reply}, reply)
}

func (m *Manager) CreatePopup(ctx context.Context, id, parent ids.SurfaceID, positioner Positioner, grab bool) (Created, error) {
	reply := make(chan Created, 1)
	return m.create(ctx, CreatePopup{ID: id, Parent: parent, Positioner: positioner, Grab: grab, Reply: reply}, reply)
}

func (m *Manager) CreateLockSurface(ctx context.Context, id ids.SurfaceID, output ObjectID) (Created, error) {
	reply := make(chan Created, 1)
	return m.create(ctx, CreateLockSurface{ID: id, Output: output, Reply: reply}, reply)
}

func (m *Manager) Snapshot(ctx context.Context) ([]SurfaceInfo, error) {
	reply := make(chan []SurfaceInfo, 1)
	if err := m.Send(Snapshot{Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-m.done:
		return nil, errdefs.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done is closed once the dispatcher goroutine exited.
func (m *Manager) Done() <-chan struct{} { return m.done }

// Err returns the fatal error that stopped the dispatcher, if any.
func (m *Manager) Err() error {
	select {
	case <-m.done:
		return m.fatal
	default:
		return nil
	}
}

// Close stops the dispatcher, destroys every surface and closes the connection.
func (m *Manager) Close() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
	m.wg.Wait()

	m.teardown()
	if m.conn != nil {
		if err := m.conn.Close(); err != nil {
			log.Debugf("Closing wayland connection: %v", err)
		}
	}
	m.events.Close()
	m.inbox.Close()
}

func (m *Manager) teardown() {
	for _, id := range sortedKeys(m.popups) {
		if _, ok := m.popups[id]; ok {
			m.destroyPopupTree(id)
		}
	}
	for _, id := range sortedKeys(m.windows) {
		m.destroyWindow(id)
	}
	for _, id := range sortedKeys(m.layers) {
		m.destroyLayer(id)
	}
	for _, id := range sortedKeys(m.locks) {
		m.destroyLockSurface(id)
	}
	if m.sessionLock != nil {
		if err := m.sessionLock.Destroy(); err != nil {
			log.Debugf("Destroying session lock: %v", err)
		}
		m.sessionLock = nil
	}
}

func (m *Manager) fail(err error) {
	if m.fatal != nil {
		return
	}
	m.fatal = err
	m.emit(Fatal{Err: err})
}
