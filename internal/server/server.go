package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/AvengeMedia/danktk/internal/log"
	"github.com/AvengeMedia/danktk/internal/server/models"
	"github.com/AvengeMedia/danktk/internal/wayland"
)

const socketPrefix = "danktk-"

// Coordinator is the part of the dispatcher the control socket drives.
// Client goroutines never block on a full action queue.
type Coordinator interface {
	TrySend(a wayland.Action) bool
	Wake()
	Snapshot(ctx context.Context) ([]wayland.SurfaceInfo, error)
}

type Server struct {
	coord    Coordinator
	path     string
	listener net.Listener

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

func getSocketDir() string {
	if runtime := os.Getenv("XDG_RUNTIME_DIR"); runtime != "" {
		return runtime
	}
	return os.TempDir()
}

func GetSocketPath() string {
	return filepath.Join(getSocketDir(), fmt.Sprintf("%s%d.sock", socketPrefix, os.Getpid()))
}

// socketPID extracts the pid from a danktk-<pid>.sock file name.
func socketPID(name string) (int, bool) {
	if !strings.HasPrefix(name, socketPrefix) || !strings.HasSuffix(name, ".sock") {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, socketPrefix), ".sock"))
	if err != nil {
		return 0, false
	}
	return pid, true
}

func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// FindProcess always succeeds on unix, signal 0 probes for real
	return process.Signal(syscall.Signal(0)) == nil
}

func cleanupStaleSockets() {
	dir := getSocketDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		pid, ok := socketPID(entry.Name())
		if !ok || processAlive(pid) {
			continue
		}
		socketPath := filepath.Join(dir, entry.Name())
		os.Remove(socketPath)
		log.Debugf("Removed stale socket: %s", socketPath)
	}
}

// FindSockets lists the control sockets of running danktk processes.
func FindSockets() []string {
	dir := getSocketDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var sockets []string
	for _, entry := range entries {
		if pid, ok := socketPID(entry.Name()); ok && processAlive(pid) {
			sockets = append(sockets, filepath.Join(dir, entry.Name()))
		}
	}
	return sockets
}

func New(coord Coordinator) *Server {
	return &Server{
		coord: coord,
		path:  GetSocketPath(),
		conns: make(map[net.Conn]struct{}),
	}
}

func (s *Server) Path() string { return s.path }

// Start binds the socket. Serve must be called afterwards to accept clients.
func (s *Server) Start() error {
	cleanupStaleSockets()
	os.Remove(s.path)

	listener, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.path, err)
	}
	s.listener = listener

	log.Infof("danktk control socket listening on: %s", s.path)
	return nil
}

// Serve accepts connections until ctx is cancelled or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("server not started")
	}

	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		s.track(conn, true)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

// Close stops accepting, drops open clients and removes the socket file.
func (s *Server) Close() {
	if s.listener != nil {
		s.listener.Close()
	}

	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	os.Remove(s.path)
}

func (s *Server) track(conn net.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer func() {
		s.track(conn, false)
		conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var req models.Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			models.RespondError(conn, nil, "invalid json")
			continue
		}

		s.RouteRequest(ctx, conn, req)
	}
}
