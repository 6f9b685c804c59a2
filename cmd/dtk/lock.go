package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/AvengeMedia/danktk/internal/ids"
	"github.com/AvengeMedia/danktk/internal/log"
	"github.com/AvengeMedia/danktk/internal/loginctl"
	"github.com/AvengeMedia/danktk/internal/wayland"
)

// locker tracks outputs and keeps one lock surface per output while locked.
// Its methods run on the event loop goroutine, except Lock and Unlock which
// the logind bridge calls and which only post to requests.
type locker struct {
	ctx      context.Context
	mgr      *wayland.Manager
	requests chan func() error

	outputs  map[wayland.ObjectID]string
	surfaces map[wayland.ObjectID]ids.SurfaceID
	locking  bool
	// persistent keeps the loop alive across unlocks for logind.
	persistent bool
	hint       func(bool)
}

func newLocker(ctx context.Context, mgr *wayland.Manager) *locker {
	return &locker{
		ctx:      ctx,
		mgr:      mgr,
		requests: make(chan func() error, 4),
		outputs:  make(map[wayland.ObjectID]string),
		surfaces: make(map[wayland.ObjectID]ids.SurfaceID),
		hint:     func(bool) {},
	}
}

func (l *locker) Lock() {
	select {
	case l.requests <- l.lock:
	default:
		log.Warn("Lock request dropped, queue full")
	}
}

func (l *locker) Unlock() {
	select {
	case l.requests <- l.unlock:
	default:
		log.Warn("Unlock request dropped, queue full")
	}
}

func (l *locker) lock() error {
	if l.locking {
		return nil
	}
	if !l.mgr.Capabilities().SessionLock {
		return exitWith(exitConnection, "compositor does not support ext-session-lock-v1")
	}
	if err := l.mgr.Send(wayland.Lock{}); err != nil {
		return err
	}
	l.locking = true
	for output, name := range l.outputs {
		if err := l.cover(output, name); err != nil {
			return err
		}
	}
	return nil
}

func (l *locker) unlock() error {
	if !l.locking {
		return nil
	}
	return l.mgr.Send(wayland.Unlock{})
}

func (l *locker) cover(output wayland.ObjectID, name string) error {
	if _, ok := l.surfaces[output]; ok {
		return nil
	}
	id := ids.NewSurface()
	if _, err := l.mgr.CreateLockSurface(l.ctx, id, output); err != nil {
		return &exitError{code: exitWindow, err: err}
	}
	l.surfaces[output] = id
	log.Infof("Lock surface %v covers output %s", id, name)
	return nil
}

func (l *locker) released() {
	l.locking = false
	clear(l.surfaces)
	l.hint(false)
}

func (l *locker) handle(ev wayland.Event) (bool, error) {
	switch e := ev.(type) {
	case wayland.OutputAdded:
		l.outputs[e.Output] = e.Name
		if l.locking {
			return false, l.cover(e.Output, e.Name)
		}
	case wayland.OutputRemoved:
		delete(l.outputs, e.Output)
		delete(l.surfaces, e.Output)
	case wayland.SessionLocked:
		log.Info("Session locked")
		l.hint(true)
	case wayland.SessionUnlocked:
		log.Info("Session unlocked")
		l.released()
		return !l.persistent, nil
	case wayland.SessionLockFinished:
		log.Warn("Compositor finished the session lock")
		l.released()
		return !l.persistent, nil
	}
	return false, nil
}

func runLock(cmd *cobra.Command, args []string) error {
	a, err := startApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()
	a.serve(ctx)

	l := newLocker(ctx, a.mgr)

	useLogind, _ := cmd.Flags().GetBool("logind")
	if useLogind {
		bridge, err := loginctl.NewBridge(l)
		if err != nil {
			return exitWith(exitInit, "failed to connect to logind: %w", err)
		}
		defer bridge.Close()
		l.persistent = true
		l.hint = func(locked bool) {
			if err := bridge.SetLockedHint(locked); err != nil {
				log.Warnf("Failed to set LockedHint: %v", err)
			}
		}
		log.Info("Waiting for logind lock requests")
	} else {
		l.Lock()
	}

	if d, _ := cmd.Flags().GetDuration("for"); d > 0 {
		timer := time.AfterFunc(d, l.Unlock)
		defer timer.Stop()
	}

	err = a.loop(ctx, l.requests, l.handle)
	if err == nil && ctx.Err() != nil && l.locking {
		// interrupted while locked: unlock before tearing down
		if err := l.unlock(); err != nil {
			return err
		}
		return a.loop(context.Background(), nil, l.handle)
	}
	return err
}
