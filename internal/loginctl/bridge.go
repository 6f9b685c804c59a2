// Package loginctl forwards logind session Lock and Unlock requests, as
// sent by `loginctl lock-session`, to a session locker.
package loginctl

import (
	"fmt"
	"os"
	"sync"

	"github.com/AvengeMedia/danktk/internal/log"
	"github.com/godbus/dbus/v5"
)

const (
	dbusDest             = "org.freedesktop.login1"
	dbusPath             = "/org/freedesktop/login1"
	dbusManagerInterface = "org.freedesktop.login1.Manager"
	dbusSessionInterface = "org.freedesktop.login1.Session"
)

// Locker is driven from the signal goroutine.
type Locker interface {
	Lock()
	Unlock()
}

type Bridge struct {
	conn        *dbus.Conn
	sessionObj  dbus.BusObject
	sessionPath dbus.ObjectPath
	locker      Locker

	signals  chan *dbus.Signal
	stopChan chan struct{}
	stopOnce sync.Once
	sigWG    sync.WaitGroup
}

func NewBridge(locker Locker) (*Bridge, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}

	sessionID := os.Getenv("XDG_SESSION_ID")
	if sessionID == "" {
		sessionID = "self"
	}

	var sessionPath dbus.ObjectPath
	managerObj := conn.Object(dbusDest, dbusPath)
	if err := managerObj.Call(dbusManagerInterface+".GetSession", 0, sessionID).Store(&sessionPath); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to get session path: %w", err)
	}

	b := &Bridge{
		conn:        conn,
		sessionObj:  conn.Object(dbusDest, sessionPath),
		sessionPath: sessionPath,
		locker:      locker,
		signals:     make(chan *dbus.Signal, 16),
		stopChan:    make(chan struct{}),
	}
	if err := b.startSignalPump(); err != nil {
		conn.Close()
		return nil, err
	}
	log.Infof("Listening for logind lock requests on %s", sessionPath)
	return b, nil
}

func (b *Bridge) matchOptions(member string) []dbus.MatchOption {
	return []dbus.MatchOption{
		dbus.WithMatchObjectPath(b.sessionPath),
		dbus.WithMatchInterface(dbusSessionInterface),
		dbus.WithMatchMember(member),
	}
}

func (b *Bridge) startSignalPump() error {
	b.conn.Signal(b.signals)

	if err := b.conn.AddMatchSignal(b.matchOptions("Lock")...); err != nil {
		b.conn.RemoveSignal(b.signals)
		return err
	}
	if err := b.conn.AddMatchSignal(b.matchOptions("Unlock")...); err != nil {
		_ = b.conn.RemoveMatchSignal(b.matchOptions("Lock")...)
		b.conn.RemoveSignal(b.signals)
		return err
	}

	b.sigWG.Add(1)
	go func() {
		defer b.sigWG.Done()
		for {
			select {
			case <-b.stopChan:
				return
			case sig, ok := <-b.signals:
				if !ok {
					return
				}
				if sig == nil {
					continue
				}
				b.handleDBusSignal(sig)
			}
		}
	}()
	return nil
}

func (b *Bridge) handleDBusSignal(sig *dbus.Signal) {
	if sig.Path != b.sessionPath {
		return
	}
	switch sig.Name {
	case dbusSessionInterface + ".Lock":
		log.Info("logind requested session lock")
		b.locker.Lock()
	case dbusSessionInterface + ".Unlock":
		log.Info("logind requested session unlock")
		b.locker.Unlock()
	}
}

// SetLockedHint reports the lock state back to logind.
func (b *Bridge) SetLockedHint(locked bool) error {
	if err := b.sessionObj.Call(dbusSessionInterface+".SetLockedHint", 0, locked).Err; err != nil {
		return fmt.Errorf("failed to set locked hint: %w", err)
	}
	return nil
}

func (b *Bridge) Close() {
	b.stopOnce.Do(func() {
		close(b.stopChan)
		_ = b.conn.RemoveMatchSignal(b.matchOptions("Lock")...)
		_ = b.conn.RemoveMatchSignal(b.matchOptions("Unlock")...)
		b.conn.RemoveSignal(b.signals)
		b.sigWG.Wait()
		b.conn.Close()
	})
}
