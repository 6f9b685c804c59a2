package loginctl

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
)

type recordingLocker struct {
	calls []string
}

func (r *recordingLocker) Lock()   { r.calls = append(r.calls, "lock") }
func (r *recordingLocker) Unlock() { r.calls = append(r.calls, "unlock") }

func TestHandleDBusSignal(t *testing.T) {
	const session = dbus.ObjectPath("/org/freedesktop/login1/session/_32")
	locker := &recordingLocker{}
	b := &Bridge{sessionPath: session, locker: locker}

	b.handleDBusSignal(&dbus.Signal{Path: session, Name: dbusSessionInterface + ".Lock"})
	b.handleDBusSignal(&dbus.Signal{Path: "/org/freedesktop/login1/session/_7", Name: dbusSessionInterface + ".Lock"})
	b.handleDBusSignal(&dbus.Signal{Path: session, Name: dbusManagerInterface + ".PrepareForSleep"})
	b.handleDBusSignal(&dbus.Signal{Path: session, Name: dbusSessionInterface + ".Unlock"})

	assert.Equal(t, []string{"lock", "unlock"}, locker.calls)
}

func TestMatchOptionsTargetSession(t *testing.T) {
	b := &Bridge{sessionPath: "/org/freedesktop/login1/session/_32"}
	assert.Len(t, b.matchOptions("Lock"), 3)
}
