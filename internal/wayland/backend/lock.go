package backend

import (
	"fmt"

	"github.com/AvengeMedia/danktk/internal/errdefs"
	"github.com/AvengeMedia/danktk/internal/log"
	"github.com/AvengeMedia/danktk/internal/proto/ext_session_lock"
	"github.com/AvengeMedia/danktk/internal/proto/xdg_activation"
	"github.com/AvengeMedia/danktk/internal/wayland"
)

type sessionLock struct {
	c  *Conn
	wl *ext_session_lock.ExtSessionLockV1
}

func (c *Conn) LockSession() (wayland.SessionLockHandle, error) {
	if c.sessionLock == nil {
		return nil, errdefs.ErrUnsupported
	}
	wl, err := c.sessionLock.Lock()
	if err != nil {
		return nil, fmt.Errorf("ext_session_lock_manager_v1.lock failed: %w", err)
	}
	wl.SetLockedHandler(func(ext_session_lock.ExtSessionLockV1LockedEvent) {
		c.sink(wayland.SessionLockedEvent{})
	})
	wl.SetFinishedHandler(func(ext_session_lock.ExtSessionLockV1FinishedEvent) {
		c.sink(wayland.SessionFinishedEvent{})
	})
	return &sessionLock{c: c, wl: wl}, nil
}

func (l *sessionLock) CreateLockSurface(h wayland.SurfaceHandle, output wayland.ObjectID) (wayland.LockSurfaceHandle, error) {
	s, err := wlSurface(h)
	if err != nil {
		return nil, err
	}
	o := l.c.outputByID(output)
	if o == nil {
		return nil, fmt.Errorf("lock surface needs an output, %d is unknown", output)
	}
	wl, err := l.wl.GetLockSurface(s.wl, o)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrTypeSurfaceCreationFailed, "ext_session_lock_v1.get_lock_surface failed", err)
	}
	wl.SetConfigureHandler(func(e ext_session_lock.ExtSessionLockSurfaceV1ConfigureEvent) {
		l.c.sink(wayland.LockSurfaceConfigureEvent{Surface: s.id, Serial: e.Serial, Width: e.Width, Height: e.Height})
	})
	return wl, nil
}

func (l *sessionLock) UnlockAndDestroy() error { return l.wl.UnlockAndDestroy() }

func (l *sessionLock) Destroy() error { return l.wl.Destroy() }

func (c *Conn) RequestActivationToken(req wayland.ActivationRequest) (wayland.ObjectID, error) {
	if c.activation == nil {
		return 0, errdefs.ErrUnsupported
	}
	token, err := c.activation.GetActivationToken()
	if err != nil {
		return 0, fmt.Errorf("xdg_activation_v1.get_activation_token failed: %w", err)
	}
	id := wayland.ObjectID(token.ID())
	token.SetDoneHandler(func(e xdg_activation.XdgActivationTokenV1DoneEvent) {
		c.sink(wayland.ActivationTokenDone{Request: id, Token: e.Token})
		if err := token.Destroy(); err != nil {
			log.Debugf("Destroying activation token %d: %v", id, err)
		}
	})

	if req.AppID != "" {
		if err := token.SetAppID(req.AppID); err != nil {
			return 0, err
		}
	}
	if req.Surface != nil {
		s, err := wlSurface(req.Surface)
		if err != nil {
			return 0, err
		}
		if err := token.SetSurface(s.wl); err != nil {
			return 0, err
		}
	}
	if req.Seat != nil {
		seat, err := wlSeat(req.Seat)
		if err != nil {
			return 0, err
		}
		if err := token.SetSerial(req.Serial, seat); err != nil {
			return 0, err
		}
	}
	return id, token.Commit()
}

func (c *Conn) Activate(h wayland.SurfaceHandle, token string) error {
	if c.activation == nil {
		return errdefs.ErrUnsupported
	}
	s, err := wlSurface(h)
	if err != nil {
		return err
	}
	return c.activation.Activate(token, s.wl)
}
