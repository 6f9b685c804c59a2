package wayland

import (
	"github.com/AvengeMedia/danktk/internal/errdefs"
	"github.com/AvengeMedia/danktk/internal/ids"
	"github.com/AvengeMedia/danktk/internal/log"
)

type pendingToken struct {
	window ids.SurfaceID
	reply  chan<- string
}

func replyToken(ch chan<- string, token string) {
	if ch == nil {
		return
	}
	select {
	case ch <- token:
	default:
	}
}

// requestToken asks for an xdg-activation token. A window attaches the seat
// and serial of its latest key press, or of its latest pointer press.
func (m *Manager) requestToken(a RequestToken) {
	if !m.caps.Activation {
		log.Warnf("Activation token request answered empty: %v", errdefs.ErrUnsupported)
		replyToken(a.Reply, "")
		return
	}

	req := ActivationRequest{AppID: a.AppID}
	if a.Window != ids.None {
		if c, _, ok := m.core(a.Window); ok {
			req.Surface = c.surface
			object := c.object()
			for _, s := range m.seats {
				if s.kbdFocus == object && s.lastKbdPress != nil {
					req.Seat, req.Serial = s.handle, s.lastKbdPress.serial
					break
				}
				if s.ptrFocus == object && s.lastPtrPress != nil {
					req.Seat, req.Serial = s.handle, s.lastPtrPress.serial
					break
				}
			}
		}
	}

	token, err := m.conn.RequestActivationToken(req)
	if err != nil {
		log.Warnf("Activation token request failed: %v", err)
		replyToken(a.Reply, "")
		return
	}
	m.pendingTokens[token] = pendingToken{window: a.Window, reply: a.Reply}
}

func (m *Manager) handleActivationToken(e ActivationTokenDone) {
	p, ok := m.pendingTokens[e.Request]
	if !ok {
		return
	}
	delete(m.pendingTokens, e.Request)
	replyToken(p.reply, e.Token)
	m.emit(ActivationToken{Window: p.window, Token: e.Token})
}

func (m *Manager) activate(a Activate) {
	if !m.caps.Activation {
		log.Warnf("Activate dropped: %v", errdefs.ErrUnsupported)
		return
	}
	c, _, ok := m.core(a.Window)
	if !ok {
		log.Debugf("Activate for unknown %v ignored", a.Window)
		return
	}
	logRequest(m.conn.Activate(c.surface, a.Token), "activate", a.Window)
}
