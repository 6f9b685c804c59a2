package server

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/AvengeMedia/danktk/internal/log"
	"github.com/AvengeMedia/danktk/internal/server/models"
	"github.com/AvengeMedia/danktk/internal/wayland"
)

func (s *Server) RouteRequest(ctx context.Context, conn net.Conn, req models.Request) {
	log.Debugf("danktk API request: method=%s id=%v", req.Method, req.ID)

	if strings.HasPrefix(req.Method, "surfaces.") {
		s.handleSurfaceRequest(ctx, conn, req)
		return
	}

	if strings.HasPrefix(req.Method, "session.") {
		s.handleSessionRequest(conn, req)
		return
	}

	switch req.Method {
	case "ping":
		s.coord.Wake()
		models.Respond(conn, req.ID, "pong")
	case "cursor.set":
		name, ok := req.Params["icon"].(string)
		if !ok {
			models.RespondError(conn, req.ID, "missing or invalid 'icon' parameter")
			return
		}
		icon, ok := wayland.ParseCursorIcon(name)
		if !ok {
			models.RespondError(conn, req.ID, fmt.Sprintf("unknown cursor icon: %s", name))
			return
		}
		s.send(conn, req, wayland.SetCursor{Icon: icon}, fmt.Sprintf("cursor set to %s", icon))
	default:
		models.RespondError(conn, req.ID, fmt.Sprintf("unknown method: %s", req.Method))
	}
}

func (s *Server) send(conn net.Conn, req models.Request, a wayland.Action, message string) {
	if !s.coord.TrySend(a) {
		models.RespondError(conn, req.ID, fmt.Sprintf("failed to queue %s: dispatcher busy or closed", req.Method))
		return
	}
	models.Respond(conn, req.ID, models.SuccessResult{Success: true, Message: message})
}

func (s *Server) handleSessionRequest(conn net.Conn, req models.Request) {
	switch req.Method {
	case "session.lock":
		s.send(conn, req, wayland.Lock{}, "lock requested")
	case "session.unlock":
		s.send(conn, req, wayland.Unlock{}, "unlock requested")
	default:
		models.RespondError(conn, req.ID, fmt.Sprintf("unknown method: %s", req.Method))
	}
}
