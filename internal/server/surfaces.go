package server

import (
	"context"
	"fmt"
	"math"
	"net"

	"github.com/AvengeMedia/danktk/internal/ids"
	"github.com/AvengeMedia/danktk/internal/server/models"
	"github.com/AvengeMedia/danktk/internal/wayland"
)

func (s *Server) handleSurfaceRequest(ctx context.Context, conn net.Conn, req models.Request) {
	if req.Method == "surfaces.list" {
		surfaces, err := s.coord.Snapshot(ctx)
		if err != nil {
			models.RespondError(conn, req.ID, fmt.Sprintf("failed to list surfaces: %v", err))
			return
		}
		if surfaces == nil {
			surfaces = []wayland.SurfaceInfo{}
		}
		models.Respond(conn, req.ID, surfaces)
		return
	}

	id, err := surfaceParam(req)
	if err != nil {
		models.RespondError(conn, req.ID, err.Error())
		return
	}

	switch req.Method {
	case "surfaces.title":
		title, ok := req.Params["title"].(string)
		if !ok {
			models.RespondError(conn, req.ID, "missing or invalid 'title' parameter")
			return
		}
		s.send(conn, req, wayland.SetTitle{ID: id, Title: title}, fmt.Sprintf("title set on %v", id))
	case "surfaces.resize":
		width, err := uintParam(req, "width")
		if err != nil {
			models.RespondError(conn, req.ID, err.Error())
			return
		}
		height, err := uintParam(req, "height")
		if err != nil {
			models.RespondError(conn, req.ID, err.Error())
			return
		}
		s.send(conn, req, wayland.Resize{ID: id, Width: width, Height: height}, fmt.Sprintf("resize requested for %v", id))
	case "surfaces.destroy":
		s.send(conn, req, wayland.Destroy{ID: id}, fmt.Sprintf("destroy requested for %v", id))
	case "surfaces.redraw":
		s.send(conn, req, wayland.RequestRedraw{ID: id}, fmt.Sprintf("redraw requested for %v", id))
	default:
		models.RespondError(conn, req.ID, fmt.Sprintf("unknown method: %s", req.Method))
	}
}

// surfaceParam reads the raw surface id as listed by surfaces.list.
func surfaceParam(req models.Request) (ids.SurfaceID, error) {
	v, ok := req.Params["id"].(float64)
	if !ok || v != math.Trunc(v) || !ids.IsSurface(uint64(v)) {
		return ids.None, fmt.Errorf("missing or invalid 'id' parameter")
	}
	return ids.SurfaceID(uint64(v)), nil
}

func uintParam(req models.Request, name string) (uint32, error) {
	v, ok := req.Params[name].(float64)
	if !ok || v < 0 || v > math.MaxUint32 || v != math.Trunc(v) {
		return 0, fmt.Errorf("missing or invalid '%s' parameter", name)
	}
	return uint32(v), nil
}
