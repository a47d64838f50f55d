package api

import (
	"fmt"
	"net/http"
	"strconv"

	"voxelcraft.ai/areas/internal/area"
	"voxelcraft.ai/areas/internal/scan"
)

type pointsResp struct {
	Frame     string       `json:"frame"`
	Points    [][3]float64 `json:"points"`
	Truncated bool         `json:"truncated"`
}

type agentView struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Kind string     `json:"kind"`
	Pos  [3]float64 `json:"pos"`
}

func blockPoints(pts []area.Vec3i) [][3]float64 {
	out := make([][3]float64, len(pts))
	for i, p := range pts {
		out[i] = [3]float64{float64(p.X), float64(p.Y), float64(p.Z)}
	}
	return out
}

// query runs one scan over ?area=, which is a note name or an encoding.
func (s *Server) query(rw http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, ok := s.registry.Resolve(q.Get("area"), s.reporter())
	if !ok {
		writeError(rw, http.StatusBadRequest, fmt.Errorf("area %q is neither a note nor an encoding", q.Get("area")))
		return
	}
	resp := pointsResp{Frame: a.Frame(), Points: [][3]float64{}}
	var (
		pts []area.Vec3i
		err error
	)
	switch op := r.PathValue("op"); op {
	case "shell":
		pts, resp.Truncated = s.scanner.Shell(a)
	case "outline":
		pts, resp.Truncated = s.scanner.Outline(a)
	case "outline2d":
		y, perr := strconv.Atoi(q.Get("y"))
		if perr != nil {
			writeError(rw, http.StatusBadRequest, fmt.Errorf("outline2d needs integer y"))
			return
		}
		pts, resp.Truncated = s.scanner.Outline2D(a, y)
	case "blocks":
		pts, resp.Truncated, err = s.scanner.Blocks(a, q.Get("pattern"))
	case "spawnable":
		var sp []area.Vec3
		sp, resp.Truncated, err = s.scanner.SpawnableBlocks(a, q.Get("pattern"))
		for _, p := range sp {
			resp.Points = append(resp.Points, [3]float64{p.X, p.Y, p.Z})
		}
	case "annotated":
		pts, resp.Truncated = s.scanner.AnnotatedPoints(a, s.world, q.Get("name"))
	case "agents":
		found, aerr := s.scanner.AgentsWithin(a, s.agents, scan.AgentKind(q.Get("kind")), q.Get("pattern"))
		if aerr != nil {
			writeError(rw, http.StatusBadGateway, aerr)
			return
		}
		out := make([]agentView, 0, len(found))
		for _, ag := range found {
			out = append(out, agentView{ID: ag.ID, Name: ag.Name, Kind: string(ag.Kind), Pos: [3]float64{ag.Pos.X, ag.Pos.Y, ag.Pos.Z}})
		}
		writeJSON(rw, http.StatusOK, out)
		return
	default:
		writeError(rw, http.StatusNotFound, fmt.Errorf("unknown query %q", op))
		return
	}
	if err != nil {
		writeError(rw, http.StatusBadGateway, err)
		return
	}
	if pts != nil {
		resp.Points = blockPoints(pts)
	}
	writeJSON(rw, http.StatusOK, resp)
}
