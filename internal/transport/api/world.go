package api

import (
	"encoding/hex"
	"fmt"
	"net/http"

	"voxelcraft.ai/areas/internal/area"
)

type frameView struct {
	Name   string `json:"name"`
	Chunks int    `json:"chunks"`
}

type chunkView struct {
	CX     int    `json:"cx"`
	CZ     int    `json:"cz"`
	Loaded bool   `json:"loaded"`
	Digest string `json:"digest,omitempty"`
}

type chunksResp struct {
	Frame     string      `json:"frame"`
	Chunks    []chunkView `json:"chunks"`
	Truncated bool        `json:"truncated"`
}

func (s *Server) listFrames(rw http.ResponseWriter, r *http.Request) {
	out := []frameView{}
	for _, f := range s.world.Frames() {
		out = append(out, frameView{Name: f, Chunks: len(s.world.LoadedChunkKeys(f))})
	}
	writeJSON(rw, http.StatusOK, out)
}

// listChunks reports block digests for the loaded chunks of a frame. With
// ?area= it lists the columns that area covers instead, loaded or not, so a
// client can tell which parts of an area changed since its last look.
func (s *Server) listChunks(rw http.ResponseWriter, r *http.Request) {
	frame := r.PathValue("frame")
	resp := chunksResp{Frame: frame, Chunks: []chunkView{}}

	var keys []area.ChunkKey
	if text := r.URL.Query().Get("area"); text != "" {
		a, ok := s.registry.Resolve(text, s.reporter())
		if !ok {
			writeError(rw, http.StatusBadRequest, fmt.Errorf("area %q is neither a note nor an encoding", text))
			return
		}
		if a.Frame() != frame {
			writeError(rw, http.StatusBadRequest, fmt.Errorf("area is in %q, not %q", a.Frame(), frame))
			return
		}
		keys, resp.Truncated = a.Chunks(s.scanner.Limits.MaxBlocks)
	} else {
		keys = s.world.LoadedChunkKeys(frame)
	}

	for _, k := range keys {
		v := chunkView{CX: k.CX, CZ: k.CZ}
		if d, ok := s.world.ChunkDigest(frame, k); ok {
			v.Loaded = true
			v.Digest = hex.EncodeToString(d[:])
		}
		resp.Chunks = append(resp.Chunks, v)
	}
	writeJSON(rw, http.StatusOK, resp)
}
