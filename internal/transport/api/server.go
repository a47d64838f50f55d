// Package api serves notes and area queries over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voxelcraft.ai/areas/internal/agents"
	"voxelcraft.ai/areas/internal/area"
	"voxelcraft.ai/areas/internal/notes"
	"voxelcraft.ai/areas/internal/scan"
	"voxelcraft.ai/areas/internal/world/store"
)

type Server struct {
	registry *notes.Registry
	scanner  *scan.Scanner
	world    *store.Store
	agents   *agents.Tracker
	log      *log.Logger

	// AllowRemoteWrites lifts the loopback restriction on mutating routes.
	AllowRemoteWrites bool
}

func NewServer(reg *notes.Registry, sc *scan.Scanner, w *store.Store, tr *agents.Tracker, logger *log.Logger) *Server {
	return &Server{registry: reg, scanner: sc, world: w, agents: tr, log: logger}
}

func (s *Server) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

func (s *Server) reporter() area.Reporter {
	if s.log == nil {
		return nil
	}
	return s.log
}

// Handler returns the full route table, including /healthz and /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/notes", s.listNotes)
	mux.HandleFunc("GET /v1/notes/{name}", s.getNote)
	mux.HandleFunc("PUT /v1/notes/{name}", s.writeGuard(s.putNote))
	mux.HandleFunc("DELETE /v1/notes/{name}", s.writeGuard(s.deleteNote))
	mux.HandleFunc("POST /v1/notes/{name}/members", s.writeGuard(s.addMember))
	mux.HandleFunc("PUT /v1/notes/{name}/members/{index}", s.writeGuard(s.setMember))
	mux.HandleFunc("DELETE /v1/notes/{name}/members/{index}", s.writeGuard(s.removeMember))
	mux.HandleFunc("PUT /v1/notes/{name}/flags/{key}", s.writeGuard(s.putFlag))
	mux.HandleFunc("DELETE /v1/notes/{name}/flags/{key}", s.writeGuard(s.deleteFlag))

	mux.HandleFunc("GET /v1/query/{op}", s.query)
	mux.HandleFunc("GET /v1/world", s.listFrames)
	mux.HandleFunc("GET /v1/world/{frame}/chunks", s.listChunks)
	return mux
}

func (s *Server) writeGuard(h http.HandlerFunc) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !s.AllowRemoteWrites && !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		h(rw, r)
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

func writeError(rw http.ResponseWriter, status int, err error) {
	writeJSON(rw, status, map[string]any{"ok": false, "error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, notes.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, notes.ErrEmptyName), errors.Is(err, notes.ErrInvalid),
		errors.Is(err, area.ErrLastMember), errors.Is(err, area.ErrFrameMismatch):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
