package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"voxelcraft.ai/areas/internal/area"
	"voxelcraft.ai/areas/internal/notes"
)

type noteView struct {
	Name     string         `json:"name"`
	Encoding string         `json:"encoding"`
	Frame    string         `json:"frame"`
	Members  int            `json:"members"`
	Volume   int64          `json:"volume"`
	Flags    map[string]any `json:"flags,omitempty"`
}

func viewOf(a area.Area, withFlags bool) noteView {
	v := noteView{Name: a.Name(), Encoding: a.String(), Frame: a.Frame(), Members: a.Len(), Volume: a.Volume()}
	if !withFlags {
		return v
	}
	if fl, _ := a.Flags(); fl != nil {
		v.Flags = map[string]any{}
		for _, k := range fl.Keys() {
			if val, ok := fl.Get(k); ok {
				v.Flags[k] = val
			}
		}
	}
	return v
}

func (s *Server) listNotes(rw http.ResponseWriter, r *http.Request) {
	frame := r.URL.Query().Get("frame")
	out := []noteView{}
	for _, n := range s.registry.Names() {
		a, ok := s.registry.Lookup(n)
		if !ok || (frame != "" && a.Frame() != frame) {
			continue
		}
		out = append(out, viewOf(a, false))
	}
	writeJSON(rw, http.StatusOK, out)
}

func (s *Server) getNote(rw http.ResponseWriter, r *http.Request) {
	a, ok := s.registry.Lookup(r.PathValue("name"))
	if !ok {
		writeError(rw, http.StatusNotFound, notes.ErrNotFound)
		return
	}
	writeJSON(rw, http.StatusOK, viewOf(a, true))
}

type putNoteReq struct {
	Encoding string `json:"encoding"`
}

func (s *Server) putNote(rw http.ResponseWriter, r *http.Request) {
	var req putNoteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(rw, http.StatusBadRequest, err)
		return
	}
	a, ok := area.Parse(req.Encoding, s.reporter())
	if !ok {
		writeError(rw, http.StatusBadRequest, fmt.Errorf("bad encoding %q", req.Encoding))
		return
	}
	noted, err := s.registry.Note(r.Context(), a, r.PathValue("name"))
	if err != nil {
		s.logf("api: note %s: %v", r.PathValue("name"), err)
		writeError(rw, statusFor(err), err)
		return
	}
	writeJSON(rw, http.StatusOK, viewOf(noted, true))
}

func (s *Server) deleteNote(rw http.ResponseWriter, r *http.Request) {
	a, ok := s.registry.Lookup(r.PathValue("name"))
	if !ok {
		writeError(rw, http.StatusNotFound, notes.ErrNotFound)
		return
	}
	if err := s.registry.Forget(r.Context(), &a); err != nil {
		writeError(rw, statusFor(err), err)
		return
	}
	writeJSON(rw, http.StatusOK, map[string]any{"ok": true})
}

// memberReq carries one pair. A missing At appends; any given At is
// clamped into [1, Len+1].
type memberReq struct {
	Pair string `json:"pair"`
	At   *int   `json:"at,omitempty"`
}

func (s *Server) decodePair(r *http.Request) (area.Pair, *int, error) {
	var req memberReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return area.Pair{}, nil, err
	}
	a, ok := area.Parse(req.Pair, s.reporter())
	if !ok || a.Len() != 1 {
		return area.Pair{}, nil, fmt.Errorf("expected one pair, got %q", req.Pair)
	}
	return a.First(), req.At, nil
}

func (s *Server) edit(rw http.ResponseWriter, r *http.Request, fn func(area.Area) (area.Area, error)) {
	a, err := s.registry.Update(r.Context(), r.PathValue("name"), fn)
	if err != nil {
		writeError(rw, statusFor(err), err)
		return
	}
	writeJSON(rw, http.StatusOK, viewOf(a, false))
}

func (s *Server) addMember(rw http.ResponseWriter, r *http.Request) {
	p, at, err := s.decodePair(r)
	if err != nil {
		writeError(rw, http.StatusBadRequest, err)
		return
	}
	s.edit(rw, r, func(a area.Area) (area.Area, error) {
		if at == nil {
			return a.AppendMember(p)
		}
		return a.AddMember(p, *at)
	})
}

func (s *Server) setMember(rw http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(rw, http.StatusBadRequest, err)
		return
	}
	p, _, err := s.decodePair(r)
	if err != nil {
		writeError(rw, http.StatusBadRequest, err)
		return
	}
	s.edit(rw, r, func(a area.Area) (area.Area, error) { return a.SetMember(i, p) })
}

func (s *Server) removeMember(rw http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(rw, http.StatusBadRequest, err)
		return
	}
	s.edit(rw, r, func(a area.Area) (area.Area, error) { return a.RemoveMember(i) })
}

type flagReq struct {
	Value      any `json:"value"`
	TTLSeconds int `json:"ttl_seconds,omitempty"`
}

func (s *Server) putFlag(rw http.ResponseWriter, r *http.Request) {
	a, ok := s.registry.Lookup(r.PathValue("name"))
	if !ok {
		writeError(rw, http.StatusNotFound, notes.ErrNotFound)
		return
	}
	var req flagReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(rw, http.StatusBadRequest, err)
		return
	}
	fl, reason := a.Flags()
	if fl == nil {
		writeError(rw, http.StatusConflict, fmt.Errorf("%s", reason))
		return
	}
	if err := fl.SetFor(r.PathValue("key"), req.Value, time.Duration(req.TTLSeconds)*time.Second); err != nil {
		writeError(rw, http.StatusBadRequest, err)
		return
	}
	writeJSON(rw, http.StatusOK, viewOf(a, true))
}

func (s *Server) deleteFlag(rw http.ResponseWriter, r *http.Request) {
	a, ok := s.registry.Lookup(r.PathValue("name"))
	if !ok {
		writeError(rw, http.StatusNotFound, notes.ErrNotFound)
		return
	}
	fl, _ := a.Flags()
	if fl == nil || !fl.Remove(r.PathValue("key")) {
		writeError(rw, http.StatusNotFound, fmt.Errorf("no flag %q", r.PathValue("key")))
		return
	}
	writeJSON(rw, http.StatusOK, viewOf(a, true))
}
