package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"voxelcraft.ai/areas/internal/agents"
	"voxelcraft.ai/areas/internal/match"
	"voxelcraft.ai/areas/internal/notes"
	"voxelcraft.ai/areas/internal/scan"
	"voxelcraft.ai/areas/internal/world/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *notes.Registry, *agents.Tracker) {
	t.Helper()
	w := store.New(-64, 384)
	fx, err := store.LoadFixture("../../world/store/testdata/plaza.yaml")
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	if err := w.Apply(fx, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	reg := notes.NewRegistry(notes.Options{})
	tr := agents.NewTracker()
	sc := scan.NewScanner(scan.Limits{MaxBlocks: 1000, MinY: -64, MaxY: 319}, w, match.New(), nil)
	srv := httptest.NewServer(NewServer(reg, sc, w, tr, nil).Handler())
	t.Cleanup(srv.Close)
	return srv, reg, tr
}

func do(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestNotesCRUD(t *testing.T) {
	srv, reg, _ := newTestServer(t)

	var v noteView
	if code := do(t, http.MethodPut, srv.URL+"/v1/notes/Plaza", putNoteReq{Encoding: "world,0,0,0,7,3,7"}, &v); code != http.StatusOK {
		t.Fatalf("put status=%d", code)
	}
	if v.Name != "plaza" || v.Volume != 256 {
		t.Fatalf("note view: %+v", v)
	}
	if code := do(t, http.MethodPost, srv.URL+"/v1/notes/plaza/members", memberReq{Pair: "20,0,20,world|20,0,20,world"}, &v); code != http.StatusOK {
		t.Fatalf("add member status=%d", code)
	}
	if v.Members != 2 {
		t.Fatalf("members: %+v", v)
	}
	front := -3
	if code := do(t, http.MethodPost, srv.URL+"/v1/notes/plaza/members", memberReq{Pair: "30,0,30,world|30,0,30,world", At: &front}, &v); code != http.StatusOK {
		t.Fatalf("insert member status=%d", code)
	}
	if v.Encoding != "world,30,0,30,30,0,30,0,0,0,7,3,7,20,0,20,20,0,20" {
		t.Fatalf("negative at should insert first: %s", v.Encoding)
	}
	if code := do(t, http.MethodDelete, srv.URL+"/v1/notes/plaza/members/1", nil, &v); code != http.StatusOK || v.Members != 2 {
		t.Fatalf("remove inserted member status=%d %+v", code, v)
	}
	if code := do(t, http.MethodPost, srv.URL+"/v1/notes/plaza/members", memberReq{Pair: "0,0,0,nether|1,1,1,nether"}, nil); code != http.StatusBadRequest {
		t.Fatalf("foreign frame member status=%d", code)
	}
	if code := do(t, http.MethodPut, srv.URL+"/v1/notes/plaza/flags/PvP", flagReq{Value: false}, &v); code != http.StatusOK {
		t.Fatalf("flag status=%d", code)
	}
	if val, ok := v.Flags["pvp"]; !ok || val != false {
		t.Fatalf("flags: %+v", v.Flags)
	}

	var list []noteView
	do(t, http.MethodGet, srv.URL+"/v1/notes?frame=world", nil, &list)
	if len(list) != 1 || list[0].Name != "plaza" {
		t.Fatalf("list: %+v", list)
	}

	if code := do(t, http.MethodDelete, srv.URL+"/v1/notes/plaza/members/1", nil, nil); code != http.StatusOK {
		t.Fatalf("remove member status=%d", code)
	}
	if code := do(t, http.MethodDelete, srv.URL+"/v1/notes/plaza/members/1", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("remove last member status=%d", code)
	}
	if code := do(t, http.MethodDelete, srv.URL+"/v1/notes/plaza", nil, nil); code != http.StatusOK {
		t.Fatalf("delete status=%d", code)
	}
	if reg.Len() != 0 {
		t.Fatalf("registry not empty")
	}
	if code := do(t, http.MethodGet, srv.URL+"/v1/notes/plaza", nil, nil); code != http.StatusNotFound {
		t.Fatalf("get deleted status=%d", code)
	}
}

func TestQuery(t *testing.T) {
	srv, reg, tr := newTestServer(t)
	a, _ := reg.Resolve("world,0,0,0,7,3,7", nil)
	if _, err := reg.Note(context.Background(), a, "plaza"); err != nil {
		t.Fatalf("note: %v", err)
	}

	var pr pointsResp
	do(t, http.MethodGet, srv.URL+"/v1/query/blocks?area=plaza&pattern=water", nil, &pr)
	if len(pr.Points) != 4 || pr.Frame != "world" {
		t.Fatalf("water blocks: %+v", pr)
	}
	do(t, http.MethodGet, srv.URL+"/v1/query/blocks?area=world,0,0,0,99,0,99", nil, &pr)
	if !pr.Truncated || len(pr.Points) != 1000 {
		t.Fatalf("expected truncation at 1000, got %d truncated=%v", len(pr.Points), pr.Truncated)
	}
	do(t, http.MethodGet, srv.URL+"/v1/query/annotated?area=plaza&name=spawn", nil, &pr)
	if len(pr.Points) != 1 {
		t.Fatalf("annotated: %+v", pr)
	}

	tr.ApplyTick(agents.TickMsg{Tick: 1, WorldID: "world", Agents: []agents.AgentState{
		{ID: "a1", Name: "miner", Kind: "npc", Pos: [3]int{1, 1, 1}},
		{ID: "a2", Name: "guest", Pos: [3]int{50, 1, 50}},
	}})
	var found []agentView
	do(t, http.MethodGet, srv.URL+"/v1/query/agents?area=plaza&kind=npc", nil, &found)
	if len(found) != 1 || found[0].ID != "a1" {
		t.Fatalf("agents: %+v", found)
	}

	if code := do(t, http.MethodGet, srv.URL+"/v1/query/teleport?area=plaza", nil, nil); code != http.StatusNotFound {
		t.Fatalf("unknown op status=%d", code)
	}
	if code := do(t, http.MethodGet, srv.URL+"/v1/query/outline2d?area=plaza", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("outline2d without y status=%d", code)
	}
}

func TestWritesRequireLoopback(t *testing.T) {
	reg := notes.NewRegistry(notes.Options{})
	h := NewServer(reg, scan.NewScanner(scan.DefaultLimits(), nil, nil, nil), store.New(0, 16), agents.NewTracker(), nil).Handler()

	req := httptest.NewRequest(http.MethodPut, "/v1/notes/gate", strings.NewReader(`{"encoding":"w,0,0,0,1,1,1"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("remote write status=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "areas_notes") {
		t.Fatalf("metrics missing areas_notes:\n%s", rec.Body.String())
	}
}

func TestPutFlag_TTLUsesRegistryClock(t *testing.T) {
	clock := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
	reg := notes.NewRegistry(notes.Options{Clock: func() time.Time { return clock }})
	srv := httptest.NewServer(NewServer(reg, scan.NewScanner(scan.DefaultLimits(), nil, nil, nil), store.New(0, 16), agents.NewTracker(), nil).Handler())
	defer srv.Close()

	if code := do(t, http.MethodPut, srv.URL+"/v1/notes/gate", putNoteReq{Encoding: "w,0,0,0,1,1,1"}, nil); code != http.StatusOK {
		t.Fatalf("put status=%d", code)
	}
	if code := do(t, http.MethodPut, srv.URL+"/v1/notes/gate/flags/open", flagReq{Value: true, TTLSeconds: 90}, nil); code != http.StatusOK {
		t.Fatalf("flag status=%d", code)
	}
	a, _ := reg.Lookup("gate")
	fl, _ := a.Flags()
	if exp, ok := fl.Expiry("open"); !ok || !exp.Equal(clock.Add(90*time.Second)) {
		t.Fatalf("expiry %v %v, want %v", exp, ok, clock.Add(90*time.Second))
	}
}

func TestWorldChunkDigests(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var frames []frameView
	if code := do(t, http.MethodGet, srv.URL+"/v1/world", nil, &frames); code != http.StatusOK {
		t.Fatalf("world status=%d", code)
	}
	if len(frames) != 2 || frames[0].Name != "nether" || frames[1].Name != "world" || frames[1].Chunks != 2 {
		t.Fatalf("frames: %+v", frames)
	}

	var loaded chunksResp
	do(t, http.MethodGet, srv.URL+"/v1/world/world/chunks", nil, &loaded)
	if len(loaded.Chunks) != 2 {
		t.Fatalf("loaded chunks: %+v", loaded)
	}
	for _, c := range loaded.Chunks {
		if !c.Loaded || len(c.Digest) != 64 {
			t.Fatalf("chunk view: %+v", c)
		}
	}

	var covered chunksResp
	do(t, http.MethodGet, srv.URL+"/v1/world/world/chunks?area=world,0,0,0,40,0,0", nil, &covered)
	if len(covered.Chunks) != 3 || covered.Truncated {
		t.Fatalf("covered chunks: %+v", covered)
	}
	if !covered.Chunks[0].Loaded || covered.Chunks[0].Digest != loaded.Chunks[0].Digest {
		t.Fatalf("chunk 0,0 should carry the loaded digest: %+v", covered.Chunks[0])
	}
	if covered.Chunks[1].Loaded || covered.Chunks[2].Loaded {
		t.Fatalf("chunks 1,0 and 2,0 hold no blocks: %+v", covered.Chunks)
	}

	if code := do(t, http.MethodGet, srv.URL+"/v1/world/nether/chunks?area=world,0,0,0,1,1,1", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("cross-frame area status=%d", code)
	}
}
