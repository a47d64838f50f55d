package log

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"voxelcraft.ai/areas/internal/area"
	"voxelcraft.ai/areas/internal/notes"
)

func TestNoteAuditLogger_RecordsRegistryChanges(t *testing.T) {
	dir := t.TempDir()
	clock := time.Date(2026, 5, 6, 7, 0, 0, 0, time.UTC)
	audit := NewNoteAuditLogger(dir)

	reg := notes.NewRegistry(notes.Options{Audit: audit, Clock: func() time.Time { return clock }})
	a, _ := area.Parse("world,0,0,0,1,1,1", nil)
	noted, err := reg.Note(context.Background(), a, "gate")
	if err != nil {
		t.Fatalf("Note: %v", err)
	}
	fl, _ := noted.Flags()
	_ = fl.Set("open", false, time.Time{})
	if err := reg.Forget(context.Background(), &noted); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if err := audit.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "audit", "notes-2026-05-06.jsonl.zst")); err != nil {
		t.Fatalf("day file: %v", err)
	}
	evs, err := ReadNoteEvents(audit.Dir(), "")
	if err != nil {
		t.Fatalf("ReadNoteEvents: %v", err)
	}
	if len(evs) != 3 {
		t.Fatalf("events: %+v", evs)
	}
	if evs[0].Action != notes.ActionNote || evs[0].Encoding != "world,0,0,0,1,1,1" {
		t.Fatalf("note event: %+v", evs[0])
	}
	if evs[1].Action != notes.ActionFlag || evs[1].Key != "open" {
		t.Fatalf("flag event: %+v", evs[1])
	}
	if evs[2].Action != notes.ActionForget || evs[2].Name != "gate" {
		t.Fatalf("forget event: %+v", evs[2])
	}
}

func TestNoteAuditLogger_DaysAndReopen(t *testing.T) {
	dir := t.TempDir()
	day1 := time.Date(2026, 5, 6, 23, 59, 0, 0, time.UTC)
	day2 := day1.Add(2 * time.Minute)

	l := NewNoteAuditLogger(dir)
	for _, ev := range []notes.Event{
		{Time: day1, Action: notes.ActionNote, Name: "gate"},
		{Time: day2, Action: notes.ActionNote, Name: "pool"},
	} {
		if err := l.WriteNoteEvent(ev); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// A second process appends a new frame to the same day file.
	l = NewNoteAuditLogger(dir)
	if err := l.WriteNoteEvent(notes.Event{Time: day2, Action: notes.ActionForget, Name: "pool"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	files, _ := filepath.Glob(filepath.Join(l.Dir(), "notes-*.jsonl.zst"))
	if len(files) != 2 {
		t.Fatalf("day files: %v", files)
	}
	all, err := ReadNoteEvents(l.Dir(), "")
	if err != nil || len(all) != 3 || all[0].Name != "gate" {
		t.Fatalf("all events: %+v %v", all, err)
	}
	pool, err := ReadNoteEvents(l.Dir(), "POOL")
	if err != nil || len(pool) != 2 || pool[1].Action != notes.ActionForget {
		t.Fatalf("pool events: %+v %v", pool, err)
	}
}
