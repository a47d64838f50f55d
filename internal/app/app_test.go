package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"voxelcraft.ai/areas/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.Storage.SQLitePath = filepath.Join(dir, "notes.sqlite")
	cfg.Storage.AuditDir = dir
	cfg.World.Fixture = "../world/store/testdata/plaza.yaml"
	cfg.Normalize()
	return cfg
}

func TestOpen_NotesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	ap, err := Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	a, err := ap.Resolve("world,0,0,0,3,3,3")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	noted, err := ap.Registry.Note(ctx, a, "pool")
	if err != nil {
		t.Fatalf("Note: %v", err)
	}
	fl, _ := noted.Flags()
	if err := fl.Set("owner", "ann", time.Time{}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := ap.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ap, err = Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer ap.Close()
	got, err := ap.Resolve("POOL")
	if err != nil {
		t.Fatalf("Resolve note: %v", err)
	}
	if got.String() != "world,0,0,0,3,3,3" {
		t.Fatalf("reloaded encoding: %s", got.String())
	}
	fl, _ = got.Flags()
	if v, ok := fl.Get("owner"); !ok || v != "ann" {
		t.Fatalf("reloaded flag: %v %v", v, ok)
	}

	ents, err := os.ReadDir(filepath.Join(cfg.Storage.AuditDir, "audit"))
	if err != nil || len(ents) == 0 {
		t.Fatalf("audit files: %v %v", ents, err)
	}
}

func TestOpen_WiresFixtureIntoScanner(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Storage.SQLitePath = ""
	cfg.Storage.AuditDir = ""

	ap, err := Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ap.Close()
	a, err := ap.Resolve("world,0,0,0,7,0,7")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	pts, truncated, err := ap.Scanner.Blocks(a, "stone")
	if err != nil || truncated {
		t.Fatalf("Blocks: %v truncated=%v", err, truncated)
	}
	if len(pts) != 60 {
		t.Fatalf("stone blocks: got %d want 60", len(pts))
	}
	if ap.Feed() != nil {
		t.Fatalf("feed should be disabled without feed_url")
	}
	if _, err := ap.Resolve("not an area"); err == nil {
		t.Fatalf("expected resolve error")
	}
}

func TestOpen_BadFixture(t *testing.T) {
	cfg := testConfig(t)
	cfg.World.Fixture = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := Open(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected fixture error")
	}
}
