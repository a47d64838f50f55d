package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"voxelcraft.ai/areas/internal/app"
	"voxelcraft.ai/areas/internal/config"
	"voxelcraft.ai/areas/internal/persistence/r2s3"
	"voxelcraft.ai/areas/internal/persistence/snapshot"
	"voxelcraft.ai/areas/internal/transport/api"
)

func main() {
	var (
		addr          = flag.String("addr", "127.0.0.1:8095", "http listen address")
		configPath    = flag.String("config", "./configs/areas.yaml", "path to areas.yaml")
		fixture       = flag.String("fixture", "", "world fixture yaml (overrides world.fixture)")
		snapshotDir   = flag.String("snapshots", "", "directory for periodic note snapshots (overrides storage.snapshot_dir)")
		snapshotEvery = flag.Duration("snapshot_every", 10*time.Minute, "snapshot interval")
		remoteWrites  = flag.Bool("allow_remote_writes", false, "accept mutating requests from non-loopback clients")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[areasd] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if v := strings.TrimSpace(*fixture); v != "" {
		cfg.World.Fixture = v
	}
	if v := strings.TrimSpace(*snapshotDir); v != "" {
		cfg.Storage.SnapshotDir = v
	}

	ctx, cancel := signalContext()
	defer cancel()

	ap, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open: %v", err)
	}
	defer ap.Close()

	if feed := ap.Feed(); feed != nil {
		logger.Printf("agent feed: %s", feed.URL)
		go func() { _ = feed.Run(ctx) }()
	}

	if dir := cfg.Storage.SnapshotDir; dir != "" && *snapshotEvery > 0 {
		mirror, err := buildMirror(ctx, cfg.Storage, logger)
		if err != nil {
			logger.Fatalf("snapshot mirror: %v", err)
		}
		loopDone := make(chan struct{})
		go func() {
			defer close(loopDone)
			snapshotLoop(ctx, ap, dir, *snapshotEvery, mirror, logger)
		}()
		defer func() {
			<-loopDone
			mirror.Close()
		}()
	}

	srvAPI := api.NewServer(ap.Registry, ap.Scanner, ap.World, ap.Agents, logger)
	srvAPI.AllowRemoteWrites = *remoteWrites
	srv := &http.Server{
		Addr:              *addr,
		Handler:           srvAPI.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s (%d notes)", *addr, ap.Registry.Len())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func snapshotLoop(ctx context.Context, ap *app.App, dir string, every time.Duration, mirror *r2s3.Mirror, logger *log.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			recs, err := ap.Registry.Records()
			if err != nil {
				logger.Printf("snapshot: %v", err)
				continue
			}
			path := filepath.Join(dir, now.UTC().Format("20060102T150405Z")+".snap.zst")
			if err := snapshot.WriteSnapshot(path, recs); err != nil {
				logger.Printf("snapshot write: %v", err)
				continue
			}
			logger.Printf("snapshot: %d notes -> %s", len(recs), path)
			mirror.Enqueue(path)
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
