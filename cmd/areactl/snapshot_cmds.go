package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"voxelcraft.ai/areas/internal/persistence/snapshot"
)

func exportCmd(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	env := addEnvFlags(fs)
	path := fs.String("out", "notes.snap.zst", "snapshot output path")
	_ = fs.Parse(args)
	ap, err := env.open(context.Background(), logger)
	if err != nil {
		return err
	}
	defer ap.Close()
	recs, err := ap.Registry.Records()
	if err != nil {
		return err
	}
	if err := snapshot.WriteSnapshot(*path, recs); err != nil {
		return err
	}
	fmt.Fprintf(out, "exported %d notes to %s\n", len(recs), *path)
	return nil
}

func importCmd(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	env := addEnvFlags(fs)
	path := fs.String("in", "", "snapshot path")
	_ = fs.Parse(args)
	if *path == "" {
		return usageErr("import -in <snapshot> [flags]")
	}
	hdr, recs, err := snapshot.ReadSnapshot(*path)
	if err != nil {
		return err
	}
	ctx := context.Background()
	ap, err := env.open(ctx, logger)
	if err != nil {
		return err
	}
	defer ap.Close()
	n, err := ap.Registry.Restore(ctx, recs)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "imported %d of %d notes (snapshot v%d, %s)\n", n, hdr.Count, hdr.Version, hdr.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"))
	return nil
}
