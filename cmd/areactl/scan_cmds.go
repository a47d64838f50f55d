package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"voxelcraft.ai/areas/internal/area"
	"voxelcraft.ai/areas/internal/scan"
)

func printPoints(out io.Writer, logger *log.Logger, frame string, pts []area.Vec3i, truncated bool) {
	for _, p := range pts {
		fmt.Fprintln(out, area.PointString(p, frame))
	}
	if truncated {
		logger.Printf("result truncated at %d points", len(pts))
	}
}

func shellCmd(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	env := addEnvFlags(fs)
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return usageErr("shell [flags] <note|encoding>")
	}
	ap, err := env.open(context.Background(), logger)
	if err != nil {
		return err
	}
	defer ap.Close()
	a, err := ap.Resolve(fs.Arg(0))
	if err != nil {
		return err
	}
	pts, truncated := ap.Scanner.Shell(a)
	printPoints(out, logger, a.Frame(), pts, truncated)
	return nil
}

func outlineCmd(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("outline", flag.ExitOnError)
	env := addEnvFlags(fs)
	flat := fs.Bool("2d", false, "outline projected onto the plane at -y")
	y := fs.Int("y", 0, "plane height for -2d")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return usageErr("outline [-2d -y n] [flags] <note|encoding>")
	}
	ap, err := env.open(context.Background(), logger)
	if err != nil {
		return err
	}
	defer ap.Close()
	a, err := ap.Resolve(fs.Arg(0))
	if err != nil {
		return err
	}
	var (
		pts       []area.Vec3i
		truncated bool
	)
	if *flat {
		pts, truncated = ap.Scanner.Outline2D(a, *y)
	} else {
		pts, truncated = ap.Scanner.Outline(a)
	}
	printPoints(out, logger, a.Frame(), pts, truncated)
	return nil
}

func blocksCmd(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("blocks", flag.ExitOnError)
	env := addEnvFlags(fs)
	pattern := fs.String("pattern", "", "material pattern, e.g. stone,*_ore,!air")
	spawnable := fs.Bool("spawnable", false, "list spawnable positions instead")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return usageErr("blocks [-pattern p] [-spawnable] [flags] <note|encoding>")
	}
	ap, err := env.open(context.Background(), logger)
	if err != nil {
		return err
	}
	defer ap.Close()
	a, err := ap.Resolve(fs.Arg(0))
	if err != nil {
		return err
	}
	if *spawnable {
		pts, truncated, err := ap.Scanner.SpawnableBlocks(a, *pattern)
		if err != nil {
			return err
		}
		for _, p := range pts {
			fmt.Fprintf(out, "%g,%g,%g,%s\n", p.X, p.Y, p.Z, a.Frame())
		}
		if truncated {
			logger.Printf("result truncated at %d points", len(pts))
		}
		return nil
	}
	pts, truncated, err := ap.Scanner.Blocks(a, *pattern)
	if err != nil {
		return err
	}
	printPoints(out, logger, a.Frame(), pts, truncated)
	return nil
}

func annotatedCmd(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("annotated", flag.ExitOnError)
	env := addEnvFlags(fs)
	name := fs.String("name", "", "annotation name")
	_ = fs.Parse(args)
	if *name == "" || fs.NArg() != 1 {
		return usageErr("annotated -name <annotation> [flags] <note|encoding>")
	}
	ap, err := env.open(context.Background(), logger)
	if err != nil {
		return err
	}
	defer ap.Close()
	a, err := ap.Resolve(fs.Arg(0))
	if err != nil {
		return err
	}
	pts, truncated := ap.Scanner.AnnotatedPoints(a, ap.World, *name)
	printPoints(out, logger, a.Frame(), pts, truncated)
	return nil
}

// agentsCmd listens to the configured feed for -wait, then lists the agents
// standing inside the area.
func agentsCmd(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("agents", flag.ExitOnError)
	env := addEnvFlags(fs)
	kind := fs.String("kind", "", "player, npc or entity (default any)")
	pattern := fs.String("pattern", "", "agent name/id pattern")
	wait := fs.Duration("wait", 2*time.Second, "how long to collect positions from the feed")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return usageErr("agents [-kind k] [-pattern p] [-wait d] [flags] <note|encoding>")
	}
	ap, err := env.open(context.Background(), logger)
	if err != nil {
		return err
	}
	defer ap.Close()
	a, err := ap.Resolve(fs.Arg(0))
	if err != nil {
		return err
	}
	feed := ap.Feed()
	if feed == nil {
		return fmt.Errorf("agents.feed_url is not configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), *wait)
	defer cancel()
	_ = feed.Run(ctx)

	found, err := ap.Scanner.AgentsWithin(a, ap.Agents, scan.AgentKind(*kind), *pattern)
	if err != nil {
		return err
	}
	for _, ag := range found {
		fmt.Fprintf(out, "%s\t%s\t%s\t%g,%g,%g\n", ag.ID, ag.Name, ag.Kind, ag.Pos.X, ag.Pos.Y, ag.Pos.Z)
	}
	return nil
}
