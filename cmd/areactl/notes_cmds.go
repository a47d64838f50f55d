package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"voxelcraft.ai/areas/internal/area"
)

func parseCmd(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return usageErr("parse <encoding>")
	}
	a, ok := area.Parse(fs.Arg(0), logger)
	if !ok {
		return fmt.Errorf("cannot parse %q", fs.Arg(0))
	}
	printArea(out, a)
	return nil
}

func infoCmd(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	env := addEnvFlags(fs)
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return usageErr("info [flags] <note|encoding>")
	}
	ctx := context.Background()
	ap, err := env.open(ctx, logger)
	if err != nil {
		return err
	}
	defer ap.Close()

	a, err := ap.Resolve(fs.Arg(0))
	if err != nil {
		return err
	}
	printArea(out, a)
	c := a.Center()
	fmt.Fprintf(out, "center=%g,%g,%g\n", c.X, c.Y, c.Z)
	chunks, truncated := a.Chunks(ap.Config.Limits.MaxBlocks)
	fmt.Fprintf(out, "chunks=%d truncated=%v\n", len(chunks), truncated)
	fl, reason := a.Flags()
	if fl == nil {
		fmt.Fprintf(out, "flags: %s\n", reason)
		return nil
	}
	for _, k := range fl.Keys() {
		v, _ := fl.Get(k)
		if exp, ok := fl.Expiry(k); ok && !exp.IsZero() {
			fmt.Fprintf(out, "flag %s=%v expires=%s\n", k, v, exp.UTC().Format(time.RFC3339))
			continue
		}
		fmt.Fprintf(out, "flag %s=%v\n", k, v)
	}
	return nil
}

func printArea(out io.Writer, a area.Area) {
	if a.IsNoted() {
		fmt.Fprintf(out, "name=%s\n", a.Name())
	}
	fmt.Fprintf(out, "encoding=%s\n", a.String())
	fmt.Fprintf(out, "frame=%s members=%d volume=%d\n", a.Frame(), a.Len(), a.Volume())
	for i, p := range a.Pairs() {
		s := p.Size()
		fmt.Fprintf(out, "  %d: %s -> %s size=%dx%dx%d\n", i+1,
			area.PointString(p.Low, p.Frame), area.PointString(p.High, p.Frame), s.X, s.Y, s.Z)
	}
}

func noteCmd(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("note", flag.ExitOnError)
	env := addEnvFlags(fs)
	name := fs.String("name", "", "note name")
	_ = fs.Parse(args)
	if strings.TrimSpace(*name) == "" || fs.NArg() != 1 {
		return usageErr("note -name <name> [flags] <encoding>")
	}
	ctx := context.Background()
	ap, err := env.open(ctx, logger)
	if err != nil {
		return err
	}
	defer ap.Close()

	a, ok := area.Parse(fs.Arg(0), logger)
	if !ok {
		return fmt.Errorf("cannot parse %q", fs.Arg(0))
	}
	noted, err := ap.Registry.Note(ctx, a, *name)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "noted %s=%s\n", noted.Name(), noted.String())
	return nil
}

func forgetCmd(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("forget", flag.ExitOnError)
	env := addEnvFlags(fs)
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return usageErr("forget [flags] <name>")
	}
	ctx := context.Background()
	ap, err := env.open(ctx, logger)
	if err != nil {
		return err
	}
	defer ap.Close()

	a, ok := ap.Registry.Lookup(fs.Arg(0))
	if !ok {
		return fmt.Errorf("no note %q", fs.Arg(0))
	}
	if err := ap.Registry.Forget(ctx, &a); err != nil {
		return err
	}
	fmt.Fprintf(out, "forgot %s\n", fs.Arg(0))
	return nil
}

func listCmd(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	env := addEnvFlags(fs)
	frame := fs.String("frame", "", "only notes in this frame")
	_ = fs.Parse(args)
	ctx := context.Background()
	ap, err := env.open(ctx, logger)
	if err != nil {
		return err
	}
	defer ap.Close()

	for _, n := range ap.Registry.Names() {
		a, ok := ap.Registry.Lookup(n)
		if !ok || (*frame != "" && a.Frame() != *frame) {
			continue
		}
		fmt.Fprintf(out, "%s\t%s\n", n, a.String())
	}
	return nil
}

// memberCmd edits a note's members in place.
func memberCmd(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("member", flag.ExitOnError)
	env := addEnvFlags(fs)
	name := fs.String("name", "", "note name")
	add := fs.String("add", "", "pair to add: x,y,z,frame|x,y,z,frame")
	set := fs.String("set", "", "replacement pair: x,y,z,frame|x,y,z,frame")
	remove := fs.Bool("remove", false, "remove the member at -at")
	at := fs.Int("at", 1, "1-based member index, clamped (-add without -at appends)")
	_ = fs.Parse(args)
	atGiven := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "at" {
			atGiven = true
		}
	})
	if strings.TrimSpace(*name) == "" {
		return usageErr("member -name <name> (-add pair | -set pair | -remove) [-at i]")
	}

	var edit func(area.Area) (area.Area, error)
	switch {
	case *add != "":
		p, err := parsePair(*add, logger)
		if err != nil {
			return err
		}
		edit = func(a area.Area) (area.Area, error) {
			if !atGiven {
				return a.AppendMember(p)
			}
			return a.AddMember(p, *at)
		}
	case *set != "":
		p, err := parsePair(*set, logger)
		if err != nil {
			return err
		}
		edit = func(a area.Area) (area.Area, error) { return a.SetMember(*at, p) }
	case *remove:
		edit = func(a area.Area) (area.Area, error) { return a.RemoveMember(*at) }
	default:
		return usageErr("member needs one of -add, -set, -remove")
	}

	ctx := context.Background()
	ap, err := env.open(ctx, logger)
	if err != nil {
		return err
	}
	defer ap.Close()
	a, err := ap.Registry.Update(ctx, *name, edit)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s=%s\n", a.Name(), a.String())
	return nil
}

func parsePair(text string, logger *log.Logger) (area.Pair, error) {
	a, ok := area.Parse(text, logger)
	if !ok || a.Len() != 1 {
		return area.Pair{}, fmt.Errorf("expected one pair, got %q", text)
	}
	return a.First(), nil
}

func flagCmd(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("flag", flag.ExitOnError)
	env := addEnvFlags(fs)
	name := fs.String("name", "", "note name")
	set := fs.String("set", "", "key=value to set")
	unset := fs.String("unset", "", "key to remove")
	ttl := fs.Duration("ttl", 0, "expiry for -set (0 = never)")
	_ = fs.Parse(args)
	if strings.TrimSpace(*name) == "" {
		return usageErr("flag -name <name> [-set k=v [-ttl d] | -unset k]")
	}
	ctx := context.Background()
	ap, err := env.open(ctx, logger)
	if err != nil {
		return err
	}
	defer ap.Close()

	a, ok := ap.Registry.Lookup(*name)
	if !ok {
		return fmt.Errorf("no note %q", *name)
	}
	fl, reason := a.Flags()
	if fl == nil {
		return fmt.Errorf("%s: %s", *name, reason)
	}
	switch {
	case *set != "":
		k, v, ok := strings.Cut(*set, "=")
		if !ok {
			return usageErr("-set expects key=value")
		}
		if err := fl.SetFor(k, flagValue(v), *ttl); err != nil {
			return err
		}
	case *unset != "":
		if !fl.Remove(*unset) {
			return fmt.Errorf("%s has no flag %q", *name, *unset)
		}
	}
	for _, k := range fl.Keys() {
		v, _ := fl.Get(k)
		fmt.Fprintf(out, "%s=%v\n", k, v)
	}
	return nil
}

// flagValue keeps numbers and booleans typed so they round-trip as JSON.
func flagValue(s string) any {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// auditCmd prints the audit trail, oldest first.
func auditCmd(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	env := addEnvFlags(fs)
	name := fs.String("name", "", "only events for this note")
	_ = fs.Parse(args)

	ap, err := env.open(context.Background(), logger)
	if err != nil {
		return err
	}
	defer ap.Close()
	evs, err := ap.History(*name)
	if err != nil {
		return err
	}
	for _, ev := range evs {
		line := fmt.Sprintf("%s %s %s", ev.Time.Format(time.RFC3339), ev.Action, ev.Name)
		if ev.Key != "" {
			line += " key=" + ev.Key
		}
		if ev.Encoding != "" {
			line += " " + ev.Encoding
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
