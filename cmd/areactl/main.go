package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
)

type command func(args []string, out io.Writer, logger *log.Logger) error

var errUsage = errors.New("usage")

var commands = map[string]command{
	"parse":     parseCmd,
	"info":      infoCmd,
	"note":      noteCmd,
	"forget":    forgetCmd,
	"list":      listCmd,
	"member":    memberCmd,
	"flag":      flagCmd,
	"shell":     shellCmd,
	"outline":   outlineCmd,
	"blocks":    blocksCmd,
	"annotated": annotatedCmd,
	"agents":    agentsCmd,
	"audit":     auditCmd,
	"export":    exportCmd,
	"import":    importCmd,
}

func main() {
	logger := log.New(os.Stderr, "[areactl] ", log.LstdFlags|log.Lmicroseconds)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err := cmd(os.Args[2:], os.Stdout, logger); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		logger.Fatalf("%s: %v", os.Args[1], err)
	}
}

func usage() {
	names := make([]string, 0, len(commands))
	for k := range commands {
		names = append(names, k)
	}
	sort.Strings(names)
	fmt.Fprintln(os.Stderr, "usage: areactl <command> [flags] [args]")
	fmt.Fprintln(os.Stderr, "commands:")
	for _, n := range names {
		fmt.Fprintln(os.Stderr, "  "+n)
	}
}

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}
