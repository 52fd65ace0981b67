// Package main is the entry point for the mcfunc batch converter.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/mcfunc/internal/app"
	"github.com/dshills/mcfunc/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, watch, paths := parseFlags()

	a := app.New(opts, os.Stdout, os.Stderr)
	if !watch {
		return a.Run(paths)
	}

	// Watch mode runs until interrupted.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	return a.Watch(ctx, paths)
}

func parseFlags() (app.Options, bool, []string) {
	var opts app.Options
	var watch, showVersion bool

	flag.BoolVar(&opts.List, "l", false, "list files whose contents would change")
	flag.BoolVar(&opts.Write, "w", false, "write results back to the source files instead of standard output")
	flag.BoolVar(&opts.Diff, "d", false, "print diffs instead of rewriting")
	flag.BoolVar(&watch, "watch", false, "keep running and convert files as they change (requires -w)")
	flag.StringVar(&opts.Extension, "extension", "", "file extension to act on (default from config, or .mcfunction)")
	flag.BoolVar(&showVersion, "version", false, "show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "mcfunc - convert raw coordinate selectors in Minecraft function files\n\n")
		fmt.Fprintf(os.Stderr, "Usage: mcfunc [options] [path ...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  mcfunc file.mcfunction      Print the converted file\n")
		fmt.Fprintf(os.Stderr, "  mcfunc -l ./datapack        List files that would change\n")
		fmt.Fprintf(os.Stderr, "  mcfunc -w ./datapack        Convert a datapack in place\n")
		fmt.Fprintf(os.Stderr, "  mcfunc -w -watch ./datapack Convert files as they change\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("mcfunc %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// The configuration file supplies the extension unless the flag does.
	// A broken config file is reported but never blocks a conversion.
	if opts.Extension == "" {
		cfg, err := config.Load(config.DefaultPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "mcfunc: %v (using defaults)\n", err)
		}
		opts.Extension = cfg.Extension
	}

	return opts, watch, flag.Args()
}
