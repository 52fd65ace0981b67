// Package main is the entry point for the mcfunc language server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/mcfunc/internal/config"
	"github.com/dshills/mcfunc/internal/lsp"
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
	var (
		configPath  string
		logPath     string
		extension   string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "path to the configuration file")
	flag.StringVar(&logPath, "log", "", "write the log to this file instead of standard error")
	flag.StringVar(&extension, "extension", "", "override the configured file extension")
	flag.BoolVar(&showVersion, "version", false, "show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "mcfuncls - language server for Minecraft function files\n\n")
		fmt.Fprintf(os.Stderr, "Speaks LSP over stdin/stdout; all logging goes to stderr or -log.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("mcfuncls %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	// Stdout carries the protocol, so the log goes anywhere but there.
	logOut := io.Writer(os.Stderr)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mcfuncls: open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logOut = f
	}
	logger := log.New(logOut, "", log.LstdFlags)

	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Printf("config: %v (using defaults)", err)
	}
	if extension != "" {
		cfg.Extension = config.NormalizeExtension(extension)
	}

	srv := lsp.NewServer(
		lsp.WithConfig(cfg),
		lsp.WithLogger(logger),
		lsp.WithVersion(version),
	)

	// Pick up config file edits while the server runs. The extension flag
	// keeps priority over the reloaded file.
	if configPath != "" {
		watcher := config.NewWatcher(configPath, func(c config.Config) {
			if extension != "" {
				c.Extension = config.NormalizeExtension(extension)
			}
			srv.SetConfig(c)
		})
		watcher.Start()
		defer watcher.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		logger.Printf("[%s] server: %v", srv.Session(), err)
		return 1
	}
	return 0
}
