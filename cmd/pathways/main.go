// Pathways is a transfer-counseling chat service.
//
// It exposes a single chat endpoint backed by an LLM completion engine
// and a set of transfer-data lookup tools. Configuration is loaded from
// a YAML file discovered automatically (see [config.DefaultSearchPaths]).
//
// Usage:
//
//	pathways serve       Start the API server
//	pathways version     Print version and build information
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pathwaysai/pathways/internal/agent"
	"github.com/pathwaysai/pathways/internal/api"
	"github.com/pathwaysai/pathways/internal/buildinfo"
	"github.com/pathwaysai/pathways/internal/config"
	"github.com/pathwaysai/pathways/internal/llm"
	"github.com/pathwaysai/pathways/internal/tools"
)

// main is intentionally minimal. It constructs the OS-level environment
// (context, stdio, argv) and delegates immediately to [run] so the full
// startup-to-shutdown lifecycle can be driven from tests.
func main() {
	ctx := context.Background()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// run is the real entry point. Arguments are parsed by hand: the flag
// package relies on package-level globals, which makes run impossible to
// call concurrently from tests, and the argument surface here is small.
func run(ctx context.Context, stdout io.Writer, stderr io.Writer, args []string) error {
	var configPath string
	var command string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-config" && i+1 < len(args):
			configPath = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-config="):
			configPath = strings.TrimPrefix(args[i], "-config=")
		case args[i] == "-h" || args[i] == "-help" || args[i] == "--help":
			return printUsage(stdout)
		case !strings.HasPrefix(args[i], "-") && command == "":
			command = args[i]
		default:
			return fmt.Errorf("unknown argument: %s", args[i])
		}
	}

	switch command {
	case "", "serve":
		return serve(ctx, stdout, configPath)
	case "version":
		return printVersion(stdout)
	case "help":
		return printUsage(stdout)
	default:
		return fmt.Errorf("unknown command: %s (try: pathways help)", command)
	}
}

// serve loads configuration, wires the loop, and runs the API server
// until the context is cancelled or the server fails.
func serve(ctx context.Context, stdout io.Writer, configPath string) error {
	cfg, err := loadConfig(configPath, stdout)
	if err != nil {
		return err
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: config.ReplaceLogLevelNames,
	}))
	logger.Info("starting", "build", buildinfo.String())

	engine := llm.NewEngine(cfg.Engine, logger)
	dispatcher := tools.NewDispatcher(cfg.Tools, logger)
	loop := agent.NewLoop(engine, dispatcher, logger, cfg.Agent.MaxIterations)
	server := api.NewServer(cfg.Listen.Address, cfg.Listen.Port, loop, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), api.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// loadConfig resolves and loads the config file, falling back to
// defaults when no file exists anywhere in the search path.
func loadConfig(configPath string, stdout io.Writer) (*config.Config, error) {
	path, err := config.FindConfig(configPath)
	if err != nil {
		if configPath != "" {
			return nil, err
		}
		fmt.Fprintln(stdout, "no config file found, using defaults")
		return config.Default(), nil
	}
	return config.Load(path)
}

func printVersion(stdout io.Writer) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(buildinfo.Info())
}

func printUsage(stdout io.Writer) error {
	fmt.Fprint(stdout, `Pathways: transfer counseling chat service

Usage:
  pathways [flags] <command>

Commands:
  serve       Start the API server (default)
  version     Print version and build information
  help        Show this help

Flags:
  -config <path>   Explicit config file location
`)
	return nil
}
