package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentdock/agentdock"
	"github.com/agentdock/agentdock/serve"
)

// serveCmd starts the agent management API server.
func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8080", "HTTP listen address")
	dbPath := fs.String("db", ".agentdock.db", "SQLite transcript database path")
	configFile := fs.String("config", "", "Optional YAML config file")
	image := fs.String("image", "", "Agent container image override")

	fs.Usage = func() {
		fmt.Println(`Usage: agentdock serve [options]

Start the REST API for creating, inspecting, chatting with, and
deleting containerized agents.

The upstream AI backend is read from AZURE_OPENAI_ENDPOINT and
AZURE_OPENAI_API_KEY (a .env file in the working directory is loaded
if present). The server starts without them, but agent creation fails
until both are set.

Options:`)
		fs.PrintDefaults()
		fmt.Println(`
Examples:
  agentdock serve
  agentdock serve --addr :8080
  agentdock serve --config agentdock.yaml --db /tmp/agentdock.db`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := agentdock.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if !cfg.BackendConfigured() {
		fmt.Fprintln(os.Stderr, "Warning: AI backend not configured")
		fmt.Fprintln(os.Stderr, "Set AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY to enable agent creation")
	}

	var opts []agentdock.Option
	if *image != "" {
		opts = append(opts, agentdock.WithImage(*image))
	}

	mgr, err := agentdock.New(cfg, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating manager: %v\n", err)
		os.Exit(1)
	}
	defer mgr.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := serve.New(mgr, serve.Config{Addr: *addr, DBPath: *dbPath})
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
