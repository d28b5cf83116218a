// Package main provides the agentdock CLI.
package main

import (
	"fmt"
	"os"
)

var (
	version = "dev"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "serve":
		serveCmd(args)
	case "version":
		fmt.Printf("agentdock %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`agentdock - containerized chat agent manager

Usage:
  agentdock <command> [options]

Commands:
  serve     Start the agent management API server
  version   Print version information
  help      Show this help message

Examples:
  agentdock serve
  agentdock serve --addr :8080 --db agentdock.db

Run 'agentdock <command> --help' for more information on a command.`)
}
