package cmd

import (
	"fmt"
	"os"
)

// knownSubcommands is the set of CLI subcommands that bypass the server.
var knownSubcommands = map[string]bool{
	"render":   true,
	"validate": true,
	"identity": true,
	"config":   true,
	"version":  true,
	"help":     true,
}

// IsSubcommand returns true if the argument is a known CLI subcommand.
func IsSubcommand(arg string) bool {
	return knownSubcommands[arg]
}

// Execute dispatches to the appropriate CLI subcommand handler.
func Execute(args []string) {
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "render":
		renderCmd(args[1:])
	case "validate":
		validateCmd(args[1:])
	case "identity":
		identityCmd(args[1:])
	case "config":
		configCmd(args[1:])
	case "version":
		fmt.Println("ssdash v0.1.0")
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ssdash - Serial Studio dashboard generator

Usage:
  ssdash                         Serve all dashboards (default)
  ssdash --dashboard NAME        Serve a single dashboard
  ssdash render FILE             Render a dashboard file to a framed document
  ssdash validate FILE           Validate a dashboard file
  ssdash identity <cmd>          Manage source credentials
  ssdash config <cmd>            Manage configuration
  ssdash version                 Show version
  ssdash help                    Show this help

Render:
  ssdash render [--telemetry FILE] [--pretty] [-o FILE] DASHBOARD.toml

Identity Commands:
  ssdash identity list           List all credential profiles
  ssdash identity add            Add a profile (interactive)
  ssdash identity remove NAME    Remove a profile

Config Commands:
  ssdash config path             Show config directory path
  ssdash config init             Write a default config and example dashboard`)
}
