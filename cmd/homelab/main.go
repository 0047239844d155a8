package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "context":
		if len(os.Args) < 3 {
			contextUsage()
			os.Exit(1)
		}
		switch os.Args[2] {
		case "create":
			contextCreate(os.Args[3:])
		case "list", "ls":
			contextList()
		case "show":
			contextShow(os.Args[3:])
		case "use":
			contextUse(os.Args[3:])
		case "delete", "rm":
			contextDelete(os.Args[3:])
		case "current":
			contextCurrent()
		default:
			contextUsage()
			os.Exit(1)
		}
	case "deploy":
		cmdDeploy(os.Args[2:])
	case "monitor":
		cmdMonitor(os.Args[2:])
	case "jobs":
		cmdJobs(os.Args[2:])
	case "dns":
		cmdDNS(os.Args[2:])
	case "website":
		cmdWebsite(os.Args[2:])
	case "diag":
		cmdDiag(os.Args[2:])
	case "server":
		cmdServer(os.Args[2:])
	case "version":
		fmt.Println("homelab v0.1.0")
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: homelab <command>

Commands:
  deploy    Provision a home-lab component (network, vpn-gateway, nat-gateway)
  monitor   Poll a resource until it reaches a terminal provisioning state
  jobs      Inspect and clean up background jobs on a running server
  dns       Manage the private DNS zone
  website   Deploy static site content to a storage account
  diag      Show recent VPN gateway diagnostics
  server    Run the status API server
  context   Manage environment contexts
  version   Print version`)
}

func contextUsage() {
	fmt.Fprintln(os.Stderr, `Usage: homelab context <subcommand>

Subcommands:
  create   Create a new context
  list     List all contexts
  show     Show context details
  use      Set the active context
  delete   Delete a context
  current  Show the active context name`)
}

// newLogger builds the console logger every subcommand uses.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Str("component", "homelab").
		Logger()
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
