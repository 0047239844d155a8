package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/JustAGhosT/home-lab-setup-sub006/azure"
	"github.com/JustAGhosT/home-lab-setup-sub006/config"
	"github.com/JustAGhosT/home-lab-setup-sub006/diag"
)

func cmdDiag(args []string) {
	fs := flag.NewFlagSet("diag", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Log Analytics workspace ID (default from config)")
	since := fs.Duration("since", time.Hour, "how far back to query")
	logLevel := fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: homelab diag <gateway-name> [--workspace ID] [--since 1h]")
		os.Exit(1)
	}
	gateway := fs.Arg(0)

	applyContext()
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}
	if *workspace == "" {
		*workspace = cfg.LogAnalyticsWorkspace
	}
	if *workspace == "" {
		fatal("no workspace configured; pass --workspace or set HOMELAB_LOG_ANALYTICS_WORKSPACE")
	}

	logger := newLogger(*logLevel)
	clients, err := azure.NewClients(cfg.SubscriptionID, cfg.EndpointURL)
	if err != nil {
		fatal("%v", err)
	}

	rows, err := diag.NewClient(clients.Logs, logger).GatewayLogs(context.Background(), *workspace, gateway, *since)
	if err != nil {
		fatal("%v", err)
	}
	if len(rows) == 0 {
		fmt.Println("No diagnostic events.")
		return
	}
	for _, row := range rows {
		fmt.Printf("%s  %-24s  %s\n", row.Time, row.Category, row.Message)
	}
}
