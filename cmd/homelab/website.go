package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/JustAGhosT/home-lab-setup-sub006/azure"
	"github.com/JustAGhosT/home-lab-setup-sub006/config"
	"github.com/JustAGhosT/home-lab-setup-sub006/website"
)

func cmdWebsite(args []string) {
	fs := flag.NewFlagSet("website", flag.ExitOnError)
	account := fs.String("account", "", "storage account name (default from config)")
	ensure := fs.Bool("ensure", false, "create the storage account first")
	logLevel := fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: homelab website <content-dir> [--account NAME] [--ensure]")
		os.Exit(1)
	}
	dir := fs.Arg(0)

	applyContext()
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}
	if *account == "" {
		*account = cfg.StorageAccount
	}
	if *account == "" {
		fatal("no storage account configured; pass --account or set HOMELAB_STORAGE_ACCOUNT")
	}

	logger := newLogger(*logLevel)
	clients, err := azure.NewClients(cfg.SubscriptionID, cfg.EndpointURL)
	if err != nil {
		fatal("%v", err)
	}
	deployer := website.NewDeployer(clients, cfg, logger)
	ctx := context.Background()

	if *ensure {
		if err := deployer.EnsureAccount(ctx, *account); err != nil {
			fatal("%v", err)
		}
	}

	count, err := deployer.Upload(ctx, *account, dir)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Uploaded %d file(s) to %s/$web\n", count, *account)
}
