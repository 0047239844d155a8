package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/JustAGhosT/home-lab-setup-sub006/azure"
	"github.com/JustAGhosT/home-lab-setup-sub006/config"
	"github.com/JustAGhosT/home-lab-setup-sub006/dns"
)

func cmdDNS(args []string) {
	if len(args) < 1 {
		dnsUsage()
		os.Exit(1)
	}
	sub := args[0]

	fs := flag.NewFlagSet("dns "+sub, flag.ExitOnError)
	zone := fs.String("zone", "", "DNS zone name (default from config)")
	recordType := fs.String("type", "A", "record type (A, CNAME, TXT)")
	ttl := fs.Int64("ttl", 0, "record TTL in seconds (default 3600)")
	logLevel := fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.Parse(args[1:])

	applyContext()
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}
	if *zone == "" {
		*zone = cfg.DNSZone
	}
	if *zone == "" {
		fatal("no DNS zone configured; pass --zone or set HOMELAB_DNS_ZONE")
	}

	logger := newLogger(*logLevel)
	clients, err := azure.NewClients(cfg.SubscriptionID, cfg.EndpointURL)
	if err != nil {
		fatal("%v", err)
	}
	manager := dns.NewManager(clients, cfg.ResourceGroup, logger)
	ctx := context.Background()

	switch sub {
	case "ensure-zone":
		if err := manager.EnsureZone(ctx, *zone); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Zone %s ready\n", *zone)
	case "set":
		if fs.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: homelab dns set <name> <value> [--type A] [--ttl 3600]")
			os.Exit(1)
		}
		rt, err := dns.ParseRecordType(*recordType)
		if err != nil {
			fatal("%v", err)
		}
		if err := manager.SetRecord(ctx, *zone, fs.Arg(0), rt, fs.Arg(1), *ttl); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("%s %s.%s -> %s\n", rt, fs.Arg(0), *zone, fs.Arg(1))
	case "delete", "rm":
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "Usage: homelab dns delete <name> [--type A]")
			os.Exit(1)
		}
		rt, err := dns.ParseRecordType(*recordType)
		if err != nil {
			fatal("%v", err)
		}
		if err := manager.DeleteRecord(ctx, *zone, fs.Arg(0), rt); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Deleted %s %s.%s\n", rt, fs.Arg(0), *zone)
	case "list", "ls":
		records, err := manager.ListRecords(ctx, *zone)
		if err != nil {
			fatal("%v", err)
		}
		if len(records) == 0 {
			fmt.Println("No records.")
			return
		}
		fmt.Printf("%-30s  %-6s  %-6s  %s\n", "NAME", "TYPE", "TTL", "VALUE")
		for _, rec := range records {
			fmt.Printf("%-30s  %-6s  %-6d  %s\n", rec.Name, rec.Type, rec.TTL, rec.Value)
		}
	default:
		dnsUsage()
		os.Exit(1)
	}
}

func dnsUsage() {
	fmt.Fprintln(os.Stderr, `Usage: homelab dns <subcommand>

Subcommands:
  ensure-zone  Create the private zone if missing
  set          Create or replace a record
  delete       Delete a record
  list         List zone records`)
}
