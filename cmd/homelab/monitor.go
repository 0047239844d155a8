package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JustAGhosT/home-lab-setup-sub006/azure"
	"github.com/JustAGhosT/home-lab-setup-sub006/config"
	"github.com/JustAGhosT/home-lab-setup-sub006/deploy"
	"github.com/JustAGhosT/home-lab-setup-sub006/jobs"
	"github.com/JustAGhosT/home-lab-setup-sub006/monitor"
)

func cmdMonitor(args []string) {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	interval := fs.Duration("interval", 0, "poll interval (default from config, 30s)")
	timeout := fs.Duration("timeout", 0, "overall timeout (default from config, 45m)")
	desired := fs.String("desired", "", "desired terminal state (default Succeeded)")
	rg := fs.String("rg", "", "resource group (default from config)")
	logPath := fs.String("log", "", "session log file (default under the log dir)")
	logLevel := fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: homelab monitor <network|vpn-gateway|nat-gateway> <resource-name> [flags]")
		os.Exit(1)
	}

	component, err := deploy.ParseComponent(fs.Arg(0))
	if err != nil {
		fatal("%v", err)
	}
	resourceName := fs.Arg(1)

	applyContext()
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}

	logger := newLogger(*logLevel)
	clients, err := azure.NewClients(cfg.SubscriptionID, cfg.EndpointURL)
	if err != nil {
		fatal("%v", err)
	}

	sess := monitor.Session{
		ResourceGroup: cfg.ResourceGroup,
		Component:     component,
		ResourceName:  resourceName,
		DesiredState:  *desired,
		PollInterval:  cfg.PollInterval,
		Timeout:       cfg.Timeout,
		LogPath:       *logPath,
	}
	if *rg != "" {
		sess.ResourceGroup = *rg
	}
	if *interval > 0 {
		sess.PollInterval = *interval
	}
	if *timeout > 0 {
		sess.Timeout = *timeout
	}
	if sess.LogPath == "" {
		sess.LogPath = filepath.Join(cfg.LogDir,
			fmt.Sprintf("monitor-%s-%s-%s.log", component, resourceName, jobs.GenerateSuffix()))
	}

	poller := monitor.NewPoller(clients, monitor.RealClock, logger)
	outcome, err := poller.Run(context.Background(), sess)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("%s %s: %s after %s (%d ticks, last observed %q)\n",
		component, resourceName, outcome.State,
		outcome.Elapsed.Round(time.Second), outcome.Ticks, outcome.LastObserved)
	fmt.Printf("log: %s\n", sess.LogPath)

	if outcome.State != monitor.StateSucceeded {
		os.Exit(1)
	}
}
