package main

import (
	"flag"

	"github.com/JustAGhosT/home-lab-setup-sub006/azure"
	"github.com/JustAGhosT/home-lab-setup-sub006/config"
	"github.com/JustAGhosT/home-lab-setup-sub006/deploy"
	"github.com/JustAGhosT/home-lab-setup-sub006/jobs"
	"github.com/JustAGhosT/home-lab-setup-sub006/monitor"
	"github.com/JustAGhosT/home-lab-setup-sub006/server"
)

func cmdServer(args []string) {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	addr := fs.String("addr", ":8480", "listen address")
	logLevel := fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.Parse(args)

	applyContext()
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}

	logger := newLogger(*logLevel)

	registry := jobs.NewRegistry()
	bus := jobs.NewEventBus()
	runner := jobs.NewRunner(registry, bus, logger)
	dispatcher := deploy.NewDispatcher(cfg, &deploy.CLIInvoker{Logger: logger}, runner, logger)

	var poller *monitor.Poller
	clients, err := azure.NewClients(cfg.SubscriptionID, cfg.EndpointURL)
	if err != nil {
		logger.Warn().Err(err).Msg("state querier unavailable, monitoring endpoints disabled")
	} else {
		poller = monitor.NewPoller(clients, monitor.RealClock, logger)
	}

	srv := server.New(cfg, dispatcher, registry, runner, bus, poller, logger)
	if err := srv.ListenAndServe(*addr); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
