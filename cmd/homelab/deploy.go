package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/JustAGhosT/home-lab-setup-sub006/config"
	"github.com/JustAGhosT/home-lab-setup-sub006/deploy"
)

func cmdDeploy(args []string) {
	fs := flag.NewFlagSet("deploy", flag.ExitOnError)
	background := fs.Bool("background", false, "dispatch as a background job (requires --server)")
	serverAddr := fs.String("server", "", "dispatch via a running status API server")
	logLevel := fs.String("log-level", "info", "log level (debug, info, warn, error)")
	var params multiFlag
	fs.Var(&params, "param", "extra deployment parameter as KEY=VALUE (repeatable)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: homelab deploy <network|vpn-gateway|nat-gateway> [--background] [--server ADDR] [--param KEY=VALUE ...]")
		os.Exit(1)
	}
	componentName := fs.Arg(0)

	ctxCfg := applyContext()
	if *serverAddr == "" {
		*serverAddr = ctxCfg.ServerAddr
	}

	extra := make(map[string]string)
	for _, s := range params {
		k, v, ok := strings.Cut(s, "=")
		if !ok {
			fatal("invalid --param value %q (expected KEY=VALUE)", s)
		}
		extra[k] = v
	}

	if *serverAddr != "" {
		deployRemote(*serverAddr, componentName, *background, extra)
		return
	}

	if *background {
		fatal("background dispatch needs a running server; pass --server or set server_addr in the context")
	}

	component, err := deploy.ParseComponent(componentName)
	if err != nil {
		fatal("%v", err)
	}

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}

	logger := newLogger(*logLevel)
	dispatcher := deploy.NewDispatcher(cfg, &deploy.CLIInvoker{Logger: logger}, nil, logger)

	ps := deploy.NewParamSet(cfg)
	for k, v := range extra {
		ps = ps.With(k, v)
	}

	res, err := dispatcher.Deploy(context.Background(), component, ps)
	if res.Output != "" {
		fmt.Println(res.Output)
	}
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("%s deployed\n", component)
}

func deployRemote(addr, component string, background bool, params map[string]string) {
	client := newAPIClient(addr)
	req := map[string]any{
		"component":  component,
		"background": background,
	}
	if len(params) > 0 {
		req["parameters"] = params
	}

	if background {
		var job struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			State string `json:"state"`
		}
		if err := client.post("/api/v1/deploy", req, &job); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Job %s (%s) dispatched: %s\n", job.ID, job.Name, job.State)
		return
	}

	var resp struct {
		Success bool   `json:"success"`
		Output  string `json:"output"`
		Error   string `json:"error"`
	}
	if err := client.post("/api/v1/deploy", req, &resp); err != nil {
		fatal("%v", err)
	}
	if resp.Output != "" {
		fmt.Println(resp.Output)
	}
	if !resp.Success {
		fatal("%s", resp.Error)
	}
	fmt.Printf("%s deployed\n", component)
}
