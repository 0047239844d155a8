package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"
)

const defaultServerAddr = "http://localhost:8480"

type jobStatus struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	State      string     `json:"state"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	DurationMS int64      `json:"duration_ms,omitempty"`
	Output     string     `json:"output,omitempty"`
}

func cmdJobs(args []string) {
	if len(args) < 1 {
		jobsUsage()
		os.Exit(1)
	}
	sub := args[0]

	fs := flag.NewFlagSet("jobs "+sub, flag.ExitOnError)
	serverAddr := fs.String("server", "", "status API address")
	nameFilter := fs.String("name", "", "filter jobs by name substring")
	fs.Parse(args[1:])

	ctxCfg := applyContext()
	addr := *serverAddr
	if addr == "" {
		addr = ctxCfg.ServerAddr
	}
	if addr == "" {
		addr = defaultServerAddr
	}
	client := newAPIClient(addr)

	switch sub {
	case "list", "ls":
		var statuses []jobStatus
		path := "/api/v1/jobs"
		if *nameFilter != "" {
			path += "?name=" + url.QueryEscape(*nameFilter)
		}
		if err := client.get(path, &statuses); err != nil {
			fatal("%v", err)
		}
		if len(statuses) == 0 {
			fmt.Println("No jobs.")
			return
		}
		fmt.Printf("%-32s  %-30s  %-10s  %s\n", "ID", "NAME", "STATE", "DURATION")
		for _, st := range statuses {
			fmt.Printf("%-32s  %-30s  %-10s  %s\n",
				st.ID, st.Name, st.State, (time.Duration(st.DurationMS) * time.Millisecond).String())
		}
	case "show":
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "Usage: homelab jobs show <id>")
			os.Exit(1)
		}
		var st jobStatus
		if err := client.get("/api/v1/jobs/"+fs.Arg(0), &st); err != nil {
			fatal("%v", err)
		}
		data, _ := json.MarshalIndent(st, "", "  ")
		fmt.Println(string(data))
	case "cleanup":
		var resp struct {
			Removed int `json:"removed"`
		}
		if err := client.delete("/api/v1/jobs", &resp); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Removed %d finished job(s)\n", resp.Removed)
	default:
		jobsUsage()
		os.Exit(1)
	}
}

func jobsUsage() {
	fmt.Fprintln(os.Stderr, `Usage: homelab jobs <subcommand>

Subcommands:
  list     List background jobs
  show     Show one job, including captured output
  cleanup  Remove finished jobs from the registry`)
}
