package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// contextConfig is one saved environment: a set of HOMELAB_* env vars plus
// an optional default server address for remote commands.
type contextConfig struct {
	ServerAddr string            `json:"server_addr,omitempty"`
	Env        map[string]string `json:"env"`
}

// multiFlag collects repeated --set KEY=VALUE flags.
type multiFlag []string

func (f *multiFlag) String() string { return strings.Join(*f, ", ") }
func (f *multiFlag) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func contextCreate(args []string) {
	fs := flag.NewFlagSet("context create", flag.ExitOnError)
	serverAddr := fs.String("server-addr", "", "status API address (e.g. http://localhost:8480)")
	var sets multiFlag
	fs.Var(&sets, "set", "set env var as KEY=VALUE (repeatable)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: homelab context create <name> [--server-addr ADDR] [--set KEY=VALUE ...]")
		os.Exit(1)
	}
	name := fs.Arg(0)

	env := make(map[string]string)
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		if !ok {
			fatal("invalid --set value %q (expected KEY=VALUE)", s)
		}
		env[k] = v
	}

	cfg := contextConfig{ServerAddr: *serverAddr, Env: env}

	dir := contextDir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fatal("%v", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		fatal("%v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644); err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Context %q created\n", name)
}

func contextList() {
	entries, err := os.ReadDir(contextsDir())
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No contexts configured.")
			return
		}
		fatal("%v", err)
	}

	current := readCurrentContext()
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		marker := "  "
		if name == current {
			marker = "* "
		}
		fmt.Println(marker + name)
	}
}

func contextShow(args []string) {
	name := readCurrentContext()
	if len(args) > 0 {
		name = args[0]
	}
	if name == "" {
		fatal("no context selected")
	}
	cfg, err := loadContextConfig(name)
	if err != nil {
		fatal("%v", err)
	}
	data, _ := json.MarshalIndent(cfg, "", "  ")
	fmt.Println(string(data))
}

func contextUse(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: homelab context use <name>")
		os.Exit(1)
	}
	name := args[0]
	if _, err := loadContextConfig(name); err != nil {
		fatal("%v", err)
	}
	if err := os.MkdirAll(homelabDir(), 0o755); err != nil {
		fatal("%v", err)
	}
	if err := os.WriteFile(currentContextFile(), []byte(name+"\n"), 0o644); err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Switched to context %q\n", name)
}

func contextDelete(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: homelab context delete <name>")
		os.Exit(1)
	}
	name := args[0]
	if err := os.RemoveAll(contextDir(name)); err != nil {
		fatal("%v", err)
	}
	if readCurrentContext() == name {
		os.Remove(currentContextFile())
	}
	fmt.Printf("Context %q deleted\n", name)
}

func contextCurrent() {
	name := readCurrentContext()
	if name == "" {
		fmt.Println("No context selected.")
		return
	}
	fmt.Println(name)
}

func readCurrentContext() string {
	data, err := os.ReadFile(currentContextFile())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func loadContextConfig(name string) (contextConfig, error) {
	var cfg contextConfig
	data, err := os.ReadFile(filepath.Join(contextDir(name), "config.json"))
	if err != nil {
		return cfg, fmt.Errorf("context %q: %w", name, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("context %q: %w", name, err)
	}
	return cfg, nil
}

// applyContext exports the active context's env vars so config.FromEnv
// picks them up. Explicitly set process env always wins.
func applyContext() contextConfig {
	name := readCurrentContext()
	if name == "" {
		return contextConfig{}
	}
	cfg, err := loadContextConfig(name)
	if err != nil {
		return contextConfig{}
	}
	for k, v := range cfg.Env {
		if os.Getenv(k) == "" {
			os.Setenv(k, v)
		}
	}
	return cfg
}
