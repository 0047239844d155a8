package deploy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/JustAGhosT/home-lab-setup-sub006/config"
	"github.com/JustAGhosT/home-lab-setup-sub006/jobs"
)

// fakeInvoker records invocations and returns a canned result.
type fakeInvoker struct {
	mu       sync.Mutex
	calls    int
	lastSpec InvokeSpec
	result   Result
	err      error
	release  chan struct{} // when set, Run blocks until closed
}

func (f *fakeInvoker) Run(_ context.Context, spec InvokeSpec) (Result, error) {
	f.mu.Lock()
	f.calls++
	f.lastSpec = spec
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

func (f *fakeInvoker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	for _, c := range Components() {
		if err := os.WriteFile(filepath.Join(dir, c.TemplateFile()), []byte("// template"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return config.Config{
		ResourceGroup: "homelab-rg",
		Location:      "westeurope",
		Environment:   "test",
		Project:       "homelab",
		TemplateDir:   dir,
	}
}

func TestParseComponent(t *testing.T) {
	cases := []struct {
		in      string
		want    Component
		wantErr bool
	}{
		{"network", ComponentNetwork, false},
		{"vpn-gateway", ComponentVPNGateway, false},
		{"nat-gateway", ComponentNATGateway, false},
		{"firewall", 0, true},
		{"", 0, true},
		{"Network", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseComponent(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownComponent) {
				t.Errorf("ParseComponent(%q): want ErrUnknownComponent, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseComponent(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseComponent(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDispatcher_UnknownComponentNoInvocation(t *testing.T) {
	inv := &fakeInvoker{}
	registry := jobs.NewRegistry()
	runner := jobs.NewRunner(registry, nil, zerolog.Nop())
	d := NewDispatcher(testConfig(t), inv, runner, zerolog.Nop())

	_, err := d.Deploy(context.Background(), Component(99), nil)
	if !errors.Is(err, ErrUnknownComponent) {
		t.Fatalf("want ErrUnknownComponent, got %v", err)
	}

	_, err = d.DeployBackground(context.Background(), Component(99), nil)
	if !errors.Is(err, ErrUnknownComponent) {
		t.Fatalf("want ErrUnknownComponent, got %v", err)
	}

	if inv.callCount() != 0 {
		t.Fatalf("invoker was called %d times, want 0", inv.callCount())
	}
	if registry.Len() != 0 {
		t.Fatalf("registry has %d jobs, want 0", registry.Len())
	}
}

func TestDispatcher_MissingTemplate(t *testing.T) {
	inv := &fakeInvoker{}
	cfg := testConfig(t)
	cfg.TemplateDir = t.TempDir() // no templates here
	d := NewDispatcher(cfg, inv, nil, zerolog.Nop())

	_, err := d.Deploy(context.Background(), ComponentNetwork, nil)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("want ErrTemplateNotFound, got %v", err)
	}
	if inv.callCount() != 0 {
		t.Fatalf("invoker was called %d times, want 0", inv.callCount())
	}
}

func TestDispatcher_InlineSuccess(t *testing.T) {
	inv := &fakeInvoker{result: Result{ExitCode: 0, Output: "deployment ok"}}
	cfg := testConfig(t)
	d := NewDispatcher(cfg, inv, nil, zerolog.Nop())

	params := NewParamSet(cfg).With("addressSpace", "10.0.0.0/16")
	res, err := d.Deploy(context.Background(), ComponentNetwork, params)
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if res.Output != "deployment ok" {
		t.Fatalf("output = %q", res.Output)
	}
	if inv.callCount() != 1 {
		t.Fatalf("invoker was called %d times, want 1", inv.callCount())
	}

	spec := inv.lastSpec
	if spec.Executable != "az" {
		t.Errorf("executable = %q, want az", spec.Executable)
	}
	found := false
	for _, arg := range spec.Args {
		if arg == "addressSpace=10.0.0.0/16" {
			found = true
		}
	}
	if !found {
		t.Errorf("parameters missing from args: %v", spec.Args)
	}
}

func TestDispatcher_InlineFailure(t *testing.T) {
	inv := &fakeInvoker{result: Result{ExitCode: 1, Output: "boom"}}
	d := NewDispatcher(testConfig(t), inv, nil, zerolog.Nop())

	res, err := d.Deploy(context.Background(), ComponentNATGateway, nil)
	if err == nil {
		t.Fatal("want error for non-zero exit")
	}
	if res.Output != "boom" {
		t.Fatalf("output = %q, want captured text", res.Output)
	}
}

func TestDispatcher_Background(t *testing.T) {
	release := make(chan struct{})
	inv := &fakeInvoker{result: Result{ExitCode: 0, Output: "gateway up"}, release: release}
	registry := jobs.NewRegistry()
	runner := jobs.NewRunner(registry, nil, zerolog.Nop())
	d := NewDispatcher(testConfig(t), inv, runner, zerolog.Nop())

	job, err := d.DeployBackground(context.Background(), ComponentVPNGateway, nil)
	if err != nil {
		t.Fatalf("DeployBackground: %v", err)
	}

	// The call must not have blocked on the invocation.
	if st := job.State(); st != jobs.StateQueued && st != jobs.StateRunning {
		t.Fatalf("initial state = %v, want queued or running", st)
	}

	close(release)
	select {
	case <-job.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for job")
	}

	if job.State() != jobs.StateCompleted {
		t.Fatalf("state = %v, want completed", job.State())
	}
	if job.Output() != "gateway up" {
		t.Fatalf("output = %q", job.Output())
	}
	if _, ok := registry.Get(job.ID()); !ok {
		t.Fatal("job missing from registry")
	}
}

func TestDispatcher_BackgroundFailure(t *testing.T) {
	inv := &fakeInvoker{result: Result{ExitCode: 2, Output: "quota exceeded"}}
	registry := jobs.NewRegistry()
	runner := jobs.NewRunner(registry, nil, zerolog.Nop())
	d := NewDispatcher(testConfig(t), inv, runner, zerolog.Nop())

	job, err := d.DeployBackground(context.Background(), ComponentNetwork, nil)
	if err != nil {
		t.Fatalf("DeployBackground: %v", err)
	}

	select {
	case <-job.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for job")
	}

	if job.State() != jobs.StateFailed {
		t.Fatalf("state = %v, want failed", job.State())
	}
	if job.Output() == "" {
		t.Fatal("captured output is empty")
	}
}

func TestParamSet(t *testing.T) {
	cfg := config.Config{
		ResourceGroup: "rg",
		Location:      "westeurope",
		Environment:   "dev",
		Project:       "homelab",
	}
	ps := NewParamSet(cfg)

	extended := ps.With("extra", "1")
	if len(ps) == len(extended) {
		t.Fatal("With must not mutate the original set")
	}

	args := extended.Args()
	want := []string{"environment=dev", "location=westeurope", "project=homelab", "resourceGroup=rg", "extra=1"}
	if len(args) != len(want) {
		t.Fatalf("args = %v", args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}
