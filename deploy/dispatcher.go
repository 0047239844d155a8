package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/JustAGhosT/home-lab-setup-sub006/config"
	"github.com/JustAGhosT/home-lab-setup-sub006/jobs"
)

// ErrTemplateNotFound is returned when a component's deployment template is
// missing. No invocation is attempted in that case.
var ErrTemplateNotFound = errors.New("deployment template not found")

// Dispatcher turns a component and parameter set into a provisioning
// invocation. It performs a single attempt per call and never retries;
// sequencing dependent deployments is the caller's job.
type Dispatcher struct {
	cfg     config.Config
	invoker Invoker
	runner  *jobs.Runner
	logger  zerolog.Logger
}

// NewDispatcher creates a dispatcher. The runner may be nil when background
// dispatch is not needed.
func NewDispatcher(cfg config.Config, invoker Invoker, runner *jobs.Runner, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{cfg: cfg, invoker: invoker, runner: runner, logger: logger}
}

// Deploy provisions a component inline, blocking until the invocation
// returns. A non-zero exit surfaces as an error carrying the captured output.
func (d *Dispatcher) Deploy(ctx context.Context, component Component, params ParamSet) (Result, error) {
	spec, err := d.invokeSpec(component, params)
	if err != nil {
		return Result{}, err
	}

	d.logger.Info().Str("component", component.String()).Msg("deploying inline")
	res, err := d.invoker.Run(ctx, spec)
	if err != nil {
		return res, fmt.Errorf("deploy %s: %w", component, err)
	}
	if res.ExitCode != 0 {
		return res, fmt.Errorf("deploy %s: exit code %d", component, res.ExitCode)
	}
	return res, nil
}

// DeployBackground provisions a component as a background unit and returns
// its job handle immediately. Configuration errors (unknown component,
// missing template) fail fast before any job is created.
func (d *Dispatcher) DeployBackground(ctx context.Context, component Component, params ParamSet) (*jobs.Job, error) {
	if d.runner == nil {
		return nil, errors.New("background dispatch requires a job runner")
	}
	spec, err := d.invokeSpec(component, params)
	if err != nil {
		return nil, err
	}

	d.logger.Info().Str("component", component.String()).Msg("deploying in background")
	job := d.runner.Start(ctx, "deploy-"+component.String(), func(ctx context.Context) (string, error) {
		res, err := d.invoker.Run(ctx, spec)
		if err != nil {
			return res.Output, err
		}
		if res.ExitCode != 0 {
			return res.Output, fmt.Errorf("exit code %d", res.ExitCode)
		}
		return res.Output, nil
	})
	return job, nil
}

// invokeSpec validates the request and renders the CLI invocation. It is the
// single fail-fast gate: nothing past this point is reached for an unknown
// component or a missing template.
func (d *Dispatcher) invokeSpec(component Component, params ParamSet) (InvokeSpec, error) {
	if !component.Valid() {
		return InvokeSpec{}, fmt.Errorf("%w: %s", ErrUnknownComponent, component)
	}

	template := filepath.Join(d.cfg.TemplateDir, component.TemplateFile())
	if _, err := os.Stat(template); err != nil {
		return InvokeSpec{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, template)
	}

	args := []string{
		"deployment", "group", "create",
		"--resource-group", d.cfg.ResourceGroup,
		"--template-file", template,
		"--output", "json",
	}
	if len(params) > 0 {
		args = append(args, "--parameters")
		args = append(args, params.Args()...)
	}
	return InvokeSpec{Executable: "az", Args: args, Dir: d.cfg.TemplateDir}, nil
}
