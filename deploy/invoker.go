package deploy

import (
	"context"
	"errors"
	"os/exec"

	"github.com/rs/zerolog"
)

// InvokeSpec describes one external provisioning invocation.
type InvokeSpec struct {
	Executable string
	Args       []string
	Dir        string
}

// Result is the outcome of one invocation. A non-zero exit code is a
// deployment failure, not an invoker error; Output carries the combined
// stdout/stderr either way.
type Result struct {
	ExitCode int
	Output   string
}

// Invoker runs an external provisioning command. Implementations make
// exactly one attempt per call.
type Invoker interface {
	Run(ctx context.Context, spec InvokeSpec) (Result, error)
}

// CLIInvoker shells out to the Azure CLI (or any compatible tool).
type CLIInvoker struct {
	Logger zerolog.Logger
}

// Run executes the command and captures its combined output. An error is
// returned only when the process could not be started or was interrupted;
// a clean non-zero exit is reported through Result.ExitCode.
func (i *CLIInvoker) Run(ctx context.Context, spec InvokeSpec) (Result, error) {
	i.Logger.Debug().Str("exe", spec.Executable).Strs("args", spec.Args).Msg("invoking provisioning command")

	cmd := exec.CommandContext(ctx, spec.Executable, spec.Args...)
	cmd.Dir = spec.Dir
	out, err := cmd.CombinedOutput()
	res := Result{Output: string(out)}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}
