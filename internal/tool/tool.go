// Package tool defines the contract between the benchmarking harness
// and a concrete prover adapter, plus the value types that cross it.
package tool

import (
	"context"
	"fmt"
	"os/exec"
)

// Harness verdicts produced by DetermineResult. Adapters may
// additionally return ad-hoc informational strings (for example
// "Parsing error"), which are shown verbatim to the user.
const (
	ResultTrueProp  = "true"
	ResultFalseProp = "false"
	ResultUnknown   = "unknown"
	ResultError     = "ERROR"
	ResultTimeout   = "TIMEOUT"
	ResultDone      = "done"
)

// Task describes a single benchmark input. Metadata is passed through
// to the adapter unmodified and uninterpreted.
type Task struct {
	InputFiles []string
	Metadata   map[string]string
}

// ResourceLimits carries the limits requested for one run. Zero values
// mean the limit was not requested.
type ResourceLimits struct {
	Walltime int   // seconds
	Memory   int64 // bytes
}

// Environment declares how the run's process environment is derived
// from the ambient one. KeepEnv selects inherited variables to keep
// (a fresh environment containing only those; values are ignored),
// NewEnv sets variables, AdditionalEnv appends to inherited values
// (the value must carry its own separator).
type Environment struct {
	KeepEnv       map[string]string
	NewEnv        map[string]string
	AdditionalEnv map[string]string
}

// Run is the completed execution an adapter classifies.
type Run struct {
	ExitCode int
	Signal   int // terminating signal, 0 if none
	Output   Output
}

// Abnormal reports whether the process failed to exit cleanly.
func (r Run) Abnormal() bool {
	return r.ExitCode != 0 || r.Signal != 0
}

// Locator resolves a logical tool name to an executable path.
type Locator interface {
	FindExecutable(name string) (string, error)
}

// PathLocator resolves tools on the system PATH.
type PathLocator struct{}

func (PathLocator) FindExecutable(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("locating %s: %w", name, err)
	}
	return path, nil
}

// VersionFunc runs an executable and returns the first output line
// starting with prefix, with the prefix stripped. It is supplied by
// the harness; see runner.FirstLineWithPrefix.
type VersionFunc func(ctx context.Context, executable, prefix string) (string, error)

// Info is implemented by every concrete prover adapter.
type Info interface {
	// Name returns the human-readable tool name.
	Name() string

	// Executable resolves the tool binary via the supplied locator.
	// Locator failures are propagated unchanged.
	Executable(locator Locator) (string, error)

	// Version extracts the tool version using the supplied primitive.
	Version(ctx context.Context, executable string, fromTool VersionFunc) (string, error)

	// Environment declares environment directives for the run.
	Environment(executable string) Environment

	// Cmdline composes the argv to execute from the executable path,
	// user options, task, and resource limits.
	Cmdline(executable string, options []string, task Task, limits ResourceLimits) ([]string, error)

	// DetermineResult classifies a completed run into a verdict.
	DetermineResult(run Run) string

	// GetValueFromOutput extracts a statistic value for result tables.
	// It must work as a pure text scan, without the tool installed.
	GetValueFromOutput(output Output, identifier string) string
}
