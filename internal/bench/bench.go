// Package bench wires the prover adapter, locator, runner, and config
// into single-shot benchmark task execution. It is consumed by both
// the MCP server and the CLI commands.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/provelab/provebench/internal/config"
	"github.com/provelab/provebench/internal/runner"
	"github.com/provelab/provebench/internal/tool"
)

// ProcessRunner executes a command line under environment directives.
// Implemented by runner.Runner.
type ProcessRunner interface {
	Run(ctx context.Context, argv []string, env tool.Environment) (*runner.Result, error)
}

// Engine holds shared dependencies for all benchmark operations.
type Engine struct {
	Config  *config.Config
	Runner  ProcessRunner
	Locator tool.Locator
	Tool    tool.Info
}

// TaskResult is the structured outcome of one benchmark run.
type TaskResult struct {
	RunID     string   `json:"run_id"`
	Cmdline   []string `json:"cmdline"`
	Verdict   string   `json:"verdict"`
	SzsStatus string   `json:"szs_status,omitempty"`
	ExitCode  int      `json:"exit_code"`
	Signal    int      `json:"signal,omitempty"`
	Walltime  float64  `json:"walltime_s"`
	Truncated bool     `json:"truncated,omitempty"`
}

// Classification is the outcome of classifying an existing transcript.
type Classification struct {
	Verdict   string `json:"verdict"`
	SzsStatus string `json:"szs_status,omitempty"`
}

// Limits returns the configured resource limits as defaults for a run.
func (e *Engine) Limits() tool.ResourceLimits {
	return tool.ResourceLimits{
		Walltime: e.Config.Walltime,
		Memory:   e.Config.Memory(),
	}
}

// Cmdline resolves the tool and composes the argv for a task without
// executing anything.
func (e *Engine) Cmdline(task tool.Task, limits tool.ResourceLimits) ([]string, error) {
	executable, err := e.Tool.Executable(e.Locator)
	if err != nil {
		return nil, err
	}
	return e.Tool.Cmdline(executable, e.Config.Options, task, limits)
}

// RunTask executes one benchmark task end to end: resolve, compose,
// run, classify. No retries; the run's outcome is whatever the single
// invocation produced.
func (e *Engine) RunTask(ctx context.Context, task tool.Task, limits tool.ResourceLimits) (*TaskResult, error) {
	argv, err := e.Cmdline(task, limits)
	if err != nil {
		return nil, err
	}

	res, err := e.Runner.Run(ctx, argv, e.Tool.Environment(argv[0]))
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", e.Tool.Name(), err)
	}

	run := runToClassify(res)
	return &TaskResult{
		RunID:     res.RunID,
		Cmdline:   argv,
		Verdict:   e.Tool.DetermineResult(run),
		SzsStatus: e.Tool.GetValueFromOutput(run.Output, "szs-status"),
		ExitCode:  res.ExitCode,
		Signal:    res.Signal,
		Walltime:  res.Walltime.Seconds(),
		Truncated: res.Truncated,
	}, nil
}

// Classify maps an already-completed run onto a verdict. It is pure
// and requires neither the prover nor the runner.
func (e *Engine) Classify(run tool.Run) *Classification {
	return &Classification{
		Verdict:   e.Tool.DetermineResult(run),
		SzsStatus: e.Tool.GetValueFromOutput(run.Output, "szs-status"),
	}
}

// Version resolves the tool and extracts its version string.
func (e *Engine) Version(ctx context.Context) (string, error) {
	executable, err := e.Tool.Executable(e.Locator)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.Tool.Version(ctx, executable, runner.FirstLineWithPrefix)
}

// runToClassify assembles the classification input from a runner
// result. Stdout lines come first, then stderr.
func runToClassify(res *runner.Result) tool.Run {
	output := tool.OutputFromBytes(res.Stdout)
	output = append(output, tool.OutputFromBytes(res.Stderr)...)
	return tool.Run{
		ExitCode: res.ExitCode,
		Signal:   res.Signal,
		Output:   output,
	}
}
