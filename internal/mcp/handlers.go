package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/provelab/provebench"
	"github.com/provelab/provebench/internal/bench"
	"github.com/provelab/provebench/internal/config"
	"github.com/provelab/provebench/internal/tool"
)

type runParams struct {
	File     string   `json:"file,omitempty" jsonschema:"Path to the TPTP problem file."`
	Walltime int      `json:"walltime,omitempty" jsonschema:"Wall-clock limit in seconds. 0 means unlimited."`
	Memory   string   `json:"memory,omitempty" jsonschema:"Memory ceiling, e.g. 2GiB or a byte count. Empty means the prover's default."`
	Options  []string `json:"options,omitempty" jsonschema:"Extra prover options, overriding the configured ones."`
}

func (h *handler) runHandler(ctx context.Context, req *sdkmcp.CallToolRequest, params runParams) (*sdkmcp.CallToolResult, any, error) {
	if params.File == "" {
		return errorResult("file is required")
	}

	eng, limits, err := h.applyOverrides(params.Walltime, params.Memory, params.Options)
	if err != nil {
		return errorResult(err.Error())
	}

	result, err := eng.RunTask(ctx, tool.Task{InputFiles: []string{params.File}}, limits)
	if err != nil {
		return errorResult(fmt.Sprintf("run failed: %v", err))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Verdict: %s\n", result.Verdict)
	fmt.Fprintf(&b, "SZS status: %s\n", result.SzsStatus)
	fmt.Fprintf(&b, "Exit code: %d", result.ExitCode)
	if result.Signal != 0 {
		fmt.Fprintf(&b, " (signal %d)", result.Signal)
	}
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Walltime: %.2fs\n", result.Walltime)
	fmt.Fprintf(&b, "Command: %s\n", strings.Join(result.Cmdline, " "))
	if result.Truncated {
		fmt.Fprintln(&b, "Note: prover output was truncated at the configured cap.")
	}
	return textResult(b.String())
}

type classifyParams struct {
	Output   string `json:"output" jsonschema:"Captured prover output, stdout first."`
	ExitCode int    `json:"exit_code,omitempty" jsonschema:"Process exit code. 0 means a clean exit."`
	Signal   int    `json:"signal,omitempty" jsonschema:"Terminating signal, if the process was killed."`
}

func (h *handler) classifyHandler(ctx context.Context, req *sdkmcp.CallToolRequest, params classifyParams) (*sdkmcp.CallToolResult, any, error) {
	run := tool.Run{
		ExitCode: params.ExitCode,
		Signal:   params.Signal,
		Output:   tool.OutputFromString(params.Output),
	}
	c := h.engine.Classify(run)

	var b strings.Builder
	fmt.Fprintf(&b, "Verdict: %s\n", c.Verdict)
	fmt.Fprintf(&b, "SZS status: %s\n", c.SzsStatus)
	return textResult(b.String())
}

type cmdlineParams struct {
	File     string   `json:"file,omitempty" jsonschema:"Path to the TPTP problem file. May be empty (prover reads stdin)."`
	Walltime int      `json:"walltime,omitempty" jsonschema:"Wall-clock limit in seconds. 0 means unlimited."`
	Memory   string   `json:"memory,omitempty" jsonschema:"Memory ceiling, e.g. 2GiB or a byte count."`
	Options  []string `json:"options,omitempty" jsonschema:"Extra prover options, overriding the configured ones."`
}

func (h *handler) cmdlineHandler(ctx context.Context, req *sdkmcp.CallToolRequest, params cmdlineParams) (*sdkmcp.CallToolResult, any, error) {
	eng, limits, err := h.applyOverrides(params.Walltime, params.Memory, params.Options)
	if err != nil {
		return errorResult(err.Error())
	}

	var task tool.Task
	if params.File != "" {
		task.InputFiles = []string{params.File}
	}

	argv, err := eng.Cmdline(task, limits)
	if err != nil {
		return errorResult(fmt.Sprintf("composing command line: %v", err))
	}
	return textResult(strings.Join(argv, " "))
}

type versionParams struct{}

func (h *handler) versionHandler(ctx context.Context, req *sdkmcp.CallToolRequest, _ versionParams) (*sdkmcp.CallToolResult, any, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "provebench %s\n", provebench.Version)

	v, err := h.engine.Version(ctx)
	if err != nil {
		fmt.Fprintf(&b, "%s: unavailable (%v)\n", h.engine.Tool.Name(), err)
	} else {
		fmt.Fprintf(&b, "%s %s\n", h.engine.Tool.Name(), v)
	}
	return textResult(b.String())
}

// applyOverrides derives per-call limits and options from the
// engine's configured defaults.
func (h *handler) applyOverrides(walltime int, memory string, options []string) (*bench.Engine, tool.ResourceLimits, error) {
	limits := h.engine.Limits()
	if walltime > 0 {
		limits.Walltime = walltime
	}
	if memory != "" {
		n, err := config.ParseSize(memory)
		if err != nil {
			return nil, limits, fmt.Errorf("invalid memory %q: %w", memory, err)
		}
		limits.Memory = n
	}

	eng := h.engine
	if len(options) > 0 {
		cfg := *eng.Config
		cfg.Options = options
		clone := *eng
		clone.Config = &cfg
		eng = &clone
	}
	return eng, limits, nil
}
