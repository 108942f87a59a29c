// Package vampire adapts the Vampire automated theorem prover
// (https://github.com/vprover/vampire) to the harness tool contract.
package vampire

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/provelab/provebench/internal/tool"
)

// ErrTooManyInputFiles is returned by Cmdline when a task carries more
// than one input file; Vampire accepts a single problem file.
var ErrTooManyInputFiles = errors.New("vampire: only one input file supported")

// SZS status values Vampire emits, grouped by what they establish.
var (
	szsUnsat = []string{"ContradictoryAxioms", "Theorem", "Unsatisfiable"}
	szsSat   = []string{"CounterSatisfiable", "Satisfiable"}
)

const (
	szsPrefix    = "% SZS status"
	reasonPrefix = "% Termination reason: "
)

// Tool implements tool.Info for Vampire.
type Tool struct{}

func (Tool) Name() string {
	return "Vampire"
}

func (Tool) Executable(locator tool.Locator) (string, error) {
	return locator.FindExecutable("vampire")
}

// Version extracts the version number from Vampire's banner line,
// e.g. "Vampire 4.8 (commit ...)" yields "4.8".
func (Tool) Version(ctx context.Context, executable string, fromTool tool.VersionFunc) (string, error) {
	line, err := fromTool(ctx, executable, "Vampire")
	if err != nil {
		return "", fmt.Errorf("reading vampire version: %w", err)
	}
	line = strings.TrimSpace(line)
	return strings.TrimSpace(strings.SplitN(line, " ", 2)[0]), nil
}

// Environment keeps TPTP from the ambient environment so Vampire can
// locate its axiom library. Nothing else is set or modified.
func (Tool) Environment(executable string) tool.Environment {
	return tool.Environment{KeepEnv: map[string]string{"TPTP": ""}}
}

// Cmdline composes the argv: executable, then options, then the input
// file. Time and memory limits are appended only when the caller has
// not already supplied them.
func (Tool) Cmdline(executable string, options []string, task tool.Task, limits tool.ResourceLimits) ([]string, error) {
	if len(task.InputFiles) > 1 {
		return nil, ErrTooManyInputFiles
	}

	opts := make([]string, len(options), len(options)+4)
	copy(opts, options)

	if !slices.Contains(options, "-t") && !slices.Contains(options, "--time_limit") {
		if limits.Walltime == 0 {
			// Vampire's own default is 60s; 0 means unlimited.
			opts = append(opts, "-t", "0")
		} else {
			opts = append(opts, "-t", fmt.Sprintf("%ds", limits.Walltime))
		}
	}

	if !slices.Contains(options, "-m") && !slices.Contains(options, "--memory_limit") {
		if limits.Memory > 0 {
			// --memory_limit takes whole MiB.
			opts = append(opts, "-m", strconv.FormatInt(limits.Memory/(1024*1024), 10))
		}
		// No ceiling requested: Vampire falls back to its built-in
		// default (currently 3000 MB).
	}

	argv := append([]string{executable}, opts...)
	return append(argv, task.InputFiles...), nil
}

// DetermineResult maps exit status and output onto a harness verdict.
func (t Tool) DetermineResult(run tool.Run) string {
	status := t.szsStatus(run.Output)

	if run.Abnormal() {
		if status == "Timeout" {
			return tool.ResultTimeout
		}
		if run.ExitCode == 4 && strings.HasPrefix(run.Output.Text(), "Parsing error") {
			return "Parsing error"
		}
		if run.ExitCode == 1 {
			// Exit 1 means Vampire was unable to finish, not a crash.
			reasons := t.terminationReasons(run.Output)
			if len(reasons) == 1 {
				switch reasons[0] {
				case "Time limit":
					return tool.ResultTimeout
				case "Refutation not found, incomplete strategy",
					"Refutation not found, non-redundant clauses discarded":
					return "Incomplete"
				}
			}
		}
		return tool.ResultError
	}

	switch {
	case slices.Contains(szsUnsat, status):
		return tool.ResultTrueProp
	case slices.Contains(szsSat, status):
		return tool.ResultFalseProp
	default:
		return tool.ResultUnknown
	}
}

// GetValueFromOutput extracts a statistic value for result tables.
// Only "szs-status" is recognised today; other identifiers are an
// extension point and yield "".
func (t Tool) GetValueFromOutput(output tool.Output, identifier string) string {
	if identifier == "szs-status" {
		if s := t.szsStatus(output); s != "" {
			return s
		}
		return "--"
	}
	return ""
}

// szsStatus returns the unique SZS status token from the output.
// The status is the 4th whitespace-delimited token of a line starting
// with "% SZS status". No status line, a malformed line, or more than
// one status line all yield "" — an ambiguous status is no status.
func (Tool) szsStatus(output tool.Output) string {
	status := ""
	matches := 0
	for _, line := range output {
		if !strings.HasPrefix(line, szsPrefix) {
			continue
		}
		matches++
		if matches > 1 {
			return ""
		}
		if words := strings.Fields(line); len(words) >= 4 {
			status = words[3]
		}
	}
	return status
}

// terminationReasons collects the remainders of all lines starting
// with "% Termination reason: ", in encounter order.
func (Tool) terminationReasons(output tool.Output) []string {
	var reasons []string
	for _, line := range output {
		if strings.HasPrefix(line, reasonPrefix) {
			reasons = append(reasons, strings.TrimPrefix(line, reasonPrefix))
		}
	}
	return reasons
}
