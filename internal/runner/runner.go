// Package runner executes prover command lines with output size caps,
// environment directives, and an external wall-clock timeout.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/provelab/provebench/internal/tool"
)

// DefaultMaxOutput caps each captured stream when none is configured.
const DefaultMaxOutput = 1 << 20 // 1 MB

// Runner executes command lines produced by a tool adapter.
type Runner struct {
	Timeout   time.Duration // 0 = no external timeout
	MaxOutput int           // bytes per stream
}

// Run executes argv with the given environment directives. The first
// element is the executable path, the rest are arguments; no quoting
// or escaping is applied. A non-zero exit code or a terminating signal
// is reported in the Result, not as an error; an error means the
// process could not be started at all.
func (r *Runner) Run(ctx context.Context, argv []string, env tool.Environment) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty argv")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	maxOutput := r.MaxOutput
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutput
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = buildEnv(env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: maxOutput}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: maxOutput}

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	res := &Result{
		RunID:     uuid.New().String(),
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Truncated: stdout.Len() >= maxOutput || stderr.Len() >= maxOutput,
		Walltime:  elapsed,
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			// Binary not found or other exec error.
			return nil, fmt.Errorf("executing %s: %w", argv[0], runErr)
		}
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			res.Signal = int(ws.Signal())
		} else {
			res.ExitCode = exitErr.ExitCode()
		}
	}

	return res, nil
}

// buildEnv materialises environment directives into a process environ.
// An empty directive set means "inherit everything" (nil Env).
func buildEnv(env tool.Environment) []string {
	if len(env.KeepEnv) == 0 && len(env.NewEnv) == 0 && len(env.AdditionalEnv) == 0 {
		return nil
	}

	var environ []string
	if len(env.KeepEnv) > 0 {
		// Fresh environment carrying only the listed inherited
		// variables; directive values are ignored.
		for name := range env.KeepEnv {
			if v, ok := os.LookupEnv(name); ok {
				environ = append(environ, name+"="+v)
			}
		}
	} else {
		environ = os.Environ()
	}

	for name, v := range env.NewEnv {
		environ = setEnv(environ, name, v)
	}
	for name, suffix := range env.AdditionalEnv {
		// The suffix carries its own separator (e.g. ":/extra/bin").
		environ = setEnv(environ, name, os.Getenv(name)+suffix)
	}
	return environ
}

// setEnv replaces name's entry in environ, or appends one.
func setEnv(environ []string, name, value string) []string {
	prefix := name + "="
	for i, kv := range environ {
		if strings.HasPrefix(kv, prefix) {
			environ[i] = prefix + value
			return environ
		}
	}
	return append(environ, prefix+value)
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Write only what fits, but report all bytes as consumed
		// to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
