package runner

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// FirstLineWithPrefix runs `executable --version` and returns the first
// output line starting with prefix, with the prefix removed. It
// satisfies tool.VersionFunc. An executable that prints no matching
// line is reported as an error (not runnable, or unexpected banner).
func FirstLineWithPrefix(ctx context.Context, executable, prefix string) (string, error) {
	cmd := exec.CommandContext(ctx, executable, "--version")
	out, err := cmd.CombinedOutput()
	if err != nil && len(out) == 0 {
		return "", fmt.Errorf("running %s --version: %w", executable, err)
	}

	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimPrefix(line, prefix), nil
		}
	}
	return "", fmt.Errorf("%s --version printed no line starting with %q", executable, prefix)
}
