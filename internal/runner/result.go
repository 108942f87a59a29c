package runner

import "time"

// Result holds the outcome of a prover execution.
type Result struct {
	RunID     string        // unique identifier for this run
	ExitCode  int           // process exit code (0 when killed by a signal)
	Signal    int           // terminating signal, 0 if none
	Stdout    []byte        // captured stdout (may be truncated)
	Stderr    []byte        // captured stderr (may be truncated)
	Truncated bool          // true if output exceeded the size cap
	Walltime  time.Duration // wall-clock duration of the process
}
