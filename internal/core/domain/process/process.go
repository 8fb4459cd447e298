/*
Package process defines the value types exchanged with the process pool:
execution requests, their options and the results they resolve to.
*/
package process

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout applies when a request carries no explicit timeout.
const DefaultTimeout = 300000 * time.Millisecond

// TimeoutExitCode is reported for tasks killed after exceeding their timeout.
const TimeoutExitCode = 124

// InterruptExitCode is reported when the host was interrupted.
const InterruptExitCode = 130

var (
	// ErrTimeout marks a task that exceeded its timeout.
	ErrTimeout = errors.New("process timed out")
	// ErrSpawn marks a task whose process could not be started.
	ErrSpawn = errors.New("process could not be spawned")
	// ErrRejected marks a task dropped because the pool is shutting down.
	ErrRejected = errors.New("process pool is shutting down")
)

// NonZeroExitError is returned for a process that ran and exited with a
// non-zero status.
type NonZeroExitError struct {
	Code int
}

func (e *NonZeroExitError) Error() string {
	return fmt.Sprintf("process exited with code %d", e.Code)
}

// Stdio selects how a child's standard streams are wired.
type Stdio int

const (
	// StdioInherit connects the child to the host's terminal.
	StdioInherit Stdio = iota
	// StdioPipe captures stdout and stderr into the result.
	StdioPipe
)

// Options tune a single execution.
type Options struct {
	Dir     string
	Timeout time.Duration
	Stdio   Stdio
	Env     []string
}

// Request is one command submitted for execution.
type Request struct {
	Command string
	Args    []string
	Options Options
}

// Reason classifies how a task ended.
type Reason string

const (
	ReasonCompleted   Reason = "completed"
	ReasonNonZeroExit Reason = "non-zero-exit"
	ReasonTimeout     Reason = "timeout"
	ReasonSpawnError  Reason = "spawn-error"
	ReasonRejected    Reason = "rejected"
)

// Result is what every execution resolves to, failure included.
type Result struct {
	TaskID   string
	ExitCode int
	Reason   Reason
	Err      error
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Failed reports whether the task did not complete with exit code 0.
func (r Result) Failed() bool {
	return r.Reason != ReasonCompleted
}

// Metrics is a read-only snapshot of pool counters.
type Metrics struct {
	TasksStarted    int64
	TasksCompleted  int64
	TasksFailed     int64
	TasksTimedOut   int64
	TasksRejected   int64
	PeakConcurrency int64
	Running         int64
	QueueDepth      int64
}
