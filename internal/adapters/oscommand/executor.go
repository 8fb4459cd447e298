/*
Package oscommand spawns child processes for the tool. Executor runs one
request to completion, classifying how it ended; it is used directly for
package aliases and as the spawner behind the process pool.
*/
package oscommand

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"

	"github.com/FocusTorn/pae/internal/core/domain/process"
	"github.com/FocusTorn/pae/internal/core/ports"
	"github.com/FocusTorn/pae/internal/logging"
)

// DefaultGrace is how long a terminated child may take to exit before it is killed.
const DefaultGrace = 5 * time.Second

// Tracker records live children so signals can be forwarded to them.
type Tracker interface {
	Add(id string, p *os.Process)
	Remove(id string)
}

// Executor implements ports.CommandRunner on top of os/exec.
type Executor struct {
	tracker Tracker
	grace   time.Duration
}

// NewExecutor creates a new Executor. tracker may be nil; grace of zero
// means DefaultGrace.
func NewExecutor(tracker Tracker, grace time.Duration) *Executor {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Executor{tracker: tracker, grace: grace}
}

var _ ports.CommandRunner = (*Executor)(nil)

// Run spawns req under a fresh task ID and waits for it.
func (e *Executor) Run(ctx context.Context, req process.Request) process.Result {
	return e.Exec(ctx, uuid.NewString(), req)
}

/*
Exec spawns req and waits for it. A positive Options.Timeout bounds the run:
on expiry the child is sent a termination signal and killed after the grace
period. Failures are classified into the result; Exec never returns an error.
*/
func (e *Executor) Exec(ctx context.Context, id string, req process.Request) process.Result {
	started := time.Now()
	result := process.Result{TaskID: id}
	logger := logging.FromContext(ctx).With("task", id)

	runCtx := ctx
	if req.Options.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, req.Options.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, req.Command, req.Args...)
	cmd.Dir = req.Options.Dir
	if len(req.Options.Env) > 0 {
		cmd.Env = append(os.Environ(), req.Options.Env...)
	}
	cmd.WaitDelay = e.grace
	cmd.Cancel = func() error { return terminate(cmd) }

	var outBuf, errBuf bytes.Buffer
	switch req.Options.Stdio {
	case process.StdioPipe:
		cmd.Stdout = &outBuf
		cmd.Stderr = &errBuf
		configureProcAttr(cmd)
	default:
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		result.ExitCode = 1
		result.Reason = process.ReasonSpawnError
		result.Err = fmt.Errorf("%w: %q: %w", process.ErrSpawn, req.Command, err)
		result.Duration = time.Since(started)
		return result
	}
	logger.Debug("process started", "pid", cmd.Process.Pid, "command", req.Command)

	if e.tracker != nil {
		e.tracker.Add(id, cmd.Process)
		defer e.tracker.Remove(id)
	}

	err := cmd.Wait()
	result.Duration = time.Since(started)
	result.Stdout = outBuf.String()
	result.Stderr = errBuf.String()
	classify(&result, err, cmd, ctx, runCtx, req.Options.Timeout)

	logger.Debug("process finished", "reason", result.Reason, "exitCode", result.ExitCode, "duration", result.Duration)
	return result
}

func classify(result *process.Result, err error, cmd *exec.Cmd, parent, run context.Context, timeout time.Duration) {
	if parent.Err() == nil && errors.Is(run.Err(), context.DeadlineExceeded) {
		result.ExitCode = process.TimeoutExitCode
		result.Reason = process.ReasonTimeout
		result.Err = fmt.Errorf("%w after %s", process.ErrTimeout, timeout)
		return
	}

	if err == nil || (errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success()) {
		result.ExitCode = 0
		result.Reason = process.ReasonCompleted
		return
	}

	code := 1
	if cmd.ProcessState != nil && cmd.ProcessState.ExitCode() > 0 {
		code = cmd.ProcessState.ExitCode()
	} else if parent.Err() != nil {
		code = process.InterruptExitCode
	}
	result.ExitCode = code
	result.Reason = process.ReasonNonZeroExit
	result.Err = fmt.Errorf("%w: %w", &process.NonZeroExitError{Code: code}, err)
}
