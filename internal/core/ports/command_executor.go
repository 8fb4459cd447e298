package ports

import (
	"context"

	"github.com/FocusTorn/pae/internal/core/domain/process"
)

// CommandRunner spawns a single process and waits for it. It is used for
// package, feature and not-nx aliases, which are never pooled.
type CommandRunner interface {
	Run(ctx context.Context, req process.Request) process.Result
}

/*
ProcessPool bounds the number of concurrently running child processes.
Every method resolves to a process.Result; failures are reported in the
result rather than as errors.
*/
type ProcessPool interface {
	ExecuteWithPool(ctx context.Context, command string, args []string, opts process.Options) process.Result
	RunBatch(ctx context.Context, reqs []process.Request) []process.Result
	Metrics() process.Metrics
	Shutdown(ctx context.Context) error
}
