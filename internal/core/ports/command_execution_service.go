package ports

import "context"

// CommandExecutionService turns raw alias argv into a finished process and
// returns the exit code for the host to exit with.
type CommandExecutionService interface {
	Execute(ctx context.Context, argv []string) int
}
