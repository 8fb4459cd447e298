package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/FocusTorn/pae/internal/core/domain/process"
)

// MockCommandRunner is a mock implementation of ports.CommandRunner.
// Requests are recorded in Calls.
type MockCommandRunner struct {
	RunFunc func(ctx context.Context, req process.Request) process.Result

	mu    sync.Mutex
	Calls []process.Request
}

// Run calls the mock RunFunc.
func (m *MockCommandRunner) Run(ctx context.Context, req process.Request) process.Result {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.mu.Unlock()
	if m.RunFunc != nil {
		return m.RunFunc(ctx, req)
	}
	return process.Result{ExitCode: 1, Reason: process.ReasonSpawnError, Err: errors.New("MockCommandRunner.RunFunc not implemented")}
}

// MockProcessPool is a mock implementation of ports.ProcessPool.
type MockProcessPool struct {
	ExecuteWithPoolFunc func(ctx context.Context, command string, args []string, opts process.Options) process.Result
	RunBatchFunc        func(ctx context.Context, reqs []process.Request) []process.Result
	MetricsFunc         func() process.Metrics
	ShutdownFunc        func(ctx context.Context) error

	mu      sync.Mutex
	Pooled  []process.Request
	Batches [][]process.Request
}

// ExecuteWithPool calls the mock ExecuteWithPoolFunc.
func (m *MockProcessPool) ExecuteWithPool(ctx context.Context, command string, args []string, opts process.Options) process.Result {
	m.mu.Lock()
	m.Pooled = append(m.Pooled, process.Request{Command: command, Args: args, Options: opts})
	m.mu.Unlock()
	if m.ExecuteWithPoolFunc != nil {
		return m.ExecuteWithPoolFunc(ctx, command, args, opts)
	}
	return process.Result{ExitCode: 1, Reason: process.ReasonSpawnError, Err: errors.New("MockProcessPool.ExecuteWithPoolFunc not implemented")}
}

// RunBatch calls the mock RunBatchFunc.
func (m *MockProcessPool) RunBatch(ctx context.Context, reqs []process.Request) []process.Result {
	m.mu.Lock()
	m.Batches = append(m.Batches, reqs)
	m.mu.Unlock()
	if m.RunBatchFunc != nil {
		return m.RunBatchFunc(ctx, reqs)
	}
	results := make([]process.Result, len(reqs))
	for i := range results {
		results[i] = process.Result{ExitCode: 1, Reason: process.ReasonSpawnError, Err: errors.New("MockProcessPool.RunBatchFunc not implemented")}
	}
	return results
}

// Metrics calls the mock MetricsFunc.
func (m *MockProcessPool) Metrics() process.Metrics {
	if m.MetricsFunc != nil {
		return m.MetricsFunc()
	}
	return process.Metrics{}
}

// Shutdown calls the mock ShutdownFunc.
func (m *MockProcessPool) Shutdown(ctx context.Context) error {
	if m.ShutdownFunc != nil {
		return m.ShutdownFunc(ctx)
	}
	return nil
}
