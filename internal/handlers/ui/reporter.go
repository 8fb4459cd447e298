/*
Package ui renders everything pae shows the user: prefixed messages on
stderr, echoed commands on stdout and alias tables.
*/
package ui

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/FocusTorn/pae/internal/core/domain/command"
	"github.com/FocusTorn/pae/internal/core/ports"
)

// Prefix starts every message pae writes to stderr.
const Prefix = "pae:"

// Reporter implements ports.Reporter on a pair of writers.
type Reporter struct {
	out    io.Writer
	errOut io.Writer
	getenv func(string) string
}

var _ ports.Reporter = (*Reporter)(nil)

// NewReporter creates a Reporter writing lines to out and messages to errOut.
func NewReporter(out, errOut io.Writer) *Reporter {
	return &Reporter{out: out, errOut: errOut, getenv: os.Getenv}
}

// NewStdReporter creates a Reporter on the process's standard streams.
func NewStdReporter() *Reporter {
	return NewReporter(os.Stdout, os.Stderr)
}

func (r *Reporter) Info(msg string) {
	fmt.Fprintln(r.errOut, InfoColor(Prefix), msg)
}

func (r *Reporter) Warn(msg string) {
	fmt.Fprintln(r.errOut, WarningColor(Prefix), msg)
}

// stackTracer is an error that carries the stack it was raised on.
type stackTracer interface {
	StackTrace() []byte
}

// Error prints err. When PAE_DEBUG is set and err carries a stack, such as a
// recovered panic, the stack follows.
func (r *Reporter) Error(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(r.errOut, ErrorColor(Prefix), err.Error())
	if !r.debugging() {
		return
	}
	var st stackTracer
	if errors.As(err, &st) && len(st.StackTrace()) > 0 {
		fmt.Fprint(r.errOut, DetailColor(string(st.StackTrace())))
	}
}

func (r *Reporter) Print(line string) {
	fmt.Fprintln(r.out, line)
}

// Out is the writer Print uses.
func (r *Reporter) Out() io.Writer {
	return r.out
}

func (r *Reporter) debugging() bool {
	switch r.getenv(command.EnvDebug) {
	case "", "0", "false":
		return false
	}
	return true
}
