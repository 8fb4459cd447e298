package processpool

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/FocusTorn/pae/internal/logging"
)

// ForwardSignals relays SIGINT and SIGTERM received by the host to every
// live child until ctx ends. onSignal, when set, is called after each relay.
func ForwardSignals(ctx context.Context, tracker *Tracker, onSignal func(os.Signal)) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-ch:
				logger := logging.FromContext(ctx)
				logger.Debug("forwarding signal", "signal", sig, "children", tracker.Len())
				if err := tracker.Signal(sig); err != nil {
					logger.Warn("forwarding signal failed", "signal", sig, "error", err)
				}
				if onSignal != nil {
					onSignal(sig)
				}
			}
		}
	}()
}
