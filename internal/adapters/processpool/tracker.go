package processpool

import (
	"errors"
	"os"
	"sort"
	"sync"

	"github.com/FocusTorn/pae/internal/adapters/oscommand"
)

// Tracker is the arena of live child processes, keyed by task ID.
type Tracker struct {
	mu    sync.Mutex
	procs map[string]*os.Process
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{procs: make(map[string]*os.Process)}
}

// Add registers p under id.
func (t *Tracker) Add(id string, p *os.Process) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.procs[id] = p
}

// Remove forgets the process registered under id.
func (t *Tracker) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.procs, id)
}

// Len returns the number of live processes.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.procs)
}

// IDs returns the IDs of the live processes in sorted order.
func (t *Tracker) IDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.procs))
	for id := range t.procs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Signal sends sig to every live process and returns the joined delivery
// errors. Processes that already exited are skipped silently.
func (t *Tracker) Signal(sig os.Signal) error {
	var errs []error
	for _, p := range t.snapshot() {
		if err := oscommand.Signal(p, sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// KillAll kills every live process.
func (t *Tracker) KillAll() error {
	var errs []error
	for _, p := range t.snapshot() {
		if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *Tracker) snapshot() []*os.Process {
	t.mu.Lock()
	defer t.mu.Unlock()
	procs := make([]*os.Process, 0, len(t.procs))
	for _, p := range t.procs {
		procs = append(procs, p)
	}
	return procs
}
