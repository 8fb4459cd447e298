package processpool

import (
	"sync"

	"github.com/FocusTorn/pae/internal/core/domain/process"
)

// metrics holds the pool counters. They are never consulted for control
// decisions.
type metrics struct {
	mutex sync.RWMutex
	m     process.Metrics
}

func (pm *metrics) queued(delta int64) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	pm.m.QueueDepth += delta
}

func (pm *metrics) started() {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	pm.m.TasksStarted++
	pm.m.Running++
	if pm.m.Running > pm.m.PeakConcurrency {
		pm.m.PeakConcurrency = pm.m.Running
	}
}

func (pm *metrics) finished(reason process.Reason) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	pm.m.Running--
	switch reason {
	case process.ReasonCompleted:
		pm.m.TasksCompleted++
	case process.ReasonTimeout:
		pm.m.TasksTimedOut++
		pm.m.TasksFailed++
	default:
		pm.m.TasksFailed++
	}
}

func (pm *metrics) rejected() {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	pm.m.TasksRejected++
}

func (pm *metrics) snapshot() process.Metrics {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()
	return pm.m
}
