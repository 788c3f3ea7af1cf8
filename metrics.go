package cancellation

import "sync/atomic"

// Metrics is a hand-rolled set of lock-free counters tracking task lifecycle
// events, in the same style as eventloop/metrics.go. It carries no
// dependency on any particular metrics backend; see PrometheusMetrics for an
// optional exporter built on top of it.
//
// Tasks record their terminations from Task.Poll, which only ever reports
// Finished or Cancelled. The ExecutorShutdown status is delivered by a
// finalizer that does not touch Metrics, so TasksExecutorShutdown stays zero
// unless recordTermination is called with that status directly.
type Metrics struct {
	tasksStarted          atomic.Int64
	tasksFinished         atomic.Int64
	tasksCancelled        atomic.Int64
	tasksExecutorShutdown atomic.Int64
	guardsHeld            atomic.Int64
	guardsHeldMax         atomic.Int64
}

// NewMetrics returns a fresh, zeroed Metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) recordStart() {
	if m == nil {
		return
	}
	m.tasksStarted.Add(1)
}

func (m *Metrics) recordTermination(status TerminationStatus) {
	if m == nil {
		return
	}
	switch status {
	case StatusFinished:
		m.tasksFinished.Add(1)
	case StatusCancelled:
		m.tasksCancelled.Add(1)
	case StatusExecutorShutdown:
		m.tasksExecutorShutdown.Add(1)
	}
}

func (m *Metrics) recordGuardEnter() {
	if m == nil {
		return
	}
	v := m.guardsHeld.Add(1)
	for {
		max := m.guardsHeldMax.Load()
		if v <= max || m.guardsHeldMax.CompareAndSwap(max, v) {
			return
		}
	}
}

func (m *Metrics) recordGuardExit() {
	if m == nil {
		return
	}
	m.guardsHeld.Add(-1)
}

// Snapshot is a point-in-time read of a Metrics collector's counters.
type Snapshot struct {
	TasksStarted          int64
	TasksFinished         int64
	TasksCancelled        int64
	TasksExecutorShutdown int64
	GuardsHeld            int64
	GuardsHeldMax         int64
}

// Snapshot reads the current values of every counter.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		TasksStarted:          m.tasksStarted.Load(),
		TasksFinished:         m.tasksFinished.Load(),
		TasksCancelled:        m.tasksCancelled.Load(),
		TasksExecutorShutdown: m.tasksExecutorShutdown.Load(),
		GuardsHeld:            m.guardsHeld.Load(),
		GuardsHeldMax:         m.guardsHeldMax.Load(),
	}
}
