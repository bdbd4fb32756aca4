// Package dispatch provides the bounded worker pool used for campaign fan-out.
package dispatch

import (
	"log"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tasksStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_tasks_started_total",
			Help: "Total number of dispatch tasks submitted to the pool",
		},
		[]string{"task"},
	)

	tasksCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_tasks_completed_total",
			Help: "Total number of dispatch tasks that ran to completion",
		},
		[]string{"task"},
	)

	tasksPanicked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_tasks_panicked_total",
			Help: "Total number of dispatch tasks that panicked",
		},
		[]string{"task"},
	)

	tasksInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dispatch_tasks_in_flight",
			Help: "Number of dispatch tasks currently running",
		},
	)
)

// Pool bounds the number of concurrently running dispatch tasks. Each
// per-customer unit of work is independent; the pool only limits how many run
// at once, it never orders them.
type Pool struct {
	slots  chan struct{}
	wg     sync.WaitGroup
	logger *log.Logger
}

// NewPool creates a pool running at most size tasks concurrently.
func NewPool(size int, logger *log.Logger) *Pool {
	if size <= 0 {
		size = 8
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Pool{
		slots:  make(chan struct{}, size),
		logger: logger,
	}
}

// Submit schedules a detached task. It returns immediately; the task acquires
// a pool slot in its own goroutine, so callers are never blocked by a full
// pool. Panics are recovered and counted, not propagated.
func (p *Pool) Submit(task string, fn func()) {
	tasksStarted.WithLabelValues(task).Inc()
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()

		p.slots <- struct{}{}
		defer func() { <-p.slots }()

		tasksInFlight.Inc()
		defer tasksInFlight.Dec()

		defer func() {
			if r := recover(); r != nil {
				tasksPanicked.WithLabelValues(task).Inc()
				p.logger.Printf("dispatch: task %s panicked: %v", task, r)
				return
			}
			tasksCompleted.WithLabelValues(task).Inc()
		}()

		fn()
	}()
}

// Wait blocks until every submitted task has finished. Used on shutdown and
// in tests; request handlers never call it.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Group tracks a set of related tasks so a caller can wait for just those.
// The dispatch pipeline uses one group per launch for the log-creation phase:
// the response may not return before all log rows exist, while vendor sends
// stay detached.
type Group struct {
	pool *Pool
	wg   sync.WaitGroup
}

// Group creates a task group backed by this pool.
func (p *Pool) Group() *Group {
	return &Group{pool: p}
}

// Go schedules a task tracked by the group.
func (g *Group) Go(task string, fn func()) {
	g.wg.Add(1)
	g.pool.Submit(task, func() {
		defer g.wg.Done()
		fn()
	})
}

// Wait blocks until every task scheduled through the group has finished.
func (g *Group) Wait() {
	g.wg.Wait()
}
