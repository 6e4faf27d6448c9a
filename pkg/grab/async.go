package grab

import (
	"context"
	"sync"

	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/netgraph"
)

// AsyncRouter offloads grab planning to a worker goroutine while keeping all
// graph writes on the owning goroutine. The worker computes a plan proposal;
// the owner applies it. A single worker plans one job at a time and always
// picks the most recently submitted gesture, so a burst of drag events
// coalesces and only the newest proposal is ever delivered.
//
// The delivery callback runs on the worker goroutine. Callers that own the
// document from a different goroutine (the TUI event loop) must forward the
// result to that goroutine before pushing the command.
type AsyncRouter struct {
	router *Router

	mu      sync.Mutex
	cond    *sync.Cond
	gen     uint64
	pending *asyncJob
	current *asyncJob
	busy    bool
	started bool
	closed  bool
}

type asyncJob struct {
	gen      uint64
	ctx      context.Context
	cancel   context.CancelFunc
	selected map[netgraph.VertexID]bool
	tr       geom.Transform
	deliver  func(Result, error)
}

// NewAsyncRouter wraps r for asynchronous planning.
func NewAsyncRouter(r *Router) *AsyncRouter {
	a := &AsyncRouter{router: r}
	a.cond = sync.NewCond(&a.mu)
	return a
}

// Submit queues the gesture for planning, superseding any queued or running
// job. deliver is invoked exactly once unless a newer Submit, Cancel, or
// Close supersedes the job, in which case it is never invoked. Submit never
// blocks.
func (a *AsyncRouter) Submit(ctx context.Context, selected map[netgraph.VertexID]bool, tr geom.Transform, deliver func(Result, error)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.supersedeLocked()
	jobCtx, cancel := context.WithCancel(ctx)
	a.pending = &asyncJob{
		gen:      a.gen,
		ctx:      jobCtx,
		cancel:   cancel,
		selected: selected,
		tr:       tr,
		deliver:  deliver,
	}
	if !a.started {
		a.started = true
		go a.loop()
	}
	a.cond.Broadcast()
}

// Cancel discards any queued or running job and blocks until the worker is
// idle. On return no planning touches the graph, so the owner may mutate it
// freely. Call this before undo/redo or any other synchronous mutation.
func (a *AsyncRouter) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.supersedeLocked()
	for a.busy {
		a.cond.Wait()
	}
}

// Close cancels outstanding work and stops the worker.
func (a *AsyncRouter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.supersedeLocked()
	a.cond.Broadcast()
	for a.busy {
		a.cond.Wait()
	}
}

// supersedeLocked invalidates the queued and running jobs. Callers hold mu.
func (a *AsyncRouter) supersedeLocked() {
	a.gen++
	if a.pending != nil {
		a.pending.cancel()
		a.pending = nil
	}
	if a.current != nil {
		a.current.cancel()
	}
}

func (a *AsyncRouter) loop() {
	for {
		a.mu.Lock()
		for a.pending == nil && !a.closed {
			a.cond.Wait()
		}
		if a.closed {
			a.mu.Unlock()
			return
		}
		job := a.pending
		a.pending = nil
		a.current = job
		a.busy = true
		a.mu.Unlock()

		res, err := a.router.Plan(job.ctx, job.selected, job.tr)

		a.mu.Lock()
		a.current = nil
		a.busy = false
		// Delivery is atomic with the staleness check so a superseded
		// proposal can never slip out after a newer gesture started.
		// deliver must not call back into this AsyncRouter; forwarding to
		// a channel is the intended use.
		if job.gen == a.gen && job.ctx.Err() == nil {
			job.deliver(res, err)
		}
		job.cancel()
		a.cond.Broadcast()
		a.mu.Unlock()
	}
}
