package flowcore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/flowcore/flowcore/internal/pool"
)

// CoroutineMessageKind classifies a message flowing back from a coroutine
// worker on a submitted task.
type CoroutineMessageKind string

const (
	// CoroutineRequest is part of the public vocabulary only: Submit never
	// sends a message of this kind; its channel carries Progress, Response
	// and Error messages.
	CoroutineRequest CoroutineMessageKind = "request"
	// CoroutineResponse carries a task's successful final result.
	CoroutineResponse CoroutineMessageKind = "response"
	// CoroutineProgress carries an intermediate progress update a task
	// chose to report via CoroutineTaskContext.Report.
	CoroutineProgress CoroutineMessageKind = "progress"
	// CoroutineError carries a task's terminal failure (including a
	// recovered panic).
	CoroutineError CoroutineMessageKind = "error"
)

// CoroutineMessage is the wire shape every coroutine worker sends back to
// a task's caller: exactly one Response or Error per task, with zero or
// more Progress messages beforehand.
//
// Resolves the open question in SPEC_FULL.md §9 on the coroutine protocol's
// concrete shape: a tagged union over Kind rather than separate channels
// per message type, since a task may report any number of Progress
// messages before its single terminal Response/Error.
type CoroutineMessage struct {
	Kind    CoroutineMessageKind
	TaskID  uuid.UUID
	Payload any
	Err     error
}

// CoroutineTaskContext is handed to a coroutine task so it can report
// progress back through its message stream while still running.
type CoroutineTaskContext struct {
	ctx    context.Context
	taskID uuid.UUID
	out    chan<- CoroutineMessage
}

// Context returns the task's context.Context, carrying cancellation.
func (c *CoroutineTaskContext) Context() context.Context { return c.ctx }

// Report emits a Progress message carrying payload. It is best-effort: if
// the caller has stopped reading, Report drops the message rather than
// blocking the worker indefinitely.
func (c *CoroutineTaskContext) Report(payload any) {
	select {
	case c.out <- CoroutineMessage{Kind: CoroutineProgress, TaskID: c.taskID, Payload: payload}:
	default:
	}
}

// CoroutineTask is the unit of work a CoroutinePool executes: given a
// context, it computes a result or an error.
type CoroutineTask func(*CoroutineTaskContext) (any, error)

// coroutineWorker is the pool's poolable unit, grounded on the teacher's
// worker[R] (worker.go): execute one task, recover a panic into an error,
// and never let a task failure take down the worker itself.
type coroutineWorker struct{}

func (w *coroutineWorker) execute(taskCtx *CoroutineTaskContext, fn CoroutineTask) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s: coroutine task panicked: %v", Namespace, p)
		}
	}()
	return fn(taskCtx)
}

// CoroutinePool dispatches CoroutineTasks onto a pool of coroutineWorkers
// and streams their CoroutineMessages back to each Submit caller.
//
// Grounded on dispatcher.go (read the task queue, track inflight with a
// WaitGroup, execute via a pooled worker) plus lifecycle.go's Close
// sequence (cancel, wait inflight, then allow no more dispatch), merged
// into one type since CoroutinePool has no separate results/errors channel
// pair to coordinate the way the teacher's Workers[R] did — each Submit
// caller gets its own private message channel instead of sharing one.
// Draining on Close uses golang.org/x/sync/errgroup (the library the pack's
// getsops-sops and linkerd-linkerd2 both depend on for exactly this
// "wait for N goroutines, capture the first error" shape) in place of the
// teacher's hand-rolled WaitGroup+channel combination in lifecycle.go.
type CoroutinePool struct {
	cfg  CoroutinePoolConfig
	pool pool.Pool

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
	closeCh   chan struct{}

	eg *errgroup.Group
}

// NewCoroutinePool builds a CoroutinePool per cfg. A zero MaxWorkers means
// a dynamically sized pool (sync.Pool-backed); a positive MaxWorkers builds
// a fixed-capacity pool that blocks Submit once exhausted.
func NewCoroutinePool(cfg CoroutinePoolConfig) *CoroutinePool {
	cfg = cfg.withDefaults()

	newWorker := func() interface{} { return &coroutineWorker{} }

	var p pool.Pool
	if cfg.MaxWorkers > 0 {
		p = pool.NewFixed(cfg.MaxWorkers, newWorker)
	} else {
		p = pool.NewDynamic(newWorker)
	}

	eg := &errgroup.Group{}
	if cfg.MaxWorkers > 0 {
		eg.SetLimit(int(cfg.MaxWorkers))
	}

	return &CoroutinePool{
		cfg:     cfg,
		pool:    p,
		closeCh: make(chan struct{}),
		eg:      eg,
	}
}

// Submit dispatches fn to a worker and returns a channel of its
// CoroutineMessages: zero or more Progress, then exactly one Response or
// Error, after which the channel is closed. Submit after Close returns a
// channel that immediately yields a single Error(ErrPoolFinalized).
func (p *CoroutinePool) Submit(ctx context.Context, fn CoroutineTask) <-chan CoroutineMessage {
	out := make(chan CoroutineMessage, p.cfg.MessageBufferSize)
	taskID := uuid.New()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		out <- CoroutineMessage{Kind: CoroutineError, TaskID: taskID, Err: ErrPoolFinalized}
		close(out)
		return out
	}
	p.mu.Unlock()

	p.eg.Go(func() error {
		defer close(out)

		w := p.pool.Get().(*coroutineWorker)
		defer p.pool.Put(w)

		taskCtx := &CoroutineTaskContext{ctx: ctx, taskID: taskID, out: out}
		result, err := w.execute(taskCtx, fn)
		if err != nil {
			out <- CoroutineMessage{Kind: CoroutineError, TaskID: taskID, Err: err}
			return nil
		}
		out <- CoroutineMessage{Kind: CoroutineResponse, TaskID: taskID, Payload: result}
		return nil
	})

	return out
}

// Seize attempts to obtain a worker without blocking, bypassing the normal
// Submit queueing. It is meant for a caller that would rather fail fast
// (ErrWorkerSeized) than wait when the pool is a fixed, fully-checked-out
// size; a dynamic pool always succeeds since it never blocks. The returned
// release func must be called exactly once to return the worker.
func (p *CoroutinePool) Seize() (release func(), err error) {
	w, ok := p.pool.TryGet()
	if !ok {
		return nil, ErrWorkerSeized
	}
	return func() { p.pool.Put(w) }, nil
}

// Close stops accepting new Submits and waits for all dispatched tasks to
// finish (or their context to be canceled by the caller). Idempotent.
func (p *CoroutinePool) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.closeCh)
		err = p.eg.Wait()
	})
	return err
}
