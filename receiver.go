package flowcore

import (
	"fmt"
	"sync"
)

// Receiver is the consumer handler trio a Stream or Subject delivers
// emissions to. Each handler is optional; nil handlers are treated as
// no-ops. next/error/complete may block briefly (e.g. to drain a channel)
// but should not depend on being called from the scheduler's goroutine.
type Receiver[T any] struct {
	Next     func(T) error
	Error    func(error)
	Complete func()
}

// StrictReceiver wraps a Receiver so that, once a terminal (Complete or
// Error) has been committed, all further deliveries are no-ops, and a
// panic/error raised by Next is folded into a single Error+Complete pair.
// Obtain one with wrap(); the zero value is not usable.
type StrictReceiver[T any] struct {
	inner     Receiver[T]
	completed *bool
	mu        *sync.Mutex
}

// Completed reports whether this receiver has already observed a terminal.
func (r *StrictReceiver[T]) Completed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.completed
}

// wrap returns a StrictReceiver implementing §4.3 of the runtime contract:
//  1. ignore calls after a terminal has committed,
//  2. deliver Next synchronously inside an emission context (ambient stamp
//     bound) and via the scheduler otherwise,
//  3. fold a Next failure into Error, swallowing secondary failures,
//  4. invoke Complete exactly once after Error (error-implies-complete).
//
// This mirrors the teacher's worker.execute(): recover a failure, forward
// it to a single outward channel, and never let a secondary failure
// escape, generalized here from "channel send" to "receiver callback".
func wrap[T any](recv Receiver[T]) *StrictReceiver[T] {
	completed := new(bool)
	return &StrictReceiver[T]{
		inner:     recv,
		completed: completed,
		mu:        new(sync.Mutex),
	}
}

func (r *StrictReceiver[T]) deliverNext(sched *Scheduler, v T) {
	r.mu.Lock()
	if *r.completed {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	run := func() {
		r.runNext(sched, v)
	}

	if _, inEmission := CurrentStamp(); inEmission {
		run()
		return
	}

	if sched != nil {
		_, _ = sched.Enqueue(func() (struct{}, error) { run(); return struct{}{}, nil })
		return
	}
	run()
}

func (r *StrictReceiver[T]) runNext(sched *Scheduler, v T) {
	if r.inner.Next == nil {
		return
	}

	err := safeCallNext(r.inner.Next, v)
	if err != nil {
		r.deliverError(err)
	}
}

func safeCallNext[T any](next func(T) error, v T) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s: receiver Next panicked: %v", Namespace, p)
		}
	}()
	return next(v)
}

// DeliverNext is the public entry point a Stream/Subject uses to forward a
// value through this receiver.
func (r *StrictReceiver[T]) DeliverNext(sched *Scheduler, v T) { r.deliverNext(sched, v) }

// DeliverError is the public entry point for forwarding an upstream error.
func (r *StrictReceiver[T]) DeliverError(err error) { r.deliverError(err) }

// DeliverComplete is the public entry point for forwarding natural completion.
func (r *StrictReceiver[T]) DeliverComplete() { r.deliverComplete() }

func (r *StrictReceiver[T]) deliverError(err error) {
	r.mu.Lock()
	if *r.completed {
		r.mu.Unlock()
		return
	}
	*r.completed = true
	r.mu.Unlock()

	safeCall(func() {
		if r.inner.Error != nil {
			r.inner.Error(err)
		}
	})
	safeCall(func() {
		if r.inner.Complete != nil {
			r.inner.Complete()
		}
	})
}

func (r *StrictReceiver[T]) deliverComplete() {
	r.mu.Lock()
	if *r.completed {
		r.mu.Unlock()
		return
	}
	*r.completed = true
	r.mu.Unlock()

	safeCall(func() {
		if r.inner.Complete != nil {
			r.inner.Complete()
		}
	})
}

// safeCall swallows any panic raised by fn, logging it; used for the
// Error/Complete paths where a secondary failure must never bubble.
func safeCall(fn func()) {
	defer func() {
		if p := recover(); p != nil {
			logger().WithField("panic", p).Warn("flowcore: receiver handler panicked, swallowing")
		}
	}()
	fn()
}
