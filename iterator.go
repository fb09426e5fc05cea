package flowcore

import (
	"sync"
	"sync/atomic"
)

// IteratorResult is the shape every pull from an AsyncIterator yields: a
// completion flag, a value (meaningless if Done), and a terminal error (set
// only when the source ended abnormally).
type IteratorResult[T any] struct {
	Done  bool
	Value T
	Err   error
}

var iteratorIDs uint64

func nextIteratorID() uint64 { return atomic.AddUint64(&iteratorIDs, 1) }

// AsyncIterator is the single-producer/single-consumer pull/push queue
// backing every Stream, Subject, and operator output. A producer pushes
// values with push, signals normal end with finish, or signals abnormal end
// with fail; a consumer pulls with next (blocking until a value, the
// terminal, or ctx-like cancellation via stop is available) or polls
// without blocking via tryNext.
//
// Grounded on the teacher's channel-based producer/consumer flow
// (workers.go submits tasks, worker.go executes and reports back,
// dispatcher.go owns the channel both sides share) reimagined as a single
// producer and a single consumer instead of a pool fanning work out to N
// workers, since exactly one consumer ever pulls from a given iterator.
type AsyncIterator[T any] struct {
	id uint64

	values chan T
	// errc carries at most one terminal error; closed (zero value, ok=false)
	// signals graceful completion instead.
	errc chan error

	mu        sync.Mutex
	done      bool
	closeOnce sync.Once
	stopped   chan struct{}
	sourceSub *Subscription // set by AsyncIteratorFrom; torn down on Stop

	backpressure int // buffered channel capacity; 0 means unbuffered (full backpressure)
}

// IteratorOption configures an AsyncIterator at construction.
type IteratorOption func(*iteratorOptions)

type iteratorOptions struct {
	bufferSize int
}

// WithBufferSize sets the iterator's internal value buffer, letting a
// producer push up to n values ahead of the consumer before push blocks.
// The default (0) is fully synchronous: push blocks until a consumer pulls.
func WithBufferSize(n int) IteratorOption {
	return func(o *iteratorOptions) { o.bufferSize = n }
}

// NewAsyncIterator creates a ready-to-use AsyncIterator.
func NewAsyncIterator[T any](opts ...IteratorOption) *AsyncIterator[T] {
	cfg := iteratorOptions{}
	for _, o := range opts {
		o(&cfg)
	}
	return &AsyncIterator[T]{
		id:           nextIteratorID(),
		values:       make(chan T, cfg.bufferSize),
		errc:         make(chan error, 1),
		stopped:      make(chan struct{}),
		backpressure: cfg.bufferSize,
	}
}

// ID returns this iterator's process-unique identity, used to key the
// ambient iteratorStamps table in stamp.go.
func (it *AsyncIterator[T]) ID() uint64 { return it.id }

// Push delivers v to the consumer. It blocks until the consumer pulls (or
// the buffer has room), or the iterator is stopped, whichever comes first.
// Push after Finish/Fail/Stop is a no-op: the producer side must not push
// past a terminal it has already signaled.
func (it *AsyncIterator[T]) Push(s Stamp, v T) {
	it.mu.Lock()
	done := it.done
	it.mu.Unlock()
	if done {
		return
	}
	select {
	case <-it.stopped:
		return
	default:
	}
	select {
	case it.values <- v:
		setIteratorStamp(it.id, s)
	case <-it.stopped:
	}
}

// Finish signals graceful completion: no more values will ever be pushed.
// Idempotent; only the first call has effect.
func (it *AsyncIterator[T]) Finish() {
	it.mu.Lock()
	if it.done {
		it.mu.Unlock()
		return
	}
	it.done = true
	it.mu.Unlock()
	it.errc <- nil
}

// Fail signals abnormal completion with err. Idempotent; only the first
// call (whether Finish or Fail) has effect.
func (it *AsyncIterator[T]) Fail(err error) {
	it.mu.Lock()
	if it.done {
		it.mu.Unlock()
		return
	}
	it.done = true
	it.mu.Unlock()
	it.errc <- err
}

// Stop tears the iterator down from the consumer side: any blocked or
// future Push returns immediately without delivering, and any blocked Next,
// or any later Next that finds no value still buffered, returns
// {Done: true, Err: ErrUnsubscribed}. Idempotent. If the
// iterator was built by AsyncIteratorFrom, Stop also unsubscribes from the
// upstream source, matching §4.5's "subscription handle to the source that
// pushed into it".
func (it *AsyncIterator[T]) Stop() {
	it.closeOnce.Do(func() {
		close(it.stopped)
		it.mu.Lock()
		sub := it.sourceSub
		it.mu.Unlock()
		if sub != nil {
			sub.Unsubscribe()
		}
	})
}

// bindSource records sub as the subscription Stop must tear down.
func (it *AsyncIterator[T]) bindSource(sub *Subscription) {
	it.mu.Lock()
	it.sourceSub = sub
	it.mu.Unlock()
}

// Next blocks until a value is available, the source completes (gracefully
// or with an error), or Stop is called, whichever comes first. Buffered
// values are always drained before a pending terminal is observed: a
// producer may push several values into the buffer and then call
// Finish/Fail without blocking, leaving both it.values and it.errc
// simultaneously ready, and an unordered select between them would let Go
// pick the terminal first and silently drop the still-buffered values.
func (it *AsyncIterator[T]) Next() IteratorResult[T] {
	select {
	case v := <-it.values:
		return IteratorResult[T]{Value: v}
	default:
	}

	select {
	case <-it.stopped:
		return IteratorResult[T]{Done: true, Err: ErrUnsubscribed}
	default:
	}

	select {
	case v := <-it.values:
		return IteratorResult[T]{Value: v}
	case err := <-it.errc:
		// A value may have raced in between the two non-blocking checks
		// above and this select; give it.values one more priority look
		// before accepting the terminal.
		select {
		case v := <-it.values:
			it.errc <- err // put the terminal back; errc has room since we just drained it
			return IteratorResult[T]{Value: v}
		default:
		}
		clearIteratorStamp(it.id)
		return IteratorResult[T]{Done: true, Err: err}
	case <-it.stopped:
		return IteratorResult[T]{Done: true, Err: ErrUnsubscribed}
	}
}

// TryNext polls without blocking: ok is false if neither a value nor a
// terminal is immediately available. Like Next, it drains a buffered value
// before reporting a pending terminal.
func (it *AsyncIterator[T]) TryNext() (res IteratorResult[T], ok bool) {
	select {
	case v := <-it.values:
		return IteratorResult[T]{Value: v}, true
	default:
	}

	select {
	case <-it.stopped:
		return IteratorResult[T]{Done: true, Err: ErrUnsubscribed}, true
	default:
	}

	select {
	case v := <-it.values:
		return IteratorResult[T]{Value: v}, true
	case err := <-it.errc:
		return IteratorResult[T]{Done: true, Err: err}, true
	default:
		return IteratorResult[T]{}, false
	}
}

// Return is the consumer's cooperative early-exit signal: equivalent to
// Stop, but named to mirror the generator-style return() a consumer calls
// when it will not pull again (e.g. a downstream operator unsubscribing
// mid-stream). Matches spec's iterator vocabulary of next/return/throw.
func (it *AsyncIterator[T]) Return() { it.Stop() }

// Throw is the consumer's cooperative abort-with-error signal; functionally
// identical to Stop from the producer's perspective (both unblock pending
// Push/Next immediately) but documents consumer-initiated cancellation
// distinctly from producer-initiated completion.
func (it *AsyncIterator[T]) Throw(err error) {
	_ = err
	it.Stop()
}
