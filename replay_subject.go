package flowcore

import "sync"

// ReplaySubject is a Subject that buffers up to bufferSize of its most
// recent values (0 means unbounded) and replays that buffer, in order, to
// every new subscriber before it can observe any further commit.
//
// Grounded on the teacher's reorderer buffering map (buf map[int]R), scaled
// from "one slot per pending index, drained once contiguous" to "a fixed-
// size ring of the last N values, replayed wholesale on subscribe" since a
// ReplaySubject's buffer is a sliding window over time rather than a
// temporary hold for out-of-order arrivals.
type ReplaySubject[T any] struct {
	inner *Subject[T]

	mu         sync.Mutex
	bufferSize int // 0 == unbounded
	buffer     []T
}

// NewReplaySubject creates a ReplaySubject retaining at most bufferSize
// values (0 means unbounded).
func NewReplaySubject[T any](sched *Scheduler, bufferSize int) *ReplaySubject[T] {
	return &ReplaySubject[T]{inner: NewSubject[T](sched), bufferSize: bufferSize}
}

// Subscribe replays the buffered values (oldest first) to recv
// synchronously, then registers recv for future commits. On a subject that
// has already terminated, the buffered values are replayed and then the
// terminal.
func (r *ReplaySubject[T]) Subscribe(recv Receiver[T]) *Subscription {
	r.mu.Lock()
	snapshot := make([]T, len(r.buffer))
	copy(snapshot, r.buffer)
	r.mu.Unlock()

	if r.inner.Completed() {
		strict := wrap(recv)
		WithStamp(NextStamp(), func() {
			for _, v := range snapshot {
				strict.DeliverNext(r.inner.sched, v)
			}
		})
		return r.inner.Subscribe(Receiver[T]{Error: strict.DeliverError, Complete: strict.DeliverComplete})
	}

	if len(snapshot) == 0 || recv.Next == nil {
		return r.inner.Subscribe(recv)
	}

	strict := wrap(recv)
	WithStamp(NextStamp(), func() {
		for _, v := range snapshot {
			strict.DeliverNext(r.inner.sched, v)
			if strict.Completed() {
				break
			}
		}
	})
	if strict.Completed() {
		sub := NewSubscription(r.inner.sched, nil)
		sub.Unsubscribe()
		return sub
	}
	return r.inner.subscribeStrict(strict)
}

// Next appends v to the replay buffer (evicting the oldest entry if the
// buffer is bounded and full), then commits it through the underlying
// Subject.
func (r *ReplaySubject[T]) Next(v T) {
	r.mu.Lock()
	r.buffer = append(r.buffer, v)
	if r.bufferSize > 0 && len(r.buffer) > r.bufferSize {
		r.buffer = r.buffer[len(r.buffer)-r.bufferSize:]
	}
	r.mu.Unlock()
	r.inner.Next(v)
}

// Error delegates to the underlying Subject.
func (r *ReplaySubject[T]) Error(err error) { r.inner.Error(err) }

// Complete delegates to the underlying Subject.
func (r *ReplaySubject[T]) Complete() { r.inner.Complete() }

// Completed delegates to the underlying Subject.
func (r *ReplaySubject[T]) Completed() bool { return r.inner.Completed() }

// AsyncIterator builds a pull iterator that registers as a receiver of r,
// replaying the buffered values first.
func (r *ReplaySubject[T]) AsyncIterator() *AsyncIterator[T] {
	return AsyncIteratorFrom[T](r, defaultPipeBufferSize)
}

// Query pulls the first value r emits (the oldest buffered value, if any),
// then stops listening; see FirstValueFrom for its empty/error behavior.
func (r *ReplaySubject[T]) Query() (T, error) {
	return FirstValueFrom(r.AsyncIterator())
}
