package flowcore

import "sync"

// BehaviorSubject is a Subject that remembers its most recent value and
// replays it synchronously to every new subscriber before any further
// commit can reach them. Subscribing to a BehaviorSubject that has never
// received a value yields no replay (there is nothing to replay), matching
// the zero-value semantics of a plain variable.
//
// Grounded on the same reorderer-derived commit barrier as Subject, with
// one addition: the "ready" check also considers a synthetic commit at
// subscribe time carrying the last value, so joining late still observes
// current state, the imperative-multicast equivalent of the teacher's
// results channel replaying nothing (it has no such behavior) generalized
// from spec's requirement that a BehaviorSubject always has a "current
// value" to hand a subscriber.
type BehaviorSubject[T any] struct {
	inner *Subject[T]

	mu      sync.Mutex
	hasValue bool
	value   T
}

// NewBehaviorSubject creates a BehaviorSubject with no current value.
func NewBehaviorSubject[T any](sched *Scheduler) *BehaviorSubject[T] {
	return &BehaviorSubject[T]{inner: NewSubject[T](sched)}
}

// NewBehaviorSubjectWithValue creates a BehaviorSubject whose current value
// is initial, replayed to every subscriber until the first Next call.
func NewBehaviorSubjectWithValue[T any](sched *Scheduler, initial T) *BehaviorSubject[T] {
	b := &BehaviorSubject[T]{inner: NewSubject[T](sched)}
	b.hasValue = true
	b.value = initial
	return b
}

// Value returns the current value and whether one has ever been recorded.
func (b *BehaviorSubject[T]) Value() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value, b.hasValue
}

// Subscribe replays the current value (if any) to recv synchronously, then
// registers recv for future commits exactly like Subject.Subscribe.
func (b *BehaviorSubject[T]) Subscribe(recv Receiver[T]) *Subscription {
	b.mu.Lock()
	hasValue := b.hasValue
	value := b.value
	b.mu.Unlock()

	if b.inner.Completed() {
		return b.inner.Subscribe(recv)
	}

	if hasValue && recv.Next != nil {
		strict := wrap(recv)
		WithStamp(NextStamp(), func() { strict.DeliverNext(b.inner.sched, value) })
		return b.inner.subscribeStrict(strict)
	}

	return b.inner.Subscribe(recv)
}

// Next records v as the current value, then commits it through the
// underlying Subject.
func (b *BehaviorSubject[T]) Next(v T) {
	b.mu.Lock()
	b.hasValue = true
	b.value = v
	b.mu.Unlock()
	b.inner.Next(v)
}

// Error delegates to the underlying Subject.
func (b *BehaviorSubject[T]) Error(err error) { b.inner.Error(err) }

// Complete delegates to the underlying Subject.
func (b *BehaviorSubject[T]) Complete() { b.inner.Complete() }

// Completed delegates to the underlying Subject.
func (b *BehaviorSubject[T]) Completed() bool { return b.inner.Completed() }

// AsyncIterator builds a pull iterator that registers as a receiver of b,
// replaying the current value first if one is set.
func (b *BehaviorSubject[T]) AsyncIterator() *AsyncIterator[T] {
	return AsyncIteratorFrom[T](b, defaultPipeBufferSize)
}

// Query pulls the first value b emits (its current value, if it has one),
// then stops listening; see FirstValueFrom for its empty/error behavior.
func (b *BehaviorSubject[T]) Query() (T, error) {
	return FirstValueFrom(b.AsyncIterator())
}
