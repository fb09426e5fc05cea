package flowcore

import (
	"sync"

	"github.com/google/uuid"
)

// subjectSubscriber pairs a receiver with the Stamp in effect when it
// subscribed, so a commit can tell which subscribers are eligible for it.
type subjectSubscriber[T any] struct {
	id          uuid.UUID
	recv        *StrictReceiver[T]
	subscribedAt Stamp
}

// Subject is an imperative multicast source: the caller drives emission
// directly via Next/Error/Complete rather than a generator function. A
// commit (one call to Next/Error/Complete) is delivered only to receivers
// whose subscribedAt strictly precedes the commit's stamp, so a subscriber
// can never observe a value that was already in flight before it joined.
//
// Grounded on the teacher's reorderer: a single coordinator goroutine
// (here, a mutex-guarded commit instead of a goroutine, since Subject has
// no upstream channel to drain) computing which entries are "ready" to
// flush based on a cursor. Subject's cursor is the Stamp timeline instead
// of an integer index, and "ready" becomes "subscribed strictly before
// this commit's stamp" instead of "index == next".
type Subject[T any] struct {
	mu          sync.Mutex
	subscribers map[uuid.UUID]*subjectSubscriber[T]
	completed   bool
	terminalErr error

	sched *Scheduler
}

// NewSubject creates an empty Subject with no current subscribers.
func NewSubject[T any](sched *Scheduler) *Subject[T] {
	return &Subject[T]{
		subscribers: make(map[uuid.UUID]*subjectSubscriber[T]),
		sched:       sched,
	}
}

// Subscribe registers recv. If the subject has already terminated (Error or
// Complete previously called), the terminal is replayed to recv immediately
// and the returned Subscription is already torn down.
func (s *Subject[T]) Subscribe(recv Receiver[T]) *Subscription {
	strict := wrap(recv)

	s.mu.Lock()
	if s.completed {
		err := s.terminalErr
		s.mu.Unlock()
		if err != nil {
			strict.DeliverError(err)
		} else {
			strict.DeliverComplete()
		}
		sub := NewSubscription(s.sched, nil)
		sub.Unsubscribe()
		return sub
	}

	id := uuid.New()
	s.subscribers[id] = &subjectSubscriber[T]{id: id, recv: strict, subscribedAt: NextStamp()}
	s.mu.Unlock()

	return NewSubscription(s.sched, func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	})
}

// subscribeStrict registers an already-wrapped receiver, used by
// BehaviorSubject/ReplaySubject after they have delivered a synchronous
// replay through it and need to fold it into the normal commit path without
// wrapping recv a second time.
func (s *Subject[T]) subscribeStrict(strict *StrictReceiver[T]) *Subscription {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		sub := NewSubscription(s.sched, nil)
		sub.Unsubscribe()
		return sub
	}
	id := uuid.New()
	s.subscribers[id] = &subjectSubscriber[T]{id: id, recv: strict, subscribedAt: NextStamp()}
	s.mu.Unlock()

	return NewSubscription(s.sched, func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	})
}

// eligibleReceivers returns the receivers subscribed strictly before commit,
// the commit barrier that excludes late joiners from a value already
// underway.
func (s *Subject[T]) eligibleReceivers(commit Stamp) []*StrictReceiver[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*StrictReceiver[T], 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		if sub.subscribedAt < commit {
			out = append(out, sub.recv)
		}
	}
	return out
}

// Next commits v to every receiver eligible as of this call.
func (s *Subject[T]) Next(v T) {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	commit := NextStamp()
	WithStamp(commit, func() {
		for _, r := range s.eligibleReceivers(commit) {
			r.DeliverNext(s.sched, v)
		}
	})
}

// Error terminates the subject with err, delivered to every eligible
// receiver; per the StrictReceiver contract this also triggers Complete.
func (s *Subject[T]) Error(err error) {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return
	}
	s.completed = true
	s.terminalErr = err
	s.mu.Unlock()

	commit := NextStamp()
	WithStamp(commit, func() {
		for _, r := range s.eligibleReceivers(commit) {
			r.DeliverError(err)
		}
	})
}

// Complete terminates the subject gracefully, delivered to every eligible
// receiver.
func (s *Subject[T]) Complete() {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return
	}
	s.completed = true
	s.mu.Unlock()

	commit := NextStamp()
	WithStamp(commit, func() {
		for _, r := range s.eligibleReceivers(commit) {
			r.DeliverComplete()
		}
	})
}

// Completed reports whether Error or Complete has already committed.
func (s *Subject[T]) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// AsyncIterator builds a pull iterator that registers as a receiver of s,
// per §4.7; PipeStream/2/3/4 use this to feed each subscription's own
// operator chain.
func (s *Subject[T]) AsyncIterator() *AsyncIterator[T] {
	return AsyncIteratorFrom[T](s, defaultPipeBufferSize)
}

// Query pulls the first value s emits, then stops listening; see
// FirstValueFrom for its empty/error behavior.
func (s *Subject[T]) Query() (T, error) {
	return FirstValueFrom(s.AsyncIterator())
}
