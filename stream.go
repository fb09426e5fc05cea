package flowcore

import (
	"sync"

	"github.com/google/uuid"
)

// StreamProducer is the function a Stream wraps: given push/fail/finish
// callbacks and a stop channel it should watch, it drives the generator
// logic that feeds the stream's subscribers. It runs once per "activation"
// (first subscribe after being idle) and must return once stop is closed.
type StreamProducer func(push func(any), fail func(error), finish func(), stop <-chan struct{})

// Stream is a multicast source: any number of subscribers share one
// execution of its StreamProducer. The producer starts lazily on the first
// Subscribe call and is aborted once the last subscriber unsubscribes;
// re-subscribing after that restarts it from scratch (Streams do not
// replay; see ReplaySubject for that).
//
// Grounded on the teacher's workers.Start(ctx): a sync.Once-guarded
// goroutine launch reacting to a ctx.Done() for teardown. Stream
// generalizes that from "start once, run forever" to "start on first
// subscribe, stop on last unsubscribe, restartable", since a Stream with
// zero subscribers should not be running its generator at all.
type Stream[T any] struct {
	id   string
	name string

	produce StreamProducer

	mu          sync.Mutex
	subscribers map[uuid.UUID]*StrictReceiver[T]
	active      bool
	stop        chan struct{}

	sched *Scheduler
	hooks *RuntimeHooks
}

// NewStream creates a Stream backed by produce. name is used only for
// introspection (ValueMeta.OperatorName style identification in logs and
// hooks).
func NewStream[T any](sched *Scheduler, hooks *RuntimeHooks, name string, produce StreamProducer) *Stream[T] {
	s := &Stream[T]{
		id:          uuid.NewString(),
		name:        name,
		produce:     produce,
		subscribers: make(map[uuid.UUID]*StrictReceiver[T]),
		sched:       sched,
		hooks:       hooks,
	}
	hooks.fireCreateStream(s.id)
	return s
}

// ID returns this stream's identity.
func (s *Stream[T]) ID() string { return s.id }

// Subscribe registers recv and returns a Subscription to tear it down.
// Subscribing while the stream is idle (zero prior subscribers) starts the
// producer; subscribing while it is already running just adds recv to the
// multicast set.
func (s *Stream[T]) Subscribe(recv Receiver[T]) *Subscription {
	strict := wrap(recv)
	id := uuid.New()

	s.mu.Lock()
	s.subscribers[id] = strict
	starting := !s.active
	if starting {
		s.active = true
		s.stop = make(chan struct{})
	}
	stopCh := s.stop
	s.mu.Unlock()

	if starting {
		go s.run(stopCh)
	}

	return NewSubscription(s.sched, func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		last := len(s.subscribers) == 0 && s.active
		if last {
			s.active = false
			close(s.stop)
		}
		s.mu.Unlock()
	})
}

func (s *Stream[T]) run(stop <-chan struct{}) {
	push := func(v any) { s.broadcastNext(v.(T)) }
	fail := func(err error) { s.broadcastError(err) }
	finish := func() { s.broadcastComplete() }

	safeCall(func() { s.produce(push, fail, finish, stop) })

	// The producer returned on its own (finish/fail called, or it simply
	// exited): the stream is idle again regardless of whether anyone ever
	// unsubscribed, so the next Subscribe restarts it from scratch rather
	// than silently joining a producer that will never run again.
	s.mu.Lock()
	if s.stop == stop {
		s.active = false
		s.subscribers = make(map[uuid.UUID]*StrictReceiver[T])
	}
	s.mu.Unlock()
}

func (s *Stream[T]) snapshotSubscribers() []*StrictReceiver[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*StrictReceiver[T], 0, len(s.subscribers))
	for _, r := range s.subscribers {
		out = append(out, r)
	}
	return out
}

// AsyncIterator builds a pull iterator that registers as a receiver of s,
// per §4.7; PipeStream/2/3/4 use this to feed each subscription's own
// operator chain.
func (s *Stream[T]) AsyncIterator() *AsyncIterator[T] {
	return AsyncIteratorFrom[T](s, defaultPipeBufferSize)
}

// Query pulls the first value s emits, then stops listening; see
// FirstValueFrom for its empty/error behavior.
func (s *Stream[T]) Query() (T, error) {
	return FirstValueFrom(s.AsyncIterator())
}

func (s *Stream[T]) broadcastNext(v T) {
	WithStamp(NextStamp(), func() {
		for _, r := range s.snapshotSubscribers() {
			r.DeliverNext(s.sched, v)
		}
	})
}

func (s *Stream[T]) broadcastError(err error) {
	for _, r := range s.snapshotSubscribers() {
		r.DeliverError(err)
	}
}

func (s *Stream[T]) broadcastComplete() {
	for _, r := range s.snapshotSubscribers() {
		r.DeliverComplete()
	}
}
