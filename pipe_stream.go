package flowcore

import "github.com/google/uuid"

// defaultPipeBufferSize sizes the iterator AsyncIteratorFrom builds when
// bridging a push source into the pull protocol, matching the buffer most
// operators already use for their own downstream (operator_helpers.go).
const defaultPipeBufferSize = 16

// Source is anything a receiver can subscribe to: Stream, Subject,
// BehaviorSubject, ReplaySubject, and PipedStream itself all satisfy it,
// which is what lets Pipe's output be piped again.
type Source[T any] interface {
	Subscribe(recv Receiver[T]) *Subscription
}

// AsyncIteratorFrom builds a pull iterator that registers as a receiver of
// src: every value delivered to the receiver is pushed into the iterator,
// and the source's terminal becomes the iterator's terminal. Per §4.5 this
// is eager (the subscription happens immediately, not on first pull) since
// subscribing is itself the act of registering; the iterator's Stop tears
// the subscription back down.
func AsyncIteratorFrom[T any](src Source[T], bufferSize int) *AsyncIterator[T] {
	it := NewAsyncIterator[T](WithBufferSize(bufferSize))
	sub := src.Subscribe(Receiver[T]{
		Next: func(v T) error {
			s, ok := CurrentStamp()
			if !ok {
				s = NextStamp()
			}
			it.Push(s, v)
			return nil
		},
		Error:    func(err error) { it.Fail(err) },
		Complete: func() { it.Finish() },
	})
	it.bindSource(sub)
	return it
}

// pipeBuild constructs one subscription's fresh downstream iterator and
// returns, alongside it, the teardown for everything upstream of it (the
// source iterator and any auxiliary iterators an operator like
// withLatestFrom owns) so Subscribe's cleanup can release the whole
// per-subscription chain, not just its tail.
type pipeBuild[T any] func() (down *AsyncIterator[T], stopUpstream func())

// PipedStream is the unicast stream a Pipe* call returns: per §4.7 a
// derived stream materializes its own source iterator and its own operator
// chain on every Subscribe, instead of sharing one generator run across
// every subscriber the way Stream does.
type PipedStream[T any] struct {
	id    string
	sched *Scheduler
	build pipeBuild[T]
}

func newPipedStream[T any](sched *Scheduler, build pipeBuild[T]) *PipedStream[T] {
	return &PipedStream[T]{id: uuid.NewString(), sched: sched, build: build}
}

// ID returns this derived stream's identity.
func (p *PipedStream[T]) ID() string { return p.id }

// Subscribe builds a fresh operator chain over a fresh source iterator and
// drains it into recv. Each call is independent: two concurrent
// subscribers to the same PipedStream never share state.
func (p *PipedStream[T]) Subscribe(recv Receiver[T]) *Subscription {
	strict := wrap(recv)
	down, stopUpstream := p.build()
	stop := make(chan struct{})

	go func() {
		for {
			res := down.Next()
			if res.Done {
				select {
				case <-stop:
					return
				default:
				}
				if res.Err != nil {
					strict.DeliverError(res.Err)
				} else {
					strict.DeliverComplete()
				}
				return
			}

			stamp, ok := getIteratorStamp(down.ID())
			if !ok {
				stamp = NextStamp()
			}
			WithStamp(stamp, func() { strict.DeliverNext(p.sched, res.Value) })

			select {
			case <-stop:
				down.Stop()
				return
			default:
			}
		}
	}()

	return NewSubscription(p.sched, func() {
		close(stop)
		down.Stop()
		stopUpstream()
	})
}

// AsyncIterator builds a pull iterator over a fresh subscription to p.
func (p *PipedStream[T]) AsyncIterator() *AsyncIterator[T] {
	return AsyncIteratorFrom[T](p, defaultPipeBufferSize)
}

// Query pulls the first value p emits, then stops listening; see
// FirstValueFrom for its empty/error behavior.
func (p *PipedStream[T]) Query() (T, error) {
	return FirstValueFrom(p.AsyncIterator())
}

// PipeStream applies a single operator to src, returning a new unicast
// derived stream. sched and hooks may be nil; pool may be nil if op does
// not offload to a CoroutinePool.
func PipeStream[In, Out any](src Source[In], op Operator[In, Out], sched *Scheduler, pool *CoroutinePool, hooks *RuntimeHooks) *PipedStream[Out] {
	return newPipedStream[Out](sched, func() (*AsyncIterator[Out], func()) {
		up := AsyncIteratorFrom[In](src, defaultPipeBufferSize)
		ctx := NewPipelineContext(sched, pool, hooks)
		return Pipe(up, op, ctx), up.Stop
	})
}

// PipeStream2 composes two operators over src in sequence.
func PipeStream2[A, B, C any](src Source[A], op1 Operator[A, B], op2 Operator[B, C], sched *Scheduler, pool *CoroutinePool, hooks *RuntimeHooks) *PipedStream[C] {
	return newPipedStream[C](sched, func() (*AsyncIterator[C], func()) {
		up := AsyncIteratorFrom[A](src, defaultPipeBufferSize)
		ctx := NewPipelineContext(sched, pool, hooks)
		return Pipe2(up, op1, op2, ctx), up.Stop
	})
}

// PipeStream3 composes three operators over src in sequence.
func PipeStream3[A, B, C, D any](src Source[A], op1 Operator[A, B], op2 Operator[B, C], op3 Operator[C, D], sched *Scheduler, pool *CoroutinePool, hooks *RuntimeHooks) *PipedStream[D] {
	return newPipedStream[D](sched, func() (*AsyncIterator[D], func()) {
		up := AsyncIteratorFrom[A](src, defaultPipeBufferSize)
		ctx := NewPipelineContext(sched, pool, hooks)
		return Pipe3(up, op1, op2, op3, ctx), up.Stop
	})
}

// PipeStream4 composes four operators over src in sequence.
func PipeStream4[A, B, C, D, E any](src Source[A], op1 Operator[A, B], op2 Operator[B, C], op3 Operator[C, D], op4 Operator[D, E], sched *Scheduler, pool *CoroutinePool, hooks *RuntimeHooks) *PipedStream[E] {
	return newPipedStream[E](sched, func() (*AsyncIterator[E], func()) {
		up := AsyncIteratorFrom[A](src, defaultPipeBufferSize)
		ctx := NewPipelineContext(sched, pool, hooks)
		return Pipe4(up, op1, op2, op3, op4, ctx), up.Stop
	})
}
