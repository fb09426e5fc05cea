package flowcore

import (
	"time"

	"github.com/google/uuid"
)

// Debounce withholds each upstream value until Quiet has elapsed with no
// further upstream value arriving; if a new value arrives first, the timer
// resets and the earlier value is discarded (KindCollapse: the emitted
// value's InputValueIDs names only the final, winning value — the
// discarded ones are never recorded in the arena at all, since they never
// produce a ValueMeta of their own).
//
// Grounded on the teacher's StopOnError cancellation goroutine in
// workers.go: a dedicated goroutine racing a channel receive against
// context cancellation, reused here as "race the next upstream value
// against a quiet timer" instead of "race an error against ctx.Done()".
type Debounce[T any] struct {
	Quiet time.Duration
}

// Apply implements Operator.
func (d Debounce[T]) Apply(upstream *AsyncIterator[T], ctx *PipelineContext) *AsyncIterator[T] {
	opIndex := ctx.register("debounce")
	down := NewAsyncIterator[T](WithBufferSize(1))

	type pulled struct {
		res IteratorResult[T]
	}

	pulls := make(chan pulled)
	go func() {
		for {
			r := upstream.Next()
			pulls <- pulled{res: r}
			if r.Done {
				return
			}
		}
	}()

	go func() {
		var (
			timer   *time.Timer
			timerC  <-chan time.Time
			pending T
			havePending bool
			upstreamDone bool
			upstreamErr error
		)

		emitPending := func() {
			if !havePending {
				return
			}
			meta := RecordMeta(NewValueMeta(opIndex, "debounce", KindCollapse, uuid.New()))
			down.Push(meta.Stamp, pending)
			havePending = false
		}

		for {
			select {
			case p := <-pulls:
				if p.res.Done {
					upstreamDone = true
					upstreamErr = p.res.Err
					if timer != nil {
						timer.Stop()
					}
					emitPending()
					if upstreamErr != nil {
						down.Fail(upstreamErr)
					} else {
						down.Finish()
					}
					return
				}
				pending = p.res.Value
				havePending = true
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(d.Quiet)
				timerC = timer.C

			case <-timerC:
				emitPending()
				timerC = nil
			}

			if upstreamDone {
				return
			}
		}
	}()

	return down
}

// NewDebounce builds a Debounce operator with the given quiet period.
func NewDebounce[T any](quiet time.Duration) Debounce[T] { return Debounce[T]{Quiet: quiet} }
