package flowcore

import "github.com/google/uuid"

// WithLatestFrom pairs every primary-stream value with the most recent
// value observed on Other, combined by Combine. Primary values arriving
// before Other has produced its first value are dropped (there is nothing
// to pair them with yet); Other completing does not end the combined
// stream, only Primary completing (or erroring) does.
//
// Grounded on the teacher's worker holding a single in-flight task at a
// time (worker.go): WithLatestFrom's "latest value from Other" slot is the
// same one-slot-of-state idea, generalized from "one task result" to "one
// side-channel value kept current".
type WithLatestFrom[P, O, R any] struct {
	Other   *AsyncIterator[O]
	Combine func(P, O) R
}

// Apply implements Operator.
func (w WithLatestFrom[P, O, R]) Apply(upstream *AsyncIterator[P], ctx *PipelineContext) *AsyncIterator[R] {
	opIndex := ctx.register("withLatestFrom")
	down := NewAsyncIterator[R](WithBufferSize(16))

	type latest struct {
		val O
		has bool
	}
	latestCh := make(chan latest, 1)

	go func() {
		cur := latest{}
		for {
			res := w.Other.Next()
			if res.Done {
				return
			}
			cur = latest{val: res.Value, has: true}
			select {
			case <-latestCh:
			default:
			}
			latestCh <- cur
		}
	}()

	go func() {
		var (
			haveLatest bool
			cur        O
		)
		for {
			select {
			case l := <-latestCh:
				cur = l.val
				haveLatest = true
			default:
			}

			res := upstream.Next()
			if res.Done {
				if res.Err != nil {
					down.Fail(res.Err)
				} else {
					down.Finish()
				}
				w.Other.Stop()
				return
			}

			select {
			case l := <-latestCh:
				cur = l.val
				haveLatest = true
			default:
			}

			if !haveLatest {
				continue
			}

			out := w.Combine(res.Value, cur)
			meta := RecordMeta(NewValueMeta(opIndex, "withLatestFrom", KindTransform, uuid.New(), uuid.New()))
			down.Push(meta.Stamp, out)
		}
	}()

	return down
}

// NewWithLatestFrom builds a WithLatestFrom operator pairing primary
// values with other's latest value via combine.
func NewWithLatestFrom[P, O, R any](other *AsyncIterator[O], combine func(P, O) R) WithLatestFrom[P, O, R] {
	return WithLatestFrom[P, O, R]{Other: other, Combine: combine}
}
