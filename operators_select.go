package flowcore

import "github.com/google/uuid"

// Select merges N upstream iterators, emitting their values strictly in
// the order the branches were declared (branch 0's next value, then branch
// 1's next value, then branch 2's, cycling), regardless of which branch's
// producer actually finishes first; pulling branch b simply blocks until
// that branch has a value, applying backpressure to whichever producer is
// behind. A branch that completes is skipped in every future round; once
// every branch has completed, Select completes (with the first branch
// error seen, if any).
//
// Grounded on the teacher's reorderer (reorderer.go/preserve_order.go):
// reorderer's cursor walking indices 0,1,2,... in order while buffering
// whatever arrives out of order is replaced here by a cursor walking branch
// indices 0,1,2,...,0,1,2,... in a cycle; since each branch is itself a
// pull-blocking AsyncIterator, no separate out-of-order buffer is needed
// the way reorderer's was — blocking on the next branch due is equivalent
// to reorderer's "wait for index `next`" behavior.
type Select[T any] struct {
	Sources []*AsyncIterator[T]
}

// Apply ignores upstream (Select has no single upstream; it merges
// s.Sources instead) and satisfies Operator[struct{}, T] only so Select can
// sit in a Pipe chain as the first stage; most callers use SelectStreams
// directly instead.
func (s Select[T]) Apply(_ *AsyncIterator[struct{}], ctx *PipelineContext) *AsyncIterator[T] {
	return SelectStreams(s.Sources, ctx)
}

// SelectStreams merges sources in round-robin declaration order. See
// Select's doc comment for the ordering contract.
func SelectStreams[T any](sources []*AsyncIterator[T], ctx *PipelineContext) *AsyncIterator[T] {
	opIndex := ctx.register("select")
	down := NewAsyncIterator[T](WithBufferSize(len(sources)))
	n := len(sources)

	go func() {
		if n == 0 {
			down.Finish()
			return
		}

		done := make([]bool, n)
		remaining := n
		var firstErr error
		branch := 0

		for remaining > 0 {
			if done[branch] {
				branch = (branch + 1) % n
				continue
			}

			res := sources[branch].Next()
			if res.Done {
				done[branch] = true
				remaining--
				if res.Err != nil && firstErr == nil {
					firstErr = res.Err
				}
				branch = (branch + 1) % n
				continue
			}

			meta := RecordMeta(NewValueMeta(opIndex, "select", KindTransform, uuid.New()))
			down.Push(meta.Stamp, res.Value)
			branch = (branch + 1) % n
		}

		if firstErr != nil {
			down.Fail(firstErr)
		} else {
			down.Finish()
		}
	}()

	return down
}
