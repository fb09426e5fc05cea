package flowcore

import "github.com/google/uuid"

// step is the per-value decision a simple pull-driven operator makes after
// looking at one upstream item: emit Out (if Emit), skip this upstream
// value entirely (Emit false, Err nil), or fail the stream (Err set, which
// ends it).
type step[Out any] struct {
	out  Out
	emit bool
	err  error
}

// runLoop drives a dedicated goroutine that pulls from upstream and calls
// next for each value, writing whatever next decides into the returned
// downstream iterator. next may be called with more upstream values after
// returning emit=false (a filter-style skip); returning a non-nil err ends
// the downstream with that error and stops pulling upstream.
//
// This is the shared shape nearly every simple operator in operators_*.go
// reduces to, grounded on the teacher's worker.execute(): pull one unit of
// work, run a function over it, forward exactly one outcome, repeat until
// the input is exhausted or an error occurs.
func runLoop[In, Out any](upstream *AsyncIterator[In], ctx *PipelineContext, name string, next func(idx int, v In, meta ValueMeta) step[Out]) *AsyncIterator[Out] {
	opIndex := ctx.register(name)
	down := NewAsyncIterator[Out](WithBufferSize(16))

	go func() {
		idx := 0
		for {
			res := upstream.Next()
			if res.Done {
				if res.Err != nil {
					down.Fail(res.Err)
				} else {
					down.Finish()
				}
				return
			}

			meta := NewValueMeta(opIndex, name, KindTransform, uuid.Nil)
			s := next(idx, res.Value, meta)
			idx++

			if s.err != nil {
				down.Fail(s.err)
				upstream.Stop()
				return
			}
			if s.emit {
				m := RecordMeta(NewValueMeta(opIndex, name, KindTransform, meta.ValueID))
				down.Push(m.Stamp, s.out)
			}
		}
	}()

	return down
}
