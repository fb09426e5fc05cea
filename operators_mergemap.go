package flowcore

import (
	"sync"

	"github.com/google/uuid"
)

// MergeMap applies Project to each upstream value, producing an inner
// AsyncIterator per value; all inner iterators are drained concurrently
// (up to Concurrency at a time, 0 meaning unbounded) and their values are
// merged into one downstream in whatever order they actually arrive
// (KindExpand: one upstream value expands into zero or more downstream
// values over time).
//
// Grounded on the teacher's MapStream/RunStream (map_stream.go/run_stream.go):
// a forwarder goroutine reads the input channel, dispatches each item as a
// task, and tracks a `started`/`done` count to know when it is safe to
// close the output. MergeMap keeps that exact shape — forwarder reads
// upstream, drains each Project(v) on its own goroutine (not through the
// coroutine pool), limits how many run at once with a semaphore, tracks
// in-flight count with a sync.WaitGroup instead of the teacher's done
// channel — generalized from
// "one result per task" to "a whole inner stream per task".
type MergeMap[In, Out any] struct {
	Project     func(In) *AsyncIterator[Out]
	Concurrency int
}

// Apply implements Operator.
func (m MergeMap[In, Out]) Apply(upstream *AsyncIterator[In], ctx *PipelineContext) *AsyncIterator[Out] {
	opIndex := ctx.register("mergeMap")
	down := NewAsyncIterator[Out](WithBufferSize(64))

	var sem chan struct{}
	if m.Concurrency > 0 {
		sem = make(chan struct{}, m.Concurrency)
	}

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		upstreamErr error
		failed      bool
	)

	fail := func(err error) {
		mu.Lock()
		if !failed {
			failed = true
			upstreamErr = err
		}
		mu.Unlock()
	}

	drainInner := func(parentID uuid.UUID, inner *AsyncIterator[Out]) {
		defer wg.Done()
		if sem != nil {
			defer func() { <-sem }()
		}
		for {
			res := inner.Next()
			if res.Done {
				if res.Err != nil {
					fail(res.Err)
				}
				return
			}
			meta := RecordMeta(NewValueMeta(opIndex, "mergeMap", KindExpand, parentID))
			down.Push(meta.Stamp, res.Value)
		}
	}

	go func() {
		for {
			res := upstream.Next()
			if res.Done {
				if res.Err != nil {
					fail(res.Err)
				}
				break
			}

			if sem != nil {
				sem <- struct{}{}
			}

			parentID := uuid.New()
			inner := m.Project(res.Value)
			wg.Add(1)
			go drainInner(parentID, inner)

			mu.Lock()
			stop := failed
			mu.Unlock()
			if stop {
				upstream.Stop()
				break
			}
		}

		wg.Wait()

		mu.Lock()
		err := upstreamErr
		mu.Unlock()

		if err != nil {
			down.Fail(err)
		} else {
			down.Finish()
		}
	}()

	return down
}

// NewMergeMap builds a MergeMap operator. concurrency of 0 means unbounded.
func NewMergeMap[In, Out any](project func(In) *AsyncIterator[Out], concurrency int) MergeMap[In, Out] {
	return MergeMap[In, Out]{Project: project, Concurrency: concurrency}
}
