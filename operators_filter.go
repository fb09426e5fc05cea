package flowcore

// Filter keeps only values for which predicate returns true.
//
// Grounded on the teacher's TaskFunc wrapping a plain function to satisfy
// the Task interface (task.go): Filter is the same "wrap a user function" move
// applied to the Operator protocol instead of the task protocol.
type Filter[T any] struct {
	Predicate func(T) bool
}

// Apply implements Operator.
func (f Filter[T]) Apply(upstream *AsyncIterator[T], ctx *PipelineContext) *AsyncIterator[T] {
	return runLoop(upstream, ctx, "filter", func(_ int, v T, _ ValueMeta) step[T] {
		if f.Predicate == nil || f.Predicate(v) {
			return step[T]{out: v, emit: true}
		}
		return step[T]{}
	})
}

// NewFilter builds a Filter operator from predicate.
func NewFilter[T any](predicate func(T) bool) Filter[T] { return Filter[T]{Predicate: predicate} }

// DelayWhile checks predicate(v) on every upstream value: a value for which
// it returns true is withheld, and a value for which it returns false passes
// through. A nil predicate lets every value through. This is a
// per-value gate, not a timer: it differs from a true "delay" operator in
// that it never re-emits the withheld value once the upstream has moved on
// to a later one — spec.md's coroutine-protocol operators have no timer
// primitive, so gating is evaluated synchronously per value rather than on
// a retry loop.
type DelayWhile[T any] struct {
	Predicate func(T) bool
}

// Apply implements Operator.
func (d DelayWhile[T]) Apply(upstream *AsyncIterator[T], ctx *PipelineContext) *AsyncIterator[T] {
	return runLoop(upstream, ctx, "delayWhile", func(_ int, v T, _ ValueMeta) step[T] {
		if d.Predicate != nil && d.Predicate(v) {
			return step[T]{}
		}
		return step[T]{out: v, emit: true}
	})
}

// NewDelayWhile builds a DelayWhile operator from predicate.
func NewDelayWhile[T any](predicate func(T) bool) DelayWhile[T] {
	return DelayWhile[T]{Predicate: predicate}
}
