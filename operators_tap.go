package flowcore

// Tap invokes Fn for its side effect on every upstream value, forwarding
// the value unchanged. A panic or error from Fn ends the stream with that
// error, matching every other operator's failure contract.
type Tap[T any] struct {
	Fn func(T) error
}

// Apply implements Operator.
func (t Tap[T]) Apply(upstream *AsyncIterator[T], ctx *PipelineContext) *AsyncIterator[T] {
	return runLoop(upstream, ctx, "tap", func(_ int, v T, _ ValueMeta) step[T] {
		if t.Fn != nil {
			if err := safeRunTap(t.Fn, v); err != nil {
				return step[T]{err: err}
			}
		}
		return step[T]{out: v, emit: true}
	})
}

// NewTap builds a Tap operator from fn.
func NewTap[T any](fn func(T) error) Tap[T] { return Tap[T]{Fn: fn} }

func safeRunTap[T any](fn func(T) error, v T) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &panicError{p}
		}
	}()
	return fn(v)
}
