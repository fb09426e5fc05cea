package flowcore

// Unique suppresses values whose key, as computed by KeyFn, has already
// been seen. KeyFn is required: Apply calls it for every value, and there is
// no fallback that uses the value itself as the key when KeyFn is nil. The
// set of seen keys lives for the whole subscription and is never trimmed. A
// suppressed duplicate never reaches downstream, and no ValueMeta is
// recorded for it.
type Unique[T any, K comparable] struct {
	KeyFn func(T) K
}

// Apply implements Operator.
func (u Unique[T, K]) Apply(upstream *AsyncIterator[T], ctx *PipelineContext) *AsyncIterator[T] {
	seen := make(map[K]struct{})

	return runLoop(upstream, ctx, "unique", func(_ int, v T, _ ValueMeta) step[T] {
		k := u.KeyFn(v)
		if _, ok := seen[k]; ok {
			return step[T]{}
		}
		seen[k] = struct{}{}
		return step[T]{out: v, emit: true}
	})
}

// NewUnique builds a Unique operator keyed by keyFn.
func NewUnique[T any, K comparable](keyFn func(T) K) Unique[T, K] {
	return Unique[T, K]{KeyFn: keyFn}
}
