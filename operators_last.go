package flowcore

import "github.com/google/uuid"

// Last withholds every upstream value until completion, then emits only the
// final one. If upstream completes having produced nothing, Last fails the
// stream with ErrNoElements rather than completing silently, matching the
// teacher's style of a named sentinel error for "nothing to report" (see
// errors.go) instead of a bare empty completion.
type Last[T any] struct{}

// Apply implements Operator.
func (Last[T]) Apply(upstream *AsyncIterator[T], ctx *PipelineContext) *AsyncIterator[T] {
	opIndex := ctx.register("last")
	down := NewAsyncIterator[T](WithBufferSize(1))

	go func() {
		var (
			have bool
			last T
			lastID uuid.UUID
		)
		for {
			res := upstream.Next()
			if res.Done {
				if res.Err != nil {
					down.Fail(res.Err)
					return
				}
				if !have {
					down.Fail(ErrNoElements)
					return
				}
				meta := RecordMeta(NewValueMeta(opIndex, "last", KindCollapse, lastID))
				down.Push(meta.Stamp, last)
				down.Finish()
				return
			}
			have = true
			last = res.Value
			lastID = uuid.New()
		}
	}()

	return down
}

// NewLast builds a Last operator.
func NewLast[T any]() Last[T] { return Last[T]{} }

// ElementAt emits only the value at zero-based position Index, then
// completes, ignoring every value before and after it. A negative Index is
// a configuration error reported via ErrInvalidIndex; an upstream that
// completes with fewer than Index+1 values fails the same way.
type ElementAt[T any] struct {
	Index int
}

// Apply implements Operator.
func (e ElementAt[T]) Apply(upstream *AsyncIterator[T], ctx *PipelineContext) *AsyncIterator[T] {
	opIndex := ctx.register("elementAt")
	down := NewAsyncIterator[T](WithBufferSize(1))

	if e.Index < 0 {
		go func() { down.Fail(ErrInvalidIndex) }()
		return down
	}

	go func() {
		idx := 0
		for {
			res := upstream.Next()
			if res.Done {
				if res.Err != nil {
					down.Fail(res.Err)
				} else {
					down.Fail(ErrInvalidIndex)
				}
				return
			}
			if idx == e.Index {
				meta := RecordMeta(NewValueMeta(opIndex, "elementAt", KindCollapse, uuid.New()))
				down.Push(meta.Stamp, res.Value)
				down.Finish()
				upstream.Stop()
				return
			}
			idx++
		}
	}()

	return down
}

// NewElementAt builds an ElementAt operator selecting position index.
func NewElementAt[T any](index int) ElementAt[T] { return ElementAt[T]{Index: index} }

// Nth is an alias for ElementAt, matching the terser vocabulary spec's
// operator table also lists it under.
func Nth[T any](index int) ElementAt[T] { return NewElementAt[T](index) }
