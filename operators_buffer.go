package flowcore

import "github.com/google/uuid"

// BufferCount collects upstream values into fixed-size slices, emitting one
// []T downstream every Size values. If Size values never arrive before
// upstream completes, the trailing partial buffer is emitted as a final,
// shorter slice (unless it is empty).
//
// Grounded on the teacher's reorderer buffering (map[int]R accumulating
// until a condition is met, then flushed): BufferCount replaces "flush when
// contiguous" with "flush when Size items have accumulated".
type BufferCount[T any] struct {
	Size int
}

// Apply implements Operator.
func (b BufferCount[T]) Apply(upstream *AsyncIterator[T], ctx *PipelineContext) *AsyncIterator[[]T] {
	opIndex := ctx.register("bufferCount")
	down := NewAsyncIterator[[]T](WithBufferSize(4))

	size := b.Size
	if size < 1 {
		size = 1
	}

	go func() {
		buf := make([]T, 0, size)
		var inputs []uuid.UUID

		flush := func() {
			if len(buf) == 0 {
				return
			}
			out := make([]T, len(buf))
			copy(out, buf)
			meta := RecordMeta(NewValueMeta(opIndex, "bufferCount", KindCollapse, inputs...))
			down.Push(meta.Stamp, out)
			buf = buf[:0]
			inputs = nil
		}

		for {
			res := upstream.Next()
			if res.Done {
				flush()
				if res.Err != nil {
					down.Fail(res.Err)
				} else {
					down.Finish()
				}
				return
			}
			buf = append(buf, res.Value)
			inputs = append(inputs, uuid.New())
			if len(buf) == size {
				flush()
			}
		}
	}()

	return down
}

// NewBufferCount builds a BufferCount operator emitting slices of size n.
func NewBufferCount[T any](n int) BufferCount[T] { return BufferCount[T]{Size: n} }
