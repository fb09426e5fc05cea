package flowcore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebounceEmitsOnlyAfterQuietPeriod(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := NewAsyncIterator[int](WithBufferSize(4))

	down := NewDebounce[int](30 * time.Millisecond).Apply(up, ctx)

	go func() {
		up.Push(NextStamp(), 1)
		up.Push(NextStamp(), 2)
		time.Sleep(10 * time.Millisecond)
		up.Push(NextStamp(), 3)
		time.Sleep(50 * time.Millisecond)
		up.Push(NextStamp(), 4)
		up.Finish()
	}()

	got, err := drain(down)
	require.NoError(t, err)
	require.Equal(t, []int{3, 4}, got)
}
