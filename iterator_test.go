package flowcore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAsyncIteratorPushNext(t *testing.T) {
	it := NewAsyncIterator[int](WithBufferSize(1))

	go func() {
		it.Push(NextStamp(), 7)
		it.Finish()
	}()

	res := it.Next()
	require.False(t, res.Done)
	require.Equal(t, 7, res.Value)

	res = it.Next()
	require.True(t, res.Done)
	require.NoError(t, res.Err)
}

func TestAsyncIteratorFail(t *testing.T) {
	it := NewAsyncIterator[int]()
	wantErr := errors.New("boom")

	go it.Fail(wantErr)

	res := it.Next()
	require.True(t, res.Done)
	require.ErrorIs(t, res.Err, wantErr)
}

func TestAsyncIteratorStopUnblocksNext(t *testing.T) {
	it := NewAsyncIterator[int]()

	done := make(chan IteratorResult[int], 1)
	go func() { done <- it.Next() }()

	time.Sleep(20 * time.Millisecond)
	it.Stop()

	select {
	case res := <-done:
		require.True(t, res.Done)
		require.ErrorIs(t, res.Err, ErrUnsubscribed)
	case <-time.After(time.Second):
		t.Fatal("Stop did not unblock a pending Next")
	}
}

func TestAsyncIteratorTryNext(t *testing.T) {
	it := NewAsyncIterator[int](WithBufferSize(1))

	_, ok := it.TryNext()
	require.False(t, ok, "TryNext should report no value ready yet")

	it.Push(NextStamp(), 3)

	res, ok := it.TryNext()
	require.True(t, ok)
	require.Equal(t, 3, res.Value)
}

func TestAsyncIteratorDrainsBufferedValuesBeforeTerminal(t *testing.T) {
	it := NewAsyncIterator[int](WithBufferSize(16))

	// Push several values and finish without the consumer ever pulling, so
	// it.values and it.errc are simultaneously ready when Next is first
	// called: every buffered value must still come out before Done.
	for i := 1; i <= 5; i++ {
		it.Push(NextStamp(), i)
	}
	it.Finish()

	var got []int
	for {
		res := it.Next()
		if res.Done {
			require.NoError(t, res.Err)
			break
		}
		got = append(got, res.Value)
	}

	require.Equal(t, []int{1, 2, 3, 4, 5}, got)
}

func TestAsyncIteratorDrainsBufferedValuesBeforeFailure(t *testing.T) {
	it := NewAsyncIterator[int](WithBufferSize(16))
	wantErr := errors.New("boom")

	for i := 1; i <= 3; i++ {
		it.Push(NextStamp(), i)
	}
	it.Fail(wantErr)

	var got []int
	for {
		res := it.Next()
		if res.Done {
			require.ErrorIs(t, res.Err, wantErr)
			break
		}
		got = append(got, res.Value)
	}

	require.Equal(t, []int{1, 2, 3}, got)
}

func TestAsyncIteratorTryNextDrainsBufferedValuesBeforeTerminal(t *testing.T) {
	it := NewAsyncIterator[int](WithBufferSize(16))

	it.Push(NextStamp(), 1)
	it.Push(NextStamp(), 2)
	it.Finish()

	res, ok := it.TryNext()
	require.True(t, ok)
	require.False(t, res.Done)
	require.Equal(t, 1, res.Value)

	res, ok = it.TryNext()
	require.True(t, ok)
	require.False(t, res.Done)
	require.Equal(t, 2, res.Value)

	res, ok = it.TryNext()
	require.True(t, ok)
	require.True(t, res.Done)
}

func TestAsyncIteratorPushAfterStopIsNoop(t *testing.T) {
	it := NewAsyncIterator[int]()
	it.Stop()

	pushed := make(chan struct{})
	go func() {
		it.Push(NextStamp(), 1)
		close(pushed)
	}()

	select {
	case <-pushed:
	case <-time.After(time.Second):
		t.Fatal("Push after Stop should return promptly")
	}
}
