package flowcore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSchedulerEnqueueRunsInOrder(t *testing.T) {
	s := NewScheduler()
	defer s.Close()

	var order []int
	done := make(chan struct{})

	for i := 0; i < 5; i++ {
		i := i
		Enqueue(s, func() (int, error) {
			order = append(order, i)
			if i == 4 {
				close(done)
			}
			return i, nil
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tasks")
	}

	require.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestSchedulerEnqueueReturnsResult(t *testing.T) {
	s := NewScheduler()
	defer s.Close()

	r := <-Enqueue(s, func() (int, error) { return 42, nil })
	require.NoError(t, r.Err)
	require.Equal(t, 42, r.Value)
}

func TestSchedulerEnqueueRecoversPanic(t *testing.T) {
	s := NewScheduler()
	defer s.Close()

	r := <-Enqueue(s, func() (int, error) { panic("boom") })
	require.Error(t, r.Err)
}

func TestSchedulerEnqueuePropagatesError(t *testing.T) {
	s := NewScheduler()
	defer s.Close()

	wantErr := errors.New("task failed")
	r := <-Enqueue(s, func() (int, error) { return 0, wantErr })
	require.ErrorIs(t, r.Err, wantErr)
}

func TestSchedulerCloseRejectsFurtherEnqueue(t *testing.T) {
	s := NewScheduler()
	s.Close()

	r := <-Enqueue(s, func() (int, error) { return 1, nil })
	require.ErrorIs(t, r.Err, ErrSchedulerClosed)
}

func TestSchedulerFlushOnEmptyQueue(t *testing.T) {
	s := NewScheduler()
	defer s.Close()

	select {
	case <-s.Flush():
	case <-time.After(time.Second):
		t.Fatal("Flush on an empty scheduler should resolve immediately")
	}
}

func TestSchedulerFlushWaitsForPending(t *testing.T) {
	s := NewScheduler()
	defer s.Close()

	release := make(chan struct{})
	future := Enqueue(s, func() (struct{}, error) {
		<-release
		return struct{}{}, nil
	})

	flushed := s.Flush()
	select {
	case <-flushed:
		t.Fatal("Flush resolved before the pending task finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)

	select {
	case <-flushed:
	case <-time.After(time.Second):
		t.Fatal("Flush never resolved after the pending task finished")
	}

	<-future
}
