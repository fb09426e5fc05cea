package flowcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplaySubjectReplaysBufferedValues(t *testing.T) {
	sched := NewScheduler()
	defer sched.Close()

	r := NewReplaySubject[int](sched, 2)
	r.Next(1)
	r.Next(2)
	r.Next(3) // evicts 1, bufferSize is 2

	var got []int
	sub := r.Subscribe(Receiver[int]{Next: func(v int) error { got = append(got, v); return nil }})
	defer sub.Unsubscribe()

	require.Equal(t, []int{2, 3}, got)
}

func TestReplaySubjectUnboundedKeepsEverything(t *testing.T) {
	sched := NewScheduler()
	defer sched.Close()

	r := NewReplaySubject[int](sched, 0)
	for i := 0; i < 5; i++ {
		r.Next(i)
	}

	var got []int
	sub := r.Subscribe(Receiver[int]{Next: func(v int) error { got = append(got, v); return nil }})
	defer sub.Unsubscribe()

	require.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestReplaySubjectEmptyBufferSubscribesNormally(t *testing.T) {
	sched := NewScheduler()
	defer sched.Close()

	r := NewReplaySubject[int](sched, 3)

	var got []int
	sub := r.Subscribe(Receiver[int]{Next: func(v int) error { got = append(got, v); return nil }})
	defer sub.Unsubscribe()

	r.Next(42)
	<-sched.Flush()

	require.Equal(t, []int{42}, got)
}
