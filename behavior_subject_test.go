package flowcore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBehaviorSubjectNoInitialValue(t *testing.T) {
	sched := NewScheduler()
	defer sched.Close()

	b := NewBehaviorSubject[int](sched)
	_, has := b.Value()
	require.False(t, has)

	var got []int
	sub := b.Subscribe(Receiver[int]{Next: func(v int) error { got = append(got, v); return nil }})
	defer sub.Unsubscribe()

	require.Empty(t, got, "subscribing before any Next should replay nothing")
}

func TestBehaviorSubjectReplaysCurrentValue(t *testing.T) {
	sched := NewScheduler()
	defer sched.Close()

	b := NewBehaviorSubject[int](sched)
	b.Next(1)
	b.Next(2)

	var mu sync.Mutex
	var got []int
	sub := b.Subscribe(Receiver[int]{Next: func(v int) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, v)
		return nil
	}})
	defer sub.Unsubscribe()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{2}, got, "new subscriber should see only the latest value")
}

func TestBehaviorSubjectWithInitialValue(t *testing.T) {
	sched := NewScheduler()
	defer sched.Close()

	b := NewBehaviorSubjectWithValue(sched, 9)
	v, has := b.Value()
	require.True(t, has)
	require.Equal(t, 9, v)
}
