package flowcore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubjectDeliversToCurrentSubscribers(t *testing.T) {
	sched := NewScheduler()
	defer sched.Close()

	subj := NewSubject[int](sched)

	var mu sync.Mutex
	var got []int
	sub := subj.Subscribe(Receiver[int]{
		Next: func(v int) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, v)
			return nil
		},
	})
	defer sub.Unsubscribe()

	WithStamp(NextStamp(), func() {
		subj.Next(1)
		subj.Next(2)
	})

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{1, 2}, got)
}

func TestSubjectExcludesLateSubscriberFromInFlightCommit(t *testing.T) {
	sched := NewScheduler()
	defer sched.Close()

	subj := NewSubject[int](sched)

	// subscribedAt is stamped at Subscribe time; a subscriber joining after
	// a commit's stamp was minted must not see that commit.
	commitStamp := NextStamp()

	var mu sync.Mutex
	var got []int
	sub := subj.Subscribe(Receiver[int]{Next: func(v int) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, v)
		return nil
	}})
	defer sub.Unsubscribe()

	require.Empty(t, subj.eligibleReceivers(commitStamp), "a commit minted before Subscribe must not reach the new subscriber")

	subj.Next(10)
	<-sched.Flush()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{10}, got)
}

func TestSubjectCompleteIsTerminal(t *testing.T) {
	sched := NewScheduler()
	defer sched.Close()

	subj := NewSubject[int](sched)

	completed := false
	sub := subj.Subscribe(Receiver[int]{Complete: func() { completed = true }})
	defer sub.Unsubscribe()

	subj.Complete()
	subj.Next(1) // no-op after completion

	require.True(t, completed)
	require.True(t, subj.Completed())
}

func TestSubjectReplaysTerminalToLateSubscriber(t *testing.T) {
	sched := NewScheduler()
	defer sched.Close()

	subj := NewSubject[int](sched)
	subj.Complete()

	completed := false
	sub := subj.Subscribe(Receiver[int]{Complete: func() { completed = true }})
	defer sub.Unsubscribe()

	require.True(t, completed)
}
