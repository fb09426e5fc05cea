package flowcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubscriptionCleanupRunsOnce(t *testing.T) {
	calls := 0
	sub := NewSubscription(nil, func() { calls++ })

	require.False(t, sub.Unsubscribed())

	sub.Unsubscribe()
	sub.Unsubscribe()
	sub.Unsubscribe()

	require.True(t, sub.Unsubscribed())
	require.Equal(t, 1, calls)
}

func TestSubscriptionNilCleanup(t *testing.T) {
	sub := NewSubscription(nil, nil)
	require.NotPanics(t, func() { sub.Unsubscribe() })
	require.True(t, sub.Unsubscribed())
}

func TestSubscriptionViaScheduler(t *testing.T) {
	s := NewScheduler()
	defer s.Close()

	done := make(chan struct{})
	sub := NewSubscription(s, func() { close(done) })
	sub.Unsubscribe()

	<-done
}
