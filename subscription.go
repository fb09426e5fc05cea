package flowcore

import "sync"

// Subscription is an idempotent teardown token with an optional async
// cleanup thunk. unsubscribe() is safe to call any number of times and
// from any goroutine; only the first call runs cleanup.
//
// Grounded on the teacher's lifecycle.go sync.Once-guarded shutdown
// sequencing, scaled from "multi-step pool shutdown" to "single cleanup
// thunk".
type Subscription struct {
	mu      sync.Mutex
	torn    bool
	once    sync.Once
	cleanup func()
	sched   *Scheduler
}

// NewSubscription creates a Subscription. cleanup may be nil. If sched is
// non-nil, cleanup runs via the scheduler (matching the teacher's pattern
// of running lifecycle cleanup off the caller's goroutine); otherwise it
// runs synchronously and inline.
func NewSubscription(sched *Scheduler, cleanup func()) *Subscription {
	return &Subscription{cleanup: cleanup, sched: sched}
}

// Unsubscribed reports whether Unsubscribe has been called. It flips to
// true synchronously on the first call, before cleanup runs, so delivery
// loops can observe abort immediately.
func (s *Subscription) Unsubscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.torn
}

// Unsubscribe tears the subscription down. Idempotent: only the first call
// flips the flag and runs cleanup; subsequent calls are no-ops. Any panic
// from cleanup is logged and swallowed, matching the teacher's "cleanup
// failure is logged, state still transitions" policy.
func (s *Subscription) Unsubscribe() {
	s.mu.Lock()
	s.torn = true
	s.mu.Unlock()

	s.once.Do(func() {
		if s.cleanup == nil {
			return
		}
		if s.sched != nil {
			_, _ = s.sched.Enqueue(func() (struct{}, error) {
				safeCall(s.cleanup)
				return struct{}{}, nil
			})
			return
		}
		safeCall(s.cleanup)
	})
}
