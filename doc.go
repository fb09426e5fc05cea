// Package flowcore implements a reactive push/pull streaming runtime: a
// composable chain of stateful operators over multicast Streams and
// imperative Subjects, with cooperative backpressure, deterministic
// ordering, multicast replay, cancellation, and introspection.
//
// Core pieces
//   - Stamp: a monotonic emission-ordering registry (stamp.go).
//   - Scheduler: a FIFO task queue with microtask-stable Flush (scheduler.go).
//   - Receiver/Subscription: consumer callback discipline and teardown
//     tokens (receiver.go, subscription.go).
//   - AsyncIterator: the pull/push queue backing every Stream, Subject,
//     and operator output (iterator.go).
//   - Stream / Subject / BehaviorSubject / ReplaySubject: multicast and
//     imperative sources (stream.go, subject.go, behavior_subject.go,
//     replay_subject.go).
//   - Operator: the upstream-iterator-to-downstream-iterator contract,
//     and the representative operators built on it (operator.go,
//     operators_*.go).
//   - Coroutine pool: worker offload for per-value tasks (coroutine.go).
//
// flowcore does not persist emissions, distribute across processes, or
// offer real-time guarantees; see SPEC_FULL.md for the full scope.
package flowcore
