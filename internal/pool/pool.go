// Package pool backs flowcore's coroutine pool (see coroutine.go) with a
// reusable slot of worker objects: either a fixed-capacity pool that blocks
// once exhausted, or a dynamic pool that grows on demand via sync.Pool.
package pool

// Pool is an interface that defines methods on a pool of workers.
type Pool interface {
	// Get returns a worker from the pool, blocking if the pool is fixed-
	// capacity and fully checked out.
	Get() interface{}

	// TryGet returns a worker without blocking. ok is false if none is
	// immediately available (used to implement "seize" semantics: a caller
	// that would rather fail fast than wait for a worker to free up).
	TryGet() (worker interface{}, ok bool)

	// Put returns a worker back to the pool.
	Put(interface{})
}
