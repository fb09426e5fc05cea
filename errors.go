package flowcore

import "errors"

// Namespace prefixes every sentinel error flowcore defines, so a caller can
// recognize the source of an error message without depending on a type.
const Namespace = "flowcore"

var (
	// ErrNoElements is returned by Last when upstream completes without ever
	// emitting a value.
	ErrNoElements = errors.New(Namespace + ": No elements in sequence")

	// ErrInvalidIndex is returned by elementAt/nth for a negative index.
	ErrInvalidIndex = errors.New(Namespace + ": Invalid index")

	// ErrUnsubscribed is returned by operations attempted against an
	// iterator or subscription that has already torn down.
	ErrUnsubscribed = errors.New(Namespace + ": iterator unsubscribed")

	// ErrSchedulerClosed is returned by Enqueue once the scheduler has been
	// shut down and will not run further tasks.
	ErrSchedulerClosed = errors.New(Namespace + ": scheduler closed")

	// ErrPoolFinalized is returned when a task is submitted to a coroutine
	// pool after Close has been called.
	ErrPoolFinalized = errors.New(Namespace + ": coroutine pool finalized")

	// ErrWorkerSeized is returned when Seize is called on a pool with no
	// idle worker available to dedicate.
	ErrWorkerSeized = errors.New(Namespace + ": no worker available to seize")

	// ErrInvalidConfig is not returned by any function in this package;
	// WithFixedWorkers(0) panics with a plain message instead.
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")

	// ErrEmptySource is returned by converters (query, FirstValueFrom) when
	// the source completes without ever emitting a value.
	ErrEmptySource = errors.New(Namespace + ": source completed with no values")
)
