package flowcore

// CoroutinePoolOption configures a CoroutinePoolConfig via the functional
// options pattern, matching the teacher's Option func(*configOptions)
// shape (options.go) one-to-one.
type CoroutinePoolOption func(*CoroutinePoolConfig)

// WithFixedWorkers selects a fixed-capacity pool of n workers (n must be >
// 0; applying WithFixedWorkers(0), as NewCoroutinePoolWithOptions does,
// panics the way the teacher's WithFixedPool does).
func WithFixedWorkers(n uint) CoroutinePoolOption {
	return func(c *CoroutinePoolConfig) {
		if n == 0 {
			panic(Namespace + ": WithFixedWorkers requires n > 0")
		}
		c.MaxWorkers = n
	}
}

// WithDynamicWorkers selects a dynamically sized pool (the default).
func WithDynamicWorkers() CoroutinePoolOption {
	return func(c *CoroutinePoolConfig) { c.MaxWorkers = 0 }
}

// WithMessageBuffer sets the per-Submit message channel buffer size.
func WithMessageBuffer(size uint) CoroutinePoolOption {
	return func(c *CoroutinePoolConfig) { c.MessageBufferSize = size }
}

// NewCoroutinePoolWithOptions builds a CoroutinePool from functional
// options, applied over defaultCoroutinePoolConfig().
func NewCoroutinePoolWithOptions(opts ...CoroutinePoolOption) *CoroutinePool {
	cfg := defaultCoroutinePoolConfig()
	for _, opt := range opts {
		if opt == nil {
			panic(Namespace + ": nil CoroutinePoolOption")
		}
		opt(&cfg)
	}
	return NewCoroutinePool(cfg)
}
