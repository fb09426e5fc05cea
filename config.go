package flowcore

// CoroutinePoolConfig holds CoroutinePool configuration.
//
// Grounded on the teacher's Config (config.go): the same buffer-size-per-
// channel knobs, pared down to what a coroutine pool actually needs (no
// StopOnError/PreserveOrder — those are now operator concerns: Select and
// the scheduler's natural FIFO already give deterministic ordering, and
// an upstream error already ends a pipeline via the Receiver contract).
type CoroutinePoolConfig struct {
	// MaxWorkers caps the pool size. Zero (default) means a dynamically
	// sized pool that grows on demand and never blocks Submit.
	MaxWorkers uint

	// MessageBufferSize sizes each Submit call's private message channel.
	// Default: 16.
	MessageBufferSize uint
}

// defaultCoroutinePoolConfig centralizes CoroutinePoolConfig defaults.
func defaultCoroutinePoolConfig() CoroutinePoolConfig {
	return CoroutinePoolConfig{
		MaxWorkers:        0,
		MessageBufferSize: 16,
	}
}

func (c CoroutinePoolConfig) withDefaults() CoroutinePoolConfig {
	if c.MessageBufferSize == 0 {
		c.MessageBufferSize = defaultCoroutinePoolConfig().MessageBufferSize
	}
	return c
}
