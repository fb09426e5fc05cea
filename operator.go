package flowcore

// Operator transforms an upstream AsyncIterator into a downstream one. An
// operator is applied once per subscription (it owns no state shared across
// subscriptions); Apply starts whatever goroutine(s) it needs to drain
// upstream and push downstream, and must return promptly, not block until
// upstream completes.
//
// Grounded on the teacher's Workers[R] contract (accept a context and a
// queue of input, produce a queue of results) generalized from "pool of N
// uniform workers on a task queue" to "one operator transforming one
// iterator", since the stream pipeline composes operators serially rather
// than fanning a task queue out across a worker pool (mergeMap in
// operators_mergemap.go is the one operator that reintroduces a worker-pool
// style fan-out internally).
type Operator[In, Out any] interface {
	// Apply consumes upstream, returning a new iterator of Out values.
	// ctx carries the PipelineContext so an operator can register itself
	// (name, index) for metadata/introspection and reach the coroutine pool
	// if it offloads per-value work.
	Apply(upstream *AsyncIterator[In], ctx *PipelineContext) *AsyncIterator[Out]
}

// OperatorFunc adapts a plain function to the Operator interface.
type OperatorFunc[In, Out any] func(upstream *AsyncIterator[In], ctx *PipelineContext) *AsyncIterator[Out]

// Apply implements Operator.
func (f OperatorFunc[In, Out]) Apply(upstream *AsyncIterator[In], ctx *PipelineContext) *AsyncIterator[Out] {
	return f(upstream, ctx)
}

// PipelineContext is threaded through every operator's Apply call. It
// tracks the operator's position for ValueMeta (operatorIndex/operatorName),
// holds the Scheduler all receivers in this pipeline deliver through, and
// optionally a CoroutinePool an operator can offload work to.
//
// Grounded on the teacher's Config (immutable options threaded into every
// worker at construction) generalized from "pool-wide tuning knobs" to
// "per-pipeline identity and shared services".
type PipelineContext struct {
	Scheduler *Scheduler
	Pool      *CoroutinePool
	Hooks     *RuntimeHooks

	index int
	names []string
}

// NewPipelineContext creates a context for a fresh pipeline run, rooted at
// sched. pool and hooks may be nil.
func NewPipelineContext(sched *Scheduler, pool *CoroutinePool, hooks *RuntimeHooks) *PipelineContext {
	return &PipelineContext{Scheduler: sched, Pool: pool, Hooks: hooks}
}

// register assigns the next operator index to name and returns it, used by
// each operator's Apply to tag the ValueMeta it produces.
func (c *PipelineContext) register(name string) int {
	idx := c.index
	c.index++
	c.names = append(c.names, name)
	if c.Hooks != nil {
		c.Hooks.firePipeOperator(name, idx)
	}
	return idx
}

// OperatorNames returns the operator names registered so far, in pipeline
// order, for introspection.
func (c *PipelineContext) OperatorNames() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Pipe applies a single operator to upstream and returns its downstream
// iterator. It is the building block Pipe2.../PipeN (below) compose.
func Pipe[In, Out any](upstream *AsyncIterator[In], op Operator[In, Out], ctx *PipelineContext) *AsyncIterator[Out] {
	return op.Apply(upstream, ctx)
}

// Pipe2 composes two operators in sequence: A -> B -> C.
func Pipe2[A, B, C any](upstream *AsyncIterator[A], op1 Operator[A, B], op2 Operator[B, C], ctx *PipelineContext) *AsyncIterator[C] {
	return Pipe(Pipe(upstream, op1, ctx), op2, ctx)
}

// Pipe3 composes three operators in sequence.
func Pipe3[A, B, C, D any](upstream *AsyncIterator[A], op1 Operator[A, B], op2 Operator[B, C], op3 Operator[C, D], ctx *PipelineContext) *AsyncIterator[D] {
	return Pipe(Pipe2(upstream, op1, op2, ctx), op3, ctx)
}

// Pipe4 composes four operators in sequence.
func Pipe4[A, B, C, D, E any](upstream *AsyncIterator[A], op1 Operator[A, B], op2 Operator[B, C], op3 Operator[C, D], op4 Operator[D, E], ctx *PipelineContext) *AsyncIterator[E] {
	return Pipe(Pipe3(upstream, op1, op2, op3, ctx), op4, ctx)
}
