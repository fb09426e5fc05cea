package flowcore

import (
	"sync"

	"github.com/google/uuid"
)

// ValueKind classifies how an operator produced a downstream value from its
// upstream input(s).
type ValueKind string

const (
	// KindTransform: exactly one upstream value produced exactly one
	// downstream value (filter, delayWhile, tap, unique, select,
	// withLatestFrom).
	KindTransform ValueKind = "transform"
	// KindCollapse: one or more upstream values were folded into a single
	// downstream value (bufferCount, last, debounce, elementAt).
	KindCollapse ValueKind = "collapse"
	// KindExpand: one upstream value produced zero or more downstream
	// values across time (mergeMap, selectMany-style operators).
	KindExpand ValueKind = "expand"
)

// ValueMeta is the provenance record attached to every value an operator
// emits downstream: which operator produced it, at what position in the
// pipeline, what kind of production it was, and which upstream value(s) it
// was derived from.
type ValueMeta struct {
	ValueID       uuid.UUID
	OperatorIndex int
	OperatorName  string
	Kind          ValueKind
	InputValueIDs []uuid.UUID
	Stamp         Stamp
}

// NewValueMeta builds a ValueMeta for a freshly produced value, stamping it
// with a new UUID and a freshly minted process-wide Stamp (NextStamp).
func NewValueMeta(opIndex int, opName string, kind ValueKind, inputs ...uuid.UUID) ValueMeta {
	return ValueMeta{
		ValueID:       uuid.New(),
		OperatorIndex: opIndex,
		OperatorName:  opName,
		Kind:          kind,
		InputValueIDs: inputs,
		Stamp:         NextStamp(),
	}
}

// metadataArena is a side-band table mapping a value's identity to its
// ValueMeta, keyed by the value's ValueID. Values themselves travel through
// Receiver[T]/AsyncIterator[T] unwrapped (T stays the user's type); a
// parallel arena avoids forcing every operator to thread a branded wrapper
// struct through its generic signature, which would leak into every call
// site in operators_*.go. This is the resolution of the design question
// recorded in DESIGN.md: metadata rides beside the value, not inside it.
//
// Grounded on the teacher's correlation-by-id approach in error_tagging.go
// (task index/id attached to an error after the fact via a lookup), scaled
// here from "one id per task" to "one id per emitted value".
type metadataArena struct {
	mu      sync.Mutex
	byValue map[uuid.UUID]ValueMeta
}

var arena = &metadataArena{byValue: make(map[uuid.UUID]ValueMeta)}

// record stores meta, keyed by its own ValueID, returning meta unchanged
// for convenient chaining at the call site.
func (a *metadataArena) record(meta ValueMeta) ValueMeta {
	a.mu.Lock()
	a.byValue[meta.ValueID] = meta
	a.mu.Unlock()
	return meta
}

// lookup returns the recorded ValueMeta for id, if any.
func (a *metadataArena) lookup(id uuid.UUID) (ValueMeta, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.byValue[id]
	return m, ok
}

// forget removes id's recorded metadata. No operator calls it: a recorded
// entry stays in the arena until a caller forgets it (see ForgetMeta), so
// the arena grows with every emitted value otherwise.
func (a *metadataArena) forget(id uuid.UUID) {
	a.mu.Lock()
	delete(a.byValue, id)
	a.mu.Unlock()
}

// RecordMeta attaches meta to the shared arena; LookupMeta and ForgetMeta
// are its public read/evict counterparts, used by operators and by callers
// inspecting a Stream's provenance for debugging or introspection tooling.
func RecordMeta(meta ValueMeta) ValueMeta        { return arena.record(meta) }
func LookupMeta(id uuid.UUID) (ValueMeta, bool)  { return arena.lookup(id) }
func ForgetMeta(id uuid.UUID)                    { arena.forget(id) }
