package flowcore

import (
	"sync"
	"time"
)

// Stamp is a positive, strictly monotonic integer ordering all emissions
// process-wide. Two emissions on the same stream compare by Stamp exactly
// as they compare by causal order.
type Stamp int64

// NoStamp is the zero value meaning "no ambient stamp is bound".
const NoStamp Stamp = 0

var stampRegistry = newStampState()

type stampState struct {
	mu   sync.Mutex
	last Stamp
}

func newStampState() *stampState { return &stampState{} }

// nextStamp returns a strictly increasing Stamp. It uses the wall clock
// (time.Now().UnixNano(), which does not use the monotonic reading); if the
// clock has not advanced past the previous stamp, the previous stamp is
// incremented by one so the sequence never repeats or goes backwards.
func (s *stampState) nextStamp() Stamp {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := Stamp(time.Now().UnixNano())
	if candidate <= s.last {
		candidate = s.last + 1
	}
	s.last = candidate
	return candidate
}

// NextStamp returns a new process-wide monotonic Stamp.
func NextStamp() Stamp { return stampRegistry.nextStamp() }

// ambientStamp is the "current emission stamp" for the synchronous and
// awaited extent of a computation. Go has no goroutine-local storage, so
// the ambient value is carried explicitly by a package-level slot guarded
// by a mutex, matching the design note in SPEC_FULL.md §9: the stamp is
// threaded through the operator/receiver call chain rather than relying on
// a per-task local. This is safe because the scheduler (scheduler.go) only
// ever runs one task's synchronous extent at a time, and withStamp nests
// correctly via save/restore.
var ambient struct {
	mu    sync.Mutex
	stamp Stamp
	set   bool
}

// CurrentStamp returns the ambient stamp for the active emission context,
// or (NoStamp, false) if none is bound.
func CurrentStamp() (Stamp, bool) {
	ambient.mu.Lock()
	defer ambient.mu.Unlock()
	return ambient.stamp, ambient.set
}

// WithStamp binds s as the ambient stamp for fn's extent, restoring the
// previous ambient stamp (bound or not) on return, including on panic.
func WithStamp(s Stamp, fn func()) {
	ambient.mu.Lock()
	prevStamp, prevSet := ambient.stamp, ambient.set
	ambient.stamp, ambient.set = s, true
	ambient.mu.Unlock()

	defer func() {
		ambient.mu.Lock()
		ambient.stamp, ambient.set = prevStamp, prevSet
		ambient.mu.Unlock()
	}()

	fn()
}

// iteratorStamps attaches the last-delivered Stamp to an iterator identity
// so a consumer of next() can restore the ambient stamp it observed.
var iteratorStamps = struct {
	mu   sync.Mutex
	byID map[uint64]Stamp
}{byID: make(map[uint64]Stamp)}

// setIteratorStamp records the last stamp delivered through iterator id.
func setIteratorStamp(id uint64, s Stamp) {
	iteratorStamps.mu.Lock()
	iteratorStamps.byID[id] = s
	iteratorStamps.mu.Unlock()
}

// getIteratorStamp returns the last stamp recorded for iterator id.
func getIteratorStamp(id uint64) (Stamp, bool) {
	iteratorStamps.mu.Lock()
	defer iteratorStamps.mu.Unlock()
	s, ok := iteratorStamps.byID[id]
	return s, ok
}

// clearIteratorStamp forgets iterator id's recorded stamp. It is called
// when Next returns the iterator's terminal result; Stop alone does not
// call it.
func clearIteratorStamp(id uint64) {
	iteratorStamps.mu.Lock()
	delete(iteratorStamps.byID, id)
	iteratorStamps.mu.Unlock()
}
