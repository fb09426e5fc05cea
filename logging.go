package flowcore

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Teacher's worker pool has no logging dependency of its own: panics and
// failures flow through channels only. flowcore is a library other
// processes embed, so its internal failures (a swallowed receiver panic, a
// scheduler task that errored, a coroutine worker that died) need a
// structured sink a host application can wire up, rather than silently
// vanishing or writing to stderr. logrus is the ecosystem choice here
// because it is what the two largest repos in the reference pack
// (getsops-sops and linkerd-linkerd2) already use for exactly this kind of
// "library emits diagnostics, host decides where they go" logging.

var logMu sync.RWMutex
var log = logrus.StandardLogger()

// SetLogger replaces the logger flowcore uses for internal diagnostics.
// The only messages logged are panics from receiver callbacks that safeCall
// recovers and swallows. It
// has replace semantics, matching the runtime hooks slot in hooks.go: the
// last caller wins, there is no merging of multiple loggers.
func SetLogger(l *logrus.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	if l == nil {
		l = logrus.StandardLogger()
	}
	log = l
}

func logger() *logrus.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return log
}
