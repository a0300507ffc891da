// Package socket provides the platform capability layer for the filament
// transmission engine: corking primitives, raw sends, scatter-gather sends,
// and zero-copy sendfile, selected per platform at build time and exposed
// behind one normalized signature set.
//
// Capability constants (HasCork, HasMsgMore, HasSendBuffers, HasSendfile,
// HasRawSend) tell the transmit layer which paths exist on the running
// platform. Callers never see a platform error convention: every primitive
// here returns a byte count plus a plain errno-style error, and partial
// progress is reported in the count even when the underlying call failed.
package socket

import (
	"errors"
	"sync"
)

// ErrNotSupported is returned by primitives that do not exist on the
// running platform. The transmit layer treats it as a permanent signal to
// route around the missing capability, never as a connection error.
var ErrNotSupported = errors.New("socket: not supported on this platform")

// Sendfile chunk sizes. A single zero-copy call is bounded so one fast
// connection cannot occupy the calling thread indefinitely: event-loop
// callers get 128KiB slices, thread-per-connection callers can afford 2MiB.
const (
	SendfileChunk              = 0x20000  // 128 KiB
	SendfileChunkThreadPerConn = 0x200000 // 2 MiB
)

var initOnce sync.Once

// Init precomputes process-wide platform flags (currently the FreeBSD
// sendfile readahead flags, derived from the system page size). It must run
// before the first Sendfile call and is safe to call from multiple
// goroutines; all but the first call are no-ops.
func Init() {
	initOnce.Do(initPlatform)
}
