// Package transmit pushes response bytes onto a connection's socket: plain
// sends, TLS-encrypted sends, scatter-gather header+body sends, and
// zero-copy file transmission, behind one contract.
//
// The package never blocks waiting for I/O readiness, never retries, and
// never buffers unsent bytes. Every call transfers what the socket will
// take right now and reports the rest through a fixed outcome vocabulary
// (see outcome.go); scheduling belongs entirely to the caller's connection
// state machine.
package transmit

import (
	"crypto/tls"
	"net"
	"os"
	"syscall"

	"github.com/watt-toolkit/filament/pkg/filament/socket"
)

// Sender selects how a file-backed response reaches the socket.
type Sender int

const (
	// SenderZeroCopy transmits the file with the platform sendfile
	// primitive. Only valid on plaintext connections with a raw
	// descriptor.
	SenderZeroCopy Sender = iota

	// SenderBuffered reads file chunks into a pooled buffer and sends
	// them like any other response bytes.
	SenderBuffered
)

// String returns the sender name.
func (s Sender) String() string {
	switch s {
	case SenderZeroCopy:
		return "zero-copy"
	case SenderBuffered:
		return "buffered"
	default:
		return "unknown"
	}
}

// Logger receives diagnostics for swallowed buffering-mode failures. Any
// Printf-style logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// ConnConfig configures a transmit connection. The zero value is a plain
// TCP connection in the shared event-loop profile.
type ConnConfig struct {
	// TLS is the established TLS session, if the connection is secured.
	// All sends then go through the encrypted path and zero-copy file
	// transmission is unavailable.
	TLS *tls.Conn

	// ThreadPerConn marks connections driven by a dedicated goroutine.
	// They get larger zero-copy chunks since blocking the caller briefly
	// costs nothing.
	ThreadPerConn bool

	// Logger, if set, receives mode-set diagnostics. Failures to toggle
	// buffering mode never affect transfers either way.
	Logger Logger
}

// Conn carries the per-connection transmission state: the socket handles,
// the cached buffering mode, the preferred file sender, and the position
// within a file-backed response. It references resources owned by the
// caller and never closes them.
//
// A Conn is not safe for concurrent use; the caller's state machine issues
// at most one transmission call at a time per connection. Distinct Conns
// share nothing.
type Conn struct {
	netConn net.Conn
	raw     syscall.RawConn // nil when netConn exposes no raw descriptor
	tlsConn *tls.Conn

	logger        Logger
	threadPerConn bool

	// Buffering-mode cache. Each platform uses at most one of the two;
	// the mode-set primitive is only invoked when the desired state
	// differs from the cached one.
	corked  bool
	noDelay bool

	sender Sender
	closed bool

	// File-backed response metadata, set by SetFileResponse.
	file           *os.File
	fileOffsetBase uint64
	totalSize      uint64
	writePos       uint64

	// Mode-set strategy, bound once at construction. Kept as function
	// values so tests can count actual mode transitions.
	setCork    func(on bool) error
	setNoDelay func(on bool) error
}

// NewConn wraps an accepted connection for transmission. nc should be the
// raw TCP connection even when cfg.TLS is set: the buffering-mode
// controller needs the underlying descriptor while the bytes themselves go
// through the TLS session.
//
// Connections without a raw descriptor (net.Pipe, user conns) still work:
// they take the generic writer path with no cork control or zero-copy.
func NewConn(nc net.Conn, cfg ConnConfig) *Conn {
	socket.Init()
	c := &Conn{
		netConn:       nc,
		tlsConn:       cfg.TLS,
		logger:        cfg.Logger,
		threadPerConn: cfg.ThreadPerConn,
		sender:        SenderBuffered,
	}
	if sc, ok := nc.(syscall.Conn); ok && socket.HasRawSend {
		if raw, err := sc.SyscallConn(); err == nil {
			c.raw = raw
		}
	}
	if c.raw != nil && socket.HasSendfile && c.tlsConn == nil {
		c.sender = SenderZeroCopy
	}
	c.setCork = func(on bool) error {
		return c.controlFd(func(fd int) error { return socket.SetCork(fd, on) })
	}
	c.setNoDelay = func(on bool) error {
		if c.raw != nil {
			return c.controlFd(func(fd int) error { return socket.SetNoDelay(fd, on) })
		}
		if tcp, ok := c.netConn.(*net.TCPConn); ok {
			return tcp.SetNoDelay(on)
		}
		return socket.ErrNotSupported
	}
	return c
}

// controlFd runs f against the raw descriptor without waiting for
// readiness.
func (c *Conn) controlFd(f func(fd int) error) error {
	if c.raw == nil {
		return socket.ErrNotSupported
	}
	var err error
	if cerr := c.raw.Control(func(fd uintptr) { err = f(int(fd)) }); cerr != nil {
		return cerr
	}
	return err
}

// SetFileResponse attaches a file-backed response: transmission starts at
// offsetBase within file and covers totalSize bytes. The write position
// resets to zero. The file stays owned by the caller.
func (c *Conn) SetFileResponse(file *os.File, offsetBase, totalSize uint64) {
	c.file = file
	c.fileOffsetBase = offsetBase
	c.totalSize = totalSize
	c.writePos = 0
}

// AdvanceWritePos moves the response write position forward by n bytes, as
// reported by a transmission call. The position is monotonic and never
// passes the total size.
func (c *Conn) AdvanceWritePos(n int64) {
	if n <= 0 {
		return
	}
	c.writePos += uint64(n)
	if c.writePos > c.totalSize {
		c.writePos = c.totalSize
	}
}

// WritePos returns the current write position within the response.
func (c *Conn) WritePos() uint64 { return c.writePos }

// Remaining returns the unsent byte count of the response.
func (c *Conn) Remaining() uint64 { return c.totalSize - c.writePos }

// Sender returns the preferred file transmission strategy. It starts as
// SenderZeroCopy where the platform and connection allow it, and is
// permanently downgraded to SenderBuffered when zero-copy transmission
// reports an unsupported or uncooperative condition.
func (c *Conn) Sender() Sender { return c.sender }

// SetSender overrides the preferred file transmission strategy. A
// SenderZeroCopy request on a connection that cannot do zero-copy is
// downgraded again on the next SendFile call.
func (c *Conn) SetSender(s Sender) { c.sender = s }

// MarkClosed marks the connection closed; every subsequent transmission
// call returns ErrNotConnected. The underlying socket is not touched.
func (c *Conn) MarkClosed() { c.closed = true }

// logModeError reports a swallowed mode-set failure. Unsupported
// primitives are expected on some platforms and stay quiet.
func (c *Conn) logModeError(op string, err error) {
	if c.logger == nil || err == socket.ErrNotSupported {
		return
	}
	c.logger.Printf("transmit: %s failed: %v", op, err)
}
