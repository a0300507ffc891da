package transmit

import (
	"errors"
	"net"
	"os"
	"syscall"
)

// Transfer outcomes. Every transmission call returns a byte count plus at
// most one of these sentinels; a partial count with a nil error is a normal
// result, never an error. The connection state machine switches on these
// five values and nothing else: no platform errno crosses this boundary.
var (
	// ErrRetryNow means the call was interrupted before transferring
	// anything; retry immediately without waiting for a readiness signal.
	ErrRetryNow = errors.New("transmit: interrupted, retry immediately")

	// ErrRetryOnWritable means the socket cannot accept bytes right now;
	// retry after the next write-ready notification.
	ErrRetryOnWritable = errors.New("transmit: not writable, retry on write-ready")

	// ErrConnReset means the peer reset or closed the connection. Fatal.
	ErrConnReset = errors.New("transmit: connection reset by peer")

	// ErrNotConnected means the socket is invalid or the connection was
	// already marked closed. Fatal.
	ErrNotConnected = errors.New("transmit: socket not connected")

	// ErrBadDescriptor means an unrecoverable descriptor-level error. Fatal.
	ErrBadDescriptor = errors.New("transmit: bad descriptor")
)

// IsRetryable reports whether err asks the caller to re-invoke the
// transfer, either immediately or on the next write-ready notification.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRetryNow) || errors.Is(err, ErrRetryOnWritable)
}

// IsFatal reports whether err ends the connection. Exactly one of
// IsRetryable and IsFatal holds for every non-nil outcome.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConnReset) ||
		errors.Is(err, ErrNotConnected) ||
		errors.Is(err, ErrBadDescriptor)
}

// classifyErrno maps a raw send errno to the outcome vocabulary.
// Resource-exhaustion and interruption conditions always map to a retry
// outcome; only descriptor-level errors are allowed to be fatal.
func classifyErrno(e syscall.Errno) error {
	// EWOULDBLOCK is the same constant as EAGAIN on every platform with a
	// raw send path, so EAGAIN alone covers both spellings.
	switch e {
	case syscall.EAGAIN:
		return ErrRetryOnWritable
	case syscall.EINTR:
		return ErrRetryNow
	case syscall.ENOBUFS:
		return ErrRetryOnWritable
	case syscall.ECONNRESET, syscall.EPIPE:
		return ErrConnReset
	case syscall.EBADF:
		return ErrBadDescriptor
	default:
		// ENOTCONN and anything unexpected: the socket is unusable.
		return ErrNotConnected
	}
}

// classifyWriteErr maps an error from a net.Conn or tls.Conn write to the
// outcome vocabulary. Deadline expiry is how "not writable" surfaces on
// this path.
func classifyWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return ErrRetryOnWritable
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrRetryOnWritable
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return classifyErrno(errno)
	}
	return ErrNotConnected
}
