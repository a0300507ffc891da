//go:build darwin || freebsd

package socket

import (
	"golang.org/x/sys/unix"
)

// Darwin and FreeBSD cork with TCP_NOPUSH and have no MSG_MORE, so plain
// sends go through the persistent cork state like every other path.
// SIGPIPE suppression is handled by SO_NOSIGPIPE (see tuning), not a send
// flag.
const (
	HasCork        = true
	HasMsgMore     = false
	HasSendBuffers = true
	HasRawSend     = true
)

// SetCork toggles TCP_NOPUSH on the socket.
func SetCork(fd int, on bool) error {
	v := 0
	if on {
		v = 1
	}
	return unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NOPUSH, v)
}

// SetNoDelay toggles TCP_NODELAY (Nagle's algorithm suppression).
func SetNoDelay(fd int, on bool) error {
	v := 0
	if on {
		v = 1
	}
	return unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, v)
}

// Send transmits p on the socket. The more hint is ignored: without
// MSG_MORE, coalescing is expressed through SetCork.
func Send(fd int, p []byte, more bool) (int, error) {
	_ = more
	return unix.SendmsgN(fd, p, nil, nil, 0)
}

// SendBuffers transmits bufs with a single scatter-gather sendmsg call.
// The returned count spans all buffers.
func SendBuffers(fd int, bufs [][]byte) (int, error) {
	return unix.SendmsgBuffers(fd, bufs, nil, nil, 0)
}
