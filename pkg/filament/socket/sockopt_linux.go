//go:build linux

package socket

import (
	"golang.org/x/sys/unix"
)

// Linux has the richest buffering toolbox: TCP_CORK for persistent corking
// and MSG_MORE for per-call corking on plain sends. When MSG_MORE covers a
// path, the transmit layer skips cork syscalls entirely.
const (
	HasCork        = true
	HasMsgMore     = true
	HasSendBuffers = true
	HasRawSend     = true
)

// SetCork toggles TCP_CORK on the socket. While corked, the kernel holds
// partial segments until the cork is removed or 200ms pass.
func SetCork(fd int, on bool) error {
	v := 0
	if on {
		v = 1
	}
	return unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_CORK, v)
}

// SetNoDelay toggles TCP_NODELAY (Nagle's algorithm suppression).
func SetNoDelay(fd int, on bool) error {
	v := 0
	if on {
		v = 1
	}
	return unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, v)
}

// Send transmits p on the socket. With more set, MSG_MORE tells the kernel
// a follow-up send is coming so it may coalesce segments; no setsockopt
// round-trips are needed. MSG_NOSIGNAL suppresses SIGPIPE on a dead peer,
// the errno (EPIPE) is reported instead.
func Send(fd int, p []byte, more bool) (int, error) {
	flags := unix.MSG_NOSIGNAL
	if more {
		flags |= unix.MSG_MORE
	}
	return unix.SendmsgN(fd, p, nil, nil, flags)
}

// SendBuffers transmits bufs with a single scatter-gather sendmsg call.
// The returned count spans all buffers.
func SendBuffers(fd int, bufs [][]byte) (int, error) {
	return unix.SendmsgBuffers(fd, bufs, nil, nil, unix.MSG_NOSIGNAL)
}
