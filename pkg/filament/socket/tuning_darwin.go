//go:build darwin

package socket

import (
	"golang.org/x/sys/unix"
)

// applyConnOptions applies Darwin per-connection tuning. Best-effort.
func applyConnOptions(fd int, cfg *TuningConfig) {
	if cfg.RecvBuffer > 0 {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, cfg.RecvBuffer)
	}
	if cfg.SendBuffer > 0 {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, cfg.SendBuffer)
	}

	// Darwin has no MSG_NOSIGNAL send flag; suppress SIGPIPE per socket so
	// a write to a dead peer surfaces as EPIPE for the classifier.
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_NOSIGPIPE, 1)

	if cfg.KeepAlive {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1)
		// TCP_KEEPALIVE is the idle time in seconds before probing.
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_KEEPALIVE, 60)
	}
}

// applyListenerOptions applies Darwin listener tuning. There is no
// TCP_DEFER_ACCEPT equivalent.
func applyListenerOptions(fd int, cfg *TuningConfig) error {
	var lastErr error
	if cfg.FastOpen {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_FASTOPEN, 1); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
