//go:build darwin

package socket

import (
	"math"

	"golang.org/x/sys/unix"
)

// Darwin sendfile(2) reports progress through a length in/out parameter, so
// bytes already shipped are visible even when the call itself failed with
// EAGAIN or EINTR. x/sys normalizes that to (written, err); we forward both
// so the transmit layer can keep the partial progress.
const (
	HasSendfile = true

	// MaxSendfileOffset is the largest file offset sendfile can address.
	MaxSendfileOffset = math.MaxInt64
)

func initPlatform() {}

// Sendfile transfers up to count bytes of srcFd starting at offset to the
// socket dstFd without copying through user space.
func Sendfile(dstFd, srcFd int, offset int64, count int, threadPerConn bool) (int, error) {
	_ = threadPerConn
	off := offset
	n, err := unix.Sendfile(dstFd, srcFd, &off, count)
	if n < 0 {
		n = 0
	}
	return n, err
}
