//go:build linux

package socket

import (
	"math"

	"golang.org/x/sys/unix"
)

// Linux sendfile(2): kernel returns the byte count directly and advances
// the offset pointer; partial transfers are ordinary results.
const (
	HasSendfile = true

	// MaxSendfileOffset is the largest file offset sendfile can address.
	MaxSendfileOffset = math.MaxInt64
)

func initPlatform() {}

// Sendfile transfers up to count bytes of srcFd starting at offset to the
// socket dstFd without copying through user space. threadPerConn only
// influences platforms with precomputed readahead flags and is ignored here.
func Sendfile(dstFd, srcFd int, offset int64, count int, threadPerConn bool) (int, error) {
	_ = threadPerConn
	off := offset
	n, err := unix.Sendfile(dstFd, srcFd, &off, count)
	if n < 0 {
		n = 0
	}
	return n, err
}
