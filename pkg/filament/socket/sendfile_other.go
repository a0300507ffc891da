//go:build !linux && !darwin && !freebsd

package socket

import "math"

// No zero-copy primitive on this platform; the transmit layer routes every
// file-backed response through the buffered copy path.
const (
	HasSendfile = false

	// MaxSendfileOffset is unused without a sendfile primitive.
	MaxSendfileOffset = math.MaxInt64
)

func initPlatform() {}

// Sendfile is unavailable on this platform.
func Sendfile(dstFd, srcFd int, offset int64, count int, threadPerConn bool) (int, error) {
	return 0, ErrNotSupported
}
