//go:build !linux && !darwin && !freebsd

package socket

// No raw descriptor path on this platform: the transmit layer falls back to
// net.Conn writes, and delay state is toggled through net.TCPConn.SetNoDelay
// by the caller-facing API rather than setsockopt.
const (
	HasCork        = false
	HasMsgMore     = false
	HasSendBuffers = false
	HasRawSend     = false
)

// SetCork is unavailable on this platform.
func SetCork(fd int, on bool) error {
	return ErrNotSupported
}

// SetNoDelay is unavailable on this platform.
func SetNoDelay(fd int, on bool) error {
	return ErrNotSupported
}

// Send is unavailable on this platform.
func Send(fd int, p []byte, more bool) (int, error) {
	return 0, ErrNotSupported
}

// SendBuffers is unavailable on this platform.
func SendBuffers(fd int, bufs [][]byte) (int, error) {
	return 0, ErrNotSupported
}
