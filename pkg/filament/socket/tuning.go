package socket

import (
	"net"
)

// TuningConfig holds per-socket tuning applied when a connection is
// accepted. Zero values mean "use system defaults".
//
// TCP_NODELAY is deliberately absent: delay state is owned by the transmit
// layer's buffering-mode controller and toggling it here would fight the
// controller's cached state.
type TuningConfig struct {
	// SO_RCVBUF in bytes. 0 keeps the system default.
	RecvBuffer int

	// SO_SNDBUF in bytes. 0 keeps the system default.
	SendBuffer int

	// SO_KEEPALIVE plus platform keepalive timing.
	KeepAlive bool

	// TCP_DEFER_ACCEPT on the listener (Linux only): don't wake the
	// acceptor until request data has arrived.
	DeferAccept bool

	// TCP_FASTOPEN on the listener (Linux, Darwin).
	FastOpen bool
}

// DefaultTuning returns the recommended tuning for HTTP response traffic.
func DefaultTuning() *TuningConfig {
	return &TuningConfig{
		RecvBuffer:  256 * 1024,
		SendBuffer:  256 * 1024,
		KeepAlive:   true,
		DeferAccept: true,
		FastOpen:    true,
	}
}

// Apply applies socket tuning to an accepted connection. Failures of
// individual options are best-effort and swallowed; only the inability to
// reach the raw descriptor is reported. Non-TCP connections are left alone.
func Apply(conn net.Conn, cfg *TuningConfig) error {
	if cfg == nil {
		cfg = DefaultTuning()
	}
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}
	rawConn, err := tcpConn.SyscallConn()
	if err != nil {
		return err
	}
	return rawConn.Control(func(fd uintptr) {
		applyConnOptions(int(fd), cfg)
	})
}

// ApplyListener applies tuning that must be set on the listening socket
// before connections are accepted (TCP_DEFER_ACCEPT, TCP_FASTOPEN).
func ApplyListener(listener net.Listener, cfg *TuningConfig) error {
	if cfg == nil {
		cfg = DefaultTuning()
	}
	tcpListener, ok := listener.(*net.TCPListener)
	if !ok {
		return nil
	}
	rawConn, err := tcpListener.SyscallConn()
	if err != nil {
		return err
	}
	var optErr error
	err = rawConn.Control(func(fd uintptr) {
		optErr = applyListenerOptions(int(fd), cfg)
	})
	if err != nil {
		return err
	}
	return optErr
}
