package transmit

import (
	"math"

	"github.com/watt-toolkit/filament/pkg/filament/socket"
)

// Maximum bytes attempted in one call. These bound the return value, not
// the payload: larger buffers are simply clamped and the caller re-invokes
// with the remainder like any other partial transfer. TLS writes clamp to
// the signed 32-bit maximum; plain sends to 1GiB per sendmsg.
const (
	maxPlainSendSize = 1 << 30
	maxTLSSendSize   = math.MaxInt32
)

// SendBuffer transmits p on the connection under the given policy and
// returns the number of bytes actually accepted by the socket. A count
// below len(p) is a partial transfer: the caller re-invokes with p[n:].
// Nothing is retried or buffered internally.
//
// A zero-length p is legal: the bytes are trivial but the mode transition
// still happens, so a bare PushNow call flushes previously corked data
// (the final piece of a chunked response is sent exactly this way).
func (c *Conn) SendBuffer(p []byte, policy SendPolicy) (int, error) {
	if c.closed || c.netConn == nil {
		return 0, ErrNotConnected
	}
	push := policy.push(len(p))
	rawSend := c.tlsConn == nil && c.raw != nil && socket.HasRawSend

	c.preSendSetopt(rawSend, push)

	var n int
	switch {
	case c.tlsConn != nil:
		if len(p) > maxTLSSendSize {
			p = p[:maxTLSSendSize]
		}
		var err error
		n, err = c.tlsConn.Write(p)
		if err != nil {
			if n > 0 {
				// The session consumed a prefix before stalling; report
				// it, the failure will resurface on the next call.
				return n, nil
			}
			return 0, classifyWriteErr(err)
		}
		// TLS may legitimately fragment into a shorter write; partial
		// results here say nothing about socket writability.

	case rawSend:
		if len(p) > maxPlainSendSize {
			p = p[:maxPlainSendSize]
		}
		var serr error
		err := c.raw.Write(func(fd uintptr) bool {
			// MSG_MORE when buffering: the kernel coalesces this payload
			// with the next call's bytes without any setsockopt.
			n, serr = socket.Send(int(fd), p, !push)
			return true // never park the calling thread
		})
		if err != nil {
			return 0, ErrNotConnected
		}
		if serr != nil {
			return 0, classifyWriteErr(serr)
		}
		if n < 0 {
			n = 0
		}

	default:
		// Generic writer path for connections without a raw descriptor.
		var err error
		n, err = c.netConn.Write(p)
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, classifyWriteErr(err)
		}
	}

	// Flush only when the full requested length went out as a push;
	// partial transfers keep the cork on for the follow-up call.
	c.postSendSetopt(rawSend, push && n == len(p))
	return n, nil
}

// SendHeaderAndBody transmits a response header followed by its body,
// using one scatter-gather call when the platform has one. The returned
// count spans both buffers; the caller recovers the per-buffer split by
// reducing the count against the header length first.
//
// Over TLS, or without scatter-gather support, only the header is sent
// (with CorkHeader policy) and the count covers at most the header; the
// body is never silently dropped and must be re-sent by the caller.
func (c *Conn) SendHeaderAndBody(header, body []byte) (int, error) {
	if c.closed || c.netConn == nil {
		return 0, ErrNotConnected
	}
	if len(header) == 0 {
		return c.SendBuffer(body, PushNow)
	}
	if c.tlsConn != nil {
		// No combined record write over a TLS session.
		return c.SendBuffer(header, CorkHeader)
	}
	if c.raw != nil && socket.HasSendBuffers {
		// The caller hands over a complete response unit, so there is no
		// later call to coalesce with: push immediately.
		c.preSendSetopt(true, true)

		var n int
		var serr error
		err := c.raw.Write(func(fd uintptr) bool {
			n, serr = socket.SendBuffers(int(fd), [][]byte{header, body})
			return true
		})
		if err != nil {
			return 0, ErrNotConnected
		}
		if serr != nil {
			return 0, classifyWriteErr(serr)
		}
		if n < 0 {
			n = 0
		}
		c.postSendSetopt(true, n == len(header)+len(body))
		return n, nil
	}
	// No scatter-gather primitive: header only, body on the next call.
	return c.SendBuffer(header, CorkHeader)
}
