package transmit

import (
	"github.com/watt-toolkit/filament/pkg/filament/socket"
)

// Buffering-mode controller. Two invariants:
//
//   - corking is asserted before a write and cleared only after the
//     complete intended payload has left the socket, never mid-transfer;
//   - the mode-set primitive fires only on an actual cached-state
//     transition, and the cache is updated only on confirmed success.
//
// Mode-set failures never abort a transfer: the worst case is a few extra
// segments on the wire, so errors are swallowed (optionally logged) and
// the next call simply re-attempts the change.

// preSendSetopt prepares the socket buffering mode for a transfer.
// rawSend is true when the transfer will use plain send/sendmsg on the raw
// descriptor, where MSG_MORE (if the platform has it) replaces persistent
// mode changes. push marks the final piece of the payload.
func (c *Conn) preSendSetopt(rawSend, push bool) {
	bufferData := !push

	if socket.HasMsgMore && rawSend {
		// The per-call MSG_MORE flag expresses this, no syscall needed.
		return
	}

	if socket.HasCork && c.raw != nil {
		if c.corked == bufferData {
			return
		}
		if push {
			// Nothing to do pre-call: the cork comes off post-call once
			// the full payload is known to have been sent.
			return
		}
		if err := c.setCork(true); err != nil {
			c.logModeError("cork", err)
			return
		}
		c.corked = true
		return
	}

	// No cork primitive: express push/buffer by toggling Nagle directly.
	if c.noDelay == push {
		return
	}
	if err := c.setNoDelay(push); err != nil {
		c.logModeError("nodelay", err)
		return
	}
	c.noDelay = push
}

// postSendSetopt restores the socket buffering mode after a transfer.
// push is true only when the transfer was both the full intended payload
// and requested as a push, i.e. the moment the cork must come off.
func (c *Conn) postSendSetopt(rawSend, push bool) {
	bufferData := !push

	if socket.HasMsgMore && rawSend {
		return
	}

	if socket.HasCork && c.raw != nil {
		if c.corked == bufferData {
			return
		}
		if bufferData {
			// Buffered transfers were corked pre-call already.
			return
		}
		if err := c.setCork(false); err != nil {
			c.logModeError("uncork", err)
			return
		}
		c.corked = false
	}
	// Nagle platforms need no post step: delay state persists across
	// calls and was set pre-call.
}
