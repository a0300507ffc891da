package transmit

// SendPolicy advises the buffering-mode controller how to treat the bytes
// of a single SendBuffer call. It never affects correctness, only how many
// setsockopt round-trips and network segments the transfer costs.
type SendPolicy int

const (
	// PushNow disables buffering so the bytes leave immediately. Use for
	// the final piece of a response.
	PushNow SendPolicy = iota

	// PreferBuffer enables buffering so the bytes may coalesce with a
	// subsequent send.
	PreferBuffer

	// CorkHeader buffers small headers (they will coalesce with the body)
	// but pushes large ones that already fill a segment on their own.
	CorkHeader
)

// corkHeaderThreshold is the CorkHeader cutoff: headers larger than this
// are pushed rather than corked.
const corkHeaderThreshold = 1024

// push resolves the policy against the payload size.
func (p SendPolicy) push(size int) bool {
	switch p {
	case PushNow:
		return true
	case PreferBuffer:
		return false
	default:
		return size > corkHeaderThreshold
	}
}

// String returns the policy name.
func (p SendPolicy) String() string {
	switch p {
	case PushNow:
		return "push-now"
	case PreferBuffer:
		return "prefer-buffer"
	case CorkHeader:
		return "cork-header"
	default:
		return "unknown"
	}
}
