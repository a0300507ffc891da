package transmit

import (
	"io"
	"math"
	"syscall"

	"github.com/valyala/bytebufferpool"

	"github.com/watt-toolkit/filament/pkg/filament/socket"
)

// bufferedFileChunk bounds one ReadAt in the buffered file path. The read
// is repeated from the file on every call, so a partial send loses nothing.
const bufferedFileChunk = 64 * 1024

// SendFile transmits the next piece of the file-backed response, routing
// through zero-copy or the buffered path according to the connection's
// preferred sender. Once a connection downgrades to SenderBuffered it
// stays there, even if the original zero-copy obstacle would have cleared.
func (c *Conn) SendFile() (int64, error) {
	if c.closed || c.file == nil {
		return 0, ErrNotConnected
	}
	if c.sender == SenderZeroCopy {
		if c.tlsConn == nil && c.raw != nil && socket.HasSendfile {
			return c.SendFileRange()
		}
		c.sender = SenderBuffered
	}
	return c.SendFileBuffered()
}

// SendFileRange pushes the next chunk of the response file to the socket
// with the platform's zero-copy primitive. Preconditions: a file-backed
// response is set and the connection is not TLS-secured (encryption has to
// see the plaintext, so TLS responses always take the buffered path).
//
// Unsupported or uncooperative conditions permanently downgrade the
// connection's sender to SenderBuffered and return (0, ErrRetryNow) so the
// caller immediately re-drives through the buffered path.
func (c *Conn) SendFileRange() (int64, error) {
	if c.closed || c.file == nil {
		return 0, ErrNotConnected
	}
	if c.tlsConn != nil || c.raw == nil || !socket.HasSendfile {
		c.sender = SenderBuffered
		return 0, ErrRetryNow
	}

	left := c.totalSize - c.writePos
	if left == 0 {
		return 0, nil
	}
	chunk := uint64(socket.SendfileChunk)
	if c.threadPerConn {
		chunk = socket.SendfileChunkThreadPerConn
	}
	sendSize := left
	if sendSize > chunk {
		sendSize = chunk
	}
	offset := c.fileOffsetBase + c.writePos
	if offset > uint64(socket.MaxSendfileOffset) {
		// Not addressable by the primitive; finish the response through
		// plain file reads instead.
		c.sender = SenderBuffered
		return 0, ErrRetryNow
	}

	c.preSendSetopt(false, true)

	srcFd := int(c.file.Fd())
	var n int
	var serr error
	err := c.raw.Write(func(fd uintptr) bool {
		n, serr = socket.Sendfile(int(fd), srcFd, int64(offset), int(sendSize), c.threadPerConn)
		return true
	})
	if err != nil {
		return 0, ErrNotConnected
	}
	if serr != nil {
		if n > 0 && transientSendfileErr(serr) {
			// Darwin and FreeBSD report bytes already shipped even on a
			// failed call; keep the progress, the condition resurfaces
			// on the next call if it persists.
			return int64(n), nil
		}
		return 0, c.classifySendfileErr(serr)
	}
	if n < 0 {
		n = 0
	}

	c.postSendSetopt(false, uint64(n) == left)
	return int64(n), nil
}

// SendFileBuffered reads the next chunk of the response file into a pooled
// buffer and sends it like ordinary response bytes. The chunk is re-read
// at the advanced offset on every call, so partially sent bytes are never
// lost and nothing is retained between calls.
func (c *Conn) SendFileBuffered() (int64, error) {
	if c.closed || c.file == nil {
		return 0, ErrNotConnected
	}
	left := c.totalSize - c.writePos
	if left == 0 {
		return 0, nil
	}
	chunk := uint64(bufferedFileChunk)
	if chunk > left {
		chunk = left
	}
	offset := c.fileOffsetBase + c.writePos
	if offset > math.MaxInt64 {
		return 0, ErrBadDescriptor
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	if cap(bb.B) < int(chunk) {
		bb.B = make([]byte, chunk)
	}
	buf := bb.B[:chunk]

	n, err := c.file.ReadAt(buf, int64(offset))
	if n == 0 {
		if err == io.EOF {
			// Response metadata promised more than the file holds;
			// nothing left to transmit.
			return 0, nil
		}
		return 0, ErrBadDescriptor
	}

	// The final chunk of the response is pushed; earlier chunks stay
	// buffered so the kernel can build full segments.
	policy := PreferBuffer
	if uint64(n) >= left {
		policy = PushNow
	}
	sent, serr := c.SendBuffer(buf[:n], policy)
	return int64(sent), serr
}

// transientSendfileErr reports whether a sendfile errno only means "come
// back later" and must not discard partial progress.
func transientSendfileErr(err error) bool {
	switch err {
	case syscall.EAGAIN, syscall.EINTR, syscall.EBUSY:
		return true
	}
	return false
}

// classifySendfileErr normalizes a failed zero-copy call with no partial
// progress. Reset-class errors are fatal; descriptor errors fail hard;
// everything else (EINVAL for non-mmapable descriptors, EOPNOTSUPP,
// oddball platform cases) downgrades the connection to the buffered path.
func (c *Conn) classifySendfileErr(err error) error {
	switch err {
	case syscall.EAGAIN:
		return ErrRetryOnWritable
	case syscall.EINTR, syscall.EBUSY:
		return ErrRetryNow
	case syscall.ENOTCONN, syscall.EPIPE, syscall.ECONNRESET:
		return ErrConnReset
	case syscall.EBADF:
		return ErrBadDescriptor
	default:
		c.sender = SenderBuffered
		return ErrRetryNow
	}
}
