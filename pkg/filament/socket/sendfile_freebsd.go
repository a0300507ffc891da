//go:build freebsd

package socket

import (
	"math"
	"unsafe"

	"golang.org/x/sys/unix"
)

// FreeBSD sendfile(2) writes progress to an sbytes out-parameter and takes
// an SF_FLAGS word combining SF_NODISKIO with a read-ahead page count. The
// read-ahead is sized to the transfer chunk, so the two flag words are
// precomputed once from the system page size in Init.
const (
	HasSendfile = true

	// MaxSendfileOffset is the largest file offset sendfile can address.
	MaxSendfileOffset = math.MaxInt64
)

var (
	sendfileFlags              int
	sendfileFlagsThreadPerConn int
)

func initPlatform() {
	pageSize := unix.Getpagesize()
	if pageSize <= 0 {
		// No usable page size, keep SF_NODISKIO without read-ahead.
		sendfileFlags = unix.SF_NODISKIO
		sendfileFlagsThreadPerConn = unix.SF_NODISKIO
		return
	}
	sendfileFlags = sfFlags(SendfileChunk, pageSize)
	sendfileFlagsThreadPerConn = sfFlags(SendfileChunkThreadPerConn, pageSize)
}

// sfFlags builds an SF_FLAGS(readAheadPages, SF_NODISKIO) word for a chunk
// of the given size.
func sfFlags(chunk, pageSize int) int {
	readAhead := (chunk + pageSize - 1) / pageSize
	return int(uint16(readAhead))<<16 | unix.SF_NODISKIO
}

// Sendfile transfers up to count bytes of srcFd starting at offset to the
// socket dstFd without copying through user space. Partial progress is
// reported in the count even when err is non-nil.
func Sendfile(dstFd, srcFd int, offset int64, count int, threadPerConn bool) (int, error) {
	flags := sendfileFlags
	if threadPerConn {
		flags = sendfileFlagsThreadPerConn
	}
	var sbytes int64
	_, _, errno := unix.Syscall9(
		unix.SYS_SENDFILE,
		uintptr(srcFd),
		uintptr(dstFd),
		uintptr(offset),
		uintptr(count),
		0, // no header/trailer vectors
		uintptr(unsafe.Pointer(&sbytes)),
		uintptr(flags),
		0,
		0,
	)
	if errno != 0 {
		return int(sbytes), errno
	}
	return int(sbytes), nil
}
