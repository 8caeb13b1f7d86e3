///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const (
	errOpen        = "open %q (mode %q) failed"
	errOpenDir     = "opendir %q failed"
	errStat        = "stat %q failed"
	errLstat       = "lstat %q failed"
	errFstat       = "fstat %q failed"
	errBadMode     = "invalid open mode %q"
	errSeek        = "seek %d, %d on %q failed"
	errStringSeek  = "invalid StringStream seek %d, %d -> %d outside 0-%d"
	errBadWhence   = "invalid whence %d"
	errSetLength   = "length %d outside 0-%d"
	errShortWrite  = "short write on %q: wrote %d, expected %d"
	errBadOption   = "invalid pattern option %q"
	errCompile     = "pattern %q failed to compile"
	errSelect      = "select failed"
	errSelectFd    = "select on %q: descriptor %d out of range"
	errNoGroup     = "pattern %q has no group %d"
	errClosed      = "%s on closed stream %q"
	errNotReadable = "%s: %q not opened for reading"
	errNotWritable = "%s: %q not opened for writing"
	errDecode      = "cannot decode %d bytes as any of %s"
	errUnknownEnc  = "unknown text encoding %q"
	errUnknownDisp = "unknown disposition %q"
	errPopenEmpty  = "popen requires a command"
	errPopenMode   = "popen mode %q must be \"r\" or \"w\""
	errGlobPattern = "invalid glob pattern %q"
	errNoUser      = "cannot resolve home directory for %q"
	errChunkSize   = "read_chunk_size must be positive, got %d"
	errEncode      = "text cannot be encoded as %s"
	errBufferedIO  = "%s on %q with buffered input"
	errFlock       = "flock %q (operation %d) failed"
)

var (
	// ErrClosed is returned by I/O on a stream or directory that was closed.
	ErrClosed = errors.New("use of closed handle")

	// ErrAlreadyClosed is returned by Close when the handle was already
	// released. No system call is made in that case.
	ErrAlreadyClosed = errors.New("handle already closed")

	// ErrOutOfRange is returned when a cursor would move outside its buffer.
	ErrOutOfRange = errors.New("position out of range")

	// ErrLengthExceedsCapacity is returned when a ByteBuffer length is set
	// beyond its capacity.
	ErrLengthExceedsCapacity = errors.New("length exceeds capacity")

	// ErrNotSupported indicates an operation the platform cannot perform.
	ErrNotSupported = errors.New("operation not supported")

	// ErrWouldBlock is returned by non-blocking reads when no data is ready.
	ErrWouldBlock = errors.New("operation would block")

	// ErrNoProcess is returned when asking for the exit status of a stream
	// that is not attached to a child process.
	ErrNoProcess = errors.New("stream has no child process")
)

// DecodeError is returned when bytes cannot be decoded with any of the
// configured text encodings. It keeps the original bytes so callers can
// retry with a different codec or handle them as binary.
type DecodeError struct {
	Data      []byte
	Encodings []string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf(errDecode, len(e.Data), strings.Join(e.Encodings, ", "))
}
