///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

// buffer.go provides ByteBuffer, the growable byte store under every stream.
// The backing slice is always one byte longer than the capacity so that a NUL
// terminator can sit at bytes[length] no matter how full the buffer is. That
// keeps CString() free of copies for callers handing bytes to C-style APIs.

import (
	"bytes"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	// DefaultCapacity is used when a ByteBuffer is created without an
	// explicit capacity.
	DefaultCapacity = 10 * 1024

	// growthQuantum is the minimum number of bytes added when Append has to
	// grow the buffer.
	growthQuantum = 10000
)

// ByteBuffer is a growable, NUL-terminated byte allocation. It is owned by
// whoever holds the pointer; there is no locking, and every holder of the same
// *ByteBuffer observes every mutation.
type ByteBuffer struct {
	bytes  []byte
	length int
}

// NewByteBuffer allocates capacity+1 bytes with a length of zero. A negative
// capacity selects DefaultCapacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	if capacity < 0 {
		capacity = DefaultCapacity
	}
	return &ByteBuffer{bytes: make([]byte, capacity+1)}
}

// WrapBytes takes ownership of b. The buffer's length is len(b); the spare
// capacity of b is reused for the terminator when there is any.
func WrapBytes(b []byte) *ByteBuffer {
	n := len(b)
	if cap(b) > n {
		b = b[:cap(b)]
	} else {
		b = append(b, 0)
	}
	b[n] = 0
	return &ByteBuffer{bytes: b, length: n}
}

// BufferString copies s into a new ByteBuffer sized exactly to fit it.
func BufferString(s string) *ByteBuffer {
	buf := NewByteBuffer(len(s))
	buf.AppendString(s)
	return buf
}

// Len returns the number of used bytes.
func (b *ByteBuffer) Len() int {
	return b.length
}

// Cap returns the number of bytes that can be held without reallocating.
func (b *ByteBuffer) Cap() int {
	return len(b.bytes) - 1
}

// SetLength changes the logical size. It fails, leaving the buffer as it was,
// when n is negative or larger than the capacity.
func (b *ByteBuffer) SetLength(n int) error {
	if n < 0 || n > b.Cap() {
		return errors.Wrapf(ErrLengthExceedsCapacity, errSetLength, n,
			b.Cap())
	}
	b.length = n
	b.bytes[n] = 0
	return nil
}

// SetCapacity reallocates the buffer to hold n bytes. Content up to
// min(old, new) capacity is preserved and the length is clipped to n.
func (b *ByteBuffer) SetCapacity(n int) {
	if n < 0 {
		n = 0
	}
	grown := make([]byte, n+1)
	copy(grown, b.bytes[:min(len(b.bytes), n)])
	b.bytes = grown
	if b.length > n {
		b.length = n
	}
	b.bytes[b.length] = 0
}

// reserve makes room for extra more bytes past the current length.
func (b *ByteBuffer) reserve(extra int) {
	needed := b.length + extra
	if needed <= b.Cap() {
		return
	}
	b.SetCapacity(b.Cap() + max(needed-b.Cap(), growthQuantum))
}

// Append copies other's bytes onto the end of b and returns the number of
// bytes appended. Appending a buffer to itself is allowed.
func (b *ByteBuffer) Append(other *ByteBuffer) int {
	if other == nil {
		return 0
	}
	return b.AppendBytes(other.Bytes())
}

// AppendBytes copies p onto the end of b and returns len(p).
func (b *ByteBuffer) AppendBytes(p []byte) int {
	n := len(p)
	if n == 0 {
		return 0
	}
	// If p aliases b it still points at the old allocation after reserve,
	// which keeps the same bytes.
	b.reserve(n)
	copy(b.bytes[b.length:], p)
	b.length += n
	b.bytes[b.length] = 0
	return n
}

// AppendString copies s onto the end of b and returns len(s).
func (b *ByteBuffer) AppendString(s string) int {
	n := len(s)
	if n == 0 {
		return 0
	}
	b.reserve(n)
	copy(b.bytes[b.length:], s)
	b.length += n
	b.bytes[b.length] = 0
	return n
}

// Write implements io.Writer by appending p.
func (b *ByteBuffer) Write(p []byte) (int, error) {
	return b.AppendBytes(p), nil
}

// WriteString implements io.StringWriter by appending s.
func (b *ByteBuffer) WriteString(s string) (int, error) {
	return b.AppendString(s), nil
}

// WriteByte implements io.ByteWriter.
func (b *ByteBuffer) WriteByte(c byte) error {
	b.reserve(1)
	b.bytes[b.length] = c
	b.length++
	b.bytes[b.length] = 0
	return nil
}

// Bytes returns the used bytes. The slice aliases the buffer and is only
// valid until the next mutation.
func (b *ByteBuffer) Bytes() []byte {
	return b.bytes[:b.length]
}

// CString returns the used bytes followed by the NUL terminator.
func (b *ByteBuffer) CString() []byte {
	return b.bytes[:b.length+1]
}

// String returns the used bytes as a string without decoding them.
func (b *ByteBuffer) String() string {
	return string(b.Bytes())
}

// Text decodes the used bytes with c, see Codec.Decode.
func (b *ByteBuffer) Text(c Codec, p *Policy) (string, error) {
	return c.Decode(b.Bytes(), p)
}

// Reset sets the length to zero without releasing the allocation.
func (b *ByteBuffer) Reset() {
	b.length = 0
	b.bytes[0] = 0
}

// Clone returns an independent copy of b with the same capacity.
func (b *ByteBuffer) Clone() *ByteBuffer {
	c := &ByteBuffer{bytes: make([]byte, len(b.bytes)), length: b.length}
	copy(c.bytes, b.bytes)
	return c
}

// Equal reports whether both buffers hold the same used bytes.
func (b *ByteBuffer) Equal(other *ByteBuffer) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(b.Bytes(), other.Bytes())
}

// Checksum returns the blake2b-256 digest of the used bytes.
func (b *ByteBuffer) Checksum() [blake2b.Size256]byte {
	return blake2b.Sum256(b.Bytes())
}
