///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// StringStream is an in-memory Stream over an owned ByteBuffer. Reads move a
// cursor through the buffer; writes always append to the end of the buffer.
type StringStream struct {
	data   *ByteBuffer
	offset int
	closed bool

	policy    *Policy
	codec     Codec
	separator string

	// Lineno counts the records returned by ReadLine since the last Rewind.
	Lineno int
}

// NewStringStream creates a stream that takes ownership of data. A nil data
// starts an empty stream.
func NewStringStream(data *ByteBuffer, p *Policy, c Codec) *StringStream {
	if data == nil {
		data = NewByteBuffer(0)
	}
	return &StringStream{data: data, policy: p, codec: c,
		separator: LineSeparator}
}

// Buffer returns the backing buffer.
func (s *StringStream) Buffer() *ByteBuffer {
	return s.data
}

// String returns the whole buffer, independent of the cursor.
func (s *StringStream) String() string {
	return s.data.String()
}

// Pos returns the cursor.
func (s *StringStream) Pos() int {
	return s.offset
}

// Tell returns the cursor.
func (s *StringStream) Tell() (int64, error) {
	return int64(s.offset), nil
}

// EOF reports whether the cursor is at the end of the buffer.
func (s *StringStream) EOF() bool {
	return s.offset >= s.data.Len()
}

// Seek moves the cursor. Positions outside [0, length] are rejected through
// the policy with ErrOutOfRange and leave the cursor where it was.
func (s *StringStream) Seek(amount int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = amount
	case io.SeekCurrent:
		target = int64(s.offset) + amount
	case io.SeekEnd:
		target = int64(s.data.Len()) + amount
	default:
		return int64(s.offset), s.policy.Report(errors.Errorf(errBadWhence,
			whence))
	}

	if target < 0 || target > int64(s.data.Len()) {
		return int64(s.offset), s.policy.Report(errors.Wrapf(ErrOutOfRange,
			errStringSeek, amount, whence, target, s.data.Len()))
	}
	s.offset = int(target)
	return target, nil
}

// Rewind moves the cursor to the start and resets Lineno.
func (s *StringStream) Rewind() error {
	s.offset = 0
	s.Lineno = 0
	return nil
}

// Read implements io.Reader from the cursor.
func (s *StringStream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, errors.Wrapf(ErrClosed, errClosed, "read", "StringStream")
	}
	if s.EOF() {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, s.data.Bytes()[s.offset:])
	s.offset += n
	return n, nil
}

// ReadData returns up to length bytes from the cursor, or everything that
// remains for ReadAll. A positive length at end of buffer returns io.EOF.
func (s *StringStream) ReadData(length int, out *ByteBuffer) (*ByteBuffer, error) {
	if s.closed {
		return nil, errors.Wrapf(ErrClosed, errClosed, "read", "StringStream")
	}
	remaining := s.data.Bytes()[s.offset:]
	if length >= 0 && length < len(remaining) {
		remaining = remaining[:length]
	}
	if length > 0 && len(remaining) == 0 {
		return nil, io.EOF
	}

	if out == nil {
		out = NewByteBuffer(len(remaining))
	} else {
		out.Reset()
	}
	out.AppendBytes(remaining)
	s.offset += len(remaining)
	return out, nil
}

// Getc returns the byte under the cursor as a one character string.
func (s *StringStream) Getc() (string, error) {
	b, err := s.Getbyte()
	if err != nil {
		return "", err
	}
	return string([]byte{b}), nil
}

// Getbyte returns the byte under the cursor and advances.
func (s *StringStream) Getbyte() (byte, error) {
	if s.EOF() {
		return 0, io.EOF
	}
	b := s.data.Bytes()[s.offset]
	s.offset++
	return b, nil
}

// EachByte calls visitor for every byte from the cursor to the end.
func (s *StringStream) EachByte(visitor func(byte)) {
	for !s.EOF() {
		visitor(s.data.Bytes()[s.offset])
		s.offset++
	}
}

// ReadLine returns the bytes from the cursor through the next sep, with the
// separator removed. An empty sep means the stream's default separator. A
// final unterminated record is returned as is.
func (s *StringStream) ReadLine(sep string) (string, error) {
	if s.closed {
		return "", errors.Wrapf(ErrClosed, errClosed, "gets", "StringStream")
	}
	if s.EOF() {
		return "", io.EOF
	}
	if sep == "" {
		sep = s.separator
	}

	rest := s.data.Bytes()[s.offset:]
	end := len(rest)
	if i := bytes.Index(rest, []byte(sep)); i >= 0 {
		end = i + len(sep)
	}
	s.offset += end
	s.Lineno++
	return s.codec.Decode(chompRecord(rest[:end], sep), s.policy)
}

// EachLine implements Stream.
func (s *StringStream) EachLine(sep string, limit int, visitor func(string)) error {
	return eachLine(s, sep, limit, visitor)
}

// ReadLines implements Stream.
func (s *StringStream) ReadLines(sep string, limit int) ([]string, error) {
	return readLines(s, sep, limit)
}

// Write appends p to the buffer.
func (s *StringStream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, errors.Wrapf(ErrClosed, errClosed, "write", "StringStream")
	}
	return s.data.AppendBytes(p), nil
}

// WriteString appends str to the buffer.
func (s *StringStream) WriteString(str string) (int, error) {
	if s.closed {
		return 0, errors.Wrapf(ErrClosed, errClosed, "write", "StringStream")
	}
	return s.data.AppendString(str), nil
}

// Putc appends a single byte.
func (s *StringStream) Putc(c byte) error {
	if s.closed {
		return errors.Wrapf(ErrClosed, errClosed, "putc", "StringStream")
	}
	return s.data.WriteByte(c)
}

// Close marks the stream closed. The buffer stays readable through Buffer.
func (s *StringStream) Close() error {
	if s.closed {
		return ErrAlreadyClosed
	}
	s.closed = true
	return nil
}
