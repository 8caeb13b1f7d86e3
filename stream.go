///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

// stream.go provides StreamHandle, a buffered stream over an OS file handle.
// Reads and writes share one file offset: pending writes are flushed before
// any read or reposition, and read-ahead is given back to the file (by
// seeking backwards) before a write. That keeps Tell and the descriptor
// offset in agreement the way a single stdio FILE does.

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gitlab.com/elixxir/rubyio/portableOS"
)

// StreamHandle is a buffered, line-aware stream over a portableOS.File. It is
// not safe for concurrent use.
type StreamHandle struct {
	file portableOS.File
	fd   int
	r    *bufio.Reader
	w    *bufio.Writer

	readable bool
	writable bool

	// Autoclose controls whether Close releases the descriptor. When false
	// Close only flushes and detaches.
	Autoclose bool

	// Lineno counts the records returned by ReadLine since the last Rewind.
	Lineno int

	sync        bool
	nonblock    bool
	closeOnExec bool
	closed      bool

	cmd        *exec.Cmd
	exitStatus int
	waited     bool

	policy    *Policy
	codec     Codec
	separator string
	chunkSize int
}

// openMode is a parsed Ruby mode string.
type openMode struct {
	flag     int
	readable bool
	writable bool
}

// parseMode accepts "r", "w", "a", each optionally followed by "+", and any
// of the "b"/"t" modifiers. An external encoding after ':' is ignored.
func parseMode(mode string) (openMode, error) {
	if i := strings.IndexByte(mode, ':'); i >= 0 {
		mode = mode[:i]
	}
	base := strings.NewReplacer("b", "", "t", "").Replace(mode)

	switch base {
	case "", "r":
		return openMode{os.O_RDONLY, true, false}, nil
	case "w":
		return openMode{os.O_WRONLY | os.O_CREATE | os.O_TRUNC, false, true}, nil
	case "a":
		return openMode{os.O_WRONLY | os.O_CREATE | os.O_APPEND, false, true}, nil
	case "r+":
		return openMode{os.O_RDWR, true, true}, nil
	case "w+":
		return openMode{os.O_RDWR | os.O_CREATE | os.O_TRUNC, true, true}, nil
	case "a+":
		return openMode{os.O_RDWR | os.O_CREATE | os.O_APPEND, true, true}, nil
	}
	return openMode{}, errors.Errorf(errBadMode, mode)
}

// DefaultPerm is the permission used when Open creates a file.
const DefaultPerm = 0o666

// Open opens path with a Ruby mode string. A perm of zero means DefaultPerm.
func (s *Session) Open(path, mode string, perm os.FileMode) (*StreamHandle, error) {
	m, err := parseMode(mode)
	if err != nil {
		return nil, s.policy.Report(err)
	}
	if perm == 0 {
		perm = DefaultPerm
	}

	f, err := portableOS.OpenFile(path, m.flag, perm)
	if err != nil {
		return nil, s.policy.Report(errors.Wrapf(err, errOpen, path, mode))
	}
	return s.newHandle(f, m), nil
}

// ForFD wraps an already open descriptor. The returned stream closes fd on
// Close unless Autoclose is cleared.
func (s *Session) ForFD(fd uintptr, mode string) (*StreamHandle, error) {
	m, err := parseMode(mode)
	if err != nil {
		return nil, s.policy.Report(err)
	}
	name := fmt.Sprintf("fd %d", fd)
	f := portableOS.NewFile(fd, name)
	if f == nil {
		return nil, s.policy.Report(errors.Wrapf(os.ErrInvalid, errOpen,
			name, mode))
	}
	return s.newHandle(f, m), nil
}

// Pipe returns the read and write ends of a new pipe.
func (s *Session) Pipe() (r, w *StreamHandle, err error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, nil, s.policy.Report(errors.WithStack(err))
	}
	r = s.newHandle(pr, openMode{flag: os.O_RDONLY, readable: true})
	w = s.newHandle(pw, openMode{flag: os.O_WRONLY, writable: true})
	return r, w, nil
}

func (s *Session) newHandle(f portableOS.File, m openMode) *StreamHandle {
	return &StreamHandle{
		file:      f,
		fd:        int(f.Fd()),
		r:         bufio.NewReader(f),
		w:         bufio.NewWriter(f),
		readable:  m.readable,
		writable:  m.writable,
		Autoclose: true,
		policy:    s.policy,
		codec:     s.codec,
		separator: s.separator,
		chunkSize: s.chunkSize,
	}
}

func (h *StreamHandle) errClosed(op string) error {
	return errors.Wrapf(ErrClosed, errClosed, op, h.Name())
}

// Name returns the name the file was opened with.
func (h *StreamHandle) Name() string {
	if h.file == nil {
		return ""
	}
	return h.file.Name()
}

// Closed reports whether Close has been called.
func (h *StreamHandle) Closed() bool {
	return h.closed
}

// Fileno returns the underlying descriptor, or -1 once closed. The value is
// taken when the handle is created: File.Fd puts a descriptor back into
// blocking mode, so it must not be called after SetNonblock.
func (h *StreamHandle) Fileno() int {
	if h.closed {
		return -1
	}
	return h.fd
}

// File returns the underlying handle.
func (h *StreamHandle) File() portableOS.File {
	return h.file
}

// prepareRead pushes pending writes out before the read buffer is used.
func (h *StreamHandle) prepareRead(op string) error {
	if h.closed {
		return h.errClosed(op)
	}
	if h.w.Buffered() > 0 {
		if err := h.w.Flush(); err != nil {
			return h.policy.Report(errors.WithStack(err))
		}
	}
	return nil
}

// beginRead is prepareRead for operations that consume input.
func (h *StreamHandle) beginRead(op string) error {
	if !h.closed && !h.readable {
		return h.policy.Report(errors.Errorf(errNotReadable, op, h.Name()))
	}
	return h.prepareRead(op)
}

// prepareWrite gives read-ahead back to the file so the write lands where
// the caller's cursor is.
func (h *StreamHandle) prepareWrite(op string) error {
	if h.closed {
		return h.errClosed(op)
	}
	if !h.writable {
		return h.policy.Report(errors.Errorf(errNotWritable, op, h.Name()))
	}
	if n := h.r.Buffered(); n > 0 {
		if _, err := h.file.Seek(int64(-n), io.SeekCurrent); err != nil {
			return h.policy.Report(errors.Wrapf(err, errSeek, -n,
				io.SeekCurrent, h.Name()))
		}
		h.r.Reset(h.file)
	}
	return nil
}

// Read implements io.Reader.
func (h *StreamHandle) Read(p []byte) (int, error) {
	if err := h.beginRead("read"); err != nil {
		return 0, err
	}
	return h.r.Read(p)
}

// readRecord returns the bytes up to and including sep, or whatever is left
// before end of file. Records are not length limited.
func (h *StreamHandle) readRecord(sep string) ([]byte, error) {
	last := sep[len(sep)-1]
	var record []byte
	for {
		chunk, err := h.r.ReadBytes(last)
		record = append(record, chunk...)
		if err != nil {
			return record, err
		}
		if bytes.HasSuffix(record, []byte(sep)) {
			return record, nil
		}
	}
}

// ReadLine returns the next record terminated by sep (the session default
// when empty) with the separator removed. It returns io.EOF once nothing is
// left; a trailing record without a separator is returned normally.
func (h *StreamHandle) ReadLine(sep string) (string, error) {
	if err := h.beginRead("gets"); err != nil {
		return "", err
	}
	if sep == "" {
		sep = h.separator
	}

	record, err := h.readRecord(sep)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", h.policy.Report(errors.WithStack(err))
	}
	if len(record) == 0 {
		return "", io.EOF
	}

	h.Lineno++
	return h.codec.Decode(chompRecord(record, sep), h.policy)
}

// EachLine implements Stream.
func (h *StreamHandle) EachLine(sep string, limit int, visitor func(string)) error {
	return eachLine(h, sep, limit, visitor)
}

// ReadLines implements Stream.
func (h *StreamHandle) ReadLines(sep string, limit int) ([]string, error) {
	return readLines(h, sep, limit)
}

// ReadData reads length bytes, or to the end of the file for ReadAll, into
// out (replacing its contents) or into a new buffer when out is nil. Short
// reads are retried until length bytes arrive or the file ends. io.EOF is
// returned only when length is positive and nothing could be read.
func (h *StreamHandle) ReadData(length int, out *ByteBuffer) (*ByteBuffer, error) {
	if err := h.beginRead("read"); err != nil {
		return nil, err
	}

	if length < 0 {
		return h.readToEnd(out)
	}

	if out == nil {
		out = NewByteBuffer(length)
	} else {
		out.Reset()
	}
	out.reserve(length)

	n, err := io.ReadFull(h.r, out.bytes[:length])
	out.length = n
	out.bytes[n] = 0
	if err != nil && !errors.Is(err, io.EOF) &&
		!errors.Is(err, io.ErrUnexpectedEOF) {
		return out, h.policy.Report(errors.WithStack(err))
	}
	if length > 0 && n == 0 {
		return out, io.EOF
	}
	return out, nil
}

// readToEnd reads everything that remains. The first allocation is the
// remaining size of a regular file, or the configured chunk size when that
// is unknown, and the buffer grows for as long as data keeps arriving.
func (h *StreamHandle) readToEnd(out *ByteBuffer) (*ByteBuffer, error) {
	chunk := h.chunkSize
	if chunk <= 0 {
		chunk = DefaultReadChunkSize
	}
	if info, err := h.file.Stat(); err == nil && info.Mode().IsRegular() {
		if pos, err := h.Tell(); err == nil && info.Size()-pos > 0 {
			chunk = int(info.Size()-pos) + 1
		}
	}

	if out == nil {
		out = NewByteBuffer(chunk)
	} else {
		out.Reset()
	}

	for {
		if out.Cap()-out.length == 0 {
			out.SetCapacity(out.Cap() + chunk)
		}
		n, err := h.r.Read(out.bytes[out.length:out.Cap()])
		out.length += n
		out.bytes[out.length] = 0
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, h.policy.Report(errors.WithStack(err))
		}
	}
}

// Getbyte returns the next byte.
func (h *StreamHandle) Getbyte() (byte, error) {
	if err := h.beginRead("getbyte"); err != nil {
		return 0, err
	}
	return h.r.ReadByte()
}

// Getc returns the next byte as a one character string.
func (h *StreamHandle) Getc() (string, error) {
	b, err := h.Getbyte()
	if err != nil {
		return "", err
	}
	return string([]byte{b}), nil
}

// Ungetc pushes back the byte returned by the most recent read. Only one
// byte of pushback is available.
func (h *StreamHandle) Ungetc() error {
	if h.closed {
		return h.errClosed("ungetc")
	}
	return errors.WithStack(h.r.UnreadByte())
}

// EachByte calls visitor for every remaining byte.
func (h *StreamHandle) EachByte(visitor func(byte)) error {
	for {
		b, err := h.Getbyte()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		visitor(b)
	}
}

// EOF reports whether the next read would return nothing. It may block on
// pipes and terminals until data or end of file arrives.
func (h *StreamHandle) EOF() bool {
	if h.prepareRead("eof") != nil {
		return true
	}
	_, err := h.r.Peek(1)
	return err != nil
}

// Write implements io.Writer. With sync set every write is flushed.
func (h *StreamHandle) Write(p []byte) (int, error) {
	if err := h.prepareWrite("write"); err != nil {
		return 0, err
	}
	n, err := h.w.Write(p)
	if err != nil {
		return n, h.policy.Report(errors.WithStack(err))
	}
	if n != len(p) {
		return n, h.policy.Report(errors.Errorf(errShortWrite, h.Name(), n,
			len(p)))
	}
	if h.sync {
		if err = h.w.Flush(); err != nil {
			return n, h.policy.Report(errors.WithStack(err))
		}
	}
	return n, nil
}

// WriteString implements io.StringWriter.
func (h *StreamHandle) WriteString(str string) (int, error) {
	return h.Write([]byte(str))
}

// Print writes the operands formatted as fmt.Print does.
func (h *StreamHandle) Print(args ...interface{}) (int, error) {
	return h.WriteString(fmt.Sprint(args...))
}

// Puts writes each line followed by a newline unless it already ends with
// one. With no lines it writes a single newline.
func (h *StreamHandle) Puts(lines ...string) error {
	if len(lines) == 0 {
		_, err := h.WriteString(LineSeparator)
		return err
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, LineSeparator) {
			line += LineSeparator
		}
		if _, err := h.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}

// Putc writes a single byte.
func (h *StreamHandle) Putc(c byte) error {
	_, err := h.Write([]byte{c})
	return err
}

// Seek implements io.Seeker over the logical position, accounting for
// buffered data in both directions.
func (h *StreamHandle) Seek(offset int64, whence int) (int64, error) {
	if err := h.prepareRead("seek"); err != nil {
		return 0, err
	}
	target := offset
	if whence == io.SeekCurrent {
		target -= int64(h.r.Buffered())
	}
	pos, err := h.file.Seek(target, whence)
	if err != nil {
		return pos, h.policy.Report(errors.Wrapf(err, errSeek, offset, whence,
			h.Name()))
	}
	h.r.Reset(h.file)
	return pos, nil
}

// Tell returns the logical position.
func (h *StreamHandle) Tell() (int64, error) {
	if err := h.prepareRead("tell"); err != nil {
		return 0, err
	}
	pos, err := h.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, h.policy.Report(errors.Wrapf(err, errSeek, 0,
			io.SeekCurrent, h.Name()))
	}
	return pos - int64(h.r.Buffered()), nil
}

// Rewind seeks to the start and resets Lineno.
func (h *StreamHandle) Rewind() error {
	if _, err := h.Seek(0, io.SeekStart); err != nil {
		return err
	}
	h.Lineno = 0
	return nil
}

// Flush writes buffered output to the descriptor.
func (h *StreamHandle) Flush() error {
	if h.closed {
		return h.errClosed("flush")
	}
	if err := h.w.Flush(); err != nil {
		return h.policy.Report(errors.WithStack(err))
	}
	return nil
}

// Fsync flushes and then commits the file to stable storage.
func (h *StreamHandle) Fsync() error {
	if err := h.Flush(); err != nil {
		return err
	}
	if err := h.file.Sync(); err != nil {
		return h.policy.Report(errors.WithStack(err))
	}
	return nil
}

// Sync reports whether every write is flushed immediately.
func (h *StreamHandle) Sync() bool {
	return h.sync
}

// SetSync turns write-through on or off. Turning it on flushes.
func (h *StreamHandle) SetSync(on bool) error {
	h.sync = on
	if on && !h.closed {
		return h.Flush()
	}
	return nil
}

// Close flushes and releases the handle. The second and later calls return
// ErrAlreadyClosed without touching the descriptor. For a stream started by
// Popen, Close waits for the child and records its exit status.
func (h *StreamHandle) Close() error {
	if h.closed {
		return ErrAlreadyClosed
	}

	flushErr := h.w.Flush()
	h.closed = true

	if !h.Autoclose {
		detach(h.file)
		return h.policy.Report(errors.WithStack(flushErr))
	}

	err := h.file.Close()
	if h.cmd != nil {
		h.wait()
	}
	if flushErr != nil {
		return h.policy.Report(errors.WithStack(flushErr))
	}
	if err != nil {
		return h.policy.Report(errors.WithStack(err))
	}
	return nil
}

var (
	detachedMux sync.Mutex
	detached    []portableOS.File
)

// detach keeps a reference to f for the life of the process so the runtime
// never finalizes it and closes a descriptor the caller asked to keep.
func detach(f portableOS.File) {
	detachedMux.Lock()
	detached = append(detached, f)
	detachedMux.Unlock()
}

// ReadFile returns length bytes of the named file starting at offset, decoded
// as text. ReadAll reads to the end.
func (s *Session) ReadFile(name string, length int, offset int64) (string, error) {
	buf, err := s.Binread(name, length, offset)
	if err != nil {
		return "", err
	}
	return buf.Text(s.codec, s.policy)
}

// Binread returns length bytes of the named file starting at offset.
func (s *Session) Binread(name string, length int, offset int64) (*ByteBuffer, error) {
	h, err := s.Open(name, "rb", 0)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	if offset > 0 {
		if _, err = h.Seek(offset, io.SeekStart); err != nil {
			return nil, err
		}
	}
	buf, err := h.ReadData(length, nil)
	if errors.Is(err, io.EOF) {
		return NewByteBuffer(0), nil
	}
	return buf, err
}

// NoOffset asks WriteFile and Binwrite to truncate the file instead of
// writing at a position.
const NoOffset int64 = -1

// WriteFile writes data to the named file. With NoOffset the file is
// created or truncated; otherwise it is created if needed and data is
// written at offset without truncating.
func (s *Session) WriteFile(name, data string, offset int64) (int, error) {
	return s.Binwrite(name, []byte(data), offset)
}

// Binwrite is WriteFile for raw bytes.
func (s *Session) Binwrite(name string, data []byte, offset int64) (int, error) {
	mode := "wb"
	if offset >= 0 {
		mode = "r+b"
		if _, err := portableOS.Stat(name); os.IsNotExist(err) {
			mode = "wb"
		}
	}

	h, err := s.Open(name, mode, 0)
	if err != nil {
		return 0, err
	}
	if offset > 0 {
		if _, err = h.Seek(offset, io.SeekStart); err != nil {
			h.Close()
			return 0, err
		}
	}

	n, err := h.Write(data)
	if cerr := h.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// ReadLines returns every record of the named file.
func (s *Session) ReadLines(name, sep string, limit int) ([]string, error) {
	h, err := s.Open(name, "r", 0)
	if err != nil {
		return nil, err
	}
	defer h.Close()
	return h.ReadLines(s.sep(sep), limit)
}

// Foreach calls visitor for every record of the named file.
func (s *Session) Foreach(name, sep string, visitor func(string)) error {
	h, err := s.Open(name, "r", 0)
	if err != nil {
		return err
	}
	defer h.Close()
	return h.EachLine(s.sep(sep), 0, visitor)
}

// CopyStream copies length bytes (everything for a negative length) from src
// to dst. A non-negative srcOffset seeks src first, which must then be an
// io.Seeker. It returns the number of bytes copied.
func (s *Session) CopyStream(dst io.Writer, src io.Reader, length, srcOffset int64) (int64, error) {
	if srcOffset >= 0 {
		seeker, ok := src.(io.Seeker)
		if !ok {
			return 0, s.policy.Report(errors.Wrap(ErrNotSupported,
				"copy_stream offset on a source that cannot seek"))
		}
		if _, err := seeker.Seek(srcOffset, io.SeekStart); err != nil {
			return 0, s.policy.Report(errors.WithStack(err))
		}
	}

	var n int64
	var err error
	if length < 0 {
		n, err = io.Copy(dst, src)
	} else {
		n, err = io.CopyN(dst, src, length)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	}
	if err != nil {
		return n, s.policy.Report(errors.WithStack(err))
	}
	if f, ok := dst.(interface{ Flush() error }); ok {
		if err = f.Flush(); err != nil {
			return n, err
		}
	}
	return n, nil
}
