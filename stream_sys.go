///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"io"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gitlab.com/elixxir/rubyio/portableOS"
)

// Sysread reads at most length bytes straight from the descriptor. It fails
// while read-ahead is buffered, since those bytes would be skipped.
func (h *StreamHandle) Sysread(length int) ([]byte, error) {
	if err := h.beginRead("sysread"); err != nil {
		return nil, err
	}
	if h.r.Buffered() > 0 {
		return nil, h.policy.Report(errors.Errorf(errBufferedIO, "sysread",
			h.Name()))
	}
	if length <= 0 {
		return []byte{}, nil
	}

	buf := make([]byte, length)
	n, err := h.file.Read(buf)
	if n == 0 && errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, h.policy.Report(errors.WithStack(err))
	}
	return buf[:n], nil
}

// Syswrite writes p straight to the descriptor, after any buffered output.
func (h *StreamHandle) Syswrite(p []byte) (int, error) {
	if err := h.prepareWrite("syswrite"); err != nil {
		return 0, err
	}
	if err := h.w.Flush(); err != nil {
		return 0, h.policy.Report(errors.WithStack(err))
	}
	n, err := h.file.Write(p)
	if err != nil {
		return n, h.policy.Report(errors.WithStack(err))
	}
	return n, nil
}

// Sysseek moves the descriptor offset. Like Sysread it refuses to run
// while read-ahead is buffered.
func (h *StreamHandle) Sysseek(offset int64, whence int) (int64, error) {
	if err := h.prepareRead("sysseek"); err != nil {
		return 0, err
	}
	if h.r.Buffered() > 0 {
		return 0, h.policy.Report(errors.Errorf(errBufferedIO, "sysseek",
			h.Name()))
	}
	pos, err := h.file.Seek(offset, whence)
	if err != nil {
		return pos, h.policy.Report(errors.Wrapf(err, errSeek, offset, whence,
			h.Name()))
	}
	return pos, nil
}

// EachChar calls visitor with every remaining UTF-8 character. A byte that
// does not start a valid sequence is passed on its own.
func (h *StreamHandle) EachChar(visitor func(string)) error {
	if err := h.beginRead("each_char"); err != nil {
		return err
	}
	for {
		r, size, err := h.r.ReadRune()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return h.policy.Report(errors.WithStack(err))
		}
		if r == utf8.RuneError && size == 1 {
			_ = h.r.UnreadRune()
			b, _ := h.r.ReadByte()
			visitor(string([]byte{b}))
			continue
		}
		visitor(string(r))
	}
}

// Reopen points the stream at path, opened with mode, closing the old file
// (or detaching it when Autoclose is off). Lineno restarts and Fileno may
// change. On failure the stream keeps its old file.
func (h *StreamHandle) Reopen(path, mode string) error {
	if h.closed {
		return h.errClosed("reopen")
	}
	m, err := parseMode(mode)
	if err != nil {
		return h.policy.Report(err)
	}
	if err = h.w.Flush(); err != nil {
		return h.policy.Report(errors.WithStack(err))
	}

	f, err := portableOS.OpenFile(path, m.flag, DefaultPerm)
	if err != nil {
		return h.policy.Report(errors.Wrapf(err, errOpen, path, mode))
	}

	old := h.file
	h.file = f
	h.fd = int(f.Fd())
	h.r.Reset(f)
	h.w.Reset(f)
	h.readable, h.writable = m.readable, m.writable
	h.Lineno = 0
	h.nonblock = false

	if !h.Autoclose {
		detach(old)
		return nil
	}
	return h.policy.Report(errors.WithStack(old.Close()))
}
