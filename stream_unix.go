///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

//go:build unix

package rubyio

import (
	"io"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// SetNonblock switches O_NONBLOCK on the descriptor.
func (h *StreamHandle) SetNonblock(on bool) error {
	if h.closed {
		return h.errClosed("nonblock=")
	}
	if err := unix.SetNonblock(h.Fileno(), on); err != nil {
		return h.policy.Report(errors.WithStack(err))
	}
	h.nonblock = on
	return nil
}

// Nonblock reports the last value given to SetNonblock.
func (h *StreamHandle) Nonblock() bool {
	return h.nonblock
}

// SetCloseOnExec switches FD_CLOEXEC on the descriptor.
func (h *StreamHandle) SetCloseOnExec(on bool) error {
	if h.closed {
		return h.errClosed("close_on_exec=")
	}
	fd := h.Fileno()
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	if err != nil {
		return h.policy.Report(errors.WithStack(err))
	}
	if on {
		flags |= unix.FD_CLOEXEC
	} else {
		flags &^= unix.FD_CLOEXEC
	}
	if _, err = unix.FcntlInt(uintptr(fd), unix.F_SETFD, flags); err != nil {
		return h.policy.Report(errors.WithStack(err))
	}
	h.closeOnExec = on
	return nil
}

// CloseOnExec reports whether FD_CLOEXEC is set on the descriptor.
func (h *StreamHandle) CloseOnExec() bool {
	if h.closed {
		return h.closeOnExec
	}
	flags, err := unix.FcntlInt(uintptr(h.Fileno()), unix.F_GETFD, 0)
	if err != nil {
		return h.closeOnExec
	}
	return flags&unix.FD_CLOEXEC != 0
}

// ReadNonblock returns up to length bytes without waiting. Buffered data is
// returned first; otherwise a single read is made with O_NONBLOCK set, and
// ErrWouldBlock is returned when nothing is ready.
func (h *StreamHandle) ReadNonblock(length int) ([]byte, error) {
	if err := h.beginRead("read_nonblock"); err != nil {
		return nil, err
	}
	if length <= 0 {
		return []byte{}, nil
	}

	if n := h.r.Buffered(); n > 0 {
		buf := make([]byte, min(n, length))
		read, err := h.r.Read(buf)
		return buf[:read], errors.WithStack(err)
	}

	fd := h.Fileno()
	if !h.nonblock {
		if err := unix.SetNonblock(fd, true); err != nil {
			return nil, h.policy.Report(errors.WithStack(err))
		}
		defer unix.SetNonblock(fd, false)
	}

	buf := make([]byte, length)
	for {
		n, err := unix.Read(fd, buf)
		if err == syscall.EINTR {
			continue
		}
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil, errors.Wrapf(ErrWouldBlock, "read_nonblock on %q",
				h.Name())
		}
		if err != nil {
			return nil, h.policy.Report(errors.WithStack(err))
		}
		if n == 0 {
			return nil, io.EOF
		}
		return buf[:n], nil
	}
}

// WriteNonblock flushes buffered output, then makes one write of p with
// O_NONBLOCK set and returns what the descriptor accepted. ErrWouldBlock is
// returned when it accepts nothing.
func (h *StreamHandle) WriteNonblock(p []byte) (int, error) {
	if err := h.prepareWrite("write_nonblock"); err != nil {
		return 0, err
	}
	if err := h.w.Flush(); err != nil {
		return 0, h.policy.Report(errors.WithStack(err))
	}
	if len(p) == 0 {
		return 0, nil
	}

	fd := h.Fileno()
	if !h.nonblock {
		if err := unix.SetNonblock(fd, true); err != nil {
			return 0, h.policy.Report(errors.WithStack(err))
		}
		defer unix.SetNonblock(fd, false)
	}

	for {
		n, err := unix.Write(fd, p)
		if err == syscall.EINTR {
			continue
		}
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, errors.Wrapf(ErrWouldBlock, "write_nonblock on %q",
				h.Name())
		}
		if err != nil {
			return 0, h.policy.Report(errors.WithStack(err))
		}
		return n, nil
	}
}

// Isatty reports whether the descriptor is a terminal.
func (h *StreamHandle) Isatty() bool {
	if h.closed {
		return false
	}
	return term.IsTerminal(h.Fileno())
}
