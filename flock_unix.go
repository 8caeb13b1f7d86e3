///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package rubyio

import (
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Advisory lock operations for Flock, combined with |.
const (
	LockSh = unix.LOCK_SH
	LockEx = unix.LOCK_EX
	LockNb = unix.LOCK_NB
	LockUn = unix.LOCK_UN
)

// Flock applies or removes an advisory lock on the whole file. With LockNb
// a lock held elsewhere makes it return false and a nil error instead of
// waiting.
func (h *StreamHandle) Flock(how int) (bool, error) {
	if h.closed {
		return false, h.errClosed("flock")
	}
	for {
		err := unix.Flock(h.Fileno(), how)
		switch {
		case err == nil:
			return true, nil
		case err == syscall.EINTR:
			continue
		case how&LockNb != 0 && err == unix.EWOULDBLOCK:
			return false, nil
		}
		return false, h.policy.Report(errors.Wrapf(err, errFlock, h.Name(),
			how))
	}
}
