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
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// fdSetSize is the largest descriptor select(2) can watch.
const fdSetSize = 1024

func fillFdSet(set *unix.FdSet, handles []*StreamHandle, maxFd *int) error {
	set.Zero()
	for _, h := range handles {
		if h == nil {
			continue
		}
		if h.closed {
			return h.errClosed("select")
		}
		fd := h.Fileno()
		if fd < 0 || fd >= fdSetSize {
			return errors.Errorf(errSelectFd, h.Name(), fd)
		}
		set.Set(fd)
		if fd > *maxFd {
			*maxFd = fd
		}
	}
	return nil
}

func collect(set *unix.FdSet, handles []*StreamHandle) []*StreamHandle {
	var ready []*StreamHandle
	for _, h := range handles {
		if h != nil && set.IsSet(h.Fileno()) {
			ready = append(ready, h)
		}
	}
	return ready
}

func selectFds(read, write, errs []*StreamHandle, timeout time.Duration) (*SelectResult, error) {
	var rset, wset, eset unix.FdSet
	maxFd := -1
	for _, group := range []struct {
		set     *unix.FdSet
		handles []*StreamHandle
	}{{&rset, read}, {&wset, write}, {&eset, errs}} {
		if err := fillFdSet(group.set, group.handles, &maxFd); err != nil {
			return nil, err
		}
	}

	// Output already buffered in a write stream has to reach the descriptor
	// before readiness means anything.
	for _, h := range write {
		if h != nil {
			if err := h.w.Flush(); err != nil {
				return nil, errors.WithStack(err)
			}
		}
	}

	deadline := time.Now().Add(timeout)
	for {
		var tv *unix.Timeval
		if timeout >= 0 {
			remaining := time.Until(deadline)
			if remaining < 0 {
				remaining = 0
			}
			t := unix.NsecToTimeval(remaining.Nanoseconds())
			tv = &t
		}

		r, w, e := rset, wset, eset
		n, err := unix.Select(maxFd+1, &r, &w, &e, tv)
		if err == syscall.EINTR {
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, errSelect)
		}
		if n == 0 {
			return &SelectResult{TimedOut: true}, nil
		}
		return &SelectResult{
			Readable: collect(&r, read),
			Writable: collect(&w, write),
			Errored:  collect(&e, errs),
		}, nil
	}
}
