///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package rubyio

import "github.com/pkg/errors"

// Advisory lock operations for Flock, combined with |.
const (
	LockSh = 1 << iota
	LockEx
	LockNb
	LockUn
)

func (h *StreamHandle) Flock(int) (bool, error) {
	return false, h.policy.Report(errors.WithStack(ErrNotSupported))
}
