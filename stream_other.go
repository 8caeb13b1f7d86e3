///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

//go:build !unix

package rubyio

import (
	"github.com/pkg/errors"
	"golang.org/x/term"
)

func (h *StreamHandle) SetNonblock(bool) error {
	return errors.WithStack(ErrNotSupported)
}

func (h *StreamHandle) Nonblock() bool {
	return false
}

func (h *StreamHandle) SetCloseOnExec(bool) error {
	return errors.WithStack(ErrNotSupported)
}

func (h *StreamHandle) CloseOnExec() bool {
	return false
}

func (h *StreamHandle) ReadNonblock(int) ([]byte, error) {
	return nil, errors.WithStack(ErrNotSupported)
}

func (h *StreamHandle) WriteNonblock([]byte) (int, error) {
	return 0, errors.WithStack(ErrNotSupported)
}

func (h *StreamHandle) Isatty() bool {
	if h.closed {
		return false
	}
	return term.IsTerminal(h.Fileno())
}
