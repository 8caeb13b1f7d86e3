///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Fdatasync flushes and then commits the file's data, but not necessarily
// its metadata, to stable storage.
func (h *StreamHandle) Fdatasync() error {
	if err := h.Flush(); err != nil {
		return err
	}
	if err := unix.Fdatasync(h.Fileno()); err != nil {
		return h.policy.Report(errors.WithStack(err))
	}
	return nil
}
