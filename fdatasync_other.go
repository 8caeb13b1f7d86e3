///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

//go:build !linux

package rubyio

// Fdatasync is Fsync where the platform has no separate data-only sync.
func (h *StreamHandle) Fdatasync() error {
	return h.Fsync()
}
