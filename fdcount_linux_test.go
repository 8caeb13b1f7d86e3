///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

//go:build linux

package rubyio

import (
	"os"
	"testing"
)

// getFDCount returns the number of open file descriptors for the current
// process by counting entries in /proc/self/fd.
func getFDCount(t *testing.T) int {
	files, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Fatalf("cannot count descriptors: %+v", err)
	}
	return len(files)
}
