///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"syscall"
	"time"
)

// statTimes returns atime, mtime and ctime. Linux stat(2) has no birth time.
func statTimes(st *syscall.Stat_t) (a, m, c, b time.Time) {
	return time.Unix(st.Atim.Unix()), time.Unix(st.Mtim.Unix()),
		time.Unix(st.Ctim.Unix()), time.Time{}
}
