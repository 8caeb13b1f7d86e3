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

func statTimes(st *syscall.Stat_t) (a, m, c, b time.Time) {
	return time.Unix(st.Atimespec.Unix()), time.Unix(st.Mtimespec.Unix()),
		time.Unix(st.Ctimespec.Unix()), time.Unix(st.Birthtimespec.Unix())
}
