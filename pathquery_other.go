///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

//go:build !(linux || darwin)

package rubyio

import (
	"os"
)

func fromFileInfo(path string, fi os.FileInfo) *PathQuery {
	return fromBasicInfo(path, fi)
}

func (q *PathQuery) RdevMajor() (uint32, bool) { return 0, false }

func (q *PathQuery) RdevMinor() (uint32, bool) { return 0, false }
