///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

//go:build linux || darwin

package rubyio

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// fromFileInfo copies the raw stat structure when the FileInfo carries one,
// and falls back to the portable fields otherwise.
func fromFileInfo(path string, fi os.FileInfo) *PathQuery {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok || st == nil {
		return fromBasicInfo(path, fi)
	}

	q := &PathQuery{
		path:    path,
		mode:    uint32(st.Mode),
		dev:     uint64(st.Dev),
		ino:     uint64(st.Ino),
		nlink:   uint64(st.Nlink),
		uid:     int(st.Uid),
		gid:     int(st.Gid),
		rdev:    uint64(st.Rdev),
		size:    st.Size,
		blksize: int64(st.Blksize),
		blocks:  st.Blocks,
	}
	q.atime, q.mtime, q.ctime, q.birthtime = statTimes(st)
	return q
}

// RdevMajor returns the major number of the device the file represents.
func (q *PathQuery) RdevMajor() (uint32, bool) {
	if !q.Chardev() && !q.Blockdev() {
		return 0, false
	}
	return unix.Major(q.rdev), true
}

// RdevMinor returns the minor number of the device the file represents.
func (q *PathQuery) RdevMinor() (uint32, bool) {
	if !q.Chardev() && !q.Blockdev() {
		return 0, false
	}
	return unix.Minor(q.rdev), true
}
