///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/elixxir/rubyio/portableOS"
)

// POSIX st_mode bits. The values are fixed by the standard and identical on
// every supported platform.
const (
	sIFMT   = 0o170000
	sIFSOCK = 0o140000
	sIFLNK  = 0o120000
	sIFREG  = 0o100000
	sIFBLK  = 0o060000
	sIFDIR  = 0o040000
	sIFCHR  = 0o020000
	sIFIFO  = 0o010000
	sISUID  = 0o4000
	sISGID  = 0o2000
	sISVTX  = 0o1000
	sIRUSR  = 0o400
	sIWUSR  = 0o200
	sIXUSR  = 0o100
	sIRGRP  = 0o040
	sIWGRP  = 0o020
	sIXGRP  = 0o010
	sIROTH  = 0o004
	sIWOTH  = 0o002
	sIXOTH  = 0o001
)

// maxGroups is how many supplementary groups are examined by Grpowned and
// Rgrpowned. Membership in groups past this many is not seen.
const maxGroups = 1000

// PathQuery is a snapshot of a file's metadata taken by Stat, Lstat or
// StreamHandle.Stat. It does not change when the file does.
type PathQuery struct {
	path string

	mode    uint32
	dev     uint64
	ino     uint64
	nlink   uint64
	uid     int
	gid     int
	rdev    uint64
	size    int64
	blksize int64
	blocks  int64

	atime     time.Time
	mtime     time.Time
	ctime     time.Time
	birthtime time.Time
}

// Stat returns the metadata of path, following symbolic links.
func (s *Session) Stat(path string) (*PathQuery, error) {
	q, err := statPath(path, true)
	if err != nil {
		return nil, s.policy.Report(errors.Wrapf(err, errStat, path))
	}
	return q, nil
}

// Lstat returns the metadata of path itself when it is a symbolic link.
func (s *Session) Lstat(path string) (*PathQuery, error) {
	q, err := statPath(path, false)
	if err != nil {
		return nil, s.policy.Report(errors.Wrapf(err, errLstat, path))
	}
	return q, nil
}

// Stat returns the metadata of the open file.
func (h *StreamHandle) Stat() (*PathQuery, error) {
	if h.closed {
		return nil, h.errClosed("stat")
	}
	q, err := statFd(h.file)
	if err != nil {
		return nil, h.policy.Report(errors.Wrapf(err, errFstat, h.Name()))
	}
	return q, nil
}

// QueryPath takes a snapshot of path without involving any policy, for
// callers that report failures themselves.
func QueryPath(path string, follow bool) (*PathQuery, error) {
	q, err := statPath(path, follow)
	return q, errors.WithStack(err)
}

func statPath(path string, follow bool) (*PathQuery, error) {
	stat := portableOS.Lstat
	if follow {
		stat = portableOS.Stat
	}
	fi, err := stat(path)
	if err != nil {
		return nil, err
	}
	return fromFileInfo(path, fi), nil
}

func statFd(f portableOS.File) (*PathQuery, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return fromFileInfo(f.Name(), fi), nil
}

// fromBasicInfo fills what os.FileInfo carries on every platform.
func fromBasicInfo(path string, fi os.FileInfo) *PathQuery {
	m := fi.Mode()
	mode := uint32(m.Perm())
	switch {
	case m.IsDir():
		mode |= sIFDIR
	case m&os.ModeSymlink != 0:
		mode |= sIFLNK
	case m&os.ModeNamedPipe != 0:
		mode |= sIFIFO
	case m&os.ModeSocket != 0:
		mode |= sIFSOCK
	case m&os.ModeCharDevice != 0:
		mode |= sIFCHR
	case m&os.ModeDevice != 0:
		mode |= sIFBLK
	default:
		mode |= sIFREG
	}
	if m&os.ModeSetuid != 0 {
		mode |= sISUID
	}
	if m&os.ModeSetgid != 0 {
		mode |= sISGID
	}
	if m&os.ModeSticky != 0 {
		mode |= sISVTX
	}
	return &PathQuery{
		path:  path,
		mode:  mode,
		size:  fi.Size(),
		mtime: fi.ModTime(),
		atime: fi.ModTime(),
		ctime: fi.ModTime(),
		nlink: 1,
		uid:   -1,
		gid:   -1,
	}
}

// Path returns the path the snapshot was taken of.
func (q *PathQuery) Path() string { return q.path }

// Mode returns the raw st_mode, type bits included.
func (q *PathQuery) Mode() uint32 { return q.mode }

// Perm returns the permission bits, including setuid, setgid and sticky.
func (q *PathQuery) Perm() uint32 { return q.mode &^ sIFMT }

// FileMode returns the mode converted to an os.FileMode.
func (q *PathQuery) FileMode() os.FileMode {
	m := os.FileMode(q.mode & 0o777)
	switch q.mode & sIFMT {
	case sIFDIR:
		m |= os.ModeDir
	case sIFLNK:
		m |= os.ModeSymlink
	case sIFIFO:
		m |= os.ModeNamedPipe
	case sIFSOCK:
		m |= os.ModeSocket
	case sIFBLK:
		m |= os.ModeDevice
	case sIFCHR:
		m |= os.ModeDevice | os.ModeCharDevice
	}
	if q.mode&sISUID != 0 {
		m |= os.ModeSetuid
	}
	if q.mode&sISGID != 0 {
		m |= os.ModeSetgid
	}
	if q.mode&sISVTX != 0 {
		m |= os.ModeSticky
	}
	return m
}

// Dev returns the id of the device holding the file.
func (q *PathQuery) Dev() uint64 { return q.dev }

// Ino returns the inode number.
func (q *PathQuery) Ino() uint64 { return q.ino }

// Nlink returns the number of hard links.
func (q *PathQuery) Nlink() uint64 { return q.nlink }

// Uid returns the owner's user id.
func (q *PathQuery) Uid() int { return q.uid }

// Gid returns the owner's group id.
func (q *PathQuery) Gid() int { return q.gid }

// Rdev returns the device id of a special file.
func (q *PathQuery) Rdev() uint64 { return q.rdev }

// Size returns the size in bytes.
func (q *PathQuery) Size() int64 { return q.size }

// Blksize returns the preferred I/O block size.
func (q *PathQuery) Blksize() int64 { return q.blksize }

// Blocks returns the number of 512-byte blocks allocated.
func (q *PathQuery) Blocks() int64 { return q.blocks }

// Atime returns the last access time.
func (q *PathQuery) Atime() time.Time { return q.atime }

// Mtime returns the last modification time.
func (q *PathQuery) Mtime() time.Time { return q.mtime }

// Ctime returns the last status change time.
func (q *PathQuery) Ctime() time.Time { return q.ctime }

// Birthtime returns the creation time where the platform records one.
func (q *PathQuery) Birthtime() (time.Time, error) {
	if q.birthtime.IsZero() {
		return time.Time{}, errors.Wrap(ErrNotSupported, "birthtime")
	}
	return q.birthtime, nil
}

func (q *PathQuery) isType(t uint32) bool { return q.mode&sIFMT == t }

// Directory reports whether the file is a directory.
func (q *PathQuery) Directory() bool { return q.isType(sIFDIR) }

// File reports whether the file is a regular file.
func (q *PathQuery) File() bool { return q.isType(sIFREG) }

// Symlink reports whether the file is a symbolic link. Only an Lstat
// snapshot can be one.
func (q *PathQuery) Symlink() bool { return q.isType(sIFLNK) }

// Pipe reports whether the file is a FIFO.
func (q *PathQuery) Pipe() bool { return q.isType(sIFIFO) }

// Socket reports whether the file is a socket.
func (q *PathQuery) Socket() bool { return q.isType(sIFSOCK) }

// Blockdev reports whether the file is a block device.
func (q *PathQuery) Blockdev() bool { return q.isType(sIFBLK) }

// Chardev reports whether the file is a character device.
func (q *PathQuery) Chardev() bool { return q.isType(sIFCHR) }

// Setuid reports whether the set-user-id bit is set.
func (q *PathQuery) Setuid() bool { return q.mode&sISUID != 0 }

// Setgid reports whether the set-group-id bit is set.
func (q *PathQuery) Setgid() bool { return q.mode&sISGID != 0 }

// Sticky reports whether the sticky bit is set.
func (q *PathQuery) Sticky() bool { return q.mode&sISVTX != 0 }

// Zero reports whether the file is empty.
func (q *PathQuery) Zero() bool { return q.size == 0 }

// Ftype names the file type the way Ruby's File.ftype does.
func (q *PathQuery) Ftype() string {
	switch q.mode & sIFMT {
	case sIFREG:
		return "file"
	case sIFDIR:
		return "directory"
	case sIFCHR:
		return "characterSpecial"
	case sIFBLK:
		return "blockSpecial"
	case sIFIFO:
		return "fifo"
	case sIFLNK:
		return "link"
	case sIFSOCK:
		return "socket"
	}
	return "unknown"
}

// Owned reports whether the effective uid owns the file.
func (q *PathQuery) Owned() bool { return portableOS.Geteuid() == q.uid }

// Rowned reports whether the real uid owns the file.
func (q *PathQuery) Rowned() bool { return portableOS.Getuid() == q.uid }

// Grpowned reports whether the file's group is the effective gid or one of
// the caller's supplementary groups.
func (q *PathQuery) Grpowned() bool { return q.groupMember(portableOS.Getegid()) }

// Rgrpowned is Grpowned for the real gid.
func (q *PathQuery) Rgrpowned() bool { return q.groupMember(portableOS.Getgid()) }

func (q *PathQuery) groupMember(primary int) bool {
	if q.gid == primary {
		return true
	}
	groups, err := portableOS.Getgroups()
	if err != nil {
		return false
	}
	if len(groups) > maxGroups {
		groups = groups[:maxGroups]
	}
	for _, g := range groups {
		if g == q.gid {
			return true
		}
	}
	return false
}

// permitted applies the POSIX access rules for one of read, write or
// execute, given the caller's uid and group test.
func (q *PathQuery) permitted(uid int, grouped func() bool, usr, grp, oth uint32) bool {
	if uid == 0 {
		if usr != sIXUSR {
			return true
		}
		return q.Directory() || q.mode&(sIXUSR|sIXGRP|sIXOTH) != 0
	}
	if uid == q.uid {
		return q.mode&usr != 0
	}
	if grouped() {
		return q.mode&grp != 0
	}
	return q.mode&oth != 0
}

// Readable reports whether the effective user may read the file.
func (q *PathQuery) Readable() bool {
	return q.permitted(portableOS.Geteuid(), q.Grpowned, sIRUSR, sIRGRP, sIROTH)
}

// ReadableReal is Readable for the real user and group.
func (q *PathQuery) ReadableReal() bool {
	return q.permitted(portableOS.Getuid(), q.Rgrpowned, sIRUSR, sIRGRP, sIROTH)
}

// Writable reports whether the effective user may write the file.
func (q *PathQuery) Writable() bool {
	return q.permitted(portableOS.Geteuid(), q.Grpowned, sIWUSR, sIWGRP, sIWOTH)
}

// WritableReal is Writable for the real user and group.
func (q *PathQuery) WritableReal() bool {
	return q.permitted(portableOS.Getuid(), q.Rgrpowned, sIWUSR, sIWGRP, sIWOTH)
}

// Executable reports whether the effective user may execute the
// file, or search it when it is a directory.
func (q *PathQuery) Executable() bool {
	return q.permitted(portableOS.Geteuid(), q.Grpowned, sIXUSR, sIXGRP, sIXOTH)
}

// ExecutableReal is Executable for the real user and group.
func (q *PathQuery) ExecutableReal() bool {
	return q.permitted(portableOS.Getuid(), q.Rgrpowned, sIXUSR, sIXGRP, sIXOTH)
}

// WorldReadable reports whether others may read the file.
func (q *PathQuery) WorldReadable() bool { return q.mode&sIROTH != 0 }

// WorldWritable reports whether others may write the file.
func (q *PathQuery) WorldWritable() bool { return q.mode&sIWOTH != 0 }

// Equal reports whether both snapshots describe the same file, by device and
// inode.
func (q *PathQuery) Equal(other *PathQuery) bool {
	if q == nil || other == nil {
		return false
	}
	return q.dev == other.dev && q.ino == other.ino
}
