///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package portableOS

import (
	"os"
)

// Open opens the named file for reading. If successful, methods on the returned
// file can be used for reading; the associated file descriptor has mode
// os.O_RDONLY.
var Open = func(name string) (File, error) {
	return os.Open(name)
}

// OpenFile is the generalized open call. It opens the named file with the
// specified flag (os.O_RDONLY etc.) and, when creating, the permission bits.
var OpenFile = func(name string, flag int, perm FileMode) (File, error) {
	return os.OpenFile(name, flag, perm)
}

// Create creates or truncates the named file. If the file does not exist, it
// is created with mode 0666 (before umask).
var Create = func(name string) (File, error) {
	return os.Create(name)
}

// NewFile returns a File wrapping an already open descriptor, or nil if fd
// is not a valid file descriptor.
var NewFile = func(fd uintptr, name string) File {
	f := os.NewFile(fd, name)
	if f == nil {
		return nil
	}
	return f
}

// Remove removes the named file or (empty) directory.
var Remove = os.Remove

// RemoveAll removes path and any children it contains.
// If the path does not exist, RemoveAll returns nil (no error).
var RemoveAll = os.RemoveAll

// MkdirAll creates a directory named path, along with any necessary parents.
// The permission bits perm (before umask) are used for all directories that
// MkdirAll creates. If path is already a directory, MkdirAll does nothing.
var MkdirAll = func(path string, perm FileMode) error {
	return os.MkdirAll(path, perm)
}

// Stat returns a FileInfo describing the named file, following symlinks.
var Stat = os.Stat

// Lstat returns a FileInfo describing the named file without following a
// final symlink.
var Lstat = os.Lstat

// Mkdir creates a directory; its parent must exist.
var Mkdir = func(path string, perm FileMode) error {
	return os.Mkdir(path, perm)
}

// Chdir changes the working directory of the process.
var Chdir = os.Chdir

// Chmod sets the mode bits of the named file, following symlinks.
var Chmod = func(name string, mode FileMode) error {
	return os.Chmod(name, mode)
}

// Chown changes the numeric owner and group of the named file, following
// symlinks. An id of -1 is left unchanged.
var Chown = os.Chown

// Lchown is Chown on a symbolic link itself.
var Lchown = os.Lchown

// Chtimes sets the access and modification times of the named file.
var Chtimes = os.Chtimes

// Link creates newname as a hard link to oldname.
var Link = os.Link

// Symlink creates newname as a symbolic link to oldname.
var Symlink = os.Symlink

// Readlink returns the target of a symbolic link.
var Readlink = os.Readlink

// Rename moves oldpath to newpath, replacing newpath if it is not a
// directory.
var Rename = os.Rename

// Truncate changes the size of the named file.
var Truncate = os.Truncate
