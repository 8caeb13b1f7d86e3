///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

// Package portableOS contains global OS functions that can be overwritten to
// route rubyio through something other than the [os] package, such as a test
// double that reports a different user or group.
//
// Note to those implementing these functions: errors for missing paths,
// permission problems and closed files must satisfy errors.Is against
// os.ErrNotExist, os.ErrPermission and os.ErrClosed respectively.
package portableOS

import (
	"os"
)

// File represents an open file descriptor. It contains the subset of the
// methods on os.File that rubyio streams and directory iterators use.
type File interface {
	// Close closes the File, rendering it unusable for I/O.
	// Close will return an error if it has already been called.
	Close() error

	// Name returns the name of the file as presented to Open.
	Name() string

	// Fd returns the integer Unix file descriptor referencing the open file.
	Fd() uintptr

	// Read reads up to len(b) bytes from the File and stores them in b.
	// It returns the number of bytes read and any error encountered.
	// At end of file, Read returns 0, io.EOF.
	Read(b []byte) (n int, err error)

	// ReadAt reads len(b) bytes from the File starting at byte offset off.
	// ReadAt always returns a non-nil error when n < len(b).
	ReadAt(b []byte, off int64) (n int, err error)

	// Readdirnames reads the contents of the directory and returns a slice
	// of up to n names, in directory order. "." and ".." are not included.
	Readdirnames(n int) (names []string, err error)

	// Seek sets the offset for the next Read or Write on file to offset,
	// interpreted according to whence: 0 means relative to the origin of the
	// file, 1 means relative to the current offset, and 2 means relative to
	// the end. It returns the new offset and an error, if any.
	Seek(offset int64, whence int) (ret int64, err error)

	// Stat returns the FileInfo structure describing file.
	Stat() (os.FileInfo, error)

	// Sync commits the current contents of the file to stable storage.
	Sync() error

	// Write writes len(b) bytes from b to the File.
	// Write returns a non-nil error when n != len(b).
	Write(b []byte) (n int, err error)
}

// A FileMode represents a file's mode and permission bits. See os.FileMode for
// all possible values.
type FileMode = os.FileMode
