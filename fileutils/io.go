///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package fileutils

// io.go provides the low level write and delete helpers. Files written by
// this package are committed to disk: the file is synced, and so is the
// directory holding it, so that a crash right after an operation returns
// does not lose the new entry.

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gitlab.com/elixxir/rubyio/portableOS"
)

// syncDir flushes a directory so that entries created in it are durable.
func syncDir(dir string) error {
	d, err := portableOS.Open(dir)
	if err != nil {
		return errors.WithStack(err)
	}
	err = d.Sync()
	d.Close()
	// Some file systems refuse fsync on directories.
	if err != nil && !errors.Is(err, os.ErrInvalid) {
		return errors.WithStack(err)
	}
	return nil
}

// createFile creates (or truncates) the file, flushes the directory so the
// entry exists on disk, then returns an open, writable file handle.
func createFile(path string, perm os.FileMode) (portableOS.File, error) {
	f, err := portableOS.OpenFile(path,
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err = syncDir(filepath.Dir(path)); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// writeFrom copies src into a new file at path and syncs it.
func writeFrom(path string, perm os.FileMode, src io.Reader) (int64, error) {
	f, err := createFile(path, perm)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, src)
	if err != nil {
		f.Close()
		return n, errors.WithStack(err)
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return n, errors.WithStack(err)
	}
	return n, errors.WithStack(f.Close())
}

// deleteFile overwrites a file's contents with random data and then deletes
// the file. A missing file is not an error.
func deleteFile(path string, csprng io.Reader) error {
	info, err := portableOS.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.WithStack(err)
	}

	if info.Mode().IsRegular() && info.Size() > 0 {
		f, err := portableOS.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return errors.WithStack(err)
		}
		n, err := io.CopyN(f, csprng, info.Size())
		if err == nil && n != info.Size() {
			err = errors.Errorf(errShortWrite, path, n, info.Size())
		}
		if err == nil {
			err = f.Sync()
		}
		f.Close()
		if err != nil {
			return errors.WithStack(err)
		}
	}

	return errors.WithStack(portableOS.Remove(path))
}
