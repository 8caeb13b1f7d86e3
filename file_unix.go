///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

//go:build unix

package rubyio

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Lchmod is Chmod without following symbolic links. Linux cannot change the
// mode of a link and reports ErrNotSupported.
func (s *Session) Lchmod(mode uint32, paths ...string) (int, error) {
	return s.each(paths, "lchmod %q failed", func(p string) error {
		err := unix.Fchmodat(unix.AT_FDCWD, p, mode, unix.AT_SYMLINK_NOFOLLOW)
		if errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, unix.ENOTSUP) {
			return errors.Wrap(ErrNotSupported, err.Error())
		}
		return err
	})
}

// Umask returns the process file creation mask without changing it.
func (s *Session) Umask() int {
	old := unix.Umask(0)
	unix.Umask(old)
	return old
}

// SetUmask replaces the process file creation mask and returns the old one.
func (s *Session) SetUmask(mask int) int {
	return unix.Umask(mask)
}

// Mkfifo creates a named pipe.
func (s *Session) Mkfifo(path string, perm uint32) error {
	return s.policy.Report(errors.Wrapf(unix.Mkfifo(path, perm),
		"mkfifo %q failed", path))
}

// Chroot changes the root directory of the process.
func (s *Session) Chroot(path string) error {
	return s.policy.Report(errors.Wrapf(unix.Chroot(path),
		"chroot %q failed", path))
}
