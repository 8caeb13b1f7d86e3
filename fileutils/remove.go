///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package fileutils

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gitlab.com/elixxir/rubyio"
	"gitlab.com/elixxir/rubyio/portableOS"
)

// removeEntry deletes path and, for a directory, everything below it.
func (u *Utils) removeEntry(path string) error {
	if _, err := portableOS.Lstat(path); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(portableOS.RemoveAll(path))
}

// rm applies remove to each path. Missing paths are skipped under Force,
// and with Force other failures are swallowed as well.
func (u *Utils) rm(paths []string, cmd string, remove func(string) error) error {
	for _, path := range paths {
		if !u.trace(cmd, path) {
			continue
		}
		err := remove(path)
		if err == nil {
			continue
		}
		if u.opts.Force {
			if !errors.Is(err, os.ErrNotExist) {
				u.policy.Debugf("rubyio: %s %s: %v", cmd, path, err)
			}
			continue
		}
		return u.report(err)
	}
	return nil
}

// Rm removes files. Directories are refused.
func (u *Utils) Rm(paths ...string) error {
	return u.rm(paths, command("rm", flag(u.opts.Force, "f")),
		func(path string) error {
			q, err := rubyio.QueryPath(path, false)
			if err != nil {
				return err
			}
			if q.Directory() {
				return errors.Errorf(errIsDir, path)
			}
			return errors.WithStack(portableOS.Remove(path))
		})
}

// RmF is Rm with Force.
func (u *Utils) RmF(paths ...string) error {
	return u.With(u.withForce()).Rm(paths...)
}

// RmR removes files and directory trees.
func (u *Utils) RmR(paths ...string) error {
	return u.rm(paths, command("rm", "r", flag(u.opts.Force, "f")),
		u.removeEntry)
}

// RmRF is RmR with Force.
func (u *Utils) RmRF(paths ...string) error {
	return u.With(u.withForce()).RmR(paths...)
}

func (u *Utils) withForce() Options {
	opts := u.opts
	opts.Force = true
	return opts
}

// RemoveEntry removes path recursively.
func (u *Utils) RemoveEntry(path string) error {
	return u.RmR(path)
}

// RemoveEntrySecure removes path recursively, first overwriting the
// contents of every regular file with random data from u.Random and
// syncing it. The parent directory is synced afterwards.
func (u *Utils) RemoveEntrySecure(path string) error {
	if !u.trace("rm -rP", path) {
		return nil
	}
	if err := u.secureRemove(path); err != nil {
		if u.opts.Force && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return u.report(err)
	}
	return u.report(syncDir(filepath.Dir(path)))
}

func (u *Utils) secureRemove(path string) error {
	q, err := rubyio.QueryPath(path, false)
	if err != nil {
		return err
	}
	if !q.Directory() {
		return deleteFile(path, u.Random)
	}

	names, err := u.session.Children(path)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err = u.secureRemove(filepath.Join(path, name)); err != nil {
			return err
		}
	}
	return errors.WithStack(portableOS.Remove(path))
}

// Mkdir creates each directory. Parents must exist.
func (u *Utils) Mkdir(paths ...string) error {
	for _, path := range paths {
		if !u.trace("mkdir", path) {
			continue
		}
		if err := portableOS.Mkdir(path, 0o777); err != nil {
			return u.report(errors.WithStack(err))
		}
	}
	return nil
}

// MkdirP creates each directory and any missing parents.
func (u *Utils) MkdirP(paths ...string) error {
	for _, path := range paths {
		if !u.trace("mkdir -p", path) {
			continue
		}
		if err := portableOS.MkdirAll(path, 0o777); err != nil {
			return u.report(errors.WithStack(err))
		}
	}
	return nil
}

// Rmdir removes each empty directory.
func (u *Utils) Rmdir(paths ...string) error {
	for _, path := range paths {
		if !u.trace("rmdir", path) {
			continue
		}
		if err := u.session.Rmdir(path); err != nil {
			return err
		}
	}
	return nil
}
