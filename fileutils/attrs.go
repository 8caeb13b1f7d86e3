///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package fileutils

import (
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/elixxir/rubyio"
	"gitlab.com/elixxir/rubyio/portableOS"
)

// Chmod sets the permission bits of each path.
func (u *Utils) Chmod(mode uint32, paths ...string) error {
	for _, path := range paths {
		if !u.trace(fmt.Sprintf("chmod %o", mode), path) {
			continue
		}
		if _, err := u.session.Chmod(mode, path); err != nil {
			return err
		}
	}
	return nil
}

// ChmodR is Chmod applied to every entry below each path as well.
// Symbolic links are not followed.
func (u *Utils) ChmodR(mode uint32, paths ...string) error {
	for _, root := range paths {
		if !u.trace(fmt.Sprintf("chmod -R %o", mode), root) {
			continue
		}
		err := walk(root, func(path string, d fs.DirEntry) error {
			if d.Type()&fs.ModeSymlink != 0 {
				return nil
			}
			_, err := u.session.Chmod(mode, path)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// lookupIDs resolves user and group names (or numeric ids) for chown. An
// empty name keeps the current id.
func lookupIDs(owner, group string) (uid, gid int, err error) {
	uid, gid = -1, -1
	if owner != "" {
		if uid, err = strconv.Atoi(owner); err != nil {
			usr, lerr := user.Lookup(owner)
			if lerr != nil {
				return -1, -1, errors.Wrapf(lerr, errUnknownUser, owner)
			}
			uid, _ = strconv.Atoi(usr.Uid)
		}
	}
	if group != "" {
		if gid, err = strconv.Atoi(group); err != nil {
			grp, lerr := user.LookupGroup(group)
			if lerr != nil {
				return -1, -1, errors.Wrapf(lerr, errUnknownGrp, group)
			}
			gid, _ = strconv.Atoi(grp.Gid)
		}
	}
	return uid, gid, nil
}

// Chown changes the owner and group of each path.
func (u *Utils) Chown(owner, group string, paths ...string) error {
	uid, gid, err := lookupIDs(owner, group)
	if err != nil {
		return u.report(err)
	}
	for _, path := range paths {
		if !u.trace("chown "+owner+":"+group, path) {
			continue
		}
		if _, err = u.session.Chown(uid, gid, path); err != nil {
			return err
		}
	}
	return nil
}

// ChownR is Chown applied to every entry below each path as well.
func (u *Utils) ChownR(owner, group string, paths ...string) error {
	uid, gid, err := lookupIDs(owner, group)
	if err != nil {
		return u.report(err)
	}
	for _, root := range paths {
		if !u.trace("chown -R "+owner+":"+group, root) {
			continue
		}
		err = walk(root, func(path string, _ fs.DirEntry) error {
			_, err := u.session.Lchown(uid, gid, path)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// walk visits root and everything below it without following links.
func walk(root string, visit func(path string, d fs.DirEntry) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WithStack(err)
		}
		return visit(path, d)
	})
}

// Touch sets the access and modification times of each path to now,
// creating missing files.
func (u *Utils) Touch(paths ...string) error {
	now := time.Now()
	for _, path := range paths {
		if !u.trace("touch", path) {
			continue
		}
		if _, err := portableOS.Stat(path); os.IsNotExist(err) {
			f, err := createFile(path, 0o666)
			if err != nil {
				return u.report(err)
			}
			f.Close()
		}
		if _, err := u.session.Utime(now, now, path); err != nil {
			return err
		}
	}
	return nil
}

// link creates each link with mk, into dest when it is a directory.
// Existing targets are replaced under Force.
func (u *Utils) link(srcs []string, dest, cmd string, mk func(oldName, newName string) error) error {
	pairs, err := targets(srcs, dest)
	if err != nil {
		return u.report(err)
	}
	for _, p := range pairs {
		if !u.trace(command(cmd, flag(u.opts.Force, "f")), p[0], p[1]) {
			continue
		}
		if u.opts.Force {
			if q, err := rubyio.QueryPath(p[1], false); err == nil &&
				!q.Directory() {
				if err = portableOS.Remove(p[1]); err != nil {
					return u.report(errors.WithStack(err))
				}
			}
		}
		if err = mk(p[0], p[1]); err != nil {
			return u.report(errors.WithStack(err))
		}
	}
	return nil
}

// Ln creates hard links.
func (u *Utils) Ln(srcs []string, dest string) error {
	return u.link(srcs, dest, "ln", portableOS.Link)
}

// LnS creates symbolic links.
func (u *Utils) LnS(srcs []string, dest string) error {
	return u.link(srcs, dest, "ln -s", portableOS.Symlink)
}

// LnSF creates a symbolic link, replacing an existing dest.
func (u *Utils) LnSF(src, dest string) error {
	return u.With(u.withForce()).LnS([]string{src}, dest)
}

// Uptodate reports whether newer exists and is more recent than every
// existing file in olds.
func (u *Utils) Uptodate(newer string, olds []string) bool {
	q, err := rubyio.QueryPath(newer, true)
	if err != nil {
		return false
	}
	for _, old := range olds {
		o, err := rubyio.QueryPath(old, true)
		if err != nil {
			continue
		}
		if !q.Mtime().After(o.Mtime()) {
			return false
		}
	}
	return true
}

// Identical reports whether a and b are the same file.
func (u *Utils) Identical(a, b string) bool {
	return u.session.Identical(a, b)
}
