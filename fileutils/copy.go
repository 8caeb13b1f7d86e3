///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package fileutils

import (
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"gitlab.com/elixxir/rubyio"
	"gitlab.com/elixxir/rubyio/portableOS"
)

// permOf returns the mode bits chmod should restore for q.
func permOf(q *rubyio.PathQuery) os.FileMode {
	return q.FileMode() & (os.ModePerm | os.ModeSetuid | os.ModeSetgid |
		os.ModeSticky)
}

// copyFile copies one regular file, keeping its permission bits.
func (u *Utils) copyFile(src, dest string) error {
	q, err := rubyio.QueryPath(src, true)
	if err != nil {
		return err
	}
	if q.Directory() {
		return errors.Errorf(errIsDir, src)
	}
	if d, err := rubyio.QueryPath(dest, true); err == nil && q.Equal(d) {
		return errors.Errorf(errSameFile, src, dest)
	}

	in, err := portableOS.Open(src)
	if err != nil {
		return errors.WithStack(err)
	}
	defer in.Close()

	if _, err = writeFrom(dest, permOf(q), in); err != nil {
		return err
	}
	if err = portableOS.Chmod(dest, permOf(q)); err != nil {
		return errors.WithStack(err)
	}
	return u.preserve(q, dest)
}

// preserve copies owner, group and times from q onto dest when Preserve is
// set. Ownership that cannot be given away (not running as root) is kept.
func (u *Utils) preserve(q *rubyio.PathQuery, dest string) error {
	if !u.opts.Preserve {
		return nil
	}
	if err := portableOS.Lchown(dest, q.Uid(), q.Gid()); err != nil &&
		!errors.Is(err, os.ErrPermission) {
		return errors.WithStack(err)
	}
	if q.Symlink() {
		return nil
	}
	return errors.WithStack(portableOS.Chtimes(dest, q.Atime(), q.Mtime()))
}

// copyEntry copies src to dest recursively. Symbolic links are copied as
// links and permission bits are kept, like rsync -rlp.
func (u *Utils) copyEntry(src, dest string) error {
	q, err := rubyio.QueryPath(src, false)
	if err != nil {
		return err
	}

	switch {
	case q.Symlink():
		target, err := portableOS.Readlink(src)
		if err != nil {
			return errors.WithStack(err)
		}
		if err = portableOS.Remove(dest); err != nil && !os.IsNotExist(err) {
			return errors.WithStack(err)
		}
		if err = portableOS.Symlink(target, dest); err != nil {
			return errors.WithStack(err)
		}
		return u.preserve(q, dest)

	case q.Directory():
		if err = portableOS.MkdirAll(dest, 0o700); err != nil {
			return errors.WithStack(err)
		}
		names, err := u.session.Children(src)
		if err != nil {
			return err
		}
		for _, name := range names {
			err = u.copyEntry(filepath.Join(src, name),
				filepath.Join(dest, name))
			if err != nil {
				return err
			}
		}
		if err = portableOS.Chmod(dest, permOf(q)); err != nil {
			return errors.WithStack(err)
		}
		return u.preserve(q, dest)

	case q.File():
		return u.copyFile(src, dest)
	}

	return errors.Errorf(errCopyType, src, q.Ftype())
}

// CopyFile copies the regular file src to dest.
func (u *Utils) CopyFile(src, dest string) error {
	if !u.trace(command("cp", flag(u.opts.Preserve, "p")), src, dest) {
		return nil
	}
	return u.report(u.copyFile(src, dest))
}

// CopyEntry copies src to dest, recursing into directories.
func (u *Utils) CopyEntry(src, dest string) error {
	if !u.trace(command("cp", "r", flag(u.opts.Preserve, "p")), src, dest) {
		return nil
	}
	return u.report(u.copyEntry(src, dest))
}

// Copy is CopyFile.
func (u *Utils) Copy(src, dest string) error {
	return u.CopyFile(src, dest)
}

// Cp copies files. When dest is a directory each source is copied into it;
// otherwise there must be exactly one source. Directories are refused.
func (u *Utils) Cp(srcs []string, dest string) error {
	pairs, err := targets(srcs, dest)
	if err != nil {
		return u.report(err)
	}
	for _, p := range pairs {
		if err = u.CopyFile(p[0], p[1]); err != nil {
			return err
		}
	}
	return nil
}

// CpR is Cp that also copies directories recursively.
func (u *Utils) CpR(srcs []string, dest string) error {
	pairs, err := targets(srcs, dest)
	if err != nil {
		return u.report(err)
	}
	for _, p := range pairs {
		if err = u.CopyEntry(p[0], p[1]); err != nil {
			return err
		}
	}
	return nil
}

// CopyStream copies everything from src to dst.
func (u *Utils) CopyStream(dst io.Writer, src io.Reader) (int64, error) {
	return u.session.CopyStream(dst, src, -1, -1)
}

// Install copies src to dest unless dest already has the same contents,
// then sets mode on dest when mode is non-zero.
func (u *Utils) Install(src, dest string, mode uint32) error {
	if isDir(dest) {
		dest = filepath.Join(dest, filepath.Base(src))
	}
	if !u.trace("install", src, dest) {
		return nil
	}

	same, err := compareFiles(src, dest)
	if err != nil || !same {
		if err = u.copyFile(src, dest); err != nil {
			return u.report(err)
		}
	}
	if mode != 0 {
		if _, err = u.session.Chmod(mode, dest); err != nil {
			return err
		}
	}
	return nil
}

// Mv moves files or directories. Moves across file systems fall back to
// copy and remove. With Force errors are not returned.
func (u *Utils) Mv(srcs []string, dest string) error {
	pairs, err := targets(srcs, dest)
	if err != nil {
		return u.forced(err)
	}
	for _, p := range pairs {
		if !u.trace(command("mv", flag(u.opts.Force, "f")), p[0], p[1]) {
			continue
		}
		if err = u.move(p[0], p[1]); err != nil {
			return u.forced(err)
		}
	}
	return nil
}

func (u *Utils) move(src, dest string) error {
	err := portableOS.Rename(src, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return errors.WithStack(err)
	}
	if err = u.copyEntry(src, dest); err != nil {
		return err
	}
	return u.removeEntry(src)
}

// forced reports err unless Force is set.
func (u *Utils) forced(err error) error {
	if u.opts.Force {
		return nil
	}
	return u.report(err)
}

// Cat writes the concatenation of srcs into dest.
func (u *Utils) Cat(srcs []string, dest string) error {
	if !u.trace("cat", append(append([]string{}, srcs...), ">", dest)...) {
		return nil
	}

	readers := make([]io.Reader, 0, len(srcs))
	for _, src := range srcs {
		f, err := portableOS.Open(src)
		if err != nil {
			return u.report(errors.WithStack(err))
		}
		defer f.Close()
		readers = append(readers, f)
	}
	_, err := writeFrom(dest, 0o666, io.MultiReader(readers...))
	return u.report(err)
}
