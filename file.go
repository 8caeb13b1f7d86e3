///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

// file.go holds the path-level operations of Ruby's File class. Predicates
// (Exist, Directory, ...) answer false for paths that cannot be examined and
// never go through the policy; operations that change the file system
// report their failures.

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/elixxir/rubyio/portableOS"
)

func (s *Session) query(path string) *PathQuery {
	q, err := statPath(path, true)
	if err != nil {
		return nil
	}
	return q
}

// Exist reports whether path names anything, following symbolic links.
func (s *Session) Exist(path string) bool {
	return s.query(path) != nil
}

// Directory reports whether path is a directory.
func (s *Session) Directory(path string) bool {
	q := s.query(path)
	return q != nil && q.Directory()
}

// IsFile reports whether path is a regular file.
func (s *Session) IsFile(path string) bool {
	q := s.query(path)
	return q != nil && q.File()
}

// IsSymlink reports whether path itself is a symbolic link.
func (s *Session) IsSymlink(path string) bool {
	q, err := statPath(path, false)
	return err == nil && q.Symlink()
}

// Size returns the size of path in bytes.
func (s *Session) Size(path string) (int64, error) {
	q, err := s.Stat(path)
	if err != nil {
		return 0, err
	}
	return q.Size(), nil
}

// Zero reports whether path exists and is empty.
func (s *Session) Zero(path string) bool {
	q := s.query(path)
	return q != nil && q.Zero()
}

// Readable reports whether the effective user may read path.
func (s *Session) Readable(path string) bool {
	q := s.query(path)
	return q != nil && q.Readable()
}

// Writable reports whether the effective user may write path.
func (s *Session) Writable(path string) bool {
	q := s.query(path)
	return q != nil && q.Writable()
}

// Executable reports whether the effective user may execute path.
func (s *Session) Executable(path string) bool {
	q := s.query(path)
	return q != nil && q.Executable()
}

// Ftype returns the type name of path without following a final symlink.
func (s *Session) Ftype(path string) (string, error) {
	q, err := s.Lstat(path)
	if err != nil {
		return "", err
	}
	return q.Ftype(), nil
}

// Mtime returns the modification time of path.
func (s *Session) Mtime(path string) (time.Time, error) {
	q, err := s.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return q.Mtime(), nil
}

// Atime returns the access time of path.
func (s *Session) Atime(path string) (time.Time, error) {
	q, err := s.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return q.Atime(), nil
}

// Ctime returns the status change time of path.
func (s *Session) Ctime(path string) (time.Time, error) {
	q, err := s.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return q.Ctime(), nil
}

// Identical reports whether both paths resolve to the same file.
func (s *Session) Identical(a, b string) bool {
	qa, qb := s.query(a), s.query(b)
	return qa != nil && qa.Equal(qb)
}

// each runs op over paths, stopping at the first failure, and returns how
// many succeeded.
func (s *Session) each(paths []string, format string, op func(string) error) (int, error) {
	for i, path := range paths {
		if err := op(path); err != nil {
			return i, s.policy.Report(errors.Wrapf(err, format, path))
		}
	}
	return len(paths), nil
}

// Chmod sets the permission bits of each path to mode.
func (s *Session) Chmod(mode uint32, paths ...string) (int, error) {
	return s.each(paths, "chmod %q failed", func(p string) error {
		return portableOS.Chmod(p, permToFileMode(mode))
	})
}

// Chown changes the owner and group of each path. A value of -1 leaves the
// corresponding id unchanged.
func (s *Session) Chown(uid, gid int, paths ...string) (int, error) {
	return s.each(paths, "chown %q failed", func(p string) error {
		return portableOS.Chown(p, uid, gid)
	})
}

// Lchown is Chown without following symbolic links.
func (s *Session) Lchown(uid, gid int, paths ...string) (int, error) {
	return s.each(paths, "lchown %q failed", func(p string) error {
		return portableOS.Lchown(p, uid, gid)
	})
}

// Delete removes each path, which must not be a directory.
func (s *Session) Delete(paths ...string) (int, error) {
	return s.each(paths, "unlink %q failed", func(p string) error {
		if q, err := statPath(p, false); err == nil && q.Directory() {
			return errors.New("is a directory")
		}
		return portableOS.Remove(p)
	})
}

// Unlink is Delete.
func (s *Session) Unlink(paths ...string) (int, error) {
	return s.Delete(paths...)
}

// Utime sets the access and modification times of each path.
func (s *Session) Utime(atime, mtime time.Time, paths ...string) (int, error) {
	return s.each(paths, "utime %q failed", func(p string) error {
		return portableOS.Chtimes(p, atime, mtime)
	})
}

// Link creates newName as a hard link to oldName.
func (s *Session) Link(oldName, newName string) error {
	return s.policy.Report(errors.WithStack(portableOS.Link(oldName, newName)))
}

// Symlink creates newName as a symbolic link to oldName.
func (s *Session) Symlink(oldName, newName string) error {
	return s.policy.Report(errors.WithStack(portableOS.Symlink(oldName, newName)))
}

// Readlink returns the target of a symbolic link.
func (s *Session) Readlink(path string) (string, error) {
	target, err := portableOS.Readlink(path)
	if err != nil {
		return "", s.policy.Report(errors.WithStack(err))
	}
	return target, nil
}

// Rename moves oldName to newName.
func (s *Session) Rename(oldName, newName string) error {
	return s.policy.Report(errors.WithStack(portableOS.Rename(oldName, newName)))
}

// Truncate sets the size of path to size bytes.
func (s *Session) Truncate(path string, size int64) error {
	return s.policy.Report(errors.WithStack(portableOS.Truncate(path, size)))
}

// Realpath resolves path, relative to dir when it is not absolute, to an
// absolute path with no symbolic links. Every component must exist.
func (s *Session) Realpath(path, dir string) (string, error) {
	abs, err := s.AbsolutePath(path, dir)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", s.policy.Report(errors.WithStack(err))
	}
	return resolved, nil
}

// AbsolutePath makes path absolute against dir (the working directory when
// empty) without touching the file system or expanding "~".
func (s *Session) AbsolutePath(path, dir string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", s.policy.Report(errors.WithStack(err))
		}
		dir = wd
	}
	if !filepath.IsAbs(dir) {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", s.policy.Report(errors.WithStack(err))
		}
		dir = abs
	}
	return filepath.Join(dir, path), nil
}

// ExpandPath is AbsolutePath with a leading "~" or "~user" replaced by the
// matching home directory.
func (s *Session) ExpandPath(path, dir string) (string, error) {
	if strings.HasPrefix(path, "~") {
		name, rest, _ := strings.Cut(path[1:], "/")
		home, err := s.Home(name)
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, rest)
	}
	return s.AbsolutePath(path, dir)
}

// Home returns the home directory of name, or of the current user when name
// is empty.
func (s *Session) Home(name string) (string, error) {
	if name == "" {
		if home, ok := os.LookupEnv("HOME"); ok && home != "" {
			return home, nil
		}
		u, err := user.Current()
		if err != nil {
			return "", s.policy.Report(errors.Wrapf(err, errNoUser, name))
		}
		return u.HomeDir, nil
	}
	u, err := user.Lookup(name)
	if err != nil {
		return "", s.policy.Report(errors.Wrapf(err, errNoUser, name))
	}
	return u.HomeDir, nil
}

// permToFileMode converts raw POSIX permission bits into an os.FileMode.
func permToFileMode(mode uint32) os.FileMode {
	m := os.FileMode(mode & 0o777)
	if mode&sISUID != 0 {
		m |= os.ModeSetuid
	}
	if mode&sISGID != 0 {
		m |= os.ModeSetgid
	}
	if mode&sISVTX != 0 {
		m |= os.ModeSticky
	}
	return m
}

// Basename returns the last element of path. A suffix equal to the end of
// that element is removed; the suffix ".*" removes any extension.
func Basename(path, suffix string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		if path == "" {
			return ""
		}
		return "/"
	}
	base := trimmed[strings.LastIndexByte(trimmed, '/')+1:]

	switch {
	case suffix == ".*":
		if ext := Extname(base); ext != "" {
			base = base[:len(base)-len(ext)]
		}
	case suffix != "" && suffix != base && strings.HasSuffix(base, suffix):
		base = base[:len(base)-len(suffix)]
	}
	return base
}

// Dirname returns everything before the last element of path. Trailing
// slashes are ignored, and "." is returned for a bare name.
func Dirname(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		if path == "" {
			return "."
		}
		return "/"
	}
	i := strings.LastIndexByte(trimmed, '/')
	if i < 0 {
		return "."
	}
	dir := strings.TrimRight(trimmed[:i], "/")
	if dir == "" {
		return "/"
	}
	return dir
}

// Extname returns the extension of the last element of path, including the
// dot. Leading dots (dotfiles) and a trailing dot do not start an extension.
func Extname(path string) string {
	base := Basename(path, "")
	name := strings.TrimLeft(base, ".")
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

// Split returns Dirname and Basename of path.
func Split(path string) (dir, base string) {
	return Dirname(path), Basename(path, "")
}

// Join joins parts with a single "/" between them. Unlike filepath.Join it
// does not clean "." or ".." elements.
func Join(parts ...string) string {
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			hasSep := strings.HasSuffix(b.String(), "/")
			part = strings.TrimLeft(part, "/")
			if !hasSep {
				b.WriteByte('/')
			}
		}
		b.WriteString(part)
	}
	return b.String()
}
