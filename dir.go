///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gitlab.com/elixxir/rubyio/portableOS"
)

// readdirBatch is how many names are fetched from the OS per refill.
const readdirBatch = 256

// DirectoryIterator walks the names in one directory, in directory order,
// starting with "." and "..". Positions used by Seek and Tell are entry
// indexes.
type DirectoryIterator struct {
	path   string
	file   portableOS.File
	names  []string
	pos    int
	done   bool
	closed bool
	policy *Policy
}

// OpenDir opens path for iteration.
func (s *Session) OpenDir(path string) (*DirectoryIterator, error) {
	f, err := portableOS.Open(path)
	if err != nil {
		return nil, s.policy.Report(errors.Wrapf(err, errOpenDir, path))
	}
	if fi, err := f.Stat(); err == nil && !fi.IsDir() {
		f.Close()
		return nil, s.policy.Report(errors.Errorf(errOpenDir+": not a directory",
			path))
	}
	return &DirectoryIterator{
		path:   path,
		file:   f,
		names:  []string{".", ".."},
		policy: s.policy,
	}, nil
}

// Path returns the path the iterator was opened with.
func (d *DirectoryIterator) Path() string {
	return d.path
}

// Fileno returns the descriptor of the open directory.
func (d *DirectoryIterator) Fileno() int {
	if d.closed {
		return -1
	}
	return int(d.file.Fd())
}

// fill makes sure names has an entry at index i, if the directory has one.
func (d *DirectoryIterator) fill(i int) error {
	for i >= len(d.names) && !d.done {
		batch, err := d.file.Readdirnames(readdirBatch)
		d.names = append(d.names, batch...)
		if errors.Is(err, io.EOF) || (err == nil && len(batch) == 0) {
			d.done = true
			return nil
		}
		if err != nil {
			return d.policy.Report(errors.Wrapf(err, "readdir %q failed",
				d.path))
		}
	}
	return nil
}

// Read returns the next name, or io.EOF after the last one.
func (d *DirectoryIterator) Read() (string, error) {
	if d.closed {
		return "", errors.Wrapf(ErrClosed, errClosed, "read", d.path)
	}
	if err := d.fill(d.pos); err != nil {
		return "", err
	}
	if d.pos >= len(d.names) {
		return "", io.EOF
	}
	name := d.names[d.pos]
	d.pos++
	return name, nil
}

// Tell returns the index of the next entry Read will return.
func (d *DirectoryIterator) Tell() int {
	return d.pos
}

// Seek moves to an index returned by Tell. Seeking past the last entry
// leaves the iterator at the end.
func (d *DirectoryIterator) Seek(pos int) error {
	if d.closed {
		return errors.Wrapf(ErrClosed, errClosed, "seek", d.path)
	}
	if pos < 0 {
		return d.policy.Report(errors.Wrapf(ErrOutOfRange, "dir seek %d", pos))
	}
	if err := d.fill(pos); err != nil {
		return err
	}
	d.pos = min(pos, len(d.names))
	return nil
}

// Rewind starts the iteration over, re-reading the directory.
func (d *DirectoryIterator) Rewind() error {
	if d.closed {
		return errors.Wrapf(ErrClosed, errClosed, "rewind", d.path)
	}
	if _, err := d.file.Seek(0, io.SeekStart); err != nil {
		return d.policy.Report(errors.Wrapf(err, errSeek, 0, io.SeekStart,
			d.path))
	}
	d.names = []string{".", ".."}
	d.pos = 0
	d.done = false
	return nil
}

// Each calls visitor for every remaining name.
func (d *DirectoryIterator) Each(visitor func(name string)) error {
	for {
		name, err := d.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		visitor(name)
	}
}

// Entries returns every remaining name.
func (d *DirectoryIterator) Entries() ([]string, error) {
	var names []string
	err := d.Each(func(name string) { names = append(names, name) })
	return names, err
}

// Close releases the directory. Later calls return ErrAlreadyClosed.
func (d *DirectoryIterator) Close() error {
	if d.closed {
		return ErrAlreadyClosed
	}
	d.closed = true
	return d.policy.Report(errors.WithStack(d.file.Close()))
}

// Entries returns every name in dir, "." and ".." included.
func (s *Session) Entries(dir string) ([]string, error) {
	d, err := s.OpenDir(dir)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return d.Entries()
}

// Children returns the names in dir without "." and "..".
func (s *Session) Children(dir string) ([]string, error) {
	names, err := s.Entries(dir)
	if err != nil {
		return nil, err
	}
	return names[min(2, len(names)):], nil
}

// ForeachEntry calls visitor with every name in dir.
func (s *Session) ForeachEntry(dir string, visitor func(name string)) error {
	d, err := s.OpenDir(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Each(visitor)
}

// EmptyDir reports whether dir has no entries besides "." and "..".
func (s *Session) EmptyDir(dir string) bool {
	names, err := s.Children(dir)
	return err == nil && len(names) == 0
}

// Mkdir creates a single directory.
func (s *Session) Mkdir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = 0o777
	}
	return s.policy.Report(errors.Wrapf(portableOS.Mkdir(path, perm),
		"mkdir %q failed", path))
}

// Rmdir removes an empty directory.
func (s *Session) Rmdir(path string) error {
	if q, err := statPath(path, false); err == nil && !q.Directory() {
		return s.policy.Report(errors.Errorf("rmdir %q: not a directory",
			path))
	}
	return s.policy.Report(errors.Wrapf(portableOS.Remove(path),
		"rmdir %q failed", path))
}

// Chdir changes the working directory of the process.
func (s *Session) Chdir(path string) error {
	return s.policy.Report(errors.Wrapf(portableOS.Chdir(path), "chdir %q failed",
		path))
}

// Getwd returns the working directory of the process.
func (s *Session) Getwd() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", s.policy.Report(errors.WithStack(err))
	}
	return wd, nil
}
