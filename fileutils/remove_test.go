///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package fileutils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/elixxir/rubyio/portableOS"
)

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func TestUtils_Rm(t *testing.T) {
	u, dir, _ := newTestUtils(t, Options{})
	file := filepath.Join(dir, "file")
	sub := filepath.Join(dir, "sub")
	write(t, file, "x")
	write(t, filepath.Join(sub, "inner"), "y")

	require.Error(t, u.Rm(sub))
	require.True(t, exists(sub))

	require.NoError(t, u.Rm(file))
	require.False(t, exists(file))

	require.Error(t, u.Rm(file))
	require.NoError(t, u.RmF(file, filepath.Join(dir, "also-missing")))

	require.Error(t, u.RmR(filepath.Join(dir, "missing")))
	require.NoError(t, u.RmR(sub))
	require.False(t, exists(sub))
}

func TestUtils_RmRF(t *testing.T) {
	u, dir, _ := newTestUtils(t, Options{})
	tree := filepath.Join(dir, "tree")
	write(t, filepath.Join(tree, "a/b/c"), "deep")
	write(t, filepath.Join(tree, ".dot"), "dot")
	outside := filepath.Join(dir, "outside")
	write(t, outside, "kept")
	require.NoError(t, os.Symlink(outside, filepath.Join(tree, "link")))

	require.NoError(t, u.RmRF(tree, filepath.Join(dir, "never-existed")))
	require.False(t, exists(tree))
	require.Equal(t, "kept", read(t, outside))

	require.NoError(t, u.RemoveEntry(outside))
	require.False(t, exists(outside))
}

// TestUtils_RemoveEntrySecure uses a hard link made beforehand to observe
// that the data was overwritten before the name was removed.
func TestUtils_RemoveEntrySecure(t *testing.T) {
	u, dir, _ := newTestUtils(t, Options{})
	tree := filepath.Join(dir, "tree")
	secret := filepath.Join(tree, "nested/secret")
	write(t, secret, "hunter2")
	write(t, filepath.Join(tree, "empty"), "")
	witness := filepath.Join(dir, "witness")
	require.NoError(t, os.Link(secret, witness))

	u.Random = bytes.NewReader(bytes.Repeat([]byte{'Z'}, 64))
	require.NoError(t, u.RemoveEntrySecure(tree))

	require.False(t, exists(tree))
	require.Equal(t, "ZZZZZZZ", read(t, witness))

	require.Error(t, u.RemoveEntrySecure(tree))
	forced := u.With(Options{Force: true})
	require.NoError(t, forced.RemoveEntrySecure(tree))
}

func TestDeleteFile_ShortRandom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	write(t, path, "longer than the source")

	err := deleteFile(path, bytes.NewReader([]byte("tiny")))
	require.Error(t, err)
	require.True(t, exists(path))

	require.NoError(t, deleteFile(filepath.Join(dir, "missing"), nil))
}

func TestUtils_Mkdir(t *testing.T) {
	u, dir, _ := newTestUtils(t, Options{})
	one := filepath.Join(dir, "one")
	deep := filepath.Join(dir, "x/y/z")

	require.NoError(t, u.Mkdir(one))
	require.Error(t, u.Mkdir(one))
	require.Error(t, u.Mkdir(filepath.Join(dir, "p/q")))

	require.NoError(t, u.MkdirP(deep, deep))
	info, err := os.Stat(deep)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	require.Error(t, u.Rmdir(filepath.Join(dir, "x")))
	require.NoError(t, u.Rmdir(deep, filepath.Join(dir, "x/y")))
	require.False(t, exists(filepath.Join(dir, "x/y")))
}

func TestUtils_MkdirMvUsePortableOS(t *testing.T) {
	u, dir, _ := newTestUtils(t, Options{})
	write(t, filepath.Join(dir, "src"), "moved")

	var calls []string
	mkdir, rename := portableOS.Mkdir, portableOS.Rename
	t.Cleanup(func() { portableOS.Mkdir, portableOS.Rename = mkdir, rename })
	portableOS.Mkdir = func(path string, perm portableOS.FileMode) error {
		calls = append(calls, "mkdir "+filepath.Base(path))
		return mkdir(path, perm)
	}
	portableOS.Rename = func(oldName, newName string) error {
		calls = append(calls, "rename "+filepath.Base(oldName))
		return rename(oldName, newName)
	}

	require.NoError(t, u.Mkdir(filepath.Join(dir, "d")))
	require.NoError(t, u.Mv([]string{filepath.Join(dir, "src")},
		filepath.Join(dir, "d")))
	require.Equal(t, []string{"mkdir d", "rename src"}, calls)
	require.Equal(t, "moved", read(t, filepath.Join(dir, "d", "src")))
}
