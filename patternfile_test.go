///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPatternFile_WriteBack(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "settings.conf")
	writeTestFile(t, path, "port=80\nhost=example.org\n")

	f, err := s.OpenPatternFile(path)
	require.NoError(t, err)
	require.Equal(t, path, f.Path())

	m, err := f.Pattern(`^port=(\d+)$`, "m")
	require.NoError(t, err)
	changed, err := m.SetGroup(1, "8080")
	require.NoError(t, err)
	require.True(t, changed)
	require.True(t, f.Changed())
	require.Equal(t, "port=8080\nhost=example.org\n", f.Contents())

	require.NoError(t, f.Close())
	require.ErrorIs(t, f.Close(), ErrAlreadyClosed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "port=8080\nhost=example.org\n", string(data))
}

func TestPatternFile_UnchangedNotWritten(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "untouched")
	writeTestFile(t, path, "same")
	old := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, old, old))

	f, err := s.OpenPatternFile(path)
	require.NoError(t, err)
	m, err := f.Pattern("nothing here", "")
	require.NoError(t, err)
	changed, err := m.ReplaceAll("x")
	require.NoError(t, err)
	require.False(t, changed)
	require.NoError(t, f.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, info.ModTime().Equal(old))

	_, err = s.OpenPatternFile(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestPatternFile_KeepsFallbackEncoding(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "latin1")
	writeTestFile(t, path, "caf\xe9 x\n")

	f, err := s.OpenPatternFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultFallbackEncoding, f.Encoding())
	require.Equal(t, "café x\n", f.Contents())

	m, err := f.Pattern("x", "")
	require.NoError(t, err)
	_, err = m.ReplaceAll("y")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "caf\xe9 y\n", string(data))
}

func TestPatternFile_UnencodableTextNotWritten(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "latin1")
	writeTestFile(t, path, "caf\xe9 x\n")

	f, err := s.OpenPatternFile(path)
	require.NoError(t, err)
	m, err := f.Pattern("x", "")
	require.NoError(t, err)
	_, err = m.ReplaceAll("€")
	require.NoError(t, err)
	require.Error(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "caf\xe9 x\n", string(data))
}

func TestPatternFile_UTF8Stays(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "utf8")
	writeTestFile(t, path, "naïve x €\n")

	f, err := s.OpenPatternFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultEncoding, f.Encoding())
	m, err := f.Pattern("x", "")
	require.NoError(t, err)
	_, err = m.ReplaceAll("ÿ")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "naïve ÿ €\n", string(data))
}
