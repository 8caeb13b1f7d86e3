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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamHandle_SysCalls(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "sys")
	writeTestFile(t, path, "hello world")

	h, err := s.Open(path, "r+", 0)
	require.NoError(t, err)
	defer h.Close()

	pos, err := h.Sysseek(6, io.SeekStart)
	require.NoError(t, err)
	require.EqualValues(t, 6, pos)
	data, err := h.Sysread(5)
	require.NoError(t, err)
	require.Equal(t, "world", string(data))
	_, err = h.Sysread(5)
	require.ErrorIs(t, err, io.EOF)

	n, err := h.Syswrite([]byte("!"))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello world!", string(got))

	_, err = h.Sysseek(0, io.SeekStart)
	require.NoError(t, err)
	c, err := h.Getc()
	require.NoError(t, err)
	require.Equal(t, "h", c)

	_, err = h.Sysread(1)
	require.ErrorContains(t, err, "buffered input")
	_, err = h.Sysseek(0, io.SeekStart)
	require.ErrorContains(t, err, "buffered input")

	require.NoError(t, h.Close())
	_, err = h.Sysread(1)
	require.ErrorIs(t, err, ErrClosed)
}

func TestStreamHandle_SyswriteAfterBufferedWrite(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "order")

	h, err := s.Open(path, "w", 0)
	require.NoError(t, err)
	_, err = h.WriteString("first ")
	require.NoError(t, err)
	_, err = h.Syswrite([]byte("second"))
	require.NoError(t, err)
	require.NoError(t, h.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "first second", string(got))
}

func TestStreamHandle_EachChar(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "chars")
	writeTestFile(t, path, "aé😀\xffz")

	h, err := s.Open(path, "r", 0)
	require.NoError(t, err)
	defer h.Close()

	var chars []string
	require.NoError(t, h.EachChar(func(c string) {
		chars = append(chars, c)
	}))
	require.Equal(t, []string{"a", "é", "😀", "\xff", "z"}, chars)
}

func TestStreamHandle_Reopen(t *testing.T) {
	s, dir := newTestSession(t)
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	out := filepath.Join(dir, "out")
	writeTestFile(t, a, "one\ntwo\n")
	writeTestFile(t, b, "three\n")

	h, err := s.Open(a, "r", 0)
	require.NoError(t, err)
	defer h.Close()

	line, err := h.ReadLine("")
	require.NoError(t, err)
	require.Equal(t, "one", line)

	require.NoError(t, h.Reopen(b, "r"))
	require.Equal(t, b, h.Name())
	require.Equal(t, 0, h.Lineno)
	line, err = h.ReadLine("")
	require.NoError(t, err)
	require.Equal(t, "three", line)
	require.Equal(t, 1, h.Lineno)

	require.Error(t, h.Reopen(filepath.Join(dir, "missing"), "r"))
	require.Equal(t, b, h.Name())
	_, err = h.ReadLine("")
	require.ErrorIs(t, err, io.EOF)

	require.Error(t, h.Reopen(out, "q"))

	require.NoError(t, h.Reopen(out, "w"))
	require.NoError(t, h.Puts("written"))
	require.NoError(t, h.Close())
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "written\n", string(got))

	require.ErrorIs(t, h.Reopen(a, "r"), ErrClosed)
}

func TestStreamHandle_ReopenKeepsFDCount(t *testing.T) {
	s, dir := newTestSession(t)
	a := filepath.Join(dir, "a")
	writeTestFile(t, a, "x")

	before := getFDCount(t)
	h, err := s.Open(a, "r", 0)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, h.Reopen(a, "r"))
	}
	require.Equal(t, before+1, getFDCount(t))
	require.NoError(t, h.Close())
	require.Equal(t, before, getFDCount(t))
}

func TestStreamHandle_Fdatasync(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "data")

	h, err := s.Open(path, "w", 0)
	require.NoError(t, err)
	_, err = h.WriteString("durable")
	require.NoError(t, err)
	require.NoError(t, h.Fdatasync())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "durable", string(got))

	require.NoError(t, h.Close())
	require.ErrorIs(t, h.Fdatasync(), ErrClosed)
}
