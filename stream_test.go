///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jww "github.com/spf13/jwalterweatherman"
	"github.com/stretchr/testify/require"
)

// newTestSession returns a session that logs nothing and a scratch
// directory.
func newTestSession(t *testing.T) (*Session, string) {
	cfg := DefaultConfig()
	cfg.Disposition = Ignore
	cfg.LogOutput = io.Discard
	s, err := NewSession(cfg)
	require.NoError(t, err)
	return s, t.TempDir()
}

func writeTestFile(t *testing.T, path, contents string) {
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestParseMode(t *testing.T) {
	for mode, want := range map[string]openMode{
		"":        {os.O_RDONLY, true, false},
		"rb":      {os.O_RDONLY, true, false},
		"r:UTF-8": {os.O_RDONLY, true, false},
		"w":       {os.O_WRONLY | os.O_CREATE | os.O_TRUNC, false, true},
		"ab":      {os.O_WRONLY | os.O_CREATE | os.O_APPEND, false, true},
		"r+":      {os.O_RDWR, true, true},
		"w+b":     {os.O_RDWR | os.O_CREATE | os.O_TRUNC, true, true},
		"a+t":     {os.O_RDWR | os.O_CREATE | os.O_APPEND, true, true},
	} {
		got, err := parseMode(mode)
		if err != nil || got != want {
			t.Errorf("parseMode(%q) = %+v, %v", mode, got, err)
		}
	}
	for _, bad := range []string{"x", "rw", "r++"} {
		if _, err := parseMode(bad); err == nil {
			t.Errorf("parseMode(%q) accepted", bad)
		}
	}
}

func TestStreamHandle_ReadLine(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "lines.txt")
	long := strings.Repeat("x", 3*4096+7)
	writeTestFile(t, path, "dos\r\n"+long+"\n\nlast")

	h, err := s.Open(path, "r", 0)
	require.NoError(t, err)
	defer h.Close()

	lines, err := h.ReadLines("", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"dos", long, "", "last"}, lines)
	require.Equal(t, 4, h.Lineno)

	_, err = h.ReadLine("")
	require.ErrorIs(t, err, io.EOF)
	require.True(t, h.EOF())
}

func TestStreamHandle_MultiByteSeparator(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "records")
	writeTestFile(t, path, "a-b--c--d-")

	lines, err := s.ReadLines(path, "--", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"a-b", "c", "d-"}, lines)
}

func TestStreamHandle_ReadData(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReadChunkSize = 3
	cfg.Disposition = Ignore
	s, err := NewSession(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "data")
	writeTestFile(t, path, "0123456789")

	h, err := s.Open(path, "rb", 0)
	require.NoError(t, err)
	defer h.Close()

	buf, err := h.ReadData(4, nil)
	require.NoError(t, err)
	require.Equal(t, "0123", buf.String())

	buf, err = h.ReadData(ReadAll, buf)
	require.NoError(t, err)
	require.Equal(t, "456789", buf.String())

	_, err = h.ReadData(1, nil)
	require.ErrorIs(t, err, io.EOF)

	buf, err = h.ReadData(ReadAll, nil)
	require.NoError(t, err)
	require.Equal(t, 0, buf.Len())
}

// TestStreamHandle_ReadAllFromPipe reads a source of unknown size so the
// buffer has to grow chunk by chunk.
func TestStreamHandle_ReadAllFromPipe(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReadChunkSize = 16
	s, err := NewSession(cfg)
	require.NoError(t, err)

	r, w, err := s.Pipe()
	require.NoError(t, err)
	defer r.Close()

	payload := strings.Repeat("0123456789", 100)
	go func() {
		w.WriteString(payload)
		w.Close()
	}()

	buf, err := r.ReadData(ReadAll, nil)
	require.NoError(t, err)
	require.Equal(t, payload, buf.String())
}

func TestStreamHandle_Close(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "closing")

	before := getFDCount(t)
	h, err := s.Open(path, "w", 0)
	require.NoError(t, err)
	_, err = h.WriteString("buffered")
	require.NoError(t, err)

	require.NoError(t, h.Close())
	require.ErrorIs(t, h.Close(), ErrAlreadyClosed)
	require.True(t, h.Closed())
	require.Equal(t, -1, h.Fileno())
	require.Equal(t, before, getFDCount(t), "descriptor leaked")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "buffered", string(data))

	_, err = h.WriteString("more")
	require.ErrorIs(t, err, ErrClosed)
	_, err = h.ReadLine("")
	require.ErrorIs(t, err, ErrClosed)
}

func TestStreamHandle_NoAutoclose(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "kept")
	writeTestFile(t, path, "still open")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	h, err := s.ForFD(f.Fd(), "r")
	require.NoError(t, err)
	h.Autoclose = false
	require.NoError(t, h.Close())

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Equal(t, "still open", string(data))
}

// TestStreamHandle_ReadThenWrite checks that read-ahead is given back so a
// write lands at the logical position.
func TestStreamHandle_ReadThenWrite(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "rw")
	writeTestFile(t, path, "line one\nline two\n")

	h, err := s.Open(path, "r+", 0)
	require.NoError(t, err)

	line, err := h.ReadLine("")
	require.NoError(t, err)
	require.Equal(t, "line one", line)

	pos, err := h.Tell()
	require.NoError(t, err)
	require.EqualValues(t, 9, pos)

	_, err = h.WriteString("LINE")
	require.NoError(t, err)

	rest, err := h.ReadLine("")
	require.NoError(t, err)
	require.Equal(t, " two", rest)
	require.NoError(t, h.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "line one\nLINE two\n", string(data))
}

func TestStreamHandle_Modes(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "modes")

	w, err := s.Open(path, "w", 0o600)
	require.NoError(t, err)
	_, err = w.ReadLine("")
	require.Error(t, err)
	require.NoError(t, w.Puts("a", "b\n"))
	require.NoError(t, w.Putc('c'))
	_, err = w.Print("d", 1)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	a, err := s.Open(path, "a", 0)
	require.NoError(t, err)
	require.NoError(t, a.Puts())
	require.NoError(t, a.Close())

	r, err := s.Open(path, "r", 0)
	require.NoError(t, err)
	_, err = r.WriteString("nope")
	require.Error(t, err)
	buf, err := r.ReadData(ReadAll, nil)
	require.NoError(t, err)
	require.Equal(t, "a\nb\ncd1\n", buf.String())
	require.NoError(t, r.Close())

	_, err = s.Open(filepath.Join(dir, "missing"), "r", 0)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestStreamHandle_BytesAndSeek(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "bytes")
	writeTestFile(t, path, "abc")

	h, err := s.Open(path, "r", 0)
	require.NoError(t, err)
	defer h.Close()

	c, err := h.Getc()
	require.NoError(t, err)
	require.Equal(t, "a", c)
	require.NoError(t, h.Ungetc())

	var all []byte
	require.NoError(t, h.EachByte(func(b byte) { all = append(all, b) }))
	require.Equal(t, []byte("abc"), all)

	pos, err := h.Seek(-1, io.SeekEnd)
	require.NoError(t, err)
	require.EqualValues(t, 2, pos)
	c, err = h.Getc()
	require.NoError(t, err)
	require.Equal(t, "c", c)

	_, err = h.ReadLine("")
	require.ErrorIs(t, err, io.EOF)
	h.Lineno = 5
	require.NoError(t, h.Rewind())
	require.Equal(t, 0, h.Lineno)

	q, err := h.Stat()
	require.NoError(t, err)
	require.EqualValues(t, 3, q.Size())
}

func TestStreamHandle_Sync(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "sync")

	h, err := s.Open(path, "w", 0)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.SetSync(true))
	require.True(t, h.Sync())
	_, err = h.WriteString("now")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "now", string(data))
	require.NoError(t, h.Fsync())
}

func TestSession_FileHelpers(t *testing.T) {
	s, dir := newTestSession(t)
	path := filepath.Join(dir, "helpers")

	n, err := s.WriteFile(path, "hello world", NoOffset)
	require.NoError(t, err)
	require.Equal(t, 11, n)

	_, err = s.WriteFile(path, "W", 6)
	require.NoError(t, err)
	text, err := s.ReadFile(path, ReadAll, 0)
	require.NoError(t, err)
	require.Equal(t, "hello World", text)

	text, err = s.ReadFile(path, 3, 6)
	require.NoError(t, err)
	require.Equal(t, "Wor", text)

	buf, err := s.Binread(path, 5, 100)
	require.NoError(t, err)
	require.Equal(t, 0, buf.Len())

	fresh := filepath.Join(dir, "fresh")
	_, err = s.Binwrite(fresh, []byte("xy"), 2)
	require.NoError(t, err)
	data, err := os.ReadFile(fresh)
	require.NoError(t, err)
	require.Equal(t, []byte("\x00\x00xy"), data)

	var seen []string
	require.NoError(t, s.Foreach(path, " ", func(l string) {
		seen = append(seen, l)
	}))
	require.Equal(t, []string{"hello", "World"}, seen)
}

func TestSession_CopyStream(t *testing.T) {
	s, _ := newTestSession(t)

	src := newTestStringStream("0123456789")
	dst := &bytes.Buffer{}
	n, err := s.CopyStream(dst, src, 4, 3)
	require.NoError(t, err)
	require.EqualValues(t, 4, n)
	require.Equal(t, "3456", dst.String())

	n, err = s.CopyStream(dst, src, -1, -1)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
	require.Equal(t, "3456789", dst.String())

	_, err = s.CopyStream(dst, strings.NewReader("x"), -1, 0)
	require.NoError(t, err)
	_, err = s.CopyStream(dst, io.MultiReader(), -1, 0)
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestSession_ForFDInvalid(t *testing.T) {
	p, logs := testPolicy(Warn, jww.LevelWarn)
	s := &Session{policy: p, codec: DefaultCodec(), separator: LineSeparator,
		chunkSize: DefaultReadChunkSize}
	_, err := s.ForFD(0, "q")
	require.Error(t, err)
	require.Contains(t, logs.String(), "invalid open mode")
}
