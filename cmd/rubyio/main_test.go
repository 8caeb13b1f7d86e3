///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/elixxir/rubyio"
)

// runCmd runs the command line in args and returns what it printed.
func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Setenv(rubyio.ConfigEnvVar, "")
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, contents string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestRun_Glob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "b.txt"), "b")
	writeFile(t, filepath.Join(dir, "c.rb"), "c")

	out, _, err := runCmd(t, "glob", "--root", dir, "*.txt")
	require.NoError(t, err)
	require.Equal(t, "a.txt\nb.txt\n", out)
}

func TestRun_Lines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	writeFile(t, path, "one;two;three")

	out, _, err := runCmd(t, "lines", "--sep", ";", "--limit", "2", path)
	require.NoError(t, err)
	require.Equal(t, "     1  one\n     2  two\n", out)
}

func TestRun_Ls(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "x"), "")

	out, _, err := runCmd(t, "ls", dir)
	require.NoError(t, err)
	require.Equal(t, "x\n", out)

	out, _, err = runCmd(t, "ls", "-a", dir)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{".", "..", "x"},
		strings.Fields(out))
}

func TestRun_Gsub(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	writeFile(t, path, "Hello World")

	out, _, err := runCmd(t, "gsub", path, `(o)`, `[$1]`)
	require.NoError(t, err)
	require.Equal(t, "Hell[o] W[o]rld", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Hello World", string(data))

	out, _, err = runCmd(t, "gsub", "-i", "--options", "i", path, "WORLD",
		"there")
	require.NoError(t, err)
	require.Empty(t, out)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Hello there", string(data))
}

func TestRun_Cmp(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	c := filepath.Join(dir, "c")
	writeFile(t, a, "same")
	writeFile(t, b, "same")
	writeFile(t, c, "diff")

	_, _, err := runCmd(t, "cmp", a, b)
	require.NoError(t, err)

	out, _, err := runCmd(t, "cmp", a, c)
	require.Equal(t, exitError(1), err)
	require.Contains(t, out, "differ")
}

func TestRun_Errors(t *testing.T) {
	_, _, err := runCmd(t, "nope")
	require.ErrorContains(t, err, `unknown command "nope"`)

	_, _, err = runCmd(t, "cmp", "only-one")
	require.ErrorContains(t, err, "usage: rubyio cmp A B")

	_, stderr, err := runCmd(t)
	require.Equal(t, exitError(2), err)
	require.Contains(t, stderr, "Commands:")

	_, _, err = runCmd(t, "--disposition", "sometimes", "ls", ".")
	require.Error(t, err)

	_, _, err = runCmd(t, "--disposition", "ignore", "stat",
		filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
