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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/elixxir/rubyio"
)

// newTestUtils returns Utils logging at INFO into the returned buffer, and a
// scratch directory.
func newTestUtils(t *testing.T, opts Options) (*Utils, string, *bytes.Buffer) {
	logs := &bytes.Buffer{}
	cfg := rubyio.DefaultConfig()
	cfg.LogOutput = logs
	cfg.LogThreshold = "info"
	s, err := rubyio.NewSession(cfg)
	require.NoError(t, err)
	return New(s, opts), t.TempDir(), logs
}

func write(t *testing.T, path, contents string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func read(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCommand(t *testing.T) {
	if got := command("rm"); got != "rm" {
		t.Errorf("got %q", got)
	}
	if got := command("rm", "r", flag(false, "f")); got != "rm -r" {
		t.Errorf("got %q", got)
	}
	if got := command("cp", "r", flag(true, "p")); got != "cp -rp" {
		t.Errorf("got %q", got)
	}
}

func TestTargets(t *testing.T) {
	dir := t.TempDir()
	pairs, err := targets([]string{"a/x", "b/y/"}, dir)
	require.NoError(t, err)
	require.Equal(t, [][2]string{
		{"a/x", dir + "/x"}, {"b/y/", dir + "/y"},
	}, pairs)

	pairs, err = targets([]string{"a"}, filepath.Join(dir, "new"))
	require.NoError(t, err)
	require.Equal(t, [][2]string{{"a", filepath.Join(dir, "new")}}, pairs)

	_, err = targets([]string{"a", "b"}, filepath.Join(dir, "new"))
	require.Error(t, err)
}

// TestUtils_Noop checks that a no-op run logs the commands and touches
// nothing.
func TestUtils_Noop(t *testing.T) {
	u, dir, logs := newTestUtils(t, Options{Noop: true, Verbose: true})
	victim := filepath.Join(dir, "victim")
	write(t, victim, "keep me")

	require.NoError(t, u.RmRF(victim))
	require.NoError(t, u.MkdirP(filepath.Join(dir, "a/b")))
	require.NoError(t, u.Touch(filepath.Join(dir, "new")))
	require.NoError(t, u.Cp([]string{victim}, filepath.Join(dir, "copy")))

	require.Equal(t, "keep me", read(t, victim))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	out := logs.String()
	for _, want := range []string{"rm -rf " + victim, "mkdir -p ",
		"touch ", "cp " + victim} {
		require.Contains(t, out, want)
	}
}

func TestUtils_Quiet(t *testing.T) {
	u, dir, logs := newTestUtils(t, Options{})
	require.NoError(t, u.MkdirP(filepath.Join(dir, "x/y")))
	require.NotContains(t, logs.String(), "mkdir")
	require.Equal(t, Options{}, u.Options())
}

func TestUtils_PwdCd(t *testing.T) {
	u, dir, _ := newTestUtils(t, Options{})
	wd, err := u.Pwd()
	require.NoError(t, err)
	defer os.Chdir(wd)

	require.NoError(t, u.Cd(dir))
	now, err := u.Pwd()
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	require.Equal(t, resolved, now)
	require.True(t, strings.HasPrefix(now, "/"))
}
