///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Popen starts argv[0] with the remaining arguments, without a shell, and
// returns a stream connected to its standard output (mode "r") or standard
// input (mode "w"). The child is killed if ctx is cancelled. Close waits for
// the child; its status is then available from ExitStatus.
func (s *Session) Popen(ctx context.Context, argv []string, mode string) (*StreamHandle, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, s.policy.Report(errors.New(errPopenEmpty))
	}
	m, err := parseMode(mode)
	if err != nil {
		return nil, s.policy.Report(err)
	}
	if m.readable == m.writable {
		return nil, s.policy.Report(errors.Errorf(errPopenMode, mode))
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, s.policy.Report(errors.WithStack(err))
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stderr = os.Stderr
	var ours, theirs *os.File
	if m.readable {
		cmd.Stdout, ours, theirs = pw, pr, pw
	} else {
		cmd.Stdin, ours, theirs = pr, pw, pr
	}

	if err = cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, s.policy.Report(errors.Wrapf(err, "popen %q",
			strings.Join(argv, " ")))
	}
	theirs.Close()

	h := s.newHandle(ours, m)
	h.cmd = cmd
	return h, nil
}

// KernelOpen opens a file, or starts a command when path begins with "|".
// The command line after the bar is split on white space; no shell is
// involved, so quoting and redirection are not interpreted.
func (s *Session) KernelOpen(ctx context.Context, path, mode string) (*StreamHandle, error) {
	if cmdline, ok := strings.CutPrefix(path, "|"); ok {
		return s.Popen(ctx, strings.Fields(cmdline), mode)
	}
	return s.Open(path, mode, 0)
}

// wait reaps the child and records its status.
func (h *StreamHandle) wait() {
	if h.waited {
		return
	}
	h.waited = true
	err := h.cmd.Wait()
	h.exitStatus = -1
	if h.cmd.ProcessState != nil {
		h.exitStatus = h.cmd.ProcessState.ExitCode()
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		h.policy.Debugf("rubyio: wait for %q: %v", h.cmd.Path, err)
	}
}

// Pid returns the child's process id, or -1 when there is no child.
func (h *StreamHandle) Pid() int {
	if h.cmd == nil || h.cmd.Process == nil {
		return -1
	}
	return h.cmd.Process.Pid
}

// ExitStatus returns the child's exit code after Close. A child killed by a
// signal reports -1.
func (h *StreamHandle) ExitStatus() (int, error) {
	if h.cmd == nil {
		return 0, errors.WithStack(ErrNoProcess)
	}
	if !h.waited {
		return 0, errors.New("child still running; close the stream first")
	}
	return h.exitStatus, nil
}
