///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

// Package fileutils provides the operations of Ruby's FileUtils module
// (cp_r, mkdir_p, rm_rf, ln_sf, ...) implemented directly on the file system.
// No command line is ever built or run, so file names are never interpreted
// by a shell.
//
// Every operation returns its error; failures are also reported through the
// session's policy. With Verbose set each action is logged at INFO in the
// form of the equivalent shell command, and with Noop set actions are only
// logged.
package fileutils

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gitlab.com/elixxir/rubyio"
	"gitlab.com/elixxir/rubyio/portableOS"
)

const (
	errSameFile    = "%q and %q are the same file"
	errNotDir      = "target %q is not a directory"
	errIsDir       = "%q is a directory"
	errShortWrite  = "short write on %q: wrote %d, expected %d"
	errUnknownUser = "unknown user %q"
	errUnknownGrp  = "unknown group %q"
	errCopyType    = "cannot copy %q: unsupported file type %s"
)

// Options adjust how the operations behave.
type Options struct {
	// Noop logs (when Verbose) but changes nothing.
	Noop bool
	// Verbose logs every action at INFO.
	Verbose bool
	// Force ignores missing files on removal and replaces existing targets
	// when linking or moving.
	Force bool
	// Preserve keeps owner, group and timestamps when copying. Permission
	// bits are always kept.
	Preserve bool
}

// Utils runs FileUtils operations for one session.
type Utils struct {
	session *rubyio.Session
	policy  *rubyio.Policy
	opts    Options

	// Random is the source used by RemoveEntrySecure to overwrite data.
	Random io.Reader
}

// New returns Utils bound to s.
func New(s *rubyio.Session, opts Options) *Utils {
	return &Utils{
		session: s,
		policy:  s.Policy(),
		opts:    opts,
		Random:  rand.Reader,
	}
}

// With returns a copy of u using opts.
func (u *Utils) With(opts Options) *Utils {
	c := *u
	c.opts = opts
	return &c
}

// Options returns the options in effect.
func (u *Utils) Options() Options {
	return u.opts
}

// trace logs the shell equivalent of an action when verbose and reports
// whether the action should run.
func (u *Utils) trace(cmd string, args ...string) bool {
	if u.opts.Verbose {
		u.policy.Infof("%s %s", cmd, strings.Join(args, " "))
	}
	return !u.opts.Noop
}

func (u *Utils) report(err error) error {
	return u.policy.Report(err)
}

func flag(on bool, f string) string {
	if on {
		return f
	}
	return ""
}

func command(name string, flags ...string) string {
	var set []string
	for _, f := range flags {
		if f != "" {
			set = append(set, f)
		}
	}
	if len(set) == 0 {
		return name
	}
	return fmt.Sprintf("%s -%s", name, strings.Join(set, ""))
}

// isDir reports whether path is a directory, following symbolic links.
func isDir(path string) bool {
	fi, err := portableOS.Stat(path)
	return err == nil && fi.IsDir()
}

// targets works out where each source goes: into dest when dest is a
// directory, otherwise to dest itself, which then allows one source only.
func targets(srcs []string, dest string) ([][2]string, error) {
	if isDir(dest) {
		out := make([][2]string, len(srcs))
		for i, src := range srcs {
			out[i] = [2]string{src, rubyio.Join(dest, rubyio.Basename(src, ""))}
		}
		return out, nil
	}
	if len(srcs) != 1 {
		return nil, errors.Errorf(errNotDir, dest)
	}
	return [][2]string{{srcs[0], dest}}, nil
}

// Pwd returns the working directory.
func (u *Utils) Pwd() (string, error) {
	return u.session.Getwd()
}

// Cd changes the working directory.
func (u *Utils) Cd(dir string) error {
	if !u.trace("cd", dir) {
		return nil
	}
	return u.session.Chdir(dir)
}
