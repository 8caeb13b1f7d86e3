///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

//go:build !unix

package rubyio

import (
	"github.com/pkg/errors"
)

func (s *Session) Lchmod(uint32, ...string) (int, error) {
	return 0, s.policy.Report(errors.WithStack(ErrNotSupported))
}

func (s *Session) Umask() int { return 0 }

func (s *Session) SetUmask(int) int { return 0 }

func (s *Session) Mkfifo(string, uint32) error {
	return s.policy.Report(errors.WithStack(ErrNotSupported))
}

func (s *Session) Chroot(string) error {
	return s.policy.Report(errors.WithStack(ErrNotSupported))
}
