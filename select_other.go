///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package rubyio

import (
	"time"

	"github.com/pkg/errors"
)

func selectFds(_, _, _ []*StreamHandle, _ time.Duration) (*SelectResult, error) {
	return nil, errors.Wrap(ErrNotSupported, errSelect)
}
