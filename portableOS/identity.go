///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package portableOS

import (
	"os"
)

// Geteuid returns the numeric effective user id of the caller.
var Geteuid = os.Geteuid

// Getuid returns the numeric real user id of the caller.
var Getuid = os.Getuid

// Getegid returns the numeric effective group id of the caller.
var Getegid = os.Getegid

// Getgid returns the numeric real group id of the caller.
var Getgid = os.Getgid

// Getgroups returns the numeric ids of the caller's supplementary groups.
var Getgroups = os.Getgroups
