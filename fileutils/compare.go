///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package fileutils

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"gitlab.com/elixxir/rubyio"
	"gitlab.com/elixxir/rubyio/portableOS"
	"golang.org/x/crypto/blake2b"
)

// checksum returns the blake2b-256 digest of everything r yields.
func checksum(r io.Reader) ([]byte, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if _, err = io.Copy(h, r); err != nil {
		return nil, errors.WithStack(err)
	}
	return h.Sum(nil), nil
}

// compareFiles reports whether a and b hold the same bytes. Files of
// different sizes are unequal without being read.
func compareFiles(a, b string) (bool, error) {
	qa, err := rubyio.QueryPath(a, true)
	if err != nil {
		return false, err
	}
	qb, err := rubyio.QueryPath(b, true)
	if err != nil {
		return false, err
	}
	if qa.Size() != qb.Size() {
		return false, nil
	}
	if qa.Equal(qb) {
		return true, nil
	}

	fa, err := portableOS.Open(a)
	if err != nil {
		return false, errors.WithStack(err)
	}
	defer fa.Close()
	fb, err := portableOS.Open(b)
	if err != nil {
		return false, errors.WithStack(err)
	}
	defer fb.Close()

	return compareStreams(fa, fb)
}

func compareStreams(a, b io.Reader) (bool, error) {
	sa, err := checksum(a)
	if err != nil {
		return false, err
	}
	sb, err := checksum(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(sa, sb), nil
}

// CompareFile reports whether two files have identical contents.
func (u *Utils) CompareFile(a, b string) (bool, error) {
	same, err := compareFiles(a, b)
	if err != nil {
		return false, u.report(err)
	}
	return same, nil
}

// Cmp is CompareFile.
func (u *Utils) Cmp(a, b string) (bool, error) {
	return u.CompareFile(a, b)
}

// CompareStream reports whether two readers yield identical bytes.
func (u *Utils) CompareStream(a, b io.Reader) (bool, error) {
	same, err := compareStreams(a, b)
	if err != nil {
		return false, u.report(err)
	}
	return same, nil
}
