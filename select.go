///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"time"
)

// SelectResult lists the streams found ready by Select. TimedOut is set, with
// all lists empty, when the timeout expired before anything became ready.
type SelectResult struct {
	Readable []*StreamHandle
	Writable []*StreamHandle
	Errored  []*StreamHandle
	TimedOut bool
}

// Select waits until at least one of the given streams is ready or timeout
// passes. A negative timeout waits indefinitely. Streams in read that still
// hold buffered input are returned as readable without waiting.
func (s *Session) Select(read, write, errs []*StreamHandle, timeout time.Duration) (*SelectResult, error) {
	var buffered []*StreamHandle
	for _, h := range read {
		if h != nil && !h.closed && h.r.Buffered() > 0 {
			buffered = append(buffered, h)
		}
	}
	if len(buffered) > 0 {
		return &SelectResult{Readable: buffered}, nil
	}

	res, err := selectFds(read, write, errs, timeout)
	if err != nil {
		return nil, s.policy.Report(err)
	}
	return res, nil
}
