///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"io"
	"log"
	"os"

	jww "github.com/spf13/jwalterweatherman"
)

// Session is the entry point for every operation that touches the file
// system. It carries the failure policy, the text codec and the read tuning
// from its Config, and hands them to each stream and iterator it creates.
// A Session is not modified after NewSession and may be shared.
type Session struct {
	policy    *Policy
	codec     Codec
	separator string
	chunkSize int
}

// NewSession validates cfg and builds a Session from it.
func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	codec, err := NewCodec(cfg.Encoding, cfg.FallbackEncoding)
	if err != nil {
		return nil, err
	}

	out := cfg.LogOutput
	if out == nil {
		out = os.Stdout
	}
	threshold, _ := parseThreshold(cfg.LogThreshold)
	policy := &Policy{
		Disposition: cfg.Disposition,
		Log: jww.NewNotepad(threshold, jww.LevelFatal, out, io.Discard, "",
			log.Ldate|log.Ltime),
	}

	return &Session{
		policy:    policy,
		codec:     codec,
		separator: cfg.LineSeparator,
		chunkSize: cfg.ReadChunkSize,
	}, nil
}

// DefaultSession returns a Session built from DefaultConfig.
func DefaultSession() *Session {
	s, err := NewSession(DefaultConfig())
	if err != nil {
		jww.FATAL.Panicf("rubyio: default config is invalid: %+v", err)
	}
	return s
}

// Policy returns the failure policy shared by everything the session creates.
func (s *Session) Policy() *Policy {
	return s.policy
}

// Codec returns the text codec.
func (s *Session) Codec() Codec {
	return s.codec
}

// LineSeparator returns the configured default record separator.
func (s *Session) LineSeparator() string {
	return s.separator
}

// StringIO returns an in-memory stream over data. Its default record
// separator is the session's.
func (s *Session) StringIO(data *ByteBuffer) *StringStream {
	ss := NewStringStream(data, s.policy, s.codec)
	ss.separator = s.separator
	return ss
}

// sep resolves an empty separator argument to the session default.
func (s *Session) sep(sep string) string {
	if sep == "" {
		return s.separator
	}
	return sep
}
