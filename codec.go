///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

const (
	// DefaultEncoding is the primary text encoding.
	DefaultEncoding = "UTF-8"
	// DefaultFallbackEncoding is tried when the primary encoding fails.
	DefaultFallbackEncoding = "ISO-8859-1"
)

// Codec turns stream bytes into Go strings. Decoding is attempted with the
// primary encoding and then with the fallback. The zero Codec behaves like
// DefaultCodec.
type Codec struct {
	PrimaryName  string
	FallbackName string

	primary  encoding.Encoding
	fallback encoding.Encoding
}

// NewCodec resolves IANA encoding names into a Codec.
func NewCodec(primary, fallback string) (Codec, error) {
	p, err := lookupEncoding(primary)
	if err != nil {
		return Codec{}, err
	}
	f, err := lookupEncoding(fallback)
	if err != nil {
		return Codec{}, err
	}
	return Codec{
		PrimaryName:  primary,
		FallbackName: fallback,
		primary:      p,
		fallback:     f,
	}, nil
}

// DefaultCodec decodes UTF-8 with an ISO-8859-1 fallback.
func DefaultCodec() Codec {
	c, err := NewCodec(DefaultEncoding, DefaultFallbackEncoding)
	if err != nil {
		panic(err)
	}
	return c
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, errors.Errorf(errUnknownEnc, name)
	}
	return enc, nil
}

// Decode returns b as a string. A failure of the primary encoding is logged
// at DEBUG before the fallback is tried; if both fail a *DecodeError is
// reported through p and returned.
func (c Codec) Decode(b []byte, p *Policy) (string, error) {
	s, _, err := c.DecodeName(b, p)
	return s, err
}

// DecodeName is Decode that also returns the name of the encoding that
// succeeded, for callers that write the text back with Encode.
func (c Codec) DecodeName(b []byte, p *Policy) (string, string, error) {
	if c.primary == nil {
		c = DefaultCodec()
	}

	s, err := decodeWith(c.primary, b)
	if err == nil {
		return s, c.PrimaryName, nil
	}
	p.Debugf("rubyio: %d bytes are not valid %s, retrying as %s", len(b),
		c.PrimaryName, c.FallbackName)

	s, err = decodeWith(c.fallback, b)
	if err == nil {
		return s, c.FallbackName, nil
	}

	data := make([]byte, len(b))
	copy(data, b)
	return "", "", p.Report(&DecodeError{
		Data:      data,
		Encodings: []string{c.PrimaryName, c.FallbackName},
	})
}

// Encode converts s into the named encoding, which must be the codec's
// primary or fallback. Characters the encoding cannot represent are an
// error; nothing is replaced.
func (c Codec) Encode(s, name string) ([]byte, error) {
	if c.primary == nil {
		c = DefaultCodec()
	}

	var enc encoding.Encoding
	switch name {
	case c.PrimaryName:
		enc = c.primary
	case c.FallbackName:
		enc = c.fallback
	default:
		return nil, errors.Errorf(errUnknownEnc, name)
	}

	if enc == unicode.UTF8 {
		return []byte(s), nil
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, errEncode, name)
	}
	return out, nil
}

func decodeWith(enc encoding.Encoding, b []byte) (string, error) {
	if enc == unicode.UTF8 {
		if !utf8.Valid(b) {
			return "", errors.New("invalid UTF-8")
		}
		return string(b), nil
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(out), nil
}
