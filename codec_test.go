///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/stretchr/testify/require"
)

// testPolicy returns a policy whose records land in the returned buffer.
func testPolicy(d Disposition, threshold jww.Threshold) (*Policy, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Policy{
		Disposition: d,
		Log: jww.NewNotepad(threshold, jww.LevelFatal, out, &bytes.Buffer{},
			"", log.Lmsgprefix),
	}, out
}

func TestCodec_Fallback(t *testing.T) {
	p, logs := testPolicy(Warn, jww.LevelDebug)

	s, err := DefaultCodec().Decode([]byte("caf\xe9"), p)
	require.NoError(t, err)
	require.Equal(t, "café", s)
	require.Contains(t, logs.String(), "retrying as ISO-8859-1")

	s, err = DefaultCodec().Decode([]byte("café"), p)
	require.NoError(t, err)
	require.Equal(t, "café", s)
}

func TestCodec_DecodeError(t *testing.T) {
	c, err := NewCodec("UTF-8", "UTF-8")
	require.NoError(t, err)
	p, logs := testPolicy(Warn, jww.LevelWarn)

	_, err = c.Decode([]byte{0xff, 'a'}, p)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr), "got %v", err)
	require.Equal(t, []byte{0xff, 'a'}, decodeErr.Data)
	require.Equal(t, []string{"UTF-8", "UTF-8"}, decodeErr.Encodings)
	require.Contains(t, logs.String(), "cannot decode 2 bytes")
}

func TestCodec_ZeroValue(t *testing.T) {
	s, err := Codec{}.Decode([]byte("plain"), nil)
	require.NoError(t, err)
	require.Equal(t, "plain", s)
}

func TestNewCodec_Unknown(t *testing.T) {
	_, err := NewCodec("no-such-charset", DefaultFallbackEncoding)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "no-such-charset"))
}

func TestCodec_DecodeNameEncode(t *testing.T) {
	c := DefaultCodec()

	s, name, err := c.DecodeName([]byte("caf\xe9"), nil)
	require.NoError(t, err)
	require.Equal(t, "café", s)
	require.Equal(t, DefaultFallbackEncoding, name)

	out, err := c.Encode(s, name)
	require.NoError(t, err)
	require.Equal(t, []byte("caf\xe9"), out)

	_, name, err = c.DecodeName([]byte("café"), nil)
	require.NoError(t, err)
	require.Equal(t, DefaultEncoding, name)
	out, err = c.Encode("café", name)
	require.NoError(t, err)
	require.Equal(t, []byte("café"), out)

	_, err = c.Encode("€", DefaultFallbackEncoding)
	require.Error(t, err)
	_, err = c.Encode("x", "KOI8-R")
	require.Error(t, err)
}
