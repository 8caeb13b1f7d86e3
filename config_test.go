///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jww "github.com/spf13/jwalterweatherman"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "rubyio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "disposition: ignore\n"+
		"fallback_encoding: windows-1252\n"+
		"line_separator: \"\\r\\n\"\n"+
		"read_chunk_size: 4096\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, Ignore, cfg.Disposition)
	require.Equal(t, DefaultEncoding, cfg.Encoding)
	require.Equal(t, "windows-1252", cfg.FallbackEncoding)
	require.Equal(t, "\r\n", cfg.LineSeparator)
	require.Equal(t, 4096, cfg.ReadChunkSize)
}

func TestLoadConfig_Empty(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Rejects(t *testing.T) {
	for name, body := range map[string]string{
		"unknown key":         "colour: blue\n",
		"unknown disposition": "disposition: shrug\n",
		"unknown encoding":    "encoding: klingon\n",
		"zero chunk":          "read_chunk_size: 0\n",
		"empty separator":     "line_separator: \"\"\n",
		"bad threshold":       "log_threshold: loud\n",
	} {
		if _, err := LoadConfig(writeConfig(t, body)); err == nil {
			t.Errorf("%s: config accepted", name)
		}
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("missing file accepted")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")
	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)

	t.Setenv(ConfigEnvVar, writeConfig(t, "disposition: throw\n"))
	cfg, err = LoadConfigFromEnv()
	require.NoError(t, err)
	require.Equal(t, Throw, cfg.Disposition)
}

func TestNewSession_LogOutput(t *testing.T) {
	out := &bytes.Buffer{}
	cfg := DefaultConfig()
	cfg.LogOutput = out
	cfg.LogThreshold = "info"

	s, err := NewSession(cfg)
	require.NoError(t, err)
	s.Policy().Infof("hello %s", "log")
	s.Policy().Debugf("below threshold")
	require.True(t, strings.Contains(out.String(), "hello log"))
	require.False(t, strings.Contains(out.String(), "below threshold"))
}

func TestSession_Defaults(t *testing.T) {
	s := DefaultSession()
	require.Equal(t, LineSeparator, s.LineSeparator())
	require.Equal(t, DefaultEncoding, s.Codec().PrimaryName)
	require.Equal(t, "x", s.sep("x"))
	require.Equal(t, LineSeparator, s.sep(""))

	cfg := DefaultConfig()
	cfg.Encoding = "klingon"
	_, err := NewSession(cfg)
	require.Error(t, err)
}

func TestNewSession_ThresholdWithoutOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogThreshold = "info"

	s, err := NewSession(cfg)
	require.NoError(t, err)
	require.NotNil(t, s.Policy().Log)
	require.Equal(t, jww.LevelInfo, s.Policy().Log.GetStdoutThreshold())

	cfg.LogThreshold = "error"
	s, err = NewSession(cfg)
	require.NoError(t, err)
	require.Equal(t, jww.LevelError, s.Policy().Log.GetStdoutThreshold())
}
