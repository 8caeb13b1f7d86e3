///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"gopkg.in/yaml.v3"
)

// ConfigEnvVar names the environment variable read by LoadConfigFromEnv.
const ConfigEnvVar = "RUBYIO_CONFIG"

// DefaultReadChunkSize is the initial read size used when a stream is read to
// the end and its remaining size is unknown.
const DefaultReadChunkSize = 1024 * 1024

// Config holds everything a Session needs. It is usually loaded from YAML:
//
//	disposition: throw
//	encoding: UTF-8
//	fallback_encoding: windows-1252
//	line_separator: "\n"
//	read_chunk_size: 65536
//	log_threshold: info
type Config struct {
	Disposition      Disposition `yaml:"disposition"`
	Encoding         string      `yaml:"encoding"`
	FallbackEncoding string      `yaml:"fallback_encoding"`
	LineSeparator    string      `yaml:"line_separator"`
	ReadChunkSize    int         `yaml:"read_chunk_size"`
	LogThreshold     string      `yaml:"log_threshold"`

	// LogOutput receives the session's log records at LogThreshold and
	// above. Standard output is used when it is nil.
	LogOutput io.Writer `yaml:"-"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Disposition:      Warn,
		Encoding:         DefaultEncoding,
		FallbackEncoding: DefaultFallbackEncoding,
		LineSeparator:    LineSeparator,
		ReadChunkSize:    DefaultReadChunkSize,
		LogThreshold:     "warn",
	}
}

// LoadConfig reads exactly one YAML file on top of DefaultConfig. Keys that do
// not belong to Config are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "cannot read config %q", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, errors.Wrapf(err, "cannot parse config %q", path)
	}

	return cfg, cfg.Validate()
}

// LoadConfigFromEnv loads the file named by RUBYIO_CONFIG, or returns the
// defaults when the variable is unset.
func LoadConfigFromEnv() (Config, error) {
	path, ok := os.LookupEnv(ConfigEnvVar)
	if !ok || path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// Validate checks that every field names something that exists.
func (c Config) Validate() error {
	if _, ok := dispositionNames[c.Disposition]; !ok {
		return errors.Errorf(errUnknownDisp, c.Disposition)
	}
	if _, err := NewCodec(c.Encoding, c.FallbackEncoding); err != nil {
		return err
	}
	if c.ReadChunkSize <= 0 {
		return errors.Errorf(errChunkSize, c.ReadChunkSize)
	}
	if c.LineSeparator == "" {
		return errors.New("line_separator must not be empty")
	}
	if _, err := parseThreshold(c.LogThreshold); err != nil {
		return err
	}
	return nil
}

var thresholdNames = map[string]jww.Threshold{
	"trace":    jww.LevelTrace,
	"debug":    jww.LevelDebug,
	"info":     jww.LevelInfo,
	"warn":     jww.LevelWarn,
	"error":    jww.LevelError,
	"critical": jww.LevelCritical,
	"fatal":    jww.LevelFatal,
}

func parseThreshold(name string) (jww.Threshold, error) {
	if name == "" {
		return jww.LevelWarn, nil
	}
	t, ok := thresholdNames[strings.ToLower(name)]
	if !ok {
		return jww.LevelWarn, errors.Errorf("unknown log threshold %q", name)
	}
	return t, nil
}
