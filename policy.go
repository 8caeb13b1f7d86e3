///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"log"
	"strings"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"gopkg.in/yaml.v3"
)

// Disposition selects what happens, besides returning the error, when an
// operation fails.
type Disposition int

const (
	// Warn logs a single line at WARN. It is the zero value.
	Warn Disposition = iota
	// Ignore logs nothing.
	Ignore
	// Throw logs the error with its stack trace at ERROR.
	Throw
	// Fatal logs at FATAL and panics.
	Fatal
)

var dispositionNames = map[Disposition]string{
	Warn:   "warn",
	Ignore: "ignore",
	Throw:  "throw",
	Fatal:  "fatal",
}

// String returns the configuration name of the disposition.
func (d Disposition) String() string {
	if name, ok := dispositionNames[d]; ok {
		return name
	}
	return "unknown"
}

// ParseDisposition converts a configuration name (case-insensitive) into a
// Disposition.
func ParseDisposition(name string) (Disposition, error) {
	for d, n := range dispositionNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return d, nil
		}
	}
	return Warn, errors.Errorf(errUnknownDisp, name)
}

// UnmarshalYAML lets a Disposition be written by name in a config file.
func (d *Disposition) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return errors.WithStack(err)
	}
	parsed, err := ParseDisposition(name)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML writes a Disposition by name.
func (d Disposition) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Policy decides how strictly failures are treated. It is passed explicitly
// to everything that can fail; a nil *Policy behaves like the zero Policy.
type Policy struct {
	Disposition Disposition

	// Log receives the records. When nil the package-level jww loggers are
	// used.
	Log *jww.Notepad
}

// Report applies the policy to err and returns err unchanged so it can be
// used in a return statement. A nil err is passed through untouched.
func (p *Policy) Report(err error) error {
	if err == nil {
		return nil
	}

	disposition := Warn
	if p != nil {
		disposition = p.Disposition
	}

	switch disposition {
	case Ignore:
	case Warn:
		p.logger(jww.LevelWarn).Printf("rubyio: %v", err)
	case Throw:
		p.logger(jww.LevelError).Printf("rubyio: %+v", err)
	case Fatal:
		p.logger(jww.LevelFatal).Panicf("rubyio: %+v", err)
	}
	return err
}

// Reportf builds an error from a format and reports it.
func (p *Policy) Reportf(format string, args ...interface{}) error {
	return p.Report(errors.Errorf(format, args...))
}

// Infof logs an informational record regardless of the disposition. It is
// used for verbose tracing of actions.
func (p *Policy) Infof(format string, args ...interface{}) {
	p.logger(jww.LevelInfo).Printf(format, args...)
}

// Debugf logs a debug record regardless of the disposition.
func (p *Policy) Debugf(format string, args ...interface{}) {
	p.logger(jww.LevelDebug).Printf(format, args...)
}

func (p *Policy) logger(level jww.Threshold) *log.Logger {
	if p == nil || p.Log == nil {
		switch level {
		case jww.LevelDebug:
			return jww.DEBUG
		case jww.LevelInfo:
			return jww.INFO
		case jww.LevelWarn:
			return jww.WARN
		case jww.LevelError:
			return jww.ERROR
		default:
			return jww.FATAL
		}
	}

	switch level {
	case jww.LevelDebug:
		return p.Log.DEBUG
	case jww.LevelInfo:
		return p.Log.INFO
	case jww.LevelWarn:
		return p.Log.WARN
	case jww.LevelError:
		return p.Log.ERROR
	default:
		return p.Log.FATAL
	}
}
