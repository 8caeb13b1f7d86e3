///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"os"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Env is a view of the process environment in the shape of Ruby's ENV.
type Env struct {
	policy *Policy
}

// Env returns the environment view for the session.
func (s *Session) Env() Env {
	return Env{policy: s.policy}
}

// Get returns the value of key and whether it is set.
func (e Env) Get(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Fetch returns the value of key, or def when it is not set.
func (e Env) Fetch(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// Set assigns key.
func (e Env) Set(key, value string) error {
	return e.policy.Report(errors.Wrapf(os.Setenv(key, value),
		"setenv %q failed", key))
}

// Unset removes key.
func (e Env) Unset(key string) error {
	return e.policy.Report(errors.Wrapf(os.Unsetenv(key),
		"unsetenv %q failed", key))
}

// Keys returns the sorted names of all variables.
func (e Env) Keys() []string {
	m := e.ToMap()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ToMap returns a copy of the environment.
func (e Env) ToMap() map[string]string {
	env := os.Environ()
	m := make(map[string]string, len(env))
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}
