///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// MutablePatternMatcher is a PatternMatcher that can rewrite its target in
// place. Results read before a mutation describe the old contents.
type MutablePatternMatcher struct {
	*PatternMatcher
}

// NewMutablePatternMatcher compiles pattern against the string at target.
func NewMutablePatternMatcher(target *string, pattern, options string, p *Policy) (*MutablePatternMatcher, error) {
	if target == nil {
		return nil, p.Report(errors.New("mutable pattern needs a target"))
	}
	m, err := newMatcher(target, pattern, options, p)
	if err != nil {
		return nil, err
	}
	return &MutablePatternMatcher{m}, nil
}

// MutablePattern builds a MutablePatternMatcher that reports through the
// session policy.
func (s *Session) MutablePattern(target *string, pattern, options string) (*MutablePatternMatcher, error) {
	return NewMutablePatternMatcher(target, pattern, options, s.policy)
}

// SetGroup replaces group n of every match with template, expanded against
// that match. Matches are rewritten from last to first so that earlier
// offsets stay valid. Matches where group n did not take part are left
// alone. It reports whether the target changed.
func (m *MutablePatternMatcher) SetGroup(n int, template string) (bool, error) {
	if n < 0 || n > len(m.re.GetGroupNumbers())-1 {
		return false, m.policy.Report(errors.Errorf(errNoGroup, m.pattern, n))
	}

	all := m.AllGroups()
	src := *m.target
	out := src
	for i := len(all) - 1; i >= 0; i-- {
		g := all[i][n]
		if !g.Valid {
			continue
		}
		out = out[:g.Start] + m.expand(template, all[i]) + out[g.End:]
	}

	if out == src {
		return false, nil
	}
	*m.target = out
	return true, nil
}

// Substitute rebuilds the target left to right, replacing each match with
// what substitution returns for its groups. Setting *stop ends the scan
// after the current match. It reports whether the target changed.
func (m *MutablePatternMatcher) Substitute(substitution func(groups []Capture, stop *bool) string) (bool, error) {
	src := *m.target
	var out strings.Builder
	pos := 0
	err := m.each(func(match *regexp2.Match) bool {
		groups := m.captures(match)
		out.WriteString(src[pos:groups[0].Start])
		stop := false
		out.WriteString(substitution(groups, &stop))
		pos = groups[0].End
		return !stop
	})
	if err != nil {
		return false, err
	}
	out.WriteString(src[pos:])

	if out.String() == src {
		return false, nil
	}
	*m.target = out.String()
	return true, nil
}

// ReplaceAll replaces every match with template.
func (m *MutablePatternMatcher) ReplaceAll(template string) (bool, error) {
	return m.Substitute(func(groups []Capture, _ *bool) string {
		return m.expand(template, groups)
	})
}

// ReplaceEach replaces the i-th match with templates[i]. Matches past the
// last template are left alone.
func (m *MutablePatternMatcher) ReplaceEach(templates []string) (bool, error) {
	if len(templates) == 0 {
		return false, nil
	}
	i := 0
	return m.Substitute(func(groups []Capture, stop *bool) string {
		template := templates[i]
		i++
		*stop = i == len(templates)
		return m.expand(template, groups)
	})
}

// ReplaceFunc replaces every match with fn of the matched text.
func (m *MutablePatternMatcher) ReplaceFunc(fn func(match string) string) (bool, error) {
	return m.Substitute(func(groups []Capture, _ *bool) string {
		return fn(groups[0].Text)
	})
}

// ReplaceGroupsFunc replaces every match with fn of its groups.
func (m *MutablePatternMatcher) ReplaceGroupsFunc(fn func(groups []Capture) string) (bool, error) {
	return m.Substitute(func(groups []Capture, _ *bool) string {
		return fn(groups)
	})
}
