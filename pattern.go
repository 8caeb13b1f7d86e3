///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

// pattern.go wraps regexp2, whose backtracking engine gives the semantics
// Ruby and ICU patterns expect (lookaround, backreferences, named groups).
// regexp2 reports positions in runes; everything exported here is in byte
// offsets into the Go string.

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// Capture is one group of a match. Start and End are byte offsets into the
// target. Valid is false for a group that did not take part in the match.
type Capture struct {
	Text  string
	Start int
	End   int
	Valid bool
}

// PatternMatcher applies one compiled pattern to a target string.
type PatternMatcher struct {
	target  *string
	pattern string
	re      *regexp2.Regexp
	policy  *Policy

	// byte offset of every rune in the target, plus len(target)
	offsets   []int
	offsetsOf string
}

// parseOptions turns Ruby style option letters into regexp2 options.
func parseOptions(pattern, options string, p *Policy) (string, regexp2.RegexOptions) {
	var opts regexp2.RegexOptions
	for _, c := range options {
		switch c {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'x':
			opts |= regexp2.IgnorePatternWhitespace
		case 'q':
			pattern = regexp2.Escape(pattern)
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'u':
			// \b and \w are Unicode aware already.
		case 'l':
			// Only "\n" ends a line already.
		default:
			p.Report(errors.Errorf(errBadOption, c))
		}
	}
	return pattern, opts
}

func compile(pattern, options string, p *Policy) (*regexp2.Regexp, error) {
	expr, opts := parseOptions(pattern, options, p)
	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, p.Report(errors.Wrapf(err, errCompile, pattern))
	}
	return re, nil
}

// NewPatternMatcher compiles pattern with the option letters i, x, q, m, s,
// l and u. Unknown letters are reported through p and otherwise ignored.
func NewPatternMatcher(target, pattern, options string, p *Policy) (*PatternMatcher, error) {
	return newMatcher(&target, pattern, options, p)
}

func newMatcher(target *string, pattern, options string, p *Policy) (*PatternMatcher, error) {
	re, err := compile(pattern, options, p)
	if err != nil {
		return nil, err
	}
	return &PatternMatcher{target: target, pattern: pattern, re: re, policy: p}, nil
}

// Pattern builds a PatternMatcher that reports through the session policy.
func (s *Session) Pattern(target, pattern, options string) (*PatternMatcher, error) {
	return NewPatternMatcher(target, pattern, options, s.policy)
}

// Target returns the string being matched.
func (m *PatternMatcher) Target() string {
	return *m.target
}

// Source returns the pattern as given.
func (m *PatternMatcher) Source() string {
	return m.pattern
}

// byteOffset converts a rune index from regexp2 into a byte offset.
func (m *PatternMatcher) byteOffset(runeIndex int) int {
	if m.offsets == nil || m.offsetsOf != *m.target {
		s := *m.target
		m.offsets = make([]int, 0, utf8.RuneCountInString(s)+1)
		for i := range s {
			m.offsets = append(m.offsets, i)
		}
		m.offsets = append(m.offsets, len(s))
		m.offsetsOf = s
	}
	return m.offsets[runeIndex]
}

func (m *PatternMatcher) capture(g *regexp2.Group) Capture {
	if g == nil || len(g.Captures) == 0 {
		return Capture{}
	}
	start := m.byteOffset(g.Index)
	end := m.byteOffset(g.Index + g.Length)
	return Capture{
		Text:  (*m.target)[start:end],
		Start: start,
		End:   end,
		Valid: true,
	}
}

func (m *PatternMatcher) captures(match *regexp2.Match) []Capture {
	groups := match.Groups()
	out := make([]Capture, len(groups))
	for i := range groups {
		out[i] = m.capture(&groups[i])
	}
	return out
}

// each visits every match in order until visitor returns false.
func (m *PatternMatcher) each(visitor func(match *regexp2.Match) bool) error {
	match, err := m.re.FindStringMatch(*m.target)
	for match != nil && err == nil {
		if !visitor(match) {
			return nil
		}
		match, err = m.re.FindNextMatch(match)
	}
	if err != nil {
		return m.policy.Report(errors.Wrapf(err, "matching %q", m.pattern))
	}
	return nil
}

func (m *PatternMatcher) first() *regexp2.Match {
	match, err := m.re.FindStringMatch(*m.target)
	if err != nil {
		m.policy.Report(errors.Wrapf(err, "matching %q", m.pattern))
		return nil
	}
	return match
}

// Matches reports whether the pattern occurs in the target.
func (m *PatternMatcher) Matches() bool {
	return m.first() != nil
}

// NotMatches is the negation of Matches.
func (m *PatternMatcher) NotMatches() bool {
	return !m.Matches()
}

// FirstMatchRange returns the byte range of the first match.
func (m *PatternMatcher) FirstMatchRange() (start, end int, ok bool) {
	match := m.first()
	if match == nil {
		return 0, 0, false
	}
	c := m.capture(&match.Group)
	return c.Start, c.End, true
}

// Match returns the text of the first match.
func (m *PatternMatcher) Match() (string, bool) {
	match := m.first()
	if match == nil {
		return "", false
	}
	return m.capture(&match.Group).Text, true
}

// Groups returns every group of the first match, group 0 being the whole
// match, or nil when there is no match.
func (m *PatternMatcher) Groups() []Capture {
	match := m.first()
	if match == nil {
		return nil
	}
	return m.captures(match)
}

// GroupStrings is Groups reduced to the matched text; groups that did not
// participate are empty strings.
func (m *PatternMatcher) GroupStrings() []string {
	groups := m.Groups()
	if groups == nil {
		return nil
	}
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Text
	}
	return out
}

// Group returns group n of the first match.
func (m *PatternMatcher) Group(n int) (string, bool) {
	match := m.first()
	if match == nil {
		return "", false
	}
	c := m.capture(match.GroupByNumber(n))
	return c.Text, c.Valid
}

// NamedGroup returns the named group of the first match.
func (m *PatternMatcher) NamedGroup(name string) (string, bool) {
	match := m.first()
	if match == nil {
		return "", false
	}
	c := m.capture(match.GroupByName(name))
	return c.Text, c.Valid
}

// AllGroups returns the groups of every match.
func (m *PatternMatcher) AllGroups() [][]Capture {
	var all [][]Capture
	m.each(func(match *regexp2.Match) bool {
		all = append(all, m.captures(match))
		return true
	})
	return all
}

// Dictionary maps group 1 to group 2 over every match, for patterns such as
// `(\w+)=(\w*)`. Matches missing either group are skipped.
func (m *PatternMatcher) Dictionary() map[string]string {
	out := make(map[string]string)
	m.each(func(match *regexp2.Match) bool {
		k := m.capture(match.GroupByNumber(1))
		v := m.capture(match.GroupByNumber(2))
		if k.Valid && v.Valid {
			out[k.Text] = v.Text
		}
		return true
	})
	return out
}

// Sub replaces the first match with template. See expand for the template
// syntax.
func (m *PatternMatcher) Sub(template string) (string, error) {
	return m.replace(1, func(groups []Capture) string {
		return m.expand(template, groups)
	})
}

// Gsub replaces every match with template.
func (m *PatternMatcher) Gsub(template string) (string, error) {
	return m.replace(-1, func(groups []Capture) string {
		return m.expand(template, groups)
	})
}

// replace builds a new string, substituting up to limit matches (all for a
// negative limit) in order.
func (m *PatternMatcher) replace(limit int, repl func([]Capture) string) (string, error) {
	src := *m.target
	var out strings.Builder
	pos, n := 0, 0
	err := m.each(func(match *regexp2.Match) bool {
		groups := m.captures(match)
		out.WriteString(src[pos:groups[0].Start])
		out.WriteString(repl(groups))
		pos = groups[0].End
		n++
		return limit < 0 || n < limit
	})
	if err != nil {
		return src, err
	}
	out.WriteString(src[pos:])
	return out.String(), nil
}

// expand fills a replacement template from the groups of one match:
//
//	$n, ${n}   group n (as many digits as name an existing group)
//	${name}    a named group
//	$$         a literal dollar sign
//	\c         the character c, taken literally
func (m *PatternMatcher) expand(template string, groups []Capture) string {
	if !strings.ContainsAny(template, `$\`) {
		return template
	}

	group := func(n int) string {
		if n >= 0 && n < len(groups) {
			return groups[n].Text
		}
		return ""
	}

	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c == '\\' && i+1 < len(template) {
			i++
			b.WriteByte(template[i])
			continue
		}
		if c != '$' || i+1 == len(template) {
			b.WriteByte(c)
			continue
		}

		next := template[i+1]
		switch {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '{':
			end := strings.IndexByte(template[i+2:], '}')
			if end < 0 {
				b.WriteByte(c)
				continue
			}
			ref := template[i+2 : i+2+end]
			if n, err := strconv.Atoi(ref); err == nil {
				b.WriteString(group(n))
			} else {
				b.WriteString(group(m.re.GroupNumberFromName(ref)))
			}
			i += 2 + end
		case isDigit(next):
			n := int(next - '0')
			j := i + 2
			for j < len(template) && isDigit(template[j]) {
				more := n*10 + int(template[j]-'0')
				if more >= len(groups) {
					break
				}
				n = more
				j++
			}
			b.WriteString(group(n))
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
