///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

// Ruby String methods that take a pattern. Failures are reported with the
// default policy.

// Gsub returns s with every match of pattern replaced by template.
func Gsub(s, pattern, template string) (string, error) {
	m, err := NewPatternMatcher(s, pattern, "", nil)
	if err != nil {
		return s, err
	}
	return m.Gsub(template)
}

// Sub returns s with the first match of pattern replaced by template.
func Sub(s, pattern, template string) (string, error) {
	m, err := NewPatternMatcher(s, pattern, "", nil)
	if err != nil {
		return s, err
	}
	return m.Sub(template)
}

// Scan returns the group texts of every match of pattern in s.
func Scan(s, pattern string) ([][]string, error) {
	m, err := NewPatternMatcher(s, pattern, "", nil)
	if err != nil {
		return nil, err
	}
	var out [][]string
	for _, groups := range m.AllGroups() {
		texts := make([]string, len(groups))
		for i, g := range groups {
			texts[i] = g.Text
		}
		out = append(out, texts)
	}
	return out, nil
}

// Match returns the groups of the first match of pattern in s, or nil.
func Match(s, pattern string) ([]Capture, error) {
	m, err := NewPatternMatcher(s, pattern, "", nil)
	if err != nil {
		return nil, err
	}
	return m.Groups(), nil
}

// Slice returns group n of the first match of pattern in s.
func Slice(s, pattern string, n int) (string, bool) {
	m, err := NewPatternMatcher(s, pattern, "", nil)
	if err != nil {
		return "", false
	}
	return m.Group(n)
}

// Index returns the byte offset of the first match of pattern in s.
func Index(s, pattern string) (int, bool) {
	m, err := NewPatternMatcher(s, pattern, "", nil)
	if err != nil {
		return 0, false
	}
	start, _, ok := m.FirstMatchRange()
	return start, ok
}

func mustGsub(s, pattern string) string {
	out, err := Gsub(s, pattern, "")
	if err != nil {
		return s
	}
	return out
}

// Strip removes leading and trailing white space.
func Strip(s string) string {
	return mustGsub(s, `\A\s+|\s+\z`)
}

// Lstrip removes leading white space.
func Lstrip(s string) string {
	return mustGsub(s, `\A\s+`)
}

// Rstrip removes trailing white space.
func Rstrip(s string) string {
	return mustGsub(s, `\s+\z`)
}
