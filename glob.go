///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"gitlab.com/elixxir/rubyio/portableOS"
)

// Glob expands a Ruby glob pattern ("*", "**", "?", "[...]", "{a,b}")
// against the file system. Relative patterns are resolved under root (the
// working directory when empty) and return paths relative to it; absolute
// patterns return absolute paths. Names starting with "." are matched only
// by pattern elements that spell the dot. Results are sorted. Nothing is
// passed to a shell, so metacharacters inside file names are harmless.
func (s *Session) Glob(pattern, root string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, s.policy.Report(errors.Wrapf(doublestar.ErrBadPattern,
			errGlobPattern, pattern))
	}
	if root == "" {
		root = "."
	}

	base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
	dir := base
	if !path.IsAbs(base) {
		dir = filepath.Join(root, filepath.FromSlash(base))
	}

	if rest == "" {
		// A pattern without metacharacters names exactly one path.
		if _, err := portableOS.Lstat(dir); err != nil {
			return []string{}, nil
		}
		return []string{pattern}, nil
	}

	found, err := doublestar.Glob(os.DirFS(dir), rest)
	if err != nil {
		return nil, s.policy.Report(errors.Wrapf(err, errGlobPattern,
			pattern))
	}

	matches := make([]string, 0, len(found))
	for _, m := range found {
		if !dotAllowed(rest, m) {
			continue
		}
		if base != "." {
			m = path.Join(base, m)
		}
		matches = append(matches, m)
	}
	slices.Sort(matches)
	return matches, nil
}

// FnmatchFlag adjusts Fnmatch.
type FnmatchFlag int

const (
	// FnmDotmatch lets wildcards match a leading dot.
	FnmDotmatch FnmatchFlag = 1 << iota
	// FnmCasefold matches without regard to case.
	FnmCasefold
)

// Fnmatch reports whether name matches pattern using glob rules. Wildcards
// do not cross "/" and, without FnmDotmatch, do not match a leading dot.
func Fnmatch(pattern, name string, flags FnmatchFlag) (bool, error) {
	if flags&FnmCasefold != 0 {
		pattern, name = strings.ToLower(pattern), strings.ToLower(name)
	}
	ok, err := doublestar.Match(pattern, name)
	if err != nil {
		return false, errors.Wrapf(err, errGlobPattern, pattern)
	}
	if !ok {
		return false, nil
	}
	return flags&FnmDotmatch != 0 || dotAllowed(pattern, name), nil
}

// dotAllowed checks every hidden element of name against the pattern
// elements that spell a leading dot.
func dotAllowed(pattern, name string) bool {
	var dotted []string
	for _, seg := range strings.Split(pattern, "/") {
		if spellsDot(seg) {
			dotted = append(dotted, seg)
		}
	}

	for _, elem := range strings.Split(name, "/") {
		if !strings.HasPrefix(elem, ".") || elem == "." || elem == ".." {
			continue
		}
		matched := false
		for _, seg := range dotted {
			if ok, _ := doublestar.Match(seg, elem); ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// spellsDot reports whether a pattern element begins with a literal dot,
// directly or in one of its brace alternatives.
func spellsDot(seg string) bool {
	if strings.HasPrefix(seg, ".") {
		return true
	}
	return strings.HasPrefix(seg, "{") &&
		(strings.Contains(seg, "{.") || strings.Contains(seg, ",."))
}
