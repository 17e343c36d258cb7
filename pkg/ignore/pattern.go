/*
Package ignore implements a gitignore-compatible exclusion engine: rule
compilation, ordered rule sets, and a matcher with last-match-wins
precedence, negation, directory-only rules, root anchoring and ancestor
short-circuiting.

Basic usage:

	rules, err := ignore.Compile([]string{"*.tmp", "!keep.tmp", "build/"})
	if err != nil {
	    return err
	}

	matcher := ignore.NewMatcher(rules, log)
	matcher.Match("build/output.o", false) // true
*/
package ignore

import (
	"strings"
	"unicode/utf8"
)

// Pattern is one compiled exclusion or inclusion rule. A Pattern is
// immutable once compiled.
type Pattern struct {
	// Text is the original rule text after trimming, kept for reporting.
	Text string

	// Negated is true for rules prefixed with "!": a matching path is
	// re-included instead of excluded.
	Negated bool

	// DirOnly is true for rules with a trailing "/": the rule can only
	// match directories.
	DirOnly bool

	// Anchored is true when the rule contains a path separator anywhere
	// except as the sole trailing character. Anchored rules match from
	// the walk root, unanchored rules match at any depth.
	Anchored bool

	segments []segment
}

// segment is one slash-delimited component of a pattern. A doublestar
// segment matches zero or more whole path components.
type segment struct {
	text       string
	wildcard   bool
	doublestar bool
}

// compilePattern parses a single trimmed, non-comment rule line. The
// leading "!" and trailing "/" markers must still be present; they are
// stripped here.
func compilePattern(line string) (Pattern, error) {
	if !utf8.ValidString(line) {
		return Pattern{}, &PatternError{Text: line, Reason: "rule text is not valid UTF-8"}
	}

	p := Pattern{Text: line}

	rest := line
	if strings.HasPrefix(rest, "!") {
		p.Negated = true
		rest = rest[1:]
	}

	if strings.HasSuffix(rest, "/") {
		p.DirOnly = true
		rest = strings.TrimSuffix(rest, "/")
	}

	// A leading slash only anchors the pattern, it is not a segment of
	// its own.
	leadingSlash := strings.HasPrefix(rest, "/")
	rest = strings.TrimPrefix(rest, "/")

	if rest == "" {
		return Pattern{}, &PatternError{Text: line, Reason: "rule has no matchable text"}
	}

	p.Anchored = leadingSlash || strings.Contains(rest, "/")

	for _, raw := range strings.Split(rest, "/") {
		if raw == "" {
			return Pattern{}, &PatternError{Text: line, Reason: "empty path component"}
		}
		p.segments = append(p.segments, segment{
			text:       raw,
			wildcard:   strings.ContainsAny(raw, "*?"),
			doublestar: raw == "**",
		})
	}

	return p, nil
}

// match reports whether the pattern matches the given path segments.
// Unanchored patterns may start at any component boundary; in both cases
// the pattern must consume the path to its end.
func (p Pattern) match(segs []string, isDir bool) bool {
	if p.DirOnly && !isDir {
		return false
	}

	if p.Anchored {
		return matchSegments(p.segments, segs)
	}

	for start := 0; start < len(segs); start++ {
		if matchSegments(p.segments, segs[start:]) {
			return true
		}
	}
	return false
}

// matchSegments matches pattern segments against path components,
// expanding "**" over zero or more whole components.
func matchSegments(pat []segment, segs []string) bool {
	if len(pat) == 0 {
		return len(segs) == 0
	}

	if pat[0].doublestar {
		for skip := 0; skip <= len(segs); skip++ {
			if matchSegments(pat[1:], segs[skip:]) {
				return true
			}
		}
		return false
	}

	if len(segs) == 0 {
		return false
	}

	if !matchComponent(pat[0], segs[0]) {
		return false
	}
	return matchSegments(pat[1:], segs[1:])
}

// matchComponent matches one pattern segment against one path component.
// "*" matches any run of non-separator characters, "?" exactly one.
func matchComponent(pat segment, comp string) bool {
	if !pat.wildcard {
		return pat.text == comp
	}
	return matchWildcard(pat.text, comp)
}

// matchWildcard is an iterative backtracking wildcard matcher for a
// single path component, supporting "*" and "?".
func matchWildcard(pattern, input string) bool {
	pIdx, sIdx := 0, 0
	star, starInput := -1, 0

	for sIdx < len(input) {
		switch {
		case pIdx < len(pattern) && (pattern[pIdx] == '?' || pattern[pIdx] == input[sIdx]):
			pIdx++
			sIdx++
		case pIdx < len(pattern) && pattern[pIdx] == '*':
			star = pIdx
			pIdx++
			starInput = sIdx
		case star >= 0:
			pIdx = star + 1
			starInput++
			sIdx = starInput
		default:
			return false
		}
	}

	for pIdx < len(pattern) && pattern[pIdx] == '*' {
		pIdx++
	}
	return pIdx == len(pattern)
}
