package ignore

import (
	"strings"

	"github.com/sonemaro/packitor/pkg/logger"
)

// Matcher evaluates paths against a RuleSet. It is read-only after
// construction and safe for concurrent use.
type Matcher struct {
	rules *RuleSet
	log   logger.Logger
}

// NewMatcher creates a matcher over the given rule set.
func NewMatcher(rules *RuleSet, log logger.Logger) *Matcher {
	return &Matcher{
		rules: rules,
		log:   log,
	}
}

// Match reports whether the path should be ignored. The path must be
// relative to the walk root; separators may be either slash or backslash.
//
// Every proper ancestor directory is evaluated before the path itself:
// if an ancestor is ignored, the path is ignored no matter what its own
// rules say. A negation can only reach a path inside an excluded
// directory by re-including that directory itself, mirroring gitignore.
func (m *Matcher) Match(rel string, isDir bool) bool {
	segs := splitPath(rel)
	if len(segs) == 0 {
		return false
	}

	for i := 1; i < len(segs); i++ {
		if m.decide(segs[:i], true) {
			m.log.WithFields(logger.Fields{
				"path":     rel,
				"ancestor": strings.Join(segs[:i], "/"),
			}).Trace("Path ignored via ancestor directory")
			return true
		}
	}

	ignored := m.decide(segs, isDir)
	m.log.WithFields(logger.Fields{
		"path":    rel,
		"isDir":   isDir,
		"ignored": ignored,
	}).Trace("Checked ignore rules")

	return ignored
}

// decide applies last-match-wins to one exact path.
func (m *Matcher) decide(segs []string, isDir bool) bool {
	last := m.rules.lastMatch(segs, isDir)
	if last == nil {
		return false
	}
	return !last.Negated
}

// splitPath normalizes a relative path into slash-separated components.
func splitPath(rel string) []string {
	rel = strings.ReplaceAll(rel, "\\", "/")
	rel = strings.Trim(rel, "/")
	if rel == "" || rel == "." {
		return nil
	}

	parts := strings.Split(rel, "/")
	segs := parts[:0]
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		segs = append(segs, part)
	}
	return segs
}
