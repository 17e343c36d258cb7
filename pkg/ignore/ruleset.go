package ignore

import "strings"

// RuleSet is an ordered sequence of compiled patterns. Order is the
// declaration order of the source rules and is never changed: precedence
// is "last matching pattern wins", so reordering or deduplicating could
// flip decisions.
type RuleSet struct {
	patterns []Pattern
}

// Compile turns raw rule lines into a RuleSet. Blank lines and lines
// starting with "#" are skipped; everything else is compiled in order.
func Compile(lines []string) (*RuleSet, error) {
	rs := &RuleSet{patterns: make([]Pattern, 0, len(lines))}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p, err := compilePattern(line)
		if err != nil {
			return nil, err
		}
		rs.patterns = append(rs.patterns, p)
	}

	return rs, nil
}

// CompileText compiles rules from newline-separated text, typically the
// contents of an ignore file.
func CompileText(text string) (*RuleSet, error) {
	return Compile(strings.Split(text, "\n"))
}

// MergeLines concatenates rule sources preserving order. Later sources
// take precedence because their rules are evaluated last. Duplicate rule
// text across sources is kept: dropping a duplicate could change which
// pattern is the last match.
func MergeLines(sources ...[]string) []string {
	total := 0
	for _, src := range sources {
		total += len(src)
	}

	out := make([]string, 0, total)
	for _, src := range sources {
		out = append(out, src...)
	}
	return out
}

// Len returns the number of compiled patterns.
func (rs *RuleSet) Len() int {
	return len(rs.patterns)
}

// Patterns returns the compiled patterns in declaration order.
func (rs *RuleSet) Patterns() []Pattern {
	return rs.patterns
}

// lastMatch evaluates every pattern in order against the path segments
// and returns the last one that matched, or nil.
func (rs *RuleSet) lastMatch(segs []string, isDir bool) *Pattern {
	var last *Pattern
	for i := range rs.patterns {
		if rs.patterns[i].match(segs, isDir) {
			last = &rs.patterns[i]
		}
	}
	return last
}
