package ignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonemaro/packitor/pkg/logger"
)

// mockLogger implements logger.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Info(msg string)                               {}
func (m *mockLogger) Debug(msg string)                              {}
func (m *mockLogger) Error(msg string)                              {}
func (m *mockLogger) Warn(msg string)                               {}
func (m *mockLogger) Trace(msg string)                              {}
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }

func newMatcher(t *testing.T, rules []string) *Matcher {
	t.Helper()
	rs, err := Compile(rules)
	require.NoError(t, err)
	return NewMatcher(rs, &mockLogger{})
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		count    int
		verify   func(*testing.T, *RuleSet)
		wantErr  bool
	}{
		{
			name:  "comments and blanks are skipped",
			lines: []string{"", "# a comment", "   ", "*.log"},
			count: 1,
		},
		{
			name:  "negation flag",
			lines: []string{"!keep.tmp"},
			count: 1,
			verify: func(t *testing.T, rs *RuleSet) {
				assert.True(t, rs.Patterns()[0].Negated)
				assert.False(t, rs.Patterns()[0].DirOnly)
			},
		},
		{
			name:  "trailing slash marks directory-only",
			lines: []string{"build/"},
			count: 1,
			verify: func(t *testing.T, rs *RuleSet) {
				assert.True(t, rs.Patterns()[0].DirOnly)
				assert.False(t, rs.Patterns()[0].Anchored)
			},
		},
		{
			name:  "interior slash anchors",
			lines: []string{"docs/internal"},
			count: 1,
			verify: func(t *testing.T, rs *RuleSet) {
				assert.True(t, rs.Patterns()[0].Anchored)
			},
		},
		{
			name:  "leading slash anchors",
			lines: []string{"/vendor"},
			count: 1,
			verify: func(t *testing.T, rs *RuleSet) {
				assert.True(t, rs.Patterns()[0].Anchored)
			},
		},
		{
			name:  "sole trailing slash does not anchor",
			lines: []string{"node_modules/"},
			count: 1,
			verify: func(t *testing.T, rs *RuleSet) {
				assert.False(t, rs.Patterns()[0].Anchored)
				assert.True(t, rs.Patterns()[0].DirOnly)
			},
		},
		{
			name:    "invalid utf-8 is rejected",
			lines:   []string{"bad\xff\xfepattern"},
			wantErr: true,
		},
		{
			name:    "bare negation is rejected",
			lines:   []string{"!"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := Compile(tt.lines)
			if tt.wantErr {
				require.Error(t, err)
				var perr *PatternError
				assert.ErrorAs(t, err, &perr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.count, rs.Len())
			if tt.verify != nil {
				tt.verify(t, rs)
			}
		})
	}
}

func TestMatcherPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		rules   []string
		path    string
		isDir   bool
		ignored bool
	}{
		{
			name:    "no rules matches nothing",
			rules:   nil,
			path:    "a.txt",
			ignored: false,
		},
		{
			name:    "wildcard exclusion",
			rules:   []string{"*.tmp", "!keep.tmp"},
			path:    "a.tmp",
			ignored: true,
		},
		{
			name:    "negation re-includes",
			rules:   []string{"*.tmp", "!keep.tmp"},
			path:    "keep.tmp",
			ignored: false,
		},
		{
			name:    "last match wins over earlier negation",
			rules:   []string{"*.log", "!important.log", "*.log"},
			path:    "important.log",
			ignored: true,
		},
		{
			name:    "negation declared last wins",
			rules:   []string{"*.log", "!important.log"},
			path:    "important.log",
			ignored: false,
		},
		{
			name:    "directory-only rule matches directory",
			rules:   []string{"build/"},
			path:    "build",
			isDir:   true,
			ignored: true,
		},
		{
			name:    "directory-only rule skips file of same name",
			rules:   []string{"build/"},
			path:    "build",
			isDir:   false,
			ignored: false,
		},
		{
			name:    "file inside ignored directory",
			rules:   []string{"build/"},
			path:    "build/output.o",
			ignored: true,
		},
		{
			name:    "negation cannot reach inside ignored directory",
			rules:   []string{"build/", "!build/keep.txt"},
			path:    "build/keep.txt",
			ignored: true,
		},
		{
			name:    "re-including the directory itself opens it",
			rules:   []string{"build/", "!build/"},
			path:    "build/keep.txt",
			ignored: false,
		},
		{
			name:    "unanchored rule matches at any depth",
			rules:   []string{"*.tmp"},
			path:    "a/b/c.tmp",
			ignored: true,
		},
		{
			name:    "anchored rule matches only from root",
			rules:   []string{"/vendor"},
			path:    "vendor",
			isDir:   true,
			ignored: true,
		},
		{
			name:    "anchored rule does not match nested path",
			rules:   []string{"/vendor"},
			path:    "pkg/vendor",
			isDir:   true,
			ignored: false,
		},
		{
			name:    "doublestar spans components",
			rules:   []string{"docs/**/*.md"},
			path:    "docs/a/b/readme.md",
			ignored: true,
		},
		{
			name:    "doublestar matches zero components",
			rules:   []string{"docs/**/*.md"},
			path:    "docs/readme.md",
			ignored: true,
		},
		{
			name:    "question mark matches one character",
			rules:   []string{"file?.txt"},
			path:    "file1.txt",
			ignored: true,
		},
		{
			name:    "question mark requires the character",
			rules:   []string{"file?.txt"},
			path:    "file.txt",
			ignored: false,
		},
		{
			name:    "interior slash anchors partial paths",
			rules:   []string{"docs/internal"},
			path:    "docs/internal",
			isDir:   true,
			ignored: true,
		},
		{
			name:    "nested directory components",
			rules:   []string{"src/components/"},
			path:    "src/components/foo.txt",
			ignored: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMatcher(t, tt.rules)
			assert.Equal(t, tt.ignored, m.Match(tt.path, tt.isDir))
		})
	}
}

func TestMatcherDeterminism(t *testing.T) {
	m := newMatcher(t, []string{"*.log", "!important.log", "build/", "**/cache"})

	paths := []struct {
		rel   string
		isDir bool
	}{
		{"a.log", false},
		{"important.log", false},
		{"build/x/y.o", false},
		{"deep/cache", true},
	}

	for _, p := range paths {
		first := m.Match(p.rel, p.isDir)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, m.Match(p.rel, p.isDir), "path %s", p.rel)
		}
	}
}

func TestMergeLines(t *testing.T) {
	inline := []string{"*.log", "!keep.log"}
	fromFile := []string{"*.log", "build/"}

	merged := MergeLines(inline, fromFile)
	require.Len(t, merged, 4)

	// File rules come after inline rules, so the file's re-exclusion of
	// *.log overrides the inline negation for keep.log.
	m := newMatcher(t, merged)
	assert.True(t, m.Match("keep.log", false))
	assert.True(t, m.Match("build", true))
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitPath("a/b"))
	assert.Equal(t, []string{"a", "b"}, splitPath(`a\b`))
	assert.Equal(t, []string{"a"}, splitPath("./a"))
	assert.Nil(t, splitPath(""))
	assert.Nil(t, splitPath("."))
}
