package output

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonemaro/packitor/pkg/logger"
	"github.com/sonemaro/packitor/pkg/walker"
)

// mockLogger implements logger.Logger interface for testing
type mockLogger struct {
	logs []string
}

func (m *mockLogger) Info(msg string)                               { m.logs = append(m.logs, "INFO: "+msg) }
func (m *mockLogger) Debug(msg string)                              { m.logs = append(m.logs, "DEBUG: "+msg) }
func (m *mockLogger) Error(msg string)                              { m.logs = append(m.logs, "ERROR: "+msg) }
func (m *mockLogger) Warn(msg string)                               { m.logs = append(m.logs, "WARN: "+msg) }
func (m *mockLogger) Trace(msg string)                              { m.logs = append(m.logs, "TRACE: "+msg) }
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }

func createTestResult() walker.Result {
	modTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	entries := []walker.Entry{
		{Path: "/root/dir1/file1.txt", RelPath: "dir1/file1.txt", Size: 100, ModTime: modTime},
		{Path: "/root/dir1/file2.json", RelPath: "dir1/file2.json", Size: 200, ModTime: modTime},
		{Path: "/root/dir2/notes.md", RelPath: "dir2/notes.md", Size: 100, ModTime: modTime},
		{Path: "/root/file3.txt", RelPath: "file3.txt", Size: 300, ModTime: modTime},
	}
	return walker.Result{
		Entries: entries,
		Stats: walker.Stats{
			FilesFound:   4,
			FilesSkipped: 2,
			DirsPruned:   1,
			TotalSize:    700,
		},
	}
}

func TestFormatter(t *testing.T) {
	tests := []struct {
		name        string
		format      Format
		withStats   bool
		withColors  bool
		forceColors bool
		verify      func(*testing.T, string, *mockLogger)
	}{
		{
			name:       "tree format basic",
			format:     FormatTree,
			withStats:  false,
			withColors: false,
			verify: func(t *testing.T, output string, log *mockLogger) {
				// For root node, we don't expect "└── " prefix at the start
				assert.Contains(t, output, "root/")
				assert.Contains(t, output, "├── dir1/")
				assert.Contains(t, output, "│   ├── file1.txt")
				assert.Contains(t, output, "│   └── file2.json")
				assert.Contains(t, output, "├── dir2/")
				assert.Contains(t, output, "│   └── notes.md")
				assert.Contains(t, output, "└── file3.txt")
			},
		},
		{
			name:       "tree format with colors",
			format:     FormatTree,
			withStats:  false,
			withColors: true,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, "\x1b[34;1m") // Bold blue for directories
				assert.Contains(t, output, "\x1b[0m")    // Reset
			},
			forceColors: true,
		},
		{
			name:      "tree format with stats",
			format:    FormatTree,
			withStats: true,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, "Files Selected: 4")
				assert.Contains(t, output, "Files Ignored: 2")
				assert.Contains(t, output, "Directories Pruned: 1")
				assert.Contains(t, output, "Total Size: 700 B")
				assert.Contains(t, log.logs, "DEBUG: Adding statistics to output")
			},
		},
		{
			name:   "json format",
			format: FormatJSON,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, `"root": "root"`)
				assert.Contains(t, output, `"path": "dir1/file1.txt"`)
				assert.Contains(t, output, `"size": 100`)
				assert.Contains(t, log.logs, "DEBUG: Formatting JSON output")
			},
		},
		{
			name:   "yaml format",
			format: FormatYAML,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, "root: root")
				assert.Contains(t, output, "path: dir1/file1.txt")
				assert.Contains(t, output, "files:")
				assert.Contains(t, log.logs, "DEBUG: Formatting YAML output")
			},
		},
		{
			name:      "json format with stats",
			format:    FormatJSON,
			withStats: true,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, `"statistics"`)
				assert.Contains(t, output, `"filesSelected": 4`)
				assert.Contains(t, output, `"directoriesPruned": 1`)
				assert.Contains(t, log.logs, "DEBUG: Adding statistics to output")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.forceColors {
				// Sprint consults the global NoColor flag, which is set
				// when stdout is not a terminal.
				old := color.NoColor
				color.NoColor = false
				defer func() { color.NoColor = old }()
			}

			log := &mockLogger{}

			formatter := NewFormatter(Config{
				Format:     tt.format,
				WithStats:  tt.withStats,
				WithColors: tt.withColors,
			}, log)

			output, err := formatter.Format("root", createTestResult())

			require.NoError(t, err)
			require.NotEmpty(t, output)

			tt.verify(t, output, log)
		})
	}
}

func TestFormatterEdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		result    walker.Result
		format    Format
		wantErr   bool
		errString string
	}{
		{
			name:    "empty selection",
			result:  walker.Result{},
			format:  FormatTree,
			wantErr: false,
		},
		{
			name:      "invalid format",
			result:    createTestResult(),
			format:    "invalid",
			wantErr:   true,
			errString: "unsupported format",
		},
		{
			name: "deep nesting",
			result: func() walker.Result {
				parts := make([]string, 100)
				for i := range parts {
					parts[i] = fmt.Sprintf("level%d", i)
				}
				rel := strings.Join(parts, "/") + "/file.txt"
				return walker.Result{Entries: []walker.Entry{{Path: "/root/" + rel, RelPath: rel}}}
			}(),
			format:  FormatTree,
			wantErr: false,
		},
		{
			name: "large number of siblings",
			result: func() walker.Result {
				entries := make([]walker.Entry, 1000)
				for i := range entries {
					rel := fmt.Sprintf("file%04d.txt", i)
					entries[i] = walker.Entry{Path: "/root/" + rel, RelPath: rel}
				}
				return walker.Result{Entries: entries}
			}(),
			format:  FormatTree,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &mockLogger{}
			formatter := NewFormatter(Config{Format: tt.format}, log)

			output, err := formatter.Format("root", tt.result)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)

				hasError := false
				for _, logMsg := range log.logs {
					if strings.HasPrefix(logMsg, "ERROR: ") {
						hasError = true
						break
					}
				}
				assert.True(t, hasError, "Expected error log message not found")
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, output)
			}
		})
	}
}

func TestBuildTreePreservesOrder(t *testing.T) {
	result := walker.Result{Entries: []walker.Entry{
		{RelPath: "a/x.txt"},
		{RelPath: "a/y.txt"},
		{RelPath: "b.txt"},
	}}

	tree := buildTree("root", result.Entries)
	require.Len(t, tree.children, 2)
	assert.Equal(t, "a", tree.children[0].name)
	assert.True(t, tree.children[0].dir)
	assert.Equal(t, []string{"x.txt", "y.txt"}, []string{
		tree.children[0].children[0].name,
		tree.children[0].children[1].name,
	})
	assert.Equal(t, "b.txt", tree.children[1].name)
	assert.False(t, tree.children[1].dir)
}
