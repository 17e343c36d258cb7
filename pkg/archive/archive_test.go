package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/bodgit/sevenzip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonemaro/packitor/pkg/logger"
	"github.com/sonemaro/packitor/pkg/walker"
)

// mockLogger implements logger.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string)                          {}
func (m *mockLogger) Info(msg string)                           {}
func (m *mockLogger) Warn(msg string)                           {}
func (m *mockLogger) Error(msg string)                          {}
func (m *mockLogger) Trace(msg string)                          {}
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }

var testFiles = map[string]string{
	"/project/main.go":     "package main\n\nfunc main() {}\n",
	"/project/README.md":   "# project\n",
	"/project/empty.txt":   "",
	"/project/src/util.go": "package src\n",
}

func setupArchiveFS(t *testing.T) (afero.Fs, []walker.Entry) {
	t.Helper()

	fs := afero.NewMemMapFs()
	modTime := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	paths := make([]string, 0, len(testFiles))
	for path := range testFiles {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	entries := make([]walker.Entry, 0, len(paths))
	for _, path := range paths {
		require.NoError(t, afero.WriteFile(fs, path, []byte(testFiles[path]), 0o644))
		require.NoError(t, fs.Chtimes(path, modTime, modTime))

		info, err := fs.Stat(path)
		require.NoError(t, err)

		entries = append(entries, walker.Entry{
			Path:    path,
			Size:    info.Size(),
			Mode:    0o644,
			ModTime: modTime,
		})
	}

	return fs, entries
}

func writeArchive(t *testing.T, fs afero.Fs, entries []walker.Entry, format Format) []byte {
	t.Helper()

	target := Target{Format: format, OutputPath: "/out/archive." + format.Ext()}
	arch := New(Config{Workers: 2}, fs, &mockLogger{}, nil)

	size, err := arch.Write(context.Background(), "/project", entries, target)
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, target.OutputPath)
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), size)

	return data
}

func TestWriteZipRoundTrip(t *testing.T) {
	fs, entries := setupArchiveFS(t)
	data := writeArchive(t, fs, entries, FormatZip)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, len(entries))

	got := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		got[f.Name] = string(content)
	}

	assert.Equal(t, map[string]string{
		"README.md":   "# project\n",
		"empty.txt":   "",
		"main.go":     "package main\n\nfunc main() {}\n",
		"src/util.go": "package src\n",
	}, got)
}

func TestWriteTarGzRoundTrip(t *testing.T) {
	fs, entries := setupArchiveFS(t)
	data := writeArchive(t, fs, entries, FormatTarGz)

	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)

	got := make(map[string]string)
	var names []string
	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.Equal(t, byte(tar.TypeReg), header.Typeflag)

		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		got[header.Name] = string(content)
		names = append(names, header.Name)
	}

	assert.True(t, sort.StringsAreSorted(names), "entries not in walk order: %v", names)
	assert.Equal(t, map[string]string{
		"README.md":   "# project\n",
		"empty.txt":   "",
		"main.go":     "package main\n\nfunc main() {}\n",
		"src/util.go": "package src\n",
	}, got)
}

func TestWrite7zRoundTrip(t *testing.T) {
	fs, entries := setupArchiveFS(t)
	data := writeArchive(t, fs, entries, Format7z)

	zr, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, len(entries))

	got := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		got[f.Name] = string(content)
	}

	assert.Equal(t, map[string]string{
		"README.md":   "# project\n",
		"empty.txt":   "",
		"main.go":     "package main\n\nfunc main() {}\n",
		"src/util.go": "package src\n",
	}, got)
}

func TestWriteEmptySelection(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		validate func(*testing.T, []byte)
	}{
		{
			name:   "zip",
			format: FormatZip,
			validate: func(t *testing.T, data []byte) {
				zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
				require.NoError(t, err)
				assert.Empty(t, zr.File)
			},
		},
		{
			name:   "tar.gz",
			format: FormatTarGz,
			validate: func(t *testing.T, data []byte) {
				gz, err := gzip.NewReader(bytes.NewReader(data))
				require.NoError(t, err)
				_, err = tar.NewReader(gz).Next()
				assert.Equal(t, io.EOF, err)
			},
		},
		{
			name:   "7z",
			format: Format7z,
			validate: func(t *testing.T, data []byte) {
				// A 7z archive with no entries is just the 32-byte
				// signature header with a zero-length next header.
				require.Len(t, data, 32)
				assert.Equal(t, []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}, data[:6])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			data := writeArchive(t, fs, nil, tt.format)
			require.NotEmpty(t, data)
			tt.validate(t, data)
		})
	}
}

func TestWriteRejectsEscapingPath(t *testing.T) {
	fs, _ := setupArchiveFS(t)
	require.NoError(t, afero.WriteFile(fs, "/outside.txt", []byte("x"), 0o644))

	entries := []walker.Entry{{Path: "/outside.txt", Size: 1, Mode: 0o644}}
	arch := New(Config{Workers: 1}, fs, &mockLogger{}, nil)

	_, err := arch.Write(context.Background(), "/project", entries, Target{
		Format:     FormatZip,
		OutputPath: "/out/archive.zip",
	})
	require.Error(t, err)

	var relErr *RelativePathError
	require.ErrorAs(t, err, &relErr)
	assert.Equal(t, "/outside.txt", relErr.Path)

	// Validation happens before the output file is created.
	exists, statErr := afero.Exists(fs, "/out/archive.zip")
	require.NoError(t, statErr)
	assert.False(t, exists)
}

func TestWriteRemovesPartialOutputOnFailure(t *testing.T) {
	fs, entries := setupArchiveFS(t)

	// An entry whose file vanished after the walk fails mid-write.
	entries = append(entries, walker.Entry{
		Path: "/project/missing.go",
		Size: 10,
		Mode: 0o644,
	})

	arch := New(Config{Workers: 1}, fs, &mockLogger{}, nil)
	_, err := arch.Write(context.Background(), "/project", entries, Target{
		Format:     FormatZip,
		OutputPath: "/out/archive.zip",
	})
	require.Error(t, err)

	exists, statErr := afero.Exists(fs, "/out/archive.zip")
	require.NoError(t, statErr)
	assert.False(t, exists, "partial archive left behind")
}

func TestWriteUnsupportedFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	arch := New(Config{Workers: 1}, fs, &mockLogger{}, nil)

	_, err := arch.Write(context.Background(), "/project", nil, Target{
		Format:     Format("rar"),
		OutputPath: "/out/archive.rar",
	})
	assert.Error(t, err)
}

func TestWriteReportsProgress(t *testing.T) {
	fs, entries := setupArchiveFS(t)

	rep := &recordingReporter{}
	arch := New(Config{Workers: 2}, fs, &mockLogger{}, rep)

	size, err := arch.Write(context.Background(), "/project", entries, Target{
		Format:     FormatTarGz,
		OutputPath: "/out/archive.tar.gz",
	})
	require.NoError(t, err)

	assert.Equal(t, len(entries), rep.total)
	assert.Equal(t, []string{"README.md", "empty.txt", "main.go", "src/util.go"}, rep.entries)
	assert.Equal(t, size, rep.completed)
	assert.NoError(t, rep.failed)
}

type recordingReporter struct {
	total     int
	entries   []string
	completed int64
	failed    error
}

func (r *recordingReporter) Begin(total int)      { r.total = total }
func (r *recordingReporter) Entry(relPath string) { r.entries = append(r.entries, relPath) }
func (r *recordingReporter) Complete(bytes int64) { r.completed = bytes }
func (r *recordingReporter) Fail(err error)       { r.failed = err }

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, []Format{FormatZip, FormatTarGz, Format7z}, Formats())

	assert.True(t, FormatZip.Valid())
	assert.True(t, FormatTarGz.Valid())
	assert.True(t, Format7z.Valid())
	assert.False(t, Format("rar").Valid())

	assert.Equal(t, "zip", FormatZip.Ext())
	assert.Equal(t, "tar.gz", FormatTarGz.Ext())
	assert.Equal(t, "7z", Format7z.Ext())
}
