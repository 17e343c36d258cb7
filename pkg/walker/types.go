package walker

import "time"

// Entry is one file discovered by the walk and selected for archiving.
// Directories are visited for pruning but never emitted.
type Entry struct {
	// Path is the path as discovered under the walk root.
	Path string

	// RelPath is the slash-separated path relative to the walk root.
	RelPath string

	Size    int64
	Mode    uint32
	ModTime time.Time
}

// Result contains the selected file set and any non-fatal errors
// encountered while walking.
type Result struct {
	// Entries holds the surviving files in deterministic pre-order
	// (children visited in lexicographic order).
	Entries []Entry

	// Errors maps unreadable subdirectories to their read errors. The
	// walk continues past them; a read error on the root is fatal and
	// returned from Walk instead.
	Errors map[string]error

	Stats Stats
}

// Stats describes one walk.
type Stats struct {
	StartTime    time.Time
	Duration     time.Duration
	FilesFound   int64
	DirsVisited  int64
	DirsPruned   int64
	FilesSkipped int64
	TotalSize    int64
}

// Config contains walker configuration options.
type Config struct {
	// MaxDepth bounds recursion depth, -1 for unlimited. It doubles as
	// the guard against symlink cycles on filesystems that expose them.
	MaxDepth int
}
