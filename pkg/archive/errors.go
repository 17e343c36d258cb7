package archive

import "fmt"

// RelativePathError reports an entry whose path does not sit under the
// declared base directory. It always aborts the run: a bad relative
// path means the caller fed the writer something the walker never
// produced, and silently skipping the file would hide the bug.
type RelativePathError struct {
	Path string
	Base string
}

func (e *RelativePathError) Error() string {
	return fmt.Sprintf("entry %s is outside base directory %s", e.Path, e.Base)
}

// ArchiveError reports an I/O failure while writing the container. The
// run is aborted and the partial output file is removed.
type ArchiveError struct {
	Op   string
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}
