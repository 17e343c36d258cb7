package walker

import "fmt"

// WalkError reports an unreadable directory. Root is true when the walk
// root itself could not be read, which aborts the walk; otherwise the
// subtree is skipped and the error is collected for final reporting.
type WalkError struct {
	Path string
	Err  error
	Root bool
}

func (e *WalkError) Error() string {
	if e.Root {
		return fmt.Sprintf("cannot read walk root %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot read directory %s: %v", e.Path, e.Err)
}

func (e *WalkError) Unwrap() error {
	return e.Err
}
