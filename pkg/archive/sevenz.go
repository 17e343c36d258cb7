package archive

import (
	"io"

	"github.com/sonemaro/packitor/pkg/archive/sevenz"
	"github.com/sonemaro/packitor/pkg/walker"
)

// sevenZContainer adapts the 7z writer to the container interface. The
// archiver always feeds it pre-read in-memory contents, so the ReadAll
// below never touches the filesystem.
type sevenZContainer struct {
	w *sevenz.Writer
}

func newSevenZContainer(out io.Writer) *sevenZContainer {
	return &sevenZContainer{w: sevenz.NewWriter(out)}
}

func (c *sevenZContainer) add(relPath string, entry walker.Entry, content io.Reader) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	return c.w.Add(relPath, entry.ModTime, data)
}

func (c *sevenZContainer) finish() error {
	return c.w.Close()
}
