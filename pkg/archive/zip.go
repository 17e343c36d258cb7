package archive

import (
	"archive/zip"
	"io"
	"os"

	"github.com/sonemaro/packitor/pkg/walker"
)

// zipContainer writes deflated zip members as entries arrive.
type zipContainer struct {
	zw *zip.Writer
}

func newZipContainer(out io.Writer) *zipContainer {
	return &zipContainer{zw: zip.NewWriter(out)}
}

func (c *zipContainer) add(relPath string, entry walker.Entry, content io.Reader) error {
	header := &zip.FileHeader{
		Name:     relPath,
		Method:   zip.Deflate,
		Modified: entry.ModTime,
	}
	header.SetMode(os.FileMode(entry.Mode))

	w, err := c.zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, content)
	return err
}

func (c *zipContainer) finish() error {
	return c.zw.Close()
}
