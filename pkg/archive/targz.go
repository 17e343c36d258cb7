package archive

import (
	"archive/tar"
	"compress/gzip"
	"io"

	"github.com/sonemaro/packitor/pkg/walker"
)

// tarGzContainer writes a tar stream through a single gzip compressor.
type tarGzContainer struct {
	gz *gzip.Writer
	tw *tar.Writer
}

func newTarGzContainer(out io.Writer) *tarGzContainer {
	gz := gzip.NewWriter(out)
	return &tarGzContainer{gz: gz, tw: tar.NewWriter(gz)}
}

func (c *tarGzContainer) add(relPath string, entry walker.Entry, content io.Reader) error {
	header := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     relPath,
		Size:     entry.Size,
		Mode:     int64(entry.Mode & 0o777),
		ModTime:  entry.ModTime,
	}
	if err := c.tw.WriteHeader(header); err != nil {
		return err
	}
	// tar demands exactly Size bytes; a file that changed since the
	// walk stat surfaces here as a copy error.
	_, err := io.Copy(c.tw, content)
	return err
}

func (c *tarGzContainer) finish() error {
	if err := c.tw.Close(); err != nil {
		c.gz.Close()
		return err
	}
	return c.gz.Close()
}
