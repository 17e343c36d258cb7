/*
Package archive writes a set of walked entries into a container file.
Three formats are supported: zip, tar.gz and 7z. Zip and tar.gz stream
entry contents straight from the filesystem; 7z pre-reads contents
through a worker pool because its container layout needs every entry's
compressed size before the header can be written.

Entry names inside every container are forward-slash relative paths, so
archives extract identically on any platform.
*/
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/sonemaro/packitor/pkg/logger"
	"github.com/sonemaro/packitor/pkg/walker"
	"github.com/sonemaro/packitor/pkg/worker"
)

// Archiver writes walk results into an archive file.
type Archiver interface {
	// Write creates target.OutputPath and writes every entry into it.
	// Entry names are computed relative to baseDir. On any failure the
	// partial output file is removed and the error returned. The
	// returned size is that of the finished archive file.
	Write(ctx context.Context, baseDir string, entries []walker.Entry, target Target) (int64, error)
}

// container is one format strategy. add is called once per entry in
// order; finish writes any trailer and flushes.
type container interface {
	add(relPath string, entry walker.Entry, content io.Reader) error
	finish() error
}

type archiver struct {
	config   Config
	fs       afero.Fs
	log      logger.Logger
	reporter Reporter
}

// New creates an Archiver. A nil reporter disables progress events.
func New(config Config, fs afero.Fs, log logger.Logger, reporter Reporter) Archiver {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	return &archiver{
		config:   config,
		fs:       fs,
		log:      log,
		reporter: reporter,
	}
}

func (a *archiver) Write(ctx context.Context, baseDir string, entries []walker.Entry, target Target) (int64, error) {
	if !target.Format.Valid() {
		return 0, fmt.Errorf("unsupported archive format %q", target.Format)
	}

	// Resolve every entry name before touching the output file, so a
	// bad entry never leaves a partial archive behind.
	rels := make([]string, len(entries))
	for i, entry := range entries {
		rel, err := relativePath(baseDir, entry.Path)
		if err != nil {
			a.reporter.Fail(err)
			return 0, err
		}
		rels[i] = rel
	}

	a.log.WithFields(logger.Fields{
		"format":  target.Format,
		"output":  target.OutputPath,
		"entries": len(entries),
	}).Info("Writing archive")

	a.reporter.Begin(len(entries))

	out, err := a.fs.Create(target.OutputPath)
	if err != nil {
		werr := &ArchiveError{Op: "create", Path: target.OutputPath, Err: err}
		a.reporter.Fail(werr)
		return 0, werr
	}

	writeErr := a.writeAll(ctx, out, baseDir, entries, rels, target)
	if closeErr := out.Close(); writeErr == nil && closeErr != nil {
		writeErr = &ArchiveError{Op: "close", Path: target.OutputPath, Err: closeErr}
	}

	if writeErr != nil {
		if rmErr := a.fs.Remove(target.OutputPath); rmErr != nil {
			a.log.WithFields(logger.Fields{
				"path":  target.OutputPath,
				"error": rmErr.Error(),
			}).Warn("Failed to remove partial archive")
		}
		a.reporter.Fail(writeErr)
		return 0, writeErr
	}

	info, err := a.fs.Stat(target.OutputPath)
	if err != nil {
		werr := &ArchiveError{Op: "stat", Path: target.OutputPath, Err: err}
		a.reporter.Fail(werr)
		return 0, werr
	}

	a.log.WithFields(logger.Fields{
		"output": target.OutputPath,
		"bytes":  info.Size(),
	}).Info("Archive complete")
	a.reporter.Complete(info.Size())

	return info.Size(), nil
}

// writeAll builds the container and copies every entry into it. The
// finish call runs on the error path too, so a failed container still
// releases whatever it buffered.
func (a *archiver) writeAll(ctx context.Context, out io.Writer, baseDir string, entries []walker.Entry, rels []string, target Target) error {
	var c container
	switch target.Format {
	case FormatZip:
		c = newZipContainer(out)
	case FormatTarGz:
		c = newTarGzContainer(out)
	case Format7z:
		c = newSevenZContainer(out)
	}

	addErr := a.addEntries(ctx, c, entries, rels, target.Format)
	finishErr := c.finish()

	if addErr != nil {
		return addErr
	}
	if finishErr != nil {
		return &ArchiveError{Op: "finalize", Path: target.OutputPath, Err: finishErr}
	}
	return nil
}

func (a *archiver) addEntries(ctx context.Context, c container, entries []walker.Entry, rels []string, format Format) error {
	// The 7z layout needs complete contents up front, so read them
	// concurrently before the sequential add loop.
	var contents [][]byte
	if format == Format7z {
		var err error
		contents, err = a.preloadContents(ctx, entries)
		if err != nil {
			return err
		}
	}

	for i, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var content io.Reader
		var closer io.Closer
		if contents != nil {
			content = bytes.NewReader(contents[i])
		} else {
			f, err := a.fs.Open(entry.Path)
			if err != nil {
				return &ArchiveError{Op: "open", Path: entry.Path, Err: err}
			}
			content = f
			closer = f
		}

		err := c.add(rels[i], entry, content)
		if closer != nil {
			if cerr := closer.Close(); err == nil && cerr != nil {
				err = cerr
			}
		}
		if err != nil {
			return &ArchiveError{Op: "write", Path: entry.Path, Err: err}
		}

		a.log.WithFields(logger.Fields{"entry": rels[i]}).Trace("Added entry")
		a.reporter.Entry(rels[i])
	}

	return nil
}

// preloadContents reads every entry's content through the worker pool,
// preserving entry order.
func (a *archiver) preloadContents(ctx context.Context, entries []walker.Entry) ([][]byte, error) {
	pool, err := worker.NewPool(worker.Config{
		Workers:   a.config.Workers,
		RateLimit: a.config.RateLimit,
	})
	if err != nil {
		return nil, err
	}

	if err := pool.Start(ctx); err != nil {
		return nil, err
	}
	defer pool.Stop()

	submitErr := make(chan error, 1)
	go func() {
		defer pool.Close()
		for i, entry := range entries {
			path := entry.Path
			err := pool.Submit(worker.Task{
				ID: i,
				Execute: func(ctx context.Context) (any, error) {
					data, err := afero.ReadFile(a.fs, path)
					if err != nil {
						return nil, err
					}
					return data, nil
				},
			})
			if err != nil {
				submitErr <- err
				return
			}
		}
		submitErr <- nil
	}()

	results, err := pool.Wait()
	if err != nil {
		return nil, &ArchiveError{Op: "read", Path: "", Err: err}
	}
	if err := <-submitErr; err != nil {
		return nil, err
	}

	contents := make([][]byte, len(entries))
	for i, r := range results {
		contents[i] = r.Data.([]byte)
	}
	return contents, nil
}

// relativePath computes the forward-slash archive name for path under
// base. Paths that escape base are rejected.
func relativePath(base, path string) (string, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", &RelativePathError{Path: path, Base: base}
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", &RelativePathError{Path: path, Base: base}
	}
	return filepath.ToSlash(rel), nil
}
