/*
Package walker provides the pruned depth-first traversal that selects the
files to archive. Directories excluded by the ignore rules are never
descended into: pruning bounds the work by the size of the surviving
tree, and it is also required for correctness, since filtering a full
listing after the fact would let negations reach inside excluded
directories.

Basic usage:

	w := walker.New(walker.Config{MaxDepth: -1}, fs, matcher, log)
	result, err := w.Walk(ctx, "/path/to/project")
*/
package walker

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/sonemaro/packitor/pkg/ignore"
	"github.com/sonemaro/packitor/pkg/logger"
)

// Walker selects the file set to archive under a root directory.
type Walker interface {
	// Walk traverses root depth-first and returns the files that
	// survive the ignore rules, in deterministic order.
	Walk(ctx context.Context, root string) (Result, error)
}

type walker struct {
	config  Config
	fs      afero.Fs
	matcher *ignore.Matcher
	log     logger.Logger
}

// New creates a Walker over the given filesystem and rule matcher.
func New(config Config, fs afero.Fs, matcher *ignore.Matcher, log logger.Logger) Walker {
	return &walker{
		config:  config,
		fs:      fs,
		matcher: matcher,
		log:     log,
	}
}

func (w *walker) Walk(ctx context.Context, root string) (Result, error) {
	start := time.Now()

	result := Result{
		Errors: make(map[string]error),
		Stats:  Stats{StartTime: start},
	}

	info, err := w.fs.Stat(root)
	if err != nil {
		w.log.WithFields(logger.Fields{
			"error": err,
			"path":  root,
		}).Error("Failed to stat walk root")
		return result, &WalkError{Path: root, Err: err, Root: true}
	}
	if !info.IsDir() {
		return result, &WalkError{Path: root, Err: fmt.Errorf("not a directory"), Root: true}
	}

	w.log.WithFields(logger.Fields{
		"path":     root,
		"maxDepth": w.config.MaxDepth,
	}).Info("Starting walk")

	if err := w.walkDir(ctx, root, "", 0, &result); err != nil {
		return result, err
	}

	result.Stats.Duration = time.Since(start)

	w.log.WithFields(logger.Fields{
		"files":    result.Stats.FilesFound,
		"dirs":     result.Stats.DirsVisited,
		"pruned":   result.Stats.DirsPruned,
		"skipped":  result.Stats.FilesSkipped,
		"size":     result.Stats.TotalSize,
		"errors":   len(result.Errors),
		"duration": result.Stats.Duration,
	}).Info("Walk completed")

	return result, nil
}

// walkDir recursively visits one directory. rel is the slash-separated
// path of dir relative to the walk root, empty for the root itself.
func (w *walker) walkDir(ctx context.Context, dir, rel string, depth int, result *Result) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result.Stats.DirsVisited++

	if w.config.MaxDepth >= 0 && depth > w.config.MaxDepth {
		w.log.WithFields(logger.Fields{
			"path":  dir,
			"depth": depth,
		}).Debug("Max depth reached")
		return nil
	}

	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		if rel == "" {
			w.log.WithFields(logger.Fields{
				"error": err,
				"path":  dir,
			}).Error("Failed to read walk root")
			return &WalkError{Path: dir, Err: err, Root: true}
		}

		w.log.WithFields(logger.Fields{
			"error": err,
			"path":  dir,
		}).Warn("Failed to read directory, skipping subtree")
		result.Errors[dir] = &WalkError{Path: dir, Err: err}
		return nil
	}

	// Lexicographic child order keeps archive contents reproducible
	// across runs and platforms.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())
		entryRel := entry.Name()
		if rel != "" {
			entryRel = rel + "/" + entry.Name()
		}

		ignored := w.matcher.Match(entryRel, entry.IsDir())

		if entry.IsDir() {
			if ignored {
				result.Stats.DirsPruned++
				w.log.WithFields(logger.Fields{
					"path": entryRel,
				}).Debug("Pruning ignored directory")
				continue
			}

			if err := w.walkDir(ctx, entryPath, entryRel, depth+1, result); err != nil {
				return err
			}
			continue
		}

		if ignored {
			result.Stats.FilesSkipped++
			w.log.WithFields(logger.Fields{
				"path": entryRel,
			}).Debug("Skipping ignored file")
			continue
		}

		result.Entries = append(result.Entries, Entry{
			Path:    entryPath,
			RelPath: entryRel,
			Size:    entry.Size(),
			Mode:    uint32(entry.Mode()),
			ModTime: entry.ModTime(),
		})
		result.Stats.FilesFound++
		result.Stats.TotalSize += entry.Size()
	}

	return nil
}
