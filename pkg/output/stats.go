package output

import "github.com/sonemaro/packitor/pkg/walker"

// stats holds statistics about the walk behind a listing
type stats struct {
	Files     int64 `json:"filesSelected" yaml:"filesSelected"`
	Ignored   int64 `json:"filesIgnored" yaml:"filesIgnored"`
	Pruned    int64 `json:"directoriesPruned" yaml:"directoriesPruned"`
	TotalSize int64 `json:"totalSize" yaml:"totalSize"`
}

func newStats(s walker.Stats) *stats {
	return &stats{
		Files:     s.FilesFound,
		Ignored:   s.FilesSkipped,
		Pruned:    s.DirsPruned,
		TotalSize: s.TotalSize,
	}
}
