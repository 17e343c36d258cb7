package progress

import (
	"fmt"
	"sync"
	"time"
)

// Reporter adapts a Progress instance to the archiver's progress
// events. It satisfies the archive package's Reporter interface.
type Reporter struct {
	progress Progress

	mu    sync.Mutex
	total int64
	done  int64
	start time.Time
}

// NewReporter creates a Reporter that renders archiving progress
// through p.
func NewReporter(p Progress) *Reporter {
	return &Reporter{progress: p}
}

func (r *Reporter) Begin(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total = int64(total)
	r.done = 0
	r.start = time.Now()
	r.progress.Start(fmt.Sprintf("Archiving %d files", total))
}

func (r *Reporter) Entry(relPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.done++
	r.progress.Update(Status{
		Current:        r.done,
		Total:          r.total,
		CurrentItem:    relPath,
		ItemsProcessed: r.done,
		StartTime:      r.start,
	})
}

func (r *Reporter) Complete(bytes int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress.Complete(fmt.Sprintf("Complete: wrote %s", formatSize(bytes)))
	r.progress.Stop()
}

func (r *Reporter) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress.Error(fmt.Sprintf("Error: %v", err))
	r.progress.Stop()
}
