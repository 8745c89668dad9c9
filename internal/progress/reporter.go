package progress

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sohonetlabs/swift-sum/pkg/units"
)

// Options configures the progress reporter.
type Options struct {
	// TotalSize is the total number of bytes to hash.
	TotalSize int64

	// TotalFiles is the number of files in the run.
	TotalFiles int

	// Workers is the number of parallel workers.
	Workers int

	// SegmentSize is the configured segment size (for display).
	SegmentSize int64

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 500ms
	UpdateInterval time.Duration
}

// Reporter outputs human-readable progress information.
type Reporter struct {
	opts Options

	mu             sync.Mutex
	hashedBytes    atomic.Int64
	completedFiles atomic.Int32
	inProgress     atomic.Int32
	startTime      time.Time
	lastUpdate     time.Time
	lastBytes      int64
	stopCh         chan struct{}
	stopped        bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
	}
}

// Start begins outputting progress information.
func (r *Reporter) Start() {
	r.startTime = time.Now()
	r.lastUpdate = r.startTime

	fmt.Fprintf(r.opts.Output, "[swift-sum] Hashing %d files | Total size: %s | Segment size: %s | Workers: %d\n",
		r.opts.TotalFiles,
		formatBytes(r.opts.TotalSize),
		formatBytes(r.opts.SegmentSize),
		r.opts.Workers,
	)

	go r.updateLoop()
}

// Stop stops the progress reporter.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stopCh)
}

// AddBytes records n hashed bytes.
func (r *Reporter) AddBytes(n int64) {
	r.hashedBytes.Add(n)
}

// FileStarted marks a file as in progress.
func (r *Reporter) FileStarted() {
	r.inProgress.Add(1)
}

// FileCompleted marks a file as done.
func (r *Reporter) FileCompleted() {
	r.completedFiles.Add(1)
	r.inProgress.Add(-1)
}

// FileFailed marks a file as failed (removes from in-progress).
func (r *Reporter) FileFailed() {
	r.inProgress.Add(-1)
}

// HashedBytes returns the number of bytes hashed so far.
func (r *Reporter) HashedBytes() int64 {
	return r.hashedBytes.Load()
}

// updateLoop periodically updates the progress display.
func (r *Reporter) updateLoop() {
	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

// printProgress outputs the current progress.
func (r *Reporter) printProgress() {
	now := time.Now()
	hashed := r.hashedBytes.Load()
	completed := int(r.completedFiles.Load())
	inProgress := int(r.inProgress.Load())

	elapsed := now.Sub(r.lastUpdate).Seconds()
	if elapsed < 0.1 {
		elapsed = 0.1
	}
	speed := float64(hashed-r.lastBytes) / elapsed

	r.lastUpdate = now
	r.lastBytes = hashed

	var percent float64
	var eta string
	if r.opts.TotalSize > 0 {
		percent = float64(hashed) / float64(r.opts.TotalSize) * 100
		if speed > 0 {
			remaining := float64(r.opts.TotalSize - hashed)
			eta = formatDuration(time.Duration(remaining / speed * float64(time.Second)))
		} else {
			eta = "calculating..."
		}
	}

	pending := r.opts.TotalFiles - completed - inProgress
	if pending < 0 {
		pending = 0
	}

	fmt.Fprintf(r.opts.Output, "\r[swift-sum] Progress: %.1f%% | %s / %s | Speed: %s/s | ETA: %s    ",
		percent,
		formatBytes(hashed),
		formatBytes(r.opts.TotalSize),
		formatBytes(int64(speed)),
		eta,
	)
	fmt.Fprintf(r.opts.Output, "\n[swift-sum] Files: %d done | %d in progress | %d pending    \033[A",
		completed,
		inProgress,
		pending,
	)
}

// printFinalStatus outputs the final status.
func (r *Reporter) printFinalStatus() {
	hashed := r.hashedBytes.Load()
	completed := int(r.completedFiles.Load())
	duration := time.Since(r.startTime)
	avgSpeed := float64(hashed) / duration.Seconds()

	fmt.Fprintf(r.opts.Output, "\r[swift-sum] Hashed %s in %d files    \n",
		formatBytes(hashed),
		completed,
	)
	fmt.Fprintf(r.opts.Output, "[swift-sum] Total time: %s | Average speed: %s/s\n",
		formatDuration(duration),
		formatBytes(int64(avgSpeed)),
	)
}

// formatBytes renders a byte count for display. Sizes here are never
// negative, so formatting cannot fail.
func formatBytes(n int64) string {
	s, err := units.Format(n, units.IEC)
	if err != nil {
		return strconv.FormatInt(n, 10) + "B"
	}
	return s
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
