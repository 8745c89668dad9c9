// Package hasher runs the segmented hash engine over many files.
//
// Files are independent of each other, so they are distributed across a
// worker pool. Segments of a single file are never split across workers:
// the whole-file digest needs one ordered byte stream, so each file is
// hashed start to end by exactly one worker.
package hasher

import (
	"context"
	"sync"

	"github.com/sohonetlabs/swift-sum/internal/progress"
	"github.com/sohonetlabs/swift-sum/pkg/segmented"
)

// Options configures a hashing run.
type Options struct {
	// SegmentSize is the segment size passed to the engine.
	SegmentSize int64

	// ReadSize is the read chunk size passed to the engine.
	ReadSize int64

	// Workers is the number of files hashed in parallel.
	Workers int

	// Progress is an optional progress reporter.
	Progress *progress.Reporter
}

// FileResult is the outcome for one input file. Exactly one of Result and
// Err is set.
type FileResult struct {
	Path   string
	Result *segmented.Result
	Err    error
}

// Run hashes all paths and returns one FileResult per path, in input order.
// A failure on one file is recorded in its FileResult and does not affect
// the others. The only error returned is the context's, when the run is
// cancelled.
func Run(ctx context.Context, paths []string, opts Options) ([]FileResult, error) {
	if opts.SegmentSize <= 0 {
		opts.SegmentSize = segmented.DefaultSegmentSize
	}
	if opts.ReadSize <= 0 {
		opts.ReadSize = segmented.DefaultReadSize
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	sumOpts := []segmented.Option{
		segmented.WithSegmentSize(opts.SegmentSize),
		segmented.WithReadSize(opts.ReadSize),
	}
	if opts.Progress != nil {
		sumOpts = append(sumOpts, segmented.WithProgressFunc(opts.Progress.AddBytes))
	}

	results := make([]FileResult, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = hashOne(ctx, paths[idx], sumOpts, opts.Progress)
			}
		}()
	}

	for idx := range paths {
		select {
		case jobs <- idx:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// hashOne hashes a single file, recording progress around the call.
func hashOne(ctx context.Context, path string, sumOpts []segmented.Option, reporter *progress.Reporter) FileResult {
	if reporter != nil {
		reporter.FileStarted()
	}

	result, err := segmented.SumFile(ctx, path, sumOpts...)
	if err != nil {
		if reporter != nil {
			reporter.FileFailed()
		}
		return FileResult{Path: path, Err: err}
	}

	if reporter != nil {
		reporter.FileCompleted()
	}
	return FileResult{Path: path, Result: result}
}
