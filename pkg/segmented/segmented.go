package segmented

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// Defaults match Swift's common configuration: 1GiB segments, read in
// 64KiB chunks.
const (
	DefaultSegmentSize = 1 << 30
	DefaultReadSize    = 64 << 10
)

// IOError reports an I/O failure while opening, seeking or reading a file.
// No partial digests are returned alongside it.
type IOError struct {
	Path   string // empty when summing a plain reader
	Offset int64
	Op     string // "open", "stat", "seek" or "read"
	Err    error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("segmented: %s at offset %d: %v", e.Op, e.Offset, e.Err)
	}
	return fmt.Sprintf("segmented: %s %s at offset %d: %v", e.Op, e.Path, e.Offset, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Options configures a sum operation.
type Options struct {
	// SegmentSize is the size of each segment. Files at or below this size
	// are not segmented.
	SegmentSize int64

	// ReadSize bounds each sequential read. It is independent of the
	// segment size; a segment may take many reads.
	ReadSize int64

	// ProgressFunc, if set, is called with the byte count of every chunk
	// read. Used for progress reporting; must be fast.
	ProgressFunc func(n int64)
}

// Option is a functional option for configuring a sum operation.
type Option func(*Options)

// WithSegmentSize sets the segment size.
func WithSegmentSize(size int64) Option {
	return func(o *Options) {
		o.SegmentSize = size
	}
}

// WithReadSize sets the maximum size of each sequential read.
func WithReadSize(size int64) Option {
	return func(o *Options) {
		o.ReadSize = size
	}
}

// WithProgressFunc sets a callback invoked with the size of every chunk read.
func WithProgressFunc(fn func(n int64)) Option {
	return func(o *Options) {
		o.ProgressFunc = fn
	}
}

// Segment is a half-open byte range [Start, End) of a file.
type Segment struct {
	Index int
	Start int64
	End   int64
}

// Length returns End - Start.
func (s Segment) Length() int64 {
	return s.End - s.Start
}

// Plan partitions [0, size) into ceil(size/segmentSize) contiguous segments.
// All segments have length segmentSize except possibly the last, which is
// clamped to the file size. Returns nil for size 0. Panics if segmentSize
// is not positive.
func Plan(size, segmentSize int64) []Segment {
	if segmentSize <= 0 {
		panic("segmented: segment size must be positive")
	}
	count := (size + segmentSize - 1) / segmentSize
	if count == 0 {
		return nil
	}
	segments := make([]Segment, 0, count)
	for i := int64(0); i < count; i++ {
		start := i * segmentSize
		end := start + segmentSize
		if end > size {
			end = size
		}
		segments = append(segments, Segment{Index: int(i), Start: start, End: end})
	}
	return segments
}

// Result holds the digests computed for one file. It is immutable once
// returned; a fresh Result is produced per call.
type Result struct {
	Path string
	Size int64

	// Digest is the MD5 of the whole file content, as lowercase hex.
	Digest string

	// SegmentDigests are the per-segment MD5 digests in segment order.
	// Empty when the file was not segmented.
	SegmentDigests []string

	// Aggregate is the MD5 of the concatenated SegmentDigests hex strings,
	// matching the Swift SLO/DLO manifest ETag. Empty when the file was
	// not segmented.
	Aggregate string
}

// Segmented reports whether the file exceeded the segment size.
func (r *Result) Segmented() bool {
	return len(r.SegmentDigests) > 0
}

// SumFile opens path and computes its digests. The file size is taken from
// the filesystem.
func SumFile(ctx context.Context, path string, options ...Option) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, &IOError{Path: path, Op: "stat", Err: err}
	}

	return sum(ctx, f, fi.Size(), path, options)
}

// Sum computes the digests of size bytes read from r. The reader must
// support seeking; reading starts at offset 0.
func Sum(ctx context.Context, r io.ReadSeeker, size int64, options ...Option) (*Result, error) {
	return sum(ctx, r, size, "", options)
}

func sum(ctx context.Context, r io.ReadSeeker, size int64, path string, options []Option) (*Result, error) {
	opts := Options{
		SegmentSize: DefaultSegmentSize,
		ReadSize:    DefaultReadSize,
	}
	for _, opt := range options {
		opt(&opts)
	}

	if size < 0 {
		return nil, errors.New("segmented: size must be non-negative")
	}
	if opts.SegmentSize <= 0 {
		return nil, errors.New("segmented: segment size must be positive")
	}
	if opts.ReadSize <= 0 {
		return nil, errors.New("segmented: read size must be positive")
	}

	result := &Result{Path: path, Size: size}
	buf := make([]byte, opts.ReadSize)
	whole := md5.New()

	// A file that fits in one segment is uploaded as a plain object; only
	// the whole-file digest applies. Note the boundary is strict: a file of
	// exactly the segment size is not segmented.
	if size <= opts.SegmentSize {
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, &IOError{Path: path, Op: "seek", Err: err}
		}
		var offset int64
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			n, err := r.Read(buf)
			if n > 0 {
				whole.Write(buf[:n])
				offset += int64(n)
				if opts.ProgressFunc != nil {
					opts.ProgressFunc(int64(n))
				}
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, &IOError{Path: path, Offset: offset, Op: "read", Err: err}
			}
		}
		result.Digest = hex.EncodeToString(whole.Sum(nil))
		return result, nil
	}

	segments := Plan(size, opts.SegmentSize)
	aggregate := md5.New()
	result.SegmentDigests = make([]string, 0, len(segments))

	for _, seg := range segments {
		if _, err := r.Seek(seg.Start, io.SeekStart); err != nil {
			return nil, &IOError{Path: path, Offset: seg.Start, Op: "seek", Err: err}
		}

		segHash := md5.New()
		offset := seg.Start
		for offset < seg.End {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			n := opts.ReadSize
			if remaining := seg.End - offset; remaining < n {
				n = remaining
			}
			if _, err := io.ReadFull(r, buf[:n]); err != nil {
				return nil, &IOError{Path: path, Offset: offset, Op: "read", Err: err}
			}
			segHash.Write(buf[:n])
			whole.Write(buf[:n])
			offset += n
			if opts.ProgressFunc != nil {
				opts.ProgressFunc(n)
			}
		}

		// The aggregate hashes the textual hex digest of each segment,
		// not the raw digest bytes: that is how Swift derives a manifest
		// ETag, and it must be reproduced exactly.
		digest := hex.EncodeToString(segHash.Sum(nil))
		result.SegmentDigests = append(result.SegmentDigests, digest)
		io.WriteString(aggregate, digest)
	}

	result.Digest = hex.EncodeToString(whole.Sum(nil))
	result.Aggregate = hex.EncodeToString(aggregate.Sum(nil))
	return result, nil
}
