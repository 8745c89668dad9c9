// Package segmented computes Swift-style large-object checksums.
//
// OpenStack Swift uploads a large object as fixed-size segments and assigns
// the composite object an ETag computed over its parts: each segment gets its
// own MD5 digest, and the manifest ETag is the MD5 of the concatenated
// per-segment digests in their hexadecimal text form. This package reproduces
// that scheme for local files so an upload can be verified end to end.
//
// # Summing
//
// Use [SumFile] (or [Sum] with an io.ReadSeeker) to hash a file:
//
//	result, err := segmented.SumFile(ctx, "disk.img",
//	    segmented.WithSegmentSize(1<<30),
//	)
//
// The returned [Result] always carries the whole-file digest. When the file
// is larger than the segment size it also carries the ordered per-segment
// digests and the aggregate digest. A file whose size is less than or equal
// to the segment size is not segmented at all; Swift uploads such a file as
// a plain object, so only the whole-file digest is meaningful.
//
// The whole file is read exactly once: every chunk feeds both the current
// segment's accumulator and the whole-file accumulator. Memory use is
// bounded by the read size (see [WithReadSize]) regardless of segment or
// file size.
//
// MD5 is a compatibility requirement of the Swift ETag scheme, not an
// integrity guarantee; nothing here is cryptographically meaningful.
//
// # Verification
//
// [Lookup] reads the stored checksum of an uploaded object from any
// gocloud.dev/blob bucket, and [Verify] compares it against a computed
// [Result].
package segmented
