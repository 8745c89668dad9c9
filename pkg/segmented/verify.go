package segmented

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// Expected is the checksum the object store holds for an uploaded object.
type Expected struct {
	Key  string
	ETag string // lowercase hex, quotes stripped
	Size int64  // 0 when the store did not report a size
}

// VerifyResult compares a locally computed Result against a stored checksum.
// A mismatch is reported here, never as an error.
type VerifyResult struct {
	Match        bool
	Got          string // local digest used for comparison
	Want         string // stored ETag
	SizeMismatch bool
	GotSize      int64
	WantSize     int64
}

// Lookup reads the stored checksum of key from the bucket without
// downloading its content. The raw MD5 attribute is preferred when the store
// exposes one; otherwise the ETag is used with its quoting stripped.
func Lookup(ctx context.Context, bucket *blob.Bucket, key string) (*Expected, error) {
	attrs, err := bucket.Attributes(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("segmented: attributes of %s: %w", key, err)
	}

	etag := normalizeETag(attrs.ETag)
	if len(attrs.MD5) > 0 {
		etag = hex.EncodeToString(attrs.MD5)
	}

	return &Expected{Key: key, ETag: etag, Size: attrs.Size}, nil
}

// IsNotExist reports whether err from Lookup means the object is missing.
func IsNotExist(err error) bool {
	return gcerrors.Code(err) == gcerrors.NotFound
}

// Verify compares a computed Result with the stored checksum. For a
// segmented file the aggregate digest is compared, since that is the ETag
// Swift assigns to a multi-part object; otherwise the whole-file digest is
// compared. Sizes are compared when the store reported one.
func Verify(result *Result, exp *Expected) *VerifyResult {
	got := result.Digest
	if result.Segmented() {
		got = result.Aggregate
	}

	v := &VerifyResult{
		Got:      got,
		Want:     exp.ETag,
		GotSize:  result.Size,
		WantSize: exp.Size,
	}
	v.Match = exp.ETag != "" && strings.EqualFold(got, exp.ETag)
	if exp.Size > 0 && exp.Size != result.Size {
		v.SizeMismatch = true
		v.Match = false
	}
	return v
}

// normalizeETag strips the quoting some stores wrap around ETags and
// lowercases the result.
func normalizeETag(etag string) string {
	etag = strings.Trim(etag, `"`)
	return strings.ToLower(etag)
}
