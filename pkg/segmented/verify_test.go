package segmented

import (
	"bytes"
	"context"
	"testing"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

func TestLookup(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	data := testData(2048)
	if err := bucket.WriteAll(ctx, "disk.img", data, nil); err != nil {
		t.Fatalf("write object: %v", err)
	}

	exp, err := Lookup(ctx, bucket, "disk.img")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if exp.ETag == "" {
		t.Fatal("expected a stored checksum")
	}
	if exp.Size != int64(len(data)) {
		t.Errorf("size = %d, want %d", exp.Size, len(data))
	}
}

func TestLookupMissing(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	_, err = Lookup(ctx, bucket, "nope")
	if err == nil {
		t.Fatal("expected error for missing object")
	}
	if !IsNotExist(err) {
		t.Errorf("IsNotExist = false for %v", err)
	}
}

func TestVerifyUnsegmented(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	data := testData(2048)
	if err := bucket.WriteAll(ctx, "disk.img", data, nil); err != nil {
		t.Fatalf("write object: %v", err)
	}

	result, err := Sum(ctx, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}

	exp, err := Lookup(ctx, bucket, "disk.img")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	v := Verify(result, exp)
	if !v.Match {
		t.Errorf("expected match, got %s vs %s", v.Got, v.Want)
	}
	if v.SizeMismatch {
		t.Error("unexpected size mismatch")
	}
}

func TestVerifyMismatch(t *testing.T) {
	result := &Result{Size: 10, Digest: "aaaa"}
	exp := &Expected{ETag: "bbbb", Size: 10}

	v := Verify(result, exp)
	if v.Match {
		t.Error("expected mismatch")
	}
	if v.Got != "aaaa" || v.Want != "bbbb" {
		t.Errorf("got/want = %s/%s", v.Got, v.Want)
	}
}

func TestVerifySegmentedUsesAggregate(t *testing.T) {
	result := &Result{
		Size:           100,
		Digest:         "wholefile",
		SegmentDigests: []string{"s0", "s1"},
		Aggregate:      "agg",
	}
	exp := &Expected{ETag: "AGG"} // stores may report uppercase

	v := Verify(result, exp)
	if !v.Match {
		t.Errorf("expected aggregate match, got %s vs %s", v.Got, v.Want)
	}
	if v.Got != "agg" {
		t.Errorf("compared %q, want the aggregate digest", v.Got)
	}
}

func TestVerifySizeMismatch(t *testing.T) {
	result := &Result{Size: 10, Digest: "aaaa"}
	exp := &Expected{ETag: "aaaa", Size: 11}

	v := Verify(result, exp)
	if v.Match {
		t.Error("expected mismatch on size")
	}
	if !v.SizeMismatch {
		t.Error("expected SizeMismatch")
	}
}

func TestNormalizeETag(t *testing.T) {
	if got := normalizeETag(`"ABC123"`); got != "abc123" {
		t.Errorf("normalizeETag = %q, want %q", got, "abc123")
	}
}
