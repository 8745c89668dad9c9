package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/sohonetlabs/swift-sum/internal/config"
	"github.com/sohonetlabs/swift-sum/pkg/segmented"
)

var verifyFlags struct {
	bucket      string
	object      string
	segmentSize string
	readSize    string
}

var verifyCmd = &cobra.Command{
	Use:   "verify --bucket URL --object KEY FILE",
	Short: "Verify a local file against the checksum stored for an uploaded object",
	Long: `Compute the checksums of FILE and compare them against the checksum the
object store holds for the given object. For a segmented file the aggregate
segment digest is compared, since that is the ETag assigned to a multi-part
object; otherwise the whole-file digest is compared.

The bucket URL uses gocloud.dev syntax, e.g. s3://bucket or gs://bucket.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyFlags.bucket, "bucket", "", "bucket URL (required)")
	verifyCmd.Flags().StringVar(&verifyFlags.object, "object", "", "object key (required)")
	verifyCmd.Flags().StringVarP(&verifyFlags.segmentSize, "segment-size", "s", "", "segment size used for the upload")
	verifyCmd.Flags().StringVarP(&verifyFlags.readSize, "read-size", "b", "", "read chunk size")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	if verifyFlags.bucket == "" || verifyFlags.object == "" {
		return exitWith(ExitInvalidArgs, fmt.Errorf("--bucket and --object are required"))
	}

	cfg, err := loadConfig()
	if err != nil {
		return exitWith(ExitInvalidArgs, err)
	}
	if verifyFlags.segmentSize != "" {
		size, err := config.ResolveSize(verifyFlags.segmentSize)
		if err != nil {
			return exitWith(ExitInvalidArgs, fmt.Errorf("bad --segment-size: %w", err))
		}
		cfg.SegmentSize = size
	}
	if verifyFlags.readSize != "" {
		size, err := config.ResolveSize(verifyFlags.readSize)
		if err != nil {
			return exitWith(ExitInvalidArgs, fmt.Errorf("bad --read-size: %w", err))
		}
		cfg.ReadSize = size
	}
	if err := cfg.Validate(); err != nil {
		return exitWith(ExitInvalidArgs, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := args[0]
	result, err := segmented.SumFile(ctx, path,
		segmented.WithSegmentSize(cfg.SegmentSize),
		segmented.WithReadSize(cfg.ReadSize),
	)
	if err != nil {
		return err
	}

	bucket, err := blob.OpenBucket(ctx, verifyFlags.bucket)
	if err != nil {
		return exitWith(ExitStorageError, fmt.Errorf("open bucket: %w", err))
	}
	defer bucket.Close()

	exp, err := segmented.Lookup(ctx, bucket, verifyFlags.object)
	if err != nil {
		if segmented.IsNotExist(err) {
			return exitWith(ExitStorageError, fmt.Errorf("object %s not found", verifyFlags.object))
		}
		return exitWith(ExitStorageError, err)
	}

	v := segmented.Verify(result, exp)
	if v.Match {
		fmt.Printf("%s: OK (%s)\n", path, v.Got)
		return nil
	}

	fmt.Printf("%s: MISMATCH\n", path)
	fmt.Printf("  computed: %s\n", v.Got)
	fmt.Printf("  stored:   %s\n", v.Want)
	if v.SizeMismatch {
		fmt.Printf("  size: local %d, stored %d\n", v.GotSize, v.WantSize)
	}
	return exitWith(ExitVerificationFailed, nil)
}
