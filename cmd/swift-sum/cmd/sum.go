package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sohonetlabs/swift-sum/internal/config"
	"github.com/sohonetlabs/swift-sum/internal/hasher"
	"github.com/sohonetlabs/swift-sum/internal/progress"
	"github.com/sohonetlabs/swift-sum/pkg/segmented"
	"github.com/sohonetlabs/swift-sum/pkg/units"
)

var sumFlags struct {
	segmentSize string
	readSize    string
	format      string
	verbose     bool
	showProg    bool
	workers     int
}

var sumCmd = &cobra.Command{
	Use:   "sum [flags] FILE...",
	Short: "Compute whole-file and segment checksums",
	Long: `Compute the whole-file MD5 of each FILE and, for files larger than the
segment size, the aggregate segment digest Swift would assign to the
uploaded large object.

Output is one line per digest: the whole-file digest, then for segmented
files the aggregate digest. An unreadable file is reported on stderr and
the remaining files are still processed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSum,
}

func init() {
	sumCmd.Flags().StringVarP(&sumFlags.segmentSize, "segment-size", "s", "", "segment size (e.g. 1Gi, 500M, or bytes)")
	sumCmd.Flags().StringVarP(&sumFlags.readSize, "read-size", "b", "", "read chunk size (e.g. 64K)")
	sumCmd.Flags().StringVarP(&sumFlags.format, "format", "f", "", `output format: "rows" or "tag"`)
	sumCmd.Flags().BoolVarP(&sumFlags.verbose, "verbose", "v", false, "echo resolved sizes and per-segment digests to stderr")
	sumCmd.Flags().BoolVar(&sumFlags.showProg, "progress", false, "show hashing progress on stderr")
	sumCmd.Flags().IntVar(&sumFlags.workers, "workers", 0, "number of files to hash in parallel")
	rootCmd.AddCommand(sumCmd)
}

func runSum(cmd *cobra.Command, args []string) error {
	cfg, err := sumConfig()
	if err != nil {
		return exitWith(ExitInvalidArgs, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reporter *progress.Reporter
	if cfg.Progress {
		reporter = progress.NewReporter(progress.Options{
			TotalSize:   totalSize(args),
			TotalFiles:  len(args),
			Workers:     cfg.Workers,
			SegmentSize: cfg.SegmentSize,
		})
		reporter.Start()
		defer reporter.Stop()
	}

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "swift-sum: segment size %d (%s), read size %d (%s)\n",
			cfg.SegmentSize, units.HumanSize(cfg.SegmentSize),
			cfg.ReadSize, units.HumanSize(cfg.ReadSize))
	}

	results, err := hasher.Run(ctx, args, hasher.Options{
		SegmentSize: cfg.SegmentSize,
		ReadSize:    cfg.ReadSize,
		Workers:     cfg.Workers,
		Progress:    reporter,
	})
	if err != nil {
		return err
	}
	if reporter != nil {
		reporter.Stop()
	}

	failed := false
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "swift-sum: %s: cannot read: %v\n", res.Path, res.Err)
			failed = true
			continue
		}
		if cfg.Verbose {
			printVerbose(os.Stderr, res.Result)
		}
		printResult(os.Stdout, cfg.Format, res.Result)
	}

	if failed {
		return exitWith(ExitGeneralError, nil)
	}
	return nil
}

// sumConfig resolves the effective config for the sum command: file and
// environment first, then flags.
func sumConfig() (config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, err
	}

	override := config.Config{
		Format:   sumFlags.format,
		Workers:  sumFlags.workers,
		Verbose:  sumFlags.verbose,
		Progress: sumFlags.showProg,
	}
	if sumFlags.segmentSize != "" {
		size, err := config.ResolveSize(sumFlags.segmentSize)
		if err != nil {
			return config.Config{}, fmt.Errorf("bad --segment-size: %w", err)
		}
		override.SegmentSize = size
	}
	if sumFlags.readSize != "" {
		size, err := config.ResolveSize(sumFlags.readSize)
		if err != nil {
			return config.Config{}, fmt.Errorf("bad --read-size: %w", err)
		}
		override.ReadSize = size
	}
	cfg = cfg.Merge(override)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// totalSize sums the stat sizes of the inputs for progress display.
// Unreadable files count as zero here; they fail properly during hashing.
func totalSize(paths []string) int64 {
	var total int64
	for _, path := range paths {
		if fi, err := os.Stat(path); err == nil {
			total += fi.Size()
		}
	}
	return total
}

// printResult writes the digest lines for one file: the whole-file digest,
// then the aggregate digest when the file was segmented.
func printResult(w io.Writer, format string, res *segmented.Result) {
	printDigest(w, format, res.Path, res.Digest)
	if res.Segmented() {
		printDigest(w, format, res.Path, res.Aggregate)
	}
}

func printDigest(w io.Writer, format, path, digest string) {
	switch format {
	case config.FormatTag:
		fmt.Fprintf(w, "MD5 (%s) = %s\n", path, digest)
	default:
		fmt.Fprintf(w, "%s %s\n", path, digest)
	}
}

func printVerbose(w io.Writer, res *segmented.Result) {
	fmt.Fprintf(w, "swift-sum: %s: %d bytes (%s)\n", res.Path, res.Size, units.HumanSize(res.Size))
	for i, digest := range res.SegmentDigests {
		fmt.Fprintf(w, "swift-sum: %s: segment %d = %s\n", res.Path, i, digest)
	}
}
