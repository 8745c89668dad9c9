// Package progress provides progress reporting for hashing runs.
//
// This package outputs human-readable progress information to stderr,
// including completion percentage, hashing speed, and ETA.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{
//	    TotalSize:  totalBytes,
//	    TotalFiles: len(paths),
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	// Update as data is hashed
//	reporter.AddBytes(n)
//	reporter.FileCompleted()
//
// # Output Format
//
//	[swift-sum] Hashing 3 files | Total size: 7.5Gi | Segment size: 1.0Gi | Workers: 4
//	[swift-sum] Progress: 45.2% | 3.4Gi / 7.5Gi | Speed: 612.0Mi/s | ETA: 7s
//	[swift-sum] Files: 1 done | 2 in progress | 0 pending
package progress
