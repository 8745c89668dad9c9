package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sohonetlabs/swift-sum/internal/config"
)

// Exit codes
const (
	ExitSuccess            = 0
	ExitGeneralError       = 1
	ExitInvalidArgs        = 2
	ExitStorageError       = 5
	ExitVerificationFailed = 7
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "swift-sum",
	Short: "Compute OpenStack Swift large-object checksums for local files",
	Long: `swift-sum computes the checksums Swift assigns to uploaded objects.

For a file at or below the segment size that is the plain MD5 of its
content. For a larger file, uploaded as a static or dynamic large object,
Swift splits it into fixed-size segments and the manifest ETag is the MD5
of the concatenated per-segment MD5 digests in hex form. swift-sum computes
both so an upload can be verified end to end.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
}

// exitError carries an exit code through cobra's error return.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitWith(code int, err error) *exitError {
	return &exitError{code: code, err: err}
}

// loadConfig builds the effective configuration: defaults, then the config
// file if given, then environment variables. Flag overrides are applied by
// the individual commands.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		fileCfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.err != nil {
				fmt.Fprintf(os.Stderr, "swift-sum: %v\n", ee.err)
			}
			return ee.code
		}
		fmt.Fprintf(os.Stderr, "swift-sum: %v\n", err)
		return ExitGeneralError
	}
	return ExitSuccess
}
