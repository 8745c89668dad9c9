// Package config defines configuration for the swift-sum CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (SWIFT_SUM_ prefix)
//   - YAML configuration file
//
// Sizes may be given as human-readable strings in any of the unit sets
// understood by pkg/units ("1Gi", "500M", "0.5kilo"), or as bare integer
// byte counts.
package config
