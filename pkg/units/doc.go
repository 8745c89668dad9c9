// Package units converts between human-readable size strings and byte counts.
//
// All multipliers are base-1024, matching the conventions of object storage
// tooling: "1K", "1kilo", "1Ki" and "1kibi" all mean 1024 bytes. Four symbol
// sets are supported, selected by [Set]:
//   - [Customary]: B, K, M, G, T, P, E, Z, Y
//   - [CustomaryLong]: byte, kilo, mega, giga, ...
//   - [IEC]: Bi, Ki, Mi, Gi, ...
//   - [IECLong]: byte, kibi, mebi, gibi, ...
//
// [Parse] accepts any of the four sets plus a bare number (a raw byte count)
// and the legacy lowercase "k" alias for "K". [Format] renders a byte count
// using the largest unit of the chosen set that fits.
package units
