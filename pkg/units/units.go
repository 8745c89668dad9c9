package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Set selects one of the four supported symbol tables.
type Set int

const (
	// Customary is the single-letter table: B, K, M, G, T, P, E, Z, Y.
	Customary Set = iota
	// CustomaryLong is the long-form table: byte, kilo, mega, ...
	CustomaryLong
	// IEC is the short IEC table: Bi, Ki, Mi, Gi, ...
	IEC
	// IECLong is the long-form IEC table: byte, kibi, mebi, ...
	IECLong
)

// Symbol tables in matching order. The Nth entry (N >= 1) maps to the
// multiplier 2^(10*N); the 0th entry maps to 1. The tables are fixed ordered
// slices so unit matching is deterministic even where labels overlap.
var tables = [...][]string{
	Customary:     {"B", "K", "M", "G", "T", "P", "E", "Z", "Y"},
	CustomaryLong: {"byte", "kilo", "mega", "giga", "tera", "peta", "exa", "zetta", "yotta"},
	IEC:           {"Bi", "Ki", "Mi", "Gi", "Ti", "Pi", "Ei", "Zi", "Yi"},
	IECLong:       {"byte", "kibi", "mebi", "gibi", "tebi", "pebi", "exbi", "zebi", "yobi"},
}

// DefaultTemplate renders the scaled value to one decimal place followed by
// the unit symbol, e.g. "1.5Ki".
const DefaultTemplate = "%.1f%s"

// ParseError is returned by Parse when the input has no numeric prefix or
// its unit label matches no known symbol.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("units: cannot parse %q: %s", e.Input, e.Reason)
}

// ValueError is returned by Format when given a negative byte count.
type ValueError struct {
	Value int64
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("units: negative byte count %d", e.Value)
}

// Parse converts a human-readable size string to a byte count.
//
// The string is a decimal number (integer or fractional) optionally followed
// by a unit label; whitespace around the label is stripped. An empty label
// means a bare byte count. Labels are matched in order against the Customary,
// CustomaryLong, IEC and IECLong tables; a bare "k" is accepted as a legacy
// alias for "K". Fractional values are floored after scaling, so
// Parse("0.5kilo") == 512.
func Parse(s string) (int64, error) {
	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	if i == 0 {
		return 0, &ParseError{Input: s, Reason: "no numeric prefix"}
	}

	value, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, &ParseError{Input: s, Reason: "bad number: " + s[:i]}
	}

	label := strings.TrimSpace(s[i:])
	mult, ok := multiplier(label)
	if !ok {
		return 0, &ParseError{Input: s, Reason: "unknown unit " + strconv.Quote(label)}
	}

	result := value * mult
	if result >= float64(math.MaxInt64) {
		return 0, &ParseError{Input: s, Reason: "value does not fit in a byte count"}
	}
	return int64(result), nil
}

// multiplier resolves a unit label against the symbol tables in order.
// Multipliers are exact powers of two held as float64 because the largest
// units (Z, Y) exceed int64.
func multiplier(label string) (float64, bool) {
	if label == "" {
		return 1, true
	}
	if label == "k" {
		label = "K"
	}
	for _, table := range tables {
		for n, sym := range table {
			if label == sym {
				return math.Ldexp(1, 10*n), true
			}
		}
	}
	return 0, false
}

// Format renders n using DefaultTemplate and the given symbol set.
func Format(n int64, set Set) (string, error) {
	return FormatTemplate(n, DefaultTemplate, set)
}

// FormatTemplate renders n with the largest unit of the set that is <= n.
// The template receives two values: the scaled size (float64) and the unit
// symbol (string). Below the smallest non-byte multiplier the byte symbol is
// used with the raw integer value. Returns a *ValueError when n is negative.
func FormatTemplate(n int64, tmpl string, set Set) (string, error) {
	if n < 0 {
		return "", &ValueError{Value: n}
	}
	table := tables[set]
	for i := len(table) - 1; i >= 1; i-- {
		mult := math.Ldexp(1, 10*i)
		if mult <= float64(n) {
			return fmt.Sprintf(tmpl, float64(n)/mult, table[i]), nil
		}
	}
	return fmt.Sprintf("%d%s", n, table[0]), nil
}

// HumanSize is a display convenience: IEC rendering of a size that is known
// to be non-negative.
func HumanSize(n int64) string {
	s, err := Format(n, IEC)
	if err != nil {
		return strconv.FormatInt(n, 10) + "B"
	}
	return s
}
